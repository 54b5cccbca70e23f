package figura

import (
	"context"
	"errors"
	"sync"
	"time"
)

// CacheConfig configures CachedStorage.
type CacheConfig struct {
	// TTL is how long a cached template stays valid.
	// Default: 5 minutes
	TTL time.Duration

	// MaxEntries bounds the cache. The least recently used entry is evicted
	// when it is full.
	// Default: 1000
	MaxEntries int

	// NegativeCacheTTL is how long a "not found" answer is remembered.
	// Zero disables negative caching.
	// Default: 30 seconds
	NegativeCacheTTL time.Duration
}

// DefaultCacheConfig returns the default caching configuration.
func DefaultCacheConfig() CacheConfig {
	return CacheConfig{
		TTL:              DefaultCacheTTL,
		MaxEntries:       DefaultCacheMaxEntries,
		NegativeCacheTTL: DefaultNegativeCacheTTL,
	}
}

type cacheEntry struct {
	template   *StoredTemplate
	notFound   bool
	expiresAt  time.Time
	accessedAt time.Time
}

// CachedStorage wraps a TemplateStorage and caches Get and GetVersion.
// Writes through the wrapper invalidate the affected name; writes made
// directly to the wrapped storage are seen once entries expire.
type CachedStorage struct {
	storage TemplateStorage
	config  CacheConfig

	mu      sync.Mutex
	entries map[cacheKey]*cacheEntry
	closed  bool
	now     func() time.Time
}

// NewCachedStorage wraps storage. Zero config fields take their defaults.
func NewCachedStorage(storage TemplateStorage, config CacheConfig) *CachedStorage {
	if config.TTL <= 0 {
		config.TTL = DefaultCacheTTL
	}
	if config.MaxEntries <= 0 {
		config.MaxEntries = DefaultCacheMaxEntries
	}
	if config.NegativeCacheTTL < 0 {
		config.NegativeCacheTTL = 0
	}
	return &CachedStorage{
		storage: storage,
		config:  config,
		entries: make(map[cacheKey]*cacheEntry),
		now:     time.Now,
	}
}

// cacheKey identifies a cached lookup of either the latest version or a
// pinned one.
type cacheKey struct {
	name    string
	version int
	latest  bool
}

func latestKey(name string) cacheKey {
	return cacheKey{name: name, latest: true}
}

func versionKey(name string, version int) cacheKey {
	return cacheKey{name: name, version: version}
}

// lookup returns a live entry, or nil.
func (s *CachedStorage) lookup(key cacheKey) (*cacheEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil, NewStorageClosedError()
	}
	entry, ok := s.entries[key]
	if !ok {
		return nil, nil
	}
	now := s.now()
	if now.After(entry.expiresAt) {
		delete(s.entries, key)
		return nil, nil
	}
	entry.accessedAt = now
	return entry, nil
}

func (s *CachedStorage) store(key cacheKey, tmpl *StoredTemplate, err error) {
	notFound := errors.Is(err, ErrTemplateNotFound)
	if err != nil && (!notFound || s.config.NegativeCacheTTL == 0) {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}

	if _, exists := s.entries[key]; !exists && len(s.entries) >= s.config.MaxEntries {
		s.evictOldest()
	}

	now := s.now()
	ttl := s.config.TTL
	if notFound {
		ttl = s.config.NegativeCacheTTL
	}
	s.entries[key] = &cacheEntry{
		template:   copyStoredTemplate(tmpl),
		notFound:   notFound,
		expiresAt:  now.Add(ttl),
		accessedAt: now,
	}
}

// evictOldest drops the least recently accessed entry. Caller holds mu.
func (s *CachedStorage) evictOldest() {
	var (
		oldestKey cacheKey
		oldest    time.Time
		found     bool
	)
	for key, entry := range s.entries {
		if !found || entry.accessedAt.Before(oldest) {
			oldestKey = key
			oldest = entry.accessedAt
			found = true
		}
	}
	if found {
		delete(s.entries, oldestKey)
	}
}

func (s *CachedStorage) cachedGet(ctx context.Context, key cacheKey, notFound func() error, fetch func() (*StoredTemplate, error)) (*StoredTemplate, error) {
	if err := checkContext(ctx); err != nil {
		return nil, err
	}
	entry, err := s.lookup(key)
	if err != nil {
		return nil, err
	}
	if entry != nil {
		if entry.notFound {
			return nil, notFound()
		}
		return copyStoredTemplate(entry.template), nil
	}

	tmpl, err := fetch()
	s.store(key, tmpl, err)
	if err != nil {
		return nil, err
	}
	return copyStoredTemplate(tmpl), nil
}

// Get implements TemplateStorage
func (s *CachedStorage) Get(ctx context.Context, name string) (*StoredTemplate, error) {
	return s.cachedGet(ctx, latestKey(name),
		func() error { return NewTemplateNotFoundError(name) },
		func() (*StoredTemplate, error) { return s.storage.Get(ctx, name) })
}

// GetVersion implements TemplateStorage
func (s *CachedStorage) GetVersion(ctx context.Context, name string, version int) (*StoredTemplate, error) {
	return s.cachedGet(ctx, versionKey(name, version),
		func() error { return NewStorageVersionNotFoundError(name, version) },
		func() (*StoredTemplate, error) { return s.storage.GetVersion(ctx, name, version) })
}

// GetByID implements TemplateStorage. Lookups by ID are not cached.
func (s *CachedStorage) GetByID(ctx context.Context, id TemplateID) (*StoredTemplate, error) {
	if err := s.checkOpen(); err != nil {
		return nil, err
	}
	return s.storage.GetByID(ctx, id)
}

// Save implements TemplateStorage
func (s *CachedStorage) Save(ctx context.Context, tmpl *StoredTemplate) error {
	if err := s.checkOpen(); err != nil {
		return err
	}
	err := s.storage.Save(ctx, tmpl)
	if tmpl != nil {
		s.Invalidate(tmpl.Name)
	}
	return err
}

// Delete implements TemplateStorage
func (s *CachedStorage) Delete(ctx context.Context, name string) error {
	if err := s.checkOpen(); err != nil {
		return err
	}
	err := s.storage.Delete(ctx, name)
	s.Invalidate(name)
	return err
}

// DeleteVersion implements TemplateStorage
func (s *CachedStorage) DeleteVersion(ctx context.Context, name string, version int) error {
	if err := s.checkOpen(); err != nil {
		return err
	}
	err := s.storage.DeleteVersion(ctx, name, version)
	s.Invalidate(name)
	return err
}

// List implements TemplateStorage. Listings are not cached.
func (s *CachedStorage) List(ctx context.Context, query *TemplateQuery) ([]*StoredTemplate, error) {
	if err := s.checkOpen(); err != nil {
		return nil, err
	}
	return s.storage.List(ctx, query)
}

// Exists implements TemplateStorage
func (s *CachedStorage) Exists(ctx context.Context, name string) (bool, error) {
	if err := s.checkOpen(); err != nil {
		return false, err
	}
	return s.storage.Exists(ctx, name)
}

// ListVersions implements TemplateStorage
func (s *CachedStorage) ListVersions(ctx context.Context, name string) ([]int, error) {
	if err := s.checkOpen(); err != nil {
		return nil, err
	}
	return s.storage.ListVersions(ctx, name)
}

// Close clears the cache and closes the wrapped storage.
func (s *CachedStorage) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	s.entries = nil
	s.mu.Unlock()

	return s.storage.Close()
}

// Invalidate drops every cached entry for name.
func (s *CachedStorage) Invalidate(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for key := range s.entries {
		if key.name == name {
			delete(s.entries, key)
		}
	}
}

// Clear drops all cached entries.
func (s *CachedStorage) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.closed {
		s.entries = make(map[cacheKey]*cacheEntry)
	}
}

// Len returns the number of cached entries, live or expired.
func (s *CachedStorage) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

// Unwrap returns the wrapped storage.
func (s *CachedStorage) Unwrap() TemplateStorage {
	return s.storage
}

func (s *CachedStorage) checkOpen() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return NewStorageClosedError()
	}
	return nil
}
