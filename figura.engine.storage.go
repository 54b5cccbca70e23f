package figura

import (
	"context"
	"sync"

	"go.uber.org/zap"
)

// StorageEngine renders templates kept in a TemplateStorage. Compiled
// templates are cached per name and version, so a template is compiled
// again only after a new version is saved.
type StorageEngine struct {
	engine  *Engine
	storage TemplateStorage
	logger  *zap.Logger

	mu           sync.RWMutex
	compiled     map[cacheKey]*compiledEntry
	cacheEnabled bool
}

type compiledEntry struct {
	template *Template
	version  int
}

// StorageEngineConfig configures a StorageEngine.
type StorageEngineConfig struct {
	// Storage is the template storage backend (required).
	Storage TemplateStorage

	// Engine supplies the parser and default delimiters. Nil means New().
	Engine *Engine

	// DisableCache compiles on every render.
	DisableCache bool

	// Logger defaults to the engine's logger.
	Logger *zap.Logger
}

// NewStorageEngine creates a StorageEngine.
func NewStorageEngine(config StorageEngineConfig) (*StorageEngine, error) {
	if config.Storage == nil {
		return nil, &StorageError{Message: ErrMsgNilStorage}
	}

	engine := config.Engine
	if engine == nil {
		var err error
		if engine, err = New(WithLogger(config.Logger)); err != nil {
			return nil, err
		}
	}

	logger := config.Logger
	if logger == nil {
		logger = engine.logger
	}

	return &StorageEngine{
		engine:       engine,
		storage:      config.Storage,
		logger:       logger,
		compiled:     make(map[cacheKey]*compiledEntry),
		cacheEnabled: !config.DisableCache,
	}, nil
}

// MustNewStorageEngine creates a StorageEngine and panics on error.
func MustNewStorageEngine(config StorageEngineConfig) *StorageEngine {
	se, err := NewStorageEngine(config)
	if err != nil {
		panic(err)
	}
	return se
}

// Render renders the latest version of the named template.
func (se *StorageEngine) Render(ctx context.Context, name string, vars *Context) (string, error) {
	stored, err := se.storage.Get(ctx, name)
	if err != nil {
		return "", err
	}
	tmpl, err := se.template(stored)
	if err != nil {
		return "", err
	}
	return tmpl.Render(vars)
}

// RenderMap is Render with the context built by ContextFromMap.
func (se *StorageEngine) RenderMap(ctx context.Context, name string, data map[string]any) (string, error) {
	vars, err := ContextFromMap(data)
	if err != nil {
		return "", err
	}
	return se.Render(ctx, name, vars)
}

// RenderVersion renders one specific version of the named template.
func (se *StorageEngine) RenderVersion(ctx context.Context, name string, version int, vars *Context) (string, error) {
	stored, err := se.storage.GetVersion(ctx, name, version)
	if err != nil {
		return "", err
	}
	tmpl, err := se.template(stored)
	if err != nil {
		return "", err
	}
	return tmpl.Render(vars)
}

// Compile returns the compiled form of the latest stored version.
func (se *StorageEngine) Compile(ctx context.Context, name string) (*Template, error) {
	stored, err := se.storage.Get(ctx, name)
	if err != nil {
		return nil, err
	}
	return se.template(stored)
}

// Save compiles tmpl with its own delimiters and stores it as a new
// version. Templates that do not compile are never stored.
func (se *StorageEngine) Save(ctx context.Context, tmpl *StoredTemplate) error {
	if tmpl == nil || tmpl.Name == "" {
		return NewEmptyTemplateNameError()
	}
	if _, err := se.compileStored(tmpl); err != nil {
		return err
	}
	if err := se.storage.Save(ctx, tmpl); err != nil {
		return err
	}
	se.logger.Debug(LogMsgStorageSaved,
		zap.String(LogFieldName, tmpl.Name),
		zap.Int(LogFieldVersion, tmpl.Version))
	se.Invalidate(tmpl.Name)
	return nil
}

// Delete removes all versions of a template.
func (se *StorageEngine) Delete(ctx context.Context, name string) error {
	if err := se.storage.Delete(ctx, name); err != nil {
		return err
	}
	se.Invalidate(name)
	return nil
}

// DeleteVersion removes one version of a template.
func (se *StorageEngine) DeleteVersion(ctx context.Context, name string, version int) error {
	if err := se.storage.DeleteVersion(ctx, name, version); err != nil {
		return err
	}
	se.Invalidate(name)
	return nil
}

// Get returns the latest stored version.
func (se *StorageEngine) Get(ctx context.Context, name string) (*StoredTemplate, error) {
	return se.storage.Get(ctx, name)
}

// List returns stored templates matching query.
func (se *StorageEngine) List(ctx context.Context, query *TemplateQuery) ([]*StoredTemplate, error) {
	return se.storage.List(ctx, query)
}

// ListVersions returns the stored versions of name, newest first.
func (se *StorageEngine) ListVersions(ctx context.Context, name string) ([]int, error) {
	return se.storage.ListVersions(ctx, name)
}

// Engine returns the underlying engine.
func (se *StorageEngine) Engine() *Engine {
	return se.engine
}

// Storage returns the underlying storage backend.
func (se *StorageEngine) Storage() TemplateStorage {
	return se.storage
}

// Invalidate drops the compiled templates cached for name.
func (se *StorageEngine) Invalidate(name string) {
	se.mu.Lock()
	defer se.mu.Unlock()

	for key, entry := range se.compiled {
		if entry.template.Name() == name {
			delete(se.compiled, key)
		}
	}
	se.logger.Debug(LogMsgStorageInvalidated, zap.String(LogFieldName, name))
}

// ClearCache drops every cached compiled template.
func (se *StorageEngine) ClearCache() {
	se.mu.Lock()
	se.compiled = make(map[cacheKey]*compiledEntry)
	se.mu.Unlock()
}

// CacheLen returns the number of cached compiled templates.
func (se *StorageEngine) CacheLen() int {
	se.mu.RLock()
	defer se.mu.RUnlock()
	return len(se.compiled)
}

// Close clears the cache and closes the storage.
func (se *StorageEngine) Close() error {
	se.ClearCache()
	return se.storage.Close()
}

func (se *StorageEngine) template(stored *StoredTemplate) (*Template, error) {
	if !se.cacheEnabled {
		return se.compileStored(stored)
	}

	key := versionKey(stored.Name, stored.Version)
	se.mu.RLock()
	entry, ok := se.compiled[key]
	se.mu.RUnlock()
	if ok && entry.version == stored.Version {
		se.logger.Debug(LogMsgStorageCacheHit,
			zap.String(LogFieldName, stored.Name),
			zap.Int(LogFieldVersion, stored.Version))
		return entry.template, nil
	}

	se.logger.Debug(LogMsgStorageCacheMiss,
		zap.String(LogFieldName, stored.Name),
		zap.Int(LogFieldVersion, stored.Version))
	tmpl, err := se.compileStored(stored)
	if err != nil {
		return nil, err
	}

	se.mu.Lock()
	se.compiled[key] = &compiledEntry{template: tmpl, version: stored.Version}
	se.mu.Unlock()
	return tmpl, nil
}

func (se *StorageEngine) compileStored(stored *StoredTemplate) (*Template, error) {
	open, close, err := stored.Delimiters()
	if err != nil {
		return nil, err
	}
	return se.engine.compileWithDelimiters(stored.Name, stored.Source, open, close)
}
