package figura

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"
)

func init() {
	RegisterStorageDriver(StorageDriverNameMemory, StorageDriverFunc(func(string) (TemplateStorage, error) {
		return NewMemoryStorage(), nil
	}))
}

// MemoryStorage keeps templates in process memory. It is meant for tests,
// development and as the backing store of short-lived tools.
type MemoryStorage struct {
	mu        sync.RWMutex
	templates map[string][]*StoredTemplate // name -> versions, newest first
	byID      map[TemplateID]*StoredTemplate
	closed    bool
	now       func() time.Time
}

// NewMemoryStorage creates an empty in-memory storage.
func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{
		templates: make(map[string][]*StoredTemplate),
		byID:      make(map[TemplateID]*StoredTemplate),
		now:       time.Now,
	}
}

// view runs fn under the read lock after the context and closed checks.
func (s *MemoryStorage) view(ctx context.Context, fn func() error) error {
	if err := checkContext(ctx); err != nil {
		return err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return NewStorageClosedError()
	}
	return fn()
}

// update runs fn under the write lock after the context and closed checks.
func (s *MemoryStorage) update(ctx context.Context, fn func() error) error {
	if err := checkContext(ctx); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return NewStorageClosedError()
	}
	return fn()
}

// Get implements TemplateStorage
func (s *MemoryStorage) Get(ctx context.Context, name string) (*StoredTemplate, error) {
	var out *StoredTemplate
	err := s.view(ctx, func() error {
		versions := s.templates[name]
		if len(versions) == 0 {
			return NewTemplateNotFoundError(name)
		}
		out = copyStoredTemplate(versions[0])
		return nil
	})
	return out, err
}

// GetByID implements TemplateStorage
func (s *MemoryStorage) GetByID(ctx context.Context, id TemplateID) (*StoredTemplate, error) {
	var out *StoredTemplate
	err := s.view(ctx, func() error {
		tmpl, ok := s.byID[id]
		if !ok {
			return NewTemplateNotFoundError(string(id))
		}
		out = copyStoredTemplate(tmpl)
		return nil
	})
	return out, err
}

// GetVersion implements TemplateStorage
func (s *MemoryStorage) GetVersion(ctx context.Context, name string, version int) (*StoredTemplate, error) {
	var out *StoredTemplate
	err := s.view(ctx, func() error {
		i := indexOfVersion(s.templates[name], version)
		if i < 0 {
			return NewStorageVersionNotFoundError(name, version)
		}
		out = copyStoredTemplate(s.templates[name][i])
		return nil
	})
	return out, err
}

// Save implements TemplateStorage
func (s *MemoryStorage) Save(ctx context.Context, tmpl *StoredTemplate) error {
	if tmpl == nil || tmpl.Name == "" {
		return NewEmptyTemplateNameError()
	}
	return s.update(ctx, func() error {
		versions := s.templates[tmpl.Name]
		next := 1
		if len(versions) > 0 {
			next = versions[0].Version + 1
		}

		now := s.now()
		tmpl.ID = generateTemplateID()
		tmpl.Version = next
		tmpl.CreatedAt = now
		tmpl.UpdatedAt = now

		stored := copyStoredTemplate(tmpl)
		s.templates[tmpl.Name] = append([]*StoredTemplate{stored}, versions...)
		s.byID[stored.ID] = stored
		return nil
	})
}

// Delete implements TemplateStorage
func (s *MemoryStorage) Delete(ctx context.Context, name string) error {
	return s.update(ctx, func() error {
		versions, ok := s.templates[name]
		if !ok {
			return NewTemplateNotFoundError(name)
		}
		for _, v := range versions {
			delete(s.byID, v.ID)
		}
		delete(s.templates, name)
		return nil
	})
}

// DeleteVersion implements TemplateStorage
func (s *MemoryStorage) DeleteVersion(ctx context.Context, name string, version int) error {
	return s.update(ctx, func() error {
		versions := s.templates[name]
		i := indexOfVersion(versions, version)
		if i < 0 {
			return NewStorageVersionNotFoundError(name, version)
		}
		delete(s.byID, versions[i].ID)

		rest := append(versions[:i:i], versions[i+1:]...)
		if len(rest) == 0 {
			delete(s.templates, name)
		} else {
			s.templates[name] = rest
		}
		return nil
	})
}

// List implements TemplateStorage
func (s *MemoryStorage) List(ctx context.Context, query *TemplateQuery) ([]*StoredTemplate, error) {
	if query == nil {
		query = &TemplateQuery{}
	}
	var results []*StoredTemplate
	err := s.view(ctx, func() error {
		for name, versions := range s.templates {
			if !matchesName(name, query) {
				continue
			}
			candidates := versions
			if !query.IncludeAllVersions {
				candidates = versions[:1]
			}
			for _, v := range candidates {
				if matchesQuery(v, query) {
					results = append(results, copyStoredTemplate(v))
				}
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sortStoredTemplates(results)
	return paginate(results, query.Offset, query.Limit), nil
}

// Exists implements TemplateStorage
func (s *MemoryStorage) Exists(ctx context.Context, name string) (bool, error) {
	var ok bool
	err := s.view(ctx, func() error {
		ok = len(s.templates[name]) > 0
		return nil
	})
	return ok, err
}

// ListVersions implements TemplateStorage
func (s *MemoryStorage) ListVersions(ctx context.Context, name string) ([]int, error) {
	var out []int
	err := s.view(ctx, func() error {
		versions := s.templates[name]
		out = make([]int, len(versions))
		for i, v := range versions {
			out[i] = v.Version
		}
		return nil
	})
	return out, err
}

// Close releases all stored templates. Later calls fail.
func (s *MemoryStorage) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.closed = true
	s.templates = nil
	s.byID = nil
	return nil
}

func indexOfVersion(versions []*StoredTemplate, version int) int {
	for i, v := range versions {
		if v.Version == version {
			return i
		}
	}
	return -1
}

// matchesName applies the name filters of query.
func matchesName(name string, query *TemplateQuery) bool {
	if query.NamePrefix != "" && !strings.HasPrefix(name, query.NamePrefix) {
		return false
	}
	if query.NameContains != "" && !strings.Contains(name, query.NameContains) {
		return false
	}
	return true
}

// matchesQuery applies the per-version filters of query.
func matchesQuery(tmpl *StoredTemplate, query *TemplateQuery) bool {
	if query.CreatedBy != "" && tmpl.CreatedBy != query.CreatedBy {
		return false
	}
	for _, tag := range query.Tags {
		if !containsString(tmpl.Tags, tag) {
			return false
		}
	}
	return true
}

func containsString(list []string, s string) bool {
	for _, item := range list {
		if item == s {
			return true
		}
	}
	return false
}

// sortStoredTemplates orders by name, then version descending.
func sortStoredTemplates(list []*StoredTemplate) {
	sort.Slice(list, func(i, j int) bool {
		if list[i].Name != list[j].Name {
			return list[i].Name < list[j].Name
		}
		return list[i].Version > list[j].Version
	})
}

func paginate(list []*StoredTemplate, offset, limit int) []*StoredTemplate {
	if offset > 0 {
		if offset >= len(list) {
			return []*StoredTemplate{}
		}
		list = list[offset:]
	}
	if limit > 0 && len(list) > limit {
		list = list[:limit]
	}
	return list
}
