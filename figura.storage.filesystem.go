package figura

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"gopkg.in/yaml.v3"
)

func init() {
	RegisterStorageDriver(StorageDriverNameFilesystem, StorageDriverFunc(func(root string) (TemplateStorage, error) {
		s, err := NewFilesystemStorage(root)
		if err != nil {
			return nil, err
		}
		return s, nil
	}))
}

// FilesystemStorage keeps one YAML document per template version:
//
//	<root>/
//	  <template-name>/
//	    v1.yaml
//	    v2.yaml
//
// The files are plain enough to edit by hand or keep in version control.
type FilesystemStorage struct {
	mu     sync.RWMutex
	root   string
	closed bool
}

// NewFilesystemStorage opens root, creating it if needed.
func NewFilesystemStorage(root string) (*FilesystemStorage, error) {
	if root == "" {
		return nil, &StorageError{Message: ErrMsgInvalidStorageRoot}
	}
	if err := os.MkdirAll(root, FilesystemDirPermissions); err != nil {
		return nil, NewStorageOperationError(ErrMsgStorageWrite, root, err)
	}
	return &FilesystemStorage{root: root}, nil
}

// Root returns the storage directory.
func (s *FilesystemStorage) Root() string { return s.root }

func (s *FilesystemStorage) begin(ctx context.Context, name string, write bool) (func(), error) {
	if err := checkContext(ctx); err != nil {
		return nil, err
	}
	if name != "" {
		if err := validateTemplateNameForFilesystem(name); err != nil {
			return nil, err
		}
	}
	if write {
		s.mu.Lock()
	} else {
		s.mu.RLock()
	}
	unlock := s.mu.RUnlock
	if write {
		unlock = s.mu.Unlock
	}
	if s.closed {
		unlock()
		return nil, NewStorageClosedError()
	}
	return unlock, nil
}

// Get implements TemplateStorage
func (s *FilesystemStorage) Get(ctx context.Context, name string) (*StoredTemplate, error) {
	done, err := s.begin(ctx, name, false)
	if err != nil {
		return nil, err
	}
	defer done()

	versions, err := s.versions(name)
	if err != nil {
		return nil, err
	}
	if len(versions) == 0 {
		return nil, NewTemplateNotFoundError(name)
	}
	return s.load(name, versions[0])
}

// GetByID implements TemplateStorage. IDs are not indexed, so this walks
// every stored version.
func (s *FilesystemStorage) GetByID(ctx context.Context, id TemplateID) (*StoredTemplate, error) {
	done, err := s.begin(ctx, "", false)
	if err != nil {
		return nil, err
	}
	defer done()

	var found *StoredTemplate
	err = s.walk(func(t *StoredTemplate) bool {
		if t.ID == id {
			found = t
			return false
		}
		return true
	})
	if err != nil {
		return nil, err
	}
	if found == nil {
		return nil, NewTemplateNotFoundError(string(id))
	}
	return found, nil
}

// GetVersion implements TemplateStorage
func (s *FilesystemStorage) GetVersion(ctx context.Context, name string, version int) (*StoredTemplate, error) {
	done, err := s.begin(ctx, name, false)
	if err != nil {
		return nil, err
	}
	defer done()

	return s.load(name, version)
}

// Save implements TemplateStorage
func (s *FilesystemStorage) Save(ctx context.Context, tmpl *StoredTemplate) error {
	if tmpl == nil || tmpl.Name == "" {
		return NewEmptyTemplateNameError()
	}
	done, err := s.begin(ctx, tmpl.Name, true)
	if err != nil {
		return err
	}
	defer done()

	dir := filepath.Join(s.root, tmpl.Name)
	if err := os.MkdirAll(dir, FilesystemDirPermissions); err != nil {
		return NewStorageOperationError(ErrMsgStorageWrite, tmpl.Name, err)
	}

	versions, err := s.versions(tmpl.Name)
	if err != nil {
		return err
	}
	next := 1
	if len(versions) > 0 {
		next = versions[0] + 1
	}

	now := time.Now().UTC()
	stored := copyStoredTemplate(tmpl)
	stored.ID = generateTemplateID()
	stored.Version = next
	stored.CreatedAt = now
	stored.UpdatedAt = now

	data, err := yaml.Marshal(stored)
	if err != nil {
		return NewStorageOperationError(ErrMsgStorageWrite, tmpl.Name, err)
	}
	if err := os.WriteFile(s.path(tmpl.Name, next), data, FilesystemFilePermissions); err != nil {
		return NewStorageOperationError(ErrMsgStorageWrite, tmpl.Name, err)
	}

	tmpl.ID = stored.ID
	tmpl.Version = stored.Version
	tmpl.CreatedAt = stored.CreatedAt
	tmpl.UpdatedAt = stored.UpdatedAt
	return nil
}

// Delete implements TemplateStorage
func (s *FilesystemStorage) Delete(ctx context.Context, name string) error {
	done, err := s.begin(ctx, name, true)
	if err != nil {
		return err
	}
	defer done()

	dir := filepath.Join(s.root, name)
	if _, err := os.Stat(dir); errors.Is(err, fs.ErrNotExist) {
		return NewTemplateNotFoundError(name)
	}
	if err := os.RemoveAll(dir); err != nil {
		return NewStorageOperationError(ErrMsgStorageDelete, name, err)
	}
	return nil
}

// DeleteVersion implements TemplateStorage. Removing the last version
// removes the template directory too.
func (s *FilesystemStorage) DeleteVersion(ctx context.Context, name string, version int) error {
	done, err := s.begin(ctx, name, true)
	if err != nil {
		return err
	}
	defer done()

	if err := os.Remove(s.path(name, version)); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return NewStorageVersionNotFoundError(name, version)
		}
		return NewStorageOperationError(ErrMsgStorageDelete, name, err)
	}

	remaining, err := s.versions(name)
	if err == nil && len(remaining) == 0 {
		_ = os.Remove(filepath.Join(s.root, name))
	}
	return nil
}

// List implements TemplateStorage
func (s *FilesystemStorage) List(ctx context.Context, query *TemplateQuery) ([]*StoredTemplate, error) {
	if query == nil {
		query = &TemplateQuery{}
	}
	done, err := s.begin(ctx, "", false)
	if err != nil {
		return nil, err
	}
	defer done()

	names, err := s.names()
	if err != nil {
		return nil, err
	}

	var results []*StoredTemplate
	for _, name := range names {
		if !matchesName(name, query) {
			continue
		}
		versions, err := s.versions(name)
		if err != nil || len(versions) == 0 {
			continue
		}
		if !query.IncludeAllVersions {
			versions = versions[:1]
		}
		for _, v := range versions {
			if err := checkContext(ctx); err != nil {
				return nil, err
			}
			tmpl, err := s.load(name, v)
			if err != nil {
				return nil, err
			}
			if matchesQuery(tmpl, query) {
				results = append(results, tmpl)
			}
		}
	}

	sortStoredTemplates(results)
	return paginate(results, query.Offset, query.Limit), nil
}

// Exists implements TemplateStorage
func (s *FilesystemStorage) Exists(ctx context.Context, name string) (bool, error) {
	done, err := s.begin(ctx, name, false)
	if err != nil {
		return false, err
	}
	defer done()

	versions, err := s.versions(name)
	if err != nil {
		return false, err
	}
	return len(versions) > 0, nil
}

// ListVersions implements TemplateStorage
func (s *FilesystemStorage) ListVersions(ctx context.Context, name string) ([]int, error) {
	done, err := s.begin(ctx, name, false)
	if err != nil {
		return nil, err
	}
	defer done()

	return s.versions(name)
}

// Close marks the storage closed. Files on disk are left in place.
func (s *FilesystemStorage) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.closed = true
	return nil
}

func (s *FilesystemStorage) path(name string, version int) string {
	return filepath.Join(s.root, name, FilesystemVersionPrefix+strconv.Itoa(version)+FilesystemVersionSuffix)
}

// names lists template directories under root.
func (s *FilesystemStorage) names() ([]string, error) {
	entries, err := os.ReadDir(s.root)
	if err != nil {
		return nil, NewStorageOperationError(ErrMsgStorageRead, s.root, err)
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() {
			names = append(names, e.Name())
		}
	}
	return names, nil
}

// versions returns the version numbers present for name, newest first.
func (s *FilesystemStorage) versions(name string) ([]int, error) {
	entries, err := os.ReadDir(filepath.Join(s.root, name))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return []int{}, nil
		}
		return nil, NewStorageOperationError(ErrMsgStorageRead, name, err)
	}

	versions := make([]int, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if v := parseVersionFile(e.Name()); v > 0 {
			versions = append(versions, v)
		}
	}
	sort.Sort(sort.Reverse(sort.IntSlice(versions)))
	return versions, nil
}

func (s *FilesystemStorage) load(name string, version int) (*StoredTemplate, error) {
	data, err := os.ReadFile(s.path(name, version))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, NewStorageVersionNotFoundError(name, version)
		}
		return nil, NewStorageOperationError(ErrMsgStorageRead, name, err)
	}

	var tmpl StoredTemplate
	if err := yaml.Unmarshal(data, &tmpl); err != nil {
		return nil, NewStorageOperationError(ErrMsgDecodeTemplate, name, err)
	}
	return &tmpl, nil
}

// walk calls fn for every stored version until fn returns false.
// Unreadable files are skipped.
func (s *FilesystemStorage) walk(fn func(*StoredTemplate) bool) error {
	names, err := s.names()
	if err != nil {
		return err
	}
	for _, name := range names {
		versions, err := s.versions(name)
		if err != nil {
			continue
		}
		for _, v := range versions {
			tmpl, err := s.load(name, v)
			if err != nil {
				continue
			}
			if !fn(tmpl) {
				return nil
			}
		}
	}
	return nil
}

// parseVersionFile extracts N from "vN.yaml"; anything else yields 0.
func parseVersionFile(filename string) int {
	if !strings.HasPrefix(filename, FilesystemVersionPrefix) || !strings.HasSuffix(filename, FilesystemVersionSuffix) {
		return 0
	}
	digits := filename[len(FilesystemVersionPrefix) : len(filename)-len(FilesystemVersionSuffix)]
	if digits == "" || strings.TrimLeft(digits, "0123456789") != "" {
		return 0
	}
	v, err := strconv.Atoi(digits)
	if err != nil {
		return 0
	}
	return v
}

// validateTemplateNameForFilesystem rejects names that would leave the
// storage root or are not portable file names.
func validateTemplateNameForFilesystem(name string) error {
	if name == "" {
		return &StorageError{Message: ErrMsgInvalidTemplateName}
	}
	if strings.Contains(name, FilesystemParentRef) {
		return &StorageError{Message: ErrMsgPathTraversal, Name: name}
	}
	if strings.ContainsAny(name, FilesystemInvalidNameChars) {
		return &StorageError{Message: ErrMsgInvalidTemplateName, Name: name}
	}
	return nil
}
