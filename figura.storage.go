package figura

import (
	"context"
	"sort"
	"strconv"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
)

// TemplateID is a unique identifier for a stored template version
// ("tmpl_" followed by a UUID).
type TemplateID string

// StoredTemplate is a template source with its metadata as kept by a storage
// backend. Each Save produces a new version.
type StoredTemplate struct {
	// ID is the unique identifier for this template version.
	ID TemplateID `json:"id" yaml:"id"`

	// Name is the template name used for lookups.
	Name string `json:"name" yaml:"name"`

	// Source is the raw template text.
	Source string `json:"source" yaml:"source"`

	// Version is the version number (1, 2, 3, ...). Higher versions are newer.
	Version int `json:"version" yaml:"version"`

	// OpenDelim and CloseDelim hold the delimiter characters the source was
	// written for. Empty means the defaults.
	OpenDelim  string `json:"open_delim,omitempty" yaml:"open_delim,omitempty"`
	CloseDelim string `json:"close_delim,omitempty" yaml:"close_delim,omitempty"`

	// Metadata contains arbitrary key-value pairs for user-defined data.
	Metadata map[string]string `json:"metadata,omitempty" yaml:"metadata,omitempty"`

	// Tags for categorization and querying.
	Tags []string `json:"tags,omitempty" yaml:"tags,omitempty"`

	// CreatedBy identifies who created this version (optional).
	CreatedBy string `json:"created_by,omitempty" yaml:"created_by,omitempty"`

	CreatedAt time.Time `json:"created_at" yaml:"created_at"`
	UpdatedAt time.Time `json:"updated_at" yaml:"updated_at"`
}

// Delimiters decodes OpenDelim and CloseDelim, falling back to the defaults
// for empty fields. A field holding more than one character is reported as
// invalid.
func (t *StoredTemplate) Delimiters() (open, close rune, err error) {
	open, err = decodeDelimiter(t.OpenDelim, DefaultOpenDelim)
	if err != nil {
		return 0, 0, err
	}
	close, err = decodeDelimiter(t.CloseDelim, DefaultCloseDelim)
	if err != nil {
		return 0, 0, err
	}
	return open, close, nil
}

func decodeDelimiter(s string, def rune) (rune, error) {
	if s == "" {
		return def, nil
	}
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError || size != len(s) {
		return 0, NewDelimiterError(r, r, ErrInvalidDelimiter)
	}
	return r, nil
}

// TemplateQuery defines filters for listing templates.
type TemplateQuery struct {
	// Tags filters to templates having ALL specified tags.
	Tags []string

	// CreatedBy filters by creator.
	CreatedBy string

	// NamePrefix filters to names starting with this prefix.
	NamePrefix string

	// NameContains filters to names containing this substring.
	NameContains string

	// Limit is the maximum number of results (0 = no limit).
	Limit int

	// Offset is the number of results to skip.
	Offset int

	// IncludeAllVersions includes all versions, not just latest.
	IncludeAllVersions bool
}

// TemplateStorage is the interface for pluggable storage backends.
// Implementations must be safe for concurrent use and must fail every call
// made after Close.
type TemplateStorage interface {
	// Get retrieves the latest version of a template by name.
	Get(ctx context.Context, name string) (*StoredTemplate, error)

	// GetByID retrieves a specific template version by ID.
	GetByID(ctx context.Context, id TemplateID) (*StoredTemplate, error)

	// GetVersion retrieves a specific version of a template.
	GetVersion(ctx context.Context, name string, version int) (*StoredTemplate, error)

	// Save stores tmpl as the next version of its name. ID, Version,
	// CreatedAt and UpdatedAt are set by the storage.
	Save(ctx context.Context, tmpl *StoredTemplate) error

	// Delete removes all versions of a template.
	Delete(ctx context.Context, name string) error

	// DeleteVersion removes one version of a template.
	DeleteVersion(ctx context.Context, name string, version int) error

	// List returns templates matching the query, ordered by name and then
	// by version descending. A nil query matches everything.
	List(ctx context.Context, query *TemplateQuery) ([]*StoredTemplate, error)

	// Exists checks if a template with the given name exists.
	Exists(ctx context.Context, name string) (bool, error)

	// ListVersions returns all version numbers for a template, newest first.
	ListVersions(ctx context.Context, name string) ([]int, error)

	// Close releases any resources held by the storage.
	Close() error
}

// StorageDriver creates storage instances from a driver-specific
// connection string. Drivers register themselves during init().
type StorageDriver interface {
	Open(connectionString string) (TemplateStorage, error)
}

// StorageDriverFunc adapts a function to StorageDriver.
type StorageDriverFunc func(connectionString string) (TemplateStorage, error)

// Open implements StorageDriver
func (f StorageDriverFunc) Open(connectionString string) (TemplateStorage, error) {
	return f(connectionString)
}

// Storage driver registry
var (
	storageDriversMu sync.RWMutex
	storageDrivers   = make(map[string]StorageDriver)
)

// RegisterStorageDriver registers a storage driver by name.
// Panics if driver is nil or the name is taken.
func RegisterStorageDriver(name string, driver StorageDriver) {
	storageDriversMu.Lock()
	defer storageDriversMu.Unlock()

	if driver == nil {
		panic(ErrMsgNilStorageDriver)
	}
	if _, exists := storageDrivers[name]; exists {
		panic(ErrMsgDriverAlreadyRegistered + ": " + name)
	}
	storageDrivers[name] = driver
}

// OpenStorage opens a storage connection using the named driver.
//
//	storage, err := figura.OpenStorage("memory", "")
//	storage, err := figura.OpenStorage("filesystem", "/var/lib/figura")
//	storage, err := figura.OpenStorage("postgres", "postgres://localhost/figura")
func OpenStorage(driverName, connectionString string) (TemplateStorage, error) {
	storageDriversMu.RLock()
	driver, ok := storageDrivers[driverName]
	storageDriversMu.RUnlock()

	if !ok {
		return nil, NewStorageDriverNotFoundError(driverName)
	}
	return driver.Open(connectionString)
}

// ListStorageDrivers returns the names of all registered drivers, sorted.
func ListStorageDrivers() []string {
	storageDriversMu.RLock()
	defer storageDriversMu.RUnlock()

	names := make([]string, 0, len(storageDrivers))
	for name := range storageDrivers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// generateTemplateID returns a fresh "tmpl_<uuid>" identifier.
func generateTemplateID() TemplateID {
	return TemplateID(TemplateIDPrefix + uuid.New().String())
}

// StorageError represents a storage-related error.
type StorageError struct {
	Message string
	Name    string
	Version int
	Cause   error
}

// Error implements the error interface.
func (e *StorageError) Error() string {
	msg := e.Message
	if e.Name != "" {
		msg += ": " + e.Name
		if e.Version > 0 {
			msg += " v" + strconv.Itoa(e.Version)
		}
	}
	if e.Cause != nil && e.Cause != ErrTemplateNotFound && e.Cause != ErrStorageClosed {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

// Unwrap returns the underlying cause.
func (e *StorageError) Unwrap() error {
	return e.Cause
}

// NewStorageDriverNotFoundError creates an error for a missing storage driver.
func NewStorageDriverNotFoundError(name string) error {
	return &StorageError{Message: ErrMsgStorageDriverNotFound, Name: name}
}

// NewStorageVersionNotFoundError reports a missing version. It matches
// ErrTemplateNotFound.
func NewStorageVersionNotFoundError(name string, version int) error {
	return &StorageError{
		Message: ErrMsgVersionNotFound,
		Name:    name,
		Version: version,
		Cause:   ErrTemplateNotFound,
	}
}

// NewStorageClosedError creates an error for operations on closed storage.
func NewStorageClosedError() error {
	return &StorageError{Message: ErrMsgStorageClosed, Cause: ErrStorageClosed}
}

// NewStorageOperationError wraps a backend failure.
func NewStorageOperationError(msg, name string, cause error) error {
	return &StorageError{Message: msg, Name: name, Cause: cause}
}

// copyStoredTemplate returns a deep copy so that callers cannot mutate
// stored state.
func copyStoredTemplate(t *StoredTemplate) *StoredTemplate {
	if t == nil {
		return nil
	}
	c := *t
	c.Metadata = copyStringMap(t.Metadata)
	c.Tags = copyStringSlice(t.Tags)
	return &c
}

func copyStringMap(m map[string]string) map[string]string {
	if m == nil {
		return nil
	}
	c := make(map[string]string, len(m))
	for k, v := range m {
		c[k] = v
	}
	return c
}

func copyStringSlice(s []string) []string {
	if s == nil {
		return nil
	}
	c := make([]string, len(s))
	copy(c, s)
	return c
}

// checkContext reports a cancelled or expired context.
func checkContext(ctx context.Context) error {
	if ctx == nil {
		return nil
	}
	return ctx.Err()
}
