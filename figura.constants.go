package figura

import "time"

// Default delimiters
const (
	DefaultOpenDelim  = '{'
	DefaultCloseDelim = '}'
)

// DefaultMaxRepeatLength caps the output of one repeat directive (64 MiB).
const DefaultMaxRepeatLength int64 = 64 << 20

// Error code constants for categorization
const (
	ErrCodeCompile = "FIGURA_COMPILE"
	ErrCodeRender  = "FIGURA_RENDER"
	ErrCodeConfig  = "FIGURA_CONFIG"
	ErrCodeStorage = "FIGURA_STORAGE"
)

// Error message constants
const (
	ErrMsgCompileFailed      = "template compilation failed"
	ErrMsgRenderFailed       = "template rendering failed"
	ErrMsgInvalidDelimiters  = "invalid delimiter configuration"
	ErrMsgInvalidRepeatLimit = "repeat limit must be positive"
	ErrMsgTemplateNotFound   = "template not found"
	ErrMsgTemplateExists     = "template already registered"
	ErrMsgEmptyTemplateName  = "template name cannot be empty"
	ErrMsgUnsupportedValue   = "unsupported context value type"
	ErrMsgInvalidValue       = "context value is unset"
	ErrMsgValueOverflow      = "integer value overflows int64"
	ErrMsgDecodeContext      = "failed to decode context data"
	ErrMsgReadContextFile    = "failed to read context file"
	ErrMsgInvalidTemplate    = "template source does not compile"
)

// Storage error message constants
const (
	ErrMsgNilStorage              = "storage is nil"
	ErrMsgNilStorageDriver        = "storage driver is nil"
	ErrMsgDriverAlreadyRegistered = "storage driver already registered"
	ErrMsgStorageDriverNotFound   = "storage driver not found"
	ErrMsgStorageClosed           = "storage is closed"
	ErrMsgVersionNotFound         = "template version not found"
	ErrMsgInvalidTemplateName     = "invalid template name"
	ErrMsgStorageRead             = "failed to read template"
	ErrMsgStorageWrite            = "failed to write template"
	ErrMsgStorageDelete           = "failed to delete template"
	ErrMsgStorageQuery            = "storage query failed"
	ErrMsgStorageConnect          = "failed to connect to storage"
	ErrMsgStorageMigrate          = "storage migration failed"
	ErrMsgInvalidStorageRoot      = "storage root directory is required"
	ErrMsgPathTraversal           = "template name escapes storage root"
	ErrMsgDecodeTemplate          = "failed to decode stored template"
)

// Metadata keys attached to errors
const (
	MetaKeyLine         = "line"
	MetaKeyColumn       = "column"
	MetaKeyOffset       = "offset"
	MetaKeyDirective    = "directive"
	MetaKeyVariable     = "variable"
	MetaKeyExpected     = "expected"
	MetaKeyActual       = "actual"
	MetaKeyTemplateName = "template_name"
	MetaKeyOpen         = "open"
	MetaKeyClose        = "close"
	MetaKeyKey          = "key"
	MetaKeyType         = "type"
	MetaKeyPath         = "path"
	MetaKeyVersion      = "version"
	MetaKeySuggestions  = "suggestions"
)

// MaxSuggestions bounds the similar names listed for an undefined variable.
const MaxSuggestions = 3

// Log message constants
const (
	LogMsgEngineCreated      = "engine created"
	LogMsgTemplateRegistered = "template registered"
	LogMsgTemplateRemoved    = "template unregistered"
	LogMsgStorageCacheHit    = "compiled template cache hit"
	LogMsgStorageCacheMiss   = "compiled template cache miss"
	LogMsgStorageSaved       = "template saved to storage"
	LogMsgStorageInvalidated = "compiled template cache invalidated"
)

// Log field keys
const (
	LogFieldName    = "name"
	LogFieldVersion = "version"
	LogFieldOpen    = "open"
	LogFieldClose   = "close"
	LogFieldParser  = "parser"
)

// Context key separator for flattened nested maps
const ContextKeySeparator = "."

// Layouts for time.Time context values. Midnight UTC renders as a bare date.
const (
	ContextDateLayout = "2006-01-02"
	ContextTimeLayout = time.RFC3339Nano
)

// Storage driver names
const (
	StorageDriverNameMemory     = "memory"
	StorageDriverNameFilesystem = "filesystem"
	StorageDriverNamePostgres   = "postgres"
)

// Template ID prefix
const TemplateIDPrefix = "tmpl_"

// Filesystem storage layout
const (
	FilesystemVersionPrefix   = "v"
	FilesystemVersionSuffix   = ".yaml"
	FilesystemDirPermissions  = 0o755
	FilesystemFilePermissions = 0o644
)

// PostgreSQL defaults
const (
	PostgresTablePrefix            = "figura_"
	PostgresDefaultMaxOpenConns    = 25
	PostgresDefaultMaxIdleConns    = 5
	PostgresDefaultConnMaxLifetime = 5 * time.Minute
	PostgresDefaultConnMaxIdleTime = 5 * time.Minute
	PostgresDefaultQueryTimeout    = 30 * time.Second
)

// Cached storage defaults
const (
	DefaultCacheTTL         = 5 * time.Minute
	DefaultCacheMaxEntries  = 1000
	DefaultNegativeCacheTTL = 30 * time.Second
)

// Filter pipe character used by FilterParser
const FilterPipe = "|"

// Filesystem storage name rules
const (
	FilesystemInvalidNameChars = `/\:*?"<>|`
	FilesystemParentRef        = ".."
)
