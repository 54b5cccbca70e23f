package internal

// Character constants
const (
	CharSingleQuote = '\''
	CharDoubleQuote = '"'
	CharBackslash   = '\\'
	CharNewline     = '\n'
	CharDot         = '.'
	CharUnderscore  = '_'
	CharPipe        = '|'
	CharEquals      = '='
	CharBang        = '!'
	CharGreater     = '>'
	CharLess        = '<'
	CharQuestion    = '?'
	CharColon       = ':'
	CharPlus        = '+'
)

// Operator lexemes
const (
	OpPlus     = "+"
	OpQuestion = "?"
	OpColon    = ":"
	OpBang     = "!"
	OpEq       = "=="
	OpNe       = "!="
	OpGt       = ">"
	OpLt       = "<"
	OpGe       = ">="
	OpLe       = "<="
)

// Canonical text for booleans and non-finite floats
const (
	StrTrue     = "true"
	StrFalse    = "false"
	StrNaN      = "NaN"
	StrPosInf   = "+Inf"
	StrNegInf   = "-Inf"
	StrFraction = ".0"
)

// Value kind names
const (
	KindNameInvalid = "invalid"
	KindNameText    = "text"
	KindNameInt     = "int"
	KindNameFloat   = "float"
	KindNameBool    = "bool"
	KindNameNumber  = "number"
)

// DefaultMaxRepeatLength caps the output of a single repeat directive (64 MiB).
const DefaultMaxRepeatLength = 64 << 20

// SuggestionMinDistance is the edit distance SimilarNames always tolerates.
const SuggestionMinDistance = 2

// Log message constants
const (
	LogMsgCompilerCreated = "compiler created"
	LogMsgCompileStart    = "starting compile"
	LogMsgCompileEnd      = "compile complete"
	LogMsgScanComplete    = "scan complete"
	LogMsgDirectiveParsed = "directive parsed"
	LogMsgDirectiveEmpty  = "directive unrecognized, using empty"
	LogMsgExecutorCreated = "executor created"
	LogMsgExecutorStart   = "starting render"
	LogMsgExecutorEnd     = "render complete"
	LogMsgExecutorFailed  = "render failed"
)

// Log field keys
const (
	LogFieldSource    = "source_len"
	LogFieldSegments  = "segments"
	LogFieldTokens    = "tokens"
	LogFieldOpen      = "open"
	LogFieldClose     = "close"
	LogFieldOffset    = "offset"
	LogFieldDirective = "directive"
	LogFieldOutput    = "output_len"
)

// Error message constants
const (
	ErrMsgUnterminatedDirective = "unterminated directive"
	ErrMsgUnterminatedQuote     = "unterminated quoted literal"
	ErrMsgUndefinedVariable     = "undefined variable"
	ErrMsgTypeMismatch          = "type mismatch"
	ErrMsgRepeatLimit           = "repeat output exceeds limit"
	ErrMsgRenderFailed          = "directive failed"
	ErrMsgInvalidDelimiter      = "invalid delimiter"
)

// Error format strings
const (
	ErrFmtWithPosition   = "%s at %s"
	ErrFmtVariable       = "%s %q"
	ErrFmtTypeMismatch   = "%s: expected %s, got %s"
	ErrFmtTypeMismatchOf = "%s for %q: expected %s, got %s"
	ErrFmtRepeatLimit    = "%s: %d bytes requested, limit %d"
	ErrFmtWithCause      = "%s: %v"
)
