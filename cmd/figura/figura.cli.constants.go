package main

// Command names
const (
	CmdNameRender   = "render"
	CmdNameValidate = "validate"
	CmdNameVersion  = "version"
	CmdNameHelp     = "help"
)

// Flag names - long form
const (
	FlagTemplate    = "template"
	FlagData        = "data"
	FlagDataFile    = "data-file"
	FlagVar         = "var"
	FlagOutput      = "output"
	FlagFormat      = "format"
	FlagOpen        = "open"
	FlagClose       = "close"
	FlagFilters     = "filters"
	FlagSanitize    = "sanitize"
	FlagInteractive = "interactive"
	FlagVerbose     = "verbose"
)

// Flag names - short form
const (
	FlagTemplateShort    = "t"
	FlagDataShort        = "d"
	FlagDataFileShort    = "f"
	FlagOutputShort      = "o"
	FlagFormatShort      = "F"
	FlagInteractiveShort = "i"
	FlagVerboseShort     = "v"
)

// Flag default values
const (
	FlagDefaultOutput = "-" // stdout
	FlagDefaultFormat = "text"
	FlagDefaultOpen   = "{"
	FlagDefaultClose  = "}"
)

// Output formats
const (
	OutputFormatText = "text"
	OutputFormatJSON = "json"
)

// Exit codes
const (
	ExitCodeSuccess         = 0
	ExitCodeError           = 1
	ExitCodeUsageError      = 2
	ExitCodeValidationError = 3
	ExitCodeInputError      = 4
)

// Input source indicators
const (
	InputSourceStdin = "-"
	VarAssignment    = "="
	JSONIndent       = "  "
)

// Error messages
const (
	ErrMsgUnknownCommand    = "unknown command"
	ErrMsgMissingTemplate   = "template source required"
	ErrMsgInvalidFlags      = "invalid arguments"
	ErrMsgInvalidVar        = "variable assignment must be name=value"
	ErrMsgInvalidDelimiter  = "delimiter must be a single character"
	ErrMsgInvalidData       = "invalid context data"
	ErrMsgReadFileFailed    = "failed to read file"
	ErrMsgWriteOutputFailed = "failed to write output"
	ErrMsgEncodeJSONFailed  = "failed to encode JSON"
	ErrMsgEngineFailed      = "invalid engine configuration"
	ErrMsgCompileFailed     = "template compilation failed"
	ErrMsgRenderFailed      = "template rendering failed"
	ErrMsgPromptFailed      = "failed to read variable value"
	ErrMsgPromptAborted     = "prompt aborted"
	ErrMsgInvalidFormat     = "invalid output format"
	ErrMsgLoggerFailed      = "failed to create logger"
)

// Interactive prompt text
const (
	PromptVariableMessage = "Value for %q:"
	PromptVariableHelp    = "Numbers, true/false and quoted strings are read as YAML scalars."
)

// Help text
const (
	HelpMainUsage = `figura - delimiter-directive text templating CLI

Usage:
    figura <command> [options]

Commands:
    render      Render a template with context data
    validate    Compile a template without rendering it
    version     Show version information
    help        Show help for a command

Use "figura help <command>" for more information about a command.`

	HelpRenderUsage = `Render a template with context data

Usage:
    figura render [options]

Options:
    -t, --template <file>   Template file (use "-" for stdin)
    -d, --data <yaml>       Inline YAML or JSON context data
    -f, --data-file <file>  YAML or JSON context file
    --var <name=value>      Set one variable (repeatable)
    -o, --output <file>     Output file (default: stdout)
    --open <char>           Opening delimiter (default: "{")
    --close <char>          Closing delimiter (default: "}")
    --filters               Enable concatenation and string filters
    --sanitize              Strip HTML from directive output
    -i, --interactive       Prompt for variables missing from the context
    -v, --verbose           Log compile and render events to stderr

Examples:
    figura render -t greeting.txt --var name=Alice
    figura render -t report.txt -f data.yaml -o report.out
    echo 'Hi <name>' | figura render -t - --open '<' --close '>' -d '{name: Bob}'
    figura render -t banner.txt --filters -i`

	HelpValidateUsage = `Compile a template without rendering it

Usage:
    figura validate [options]

Options:
    -t, --template <file>   Template file (use "-" for stdin)
    -F, --format <format>   Output format: text, json (default: text)
    --open <char>           Opening delimiter (default: "{")
    --close <char>          Closing delimiter (default: "}")
    --filters               Enable concatenation and string filters

Examples:
    figura validate -t template.txt
    cat template.txt | figura validate -t - -F json`

	HelpVersionUsage = `Show version information

Usage:
    figura version [options]

Options:
    -F, --format <format>   Output format: text, json (default: text)`

	HelpHelpUsage = `Show help for a command

Usage:
    figura help [command]

Commands:
    render      Show help for render command
    validate    Show help for validate command
    version     Show help for version command`
)

// Version output
const (
	VersionTextTemplate = "go-figura version %s\nCommit: %s\nBranch: %s\nBuilt: %s\nGo: %s"
	VersionUnknown      = "unknown"
)

// Validation output
const (
	ValidationTextSuccess   = "Template is valid"
	ValidationTextSummary   = "%d directive(s), %d segment(s)"
	ValidationTextVariables = "Variables: %s"
	ValidationTextFailure   = "Template is invalid: %s"
	ValidationTextPosition  = "  at line %s, column %s"
)

// CLI metadata
const (
	CLIName        = "figura"
	CLIDescription = "Delimiter-directive text templating CLI"
)

// File permission constant
const (
	FilePermissions = 0644
)

// Format string constants
const (
	FmtErrorWithDetail = "%s: %s\n"
	FmtErrorWithCause  = "%s: %v\n"
	FmtErrorWrap       = "%s: %w"
	FmtNewline         = "\n"
)
