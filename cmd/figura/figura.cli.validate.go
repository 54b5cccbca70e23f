package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/itsatony/go-cuserr"
	"github.com/itsatony/go-figura"
)

// validateConfig holds parsed validate command configuration
type validateConfig struct {
	engineFlags
	templatePath string
	format       string
}

// validationOutput is the JSON form of a validation result
type validationOutput struct {
	Valid      bool     `json:"valid"`
	Error      string   `json:"error,omitempty"`
	Line       int      `json:"line,omitempty"`
	Column     int      `json:"column,omitempty"`
	Directives int      `json:"directives"`
	Segments   int      `json:"segments"`
	Variables  []string `json:"variables"`
}

func runValidate(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	cfg, err := parseValidateFlags(args)
	if err != nil {
		fmt.Fprintf(stderr, FmtErrorWithCause, ErrMsgInvalidFlags, err)
		return ExitCodeUsageError
	}

	source, err := readInput(cfg.templatePath, stdin)
	if err != nil {
		fmt.Fprintf(stderr, FmtErrorWithCause, ErrMsgReadFileFailed, err)
		return ExitCodeInputError
	}

	open, close, _ := cfg.delimiters()
	engine, err := figura.New(figura.WithDelimiters(open, close), figura.WithParser(cfg.parser()))
	if err != nil {
		fmt.Fprintf(stderr, FmtErrorWithCause, ErrMsgEngineFailed, err)
		return ExitCodeUsageError
	}

	tmpl, compileErr := engine.Compile(string(source))
	result := newValidationOutput(tmpl, compileErr)

	if cfg.format == OutputFormatJSON {
		if err := writeJSON(stdout, result); err != nil {
			fmt.Fprintf(stderr, FmtErrorWithCause, ErrMsgWriteOutputFailed, err)
			return ExitCodeError
		}
	} else {
		outputValidationText(result, stdout)
	}

	if !result.Valid {
		return ExitCodeValidationError
	}
	return ExitCodeSuccess
}

func parseValidateFlags(args []string) (*validateConfig, error) {
	fs := flag.NewFlagSet(CmdNameValidate, flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	cfg := &validateConfig{}
	cfg.engineFlags.register(fs)

	fs.StringVar(&cfg.templatePath, FlagTemplate, "", "")
	fs.StringVar(&cfg.templatePath, FlagTemplateShort, "", "")
	fs.StringVar(&cfg.format, FlagFormat, FlagDefaultFormat, "")
	fs.StringVar(&cfg.format, FlagFormatShort, FlagDefaultFormat, "")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if cfg.templatePath == "" {
		return nil, errors.New(ErrMsgMissingTemplate)
	}
	if cfg.format != OutputFormatText && cfg.format != OutputFormatJSON {
		return nil, errors.New(ErrMsgInvalidFormat)
	}
	if _, _, err := cfg.delimiters(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func newValidationOutput(tmpl *figura.Template, compileErr error) *validationOutput {
	if compileErr != nil {
		out := &validationOutput{Error: compileErr.Error(), Variables: []string{}}
		var ce *cuserr.CustomError
		if errors.As(compileErr, &ce) {
			out.Line = metadataInt(ce, figura.MetaKeyLine)
			out.Column = metadataInt(ce, figura.MetaKeyColumn)
		}
		return out
	}

	variables := tmpl.Variables()
	if variables == nil {
		variables = []string{}
	}
	return &validationOutput{
		Valid:      true,
		Directives: tmpl.Directives(),
		Segments:   tmpl.Segments(),
		Variables:  variables,
	}
}

func metadataInt(ce *cuserr.CustomError, key string) int {
	raw, ok := ce.GetMetadata(key)
	if !ok {
		return 0
	}
	n, _ := strconv.Atoi(raw)
	return n
}

func outputValidationText(result *validationOutput, stdout io.Writer) {
	if !result.Valid {
		fmt.Fprintf(stdout, ValidationTextFailure+FmtNewline, result.Error)
		if result.Line > 0 {
			fmt.Fprintf(stdout, ValidationTextPosition+FmtNewline,
				strconv.Itoa(result.Line), strconv.Itoa(result.Column))
		}
		return
	}

	fmt.Fprintln(stdout, ValidationTextSuccess)
	fmt.Fprintf(stdout, ValidationTextSummary+FmtNewline, result.Directives, result.Segments)
	if len(result.Variables) > 0 {
		fmt.Fprintf(stdout, ValidationTextVariables+FmtNewline, strings.Join(result.Variables, ", "))
	}
}
