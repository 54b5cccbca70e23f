package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"

	"github.com/itsatony/go-figura"
	"go.uber.org/zap"
)

// renderConfig holds parsed render command configuration
type renderConfig struct {
	engineFlags
	templatePath string
	dataInline   string
	dataFilePath string
	vars         varFlags
	outputPath   string
	sanitize     bool
	interactive  bool
	verbose      bool
}

func runRender(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	cfg, err := parseRenderFlags(args)
	if err != nil {
		fmt.Fprintf(stderr, FmtErrorWithCause, ErrMsgInvalidFlags, err)
		return ExitCodeUsageError
	}

	source, err := readInput(cfg.templatePath, stdin)
	if err != nil {
		fmt.Fprintf(stderr, FmtErrorWithCause, ErrMsgReadFileFailed, err)
		return ExitCodeInputError
	}

	vars, err := loadContext(cfg.dataInline, cfg.dataFilePath)
	if err == nil {
		err = applyVars(vars, cfg.vars)
	}
	if err != nil {
		fmt.Fprintf(stderr, FmtErrorWithCause, ErrMsgInvalidData, err)
		return ExitCodeInputError
	}

	logger, err := newLogger(cfg.verbose)
	if err != nil {
		fmt.Fprintf(stderr, FmtErrorWithCause, ErrMsgLoggerFailed, err)
		return ExitCodeError
	}
	defer func() { _ = logger.Sync() }()

	engine, err := cfg.newEngine(logger)
	if err != nil {
		fmt.Fprintf(stderr, FmtErrorWithCause, ErrMsgEngineFailed, err)
		return ExitCodeUsageError
	}

	tmpl, err := engine.Compile(string(source))
	if err != nil {
		fmt.Fprintf(stderr, FmtErrorWithCause, ErrMsgCompileFailed, err)
		return ExitCodeValidationError
	}

	if cfg.interactive {
		if err := promptMissing(context.Background(), newPrompter(), tmpl, vars); err != nil {
			fmt.Fprintf(stderr, FmtErrorWithCause, ErrMsgPromptFailed, err)
			return ExitCodeInputError
		}
	}

	result, err := tmpl.Render(vars)
	if err != nil {
		fmt.Fprintf(stderr, FmtErrorWithCause, ErrMsgRenderFailed, err)
		return ExitCodeError
	}

	if err := writeOutput(cfg.outputPath, []byte(result), stdout); err != nil {
		fmt.Fprintf(stderr, FmtErrorWithCause, ErrMsgWriteOutputFailed, err)
		return ExitCodeError
	}
	return ExitCodeSuccess
}

func parseRenderFlags(args []string) (*renderConfig, error) {
	fs := flag.NewFlagSet(CmdNameRender, flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	cfg := &renderConfig{}
	cfg.engineFlags.register(fs)

	fs.StringVar(&cfg.templatePath, FlagTemplate, "", "")
	fs.StringVar(&cfg.templatePath, FlagTemplateShort, "", "")
	fs.StringVar(&cfg.dataInline, FlagData, "", "")
	fs.StringVar(&cfg.dataInline, FlagDataShort, "", "")
	fs.StringVar(&cfg.dataFilePath, FlagDataFile, "", "")
	fs.StringVar(&cfg.dataFilePath, FlagDataFileShort, "", "")
	fs.Var(&cfg.vars, FlagVar, "")
	fs.StringVar(&cfg.outputPath, FlagOutput, FlagDefaultOutput, "")
	fs.StringVar(&cfg.outputPath, FlagOutputShort, FlagDefaultOutput, "")
	fs.BoolVar(&cfg.sanitize, FlagSanitize, false, "")
	fs.BoolVar(&cfg.interactive, FlagInteractive, false, "")
	fs.BoolVar(&cfg.interactive, FlagInteractiveShort, false, "")
	fs.BoolVar(&cfg.verbose, FlagVerbose, false, "")
	fs.BoolVar(&cfg.verbose, FlagVerboseShort, false, "")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if cfg.templatePath == "" {
		return nil, errors.New(ErrMsgMissingTemplate)
	}
	if _, _, err := cfg.delimiters(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *renderConfig) newEngine(logger *zap.Logger) (*figura.Engine, error) {
	open, close, err := c.delimiters()
	if err != nil {
		return nil, err
	}
	parser := c.parser()
	if c.sanitize {
		parser = figura.NewSanitizeParser(parser, nil)
	}
	return figura.New(
		figura.WithDelimiters(open, close),
		figura.WithParser(parser),
		figura.WithLogger(logger),
	)
}

// newLogger returns a development logger on stderr when verbose, else a no-op
func newLogger(verbose bool) (*zap.Logger, error) {
	if !verbose {
		return zap.NewNop(), nil
	}
	return zap.NewDevelopment()
}
