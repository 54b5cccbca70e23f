package figura

import (
	"fmt"
	"sort"
	"sync"

	"github.com/itsatony/go-figura/internal"
	"go.uber.org/zap"
)

// Engine compiles templates with one delimiter pair and one parser, and keeps
// a registry of named templates. An Engine is safe for concurrent use.
type Engine struct {
	config    *engineConfig
	parser    Parser
	compiler  *internal.Compiler
	executor  *internal.Executor
	templates map[string]*Template // Named templates
	tmplMu    sync.RWMutex         // Protects templates map
	logger    *zap.Logger
}

// New creates a new Engine with the given options.
func New(opts ...Option) (*Engine, error) {
	config := defaultEngineConfig()
	for _, opt := range opts {
		opt(config)
	}

	compilerConfig := internal.CompilerConfig{Open: config.open, Close: config.close}
	if err := compilerConfig.Validate(); err != nil {
		return nil, NewDelimiterError(config.open, config.close, err)
	}
	if config.maxRepeatLength <= 0 {
		return nil, NewRepeatLimitConfigError(config.maxRepeatLength)
	}

	logger := config.logger
	if logger == nil {
		logger = zap.NewNop()
	}

	parser := config.parser
	if parser == nil {
		parser = &internal.DefaultParser{MaxRepeatLength: config.maxRepeatLength}
	}

	logger.Debug(LogMsgEngineCreated,
		zap.String(LogFieldOpen, string(config.open)),
		zap.String(LogFieldClose, string(config.close)),
		zap.String(LogFieldParser, fmt.Sprintf("%T", parser)))

	return &Engine{
		config:    config,
		parser:    parser,
		compiler:  internal.NewCompiler(compilerConfig, parser, logger),
		executor:  internal.NewExecutor(logger),
		templates: make(map[string]*Template),
		logger:    logger,
	}, nil
}

// MustNew creates a new Engine and panics if there's an error.
func MustNew(opts ...Option) *Engine {
	engine, err := New(opts...)
	if err != nil {
		panic(err)
	}
	return engine
}

// Compile compiles source into a reusable Template.
func (e *Engine) Compile(source string) (*Template, error) {
	return e.compileNamed("", source)
}

// MustCompile compiles source and panics on error.
func (e *Engine) MustCompile(source string) *Template {
	tmpl, err := e.Compile(source)
	if err != nil {
		panic(err)
	}
	return tmpl
}

func (e *Engine) compileNamed(name, source string) (*Template, error) {
	prog, err := e.compiler.Compile(source)
	if err != nil {
		return nil, withTemplateName(NewCompileError(err), name)
	}
	return newTemplate(name, source, prog, e.executor), nil
}

// compileWithDelimiters compiles source for a delimiter pair that may
// differ from the engine's own, keeping the engine's parser and logger.
func (e *Engine) compileWithDelimiters(name, source string, open, close rune) (*Template, error) {
	if open == e.config.open && close == e.config.close {
		return e.compileNamed(name, source)
	}
	config := internal.CompilerConfig{Open: open, Close: close}
	if err := config.Validate(); err != nil {
		return nil, NewDelimiterError(open, close, err)
	}
	prog, err := internal.NewCompiler(config, e.parser, e.logger).Compile(source)
	if err != nil {
		return nil, withTemplateName(NewCompileError(err), name)
	}
	return newTemplate(name, source, prog, e.executor), nil
}

// Render compiles and renders in one step. For templates rendered more than
// once, compile them first.
func (e *Engine) Render(source string, ctx *Context) (string, error) {
	tmpl, err := e.Compile(source)
	if err != nil {
		return "", err
	}
	return tmpl.Render(ctx)
}

// RenderMap is Render with the context built by ContextFromMap.
func (e *Engine) RenderMap(source string, data map[string]any) (string, error) {
	tmpl, err := e.Compile(source)
	if err != nil {
		return "", err
	}
	return tmpl.RenderMap(data)
}

// RegisterTemplate compiles source and stores it under name.
// Returns an error if a template with the same name already exists.
func (e *Engine) RegisterTemplate(name, source string) error {
	if name == "" {
		return NewEmptyTemplateNameError()
	}

	e.tmplMu.Lock()
	defer e.tmplMu.Unlock()

	if _, exists := e.templates[name]; exists {
		return NewTemplateExistsError(name)
	}

	tmpl, err := e.compileNamed(name, source)
	if err != nil {
		return err
	}

	e.templates[name] = tmpl
	e.logger.Debug(LogMsgTemplateRegistered, zap.String(LogFieldName, name))
	return nil
}

// MustRegisterTemplate registers a template and panics on error.
func (e *Engine) MustRegisterTemplate(name, source string) {
	if err := e.RegisterTemplate(name, source); err != nil {
		panic(err)
	}
}

// UnregisterTemplate removes a registered template by name.
// Returns true if the template existed and was removed, false otherwise.
func (e *Engine) UnregisterTemplate(name string) bool {
	e.tmplMu.Lock()
	defer e.tmplMu.Unlock()

	if _, exists := e.templates[name]; exists {
		delete(e.templates, name)
		e.logger.Debug(LogMsgTemplateRemoved, zap.String(LogFieldName, name))
		return true
	}
	return false
}

// GetTemplate retrieves a registered template by name.
func (e *Engine) GetTemplate(name string) (*Template, bool) {
	e.tmplMu.RLock()
	defer e.tmplMu.RUnlock()

	tmpl, ok := e.templates[name]
	return tmpl, ok
}

// HasTemplate checks if a template is registered with the given name.
func (e *Engine) HasTemplate(name string) bool {
	_, ok := e.GetTemplate(name)
	return ok
}

// ListTemplates returns all registered template names in sorted order.
func (e *Engine) ListTemplates() []string {
	e.tmplMu.RLock()
	defer e.tmplMu.RUnlock()

	names := make([]string, 0, len(e.templates))
	for name := range e.templates {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// TemplateCount returns the number of registered templates.
func (e *Engine) TemplateCount() int {
	e.tmplMu.RLock()
	defer e.tmplMu.RUnlock()

	return len(e.templates)
}

// RenderTemplate renders a registered template by name.
func (e *Engine) RenderTemplate(name string, ctx *Context) (string, error) {
	tmpl, ok := e.GetTemplate(name)
	if !ok {
		return "", NewTemplateNotFoundError(name)
	}
	return tmpl.Render(ctx)
}

// Delimiters returns the engine's open and close characters.
func (e *Engine) Delimiters() (open, close rune) {
	return e.config.open, e.config.close
}

// Parser returns the parser every compile uses.
func (e *Engine) Parser() Parser {
	return e.parser
}
