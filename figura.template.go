package figura

import (
	"github.com/itsatony/go-figura/internal"
)

// Template is a compiled, immutable template. Render may be called from any
// number of goroutines at once.
type Template struct {
	name     string
	source   string
	prog     *internal.Program
	executor *internal.Executor
}

func newTemplate(name, source string, prog *internal.Program, executor *internal.Executor) *Template {
	return &Template{
		name:     name,
		source:   source,
		prog:     prog,
		executor: executor,
	}
}

// Render produces the template output for ctx. The first directive that
// fails aborts the render; no partial output is returned. A nil ctx behaves
// as an empty context. Undefined variable errors list similarly named
// context entries under the "suggestions" metadata key.
func (t *Template) Render(ctx *Context) (string, error) {
	out, err := t.executor.Execute(t.prog, ctx)
	if err != nil {
		return "", withSuggestions(NewRenderError(err, t.name), err, ctx)
	}
	return out, nil
}

// RenderMap renders with a context built by ContextFromMap.
func (t *Template) RenderMap(data map[string]any) (string, error) {
	ctx, err := ContextFromMap(data)
	if err != nil {
		return "", err
	}
	return t.Render(ctx)
}

// MustRender renders and panics on error.
func (t *Template) MustRender(ctx *Context) string {
	out, err := t.Render(ctx)
	if err != nil {
		panic(err)
	}
	return out
}

// Name returns the registered name, or "" for anonymous templates.
func (t *Template) Name() string { return t.name }

// Source returns the original template source.
func (t *Template) Source() string { return t.source }

// Delimiters returns the delimiter pair the template was compiled with.
func (t *Template) Delimiters() (open, close rune) {
	return t.prog.Open, t.prog.Close
}

// Variables returns the variable names read by the template's directives,
// in order of first use. Custom directives contribute only if they
// implement VariableLister.
func (t *Template) Variables() []string {
	return t.prog.Variables()
}

// Segments returns the number of compiled segments, literal and directive.
func (t *Template) Segments() int {
	return len(t.prog.Nodes)
}

// Directives returns the number of directive segments.
func (t *Template) Directives() int {
	return t.prog.DirectiveCount()
}
