package figura

import (
	"sort"
	"sync"

	"github.com/Masterminds/sprig/v3"
)

// FilterFunc transforms rendered text.
type FilterFunc func(string) string

var (
	sprigFiltersOnce sync.Once
	sprigFilters     map[string]FilterFunc
)

// builtinFilters collects every single-string function from sprig's text
// function map (upper, lower, trim, title, snakecase, b64enc and so on).
func builtinFilters() map[string]FilterFunc {
	sprigFiltersOnce.Do(func() {
		sprigFilters = make(map[string]FilterFunc)
		for name, fn := range sprig.TxtFuncMap() {
			if f, ok := fn.(func(string) string); ok {
				sprigFilters[name] = f
			}
		}
	})
	return sprigFilters
}

// FilterParser recognises a value piped through named filters:
//
//	{name | upper}
//	{'  padded  ' | trim | title}
//
// The input is a variable or a string literal. A filter name the parser does
// not know makes the whole body a non-match.
type FilterParser struct {
	filters map[string]FilterFunc
	mu      sync.RWMutex
}

// NewFilterParser creates a filter parser preloaded with the sprig filters.
func NewFilterParser() *FilterParser {
	base := builtinFilters()
	filters := make(map[string]FilterFunc, len(base))
	for name, fn := range base {
		filters[name] = fn
	}
	return &FilterParser{filters: filters}
}

// Register adds or replaces a filter. Templates compiled earlier keep the
// function they were compiled with.
func (p *FilterParser) Register(name string, fn FilterFunc) *FilterParser {
	if name == "" || fn == nil {
		return p
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.filters[name] = fn
	return p
}

// Lookup returns the named filter.
func (p *FilterParser) Lookup(name string) (FilterFunc, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	fn, ok := p.filters[name]
	return fn, ok
}

// Filters returns the known filter names in sorted order.
func (p *FilterParser) Filters() []string {
	p.mu.RLock()
	defer p.mu.RUnlock()

	names := make([]string, 0, len(p.filters))
	for name := range p.filters {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Parse implements Parser
func (p *FilterParser) Parse(tokens []Token) (Directive, bool) {
	if len(tokens) < 3 || len(tokens)%2 == 0 {
		return nil, false
	}
	input := tokens[0]
	if input.Kind != TokenIdentifier && input.Kind != TokenString {
		return nil, false
	}

	d := &FilterDirective{Input: OperandFromToken(input)}
	for i := 1; i < len(tokens); i += 2 {
		if !tokens[i].Is(TokenOpaque, FilterPipe) || tokens[i+1].Kind != TokenIdentifier {
			return nil, false
		}
		name := tokens[i+1].Text
		fn, ok := p.Lookup(name)
		if !ok {
			return nil, false
		}
		d.Names = append(d.Names, name)
		d.Funcs = append(d.Funcs, fn)
	}
	return d, true
}

// FilterDirective renders its input and applies each filter left to right.
type FilterDirective struct {
	Input Operand
	Names []string
	Funcs []FilterFunc
}

// Exec implements Directive
func (d *FilterDirective) Exec(ctx *Context) (Text, error) {
	v, err := d.Input.Resolve(ctx)
	if err != nil {
		return Text{}, err
	}
	s := v.Render().String()
	for _, fn := range d.Funcs {
		s = fn(s)
	}
	return Own(s), nil
}

// Variables implements VariableLister
func (d *FilterDirective) Variables() []string {
	return operandVariables([]Operand{d.Input})
}
