package internal

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func compileWith(t *testing.T, source string, open, close rune, parser Parser) *Program {
	t.Helper()
	prog, err := NewCompiler(CompilerConfig{Open: open, Close: close}, parser, zap.NewNop()).Compile(source)
	require.NoError(t, err)
	return prog
}

func render(t *testing.T, source string, ctx *Context) (string, error) {
	t.Helper()
	prog := compileWith(t, source, '{', '}', nil)
	return NewExecutor(zap.NewNop()).Execute(prog, ctx)
}

func TestCompileExecute(t *testing.T) {
	tests := []struct {
		name     string
		source   string
		expected string
	}{
		{name: "plain text round trips", source: "no directives here", expected: "no directives here"},
		{name: "empty template", source: "", expected: ""},
		{name: "escaped braces", source: "a{{b}}c", expected: "a{b}c"},
		{name: "lone close", source: "x}y", expected: "x}y"},
		{name: "variable", source: "Hello {name}!", expected: "Hello Alice!"},
		{name: "literal", source: "{'{braces}'}", expected: "{braces}"},
		{name: "repeat", source: "{'*':3}", expected: "***"},
		{name: "repeat zero", source: "[{'*':0}]", expected: "[]"},
		{name: "minus sign is not part of a count", source: "[{'*':-1}]", expected: "[]"},
		{name: "repeat variable count", source: "{'ab':n}", expected: "ababab"},
		{name: "compare conditional", source: "{age >= 18 ? 'Yes' : 'No'}", expected: "Yes"},
		{name: "compare mixed numbers", source: "{ratio < 1 ? 'low' : 'high'}", expected: "low"},
		{name: "bool conditional", source: "{admin ? 'admin' : name}", expected: "admin"},
		{name: "negated conditional", source: "{!admin ? 'guest' : name}", expected: "Alice"},
		{name: "unrecognised body renders nothing", source: "[{name | upper}]", expected: "[]"},
		{name: "empty directive", source: "a{}b", expected: "ab"},
		{name: "whitespace directive", source: "a{   }b", expected: "ab"},
		{name: "int renders", source: "{age}", expected: "21"},
		{name: "float renders", source: "{ratio}", expected: "0.5"},
		{name: "bool renders", source: "{admin}", expected: "true"},
		{name: "double quoted literal", source: `{"it's"}`, expected: "it's"},
		{name: "multiline", source: "Dear {name},\n\n{'-':5}\n", expected: "Dear Alice,\n\n-----\n"},
	}

	ctx := testContext()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := render(t, tt.source, ctx)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestCompileExecute_ChangedAge(t *testing.T) {
	prog := compileWith(t, "{age >= 18 ? 'Yes' : 'No'}", '{', '}', nil)
	exec := NewExecutor(nil)

	ctx := NewContext()
	ctx.SetInt("age", 21)
	out, err := exec.Execute(prog, ctx)
	require.NoError(t, err)
	assert.Equal(t, "Yes", out)

	ctx.SetInt("age", 15)
	out, err = exec.Execute(prog, ctx)
	require.NoError(t, err)
	assert.Equal(t, "No", out)
}

func TestCompileExecute_CustomDelimiters(t *testing.T) {
	tests := []struct {
		name     string
		source   string
		open     rune
		close    rune
		expected string
	}{
		{name: "angle brackets", source: "Hi <name>, {kept}", open: '<', close: '>', expected: "Hi Alice, {kept}"},
		{name: "identical delimiters", source: "Hi $name$, $$5", open: '$', close: '$', expected: "Hi Alice, $5"},
		{name: "identical delimiters conditional", source: "#admin ? 'y' : 'n'#", open: '#', close: '#', expected: "y"},
		{name: "multibyte delimiters", source: "«name» «'=':2»", open: '«', close: '»', expected: "Alice =="},
	}

	ctx := testContext()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			prog := compileWith(t, tt.source, tt.open, tt.close, nil)
			assert.Equal(t, tt.open, prog.Open)
			assert.Equal(t, tt.close, prog.Close)
			out, err := NewExecutor(nil).Execute(prog, ctx)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, out)
		})
	}
}

func TestCompile_Errors(t *testing.T) {
	compiler := NewCompiler(DefaultCompilerConfig(), nil, nil)

	_, err := compiler.Compile("Hello {name")
	assert.ErrorIs(t, err, ErrUnterminatedDirective)

	_, err = compiler.Compile("{'oops}")
	assert.ErrorIs(t, err, ErrUnterminatedQuote)

	// The failing directive comes after valid ones; nothing is returned.
	prog, err := compiler.Compile("{a} {b} {c")
	assert.Nil(t, prog)
	assert.Error(t, err)
}

func TestCompilerConfig_Validate(t *testing.T) {
	assert.NoError(t, DefaultCompilerConfig().Validate())
	assert.ErrorIs(t, CompilerConfig{Open: ' ', Close: '}'}.Validate(), ErrInvalidDelimiter)
	assert.ErrorIs(t, CompilerConfig{Open: '{', Close: '\''}.Validate(), ErrInvalidDelimiter)
}

func TestExecute_Errors(t *testing.T) {
	ctx := testContext()

	_, err := render(t, "Hi {missing}!", ctx)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUndefinedVariable)

	var re *RenderError
	require.True(t, errors.As(err, &re))
	assert.Equal(t, "missing", re.Body)
	assert.Equal(t, Position{Offset: 3, Line: 1, Column: 4}, re.Position)

	var de *DirectiveError
	require.True(t, errors.As(err, &de))
	assert.Equal(t, "missing", de.Name)

	_, err = render(t, "{name > 3 ? 'a' : 'b'}", ctx)
	assert.ErrorIs(t, err, ErrTypeMismatch)
}

func TestExecute_FirstFailureWins(t *testing.T) {
	out, err := render(t, "{first} {second}", NewContext())
	require.Error(t, err)
	assert.Empty(t, out)

	var de *DirectiveError
	require.True(t, errors.As(err, &de))
	assert.Equal(t, "first", de.Name)
}

func TestExecute_NilContext(t *testing.T) {
	out, err := render(t, "static {'x'}", nil)
	require.NoError(t, err)
	assert.Equal(t, "static x", out)

	_, err = render(t, "{name}", nil)
	assert.ErrorIs(t, err, ErrUndefinedVariable)
}

type failingDirective struct{ err error }

func (d failingDirective) Exec(*Context) (Text, error) { return Text{}, d.err }

func TestExecute_CustomDirectiveErrorPropagates(t *testing.T) {
	custom := errors.New("quota exceeded")
	parser := ParserFunc(func(tokens []Token) (Directive, bool) {
		if len(tokens) == 1 && tokens[0].Is(TokenIdentifier, "boom") {
			return failingDirective{err: custom}, true
		}
		return nil, false
	})

	prog := compileWith(t, "a {boom} b", '{', '}', parser)
	_, err := NewExecutor(nil).Execute(prog, nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, custom)
	assert.Contains(t, err.Error(), "quota exceeded")
}

func TestCompile_CustomParserReplacesDefault(t *testing.T) {
	parser := ParserFunc(func(tokens []Token) (Directive, bool) {
		return &LiteralDirective{Text: Borrow(fmt.Sprintf("<%d>", len(tokens)))}, true
	})
	prog := compileWith(t, "{name} {a b c}", '{', '}', parser)
	out, err := NewExecutor(nil).Execute(prog, nil)
	require.NoError(t, err)
	assert.Equal(t, "<1> <3>", out)
}

func TestProgram_Introspection(t *testing.T) {
	prog := compileWith(t, "{name} {age >= 18 ? name : other} {'-':width} x", '{', '}', nil)
	assert.Equal(t, []string{"name", "age", "other", "width"}, prog.Variables())
	assert.Equal(t, 3, prog.DirectiveCount())
	assert.Equal(t, 4, prog.LiteralLen())
	assert.Contains(t, prog.String(), "DirectiveNode")
}

func TestExecute_Idempotent(t *testing.T) {
	prog := compileWith(t, "{name}: {'ab':n} {admin ? 'y' : 'n'}", '{', '}', nil)
	exec := NewExecutor(nil)
	ctx := testContext()

	first, err := exec.Execute(prog, ctx)
	require.NoError(t, err)
	for i := 0; i < 5; i++ {
		again, err := exec.Execute(prog, ctx)
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
}

func TestExecute_Concurrent(t *testing.T) {
	prog := compileWith(t, "{name} is {age >= 18 ? 'adult' : 'minor'}", '{', '}', nil)
	exec := NewExecutor(nil)

	var wg sync.WaitGroup
	errs := make(chan error, 32)
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			ctx := NewContext()
			ctx.SetString("name", fmt.Sprintf("user%d", i))
			ctx.SetInt("age", int64(i))
			out, err := exec.Execute(prog, ctx)
			if err != nil {
				errs <- err
				return
			}
			want := "minor"
			if i >= 18 {
				want = "adult"
			}
			if !strings.HasSuffix(out, want) {
				errs <- fmt.Errorf("render %d: got %q", i, out)
			}
		}(i)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Error(err)
	}
}

func BenchmarkCompile(b *testing.B) {
	source := strings.Repeat("Hello {name}, you are {age >= 18 ? 'an adult' : 'a minor'}. {'-':10}\n", 20)
	compiler := NewCompiler(DefaultCompilerConfig(), nil, nil)
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		if _, err := compiler.Compile(source); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkExecute(b *testing.B) {
	source := strings.Repeat("Hello {name}, you are {age >= 18 ? 'an adult' : 'a minor'}. {'-':10}\n", 20)
	prog, err := NewCompiler(DefaultCompilerConfig(), nil, nil).Compile(source)
	if err != nil {
		b.Fatal(err)
	}
	exec := NewExecutor(nil)
	ctx := testContext()
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := exec.Execute(prog, ctx); err != nil {
			b.Fatal(err)
		}
	}
}
