package figura

import (
	"errors"
	"strings"
	"testing"

	"github.com/microcosm-cc/bluemonday"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChain(t *testing.T) {
	t.Run("first match wins", func(t *testing.T) {
		first := ParserFunc(func([]Token) (Directive, bool) {
			return &LiteralDirective{Text: Borrow("first")}, true
		})
		second := ParserFunc(func([]Token) (Directive, bool) {
			return &LiteralDirective{Text: Borrow("second")}, true
		})

		engine := MustNew(WithParser(Chain(first, second)))
		out, err := engine.Render("{anything}", nil)
		require.NoError(t, err)
		assert.Equal(t, "first", out)
	})

	t.Run("falls through to later parsers", func(t *testing.T) {
		engine := MustNew(WithParser(Chain(nil, NewDefaultParser(), NewConcatParser())))
		out, err := engine.Render("{name} {name + '!'}", newTestContext())
		require.NoError(t, err)
		assert.Equal(t, "Alice Alice!", out)
	})

	t.Run("no match renders empty", func(t *testing.T) {
		engine := MustNew(WithParser(Chain()))
		out, err := engine.Render("[{name}]", newTestContext())
		require.NoError(t, err)
		assert.Equal(t, "[]", out)
	})
}

func TestConcatParser(t *testing.T) {
	engine := MustNew(WithParser(StandardParser()))
	ctx := newTestContext()

	tests := []struct {
		name     string
		source   string
		expected string
	}{
		{"variables and literals", "{name + ' is ' + age}", "Alice is 21"},
		{"numbers render canonically", "{ratio + '/' + 2.0 + '/' + admin}", "0.5/2.0/true"},
		{"single operand is not concat", "{name}", "Alice"},
		{"dangling plus", "[{name +}]", "[]"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := engine.Render(tt.source, ctx)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, out)
		})
	}

	t.Run("undefined operand", func(t *testing.T) {
		_, err := engine.Render("{name + missing}", ctx)
		assert.True(t, errors.Is(err, ErrUndefinedVariable))
	})

	t.Run("variables", func(t *testing.T) {
		tmpl := engine.MustCompile("{name + ' ' + age + name}")
		assert.Equal(t, []string{"name", "age"}, tmpl.Variables())
	})

	t.Run("output is owned", func(t *testing.T) {
		d, ok := NewConcatParser().Parse(Tokenize("'a' + 'b'"))
		require.True(t, ok)
		out, err := d.Exec(nil)
		require.NoError(t, err)
		assert.Equal(t, "ab", out.String())
		assert.Equal(t, Owned, out.Ownership())
	})
}

func TestFilterParser(t *testing.T) {
	engine := MustNew(WithParser(StandardParser()))
	ctx := newTestContext()
	ctx.SetString("padded", "  hello world  ")

	tests := []struct {
		name     string
		source   string
		expected string
	}{
		{"single filter", "{name | upper}", "ALICE"},
		{"chained filters", "{padded | trim | title}", "Hello World"},
		{"literal input", "{'MiXeD' | lower}", "mixed"},
		{"unknown filter is no match", "[{name | nosuchfilter}]", "[]"},
		{"missing filter name", "[{name |}]", "[]"},
		{"int input renders first", "{age | b64enc}", "MjE="},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := engine.Render(tt.source, ctx)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, out)
		})
	}

	t.Run("known filters include sprig string functions", func(t *testing.T) {
		names := NewFilterParser().Filters()
		assert.Contains(t, names, "upper")
		assert.Contains(t, names, "trim")
		assert.Contains(t, names, "snakecase")
	})

	t.Run("custom filter", func(t *testing.T) {
		parser := NewFilterParser().Register("reverse", func(s string) string {
			r := []rune(s)
			for i, j := 0, len(r)-1; i < j; i, j = i+1, j-1 {
				r[i], r[j] = r[j], r[i]
			}
			return string(r)
		})
		tmpl, err := Compile("{name | reverse | upper}", '{', '}', parser)
		require.NoError(t, err)
		out, err := tmpl.Render(ctx)
		require.NoError(t, err)
		assert.Equal(t, "ECILA", out)
	})

	t.Run("registry is per parser", func(t *testing.T) {
		a := NewFilterParser().Register("shout", strings.ToUpper)
		b := NewFilterParser()
		_, ok := a.Lookup("shout")
		assert.True(t, ok)
		_, ok = b.Lookup("shout")
		assert.False(t, ok)
	})

	t.Run("variables", func(t *testing.T) {
		tmpl := engine.MustCompile("{name | upper} {'x' | upper}")
		assert.Equal(t, []string{"name"}, tmpl.Variables())
	})
}

func TestSanitizeParser(t *testing.T) {
	ctx := NewContext()
	ctx.SetString("bio", "<b>Bold</b> move")
	ctx.SetString("plain", "Alice")
	ctx.SetBool("admin", true)

	t.Run("strips markup from directive output", func(t *testing.T) {
		tmpl, err := Compile("<p>{bio}</p>", '{', '}', NewSanitizeParser(nil, nil))
		require.NoError(t, err)
		out, err := tmpl.Render(ctx)
		require.NoError(t, err)
		assert.Equal(t, "<p>Bold move</p>", out)
	})

	t.Run("clean output is passed through", func(t *testing.T) {
		d, ok := NewSanitizeParser(nil, nil).Parse(Tokenize("plain"))
		require.True(t, ok)
		out, err := d.Exec(ctx)
		require.NoError(t, err)
		assert.Equal(t, "Alice", out.String())
		assert.True(t, out.IsBorrowed())
	})

	t.Run("custom policy", func(t *testing.T) {
		policy := bluemonday.NewPolicy()
		policy.AllowElements("b")
		tmpl, err := Compile("{bio}", '{', '}', NewSanitizeParser(nil, policy))
		require.NoError(t, err)
		out, err := tmpl.Render(ctx)
		require.NoError(t, err)
		assert.Equal(t, "<b>Bold</b> move", out)
	})

	t.Run("wraps any parser", func(t *testing.T) {
		tmpl, err := Compile("{'<i>x</i>' | upper}", '{', '}', NewSanitizeParser(StandardParser(), nil))
		require.NoError(t, err)
		out, err := tmpl.Render(ctx)
		require.NoError(t, err)
		assert.Equal(t, "X", out)
	})

	t.Run("errors pass through", func(t *testing.T) {
		tmpl, err := Compile("{missing}", '{', '}', NewSanitizeParser(nil, nil))
		require.NoError(t, err)
		_, err = tmpl.Render(ctx)
		assert.True(t, errors.Is(err, ErrUndefinedVariable))
	})

	t.Run("variables pass through", func(t *testing.T) {
		tmpl, err := Compile("{admin ? bio : plain}", '{', '}', NewSanitizeParser(nil, nil))
		require.NoError(t, err)
		assert.Equal(t, []string{"admin", "bio", "plain"}, tmpl.Variables())
	})
}
