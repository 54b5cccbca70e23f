package internal

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultParser_Parse(t *testing.T) {
	p := NewDefaultParser()

	tests := []struct {
		name     string
		body     string
		expected Directive
	}{
		{
			name:     "variable",
			body:     "name",
			expected: &VariableDirective{Name: "name"},
		},
		{
			name:     "literal",
			body:     "'hi'",
			expected: &LiteralDirective{Text: Borrow("hi")},
		},
		{
			name: "repeat int count",
			body: "'*':3",
			expected: &RepeatDirective{
				Pattern:   LitOperand(StringValue("*")),
				Count:     LitOperand(IntValue(3)),
				MaxLength: DefaultMaxRepeatLength,
			},
		},
		{
			name: "repeat variable pattern and count",
			body: "pat : n",
			expected: &RepeatDirective{
				Pattern:   VarOperand("pat"),
				Count:     VarOperand("n"),
				MaxLength: DefaultMaxRepeatLength,
			},
		},
		{
			name: "bool conditional",
			body: "admin ? 'A' : user",
			expected: &ConditionalDirective{
				Test: BoolTest("admin"),
				Then: LitOperand(StringValue("A")),
				Else: VarOperand("user"),
			},
		},
		{
			name: "negated conditional",
			body: "!admin ? 'U' : 'A'",
			expected: &ConditionalDirective{
				Test: NotBoolTest("admin"),
				Then: LitOperand(StringValue("U")),
				Else: LitOperand(StringValue("A")),
			},
		},
		{
			name: "compare conditional",
			body: "age >= 18 ? 'Yes' : 'No'",
			expected: &ConditionalDirective{
				Test: CompareTest(VarOperand("age"), CompareGe, LitOperand(IntValue(18))),
				Then: LitOperand(StringValue("Yes")),
				Else: LitOperand(StringValue("No")),
			},
		},
		{
			name: "compare float and string operands",
			body: "1.5 != 'x' ? a : b",
			expected: &ConditionalDirective{
				Test: CompareTest(LitOperand(FloatValue(1.5)), CompareNe, LitOperand(StringValue("x"))),
				Then: VarOperand("a"),
				Else: VarOperand("b"),
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, ok := p.Parse(Tokenize(tt.body))
			require.True(t, ok)
			assert.Equal(t, tt.expected, d)
		})
	}
}

func TestDefaultParser_Parse_NoMatch(t *testing.T) {
	p := NewDefaultParser()

	bodies := []string{
		"",
		"42",
		"3.5",
		"+",
		"a b",
		"'*':'3'",
		"'*':3.0",
		"a ? 1 : 'b'",
		"a ? 'x' 'y'",
		"!'x' ? a : b",
		"a + b",
		"a | upper",
		"x = 1 ? a : b",
		"x >= 1 ? 2 : 3",
		"a == b ? c : d extra",
		"'a' 'b' 'c' 'd' 'e' 'f' 'g'",
	}

	for _, body := range bodies {
		t.Run(body, func(t *testing.T) {
			d, ok := p.Parse(Tokenize(body))
			assert.False(t, ok)
			assert.Nil(t, d)
		})
	}
}

func TestParserFunc(t *testing.T) {
	calls := 0
	var p Parser = ParserFunc(func(tokens []Token) (Directive, bool) {
		calls++
		return &LiteralDirective{Text: Borrow("custom")}, true
	})

	d, ok := p.Parse(Tokenize("anything at all"))
	require.True(t, ok)
	out, err := d.Exec(nil)
	require.NoError(t, err)
	assert.Equal(t, "custom", out.String())
	assert.Equal(t, 1, calls)
}

func TestOperandFromToken(t *testing.T) {
	assert.Equal(t, VarOperand("x"), OperandFromToken(NewIdentToken("x", 0)))
	assert.Equal(t, LitOperand(IntValue(4)), OperandFromToken(NewIntToken(4, "4", 0)))
	assert.Equal(t, LitOperand(StringValue("")), OperandFromToken(NewOpaqueToken("|", 0)))
}
