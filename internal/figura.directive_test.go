package internal

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testContext() *Context {
	ctx := NewContext()
	ctx.SetString("name", "Alice")
	ctx.SetInt("age", 21)
	ctx.SetInt("n", 3)
	ctx.SetFloat("ratio", 0.5)
	ctx.SetBool("admin", true)
	ctx.SetString("star", "*")
	ctx.SetString("yes", "Yes")
	return ctx
}

func TestDirectives_Exec(t *testing.T) {
	tests := []struct {
		name      string
		directive Directive
		expected  string
	}{
		{name: "empty", directive: EmptyDirective{}, expected: ""},
		{name: "variable text", directive: &VariableDirective{Name: "name"}, expected: "Alice"},
		{name: "variable int", directive: &VariableDirective{Name: "age"}, expected: "21"},
		{name: "variable float", directive: &VariableDirective{Name: "ratio"}, expected: "0.5"},
		{name: "variable bool", directive: &VariableDirective{Name: "admin"}, expected: "true"},
		{name: "literal", directive: &LiteralDirective{Text: Borrow("hi")}, expected: "hi"},
		{
			name:      "repeat literal",
			directive: &RepeatDirective{Pattern: LitOperand(StringValue("*")), Count: LitOperand(IntValue(3))},
			expected:  "***",
		},
		{
			name:      "repeat variable pattern and count",
			directive: &RepeatDirective{Pattern: VarOperand("star"), Count: VarOperand("n")},
			expected:  "***",
		},
		{
			name:      "repeat zero",
			directive: &RepeatDirective{Pattern: LitOperand(StringValue("*")), Count: LitOperand(IntValue(0))},
			expected:  "",
		},
		{
			name:      "repeat negative",
			directive: &RepeatDirective{Pattern: LitOperand(StringValue("*")), Count: LitOperand(IntValue(-2))},
			expected:  "",
		},
		{
			name:      "conditional bool then",
			directive: &ConditionalDirective{Test: BoolTest("admin"), Then: LitOperand(StringValue("A")), Else: LitOperand(StringValue("U"))},
			expected:  "A",
		},
		{
			name:      "conditional not bool else",
			directive: &ConditionalDirective{Test: NotBoolTest("admin"), Then: LitOperand(StringValue("A")), Else: LitOperand(StringValue("U"))},
			expected:  "U",
		},
		{
			name: "conditional compare variable branch",
			directive: &ConditionalDirective{
				Test: CompareTest(VarOperand("age"), CompareGe, LitOperand(IntValue(18))),
				Then: VarOperand("yes"),
				Else: VarOperand("missing"),
			},
			expected: "Yes",
		},
	}

	ctx := testContext()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.directive.Exec(ctx)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got.String())
		})
	}
}

func TestDirectives_Exec_Errors(t *testing.T) {
	tests := []struct {
		name      string
		directive Directive
		sentinel  error
	}{
		{name: "undefined variable", directive: &VariableDirective{Name: "missing"}, sentinel: ErrUndefinedVariable},
		{
			name:      "repeat pattern not text",
			directive: &RepeatDirective{Pattern: VarOperand("age"), Count: LitOperand(IntValue(2))},
			sentinel:  ErrTypeMismatch,
		},
		{
			name:      "repeat count not int",
			directive: &RepeatDirective{Pattern: LitOperand(StringValue("*")), Count: VarOperand("ratio")},
			sentinel:  ErrTypeMismatch,
		},
		{
			name:      "repeat count undefined",
			directive: &RepeatDirective{Pattern: LitOperand(StringValue("*")), Count: VarOperand("missing")},
			sentinel:  ErrUndefinedVariable,
		},
		{
			name:      "repeat over limit",
			directive: &RepeatDirective{Pattern: LitOperand(StringValue("ab")), Count: LitOperand(IntValue(6)), MaxLength: 10},
			sentinel:  ErrRepeatLimit,
		},
		{
			name:      "bool test on int",
			directive: &ConditionalDirective{Test: BoolTest("age"), Then: LitOperand(StringValue("a")), Else: LitOperand(StringValue("b"))},
			sentinel:  ErrTypeMismatch,
		},
		{
			name:      "bool test undefined",
			directive: &ConditionalDirective{Test: NotBoolTest("missing"), Then: LitOperand(StringValue("a")), Else: LitOperand(StringValue("b"))},
			sentinel:  ErrUndefinedVariable,
		},
		{
			name: "compare mismatched tags",
			directive: &ConditionalDirective{
				Test: CompareTest(VarOperand("name"), CompareEq, LitOperand(IntValue(1))),
				Then: LitOperand(StringValue("a")),
				Else: LitOperand(StringValue("b")),
			},
			sentinel: ErrTypeMismatch,
		},
		{
			name: "selected branch undefined",
			directive: &ConditionalDirective{
				Test: BoolTest("admin"),
				Then: VarOperand("missing"),
				Else: LitOperand(StringValue("b")),
			},
			sentinel: ErrUndefinedVariable,
		},
	}

	ctx := testContext()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.directive.Exec(ctx)
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.sentinel), err.Error())
			assert.True(t, got.IsEmpty())
		})
	}
}

func TestRepeatDirective_LimitBoundary(t *testing.T) {
	d := &RepeatDirective{Pattern: LitOperand(StringValue("ab")), Count: LitOperand(IntValue(5)), MaxLength: 10}
	got, err := d.Exec(nil)
	require.NoError(t, err)
	assert.Equal(t, "ababababab", got.String())

	d.Count = LitOperand(IntValue(1 << 62))
	_, err = d.Exec(nil)
	var de *DirectiveError
	require.True(t, errors.As(err, &de))
	assert.Equal(t, int64(10), de.Limit)
	assert.Equal(t, int64(1<<63-1), de.Requested)
}

func TestDirectiveError_Messages(t *testing.T) {
	assert.Equal(t, `undefined variable "x"`, NewUndefinedVariableError("x").Error())
	assert.Equal(t, "type mismatch: expected int, got text", NewTypeMismatchError("", "int", "text").Error())
	assert.Equal(t, `type mismatch for "n": expected int, got float`, NewTypeMismatchError("n", "int", "float").Error())
	assert.Equal(t, "repeat output exceeds limit: 12 bytes requested, limit 10", NewRepeatLimitError(12, 10).Error())
}

func TestDirectives_Variables(t *testing.T) {
	d := &ConditionalDirective{
		Test: CompareTest(VarOperand("age"), CompareGe, LitOperand(IntValue(18))),
		Then: VarOperand("adult"),
		Else: LitOperand(StringValue("minor")),
	}
	assert.Equal(t, []string{"age", "adult"}, d.Variables())

	r := &RepeatDirective{Pattern: LitOperand(StringValue("-")), Count: VarOperand("width")}
	assert.Equal(t, []string{"width"}, r.Variables())

	assert.Equal(t, "'x'", LitOperand(StringValue("x")).String())
	assert.Equal(t, "7", LitOperand(IntValue(7)).String())
	assert.Equal(t, "name", VarOperand("name").String())
}
