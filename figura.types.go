package figura

import "github.com/itsatony/go-figura/internal"

// Core types live in the internal package and are re-exported here so that
// custom parsers and directives can be written against this package alone.
type (
	// Value is a tagged union of text, int64, float64 and bool.
	Value = internal.Value
	// ValueKind is the tag of a Value.
	ValueKind = internal.ValueKind
	// Text is an immutable string that records whether it is borrowed or owned.
	Text = internal.Text
	// Ownership records where the bytes of a Text live.
	Ownership = internal.Ownership
	// Context maps variable names to values.
	Context = internal.Context
	// Position is a location in template source.
	Position = internal.Position

	// Token is one lexical unit of a directive body.
	Token = internal.Token
	// TokenKind identifies a Token.
	TokenKind = internal.TokenKind

	// Directive is one executable unit of a compiled template.
	Directive = internal.Directive
	// VariableLister is implemented by directives that read context variables.
	VariableLister = internal.VariableLister
	// Parser turns the tokens of one directive body into a Directive.
	Parser = internal.Parser
	// ParserFunc adapts a function to Parser.
	ParserFunc = internal.ParserFunc
	// DefaultParser recognises the built-in directive grammar.
	DefaultParser = internal.DefaultParser

	// Operand is a variable reference or a literal value.
	Operand = internal.Operand
	// Test is the condition of a conditional directive.
	Test = internal.Test
	// CompareOp is a comparison operator.
	CompareOp = internal.CompareOp

	// Built-in directives
	EmptyDirective       = internal.EmptyDirective
	VariableDirective    = internal.VariableDirective
	LiteralDirective     = internal.LiteralDirective
	RepeatDirective      = internal.RepeatDirective
	ConditionalDirective = internal.ConditionalDirective

	// CompileError is the typed cause of a compile failure.
	CompileError = internal.CompileError
	// DirectiveError is the typed cause of a built-in directive failure.
	DirectiveError = internal.DirectiveError
	// RenderError locates a directive failure in its template.
	RenderError = internal.RenderError
)

// Value kinds
const (
	KindText  = internal.KindText
	KindInt   = internal.KindInt
	KindFloat = internal.KindFloat
	KindBool  = internal.KindBool
)

// Text ownership modes
const (
	Borrowed = internal.Borrowed
	Owned    = internal.Owned
)

// Token kinds
const (
	TokenOpaque     = internal.TokenOpaque
	TokenIdentifier = internal.TokenIdentifier
	TokenString     = internal.TokenString
	TokenInt        = internal.TokenInt
	TokenFloat      = internal.TokenFloat
	TokenPlus       = internal.TokenPlus
	TokenQuestion   = internal.TokenQuestion
	TokenColon      = internal.TokenColon
	TokenBang       = internal.TokenBang
	TokenEq         = internal.TokenEq
	TokenNe         = internal.TokenNe
	TokenGt         = internal.TokenGt
	TokenLt         = internal.TokenLt
	TokenGe         = internal.TokenGe
	TokenLe         = internal.TokenLe
)

// Comparison operators
const (
	CompareEq = internal.CompareEq
	CompareNe = internal.CompareNe
	CompareGt = internal.CompareGt
	CompareLt = internal.CompareLt
	CompareGe = internal.CompareGe
	CompareLe = internal.CompareLe
)

// NewContext creates an empty context.
func NewContext() *Context { return internal.NewContext() }

// Borrow wraps s as borrowed text.
func Borrow(s string) Text { return internal.Borrow(s) }

// Own marks s as owned text.
func Own(s string) Text { return internal.Own(s) }

// Concat joins texts into one.
func Concat(parts ...Text) Text { return internal.Concat(parts...) }

// TextValue creates a text value.
func TextValue(t Text) Value { return internal.TextValue(t) }

// StringValue creates a text value borrowing s.
func StringValue(s string) Value { return internal.StringValue(s) }

// IntValue creates an integer value.
func IntValue(i int64) Value { return internal.IntValue(i) }

// FloatValue creates a float value.
func FloatValue(f float64) Value { return internal.FloatValue(f) }

// BoolValue creates a boolean value.
func BoolValue(b bool) Value { return internal.BoolValue(b) }

// VarOperand references a context variable.
func VarOperand(name string) Operand { return internal.VarOperand(name) }

// LitOperand embeds a literal value.
func LitOperand(v Value) Operand { return internal.LitOperand(v) }

// OperandFromToken converts an identifier or literal token to an operand.
func OperandFromToken(tok Token) Operand { return internal.OperandFromToken(tok) }

// Tokenize lexes a directive body the way the compiler does.
func Tokenize(body string) []Token { return internal.Tokenize(body) }

// NewDefaultParser creates the built-in parser with the default repeat limit.
func NewDefaultParser() *DefaultParser { return internal.NewDefaultParser() }

// FormatFloat renders f in canonical form.
func FormatFloat(f float64) string { return internal.FormatFloat(f) }

// NewUndefinedVariableError is exported for custom directives that look
// variables up themselves.
func NewUndefinedVariableError(name string) error {
	return internal.NewUndefinedVariableError(name)
}

// NewTypeMismatchError is exported for custom directives that check tags.
func NewTypeMismatchError(name, expected, actual string) error {
	return internal.NewTypeMismatchError(name, expected, actual)
}
