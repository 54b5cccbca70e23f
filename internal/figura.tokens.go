package internal

import "fmt"

// Position represents a location in the template source
type Position struct {
	Offset int // Byte offset from start
	Line   int // 1-indexed line number
	Column int // 1-indexed column number, counted in runes
}

// String returns a human-readable position string
func (p Position) String() string {
	return fmt.Sprintf("line %d, column %d", p.Line, p.Column)
}

// TokenKind identifies a directive-body token.
type TokenKind uint8

// Token kind constants
const (
	TokenOpaque TokenKind = iota
	TokenIdentifier
	TokenString
	TokenInt
	TokenFloat
	TokenPlus
	TokenQuestion
	TokenColon
	TokenBang
	TokenEq
	TokenNe
	TokenGt
	TokenLt
	TokenGe
	TokenLe
)

var tokenKindNames = [...]string{
	TokenOpaque:     "OPAQUE",
	TokenIdentifier: "IDENT",
	TokenString:     "STRING",
	TokenInt:        "INT",
	TokenFloat:      "FLOAT",
	TokenPlus:       "PLUS",
	TokenQuestion:   "QUESTION",
	TokenColon:      "COLON",
	TokenBang:       "BANG",
	TokenEq:         "EQ",
	TokenNe:         "NE",
	TokenGt:         "GT",
	TokenLt:         "LT",
	TokenGe:         "GE",
	TokenLe:         "LE",
}

// String returns the token kind name
func (k TokenKind) String() string {
	if int(k) < len(tokenKindNames) {
		return tokenKindNames[k]
	}
	return tokenKindNames[TokenOpaque]
}

// IsCompare reports whether the kind is one of the comparison operators.
func (k TokenKind) IsCompare() bool {
	return k >= TokenEq && k <= TokenLe
}

// IsOperand reports whether a token of this kind can stand for a value.
func (k TokenKind) IsOperand() bool {
	return k == TokenIdentifier || k == TokenString || k == TokenInt || k == TokenFloat
}

// Token is one lexical unit of a directive body.
//
// Text holds the identifier name, the decoded string literal, the operator
// lexeme or the raw opaque character. Int and Float carry parsed numeric
// literals.
type Token struct {
	Kind   TokenKind
	Text   string
	Int    int64
	Float  float64
	Offset int // byte offset within the directive body
}

// String returns a human-readable representation of the token
func (t Token) String() string {
	switch t.Kind {
	case TokenIdentifier, TokenOpaque:
		return fmt.Sprintf("%s(%s)", t.Kind, t.Text)
	case TokenString:
		return fmt.Sprintf("%s(%q)", t.Kind, t.Text)
	case TokenInt:
		return fmt.Sprintf("%s(%d)", t.Kind, t.Int)
	case TokenFloat:
		return fmt.Sprintf("%s(%g)", t.Kind, t.Float)
	default:
		return t.Kind.String()
	}
}

// Is reports whether the token has the given kind and text.
func (t Token) Is(kind TokenKind, text string) bool {
	return t.Kind == kind && t.Text == text
}

// NewIdentToken creates an identifier token
func NewIdentToken(name string, offset int) Token {
	return Token{Kind: TokenIdentifier, Text: name, Offset: offset}
}

// NewStringToken creates a string literal token
func NewStringToken(text string, offset int) Token {
	return Token{Kind: TokenString, Text: text, Offset: offset}
}

// NewIntToken creates an integer literal token
func NewIntToken(v int64, lexeme string, offset int) Token {
	return Token{Kind: TokenInt, Text: lexeme, Int: v, Offset: offset}
}

// NewFloatToken creates a float literal token
func NewFloatToken(v float64, lexeme string, offset int) Token {
	return Token{Kind: TokenFloat, Text: lexeme, Float: v, Offset: offset}
}

// NewOpToken creates an operator token
func NewOpToken(kind TokenKind, lexeme string, offset int) Token {
	return Token{Kind: kind, Text: lexeme, Offset: offset}
}

// NewOpaqueToken creates a token for a character the default vocabulary
// does not know. Parsers may assign it meaning.
func NewOpaqueToken(raw string, offset int) Token {
	return Token{Kind: TokenOpaque, Text: raw, Offset: offset}
}
