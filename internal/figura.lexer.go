package internal

import (
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Lexer splits a directive body into tokens.
//
// Lexing never fails: characters outside the default vocabulary become
// opaque tokens so that custom parsers can give them meaning.
type Lexer struct {
	source string
	pos    int // current byte position
}

// NewLexer creates a lexer for one directive body
func NewLexer(body string) *Lexer {
	return &Lexer{source: body}
}

// Tokenize lexes a directive body in one call
func Tokenize(body string) []Token {
	return NewLexer(body).Tokenize()
}

// Tokenize processes the body and returns the token stream
func (l *Lexer) Tokenize() []Token {
	var tokens []Token
	for {
		l.skipWhitespace()
		if l.isAtEnd() {
			return tokens
		}
		tokens = append(tokens, l.next())
	}
}

// next scans the token starting at the current position
func (l *Lexer) next() Token {
	start := l.pos
	ch := l.peek()

	switch {
	case ch == CharSingleQuote || ch == CharDoubleQuote:
		return l.scanString()
	case isDigit(ch):
		return l.scanNumber()
	case isIdentStart(ch):
		return l.scanIdentifier()
	}

	l.advance()
	switch ch {
	case CharPlus:
		return NewOpToken(TokenPlus, OpPlus, start)
	case CharQuestion:
		return NewOpToken(TokenQuestion, OpQuestion, start)
	case CharColon:
		return NewOpToken(TokenColon, OpColon, start)
	case CharBang:
		if l.match(CharEquals) {
			return NewOpToken(TokenNe, OpNe, start)
		}
		return NewOpToken(TokenBang, OpBang, start)
	case CharGreater:
		if l.match(CharEquals) {
			return NewOpToken(TokenGe, OpGe, start)
		}
		return NewOpToken(TokenGt, OpGt, start)
	case CharLess:
		if l.match(CharEquals) {
			return NewOpToken(TokenLe, OpLe, start)
		}
		return NewOpToken(TokenLt, OpLt, start)
	case CharEquals:
		if l.match(CharEquals) {
			return NewOpToken(TokenEq, OpEq, start)
		}
	}
	return NewOpaqueToken(l.source[start:l.pos], start)
}

// scanString scans a quoted literal. The body was quote-checked by the
// scanner; when lexing a body directly, a missing closing quote ends the
// literal at the end of input.
func (l *Lexer) scanString() Token {
	start := l.pos
	quote := l.advance()
	contentStart := l.pos

	// Fast path: no escapes, the literal is a substring of the body.
	for !l.isAtEnd() {
		ch := l.peek()
		if ch == quote {
			text := l.source[contentStart:l.pos]
			l.advance()
			return NewStringToken(text, start)
		}
		if ch == CharBackslash {
			break
		}
		l.advance()
	}
	if l.isAtEnd() {
		return NewStringToken(l.source[contentStart:], start)
	}

	var sb strings.Builder
	sb.WriteString(l.source[contentStart:l.pos])
	for !l.isAtEnd() {
		ch := l.advance()
		switch {
		case ch == quote:
			return NewStringToken(sb.String(), start)
		case ch == CharBackslash && !l.isAtEnd():
			sb.WriteString(unescape(l.advance()))
		default:
			sb.WriteRune(ch)
		}
	}
	return NewStringToken(sb.String(), start)
}

// unescape decodes the character following a backslash. Unknown escapes are
// kept verbatim.
func unescape(ch rune) string {
	switch ch {
	case 'n':
		return "\n"
	case 't':
		return "\t"
	case 'r':
		return "\r"
	case '0':
		return "\x00"
	case CharBackslash, CharSingleQuote, CharDoubleQuote:
		return string(ch)
	default:
		return string([]rune{CharBackslash, ch})
	}
}

// scanNumber scans an integer, or a float when a '.' is followed by a digit.
// A literal that does not fit its type becomes an opaque token.
func (l *Lexer) scanNumber() Token {
	start := l.pos
	l.skipDigits()

	isFloat := false
	if l.peek() == CharDot && isDigit(l.peekAt(1)) {
		isFloat = true
		l.advance()
		l.skipDigits()
	}

	lexeme := l.source[start:l.pos]
	if isFloat {
		f, err := strconv.ParseFloat(lexeme, 64)
		if err != nil {
			return NewOpaqueToken(lexeme, start)
		}
		return NewFloatToken(f, lexeme, start)
	}
	i, err := strconv.ParseInt(lexeme, 10, 64)
	if err != nil {
		return NewOpaqueToken(lexeme, start)
	}
	return NewIntToken(i, lexeme, start)
}

// scanIdentifier scans a name. A '.' continues the name only when an
// identifier start follows it, so "user.name" is one token.
func (l *Lexer) scanIdentifier() Token {
	start := l.pos
	l.advance()
	for !l.isAtEnd() {
		ch := l.peek()
		if isIdentPart(ch) {
			l.advance()
			continue
		}
		if ch == CharDot && isIdentStart(l.peekAt(1)) {
			l.advance()
			continue
		}
		break
	}
	return NewIdentToken(l.source[start:l.pos], start)
}

func (l *Lexer) skipDigits() {
	for isDigit(l.peek()) {
		l.advance()
	}
}

func (l *Lexer) skipWhitespace() {
	for !l.isAtEnd() && unicode.IsSpace(l.peek()) {
		l.advance()
	}
}

// Helper methods

func (l *Lexer) isAtEnd() bool {
	return l.pos >= len(l.source)
}

// peek returns the current rune without advancing, or 0 at the end
func (l *Lexer) peek() rune {
	return l.peekAt(0)
}

// peekAt returns the rune n runes ahead of the current position
func (l *Lexer) peekAt(n int) rune {
	pos := l.pos
	for ; n > 0 && pos < len(l.source); n-- {
		_, w := utf8.DecodeRuneInString(l.source[pos:])
		pos += w
	}
	if pos >= len(l.source) {
		return 0
	}
	r, _ := utf8.DecodeRuneInString(l.source[pos:])
	return r
}

// advance consumes and returns the current rune
func (l *Lexer) advance() rune {
	if l.isAtEnd() {
		return 0
	}
	r, w := utf8.DecodeRuneInString(l.source[l.pos:])
	l.pos += w
	return r
}

// match consumes the current rune if it equals want
func (l *Lexer) match(want rune) bool {
	if l.peek() != want || l.isAtEnd() {
		return false
	}
	l.advance()
	return true
}

// Character classification helpers

func isDigit(ch rune) bool {
	return ch >= '0' && ch <= '9'
}

func isIdentStart(ch rune) bool {
	return ch == CharUnderscore || unicode.IsLetter(ch)
}

func isIdentPart(ch rune) bool {
	return isIdentStart(ch) || unicode.IsDigit(ch)
}
