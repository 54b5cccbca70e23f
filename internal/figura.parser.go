package internal

// Parser turns the tokens of one directive body into a Directive. A parser
// that does not recognise the tokens returns false; the body then renders
// as nothing.
type Parser interface {
	Parse(tokens []Token) (Directive, bool)
}

// ParserFunc adapts a function to the Parser interface.
type ParserFunc func(tokens []Token) (Directive, bool)

// Parse implements Parser
func (f ParserFunc) Parse(tokens []Token) (Directive, bool) {
	return f(tokens)
}

// DefaultParser recognises the built-in grammar:
//
//	name                        variable
//	'text'                      literal
//	'text' : count              repeat (pattern may also be a variable)
//	flag ? a : b                conditional on a boolean
//	!flag ? a : b               negated conditional
//	x op y ? a : b              comparison (== != > < >= <=)
//
// Shapes are tried in that order and the first match wins. Branches a and b
// are string literals or variables; operands x and y may also be numbers.
type DefaultParser struct {
	// MaxRepeatLength is copied into every repeat directive.
	MaxRepeatLength int64
}

// NewDefaultParser creates a parser with the default repeat limit
func NewDefaultParser() *DefaultParser {
	return &DefaultParser{MaxRepeatLength: DefaultMaxRepeatLength}
}

// Parse implements Parser
func (p *DefaultParser) Parse(tokens []Token) (Directive, bool) {
	switch len(tokens) {
	case 1:
		return p.parseSingle(tokens[0])
	case 3:
		return p.parseRepeat(tokens)
	case 5:
		return p.parseBoolConditional(tokens)
	case 6:
		return p.parseNotBoolConditional(tokens)
	case 7:
		return p.parseCompareConditional(tokens)
	}
	return nil, false
}

func (p *DefaultParser) parseSingle(tok Token) (Directive, bool) {
	switch tok.Kind {
	case TokenIdentifier:
		return &VariableDirective{Name: tok.Text}, true
	case TokenString:
		return &LiteralDirective{Text: Borrow(tok.Text)}, true
	}
	return nil, false
}

// 'text' : count
func (p *DefaultParser) parseRepeat(tokens []Token) (Directive, bool) {
	pattern, count := tokens[0], tokens[2]
	if !isBranch(pattern) || tokens[1].Kind != TokenColon {
		return nil, false
	}
	if count.Kind != TokenInt && count.Kind != TokenIdentifier {
		return nil, false
	}
	return &RepeatDirective{
		Pattern:   OperandFromToken(pattern),
		Count:     OperandFromToken(count),
		MaxLength: p.MaxRepeatLength,
	}, true
}

// flag ? a : b
func (p *DefaultParser) parseBoolConditional(tokens []Token) (Directive, bool) {
	if tokens[0].Kind != TokenIdentifier {
		return nil, false
	}
	then, els, ok := parseBranches(tokens[1:])
	if !ok {
		return nil, false
	}
	return &ConditionalDirective{Test: BoolTest(tokens[0].Text), Then: then, Else: els}, true
}

// !flag ? a : b
func (p *DefaultParser) parseNotBoolConditional(tokens []Token) (Directive, bool) {
	if tokens[0].Kind != TokenBang || tokens[1].Kind != TokenIdentifier {
		return nil, false
	}
	then, els, ok := parseBranches(tokens[2:])
	if !ok {
		return nil, false
	}
	return &ConditionalDirective{Test: NotBoolTest(tokens[1].Text), Then: then, Else: els}, true
}

// x op y ? a : b
func (p *DefaultParser) parseCompareConditional(tokens []Token) (Directive, bool) {
	left, opTok, right := tokens[0], tokens[1], tokens[2]
	if !left.Kind.IsOperand() || !right.Kind.IsOperand() {
		return nil, false
	}
	op, ok := CompareOpFromToken(opTok.Kind)
	if !ok {
		return nil, false
	}
	then, els, ok := parseBranches(tokens[3:])
	if !ok {
		return nil, false
	}
	return &ConditionalDirective{
		Test: CompareTest(OperandFromToken(left), op, OperandFromToken(right)),
		Then: then,
		Else: els,
	}, true
}

// parseBranches matches "? a : b"
func parseBranches(tokens []Token) (Operand, Operand, bool) {
	if len(tokens) != 4 ||
		tokens[0].Kind != TokenQuestion ||
		!isBranch(tokens[1]) ||
		tokens[2].Kind != TokenColon ||
		!isBranch(tokens[3]) {
		return Operand{}, Operand{}, false
	}
	return OperandFromToken(tokens[1]), OperandFromToken(tokens[3]), true
}

func isBranch(tok Token) bool {
	return tok.Kind == TokenString || tok.Kind == TokenIdentifier
}

// OperandFromToken converts an identifier or literal token to an operand.
// Other token kinds yield an empty text literal.
func OperandFromToken(tok Token) Operand {
	switch tok.Kind {
	case TokenIdentifier:
		return VarOperand(tok.Text)
	case TokenInt:
		return LitOperand(IntValue(tok.Int))
	case TokenFloat:
		return LitOperand(FloatValue(tok.Float))
	case TokenString:
		return LitOperand(StringValue(tok.Text))
	default:
		return LitOperand(StringValue(""))
	}
}
