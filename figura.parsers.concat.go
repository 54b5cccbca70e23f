package figura

// ConcatParser recognises "a + b + ..." where each operand is a variable or
// a literal. Operands are rendered canonically and joined.
//
//	{first + ' ' + last}
type ConcatParser struct{}

// NewConcatParser creates a concatenation parser
func NewConcatParser() *ConcatParser {
	return &ConcatParser{}
}

// Parse implements Parser
func (p *ConcatParser) Parse(tokens []Token) (Directive, bool) {
	// operand (+ operand)+ has an odd length of at least three
	if len(tokens) < 3 || len(tokens)%2 == 0 {
		return nil, false
	}

	parts := make([]Operand, 0, len(tokens)/2+1)
	for i, tok := range tokens {
		if i%2 == 1 {
			if tok.Kind != TokenPlus {
				return nil, false
			}
			continue
		}
		if !tokenOperand(tok) {
			return nil, false
		}
		parts = append(parts, OperandFromToken(tok))
	}
	return &ConcatDirective{Parts: parts}, true
}

// ConcatDirective joins the rendered form of its operands.
type ConcatDirective struct {
	Parts []Operand
}

// Exec implements Directive
func (d *ConcatDirective) Exec(ctx *Context) (Text, error) {
	texts := make([]Text, len(d.Parts))
	for i, part := range d.Parts {
		v, err := part.Resolve(ctx)
		if err != nil {
			return Text{}, err
		}
		texts[i] = v.Render()
	}
	return Concat(texts...), nil
}

// Variables implements VariableLister
func (d *ConcatDirective) Variables() []string {
	return operandVariables(d.Parts)
}
