package figura

// Chain combines parsers into one. Each directive body is offered to the
// parsers in order and the first one that matches wins, so list narrower
// grammars before broader ones. Nil entries are skipped.
func Chain(parsers ...Parser) Parser {
	chain := make(chainParser, 0, len(parsers))
	for _, p := range parsers {
		if p != nil {
			chain = append(chain, p)
		}
	}
	return chain
}

type chainParser []Parser

// Parse implements Parser
func (c chainParser) Parse(tokens []Token) (Directive, bool) {
	for _, p := range c {
		if d, ok := p.Parse(tokens); ok && d != nil {
			return d, true
		}
	}
	return nil, false
}

// StandardParser returns the default grammar extended with concatenation and
// sprig string filters. The default grammar is tried first.
func StandardParser() Parser {
	return Chain(NewDefaultParser(), NewConcatParser(), NewFilterParser())
}

// tokenOperand reports whether tok can be turned into an operand
func tokenOperand(tok Token) bool {
	return tok.Kind.IsOperand()
}

// operandVariables returns the variable names among ops, in order
func operandVariables(ops []Operand) []string {
	var names []string
	for _, op := range ops {
		if op.IsVariable() {
			names = append(names, op.Name)
		}
	}
	return names
}
