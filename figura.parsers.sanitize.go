package figura

import (
	"sync"

	"github.com/microcosm-cc/bluemonday"
)

var (
	strictPolicyOnce sync.Once
	strictPolicy     *bluemonday.Policy
)

func defaultSanitizePolicy() *bluemonday.Policy {
	strictPolicyOnce.Do(func() {
		strictPolicy = bluemonday.StrictPolicy()
	})
	return strictPolicy
}

// SanitizeParser wraps another parser and passes every directive's output
// through an HTML sanitisation policy. Literal template text is not touched.
type SanitizeParser struct {
	inner  Parser
	policy *bluemonday.Policy
}

// NewSanitizeParser wraps inner. A nil inner selects the default grammar and
// a nil policy strips all markup (bluemonday.StrictPolicy).
func NewSanitizeParser(inner Parser, policy *bluemonday.Policy) *SanitizeParser {
	if inner == nil {
		inner = NewDefaultParser()
	}
	if policy == nil {
		policy = defaultSanitizePolicy()
	}
	return &SanitizeParser{inner: inner, policy: policy}
}

// Parse implements Parser
func (p *SanitizeParser) Parse(tokens []Token) (Directive, bool) {
	d, ok := p.inner.Parse(tokens)
	if !ok || d == nil {
		return nil, false
	}
	return &SanitizedDirective{Inner: d, Policy: p.policy}, true
}

// SanitizedDirective runs Inner and sanitises what it produced.
type SanitizedDirective struct {
	Inner  Directive
	Policy *bluemonday.Policy
}

// Exec implements Directive
func (d *SanitizedDirective) Exec(ctx *Context) (Text, error) {
	out, err := d.Inner.Exec(ctx)
	if err != nil {
		return Text{}, err
	}
	if out.IsEmpty() {
		return out, nil
	}
	clean := d.Policy.Sanitize(out.String())
	if clean == out.String() {
		return out, nil
	}
	return Own(clean), nil
}

// Variables implements VariableLister
func (d *SanitizedDirective) Variables() []string {
	if vl, ok := d.Inner.(VariableLister); ok {
		return vl.Variables()
	}
	return nil
}
