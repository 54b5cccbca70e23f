package internal

// Directive is one executable unit of a compiled template. Implementations
// must not modify the context and must be safe for concurrent use.
type Directive interface {
	Exec(ctx *Context) (Text, error)
}

// VariableLister is implemented by directives that read context variables.
type VariableLister interface {
	Variables() []string
}

// Operand is either a variable reference or a literal value.
type Operand struct {
	Name  string // set for variable references
	Value Value  // set for literals
}

// VarOperand references a context variable
func VarOperand(name string) Operand {
	return Operand{Name: name}
}

// LitOperand embeds a literal value
func LitOperand(v Value) Operand {
	return Operand{Value: v}
}

// IsVariable reports whether the operand references a variable
func (o Operand) IsVariable() bool {
	return !o.Value.IsValid()
}

// Resolve returns the operand's value, looking variables up in ctx.
func (o Operand) Resolve(ctx *Context) (Value, error) {
	if !o.IsVariable() {
		return o.Value, nil
	}
	v, ok := ctx.Get(o.Name)
	if !ok {
		return Value{}, NewUndefinedVariableError(o.Name)
	}
	return v, nil
}

// String returns the operand as it would appear in a directive body
func (o Operand) String() string {
	if o.IsVariable() {
		return o.Name
	}
	if o.Value.Kind() == KindText {
		return "'" + o.Value.String() + "'"
	}
	return o.Value.String()
}

// operandNames returns the variable names among ops, in order
func operandNames(ops ...Operand) []string {
	var names []string
	for _, op := range ops {
		if op.IsVariable() {
			names = append(names, op.Name)
		}
	}
	return names
}

// EmptyDirective renders nothing. It stands in for unrecognised bodies.
type EmptyDirective struct{}

// Exec implements Directive
func (EmptyDirective) Exec(*Context) (Text, error) {
	return Text{}, nil
}

// VariableDirective renders a context variable in canonical form.
type VariableDirective struct {
	Name string
}

// Exec implements Directive
func (d *VariableDirective) Exec(ctx *Context) (Text, error) {
	v, ok := ctx.Get(d.Name)
	if !ok {
		return Text{}, NewUndefinedVariableError(d.Name)
	}
	return v.Render(), nil
}

// Variables implements VariableLister
func (d *VariableDirective) Variables() []string {
	return []string{d.Name}
}

// LiteralDirective renders fixed text.
type LiteralDirective struct {
	Text Text
}

// Exec implements Directive
func (d *LiteralDirective) Exec(*Context) (Text, error) {
	return d.Text, nil
}

// RepeatDirective renders a text pattern count times.
type RepeatDirective struct {
	Pattern Operand // must resolve to text
	Count   Operand // must resolve to int
	// MaxLength caps the output in bytes. Zero means DefaultMaxRepeatLength.
	MaxLength int64
}

// Exec implements Directive
func (d *RepeatDirective) Exec(ctx *Context) (Text, error) {
	pv, err := d.Pattern.Resolve(ctx)
	if err != nil {
		return Text{}, err
	}
	pattern, ok := pv.Text()
	if !ok {
		return Text{}, NewTypeMismatchError(d.Pattern.Name, KindNameText, pv.Kind().String())
	}

	cv, err := d.Count.Resolve(ctx)
	if err != nil {
		return Text{}, err
	}
	count, ok := cv.Int()
	if !ok {
		return Text{}, NewTypeMismatchError(d.Count.Name, KindNameInt, cv.Kind().String())
	}
	if count <= 0 || pattern.IsEmpty() {
		return Text{}, nil
	}

	limit := d.MaxLength
	if limit <= 0 {
		limit = DefaultMaxRepeatLength
	}
	size := int64(pattern.Len())
	if count > limit/size {
		return Text{}, NewRepeatLimitError(saturatingMul(size, count), limit)
	}
	return pattern.Repeat(count), nil
}

// Variables implements VariableLister
func (d *RepeatDirective) Variables() []string {
	return operandNames(d.Pattern, d.Count)
}

func saturatingMul(a, b int64) int64 {
	const maxInt64 = 1<<63 - 1
	if a != 0 && b > maxInt64/a {
		return maxInt64
	}
	return a * b
}

// TestKind selects how a conditional decides.
type TestKind uint8

// Test kinds
const (
	TestBoolVar TestKind = iota
	TestNotBoolVar
	TestCompare
)

// Test is the condition of a ConditionalDirective.
type Test struct {
	Kind TestKind
	// Name is the boolean variable for TestBoolVar and TestNotBoolVar.
	Name string
	// Left, Op and Right are used by TestCompare.
	Left  Operand
	Op    CompareOp
	Right Operand
}

// BoolTest tests a boolean variable
func BoolTest(name string) Test {
	return Test{Kind: TestBoolVar, Name: name}
}

// NotBoolTest tests the negation of a boolean variable
func NotBoolTest(name string) Test {
	return Test{Kind: TestNotBoolVar, Name: name}
}

// CompareTest compares two operands
func CompareTest(left Operand, op CompareOp, right Operand) Test {
	return Test{Kind: TestCompare, Left: left, Op: op, Right: right}
}

// Eval evaluates the test against ctx.
func (t Test) Eval(ctx *Context) (bool, error) {
	switch t.Kind {
	case TestBoolVar, TestNotBoolVar:
		v, ok := ctx.Get(t.Name)
		if !ok {
			return false, NewUndefinedVariableError(t.Name)
		}
		b, ok := v.Bool()
		if !ok {
			return false, NewTypeMismatchError(t.Name, KindNameBool, v.Kind().String())
		}
		return b != (t.Kind == TestNotBoolVar), nil
	default:
		left, err := t.Left.Resolve(ctx)
		if err != nil {
			return false, err
		}
		right, err := t.Right.Resolve(ctx)
		if err != nil {
			return false, err
		}
		return t.Op.Apply(left, right)
	}
}

// Variables returns the names the test reads
func (t Test) Variables() []string {
	if t.Kind == TestCompare {
		return operandNames(t.Left, t.Right)
	}
	return []string{t.Name}
}

// ConditionalDirective renders one of two branches depending on a test.
// Only the selected branch is resolved.
type ConditionalDirective struct {
	Test Test
	Then Operand
	Else Operand
}

// Exec implements Directive
func (d *ConditionalDirective) Exec(ctx *Context) (Text, error) {
	ok, err := d.Test.Eval(ctx)
	if err != nil {
		return Text{}, err
	}
	branch := d.Else
	if ok {
		branch = d.Then
	}
	v, err := branch.Resolve(ctx)
	if err != nil {
		return Text{}, err
	}
	return v.Render(), nil
}

// Variables implements VariableLister
func (d *ConditionalDirective) Variables() []string {
	return append(d.Test.Variables(), operandNames(d.Then, d.Else)...)
}
