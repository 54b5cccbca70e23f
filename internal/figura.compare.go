package internal

import "math"

// CompareOp is a comparison operator usable in a conditional test.
type CompareOp uint8

// Comparison operators
const (
	CompareEq CompareOp = iota
	CompareNe
	CompareGt
	CompareLt
	CompareGe
	CompareLe
)

var compareOpLexemes = [...]string{
	CompareEq: OpEq,
	CompareNe: OpNe,
	CompareGt: OpGt,
	CompareLt: OpLt,
	CompareGe: OpGe,
	CompareLe: OpLe,
}

// String returns the operator lexeme
func (op CompareOp) String() string {
	if int(op) < len(compareOpLexemes) {
		return compareOpLexemes[op]
	}
	return ""
}

// IsOrdering reports whether the operator needs ordered (numeric) operands
func (op CompareOp) IsOrdering() bool {
	return op >= CompareGt
}

// CompareOpFromToken maps a comparison token kind to its operator.
func CompareOpFromToken(kind TokenKind) (CompareOp, bool) {
	switch kind {
	case TokenEq:
		return CompareEq, true
	case TokenNe:
		return CompareNe, true
	case TokenGt:
		return CompareGt, true
	case TokenLt:
		return CompareLt, true
	case TokenGe:
		return CompareGe, true
	case TokenLe:
		return CompareLe, true
	default:
		return 0, false
	}
}

// Apply evaluates left op right.
//
// Int and float operands compare numerically, promoting to float64 when the
// tags differ. Any other tag mismatch is a type error, as is an ordering
// operator on text or bool.
func (op CompareOp) Apply(left, right Value) (bool, error) {
	if left.kind.IsNumeric() && right.kind.IsNumeric() {
		if left.kind == KindInt && right.kind == KindInt {
			return op.ordered(cmpInt(left.i, right.i)), nil
		}
		a, b := left.number(), right.number()
		// NaN is unordered: only != holds.
		if math.IsNaN(a) || math.IsNaN(b) {
			return op == CompareNe, nil
		}
		return op.ordered(cmpFloat(a, b)), nil
	}

	if left.kind != right.kind {
		return false, NewTypeMismatchError("", left.kind.String(), right.kind.String())
	}
	if op.IsOrdering() {
		return false, NewTypeMismatchError("", KindNameNumber, left.kind.String())
	}

	var equal bool
	switch left.kind {
	case KindText:
		equal = left.text.s == right.text.s
	case KindBool:
		equal = left.b == right.b
	default:
		return false, NewTypeMismatchError("", KindNameText, left.kind.String())
	}
	if op == CompareEq {
		return equal, nil
	}
	return !equal, nil
}

// ordered converts a three-way comparison result to the operator's answer
func (op CompareOp) ordered(c int) bool {
	switch op {
	case CompareEq:
		return c == 0
	case CompareNe:
		return c != 0
	case CompareGt:
		return c > 0
	case CompareLt:
		return c < 0
	case CompareGe:
		return c >= 0
	case CompareLe:
		return c <= 0
	default:
		return false
	}
}

func cmpInt(a, b int64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

func cmpFloat(a, b float64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}
