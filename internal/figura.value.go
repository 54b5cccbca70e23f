package internal

import (
	"math"
	"strconv"
	"strings"
)

// Ownership records where the bytes of a Text live.
type Ownership uint8

// Ownership constants
const (
	// Borrowed text is a view into memory owned elsewhere: the template
	// source or a string the caller placed in the Context.
	Borrowed Ownership = iota
	// Owned text was allocated while rendering (repetition, concatenation,
	// number formatting).
	Owned
)

// String returns the ownership name
func (o Ownership) String() string {
	if o == Owned {
		return "owned"
	}
	return "borrowed"
}

// Text is an immutable string tagged with its ownership mode.
// Ownership never affects equality or rendered output.
type Text struct {
	s   string
	own Ownership
}

// Borrow wraps s without copying it.
func Borrow(s string) Text {
	return Text{s: s, own: Borrowed}
}

// BorrowRange returns a borrowed view of src[start:end].
func BorrowRange(src string, start, end int) Text {
	return Text{s: src[start:end], own: Borrowed}
}

// Own marks s as freshly allocated.
func Own(s string) Text {
	return Text{s: s, own: Owned}
}

// String returns the text content
func (t Text) String() string { return t.s }

// Len returns the length in bytes
func (t Text) Len() int { return len(t.s) }

// IsEmpty reports whether the text has no content
func (t Text) IsEmpty() bool { return t.s == "" }

// Ownership returns the ownership mode
func (t Text) Ownership() Ownership { return t.own }

// IsBorrowed reports whether the text is a view into external memory
func (t Text) IsBorrowed() bool { return t.own == Borrowed }

// Equal compares content only.
func (t Text) Equal(other Text) bool { return t.s == other.s }

// Repeat returns t concatenated n times. n <= 0 yields empty text and n == 1
// returns t itself without allocating.
func (t Text) Repeat(n int64) Text {
	switch {
	case n <= 0 || t.s == "":
		return Text{}
	case n == 1:
		return t
	default:
		return Own(strings.Repeat(t.s, int(n)))
	}
}

// Concat joins parts. A single non-empty part is returned as is; anything
// more is copied into one owned buffer.
func Concat(parts ...Text) Text {
	var nonEmpty, size int
	var last Text
	for _, p := range parts {
		if p.s != "" {
			nonEmpty++
			size += len(p.s)
			last = p
		}
	}
	switch nonEmpty {
	case 0:
		return Text{}
	case 1:
		return last
	}

	var sb strings.Builder
	sb.Grow(size)
	for _, p := range parts {
		sb.WriteString(p.s)
	}
	return Own(sb.String())
}

// ValueKind is the tag of a Value.
type ValueKind uint8

// Value kind constants
const (
	KindInvalid ValueKind = iota
	KindText
	KindInt
	KindFloat
	KindBool
)

// String returns the kind name
func (k ValueKind) String() string {
	switch k {
	case KindText:
		return KindNameText
	case KindInt:
		return KindNameInt
	case KindFloat:
		return KindNameFloat
	case KindBool:
		return KindNameBool
	default:
		return KindNameInvalid
	}
}

// IsNumeric reports whether the kind is int or float
func (k ValueKind) IsNumeric() bool {
	return k == KindInt || k == KindFloat
}

// Value is a tagged union of text, int64, float64 and bool.
// The zero Value is invalid. A Value's kind is fixed at construction.
type Value struct {
	kind ValueKind
	text Text
	i    int64
	f    float64
	b    bool
}

// TextValue creates a text value
func TextValue(t Text) Value { return Value{kind: KindText, text: t} }

// StringValue creates a text value borrowing s
func StringValue(s string) Value { return Value{kind: KindText, text: Borrow(s)} }

// IntValue creates an integer value
func IntValue(i int64) Value { return Value{kind: KindInt, i: i} }

// FloatValue creates a float value
func FloatValue(f float64) Value { return Value{kind: KindFloat, f: f} }

// BoolValue creates a boolean value
func BoolValue(b bool) Value { return Value{kind: KindBool, b: b} }

// Kind returns the value's tag
func (v Value) Kind() ValueKind { return v.kind }

// IsValid reports whether the value was constructed by one of the constructors
func (v Value) IsValid() bool { return v.kind != KindInvalid }

// Text returns the text payload
func (v Value) Text() (Text, bool) { return v.text, v.kind == KindText }

// Int returns the integer payload
func (v Value) Int() (int64, bool) { return v.i, v.kind == KindInt }

// Float returns the float payload
func (v Value) Float() (float64, bool) { return v.f, v.kind == KindFloat }

// Bool returns the boolean payload
func (v Value) Bool() (bool, bool) { return v.b, v.kind == KindBool }

// number returns the numeric payload promoted to float64
func (v Value) number() float64 {
	if v.kind == KindInt {
		return float64(v.i)
	}
	return v.f
}

// Render returns the canonical text form of the value. Text values are
// returned as is; every other kind produces owned text.
func (v Value) Render() Text {
	switch v.kind {
	case KindText:
		return v.text
	case KindInt:
		return Own(strconv.FormatInt(v.i, 10))
	case KindFloat:
		return Own(FormatFloat(v.f))
	case KindBool:
		if v.b {
			return Borrow(StrTrue)
		}
		return Borrow(StrFalse)
	default:
		return Text{}
	}
}

// String returns the canonical text form
func (v Value) String() string {
	return v.Render().String()
}

// FormatFloat renders f as the shortest decimal that round-trips, always
// carrying a fractional part so floats never read as integers: 3 -> "3.0",
// 2.5 -> "2.5". Magnitudes from 1e21 up and below 1e-6 use exponent form.
func FormatFloat(f float64) string {
	switch {
	case math.IsNaN(f):
		return StrNaN
	case math.IsInf(f, 1):
		return StrPosInf
	case math.IsInf(f, -1):
		return StrNegInf
	}
	if abs := math.Abs(f); abs >= floatExpHigh || (abs != 0 && abs < floatExpLow) {
		return strconv.FormatFloat(f, 'g', -1, 64)
	}
	s := strconv.FormatFloat(f, 'f', -1, 64)
	if strings.IndexByte(s, CharDot) >= 0 {
		return s
	}
	return s + StrFraction
}

// Exponent-form thresholds for FormatFloat
const (
	floatExpHigh = 1e21
	floatExpLow  = 1e-6
)
