package internal

import (
	"errors"
	"fmt"
)

// Sentinel errors. Typed errors below match them through errors.Is.
var (
	ErrUnterminatedDirective = errors.New(ErrMsgUnterminatedDirective)
	ErrUnterminatedQuote     = errors.New(ErrMsgUnterminatedQuote)
	ErrUndefinedVariable     = errors.New(ErrMsgUndefinedVariable)
	ErrTypeMismatch          = errors.New(ErrMsgTypeMismatch)
	ErrRepeatLimit           = errors.New(ErrMsgRepeatLimit)
	ErrInvalidDelimiter      = errors.New(ErrMsgInvalidDelimiter)
)

// CompileErrorKind classifies a compile failure.
type CompileErrorKind uint8

// Compile error kinds
const (
	CompileErrUnterminatedDirective CompileErrorKind = iota
	CompileErrUnterminatedQuote
)

// CompileError is returned when the template text cannot be segmented.
type CompileError struct {
	Kind     CompileErrorKind
	Position Position // where the unterminated directive or quote opened
}

func (e *CompileError) sentinel() error {
	if e.Kind == CompileErrUnterminatedQuote {
		return ErrUnterminatedQuote
	}
	return ErrUnterminatedDirective
}

// Error implements the error interface.
func (e *CompileError) Error() string {
	return fmt.Sprintf(ErrFmtWithPosition, e.sentinel().Error(), e.Position.String())
}

// Is matches the sentinel for the error kind.
func (e *CompileError) Is(target error) bool {
	return target == e.sentinel()
}

// DirectiveErrorKind classifies a render-time directive failure.
type DirectiveErrorKind uint8

// Directive error kinds
const (
	DirectiveErrUndefinedVariable DirectiveErrorKind = iota
	DirectiveErrTypeMismatch
	DirectiveErrRepeatLimit
)

// DirectiveError is returned by the built-in directives.
type DirectiveError struct {
	Kind DirectiveErrorKind
	// Name is the variable involved, if any.
	Name     string
	Expected string
	Actual   string
	// Requested and Limit are set for repeat limit failures.
	Requested int64
	Limit     int64
}

// NewUndefinedVariableError reports a variable missing from the context.
func NewUndefinedVariableError(name string) *DirectiveError {
	return &DirectiveError{Kind: DirectiveErrUndefinedVariable, Name: name}
}

// NewTypeMismatchError reports a value with the wrong tag. name may be empty
// when the mismatch is between two operands rather than a single variable.
func NewTypeMismatchError(name, expected, actual string) *DirectiveError {
	return &DirectiveError{Kind: DirectiveErrTypeMismatch, Name: name, Expected: expected, Actual: actual}
}

// NewRepeatLimitError reports a repetition whose output would exceed limit.
func NewRepeatLimitError(requested, limit int64) *DirectiveError {
	return &DirectiveError{Kind: DirectiveErrRepeatLimit, Requested: requested, Limit: limit}
}

func (e *DirectiveError) sentinel() error {
	switch e.Kind {
	case DirectiveErrTypeMismatch:
		return ErrTypeMismatch
	case DirectiveErrRepeatLimit:
		return ErrRepeatLimit
	default:
		return ErrUndefinedVariable
	}
}

// Error implements the error interface.
func (e *DirectiveError) Error() string {
	switch e.Kind {
	case DirectiveErrTypeMismatch:
		if e.Name != "" {
			return fmt.Sprintf(ErrFmtTypeMismatchOf, ErrMsgTypeMismatch, e.Name, e.Expected, e.Actual)
		}
		return fmt.Sprintf(ErrFmtTypeMismatch, ErrMsgTypeMismatch, e.Expected, e.Actual)
	case DirectiveErrRepeatLimit:
		return fmt.Sprintf(ErrFmtRepeatLimit, ErrMsgRepeatLimit, e.Requested, e.Limit)
	default:
		return fmt.Sprintf(ErrFmtVariable, ErrMsgUndefinedVariable, e.Name)
	}
}

// Is matches the sentinel for the error kind.
func (e *DirectiveError) Is(target error) bool {
	return target == e.sentinel()
}

// RenderError locates a directive failure in the template. Cause is the error
// the directive returned, unchanged.
type RenderError struct {
	Body     string // raw directive body
	Position Position
	Cause    error
}

// NewRenderError wraps a directive failure with its location.
func NewRenderError(body string, pos Position, cause error) *RenderError {
	return &RenderError{Body: body, Position: pos, Cause: cause}
}

// Error implements the error interface.
func (e *RenderError) Error() string {
	return fmt.Sprintf(ErrFmtWithCause, fmt.Sprintf(ErrFmtWithPosition, ErrMsgRenderFailed, e.Position.String()), e.Cause)
}

// Unwrap returns the underlying cause error.
func (e *RenderError) Unwrap() error {
	return e.Cause
}
