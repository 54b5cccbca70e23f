package figura

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/itsatony/go-cuserr"
	"github.com/itsatony/go-figura/internal"
)

// Sentinel errors. Every error returned by this package wraps its typed
// cause, so errors.Is works against these through the cuserr wrapper.
var (
	ErrUnterminatedDirective = internal.ErrUnterminatedDirective
	ErrUnterminatedQuote     = internal.ErrUnterminatedQuote
	ErrUndefinedVariable     = internal.ErrUndefinedVariable
	ErrTypeMismatch          = internal.ErrTypeMismatch
	ErrRepeatLimit           = internal.ErrRepeatLimit
	ErrInvalidDelimiter      = internal.ErrInvalidDelimiter

	ErrTemplateNotFound = errors.New(ErrMsgTemplateNotFound)
	ErrTemplateExists   = errors.New(ErrMsgTemplateExists)
	ErrUnsupportedValue = errors.New(ErrMsgUnsupportedValue)
	ErrInvalidValue     = errors.New(ErrMsgInvalidValue)
	ErrStorageClosed    = errors.New(ErrMsgStorageClosed)
)

// NewCompileError wraps a compile failure. Position metadata is attached when
// the cause carries one.
func NewCompileError(cause error) error {
	err := cuserr.WrapStdError(cause, ErrCodeCompile, ErrMsgCompileFailed)
	var ce *internal.CompileError
	if errors.As(cause, &ce) {
		err = withPosition(err, ce.Position)
	}
	return err
}

// NewRenderError wraps a render failure. The directive location and, for
// built-in directive failures, the variable and tag details become metadata.
func NewRenderError(cause error, templateName string) error {
	err := cuserr.WrapStdError(cause, ErrCodeRender, ErrMsgRenderFailed)
	if templateName != "" {
		err = err.WithMetadata(MetaKeyTemplateName, templateName)
	}

	var re *internal.RenderError
	if errors.As(cause, &re) {
		err = withPosition(err, re.Position).WithMetadata(MetaKeyDirective, re.Body)
	}

	var de *internal.DirectiveError
	if errors.As(cause, &de) {
		if de.Name != "" {
			err = err.WithMetadata(MetaKeyVariable, de.Name)
		}
		if de.Expected != "" {
			err = err.
				WithMetadata(MetaKeyExpected, de.Expected).
				WithMetadata(MetaKeyActual, de.Actual)
		}
	}
	return err
}

// NewDelimiterError reports an unusable delimiter pair.
func NewDelimiterError(open, close rune, cause error) error {
	return cuserr.WrapStdError(cause, ErrCodeConfig, ErrMsgInvalidDelimiters).
		WithMetadata(MetaKeyOpen, strconv.QuoteRune(open)).
		WithMetadata(MetaKeyClose, strconv.QuoteRune(close))
}

// NewRepeatLimitConfigError reports a non-positive repeat limit option.
func NewRepeatLimitConfigError(limit int64) error {
	return cuserr.NewValidationError(ErrCodeConfig, ErrMsgInvalidRepeatLimit).
		WithMetadata(MetaKeyActual, strconv.FormatInt(limit, 10))
}

// NewTemplateNotFoundError creates a not-found error for a named template.
func NewTemplateNotFoundError(name string) error {
	return cuserr.WrapStdError(ErrTemplateNotFound, ErrCodeStorage, ErrMsgTemplateNotFound).
		WithMetadata(MetaKeyTemplateName, name)
}

// NewTemplateExistsError reports a duplicate registration.
func NewTemplateExistsError(name string) error {
	return cuserr.WrapStdError(ErrTemplateExists, ErrCodeConfig, ErrMsgTemplateExists).
		WithMetadata(MetaKeyTemplateName, name)
}

// NewEmptyTemplateNameError reports a registration without a name.
func NewEmptyTemplateNameError() error {
	return cuserr.NewValidationError(ErrCodeConfig, ErrMsgEmptyTemplateName)
}

// NewUnsupportedValueError reports a context value of an unusable Go type.
func NewUnsupportedValueError(key string, value any) error {
	return cuserr.WrapStdError(ErrUnsupportedValue, ErrCodeConfig, ErrMsgUnsupportedValue).
		WithMetadata(MetaKeyKey, key).
		WithMetadata(MetaKeyType, fmt.Sprintf("%T", value))
}

// NewInvalidValueError reports a zero Value handed in as context data.
func NewInvalidValueError(key string) error {
	return cuserr.WrapStdError(ErrInvalidValue, ErrCodeConfig, ErrMsgInvalidValue).
		WithMetadata(MetaKeyKey, key)
}

// NewValueOverflowError reports an unsigned integer too large for int64.
func NewValueOverflowError(key string, value uint64) error {
	return cuserr.NewValidationError(ErrCodeConfig, ErrMsgValueOverflow).
		WithMetadata(MetaKeyKey, key).
		WithMetadata(MetaKeyActual, strconv.FormatUint(value, 10))
}

// NewContextDecodeError wraps a YAML or JSON decoding failure.
func NewContextDecodeError(cause error) error {
	return cuserr.WrapStdError(cause, ErrCodeConfig, ErrMsgDecodeContext)
}

func withPosition(err *cuserr.CustomError, pos Position) *cuserr.CustomError {
	return err.
		WithMetadata(MetaKeyLine, strconv.Itoa(pos.Line)).
		WithMetadata(MetaKeyColumn, strconv.Itoa(pos.Column)).
		WithMetadata(MetaKeyOffset, strconv.Itoa(pos.Offset))
}

// withTemplateName tags a package error with the template it came from.
func withTemplateName(err error, name string) error {
	if ce, ok := err.(*cuserr.CustomError); ok && name != "" {
		return ce.WithMetadata(MetaKeyTemplateName, name)
	}
	return err
}

// withSuggestions lists context names close to an undefined variable.
func withSuggestions(err, cause error, ctx *Context) error {
	ce, ok := err.(*cuserr.CustomError)
	if !ok {
		return err
	}
	var de *internal.DirectiveError
	if !errors.As(cause, &de) || de.Kind != internal.DirectiveErrUndefinedVariable {
		return err
	}
	similar := internal.SimilarNames(de.Name, ctx.Names(), MaxSuggestions)
	if len(similar) == 0 {
		return err
	}
	return ce.WithMetadata(MetaKeySuggestions, strings.Join(similar, ","))
}
