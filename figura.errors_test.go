package figura

import (
	"errors"
	"testing"

	"github.com/itsatony/go-cuserr"
	"github.com/itsatony/go-figura/internal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func requireMetadata(t *testing.T, err error, key, expected string) {
	t.Helper()
	var customErr *cuserr.CustomError
	require.True(t, errors.As(err, &customErr), "expected a cuserr.CustomError, got %T", err)
	value, ok := customErr.GetMetadata(key)
	require.True(t, ok, "missing metadata %q", key)
	assert.Equal(t, expected, value)
}

func TestNewCompileError(t *testing.T) {
	cause := &internal.CompileError{
		Kind:     internal.CompileErrUnterminatedQuote,
		Position: Position{Offset: 12, Line: 2, Column: 5},
	}
	err := NewCompileError(cause)

	assert.Contains(t, err.Error(), ErrMsgCompileFailed)
	assert.ErrorIs(t, err, ErrUnterminatedQuote)
	assert.NotErrorIs(t, err, ErrUnterminatedDirective)
	requireMetadata(t, err, MetaKeyLine, "2")
	requireMetadata(t, err, MetaKeyColumn, "5")
	requireMetadata(t, err, MetaKeyOffset, "12")

	var ce *CompileError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, cause, ce)
}

func TestNewRenderError(t *testing.T) {
	t.Run("directive failure", func(t *testing.T) {
		cause := internal.NewRenderError("age > 'x' ? 'a' : 'b'", Position{Offset: 3, Line: 1, Column: 4},
			&internal.DirectiveError{Kind: internal.DirectiveErrTypeMismatch, Name: "age", Expected: "int", Actual: "text"})
		err := NewRenderError(cause, "greeting")

		assert.ErrorIs(t, err, ErrTypeMismatch)
		requireMetadata(t, err, MetaKeyTemplateName, "greeting")
		requireMetadata(t, err, MetaKeyDirective, "age > 'x' ? 'a' : 'b'")
		requireMetadata(t, err, MetaKeyVariable, "age")
		requireMetadata(t, err, MetaKeyExpected, "int")
		requireMetadata(t, err, MetaKeyActual, "text")
		requireMetadata(t, err, MetaKeyColumn, "4")
	})

	t.Run("anonymous template", func(t *testing.T) {
		err := NewRenderError(errors.New("boom"), "")

		var customErr *cuserr.CustomError
		require.ErrorAs(t, err, &customErr)
		_, ok := customErr.GetMetadata(MetaKeyTemplateName)
		assert.False(t, ok)
	})
}

func TestConfigErrors(t *testing.T) {
	t.Run("delimiters", func(t *testing.T) {
		err := NewDelimiterError('\\', '}', ErrInvalidDelimiter)
		assert.ErrorIs(t, err, ErrInvalidDelimiter)
		requireMetadata(t, err, MetaKeyOpen, `'\\'`)
		requireMetadata(t, err, MetaKeyClose, "'}'")
	})

	t.Run("repeat limit", func(t *testing.T) {
		err := NewRepeatLimitConfigError(-1)
		assert.Contains(t, err.Error(), ErrMsgInvalidRepeatLimit)
		requireMetadata(t, err, MetaKeyActual, "-1")
	})

	t.Run("unsupported value", func(t *testing.T) {
		err := NewUnsupportedValueError("tags", []string{"a"})
		assert.ErrorIs(t, err, ErrUnsupportedValue)
		requireMetadata(t, err, MetaKeyKey, "tags")
		requireMetadata(t, err, MetaKeyType, "[]string")
	})

	t.Run("template not found", func(t *testing.T) {
		err := NewTemplateNotFoundError("welcome")
		assert.ErrorIs(t, err, ErrTemplateNotFound)
		requireMetadata(t, err, MetaKeyTemplateName, "welcome")
	})
}

func TestWithTemplateName(t *testing.T) {
	tagged := withTemplateName(NewCompileError(errors.New("bad")), "report")
	requireMetadata(t, tagged, MetaKeyTemplateName, "report")

	plain := errors.New("plain")
	assert.Same(t, plain, withTemplateName(plain, "report"))
}

func TestRender_UndefinedVariableSuggestions(t *testing.T) {
	engine := MustNew()
	ctx := NewContext()
	ctx.SetString("name", "Alice")
	ctx.SetString("email", "a@example.com")

	t.Run("close match", func(t *testing.T) {
		_, err := engine.Render("Hi {nmae}", ctx)
		require.ErrorIs(t, err, ErrUndefinedVariable)
		requireMetadata(t, err, MetaKeySuggestions, "name")
	})

	t.Run("no match", func(t *testing.T) {
		_, err := engine.Render("{zzzzzzzz}", ctx)
		require.ErrorIs(t, err, ErrUndefinedVariable)

		var customErr *cuserr.CustomError
		require.ErrorAs(t, err, &customErr)
		_, ok := customErr.GetMetadata(MetaKeySuggestions)
		assert.False(t, ok)
	})

	t.Run("nil context", func(t *testing.T) {
		_, err := engine.Render("{name}", nil)
		assert.ErrorIs(t, err, ErrUndefinedVariable)
	})
}
