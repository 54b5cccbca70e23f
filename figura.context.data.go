package figura

import (
	"fmt"
	"math"
	"os"
	"sort"
	"time"

	"github.com/itsatony/go-cuserr"
	"gopkg.in/yaml.v3"
)

// ContextFromMap converts Go data into a Context.
//
// Strings become borrowed text, every integer kind becomes int64, float32 and
// float64 become floats and bools stay bools. Nested maps are flattened into
// dotted names ("user.name"). Nil values are skipped. Any other type is an
// error wrapping ErrUnsupportedValue.
func ContextFromMap(data map[string]any) (*Context, error) {
	ctx := NewContext()
	if err := addToContext(ctx, "", data); err != nil {
		return nil, err
	}
	return ctx, nil
}

// MustContextFromMap converts data and panics on error.
func MustContextFromMap(data map[string]any) *Context {
	ctx, err := ContextFromMap(data)
	if err != nil {
		panic(err)
	}
	return ctx
}

// LoadContextYAML decodes a YAML (or JSON) mapping into a Context. Integer
// and float scalars keep their distinct tags.
func LoadContextYAML(data []byte) (*Context, error) {
	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, NewContextDecodeError(err)
	}
	return ContextFromMap(raw)
}

// LoadContextFile reads and decodes a YAML or JSON context file.
func LoadContextFile(path string) (*Context, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, cuserr.WrapStdError(err, ErrCodeConfig, ErrMsgReadContextFile).
			WithMetadata(MetaKeyPath, path)
	}
	return LoadContextYAML(data)
}

// ValueOf converts a single Go value. key is used only in error metadata.
//
// A time.Time at midnight UTC becomes a "2006-01-02" date, any other time an
// RFC 3339 timestamp. The zero Value is rejected with ErrInvalidValue.
func ValueOf(key string, v any) (Value, error) {
	switch x := v.(type) {
	case Value:
		if !x.IsValid() {
			return Value{}, NewInvalidValueError(key)
		}
		return x, nil
	case Text:
		return TextValue(x), nil
	case string:
		return StringValue(x), nil
	case bool:
		return BoolValue(x), nil
	case int:
		return IntValue(int64(x)), nil
	case int8:
		return IntValue(int64(x)), nil
	case int16:
		return IntValue(int64(x)), nil
	case int32:
		return IntValue(int64(x)), nil
	case int64:
		return IntValue(x), nil
	case uint:
		return uintValue(key, uint64(x))
	case uint8:
		return IntValue(int64(x)), nil
	case uint16:
		return IntValue(int64(x)), nil
	case uint32:
		return IntValue(int64(x)), nil
	case uint64:
		return uintValue(key, x)
	case float32:
		return FloatValue(float64(x)), nil
	case float64:
		return FloatValue(x), nil
	case time.Time:
		return timeValue(x), nil
	case *time.Time:
		if x == nil {
			return Value{}, NewUnsupportedValueError(key, v)
		}
		return timeValue(*x), nil
	case fmt.Stringer:
		return StringValue(x.String()), nil
	default:
		return Value{}, NewUnsupportedValueError(key, v)
	}
}

func timeValue(t time.Time) Value {
	if t.Location() == time.UTC && t.Hour() == 0 && t.Minute() == 0 && t.Second() == 0 && t.Nanosecond() == 0 {
		return StringValue(t.Format(ContextDateLayout))
	}
	return StringValue(t.Format(ContextTimeLayout))
}

func uintValue(key string, u uint64) (Value, error) {
	if u > math.MaxInt64 {
		return Value{}, NewValueOverflowError(key, u)
	}
	return IntValue(int64(u)), nil
}

// addToContext walks data in sorted key order so that errors are reported
// deterministically.
func addToContext(ctx *Context, prefix string, data map[string]any) error {
	keys := make([]string, 0, len(data))
	for k := range data {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		name := k
		if prefix != "" {
			name = prefix + ContextKeySeparator + k
		}
		if err := addValue(ctx, name, data[k]); err != nil {
			return err
		}
	}
	return nil
}

func addValue(ctx *Context, name string, v any) error {
	switch x := v.(type) {
	case nil:
		return nil
	case map[string]any:
		return addToContext(ctx, name, x)
	case map[any]any:
		nested := make(map[string]any, len(x))
		for k, val := range x {
			nested[fmt.Sprint(k)] = val
		}
		return addToContext(ctx, name, nested)
	}

	value, err := ValueOf(name, v)
	if err != nil {
		return err
	}
	ctx.Set(name, value)
	return nil
}
