package definition

import (
	"fmt"
	"strconv"
)

// Kind is the tag of a Value.
type Kind int

const (
	// KindUnsupported marks a decoded value outside the closed set of
	// question types (floats, arrays, tables, datetimes, missing values).
	KindUnsupported Kind = iota
	KindBool
	KindString
	KindInteger
)

func (k Kind) String() string {
	switch k {
	case KindBool:
		return "boolean"
	case KindString:
		return "string"
	case KindInteger:
		return "integer"
	default:
		return "unsupported"
	}
}

// Value is a tagged union over the supported question types.
type Value struct {
	kind Kind
	b    bool
	s    string
	i    int64
	raw  interface{}
}

// Bool returns a boolean Value
func Bool(b bool) Value { return Value{kind: KindBool, b: b} }

// String returns a string Value
func String(s string) Value { return Value{kind: KindString, s: s} }

// Integer returns an integer Value
func Integer(i int64) Value { return Value{kind: KindInteger, i: i} }

// ValueOf converts a decoded TOML or YAML scalar into a Value. Anything
// that is not a bool, string or integer yields a KindUnsupported value that
// remembers the original so errors can describe it.
func ValueOf(raw interface{}) Value {
	switch v := raw.(type) {
	case bool:
		return Bool(v)
	case string:
		return String(v)
	case int:
		return Integer(int64(v))
	case int8:
		return Integer(int64(v))
	case int16:
		return Integer(int64(v))
	case int32:
		return Integer(int64(v))
	case int64:
		return Integer(v)
	case uint8:
		return Integer(int64(v))
	case uint16:
		return Integer(int64(v))
	case uint32:
		return Integer(int64(v))
	case uint:
		if uint64(v) <= 1<<63-1 {
			return Integer(int64(v))
		}
	case uint64:
		if v <= 1<<63-1 {
			return Integer(int64(v))
		}
	}
	return Value{kind: KindUnsupported, raw: raw}
}

func (v Value) Kind() Kind { return v.kind }

// IsSupported reports whether the value is a bool, string or integer
func (v Value) IsSupported() bool { return v.kind != KindUnsupported }

// IsMissing reports whether the value was absent from the definition
func (v Value) IsMissing() bool { return v.kind == KindUnsupported && v.raw == nil }

func (v Value) Bool() bool { return v.b }
func (v Value) Str() string { return v.s }
func (v Value) Integer() int64 { return v.i }
func (v Value) Raw() interface{} { return v.raw }

// Interface returns the Go value handed to the template engine.
func (v Value) Interface() interface{} {
	switch v.kind {
	case KindBool:
		return v.b
	case KindString:
		return v.s
	case KindInteger:
		return v.i
	default:
		return v.raw
	}
}

// Equal reports whether both values carry the same tag and payload.
// Unsupported values are never equal to anything.
func (v Value) Equal(other Value) bool {
	if v.kind != other.kind {
		return false
	}
	switch v.kind {
	case KindBool:
		return v.b == other.b
	case KindString:
		return v.s == other.s
	case KindInteger:
		return v.i == other.i
	default:
		return false
	}
}

// String renders the value the way a user would type it at a prompt.
func (v Value) String() string {
	switch v.kind {
	case KindBool:
		return strconv.FormatBool(v.b)
	case KindString:
		return v.s
	case KindInteger:
		return strconv.FormatInt(v.i, 10)
	default:
		if v.raw == nil {
			return "<missing>"
		}
		return fmt.Sprintf("%v (%T)", v.raw, v.raw)
	}
}

// ParseValue converts user input into a Value of the given kind.
func ParseValue(kind Kind, input string) (Value, error) {
	switch kind {
	case KindBool:
		switch input {
		case "y", "Y", "yes", "Yes", "YES":
			return Bool(true), nil
		case "n", "N", "no", "No", "NO":
			return Bool(false), nil
		}
		b, err := strconv.ParseBool(input)
		if err != nil {
			return Value{}, fmt.Errorf("%q is not a boolean", input)
		}
		return Bool(b), nil
	case KindString:
		return String(input), nil
	case KindInteger:
		i, err := strconv.ParseInt(input, 10, 64)
		if err != nil {
			return Value{}, fmt.Errorf("%q is not an integer", input)
		}
		return Integer(i), nil
	default:
		return Value{}, fmt.Errorf("cannot parse a value of %s type", kind)
	}
}
