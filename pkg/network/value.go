package network

import (
	"encoding/json"
	"fmt"
	"maps"
	"slices"
	"strconv"
)

// Kind distinguishes the two scalar kinds an attribute can hold.
type Kind uint8

const (
	// KindNumber is a floating point attribute (lengths, lanes, function ids).
	KindNumber Kind = iota
	// KindBool is a flag attribute (boarding permissions, dwell factors).
	KindBool
)

// String returns "number" or "bool".
func (k Kind) String() string {
	if k == KindBool {
		return "bool"
	}
	return "number"
}

// Value is a tagged scalar attribute value. The zero value is Number(0).
//
// Booleans are stored as 0 or 1 so that every value has a numeric reading;
// aggregators that need a flag use [Value.Truthy].
type Value struct {
	kind Kind
	num  float64
}

// Number returns a numeric value.
func Number(f float64) Value { return Value{kind: KindNumber, num: f} }

// Bool returns a boolean value.
func Bool(b bool) Value {
	if b {
		return Value{kind: KindBool, num: 1}
	}
	return Value{kind: KindBool}
}

// ValueOf converts a decoded scalar (bool, any integer or float type,
// json.Number, or a numeric string) to a Value.
func ValueOf(v any) (Value, error) {
	switch x := v.(type) {
	case Value:
		return x, nil
	case bool:
		return Bool(x), nil
	case float64:
		return Number(x), nil
	case float32:
		return Number(float64(x)), nil
	case int:
		return Number(float64(x)), nil
	case int64:
		return Number(float64(x)), nil
	case int32:
		return Number(float64(x)), nil
	case uint64:
		return Number(float64(x)), nil
	case json.Number:
		f, err := x.Float64()
		if err != nil {
			return Value{}, fmt.Errorf("attribute value %q: %w", x, err)
		}
		return Number(f), nil
	case string:
		f, err := strconv.ParseFloat(x, 64)
		if err != nil {
			return Value{}, fmt.Errorf("attribute value %q is not a number or bool", x)
		}
		return Number(f), nil
	case nil:
		return Value{}, fmt.Errorf("attribute value is null")
	default:
		return Value{}, fmt.Errorf("unsupported attribute value type %T", v)
	}
}

// Kind returns the value's kind.
func (v Value) Kind() Kind { return v.kind }

// IsBool reports whether the value is a boolean.
func (v Value) IsBool() bool { return v.kind == KindBool }

// Float returns the numeric reading of the value (1 or 0 for booleans).
func (v Value) Float() float64 { return v.num }

// Truthy reports whether the value is nonzero.
func (v Value) Truthy() bool { return v.num != 0 }

// Equal reports whether two values hold the same number. Kinds are not
// compared, so Bool(true) equals Number(1).
func (v Value) Equal(o Value) bool { return v.num == o.num }

// Interface returns the value as a bool or float64, for encoders.
func (v Value) Interface() any {
	if v.kind == KindBool {
		return v.num != 0
	}
	return v.num
}

// String formats the value for logs and labels.
func (v Value) String() string {
	if v.kind == KindBool {
		return strconv.FormatBool(v.num != 0)
	}
	return strconv.FormatFloat(v.num, 'g', -1, 64)
}

// Attributes maps attribute names to values for one network element.
type Attributes map[string]Value

// Get returns the named value, or Number(0) when it is absent.
func (a Attributes) Get(name string) Value { return a[name] }

// Clone returns an independent copy.
func (a Attributes) Clone() Attributes {
	if a == nil {
		return Attributes{}
	}
	return maps.Clone(a)
}

// Names returns the attribute names in sorted order.
func (a Attributes) Names() []string {
	return slices.Sorted(maps.Keys(a))
}
