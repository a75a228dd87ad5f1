package aggregate

import (
	stderrors "errors"
	"fmt"
	"math"
	"strings"

	"github.com/matzehuels/netprune/pkg/errors"
	"github.com/matzehuels/netprune/pkg/network"
)

// Func names one aggregation function.
type Func string

// Aggregation functions.
const (
	First       Func = "first"
	Last        Func = "last"
	Sum         Func = "sum"
	Avg         Func = "avg"
	AvgByLength Func = "avg_by_length"
	Min         Func = "min"
	Max         Func = "max"
	And         Func = "and"
	Or          Func = "or"
	Zero        Func = "zero"
	Force       Func = "force"
)

// all lists the functions in canonical order.
var all = []Func{First, Last, Sum, Avg, AvgByLength, Min, Max, And, Or, Zero, Force}

// ErrDivideByZero is returned by avg_by_length when both lengths are zero.
var ErrDivideByZero = stderrors.New("avg_by_length: both lengths are zero")

// ConflictError is returned by force when the two values differ.
type ConflictError struct {
	Attribute string
	A, B      network.Value
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("attribute %q differs across merged elements (%s != %s)", e.Attribute, e.A, e.B)
}

// Names returns the function names in canonical order.
func Names() []string {
	out := make([]string, len(all))
	for i, f := range all {
		out[i] = string(f)
	}
	return out
}

// Parse resolves a function name, ignoring case and surrounding space.
// Unknown names fail with an UNKNOWN_FUNCTION error.
func Parse(name string) (Func, error) {
	f := Func(strings.ToLower(strings.TrimSpace(name)))
	if !f.Valid() {
		return "", errors.New(errors.ErrCodeUnknownFunction,
			"aggregation function %q not recognized (must be one of: %s)", name, strings.Join(Names(), ", "))
	}
	return f, nil
}

// Valid reports whether f is a known function.
func (f Func) Valid() bool {
	for _, x := range all {
		if x == f {
			return true
		}
	}
	return false
}

func (f Func) String() string { return string(f) }

// Apply combines a and b. attr names the attribute for conflict reports;
// lenA and lenB are the lengths of the links a and b belong to.
func (f Func) Apply(attr string, a, b network.Value, lenA, lenB float64) (network.Value, error) {
	switch f {
	case First:
		return a, nil
	case Last:
		return b, nil
	case Sum:
		return keepKind(a, b, a.Float()+b.Float()), nil
	case Avg:
		return keepKind(a, b, (a.Float()+b.Float())/2), nil
	case AvgByLength:
		total := lenA + lenB
		if total == 0 {
			return network.Value{}, fmt.Errorf("attribute %q: %w", attr, ErrDivideByZero)
		}
		return keepKind(a, b, (a.Float()*lenA+b.Float()*lenB)/total), nil
	case Min:
		return keepKind(a, b, math.Min(a.Float(), b.Float())), nil
	case Max:
		return keepKind(a, b, math.Max(a.Float(), b.Float())), nil
	case And:
		return network.Bool(a.Truthy() && b.Truthy()), nil
	case Or:
		return network.Bool(a.Truthy() || b.Truthy()), nil
	case Zero:
		if a.IsBool() {
			return network.Bool(false), nil
		}
		return network.Number(0), nil
	case Force:
		if !a.Equal(b) {
			return network.Value{}, &ConflictError{Attribute: attr, A: a, B: b}
		}
		return a, nil
	}
	return network.Value{}, errors.New(errors.ErrCodeUnknownFunction, "aggregation function %q not recognized", string(f))
}

// keepKind returns f as a Bool when both inputs are booleans, so numeric
// reducers on flags yield a flag that is set when the result is nonzero.
func keepKind(a, b network.Value, f float64) network.Value {
	if a.IsBool() && b.IsBool() {
		return network.Bool(f != 0)
	}
	return network.Number(f)
}
