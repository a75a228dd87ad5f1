// Package aggregate implements the reducers that combine two attribute values
// when two links (or two transit segments) are merged into one.
//
// # Functions
//
// The set of functions is closed. Each [Func] takes the values of the
// upstream (a) and downstream (b) element together with their link lengths:
//
//	first          a
//	last           b
//	sum            a + b
//	avg            (a + b) / 2
//	avg_by_length  (a·lenA + b·lenB) / (lenA + lenB)
//	min, max       smaller or larger value
//	and, or        boolean combination of truthiness
//	zero           zero of a's kind
//	force          a if a == b, otherwise a [ConflictError]
//
// sum, avg, avg_by_length, min and max return a Bool when both inputs are
// Bool (set when the numeric result is nonzero), and a Number otherwise.
//
// Names are resolved with [Parse] when a policy is built, so an unknown name
// is a configuration error and never surfaces during a merge.
//
// # Failures
//
// Only two functions can fail while merging. force reports a [*ConflictError]
// naming the attribute whose values differ, and avg_by_length reports
// [ErrDivideByZero] when both lengths are zero. Both are per-node outcomes:
// the caller keeps the node and moves on.
package aggregate
