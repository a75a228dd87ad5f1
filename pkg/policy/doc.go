// Package policy builds the per-attribute aggregation policy of a
// simplification run.
//
// A [Policy] maps every attribute of the node, link and transit segment
// domains to an [aggregate.Func]. It is assembled from three layers, later
// layers overriding earlier ones:
//
//  1. Built-in defaults (link length is summed, segment transit_time_func
//     is forced, and so on)
//  2. avg for every extra attribute declared on the network
//  3. User rules, in the order they were written
//
// # Rule Text
//
// Rules are written as "attribute: function" pairs separated by commas or
// newlines. Spaces are ignored and empty parts are skipped:
//
//	vdf: force, length: sum
//	ul2: avg_by_length
//	@speed: max
//
// Attribute names may be full names (num_lanes), short names (lanes, vdf,
// ul1, us2, ui3, dwt, dwfac, ttf, noali, noboa) or carry a domain suffix
// (_l for links, _s for segments, _n for nodes). A name that exists in several
// domains, such as data1, applies to all of them unless a suffix narrows it.
//
// # Errors
//
// [ParseRules] fails with INVALID_SYNTAX when a part does not contain exactly
// one colon. [Build] fails with UNKNOWN_ATTRIBUTE or UNKNOWN_FUNCTION. All
// three are configuration errors (see errors.IsConfiguration).
package policy
