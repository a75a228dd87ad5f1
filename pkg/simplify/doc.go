// Package simplify removes cosmetic degree-2 nodes from a transportation
// network.
//
// # Overview
//
// Many network nodes exist only to shape a link or to split it for
// attribute changes that no longer matter. Removing them shrinks the
// network without changing its topology. A run has four phases:
//
//  1. Build the aggregation policy from rule text ([policy.Compile])
//  2. Select candidate nodes ([SelectCandidates])
//  3. Delete accepted centroid connectors on candidates ([PruneConnectors])
//  4. Merge each candidate away ([MergeNode])
//
// Phases 2 to 4 form a pass. The candidate list of a pass is fixed before
// its first mutation, so the outcome of a pass does not depend on the order
// merges change the graph in. A merge can turn a neighbour into a candidate
// (a one-way detour collapsing onto a two-way road), so passes repeat until
// one removes nothing.
//
// # Filters
//
// Three [Filter] values gate selection. The node filter must hold for a node
// to be removed (default: always). Transit stops are kept unless the stop
// filter holds for them (default: never). Nodes touching a centroid
// connector are kept unless the connector filter accepts every such
// connector (default: never), in which case those connectors are deleted
// first.
//
// # Outcomes
//
// [Run] isolates each node: a force conflict, an impossible merge, or any
// other failure (including a panic) keeps that node, adds a [Skip] and a log
// line to the [Result], and the run continues. Only policy, filter and
// selection errors abort the run.
//
// A second run over a simplified network removes nothing.
package simplify
