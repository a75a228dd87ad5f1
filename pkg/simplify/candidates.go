package simplify

import (
	"github.com/matzehuels/netprune/pkg/network"
)

// SelectCandidates returns the regular nodes that can be removed, in network
// enumeration order.
//
// Stop flags are recomputed first. A node qualifies when nodeFilter holds,
// it is not a stop (or stopFilter holds for it), every connector on it is
// accepted by connectorFilter, and its remaining links reach exactly two
// distinct neighbours through exactly two or four links.
//
// Attribute filters that name an attribute the network does not have fail
// with an INVALID_CONFIG error before anything is computed.
func SelectCandidates(net *network.Network, nodeFilter, stopFilter, connectorFilter Filter) ([]*network.Node, error) {
	if err := nodeFilter.Validate(net, network.DomainNode); err != nil {
		return nil, err
	}
	if err := stopFilter.Validate(net, network.DomainNode); err != nil {
		return nil, err
	}
	if err := connectorFilter.Validate(net, network.DomainLink); err != nil {
		return nil, err
	}

	net.MarkStops()

	var out []*network.Node
	for _, nd := range net.RegularNodes() {
		if isCandidate(net, nd, nodeFilter, stopFilter, connectorFilter) {
			out = append(out, nd)
		}
	}
	return out, nil
}

func isCandidate(net *network.Network, nd *network.Node, nodeFilter, stopFilter, connectorFilter Filter) bool {
	if !nodeFilter.Match(nd.Attrs) {
		return false
	}
	if nd.IsStop() && !stopFilter.Match(nd.Attrs) {
		return false
	}

	neighbours := make(map[int]struct{}, 2)
	links := 0
	visit := func(l *network.Link, other int) bool {
		if net.IsConnector(l) {
			// An accepted connector is pruned before merging, so it does not count.
			return connectorFilter.Match(l.Attrs)
		}
		neighbours[other] = struct{}{}
		links++
		return true
	}
	for _, l := range net.OutgoingLinks(nd.Number) {
		if !visit(l, l.J) {
			return false
		}
	}
	for _, l := range net.IncomingLinks(nd.Number) {
		if !visit(l, l.I) {
			return false
		}
	}
	return len(neighbours) == 2 && (links == 2 || links == 4)
}
