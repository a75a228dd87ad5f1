package simplify

import (
	"github.com/matzehuels/netprune/pkg/network"
)

// PruneConnectors deletes the centroid connectors of the candidates that
// connectorFilter accepts, in both directions, and returns how many links it
// removed. Transit lines on a deleted connector are deleted with it.
//
// It must run over all candidates before the first merge.
func PruneConnectors(net *network.Network, candidates []*network.Node, connectorFilter Filter) int {
	if connectorFilter.Mode == ModeNever {
		return 0
	}
	var keys []network.LinkKey
	for _, nd := range candidates {
		for _, l := range net.IncomingLinks(nd.Number) {
			if net.IsConnector(l) && connectorFilter.Match(l.Attrs) {
				keys = append(keys, l.Key())
			}
		}
		for _, l := range net.OutgoingLinks(nd.Number) {
			if net.IsConnector(l) && connectorFilter.Match(l.Attrs) {
				keys = append(keys, l.Key())
			}
		}
	}
	removed := 0
	for _, k := range keys {
		if err := net.DeleteLink(k.I, k.J, true); err == nil {
			removed++
		}
	}
	return removed
}
