package simplify

import (
	"fmt"

	"github.com/matzehuels/netprune/pkg/network"
	"github.com/matzehuels/netprune/pkg/policy"
)

// linkPair is an incoming link u→n with the outgoing link n→w it continues
// on.
type linkPair struct {
	in, out *network.Link
}

// mergePlan is a fully computed merge of one link pair.
type mergePlan struct {
	pair     linkPair
	attrs    network.Attributes
	segAttrs []network.Attributes
}

// MergeNode removes a degree-2 node, replacing each pair of links through it
// with one link and merging the transit segments on them.
//
// Each incoming link u→n is paired with the outgoing link n→w where w != u,
// so a node with two links yields one merge and a node on a divided road
// (two links each way) yields two. Link and segment attributes are combined
// with pol using the lengths of the two links.
//
// Every merge is planned before the network is touched; on error the network
// is unchanged. Errors are a *aggregate.ConflictError when a force rule sees
// differing values, an error wrapping network.ErrInvalidOperation when the
// links cannot be merged, or an aggregation failure such as
// aggregate.ErrDivideByZero.
func MergeNode(net *network.Network, nd *network.Node, pol *policy.Policy) error {
	if nd.Centroid {
		return fmt.Errorf("%w: node %d is a centroid", network.ErrInvalidOperation, nd.Number)
	}
	pairs, err := pairLinks(net, nd.Number)
	if err != nil {
		return err
	}

	plans := make([]mergePlan, 0, len(pairs))
	for _, p := range pairs {
		plan, err := planMerge(net, p, pol)
		if err != nil {
			return err
		}
		plans = append(plans, plan)
	}

	for _, plan := range plans {
		if _, err := net.MergeLinks(plan.pair.in, plan.pair.out, plan.attrs, plan.segAttrs); err != nil {
			return err
		}
	}
	return net.DeleteNode(nd.Number, false)
}

// pairLinks matches the incoming and outgoing links of a node.
func pairLinks(net *network.Network, node int) ([]linkPair, error) {
	in := net.IncomingLinks(node)
	out := net.OutgoingLinks(node)
	total := len(in) + len(out)
	if total != 2 && total != 4 {
		return nil, fmt.Errorf("%w: node %d has %d links, expected 2 or 4", network.ErrInvalidOperation, node, total)
	}
	if len(in) != len(out) {
		return nil, fmt.Errorf("%w: node %d has %d incoming and %d outgoing links",
			network.ErrInvalidOperation, node, len(in), len(out))
	}

	used := make(map[*network.Link]bool, len(out))
	pairs := make([]linkPair, 0, len(in))
	for _, a := range in {
		var match *network.Link
		for _, b := range out {
			if b.J == a.I || used[b] {
				continue
			}
			if match != nil {
				return nil, fmt.Errorf("%w: link %s at node %d continues on both %s and %s",
					network.ErrInvalidOperation, a.Key(), node, match.Key(), b.Key())
			}
			match = b
		}
		if match == nil {
			return nil, fmt.Errorf("%w: link %s has no continuation through node %d",
				network.ErrInvalidOperation, a.Key(), node)
		}
		used[match] = true
		pairs = append(pairs, linkPair{in: a, out: match})
	}
	return pairs, nil
}

func planMerge(net *network.Network, p linkPair, pol *policy.Policy) (mergePlan, error) {
	if err := net.CheckMerge(p.in, p.out); err != nil {
		return mergePlan{}, err
	}
	segPairs, err := net.SegmentPairs(p.in, p.out)
	if err != nil {
		return mergePlan{}, err
	}

	lenA, lenB := p.in.Length(), p.out.Length()
	attrs, err := pol.Merge(network.DomainLink, p.in.Attrs, p.out.Attrs, lenA, lenB)
	if err != nil {
		return mergePlan{}, err
	}
	segAttrs := make([]network.Attributes, len(segPairs))
	for k, sp := range segPairs {
		segAttrs[k], err = pol.Merge(network.DomainSegment, sp.First.Attrs, sp.Second.Attrs, lenA, lenB)
		if err != nil {
			return mergePlan{}, fmt.Errorf("line %s: %w", sp.First.Line().ID, err)
		}
	}
	return mergePlan{pair: p, attrs: attrs, segAttrs: segAttrs}, nil
}
