package network

import (
	"fmt"
	"slices"

	"github.com/paulmach/orb"
)

// SegmentPair is a transit segment on the upstream link of a merge together
// with the segment that follows it on the downstream link.
type SegmentPair struct {
	First, Second *Segment
}

// CheckMerge reports whether the path a → b can be replaced by a single link
// from a.I to b.J. It returns an error wrapping ErrInvalidOperation when:
//
//   - either link has been deleted
//   - a does not end where b starts
//   - the merged link would be a self-loop (a.I == b.J)
//   - a link from a.I to b.J already exists
//
// CheckMerge does not inspect transit segments; see [Network.SegmentPairs].
func (n *Network) CheckMerge(a, b *Link) error {
	if a.deleted || b.deleted {
		return fmt.Errorf("%w: cannot merge deleted link", ErrInvalidOperation)
	}
	if a.J != b.I {
		return fmt.Errorf("%w: links %s and %s do not meet at a node", ErrInvalidOperation, a.Key(), b.Key())
	}
	if a.I == b.J {
		return fmt.Errorf("%w: merging %s and %s would create a self-loop at node %d",
			ErrInvalidOperation, a.Key(), b.Key(), a.I)
	}
	if _, exists := n.Link(a.I, b.J); exists {
		return fmt.Errorf("%w: cannot merge %s and %s, link %d-%d already exists",
			ErrInvalidOperation, a.Key(), b.Key(), a.I, b.J)
	}
	return nil
}

// SegmentPairs matches the transit segments of a with those of b by line and
// position: segment k of a line on a must be followed by segment k+1 of the
// same line on b, and every segment on b must be preceded by one on a.
//
// It returns an error wrapping ErrInvalidOperation when a line terminates,
// starts, or turns back at the shared node, since merging would break its
// itinerary. Pairs are returned in the order of a's segments.
func (n *Network) SegmentPairs(a, b *Link) ([]SegmentPair, error) {
	node := a.J
	pairs := make([]SegmentPair, 0, len(a.segments))
	for _, s := range a.segments {
		if s.index+1 >= len(s.line.segments) {
			return nil, fmt.Errorf("%w: transit line %s ends at node %d", ErrInvalidOperation, s.line.ID, node)
		}
		next := s.line.segments[s.index+1]
		if next.link != b {
			return nil, fmt.Errorf("%w: transit line %s continues from node %d on link %s instead of %s",
				ErrInvalidOperation, s.line.ID, node, next.link.Key(), b.Key())
		}
		pairs = append(pairs, SegmentPair{First: s, Second: next})
	}
	for _, s := range b.segments {
		if s.index == 0 {
			return nil, fmt.Errorf("%w: transit line %s starts at node %d", ErrInvalidOperation, s.line.ID, node)
		}
		if prev := s.line.segments[s.index-1]; prev.link != a {
			return nil, fmt.Errorf("%w: transit line %s reaches node %d on link %s instead of %s",
				ErrInvalidOperation, s.line.ID, node, prev.link.Key(), a.Key())
		}
	}
	return pairs, nil
}

// MergeLinks replaces the path a → b with a single link from a.I to b.J.
//
// attrs becomes the attribute set of the new link. segAttrs holds the
// attributes of each merged segment, in the order returned by
// [Network.SegmentPairs]; each pair of segments is replaced in its line by
// one segment on the new link. The shared node's point is kept as a shape
// vertex of the new link, between a's and b's vertices.
//
// The shared node itself is left in place (now unconnected through these
// links); callers remove it with [Network.DeleteNode]. MergeLinks validates
// with [Network.CheckMerge] and [Network.SegmentPairs] before modifying
// anything, so on error the network is unchanged.
func (n *Network) MergeLinks(a, b *Link, attrs Attributes, segAttrs []Attributes) (*Link, error) {
	if err := n.CheckMerge(a, b); err != nil {
		return nil, err
	}
	pairs, err := n.SegmentPairs(a, b)
	if err != nil {
		return nil, err
	}
	if len(segAttrs) != len(pairs) {
		return nil, fmt.Errorf("merge %s and %s: got %d segment attribute sets for %d segment pairs",
			a.Key(), b.Key(), len(segAttrs), len(pairs))
	}

	vertices := make([]orb.Point, 0, len(a.Vertices)+len(b.Vertices)+1)
	vertices = append(vertices, a.Vertices...)
	if shared, ok := n.nodeIndex[a.J]; ok {
		vertices = append(vertices, shared.Point)
	}
	vertices = append(vertices, b.Vertices...)

	merged := &Link{
		I:        a.I,
		J:        b.J,
		Vertices: vertices,
		Attrs:    attrs.Clone(),
	}

	for k, p := range pairs {
		line := p.First.line
		seg := &Segment{
			Attrs: segAttrs[k].Clone(),
			line:  line,
			index: p.First.index,
			link:  merged,
		}
		line.segments = slices.Replace(line.segments, p.First.index, p.First.index+2, seg)
		for i := seg.index + 1; i < len(line.segments); i++ {
			line.segments[i].index = i
		}
		merged.segments = append(merged.segments, seg)
	}

	a.segments = nil
	b.segments = nil
	n.removeLink(a)
	n.removeLink(b)
	n.insertLink(merged)
	return merged, nil
}
