package network

import (
	"fmt"
	"slices"

	"github.com/matzehuels/netprune/pkg/errors"
)

// TransitLine is an ordered itinerary of segments over consecutive links.
type TransitLine struct {
	ID   string
	Mode string

	segments []*Segment
	deleted  bool
}

// Segments returns the line's segments in itinerary order. The returned
// slice is a copy.
func (t *TransitLine) Segments() []*Segment { return slices.Clone(t.segments) }

// Itinerary returns the node numbers visited by the line, in order.
func (t *TransitLine) Itinerary() []int {
	if len(t.segments) == 0 {
		return nil
	}
	out := make([]int, 0, len(t.segments)+1)
	out = append(out, t.segments[0].link.I)
	for _, s := range t.segments {
		out = append(out, s.link.J)
	}
	return out
}

// Segment binds a transit line to one link at a position in its itinerary.
type Segment struct {
	Attrs Attributes

	line  *TransitLine
	index int
	link  *Link
}

// Line returns the segment's transit line.
func (s *Segment) Line() *TransitLine { return s.line }

// Index returns the segment's position in its line.
func (s *Segment) Index() int { return s.index }

// Link returns the link the segment traverses.
func (s *Segment) Link() *Link { return s.link }

// INode returns the number of the node the segment starts at. Boardings and
// alightings of a segment happen at this node.
func (s *Segment) INode() int { return s.link.I }

// JNode returns the number of the node the segment ends at.
func (s *Segment) JNode() int { return s.link.J }

// AllowBoardings reports whether passengers may board at the segment's I node.
func (s *Segment) AllowBoardings() bool { return s.Attrs.Get(AttrAllowBoardings).Truthy() }

// AllowAlightings reports whether passengers may alight at the segment's I node.
func (s *Segment) AllowAlightings() bool { return s.Attrs.Get(AttrAllowAlightings).Truthy() }

// SegmentSpec describes one hop of a transit line for [Network.AddTransitLine].
type SegmentSpec struct {
	I, J  int
	Attrs Attributes
}

// AddTransitLine adds a transit line over existing links. Missing standard
// and extra segment attributes are filled with their defaults, so segments
// allow boardings and alightings unless told otherwise.
//
// Returns an INVALID_INPUT error for a malformed id, ErrDuplicateLine if the
// id is taken, ErrUnknownLink if a hop has no link, or ErrDisconnectedLine
// if consecutive hops do not share a node.
func (n *Network) AddTransitLine(id, mode string, specs []SegmentSpec) (*TransitLine, error) {
	if err := errors.ValidateLineID(id); err != nil {
		return nil, err
	}
	if _, exists := n.lineIndex[id]; exists {
		return nil, fmt.Errorf("%w: %s", ErrDuplicateLine, id)
	}
	if len(specs) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "transit line %s has no segments", id)
	}

	links := make([]*Link, len(specs))
	for k, sp := range specs {
		l, ok := n.Link(sp.I, sp.J)
		if !ok {
			return nil, fmt.Errorf("line %s segment %d: %w %d-%d", id, k, ErrUnknownLink, sp.I, sp.J)
		}
		if k > 0 && specs[k-1].J != sp.I {
			return nil, fmt.Errorf("line %s at segment %d: %w", id, k, ErrDisconnectedLine)
		}
		links[k] = l
	}

	line := &TransitLine{ID: id, Mode: mode}
	for k, sp := range specs {
		seg := &Segment{
			Attrs: n.withDefaults(DomainSegment, sp.Attrs),
			line:  line,
			index: k,
			link:  links[k],
		}
		line.segments = append(line.segments, seg)
		links[k].segments = append(links[k].segments, seg)
	}
	n.lines = append(n.lines, line)
	n.lineIndex[id] = line
	return line, nil
}

// TransitLine returns the line with the given id and true, or nil and false.
func (n *Network) TransitLine(id string) (*TransitLine, bool) {
	t, ok := n.lineIndex[id]
	return t, ok
}

// TransitLines returns the live transit lines in enumeration order.
func (n *Network) TransitLines() []*TransitLine {
	out := make([]*TransitLine, 0, len(n.lineIndex))
	for _, t := range n.lines {
		if !t.deleted {
			out = append(out, t)
		}
	}
	return out
}

// TransitSegments returns every segment of every live line, line by line.
func (n *Network) TransitSegments() []*Segment {
	var out []*Segment
	for _, t := range n.TransitLines() {
		out = append(out, t.segments...)
	}
	return out
}

// LineCount returns the number of live transit lines.
func (n *Network) LineCount() int { return len(n.lineIndex) }

// SegmentCount returns the number of segments over all live lines.
func (n *Network) SegmentCount() int {
	total := 0
	for _, t := range n.TransitLines() {
		total += len(t.segments)
	}
	return total
}

// MarkStops recomputes the transient stop flag of every node in a single
// pass over the transit segments and returns the number of stop nodes. A
// node is a stop when some segment starting at it allows boardings or
// alightings.
func (n *Network) MarkStops() int {
	for _, nd := range n.nodes {
		nd.stop = false
	}
	count := 0
	for _, s := range n.TransitSegments() {
		if !s.AllowBoardings() && !s.AllowAlightings() {
			continue
		}
		nd, ok := n.nodeIndex[s.INode()]
		if ok && !nd.stop {
			nd.stop = true
			count++
		}
	}
	return count
}

// linesOn returns the distinct lines with a segment on l.
func (n *Network) linesOn(l *Link) []*TransitLine {
	var out []*TransitLine
	for _, s := range l.segments {
		if !slices.Contains(out, s.line) {
			out = append(out, s.line)
		}
	}
	return out
}

func (n *Network) deleteLine(t *TransitLine) {
	for _, s := range t.segments {
		s.link.segments = slices.DeleteFunc(s.link.segments, func(x *Segment) bool { return x == s })
	}
	t.segments = nil
	t.deleted = true
	delete(n.lineIndex, t.ID)
}
