package network

import (
	"errors"
	"fmt"
	"slices"

	"github.com/paulmach/orb"
)

var (
	// ErrInvalidNodeNumber is returned by [Network.AddNode] when the node
	// number is not positive.
	ErrInvalidNodeNumber = errors.New("node number must be positive")

	// ErrDuplicateNode is returned by [Network.AddNode] when a node with the
	// same number already exists.
	ErrDuplicateNode = errors.New("duplicate node number")

	// ErrUnknownNode is returned when an operation references a node number
	// that is not in the network.
	ErrUnknownNode = errors.New("unknown node")

	// ErrSelfLoop is returned by [Network.AddLink] when I == J.
	ErrSelfLoop = errors.New("link endpoints must be distinct")

	// ErrDuplicateLink is returned by [Network.AddLink] when a link with the
	// same (I, J) pair already exists. Links are identified by their ordered
	// endpoint pair, so parallel links in the same direction are not allowed.
	ErrDuplicateLink = errors.New("duplicate link")

	// ErrUnknownLink is returned when an operation references an (I, J) pair
	// that is not in the network.
	ErrUnknownLink = errors.New("unknown link")

	// ErrDuplicateLine is returned by [Network.AddTransitLine] for a line id
	// that is already in use.
	ErrDuplicateLine = errors.New("duplicate transit line")

	// ErrDisconnectedLine is returned when consecutive segments of a transit
	// line do not share a node (seg[k].J != seg[k+1].I).
	ErrDisconnectedLine = errors.New("transit line itinerary is not connected")

	// ErrDuplicateAttribute is returned by [Network.DeclareExtra] when the
	// attribute already exists in the domain.
	ErrDuplicateAttribute = errors.New("duplicate attribute")

	// ErrInvalidOperation is returned when a graph edit is structurally
	// impossible: merging links that do not meet at a node, merging into an
	// existing link, or breaking a transit line. Simplification treats it as
	// an expected per-node outcome.
	ErrInvalidOperation = errors.New("invalid network operation")
)

// LinkKey identifies a link by its ordered endpoint pair.
type LinkKey struct {
	I, J int
}

// String formats the key as "i-j".
func (k LinkKey) String() string { return fmt.Sprintf("%d-%d", k.I, k.J) }

// Reverse returns the key of the opposing link.
func (k LinkKey) Reverse() LinkKey { return LinkKey{I: k.J, J: k.I} }

// Node is a network vertex identified by its number.
//
// Centroid nodes represent traffic analysis zones. They attach to the
// network through connector links and are never removed by simplification.
type Node struct {
	Number   int
	Centroid bool
	Point    orb.Point
	Attrs    Attributes

	stop    bool
	deleted bool
}

// IsStop reports whether a transit segment boards or alights at the node.
// The flag is scratch state computed by [Network.MarkStops].
func (n *Node) IsStop() bool { return n.stop }

// Link is a directed connection between two distinct nodes.
//
// Vertices holds the interior shape points between I and J. Transit
// segments that traverse the link are owned by their line and indexed here
// for lookup.
type Link struct {
	I, J     int
	Vertices []orb.Point
	Attrs    Attributes

	segments []*Segment
	deleted  bool
}

// Key returns the link's (I, J) identity.
func (l *Link) Key() LinkKey { return LinkKey{I: l.I, J: l.J} }

// Length returns the link's length attribute.
func (l *Link) Length() float64 { return l.Attrs.Get(AttrLength).Float() }

// Segments returns the transit segments traversing the link, in the order
// they were added. The returned slice is a copy.
func (l *Link) Segments() []*Segment { return slices.Clone(l.segments) }

// Network is a directed transportation multigraph of nodes, links and
// transit lines.
//
// Nodes and links live in insertion-ordered arenas. Deleting an element
// marks its slot and removes it from the indices, so enumeration order is
// stable across deletions and deterministic for a given network. Links
// created by [Network.MergeLinks] are appended at the end.
//
// The zero value is not usable; use [New]. A Network is not safe for
// concurrent use.
type Network struct {
	nodes     []*Node
	nodeIndex map[int]*Node

	links     []*Link
	linkIndex map[LinkKey]*Link
	outgoing  map[int][]*Link
	incoming  map[int][]*Link

	lines     []*TransitLine
	lineIndex map[string]*TransitLine

	extras []ExtraAttribute
}

// New creates an empty network.
func New() *Network {
	return &Network{
		nodeIndex: make(map[int]*Node),
		linkIndex: make(map[LinkKey]*Link),
		outgoing:  make(map[int][]*Link),
		incoming:  make(map[int][]*Link),
		lineIndex: make(map[string]*TransitLine),
	}
}

// AddNode adds a node and returns the stored copy. Missing standard and
// extra node attributes are filled with their defaults.
//
// Returns ErrInvalidNodeNumber if Number <= 0, or ErrDuplicateNode if the
// number is already in use.
func (n *Network) AddNode(nd Node) (*Node, error) {
	if nd.Number <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidNodeNumber, nd.Number)
	}
	if _, exists := n.nodeIndex[nd.Number]; exists {
		return nil, fmt.Errorf("%w: %d", ErrDuplicateNode, nd.Number)
	}
	stored := &Node{
		Number:   nd.Number,
		Centroid: nd.Centroid,
		Point:    nd.Point,
		Attrs:    n.withDefaults(DomainNode, nd.Attrs),
	}
	n.nodes = append(n.nodes, stored)
	n.nodeIndex[stored.Number] = stored
	return stored, nil
}

// AddLink adds a link between two existing nodes and returns the stored
// copy. Missing standard and extra link attributes are filled with their
// defaults.
//
// Returns ErrSelfLoop if I == J, ErrUnknownNode if an endpoint does not
// exist, or ErrDuplicateLink if the (I, J) pair is taken.
func (n *Network) AddLink(l Link) (*Link, error) {
	if l.I == l.J {
		return nil, fmt.Errorf("%w: %d-%d", ErrSelfLoop, l.I, l.J)
	}
	if _, ok := n.nodeIndex[l.I]; !ok {
		return nil, fmt.Errorf("link %d-%d: %w %d", l.I, l.J, ErrUnknownNode, l.I)
	}
	if _, ok := n.nodeIndex[l.J]; !ok {
		return nil, fmt.Errorf("link %d-%d: %w %d", l.I, l.J, ErrUnknownNode, l.J)
	}
	key := l.Key()
	if _, exists := n.linkIndex[key]; exists {
		return nil, fmt.Errorf("%w: %s", ErrDuplicateLink, key)
	}
	stored := &Link{
		I:        l.I,
		J:        l.J,
		Vertices: slices.Clone(l.Vertices),
		Attrs:    n.withDefaults(DomainLink, l.Attrs),
	}
	n.insertLink(stored)
	return stored, nil
}

func (n *Network) insertLink(l *Link) {
	n.links = append(n.links, l)
	n.linkIndex[l.Key()] = l
	n.outgoing[l.I] = append(n.outgoing[l.I], l)
	n.incoming[l.J] = append(n.incoming[l.J], l)
}

// removeLink drops a link from the indices without touching its segments.
func (n *Network) removeLink(l *Link) {
	l.deleted = true
	delete(n.linkIndex, l.Key())
	n.outgoing[l.I] = slices.DeleteFunc(n.outgoing[l.I], func(x *Link) bool { return x == l })
	n.incoming[l.J] = slices.DeleteFunc(n.incoming[l.J], func(x *Link) bool { return x == l })
}

// Node returns the node with the given number and true, or nil and false if
// it does not exist.
func (n *Network) Node(number int) (*Node, bool) {
	nd, ok := n.nodeIndex[number]
	return nd, ok
}

// Link returns the link from i to j and true, or nil and false if it does
// not exist.
func (n *Network) Link(i, j int) (*Link, bool) {
	l, ok := n.linkIndex[LinkKey{I: i, J: j}]
	return l, ok
}

// Nodes returns all live nodes in enumeration order.
func (n *Network) Nodes() []*Node {
	out := make([]*Node, 0, len(n.nodeIndex))
	for _, nd := range n.nodes {
		if !nd.deleted {
			out = append(out, nd)
		}
	}
	return out
}

// RegularNodes returns the live non-centroid nodes in enumeration order.
func (n *Network) RegularNodes() []*Node {
	var out []*Node
	for _, nd := range n.nodes {
		if !nd.deleted && !nd.Centroid {
			out = append(out, nd)
		}
	}
	return out
}

// Centroids returns the live centroid nodes in enumeration order.
func (n *Network) Centroids() []*Node {
	var out []*Node
	for _, nd := range n.nodes {
		if !nd.deleted && nd.Centroid {
			out = append(out, nd)
		}
	}
	return out
}

// Links returns all live links in enumeration order.
func (n *Network) Links() []*Link {
	out := make([]*Link, 0, len(n.linkIndex))
	for _, l := range n.links {
		if !l.deleted {
			out = append(out, l)
		}
	}
	return out
}

// OutgoingLinks returns the links leaving the node. The returned slice is a
// copy; it is empty for unknown nodes.
func (n *Network) OutgoingLinks(number int) []*Link { return slices.Clone(n.outgoing[number]) }

// IncomingLinks returns the links entering the node. The returned slice is a
// copy; it is empty for unknown nodes.
func (n *Network) IncomingLinks(number int) []*Link { return slices.Clone(n.incoming[number]) }

// Degree returns the number of links incident to the node in either
// direction.
func (n *Network) Degree(number int) int { return len(n.outgoing[number]) + len(n.incoming[number]) }

// IsConnector reports whether either endpoint of l is a centroid.
func (n *Network) IsConnector(l *Link) bool {
	if nd, ok := n.nodeIndex[l.I]; ok && nd.Centroid {
		return true
	}
	if nd, ok := n.nodeIndex[l.J]; ok && nd.Centroid {
		return true
	}
	return false
}

// Shape returns the full polyline of a link: the I node's point, the
// interior vertices, and the J node's point.
func (n *Network) Shape(l *Link) orb.LineString {
	ls := make(orb.LineString, 0, len(l.Vertices)+2)
	if nd, ok := n.nodeIndex[l.I]; ok {
		ls = append(ls, nd.Point)
	}
	ls = append(ls, l.Vertices...)
	if nd, ok := n.nodeIndex[l.J]; ok {
		ls = append(ls, nd.Point)
	}
	return ls
}

// NodeCount returns the number of live nodes.
func (n *Network) NodeCount() int { return len(n.nodeIndex) }

// LinkCount returns the number of live links.
func (n *Network) LinkCount() int { return len(n.linkIndex) }

// DeleteLink removes the link from i to j.
//
// A link carrying transit segments can only be deleted with cascade, which
// also deletes every transit line that uses it. Returns ErrUnknownLink if
// the link does not exist, or ErrInvalidOperation if it carries segments and
// cascade is false.
func (n *Network) DeleteLink(i, j int, cascade bool) error {
	l, ok := n.Link(i, j)
	if !ok {
		return fmt.Errorf("%w: %d-%d", ErrUnknownLink, i, j)
	}
	if len(l.segments) > 0 {
		if !cascade {
			return fmt.Errorf("%w: link %s carries %d transit segments", ErrInvalidOperation, l.Key(), len(l.segments))
		}
		for _, line := range n.linesOn(l) {
			n.deleteLine(line)
		}
	}
	n.removeLink(l)
	return nil
}

// DeleteNode removes a node.
//
// A node with incident links can only be deleted with cascade, which also
// deletes those links (and, through them, any transit lines using them).
// Returns ErrUnknownNode if the node does not exist, or ErrInvalidOperation
// if it still has links and cascade is false.
func (n *Network) DeleteNode(number int, cascade bool) error {
	nd, ok := n.nodeIndex[number]
	if !ok {
		return fmt.Errorf("%w: %d", ErrUnknownNode, number)
	}
	if d := n.Degree(number); d > 0 {
		if !cascade {
			return fmt.Errorf("%w: node %d still has %d links", ErrInvalidOperation, number, d)
		}
		for _, l := range append(n.OutgoingLinks(number), n.IncomingLinks(number)...) {
			if l.deleted {
				continue
			}
			if err := n.DeleteLink(l.I, l.J, true); err != nil {
				return err
			}
		}
	}
	nd.deleted = true
	delete(n.nodeIndex, number)
	delete(n.outgoing, number)
	delete(n.incoming, number)
	return nil
}

// Clone returns a deep copy of the network. Enumeration order is preserved;
// deleted slots are compacted away.
func (n *Network) Clone() *Network {
	c := New()
	c.extras = slices.Clone(n.extras)
	for _, nd := range n.Nodes() {
		cp := &Node{
			Number:   nd.Number,
			Centroid: nd.Centroid,
			Point:    nd.Point,
			Attrs:    nd.Attrs.Clone(),
			stop:     nd.stop,
		}
		c.nodes = append(c.nodes, cp)
		c.nodeIndex[cp.Number] = cp
	}
	for _, l := range n.Links() {
		c.insertLink(&Link{
			I:        l.I,
			J:        l.J,
			Vertices: slices.Clone(l.Vertices),
			Attrs:    l.Attrs.Clone(),
		})
	}
	for _, line := range n.lines {
		if line.deleted {
			continue
		}
		cl := &TransitLine{ID: line.ID, Mode: line.Mode}
		for _, s := range line.segments {
			link := c.linkIndex[s.link.Key()]
			seg := &Segment{line: cl, index: s.index, link: link, Attrs: s.Attrs.Clone()}
			cl.segments = append(cl.segments, seg)
			link.segments = append(link.segments, seg)
		}
		c.lines = append(c.lines, cl)
		c.lineIndex[cl.ID] = cl
	}
	return c
}

// Validate checks structural integrity and returns nil if the network is
// consistent. It verifies that:
//
//  1. Every link connects two distinct live nodes
//  2. The adjacency indices agree with the link set
//  3. Every transit line is a connected path over live links, and segment
//     indices match their positions
//
// Validate is intended for tests and for checking decoded input; the
// mutation primitives maintain these invariants themselves.
func (n *Network) Validate() error {
	for _, l := range n.Links() {
		if l.I == l.J {
			return fmt.Errorf("%w: %s", ErrSelfLoop, l.Key())
		}
		if _, ok := n.nodeIndex[l.I]; !ok {
			return fmt.Errorf("link %s: %w %d", l.Key(), ErrUnknownNode, l.I)
		}
		if _, ok := n.nodeIndex[l.J]; !ok {
			return fmt.Errorf("link %s: %w %d", l.Key(), ErrUnknownNode, l.J)
		}
		if !slices.Contains(n.outgoing[l.I], l) || !slices.Contains(n.incoming[l.J], l) {
			return fmt.Errorf("link %s: adjacency index out of sync", l.Key())
		}
	}
	for _, line := range n.TransitLines() {
		for k, s := range line.segments {
			if s.index != k {
				return fmt.Errorf("line %s: segment %d has index %d", line.ID, k, s.index)
			}
			if s.link.deleted {
				return fmt.Errorf("line %s: segment %d on deleted link %s", line.ID, k, s.link.Key())
			}
			if k > 0 && line.segments[k-1].link.J != s.link.I {
				return fmt.Errorf("line %s at segment %d: %w", line.ID, k, ErrDisconnectedLine)
			}
		}
	}
	return nil
}
