// Package network provides the in-memory transportation network that
// simplification operates on.
//
// # Overview
//
// A [Network] is a directed multigraph of numbered [Node] values joined by
// [Link] values, plus [TransitLine] itineraries whose [Segment] values each
// traverse one link. Centroid nodes stand for traffic analysis zones and
// attach to the rest of the network through connector links.
//
// # Basic Usage
//
// Create a network with [New], then add nodes, links and transit lines:
//
//	net := network.New()
//	net.AddNode(network.Node{Number: 1})
//	net.AddNode(network.Node{Number: 2})
//	net.AddLink(network.Link{I: 1, J: 2, Attrs: network.Attributes{
//	    network.AttrLength: network.Number(0.4),
//	}})
//	net.AddTransitLine("501", "b", []network.SegmentSpec{{I: 1, J: 2}})
//
// Query the graph with [Network.Nodes], [Network.RegularNodes],
// [Network.Links], [Network.OutgoingLinks], [Network.IncomingLinks] and
// [Network.TransitSegments]. Enumeration order is insertion order and is
// stable across deletions.
//
// # Attributes
//
// Every element carries an [Attributes] map of tagged scalar [Value]s. Each
// [Domain] (node, link, transit segment) has a fixed set of standard
// attributes such as [AttrLength] or [AttrTTF], and callers may declare extra
// attributes with [Network.DeclareExtra]. Elements are always completed with
// the defaults of their domain, so every element of a domain has the same
// attribute names.
//
// # Editing
//
// The mutation primitives keep the network consistent:
//
//   - [Network.DeleteLink] and [Network.DeleteNode], optionally cascading
//   - [Network.MergeLinks], which replaces a two-link path with one link and
//     splices the transit segments of both links into single segments
//
// Structurally impossible edits fail with an error wrapping
// [ErrInvalidOperation] and leave the network unchanged.
//
// # Concurrency
//
// Network instances are not safe for concurrent use. A simplification run
// assumes exclusive access for its whole duration.
package network
