// Package nodelink renders networks as node-link diagrams.
//
// # Usage
//
// Convert a network to DOT, then render it:
//
//	dot := nodelink.ToDOT(net, nodelink.Options{Geographic: true})
//	svg, err := nodelink.RenderSVG(ctx, dot, nodelink.Options{Geographic: true})
//	png, err := nodelink.RenderPNG(ctx, dot, nodelink.Options{Geographic: true})
//
// # Styling
//
// Regular nodes are small circles labelled with their number. Centroids are
// grey boxes and transit stops are double circles. Nodes listed in
// [Options.Highlight] (typically the removal candidates) are filled orange.
// Links carrying transit segments are drawn in blue and labelled with the
// number of lines on them.
//
// # Layout
//
// With [Options.Geographic] nodes are pinned at their coordinates and laid
// out with neato; otherwise Graphviz's dot engine arranges them.
//
// # Dependencies
//
// This package uses [github.com/goccy/go-graphviz] for in-process rendering,
// so no Graphviz installation is needed.
package nodelink
