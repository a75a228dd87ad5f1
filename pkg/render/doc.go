// Package render draws networks as images.
//
// The [nodelink] subpackage converts a network to Graphviz DOT and renders
// it in-process to SVG or PNG. It is used by the render command to compare a
// network before and after simplification.
package render
