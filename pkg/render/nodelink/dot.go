package nodelink

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/netprune/pkg/network"
)

// Options configures node-link diagram rendering.
type Options struct {
	// Geographic pins nodes at their coordinates and uses the neato engine.
	Geographic bool

	// Scale converts network coordinates to inches when Geographic is set.
	// Defaults to 1.
	Scale float64

	// Detailed adds link lengths and node attributes to labels.
	Detailed bool

	// Highlight marks nodes by number, for example removal candidates.
	Highlight map[int]bool
}

// ToDOT converts a network to Graphviz DOT. The output is deterministic for
// a given network: nodes and links appear in enumeration order.
func ToDOT(net *network.Network, opts Options) string {
	scale := opts.Scale
	if scale == 0 {
		scale = 1
	}
	net.MarkStops()

	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	if opts.Geographic {
		buf.WriteString("  splines=true;\n")
		buf.WriteString("  overlap=true;\n")
	} else {
		buf.WriteString("  rankdir=LR;\n")
	}
	buf.WriteString("  node [shape=circle, style=filled, fillcolor=white, fontsize=10, width=0.3, fixedsize=false];\n")
	buf.WriteString("  edge [arrowsize=0.5];\n")
	buf.WriteString("\n")

	for _, n := range net.Nodes() {
		attrs := nodeAttrs(n, opts)
		if opts.Geographic {
			attrs = append(attrs, fmt.Sprintf("pos=\"%s,%s!\"", fmtFloat(n.Point.X()*scale), fmtFloat(n.Point.Y()*scale)))
		}
		fmt.Fprintf(&buf, "  %d [%s];\n", n.Number, strings.Join(attrs, ", "))
	}

	buf.WriteString("\n")
	for _, l := range net.Links() {
		attrs := linkAttrs(l, opts)
		if len(attrs) == 0 {
			fmt.Fprintf(&buf, "  %d -> %d;\n", l.I, l.J)
			continue
		}
		fmt.Fprintf(&buf, "  %d -> %d [%s];\n", l.I, l.J, strings.Join(attrs, ", "))
	}

	buf.WriteString("}\n")
	return buf.String()
}

func nodeAttrs(n *network.Node, opts Options) []string {
	label := strconv.Itoa(n.Number)
	if opts.Detailed {
		var parts []string
		for _, name := range n.Attrs.Names() {
			if v := n.Attrs[name]; v.Truthy() {
				parts = append(parts, name+": "+v.String())
			}
		}
		if len(parts) > 0 {
			label += "\n" + strings.Join(parts, "\n")
		}
	}
	attrs := []string{fmt.Sprintf("label=%q", label)}
	switch {
	case n.Centroid:
		attrs = append(attrs, "shape=box", "fillcolor=lightgrey")
	case n.IsStop():
		attrs = append(attrs, "shape=doublecircle")
	}
	if opts.Highlight[n.Number] {
		attrs = append(attrs, "fillcolor=orange")
	}
	return attrs
}

func linkAttrs(l *network.Link, opts Options) []string {
	var attrs []string
	var label []string
	if opts.Detailed {
		label = append(label, fmtFloat(l.Length()))
	}
	if lines := len(l.Segments()); lines > 0 {
		attrs = append(attrs, "color=\"#1f77b4\"", "penwidth=2")
		if opts.Detailed {
			label = append(label, fmt.Sprintf("%d lines", lines))
		}
	}
	if len(label) > 0 {
		attrs = append(attrs, fmt.Sprintf("label=%q", strings.Join(label, "\n")), "fontsize=8")
	}
	return attrs
}

func fmtFloat(f float64) string { return strconv.FormatFloat(f, 'f', -1, 64) }

// RenderSVG renders DOT source to SVG.
func RenderSVG(ctx context.Context, dot string, opts Options) ([]byte, error) {
	svg, err := render(ctx, dot, graphviz.SVG, opts)
	if err != nil {
		return nil, err
	}
	return normalizeViewBox(svg), nil
}

// RenderPNG renders DOT source to PNG.
func RenderPNG(ctx context.Context, dot string, opts Options) ([]byte, error) {
	return render(ctx, dot, graphviz.PNG, opts)
}

func render(ctx context.Context, dot string, format graphviz.Format, opts Options) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()
	if opts.Geographic {
		gv.SetLayout(graphviz.NEATO)
	}

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, format, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return buf.Bytes(), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	newSvg := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)

	return svgTagRe.ReplaceAll(svg, []byte(newSvg))
}
