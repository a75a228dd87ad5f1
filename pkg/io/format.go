package io

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/paulmach/orb"

	"github.com/matzehuels/netprune/pkg/errors"
	"github.com/matzehuels/netprune/pkg/network"
)

// Supported file formats.
const (
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// document is the file representation of a network, shared by the JSON and
// YAML codecs.
type document struct {
	ExtraAttributes []extraAttribute `json:"extra_attributes,omitempty" yaml:"extra_attributes,omitempty"`
	Nodes           []node           `json:"nodes" yaml:"nodes"`
	Links           []link           `json:"links" yaml:"links"`
	Lines           []line           `json:"lines,omitempty" yaml:"lines,omitempty"`
}

type extraAttribute struct {
	Name        string `json:"name" yaml:"name"`
	Domain      string `json:"domain" yaml:"domain"`
	Default     any    `json:"default,omitempty" yaml:"default,omitempty"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
}

type node struct {
	Number     int            `json:"number" yaml:"number"`
	Centroid   bool           `json:"centroid,omitempty" yaml:"centroid,omitempty"`
	X          float64        `json:"x" yaml:"x"`
	Y          float64        `json:"y" yaml:"y"`
	Attributes map[string]any `json:"attributes,omitempty" yaml:"attributes,omitempty"`
}

type link struct {
	I          int            `json:"i" yaml:"i"`
	J          int            `json:"j" yaml:"j"`
	Vertices   []orb.Point    `json:"vertices,omitempty" yaml:"vertices,omitempty,flow"`
	Attributes map[string]any `json:"attributes,omitempty" yaml:"attributes,omitempty"`
}

type line struct {
	ID       string    `json:"id" yaml:"id"`
	Mode     string    `json:"mode,omitempty" yaml:"mode,omitempty"`
	Segments []segment `json:"segments" yaml:"segments"`
}

type segment struct {
	I          int            `json:"i" yaml:"i"`
	J          int            `json:"j" yaml:"j"`
	Attributes map[string]any `json:"attributes,omitempty" yaml:"attributes,omitempty"`
}

// FormatFromPath returns the format implied by a file extension.
func FormatFromPath(path string) (string, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	}
	return "", errors.New(errors.ErrCodeUnsupported, "unsupported network file %q (must be .json, .yaml or .yml)", path)
}

// toDocument converts a network to its file representation.
func toDocument(net *network.Network) document {
	var doc document
	for _, x := range net.ExtraAttributes() {
		doc.ExtraAttributes = append(doc.ExtraAttributes, extraAttribute{
			Name:        x.Name,
			Domain:      x.Domain.String(),
			Default:     x.Default.Interface(),
			Description: x.Description,
		})
	}
	for _, n := range net.Nodes() {
		doc.Nodes = append(doc.Nodes, node{
			Number:     n.Number,
			Centroid:   n.Centroid,
			X:          n.Point.X(),
			Y:          n.Point.Y(),
			Attributes: encodeAttrs(n.Attrs),
		})
	}
	for _, l := range net.Links() {
		doc.Links = append(doc.Links, link{
			I:          l.I,
			J:          l.J,
			Vertices:   l.Vertices,
			Attributes: encodeAttrs(l.Attrs),
		})
	}
	for _, t := range net.TransitLines() {
		ln := line{ID: t.ID, Mode: t.Mode}
		for _, s := range t.Segments() {
			ln.Segments = append(ln.Segments, segment{
				I:          s.INode(),
				J:          s.JNode(),
				Attributes: encodeAttrs(s.Attrs),
			})
		}
		doc.Lines = append(doc.Lines, ln)
	}
	return doc
}

// fromDocument builds a network from its file representation. Errors carry
// the INVALID_FORMAT code and name the offending element.
func fromDocument(doc document) (*network.Network, error) {
	net := network.New()
	for _, x := range doc.ExtraAttributes {
		d, err := network.ParseDomain(x.Domain)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "extra attribute %s", x.Name)
		}
		var def network.Value
		if x.Default != nil {
			if def, err = network.ValueOf(x.Default); err != nil {
				return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "extra attribute %s default", x.Name)
			}
		}
		if err := net.DeclareExtra(network.ExtraAttribute{Name: x.Name, Domain: d, Default: def, Description: x.Description}); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "extra attribute %s", x.Name)
		}
	}
	for _, n := range doc.Nodes {
		attrs, err := decodeAttrs(net, network.DomainNode, n.Attributes)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "node %d", n.Number)
		}
		nd := network.Node{Number: n.Number, Centroid: n.Centroid, Point: orb.Point{n.X, n.Y}, Attrs: attrs}
		if _, err := net.AddNode(nd); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "node %d", n.Number)
		}
	}
	for _, l := range doc.Links {
		attrs, err := decodeAttrs(net, network.DomainLink, l.Attributes)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "link %d-%d", l.I, l.J)
		}
		if _, err := net.AddLink(network.Link{I: l.I, J: l.J, Vertices: l.Vertices, Attrs: attrs}); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "link %d-%d", l.I, l.J)
		}
	}
	for _, ln := range doc.Lines {
		specs := make([]network.SegmentSpec, len(ln.Segments))
		for k, s := range ln.Segments {
			attrs, err := decodeAttrs(net, network.DomainSegment, s.Attributes)
			if err != nil {
				return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "line %s segment %d", ln.ID, k)
			}
			specs[k] = network.SegmentSpec{I: s.I, J: s.J, Attrs: attrs}
		}
		if _, err := net.AddTransitLine(ln.ID, ln.Mode, specs); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "line %s", ln.ID)
		}
	}
	return net, nil
}

func encodeAttrs(attrs network.Attributes) map[string]any {
	if len(attrs) == 0 {
		return nil
	}
	out := make(map[string]any, len(attrs))
	for k, v := range attrs {
		out[k] = v.Interface()
	}
	return out
}

func decodeAttrs(net *network.Network, d network.Domain, raw map[string]any) (network.Attributes, error) {
	attrs := make(network.Attributes, len(raw))
	for k, v := range raw {
		if !net.HasAttribute(d, k) {
			return nil, fmt.Errorf("attribute %q is not a %s attribute", k, d)
		}
		val, err := network.ValueOf(v)
		if err != nil {
			return nil, fmt.Errorf("attribute %q: %w", k, err)
		}
		attrs[k] = val
	}
	return attrs, nil
}
