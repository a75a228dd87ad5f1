package io

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/netprune/pkg/errors"
	"github.com/matzehuels/netprune/pkg/network"
)

const sample = `{
  "extra_attributes": [
    {"name": "@speed", "domain": "LINK", "default": 50},
    {"name": "@rm", "domain": "NODE"}
  ],
  "nodes": [
    {"number": 1, "x": 0, "y": 0},
    {"number": 2, "x": 1, "y": 0, "attributes": {"@rm": true}},
    {"number": 3, "x": 2, "y": 0},
    {"number": 100, "centroid": true, "x": 1, "y": 1}
  ],
  "links": [
    {"i": 1, "j": 2, "attributes": {"length": 0.4, "volume_delay_func": 2}},
    {"i": 2, "j": 3, "vertices": [[1.5, 0.1]], "attributes": {"length": 0.6, "@speed": 60}},
    {"i": 100, "j": 2}
  ],
  "lines": [
    {"id": "501", "mode": "b", "segments": [
      {"i": 1, "j": 2, "attributes": {"allow_alightings": false}},
      {"i": 2, "j": 3}
    ]}
  ]
}`

func TestReadJSON(t *testing.T) {
	net, err := ReadJSON(strings.NewReader(sample))
	require.NoError(t, err)

	assert.Equal(t, 4, net.NodeCount())
	assert.Equal(t, 3, net.LinkCount())
	assert.Equal(t, 1, net.LineCount())
	assert.Len(t, net.Centroids(), 1)

	n2, ok := net.Node(2)
	require.True(t, ok)
	assert.True(t, n2.Attrs.Get("@rm").Truthy())
	assert.Equal(t, orb.Point{1, 0}, n2.Point)

	l12, _ := net.Link(1, 2)
	assert.Equal(t, 0.4, l12.Length())
	assert.Equal(t, 2.0, l12.Attrs.Get(network.AttrVDF).Float())
	assert.Equal(t, 50.0, l12.Attrs.Get("@speed").Float(), "extra default applied")

	l23, _ := net.Link(2, 3)
	assert.Equal(t, []orb.Point{{1.5, 0.1}}, l23.Vertices)
	assert.Equal(t, 60.0, l23.Attrs.Get("@speed").Float())

	line, ok := net.TransitLine("501")
	require.True(t, ok)
	segs := line.Segments()
	require.Len(t, segs, 2)
	assert.False(t, segs[0].AllowAlightings())
	assert.True(t, segs[0].AllowBoardings())
}

func TestReadJSONErrors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		want error
	}{
		{"malformed", `{"nodes": [`, nil},
		{"duplicate node", `{"nodes": [{"number": 1}, {"number": 1}], "links": []}`, network.ErrDuplicateNode},
		{"unknown node", `{"nodes": [{"number": 1}], "links": [{"i": 1, "j": 2}]}`, network.ErrUnknownNode},
		{"undeclared attribute", `{"nodes": [{"number": 1, "attributes": {"@x": 1}}], "links": []}`, nil},
		{"string value", `{"nodes": [{"number": 1, "attributes": {"data1": "abc"}}], "links": []}`, nil},
		{"bad domain", `{"extra_attributes": [{"name": "@x", "domain": "ZONE"}], "nodes": [], "links": []}`, nil},
		{"disconnected line", `{"nodes": [{"number": 1}, {"number": 2}, {"number": 3}],
			"links": [{"i": 1, "j": 2}, {"i": 3, "j": 1}],
			"lines": [{"id": "L", "segments": [{"i": 1, "j": 2}, {"i": 3, "j": 1}]}]}`, network.ErrDisconnectedLine},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadJSON(strings.NewReader(tt.doc))
			require.Error(t, err)
			assert.Equal(t, errors.ErrCodeInvalidFormat, errors.GetCode(err))
			if tt.want != nil {
				assert.ErrorIs(t, err, tt.want)
			}
		})
	}
}

func TestJSONRoundTrip(t *testing.T) {
	net, err := ReadJSON(strings.NewReader(sample))
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, WriteJSON(net, &buf))
	again, err := ReadJSON(&buf)
	require.NoError(t, err)

	assertSameNetwork(t, net, again)
}

func TestYAMLRoundTrip(t *testing.T) {
	net, err := ReadJSON(strings.NewReader(sample))
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, WriteYAML(net, &buf))
	assert.Contains(t, buf.String(), "extra_attributes:")

	again, err := ReadYAML(&buf)
	require.NoError(t, err)
	assertSameNetwork(t, net, again)
}

func TestReadYAML(t *testing.T) {
	doc := `
nodes:
  - {number: 1}
  - {number: 2}
links:
  - i: 1
    j: 2
    vertices: [[0.5, 0.5]]
    attributes: {length: 3, type: 2}
`
	net, err := ReadYAML(strings.NewReader(doc))
	require.NoError(t, err)
	l, ok := net.Link(1, 2)
	require.True(t, ok)
	assert.Equal(t, 3.0, l.Length())
	assert.Equal(t, 2.0, l.Attrs.Get(network.AttrType).Float())
	assert.Equal(t, []orb.Point{{0.5, 0.5}}, l.Vertices)
}

func TestImportExport(t *testing.T) {
	net, err := ReadJSON(strings.NewReader(sample))
	require.NoError(t, err)
	dir := t.TempDir()

	for _, name := range []string{"net.json", "net.yaml", "net.yml"} {
		path := filepath.Join(dir, name)
		require.NoError(t, Export(net, path))
		got, err := Import(path)
		require.NoError(t, err, name)
		assertSameNetwork(t, net, got)
	}

	_, err = Import(filepath.Join(dir, "missing.json"))
	assert.Equal(t, errors.ErrCodeFileNotFound, errors.GetCode(err))

	err = Export(net, filepath.Join(dir, "net.csv"))
	assert.Equal(t, errors.ErrCodeUnsupported, errors.GetCode(err))
	_, statErr := os.Stat(filepath.Join(dir, "net.csv"))
	assert.True(t, os.IsNotExist(statErr))
}

func TestFormatFromPath(t *testing.T) {
	tests := []struct {
		path    string
		want    string
		wantErr bool
	}{
		{"a.json", FormatJSON, false},
		{"dir/b.YAML", FormatYAML, false},
		{"c.yml", FormatYAML, false},
		{"d.txt", "", true},
		{"noext", "", true},
	}
	for _, tt := range tests {
		got, err := FormatFromPath(tt.path)
		if (err != nil) != tt.wantErr {
			t.Errorf("FormatFromPath(%q) error = %v, wantErr %v", tt.path, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("FormatFromPath(%q) = %q, want %q", tt.path, got, tt.want)
		}
	}
}

func assertSameNetwork(t *testing.T, want, got *network.Network) {
	t.Helper()
	require.Equal(t, want.NodeCount(), got.NodeCount())
	require.Equal(t, want.LinkCount(), got.LinkCount())
	require.Equal(t, want.LineCount(), got.LineCount())
	assert.Equal(t, want.ExtraAttributes(), got.ExtraAttributes())

	for _, n := range want.Nodes() {
		g, ok := got.Node(n.Number)
		require.True(t, ok, "node %d", n.Number)
		assert.Equal(t, n.Centroid, g.Centroid)
		assert.Equal(t, n.Point, g.Point)
		assert.Equal(t, n.Attrs, g.Attrs, "node %d", n.Number)
	}
	for _, l := range want.Links() {
		g, ok := got.Link(l.I, l.J)
		require.True(t, ok, "link %s", l.Key())
		assert.Equal(t, l.Vertices, g.Vertices)
		assert.Equal(t, l.Attrs, g.Attrs, "link %s", l.Key())
	}
	for _, line := range want.TransitLines() {
		g, ok := got.TransitLine(line.ID)
		require.True(t, ok, "line %s", line.ID)
		assert.Equal(t, line.Itinerary(), g.Itinerary())
		ws, gs := line.Segments(), g.Segments()
		for k := range ws {
			assert.Equal(t, ws[k].Attrs, gs[k].Attrs, "line %s segment %d", line.ID, k)
		}
	}
}
