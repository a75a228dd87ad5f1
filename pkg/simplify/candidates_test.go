package simplify

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/netprune/pkg/errors"
	"github.com/matzehuels/netprune/pkg/network"
)

func TestParseFilter(t *testing.T) {
	tests := []struct {
		in       string
		fallback Filter
		want     Filter
	}{
		{"", Always(), Always()},
		{"none", Never(), Never()},
		{"NONE", Always(), Always()},
		{"-1", Never(), Never()},
		{" @keep ", Always(), Attribute("@keep")},
		{"ui1", Never(), Attribute("ui1")},
	}
	for _, tt := range tests {
		if got := ParseFilter(tt.in, tt.fallback); got != tt.want {
			t.Errorf("ParseFilter(%q, %v) = %v, want %v", tt.in, tt.fallback, got, tt.want)
		}
	}
}

func TestFilterMatch(t *testing.T) {
	attrs := network.Attributes{"@on": network.Bool(true), "@off": network.Number(0)}
	tests := []struct {
		f    Filter
		want bool
	}{
		{Always(), true},
		{Never(), false},
		{Attribute("@on"), true},
		{Attribute("@off"), false},
		{Attribute("@missing"), false},
		{NotAttribute("@on"), false},
		{NotAttribute("@off"), true},
	}
	for _, tt := range tests {
		if got := tt.f.Match(attrs); got != tt.want {
			t.Errorf("%v.Match() = %v, want %v", tt.f, got, tt.want)
		}
	}
}

func TestFilterValidate(t *testing.T) {
	net := network.New()
	require.NoError(t, net.DeclareExtra(network.ExtraAttribute{Name: "@keep", Domain: network.DomainNode}))

	assert.NoError(t, Always().Validate(net, network.DomainLink))
	assert.NoError(t, Attribute("@keep").Validate(net, network.DomainNode))
	assert.NoError(t, Attribute(network.AttrData1).Validate(net, network.DomainNode))

	err := Attribute("@keep").Validate(net, network.DomainLink)
	assert.Equal(t, errors.ErrCodeConfiguration, errors.GetCode(err))
}

func TestSelectCandidatesThreeNeighbours(t *testing.T) {
	// 1 → 2 → 3 plus 2 → 4: node 2 has three neighbours.
	net := build(t, 4, link{1, 2, 1, 0}, link{2, 3, 1, 0}, link{2, 4, 1, 0})

	got, err := SelectCandidates(net, Always(), Never(), Never())
	require.NoError(t, err)
	assert.NotContains(t, numbers(got), 2)
}

func TestSelectCandidatesLinkCounts(t *testing.T) {
	tests := []struct {
		name  string
		links []link
		want  []int
	}{
		{"chain", []link{{1, 2, 1, 0}, {2, 3, 1, 0}}, []int{2}},
		{"divided", []link{{1, 2, 1, 0}, {2, 1, 1, 0}, {2, 3, 1, 0}, {3, 2, 1, 0}}, []int{2}},
		{"three links", []link{{1, 2, 1, 0}, {2, 1, 1, 0}, {2, 3, 1, 0}}, nil},
		{"dead end", []link{{1, 2, 1, 0}}, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			net := build(t, 3, tt.links...)
			got, err := SelectCandidates(net, Always(), Never(), Never())
			require.NoError(t, err)
			var nums []int
			if len(got) > 0 {
				nums = numbers(got)
			}
			assert.Equal(t, tt.want, nums)
		})
	}
}

func TestSelectCandidatesNodeFilter(t *testing.T) {
	net := abcd(t)
	require.NoError(t, net.DeclareExtra(network.ExtraAttribute{Name: "@rm", Domain: network.DomainNode}))
	c, _ := net.Node(3)
	c.Attrs["@rm"] = network.Bool(true)

	got, err := SelectCandidates(net, Attribute("@rm"), Never(), Never())
	require.NoError(t, err)
	assert.Equal(t, []int{3}, numbers(got))
}

func TestSelectCandidatesStops(t *testing.T) {
	net := abcd(t)
	_, err := net.AddTransitLine("1", "b", []network.SegmentSpec{
		{I: 1, J: 2},
		{I: 2, J: 3, Attrs: network.Attributes{
			network.AttrAllowBoardings:  network.Bool(false),
			network.AttrAllowAlightings: network.Bool(false),
		}},
		{I: 3, J: 4},
	})
	require.NoError(t, err)

	got, err := SelectCandidates(net, Always(), Never(), Never())
	require.NoError(t, err)
	assert.Equal(t, []int{2}, numbers(got), "node 3 is a stop, node 2 is passed through")

	got, err = SelectCandidates(net, Always(), Always(), Never())
	require.NoError(t, err)
	assert.Equal(t, []int{2, 3}, numbers(got))
}

func TestSelectCandidatesConnectors(t *testing.T) {
	net := abcd(t)
	_, err := net.AddNode(network.Node{Number: 9, Centroid: true})
	require.NoError(t, err)
	conn, err := net.AddLink(network.Link{I: 9, J: 3})
	require.NoError(t, err)
	require.NoError(t, net.DeclareExtra(network.ExtraAttribute{Name: "@cc", Domain: network.DomainLink}))

	got, err := SelectCandidates(net, Always(), Never(), Attribute("@cc"))
	require.NoError(t, err)
	assert.Equal(t, []int{2}, numbers(got), "unflagged connector keeps node 3")

	conn.Attrs["@cc"] = network.Number(1)
	got, err = SelectCandidates(net, Always(), Never(), Attribute("@cc"))
	require.NoError(t, err)
	assert.Equal(t, []int{2, 3}, numbers(got))

	assert.Equal(t, 1, PruneConnectors(net, got, Attribute("@cc")))
	assert.Equal(t, 0, PruneConnectors(net, got, Never()))
	_, ok := net.Link(9, 3)
	assert.False(t, ok)
}
