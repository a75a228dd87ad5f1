package network

import (
	"testing"

	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckMerge(t *testing.T) {
	n := chain(t)
	a, _ := n.Link(1, 2)
	b, _ := n.Link(2, 3)

	require.NoError(t, n.CheckMerge(a, b))
	assert.ErrorIs(t, n.CheckMerge(b, a), ErrInvalidOperation, "do not meet")

	_, err := n.AddLink(Link{I: 1, J: 3})
	require.NoError(t, err)
	assert.ErrorIs(t, n.CheckMerge(a, b), ErrInvalidOperation, "target exists")

	back, err := n.AddLink(Link{I: 2, J: 1})
	require.NoError(t, err)
	assert.ErrorIs(t, n.CheckMerge(a, back), ErrInvalidOperation, "self-loop")
}

func TestSegmentPairs(t *testing.T) {
	t.Run("through line", func(t *testing.T) {
		n := chain(t)
		_, err := n.AddTransitLine("L1", "b", []SegmentSpec{{I: 1, J: 2}, {I: 2, J: 3}})
		require.NoError(t, err)
		a, _ := n.Link(1, 2)
		b, _ := n.Link(2, 3)

		pairs, err := n.SegmentPairs(a, b)
		require.NoError(t, err)
		require.Len(t, pairs, 1)
		assert.Equal(t, 0, pairs[0].First.Index())
		assert.Equal(t, 1, pairs[0].Second.Index())
	})

	t.Run("line ends at node", func(t *testing.T) {
		n := chain(t)
		_, err := n.AddTransitLine("L1", "b", []SegmentSpec{{I: 1, J: 2}})
		require.NoError(t, err)
		a, _ := n.Link(1, 2)
		b, _ := n.Link(2, 3)

		_, err = n.SegmentPairs(a, b)
		assert.ErrorIs(t, err, ErrInvalidOperation)
	})

	t.Run("line starts at node", func(t *testing.T) {
		n := chain(t)
		_, err := n.AddTransitLine("L1", "b", []SegmentSpec{{I: 2, J: 3}})
		require.NoError(t, err)
		a, _ := n.Link(1, 2)
		b, _ := n.Link(2, 3)

		_, err = n.SegmentPairs(a, b)
		assert.ErrorIs(t, err, ErrInvalidOperation)
	})

	t.Run("line turns back", func(t *testing.T) {
		n := chain(t)
		_, err := n.AddLink(Link{I: 2, J: 1})
		require.NoError(t, err)
		_, err = n.AddTransitLine("L1", "b", []SegmentSpec{{I: 1, J: 2}, {I: 2, J: 1}})
		require.NoError(t, err)
		a, _ := n.Link(1, 2)
		b, _ := n.Link(2, 3)

		_, err = n.SegmentPairs(a, b)
		assert.ErrorIs(t, err, ErrInvalidOperation)
	})
}

func TestMergeLinks(t *testing.T) {
	n := chain(t)
	_, err := n.AddNode(Node{Number: 4, Point: orb.Point{3, 0}})
	require.NoError(t, err)
	_, err = n.AddLink(Link{I: 3, J: 4, Attrs: Attributes{AttrLength: Number(5)}})
	require.NoError(t, err)
	line, err := n.AddTransitLine("L1", "b", []SegmentSpec{{I: 1, J: 2}, {I: 2, J: 3}, {I: 3, J: 4}})
	require.NoError(t, err)

	a, _ := n.Link(1, 2)
	b, _ := n.Link(2, 3)
	merged, err := n.MergeLinks(a, b,
		Attributes{AttrLength: Number(30)},
		[]Attributes{{AttrDwellTime: Number(0.5)}},
	)
	require.NoError(t, err)

	assert.Equal(t, LinkKey{I: 1, J: 3}, merged.Key())
	assert.Equal(t, 30.0, merged.Length())
	assert.Equal(t, []orb.Point{{1, 0}}, merged.Vertices, "shared node becomes a shape vertex")

	_, ok := n.Link(1, 2)
	assert.False(t, ok)
	_, ok = n.Link(2, 3)
	assert.False(t, ok)

	segs := line.Segments()
	require.Len(t, segs, 2)
	assert.Equal(t, merged, segs[0].Link())
	assert.Equal(t, 0.5, segs[0].Attrs.Get(AttrDwellTime).Float())
	assert.Equal(t, 1, segs[1].Index(), "following segments are re-indexed")
	assert.Equal(t, []int{1, 3, 4}, line.Itinerary())

	assert.Equal(t, 0, n.Degree(2))
	require.NoError(t, n.DeleteNode(2, false))
	require.NoError(t, n.Validate())
}

func TestMergeLinksLeavesNetworkOnError(t *testing.T) {
	n := chain(t)
	_, err := n.AddTransitLine("L1", "b", []SegmentSpec{{I: 1, J: 2}})
	require.NoError(t, err)
	a, _ := n.Link(1, 2)
	b, _ := n.Link(2, 3)

	_, err = n.MergeLinks(a, b, Attributes{}, nil)
	assert.ErrorIs(t, err, ErrInvalidOperation)
	assert.Equal(t, 2, n.LinkCount())
	require.NoError(t, n.Validate())
}
