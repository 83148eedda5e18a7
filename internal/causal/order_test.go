package causal

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildGraph(t *testing.T, vertices []string, edges [][2]string) *Graph {
	t.Helper()
	g := New()
	for _, v := range vertices {
		require.NoError(t, g.AddVertex(v, nil))
	}
	for _, e := range edges {
		require.NoError(t, g.AddEdge(&Edge{Source: e[0], Sink: e[1]}))
	}
	return g
}

func TestSerializeLine(t *testing.T) {
	g := buildGraph(t,
		[]string{"a", "b", "c", "d"},
		[][2]string{{"a", "b"}, {"b", "c"}, {"c", "d"}})

	order, err := g.Serialize()
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "c", "d"}, order)
}

func TestSerializeTieBreakByInsertion(t *testing.T) {
	// Three roots with no edges: ties resolve by insertion sequence, not
	// name.
	g := buildGraph(t, []string{"c", "a", "b"}, nil)
	order, err := g.Serialize()
	require.NoError(t, err)
	assert.Equal(t, []string{"c", "a", "b"}, order)
}

func TestSerializeDiamond(t *testing.T) {
	g := buildGraph(t,
		[]string{"src", "left", "right", "sink"},
		[][2]string{{"src", "left"}, {"src", "right"}, {"left", "sink"}, {"right", "sink"}})

	order, err := g.Serialize()
	require.NoError(t, err)
	assert.Equal(t, []string{"src", "left", "right", "sink"}, order)
}

func TestSerializeCycle(t *testing.T) {
	g := buildGraph(t,
		[]string{"a", "b", "c"},
		[][2]string{{"a", "b"}, {"b", "c"}, {"c", "a"}})

	_, err := g.Serialize()
	assert.ErrorIs(t, err, ErrGraphCyclic)
}

func TestSerializeLatchedEdgeIgnored(t *testing.T) {
	g := buildGraph(t,
		[]string{"a", "b", "c"},
		[][2]string{{"a", "b"}, {"b", "c"}})
	require.NoError(t, g.AddEdge(&Edge{Source: "c", Sink: "a", Latched: true}))

	order, err := g.Serialize()
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "c"}, order)
}

func TestSerializeSelfLoop(t *testing.T) {
	g := buildGraph(t, []string{"a"}, [][2]string{{"a", "a"}})
	_, err := g.Serialize()
	assert.ErrorIs(t, err, ErrGraphCyclic)
}

func TestSerializeEmpty(t *testing.T) {
	order, err := New().Serialize()
	require.NoError(t, err)
	assert.Empty(t, order)
}

func TestSerializeParallelEdges(t *testing.T) {
	g := buildGraph(t,
		[]string{"a", "b"},
		[][2]string{{"a", "b"}, {"a", "b"}})

	order, err := g.Serialize()
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, order)
}
