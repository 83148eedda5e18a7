package causal

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vk/blockflow/internal/port"
)

func TestAddVertex(t *testing.T) {
	g := New()
	require.NoError(t, g.AddVertex("a", nil))
	assert.True(t, g.HasVertex("a"))
	assert.Equal(t, 1, g.Len())

	err := g.AddVertex("a", nil)
	assert.ErrorIs(t, err, ErrDuplicateBlock)
}

func TestAddEdge(t *testing.T) {
	g := New()
	require.NoError(t, g.AddVertex("a", nil))
	require.NoError(t, g.AddVertex("b", nil))

	t.Run("success case", func(t *testing.T) {
		err := g.AddEdge(&Edge{Source: "a", Sink: "b"})
		require.NoError(t, err)
		assert.Len(t, g.EdgesBetween("a", "b"), 1)
		assert.Empty(t, g.EdgesBetween("b", "a"))
	})

	t.Run("error cases", func(t *testing.T) {
		err := g.AddEdge(&Edge{Source: "dne", Sink: "b"})
		assert.ErrorIs(t, err, ErrUnknownVertex)

		err = g.AddEdge(&Edge{Source: "a", Sink: "dne"})
		assert.ErrorIs(t, err, ErrUnknownVertex)
	})

	t.Run("parallel edges are distinct", func(t *testing.T) {
		require.NoError(t, g.AddEdge(&Edge{Source: "a", Sink: "b"}))
		assert.Len(t, g.EdgesBetween("a", "b"), 2)
	})
}

func TestRemoveVertex(t *testing.T) {
	g := New()
	require.NoError(t, g.AddVertex("a", nil))
	require.NoError(t, g.AddVertex("b", nil))
	require.NoError(t, g.AddVertex("c", nil))
	require.NoError(t, g.AddEdge(&Edge{Source: "a", Sink: "b"}))
	require.NoError(t, g.AddEdge(&Edge{Source: "b", Sink: "c"}))

	g.RemoveVertex("b")
	assert.False(t, g.HasVertex("b"))
	assert.Empty(t, g.Edges())

	// Removing an absent vertex is a no-op.
	g.RemoveVertex("b")
	assert.Equal(t, 2, g.Len())
}

func TestSetLatched(t *testing.T) {
	g := New()
	require.NoError(t, g.AddVertex("a", nil))
	require.NoError(t, g.AddVertex("b", nil))
	require.NoError(t, g.AddEdge(&Edge{Source: "a", Sink: "b"}))
	require.NoError(t, g.AddEdge(&Edge{Source: "a", Sink: "b"}))

	assert.Equal(t, 2, g.SetLatched("a", "b", true))
	for _, e := range g.EdgesBetween("a", "b") {
		assert.True(t, e.Latched)
	}

	assert.Zero(t, g.SetLatched("b", "a", true))
}

func TestClearAndRestoreEdges(t *testing.T) {
	g := New()
	require.NoError(t, g.AddVertex("a", nil))
	require.NoError(t, g.AddVertex("b", nil))
	require.NoError(t, g.AddEdge(&Edge{Source: "a", Sink: "b"}))

	prev := g.ClearEdges()
	assert.Empty(t, g.Edges())

	g.RestoreEdges(prev)
	assert.Len(t, g.EdgesBetween("a", "b"), 1)
}

func TestCheckExclusivity(t *testing.T) {
	sinkPorts := port.NewSet("c")
	exIn := sinkPorts.AddInput("in_ex", port.Exclusive, port.Control)

	g := New()
	require.NoError(t, g.AddVertex("a", nil))
	require.NoError(t, g.AddVertex("b", nil))
	require.NoError(t, g.AddVertex("c", nil))

	require.NoError(t, g.AddEdge(&Edge{Source: "a", Sink: "c", SinkPort: exIn}))
	require.NoError(t, g.CheckExclusivity())

	require.NoError(t, g.AddEdge(&Edge{Source: "b", Sink: "c", SinkPort: exIn}))
	assert.ErrorIs(t, g.CheckExclusivity(), ErrExclusivityViolation)

	t.Run("latched edges do not count", func(t *testing.T) {
		g.SetLatched("b", "c", true)
		assert.NoError(t, g.CheckExclusivity())
	})
}

func TestVertexNames(t *testing.T) {
	g := New()
	for _, name := range []string{"z", "a", "m"} {
		require.NoError(t, g.AddVertex(name, nil))
	}
	assert.Equal(t, []string{"z", "a", "m"}, g.VertexNames())
}
