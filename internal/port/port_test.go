package port

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConnect(t *testing.T) {
	src := NewSet("src")
	dst := NewSet("dst")
	out := src.AddOutput("out", Control)
	in := dst.AddInput("in", Unrestricted, Control)

	ch := Connect(out, in)
	require.NotNil(t, ch)
	assert.Equal(t, out, ch.From)
	assert.Equal(t, in, ch.To)
	assert.Len(t, out.Channels(), 1)

	t.Run("duplicate connections collapse", func(t *testing.T) {
		again := Connect(out, in)
		assert.Same(t, ch, again)
		assert.Len(t, out.Channels(), 1)
	})

	t.Run("disconnect removes the channel", func(t *testing.T) {
		Disconnect(ch)
		assert.Empty(t, out.Channels())
	})
}

func TestWriteRead(t *testing.T) {
	src := NewSet("src")
	a := NewSet("a")
	b := NewSet("b")
	out := src.AddOutput("out", Control)
	inA := a.AddInput("in", Unrestricted, Control)
	inB := b.AddInput("in", Unrestricted, Control)

	Connect(out, inA)
	Connect(out, inB)

	out.Write(2.5)
	assert.Equal(t, 2.5, inA.Read())
	assert.Equal(t, 2.5, inB.Read())
}

func TestSetLayers(t *testing.T) {
	s := NewSet("blk")
	s.AddOutput("est_out", Estimation)
	s.AddOutput("ctl_out", Control)
	s.AddInput("in", Exclusive, Control)

	assert.Len(t, s.OutputsOnLayer(Estimation), 1)
	assert.Len(t, s.OutputsOnLayer(Control), 1)
	assert.True(t, s.ParticipatesIn(Estimation))
	assert.True(t, s.ParticipatesIn(Control))

	in, ok := s.Input("in")
	require.True(t, ok)
	assert.Equal(t, Exclusive, in.Exclusivity())

	t.Run("estimation-only set", func(t *testing.T) {
		e := NewSet("est")
		e.AddOutput("out", Estimation)
		assert.True(t, e.ParticipatesIn(Estimation))
		assert.False(t, e.ParticipatesIn(Control))
	})

	t.Run("portless set participates everywhere", func(t *testing.T) {
		p := NewSet("bare")
		assert.True(t, p.ParticipatesIn(Estimation))
		assert.True(t, p.ParticipatesIn(Control))
	})
}
