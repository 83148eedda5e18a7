package sine

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zclconf/go-cty/cty"

	"github.com/vk/blockflow/internal/port"
)

func TestNewBlock(t *testing.T) {
	h, err := NewBlock("gen", map[string]cty.Value{
		"amplitude": cty.NumberFloatVal(2),
		"frequency": cty.NumberFloatVal(0.25),
		"offset":    cty.NumberFloatVal(1),
	})
	require.NoError(t, err)
	require.NoError(t, h.Configure())

	out, ok := h.Ports().Output("out")
	require.True(t, ok)
	assert.True(t, out.OnLayer(port.Control))

	sinkPorts := port.NewSet("sink")
	in := sinkPorts.AddInput("in", port.Unrestricted, port.Control)
	port.Connect(out, in)

	hooks := h.Hooks()
	require.NotNil(t, hooks.ComputeControl)

	// At t=1s with f=0.25 the phase is pi/2, so the output is offset+amplitude.
	require.NoError(t, hooks.ComputeControl(1, 10*time.Millisecond))
	assert.InDelta(t, 3, in.Read(), 1e-9)

	// At t=2s the sine crosses zero again.
	require.NoError(t, hooks.ComputeControl(2, 10*time.Millisecond))
	assert.InDelta(t, 1, in.Read(), 1e-9)
}

func TestNewBlockDefaults(t *testing.T) {
	h, err := NewBlock("gen", nil)
	require.NoError(t, err)

	out, ok := h.Ports().Output("out")
	require.True(t, ok)

	sinkPorts := port.NewSet("sink")
	in := sinkPorts.AddInput("in", port.Unrestricted, port.Control)
	port.Connect(out, in)

	require.NoError(t, h.Hooks().ComputeControl(0.25, time.Millisecond))
	assert.InDelta(t, math.Sin(math.Pi/2), in.Read(), 1e-9)
}

func TestNewBlockBadArgument(t *testing.T) {
	_, err := NewBlock("gen", map[string]cty.Value{
		"amplitude": cty.StringVal("loud"),
	})
	assert.Error(t, err)
}
