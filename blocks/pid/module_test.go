package pid

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zclconf/go-cty/cty"

	"github.com/vk/blockflow/internal/port"
)

type rig struct {
	setpoint *port.Output
	feedback *port.Output
	command  *port.Input
	hooks    func(t float64, dt time.Duration) error
}

func newRig(t *testing.T, args map[string]cty.Value) *rig {
	t.Helper()
	h, err := NewBlock("ctl", args)
	require.NoError(t, err)
	require.NoError(t, h.Configure())
	require.NoError(t, h.Start())

	world := port.NewSet("world")
	r := &rig{
		setpoint: world.AddOutput("setpoint", port.Control),
		feedback: world.AddOutput("feedback", port.Control),
		command:  world.AddInput("command", port.Unrestricted, port.Control),
	}

	sp, ok := h.Ports().Input("setpoint")
	require.True(t, ok)
	fb, ok := h.Ports().Input("feedback")
	require.True(t, ok)
	cmd, ok := h.Ports().Output("command")
	require.True(t, ok)

	port.Connect(r.setpoint, sp)
	port.Connect(r.feedback, fb)
	port.Connect(cmd, r.command)

	r.hooks = h.Hooks().ComputeControl
	return r
}

func TestProportionalOnly(t *testing.T) {
	r := newRig(t, map[string]cty.Value{"kp": cty.NumberFloatVal(2)})

	r.setpoint.Write(10)
	r.feedback.Write(4)

	require.NoError(t, r.hooks(0, 10*time.Millisecond))
	assert.InDelta(t, 12, r.command.Read(), 1e-9)
}

func TestIntegralAccumulates(t *testing.T) {
	r := newRig(t, map[string]cty.Value{
		"kp": cty.NumberFloatVal(0),
		"ki": cty.NumberFloatVal(1),
	})

	r.setpoint.Write(1)
	r.feedback.Write(0)

	require.NoError(t, r.hooks(0, time.Second))
	assert.InDelta(t, 1, r.command.Read(), 1e-9)

	require.NoError(t, r.hooks(1, time.Second))
	assert.InDelta(t, 2, r.command.Read(), 1e-9)
}

func TestDerivativeNeedsTwoSamples(t *testing.T) {
	r := newRig(t, map[string]cty.Value{
		"kp": cty.NumberFloatVal(0),
		"kd": cty.NumberFloatVal(1),
	})

	r.setpoint.Write(1)
	r.feedback.Write(0)

	// First execution has no previous error, so no derivative kick.
	require.NoError(t, r.hooks(0, time.Second))
	assert.InDelta(t, 0, r.command.Read(), 1e-9)

	r.feedback.Write(0.5)
	require.NoError(t, r.hooks(1, time.Second))
	assert.InDelta(t, -0.5, r.command.Read(), 1e-9)
}

func TestStartResetsState(t *testing.T) {
	h, err := NewBlock("ctl", map[string]cty.Value{"ki": cty.NumberFloatVal(1)})
	require.NoError(t, err)
	require.NoError(t, h.Configure())
	require.NoError(t, h.Start())

	world := port.NewSet("world")
	spOut := world.AddOutput("sp", port.Control)
	cmdIn := world.AddInput("cmd", port.Unrestricted, port.Control)
	sp, _ := h.Ports().Input("setpoint")
	cmd, _ := h.Ports().Output("command")
	port.Connect(spOut, sp)
	port.Connect(cmd, cmdIn)

	spOut.Write(1)
	require.NoError(t, h.Hooks().ComputeControl(0, time.Second))
	require.NoError(t, h.Hooks().ComputeControl(1, time.Second))
	assert.InDelta(t, 3, cmdIn.Read(), 1e-9)

	// Stop and restart: the integrator must start from zero again.
	require.NoError(t, h.Stop())
	require.NoError(t, h.Start())
	require.NoError(t, h.Hooks().ComputeControl(2, time.Second))
	assert.InDelta(t, 2, cmdIn.Read(), 1e-9)
}
