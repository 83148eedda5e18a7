// Package pid provides a PID controller block: control-layer inputs for
// setpoint and feedback, one command output.
package pid

import (
	"time"

	"github.com/zclconf/go-cty/cty"

	"github.com/vk/blockflow/internal/block"
	"github.com/vk/blockflow/internal/port"
	"github.com/vk/blockflow/internal/registry"
)

// Module implements the registry.Module interface for this package.
type Module struct{}

type controller struct {
	kp, ki, kd float64

	setpoint *port.Input
	feedback *port.Input
	command  *port.Output

	integral float64
	prevErr  float64
	primed   bool
}

func (c *controller) start() error {
	c.integral = 0
	c.prevErr = 0
	c.primed = false
	return nil
}

func (c *controller) computeControl(_ float64, dt time.Duration) error {
	e := c.setpoint.Read() - c.feedback.Read()
	sec := dt.Seconds()

	c.integral += e * sec
	var deriv float64
	if c.primed && sec > 0 {
		deriv = (e - c.prevErr) / sec
	}
	c.prevErr = e
	c.primed = true

	c.command.Write(c.kp*e + c.ki*c.integral + c.kd*deriv)
	return nil
}

// NewBlock builds a PID block handle.
func NewBlock(name string, args map[string]cty.Value) (*block.Handle, error) {
	c := &controller{}
	var err error
	if c.kp, err = registry.FloatArg(args, "kp", 1); err != nil {
		return nil, err
	}
	if c.ki, err = registry.FloatArg(args, "ki", 0); err != nil {
		return nil, err
	}
	if c.kd, err = registry.FloatArg(args, "kd", 0); err != nil {
		return nil, err
	}

	ports := port.NewSet(name)
	c.setpoint = ports.AddInput("setpoint", port.Unrestricted, port.Control)
	c.feedback = ports.AddInput("feedback", port.Unrestricted, port.Control)
	c.command = ports.AddOutput("command", port.Control)

	return block.NewHandle(name, ports, block.Hooks{
		Start:          c.start,
		ComputeControl: c.computeControl,
	}), nil
}

// Register registers the factory with the host registry.
func (m *Module) Register(r *registry.Registry) {
	r.RegisterBlock("pid", &registry.Factory{NewBlock: NewBlock})
}
