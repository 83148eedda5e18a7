// Package sine provides a signal-generator block: a control-layer source
// writing a sine wave to its output port.
package sine

import (
	"math"
	"time"

	"github.com/zclconf/go-cty/cty"

	"github.com/vk/blockflow/internal/block"
	"github.com/vk/blockflow/internal/port"
	"github.com/vk/blockflow/internal/registry"
)

// Module implements the registry.Module interface for this package.
type Module struct{}

type generator struct {
	amplitude float64
	frequency float64
	phase     float64
	offset    float64

	out *port.Output
}

func (g *generator) computeControl(t float64, _ time.Duration) error {
	g.out.Write(g.offset + g.amplitude*math.Sin(2*math.Pi*g.frequency*t+g.phase))
	return nil
}

// NewBlock builds a sine block handle.
func NewBlock(name string, args map[string]cty.Value) (*block.Handle, error) {
	g := &generator{}
	var err error
	if g.amplitude, err = registry.FloatArg(args, "amplitude", 1); err != nil {
		return nil, err
	}
	if g.frequency, err = registry.FloatArg(args, "frequency", 1); err != nil {
		return nil, err
	}
	if g.phase, err = registry.FloatArg(args, "phase", 0); err != nil {
		return nil, err
	}
	if g.offset, err = registry.FloatArg(args, "offset", 0); err != nil {
		return nil, err
	}

	ports := port.NewSet(name)
	g.out = ports.AddOutput("out", port.Control)

	return block.NewHandle(name, ports, block.Hooks{
		ComputeControl: g.computeControl,
	}), nil
}

// Register registers the factory with the host registry.
func (m *Module) Register(r *registry.Registry) {
	r.RegisterBlock("sine", &registry.Factory{NewBlock: NewBlock})
}
