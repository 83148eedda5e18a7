// Package testutil provides the stub blocks the scheme tests are built
// from: configurable I/O blocks that record the order of their lifecycle
// and cycle hook invocations.
package testutil

import (
	"time"

	"github.com/vk/blockflow/internal/block"
	"github.com/vk/blockflow/internal/port"
)

// Recorder accumulates hook observations across a set of stub blocks.
type Recorder struct {
	EnableOrder  []string
	DisableOrder []string
	Executions   []string
}

// Reset clears all recorded traces.
func (r *Recorder) Reset() {
	r.EnableOrder = nil
	r.DisableOrder = nil
	r.Executions = nil
}

// IOBlock mirrors the canonical test block: one plain input, one
// exclusive input, two outputs, everything on the control layer.
type IOBlock struct {
	Handle *block.Handle

	In   *port.Input
	InEx *port.Input
	Out1 *port.Output
	Out2 *port.Output

	// FailStart and FailStop make the lifecycle hooks report failure.
	FailStart bool
	FailStop  bool
}

// NewIOBlock builds a recording I/O block. The handle arrives configured,
// ready to enable.
func NewIOBlock(name string, rec *Recorder) *IOBlock {
	b := &IOBlock{}
	ports := port.NewSet(name)
	b.In = ports.AddInput("in", port.Unrestricted, port.Control)
	b.InEx = ports.AddInput("in_ex", port.Exclusive, port.Control)
	b.Out1 = ports.AddOutput("out1", port.Control)
	b.Out2 = ports.AddOutput("out2", port.Control)

	b.Handle = block.NewHandle(name, ports, block.Hooks{
		Start: func() error {
			if b.FailStart {
				return errStub
			}
			if rec != nil {
				rec.EnableOrder = append(rec.EnableOrder, name)
			}
			return nil
		},
		Stop: func() error {
			if b.FailStop {
				return errStub
			}
			if rec != nil {
				rec.DisableOrder = append(rec.DisableOrder, name)
			}
			return nil
		},
		ComputeControl: func(t float64, dt time.Duration) error {
			if rec != nil {
				rec.Executions = append(rec.Executions, name)
			}
			return nil
		},
	})
	if err := b.Handle.Configure(); err != nil {
		panic(err)
	}
	return b
}

// EstimationBlock is a stub that participates only in the estimation
// layer.
type EstimationBlock struct {
	Handle *block.Handle
	Out    *port.Output
}

// NewEstimationBlock builds a configured estimation-only stub.
func NewEstimationBlock(name string, rec *Recorder) *EstimationBlock {
	b := &EstimationBlock{}
	ports := port.NewSet(name)
	b.Out = ports.AddOutput("out", port.Estimation)

	b.Handle = block.NewHandle(name, ports, block.Hooks{
		Start: func() error {
			if rec != nil {
				rec.EnableOrder = append(rec.EnableOrder, name)
			}
			return nil
		},
		Stop: func() error {
			if rec != nil {
				rec.DisableOrder = append(rec.DisableOrder, name)
			}
			return nil
		},
		ComputeEstimation: func(t float64, dt time.Duration) error {
			if rec != nil {
				rec.Executions = append(rec.Executions, name)
			}
			return nil
		},
	})
	if err := b.Handle.Configure(); err != nil {
		panic(err)
	}
	return b
}

type stubError string

func (e stubError) Error() string { return string(e) }

const errStub = stubError("stub failure")

// Peers is a map-backed scheme.PeerRegistry for tests.
type Peers struct {
	handles map[string]*block.Handle
	names   []string
}

// NewPeers creates an empty peer registry.
func NewPeers() *Peers {
	return &Peers{handles: make(map[string]*block.Handle)}
}

// Add registers a handle; it returns the registry for chaining.
func (p *Peers) Add(h *block.Handle) *Peers {
	if _, exists := p.handles[h.Name()]; !exists {
		p.names = append(p.names, h.Name())
	}
	p.handles[h.Name()] = h
	return p
}

// Resolve implements scheme.PeerRegistry.
func (p *Peers) Resolve(name string) (*block.Handle, bool) {
	h, ok := p.handles[name]
	return h, ok
}

// Names implements scheme.PeerRegistry.
func (p *Peers) Names() []string {
	out := make([]string, len(p.names))
	copy(out, p.names)
	return out
}
