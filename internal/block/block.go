// Package block defines the handle the scheme holds for every registered
// block: a capability record of hook functions plus lifecycle state and
// per-layer timing. The scheme never owns the block's computation; it owns
// only this wrapper.
package block

import (
	"errors"
	"fmt"
	"time"

	"github.com/vk/blockflow/internal/port"
)

// State is the lifecycle state of a block.
type State uint8

const (
	// Unconfigured blocks have been constructed but not configured.
	Unconfigured State = iota
	// Stopped blocks are configured and ready to be enabled.
	Stopped
	// Running blocks are executed by the tick driver.
	Running
)

func (s State) String() string {
	switch s {
	case Unconfigured:
		return "unconfigured"
	case Stopped:
		return "stopped"
	case Running:
		return "running"
	}
	return "invalid"
}

// Hooks is the capability record a block author hands the scheme at
// registration. The four cycle entry points receive the cycle timestamp in
// seconds and the time elapsed since the block last ran on that layer.
// Nil entries are skipped by the tick driver.
type Hooks struct {
	Configure func() error
	Start     func() error
	Stop      func() error

	ReadHardware      func(t float64, dt time.Duration) error
	ComputeEstimation func(t float64, dt time.Duration) error
	ComputeControl    func(t float64, dt time.Duration) error
	WriteHardware     func(t float64, dt time.Duration) error
}

// Present reports whether the record carries any cycle entry point. A
// block exposing none of them has nothing the scheme could ever execute.
func (h Hooks) Present() bool {
	return h.ReadHardware != nil || h.ComputeEstimation != nil ||
		h.ComputeControl != nil || h.WriteHardware != nil
}

// ErrStartFailed and ErrStopFailed wrap failures reported by the block's
// own lifecycle hooks.
var (
	ErrStartFailed = errors.New("block start hook failed")
	ErrStopFailed  = errors.New("block stop hook failed")
)

// Handle wraps one externally-authored block.
type Handle struct {
	name  string
	ports *port.Set
	hooks Hooks
	state State

	periods [2]time.Duration
	lastRun [2]time.Time
}

// NewHandle builds a handle around the block's ports and hook record.
func NewHandle(name string, ports *port.Set, hooks Hooks) *Handle {
	if ports == nil {
		ports = port.NewSet(name)
	}
	return &Handle{name: name, ports: ports, hooks: hooks}
}

// Name returns the block's stable identifier.
func (h *Handle) Name() string { return h.name }

// Ports returns the block's port collection.
func (h *Handle) Ports() *port.Set { return h.ports }

// Hooks returns the capability record.
func (h *Handle) Hooks() Hooks { return h.hooks }

// State returns the current lifecycle state.
func (h *Handle) State() State { return h.state }

// IsConfigured reports whether the block has left the Unconfigured state.
func (h *Handle) IsConfigured() bool { return h.state != Unconfigured }

// IsRunning reports whether the block is currently enabled.
func (h *Handle) IsRunning() bool { return h.state == Running }

// Configure moves the block from Unconfigured to Stopped. Configuring a
// configured block is a no-op.
func (h *Handle) Configure() error {
	if h.state != Unconfigured {
		return nil
	}
	if h.hooks.Configure != nil {
		if err := h.hooks.Configure(); err != nil {
			return fmt.Errorf("configuring block %q: %w", h.name, err)
		}
	}
	h.state = Stopped
	return nil
}

// Start invokes the block's start hook and moves it to Running. A hook
// failure leaves the state unchanged.
func (h *Handle) Start() error {
	if h.state == Running {
		return nil
	}
	if h.hooks.Start != nil {
		if err := h.hooks.Start(); err != nil {
			return fmt.Errorf("%w: %q: %v", ErrStartFailed, h.name, err)
		}
	}
	h.state = Running
	return nil
}

// Stop invokes the block's stop hook and moves it to Stopped. A hook
// failure leaves the state unchanged.
func (h *Handle) Stop() error {
	if h.state != Running {
		return nil
	}
	if h.hooks.Stop != nil {
		if err := h.hooks.Stop(); err != nil {
			return fmt.Errorf("%w: %q: %v", ErrStopFailed, h.name, err)
		}
	}
	h.state = Stopped
	return nil
}

// ForceStop moves the block to Stopped without consulting its hook. The
// tick driver uses it to demote a block whose cycle hook failed.
func (h *Handle) ForceStop() {
	if h.state == Running {
		h.state = Stopped
	}
}

// Period returns the minimum interval between executions on the layer.
// Zero means every cycle.
func (h *Handle) Period(l port.Layer) time.Duration { return h.periods[l] }

// SetPeriod sets the layer's execution period. Negative periods clamp to
// zero.
func (h *Handle) SetPeriod(l port.Layer, d time.Duration) {
	if d < 0 {
		d = 0
	}
	h.periods[l] = d
}

// LastRun returns when the block last executed on the layer.
func (h *Handle) LastRun(l port.Layer) time.Time { return h.lastRun[l] }

// MarkRun records an execution on the layer at the given cycle timestamp.
func (h *Handle) MarkRun(l port.Layer, now time.Time) { h.lastRun[l] = now }
