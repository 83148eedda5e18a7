// Package console provides a sink block that logs the sample arriving on
// its input. Declaring the input exclusive turns the block into a claim
// on whatever feeds it: only one side of the connection can run.
package console

import (
	"log/slog"
	"time"

	"github.com/zclconf/go-cty/cty"

	"github.com/vk/blockflow/internal/block"
	"github.com/vk/blockflow/internal/port"
	"github.com/vk/blockflow/internal/registry"
)

// Module implements the registry.Module interface for this package.
type Module struct{}

type sink struct {
	name   string
	logger *slog.Logger
	in     *port.Input
}

func (s *sink) writeHardware(t float64, _ time.Duration) error {
	s.logger.Info("sample", "block", s.name, "t", t, "value", s.in.Read())
	return nil
}

// NewBlock builds a console sink handle.
func NewBlock(name string, args map[string]cty.Value) (*block.Handle, error) {
	exclusive, err := registry.BoolArg(args, "exclusive", false)
	if err != nil {
		return nil, err
	}

	excl := port.Unrestricted
	if exclusive {
		excl = port.Exclusive
	}

	s := &sink{name: name, logger: slog.Default()}
	ports := port.NewSet(name)
	s.in = ports.AddInput("in", excl, port.Control)

	return block.NewHandle(name, ports, block.Hooks{
		WriteHardware: s.writeHardware,
	}), nil
}

// Register registers the factory with the host registry.
func (m *Module) Register(r *registry.Registry) {
	r.RegisterBlock("console", &registry.Factory{NewBlock: NewBlock})
}
