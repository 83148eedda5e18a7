// Package telemetry provides an estimation-layer block that streams the
// sample on its input to a socket.io endpoint. The connection is
// established when the block starts and torn down when it stops, so a
// disabled telemetry block costs nothing.
package telemetry

import (
	"crypto/tls"
	"fmt"
	"net/url"
	"time"

	"github.com/zclconf/go-cty/cty"
	"github.com/zishang520/engine.io-client-go/transports"
	"github.com/zishang520/engine.io/v2/types"
	"github.com/zishang520/socket.io-client-go/socket"

	"github.com/vk/blockflow/internal/block"
	"github.com/vk/blockflow/internal/port"
	"github.com/vk/blockflow/internal/registry"
)

// Module implements the registry.Module interface for this package.
type Module struct{}

type emitter struct {
	name      string
	url       string
	namespace string
	event     string
	timeout   time.Duration
	insecure  bool

	in *port.Input
	io *socket.Socket
}

// Sample is the payload emitted per execution.
type Sample struct {
	Block string  `json:"block"`
	T     float64 `json:"t"`
	Value float64 `json:"value"`
}

func (e *emitter) start() error {
	parsedURL, err := url.Parse(e.url)
	if err != nil {
		return fmt.Errorf("failed to parse URL: %w", err)
	}

	opts := socket.DefaultOptions()
	opts.SetPath(parsedURL.Path)
	if e.insecure {
		opts.SetTLSClientConfig(&tls.Config{InsecureSkipVerify: true})
	}
	opts.SetTransports(types.NewSet(transports.WebSocket))

	baseURL := fmt.Sprintf("%s://%s", parsedURL.Scheme, parsedURL.Host)
	manager := socket.NewManager(baseURL, opts)
	io := manager.Socket(e.namespace, opts)

	connectChan := make(chan error, 1)
	io.Once(types.EventName("connect"), func(...any) {
		connectChan <- nil
	})
	io.Once(types.EventName("connect_error"), func(errs ...any) {
		if err, ok := errs[0].(error); ok {
			connectChan <- err
			return
		}
		connectChan <- fmt.Errorf("socket.io connect error: %v", errs[0])
	})

	io.Connect()
	select {
	case err := <-connectChan:
		if err != nil {
			io.Disconnect()
			return fmt.Errorf("socket.io connection failed: %w", err)
		}
	case <-time.After(e.timeout):
		io.Disconnect()
		return fmt.Errorf("timed out connecting to %s", e.url)
	}

	e.io = io
	return nil
}

func (e *emitter) stop() error {
	if e.io != nil {
		e.io.Disconnect()
		e.io = nil
	}
	return nil
}

func (e *emitter) computeEstimation(t float64, _ time.Duration) error {
	if e.io == nil {
		return fmt.Errorf("telemetry block %q is not connected", e.name)
	}
	e.io.Emit(e.event, Sample{Block: e.name, T: t, Value: e.in.Read()})
	return nil
}

// NewBlock builds a telemetry block handle.
func NewBlock(name string, args map[string]cty.Value) (*block.Handle, error) {
	e := &emitter{name: name}
	var err error
	if e.url, err = registry.StringArg(args, "url", ""); err != nil {
		return nil, err
	}
	if e.url == "" {
		return nil, fmt.Errorf("telemetry block %q requires a url argument", name)
	}
	if e.namespace, err = registry.StringArg(args, "namespace", "/"); err != nil {
		return nil, err
	}
	if e.event, err = registry.StringArg(args, "event", "sample"); err != nil {
		return nil, err
	}
	timeoutStr, err := registry.StringArg(args, "timeout", "10s")
	if err != nil {
		return nil, err
	}
	if e.timeout, err = time.ParseDuration(timeoutStr); err != nil {
		return nil, fmt.Errorf("argument %q: %w", "timeout", err)
	}
	if e.insecure, err = registry.BoolArg(args, "insecure_skip_verify", false); err != nil {
		return nil, err
	}

	ports := port.NewSet(name)
	e.in = ports.AddInput("in", port.Unrestricted, port.Estimation)

	return block.NewHandle(name, ports, block.Hooks{
		Start:             e.start,
		Stop:              e.stop,
		ComputeEstimation: e.computeEstimation,
	}), nil
}

// Register registers the factory with the host registry.
func (m *Module) Register(r *registry.Registry) {
	r.RegisterBlock("telemetry", &registry.Factory{NewBlock: NewBlock})
}
