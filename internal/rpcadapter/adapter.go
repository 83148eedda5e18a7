// Package rpcadapter exposes controller-manager style operations over a
// mangos rep socket with JSON frames. It translates switch requests into
// scheme switch operations and answers list requests from the scheme's
// registry; everything it does runs on the host's owning goroutine via
// the injected dispatcher, never concurrently with a tick.
package rpcadapter

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"go.nanomsg.org/mangos/v3"
	"go.nanomsg.org/mangos/v3/protocol/rep"

	// Register all transports.
	_ "go.nanomsg.org/mangos/v3/transport/all"

	"github.com/vk/blockflow/internal/block"
	"github.com/vk/blockflow/internal/scheme"
)

// Dispatch runs fn on the scheme's owning goroutine and returns after fn
// has executed.
type Dispatch func(fn func())

// Adapter serves scheme operations to external clients.
type Adapter struct {
	scheme   *scheme.Scheme
	dispatch Dispatch
	logger   *slog.Logger
}

// New creates an adapter. A nil dispatch runs operations inline, which is
// only safe when the caller already owns the scheme's goroutine.
func New(s *scheme.Scheme, dispatch Dispatch, logger *slog.Logger) *Adapter {
	if dispatch == nil {
		dispatch = func(fn func()) { fn() }
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Adapter{scheme: s, dispatch: dispatch, logger: logger}
}

// Serve listens on addr (any mangos transport URL, e.g. tcp://:7205 or
// inproc://scheme) and answers requests until ctx is cancelled.
func (a *Adapter) Serve(ctx context.Context, addr string) error {
	sock, err := rep.NewSocket()
	if err != nil {
		return fmt.Errorf("creating rep socket: %w", err)
	}
	defer sock.Close()

	if err := sock.SetOption(mangos.OptionRecvDeadline, 250*time.Millisecond); err != nil {
		return fmt.Errorf("configuring rep socket: %w", err)
	}
	if err := sock.Listen(addr); err != nil {
		return fmt.Errorf("listening on %s: %w", addr, err)
	}
	a.logger.Info("rpc adapter listening", "addr", addr)

	for {
		select {
		case <-ctx.Done():
			return nil
		default:
		}

		msg, err := sock.Recv()
		if err != nil {
			if errors.Is(err, mangos.ErrRecvTimeout) {
				continue
			}
			if errors.Is(err, mangos.ErrClosed) {
				return nil
			}
			a.logger.Error("rpc receive failed", "error", err)
			continue
		}

		reply := a.Handle(msg)
		if err := sock.Send(reply); err != nil {
			a.logger.Error("rpc send failed", "error", err)
		}
	}
}

// Handle decodes one request frame and returns the encoded response. It
// is exported so tests and alternative transports can drive the adapter
// without a socket.
func (a *Adapter) Handle(data []byte) []byte {
	var req Request
	if err := json.Unmarshal(data, &req); err != nil {
		return mustEncode(Response{ID: uuid.NewString(), OK: false, Error: "malformed request: " + err.Error()})
	}
	if req.ID == "" {
		req.ID = uuid.NewString()
	}

	logger := a.logger.With("rpc_id", req.ID, "method", req.Method)
	logger.Debug("handling rpc request")

	resp := a.handleMethod(&req)
	resp.ID = req.ID
	if !resp.OK {
		logger.Warn("rpc request failed", "error", resp.Error)
	}
	return mustEncode(resp)
}

func (a *Adapter) handleMethod(req *Request) Response {
	switch req.Method {
	case MethodSwitchControllers:
		return a.switchControllers(req)
	case MethodListControllers:
		return a.listControllers()
	case MethodListControllerTypes, MethodLoadController,
		MethodUnloadController, MethodReloadControllerLibs:
		return Response{OK: false, Error: fmt.Sprintf("method %q is not supported", req.Method)}
	default:
		return Response{OK: false, Error: fmt.Sprintf("unknown method %q", req.Method)}
	}
}

func (a *Adapter) switchControllers(req *Request) Response {
	var params SwitchParams
	if len(req.Params) > 0 {
		if err := json.Unmarshal(req.Params, &params); err != nil {
			return Response{OK: false, Error: "malformed switch params: " + err.Error()}
		}
	}

	var ok bool
	a.dispatch(func() {
		ok = a.scheme.SwitchBlocks(
			params.StopControllers,
			params.StartControllers,
			params.Strictness == StrictnessStrict,
			false)
	})

	result := mustEncode(SwitchResult{OK: ok})
	return Response{OK: true, Result: result}
}

func (a *Adapter) listControllers() Response {
	var states []ControllerState
	a.dispatch(func() {
		for _, name := range a.scheme.GetBlocks() {
			state := block.Stopped.String()
			if h, ok := a.scheme.Block(name); ok {
				state = h.State().String()
			}
			states = append(states, ControllerState{Name: name, Type: "BLOCK", State: state})
		}
		for _, name := range a.scheme.GetGroups() {
			states = append(states, ControllerState{Name: name, Type: "GROUP"})
		}
	})

	result := mustEncode(ListResult{Controllers: states})
	return Response{OK: true, Result: result}
}

func mustEncode(v any) []byte {
	data, err := json.Marshal(v)
	if err != nil {
		// Only reachable with an unmarshalable value, which the response
		// types above never are.
		panic(err)
	}
	return data
}
