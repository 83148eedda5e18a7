// Package scheme composes registered blocks into two causal layer graphs,
// keeps a deterministic execution order for each, and drives the ordered
// enable/disable/switch protocol and the per-cycle tick walk.
package scheme

import (
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/vk/blockflow/internal/block"
	"github.com/vk/blockflow/internal/causal"
	"github.com/vk/blockflow/internal/port"
)

// PeerRegistry is the host-supplied lookup the string form of AddBlock
// resolves names through.
type PeerRegistry interface {
	Resolve(name string) (*block.Handle, bool)
	Names() []string
}

type latchKey struct{ src, sink string }

// Scheme is the controller-manager runtime.
type Scheme struct {
	mu      sync.Mutex
	logger  *slog.Logger
	peers   PeerRegistry
	monitor Monitor

	graphs [2]*causal.Graph
	orders [2][]string

	blocks     map[string]*block.Handle
	blockNames []string

	latched   map[latchKey]bool
	conflicts causal.ConflictSet

	groups     map[string][]string
	groupNames []string

	epoch time.Time
}

// Option configures a Scheme at construction.
type Option func(*Scheme)

// WithLogger sets the scheme's logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Scheme) { s.logger = logger }
}

// WithMonitor sets the scheme's observation sink.
func WithMonitor(m Monitor) Option {
	return func(s *Scheme) { s.monitor = m }
}

// New creates an empty scheme resolving peer names through the given
// registry. A nil registry means the string form of AddBlock always fails.
func New(peers PeerRegistry, opts ...Option) *Scheme {
	s := &Scheme{
		logger:    slog.Default(),
		peers:     peers,
		monitor:   nopMonitor{},
		blocks:    make(map[string]*block.Handle),
		latched:   make(map[latchKey]bool),
		conflicts: make(causal.ConflictSet),
		groups:    make(map[string][]string),
		epoch:     time.Now(),
	}
	s.graphs[port.Estimation] = causal.New()
	s.graphs[port.Control] = causal.New()
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// AddBlock resolves a peer block by name and registers it into the layer
// graphs. Failure leaves the scheme unchanged.
func (s *Scheme) AddBlock(name string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.peers == nil {
		s.logger.Error("cannot add block: no peer registry wired", "block", name)
		return false
	}
	h, ok := s.peers.Resolve(name)
	if !ok {
		s.logger.Error("cannot add block",
			"block", name,
			"reason", ErrUnknownBlock,
			"available", strings.Join(s.peers.Names(), ", "))
		return false
	}
	return s.addHandle(h)
}

// AddBlockHandle registers an already-resolved block handle.
func (s *Scheme) AddBlockHandle(h *block.Handle) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.addHandle(h)
}

func (s *Scheme) addHandle(h *block.Handle) bool {
	name := h.Name()
	if !h.Hooks().Present() {
		s.logger.Error("cannot add block", "block", name, "reason", ErrBlockLacksHook)
		return false
	}
	if _, exists := s.blocks[name]; exists {
		s.logger.Error("cannot add block", "block", name, "reason", causal.ErrDuplicateBlock)
		return false
	}

	added := make([]port.Layer, 0, 2)
	for _, l := range port.Layers {
		if !h.Ports().ParticipatesIn(l) {
			continue
		}
		if err := s.graphs[l].AddVertex(name, h); err != nil {
			// Cannot happen while the registry and graphs agree.
			s.logger.Error("vertex insertion failed", "block", name, "layer", l, "error", err)
			s.dropVertices(name, added)
			return false
		}
		added = append(added, l)
	}
	if len(added) == 0 {
		s.logger.Error("cannot add block", "block", name, "reason", "participates in no layer")
		return false
	}

	for _, l := range added {
		if err := s.rebuildLayer(l); err != nil {
			s.logger.Error("cannot add block to layer",
				"block", name, "layer", l, "error", err)
			// Take the offending vertex back out and restore a consistent
			// ordering without it. The caller still sees the failure.
			s.dropVertices(name, added)
			for _, rl := range added {
				if rerr := s.rebuildLayer(rl); rerr != nil {
					s.logger.Error("rebuild after rollback failed", "layer", rl, "error", rerr)
				}
			}
			s.refreshConflicts()
			return false
		}
	}

	s.blocks[name] = h
	s.blockNames = append(s.blockNames, name)
	s.refreshConflicts()
	s.logger.Info("block added", "block", name, "order", s.orders[port.Control])
	return true
}

func (s *Scheme) dropVertices(name string, layers []port.Layer) {
	for _, l := range layers {
		s.graphs[l].RemoveVertex(name)
	}
}

// RemoveBlock releases a registered block. The block itself is never
// destroyed; the scheme only drops its reference.
func (s *Scheme) RemoveBlock(name string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.blocks[name]; !exists {
		s.logger.Error("cannot remove block", "block", name, "reason", ErrUnknownBlock)
		return false
	}
	for _, l := range port.Layers {
		s.graphs[l].RemoveVertex(name)
		if err := s.rebuildLayer(l); err != nil {
			// Removal only ever shrinks the edge set.
			s.logger.Error("rebuild after removal failed", "layer", l, "error", err)
		}
	}
	delete(s.blocks, name)
	for i, n := range s.blockNames {
		if n == name {
			s.blockNames = append(s.blockNames[:i], s.blockNames[i+1:]...)
			break
		}
	}
	s.refreshConflicts()
	return true
}

// GetBlocks lists registered block names in registration order.
func (s *Scheme) GetBlocks() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, len(s.blockNames))
	copy(out, s.blockNames)
	return out
}

// Block resolves a registered handle by name.
func (s *Scheme) Block(name string) (*block.Handle, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	h, ok := s.blocks[name]
	return h, ok
}

// Connect wires an output to an input, each given as "block.port", and
// rebuilds the layer graphs. A connection the graphs reject (cycle or
// exclusivity violation) is removed again; the earlier topology survives.
func (s *Scheme) Connect(from, to string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	out, err := s.resolveOutput(from)
	if err != nil {
		s.logger.Error("cannot connect", "from", from, "to", to, "error", err)
		return false
	}
	in, err := s.resolveInput(to)
	if err != nil {
		s.logger.Error("cannot connect", "from", from, "to", to, "error", err)
		return false
	}

	ch := port.Connect(out, in)

	if err := s.rebuildAll(); err != nil {
		s.logger.Error("connection rejected", "from", from, "to", to, "error", err)
		port.Disconnect(ch)
		if rerr := s.rebuildAll(); rerr != nil {
			s.logger.Error("rebuild after rollback failed", "error", rerr)
		}
		return false
	}
	s.refreshConflicts()
	return true
}

// LatchConnections marks every connection between src and sink as latched
// (or unlatched) and rebuilds. Latching a pair with no edges is a no-op
// success. Unlatching that would reintroduce a cycle is rejected and the
// latch table restored.
func (s *Scheme) LatchConnections(src, sink string, latched bool) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := latchKey{src, sink}
	prev, hadPrev := s.latched[key]
	if latched {
		s.latched[key] = true
	} else {
		delete(s.latched, key)
	}

	if err := s.rebuildAll(); err != nil {
		s.logger.Error("latch change rejected", "src", src, "sink", sink,
			"latched", latched, "error", err)
		if hadPrev {
			s.latched[key] = prev
		} else {
			delete(s.latched, key)
		}
		if rerr := s.rebuildAll(); rerr != nil {
			s.logger.Error("rebuild after rollback failed", "error", rerr)
		}
		return false
	}
	s.refreshConflicts()
	return true
}

// GetExecutionOrder returns the control layer's current ordering.
func (s *Scheme) GetExecutionOrder() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, len(s.orders[port.Control]))
	copy(out, s.orders[port.Control])
	return out
}

// ExecutionOrder returns the given layer's current ordering.
func (s *Scheme) ExecutionOrder(l port.Layer) []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, len(s.orders[l]))
	copy(out, s.orders[l])
	return out
}

// Conflicts returns the blocks the named block may not run alongside.
func (s *Scheme) Conflicts(name string) []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []string
	for peer := range s.conflicts.Of(name) {
		out = append(out, peer)
	}
	return out
}

// rebuildAll regenerates both layers; the first failing layer aborts.
func (s *Scheme) rebuildAll() error {
	for _, l := range port.Layers {
		if err := s.rebuildLayer(l); err != nil {
			return fmt.Errorf("%s layer: %w", l, err)
		}
	}
	return nil
}

// rebuildLayer drops and rediscovers the layer's edges from the port
// substrate, validates exclusivity, and republishes the topological
// ordering. On failure the previous edge set and ordering stay in effect.
func (s *Scheme) rebuildLayer(l port.Layer) error {
	g := s.graphs[l]
	prev := g.ClearEdges()

	for _, name := range g.VertexNames() {
		v, _ := g.Vertex(name)
		h := v.Handle
		for _, out := range h.Ports().OutputsOnLayer(l) {
			for _, ch := range out.Channels() {
				src, sink := ch.From.Owner(), ch.To.Owner()
				if !g.HasVertex(src) || !g.HasVertex(sink) {
					continue
				}
				edge := &causal.Edge{
					Source:     src,
					Sink:       sink,
					SourcePort: ch.From,
					SinkPort:   ch.To,
					Latched:    s.latched[latchKey{src, sink}],
				}
				if err := g.AddEdge(edge); err != nil {
					g.RestoreEdges(prev)
					s.monitor.RecordRebuild(l, false)
					return err
				}
			}
		}
	}

	if err := g.CheckExclusivity(); err != nil {
		g.RestoreEdges(prev)
		s.monitor.RecordRebuild(l, false)
		return err
	}

	order, err := g.Serialize()
	if err != nil {
		g.RestoreEdges(prev)
		s.monitor.RecordRebuild(l, false)
		return err
	}

	s.orders[l] = order
	s.monitor.RecordRebuild(l, true)
	s.monitor.SetOrderLength(l, len(order))
	return nil
}

func (s *Scheme) refreshConflicts() {
	merged := make(causal.ConflictSet)
	for _, l := range port.Layers {
		merged.Merge(s.graphs[l].Conflicts())
	}
	s.conflicts = merged
}

func (s *Scheme) resolveOutput(ref string) (*port.Output, error) {
	blockName, portName, err := splitRef(ref)
	if err != nil {
		return nil, err
	}
	h, err := s.refHandle(blockName)
	if err != nil {
		return nil, err
	}
	out, ok := h.Ports().Output(portName)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownPort, ref)
	}
	return out, nil
}

func (s *Scheme) resolveInput(ref string) (*port.Input, error) {
	blockName, portName, err := splitRef(ref)
	if err != nil {
		return nil, err
	}
	h, err := s.refHandle(blockName)
	if err != nil {
		return nil, err
	}
	in, ok := h.Ports().Input(portName)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownPort, ref)
	}
	return in, nil
}

// refHandle resolves a connection endpoint owner: registered blocks first,
// then unregistered peers (connections may be declared before addBlock).
func (s *Scheme) refHandle(name string) (*block.Handle, error) {
	if h, ok := s.blocks[name]; ok {
		return h, nil
	}
	if s.peers != nil {
		if h, ok := s.peers.Resolve(name); ok {
			return h, nil
		}
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownBlock, name)
}

func splitRef(ref string) (blockName, portName string, err error) {
	i := strings.LastIndex(ref, ".")
	if i <= 0 || i == len(ref)-1 {
		return "", "", fmt.Errorf("%w: malformed port reference %q", ErrUnknownPort, ref)
	}
	return ref[:i], ref[i+1:], nil
}
