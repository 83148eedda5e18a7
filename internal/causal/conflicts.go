package causal

import "github.com/vk/blockflow/internal/port"

// ConflictSet maps a block name to the set of blocks it may not run
// alongside. Membership is symmetric: B in conflicts[C] iff C in
// conflicts[B].
type ConflictSet map[string]map[string]bool

// Conflicts scans the graph's non-latched edges into exclusive inputs and
// returns the resulting conflict sets. Two blocks conflict when one feeds
// an exclusive input of the other: the exclusive input is a shared
// resource that only one side of the connection may hold at runtime.
func (g *Graph) Conflicts() ConflictSet {
	conflicts := make(ConflictSet)
	add := func(a, b string) {
		if conflicts[a] == nil {
			conflicts[a] = make(map[string]bool)
		}
		conflicts[a][b] = true
	}
	for _, e := range g.edges {
		if e.Latched || e.SinkPort == nil || e.SinkPort.Exclusivity() != port.Exclusive {
			continue
		}
		if e.Source == e.Sink {
			continue
		}
		add(e.Source, e.Sink)
		add(e.Sink, e.Source)
	}
	return conflicts
}

// Merge folds another conflict set into this one. The scheme merges the
// per-layer sets after each rebuild.
func (c ConflictSet) Merge(other ConflictSet) {
	for name, peers := range other {
		if c[name] == nil {
			c[name] = make(map[string]bool, len(peers))
		}
		for peer := range peers {
			c[name][peer] = true
		}
	}
}

// Of returns the conflict peers of a block.
func (c ConflictSet) Of(name string) map[string]bool { return c[name] }
