package app

import "github.com/vk/blockflow/internal/block"

// peerRegistry is the host's block namespace: every instantiated block,
// whether or not it has been added to the scheme yet. It implements
// scheme.PeerRegistry.
type peerRegistry struct {
	handles map[string]*block.Handle
	names   []string
}

func newPeerRegistry() *peerRegistry {
	return &peerRegistry{handles: make(map[string]*block.Handle)}
}

func (p *peerRegistry) add(h *block.Handle) bool {
	if _, exists := p.handles[h.Name()]; exists {
		return false
	}
	p.handles[h.Name()] = h
	p.names = append(p.names, h.Name())
	return true
}

// Resolve implements scheme.PeerRegistry.
func (p *peerRegistry) Resolve(name string) (*block.Handle, bool) {
	h, ok := p.handles[name]
	return h, ok
}

// Names implements scheme.PeerRegistry.
func (p *peerRegistry) Names() []string {
	out := make([]string, len(p.names))
	copy(out, p.names)
	return out
}
