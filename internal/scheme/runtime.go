package scheme

import "github.com/vk/blockflow/internal/port"

// Enable/disable traversal always follows the scheme's own execution
// order, never the caller's list order: batch enable walks the forward
// order restricted to the requested set, batch disable the reverse order,
// so upstream blocks start before and stop after their consumers.

// EnableBlock starts a single block. With force, running conflicting
// blocks are disabled first; without it, a running conflict refuses the
// enable.
func (s *Scheme) EnableBlock(name string, force bool) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.enableBlock(name, force)
}

func (s *Scheme) enableBlock(name string, force bool) bool {
	h, ok := s.blocks[name]
	if !ok {
		s.logger.Error("cannot enable block", "block", name, "reason", ErrUnknownBlock)
		return false
	}

	for peer := range s.conflicts.Of(name) {
		ph, ok := s.blocks[peer]
		if !ok || !ph.IsRunning() {
			continue
		}
		if !force {
			s.logger.Error("cannot enable block",
				"block", name, "reason", ErrConflictingBlockRunning, "conflict", peer)
			return false
		}
		s.logger.Info("force-enabling block disables conflicting block",
			"block", name, "conflict", peer)
		if !s.disableBlock(peer) {
			s.logger.Error("could not disable conflicting block",
				"block", name, "conflict", peer)
			return false
		}
	}

	if !h.IsConfigured() {
		s.logger.Error("cannot enable block", "block", name, "reason", ErrBlockNotConfigured)
		return false
	}

	if err := h.Start(); err != nil {
		s.logger.Error("cannot enable block", "block", name, "error", err)
		return false
	}
	s.monitor.SetRunningBlocks(s.runningCount())
	return true
}

// DisableBlock stops a single block. Disabling a block that is not
// running succeeds without calling its hook.
func (s *Scheme) DisableBlock(name string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.disableBlock(name)
}

func (s *Scheme) disableBlock(name string) bool {
	h, ok := s.blocks[name]
	if !ok {
		s.logger.Error("cannot disable block", "block", name, "reason", ErrUnknownBlock)
		return false
	}
	if !h.IsRunning() {
		return true
	}
	if err := h.Stop(); err != nil {
		s.logger.Error("cannot disable block", "block", name, "error", err)
		return false
	}
	s.monitor.SetRunningBlocks(s.runningCount())
	return true
}

// EnableBlocks enables a set of blocks in the scheme's forward execution
// order. Group names expand to their members. With strict, the first
// failure aborts; otherwise all blocks are attempted and the results
// AND-combined.
func (s *Scheme) EnableBlocks(names []string, strict, force bool) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.enableBlocks(names, strict, force)
}

// EnableBlocksTopo is EnableBlocks under its explicit name: the requested
// list is reordered into the topological order no matter how it arrives.
func (s *Scheme) EnableBlocksTopo(names []string, strict, force bool) bool {
	return s.EnableBlocks(names, strict, force)
}

func (s *Scheme) enableBlocks(names []string, strict, force bool) bool {
	success := true
	for _, name := range s.orderRestricted(names) {
		success = s.enableBlock(name, force) && success
		if !success && strict {
			return false
		}
	}
	return success
}

// DisableBlocks disables a set of blocks in the scheme's reverse
// execution order, so downstream blocks stop before their producers.
func (s *Scheme) DisableBlocks(names []string, strict bool) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.disableBlocks(names, strict)
}

func (s *Scheme) disableBlocks(names []string, strict bool) bool {
	ordered := s.orderRestricted(names)
	success := true
	for i := len(ordered) - 1; i >= 0; i-- {
		success = s.disableBlock(ordered[i]) && success
		if !success && strict {
			return false
		}
	}
	return success
}

// SwitchBlocks disables one set and then enables another. The two halves
// are combined without short-circuit: the enable half runs even when the
// disable half reported failure.
func (s *Scheme) SwitchBlocks(disable, enable []string, strict, force bool) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	disabled := s.disableBlocks(disable, strict)
	enabled := s.enableBlocks(enable, strict, force)
	return disabled && enabled
}

// SetBlocks makes the given set exactly the running set: every registered
// block is disabled, then the requested ones are enabled.
func (s *Scheme) SetBlocks(enable []string, strict bool) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	all := make([]string, len(s.blockNames))
	copy(all, s.blockNames)
	disabled := s.disableBlocks(all, strict)
	enabled := s.enableBlocks(enable, strict, false)
	return disabled && enabled
}

// orderRestricted expands groups and projects the requested set onto the
// scheme's forward execution order. Requested blocks absent from the
// control layer (estimation-only participants) follow in registration
// order; unknown names are kept so the per-block operation reports them.
func (s *Scheme) orderRestricted(names []string) []string {
	requested := make(map[string]bool)
	var unknown []string
	for _, name := range s.expandGroups(names) {
		if _, ok := s.blocks[name]; !ok {
			if !requested[name] {
				requested[name] = true
				unknown = append(unknown, name)
			}
			continue
		}
		requested[name] = true
	}

	ordered := make([]string, 0, len(requested))
	emitted := make(map[string]bool, len(requested))
	for _, name := range s.orders[port.Control] {
		if requested[name] && !emitted[name] {
			ordered = append(ordered, name)
			emitted[name] = true
		}
	}
	for _, name := range s.blockNames {
		if requested[name] && !emitted[name] {
			ordered = append(ordered, name)
			emitted[name] = true
		}
	}
	return append(ordered, unknown...)
}

func (s *Scheme) runningCount() int {
	n := 0
	for _, h := range s.blocks {
		if h.IsRunning() {
			n++
		}
	}
	return n
}
