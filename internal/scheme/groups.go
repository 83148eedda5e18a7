package scheme

// Groups are named sets of blocks. A group name is accepted anywhere the
// batch operations accept a block name and expands to its members before
// ordering.

// AddGroup registers a group. Redefining a group replaces its members.
func (s *Scheme) AddGroup(name string, members []string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, isBlock := s.blocks[name]; isBlock {
		s.logger.Error("cannot add group", "group", name,
			"reason", "name collides with a registered block")
		return false
	}
	if _, exists := s.groups[name]; !exists {
		s.groupNames = append(s.groupNames, name)
	}
	s.groups[name] = append([]string(nil), members...)
	return true
}

// GetGroups lists group names in definition order.
func (s *Scheme) GetGroups() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, len(s.groupNames))
	copy(out, s.groupNames)
	return out
}

// GroupMembers returns a group's member list.
func (s *Scheme) GroupMembers(name string) ([]string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	members, ok := s.groups[name]
	if !ok {
		return nil, false
	}
	return append([]string(nil), members...), true
}

// expandGroups replaces group names with their members, leaving block
// names untouched. Groups do not nest.
func (s *Scheme) expandGroups(names []string) []string {
	out := make([]string, 0, len(names))
	for _, name := range names {
		if members, ok := s.groups[name]; ok {
			out = append(out, members...)
			continue
		}
		out = append(out, name)
	}
	return out
}
