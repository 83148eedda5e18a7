package port

// Set is the port collection a single block owns. Blocks declare their
// ports at construction time; the scheme queries the set during graph
// rebuilds.
type Set struct {
	owner   string
	inputs  map[string]*Input
	outputs map[string]*Output

	inputOrder  []string
	outputOrder []string
}

// NewSet creates an empty port collection for the named block.
func NewSet(owner string) *Set {
	return &Set{
		owner:   owner,
		inputs:  make(map[string]*Input),
		outputs: make(map[string]*Output),
	}
}

// Owner returns the block name the set belongs to.
func (s *Set) Owner() string { return s.owner }

// AddInput declares an input port on the given layers. Declaring an
// existing name returns the existing port unchanged.
func (s *Set) AddInput(name string, excl Exclusivity, layers ...Layer) *Input {
	if in, ok := s.inputs[name]; ok {
		return in
	}
	in := &Input{owner: s.owner, name: name, excl: excl, layers: layerSet(layers)}
	s.inputs[name] = in
	s.inputOrder = append(s.inputOrder, name)
	return in
}

// AddOutput declares an output port on the given layers. Declaring an
// existing name returns the existing port unchanged.
func (s *Set) AddOutput(name string, layers ...Layer) *Output {
	if out, ok := s.outputs[name]; ok {
		return out
	}
	out := &Output{owner: s.owner, name: name, layers: layerSet(layers)}
	s.outputs[name] = out
	s.outputOrder = append(s.outputOrder, name)
	return out
}

// Input resolves a declared input by name.
func (s *Set) Input(name string) (*Input, bool) {
	in, ok := s.inputs[name]
	return in, ok
}

// Output resolves a declared output by name.
func (s *Set) Output(name string) (*Output, bool) {
	out, ok := s.outputs[name]
	return out, ok
}

// OutputsOnLayer returns the outputs participating in the layer, in
// declaration order.
func (s *Set) OutputsOnLayer(l Layer) []*Output {
	var outs []*Output
	for _, name := range s.outputOrder {
		if out := s.outputs[name]; out.OnLayer(l) {
			outs = append(outs, out)
		}
	}
	return outs
}

// ParticipatesIn reports whether any port of the set is declared on the
// layer. A block with no ports at all participates in both layers: it can
// still compute, it just has no discoverable data flow.
func (s *Set) ParticipatesIn(l Layer) bool {
	if len(s.inputs) == 0 && len(s.outputs) == 0 {
		return true
	}
	for _, in := range s.inputs {
		if in.OnLayer(l) {
			return true
		}
	}
	for _, out := range s.outputs {
		if out.OnLayer(l) {
			return true
		}
	}
	return false
}

func layerSet(layers []Layer) map[Layer]bool {
	m := make(map[Layer]bool, len(layers))
	for _, l := range layers {
		m[l] = true
	}
	return m
}
