package causal

import "errors"

var (
	// ErrDuplicateBlock is returned when a vertex name is already present.
	ErrDuplicateBlock = errors.New("block already registered")
	// ErrUnknownVertex is returned when an edge references an absent vertex.
	ErrUnknownVertex = errors.New("unknown vertex")
	// ErrGraphCyclic is returned when the non-latched subgraph is not a DAG.
	ErrGraphCyclic = errors.New("causal graph contains a cycle")
	// ErrExclusivityViolation is returned when an exclusive input would
	// acquire a second non-latched source.
	ErrExclusivityViolation = errors.New("exclusive input has multiple sources")
)
