package causal

import (
	"container/heap"
	"fmt"
)

// Serialize computes the topological order of the non-latched subgraph
// using Kahn's algorithm. When several vertices are ready at once the one
// inserted into the graph first wins, so the order is deterministic for a
// given construction sequence. A cycle yields ErrGraphCyclic.
func (g *Graph) Serialize() ([]string, error) {
	inDegree := make(map[string]int, len(g.vertices))
	succs := make(map[string][]string, len(g.vertices))
	for name := range g.vertices {
		inDegree[name] = 0
	}
	for _, e := range g.edges {
		if e.Latched {
			continue
		}
		inDegree[e.Sink]++
		succs[e.Source] = append(succs[e.Source], e.Sink)
	}

	ready := &vertexHeap{}
	heap.Init(ready)
	for name, deg := range inDegree {
		if deg == 0 {
			heap.Push(ready, g.vertices[name])
		}
	}

	order := make([]string, 0, len(g.vertices))
	for ready.Len() > 0 {
		v := heap.Pop(ready).(*Vertex)
		order = append(order, v.Name)
		for _, succ := range succs[v.Name] {
			inDegree[succ]--
			if inDegree[succ] == 0 {
				heap.Push(ready, g.vertices[succ])
			}
		}
	}

	if len(order) != len(g.vertices) {
		return nil, fmt.Errorf("%w: %d of %d vertices unreachable by topological sort",
			ErrGraphCyclic, len(g.vertices)-len(order), len(g.vertices))
	}
	return order, nil
}

// vertexHeap orders ready vertices by insertion sequence.
type vertexHeap []*Vertex

func (h vertexHeap) Len() int           { return len(h) }
func (h vertexHeap) Less(i, j int) bool { return h[i].seq < h[j].seq }
func (h vertexHeap) Swap(i, j int)      { h[i], h[j] = h[j], h[i] }
func (h *vertexHeap) Push(x any)        { *h = append(*h, x.(*Vertex)) }
func (h *vertexHeap) Pop() any {
	old := *h
	n := len(old)
	v := old[n-1]
	*h = old[:n-1]
	return v
}
