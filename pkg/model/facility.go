package model

import (
	"fmt"
	"sort"
)

// Facility is the immutable, index-arena view of a facility definition.
// Node and edge slices are indexed positionally; adjacency lists hold edge
// indexes. Built once, read-only afterwards, safe for concurrent readers.
type Facility struct {
	Name  string
	Nodes []Node
	Edges []Edge

	index map[string]int
	out   [][]int // edge indexes leaving each node (includes reverse side of bidirectional edges)
	in    [][]int

	supplyByCommodity map[string][]int // node indexes, sorted by ID
	outputs           []int            // node indexes, ascending priority
}

// Build freezes a definition into an arena-indexed facility.
// Endpoints must resolve; duplicate IDs are rejected here so that the
// adjacency arrays are well defined before Validate runs deeper checks.
func Build(def *Definition) (*Facility, error) {
	f := &Facility{
		Name:  def.Name,
		Nodes: make([]Node, len(def.Nodes)),
		Edges: make([]Edge, len(def.Edges)),
		index: make(map[string]int, len(def.Nodes)),
	}
	copy(f.Nodes, def.Nodes)
	copy(f.Edges, def.Edges)

	for i, n := range f.Nodes {
		if _, dup := f.index[n.ID]; dup {
			return nil, fmt.Errorf("duplicate node id %q", n.ID)
		}
		f.index[n.ID] = i
	}

	f.out = make([][]int, len(f.Nodes))
	f.in = make([][]int, len(f.Nodes))
	for ei, e := range f.Edges {
		ui, ok := f.index[e.From]
		if !ok {
			return nil, fmt.Errorf("edge %s->%s: unknown node %q", e.From, e.To, e.From)
		}
		vi, ok := f.index[e.To]
		if !ok {
			return nil, fmt.Errorf("edge %s->%s: unknown node %q", e.From, e.To, e.To)
		}
		f.out[ui] = append(f.out[ui], ei)
		f.in[vi] = append(f.in[vi], ei)
		if e.Bidirectional {
			f.out[vi] = append(f.out[vi], ei)
			f.in[ui] = append(f.in[ui], ei)
		}
	}

	f.supplyByCommodity = make(map[string][]int)
	for i, n := range f.Nodes {
		switch n.Role {
		case RoleSupply:
			f.supplyByCommodity[n.Commodity] = append(f.supplyByCommodity[n.Commodity], i)
		case RoleOutput:
			f.outputs = append(f.outputs, i)
		}
	}
	for _, idxs := range f.supplyByCommodity {
		sort.Slice(idxs, func(a, b int) bool { return f.Nodes[idxs[a]].ID < f.Nodes[idxs[b]].ID })
	}
	sort.Slice(f.outputs, func(a, b int) bool {
		pa, pb := f.Nodes[f.outputs[a]].Priority, f.Nodes[f.outputs[b]].Priority
		if pa != pb {
			return pa < pb
		}
		return f.Nodes[f.outputs[a]].ID < f.Nodes[f.outputs[b]].ID
	})

	return f, nil
}

// Index returns the arena index for a node ID.
func (f *Facility) Index(id string) (int, bool) {
	i, ok := f.index[id]
	return i, ok
}

// Out returns the edge indexes traversable from node i.
func (f *Facility) Out(i int) []int { return f.out[i] }

// In returns the edge indexes arriving at node i.
func (f *Facility) In(i int) []int { return f.in[i] }

// SupplyByCommodity maps each commodity type to its supply node indexes.
func (f *Facility) SupplyByCommodity() map[string][]int { return f.supplyByCommodity }

// OutputsByPriority returns output node indexes in restoration priority order.
func (f *Facility) OutputsByPriority() []int { return f.outputs }

// Neighbor returns the node index on the far side of edge ei from node i.
func (f *Facility) Neighbor(i, ei int) int {
	e := f.Edges[ei]
	from := f.index[e.From]
	if from == i {
		return f.index[e.To]
	}
	return from
}

// NominalDemand is the summed demand over all output nodes.
func (f *Facility) NominalDemand() float64 {
	var total float64
	for _, oi := range f.outputs {
		total += f.Nodes[oi].Demand
	}
	return total
}
