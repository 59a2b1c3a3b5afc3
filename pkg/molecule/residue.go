package molecule

import "sort"

// Residue is one node of the coarse residue graph.
type Residue struct {
	ID   int
	Name string

	// Position is the center of geometry of the residue's atoms once they
	// have been placed.
	Position    Vec3
	HasPosition bool

	// LinksApplied marks residues whose inter-residue links were already
	// committed during an earlier pass.
	LinksApplied bool
}

// Clone returns a copy of the residue.
func (r *Residue) Clone() *Residue {
	clone := *r
	return &clone
}

// ResidueGraph describes a molecule at one node per residue. Node IDs are
// zero-based and equal the residue IDs carried by the molecule's atoms.
type ResidueGraph struct {
	nodes     map[int]*Residue
	adjacency map[int]map[int]struct{}
}

// NewResidueGraph creates an empty residue graph.
func NewResidueGraph() *ResidueGraph {
	return &ResidueGraph{
		nodes:     make(map[int]*Residue),
		adjacency: make(map[int]map[int]struct{}),
	}
}

// AddResidue inserts a residue node under its ID, replacing any existing
// node with that ID.
func (g *ResidueGraph) AddResidue(r *Residue) {
	g.nodes[r.ID] = r
	if g.adjacency[r.ID] == nil {
		g.adjacency[r.ID] = make(map[int]struct{})
	}
}

// Residue returns the node with the given ID.
func (g *ResidueGraph) Residue(id int) (*Residue, error) {
	r, ok := g.nodes[id]
	if !ok {
		return nil, &GraphError{Op: "get", Entity: "residue", ID: id, Cause: ErrResidueNotFound}
	}
	return r, nil
}

// HasResidue reports whether a node with the given ID exists.
func (g *ResidueGraph) HasResidue(id int) bool {
	_, ok := g.nodes[id]
	return ok
}

// NodeCount returns the number of residues.
func (g *ResidueGraph) NodeCount() int {
	return len(g.nodes)
}

// Residues returns all node IDs in ascending order.
func (g *ResidueGraph) Residues() []int {
	ids := make([]int, 0, len(g.nodes))
	for id := range g.nodes {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}

// AddEdge inserts an undirected adjacency edge between two residues. Both
// nodes must exist; self loops are ignored.
func (g *ResidueGraph) AddEdge(u, v int) error {
	if u == v {
		return nil
	}
	if !g.HasResidue(u) {
		return &GraphError{Op: "add edge", Entity: "residue", ID: u, Cause: ErrEdgeUnknownNode}
	}
	if !g.HasResidue(v) {
		return &GraphError{Op: "add edge", Entity: "residue", ID: v, Cause: ErrEdgeUnknownNode}
	}
	g.adjacency[u][v] = struct{}{}
	g.adjacency[v][u] = struct{}{}
	return nil
}

// HasEdge reports whether u and v are adjacent.
func (g *ResidueGraph) HasEdge(u, v int) bool {
	_, ok := g.adjacency[u][v]
	return ok
}

// Neighbors returns the residues adjacent to id in ascending order.
func (g *ResidueGraph) Neighbors(id int) []int {
	out := make([]int, 0, len(g.adjacency[id]))
	for v := range g.adjacency[id] {
		out = append(out, v)
	}
	sort.Ints(out)
	return out
}

// Edges returns every edge once, as (u, v) with u < v, sorted. Resolution
// visits edges in this order, which fixes which candidate wins when several
// are viable.
func (g *ResidueGraph) Edges() [][2]int {
	var edges [][2]int
	for u, nbrs := range g.adjacency {
		for v := range nbrs {
			if u < v {
				edges = append(edges, [2]int{u, v})
			}
		}
	}
	sort.Slice(edges, func(i, j int) bool {
		if edges[i][0] != edges[j][0] {
			return edges[i][0] < edges[j][0]
		}
		return edges[i][1] < edges[j][1]
	})
	return edges
}

// EdgeNames returns the residue names at either end of an edge.
func (g *ResidueGraph) EdgeNames(u, v int) (string, string, error) {
	ru, err := g.Residue(u)
	if err != nil {
		return "", "", err
	}
	rv, err := g.Residue(v)
	if err != nil {
		return "", "", err
	}
	return ru.Name, rv.Name, nil
}

// Relabel renames nodes according to mapping. Nodes absent from the mapping
// keep their IDs. The mapping must not collapse two nodes onto one ID.
func (g *ResidueGraph) Relabel(mapping map[int]int) {
	newNodes := make(map[int]*Residue, len(g.nodes))
	newAdj := make(map[int]map[int]struct{}, len(g.adjacency))
	rename := func(id int) int {
		if to, ok := mapping[id]; ok {
			return to
		}
		return id
	}
	for id, r := range g.nodes {
		to := rename(id)
		r.ID = to
		newNodes[to] = r
	}
	for u, nbrs := range g.adjacency {
		nu := rename(u)
		newAdj[nu] = make(map[int]struct{}, len(nbrs))
		for v := range nbrs {
			newAdj[nu][rename(v)] = struct{}{}
		}
	}
	g.nodes = newNodes
	g.adjacency = newAdj
}

// RemoveResidue deletes a node and its incident edges.
func (g *ResidueGraph) RemoveResidue(id int) {
	for v := range g.adjacency[id] {
		delete(g.adjacency[v], id)
	}
	delete(g.adjacency, id)
	delete(g.nodes, id)
}

// Clone returns a deep copy of the residue graph.
func (g *ResidueGraph) Clone() *ResidueGraph {
	clone := NewResidueGraph()
	for id, r := range g.nodes {
		clone.nodes[id] = r.Clone()
		clone.adjacency[id] = make(map[int]struct{})
	}
	for u, nbrs := range g.adjacency {
		for v := range nbrs {
			clone.adjacency[u][v] = struct{}{}
		}
	}
	return clone
}

// Monomer is one run of identical residues in a linear chain description.
type Monomer struct {
	Name  string
	Count int
}

// LinearResidueGraph builds the residue graph of a linear chain from
// monomer runs: every residue is connected to its predecessor.
func LinearResidueGraph(monomers []Monomer) *ResidueGraph {
	g := NewResidueGraph()
	id := 0
	for _, mon := range monomers {
		for i := 0; i < mon.Count; i++ {
			g.AddResidue(&Residue{ID: id, Name: mon.Name})
			if id > 0 {
				_ = g.AddEdge(id-1, id)
			}
			id++
		}
	}
	return g
}
