package molecule

import "sort"

// Molecule is the full-resolution atom graph of one molecule: atoms keyed by
// stable integer ID, an undirected bond adjacency, and the bonded
// interactions grouped by kind.
type Molecule struct {
	Name string

	atoms     map[int]*Atom
	adjacency map[int]map[int]struct{}
	inter     InteractionSet
	nextID    int
}

// NewMolecule creates an empty molecule.
func NewMolecule(name string) *Molecule {
	return &Molecule{
		Name:      name,
		atoms:     make(map[int]*Atom),
		adjacency: make(map[int]map[int]struct{}),
	}
}

// AddAtom inserts the atom under the next free ID and returns that ID.
func (m *Molecule) AddAtom(a *Atom) int {
	id := m.nextID
	m.nextID++
	a.ID = id
	m.atoms[id] = a
	m.adjacency[id] = make(map[int]struct{})
	return id
}

// Atom returns the atom with the given ID.
func (m *Molecule) Atom(id int) (*Atom, error) {
	a, ok := m.atoms[id]
	if !ok {
		return nil, AtomNotFoundError("get", id)
	}
	return a, nil
}

// HasAtom reports whether an atom with the given ID exists.
func (m *Molecule) HasAtom(id int) bool {
	_, ok := m.atoms[id]
	return ok
}

// AtomCount returns the number of atoms.
func (m *Molecule) AtomCount() int {
	return len(m.atoms)
}

// Atoms returns all atom IDs in ascending order.
func (m *Molecule) Atoms() []int {
	ids := make([]int, 0, len(m.atoms))
	for id := range m.atoms {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}

// AddEdge inserts an undirected bond edge. Self loops are ignored.
func (m *Molecule) AddEdge(u, v int) error {
	if u == v {
		return nil
	}
	if !m.HasAtom(u) {
		return AtomNotFoundError("add edge", u)
	}
	if !m.HasAtom(v) {
		return AtomNotFoundError("add edge", v)
	}
	m.adjacency[u][v] = struct{}{}
	m.adjacency[v][u] = struct{}{}
	return nil
}

// HasEdge reports whether a bond edge exists between u and v.
func (m *Molecule) HasEdge(u, v int) bool {
	_, ok := m.adjacency[u][v]
	return ok
}

// Neighbors returns the bonded neighbors of an atom in ascending order.
func (m *Molecule) Neighbors(id int) []int {
	out := make([]int, 0, len(m.adjacency[id]))
	for v := range m.adjacency[id] {
		out = append(out, v)
	}
	sort.Ints(out)
	return out
}

// Edges returns every bond edge once, as (u, v) with u < v, sorted.
func (m *Molecule) Edges() [][2]int {
	var edges [][2]int
	for u, nbrs := range m.adjacency {
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

// AddInteraction appends a bonded term.
func (m *Molecule) AddInteraction(in Interaction) {
	m.inter.Add(in)
}

// AddOrReplaceInteraction appends a bonded term, replacing an existing one
// of the same kind over the same atom tuple. Re-applying a link to the same
// atoms is therefore a no-op rather than a duplicate.
func (m *Molecule) AddOrReplaceInteraction(in Interaction) {
	m.inter.AddOrReplace(in)
}

// Interactions returns the terms of a kind in append order.
func (m *Molecule) Interactions(kind InteractionKind) []Interaction {
	return m.inter.Of(kind)
}

// InteractionKinds returns the kinds present in first-seen order.
func (m *Molecule) InteractionKinds() []InteractionKind {
	return m.inter.Kinds()
}

// InteractionCount returns the total number of bonded terms.
func (m *Molecule) InteractionCount() int {
	return m.inter.Len()
}

// EdgesFromInteractions materializes the interactions of a kind as plain
// bond edges between consecutive atoms of each tuple.
func (m *Molecule) EdgesFromInteractions(kind InteractionKind) {
	for _, in := range m.inter.Of(kind) {
		for i := 0; i+1 < len(in.Atoms); i++ {
			// atoms referenced by templates always exist
			_ = m.AddEdge(in.Atoms[i], in.Atoms[i+1])
		}
	}
}

// FindAtoms returns the IDs of all atoms whose attribute under key equals
// value, in ascending ID order.
func (m *Molecule) FindAtoms(key string, value Value) []int {
	var out []int
	for _, id := range m.Atoms() {
		if v, ok := m.atoms[id].Attribute(key); ok && v.Equal(value) {
			out = append(out, id)
		}
	}
	return out
}

// MaxResidueID returns the highest residue ID present, or -1 for an empty
// molecule.
func (m *Molecule) MaxResidueID() int {
	max := -1
	for _, a := range m.atoms {
		if a.ResidueID > max {
			max = a.ResidueID
		}
	}
	return max
}

// ResidueAtoms returns the IDs of all atoms belonging to a residue, in
// ascending order.
func (m *Molecule) ResidueAtoms(resid int) []int {
	return m.FindAtoms(KeyResidueID, IntValue(resid))
}

// Merge appends a copy of other to the molecule. Atom IDs are shifted past
// the current ID space and residue IDs continue after the current maximum.
// The returned mapping translates other's atom IDs to the new IDs.
func (m *Molecule) Merge(other *Molecule) map[int]int {
	residOffset := m.MaxResidueID() + 1
	mapping := make(map[int]int, other.AtomCount())
	for _, id := range other.Atoms() {
		clone := other.atoms[id].Clone()
		clone.ResidueID += residOffset
		mapping[id] = m.AddAtom(clone)
	}
	for _, e := range other.Edges() {
		_ = m.AddEdge(mapping[e[0]], mapping[e[1]])
	}
	for _, kind := range other.inter.Kinds() {
		for _, in := range other.inter.Of(kind) {
			clone := in.Clone()
			for i, a := range clone.Atoms {
				clone.Atoms[i] = mapping[a]
			}
			m.inter.Add(clone)
		}
	}
	return mapping
}

// Clone returns a deep copy of the molecule.
func (m *Molecule) Clone() *Molecule {
	clone := NewMolecule(m.Name)
	clone.nextID = m.nextID
	for id, a := range m.atoms {
		clone.atoms[id] = a.Clone()
		clone.adjacency[id] = make(map[int]struct{})
	}
	for u, nbrs := range m.adjacency {
		for v := range nbrs {
			clone.adjacency[u][v] = struct{}{}
		}
	}
	clone.inter = m.inter.Clone()
	return clone
}
