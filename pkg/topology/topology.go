// Package topology ties molecule definitions together with the system-wide
// nonbonded parameter tables consumed by spatial assembly.
package topology

import (
	"github.com/mvassilev/molbuild/pkg/molecule"
)

// Combination rules for mixing unlike-pair nonbonded parameters.
const (
	CombRuleC6C12            = 1 // C6/C12 form, Lorentz-Berthelot after conversion
	CombRuleGeometric        = 2
	CombRuleLorentzBerthelot = 3
)

// Member is one molecule of the system: its residue graph plus the
// full-resolution atom graph built from it.
type Member struct {
	Name     string
	Residues *molecule.ResidueGraph
	Atoms    *molecule.Molecule

	// Count is how many copies of the molecule the system contains.
	// ExpandCounts turns a count into that many members; non-positive
	// counts mean one copy. AtomCount and TotalMass honor it either way.
	Count int
}

// Defaults mirrors the system-wide defaults directive.
type Defaults struct {
	CombRule int
	GenPairs bool
	FudgeLJ  float64
	FudgeQQ  float64
}

// AtomType holds the per-type nonbonded parameters: size (sigma or C6) and
// well depth (epsilon or C12) depending on the combination rule, plus the
// fallback mass.
type AtomType struct {
	Mass     float64
	Size     float64
	WellDeep float64
}

// PairKey identifies an unordered type pair.
type PairKey struct {
	A, B string
}

// PairKeyOf normalizes the pair ordering so (a, b) and (b, a) address the
// same table entry.
func PairKeyOf(a, b string) PairKey {
	if b < a {
		a, b = b, a
	}
	return PairKey{A: a, B: b}
}

// NonbondParam is the mixed size/well-depth entry for one type pair.
type NonbondParam struct {
	Size     float64
	WellDeep float64
}

// Topology owns the ordered molecule list and the global parameter tables.
type Topology struct {
	Name       string
	ForceField *molecule.ForceField
	Molecules  []*Member

	Defaults      Defaults
	Defines       map[string][]string
	AtomTypes     map[string]AtomType
	NonbondParams map[PairKey]NonbondParam
}

// New creates an empty topology for the given force field.
func New(name string, ff *molecule.ForceField) *Topology {
	return &Topology{
		Name:          name,
		ForceField:    ff,
		Defines:       make(map[string][]string),
		AtomTypes:     make(map[string]AtomType),
		NonbondParams: make(map[PairKey]NonbondParam),
	}
}

// AddMolecule appends a member to the system.
func (t *Topology) AddMolecule(m *Member) {
	t.Molecules = append(t.Molecules, m)
}

// ExpandCounts rewrites the member list so every declared copy is its own
// member with Count 1. Copies get their own residue and atom graphs, so
// later stages mutate them independently. Idempotent.
func (t *Topology) ExpandCounts() {
	expanded := make([]*Member, 0, len(t.Molecules))
	for _, m := range t.Molecules {
		n := memberCount(m)
		m.Count = 1
		expanded = append(expanded, m)
		for i := 1; i < n; i++ {
			dup := &Member{Name: m.Name, Count: 1}
			if m.Residues != nil {
				dup.Residues = m.Residues.Clone()
			}
			if m.Atoms != nil {
				dup.Atoms = m.Atoms.Clone()
			}
			expanded = append(expanded, dup)
		}
	}
	t.Molecules = expanded
}

func memberCount(m *Member) int {
	if m.Count <= 0 {
		return 1
	}
	return m.Count
}

// AtomCount returns the number of atoms across all molecules, declared
// copies included.
func (t *Topology) AtomCount() int {
	n := 0
	for _, m := range t.Molecules {
		n += memberCount(m) * m.Atoms.AtomCount()
	}
	return n
}

// TotalMass sums the atom masses of the system, declared copies included.
// Atoms without an explicit mass fall back to their residue type's mass
// from the atom-type table.
func (t *Topology) TotalMass() float64 {
	total := 0.0
	for _, m := range t.Molecules {
		sub := 0.0
		for _, id := range m.Atoms.Atoms() {
			a, _ := m.Atoms.Atom(id)
			if a.HasMass {
				sub += a.Mass
				continue
			}
			sub += t.AtomTypes[a.ResidueName].Mass
		}
		total += float64(memberCount(m)) * sub
	}
	return total
}
