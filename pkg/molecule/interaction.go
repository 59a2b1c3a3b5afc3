package molecule

// InteractionKind names a class of bonded terms. The names follow the
// conventional topology directive spelling.
type InteractionKind string

const (
	KindBond              InteractionKind = "bonds"
	KindAngle             InteractionKind = "angles"
	KindDihedral          InteractionKind = "dihedrals"
	KindConstraint        InteractionKind = "constraints"
	KindPair              InteractionKind = "pairs"
	KindExclusion         InteractionKind = "exclusions"
	KindPositionRestraint InteractionKind = "position_restraints"
	KindDistanceRestraint InteractionKind = "distance_restraints"
	KindVirtualSite       InteractionKind = "virtual_sitesn"
)

// DeferredFunc computes a parameter from the fully matched atom graph. The
// mapping translates template atom indices to concrete atom IDs.
type DeferredFunc func(mol *Molecule, mapping map[int]int) (string, error)

// Parameter is either a literal value or a computation deferred until a link
// template has been matched onto concrete atoms.
type Parameter struct {
	value string
	fn    DeferredFunc
}

func LiteralParameter(v string) Parameter {
	return Parameter{value: v}
}

func DeferredParameter(fn DeferredFunc) Parameter {
	return Parameter{fn: fn}
}

// IsDeferred reports whether the parameter still needs evaluation.
func (p Parameter) IsDeferred() bool {
	return p.fn != nil
}

// Resolve evaluates the parameter against the final match. Literal
// parameters return their value unchanged.
func (p Parameter) Resolve(mol *Molecule, mapping map[int]int) (string, error) {
	if p.fn == nil {
		return p.value, nil
	}
	return p.fn(mol, mapping)
}

// Value returns the literal payload. Deferred parameters have no literal
// payload until resolved.
func (p Parameter) Value() string {
	return p.value
}

// Interaction is one bonded term: a kind, an ordered atom tuple and the
// parameters of the term. Meta carries conditional build flags such as
// "ifdef".
type Interaction struct {
	Kind       InteractionKind
	Atoms      []int
	Parameters []Parameter
	Meta       map[string]string
}

// SameAtoms reports whether two interactions address the same ordered atom
// tuple.
func (in Interaction) SameAtoms(other Interaction) bool {
	if len(in.Atoms) != len(other.Atoms) {
		return false
	}
	for i, a := range in.Atoms {
		if a != other.Atoms[i] {
			return false
		}
	}
	return true
}

// Clone returns a copy with its own atom and parameter slices.
func (in Interaction) Clone() Interaction {
	clone := Interaction{
		Kind:       in.Kind,
		Atoms:      make([]int, len(in.Atoms)),
		Parameters: make([]Parameter, len(in.Parameters)),
	}
	copy(clone.Atoms, in.Atoms)
	copy(clone.Parameters, in.Parameters)
	if in.Meta != nil {
		clone.Meta = make(map[string]string, len(in.Meta))
		for k, v := range in.Meta {
			clone.Meta[k] = v
		}
	}
	return clone
}

// InteractionSet stores interactions grouped by kind, preserving append
// order within a kind and first-seen order across kinds.
type InteractionSet struct {
	byKind map[InteractionKind][]Interaction
	kinds  []InteractionKind
}

// Add appends an interaction to its kind's list.
func (s *InteractionSet) Add(in Interaction) {
	if s.byKind == nil {
		s.byKind = make(map[InteractionKind][]Interaction)
	}
	if _, ok := s.byKind[in.Kind]; !ok {
		s.kinds = append(s.kinds, in.Kind)
	}
	s.byKind[in.Kind] = append(s.byKind[in.Kind], in)
}

// AddOrReplace appends the interaction unless one of the same kind with the
// same atom tuple already exists, in which case it is replaced in place.
func (s *InteractionSet) AddOrReplace(in Interaction) {
	for i, existing := range s.byKind[in.Kind] {
		if existing.SameAtoms(in) {
			s.byKind[in.Kind][i] = in
			return
		}
	}
	s.Add(in)
}

// Kinds returns the interaction kinds in first-seen order.
func (s *InteractionSet) Kinds() []InteractionKind {
	out := make([]InteractionKind, len(s.kinds))
	copy(out, s.kinds)
	return out
}

// Of returns the interactions of a kind in append order.
func (s *InteractionSet) Of(kind InteractionKind) []Interaction {
	return s.byKind[kind]
}

// Len returns the total number of interactions across all kinds.
func (s *InteractionSet) Len() int {
	n := 0
	for _, list := range s.byKind {
		n += len(list)
	}
	return n
}

// Clone returns a deep copy of the set.
func (s *InteractionSet) Clone() InteractionSet {
	var clone InteractionSet
	for _, kind := range s.kinds {
		for _, in := range s.byKind[kind] {
			clone.Add(in.Clone())
		}
	}
	return clone
}
