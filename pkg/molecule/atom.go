package molecule

// Canonical attribute keys understood by attribute queries. Link pattern
// nodes address atoms through these keys; KeyOrder and KeyChargeGroup are
// bookkeeping attributes that queries ignore during matching.
const (
	KeyAtomName    = "atomname"
	KeyResidueID   = "resid"
	KeyResidueName = "resname"
	KeyChargeGroup = "charge_group"
	KeyMass        = "mass"
	KeyOrder       = "order"
)

// Atom is a node of the full-resolution atom graph. Residue IDs are
// zero-based and equal the owning residue-graph node ID.
type Atom struct {
	ID          int
	Name        string
	ResidueID   int
	ResidueName string
	ChargeGroup int

	Mass    float64
	HasMass bool

	Position       Vec3
	HasPosition    bool
	NeedsPlacement bool

	// Extra holds non-canonical attributes a template may carry; they
	// participate in attribute matching like any other key.
	Extra map[string]Value
}

// Attribute exposes the atom's attributes under their canonical keys.
// Unknown keys fall through to Extra.
func (a *Atom) Attribute(key string) (Value, bool) {
	switch key {
	case KeyAtomName:
		return StringValue(a.Name), true
	case KeyResidueID:
		return IntValue(a.ResidueID), true
	case KeyResidueName:
		return StringValue(a.ResidueName), true
	case KeyChargeGroup:
		return IntValue(a.ChargeGroup), true
	case KeyMass:
		if !a.HasMass {
			return Value{}, false
		}
		return FloatValue(a.Mass), true
	}
	v, ok := a.Extra[key]
	return v, ok
}

// Clone returns a deep copy of the atom.
func (a *Atom) Clone() *Atom {
	clone := *a
	if a.Extra != nil {
		clone.Extra = make(map[string]Value, len(a.Extra))
		for k, v := range a.Extra {
			clone.Extra[k] = v
		}
	}
	return &clone
}
