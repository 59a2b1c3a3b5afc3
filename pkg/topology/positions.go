package topology

import (
	"github.com/mvassilev/molbuild/pkg/molecule"
)

// AddPositions pre-seeds atom positions from an externally supplied
// coordinate list, consumed in global atom order. Atoms beyond the supplied
// prefix are flagged as needing placement; those are exactly the atoms the
// assembler fills in. Residues whose atoms are all seeded get their
// center-of-geometry position.
func (t *Topology) AddPositions(coords []molecule.Vec3) {
	total := 0
	for _, m := range t.Molecules {
		for _, id := range m.Atoms.Atoms() {
			a, _ := m.Atoms.Atom(id)
			if total < len(coords) {
				a.Position = coords[total]
				a.HasPosition = true
				a.NeedsPlacement = false
				total++
			} else {
				a.HasPosition = false
				a.NeedsPlacement = true
			}
		}
		setResidueCenters(m)
	}
}

// setResidueCenters fills residue-node positions for the leading run of
// fully placed residues.
func setResidueCenters(m *Member) {
	for _, rid := range m.Residues.Residues() {
		atoms := m.Atoms.ResidueAtoms(rid)
		if len(atoms) == 0 {
			continue
		}
		points := make([]molecule.Vec3, 0, len(atoms))
		complete := true
		for _, id := range atoms {
			a, _ := m.Atoms.Atom(id)
			if !a.HasPosition {
				complete = false
				break
			}
			points = append(points, a.Position)
		}
		if !complete {
			break
		}
		r, err := m.Residues.Residue(rid)
		if err != nil {
			continue
		}
		r.Position = molecule.CenterOfGeometry(points)
		r.HasPosition = true
	}
}

// RefreshResidueCenters recomputes every residue-node position from its
// member atoms. Called after assembly, when all atoms have positions.
func (t *Topology) RefreshResidueCenters() {
	for _, m := range t.Molecules {
		for _, rid := range m.Residues.Residues() {
			atoms := m.Atoms.ResidueAtoms(rid)
			points := make([]molecule.Vec3, 0, len(atoms))
			for _, id := range atoms {
				a, _ := m.Atoms.Atom(id)
				if a.HasPosition {
					points = append(points, a.Position)
				}
			}
			if len(points) == 0 {
				continue
			}
			r, err := m.Residues.Residue(rid)
			if err != nil {
				continue
			}
			r.Position = molecule.CenterOfGeometry(points)
			r.HasPosition = true
		}
	}
}
