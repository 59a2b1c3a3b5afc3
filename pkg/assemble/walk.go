package assemble

import (
	"github.com/mvassilev/molbuild/pkg/molecule"
)

// walk grows one molecule atom by atom from the start point. Every proposal
// must stay inside the box and respect the minimum-distance table against
// everything placed so far, this molecule included. Nothing is committed
// unless the whole molecule fits.
func (s *state) walk(molIdx int, start molecule.Vec3) bool {
	indices := s.molAtoms[molIdx]
	tentative := make(map[int]molecule.Vec3, len(indices))

	var prev molecule.Vec3
	havePrev := false

	for _, idx := range indices {
		if s.placed[idx] {
			// pre-seeded atom anchors the walk
			prev = s.positions[idx]
			havePrev = true
			continue
		}

		found := false
		for try := 0; try < s.retries; try++ {
			var pos molecule.Vec3
			if havePrev {
				pos = prev.Add(s.randomUnitVector().Scale(s.step))
			} else {
				pos = start
			}
			if !s.inBox(pos) {
				continue
			}
			if s.collides(idx, pos, tentative) {
				continue
			}
			tentative[idx] = pos
			prev = pos
			havePrev = true
			found = true
			break
		}
		if !found {
			return false
		}
	}

	for idx, pos := range tentative {
		s.positions[idx] = pos
		s.placed[idx] = true
	}
	return true
}

// collides reports whether pos violates the minimum-distance constraint
// against any committed or tentative atom, or duplicates a position
// exactly.
func (s *state) collides(idx int, pos molecule.Vec3, tentative map[int]molecule.Vec3) bool {
	kind := s.types[idx]
	for other, placed := range s.placed {
		if !placed {
			continue
		}
		d := pos.Distance(s.positions[other])
		if d == 0 || d < s.minDistance(kind, s.types[other]) {
			return true
		}
	}
	for other, tpos := range tentative {
		d := pos.Distance(tpos)
		if d == 0 || d < s.minDistance(kind, s.types[other]) {
			return true
		}
	}
	return false
}

// randomUnitVector samples a direction uniformly on the unit sphere.
func (s *state) randomUnitVector() molecule.Vec3 {
	for {
		v := molecule.Vec3{
			s.rng.NormFloat64(),
			s.rng.NormFloat64(),
			s.rng.NormFloat64(),
		}
		if l := v.Length(); l > 1e-12 {
			return v.Scale(1 / l)
		}
	}
}
