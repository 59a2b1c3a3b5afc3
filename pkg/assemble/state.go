package assemble

import (
	"math/rand"

	"github.com/mvassilev/molbuild/pkg/molecule"
	"github.com/mvassilev/molbuild/pkg/topology"
)

// state is the owned placement state threaded through the loop: box
// dimensions, start grid, flattened position table and the per-type-pair
// minimum-distance table.
type state struct {
	box  molecule.Vec3
	grid []float64

	positions []molecule.Vec3
	placed    []bool
	types     []string

	// molAtoms maps molecule index to its atoms' global indices, in atom
	// order.
	molAtoms [][]int

	minDist map[topology.PairKey]float64
	step    float64
	retries int
	nGrid   int

	rng *rand.Rand
}

func newState(top *topology.Topology, boxEdge float64, opts Options) *state {
	s := &state{
		box:     molecule.Vec3{boxEdge, boxEdge, boxEdge},
		minDist: minDistanceTable(top),
		step:    opts.StepLength,
		retries: opts.WalkRetries,
		nGrid:   opts.GridPoints,
		rng:     rand.New(rand.NewSource(opts.Seed)),
	}
	s.rebuildGrid()

	for _, m := range top.Molecules {
		ids := m.Atoms.Atoms()
		indices := make([]int, 0, len(ids))
		for _, id := range ids {
			a, _ := m.Atoms.Atom(id)
			idx := len(s.positions)
			if a.HasPosition && !a.NeedsPlacement {
				s.positions = append(s.positions, a.Position)
				s.placed = append(s.placed, true)
			} else {
				s.positions = append(s.positions, molecule.Vec3{})
				s.placed = append(s.placed, false)
			}
			s.types = append(s.types, a.ResidueName)
			indices = append(indices, idx)
		}
		s.molAtoms = append(s.molAtoms, indices)
	}
	return s
}

// minDistanceTable derives the symmetric minimum-allowed-distance table
// from the topology's nonbonded parameters, falling back to mixing the raw
// atom types by the declared combination rule. Self pairs are always
// included.
func minDistanceTable(top *topology.Topology) map[topology.PairKey]float64 {
	table := make(map[topology.PairKey]float64)
	for key, p := range top.NonbondParams {
		table[key] = p.Size
	}

	rule := top.Defaults.CombRule
	if rule == 0 {
		rule = topology.CombRuleLorentzBerthelot
	}
	names := make([]string, 0, len(top.AtomTypes))
	for name := range top.AtomTypes {
		names = append(names, name)
	}
	for i, a := range names {
		for _, b := range names[i:] {
			key := topology.PairKeyOf(a, b)
			if _, ok := table[key]; ok {
				continue
			}
			mixed, err := topology.Mix(rule, top.AtomTypes[a], top.AtomTypes[b])
			if err != nil {
				continue
			}
			table[key] = mixed.Size
		}
	}
	return table
}

func (s *state) rebuildGrid() {
	spacing := s.box[0] / float64(s.nGrid)
	s.grid = s.grid[:0]
	for x := 0.0; x < s.box[0]; x += spacing {
		s.grid = append(s.grid, x)
	}
}

func (s *state) randomGridPoint() molecule.Vec3 {
	return molecule.Vec3{
		s.grid[s.rng.Intn(len(s.grid))],
		s.grid[s.rng.Intn(len(s.grid))],
		s.grid[s.rng.Intn(len(s.grid))],
	}
}

func (s *state) moleculePlaced(molIdx int) bool {
	for _, idx := range s.molAtoms[molIdx] {
		if !s.placed[idx] {
			return false
		}
	}
	return true
}

func (s *state) inBox(p molecule.Vec3) bool {
	for c := 0; c < 3; c++ {
		if p[c] < 0 || p[c] > s.box[c] {
			return false
		}
	}
	return true
}

// minDistance returns the minimum allowed distance between two atom types.
// Unknown pairs have no constraint.
func (s *state) minDistance(a, b string) float64 {
	return s.minDist[topology.PairKeyOf(a, b)]
}

// rescale grows the box and pushes every placed molecule outward along the
// direction of its first atom, relieving crowding before a retry.
func (s *state) rescale(factor float64) {
	s.box = s.box.Scale(factor)
	s.rebuildGrid()

	for _, indices := range s.molAtoms {
		if len(indices) == 0 || !s.placed[indices[0]] {
			continue
		}
		shift := s.positions[indices[0]].Unit().Scale(factor)
		for _, idx := range indices {
			if s.placed[idx] {
				s.positions[idx] = s.positions[idx].Add(shift)
			}
		}
	}
}

// writeBack commits the position table into the topology's atoms.
func (s *state) writeBack(top *topology.Topology) {
	for molIdx, m := range top.Molecules {
		for i, id := range m.Atoms.Atoms() {
			idx := s.molAtoms[molIdx][i]
			if !s.placed[idx] {
				continue
			}
			a, _ := m.Atoms.Atom(id)
			a.Position = s.positions[idx]
			a.HasPosition = true
			a.NeedsPlacement = false
		}
	}
}
