// Package assemble places every atom of a system into a box at a target
// density using self-avoiding randomized growth with adaptive box
// rescaling.
package assemble

import (
	"fmt"
	"math"
	"time"

	"github.com/mvassilev/molbuild/pkg/logging"
	"github.com/mvassilev/molbuild/pkg/metrics"
	"github.com/mvassilev/molbuild/pkg/topology"
)

// amu/nm^3 to kg/cm^3, folded into one constant.
const massConversion = 1.6605410

// Options configures whole-system placement.
type Options struct {
	// Density is the target density in kg/cm^3.
	Density float64

	// BoxSize presets the cubic box edge in nm. Zero derives the edge
	// from system mass and density, inflated by 20%.
	BoxSize float64

	// GridPoints is the resolution of the start-coordinate grid per axis.
	GridPoints int

	// StartAttempts bounds the random starts tried for one molecule
	// before the box is rescaled.
	StartAttempts int

	// WalkRetries bounds the local position proposals per atom.
	WalkRetries int

	// MaxRescales is the hard system-level cap on rescale rounds.
	// Exceeding it fails the whole build.
	MaxRescales int

	// StepLength is the distance between consecutive atoms of a walk,
	// in nm.
	StepLength float64

	// GrowthFactor scales the box edge on every rescale.
	GrowthFactor float64

	// Seed fixes the random source for reproducible placement.
	Seed int64

	Logger  logging.Logger
	Metrics *metrics.Registry
}

// DefaultOptions returns the reference placement parameters.
func DefaultOptions() Options {
	return Options{
		Density:       1.0,
		GridPoints:    250,
		StartAttempts: 80,
		WalkRetries:   50,
		MaxRescales:   64,
		StepLength:    0.47,
		GrowthFactor:  1.1,
		Seed:          1,
	}
}

func (o *Options) withDefaults() Options {
	opts := *o
	def := DefaultOptions()
	if opts.GridPoints <= 0 {
		opts.GridPoints = def.GridPoints
	}
	if opts.StartAttempts <= 0 {
		opts.StartAttempts = def.StartAttempts
	}
	if opts.WalkRetries <= 0 {
		opts.WalkRetries = def.WalkRetries
	}
	if opts.MaxRescales <= 0 {
		opts.MaxRescales = def.MaxRescales
	}
	if opts.StepLength <= 0 {
		opts.StepLength = def.StepLength
	}
	if opts.GrowthFactor <= 1 {
		opts.GrowthFactor = def.GrowthFactor
	}
	if opts.Logger == nil {
		opts.Logger = logging.NopLogger{}
	}
	return opts
}

// PlacementError reports that the rescale/retry budget ran out before every
// molecule was placed.
type PlacementError struct {
	Molecule int
	Rescales int
}

func (e *PlacementError) Error() string {
	return fmt.Sprintf("placement exhausted after %d rescale rounds at molecule %d",
		e.Rescales, e.Molecule)
}

// computeBoxEdge derives the cubic box edge from total system mass and the
// target density.
func computeBoxEdge(top *topology.Topology, density float64) (float64, error) {
	if density <= 0 {
		return 0, fmt.Errorf("density must be positive, got %g", density)
	}
	mass := top.TotalMass()
	if mass <= 0 {
		return 0, fmt.Errorf("system has no mass; atom masses or atom types are missing")
	}
	return math.Cbrt(mass * massConversion / density), nil
}

// Assemble places every atom of the system that still needs a position.
// Declared member counts are expanded first, so every copy is placed on its
// own. Molecules are processed strictly in system order; each walk sees the
// cumulative occupancy of everything placed before it. On a failed walk the
// box grows and already-placed molecules are pushed outward before the same
// molecule is retried. The topology's atom positions and residue centers
// are written back on success.
func Assemble(top *topology.Topology, opts Options) error {
	opts = opts.withDefaults()
	log := opts.Logger
	started := time.Now()

	// declared copies must be placed individually
	top.ExpandCounts()

	boxEdge := opts.BoxSize
	if boxEdge == 0 {
		edge, err := computeBoxEdge(top, opts.Density)
		if err != nil {
			return err
		}
		boxEdge = 1.2 * edge
	}

	s := newState(top, boxEdge, opts)
	log.Info("starting placement",
		logging.F("molecules", len(top.Molecules)),
		logging.F("atoms", top.AtomCount()),
		logging.F("box_edge", boxEdge))
	if opts.Metrics != nil {
		opts.Metrics.BoxEdgeLength.Set(boxEdge)
	}

	rescales := 0
	molIdx := 0
	for molIdx < len(top.Molecules) {
		if s.moleculePlaced(molIdx) {
			molIdx++
			if opts.Metrics != nil {
				opts.Metrics.MoleculesPlaced.Set(float64(molIdx))
			}
			continue
		}

		placed := false
		for try := 0; try < opts.StartAttempts; try++ {
			if opts.Metrics != nil {
				opts.Metrics.PlacementWalksTotal.Inc()
			}
			if s.walk(molIdx, s.randomGridPoint()) {
				placed = true
				break
			}
		}
		if placed {
			continue
		}

		rescales++
		if rescales > opts.MaxRescales {
			return &PlacementError{Molecule: molIdx, Rescales: rescales}
		}
		s.rescale(opts.GrowthFactor)
		log.Info("rescaling box",
			logging.F("molecule", molIdx),
			logging.F("round", rescales),
			logging.F("box_edge", s.box[0]))
		if opts.Metrics != nil {
			opts.Metrics.RescaleRoundsTotal.Inc()
			opts.Metrics.BoxEdgeLength.Set(s.box[0])
		}
	}

	s.writeBack(top)
	top.RefreshResidueCenters()

	if opts.Metrics != nil {
		opts.Metrics.ObservePlacement(time.Since(started))
	}
	log.Info("placement finished",
		logging.F("rescales", rescales),
		logging.F("box_edge", s.box[0]),
		logging.F("elapsed", time.Since(started).String()))
	return nil
}
