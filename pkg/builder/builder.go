// Package builder orchestrates the three-stage pipeline: residue expansion,
// link resolution and spatial assembly.
package builder

import (
	"context"
	"fmt"
	"runtime"

	"github.com/google/uuid"

	"github.com/mvassilev/molbuild/pkg/assemble"
	"github.com/mvassilev/molbuild/pkg/config"
	"github.com/mvassilev/molbuild/pkg/expand"
	"github.com/mvassilev/molbuild/pkg/links"
	"github.com/mvassilev/molbuild/pkg/logging"
	"github.com/mvassilev/molbuild/pkg/metrics"
	"github.com/mvassilev/molbuild/pkg/molecule"
	"github.com/mvassilev/molbuild/pkg/parallel"
	"github.com/mvassilev/molbuild/pkg/topology"
)

// Options configures a Builder. Zero values fall back to defaults: the
// default build config, a no-op logger, no metrics.
type Options struct {
	Config  config.BuildConfig
	Logger  logging.Logger
	Metrics *metrics.Registry
}

// Builder drives a topology through the pipeline. Each stage is also
// callable on its own; Build runs all of them in order.
type Builder struct {
	top     *topology.Topology
	cfg     config.BuildConfig
	log     logging.Logger
	metrics *metrics.Registry
	runID   string
}

// New creates a builder for the topology.
func New(top *topology.Topology, opts Options) *Builder {
	cfg := opts.Config
	if cfg == (config.BuildConfig{}) {
		cfg = config.Default()
	}
	var log logging.Logger = logging.NopLogger{}
	if opts.Logger != nil {
		log = opts.Logger
	}
	runID := uuid.NewString()
	return &Builder{
		top:     top,
		cfg:     cfg,
		log:     log.With(logging.F("run_id", runID)),
		metrics: opts.Metrics,
		runID:   runID,
	}
}

// RunID identifies this builder's pipeline run in logs.
func (b *Builder) RunID() string {
	return b.runID
}

// Build expands every molecule, resolves links, applies explicit links and
// assembles the system. The topology is mutated in place.
func (b *Builder) Build(ctx context.Context) error {
	// declared copies become members of their own before any stage runs
	b.top.ExpandCounts()

	// members are independent until link resolution, so expansion fans out
	workers := runtime.GOMAXPROCS(0)
	err := parallel.ForEach(ctx, workers, len(b.top.Molecules), func(i int) error {
		if err := b.ExpandMolecule(b.top.Molecules[i]); err != nil {
			return fmt.Errorf("expand molecule %d: %w", i, err)
		}
		return nil
	})
	if err != nil {
		return err
	}
	for i, m := range b.top.Molecules {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := b.ResolveLinks(m); err != nil {
			return fmt.Errorf("resolve links for molecule %d: %w", i, err)
		}
	}
	// explicit links run once, after all per-edge resolution has finished
	for i, m := range b.top.Molecules {
		if err := links.ApplyExplicitLinks(m.Atoms, b.top.ForceField); err != nil {
			return fmt.Errorf("apply explicit links to molecule %d: %w", i, err)
		}
	}
	if b.metrics != nil {
		for _, link := range b.top.ForceField.Links() {
			if link.Explicit {
				b.metrics.ExplicitLinksApplied.Inc()
			}
		}
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	return b.Assemble()
}

// ExpandMolecule builds the member's atom graph from its residue graph,
// splitting multi-residue blocks. Idempotent per call: expanding an already
// expanded member rebuilds its atom graph from the current residue graph.
func (b *Builder) ExpandMolecule(m *topology.Member) error {
	mol, err := expand.Build(m.Residues, b.top.ForceField)
	if err != nil {
		return err
	}
	mol.Name = m.Name
	m.Atoms = mol
	if b.metrics != nil {
		b.metrics.ExpansionsTotal.Inc()
		b.metrics.ResiduesExpanded.Add(float64(m.Residues.NodeCount()))
	}
	b.log.Debug("expanded molecule",
		logging.F("molecule", m.Name),
		logging.F("residues", m.Residues.NodeCount()),
		logging.F("atoms", mol.AtomCount()))
	return nil
}

// ResolveLinks runs per-edge link resolution over one member's residue
// graph. Failed candidates are skipped; structural errors abort.
func (b *Builder) ResolveLinks(m *topology.Member) error {
	before := m.Atoms.InteractionCount()
	hooks := links.ResolveHooks{
		Candidates: func(n int) {
			if b.metrics != nil {
				b.metrics.LinkCandidatesTotal.Add(float64(n))
			}
		},
		Applied: func(link *molecule.Link) {
			if b.metrics == nil {
				return
			}
			for _, kind := range link.InteractionKinds() {
				b.metrics.LinksAppliedTotal.
					WithLabelValues(string(kind)).
					Add(float64(len(link.Interactions(kind))))
			}
		},
		Skipped: func(link *molecule.Link, err error) {
			if b.metrics != nil {
				b.metrics.MatchFailuresTotal.Inc()
			}
			b.log.Debug("skipping link candidate",
				logging.F("molecule", m.Name),
				logging.F("link", link.Name),
				logging.F("reason", err.Error()))
		},
	}
	if err := links.ResolveMoleculeWithHooks(m.Residues, m.Atoms, b.top.ForceField, hooks); err != nil {
		return err
	}
	b.log.Debug("resolved links",
		logging.F("molecule", m.Name),
		logging.F("interactions_added", m.Atoms.InteractionCount()-before))
	return nil
}

// Assemble places the whole system.
func (b *Builder) Assemble() error {
	opts := assemble.Options{
		Density:       b.cfg.Density,
		BoxSize:       b.cfg.BoxSize,
		GridPoints:    b.cfg.GridPoints,
		StartAttempts: b.cfg.StartAttempts,
		WalkRetries:   b.cfg.WalkRetries,
		MaxRescales:   b.cfg.MaxRescales,
		StepLength:    b.cfg.StepLength,
		GrowthFactor:  b.cfg.GrowthFactor,
		Seed:          b.cfg.Seed,
		Logger:        b.log,
		Metrics:       b.metrics,
	}
	return assemble.Assemble(b.top, opts)
}
