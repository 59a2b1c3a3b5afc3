// Package metrics exposes prometheus instrumentation for the assembly
// pipeline.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	dto "github.com/prometheus/client_model/go"
)

// Registry holds all pipeline metrics.
type Registry struct {
	registry *prometheus.Registry

	// Expansion
	ExpansionsTotal  prometheus.Counter
	ResiduesExpanded prometheus.Counter

	// Link resolution
	LinkCandidatesTotal  prometheus.Counter
	LinksAppliedTotal    *prometheus.CounterVec
	MatchFailuresTotal   prometheus.Counter
	ExplicitLinksApplied prometheus.Counter

	// Placement
	PlacementWalksTotal prometheus.Counter
	RescaleRoundsTotal  prometheus.Counter
	PlacementDuration   prometheus.Histogram
	BoxEdgeLength       prometheus.Gauge
	MoleculesPlaced     prometheus.Gauge
}

// NewRegistry creates a registry with all collectors registered.
func NewRegistry() *Registry {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Registry{
		registry: reg,
		ExpansionsTotal: factory.NewCounter(prometheus.CounterOpts{
			Name: "molbuild_expansions_total",
			Help: "Molecules expanded from residue graphs",
		}),
		ResiduesExpanded: factory.NewCounter(prometheus.CounterOpts{
			Name: "molbuild_residues_expanded_total",
			Help: "Residues expanded into block templates",
		}),
		LinkCandidatesTotal: factory.NewCounter(prometheus.CounterOpts{
			Name: "molbuild_link_candidates_total",
			Help: "Link candidates enumerated across residue-graph edges",
		}),
		LinksAppliedTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "molbuild_links_applied_total",
			Help: "Link templates applied, by interaction kind",
		}, []string{"kind"}),
		MatchFailuresTotal: factory.NewCounter(prometheus.CounterOpts{
			Name: "molbuild_match_failures_total",
			Help: "Link candidates abandoned after a match failure",
		}),
		ExplicitLinksApplied: factory.NewCounter(prometheus.CounterOpts{
			Name: "molbuild_explicit_links_applied_total",
			Help: "Explicit links applied",
		}),
		PlacementWalksTotal: factory.NewCounter(prometheus.CounterOpts{
			Name: "molbuild_placement_walks_total",
			Help: "Random-walk placement attempts",
		}),
		RescaleRoundsTotal: factory.NewCounter(prometheus.CounterOpts{
			Name: "molbuild_rescale_rounds_total",
			Help: "Box rescale rounds during placement",
		}),
		PlacementDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "molbuild_placement_duration_seconds",
			Help:    "Wall time of whole-system placement",
			Buckets: prometheus.ExponentialBuckets(0.001, 4, 10),
		}),
		BoxEdgeLength: factory.NewGauge(prometheus.GaugeOpts{
			Name: "molbuild_box_edge_nm",
			Help: "Current simulation box edge length in nm",
		}),
		MoleculesPlaced: factory.NewGauge(prometheus.GaugeOpts{
			Name: "molbuild_molecules_placed",
			Help: "Molecules committed to the position table",
		}),
	}
}

// ObservePlacement records a completed placement run.
func (r *Registry) ObservePlacement(d time.Duration) {
	r.PlacementDuration.Observe(d.Seconds())
}

// Gather exposes the collected metric families, e.g. for tests or an
// exporter.
func (r *Registry) Gather() ([]*dto.MetricFamily, error) {
	return r.registry.Gather()
}

// Registerer returns the underlying prometheus registry for callers that
// mount an HTTP exporter.
func (r *Registry) Registerer() prometheus.Registerer {
	return r.registry
}
