package builder

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mvassilev/molbuild/pkg/config"
	"github.com/mvassilev/molbuild/pkg/metrics"
	"github.com/mvassilev/molbuild/pkg/molecule"
	"github.com/mvassilev/molbuild/pkg/topology"
)

// testForceField defines a single-residue block "A" with a bonded BB-SC1
// pair and a link bonding the BB atoms of consecutive residues.
func testForceField() *molecule.ForceField {
	ff := molecule.NewForceField("test")

	tmpl := molecule.NewMolecule("A")
	bb := tmpl.AddAtom(&molecule.Atom{Name: "BB", ResidueID: 0, ResidueName: "A"})
	sc := tmpl.AddAtom(&molecule.Atom{Name: "SC1", ResidueID: 0, ResidueName: "A"})
	tmpl.AddInteraction(molecule.Interaction{
		Kind:  molecule.KindBond,
		Atoms: []int{bb, sc},
		Parameters: []molecule.Parameter{
			molecule.LiteralParameter("1"),
			molecule.LiteralParameter("0.47"),
		},
	})
	ff.AddBlock(&molecule.Block{Name: "A", Template: tmpl})

	link := &molecule.Link{
		Name: "A-backbone",
		Nodes: []molecule.PatternNode{
			{AtomName: "BB", ResidueNames: []string{"A"}, Order: molecule.FixedOrder(0)},
			{AtomName: "BB", ResidueNames: []string{"A"}, Order: molecule.FixedOrder(1)},
		},
		Edges: [][2]int{{0, 1}},
	}
	link.AddInteraction(molecule.Interaction{
		Kind:  molecule.KindBond,
		Atoms: []int{0, 1},
		Parameters: []molecule.Parameter{
			molecule.LiteralParameter("1"),
			molecule.LiteralParameter("0.37"),
		},
	})
	ff.AddLink(link)
	return ff
}

func testTopology(residues int) *topology.Topology {
	top := topology.New("system", testForceField())
	top.Defaults.CombRule = topology.CombRuleLorentzBerthelot
	top.AtomTypes["A"] = topology.AtomType{Mass: 72.0, Size: 0.3, WellDeep: 1.0}

	rg := molecule.LinearResidueGraph([]molecule.Monomer{{Name: "A", Count: residues}})
	top.AddMolecule(&topology.Member{Name: "chain", Residues: rg, Count: 1})
	return top
}

func testConfig() config.BuildConfig {
	cfg := config.Default()
	cfg.BoxSize = 10.0
	return cfg
}

func counterValue(t *testing.T, reg *metrics.Registry, name string) float64 {
	t.Helper()
	families, err := reg.Gather()
	require.NoError(t, err)
	for _, mf := range families {
		if mf.GetName() != name {
			continue
		}
		total := 0.0
		for _, m := range mf.GetMetric() {
			if m.GetCounter() != nil {
				total += m.GetCounter().GetValue()
			}
		}
		return total
	}
	return 0
}

func TestBuilderBuild(t *testing.T) {
	top := testTopology(3)
	reg := metrics.NewRegistry()
	b := New(top, Options{Config: testConfig(), Metrics: reg})

	require.NoError(t, b.Build(context.Background()))

	m := top.Molecules[0]
	require.NotNil(t, m.Atoms)
	assert.Equal(t, 6, m.Atoms.AtomCount())

	// one intra-residue bond per residue plus one link bond per edge
	assert.Len(t, m.Atoms.Interactions(molecule.KindBond), 5)

	for _, id := range m.Atoms.Atoms() {
		a, err := m.Atoms.Atom(id)
		require.NoError(t, err)
		assert.True(t, a.HasPosition)
	}
	for _, rid := range m.Residues.Residues() {
		r, err := m.Residues.Residue(rid)
		require.NoError(t, err)
		assert.True(t, r.LinksApplied)
		assert.True(t, r.HasPosition)
	}

	assert.Equal(t, 1.0, counterValue(t, reg, "molbuild_expansions_total"))
	assert.Equal(t, 3.0, counterValue(t, reg, "molbuild_residues_expanded_total"))
	assert.Equal(t, 2.0, counterValue(t, reg, "molbuild_link_candidates_total"))
	assert.Equal(t, 2.0, counterValue(t, reg, "molbuild_links_applied_total"))
	assert.Equal(t, 0.0, counterValue(t, reg, "molbuild_match_failures_total"))
}

func TestBuilderBuildHonorsMemberCounts(t *testing.T) {
	top := testTopology(2)
	top.Molecules[0].Count = 3

	b := New(top, Options{Config: testConfig()})
	require.NoError(t, b.Build(context.Background()))

	// three copies, each expanded and placed on its own
	require.Len(t, top.Molecules, 3)
	assert.Equal(t, 12, top.AtomCount())
	for _, m := range top.Molecules {
		assert.Equal(t, 1, m.Count)
		require.NotNil(t, m.Atoms)
		assert.Equal(t, 4, m.Atoms.AtomCount())
		for _, id := range m.Atoms.Atoms() {
			a, err := m.Atoms.Atom(id)
			require.NoError(t, err)
			assert.True(t, a.HasPosition)
		}
	}
}

func TestBuilderBuildCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	b := New(testTopology(2), Options{Config: testConfig()})
	err := b.Build(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestBuilderExplicitLinks(t *testing.T) {
	top := testTopology(2)
	explicit := &molecule.Link{Name: "expl", Explicit: true}
	explicit.AddInteraction(molecule.Interaction{
		Kind:  molecule.KindExclusion,
		Atoms: []int{1, 3}, // one-based
	})
	top.ForceField.AddLink(explicit)

	reg := metrics.NewRegistry()
	b := New(top, Options{Config: testConfig(), Metrics: reg})
	require.NoError(t, b.Build(context.Background()))

	exclusions := top.Molecules[0].Atoms.Interactions(molecule.KindExclusion)
	require.Len(t, exclusions, 1)
	assert.Equal(t, []int{0, 2}, exclusions[0].Atoms)
	assert.Equal(t, 1.0, counterValue(t, reg, "molbuild_explicit_links_applied_total"))
}

func TestBuilderStageByStage(t *testing.T) {
	top := testTopology(2)
	b := New(top, Options{Config: testConfig()})
	m := top.Molecules[0]

	require.NoError(t, b.ExpandMolecule(m))
	assert.Equal(t, 4, m.Atoms.AtomCount())
	assert.Len(t, m.Atoms.Interactions(molecule.KindBond), 2)

	require.NoError(t, b.ResolveLinks(m))
	assert.Len(t, m.Atoms.Interactions(molecule.KindBond), 3)

	require.NoError(t, b.Assemble())
	a, err := m.Atoms.Atom(0)
	require.NoError(t, err)
	assert.True(t, a.HasPosition)
}

func TestBuilderRunID(t *testing.T) {
	first := New(testTopology(1), Options{})
	second := New(testTopology(1), Options{})
	assert.NotEmpty(t, first.RunID())
	assert.NotEqual(t, first.RunID(), second.RunID())
}

func TestBuilderDefaultsWhenZero(t *testing.T) {
	b := New(testTopology(1), Options{})
	assert.Equal(t, config.Default(), b.cfg)
}
