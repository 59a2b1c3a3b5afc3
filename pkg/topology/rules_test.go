package topology

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mvassilev/molbuild/pkg/molecule"
)

func TestLorentzBerthelot(t *testing.T) {
	sig, eps := LorentzBerthelot(0.3, 0.5, 1.0, 4.0)
	assert.InDelta(t, 0.4, sig, 1e-12)
	assert.InDelta(t, 2.0, eps, 1e-12)
}

func TestGeometricRule(t *testing.T) {
	c6, c12 := GeometricRule(4.0, 9.0, 1.0, 16.0)
	assert.InDelta(t, 6.0, c6, 1e-12)
	assert.InDelta(t, 4.0, c12, 1e-12)
}

func TestMix(t *testing.T) {
	a := AtomType{Size: 0.3, WellDeep: 1.0}
	b := AtomType{Size: 0.5, WellDeep: 4.0}

	lb, err := Mix(CombRuleLorentzBerthelot, a, b)
	require.NoError(t, err)
	assert.InDelta(t, 0.4, lb.Size, 1e-12)
	assert.InDelta(t, 2.0, lb.WellDeep, 1e-12)

	// rule 1 mixes like Lorentz-Berthelot, conversion happens separately
	c612, err := Mix(CombRuleC6C12, a, b)
	require.NoError(t, err)
	assert.Equal(t, lb, c612)

	geo, err := Mix(CombRuleGeometric, a, b)
	require.NoError(t, err)
	assert.InDelta(t, math.Sqrt(0.15), geo.Size, 1e-12)
	assert.InDelta(t, 2.0, geo.WellDeep, 1e-12)

	_, err = Mix(7, a, b)
	assert.Error(t, err)
}

func TestGenPairs(t *testing.T) {
	top := New("test", molecule.NewForceField("test"))
	top.Defaults = Defaults{CombRule: CombRuleLorentzBerthelot, GenPairs: true}
	top.AtomTypes["A"] = AtomType{Size: 0.3, WellDeep: 1.0}
	top.AtomTypes["B"] = AtomType{Size: 0.5, WellDeep: 4.0}
	top.AtomTypes["C"] = AtomType{Size: 0.7, WellDeep: 9.0}

	// explicit entries win over generated ones
	top.NonbondParams[PairKeyOf("A", "B")] = NonbondParam{Size: 99, WellDeep: 99}

	require.NoError(t, top.GenPairs())

	// 3 self pairs plus 3 cross pairs
	assert.Len(t, top.NonbondParams, 6)
	assert.Equal(t, NonbondParam{Size: 99, WellDeep: 99}, top.NonbondParams[PairKeyOf("A", "B")])
	assert.Equal(t, NonbondParam{Size: 0.5, WellDeep: 2.0}, top.NonbondParams[PairKeyOf("A", "C")])
	assert.Equal(t, NonbondParam{Size: 0.3, WellDeep: 1.0}, top.NonbondParams[PairKeyOf("A", "A")])
}

func TestGenPairsSelfPairsOnly(t *testing.T) {
	top := New("test", molecule.NewForceField("test"))
	top.Defaults = Defaults{CombRule: CombRuleLorentzBerthelot, GenPairs: false}
	top.AtomTypes["A"] = AtomType{Size: 0.3, WellDeep: 1.0}
	top.AtomTypes["B"] = AtomType{Size: 0.5, WellDeep: 4.0}

	require.NoError(t, top.GenPairs())

	assert.Len(t, top.NonbondParams, 2)
	_, crossed := top.NonbondParams[PairKeyOf("A", "B")]
	assert.False(t, crossed)
}

func TestConvertToSigEps(t *testing.T) {
	top := New("test", molecule.NewForceField("test"))
	c6, c12 := 2.0, 1.0
	top.NonbondParams[PairKeyOf("A", "A")] = NonbondParam{Size: c6, WellDeep: c12}

	top.ConvertToSigEps()

	got := top.NonbondParams[PairKeyOf("A", "A")]
	assert.InDelta(t, math.Pow(c12/c6, 1.0/6.0), got.Size, 1e-12)
	assert.InDelta(t, c6*c6/(4*c12), got.WellDeep, 1e-12)
}

func TestConvertToSigEpsZeroEntries(t *testing.T) {
	top := New("test", molecule.NewForceField("test"))
	top.NonbondParams[PairKeyOf("A", "A")] = NonbondParam{}
	// zero C12 and zero C6 respectively
	top.NonbondParams[PairKeyOf("B", "B")] = NonbondParam{Size: 2.0}
	top.NonbondParams[PairKeyOf("C", "C")] = NonbondParam{WellDeep: 1}

	top.ConvertToSigEps()

	for _, name := range []string{"A", "B", "C"} {
		got := top.NonbondParams[PairKeyOf(name, name)]
		assert.Equal(t, NonbondParam{}, got, "pair %s", name)
		assert.False(t, math.IsInf(got.Size, 0))
		assert.False(t, math.IsInf(got.WellDeep, 0))
	}
}

func TestPairKeyOf(t *testing.T) {
	assert.Equal(t, PairKeyOf("B", "A"), PairKeyOf("A", "B"))
	assert.Equal(t, PairKey{A: "A", B: "B"}, PairKeyOf("B", "A"))
}

func TestReplaceDefines(t *testing.T) {
	ff := molecule.NewForceField("test")
	tmpl := molecule.NewMolecule("W")
	a := tmpl.AddAtom(&molecule.Atom{Name: "BB", ResidueName: "W"})
	b := tmpl.AddAtom(&molecule.Atom{Name: "SC1", ResidueName: "W"})
	tmpl.AddInteraction(molecule.Interaction{
		Kind:  molecule.KindBond,
		Atoms: []int{a, b},
		Parameters: []molecule.Parameter{
			molecule.LiteralParameter("1"),
			molecule.LiteralParameter("FLEXIBLE_BOND"),
		},
	})
	ff.AddBlock(&molecule.Block{Name: "W", Template: tmpl})

	rg := molecule.LinearResidueGraph([]molecule.Monomer{{Name: "W", Count: 1}})
	top := New("test", ff)
	top.Defines["FLEXIBLE_BOND"] = []string{"0.47", "1250"}
	top.AddMolecule(&Member{Name: "water", Residues: rg, Atoms: tmpl, Count: 1})

	top.ReplaceDefines()

	block, err := ff.Block("W")
	require.NoError(t, err)
	bonds := block.Template.Interactions(molecule.KindBond)
	require.Len(t, bonds, 1)
	require.Len(t, bonds[0].Parameters, 3)
	assert.Equal(t, "1", bonds[0].Parameters[0].Value())
	assert.Equal(t, "0.47", bonds[0].Parameters[1].Value())
	assert.Equal(t, "1250", bonds[0].Parameters[2].Value())
}

func TestPreprocessConvertsC6C12(t *testing.T) {
	top := New("test", molecule.NewForceField("test"))
	top.Defaults = Defaults{CombRule: CombRuleC6C12, GenPairs: true}
	top.AtomTypes["A"] = AtomType{Size: 2.0, WellDeep: 1.0}

	require.NoError(t, top.Preprocess())

	got := top.NonbondParams[PairKeyOf("A", "A")]
	assert.InDelta(t, math.Pow(0.5, 1.0/6.0), got.Size, 1e-12)
	assert.InDelta(t, 1.0, got.WellDeep, 1e-12)
}

func TestTotalMass(t *testing.T) {
	mol := molecule.NewMolecule("A")
	mol.AddAtom(&molecule.Atom{Name: "BB", ResidueName: "A", Mass: 72.0, HasMass: true})
	mol.AddAtom(&molecule.Atom{Name: "SC1", ResidueName: "A"})

	rg := molecule.LinearResidueGraph([]molecule.Monomer{{Name: "A", Count: 1}})
	top := New("test", molecule.NewForceField("test"))
	top.AtomTypes["A"] = AtomType{Mass: 45.0}
	top.AddMolecule(&Member{Name: "A", Residues: rg, Atoms: mol, Count: 1})

	assert.InDelta(t, 117.0, top.TotalMass(), 1e-12)
	assert.Equal(t, 2, top.AtomCount())
}
