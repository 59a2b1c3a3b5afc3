package molecule

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testBlock(t *testing.T, name string, residues ...string) *Block {
	t.Helper()
	tmpl := NewMolecule(name)
	for res, resname := range residues {
		a := tmpl.AddAtom(&Atom{Name: "BB", ResidueID: res, ResidueName: resname})
		b := tmpl.AddAtom(&Atom{Name: "SC1", ResidueID: res, ResidueName: resname})
		tmpl.AddInteraction(Interaction{Kind: KindBond, Atoms: []int{a, b}})
		if res > 0 {
			tmpl.AddInteraction(Interaction{Kind: KindBond, Atoms: []int{a - 1, a}})
		}
	}
	return &Block{Name: name, Template: tmpl}
}

func TestBlockResidues(t *testing.T) {
	b := testBlock(t, "AB", "A", "B")
	assert.Equal(t, 2, b.ResidueCount())
	assert.Equal(t, map[int]string{0: "A", 1: "B"}, b.ResidueNames())
}

func TestBlockToMoleculeIsACopy(t *testing.T) {
	b := testBlock(t, "A", "A")
	mol := b.ToMolecule()
	a, err := mol.Atom(0)
	require.NoError(t, err)
	a.Name = "changed"

	orig, err := b.Template.Atom(0)
	require.NoError(t, err)
	assert.Equal(t, "BB", orig.Name)
	assert.Equal(t, "A", mol.Name)
}

func TestPatternNodeAcceptsResidue(t *testing.T) {
	n := PatternNode{ResidueNames: []string{"A", "B"}}
	assert.True(t, n.AcceptsResidue("A"))
	assert.False(t, n.AcceptsResidue("C"))

	any := PatternNode{}
	assert.True(t, any.AcceptsResidue("C"))
}

func TestLinkResidueNames(t *testing.T) {
	l := &Link{
		Name: "test",
		Nodes: []PatternNode{
			{AtomName: "BB", ResidueNames: []string{"B", "A"}, Order: FixedOrder(0)},
			{AtomName: "BB", ResidueNames: []string{"A"}, Order: FixedOrder(1)},
		},
	}
	assert.Equal(t, []string{"A", "B"}, l.ResidueNames())
	assert.True(t, l.CoversResidues("A", "B"))
	assert.False(t, l.CoversResidues("A", "C"))

	orders := l.Orders()
	require.Len(t, orders, 2)
	assert.Equal(t, 1, orders[1].Offset)
	assert.False(t, orders[0].Wildcard)
}

func TestForceFieldBlockLookup(t *testing.T) {
	ff := NewForceField("martini")
	ff.AddBlock(testBlock(t, "PEO", "PEO"))

	b, err := ff.Block("PEO")
	require.NoError(t, err)
	assert.Equal(t, "PEO", b.Name)

	_, err = ff.Block("missing")
	assert.ErrorIs(t, err, ErrBlockNotFound)
}

func TestForceFieldLinkOrder(t *testing.T) {
	ff := NewForceField("martini")
	ff.AddLink(&Link{Name: "first"})
	ff.AddLink(&Link{Name: "second"})

	got := ff.Links()
	require.Len(t, got, 2)
	assert.Equal(t, "first", got[0].Name)
	assert.Equal(t, "second", got[1].Name)
}
