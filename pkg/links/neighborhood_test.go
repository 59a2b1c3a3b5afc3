package links

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mvassilev/molbuild/pkg/molecule"
)

func TestNeighborhoodChain(t *testing.T) {
	g := molecule.LinearResidueGraph([]molecule.Monomer{{Name: "A", Count: 6}})

	assert.Equal(t, []int{1, 3}, Neighborhood(g, 2, 1))
	assert.Equal(t, []int{0, 1, 3, 4}, Neighborhood(g, 2, 2))
	assert.Equal(t, []int{0, 1, 2, 3, 4}, Neighborhood(g, 5, 5))
	assert.Empty(t, Neighborhood(g, 2, 0))
}

func TestNeighborhoodBranch(t *testing.T) {
	// star: 0 at the center, 1..3 attached
	g := molecule.NewResidueGraph()
	for i := 0; i < 4; i++ {
		g.AddResidue(&molecule.Residue{ID: i, Name: "A"})
	}
	for i := 1; i < 4; i++ {
		require.NoError(t, g.AddEdge(0, i))
	}

	assert.Equal(t, []int{1, 2, 3}, Neighborhood(g, 0, 1))
	assert.Equal(t, []int{0, 2, 3}, Neighborhood(g, 1, 2))
	assert.Equal(t, []int{0}, Neighborhood(g, 1, 1))
}

func TestIsSubgraph(t *testing.T) {
	chain := molecule.LinearResidueGraph([]molecule.Monomer{{Name: "A", Count: 4}})

	// a 3-node path embeds into a 4-node chain
	assert.True(t, isSubgraph(chain, pathGraph([]int{0, 1, 2})))
	// so does a 4-node path
	assert.True(t, isSubgraph(chain, pathGraph([]int{3, 2, 1, 0})))
	// a triangle does not
	assert.False(t, isSubgraph(chain, [][2]int{{0, 1}, {1, 2}, {2, 0}}))
	// an empty pattern always embeds
	assert.True(t, isSubgraph(chain, nil))
	// equal consecutive ids contribute no edge
	assert.Empty(t, pathGraph([]int{2, 2}))
	assert.Len(t, pathGraph([]int{0, 1, 1, 2}), 2)

	// a star embeds a 3-node star but a chain of 4 does not fit in a
	// 3-spoke star with only 4 nodes
	star := molecule.NewResidueGraph()
	for i := 0; i < 4; i++ {
		star.AddResidue(&molecule.Residue{ID: i, Name: "A"})
	}
	for i := 1; i < 4; i++ {
		require.NoError(t, star.AddEdge(0, i))
	}
	assert.True(t, isSubgraph(star, [][2]int{{10, 11}, {10, 12}}))
	assert.False(t, isSubgraph(star, pathGraph([]int{0, 1, 2, 3})))
}
