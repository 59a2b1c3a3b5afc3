package links

import (
	"github.com/mvassilev/molbuild/pkg/molecule"
)

// pathGraph builds the edge list of the path connecting consecutive
// distinct IDs of a candidate tuple. Equal consecutive IDs contribute no
// edge.
func pathGraph(ids []int) [][2]int {
	var edges [][2]int
	for i := 0; i+1 < len(ids); i++ {
		if ids[i] != ids[i+1] {
			edges = append(edges, [2]int{ids[i], ids[i+1]})
		}
	}
	return edges
}

// isSubgraph reports whether the pattern given by its edge list embeds into
// the residue graph: an injective node mapping under which every pattern
// edge maps onto a residue-graph edge. Backtracking over candidate
// assignments; pattern graphs here are tiny (a handful of nodes).
func isSubgraph(rg *molecule.ResidueGraph, edges [][2]int) bool {
	if len(edges) == 0 {
		return true
	}

	// pattern nodes in first-appearance order
	var nodes []int
	index := make(map[int]int)
	for _, e := range edges {
		for _, n := range e {
			if _, ok := index[n]; !ok {
				index[n] = len(nodes)
				nodes = append(nodes, n)
			}
		}
	}

	adj := make([][]bool, len(nodes))
	for i := range adj {
		adj[i] = make([]bool, len(nodes))
	}
	for _, e := range edges {
		u, v := index[e[0]], index[e[1]]
		adj[u][v] = true
		adj[v][u] = true
	}

	hosts := rg.Residues()
	assigned := make([]int, len(nodes))
	used := make(map[int]struct{}, len(nodes))

	var match func(i int) bool
	match = func(i int) bool {
		if i == len(nodes) {
			return true
		}
		for _, host := range hosts {
			if _, taken := used[host]; taken {
				continue
			}
			ok := true
			for j := 0; j < i; j++ {
				if adj[i][j] && !rg.HasEdge(host, assigned[j]) {
					ok = false
					break
				}
			}
			if !ok {
				continue
			}
			assigned[i] = host
			used[host] = struct{}{}
			if match(i + 1) {
				return true
			}
			delete(used, host)
		}
		return false
	}
	return match(0)
}
