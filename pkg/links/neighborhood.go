package links

import (
	"sort"

	"github.com/mvassilev/molbuild/pkg/molecule"
)

// Neighborhood returns every residue within shortest-path distance
// [1, degree] of node, in ascending ID order. The source node itself is
// excluded.
func Neighborhood(rg *molecule.ResidueGraph, node, degree int) []int {
	if degree < 1 {
		return nil
	}

	distances := map[int]int{node: 0}
	queue := []int{node}

	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		if distances[current] >= degree {
			continue
		}
		for _, nbr := range rg.Neighbors(current) {
			if _, seen := distances[nbr]; !seen {
				distances[nbr] = distances[current] + 1
				queue = append(queue, nbr)
			}
		}
	}

	out := make([]int, 0, len(distances)-1)
	for id, dist := range distances {
		if dist > 0 {
			out = append(out, id)
		}
	}
	sort.Ints(out)
	return out
}
