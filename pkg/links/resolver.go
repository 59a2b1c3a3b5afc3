package links

import (
	"fmt"

	"github.com/mvassilev/molbuild/pkg/molecule"
)

// Candidate pairs a link template with one residue-ID assignment for its
// pattern nodes.
type Candidate struct {
	Link       *molecule.Link
	ResidueIDs []int
}

// FindLinks enumerates the candidates for the residue-graph edge (u, v):
// links whose residue-name sets cover both endpoint names, with one
// residue-ID tuple per fixed-order assignment and the Cartesian product of
// the u-neighborhood for wildcard positions. Tuples whose path graph does
// not embed into the residue graph are discarded. Candidates are returned
// in template order, neighborhood-enumeration order within a template.
func FindLinks(rg *molecule.ResidueGraph, ff *molecule.ForceField, u, v int) ([]Candidate, error) {
	nameU, nameV, err := rg.EdgeNames(u, v)
	if err != nil {
		return nil, err
	}

	var candidates []Candidate
	for _, link := range ff.Links() {
		if link.Explicit {
			continue
		}
		if !link.CoversResidues(nameU, nameV) {
			continue
		}

		orders := link.Orders()
		tuples := enumerateTuples(rg, u, orders)
		for _, tuple := range tuples {
			if isSubgraph(rg, pathGraph(tuple)) {
				candidates = append(candidates, Candidate{Link: link, ResidueIDs: tuple})
			}
		}
	}
	return candidates, nil
}

// enumerateTuples builds the candidate residue-ID tuples for one link.
// Fixed orders pin their position to u+offset; each wildcard position ranges
// over the residues within distance distinctOrders-1 of u.
func enumerateTuples(rg *molecule.ResidueGraph, u int, orders []molecule.Order) [][]int {
	tuples := [][]int{{}}

	var neighborhood []int
	for _, o := range orders {
		if o.Wildcard {
			neighborhood = Neighborhood(rg, u, distinctOrderCount(orders)-1)
			break
		}
	}

	for _, o := range orders {
		if !o.Wildcard {
			for i := range tuples {
				tuples[i] = append(tuples[i], u+o.Offset)
			}
			continue
		}
		grown := make([][]int, 0, len(tuples)*len(neighborhood))
		for _, tuple := range tuples {
			for _, id := range neighborhood {
				next := make([]int, len(tuple), len(tuple)+1)
				copy(next, tuple)
				grown = append(grown, append(next, id))
			}
		}
		tuples = grown
	}
	return tuples
}

// distinctOrderCount counts the distinct order markers: fixed offsets by
// value, wildcards collectively as one.
func distinctOrderCount(orders []molecule.Order) int {
	seen := make(map[int]struct{})
	wildcard := 0
	for _, o := range orders {
		if o.Wildcard {
			wildcard = 1
			continue
		}
		seen[o.Offset] = struct{}{}
	}
	return len(seen) + wildcard
}

// ApplyBetweenResidues matches the link's pattern nodes onto atoms of the
// given residues and commits the template's interactions. Residue IDs bind
// to pattern nodes in node order. Every pattern node must match exactly one
// atom; otherwise a MatchError is returned and the molecule is untouched.
func ApplyBetweenResidues(mol *molecule.Molecule, link *molecule.Link, resids []int) error {
	if len(resids) != len(link.Nodes) {
		return fmt.Errorf("link %q: %d residue IDs for %d pattern nodes",
			link.Name, len(resids), len(link.Nodes))
	}

	mapping := make(map[int]int, len(link.Nodes))
	for i := range link.Nodes {
		matches := FindAtoms(mol, patternQuery(&link.Nodes[i], resids[i]))
		if len(matches) != 1 {
			return &MatchError{
				Link:      link.Name,
				AtomName:  link.Nodes[i].AtomName,
				ResidueID: resids[i],
				Matches:   len(matches),
			}
		}
		mapping[i] = matches[0]
	}

	// Resolve everything before mutating so a deferred-parameter failure
	// leaves the molecule unchanged.
	var resolved []molecule.Interaction
	for _, kind := range link.InteractionKinds() {
		for _, in := range link.Interactions(kind) {
			atoms := make([]int, len(in.Atoms))
			for j, node := range in.Atoms {
				atoms[j] = mapping[node]
			}
			params := make([]molecule.Parameter, len(in.Parameters))
			for j, p := range in.Parameters {
				value, err := p.Resolve(mol, mapping)
				if err != nil {
					return fmt.Errorf("link %q: resolve parameter %d: %w", link.Name, j, err)
				}
				params[j] = molecule.LiteralParameter(value)
			}
			next := in.Clone()
			next.Atoms = atoms
			next.Parameters = params
			resolved = append(resolved, next)
		}
	}

	for _, in := range resolved {
		mol.AddOrReplaceInteraction(in)
		for j := 0; j+1 < len(in.Atoms); j++ {
			if !mol.HasEdge(in.Atoms[j], in.Atoms[j+1]) {
				if err := mol.AddEdge(in.Atoms[j], in.Atoms[j+1]); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

// patternQuery builds the attribute query for one pattern node bound to a
// residue ID. Order and charge-group attributes never participate in
// matching.
func patternQuery(node *molecule.PatternNode, resid int) AttributeQuery {
	q := NewAttributeQuery()
	if node.AtomName != "" {
		q.Exact[molecule.KeyAtomName] = molecule.StringValue(node.AtomName)
	}
	q.Exact[molecule.KeyResidueID] = molecule.IntValue(resid)
	switch len(node.ResidueNames) {
	case 0:
	case 1:
		q.Exact[molecule.KeyResidueName] = molecule.StringValue(node.ResidueNames[0])
	default:
		allowed := make([]molecule.Value, len(node.ResidueNames))
		for i, name := range node.ResidueNames {
			allowed[i] = molecule.StringValue(name)
		}
		q.AnyOf[molecule.KeyResidueName] = allowed
	}
	for k, v := range node.Attrs {
		q.Exact[k] = v
	}
	return q.WithIgnored(molecule.KeyOrder, molecule.KeyChargeGroup)
}

// ResolveHooks observes the resolution loop. Nil hooks are skipped; the
// hooks never alter control flow.
type ResolveHooks struct {
	// Candidates fires once per residue-graph edge with the number of
	// enumerated candidates.
	Candidates func(n int)
	// Applied fires after a candidate's interactions were committed.
	Applied func(link *molecule.Link)
	// Skipped fires when a candidate is abandoned on a match failure.
	Skipped func(link *molecule.Link, err error)
}

// ResolveMolecule runs candidate discovery and application over every
// residue-graph edge. Candidates that fail matching are skipped silently;
// an edge may end up with no applied links at all.
func ResolveMolecule(rg *molecule.ResidueGraph, mol *molecule.Molecule, ff *molecule.ForceField) error {
	return ResolveMoleculeWithHooks(rg, mol, ff, ResolveHooks{})
}

// ResolveMoleculeWithHooks is ResolveMolecule with observation hooks for
// callers that instrument the loop.
func ResolveMoleculeWithHooks(rg *molecule.ResidueGraph, mol *molecule.Molecule, ff *molecule.ForceField, hooks ResolveHooks) error {
	for _, edge := range rg.Edges() {
		candidates, err := FindLinks(rg, ff, edge[0], edge[1])
		if err != nil {
			return err
		}
		if hooks.Candidates != nil {
			hooks.Candidates(len(candidates))
		}
		for _, c := range candidates {
			if err := ApplyBetweenResidues(mol, c.Link, c.ResidueIDs); err != nil {
				if IsMatchError(err) {
					if hooks.Skipped != nil {
						hooks.Skipped(c.Link, err)
					}
					continue
				}
				return err
			}
			if hooks.Applied != nil {
				hooks.Applied(c.Link)
			}
			for _, end := range edge {
				if r, rerr := rg.Residue(end); rerr == nil {
					r.LinksApplied = true
				}
			}
		}
	}
	return nil
}

// ApplyExplicit commits an explicit link's interactions. The interaction
// atoms are literal one-based atom numbers; a converted index missing from
// the molecule is fatal.
func ApplyExplicit(mol *molecule.Molecule, link *molecule.Link) error {
	for _, kind := range link.InteractionKinds() {
		for _, in := range link.Interactions(kind) {
			atoms := make([]int, len(in.Atoms))
			for j, a := range in.Atoms {
				idx := a - 1
				if !mol.HasAtom(idx) {
					return &molecule.GraphError{
						Op: "apply explicit link", Entity: "atom", ID: idx,
						Name: link.Name, Cause: molecule.ErrAtomNotFound,
					}
				}
				atoms[j] = idx
			}
			next := in.Clone()
			next.Atoms = atoms
			mol.AddInteraction(next)
		}
	}
	return nil
}

// ApplyExplicitLinks runs every explicit link of the force field against
// the molecule. Called once per molecule after all per-edge resolution
// across the system has finished.
func ApplyExplicitLinks(mol *molecule.Molecule, ff *molecule.ForceField) error {
	for _, link := range ff.Links() {
		if !link.Explicit {
			continue
		}
		if err := ApplyExplicit(mol, link); err != nil {
			return err
		}
	}
	return nil
}
