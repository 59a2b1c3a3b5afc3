// Package expand turns a one-node-per-residue graph plus block templates
// into a fully bonded atom graph. Multi-residue blocks split their
// residue-graph node into one node per template residue.
package expand

import (
	"github.com/mvassilev/molbuild/pkg/molecule"
)

// Build expands every residue of the graph into its block template and
// returns the molecule's atom graph. The residue graph is mutated in place
// when a multi-residue block splits a node. Residue-graph node IDs must be
// contiguous from zero.
//
// A block name absent from the force field and a block with zero atoms are
// both fatal.
func Build(rg *molecule.ResidueGraph, ff *molecule.ForceField) (*molecule.Molecule, error) {
	nodes := rg.Residues()
	if len(nodes) == 0 {
		return molecule.NewMolecule(""), nil
	}

	first, err := rg.Residue(nodes[0])
	if err != nil {
		return nil, err
	}
	block, err := lookupBlock(ff, first.Name)
	if err != nil {
		return nil, err
	}

	mol := block.ToMolecule()
	mol.EdgesFromInteractions(molecule.KindBond)
	if block.ResidueCount() > 1 {
		ExpandNode(rg, block, nodes[0])
	}

	// Later residues already covered by a multi-residue block are skipped
	// because the next unexpanded residue is always maxResID+1.
	for {
		next := mol.MaxResidueID() + 1
		if !rg.HasResidue(next) {
			break
		}
		r, err := rg.Residue(next)
		if err != nil {
			return nil, err
		}
		block, err := lookupBlock(ff, r.Name)
		if err != nil {
			return nil, err
		}
		instance := block.ToMolecule()
		instance.EdgesFromInteractions(molecule.KindBond)
		mol.Merge(instance)
		if block.ResidueCount() > 1 {
			ExpandNode(rg, block, next)
		}
	}
	return mol, nil
}

func lookupBlock(ff *molecule.ForceField, name string) (*molecule.Block, error) {
	block, err := ff.Block(name)
	if err != nil {
		return nil, err
	}
	if block.Template.AtomCount() == 0 {
		return nil, &molecule.GraphError{
			Op: "expand", Entity: "block", Name: name, Cause: molecule.ErrEmptyBlock,
		}
	}
	return block, nil
}

// ExpandNode replaces residue-graph node `node` by one node per residue of
// a multi-residue block. Every node with a higher ID is shifted up by
// ResidueCount-1 to make room; block-internal bonds between atoms of
// different residues become residue-graph edges.
func ExpandNode(rg *molecule.ResidueGraph, block *molecule.Block, node int) {
	offset := block.ResidueCount() - 1
	if offset <= 0 {
		return
	}

	mapping := make(map[int]int)
	for _, id := range rg.Residues() {
		if id > node {
			mapping[id] = id + offset
		}
	}
	rg.Relabel(mapping)

	names := block.ResidueNames()
	for blockRes, name := range names {
		rg.AddResidue(&molecule.Residue{ID: node + blockRes, Name: name})
	}

	instance := block.ToMolecule()
	instance.EdgesFromInteractions(molecule.KindBond)
	for _, e := range instance.Edges() {
		a, _ := instance.Atom(e[0])
		b, _ := instance.Atom(e[1])
		ra := node + a.ResidueID
		rb := node + b.ResidueID
		if ra != rb {
			_ = rg.AddEdge(ra, rb)
		}
	}
}

// ResidueGraphFromMolecule derives a residue graph from an atom graph:
// one node per residue ID named after the residue's first atom, one edge
// per bond joining atoms of different residues.
func ResidueGraphFromMolecule(mol *molecule.Molecule) *molecule.ResidueGraph {
	rg := molecule.NewResidueGraph()
	for _, id := range mol.Atoms() {
		a, _ := mol.Atom(id)
		if !rg.HasResidue(a.ResidueID) {
			rg.AddResidue(&molecule.Residue{ID: a.ResidueID, Name: a.ResidueName})
		}
	}
	for _, e := range mol.Edges() {
		a, _ := mol.Atom(e[0])
		b, _ := mol.Atom(e[1])
		if a.ResidueID != b.ResidueID {
			_ = rg.AddEdge(a.ResidueID, b.ResidueID)
		}
	}
	return rg
}

// ResiduePart names the atoms carved out of a residue during a split.
type ResiduePart struct {
	Name  string
	Atoms []string
}

// SplitResidues reassigns the atoms of every residue named resname to the
// given parts, each part becoming a fresh residue appended after the current
// maximum ID, and returns the re-derived residue graph. An atom name missing
// from a residue is fatal.
func SplitResidues(mol *molecule.Molecule, resname string, parts []ResiduePart) (*molecule.ResidueGraph, error) {
	maxResID := mol.MaxResidueID()
	targets := []int{}
	seen := make(map[int]struct{})
	for _, id := range mol.Atoms() {
		a, _ := mol.Atom(id)
		if a.ResidueName == resname {
			if _, ok := seen[a.ResidueID]; !ok {
				seen[a.ResidueID] = struct{}{}
				targets = append(targets, a.ResidueID)
			}
		}
	}

	for _, resid := range targets {
		byName := make(map[string]*molecule.Atom)
		for _, id := range mol.ResidueAtoms(resid) {
			a, _ := mol.Atom(id)
			byName[a.Name] = a
		}
		for _, part := range parts {
			maxResID++
			for _, atomName := range part.Atoms {
				a, ok := byName[atomName]
				if !ok {
					return nil, &molecule.GraphError{
						Op: "split", Entity: "residue", ID: resid, Name: atomName,
						Cause: molecule.ErrAtomNotFound,
					}
				}
				a.ResidueName = part.Name
				a.ResidueID = maxResID
			}
		}
	}
	return ResidueGraphFromMolecule(mol), nil
}
