package molecule

import "sort"

// Block is an atom-graph template for one or more residues. Expansion
// copies its atoms, bonds and interactions verbatim into a molecule.
type Block struct {
	Name     string
	Template *Molecule
}

// ResidueCount returns the number of distinct residue IDs in the template.
func (b *Block) ResidueCount() int {
	seen := make(map[int]struct{})
	for _, id := range b.Template.Atoms() {
		a, _ := b.Template.Atom(id)
		seen[a.ResidueID] = struct{}{}
	}
	return len(seen)
}

// ResidueNames returns the template's residue IDs mapped to their residue
// names.
func (b *Block) ResidueNames() map[int]string {
	names := make(map[int]string)
	for _, id := range b.Template.Atoms() {
		a, _ := b.Template.Atom(id)
		names[a.ResidueID] = a.ResidueName
	}
	return names
}

// ToMolecule instantiates the template as a fresh molecule.
func (b *Block) ToMolecule() *Molecule {
	mol := b.Template.Clone()
	mol.Name = b.Name
	return mol
}

// Order is a link pattern node's declared residue offset relative to the
// residue-graph edge being resolved.
type Order struct {
	Offset   int
	Wildcard bool
}

// FixedOrder declares a concrete offset.
func FixedOrder(offset int) Order {
	return Order{Offset: offset}
}

// WildcardOrder declares an unconstrained position filled by neighborhood
// enumeration.
func WildcardOrder() Order {
	return Order{Wildcard: true}
}

// PatternNode is one node of a link pattern: the attributes an atom must
// carry to bind this node, plus the node's order marker.
type PatternNode struct {
	AtomName string

	// ResidueNames is the set of residue names the node accepts. Empty
	// means any residue name.
	ResidueNames []string

	Order Order

	// Attrs holds additional required attributes beyond atom and residue
	// name.
	Attrs map[string]Value
}

// AcceptsResidue reports whether the node's residue-name set covers name.
func (p *PatternNode) AcceptsResidue(name string) bool {
	if len(p.ResidueNames) == 0 {
		return true
	}
	for _, rn := range p.ResidueNames {
		if rn == name {
			return true
		}
	}
	return false
}

// Link is a bonded-interaction template matched against existing atoms. Its
// pattern nodes are ordered; candidate residue IDs bind to nodes in this
// order. An explicit link skips matching entirely: its interaction atoms are
// literal one-based atom numbers.
type Link struct {
	Name     string
	Explicit bool
	Nodes    []PatternNode
	Edges    [][2]int // indices into Nodes
	inter    InteractionSet
}

// AddInteraction appends a template interaction. For pattern links the atom
// tuple indexes into Nodes; for explicit links it holds one-based atom
// numbers.
func (l *Link) AddInteraction(in Interaction) {
	l.inter.Add(in)
}

// InteractionKinds returns the kinds present in first-seen order.
func (l *Link) InteractionKinds() []InteractionKind {
	return l.inter.Kinds()
}

// Interactions returns the template interactions of a kind.
func (l *Link) Interactions(kind InteractionKind) []Interaction {
	return l.inter.Of(kind)
}

// ResidueNames returns the union of the pattern nodes' allowed residue
// names, sorted.
func (l *Link) ResidueNames() []string {
	seen := make(map[string]struct{})
	for i := range l.Nodes {
		for _, name := range l.Nodes[i].ResidueNames {
			seen[name] = struct{}{}
		}
	}
	out := make([]string, 0, len(seen))
	for name := range seen {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// CoversResidues reports whether both names appear in some pattern node's
// allowed set.
func (l *Link) CoversResidues(a, b string) bool {
	names := make(map[string]struct{})
	for i := range l.Nodes {
		for _, name := range l.Nodes[i].ResidueNames {
			names[name] = struct{}{}
		}
	}
	_, okA := names[a]
	_, okB := names[b]
	return okA && okB
}

// Orders returns the order markers of the pattern nodes in node order.
func (l *Link) Orders() []Order {
	out := make([]Order, len(l.Nodes))
	for i := range l.Nodes {
		out[i] = l.Nodes[i].Order
	}
	return out
}

// ForceField owns the named block templates and the ordered link list.
type ForceField struct {
	Name   string
	blocks map[string]*Block
	links  []*Link
}

// NewForceField creates an empty force field.
func NewForceField(name string) *ForceField {
	return &ForceField{
		Name:   name,
		blocks: make(map[string]*Block),
	}
}

// AddBlock registers a block under its name.
func (ff *ForceField) AddBlock(b *Block) {
	ff.blocks[b.Name] = b
}

// Block returns the named block. A missing block is a fatal
// missing-template error.
func (ff *ForceField) Block(name string) (*Block, error) {
	b, ok := ff.blocks[name]
	if !ok {
		return nil, BlockNotFoundError(name)
	}
	return b, nil
}

// AddLink appends a link to the ordered link list. Template order decides
// candidate enumeration order during resolution.
func (ff *ForceField) AddLink(l *Link) {
	ff.links = append(ff.links, l)
}

// Links returns the links in template order.
func (ff *ForceField) Links() []*Link {
	return ff.links
}
