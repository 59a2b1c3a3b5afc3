// Package links discovers and applies bonded-interaction templates between
// residues of an expanded molecule.
package links

import (
	"github.com/mvassilev/molbuild/pkg/molecule"
)

// AttributeQuery matches atoms by exact attribute equality. Exact keys must
// all be present and equal; AnyOf keys must match one of the listed values.
// Ignored keys are skipped even when present in Exact or AnyOf.
type AttributeQuery struct {
	Exact  map[string]molecule.Value
	AnyOf  map[string][]molecule.Value
	Ignore map[string]struct{}
}

// NewAttributeQuery creates an empty query.
func NewAttributeQuery() AttributeQuery {
	return AttributeQuery{
		Exact: make(map[string]molecule.Value),
		AnyOf: make(map[string][]molecule.Value),
	}
}

// WithIgnored marks keys as excluded from matching.
func (q AttributeQuery) WithIgnored(keys ...string) AttributeQuery {
	if q.Ignore == nil {
		q.Ignore = make(map[string]struct{}, len(keys))
	}
	for _, k := range keys {
		q.Ignore[k] = struct{}{}
	}
	return q
}

func (q AttributeQuery) ignored(key string) bool {
	_, ok := q.Ignore[key]
	return ok
}

// Matches reports whether the atom satisfies every non-ignored requirement.
func (q AttributeQuery) Matches(a *molecule.Atom) bool {
	for key, want := range q.Exact {
		if q.ignored(key) {
			continue
		}
		got, ok := a.Attribute(key)
		if !ok || !got.Equal(want) {
			return false
		}
	}
	for key, allowed := range q.AnyOf {
		if q.ignored(key) || len(allowed) == 0 {
			continue
		}
		got, ok := a.Attribute(key)
		if !ok {
			return false
		}
		found := false
		for _, want := range allowed {
			if got.Equal(want) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

// FindAtoms returns the IDs of all atoms matching the query, in ascending
// ID order.
func FindAtoms(mol *molecule.Molecule, q AttributeQuery) []int {
	var out []int
	for _, id := range mol.Atoms() {
		a, _ := mol.Atom(id)
		if q.Matches(a) {
			out = append(out, id)
		}
	}
	return out
}
