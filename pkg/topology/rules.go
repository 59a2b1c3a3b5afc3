package topology

import (
	"fmt"
	"math"
	"sort"

	"github.com/mvassilev/molbuild/pkg/molecule"
)

// LorentzBerthelot mixes sigma/epsilon pairs: arithmetic mean of sigmas,
// geometric mean of epsilons.
func LorentzBerthelot(sigA, sigB, epsA, epsB float64) (float64, float64) {
	return (sigA + sigB) / 2.0, math.Sqrt(epsA * epsB)
}

// GeometricRule mixes C6/C12 pairs by the geometric mean of both.
func GeometricRule(c6A, c6B, c12A, c12B float64) (float64, float64) {
	return math.Sqrt(c6A * c6B), math.Sqrt(c12A * c12B)
}

// Mix applies the combination rule identified by the comb-rule number.
func Mix(rule int, a, b AtomType) (NonbondParam, error) {
	switch rule {
	case CombRuleC6C12, CombRuleLorentzBerthelot:
		size, well := LorentzBerthelot(a.Size, b.Size, a.WellDeep, b.WellDeep)
		return NonbondParam{Size: size, WellDeep: well}, nil
	case CombRuleGeometric:
		size, well := GeometricRule(a.Size, b.Size, a.WellDeep, b.WellDeep)
		return NonbondParam{Size: size, WellDeep: well}, nil
	default:
		return NonbondParam{}, fmt.Errorf("unknown combination rule %d", rule)
	}
}

// GenPairs fills the nonbonded table. With GenPairs set, every unordered
// type pair is mixed by the combination rule; self pairs are always added.
// Pre-existing explicit entries take precedence over generated ones.
func (t *Topology) GenPairs() error {
	names := make([]string, 0, len(t.AtomTypes))
	for name := range t.AtomTypes {
		names = append(names, name)
	}
	sort.Strings(names)

	if t.Defaults.GenPairs {
		for i, a := range names {
			for _, b := range names[i+1:] {
				key := PairKeyOf(a, b)
				if _, ok := t.NonbondParams[key]; ok {
					continue
				}
				mixed, err := Mix(t.Defaults.CombRule, t.AtomTypes[a], t.AtomTypes[b])
				if err != nil {
					return err
				}
				t.NonbondParams[key] = mixed
			}
		}
	}

	for _, name := range names {
		key := PairKeyOf(name, name)
		if _, ok := t.NonbondParams[key]; ok {
			continue
		}
		at := t.AtomTypes[name]
		t.NonbondParams[key] = NonbondParam{Size: at.Size, WellDeep: at.WellDeep}
	}
	return nil
}

// ConvertToSigEps rewrites every nonbonded entry from C6/C12 form to
// sigma/epsilon form: sigma = (C12/C6)^(1/6), epsilon = C6^2/(4*C12).
// Entries with a zero coefficient convert to zero rather than dividing by
// it; Inf must never reach the distance table.
func (t *Topology) ConvertToSigEps() {
	for key, p := range t.NonbondParams {
		c6, c12 := p.Size, p.WellDeep
		var sig, eps float64
		if c6 != 0 && c12 != 0 {
			sig = math.Pow(c12/c6, 1.0/6.0)
			eps = c6 * c6 / (4 * c12)
		}
		t.NonbondParams[key] = NonbondParam{Size: sig, WellDeep: eps}
	}
}

// ReplaceDefines substitutes symbolic interaction parameters in every block
// template with the values from the defines table. Multi-value defines are
// spliced in place.
func (t *Topology) ReplaceDefines() {
	if t.ForceField == nil || len(t.Defines) == 0 {
		return
	}
	for _, name := range t.blockNames() {
		block, err := t.ForceField.Block(name)
		if err != nil {
			continue
		}
		for _, kind := range block.Template.InteractionKinds() {
			list := block.Template.Interactions(kind)
			for i := range list {
				list[i].Parameters = t.replaceParams(list[i].Parameters)
			}
		}
	}
}

func (t *Topology) replaceParams(params []molecule.Parameter) []molecule.Parameter {
	out := make([]molecule.Parameter, 0, len(params))
	for _, p := range params {
		if p.IsDeferred() {
			out = append(out, p)
			continue
		}
		values, ok := t.Defines[p.Value()]
		if !ok {
			out = append(out, p)
			continue
		}
		for _, v := range values {
			out = append(out, molecule.LiteralParameter(v))
		}
	}
	return out
}

func (t *Topology) blockNames() []string {
	seen := make(map[string]struct{})
	var names []string
	for _, m := range t.Molecules {
		for _, id := range m.Residues.Residues() {
			r, err := m.Residues.Residue(id)
			if err != nil {
				continue
			}
			if _, ok := seen[r.Name]; !ok {
				seen[r.Name] = struct{}{}
				names = append(names, r.Name)
			}
		}
	}
	sort.Strings(names)
	return names
}

// Preprocess applies defaults: generate pairs, substitute defines and, for
// C6/C12 topologies, convert the nonbonded table to sigma/epsilon form.
func (t *Topology) Preprocess() error {
	if err := t.GenPairs(); err != nil {
		return err
	}
	t.ReplaceDefines()
	if t.Defaults.CombRule == CombRuleC6C12 {
		t.ConvertToSigEps()
	}
	return nil
}
