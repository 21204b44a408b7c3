// Package convert rewrites a DQDIMACS formula with dependency-annotated existential
// variables into a DSSAT formula whose existential variables depend on the whole universal set.
package convert

import (
	"slices"

	"github.com/limaJavier/dqmax2dssat/pkg/dqbf"
	"github.com/limaJavier/dqmax2dssat/pkg/sat"
	"github.com/samber/lo"
)

// Convert applies the Theorem-1 construction.
//
// With Y the universal variables and X the dependency-bearing ones, Z = {1..V} \ (Y ∪ X). The
// variables of Z referenced by some dependency set (hatZ) get a fresh proxy V+1, V+2, ... in
// ascending order; proxies join the universal set and replace their variable inside the
// dependency sets of X, and the pair is tied by the clauses (-z' z) and (-z z'). Every variable
// of Z is finally declared as depending on all of Y.
//
// The input is never modified and the output shares no memory with it.
func Convert(formula dqbf.Formula) (dqbf.Formula, Stats) {
	variables := formula.Variables()
	universals := formula.Universals
	dependent := formula.DependencyKeys()

	//** Classify
	universe := lo.RangeFrom(int64(1), int(variables))
	existentials := lo.Without(universe, lo.Union(universals, dependent)...)

	referenced := lo.Uniq(lo.Flatten(lo.Values(formula.Dependencies)))
	hatZ := lo.Intersect(existentials, referenced)
	slices.Sort(hatZ)
	free := lo.Without(existentials, hatZ...)

	overlapping := lo.Intersect(universals, dependent)
	slices.Sort(overlapping)

	//** Allocate proxies
	proxies := make(map[int64]int64, len(hatZ))
	next := int64(variables)
	for _, variable := range hatZ {
		next++
		proxies[variable] = next
	}

	//** Build the output
	output := dqbf.NewFormula()
	output.Comments = slices.Clone(formula.Comments)
	output.Proxies = proxies

	output.Universals = append(append(make([]int64, 0, len(universals)+len(proxies)), universals...), lo.Values(proxies)...)
	slices.Sort(output.Universals)
	output.Universals = slices.Compact(output.Universals)

	// Dependency sets of X refer to proxies instead of their variable
	for variable, deps := range formula.Dependencies {
		rewired := lo.Map(deps, func(dependency int64, _ int) int64 {
			if proxy, ok := proxies[dependency]; ok {
				return proxy
			}
			return dependency
		})
		slices.Sort(rewired)
		output.Dependencies[variable] = slices.Compact(rewired)
	}

	// Every existential depends on the whole universal set
	for _, variable := range existentials {
		output.Dependencies[variable] = append(make([]int64, 0, len(universals)), universals...)
	}

	output.Matrix = formula.Matrix.Clone()
	for _, variable := range hatZ {
		output.Matrix.Clauses = append(output.Matrix.Clauses, sat.Equivalence(variable, proxies[variable])...)
	}

	addedVariables := uint64(len(hatZ))
	addedClauses := 2 * addedVariables
	output.Matrix.Variables = variables + addedVariables
	output.DeclaredClauses = formula.DeclaredClauses + addedClauses

	stats := Stats{
		OldVariables:     variables,
		OldClauses:       formula.DeclaredClauses,
		NewVariables:     output.Matrix.Variables,
		NewClauses:       output.DeclaredClauses,
		AddedVariables:   addedVariables,
		AddedClauses:     addedClauses,
		Existentials:     uint64(len(existentials)),
		HatZ:             hatZ,
		FreeExistentials: uint64(len(free)),
		Overlapping:      overlapping,
		ParsedClauses:    uint64(len(formula.Matrix.Clauses)),
	}

	return output, stats
}
