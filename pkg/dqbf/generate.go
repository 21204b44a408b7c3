package dqbf

import (
	"fmt"
	"math/rand/v2"

	"github.com/limaJavier/dqmax2dssat/pkg/sat"
	"github.com/samber/lo"
)

// GeneratorParams shapes a random instance. Variables 1..Dependent carry a dependency
// declaration, the next Universals variables are universal and the remaining Existentials
// variables are left undeclared.
type GeneratorParams struct {
	Dependent    uint64
	Universals   uint64
	Existentials uint64
	Clauses      int
	ClauseWidth  int // Literals per clause, 3 when zero
}

// Generate builds a random formula. Each dependency-bearing variable depends on a random
// non-empty subset of the existential variables (when there are any) and, with even odds, on
// some universal variables.
func Generate(rng *rand.Rand, params GeneratorParams) Formula {
	variables := params.Dependent + params.Universals + params.Existentials
	formula := NewFormula()
	formula.Comments = append(formula.Comments, fmt.Sprintf("c generated x=%d y=%d z=%d", params.Dependent, params.Universals, params.Existentials))

	dependent := lo.RangeFrom(int64(1), int(params.Dependent))
	universals := lo.RangeFrom(int64(params.Dependent)+1, int(params.Universals))
	existentials := lo.RangeFrom(int64(params.Dependent+params.Universals)+1, int(params.Existentials))

	formula.Universals = universals
	for _, variable := range dependent {
		deps := make([]int64, 0)
		if len(existentials) > 0 {
			deps = append(deps, sample(rng, existentials)...)
		}
		if len(universals) > 0 && rng.IntN(2) == 0 {
			deps = append(deps, sample(rng, universals)...)
		}
		formula.Dependencies[variable] = normalize(deps)
	}

	if variables > 0 {
		width := params.ClauseWidth
		if width <= 0 {
			width = 3
		}
		formula.Matrix = sat.GenerateSATInstance(rng, variables, params.Clauses, width)
	}
	formula.DeclaredClauses = uint64(len(formula.Matrix.Clauses))

	return formula
}

// sample picks a random non-empty subset of items
func sample(rng *rand.Rand, items []int64) []int64 {
	permutation := rng.Perm(len(items))[:1+rng.IntN(len(items))]
	return lo.Map(permutation, func(index int, _ int) int64 { return items[index] })
}
