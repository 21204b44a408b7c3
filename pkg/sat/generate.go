package sat

import "math/rand/v2"

// GenerateSATInstance builds a random matrix over variables 1..variables with clauses of exactly width literals
func GenerateSATInstance(rng *rand.Rand, variables uint64, clauses int, width int) SAT {
	satInstance := SAT{
		Variables: variables,
		Clauses:   make([][]int64, clauses),
	}

	for i := range clauses {
		satInstance.Clauses[i] = make([]int64, width)
		for j := range width {
			var sign int64 = 1
			if rng.Float32() < 0.5 {
				sign = -1
			}
			satInstance.Clauses[i][j] = sign * (1 + rng.Int64N(int64(variables)))
		}
	}

	return satInstance
}
