package sat

import (
	"fmt"
	"strings"
)

// SAT is a propositional CNF matrix. Variables is the declared variable count
type SAT struct {
	Variables uint64
	Clauses   [][]int64
}

func (s SAT) ToDIMACS() string {
	var builder strings.Builder
	fmt.Fprintf(&builder, "p cnf %d %d\n", s.Variables, len(s.Clauses))
	for _, clause := range s.Clauses {
		for _, literal := range clause {
			fmt.Fprintf(&builder, "%d ", literal)
		}
		builder.WriteString("0\n")
	}
	return builder.String()
}

// Clone returns a deep copy of the matrix
func (s SAT) Clone() SAT {
	clauses := make([][]int64, len(s.Clauses))
	for i, clause := range s.Clauses {
		clauses[i] = append([]int64(nil), clause...)
	}
	return SAT{Variables: s.Variables, Clauses: clauses}
}

// Equivalence returns the two binary clauses encoding a <-> b, in the order (-b a), (-a b)
func Equivalence(a, b int64) [][]int64 {
	return [][]int64{
		{-b, a},
		{-a, b},
	}
}
