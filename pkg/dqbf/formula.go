package dqbf

import (
	"maps"
	"slices"

	"github.com/limaJavier/dqmax2dssat/pkg/sat"
	"github.com/samber/lo"
)

// Formula is a dependency-annotated quantified CNF formula.
//
// Variables of the universe are 1..Matrix.Variables. Universals holds the variables of the "a"
// line, Dependencies maps every variable of a "d" line to the variables it depends on. The
// presence of a key in Dependencies, not the size of its value, is what makes a variable
// dependency-bearing.
type Formula struct {
	Comments        []string          // Comment lines, verbatim and in order
	DeclaredClauses uint64            // Clause count of the header. Advisory, never checked against Matrix
	Universals      []int64           // Ascending and duplicate-free
	Dependencies    map[int64][]int64 // Every value is ascending and duplicate-free
	Matrix          sat.SAT
	Proxies         map[int64]int64 // Existential variable -> proxy introduced for it. Empty on parsed formulas
}

func NewFormula() Formula {
	return Formula{
		Comments:     make([]string, 0),
		Universals:   make([]int64, 0),
		Dependencies: make(map[int64][]int64),
		Matrix:       sat.SAT{Clauses: make([][]int64, 0)},
		Proxies:      make(map[int64]int64),
	}
}

func (f Formula) Variables() uint64 {
	return f.Matrix.Variables
}

// DependencyKeys returns the dependency-bearing variables in ascending order
func (f Formula) DependencyKeys() []int64 {
	keys := lo.Keys(f.Dependencies)
	slices.Sort(keys)
	return keys
}

// ProxyKeys returns the variables that own a proxy in ascending order
func (f Formula) ProxyKeys() []int64 {
	keys := lo.Keys(f.Proxies)
	slices.Sort(keys)
	return keys
}

// Clone returns a deep copy sharing no memory with f
func (f Formula) Clone() Formula {
	dependencies := make(map[int64][]int64, len(f.Dependencies))
	for variable, deps := range f.Dependencies {
		dependencies[variable] = append(make([]int64, 0, len(deps)), deps...)
	}

	proxies := maps.Clone(f.Proxies)
	if proxies == nil {
		proxies = make(map[int64]int64)
	}

	return Formula{
		Comments:        append(make([]string, 0, len(f.Comments)), f.Comments...),
		DeclaredClauses: f.DeclaredClauses,
		Universals:      append(make([]int64, 0, len(f.Universals)), f.Universals...),
		Dependencies:    dependencies,
		Matrix:          f.Matrix.Clone(),
		Proxies:         proxies,
	}
}

// normalize sorts and deduplicates a variable sequence, the canonical form of every variable set in a Formula
func normalize(variables []int64) []int64 {
	normalized := lo.Uniq(variables)
	slices.Sort(normalized)
	return normalized
}
