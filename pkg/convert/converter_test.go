package convert

import (
	"math/rand/v2"
	"slices"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/limaJavier/dqmax2dssat/pkg/dqbf"
	"github.com/onsi/gomega"
	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parse(t *testing.T, input ...string) dqbf.Formula {
	t.Helper()
	formula, err := dqbf.Parse(strings.NewReader(lines(input...)))
	require.NoError(t, err)
	return formula
}

func lines(values ...string) string {
	return strings.Join(values, "\n") + "\n"
}

func TestConvertSingleReferencedExistential(t *testing.T) {
	//** Arrange
	formula := parse(t, "p cnf 3 1", "a 2 0", "d 1 3 0", "-1 2 3 0")

	//** Act
	output, stats := Convert(formula)

	//** Assert
	assert.Equal(t, lines(
		"c zprime mapping (z -> z'):",
		"c   3 -> 4",
		"p cnf 4 3",
		"a 2 4 0",
		"d 1 4 0",
		"d 3 2 0",
		"-1 2 3 0",
		"-4 3 0",
		"-3 4 0",
	), output.ToDQDIMACS())

	assert.Equal(t, []int64{3}, stats.HatZ)
	assert.Equal(t, uint64(0), stats.FreeExistentials)
	assert.Equal(t, uint64(1), stats.Existentials)
	assert.Equal(t, uint64(1), stats.AddedVariables)
	assert.Equal(t, uint64(2), stats.AddedClauses)
	assert.Equal(t, [2]uint64{3, 1}, [2]uint64{stats.OldVariables, stats.OldClauses})
	assert.Equal(t, [2]uint64{4, 3}, [2]uint64{stats.NewVariables, stats.NewClauses})
	assert.Empty(t, stats.Overlapping)
	assert.False(t, stats.ClauseCountMismatch())
}

func TestConvertWithoutUniversals(t *testing.T) {
	formula := parse(t, "p cnf 3 1", "d 1 2 0", "1 2 3 0")

	output, stats := Convert(formula)

	assert.Equal(t, lines(
		"c zprime mapping (z -> z'):",
		"c   2 -> 4",
		"p cnf 4 3",
		"a 4 0",
		"d 1 4 0",
		"d 2 0",
		"d 3 0",
		"1 2 3 0",
		"-4 2 0",
		"-2 4 0",
	), output.ToDQDIMACS())
	assert.Equal(t, []int64{2}, stats.HatZ)
	assert.Equal(t, uint64(1), stats.FreeExistentials)
}

func TestConvertWithoutDependencies(t *testing.T) {
	formula := parse(t, "c kept", "p cnf 3 2", "a 1 0", "1 2 0", "-2 3 0")

	output, stats := Convert(formula)

	assert.Equal(t, lines(
		"c kept",
		"p cnf 3 2",
		"a 1 0",
		"d 2 1 0",
		"d 3 1 0",
		"1 2 0",
		"-2 3 0",
	), output.ToDQDIMACS())
	assert.Empty(t, stats.HatZ)
	assert.Empty(t, output.Proxies)
	assert.Equal(t, uint64(2), stats.FreeExistentials)
	assert.Equal(t, stats.OldVariables, stats.NewVariables)
	assert.Equal(t, stats.OldClauses, stats.NewClauses)
}

func TestConvertMultipleProxiesAscending(t *testing.T) {
	formula := parse(t, "p cnf 7 0", "a 1 2 0", "d 3 7 5 1 0", "d 4 5 0", "d 6 0")

	output, stats := Convert(formula)

	assert.Equal(t, []int64{5, 7}, stats.HatZ)
	assert.Equal(t, map[int64]int64{5: 8, 7: 9}, output.Proxies)
	assert.Equal(t, []int64{1, 2, 8, 9}, output.Universals)
	assert.Equal(t, map[int64][]int64{
		3: {1, 8, 9},
		4: {8},
		6: {},
		5: {1, 2},
		7: {1, 2},
	}, output.Dependencies)
	assert.Equal(t, [][]int64{{-8, 5}, {-5, 8}, {-9, 7}, {-7, 9}}, output.Matrix.Clauses)
	assert.Equal(t, uint64(9), output.Variables())
	assert.Equal(t, uint64(4), output.DeclaredClauses)
}

func TestConvertIgnoresDependenciesOnUniversalsAndDependent(t *testing.T) {
	// 2 is universal and 3 is dependency-bearing, neither of them gets a proxy
	formula := parse(t, "p cnf 4 0", "a 2 0", "d 1 2 3 0", "d 3 0")

	output, stats := Convert(formula)

	assert.Empty(t, stats.HatZ)
	assert.Equal(t, []int64{2, 3}, output.Dependencies[1])
	assert.Equal(t, []int64{2}, output.Dependencies[4])
	assert.Equal(t, uint64(4), output.Variables())
}

func TestConvertOverlappingDeclarations(t *testing.T) {
	formula := parse(t, "p cnf 3 0", "a 1 2 0", "d 1 3 0")

	output, stats := Convert(formula)

	assert.Equal(t, []int64{1}, stats.Overlapping)
	assert.Equal(t, uint64(1), stats.Existentials)
	assert.Equal(t, []int64{3}, stats.HatZ)
	assert.Equal(t, []int64{4}, output.Dependencies[1])
	assert.Equal(t, []int64{1, 2}, output.Dependencies[3])
	assert.Equal(t, []int64{1, 2, 4}, output.Universals)
}

func TestConvertReportsClauseCountMismatch(t *testing.T) {
	formula := parse(t, "p cnf 2 5", "1 2 0")

	output, stats := Convert(formula)

	assert.True(t, stats.ClauseCountMismatch())
	assert.Equal(t, uint64(1), stats.ParsedClauses)
	assert.Equal(t, uint64(5), output.DeclaredClauses)
}

func TestConvertEmptyFormula(t *testing.T) {
	output, stats := Convert(dqbf.NewFormula())

	assert.Equal(t, "p cnf 0 0\n", output.ToDQDIMACS())
	assert.Zero(t, stats.Existentials)
}

func TestConvertDoesNotModifyInput(t *testing.T) {
	formula := parse(t, "c comment", "p cnf 5 2", "a 1 0", "d 2 3 4 0", "-2 3 0", "4 5 0")
	snapshot := formula.Clone()

	output, _ := Convert(formula)
	output.Comments[0] = "c changed"
	output.Matrix.Clauses[0][0] = 9
	output.Dependencies[2][0] = 9

	if diff := cmp.Diff(snapshot, formula); diff != "" {
		t.Errorf("input was modified (-want +got):\n%s", diff)
	}
}

func TestConvertDeterministic(t *testing.T) {
	rng := rand.New(rand.NewPCG(11, 13))
	for range 10 {
		formula := dqbf.Generate(rng, dqbf.GeneratorParams{Dependent: 4, Universals: 3, Existentials: 6, Clauses: 15})

		first, _ := Convert(formula)
		second, _ := Convert(formula)

		assert.Equal(t, first.ToDQDIMACS(), second.ToDQDIMACS())
	}
}

func TestConvertProperties(t *testing.T) {
	g := gomega.NewWithT(t)
	rng := rand.New(rand.NewPCG(17, 19))

	for range 50 {
		//** Arrange
		formula := dqbf.Generate(rng, dqbf.GeneratorParams{
			Dependent:    uint64(rng.IntN(6)),
			Universals:   uint64(rng.IntN(6)),
			Existentials: uint64(rng.IntN(8)),
			Clauses:      rng.IntN(30),
		})
		universe := lo.RangeFrom(int64(1), int(formula.Variables()))
		existentials := lo.Without(universe, lo.Union(formula.Universals, formula.DependencyKeys())...)

		//** Act
		output, stats := Convert(formula)

		//** Assert
		hatZ := uint64(len(stats.HatZ))
		g.Expect(output.Variables()).To(gomega.Equal(formula.Variables() + hatZ))
		g.Expect(output.DeclaredClauses).To(gomega.Equal(formula.DeclaredClauses + 2*hatZ))
		g.Expect(output.Matrix.Clauses).To(gomega.HaveLen(len(formula.Matrix.Clauses) + 2*len(stats.HatZ)))
		g.Expect(stats.FreeExistentials + hatZ).To(gomega.Equal(uint64(len(existentials))))

		// Key set is X ∪ Z
		expectedKeys := append(formula.DependencyKeys(), existentials...)
		slices.Sort(expectedKeys)
		g.Expect(output.DependencyKeys()).To(gomega.Equal(expectedKeys))

		// Every existential depends on the whole universal set
		for _, variable := range existentials {
			g.Expect(output.Dependencies[variable]).To(gomega.Equal(formula.Universals))
		}

		// Rewired dependency sets are strictly ascending and refer to proxies instead of hatZ
		proxies := lo.Values(output.Proxies)
		for variable, deps := range formula.Dependencies {
			rewired := output.Dependencies[variable]
			g.Expect(slices.IsSorted(rewired)).To(gomega.BeTrue())
			g.Expect(slices.Compact(slices.Clone(rewired))).To(gomega.HaveLen(len(rewired)))
			for _, dependency := range rewired {
				if lo.Contains(proxies, dependency) {
					continue
				}
				g.Expect(deps).To(gomega.ContainElement(dependency))
				g.Expect(stats.HatZ).NotTo(gomega.ContainElement(dependency))
			}
		}

		// Proxies are consecutive from V+1 in ascending order of their variable
		for i, variable := range stats.HatZ {
			proxy := int64(formula.Variables()) + int64(i) + 1
			g.Expect(output.Proxies).To(gomega.HaveKeyWithValue(variable, proxy))
			g.Expect(output.Universals).To(gomega.ContainElement(proxy))

			offset := len(formula.Matrix.Clauses) + 2*i
			g.Expect(output.Matrix.Clauses[offset]).To(gomega.Equal([]int64{-proxy, variable}))
			g.Expect(output.Matrix.Clauses[offset+1]).To(gomega.Equal([]int64{-variable, proxy}))
		}

		// Original clauses come first, untouched
		g.Expect(output.Matrix.Clauses[:len(formula.Matrix.Clauses)]).To(gomega.Equal(formula.Matrix.Clauses))
	}
}
