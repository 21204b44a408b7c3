package convert

import (
	"fmt"
	"io"
	"strings"

	"github.com/samber/lo"
)

// Stats describes a conversion. Clause counts are the declared ones of the headers.
type Stats struct {
	OldVariables     uint64
	OldClauses       uint64
	NewVariables     uint64
	NewClauses       uint64
	AddedVariables   uint64 // |hatZ|, one proxy each
	AddedClauses     uint64 // 2·|hatZ|
	Existentials     uint64 // |Z|
	HatZ             []int64
	FreeExistentials uint64  // |Z \ hatZ|
	Overlapping      []int64 // Declared universal and dependency-bearing at once; such variables are left out of Z
	ParsedClauses    uint64  // Clauses actually present in the input
}

// ClauseCountMismatch reports whether the input header declared a clause count other than the parsed one
func (s Stats) ClauseCountMismatch() bool {
	return s.OldClauses != s.ParsedClauses
}

// WriteVerbose prints the human-readable conversion report
func (s Stats) WriteVerbose(w io.Writer) {
	hatZ := "(none)"
	if len(s.HatZ) > 0 {
		hatZ = strings.Join(lo.Map(s.HatZ, func(variable int64, _ int) string { return fmt.Sprint(variable) }), ", ")
	}

	fmt.Fprintf(w, "detected existential variables in dependency sets (hatZ): %v\n", hatZ)
	fmt.Fprintf(w, "Converted %d dependency-free existential variables\n", s.FreeExistentials)
	fmt.Fprintf(w, "Converted %d existential variables in dependency sets\n", len(s.HatZ))
	fmt.Fprintf(w, "Added number of variables: %d\n", s.AddedVariables)
	fmt.Fprintf(w, "Added number of clauses: %d\n", s.AddedClauses)
	fmt.Fprintf(w, "Old (V, C): (%d, %d)\n", s.OldVariables, s.OldClauses)
	fmt.Fprintf(w, "New (V, C): (%d, %d)\n", s.NewVariables, s.NewClauses)
}
