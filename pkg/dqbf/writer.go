package dqbf

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
)

type WriteOptions struct {
	Provenance bool // Emit the "c zprime mapping" comment block when the formula has proxies
}

func DefaultWriteOptions() WriteOptions {
	return WriteOptions{Provenance: true}
}

// ToFile writes the formula to file, creating or truncating it
func ToFile(file string, formula Formula, options WriteOptions) error {
	writer, err := os.Create(file)
	if err != nil {
		return fmt.Errorf("cannot open output file: %w", err)
	}

	if err := Write(writer, formula, options); err != nil {
		writer.Close()
		return fmt.Errorf("cannot write %v: %w", file, err)
	}
	return writer.Close()
}

// Write serializes the formula in DQDIMACS: comments, provenance block, header, universal line,
// one dependency line per key in ascending order and one line per clause
func Write(w io.Writer, formula Formula, options WriteOptions) error {
	writer := bufio.NewWriter(w)

	for _, comment := range formula.Comments {
		fmt.Fprintln(writer, comment)
	}

	if options.Provenance && len(formula.Proxies) > 0 {
		writer.WriteString("c zprime mapping (z -> z'):\n")
		for _, variable := range formula.ProxyKeys() {
			fmt.Fprintf(writer, "c   %d -> %d\n", variable, formula.Proxies[variable])
		}
	}

	fmt.Fprintf(writer, "p cnf %d %d\n", formula.Matrix.Variables, formula.DeclaredClauses)

	if len(formula.Universals) > 0 {
		writeLine(writer, "a", formula.Universals)
	}

	for _, variable := range formula.DependencyKeys() {
		writeLine(writer, fmt.Sprintf("d %d", variable), formula.Dependencies[variable])
	}

	for _, clause := range formula.Matrix.Clauses {
		writeLine(writer, "", clause)
	}

	return writer.Flush()
}

// ToDQDIMACS renders the formula with the default options
func (f Formula) ToDQDIMACS() string {
	var builder strings.Builder
	Write(&builder, f, DefaultWriteOptions()) // Writing into a strings.Builder cannot fail
	return builder.String()
}

func writeLine(writer *bufio.Writer, prefix string, values []int64) {
	if prefix != "" {
		writer.WriteString(prefix)
		writer.WriteByte(' ')
	}
	for _, value := range values {
		fmt.Fprintf(writer, "%d ", value)
	}
	writer.WriteString("0\n")
}
