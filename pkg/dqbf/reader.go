package dqbf

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// FromFile reads a DQDIMACS file
func FromFile(file string) (Formula, error) {
	reader, err := os.Open(file)
	if err != nil {
		return Formula{}, fmt.Errorf("cannot open input file: %w", err)
	}
	defer reader.Close()

	formula, err := Parse(reader)
	if err != nil {
		return Formula{}, fmt.Errorf("cannot parse %v: %w", file, err)
	}
	return formula, nil
}

// Parse reads a DQDIMACS formula.
//
// Lines are classified by their first byte: 'c' comment, 'p' header, 'a' universal variables,
// 'd' dependency declaration; any other non-empty line is a clause. Reading a line stops at the
// 0 sentinel or at the first token that is not an integer. Ranges, duplicates across lines and
// overlapping declarations are not validated.
func Parse(r io.Reader) (Formula, error) {
	formula := NewFormula()
	universals := make([]int64, 0)

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 64*1024*1024)

	lineNumber := 0
	for scanner.Scan() {
		lineNumber++
		line := scanner.Text()
		if len(line) == 0 {
			continue
		}

		switch line[0] {
		case 'c':
			formula.Comments = append(formula.Comments, line)
		case 'p':
			variables, clauses, err := parseHeader(line)
			if err != nil {
				return Formula{}, fmt.Errorf("line %d: %w", lineNumber, err)
			}
			formula.Matrix.Variables = variables
			formula.DeclaredClauses = clauses
		case 'a':
			universals = append(universals, readLiterals(strings.Fields(line[1:]))...)
		case 'd':
			fields := strings.Fields(line[1:])
			if len(fields) == 0 {
				continue
			}
			lhs, err := strconv.ParseInt(fields[0], 10, 64)
			if err != nil {
				continue
			}
			// The entry exists even when no dependency follows
			deps := append(formula.Dependencies[lhs], readLiterals(fields[1:])...)
			formula.Dependencies[lhs] = normalize(deps)
		default:
			clause := readLiterals(strings.Fields(line))
			if len(clause) > 0 {
				formula.Matrix.Clauses = append(formula.Matrix.Clauses, clause)
			}
		}
	}

	if err := scanner.Err(); err != nil {
		return Formula{}, fmt.Errorf("error reading input: %w", err)
	}

	formula.Universals = normalize(universals)
	return formula, nil
}

func parseHeader(line string) (variables uint64, clauses uint64, err error) {
	fields := strings.Fields(line)
	if len(fields) < 4 {
		return 0, 0, fmt.Errorf("invalid problem line: %q", line)
	}
	variables, err = strconv.ParseUint(fields[2], 10, 64)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid variable count: %w", err)
	}
	clauses, err = strconv.ParseUint(fields[3], 10, 64)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid clause count: %w", err)
	}
	return variables, clauses, nil
}

// readLiterals returns the integers preceding the 0 sentinel
func readLiterals(fields []string) []int64 {
	literals := make([]int64, 0, len(fields))
	for _, field := range fields {
		literal, err := strconv.ParseInt(field, 10, 64)
		if err != nil || literal == 0 {
			break
		}
		literals = append(literals, literal)
	}
	return literals
}
