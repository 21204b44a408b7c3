package main

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"log"
	"math/rand/v2"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/limaJavier/dqmax2dssat/pkg/convert"
	"github.com/limaJavier/dqmax2dssat/pkg/dqbf"
	"github.com/samber/lo"
)

const (
	executablePath             = "../../bin/dqmax2dssat"
	resultsFile                = "benchmark_results.csv"
	seed                       = 2025
	instancesPerShape          = 3
	clausesPerVariable         = 4
	MB                 float32 = 1024
)

type ResultType int

const (
	converted ResultType = iota
	failed
)

var resultTypes = map[ResultType]string{
	converted: "converted",
	failed:    "failed",
}

type TestMetadata struct {
	Name           string
	Shape          dqbf.GeneratorParams
	AddedVariables uint64
	AddedClauses   uint64
}

type BenchmarkResult struct {
	Test          TestMetadata
	Duration      int64
	Memory        float32
	CpuPercentage int64
	Result        ResultType
}

func main() {
	directory, err := os.MkdirTemp("", "dqmax2dssat-benchmark-*")
	if err != nil {
		log.Fatalf("cannot create instance directory: %v", err)
	}
	defer os.RemoveAll(directory)

	tests := getTests(directory)
	results := make([]BenchmarkResult, 0, len(tests))

	for _, test := range tests {
		fmt.Printf("Benchmarking test \"%v\" with x=%v, y=%v, z=%v and %v clauses\n", test.Name, test.Shape.Dependent, test.Shape.Universals, test.Shape.Existentials, test.Shape.Clauses)

		duration, maxMemory, cpuPercentage, result := measure(test.Name, test.Name+".dssat")

		results = append(results, BenchmarkResult{
			Test:          test,
			Duration:      duration,
			Memory:        maxMemory,
			CpuPercentage: cpuPercentage,
			Result:        result,
		})
	}

	toCsv(results)
}

// getTests writes the generated instances into directory
func getTests(directory string) []TestMetadata {
	rng := rand.New(rand.NewPCG(seed, seed))
	tests := make([]TestMetadata, 0)

	for _, shape := range getShapes() {
		for i := range instancesPerShape {
			formula := dqbf.Generate(rng, shape)
			_, stats := convert.Convert(formula)

			filename := filepath.Join(directory, fmt.Sprintf("inst_%03d_x%d_y%d_z%d.dqdimacs", len(tests)+1, shape.Dependent, shape.Universals, shape.Existentials))
			if err := dqbf.ToFile(filename, formula, dqbf.DefaultWriteOptions()); err != nil {
				log.Fatalf("cannot write instance %v of shape %+v: %v", i, shape, err)
			}

			tests = append(tests, TestMetadata{
				Name:           filename,
				Shape:          shape,
				AddedVariables: stats.AddedVariables,
				AddedClauses:   stats.AddedClauses,
			})
		}
	}

	return tests
}

func getShapes() []dqbf.GeneratorParams {
	sizes := []uint64{10, 100, 1000, 5000}
	return lo.FlatMap(sizes, func(size uint64, _ int) []dqbf.GeneratorParams {
		return lo.Map(lo.Zip2([]uint64{1, 2, 4}, []uint64{2, 1, 1}), func(ratio lo.Tuple2[uint64, uint64], _ int) dqbf.GeneratorParams {
			dependent, universals := ratio.A, ratio.B
			variables := size * (dependent + universals + 1)
			return dqbf.GeneratorParams{
				Dependent:    size * dependent,
				Universals:   size * universals,
				Existentials: size,
				Clauses:      int(variables) * clausesPerVariable,
			}
		})
	})
}

func measure(inFile, outFile string) (duration int64, maxMemory float32, cpuPercentage int64, result ResultType) {
	cmd := exec.Command("/usr/bin/time", "-v", executablePath, inFile, outFile)

	var stdOut bytes.Buffer
	cmd.Stdout = &stdOut
	var stdErr bytes.Buffer
	cmd.Stderr = &stdErr

	cmd.Run()
	if cmd.ProcessState.ExitCode() != 0 {
		log.Printf("an error occurred during the execution of \"dqmax2dssat\" at test \"%v\": %v\n", inFile, stdErr.String())
		result = failed
	} else {
		result = converted
	}
	splits := strings.Split(stdErr.String(), "\n")
	getLine := func(substr string) string {
		line, ok := lo.Find(splits, func(line string) bool {
			return strings.Contains(strings.ToLower(line), substr)
		})
		if !ok {
			log.Fatalf("Substring \"%v\" could not be found", substr)
		}
		return line
	}

	duration = parseDurationLine(getLine("wall clock"))
	maxMemory = parseMemoryLine(getLine("maximum resident set size"))
	cpuPercentage = parseCpuPercentageLine(getLine("percent of cpu"))

	return duration, maxMemory, cpuPercentage, result
}

func toCsv(results []BenchmarkResult) {
	file, err := os.Create(resultsFile)
	if err != nil {
		log.Panicf("cannot create CSV file: %v", err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	header := []string{"Test", "Dependent", "Universals", "Existentials", "Clauses", "Added Variables", "Added Clauses", "Duration(ms)", "Memory(MB)", "CPU(%)", "Result"}
	if err := writer.Write(header); err != nil {
		log.Panicf("cannot write CSV header: %v", err)
	}

	for _, result := range results {
		record := []string{
			filepath.Base(result.Test.Name),
			fmt.Sprintf("%d", result.Test.Shape.Dependent),
			fmt.Sprintf("%d", result.Test.Shape.Universals),
			fmt.Sprintf("%d", result.Test.Shape.Existentials),
			fmt.Sprintf("%d", result.Test.Shape.Clauses),
			fmt.Sprintf("%d", result.Test.AddedVariables),
			fmt.Sprintf("%d", result.Test.AddedClauses),
			fmt.Sprintf("%d", result.Duration),
			fmt.Sprintf("%.1f", result.Memory),
			fmt.Sprintf("%d", result.CpuPercentage),
			resultTypes[result.Result],
		}
		if err := writer.Write(record); err != nil {
			log.Panicf("cannot write CSV record: %v", err)
		}
	}
}

func parseDurationLine(line string) int64 {
	durationStr := strings.Split(line, "(h:mm:ss or m:ss):")[1][1:]
	return parseDuration(durationStr)
}

func parseDuration(durationStr string) int64 {
	parts := strings.Split(durationStr, ":")
	secondsStr := parts[len(parts)-1]
	secondsParts := strings.Split(secondsStr, ".")

	var duration int64
	if len(parts) == 3 { // h:mm:ss
		hours := lo.Must(strconv.Atoi(parts[0]))
		minutes := lo.Must(strconv.Atoi(parts[1]))
		seconds := lo.Must(strconv.Atoi(secondsParts[0]))
		hundredthOfSeconds := lo.Must(strconv.Atoi(secondsParts[1]))
		duration = int64(hours*3600+minutes*60+seconds)*1000 + int64(hundredthOfSeconds*10)
	} else if len(parts) == 2 { // m:ss
		minutes := lo.Must(strconv.Atoi(parts[0]))
		seconds := lo.Must(strconv.Atoi(secondsParts[0]))
		hundredthOfSeconds := lo.Must(strconv.Atoi(secondsParts[1]))
		duration = int64(minutes*60+seconds)*1000 + int64(hundredthOfSeconds*10)
	} else {
		log.Fatalf("unexpected duration format: %v", durationStr)
	}
	return duration
}

// parseMemoryLine converts the resident set size reported in KB into MB
func parseMemoryLine(line string) float32 {
	memoryStr := strings.TrimSpace(strings.Split(line, ":")[1])
	return float32(lo.Must(strconv.ParseFloat(memoryStr, 32))) / MB
}

func parseCpuPercentageLine(line string) int64 {
	percentageStr := strings.TrimSpace(strings.Split(line, ":")[1])
	percentageStr = strings.TrimSuffix(percentageStr, "%")
	return int64(lo.Must(strconv.Atoi(percentageStr)))
}
