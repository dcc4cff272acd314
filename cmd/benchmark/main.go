package main

import (
	"encoding/csv"
	"fmt"
	"math/rand"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/samber/lo"

	"github.com/limaJavier/twig/pkg/model"
)

const (
	rounds      = 5
	periods     = model.DefaultPeriods
	resultsFile = "benchmark_results.csv"
	seed        = 42
)

var subjects = []string{"MATH", "ENG", "SCI", "SST", "PBI", "HINDI", "ART", "PE"}

type Scenario struct {
	Name     string
	Classes  int
	Teachers int
	Random   bool // Teachers picked at random, so clashes are expected
}

type BenchmarkResult struct {
	Scenario    Scenario
	Assignments int
	Warnings    int
	Clashes     int
	Differences int
	Parse       time.Duration
	Transpose   time.Duration
	Reverse     time.Duration
	Diff        time.Duration
}

func main() {
	logger := log.NewWithOptions(os.Stderr, log.Options{Level: log.InfoLevel})
	results := make([]BenchmarkResult, 0)

	for _, scenario := range getScenarios() {
		logger.Info("benchmarking", "scenario", scenario.Name, "classes", scenario.Classes, "teachers", scenario.Teachers)
		result, err := measure(scenario, rand.New(rand.NewSource(seed)))
		if err != nil {
			logger.Fatal("benchmark failed", "scenario", scenario.Name, "err", err)
		}
		results = append(results, result)
	}

	if err := toCsv(results); err != nil {
		logger.Fatal("cannot write results", "file", resultsFile, "err", err)
	}
	logger.Info("results written", "file", resultsFile)
}

func getScenarios() []Scenario {
	return []Scenario{
		{Name: "small", Classes: 12, Teachers: 20},
		{Name: "medium", Classes: 40, Teachers: 60},
		{Name: "large", Classes: 120, Teachers: 180},
		{Name: "medium-random", Classes: 40, Teachers: 60, Random: true},
		{Name: "large-random", Classes: 120, Teachers: 180, Random: true},
	}
}

func className(index int) string {
	return fmt.Sprintf("%d%c", 6+index/4, 'A'+index%4)
}

func teacherCode(index int) string {
	return fmt.Sprintf("%c%c", 'A'+index/26%26, 'A'+index%26)
}

// generate builds a classwise sheet where every cell splits the week between two teachers.
// Unless the scenario is random, classes of one period never share a teacher on the same day.
func generate(scenario Scenario, rng *rand.Rand) []model.RawCell {
	raws := make([]model.RawCell, 0, scenario.Classes*periods)
	for class := 0; class < scenario.Classes; class++ {
		for period := 1; period <= periods; period++ {
			first := (class + period) % scenario.Teachers
			if scenario.Random {
				first = rng.Intn(scenario.Teachers)
			}
			second := (first + 1) % scenario.Teachers
			subject := subjects[(period-1)%len(subjects)]

			raws = append(raws, model.RawCell{
				Row:    className(class),
				Column: period,
				Text:   fmt.Sprintf("%v (1-3) %v\n%v (4-6) %v", subject, teacherCode(first), subject, teacherCode(second)),
			})
		}
	}
	return raws
}

func measure(scenario Scenario, rng *rand.Rand) (BenchmarkResult, error) {
	result := BenchmarkResult{Scenario: scenario}
	raws := generate(scenario, rng)
	parser := model.NewParser(model.ParserOptions{})
	transposer := model.NewTransposer(model.TransposerOptions{Periods: periods})

	for round := 0; round < rounds; round++ {
		start := time.Now()
		classwise, warnings, err := model.LoadGrid(model.Classwise, periods, parser, raws)
		if err != nil {
			return result, err
		}
		result.Parse += time.Since(start)

		start = time.Now()
		teacherwise, clashes, err := transposer.Transpose(classwise)
		if err != nil {
			return result, err
		}
		result.Transpose += time.Since(start)

		start = time.Now()
		reversed, _, err := transposer.Transpose(teacherwise)
		if err != nil {
			return result, err
		}
		result.Reverse += time.Since(start)

		start = time.Now()
		report, err := model.Diff(classwise, reversed)
		if err != nil {
			return result, err
		}
		result.Diff += time.Since(start)

		result.Warnings = len(warnings)
		result.Clashes = len(clashes)
		result.Differences = len(report.Cells)
		result.Assignments = lo.SumBy(classwise.Keys(), func(key string) int {
			return lo.SumBy(classwise.Columns(), func(column int) int { return len(classwise.Cell(key, column).Assignments) })
		})
	}

	result.Parse /= rounds
	result.Transpose /= rounds
	result.Reverse /= rounds
	result.Diff /= rounds
	return result, nil
}

func toCsv(results []BenchmarkResult) error {
	file, err := os.Create(resultsFile)
	if err != nil {
		return err
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	header := []string{"Scenario", "Classes", "Teachers", "Random", "Assignments", "Warnings", "Clashes", "Differences", "Parse(us)", "Transpose(us)", "Reverse(us)", "Diff(us)"}
	if err := writer.Write(header); err != nil {
		return err
	}

	for _, result := range results {
		record := []string{
			result.Scenario.Name,
			fmt.Sprintf("%d", result.Scenario.Classes),
			fmt.Sprintf("%d", result.Scenario.Teachers),
			fmt.Sprintf("%v", result.Scenario.Random),
			fmt.Sprintf("%d", result.Assignments),
			fmt.Sprintf("%d", result.Warnings),
			fmt.Sprintf("%d", result.Clashes),
			fmt.Sprintf("%d", result.Differences),
			micros(result.Parse),
			micros(result.Transpose),
			micros(result.Reverse),
			micros(result.Diff),
		}
		if err := writer.Write(record); err != nil {
			return err
		}
	}
	return nil
}

func micros(duration time.Duration) string {
	return fmt.Sprintf("%d", duration.Microseconds())
}
