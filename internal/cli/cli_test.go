package cli

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	. "github.com/onsi/gomega"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/limaJavier/twig/internal/sheet"
	"github.com/limaJavier/twig/pkg/model"
)

var fixedNow = time.Date(2026, 1, 2, 9, 30, 0, 0, time.UTC)

var classwiseRows = [][]string{
	{"Name", "1", "2", "3"},
	{"10A", "MATH (1-3) SK\nMATH (4-6) RK", "ENG (1-6) AB", "SCI (1-6) PK"},
	{"10B", "ENG (1-6) CD", "MATH (1-6) SK", ""},
}

var teachersRows = [][]string{
	{"SHORTNAME", "NAME"},
	{"RK", "Rita Kaur"},
	{"SK", "Sunil Kumar"},
}

func writeWorkbook(t *testing.T, sheets map[string][][]string) string {
	t.Helper()
	bytes, err := json.Marshal(map[string]any{"sheets": sheets})
	require.NoError(t, err)
	path := filepath.Join(t.TempDir(), "timetable.json")
	require.NoError(t, os.WriteFile(path, bytes, 0o644))
	return path
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	root := newRootCommand(&out, func() time.Time { return fixedNow })
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func readRows(t *testing.T, path, sheetName string) [][]string {
	t.Helper()
	workbook, err := sheet.Open(path)
	require.NoError(t, err)
	rows, err := workbook.Rows(sheetName)
	require.NoError(t, err)
	return rows
}

func TestTeacherwise(t *testing.T) {
	t.Run("Correct flow", func(t *testing.T) {
		//** Arrange
		input := writeWorkbook(t, map[string][][]string{"CLASSWISE": classwiseRows, "TEACHERS": teachersRows})
		output := filepath.Join(t.TempDir(), "out.json")

		//** Act
		_, err := execute(t, "teacherwise", input, output, "--fullname")

		//** Assert
		require.NoError(t, err)
		rows := readRows(t, output, "TEACHERWISE")
		assert.Equal(t, []string{"Name", "1", "2", "3", "4", "5", "6", "7", "8", "Periods"}, rows[0])
		assert.Equal(t, []string{"Rita Kaur, RK", "MATH (4-6) 10A", "", "", "", "", "", "", "", "3"}, rows[1])
		assert.Equal(t, []string{"Sunil Kumar, SK", "MATH (1-3) 10A", "MATH (1-6) 10B", "", "", "", "", "", "", "9"}, rows[2])
		assert.Equal(t, []string{"AB", "", "ENG (1-6) 10A", "", "", "", "", "", "", "6"}, rows[3])
		assert.Equal(t, []string{"Last updated on 02 Jan 2026 09:30"}, rows[len(rows)-1])

		vacant := readRows(t, output, "VACANT")
		assert.Equal(t, []string{"Teacher", "1", "2", "3", "4", "5", "6"}, vacant[0])
		assert.Equal(t, []string{"SK", "6", "6", "6", "7", "7", "7"}, vacant[2])

		free := readRows(t, output, "FREE_TEACHERS")
		assert.Len(t, free, 7)
		assert.Equal(t, "RK:8, AB:7, PK:7", free[1][1])

		// The input workbook is left untouched when an output file is given
		assert.Equal(t, classwiseRows, readRows(t, input, "CLASSWISE"))
	})

	t.Run("Clashes are marked and reported", func(t *testing.T) {
		g := NewWithT(t)

		//** Arrange
		input := writeWorkbook(t, map[string][][]string{"CLASSWISE": {
			{"Name", "1"},
			{"10A", "MATH (1-3) SK"},
			{"10B", "SCI (2) SK"},
		}})

		//** Act
		out, err := execute(t, "teacherwise", input)

		//** Assert
		g.Expect(errors.Is(err, ErrIssues)).To(BeTrue())
		g.Expect(out).To(ContainSubstring("teacher=SK"))
		rows := readRows(t, input, "TEACHERWISE")
		g.Expect(rows[1][1]).To(ContainSubstring("**CLASH** [2]"))
		workbook, openErr := sheet.Open(input)
		require.NoError(t, openErr)
		g.Expect(sheet.MarksOf(workbook, "TEACHERWISE")).To(ConsistOf(sheet.Mark{Row: 2, Column: 2, Style: sheet.StyleClash}))
	})

	t.Run("Warnings do not stop the run", func(t *testing.T) {
		input := writeWorkbook(t, map[string][][]string{"CLASSWISE": {
			{"Name", "1", "2"},
			{"10A", "ENGLISH", "MATH (1-6) SK"},
		}})

		out, err := execute(t, "teacherwise", input)

		assert.True(t, errors.Is(err, ErrIssues))
		assert.Contains(t, out, "missing parentheses around days")
		assert.Contains(t, out, "B2")
		assert.Equal(t, "MATH (1-6) 10A", readRows(t, input, "TEACHERWISE")[1][2])
	})

	t.Run("Structural errors abort before writing", func(t *testing.T) {
		input := writeWorkbook(t, map[string][][]string{"CLASSWISE": {
			{"Name", "1"},
			{"10A", "MATH (1-3) SK"},
			{"10A", "SCI (4-6) PK"},
		}})

		_, err := execute(t, "teacherwise", input)

		assert.True(t, errors.Is(err, model.ErrStructural))
		workbook, openErr := sheet.Open(input)
		require.NoError(t, openErr)
		assert.False(t, sheet.HasSheet(workbook, "TEACHERWISE"))
	})

	t.Run("Period column out of range aborts before writing", func(t *testing.T) {
		input := writeWorkbook(t, map[string][][]string{"CLASSWISE": {
			{"Name", "1", "9"},
			{"10A", "MATH (1) SK", "SCI (1-6) RK"},
		}})

		_, err := execute(t, "teacherwise", input)

		assert.True(t, errors.Is(err, model.ErrStructural))
		workbook, openErr := sheet.Open(input)
		require.NoError(t, openErr)
		assert.False(t, sheet.HasSheet(workbook, "TEACHERWISE"))
		assert.False(t, sheet.HasSheet(workbook, "VACANT"))
	})

	t.Run("Keep stamp", func(t *testing.T) {
		stamp := []string{"Last updated on 01 Jan 2020 08:00"}
		input := writeWorkbook(t, map[string][][]string{
			"CLASSWISE":   classwiseRows,
			"TEACHERWISE": {{"Name", "1"}, {}, stamp},
		})

		_, err := execute(t, "teacherwise", input, "-k")

		require.NoError(t, err)
		rows := readRows(t, input, "TEACHERWISE")
		assert.Equal(t, stamp, rows[len(rows)-1])
	})

	t.Run("Custom separator", func(t *testing.T) {
		input := writeWorkbook(t, map[string][][]string{"CLASSWISE": {
			{"Name", "1"},
			{"10A", "MATH (1-3) SK;MATH (4-6) RK"},
			{"10B", "SCI (4-6) SK"},
		}})

		_, err := execute(t, "teacherwise", input, "-s", ";")

		require.NoError(t, err)
		assert.Equal(t, "MATH (1-3) 10A;SCI (4-6) 10B", readRows(t, input, "TEACHERWISE")[1][1])
	})
}

func TestClasswise(t *testing.T) {
	//** Arrange
	input := writeWorkbook(t, map[string][][]string{"CLASSWISE": classwiseRows})
	teacherwise := filepath.Join(t.TempDir(), "teacherwise.json")
	_, err := execute(t, "teacherwise", input, teacherwise)
	require.NoError(t, err)
	classwise := filepath.Join(t.TempDir(), "classwise.json")

	//** Act
	_, err = execute(t, "classwise", teacherwise, classwise)

	//** Assert
	require.NoError(t, err)
	rows := readRows(t, classwise, "CLASSWISE")
	assert.Equal(t, "Summary", rows[0][9])
	assert.Equal(t, "ENG: 6, MATH: 6, SCI: 6, TOTAL: 18", rows[1][9])

	// Round trip reproduces every cell
	load := func(path string) *model.Grid {
		workbook, err := sheet.Open(path)
		require.NoError(t, err)
		raws, err := sheet.ReadCells(workbook, "CLASSWISE", 8)
		require.NoError(t, err)
		grid, warnings, err := model.LoadGrid(model.Classwise, 8, model.NewParser(model.ParserOptions{}), raws)
		require.NoError(t, err)
		require.Empty(t, warnings)
		return grid
	}
	report, err := model.Diff(load(input), load(classwise))
	require.NoError(t, err)
	assert.True(t, report.Empty())
}

func TestVacant(t *testing.T) {
	input := writeWorkbook(t, map[string][][]string{"TEACHERWISE": {
		{"Name", "1", "2", "Periods"},
		{"Sunil Kumar, SK", "MATH (1-3) 10A", "MATH (1-6) 10B", "9"},
	}})

	_, err := execute(t, "vacant", input)

	require.NoError(t, err)
	assert.Equal(t, [][]string{
		{"Teacher", "1", "2", "3", "4", "5", "6"},
		{"SK", "6", "6", "6", "7", "7", "7"},
	}, readRows(t, input, "VACANT"))
}

func TestDiff(t *testing.T) {
	t.Run("Changed teacher", func(t *testing.T) {
		//** Arrange
		base := writeWorkbook(t, map[string][][]string{"CLASSWISE": classwiseRows})
		current := writeWorkbook(t, map[string][][]string{"CLASSWISE": {
			{"Name", "1", "2", "3"},
			{"10A", "MATH (4-6) RK\nMATH (1-3) SK", "ENG (1-6) XY", "SCI (1-6) PK"},
			{"10B", "ENG (1-6) CD", "MATH (1-6) SK", ""},
		}})

		//** Act
		out, err := execute(t, "diff", base, current)

		//** Assert
		assert.True(t, errors.Is(err, ErrIssues))
		assert.Contains(t, out, "ENG (1-6) AB -> ENG (1-6) XY")
		assert.Contains(t, out, "AB, XY")
		workbook, openErr := sheet.Open(current)
		require.NoError(t, openErr)
		assert.Equal(t, []sheet.Mark{{Row: 2, Column: 3, Style: sheet.StyleChanged}}, sheet.MarksOf(workbook, "CLASSWISE"))
	})

	t.Run("Class missing from current", func(t *testing.T) {
		base := writeWorkbook(t, map[string][][]string{"CLASSWISE": {
			{"Name", "1"},
			{"10A", "MATH (1-6) SK"},
			{"10B", ""},
		}})
		current := writeWorkbook(t, map[string][][]string{"CLASSWISE": {
			{"Name", "1"},
			{"10A", "MATH (1-6) SK"},
		}})

		out, err := execute(t, "diff", base, current)

		assert.True(t, errors.Is(err, ErrIssues))
		assert.Contains(t, out, "class missing from current timetable")
	})

	t.Run("No differences", func(t *testing.T) {
		base := writeWorkbook(t, map[string][][]string{"CLASSWISE": classwiseRows})
		current := writeWorkbook(t, map[string][][]string{"CLASSWISE": classwiseRows})

		_, err := execute(t, "diff", base, current)

		assert.NoError(t, err)
	})
}

func TestVersion(t *testing.T) {
	out, err := execute(t, "--version")

	require.NoError(t, err)
	assert.Equal(t, "twig version "+Version+"\n", out)
}

func TestInvalidConfiguration(t *testing.T) {
	input := writeWorkbook(t, map[string][][]string{"CLASSWISE": classwiseRows})

	_, err := execute(t, "teacherwise", input, "--log-level", "loud")

	assert.ErrorContains(t, err, "invalid configuration")
}

func TestNaturalOrder(t *testing.T) {
	assert.Equal(t, []string{"STAFF", "9A", "10A", "10B", "12C"}, naturalOrder([]string{"10B", "12C", "9A", "10A", "STAFF"}))
}
