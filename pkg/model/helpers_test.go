package model

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// buildGrid parses rows of the form key -> column -> text into a grid
func buildGrid(t *testing.T, orientation Orientation, rows []string, cells map[string]map[int]string) *Grid {
	t.Helper()

	raws := make([]RawCell, 0)
	for _, row := range rows {
		for column := 1; column <= DefaultPeriods; column++ {
			if text, ok := cells[row][column]; ok {
				raws = append(raws, RawCell{Row: row, Column: column, Text: text})
			}
		}
	}

	grid, warnings, err := LoadGrid(orientation, DefaultPeriods, NewParser(ParserOptions{}), raws)
	require.NoError(t, err)
	require.Empty(t, warnings)
	return grid
}

// cellSet renders the assignments of a cell as a set of strings
func cellSet(cell Cell) []string {
	lines := make([]string, 0, len(cell.Assignments))
	for _, assignment := range cell.Assignments {
		lines = append(lines, assignment.String())
	}
	return lines
}
