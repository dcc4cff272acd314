package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseCell(t *testing.T) {
	parser := NewParser(ParserOptions{})
	coord := Coord{Key: "10A", Column: 3}

	t.Run("Correct flow", func(t *testing.T) {
		//** Arrange
		text := "MATH (1-3, 5) SK\n\n  PHY-ED(4 - 6)RK  \n# combined with 10B\nMATH (6) PK"

		//** Act
		result := parser.ParseCell(coord, text)

		//** Assert
		assert.Empty(t, result.Warnings)
		assert.Equal(t, []Assignment{
			{Subject: "MATH", Days: DaySet{1, 2, 3, 5}, Holder: "SK"},
			{Subject: "PHY-ED", Days: DaySet{4, 5, 6}, Holder: "RK"},
			{Subject: "MATH", Days: DaySet{6}, Holder: "PK"},
		}, result.Cell.Assignments)
	})

	t.Run("Custom separator", func(t *testing.T) {
		parser := NewParser(ParserOptions{Separator: ";"})

		result := parser.ParseCell(coord, "MATH (1-3) SK; SCI (4-6) RK")

		assert.Empty(t, result.Warnings)
		assert.Len(t, result.Cell.Assignments, 2)
		assert.Equal(t, "RK", result.Cell.Assignments[1].Holder)
	})

	t.Run("Case is preserved", func(t *testing.T) {
		result := parser.ParseCell(coord, "Math (1) Sk")

		assert.Equal(t, Assignment{Subject: "Math", Days: DaySet{1}, Holder: "Sk"}, result.Cell.Assignments[0])
	})

	t.Run("Malformed lines are skipped with a warning", func(t *testing.T) {
		//** Arrange
		lines := map[string]string{
			"MATH 1-3 SK":    "missing parentheses around days",
			"MATH (1-3)":     "missing teacher",
			"(1-3) SK":       `invalid subject ""`,
			"4MATH (1) SK":   `invalid subject "4MATH"`,
			"MATH (a-c) SK":  `invalid day term "a-c"`,
			"MATH (1,,2) SK": `empty day term in "1,,2"`,
		}

		for line, reason := range lines {
			//** Act
			result := parser.ParseCell(coord, "SCI (1) RK\n"+line)

			//** Assert
			assert.Len(t, result.Cell.Assignments, 1, line)
			if assert.Len(t, result.Warnings, 1, line) {
				assert.Equal(t, coord, result.Warnings[0].Coord)
				assert.Equal(t, line, result.Warnings[0].Line)
				assert.Equal(t, reason, result.Warnings[0].Reason)
			}
		}
	})

	t.Run("Out of range day is a warning", func(t *testing.T) {
		result := parser.ParseCell(coord, "MATH (7-9) SK")

		assert.Equal(t, DaySet{7, 8}, result.Cell.Assignments[0].Days)
		assert.Len(t, result.Warnings, 1)
		assert.Equal(t, coord, result.Warnings[0].Coord)
		assert.Equal(t, "day 9 out of range 1-8", result.Warnings[0].Reason)
	})

	t.Run("Huge day range is one warning", func(t *testing.T) {
		result := parser.ParseCell(coord, "MATH (1-2000000) SK\nSCI (0-9) RK")

		assert.Equal(t, DaySet{1, 2, 3, 4, 5, 6, 7, 8}, result.Cell.Assignments[0].Days)
		assert.Equal(t, DaySet{1, 2, 3, 4, 5, 6, 7, 8}, result.Cell.Assignments[1].Days)
		if assert.Len(t, result.Warnings, 2) {
			assert.Equal(t, "days 9-2000000 out of range 1-8", result.Warnings[0].Reason)
			assert.Equal(t, "days 0, 9 out of range 1-8", result.Warnings[1].Reason)
		}
	})

	t.Run("Inverted range is a warning", func(t *testing.T) {
		result := parser.ParseCell(coord, "MATH (5-3) SK\nSCI (6-4, 1) RK")

		assert.Equal(t, []Assignment{{Subject: "SCI", Days: DaySet{1}, Holder: "RK"}}, result.Cell.Assignments)
		assert.Len(t, result.Warnings, 3)
		assert.Equal(t, "no valid days", result.Warnings[1].Reason)
	})

	t.Run("Clash marker is read back", func(t *testing.T) {
		result := parser.ParseCell(coord, "MATH (1-3) 10A\nSCI (2) 9B\n**CLASH** [2]")

		assert.Empty(t, result.Warnings)
		assert.Len(t, result.Cell.Assignments, 2)
		assert.Equal(t, DaySet{2}, result.Cell.Clash)
	})

	t.Run("Missing days with full week check", func(t *testing.T) {
		parser := NewParser(ParserOptions{FullWeek: 6})

		result := parser.ParseCell(coord, "MATH (1-3) SK\nSCI (5) RK")

		assert.Len(t, result.Warnings, 1)
		assert.Equal(t, "missing days [4, 6]", result.Warnings[0].Reason)
	})
}

func TestParseRenderRoundTrip(t *testing.T) {
	parser := NewParser(ParserOptions{})
	renderer := Renderer{}
	coord := Coord{Key: "10A", Column: 1}

	texts := []string{
		"MATH (1-3, 5) SK",
		"MATH (5, 3, 1-2) SK\nMATH (4-6) RK",
		"ENG (1, 1, 2) AB\nPBI (3-4,6) CD\n**CLASH** [3, 1]",
		"ROT HIS (2) PQ",
	}

	for _, text := range texts {
		//** Arrange
		first := parser.ParseCell(coord, text)

		//** Act
		rendered := renderer.Cell(first.Cell)
		second := parser.ParseCell(coord, rendered)

		//** Assert
		assert.Empty(t, second.Warnings)
		assert.Equal(t, first.Cell, second.Cell, text)
		assert.Equal(t, rendered, renderer.Cell(second.Cell))
	}
}
