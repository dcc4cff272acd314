package main

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/limaJavier/twig/pkg/model"
)

func TestGenerate(t *testing.T) {
	scenario := Scenario{Name: "tiny", Classes: 5, Teachers: 8}

	raws := generate(scenario, rand.New(rand.NewSource(seed)))

	assert.Len(t, raws, 5*periods)
	assert.Equal(t, model.RawCell{Row: "6A", Column: 1, Text: "MATH (1-3) AB\nMATH (4-6) AC"}, raws[0])
	assert.Equal(t, "7A", raws[4*periods].Row)
}

func TestMeasure(t *testing.T) {
	t.Run("Ordered scenario has no clashes", func(t *testing.T) {
		result, err := measure(Scenario{Name: "tiny", Classes: 5, Teachers: 8}, rand.New(rand.NewSource(seed)))

		require.NoError(t, err)
		assert.Equal(t, 5*periods*2, result.Assignments)
		assert.Zero(t, result.Warnings)
		assert.Zero(t, result.Clashes)
		assert.Zero(t, result.Differences)
	})

	t.Run("Random scenario round trips", func(t *testing.T) {
		result, err := measure(Scenario{Name: "crowded", Classes: 20, Teachers: 4, Random: true}, rand.New(rand.NewSource(seed)))

		require.NoError(t, err)
		assert.Positive(t, result.Clashes)
		assert.Zero(t, result.Differences)
	})
}

func BenchmarkTranspose(b *testing.B) {
	raws := generate(Scenario{Name: "large", Classes: 120, Teachers: 180}, rand.New(rand.NewSource(seed)))
	grid, _, err := model.LoadGrid(model.Classwise, periods, model.NewParser(model.ParserOptions{}), raws)
	if err != nil {
		b.Fatal(err)
	}
	transposer := model.NewTransposer(model.TransposerOptions{})

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, _, err := transposer.Transpose(grid); err != nil {
			b.Fatal(err)
		}
	}
}
