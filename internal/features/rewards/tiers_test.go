package rewards

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCaseTiersStructure(t *testing.T) {
	require.NotEmpty(t, CaseTiers)

	// Пороги строго возрастают, последний закрывает весь отрезок
	prev := 0.0
	for _, tier := range CaseTiers {
		assert.Greater(t, tier.Cumulative, prev)
		assert.LessOrEqual(t, tier.Min, tier.Max)
		assert.Positive(t, tier.Min)
		prev = tier.Cumulative
	}
	assert.Equal(t, 1.0, CaseTiers[len(CaseTiers)-1].Cumulative)
}

func TestDrawCaseWithinRanges(t *testing.T) {
	rnd := rand.New(rand.NewSource(42))

	valid := func(prize int) bool {
		for _, tier := range CaseTiers {
			if prize >= tier.Min && prize <= tier.Max {
				return true
			}
		}
		return false
	}

	for i := 0; i < 10000; i++ {
		prize := DrawCase(rnd)
		require.True(t, valid(prize), "приз %d вне ярусов", prize)
	}
}

func TestDrawCaseDistribution(t *testing.T) {
	rnd := rand.New(rand.NewSource(7))

	const n = 50000
	var low, mid, high int
	for i := 0; i < n; i++ {
		switch prize := DrawCase(rnd); {
		case prize <= 10:
			low++
		case prize <= 25:
			mid++
		default:
			high++
		}
	}

	// 70% / 25% / 5% с запасом на дисперсию
	assert.InDelta(t, 0.70, float64(low)/n, 0.02)
	assert.InDelta(t, 0.25, float64(mid)/n, 0.02)
	assert.InDelta(t, 0.05, float64(high)/n, 0.01)
}
