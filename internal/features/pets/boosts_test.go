package pets

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBoostSum(t *testing.T) {
	owned := []OwnedBoost{
		{BoostType: BoostClick, BoostValue: 0.05, Level: 3},
		{BoostType: BoostClick, BoostValue: 0.1, Level: 1},
		{BoostType: BoostTask, BoostValue: 0.5, Level: 2},
	}

	t.Run("буст умножается на уровень и суммируется", func(t *testing.T) {
		assert.InDelta(t, 0.05*3+0.1, BoostSum(owned, BoostClick), 1e-9)
		assert.InDelta(t, 1.0, BoostSum(owned, BoostTask), 1e-9)
	})

	t.Run("нет питомцев категории — ноль", func(t *testing.T) {
		assert.Zero(t, BoostSum(owned, BoostReferral1))
	})

	t.Run("пустое владение — ноль", func(t *testing.T) {
		assert.Zero(t, BoostSum(nil, BoostClick))
	})
}

func TestBoostSummary(t *testing.T) {
	owned := []OwnedBoost{
		{BoostType: BoostReferral1, BoostValue: 1, Level: 2},
		{BoostType: BoostReferral2, BoostValue: 0.02, Level: 1},
	}

	summary := BoostSummary(owned)

	assert.InDelta(t, 2.0, summary[BoostReferral1], 1e-9)
	assert.InDelta(t, 0.02, summary[BoostReferral2], 1e-9)
	assert.Zero(t, summary[BoostClick])
	assert.Zero(t, summary[BoostTask])
	assert.Len(t, summary, 4)
}

func TestUpgradeCost(t *testing.T) {
	// Стоимость растёт линейно: цена × текущий уровень
	assert.Equal(t, 50.0, UpgradeCost(50, 1))
	assert.Equal(t, 150.0, UpgradeCost(50, 3))
	assert.Equal(t, 750.0, UpgradeCost(150, 5))
}

func TestValidBoostType(t *testing.T) {
	assert.True(t, ValidBoostType(BoostClick))
	assert.True(t, ValidBoostType(BoostReferral1))
	assert.True(t, ValidBoostType(BoostReferral2))
	assert.True(t, ValidBoostType(BoostTask))
	assert.False(t, ValidBoostType("karma"))
	assert.False(t, ValidBoostType(""))
}
