package users

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlanCascade(t *testing.T) {
	t.Run("полная цепочка из двух уровней", func(t *testing.T) {
		credits := PlanCascade([]int64{100, 200}, 3, 0.05)

		require.Len(t, credits, 2)

		assert.Equal(t, int64(100), credits[0].UserID)
		assert.Equal(t, 3.0, credits[0].Amount)
		assert.Equal(t, OpReferralBonus, credits[0].Operation)
		assert.True(t, credits[0].CountReferral)

		assert.Equal(t, int64(200), credits[1].UserID)
		assert.Equal(t, 0.05, credits[1].Amount)
		assert.Equal(t, OpReferral2Bonus, credits[1].Operation)
		assert.False(t, credits[1].CountReferral)
	})

	t.Run("только первый уровень", func(t *testing.T) {
		credits := PlanCascade([]int64{100}, 3, 0.05)

		require.Len(t, credits, 1)
		assert.Equal(t, int64(100), credits[0].UserID)
		assert.True(t, credits[0].CountReferral)
	})

	t.Run("пустая цепочка", func(t *testing.T) {
		assert.Empty(t, PlanCascade(nil, 3, 0.05))
	})

	t.Run("лишние уровни отбрасываются", func(t *testing.T) {
		credits := PlanCascade([]int64{100, 200, 300, 400}, 3, 0.05)
		require.Len(t, credits, 2)
	})

	t.Run("нулевые суммы пропускаются", func(t *testing.T) {
		credits := PlanCascade([]int64{100, 200}, 3, 0)
		require.Len(t, credits, 1)
		assert.Equal(t, int64(100), credits[0].UserID)
	})
}

func TestGenerateReferralCode(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		code, err := GenerateReferralCode()
		require.NoError(t, err)

		assert.Len(t, code, 8)
		for _, r := range code {
			assert.True(t, strings.ContainsRune(referralCodeAlphabet, r), "символ %q вне алфавита", r)
		}
		seen[code] = true
	}
	// 100 кодов из 32^8 вариантов — коллизии быть не должно
	assert.Len(t, seen, 100)
}
