package withdrawals

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOptionFor(t *testing.T) {
	t.Run("все фиксированные суммы доступны", func(t *testing.T) {
		for _, amount := range []float64{15, 25, 50, 100, 1300} {
			opt, ok := OptionFor(amount)
			require.True(t, ok, "сумма %v", amount)
			assert.Equal(t, amount, opt.Amount)
			assert.NotEmpty(t, opt.Label)
		}
	})

	t.Run("суммы вне списка запрещены", func(t *testing.T) {
		for _, amount := range []float64{0, 1, 14, 16, 99, 1000, -15} {
			_, ok := OptionFor(amount)
			assert.False(t, ok, "сумма %v", amount)
		}
	})

	t.Run("1300 обменивается на premium", func(t *testing.T) {
		opt, ok := OptionFor(1300)
		require.True(t, ok)
		assert.Equal(t, "Telegram Premium", opt.Label)
	})
}

func TestDecisionText(t *testing.T) {
	t.Run("одобрение", func(t *testing.T) {
		w := &Withdrawal{Status: StatusApproved, Label: "25 ⭐"}
		assert.Contains(t, decisionText(w), "одобрена")
	})

	t.Run("отклонение с причиной", func(t *testing.T) {
		w := &Withdrawal{
			Status:       StatusRejected,
			Label:        "50 ⭐",
			Amount:       50,
			RejectReason: "накрутка рефералов",
		}
		text := decisionText(w)
		assert.Contains(t, text, "отклонена")
		assert.Contains(t, text, "Причина: накрутка рефералов")
	})

	t.Run("отклонение без причины", func(t *testing.T) {
		w := &Withdrawal{Status: StatusRejected, Label: "15 ⭐", Amount: 15}
		assert.NotContains(t, decisionText(w), "Причина")
	})
}
