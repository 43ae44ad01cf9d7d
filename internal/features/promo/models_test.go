package promo

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeCode(t *testing.T) {
	assert.Equal(t, "STARS2026", NormalizeCode("stars2026"))
	assert.Equal(t, "STARS2026", NormalizeCode("  Stars2026  "))
	assert.Equal(t, "ПРИВЕТ", NormalizeCode("привет"))
	assert.Equal(t, "", NormalizeCode("   "))
}

func TestExhausted(t *testing.T) {
	assert.False(t, (&Promocode{MaxUses: 0, UsedCount: 500}).Exhausted(), "0 — без лимита")
	assert.False(t, (&Promocode{MaxUses: 10, UsedCount: 9}).Exhausted())
	assert.True(t, (&Promocode{MaxUses: 10, UsedCount: 10}).Exhausted())
	assert.True(t, (&Promocode{MaxUses: 10, UsedCount: 11}).Exhausted())
}
