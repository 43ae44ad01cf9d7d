package common

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSameDay(t *testing.T) {
	loc := LoadTimezone("Europe/Moscow")

	t.Run("граница полуночи разделяет сутки", func(t *testing.T) {
		before := time.Date(2026, 8, 30, 23, 59, 0, 0, loc)
		after := time.Date(2026, 8, 31, 0, 1, 0, 0, loc)
		assert.False(t, SameDay(before, after, loc))
	})

	t.Run("утро и вечер одних суток", func(t *testing.T) {
		morning := time.Date(2026, 8, 31, 0, 5, 0, 0, loc)
		evening := time.Date(2026, 8, 31, 23, 55, 0, 0, loc)
		assert.True(t, SameDay(morning, evening, loc))
	})

	t.Run("моменты в UTC сравниваются по поясу", func(t *testing.T) {
		// 22:30 UTC = 01:30 следующего дня по Москве
		a := time.Date(2026, 8, 30, 22, 30, 0, 0, time.UTC)
		b := time.Date(2026, 8, 31, 10, 0, 0, 0, loc)
		assert.True(t, SameDay(a, b, loc))
	})
}

func TestStartOfDay(t *testing.T) {
	loc := LoadTimezone("Europe/Moscow")
	ts := time.Date(2026, 8, 31, 17, 42, 13, 0, loc)

	start := StartOfDay(ts, loc)

	assert.Equal(t, 2026, start.Year())
	assert.Equal(t, time.August, start.Month())
	assert.Equal(t, 31, start.Day())
	assert.Equal(t, 0, start.Hour())
	assert.Equal(t, 0, start.Minute())
	assert.True(t, start.Before(ts))
}

func TestISOWeekKey(t *testing.T) {
	loc := LoadTimezone("Europe/Moscow")

	// 1 сентября 2026 — вторник 36-й ISO-недели
	assert.Equal(t, "2026-W36", ISOWeekKey(time.Date(2026, 9, 1, 12, 0, 0, 0, loc), loc))

	// Начало января может относиться к неделе прошлого года
	assert.Equal(t, "2020-W53", ISOWeekKey(time.Date(2021, 1, 1, 12, 0, 0, 0, loc), loc))
}

func TestLoadTimezoneFallback(t *testing.T) {
	loc := LoadTimezone("Nowhere/Unknown")
	require.NotNil(t, loc)

	// Резерв — фиксированный UTC+3
	_, offset := time.Now().In(loc).Zone()
	assert.Equal(t, 3*60*60, offset)
}

func TestFormatStars(t *testing.T) {
	assert.Equal(t, "3.10 ⭐", FormatStars(3.1))
	assert.Equal(t, "0.05 ⭐", FormatStars(0.05))
	assert.Equal(t, "100.00 ⭐", FormatStars(100))
}

func TestPluralizeStars(t *testing.T) {
	tests := []struct {
		n    int64
		want string
	}{
		{1, "звезда"},
		{2, "звезды"},
		{5, "звёзд"},
		{11, "звёзд"},
		{12, "звёзд"},
		{21, "звезда"},
		{22, "звезды"},
		{100, "звёзд"},
		{101, "звезда"},
		{111, "звёзд"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, PluralizeStars(tt.n), "n=%d", tt.n)
	}
}

func TestPluralizeReferrals(t *testing.T) {
	assert.Equal(t, "реферал", PluralizeReferrals(1))
	assert.Equal(t, "реферала", PluralizeReferrals(3))
	assert.Equal(t, "рефералов", PluralizeReferrals(7))
	assert.Equal(t, "рефералов", PluralizeReferrals(14))
	assert.Equal(t, "реферал", PluralizeReferrals(21))
}
