package bot

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCommand(t *testing.T) {
	p := NewCommandParser()

	t.Run("слэш-команда с аргументами", func(t *testing.T) {
		cmd, args, ok := p.ParseCommand("/promo Stars2026")
		require.True(t, ok)
		assert.Equal(t, "promo", cmd)
		assert.Equal(t, []string{"Stars2026"}, args)
	})

	t.Run("суффикс @botname отбрасывается", func(t *testing.T) {
		cmd, _, ok := p.ParseCommand("/click@stars_bot")
		require.True(t, ok)
		assert.Equal(t, "click", cmd)
	})

	t.Run("альтернативные префиксы", func(t *testing.T) {
		cmd, _, ok := p.ParseCommand("!balance")
		require.True(t, ok)
		assert.Equal(t, "balance", cmd)

		cmd, _, ok = p.ParseCommand(".top")
		require.True(t, ok)
		assert.Equal(t, "top", cmd)
	})

	t.Run("регистр команды не важен", func(t *testing.T) {
		cmd, _, ok := p.ParseCommand("/CLICK")
		require.True(t, ok)
		assert.Equal(t, "click", cmd)
	})

	t.Run("обычный текст — не команда", func(t *testing.T) {
		_, _, ok := p.ParseCommand("привет")
		assert.False(t, ok)
	})

	t.Run("пустой префикс — не команда", func(t *testing.T) {
		_, _, ok := p.ParseCommand("/")
		assert.False(t, ok)

		_, _, ok = p.ParseCommand("   ")
		assert.False(t, ok)
	})
}
