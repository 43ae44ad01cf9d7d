package admin

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashAndVerify(t *testing.T) {
	hash, err := HashPassword("correct horse battery staple")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(hash, "$argon2id$v=19$"))

	assert.True(t, VerifyHash("correct horse battery staple", hash))
	assert.False(t, VerifyHash("wrong password", hash))
	assert.False(t, VerifyHash("", hash))
}

func TestHashUnique(t *testing.T) {
	// Соль случайная — хеши одного пароля различаются
	h1, err := HashPassword("пароль")
	require.NoError(t, err)
	h2, err := HashPassword("пароль")
	require.NoError(t, err)

	assert.NotEqual(t, h1, h2)
	assert.True(t, VerifyHash("пароль", h1))
	assert.True(t, VerifyHash("пароль", h2))
}

func TestVerifyMalformedHash(t *testing.T) {
	assert.False(t, VerifyHash("пароль", ""))
	assert.False(t, VerifyHash("пароль", "не хеш вообще"))
	assert.False(t, VerifyHash("пароль", "$argon2id$v=19$m=65536,t=3,p=2$battle$!!!"))
}

func TestGenerateSecureToken(t *testing.T) {
	t1, err := generateSecureToken()
	require.NoError(t, err)
	t2, err := generateSecureToken()
	require.NoError(t, err)

	assert.NotEqual(t, t1, t2)
	assert.GreaterOrEqual(t, len(t1), 32)
}
