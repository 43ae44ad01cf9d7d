package tasks

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidType(t *testing.T) {
	assert.True(t, ValidType(TypeChannel))
	assert.True(t, ValidType(TypeChat))
	assert.True(t, ValidType(TypeBot))
	assert.False(t, ValidType("group"))
	assert.False(t, ValidType(""))
}

func TestVerifiable(t *testing.T) {
	assert.True(t, (&Task{Type: TypeChannel}).Verifiable())
	assert.True(t, (&Task{Type: TypeChat}).Verifiable())
	// Переход в бота проверить через API нельзя — награда сразу
	assert.False(t, (&Task{Type: TypeBot}).Verifiable())
}
