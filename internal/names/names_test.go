package names

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClean(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"  Chequing  ", "Chequing"},
		{"Visa   Gold\tCard", "Visa Gold Card"},
		{"Café", "Café"},
		{"", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Clean(tt.in), "Clean(%q)", tt.in)
	}
}

func TestEqual(t *testing.T) {
	assert.True(t, Equal("Income", "income"))
	assert.True(t, Equal("Épicerie", "epicerie "))
	assert.True(t, Equal("Visa  Gold", "VISA GOLD"))
	assert.False(t, Equal("Income", "Incomes"))
}
