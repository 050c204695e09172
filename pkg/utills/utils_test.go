package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidPassword(t *testing.T) {
	tests := map[string]bool{
		"abc12345": true,
		"pässw0rd": true,
		"abcdefgh": false,
		"12345678": false,
		"ab1":      false,
		"":         false,
	}
	for in, want := range tests {
		assert.Equal(t, want, ValidPassword(in), in)
	}
}

func TestNormalizeEmail(t *testing.T) {
	assert.Equal(t, "jane@example.com", NormalizeEmail("  Jane@Example.COM "))
}
