package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMaskEmail(t *testing.T) {
	assert.Equal(t, "u***@example.com", MaskEmail("user@example.com"))
	assert.Equal(t, "***", MaskEmail("not-an-email"))
	assert.Equal(t, "a***@b.ro", MaskEmail("a@b.ro"))
}

func TestMaskCard(t *testing.T) {
	assert.Equal(t, "**** **** **** 1111", MaskCard("4111111111111111"))
	assert.Equal(t, "**** **** **** 4242", MaskCard("4242XXXXXXXX4242"))
	assert.Equal(t, "****", MaskCard("12"))
}

func TestMaskToken(t *testing.T) {
	assert.Equal(t, "NTPTOK***", MaskToken("NTPTOK-abcdef-123456"))
	assert.Equal(t, "***", MaskToken("short"))
}
