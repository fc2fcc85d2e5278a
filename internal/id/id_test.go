package id

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerate_Uniqueness(t *testing.T) {
	ids := make(map[string]bool)
	count := 1000

	for i := 0; i < count; i++ {
		id, err := Generate("bk")
		require.NoError(t, err)
		assert.False(t, ids[id], "ID should be unique: %s", id)
		ids[id] = true
	}

	assert.Len(t, ids, count)
}

func TestGenerate_Format(t *testing.T) {
	id, err := Generate("bk")
	require.NoError(t, err)

	// Should start with prefix followed by hyphen
	assert.True(t, strings.HasPrefix(id, "bk-"))

	// NanoID default is 21 characters
	nanoidPart := strings.TrimPrefix(id, "bk-")
	assert.Len(t, nanoidPart, 21, "NanoID part should be 21 characters")

	// Check all characters are URL-safe (NanoID uses: A-Za-z0-9_-)
	for _, char := range nanoidPart {
		assert.True(t,
			(char >= 'A' && char <= 'Z') ||
				(char >= 'a' && char <= 'z') ||
				(char >= '0' && char <= '9') ||
				char == '_' || char == '-',
			"Character %c should be URL-safe", char)
	}
}

func TestMustGenerate_Format(t *testing.T) {
	id := MustGenerate("bk")

	assert.True(t, strings.HasPrefix(id, "bk-"))
	assert.Equal(t, len("bk")+1+21, len(id))
}
