package token

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateUsesAlphabet(t *testing.T) {
	for _, length := range []int{1, RecoveryLength, ConfirmationLength} {
		tok, err := Generate(length)
		require.NoError(t, err)
		assert.Len(t, tok, length)
		for _, r := range tok {
			assert.True(t, strings.ContainsRune(alphabet, r), "unexpected rune %q", r)
		}
	}
}

func TestGenerateRejectsInvalidLength(t *testing.T) {
	_, err := Generate(0)
	assert.Error(t, err)
}

func TestGenerateDoesNotRepeat(t *testing.T) {
	seen := make(map[string]bool)
	for range 1000 {
		tok, err := Generate(RecoveryLength)
		require.NoError(t, err)
		require.False(t, seen[tok])
		seen[tok] = true
	}
}

func TestUniqueRetriesOnCollision(t *testing.T) {
	calls := 0
	tok, err := Unique(8, func(string) (bool, error) {
		calls++
		return calls < 3, nil
	})
	require.NoError(t, err)
	assert.Len(t, tok, 8)
	assert.Equal(t, 3, calls)
}

func TestUniqueGivesUp(t *testing.T) {
	_, err := Unique(8, func(string) (bool, error) { return true, nil })
	assert.ErrorIs(t, err, ErrNoUniqueToken)
}

func TestUniquePropagatesLookupErrors(t *testing.T) {
	boom := errors.New("boom")
	_, err := Unique(8, func(string) (bool, error) { return false, boom })
	assert.ErrorIs(t, err, boom)
}
