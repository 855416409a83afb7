// Package token generates random opaque tokens for confirmation and recovery links.
package token

import (
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
)

const alphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"

// Token lengths used by account flows.
const (
	ConfirmationLength = 64
	RecoveryLength     = 20
)

const maxAttempts = 5

var ErrNoUniqueToken = errors.New("could not generate a unique token")

// Generate returns length characters drawn uniformly from [A-Za-z0-9].
func Generate(length int) (string, error) {
	if length <= 0 {
		return "", fmt.Errorf("invalid token length: %d", length)
	}

	limit := big.NewInt(int64(len(alphabet)))
	buf := make([]byte, length)
	for i := range buf {
		n, err := rand.Int(rand.Reader, limit)
		if err != nil {
			return "", fmt.Errorf("failed to read random source: %w", err)
		}
		buf[i] = alphabet[n.Int64()]
	}
	return string(buf), nil
}

// Unique generates tokens until exists reports one is not already stored.
func Unique(length int, exists func(string) (bool, error)) (string, error) {
	for range maxAttempts {
		t, err := Generate(length)
		if err != nil {
			return "", err
		}
		taken, err := exists(t)
		if err != nil {
			return "", fmt.Errorf("failed to check token uniqueness: %w", err)
		}
		if !taken {
			return t, nil
		}
	}
	return "", ErrNoUniqueToken
}
