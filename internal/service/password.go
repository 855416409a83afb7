package service

import (
	"sync"

	"golang.org/x/crypto/bcrypt"
)

const passwordCost = 10

// dummyPasswordHash is compared against when no stored hash exists, so a
// missing account costs the same bcrypt work as a wrong password.
var dummyPasswordHash = sync.OnceValue(func() string {
	hash, err := hashPassword("fanaberia-missing-account")
	if err != nil {
		panic(err)
	}
	return hash
})

func hashPassword(password string) (string, error) {
	hashedBytes, err := bcrypt.GenerateFromPassword([]byte(password), passwordCost)
	if err != nil {
		return "", err
	}
	return string(hashedBytes), nil
}

func comparePassword(password, hash string) error {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
}
