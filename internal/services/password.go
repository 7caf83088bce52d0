package services

import (
	"sync"

	"golang.org/x/crypto/bcrypt"
)

const bcryptCost = 10

func hashPassword(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	return string(hashed), err
}

func checkPassword(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// placeholderHash is compared against when the email is unknown so both
// login failures cost one bcrypt comparison.
var placeholderHash = sync.OnceValue(func() string {
	h, _ := bcrypt.GenerateFromPassword([]byte("placeholder-password"), bcryptCost)
	return string(h)
})
