package tracker

import (
	"crypto/subtle"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/mubashira9/Cosmic-Tracker-sub000/internal/models"
)

func isBcryptHash(s string) bool {
	return strings.HasPrefix(s, "$2a$") || strings.HasPrefix(s, "$2b$") || strings.HasPrefix(s, "$2y$")
}

// pinMatches compares an entered PIN with the stored value. Plain values are
// compared as strings; bcrypt hashes are verified.
func pinMatches(stored, entered string) bool {
	if stored == "" {
		return false
	}
	if isBcryptHash(stored) {
		return bcrypt.CompareHashAndPassword([]byte(stored), []byte(entered)) == nil
	}
	return subtle.ConstantTimeCompare([]byte(stored), []byte(entered)) == 1
}

// sealPIN returns the value written to the gateway for a new PIN.
func sealPIN(pin string, hash bool) (string, error) {
	if !hash {
		return pin, nil
	}
	b, err := bcrypt.GenerateFromPassword([]byte(pin), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func validPIN(pin string) bool {
	return len(pin) == models.PINLength
}
