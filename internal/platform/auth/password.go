package auth

import (
	"golang.org/x/crypto/bcrypt"

	"github.com/hms/hms/internal/platform/apperr"
)

// HashPassword hashes a plaintext password with bcrypt at the default
// cost.
func HashPassword(plain string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	if err != nil {
		return "", apperr.Wrap(apperr.Unexpected, err, "hash password")
	}
	return string(hash), nil
}

// CheckPassword compares a stored bcrypt hash against a candidate
// plaintext. A mismatch is an InvalidCredential error, never a reveal
// of which part of the credential pair was wrong.
func CheckPassword(hash, plain string) error {
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)); err != nil {
		return apperr.New(apperr.InvalidCredential, "invalid credentials")
	}
	return nil
}
