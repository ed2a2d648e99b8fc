package password

import (
	"crypto/sha256"
	"encoding/hex"
	"regexp"

	"golang.org/x/crypto/bcrypt"
)

const (
	// DefaultCost is the default bcrypt cost
	DefaultCost = 12

	// MinLength is the minimum password length
	MinLength = 8
)

// Passwords must be alphanumeric with at least one letter and one digit.
var alphanumericPattern = regexp.MustCompile(`^[a-zA-Z0-9]+$`)
var hasLetterPattern = regexp.MustCompile(`[a-zA-Z]`)
var hasDigitPattern = regexp.MustCompile(`[0-9]`)

// Hash hashes a password using bcrypt
func Hash(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), DefaultCost)
	if err != nil {
		return "", err
	}
	return string(bytes), nil
}

// Verify compares a password with a hash
func Verify(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}

// HashToken hashes a token using SHA256 (for refresh tokens)
func HashToken(token string) string {
	hash := sha256.Sum256([]byte(token))
	return hex.EncodeToString(hash[:])
}

// Validate checks if a password meets requirements: at least 8 characters,
// alphanumeric only, with both letters and digits.
func Validate(password string) bool {
	if len(password) < MinLength {
		return false
	}
	return alphanumericPattern.MatchString(password) &&
		hasLetterPattern.MatchString(password) &&
		hasDigitPattern.MatchString(password)
}
