package security

import (
	"net/http"
	"strings"
	"unicode"

	"golang.org/x/crypto/bcrypt"

	"user-management-api/pkg/apierror"
)

const specialChars = `!@#$%^&*()-_=+[]{};:'",.<>/?\|~` + "`"

// HashPassword returns a salted bcrypt digest using the given cost. bcrypt
// embeds the salt in the digest, so two hashes of the same password differ.
func HashPassword(plain string, cost int) (string, error) {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}

	digest, err := bcrypt.GenerateFromPassword([]byte(plain), cost)
	if err != nil {
		return "", err
	}

	return string(digest), nil
}

// VerifyPassword reports whether plain matches the stored digest. The
// comparison is constant-time inside bcrypt; malformed digests return false
// rather than an error.
func VerifyPassword(digest string, plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(digest), []byte(plain)) == nil
}

// ValidatePassword checks the registration password policy. All failed rules
// are collected so the caller sees every problem at once, not just the first.
func ValidatePassword(password string) error {
	var failed []string

	if len(password) < 8 {
		failed = append(failed, "must be at least 8 characters")
	}

	var hasUpper, hasLower, hasDigit, hasSpecial bool
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsLower(r):
			hasLower = true
		case unicode.IsDigit(r):
			hasDigit = true
		case strings.ContainsRune(specialChars, r):
			hasSpecial = true
		}
	}

	if !hasUpper {
		failed = append(failed, "must contain an uppercase letter")
	}
	if !hasLower {
		failed = append(failed, "must contain a lowercase letter")
	}
	if !hasDigit {
		failed = append(failed, "must contain a digit")
	}
	if !hasSpecial {
		failed = append(failed, "must contain a special character")
	}

	if len(failed) > 0 {
		return apierror.New("WEAK_PASSWORD", "password does not meet policy",
			strings.Join(failed, "; "), http.StatusUnprocessableEntity)
	}

	return nil
}
