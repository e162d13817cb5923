package service

import (
	"regexp"
	"strings"

	"github.com/specsmith/specsmith/backend/internal/common/constants"
)

// Matches local@domain.tld with no whitespace anywhere. Deliberately loose
// beyond that: the mailbox is the real validator.
var emailRegex = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

type CredentialValidator struct{}

func NewCredentialValidator() CredentialValidator {
	return CredentialValidator{}
}

func (cv CredentialValidator) IsValidEmail(email string) bool {
	return emailRegex.MatchString(email)
}

// ValidatePassword runs the strength checks in order and returns the first
// failure. New rules append here without changing the signature.
func (cv CredentialValidator) ValidatePassword(password string) error {
	if len(password) < constants.PasswordMinLength {
		return ErrPasswordTooShort
	}
	if len(password) > constants.PasswordMaxLength {
		return ErrPasswordTooLong
	}
	return nil
}

func (cv CredentialValidator) ValidateSignup(name, email, password string) error {
	if strings.TrimSpace(name) == "" || email == "" || password == "" {
		return ErrMissingFields
	}
	if !cv.IsValidEmail(email) {
		return ErrInvalidEmailFormat
	}
	return cv.ValidatePassword(password)
}

func (cv CredentialValidator) ValidateLogin(email, password string) error {
	if email == "" || password == "" {
		return ErrMissingFields
	}
	if !cv.IsValidEmail(email) {
		return ErrInvalidEmailFormat
	}
	return nil
}
