package service

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"
)

const (
	MinPasswordLength = 8
	MaxNameLength     = 100
)

var ErrWeakPassword = fmt.Errorf("password must be at least %d characters", MinPasswordLength)

// ErrValidation wraps field-level input problems raised by services.
var ErrValidation = errors.New("invalid input")

func validationError(field, problem string) error {
	return fmt.Errorf("%w: %s %s", ErrValidation, field, problem)
}

func ValidatePassword(password string) error {
	if utf8.RuneCountInString(password) < MinPasswordLength {
		return ErrWeakPassword
	}
	return nil
}

// ValidateName checks a user-supplied display name (organization, shelf,
// label, item, username). Names are trimmed by callers before storage.
func ValidateName(field, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return validationError(field, "must not be empty")
	}
	if utf8.RuneCountInString(name) > MaxNameLength {
		return validationError(field, fmt.Sprintf("must be at most %d characters", MaxNameLength))
	}
	return nil
}
