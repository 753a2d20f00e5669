// Package validation provides input validation utilities. Rules here run
// before any store round trip; a rejected value never reaches the backend.
package validation

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"
)

// Field bounds.
const (
	UsernameMinLen = 4
	UsernameMaxLen = 12
	PasswordMinLen = 4
	TitleMaxLen    = 50
)

var emailRegex = regexp.MustCompile(`^[A-Za-z0-9+_.-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}$`)

// ValidateUsername checks if a username meets requirements.
func ValidateUsername(username string) error {
	n := utf8.RuneCountInString(username)
	if n < UsernameMinLen || n > UsernameMaxLen {
		return fmt.Errorf("username must be between %d and %d characters", UsernameMinLen, UsernameMaxLen)
	}
	return nil
}

// ValidateEmail checks basic email format.
func ValidateEmail(email string) error {
	if !emailRegex.MatchString(email) {
		return fmt.Errorf("invalid email format")
	}
	return nil
}

// ValidatePassword checks if a password meets the minimum length.
func ValidatePassword(password string) error {
	if utf8.RuneCountInString(password) < PasswordMinLen {
		return fmt.Errorf("password must be at least %d characters long", PasswordMinLen)
	}
	return nil
}

// ValidateTitle checks a post title: required and bounded.
func ValidateTitle(title string) error {
	if strings.TrimSpace(title) == "" {
		return fmt.Errorf("title is required")
	}
	if utf8.RuneCountInString(title) > TitleMaxLen {
		return fmt.Errorf("title must not exceed %d characters", TitleMaxLen)
	}
	return nil
}

// ValidateRequired checks that a named field is non-blank.
func ValidateRequired(field, value string) error {
	if strings.TrimSpace(value) == "" {
		return fmt.Errorf("%s is required", field)
	}
	return nil
}
