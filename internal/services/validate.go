package services

import (
	"regexp"
	"strings"
)

var emailPattern = regexp.MustCompile(`^[\w.+-]+@[\w-]+(\.[\w-]+)+$`)

func NormalizeRequired(value, message string) (string, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return "", ErrBadRequest(message)
	}
	return trimmed, nil
}

func CheckMaxLen(value string, max int, message string) error {
	if len(value) > max {
		return ErrBadRequest(message)
	}
	return nil
}

func NormalizeEmail(raw string) (string, error) {
	email := strings.ToLower(strings.TrimSpace(raw))
	if email == "" {
		return "", ErrBadRequest("Email is required")
	}
	if !emailPattern.MatchString(email) {
		return "", ErrBadRequest("Please provide a valid email")
	}
	return email, nil
}

// OneOf validates an enum-ish field, returning the fallback for an empty value.
func OneOf(value, fallback string, allowed ...string) (string, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return fallback, nil
	}
	for _, candidate := range allowed {
		if trimmed == candidate {
			return trimmed, nil
		}
	}
	return "", ErrBadRequest("Invalid value: " + trimmed)
}
