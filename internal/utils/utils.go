package utils

import (
	"regexp"
	"strings"
)

var unsafeFileChars = regexp.MustCompile(`[^A-Za-z0-9_.\-]+`)

// NormalizeEmail trims and lowercases an email so lookups are case-insensitive.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// SanitizeFileName replaces every run of characters outside [A-Za-z0-9_.-] with "_".
func SanitizeFileName(name string) string {
	safe := unsafeFileChars.ReplaceAllString(strings.TrimSpace(name), "_")
	if safe == "" || strings.Trim(safe, "._") == "" {
		return "file"
	}
	return safe
}

// OptionalString trims s and returns nil when nothing is left.
func OptionalString(s *string) *string {
	if s == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*s)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
