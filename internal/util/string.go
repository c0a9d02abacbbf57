package util

import (
	"strings"
	"unicode"
)

// Normalize performs basic string normalization (lowercase + trim)
func Normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// NormalizeLabel turns an infobox header like " Japanese Name " into "japanesename".
func NormalizeLabel(label string) string {
	return strings.ReplaceAll(Normalize(label), " ", "")
}

const fallbackFilename = "outfit"

// SanitizeFilename makes an untrusted label safe to use as a single path element.
func SanitizeFilename(name string) string {
	var builder strings.Builder
	for _, r := range name {
		switch {
		case r == '/' || r == '\\':
			builder.WriteRune('_')
		case strings.ContainsRune(`<>:"|?*`, r):
			builder.WriteRune('_')
		case unicode.IsControl(r):
			builder.WriteRune('_')
		default:
			builder.WriteRune(r)
		}
	}

	cleaned := strings.Trim(builder.String(), ". ")
	if cleaned == "" {
		return fallbackFilename
	}
	return cleaned
}

// StringPtr returns a pointer to s.
func StringPtr(s string) *string {
	return &s
}

// Deref returns the pointed-to string or "" for nil.
func Deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
