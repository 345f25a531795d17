package middleware

import (
	"fmt"
	"strings"
)

// Input validation and sanitization utilities

// ValidateMode checks the ingestion mode name.
func ValidateMode(mode string) error {
	allowed := map[string]bool{
		"TEXT":    true,
		"UPLOAD":  true,
		"PROJECT": true,
	}

	if !allowed[strings.ToUpper(mode)] {
		return fmt.Errorf("invalid mode: %s (allowed: TEXT, UPLOAD, PROJECT)", mode)
	}
	return nil
}

// ValidateFileName rejects empty names and traversal or control characters.
func ValidateFileName(name string) error {
	if name == "" {
		return fmt.Errorf("file name cannot be empty")
	}
	if len(name) > 255 {
		return fmt.Errorf("file name too long (max 255 chars)")
	}

	dangerous := []string{"../", "..\\", "\x00", "\n", "\r"}
	for _, d := range dangerous {
		if strings.Contains(name, d) {
			return fmt.Errorf("invalid characters in file name")
		}
	}
	return nil
}

// ValidateJustification bounds override justifications.
func ValidateJustification(text string) error {
	if strings.TrimSpace(text) == "" {
		return fmt.Errorf("justification cannot be empty")
	}
	if len(text) > 2000 {
		return fmt.Errorf("justification too long (max 2000 chars)")
	}
	return nil
}

// SanitizeString removes dangerous characters from strings
func SanitizeString(input string) string {
	// Remove null bytes
	input = strings.ReplaceAll(input, "\x00", "")

	// Remove control characters
	var result strings.Builder
	for _, r := range input {
		if r >= 32 || r == '\t' || r == '\n' {
			result.WriteRune(r)
		}
	}

	return strings.TrimSpace(result.String())
}

// ValidateLimit validates pagination limit
func ValidateLimit(limit int) int {
	if limit <= 0 {
		return 20 // default
	}
	if limit > 100 {
		return 100 // max limit
	}
	return limit
}
