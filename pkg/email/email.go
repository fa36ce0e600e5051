// Package email holds small helpers for working with email addresses.
package email

import (
	"strings"
	"unicode"
)

// DisplayNameFromEmail derives a human-readable display name from the local
// part of an address, e.g. "jane.smith@example.com" becomes "Jane Smith".
// Falls back to "Guest" when nothing usable remains.
func DisplayNameFromEmail(email string) string {
	localPart := email
	if at := strings.IndexByte(email, '@'); at > 0 {
		localPart = email[:at]
	}

	parts := strings.FieldsFunc(localPart, func(r rune) bool {
		return r == '.' || r == '_' || r == '-' || r == '+'
	})

	if len(parts) == 0 {
		return "Guest"
	}

	for i, p := range parts {
		parts[i] = capitalize(p)
	}
	return strings.Join(parts, " ")
}

func capitalize(s string) string {
	if s == "" {
		return s
	}

	runes := []rune(s)
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}
