package validation

import (
	"strings"

	"github.com/asaskevich/govalidator"
)

// PasswordMinLength is the shortest accepted password
const PasswordMinLength = 6

// NormalizeEmail trims and lower-cases an address so lookups are case-insensitive.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// IsEmail reports whether s is a syntactically valid address.
func IsEmail(s string) bool {
	return govalidator.IsEmail(strings.TrimSpace(s))
}

// IsPassword reports whether the password satisfies the length rule.
func IsPassword(s string) bool {
	return govalidator.RuneLength(s, "6", "72")
}

// IsBlank reports whether s is empty after trimming
func IsBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}
