package utils

import (
	"regexp"
	"strings"
)

var (
	oldNICPattern = regexp.MustCompile(`^\d{9}[VXvx]$`)
	newNICPattern = regexp.MustCompile(`^\d{12}$`)
	nonDigits     = regexp.MustCompile(`\D`)
)

// ValidateNIC validates a Sri Lankan National Identity Card number.
// Old format: 9 digits followed by V or X. New format: 12 digits.
func ValidateNIC(nic string) bool {
	nic = strings.TrimSpace(nic)
	return oldNICPattern.MatchString(nic) || newNICPattern.MatchString(nic)
}

// NormalizeNIC trims whitespace and uppercases the old-format suffix so the
// same NIC always stores identically.
func NormalizeNIC(nic string) string {
	return strings.ToUpper(strings.TrimSpace(nic))
}

// ValidatePhoneNumber validates a Sri Lankan mobile number: a 9-digit
// subscriber number starting with 7, optionally prefixed with 0 or 94.
func ValidatePhoneNumber(phoneNumber string) bool {
	digits := nonDigits.ReplaceAllString(phoneNumber, "")

	switch {
	case len(digits) == 9:
		return digits[0] == '7'
	case len(digits) == 10:
		return strings.HasPrefix(digits, "07")
	case len(digits) == 11:
		return strings.HasPrefix(digits, "947")
	}
	return false
}

// NormalizePhoneNumber stores numbers in international form (94XXXXXXXXX).
func NormalizePhoneNumber(phoneNumber string) string {
	digits := nonDigits.ReplaceAllString(phoneNumber, "")

	switch {
	case len(digits) == 9:
		return "94" + digits
	case len(digits) == 10 && strings.HasPrefix(digits, "0"):
		return "94" + digits[1:]
	}
	return digits
}
