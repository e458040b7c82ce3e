package scheduling

import (
	"strings"
	"unicode/utf8"
)

const maxGuestNameLen = 100

// NormalizePhone reduces a phone number to its 11 digits, country code first.
// Formatting characters are dropped and a leading trunk 8 becomes 7, so
// "+7 (999) 123-45-67" and "8 999 123 45 67" both yield "79991234567".
// Only ASCII digits count.
func NormalizePhone(raw string) (string, error) {
	var b strings.Builder
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	digits := b.String()
	if len(digits) == 11 && digits[0] == '8' {
		digits = "7" + digits[1:]
	}
	if len(digits) != 11 || digits[0] != '7' {
		return "", invalid("guestPhone", "phone must be +7 followed by 10 digits")
	}
	return digits, nil
}

// NormalizeGuestName trims the name and enforces a sane length.
func NormalizeGuestName(raw string) (string, error) {
	name := strings.Join(strings.Fields(raw), " ")
	if name == "" {
		return "", invalid("guestName", "guest name is required")
	}
	if utf8.RuneCountInString(name) > maxGuestNameLen {
		return "", invalid("guestName", "guest name is longer than %d characters", maxGuestNameLen)
	}
	return name, nil
}

// ValidatePartySize checks the party against the global bounds.
func ValidatePartySize(n int, s Settings) error {
	s = s.withDefaults()
	if n < 1 || n > s.MaxPartySize {
		return invalid("peopleCount", "party size must be between 1 and %d", s.MaxPartySize)
	}
	return nil
}
