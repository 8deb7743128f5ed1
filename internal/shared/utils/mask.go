package utils

import "strings"

// MaskEmail masks an email address for safe logging.
// Example: "user@example.com" -> "u***@example.com"
func MaskEmail(email string) string {
	parts := strings.SplitN(email, "@", 2)
	if len(parts) != 2 {
		return "***"
	}
	local := parts[0]
	if len(local) <= 1 {
		return local + "***@" + parts[1]
	}
	return string(local[0]) + "***@" + parts[1]
}

// MaskCard reduces a card number (or an already partially masked PAN) to
// its last four digits. Gateways echo the PAN in different shapes, so
// anything shorter than four digits collapses to "****".
func MaskCard(pan string) string {
	digits := make([]rune, 0, len(pan))
	for _, r := range pan {
		if r >= '0' && r <= '9' {
			digits = append(digits, r)
		}
	}
	if len(digits) < 4 {
		return "****"
	}
	return "**** **** **** " + string(digits[len(digits)-4:])
}

// MaskToken keeps a short recognizable prefix of an opaque credential for logs.
func MaskToken(token string) string {
	if len(token) <= 6 {
		return "***"
	}
	return token[:6] + "***"
}
