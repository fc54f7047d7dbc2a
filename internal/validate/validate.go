package validate

import "regexp"

var (
	emailRe = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	phoneRe = regexp.MustCompile(`^[6-9]\d{9}$`)

	lowerRe   = regexp.MustCompile(`[a-z]`)
	upperRe   = regexp.MustCompile(`[A-Z]`)
	digitRe   = regexp.MustCompile(`\d`)
	specialRe = regexp.MustCompile(`[@$!%*?#&]`)
)

func IsEmail(email string) bool {
	return emailRe.MatchString(email)
}

// IsPhoneNumber accepts a 10-digit number starting with 6-9.
func IsPhoneNumber(phone string) bool {
	return phoneRe.MatchString(phone)
}

// IsStrongPassword requires at least 8 characters with an uppercase letter, a
// lowercase letter, a digit and a special character.
func IsStrongPassword(password string) bool {
	if len(password) < 8 {
		return false
	}
	return lowerRe.MatchString(password) &&
		upperRe.MatchString(password) &&
		digitRe.MatchString(password) &&
		specialRe.MatchString(password)
}
