// Package auth implements account validation rules and the multi-step
// credential flows: login, verified signup, and password reset.
package auth

import (
	"errors"
	"regexp"
	"strings"
	"unicode"
)

// Validation failures, matching the messages surfaced to users.
var (
	ErrUsernameTooShort   = errors.New("Username must be at least 3 characters.")
	ErrInvalidEmail       = errors.New("Please enter a valid email address.")
	ErrWeakPassword       = errors.New("Please meet all password requirements.")
	ErrPasswordMismatch   = errors.New("Passwords do not match.")
	ErrCurrentPwRequired  = errors.New("Enter your current password.")
	ErrNewPasswordTooWeak = errors.New("New password must be at least 8 characters.")
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// ValidUsername requires at least 3 characters.
func ValidUsername(username string) bool { return len(username) >= 3 }

// ValidEmail accepts anything shaped like local@domain.tld.
func ValidEmail(email string) bool { return emailPattern.MatchString(email) }

// PasswordCriteria breaks the password policy into its individual checks so
// callers can show per-criterion feedback.
type PasswordCriteria struct {
	MinLength bool
	Upper     bool
	Digit     bool
	Special   bool
}

// specialSet is the exact symbol set the signup and reset forms accept.
// The strength meter is looser; see Strength.
const specialSet = `!@#$%^&*(),.?":{}|<>`

// CheckPassword evaluates each policy criterion.
func CheckPassword(password string) PasswordCriteria {
	c := PasswordCriteria{MinLength: len(password) >= 8}
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			c.Upper = true
		case unicode.IsDigit(r):
			c.Digit = true
		case strings.ContainsRune(specialSet, r):
			c.Special = true
		}
	}
	return c
}

// Met counts satisfied criteria, 0 through 4.
func (c PasswordCriteria) Met() int {
	n := 0
	for _, ok := range []bool{c.MinLength, c.Upper, c.Digit, c.Special} {
		if ok {
			n++
		}
	}
	return n
}

// All reports whether every criterion is satisfied.
func (c PasswordCriteria) All() bool { return c.Met() == 4 }

// Strength labels, indexed by satisfied criteria count.
var strengthLabels = [5]string{"", "Weak", "Fair", "Good", "Strong"}

// Strength returns the 0-4 score and its label for meter display. The
// meter counts any non-alphanumeric rune as a symbol, a looser rule than
// the form's special set.
func Strength(password string) (int, string) {
	if password == "" {
		return 0, ""
	}
	var upper, digit, symbol bool
	for _, r := range password {
		switch {
		case r >= 'A' && r <= 'Z':
			upper = true
		case r >= '0' && r <= '9':
			digit = true
		case r < 'a' || r > 'z':
			symbol = true
		}
	}
	score := 0
	for _, met := range []bool{len(password) >= 8, upper, digit, symbol} {
		if met {
			score++
		}
	}
	return score, strengthLabels[score]
}

// ValidateSignup runs the full signup form check, returning the first
// failure in field order.
func ValidateSignup(username, email, password, confirm string) error {
	if !ValidUsername(username) {
		return ErrUsernameTooShort
	}
	if !ValidEmail(email) {
		return ErrInvalidEmail
	}
	if !CheckPassword(password).All() {
		return ErrWeakPassword
	}
	if confirm == "" || password != confirm {
		return ErrPasswordMismatch
	}
	return nil
}

// ValidateChangePassword checks the change-password form.
func ValidateChangePassword(current, newPassword, confirm string) error {
	if current == "" {
		return ErrCurrentPwRequired
	}
	if len(newPassword) < 8 {
		return ErrNewPasswordTooWeak
	}
	if newPassword != confirm {
		return ErrPasswordMismatch
	}
	return nil
}
