package validation

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/goliatone/go-formwizard/pkg/i18n"
)

// Message keys returned by the validators.
const (
	KeyEmailRequired     = "validation.email.required"
	KeyEmailInvalid      = "validation.email.invalid"
	KeyPhoneRequired     = "validation.phone.required"
	KeyPhoneDigits       = "validation.phone.digits"
	KeyPhoneLength       = "validation.phone.length"
	KeyPhoneInvalid      = "validation.phone.invalid"
	KeyPasswordTooShort  = "validation.password.too_short"
	KeyPasswordNoDigit   = "validation.password.no_digit"
	KeyPasswordNoLetter  = "validation.password.no_letter"
	KeyPasswordsMismatch = "validation.confirm.mismatch"
)

// MinPasswordLength is the minimum number of characters in a password.
const MinPasswordLength = 6

var defaultMessages = map[string]string{
	KeyEmailRequired:     "Email is required",
	KeyEmailInvalid:      "Enter a valid email address",
	KeyPhoneRequired:     "Phone is required",
	KeyPhoneDigits:       "Enter a phone number",
	KeyPhoneLength:       "Enter a valid phone number (10 to 15 digits)",
	KeyPhoneInvalid:      "Enter a valid phone number",
	KeyPasswordTooShort:  "Password must be at least 6 characters long",
	KeyPasswordNoDigit:   "Password must contain at least one digit",
	KeyPasswordNoLetter:  "Password must contain at least one letter",
	KeyPasswordsMismatch: "Passwords do not match",
}

var (
	// Unicode separators and BOM count as whitespace too.
	emailPattern  = regexp.MustCompile(`^[^\s\p{Z}\x{FEFF}@]+@[^\s\p{Z}\x{FEFF}@]+\.[^\s\p{Z}\x{FEFF}@]+$`)
	letterPattern = regexp.MustCompile(`[a-zA-Zа-яА-Я]`)
)

// Message returns the text for key: translated when t knows it, otherwise
// the English default. Unknown keys come back unchanged.
func Message(t i18n.Translator, locale, key string) string {
	if key == "" {
		return ""
	}
	return i18n.Translate(t, locale, key, defaultMessages[key])
}

// Email requires a non-empty local@domain.tld address without spaces.
func Email(value string) string {
	if value == "" {
		return KeyEmailRequired
	}
	if !emailPattern.MatchString(value) {
		return KeyEmailInvalid
	}
	return ""
}

// Phone accepts 10 to 15 digits once punctuation is stripped. Eleven digit
// numbers must carry the 7 or 8 country prefix.
func Phone(value string) string {
	digits, key := phoneDigits(value)
	if key != "" {
		return key
	}
	if len(digits) == 11 && digits[0] != '7' && digits[0] != '8' {
		return KeyPhoneInvalid
	}
	return ""
}

// PhoneLoose is Phone without the country prefix check; the profile page
// uses it.
func PhoneLoose(value string) string {
	_, key := phoneDigits(value)
	return key
}

func phoneDigits(value string) (string, string) {
	if value == "" {
		return "", KeyPhoneRequired
	}
	digits := strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, value)
	if digits == "" {
		return "", KeyPhoneDigits
	}
	if len(digits) < 10 || len(digits) > 15 {
		return digits, KeyPhoneLength
	}
	return digits, ""
}

// Password requires MinPasswordLength characters, a digit and a Latin or
// Cyrillic letter. Checks run in that order and the first failure wins.
func Password(value string) string {
	if utf8.RuneCountInString(value) < MinPasswordLength {
		return KeyPasswordTooShort
	}
	if strings.IndexFunc(value, isASCIIDigit) < 0 {
		return KeyPasswordNoDigit
	}
	if !letterPattern.MatchString(value) {
		return KeyPasswordNoLetter
	}
	return ""
}

// ConfirmPassword requires an exact match.
func ConfirmPassword(password, confirm string) string {
	if password != confirm {
		return KeyPasswordsMismatch
	}
	return ""
}

func isASCIIDigit(r rune) bool {
	return r < unicode.MaxASCII && unicode.IsDigit(r)
}

// Func is a single-value validator.
type Func func(value string) string

// Lookup returns a named single-value validator: email, phone, phone-loose
// or password.
func Lookup(name string) (Func, bool) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "email":
		return Email, true
	case "phone":
		return Phone, true
	case "phone-loose", "phone_loose":
		return PhoneLoose, true
	case "password":
		return Password, true
	default:
		return nil, false
	}
}

// Names lists the validators accepted by Lookup.
func Names() []string {
	return []string{"email", "phone", "phone-loose", "password"}
}
