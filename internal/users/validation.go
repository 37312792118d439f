package users

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
	"golang.org/x/text/width"
)

// hangul covers conjoining Jamo, compatibility Jamo consonants and vowels,
// and precomposed syllables.
var hangul = &unicode.RangeTable{
	R16: []unicode.Range16{
		{Lo: 0x1100, Hi: 0x11ff, Stride: 1},
		{Lo: 0x3131, Hi: 0x3163, Stride: 1},
		{Lo: 0xac00, Hi: 0xd7a3, Stride: 1},
	},
}

// IsValidName reports whether name is free of Korean script.
func IsValidName(name string) bool {
	folded := width.Fold.String(norm.NFC.String(name))
	for _, r := range folded {
		if unicode.Is(hangul, r) {
			return false
		}
	}
	return true
}

// IsValidEmail only checks for an '@'.
func IsValidEmail(email string) bool {
	return strings.Contains(email, "@")
}

// ValidateCreateUserRequest applies the create rules in order: presence, name, email.
func ValidateCreateUserRequest(req *CreateUserRequest) error {
	if req == nil || req.Name == "" || req.Email == "" {
		return NewMissingFieldsError(MessageMissingNameOrEmail)
	}
	if !IsValidName(req.Name) {
		return NewInvalidNameError(req.Name)
	}
	if !IsValidEmail(req.Email) {
		return NewInvalidEmailError(req.Name)
	}
	return nil
}

// ValidateUpdateEmailRequest applies the update rules in order: presence, email.
func ValidateUpdateEmailRequest(req *UpdateEmailRequest) error {
	if req == nil || req.Name == "" || req.Email == "" {
		return NewMissingFieldsError(MessageMissingNameOrEmail)
	}
	if !IsValidEmail(req.Email) {
		return NewInvalidEmailError(req.Name)
	}
	return nil
}
