// Package password builds character pools, draws random passwords from them
// and scores password strength.
package password

import (
	"strings"

	"github.com/hpungsan/passgen/internal/errors"
)

// Fixed alphabets, concatenated in this order when enabled.
const (
	Uppercase = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	Lowercase = "abcdefghijklmnopqrstuvwxyz"
	Numbers   = "0123456789"
	Symbols   = "!@#$%^&*()_+-=[]{}|;:,.<>?"
)

// Selection holds the character-class flags for generation.
type Selection struct {
	Uppercase bool `json:"uppercase"`
	Lowercase bool `json:"lowercase"`
	Numbers   bool `json:"numbers"`
	Symbols   bool `json:"symbols"`
}

// AllClasses returns a Selection with every class enabled.
func AllClasses() Selection {
	return Selection{Uppercase: true, Lowercase: true, Numbers: true, Symbols: true}
}

// Any reports whether at least one class is enabled.
func (s Selection) Any() bool {
	return s.Uppercase || s.Lowercase || s.Numbers || s.Symbols
}

// BuildCharset concatenates the alphabets enabled in sel.
// An all-false selection is rejected with INVALID_CONFIGURATION.
func BuildCharset(sel Selection) (string, error) {
	var b strings.Builder
	if sel.Uppercase {
		b.WriteString(Uppercase)
	}
	if sel.Lowercase {
		b.WriteString(Lowercase)
	}
	if sel.Numbers {
		b.WriteString(Numbers)
	}
	if sel.Symbols {
		b.WriteString(Symbols)
	}

	if b.Len() == 0 {
		return "", errors.NewInvalidConfiguration("select at least one character class")
	}
	return b.String(), nil
}
