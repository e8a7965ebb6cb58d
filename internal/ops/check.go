package ops

import (
	"unicode/utf8"

	"github.com/hpungsan/passgen/internal/password"
)

// CheckInput contains parameters for the Check operation.
type CheckInput struct {
	Password string
}

// CheckOutput contains the result of the Check operation.
// Strength is nil when the password is empty.
type CheckOutput struct {
	Length   int              `json:"length"`
	Strength *password.Result `json:"strength"`
	Percent  int              `json:"percent"`
}

// Check scores a user-supplied password without recording it.
func Check(input CheckInput) *CheckOutput {
	r := password.Score(input.Password)
	return &CheckOutput{
		Length:   utf8.RuneCountInString(input.Password),
		Strength: r,
		Percent:  r.Percent(),
	}
}
