package password

import (
	"fmt"
	"unicode/utf8"
)

// MaxScore is the display ceiling for Result.Score.
const MaxScore = 8

// Tier is the qualitative strength bucket.
type Tier string

const (
	TierWeak   Tier = "weak"
	TierMedium Tier = "medium"
	TierStrong Tier = "strong"
)

// Label returns the display label for the tier.
func (t Tier) Label() string {
	switch t {
	case TierStrong:
		return "Strong"
	case TierMedium:
		return "Medium"
	default:
		return "Weak"
	}
}

// Feedback hints, in check order.
const (
	HintLength    = "length ≥ 8 recommended"
	HintLowercase = "include lowercase"
	HintUppercase = "include uppercase"
	HintDigits    = "include digits"
	HintSymbols   = "include symbols"
)

// Result is the outcome of scoring a password.
type Result struct {
	Score    int      `json:"score"`
	Tier     Tier     `json:"tier"`
	Feedback []string `json:"feedback"`
	MaxScore int      `json:"max_score"`
}

// Percent returns Score as a percentage of MaxScore.
func (r *Result) Percent() int {
	if r == nil || r.MaxScore == 0 {
		return 0
	}
	return r.Score * 100 / r.MaxScore
}

// Fraction renders the score as "score/max".
func (r *Result) Fraction() string {
	if r == nil {
		return ""
	}
	return fmt.Sprintf("%d/%d", r.Score, r.MaxScore)
}

// Score rates pwd. It returns nil for the empty string.
//
// Rules, each independent and additive:
//
//	length >= 12 → +2, length >= 8 → +1
//	lowercase    → +1
//	uppercase    → +1
//	digit        → +1
//	symbol       → +2 (any character outside [a-zA-Z0-9])
//	length >= 16 → +1 bonus
func Score(pwd string) *Result {
	if pwd == "" {
		return nil
	}

	var hasLower, hasUpper, hasDigit, hasSymbol bool
	for _, r := range pwd {
		switch {
		case r >= 'a' && r <= 'z':
			hasLower = true
		case r >= 'A' && r <= 'Z':
			hasUpper = true
		case r >= '0' && r <= '9':
			hasDigit = true
		default:
			hasSymbol = true
		}
	}

	n := utf8.RuneCountInString(pwd)
	score := 0
	feedback := make([]string, 0, 5)

	switch {
	case n >= 12:
		score += 2
	case n >= 8:
		score++
	default:
		feedback = append(feedback, HintLength)
	}

	if hasLower {
		score++
	} else {
		feedback = append(feedback, HintLowercase)
	}

	if hasUpper {
		score++
	} else {
		feedback = append(feedback, HintUppercase)
	}

	if hasDigit {
		score++
	} else {
		feedback = append(feedback, HintDigits)
	}

	if hasSymbol {
		score += 2
	} else {
		feedback = append(feedback, HintSymbols)
	}

	if n >= 16 {
		score++
	}

	return &Result{
		Score:    score,
		Tier:     tierFor(score),
		Feedback: feedback,
		MaxScore: MaxScore,
	}
}

func tierFor(score int) Tier {
	switch {
	case score >= 7:
		return TierStrong
	case score >= 5:
		return TierMedium
	default:
		return TierWeak
	}
}
