package ops

import "github.com/hpungsan/passgen/internal/tips"

// TipsOutput contains the security tips.
type TipsOutput struct {
	Markdown string   `json:"markdown"`
	Items    []string `json:"items"`
}

// Tips returns the password hygiene tips.
func Tips() *TipsOutput {
	return &TipsOutput{Markdown: tips.Markdown(), Items: tips.Items()}
}
