package ops

import (
	"context"

	"github.com/hpungsan/passgen/internal/errors"
)

// CopyInput contains parameters for the Copy operation.
type CopyInput struct {
	Text string
}

// CopyOutput contains the result of the Copy operation.
type CopyOutput struct {
	Copied bool `json:"copied"`
	Chars  int  `json:"chars"`
}

// Copy hands text to the clipboard collaborator. No retry on failure.
func Copy(ctx context.Context, d *Deps, input CopyInput) (*CopyOutput, error) {
	if input.Text == "" {
		return nil, errors.NewInvalidRequest("text is required")
	}
	if d.Clipboard == nil {
		return nil, errors.NewClipboardFailure(nil)
	}
	if err := d.Clipboard.Write(ctx, input.Text); err != nil {
		if errors.Is(err, errors.ErrClipboardFailure) {
			return nil, err
		}
		return nil, errors.NewClipboardFailure(err)
	}
	return &CopyOutput{Copied: true, Chars: len([]rune(input.Text))}, nil
}
