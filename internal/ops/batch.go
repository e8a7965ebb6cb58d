package ops

import (
	"context"

	"github.com/hpungsan/passgen/internal/errors"
	"github.com/hpungsan/passgen/internal/password"
)

// BatchInput contains parameters for the GenerateBatch operation.
type BatchInput struct {
	Length    int // 0 → config default_length
	Count     int // 0 → config default_batch_count
	Selection password.Selection
}

// BatchItem is one password of a batch.
type BatchItem struct {
	Index    int              `json:"index"`
	Password string           `json:"password"`
	Strength *password.Result `json:"strength"`
}

// BatchOutput contains the result of the GenerateBatch operation.
type BatchOutput struct {
	Items  []BatchItem `json:"items"`
	Count  int         `json:"count"`
	Length int         `json:"length"`
}

// Passwords returns the batch passwords in order.
func (o *BatchOutput) Passwords() []string {
	out := make([]string, len(o.Items))
	for i, item := range o.Items {
		out[i] = item.Password
	}
	return out
}

// GenerateBatch draws count independent passwords. Nothing is recorded in history.
func GenerateBatch(ctx context.Context, d *Deps, input BatchInput) (*BatchOutput, error) {
	if err := ctx.Err(); err != nil {
		return nil, errors.NewCancelled("batch generation")
	}

	length := input.Length
	if length == 0 {
		length = d.cfg().DefaultLength
	}
	if err := password.ValidateLength(length); err != nil {
		return nil, err
	}
	count := input.Count
	if count == 0 {
		count = d.cfg().DefaultBatchCount
	}

	charset, err := password.BuildCharset(input.Selection)
	if err != nil {
		return nil, err
	}

	passwords, err := d.Generator.GenerateBatch(charset, length, count)
	if err != nil {
		return nil, err
	}

	items := make([]BatchItem, len(passwords))
	for i, pw := range passwords {
		items[i] = BatchItem{Index: i + 1, Password: pw, Strength: password.Score(pw)}
	}

	return &BatchOutput{Items: items, Count: len(items), Length: length}, nil
}
