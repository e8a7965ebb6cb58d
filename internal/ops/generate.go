package ops

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/hpungsan/passgen/internal/password"
)

// GenerateInput contains parameters for the Generate operation.
type GenerateInput struct {
	Length    int                // 0 → config default_length
	Selection password.Selection // at least one class required
}

// GenerateOutput contains the result of the Generate operation.
type GenerateOutput struct {
	ID          string           `json:"id"`
	Password    string           `json:"password"`
	Length      int              `json:"length"`
	Strength    *password.Result `json:"strength"`
	GeneratedAt int64            `json:"generated_at"`

	// HistoryError is set when the history write failed. The password is
	// still valid and kept in the in-memory log.
	HistoryError string `json:"history_error,omitempty"`
}

// Generate draws one password, scores it and records it in history.
func Generate(ctx context.Context, d *Deps, input GenerateInput) (*GenerateOutput, error) {
	length := input.Length
	if length == 0 {
		length = d.cfg().DefaultLength
	}
	if err := password.ValidateLength(length); err != nil {
		return nil, err
	}

	charset, err := password.BuildCharset(input.Selection)
	if err != nil {
		return nil, err
	}

	pw, err := d.Generator.Generate(charset, length)
	if err != nil {
		return nil, err
	}
	strength := password.Score(pw)

	out := &GenerateOutput{
		Password:    pw,
		Length:      length,
		Strength:    strength,
		GeneratedAt: time.Now().Unix(),
	}

	entry, err := d.History.Record(ctx, pw, strength)
	if err != nil {
		d.logger().Warn("password generated but history not persisted", zap.Error(err))
		out.HistoryError = err.Error()
	}
	if entry.ID != "" {
		out.ID = entry.ID
		out.GeneratedAt = entry.GeneratedAt.Unix()
	}

	return out, nil
}
