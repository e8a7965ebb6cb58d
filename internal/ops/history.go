package ops

import (
	"context"
	"fmt"

	"github.com/hpungsan/passgen/internal/errors"
	"github.com/hpungsan/passgen/internal/history"
)

// ListHistoryInput contains parameters for the ListHistory operation.
type ListHistoryInput struct {
	Limit  int
	Offset int
}

// ListHistoryOutput contains the result of the ListHistory operation.
type ListHistoryOutput struct {
	Items      []history.Entry `json:"items"`
	Pagination Pagination      `json:"pagination"`
	Capacity   int             `json:"capacity"`
}

// ListHistory returns a page of the history log, newest first.
func ListHistory(d *Deps, input ListHistoryInput) (*ListHistoryOutput, error) {
	limit := input.Limit
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}
	if limit > MaxHistoryLimit {
		limit = MaxHistoryLimit
	}
	if input.Offset < 0 {
		return nil, errors.NewInvalidRequest("offset must not be negative")
	}

	all := d.History.Entries()
	total := len(all)

	start := min(input.Offset, total)
	end := min(start+limit, total)
	items := all[start:end]

	return &ListHistoryOutput{
		Items: items,
		Pagination: Pagination{
			Limit:   limit,
			Offset:  input.Offset,
			HasMore: end < total,
			Total:   total,
		},
		Capacity: d.History.Capacity(),
	}, nil
}

// ClearHistoryInput contains parameters for the ClearHistory operation.
type ClearHistoryInput struct {
	Confirm bool
}

// ClearHistoryOutput contains the result of the ClearHistory operation.
type ClearHistoryOutput struct {
	Cleared int    `json:"cleared"`
	Message string `json:"message"`
}

// ClearHistory wipes the history log. Confirm must be true.
func ClearHistory(ctx context.Context, d *Deps, input ClearHistoryInput) (*ClearHistoryOutput, error) {
	if !input.Confirm {
		return nil, errors.NewInvalidRequest("clearing history requires confirmation")
	}

	n, err := d.History.Clear(ctx)
	if err != nil {
		return nil, err
	}

	return &ClearHistoryOutput{
		Cleared: n,
		Message: formatClearMessage(n),
	}, nil
}

// formatClearMessage creates a human-readable message for the clear result.
func formatClearMessage(n int) string {
	if n == 0 {
		return "History was already empty"
	}

	entryWord := "entry"
	if n > 1 {
		entryWord = "entries"
	}
	return fmt.Sprintf("Cleared %d history %s", n, entryWord)
}
