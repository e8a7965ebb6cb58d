// Package export renders history entries and batch results as CSV text.
//
// Fields are comma-joined without quoting. A password that contains a comma
// (possible when symbols are enabled) therefore spans two columns; readers
// that need exact columns should split on the first and last fields instead.
package export

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/hpungsan/passgen/internal/errors"
	"github.com/hpungsan/passgen/internal/history"
	"github.com/hpungsan/passgen/internal/password"
)

// BOM is written first so spreadsheet tools detect UTF-8.
const BOM = "\ufeff"

// TimestampLayout formats history timestamps.
const TimestampLayout = "2006-01-02 15:04:05"

var (
	historyHeader = []string{"Password", "Generated At", "Strength", "Score"}
	batchHeader   = []string{"No.", "Password", "Strength", "Score", "Length"}
)

// History renders the history log, one row per entry in the given order.
func History(entries []history.Entry) (string, error) {
	if len(entries) == 0 {
		return "", errors.NewEmptyInput("history")
	}

	rows := make([][]string, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, []string{
			e.Password,
			e.GeneratedAt.Format(TimestampLayout),
			e.Strength.Tier.Label(),
			e.Strength.Fraction(),
		})
	}
	return render(historyHeader, rows), nil
}

// Batch renders a batch result. Strength is scored at export time.
func Batch(passwords []string) (string, error) {
	if len(passwords) == 0 {
		return "", errors.NewEmptyInput("batch")
	}

	rows := make([][]string, 0, len(passwords))
	for i, pw := range passwords {
		row := []string{fmt.Sprintf("%d", i+1), pw, "", "", fmt.Sprintf("%d", utf8.RuneCountInString(pw))}
		if r := password.Score(pw); r != nil {
			row[2] = r.Tier.Label()
			row[3] = r.Fraction()
		}
		rows = append(rows, row)
	}
	return render(batchHeader, rows), nil
}

// HistoryFilename returns passwords_<date>.csv.
func HistoryFilename(now time.Time) string {
	return "passwords_" + now.Format(time.DateOnly) + ".csv"
}

// BatchFilename returns batch_passwords_<date>.csv.
func BatchFilename(now time.Time) string {
	return "batch_passwords_" + now.Format(time.DateOnly) + ".csv"
}

func render(header []string, rows [][]string) string {
	lines := make([]string, 0, len(rows)+1)
	lines = append(lines, strings.Join(header, ","))
	for _, row := range rows {
		lines = append(lines, strings.Join(row, ","))
	}
	return BOM + strings.Join(lines, "\n")
}
