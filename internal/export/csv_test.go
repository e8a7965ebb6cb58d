package export

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hpungsan/passgen/internal/errors"
	"github.com/hpungsan/passgen/internal/history"
	"github.com/hpungsan/passgen/internal/password"
)

func entry(pw string, at time.Time) history.Entry {
	return history.Entry{
		ID:          "01TEST",
		Password:    pw,
		GeneratedAt: at,
		Strength:    *password.Score(pw),
	}
}

func lines(t *testing.T, csv string) []string {
	t.Helper()
	require.True(t, strings.HasPrefix(csv, BOM), "missing BOM")
	return strings.Split(strings.TrimPrefix(csv, BOM), "\n")
}

func TestHistory(t *testing.T) {
	at := time.Date(2026, 10, 16, 9, 30, 0, 0, time.UTC)
	out, err := History([]history.Entry{
		entry("Ab3!Ab3!Ab3!Ab3!", at),
		entry("abcdefgh", at.Add(-time.Hour)),
	})
	require.NoError(t, err)

	got := lines(t, out)
	require.Len(t, got, 3, "header + one row per entry")
	assert.Equal(t, "Password,Generated At,Strength,Score", got[0])
	assert.Equal(t, "Ab3!Ab3!Ab3!Ab3!,2026-10-16 09:30:00,Strong,8/8", got[1])
	assert.Equal(t, "abcdefgh,2026-10-16 08:30:00,Weak,2/8", got[2])
}

func TestHistory_Empty(t *testing.T) {
	_, err := History(nil)
	assert.True(t, errors.Is(err, errors.ErrEmptyInput), "got %v", err)
}

func TestBatch(t *testing.T) {
	out, err := Batch([]string{"Abcdefgh1!", "abcdefgh", "Abcdefgh1!"})
	require.NoError(t, err)

	got := lines(t, out)
	require.Len(t, got, 4)
	assert.Equal(t, "No.,Password,Strength,Score,Length", got[0])
	assert.Equal(t, "1,Abcdefgh1!,Medium,6/8,10", got[1])
	assert.Equal(t, "2,abcdefgh,Weak,2/8,8", got[2])
	assert.Equal(t, "3,Abcdefgh1!,Medium,6/8,10", got[3], "duplicates are kept")
}

func TestBatch_Empty(t *testing.T) {
	_, err := Batch([]string{})
	assert.True(t, errors.Is(err, errors.ErrEmptyInput), "got %v", err)
}

func TestBatch_PasswordFieldIsLiteral(t *testing.T) {
	pw := `a"b<c>d;e`
	out, err := Batch([]string{pw})
	require.NoError(t, err)

	fields := strings.Split(lines(t, out)[1], ",")
	assert.Equal(t, pw, fields[1], "no quoting or escaping applied")
}

func TestBatch_CommaShiftsColumns(t *testing.T) {
	out, err := Batch([]string{"ab,cdefgh"})
	require.NoError(t, err)

	fields := strings.Split(lines(t, out)[1], ",")
	assert.Len(t, fields, 6, "unquoted comma produces an extra column")
}

func TestFilenames(t *testing.T) {
	now := time.Date(2026, 10, 16, 23, 59, 0, 0, time.UTC)
	assert.Equal(t, "passwords_2026-10-16.csv", HistoryFilename(now))
	assert.Equal(t, "batch_passwords_2026-10-16.csv", BatchFilename(now))
}
