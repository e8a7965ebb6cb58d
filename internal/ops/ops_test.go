package ops

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/hpungsan/passgen/internal/clipboard"
	"github.com/hpungsan/passgen/internal/config"
	"github.com/hpungsan/passgen/internal/db"
	"github.com/hpungsan/passgen/internal/errors"
	"github.com/hpungsan/passgen/internal/history"
	"github.com/hpungsan/passgen/internal/password"
)

// fakeClipboard records what was written.
type fakeClipboard struct {
	last string
	err  error
}

func (f *fakeClipboard) Write(_ context.Context, text string) error {
	if f.err != nil {
		return f.err
	}
	f.last = text
	return nil
}

// failingKV reads fine but rejects every write.
type failingKV struct {
	*db.KV
}

func (failingKV) Set(context.Context, string, string) error {
	return errors.NewPersistenceFailure(db.KeyHistory, fmt.Errorf("disk full"))
}

func (failingKV) Delete(context.Context, string) error {
	return errors.NewPersistenceFailure(db.KeyHistory, fmt.Errorf("disk full"))
}

func newTestDeps(t *testing.T) (*Deps, *fakeClipboard) {
	t.Helper()

	baseDir := t.TempDir()
	database, err := db.Init(baseDir)
	require.NoError(t, err)
	t.Cleanup(func() { database.Close() })

	kv := db.NewKV(database)
	cfg := config.DefaultConfig()
	store := history.New(kv, cfg.HistoryCapacity)
	store.Load(context.Background())

	cb := &fakeClipboard{}
	return &Deps{
		Config:     cfg,
		KV:         kv,
		History:    store,
		Generator:  password.NewGenerator(password.NewSeededSource(1, 2)),
		Clipboard:  cb,
		Log:        zap.NewNop(),
		ExportsDir: filepath.Join(baseDir, "exports"),
	}, cb
}

func TestGenerate_DefaultsAndHistory(t *testing.T) {
	d, _ := newTestDeps(t)
	ctx := context.Background()

	out, err := Generate(ctx, d, GenerateInput{Selection: password.AllClasses()})
	require.NoError(t, err)

	assert.Equal(t, 16, out.Length)
	assert.Len(t, []rune(out.Password), 16)
	assert.NotEmpty(t, out.ID)
	require.NotNil(t, out.Strength)
	assert.Empty(t, out.HistoryError)

	entries := d.History.Entries()
	require.Len(t, entries, 1)
	assert.Equal(t, out.ID, entries[0].ID)
	assert.Equal(t, out.Password, entries[0].Password)
}

func TestGenerate_CharsetMembership(t *testing.T) {
	d, _ := newTestDeps(t)

	out, err := Generate(context.Background(), d, GenerateInput{
		Length:    32,
		Selection: password.Selection{Numbers: true},
	})
	require.NoError(t, err)
	for _, r := range out.Password {
		assert.Contains(t, password.Numbers, string(r))
	}
}

func TestGenerate_EmptySelection(t *testing.T) {
	d, _ := newTestDeps(t)

	_, err := Generate(context.Background(), d, GenerateInput{Length: 12})
	assert.True(t, errors.Is(err, errors.ErrInvalidConfiguration), "got %v", err)
	assert.Equal(t, 0, d.History.Len())
}

func TestGenerate_LengthOutOfRange(t *testing.T) {
	d, _ := newTestDeps(t)

	for _, length := range []int{3, 33, -1} {
		_, err := Generate(context.Background(), d, GenerateInput{Length: length, Selection: password.AllClasses()})
		assert.True(t, errors.Is(err, errors.ErrInvalidConfiguration), "length %d: got %v", length, err)
	}
}

func TestGenerate_HistoryWriteFailure(t *testing.T) {
	d, _ := newTestDeps(t)
	d.History = history.New(failingKV{d.KV.(*db.KV)}, 50)

	out, err := Generate(context.Background(), d, GenerateInput{Selection: password.AllClasses()})
	require.NoError(t, err)
	assert.Contains(t, out.HistoryError, "PERSISTENCE_FAILURE")
	assert.Equal(t, 1, d.History.Len(), "in-memory log keeps the entry")
}

func TestGenerateBatch(t *testing.T) {
	d, _ := newTestDeps(t)

	out, err := GenerateBatch(context.Background(), d, BatchInput{
		Length:    10,
		Count:     20,
		Selection: password.AllClasses(),
	})
	require.NoError(t, err)
	require.Len(t, out.Items, 20)
	assert.Equal(t, 20, out.Count)
	for i, item := range out.Items {
		assert.Equal(t, i+1, item.Index)
		assert.Len(t, item.Password, 10)
		assert.NotNil(t, item.Strength)
	}
	assert.Equal(t, 0, d.History.Len(), "batch does not touch history")
	assert.Len(t, out.Passwords(), 20)
}

func TestGenerateBatch_DefaultCount(t *testing.T) {
	d, _ := newTestDeps(t)

	out, err := GenerateBatch(context.Background(), d, BatchInput{Selection: password.AllClasses()})
	require.NoError(t, err)
	assert.Equal(t, 5, out.Count)
	assert.Equal(t, 16, out.Length)
}

func TestGenerateBatch_CountOutOfRange(t *testing.T) {
	d, _ := newTestDeps(t)

	for _, count := range []int{-1, 21} {
		_, err := GenerateBatch(context.Background(), d, BatchInput{Count: count, Selection: password.AllClasses()})
		assert.True(t, errors.Is(err, errors.ErrInvalidConfiguration), "count %d: got %v", count, err)
	}
}

func TestGenerateBatch_Cancelled(t *testing.T) {
	d, _ := newTestDeps(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := GenerateBatch(ctx, d, BatchInput{Selection: password.AllClasses()})
	assert.True(t, errors.Is(err, errors.ErrCancelled), "got %v", err)
}

func TestCheck(t *testing.T) {
	out := Check(CheckInput{Password: "Abcdef1!"})
	require.NotNil(t, out.Strength)
	assert.Equal(t, 8, out.Length)
	assert.Equal(t, 6, out.Strength.Score)
	assert.Equal(t, password.TierMedium, out.Strength.Tier)
	assert.Equal(t, 75, out.Percent)
}

func TestCheck_Empty(t *testing.T) {
	out := Check(CheckInput{})
	assert.Nil(t, out.Strength)
	assert.Equal(t, 0, out.Percent)
	assert.Equal(t, 0, out.Length)
}

func TestListHistory_Pagination(t *testing.T) {
	d, _ := newTestDeps(t)
	ctx := context.Background()

	for range 5 {
		_, err := Generate(ctx, d, GenerateInput{Selection: password.AllClasses()})
		require.NoError(t, err)
	}

	out, err := ListHistory(d, ListHistoryInput{Limit: 2, Offset: 1})
	require.NoError(t, err)
	assert.Len(t, out.Items, 2)
	assert.Equal(t, 5, out.Pagination.Total)
	assert.True(t, out.Pagination.HasMore)
	assert.Equal(t, 50, out.Capacity)

	out, err = ListHistory(d, ListHistoryInput{Offset: 10})
	require.NoError(t, err)
	assert.Empty(t, out.Items)
	assert.False(t, out.Pagination.HasMore)
	assert.Equal(t, DefaultHistoryLimit, out.Pagination.Limit)
}

func TestListHistory_NegativeOffset(t *testing.T) {
	d, _ := newTestDeps(t)

	_, err := ListHistory(d, ListHistoryInput{Offset: -1})
	assert.True(t, errors.Is(err, errors.ErrInvalidRequest))
}

func TestClearHistory_RequiresConfirm(t *testing.T) {
	d, _ := newTestDeps(t)
	ctx := context.Background()
	_, err := Generate(ctx, d, GenerateInput{Selection: password.AllClasses()})
	require.NoError(t, err)

	_, err = ClearHistory(ctx, d, ClearHistoryInput{})
	assert.True(t, errors.Is(err, errors.ErrInvalidRequest))
	assert.Equal(t, 1, d.History.Len())

	out, err := ClearHistory(ctx, d, ClearHistoryInput{Confirm: true})
	require.NoError(t, err)
	assert.Equal(t, 1, out.Cleared)
	assert.Equal(t, "Cleared 1 history entry", out.Message)
	assert.Equal(t, 0, d.History.Len())
}

func TestFormatClearMessage(t *testing.T) {
	assert.Equal(t, "History was already empty", formatClearMessage(0))
	assert.Equal(t, "Cleared 1 history entry", formatClearMessage(1))
	assert.Equal(t, "Cleared 3 history entries", formatClearMessage(3))
}

func TestCopy(t *testing.T) {
	d, cb := newTestDeps(t)

	out, err := Copy(context.Background(), d, CopyInput{Text: "Abc123!?"})
	require.NoError(t, err)
	assert.True(t, out.Copied)
	assert.Equal(t, 8, out.Chars)
	assert.Equal(t, "Abc123!?", cb.last)
}

func TestCopy_Empty(t *testing.T) {
	d, _ := newTestDeps(t)

	_, err := Copy(context.Background(), d, CopyInput{})
	assert.True(t, errors.Is(err, errors.ErrInvalidRequest))
}

func TestCopy_Failure(t *testing.T) {
	d, cb := newTestDeps(t)
	cb.err = fmt.Errorf("no display")

	_, err := Copy(context.Background(), d, CopyInput{Text: "x"})
	assert.True(t, errors.Is(err, errors.ErrClipboardFailure), "got %v", err)
}

func TestCopy_WriterFunc(t *testing.T) {
	d, _ := newTestDeps(t)
	var got string
	d.Clipboard = clipboard.WriterFunc(func(_ context.Context, text string) error {
		got = text
		return nil
	})

	_, err := Copy(context.Background(), d, CopyInput{Text: "hello"})
	require.NoError(t, err)
	assert.Equal(t, "hello", got)
}

func TestBranding_SetGetReset(t *testing.T) {
	d, _ := newTestDeps(t)
	ctx := context.Background()

	b := GetBranding(ctx, d)
	assert.Equal(t, "#4f46e5", b.PrimaryColor)
	assert.Empty(t, b.CompanyName)

	saved, err := SetBranding(ctx, d, SetBrandingInput{CompanyName: " Acme ", PrimaryColor: "#FF0000"})
	require.NoError(t, err)
	assert.Equal(t, "Acme", saved.CompanyName)
	assert.Equal(t, "#ff0000", saved.PrimaryColor)

	b = GetBranding(ctx, d)
	assert.Equal(t, "Acme", b.CompanyName)
	assert.Equal(t, "#ff0000", b.PrimaryColor)

	reset, err := SetBranding(ctx, d, SetBrandingInput{Reset: true})
	require.NoError(t, err)
	assert.Equal(t, "#4f46e5", reset.PrimaryColor)
	assert.Equal(t, "#4f46e5", GetBranding(ctx, d).PrimaryColor)
}

func TestSetBranding_InvalidColor(t *testing.T) {
	d, _ := newTestDeps(t)

	_, err := SetBranding(context.Background(), d, SetBrandingInput{PrimaryColor: "blue"})
	assert.True(t, errors.Is(err, errors.ErrInvalidRequest), "got %v", err)
}

func TestTips(t *testing.T) {
	out := Tips()
	assert.NotEmpty(t, out.Items)
	assert.Contains(t, out.Markdown, "- ")
	assert.False(t, strings.Contains(out.Items[0], "**"))
}
