package ops

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/hpungsan/passgen/internal/errors"
	"github.com/hpungsan/passgen/internal/history"
	"github.com/hpungsan/passgen/internal/password"
)

// TestFullWorkflow exercises the history lifecycle:
// generate → list → export → reload from disk → clear → export (empty)
func TestFullWorkflow(t *testing.T) {
	d, _ := newTestDeps(t)
	ctx := context.Background()

	// 1. Generate
	var ids []string
	for range 3 {
		out, err := Generate(ctx, d, GenerateInput{Length: 20, Selection: password.AllClasses()})
		require.NoError(t, err)
		ids = append(ids, out.ID)
	}

	// 2. List, newest first
	list, err := ListHistory(d, ListHistoryInput{})
	require.NoError(t, err)
	require.Len(t, list.Items, 3)
	require.Equal(t, ids[2], list.Items[0].ID)
	require.Equal(t, ids[0], list.Items[2].ID)

	// 3. Export
	exp, err := ExportHistory(ctx, d, ExportHistoryInput{})
	require.NoError(t, err)
	require.Equal(t, 3, exp.Count)

	// 4. A fresh store sees the persisted log
	reloaded := history.New(d.KV, d.Config.HistoryCapacity)
	reloaded.Load(ctx)
	require.Equal(t, 3, reloaded.Len())
	require.Equal(t, ids[2], reloaded.Entries()[0].ID)

	// 5. Clear
	cleared, err := ClearHistory(ctx, d, ClearHistoryInput{Confirm: true})
	require.NoError(t, err)
	require.Equal(t, 3, cleared.Cleared)

	reloaded.Load(ctx)
	require.Equal(t, 0, reloaded.Len())

	// 6. Export now has nothing to write
	_, err = ExportHistory(ctx, d, ExportHistoryInput{})
	require.True(t, errors.Is(err, errors.ErrEmptyInput))
}

// TestWorkflow_CapacityTruncation records one past capacity.
func TestWorkflow_CapacityTruncation(t *testing.T) {
	d, _ := newTestDeps(t)
	ctx := context.Background()

	var first string
	for i := range 51 {
		out, err := Generate(ctx, d, GenerateInput{Selection: password.AllClasses()})
		require.NoError(t, err)
		if i == 0 {
			first = out.ID
		}
	}

	list, err := ListHistory(d, ListHistoryInput{Limit: 100})
	require.NoError(t, err)
	require.Len(t, list.Items, 50)
	for _, e := range list.Items {
		require.NotEqual(t, first, e.ID, "oldest entry is dropped")
	}
}
