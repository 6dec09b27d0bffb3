package persistence

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	store, err := NewSQLiteStore(filepath.Join(t.TempDir(), "state", "subbatch.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestSQLiteStore_RunRoundTrip(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)
	ctx := context.Background()

	started := time.Now().UTC().Add(-time.Minute).Truncate(time.Millisecond)
	require.NoError(t, store.StartRun(ctx, Run{
		ID:         "run-1",
		InputDir:   "input",
		OutputDir:  "output",
		SourceLang: "en",
		TargetLang: "pt",
		Backend:    "google",
		StartedAt:  started,
	}))
	require.NoError(t, store.SaveRunFile(ctx, RunFile{
		RunID:     "run-1",
		Position:  0,
		InputPath: "input/a.srt",
		Status:    "success",
		Units:     10,
		Batches:   2,
		Duration:  1500 * time.Millisecond,
	}))
	require.NoError(t, store.SaveRunFile(ctx, RunFile{
		RunID:     "run-1",
		Position:  1,
		InputPath: "input/b.srt",
		Status:    "failed",
		Error:     "boom",
	}))
	require.NoError(t, store.FinishRun(ctx, Run{
		ID:          "run-1",
		Status:      RunPartial,
		FilesTotal:  2,
		FilesFailed: 1,
	}))

	runs, err := store.ListRuns(ctx, 10)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, RunPartial, runs[0].Status)
	assert.Equal(t, 2, runs[0].FilesTotal)
	assert.Equal(t, 1, runs[0].FilesFailed)
	assert.False(t, runs[0].FinishedAt.IsZero())

	files, err := store.LoadRunFiles(ctx, "run-1")
	require.NoError(t, err)
	require.Len(t, files, 2)
	assert.Equal(t, "input/a.srt", files[0].InputPath)
	assert.Equal(t, 1500*time.Millisecond, files[0].Duration)
	assert.Equal(t, "boom", files[1].Error)
}

func TestSQLiteStore_FinishUnknownRun(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)
	err := store.FinishRun(context.Background(), Run{ID: "missing", Status: RunFailed})
	require.Error(t, err)
}

func TestSQLiteStore_BatchCache(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)
	ctx := context.Background()
	key := BatchKey{ContentHash: HashBatch("Hello\n------\n"), SourceLang: "en", TargetLang: "pt", Backend: "google"}

	_, ok, err := store.GetBatch(ctx, key)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, store.PutBatch(ctx, key, "Olá\n------\n"))
	require.NoError(t, store.PutBatch(ctx, key, "Oi\n------\n"))

	got, ok, err := store.GetBatch(ctx, key)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "Oi\n------\n", got)

	other := key
	other.TargetLang = "es"
	_, ok, err = store.GetBatch(ctx, other)
	require.NoError(t, err)
	assert.False(t, ok, "cache entries are per language pair")

	n, err := store.DeleteBatchesBefore(ctx, time.Now().Add(time.Hour))
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}

func TestSQLiteStore_ReopenKeepsMigrations(t *testing.T) {
	t.Parallel()

	dbPath := filepath.Join(t.TempDir(), "subbatch.db")
	store, err := NewSQLiteStore(dbPath)
	require.NoError(t, err)
	require.NoError(t, store.Close())

	store, err = NewSQLiteStore(dbPath)
	require.NoError(t, err)
	require.NoError(t, store.Close())
}

func TestMigrationVersion(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 1, migrationVersion("001_init.sql"))
	assert.Equal(t, 12, migrationVersion("012_more.sql"))
	assert.Equal(t, 0, migrationVersion("init.sql"))
}

func TestHashBatch(t *testing.T) {
	t.Parallel()

	assert.Equal(t, HashBatch("a"), HashBatch("a"))
	assert.NotEqual(t, HashBatch("a"), HashBatch("b"))
	assert.Len(t, HashBatch("a"), 64)
}
