package results

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(":memory:")
	require.NoError(t, err)
	return store
}

func sampleSummary(started time.Time) Summary {
	return Summary{
		ConfigPath: "line.yaml",
		Seed:       42,
		Horizon:    100,
		TimeUnit:   "minutes",
		Created:    12,
		Completed:  9,
		Wall:       150 * time.Millisecond,
		StartedAt:  started,
		ProcessStats: []ProcessStat{
			{Process: "cutting", MeanBuffer: 1.5, PeakBuffer: 3, PeakInService: 1, Finished: 11},
			{Process: "painting", MeanBuffer: 0.2, PeakBuffer: 1, PeakInService: 1, Finished: 9},
		},
	}
}

func TestStore_SaveAndListRuns(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	id, err := store.SaveRun(ctx, sampleSummary(time.Now()))
	require.NoError(t, err)
	require.NotEmpty(t, id)

	runs, err := store.Runs(ctx)
	require.NoError(t, err)
	require.Len(t, runs, 1)

	run := runs[0]
	assert.Equal(t, id, run.ID)
	assert.Equal(t, "line.yaml", run.ConfigPath)
	assert.Equal(t, int64(42), run.Seed)
	assert.Equal(t, int64(100), run.Horizon)
	assert.Equal(t, "minutes", run.TimeUnit)
	assert.Equal(t, int64(12), run.Created)
	assert.Equal(t, int64(9), run.Completed)
	assert.Equal(t, int64(150), run.WallMillis)
}

func TestStore_RunsNewestFirst(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()
	base := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)

	older := sampleSummary(base)
	newer := sampleSummary(base.Add(time.Hour))
	newer.Seed = 43

	_, err := store.SaveRun(ctx, older)
	require.NoError(t, err)
	newerID, err := store.SaveRun(ctx, newer)
	require.NoError(t, err)

	runs, err := store.Runs(ctx)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, newerID, runs[0].ID)
	assert.Equal(t, int64(43), runs[0].Seed)
}

func TestStore_ProcessStatsKeyedByRun(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	first, err := store.SaveRun(ctx, sampleSummary(time.Now()))
	require.NoError(t, err)
	second, err := store.SaveRun(ctx, sampleSummary(time.Now()))
	require.NoError(t, err)

	rows, err := store.ProcessStats(ctx, first)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "cutting", rows[0].Process)
	assert.Equal(t, 1.5, rows[0].MeanBuffer)
	assert.Equal(t, 3, rows[0].PeakBuffer)
	assert.Equal(t, int64(11), rows[0].Finished)
	assert.Equal(t, "painting", rows[1].Process)

	rows, err = store.ProcessStats(ctx, second)
	require.NoError(t, err)
	assert.Len(t, rows, 2)
}

func TestStore_PersistsAcrossOpens(t *testing.T) {
	path := filepath.Join(t.TempDir(), "results.db")
	ctx := context.Background()

	store, err := Open(path)
	require.NoError(t, err)
	id, err := store.SaveRun(ctx, sampleSummary(time.Now()))
	require.NoError(t, err)

	reopened, err := Open(path)
	require.NoError(t, err)
	runs, err := reopened.Runs(ctx)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, id, runs[0].ID)
}
