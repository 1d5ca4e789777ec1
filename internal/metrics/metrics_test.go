package metrics

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shopping-list/internal/database"
)

func TestStore(t *testing.T) {
	ctx := context.Background()
	db, err := database.NewDB(filepath.Join(t.TempDir(), "metrics.db"), zerolog.Nop())
	require.NoError(t, err)
	defer db.Close()

	store := NewStore(db.SQL)

	require.NoError(t, store.Record(ctx, TaskMetric{TaskName: "insert", Succeeded: true, LatencyMS: 4}))
	require.NoError(t, store.Record(ctx, TaskMetric{TaskName: "delete", Succeeded: false, LatencyMS: 8, Error: "disk full"}))
	require.NoError(t, store.Record(ctx, TaskMetric{
		TaskName:  "insert",
		Succeeded: true,
		LatencyMS: 1,
		Timestamp: time.Now().AddDate(0, 0, -60),
	}))

	t.Run("GetDailyStats", func(t *testing.T) {
		stats, err := store.GetDailyStats(ctx, 7)
		require.NoError(t, err)
		require.Len(t, stats, 1)

		assert.Equal(t, time.Now().UTC().Format("2006-01-02"), stats[0].Date)
		assert.Equal(t, 2, stats[0].Total)
		assert.Equal(t, 1, stats[0].Failed)
		assert.InDelta(t, 6.0, stats[0].AvgLatencyMS, 0.001)
	})

	t.Run("Cleanup", func(t *testing.T) {
		removed, err := store.Cleanup(ctx, 30)
		require.NoError(t, err)
		assert.Equal(t, int64(1), removed)

		stats, err := store.GetDailyStats(ctx, 365)
		require.NoError(t, err)
		require.Len(t, stats, 1)
		assert.Equal(t, 2, stats[0].Total)
	})
}

func TestGetSysHealth(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.bin"), make([]byte, 2048), 0644))

	health := GetSysHealth(dir)

	assert.Equal(t, "2.0 KB", health.DataDiskSize)
	assert.Positive(t, health.Goroutines)
}

func TestFormatBytes(t *testing.T) {
	assert.Equal(t, "512 B", formatBytes(512))
	assert.Equal(t, "1.5 KB", formatBytes(1536))
	assert.Equal(t, "3.0 MB", formatBytes(3*1024*1024))
}
