package metrics

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	metricsdb "shopping-list/internal/metrics/metrics_db"
)

// TaskMetric records the outcome of one background task.
type TaskMetric struct {
	TaskName  string
	Succeeded bool
	LatencyMS int64
	Error     string
	Timestamp time.Time
}

// Store handles persistence of metrics to SQLite.
type Store struct {
	queries *metricsdb.Queries
	db      *sql.DB
}

// NewStore initializes the Store with an existing database connection.
func NewStore(db *sql.DB) *Store {
	return &Store{
		queries: metricsdb.New(db),
		db:      db,
	}
}

// Record saves a metric to the database.
func (s *Store) Record(ctx context.Context, m TaskMetric) error {
	ts := m.Timestamp
	if ts.IsZero() {
		ts = time.Now()
	}

	var succeeded int64
	if m.Succeeded {
		succeeded = 1
	}

	err := s.queries.InsertTaskMetric(ctx, metricsdb.InsertTaskMetricParams{
		TaskName:  m.TaskName,
		Succeeded: succeeded,
		LatencyMs: m.LatencyMS,
		Error:     m.Error,
		CreatedAt: ts.UTC(),
	})
	if err != nil {
		return fmt.Errorf("failed to insert task metric: %w", err)
	}
	return nil
}

// DailyStats represents task totals for a single day.
type DailyStats struct {
	Date         string
	Total        int
	Failed       int
	AvgLatencyMS float64
}

// GetDailyStats retrieves task totals for the last N days, newest first.
func (s *Store) GetDailyStats(ctx context.Context, days int) ([]DailyStats, error) {
	since := time.Now().UTC().AddDate(0, 0, -days)
	rows, err := s.queries.GetDailyStats(ctx, since)
	if err != nil {
		return nil, fmt.Errorf("failed to query daily stats: %w", err)
	}

	results := make([]DailyStats, 0, len(rows))
	for _, r := range rows {
		results = append(results, DailyStats{
			Date:         r.Day,
			Total:        int(r.Total),
			Failed:       int(r.Failed),
			AvgLatencyMS: r.AvgLatencyMs,
		})
	}
	return results, nil
}

// Cleanup removes records older than the specified number of days.
func (s *Store) Cleanup(ctx context.Context, olderThanDays int) (int64, error) {
	threshold := time.Now().UTC().AddDate(0, 0, -olderThanDays)
	removed, err := s.queries.DeleteTaskMetricsBefore(ctx, threshold)
	if err != nil {
		return 0, fmt.Errorf("failed to clean up task metrics: %w", err)
	}
	return removed, nil
}
