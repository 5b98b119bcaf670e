package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"smarttodo-cli/internal/model"
)

// CachedDay is the last successful fetch of one calendar day.
type CachedDay struct {
	Date      string
	Tasks     []model.Task
	FetchedAt time.Time
}

// PutDay replaces the cached task list for (server, date).
func (s Store) PutDay(ctx context.Context, server, date string, tasks []model.Task, fetchedAt time.Time) error {
	db, err := s.openSQLite(ctx)
	if err != nil {
		return err
	}
	defer db.Close()

	if tasks == nil {
		tasks = []model.Task{}
	}
	raw, err := json.Marshal(tasks)
	if err != nil {
		return err
	}
	_, err = db.ExecContext(ctx,
		`INSERT OR REPLACE INTO day_tasks(server, date, tasks_json, fetched_at_unixms) VALUES(?, ?, ?, ?)`,
		strings.TrimSpace(server), date, string(raw), fetchedAt.UTC().UnixMilli())
	return err
}

// Day returns the cached tasks for (server, date). ok is false on a cache miss.
func (s Store) Day(ctx context.Context, server, date string) (CachedDay, bool, error) {
	db, err := s.openSQLite(ctx)
	if err != nil {
		return CachedDay{}, false, err
	}
	defer db.Close()

	var raw string
	var ms int64
	err = db.QueryRowContext(ctx,
		`SELECT tasks_json, fetched_at_unixms FROM day_tasks WHERE server = ? AND date = ?`,
		strings.TrimSpace(server), date).Scan(&raw, &ms)
	if errors.Is(err, sql.ErrNoRows) {
		return CachedDay{}, false, nil
	}
	if err != nil {
		return CachedDay{}, false, err
	}
	var tasks []model.Task
	if err := json.Unmarshal([]byte(raw), &tasks); err != nil {
		// Corrupt rows are treated as a miss.
		return CachedDay{}, false, nil
	}
	return CachedDay{Date: date, Tasks: tasks, FetchedAt: time.UnixMilli(ms).UTC()}, true, nil
}

// PruneDays drops cached days fetched before cutoff and reports how many went.
func (s Store) PruneDays(ctx context.Context, cutoff time.Time) (int64, error) {
	db, err := s.openSQLite(ctx)
	if err != nil {
		return 0, err
	}
	defer db.Close()

	res, err := db.ExecContext(ctx, `DELETE FROM day_tasks WHERE fetched_at_unixms < ?`, cutoff.UTC().UnixMilli())
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
