package store

import (
	"context"
	"database/sql"
	"errors"
	"os"

	_ "modernc.org/sqlite"
)

// cacheFileMode applies to cache.sqlite and its WAL files; the session
// cookies live there.
const cacheFileMode os.FileMode = 0o600

func (s Store) openSQLite(ctx context.Context) (*sql.DB, error) {
	if err := s.Ensure(); err != nil {
		return nil, err
	}
	// Create the file ourselves so it never exists with the umask's mode.
	f, err := os.OpenFile(s.sqlitePath(), os.O_RDWR|os.O_CREATE, cacheFileMode)
	if err != nil {
		return nil, err
	}
	_ = f.Close()

	// modernc.org/sqlite driver name is "sqlite".
	db, err := sql.Open("sqlite", s.sqlitePath())
	if err != nil {
		return nil, err
	}
	// The TUI and one-off CLI commands may touch the cache at the same time.
	pragmas := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
		"PRAGMA busy_timeout=5000;",
	}
	for _, p := range pragmas {
		if _, err := db.ExecContext(ctx, p); err != nil {
			_ = db.Close()
			return nil, err
		}
	}
	if err := migrateSQLite(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}
	if err := s.restrictCacheFiles(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

// restrictCacheFiles tightens cache.sqlite and the -wal/-shm files SQLite
// creates next to it, including files left by older versions.
func (s Store) restrictCacheFiles() error {
	for _, p := range []string{s.sqlitePath(), s.sqlitePath() + "-wal", s.sqlitePath() + "-shm"} {
		if err := os.Chmod(p, cacheFileMode); err != nil && !errors.Is(err, os.ErrNotExist) {
			return err
		}
	}
	return nil
}

func migrateSQLite(ctx context.Context, db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS day_tasks (
			server TEXT NOT NULL,
			date TEXT NOT NULL,
			tasks_json TEXT NOT NULL,
			fetched_at_unixms INTEGER NOT NULL,
			PRIMARY KEY (server, date)
		);`,
		`CREATE TABLE IF NOT EXISTS session_cookies (
			server TEXT NOT NULL,
			name TEXT NOT NULL,
			value TEXT NOT NULL,
			path TEXT NOT NULL,
			expires_unix INTEGER NOT NULL,
			PRIMARY KEY (server, name)
		);`,
	}
	for _, st := range stmts {
		if _, err := db.ExecContext(ctx, st); err != nil {
			return err
		}
	}
	return nil
}
