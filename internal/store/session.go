package store

import (
	"context"
	"net/http"
	"strings"
	"time"
)

// SaveSession replaces the persisted cookies for server.
func (s Store) SaveSession(ctx context.Context, server string, cookies []*http.Cookie) error {
	db, err := s.openSQLite(ctx)
	if err != nil {
		return err
	}
	defer db.Close()

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	server = strings.TrimSpace(server)
	if _, err := tx.ExecContext(ctx, `DELETE FROM session_cookies WHERE server = ?`, server); err != nil {
		return err
	}
	for _, c := range cookies {
		if c == nil || strings.TrimSpace(c.Name) == "" {
			continue
		}
		var exp int64
		if !c.Expires.IsZero() {
			exp = c.Expires.Unix()
		}
		path := c.Path
		if path == "" {
			path = "/"
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO session_cookies(server, name, value, path, expires_unix) VALUES(?, ?, ?, ?, ?)`,
			server, c.Name, c.Value, path, exp); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// LoadSession returns the unexpired cookies persisted for server.
func (s Store) LoadSession(ctx context.Context, server string, now time.Time) ([]*http.Cookie, error) {
	db, err := s.openSQLite(ctx)
	if err != nil {
		return nil, err
	}
	defer db.Close()

	rows, err := db.QueryContext(ctx,
		`SELECT name, value, path, expires_unix FROM session_cookies WHERE server = ? ORDER BY name`,
		strings.TrimSpace(server))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*http.Cookie
	for rows.Next() {
		var c http.Cookie
		var exp int64
		if err := rows.Scan(&c.Name, &c.Value, &c.Path, &exp); err != nil {
			return nil, err
		}
		if exp > 0 {
			c.Expires = time.Unix(exp, 0).UTC()
			if !c.Expires.After(now) {
				continue
			}
		}
		out = append(out, &c)
	}
	return out, rows.Err()
}

func (s Store) ClearSession(ctx context.Context, server string) error {
	return s.SaveSession(ctx, server, nil)
}
