package store

import (
	"context"
	"net/http"
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"
)

func TestSession_SaveLoadClear(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s := Store{Dir: t.TempDir()}
	now := time.Date(2026, 10, 17, 0, 0, 0, 0, time.UTC)

	cookies := []*http.Cookie{
		{Name: "session", Value: "abc", Path: "/"},
		{Name: "expired", Value: "x", Expires: now.Add(-time.Hour)},
		{Name: "remember", Value: "y", Expires: now.Add(24 * time.Hour)},
	}
	if err := s.SaveSession(ctx, "http://a", cookies); err != nil {
		t.Fatalf("save: %v", err)
	}

	got, err := s.LoadSession(ctx, "http://a", now)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(got) != 2 || got[0].Name != "remember" || got[1].Name != "session" {
		t.Fatalf("unexpected cookies: %+v", got)
	}
	if got[0].Path != "/" {
		t.Fatalf("empty path should default to /, got %q", got[0].Path)
	}

	if err := s.ClearSession(ctx, "http://a"); err != nil {
		t.Fatalf("clear: %v", err)
	}
	got, err = s.LoadSession(ctx, "http://a", now)
	if err != nil || len(got) != 0 {
		t.Fatalf("expected no cookies after clear, got %+v err=%v", got, err)
	}
}

func TestSession_FilesArePrivate(t *testing.T) {
	t.Parallel()
	if runtime.GOOS == "windows" {
		t.Skip("unix permissions")
	}

	ctx := context.Background()
	s := Store{Dir: filepath.Join(t.TempDir(), "state")}
	if err := s.SaveSession(ctx, "http://a", []*http.Cookie{{Name: "session", Value: "abc"}}); err != nil {
		t.Fatalf("save: %v", err)
	}

	dir, err := os.Stat(s.Dir)
	if err != nil {
		t.Fatalf("stat dir: %v", err)
	}
	if got := dir.Mode().Perm(); got != 0o700 {
		t.Fatalf("dir mode = %v, want 0700", got)
	}
	for _, name := range []string{cacheFileName, cacheFileName + "-wal", cacheFileName + "-shm"} {
		fi, err := os.Stat(filepath.Join(s.Dir, name))
		if os.IsNotExist(err) && name != cacheFileName {
			continue
		}
		if err != nil {
			t.Fatalf("stat %s: %v", name, err)
		}
		if got := fi.Mode().Perm(); got != 0o600 {
			t.Fatalf("%s mode = %v, want 0600", name, got)
		}
	}
}

func TestSession_TightensExistingCacheFile(t *testing.T) {
	t.Parallel()
	if runtime.GOOS == "windows" {
		t.Skip("unix permissions")
	}

	ctx := context.Background()
	s := Store{Dir: t.TempDir()}
	if err := os.WriteFile(s.sqlitePath(), nil, 0o644); err != nil {
		t.Fatalf("seed: %v", err)
	}
	if err := os.Chmod(s.sqlitePath(), 0o644); err != nil {
		t.Fatalf("chmod: %v", err)
	}
	if _, err := s.LoadSession(ctx, "http://a", time.Now()); err != nil {
		t.Fatalf("load: %v", err)
	}
	fi, err := os.Stat(s.sqlitePath())
	if err != nil {
		t.Fatalf("stat: %v", err)
	}
	if got := fi.Mode().Perm(); got != 0o600 {
		t.Fatalf("mode = %v, want 0600", got)
	}
}
