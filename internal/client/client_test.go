package client

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"smarttodo-cli/internal/model"
)

func newTestClient(t *testing.T, h http.Handler) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	c, err := New(Options{
		BaseURL:      srv.URL,
		Timeout:      5 * time.Second,
		Retries:      2,
		RetryInitial: time.Millisecond,
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return c
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func TestNew_RejectsInvalidURL(t *testing.T) {
	t.Parallel()

	for _, in := range []string{"", "not a url", "/relative/path"} {
		if _, err := New(Options{BaseURL: in}); err == nil {
			t.Fatalf("New(%q): expected error", in)
		}
	}
}

func TestToggleTask_PostsForm(t *testing.T) {
	t.Parallel()

	var gotID string
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/tasks/7/toggle" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		if got := r.FormValue("completed"); got != "true" {
			t.Errorf("completed=%q, want true", got)
		}
		gotID = r.Header.Get("X-Request-ID")
		writeJSON(w, http.StatusOK, map[string]any{"success": true})
	}))

	if err := c.ToggleTask(context.Background(), 7, true); err != nil {
		t.Fatalf("ToggleTask: %v", err)
	}
	if gotID == "" {
		t.Fatalf("expected X-Request-ID header")
	}
}

func TestToggleTask_Failures(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		handler    http.HandlerFunc
		wantStatus int
		wantUnauth bool
	}{
		{
			name: "success false",
			handler: func(w http.ResponseWriter, r *http.Request) {
				writeJSON(w, http.StatusOK, map[string]any{"success": false, "error": "nope"})
			},
			wantStatus: http.StatusOK,
		},
		{
			name: "server error",
			handler: func(w http.ResponseWriter, r *http.Request) {
				http.Error(w, "boom", http.StatusInternalServerError)
			},
			wantStatus: http.StatusInternalServerError,
		},
		{
			name: "html body",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusOK)
				_, _ = w.Write([]byte("<html></html>"))
			},
			wantStatus: http.StatusOK,
		},
		{
			name: "redirect to login",
			handler: func(w http.ResponseWriter, r *http.Request) {
				http.Redirect(w, r, "/login?next=%2Ftasks", http.StatusFound)
			},
			wantStatus: http.StatusFound,
			wantUnauth: true,
		},
		{
			name: "missing task",
			handler: func(w http.ResponseWriter, r *http.Request) {
				http.NotFound(w, r)
			},
			wantStatus: http.StatusNotFound,
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			c := newTestClient(t, tt.handler)
			err := c.ToggleTask(context.Background(), 1, false)
			if !errors.Is(err, ErrNetwork) {
				t.Fatalf("expected ErrNetwork, got %v", err)
			}
			var ne *NetworkError
			if !errors.As(err, &ne) || ne.StatusCode != tt.wantStatus {
				t.Fatalf("expected status %d, got %#v", tt.wantStatus, ne)
			}
			if got := errors.Is(err, ErrUnauthenticated); got != tt.wantUnauth {
				t.Fatalf("errors.Is(ErrUnauthenticated)=%v, want %v", got, tt.wantUnauth)
			}
		})
	}
}

func TestToggleTask_IsNotRetried(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		http.Error(w, "boom", http.StatusBadGateway)
	}))

	if err := c.ToggleTask(context.Background(), 1, true); err == nil {
		t.Fatalf("expected error")
	}
	if n := calls.Load(); n != 1 {
		t.Fatalf("POST was sent %d times, want 1", n)
	}
}

func TestTasksOnDate_RetriesServerErrors(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/tasks" || r.URL.Query().Get("date") != "2026-10-17" {
			t.Errorf("unexpected request %s", r.URL.String())
		}
		if calls.Add(1) < 3 {
			http.Error(w, "warming up", http.StatusServiceUnavailable)
			return
		}
		writeJSON(w, http.StatusOK, []model.Task{{ID: 1, Name: "写周报"}, {ID: 2, Name: "买菜", Status: model.TaskStatusCompleted}})
	}))

	tasks, err := c.TasksOnDate(context.Background(), "2026-10-17")
	if err != nil {
		t.Fatalf("TasksOnDate: %v", err)
	}
	if len(tasks) != 2 || tasks[0].Name != "写周报" || !tasks[1].Completed() {
		t.Fatalf("unexpected tasks: %#v", tasks)
	}
	if n := calls.Load(); n != 3 {
		t.Fatalf("calls=%d, want 3", n)
	}
}

func TestTasksOnDate_GivesUpAfterRetries(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		http.Error(w, "down", http.StatusInternalServerError)
	}))

	_, err := c.TasksOnDate(context.Background(), "2026-10-17")
	if !errors.Is(err, ErrNetwork) {
		t.Fatalf("expected ErrNetwork, got %v", err)
	}
	if n := calls.Load(); n != 3 {
		t.Fatalf("calls=%d, want 3 (1 + 2 retries)", n)
	}
}

func TestTasksOnDate_UnauthenticatedIsNotRetried(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		http.Redirect(w, r, "/login", http.StatusFound)
	}))

	_, err := c.TasksOnDate(context.Background(), "2026-10-17")
	if !errors.Is(err, ErrUnauthenticated) {
		t.Fatalf("expected ErrUnauthenticated, got %v", err)
	}
	if n := calls.Load(); n != 1 {
		t.Fatalf("calls=%d, want 1", n)
	}
}

func TestTasksOnDate_EmptyListIsNotNil(t *testing.T) {
	t.Parallel()

	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("null"))
	}))
	tasks, err := c.TasksOnDate(context.Background(), "2026-10-17")
	if err != nil {
		t.Fatalf("TasksOnDate: %v", err)
	}
	if tasks == nil || len(tasks) != 0 {
		t.Fatalf("expected empty non-nil slice, got %#v", tasks)
	}
}

func TestTransportFailure(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	c, err := New(Options{BaseURL: url, Timeout: time.Second})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	err = c.MarkNotificationRead(context.Background(), 3)
	var ne *NetworkError
	if !errors.As(err, &ne) || ne.StatusCode != 0 {
		t.Fatalf("expected transport NetworkError, got %v", err)
	}
}

func TestMarkNotificationRead(t *testing.T) {
	t.Parallel()

	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/notifications/12/read" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		writeJSON(w, http.StatusOK, map[string]any{"success": true})
	}))
	if err := c.MarkNotificationRead(context.Background(), 12); err != nil {
		t.Fatalf("MarkNotificationRead: %v", err)
	}
}

func TestNotifications(t *testing.T) {
	t.Parallel()

	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, []model.Notification{{ID: 1, Title: "任务提醒", Read: false}})
	}))
	got, err := c.Notifications(context.Background())
	if err != nil {
		t.Fatalf("Notifications: %v", err)
	}
	if len(got) != 1 || got[0].Title != "任务提醒" {
		t.Fatalf("unexpected notifications: %#v", got)
	}
}

func TestSendMessage(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		handler    http.HandlerFunc
		wantErr    bool
		wantUnauth bool
	}{
		{
			name: "redirect to conversation",
			handler: func(w http.ResponseWriter, r *http.Request) {
				if r.FormValue("receiver_id") != "4" || r.FormValue("content") != "你好\n世界" {
					t.Errorf("unexpected form %v", r.Form)
				}
				http.Redirect(w, r, "/messages?with_user=4", http.StatusFound)
			},
		},
		{
			name: "redirect to login",
			handler: func(w http.ResponseWriter, r *http.Request) {
				http.Redirect(w, r, "/login", http.StatusFound)
			},
			wantErr:    true,
			wantUnauth: true,
		},
		{
			name: "server error",
			handler: func(w http.ResponseWriter, r *http.Request) {
				http.Error(w, "boom", http.StatusInternalServerError)
			},
			wantErr: true,
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			c := newTestClient(t, tt.handler)
			err := c.SendMessage(context.Background(), model.Message{ReceiverID: 4, Content: "你好\n世界"})
			if (err != nil) != tt.wantErr {
				t.Fatalf("err=%v, wantErr=%v", err, tt.wantErr)
			}
			if errors.Is(err, ErrUnauthenticated) != tt.wantUnauth {
				t.Fatalf("err=%v, wantUnauth=%v", err, tt.wantUnauth)
			}
		})
	}
}

func TestLogin_KeepsSessionCookie(t *testing.T) {
	t.Parallel()

	mux := http.NewServeMux()
	mux.HandleFunc("/login", func(w http.ResponseWriter, r *http.Request) {
		if r.FormValue("identifier") != "alice" || r.FormValue("password") != "secret" {
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte("<form>用户名/邮箱或密码错误</form>"))
			return
		}
		http.SetCookie(w, &http.Cookie{Name: "session", Value: "abc", Path: "/"})
		http.Redirect(w, r, "/dashboard", http.StatusFound)
	})
	mux.HandleFunc("/notifications/1/read", func(w http.ResponseWriter, r *http.Request) {
		if ck, err := r.Cookie("session"); err != nil || ck.Value != "abc" {
			http.Redirect(w, r, "/login", http.StatusFound)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"success": true})
	})
	c := newTestClient(t, mux)
	ctx := context.Background()

	if err := c.MarkNotificationRead(ctx, 1); !errors.Is(err, ErrUnauthenticated) {
		t.Fatalf("expected ErrUnauthenticated before login, got %v", err)
	}
	if err := c.Login(ctx, "alice", "wrong"); !errors.Is(err, ErrBadCredentials) || errors.Is(err, ErrNetwork) {
		t.Fatalf("expected ErrBadCredentials only, got %v", err)
	}
	if err := c.Login(ctx, "alice", "secret"); err != nil {
		t.Fatalf("Login: %v", err)
	}
	if err := c.MarkNotificationRead(ctx, 1); err != nil {
		t.Fatalf("MarkNotificationRead after login: %v", err)
	}

	cookies := c.Cookies()
	if len(cookies) != 1 || cookies[0].Name != "session" {
		t.Fatalf("unexpected cookies: %#v", cookies)
	}

	// A fresh client seeded with the saved cookies is logged in too.
	c2, err := New(Options{BaseURL: c.BaseURL()})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	c2.SetCookies(cookies)
	if err := c2.MarkNotificationRead(ctx, 1); err != nil {
		t.Fatalf("seeded client: %v", err)
	}
}

func TestSearchUsers(t *testing.T) {
	t.Parallel()

	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet || r.URL.Path != "/api/search_users" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		if q := r.URL.Query().Get("q"); q != "li" {
			t.Errorf("q=%q", q)
		}
		writeJSON(w, http.StatusOK, map[string]any{"users": []map[string]any{
			{"id": 4, "username": "lily", "nickname": "莉莉", "avatar": "default.png", "category": "mutual"},
			{"id": 7, "username": "li", "nickname": nil, "category": "all"},
		}})
	}))
	got, err := c.SearchUsers(context.Background(), "  li ")
	if err != nil {
		t.Fatalf("SearchUsers: %v", err)
	}
	if len(got) != 2 || got[0].ID != 4 || got[0].DisplayName() != "莉莉" || got[1].DisplayName() != "li" {
		t.Fatalf("unexpected users: %#v", got)
	}
}

func TestSearchUsers_Errors(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		switch r.URL.Query().Get("q") {
		case "nobody":
			writeJSON(w, http.StatusOK, map[string]any{"users": nil})
		case "bad":
			writeJSON(w, http.StatusBadRequest, map[string]any{"error": "缺少搜索关键词"})
		default:
			http.Redirect(w, r, "/login", http.StatusFound)
		}
	}))
	ctx := context.Background()

	if _, err := c.SearchUsers(ctx, "   "); !errors.Is(err, ErrEmptyQuery) {
		t.Fatalf("expected ErrEmptyQuery, got %v", err)
	}
	if calls.Load() != 0 {
		t.Fatalf("blank query should not reach the backend")
	}

	got, err := c.SearchUsers(ctx, "nobody")
	if err != nil || got == nil || len(got) != 0 {
		t.Fatalf("expected empty non-nil result, got %#v err=%v", got, err)
	}

	before := calls.Load()
	var ne *NetworkError
	if _, err := c.SearchUsers(ctx, "bad"); !errors.As(err, &ne) || ne.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400 NetworkError, got %v", err)
	}
	if calls.Load()-before != 1 {
		t.Fatalf("400 should not be retried, calls=%d", calls.Load()-before)
	}

	if _, err := c.SearchUsers(ctx, "anyone"); !errors.Is(err, ErrUnauthenticated) {
		t.Fatalf("expected ErrUnauthenticated, got %v", err)
	}
}

func TestCookies_KeepServerExpiry(t *testing.T) {
	t.Parallel()

	expires := time.Date(2030, 1, 2, 3, 4, 5, 0, time.UTC)
	mux := http.NewServeMux()
	mux.HandleFunc("/login", func(w http.ResponseWriter, r *http.Request) {
		http.SetCookie(w, &http.Cookie{Name: "session", Value: "abc", Path: "/", Expires: expires})
		http.SetCookie(w, &http.Cookie{Name: "remember", Value: "r", Path: "/", MaxAge: 3600})
		http.SetCookie(w, &http.Cookie{Name: "csrf", Value: "c", Path: "/"})
		http.Redirect(w, r, "/dashboard", http.StatusFound)
	})
	c := newTestClient(t, mux)

	before := time.Now()
	if err := c.Login(context.Background(), "alice", "secret"); err != nil {
		t.Fatalf("Login: %v", err)
	}
	got := map[string]time.Time{}
	for _, ck := range c.Cookies() {
		got[ck.Name] = ck.Expires
	}
	if len(got) != 3 {
		t.Fatalf("unexpected cookies: %v", got)
	}
	if !got["session"].Equal(expires) {
		t.Fatalf("session expires=%v, want %v", got["session"], expires)
	}
	if r := got["remember"]; r.Before(before.Add(time.Hour-time.Second)) || r.After(time.Now().Add(time.Hour+time.Second)) {
		t.Fatalf("remember expires=%v, want about an hour from now", r)
	}
	if !got["csrf"].IsZero() {
		t.Fatalf("browser-session cookie should have no expiry, got %v", got["csrf"])
	}

	// Seeding a fresh client keeps the persisted expiry.
	c2, err := New(Options{BaseURL: c.BaseURL()})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	c2.SetCookies(c.Cookies())
	for _, ck := range c2.Cookies() {
		if ck.Name == "session" && !ck.Expires.Equal(expires) {
			t.Fatalf("seeded session expires=%v", ck.Expires)
		}
	}
}
