package googleclient

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"google.golang.org/api/calendar/v3"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/tasks/v1"

	"github.com/vipul43/classmate-sync/internal/service"
)

type recorded struct {
	method string
	path   string
	query  url.Values
	auth   string
	form   url.Values
}

type fakeGoogle struct {
	mu       sync.Mutex
	requests []recorded
	srv      *httptest.Server
}

func newFakeGoogle(t *testing.T, mux *http.ServeMux) *fakeGoogle {
	t.Helper()
	f := &fakeGoogle{}
	f.srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec := recorded{
			method: r.Method,
			path:   r.URL.Path,
			query:  r.URL.Query(),
			auth:   r.Header.Get("Authorization"),
		}
		if r.Header.Get("Content-Type") == "application/x-www-form-urlencoded" {
			_ = r.ParseForm()
			rec.form = r.PostForm
		}
		f.mu.Lock()
		f.requests = append(f.requests, rec)
		f.mu.Unlock()
		mux.ServeHTTP(w, r)
	}))
	t.Cleanup(f.srv.Close)
	return f
}

func (f *fakeGoogle) client() *Client {
	return NewClient(Options{
		ClientID:         "client-id",
		ClientSecret:     "client-secret",
		RedirectURL:      "http://localhost:8080/google/callback",
		TokenURL:         f.srv.URL + "/token",
		CalendarEndpoint: f.srv.URL + "/",
		TasksEndpoint:    f.srv.URL + "/",
		HTTPClient:       f.srv.Client(),
	})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func TestRefreshAccessToken(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/token", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{
			"access_token": "new-access",
			"expires_in":   3600,
			"token_type":   "Bearer",
		})
	})
	f := newFakeGoogle(t, mux)

	before := time.Now()
	result, err := f.client().RefreshAccessToken(context.Background(), "refresh-1")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if result.AccessToken != "new-access" {
		t.Errorf("expected new-access, got %s", result.AccessToken)
	}
	if result.RefreshToken != "refresh-1" {
		t.Errorf("expected the refresh token to be kept, got %s", result.RefreshToken)
	}
	if d := result.ExpiresAt.Sub(before.Add(time.Hour)); d < -time.Minute || d > time.Minute {
		t.Errorf("expected expiry about an hour out, got %s", result.ExpiresAt)
	}

	if len(f.requests) != 1 {
		t.Fatalf("expected exactly one token request, got %d", len(f.requests))
	}
	form := f.requests[0].form
	for key, want := range map[string]string{
		"client_id":     "client-id",
		"client_secret": "client-secret",
		"refresh_token": "refresh-1",
		"grant_type":    "refresh_token",
	} {
		if got := form.Get(key); got != want {
			t.Errorf("form %s: expected %q, got %q", key, want, got)
		}
	}
	if f.requests[0].auth != "" {
		t.Errorf("expected credentials in params, not basic auth")
	}
}

func TestRefreshAccessToken_Rotated(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/token", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{
			"access_token":  "new-access",
			"refresh_token": "refresh-2",
			"expires_in":    3600,
		})
	})
	f := newFakeGoogle(t, mux)

	result, err := f.client().RefreshAccessToken(context.Background(), "refresh-1")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if result.RefreshToken != "refresh-2" {
		t.Errorf("expected rotated refresh token, got %s", result.RefreshToken)
	}
}

func TestRefreshAccessToken_Rejected(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/token", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusBadRequest, map[string]any{
			"error":             "invalid_grant",
			"error_description": "Token has been expired or revoked.",
		})
	})
	f := newFakeGoogle(t, mux)

	if _, err := f.client().RefreshAccessToken(context.Background(), "revoked"); err == nil {
		t.Fatal("expected error for rejected refresh")
	}
	if len(f.requests) != 1 {
		t.Errorf("expected exactly one token request, got %d", len(f.requests))
	}
}

func TestExchange(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/token", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{
			"access_token":  "access-1",
			"refresh_token": "refresh-1",
			"expires_in":    3599,
			"scope":         "https://www.googleapis.com/auth/calendar",
		})
	})
	f := newFakeGoogle(t, mux)

	result, err := f.client().Exchange(context.Background(), "auth-code")
	require.NoError(t, err)
	require.Equal(t, "access-1", result.AccessToken)
	require.Equal(t, "refresh-1", result.RefreshToken)
	require.Equal(t, "https://www.googleapis.com/auth/calendar", result.Scope)

	form := f.requests[0].form
	require.Equal(t, "authorization_code", form.Get("grant_type"))
	require.Equal(t, "auth-code", form.Get("code"))
	require.Equal(t, "http://localhost:8080/google/callback", form.Get("redirect_uri"))
}

func TestAuthCodeURL(t *testing.T) {
	c := NewClient(Options{ClientID: "client-id", RedirectURL: "http://localhost:8080/google/callback"})

	u, err := url.Parse(c.AuthCodeURL("state-1"))
	require.NoError(t, err)

	q := u.Query()
	require.Equal(t, "accounts.google.com", u.Host)
	require.Equal(t, "state-1", q.Get("state"))
	require.Equal(t, "offline", q.Get("access_type"))
	require.Equal(t, "consent", q.Get("prompt"))
	require.Equal(t, "client-id", q.Get("client_id"))
	require.Contains(t, q.Get("scope"), calendar.CalendarScope)
	require.Contains(t, q.Get("scope"), tasks.TasksScope)
}

func TestListEvents(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/calendars/primary/events", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{
			"items": []map[string]any{
				{"id": "e1", "summary": "Lecture", "start": map[string]any{"dateTime": "2025-03-14T09:00:00Z"}},
			},
		})
	})
	f := newFakeGoogle(t, mux)

	events, err := f.client().ListEvents(context.Background(), "access-1", "primary", service.EventQuery{
		TimeMin: "2025-03-01T00:00:00Z",
		Query:   "lecture",
	})
	require.NoError(t, err)
	require.Len(t, events, 1)
	require.Equal(t, "Lecture", events[0].Summary)

	require.Len(t, f.requests, 1)
	req := f.requests[0]
	require.Equal(t, "Bearer access-1", req.auth)
	require.Equal(t, "true", req.query.Get("singleEvents"))
	require.Equal(t, "startTime", req.query.Get("orderBy"))
	require.Equal(t, "2025-03-01T00:00:00Z", req.query.Get("timeMin"))
	require.Equal(t, "lecture", req.query.Get("q"))
	require.Empty(t, req.query.Get("timeMax"))
}

func TestListCalendars(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/users/me/calendarList", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{
			"items": []map[string]any{
				{"id": "user@example.com", "summary": "Personal", "primary": true},
				{"id": "work@group.calendar.google.com", "summary": "Work"},
			},
		})
	})
	f := newFakeGoogle(t, mux)

	entries, err := f.client().ListCalendars(context.Background(), "access-1")
	require.NoError(t, err)
	require.Len(t, entries, 2)
	require.True(t, entries[0].Primary)
}

func TestInsertAndPatchEvent(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/calendars/primary/events", func(w http.ResponseWriter, r *http.Request) {
		var ev calendar.Event
		_ = json.NewDecoder(r.Body).Decode(&ev)
		ev.Id = "abc"
		writeJSON(w, http.StatusOK, ev)
	})
	mux.HandleFunc("/calendars/primary/events/abc", func(w http.ResponseWriter, r *http.Request) {
		var ev calendar.Event
		_ = json.NewDecoder(r.Body).Decode(&ev)
		ev.Id = "abc"
		writeJSON(w, http.StatusOK, ev)
	})
	f := newFakeGoogle(t, mux)
	c := f.client()

	created, err := c.InsertEvent(context.Background(), "access-1", "primary", &calendar.Event{
		Summary: "Midterm",
		Start:   &calendar.EventDateTime{Date: "2025-03-14"},
		End:     &calendar.EventDateTime{Date: "2025-03-15"},
	})
	require.NoError(t, err)
	require.Equal(t, "abc", created.Id)
	require.Equal(t, "2025-03-14", created.Start.Date)

	patched, err := c.PatchEvent(context.Background(), "access-1", "primary", "abc", &calendar.Event{Summary: "Final"})
	require.NoError(t, err)
	require.Equal(t, "Final", patched.Summary)

	require.Equal(t, http.MethodPost, f.requests[0].method)
	require.Equal(t, http.MethodPatch, f.requests[1].method)
}

func TestDeleteEvent_NotFound(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/calendars/primary/events/missing", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, map[string]any{
			"error": map[string]any{"code": 404, "message": "Not Found"},
		})
	})
	f := newFakeGoogle(t, mux)

	err := f.client().DeleteEvent(context.Background(), "access-1", "primary", "missing")
	require.Error(t, err)

	var apiErr *googleapi.Error
	require.True(t, errors.As(err, &apiErr))
	require.Equal(t, http.StatusNotFound, apiErr.Code)
	require.Equal(t, "Not Found", apiErr.Message)
	require.Equal(t, http.MethodDelete, f.requests[0].method)
}

func TestTasks(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/tasks/v1/users/@me/lists", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{
			"items": []map[string]any{{"id": "L1", "title": "My Tasks"}},
		})
	})
	mux.HandleFunc("/tasks/v1/lists/L1/tasks", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			var task tasks.Task
			_ = json.NewDecoder(r.Body).Decode(&task)
			task.Id = "t1"
			writeJSON(w, http.StatusOK, task)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"items": []map[string]any{{"id": "t1", "title": "Read chapter 4", "status": "needsAction"}},
		})
	})
	mux.HandleFunc("/tasks/v1/lists/L1/tasks/t1", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodDelete {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		var task tasks.Task
		_ = json.NewDecoder(r.Body).Decode(&task)
		task.Id = "t1"
		writeJSON(w, http.StatusOK, task)
	})
	f := newFakeGoogle(t, mux)
	c := f.client()
	ctx := context.Background()

	lists, err := c.ListTaskLists(ctx, "access-1")
	require.NoError(t, err)
	require.Len(t, lists, 1)
	require.Equal(t, "My Tasks", lists[0].Title)

	items, err := c.ListTasks(ctx, "access-1", "L1", false)
	require.NoError(t, err)
	require.Len(t, items, 1)
	require.Equal(t, "false", f.requests[1].query.Get("showCompleted"))

	created, err := c.InsertTask(ctx, "access-1", "L1", &tasks.Task{Title: "Essay"})
	require.NoError(t, err)
	require.Equal(t, "t1", created.Id)

	patched, err := c.PatchTask(ctx, "access-1", "L1", "t1", &tasks.Task{Status: "completed"})
	require.NoError(t, err)
	require.Equal(t, "completed", patched.Status)

	require.NoError(t, c.DeleteTask(ctx, "access-1", "L1", "t1"))
	require.Equal(t, http.MethodDelete, f.requests[4].method)
	for _, req := range f.requests {
		require.Equal(t, "Bearer access-1", req.auth)
	}
}
