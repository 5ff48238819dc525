package server

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/vocx/internal/models"
	"github.com/desertthunder/vocx/internal/shared"
)

type fakeRuns struct {
	runs      []*models.SyncRun
	listErr   error
	lastLimit int
}

func (f *fakeRuns) List(limit int) ([]*models.SyncRun, error) {
	f.lastLimit = limit
	return f.runs, f.listErr
}

func (f *fakeRuns) Get(id string) (*models.SyncRun, error) {
	var match []*models.SyncRun
	for _, r := range f.runs {
		if strings.HasPrefix(r.ID, id) {
			match = append(match, r)
		}
	}
	switch len(match) {
	case 0:
		return nil, fmt.Errorf("%w: %s", shared.ErrRunNotFound, id)
	case 1:
		return match[0], nil
	default:
		return nil, fmt.Errorf("%w: ambiguous", shared.ErrInvalidArgument)
	}
}

func newFakeRuns() *fakeRuns {
	return &fakeRuns{runs: []*models.SyncRun{
		{
			ID: "abc123", Status: models.RunCompleted, TargetKind: shared.TargetSheets, Worklist: 3, Succeeded: 2, Failed: 1,
			StartedAt: time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC),
			Failures:  []models.FailedWord{{Position: 2, Word: "xyzzy", Reason: models.ReasonNotFound}},
		},
		{ID: "abd456", Status: models.RunFailed, TargetKind: shared.TargetSQLite},
	}}
}

func get(t *testing.T, h http.Handler, path string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func TestHistoryRouter(t *testing.T) {
	logger := log.New(io.Discard)

	t.Run("lists runs", func(t *testing.T) {
		store := newFakeRuns()
		rec := get(t, NewHistoryRouter(store, logger), "/runs?limit=5")

		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", rec.Code)
		}
		if store.lastLimit != 5 {
			t.Errorf("limit = %d, want 5", store.lastLimit)
		}

		var runs []models.SyncRun
		if err := json.Unmarshal(rec.Body.Bytes(), &runs); err != nil {
			t.Fatalf("invalid JSON: %v", err)
		}
		if len(runs) != 2 || runs[0].ID != "abc123" {
			t.Errorf("unexpected runs: %+v", runs)
		}
	})

	t.Run("empty history is an empty array", func(t *testing.T) {
		rec := get(t, NewHistoryRouter(&fakeRuns{}, logger), "/runs")
		if strings.TrimSpace(rec.Body.String()) != "[]" {
			t.Errorf("body = %q, want []", rec.Body.String())
		}
	})

	t.Run("default limit", func(t *testing.T) {
		store := newFakeRuns()
		get(t, NewHistoryRouter(store, logger), "/runs")
		if store.lastLimit != DefaultRunLimit {
			t.Errorf("limit = %d, want %d", store.lastLimit, DefaultRunLimit)
		}
	})

	t.Run("invalid limit", func(t *testing.T) {
		rec := get(t, NewHistoryRouter(newFakeRuns(), logger), "/runs?limit=zero")
		if rec.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", rec.Code)
		}
	})

	t.Run("list error", func(t *testing.T) {
		rec := get(t, NewHistoryRouter(&fakeRuns{listErr: fmt.Errorf("disk full")}, logger), "/runs")
		if rec.Code != http.StatusInternalServerError {
			t.Errorf("status = %d, want 500", rec.Code)
		}
	})

	t.Run("shows run by prefix", func(t *testing.T) {
		rec := get(t, NewHistoryRouter(newFakeRuns(), logger), "/runs/abc")
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", rec.Code)
		}

		var run models.SyncRun
		if err := json.Unmarshal(rec.Body.Bytes(), &run); err != nil {
			t.Fatalf("invalid JSON: %v", err)
		}
		if run.ID != "abc123" || len(run.Failures) != 1 {
			t.Errorf("unexpected run: %+v", run)
		}
	})

	t.Run("errors map to status codes", func(t *testing.T) {
		tc := []struct {
			path string
			want int
		}{
			{"/runs/zzz", http.StatusNotFound},
			{"/runs/ab", http.StatusBadRequest},
			{"/runs/zzz/failed", http.StatusNotFound},
		}
		router := NewHistoryRouter(newFakeRuns(), logger)
		for _, tt := range tc {
			if rec := get(t, router, tt.path); rec.Code != tt.want {
				t.Errorf("GET %s = %d, want %d", tt.path, rec.Code, tt.want)
			}
		}
	})

	t.Run("failed words as text", func(t *testing.T) {
		rec := get(t, NewHistoryRouter(newFakeRuns(), logger), "/runs/abc123/failed")
		if rec.Body.String() != "xyzzy\n" {
			t.Errorf("body = %q, want %q", rec.Body.String(), "xyzzy\n")
		}
		if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/plain") {
			t.Errorf("content type = %s", ct)
		}
	})

	t.Run("method not allowed", func(t *testing.T) {
		rec := httptest.NewRecorder()
		NewHistoryRouter(newFakeRuns(), logger).ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/runs", nil))
		if rec.Code != http.StatusMethodNotAllowed {
			t.Errorf("status = %d, want 405", rec.Code)
		}
	})

	t.Run("healthz", func(t *testing.T) {
		if rec := get(t, NewHistoryRouter(newFakeRuns(), logger), "/healthz"); rec.Code != http.StatusOK {
			t.Errorf("status = %d, want 200", rec.Code)
		}
	})
}

func TestBasicRouter(t *testing.T) {
	t.Run("middleware order", func(t *testing.T) {
		var order []string
		mw := func(name string) Middleware {
			return func(next http.Handler) http.Handler {
				return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
					order = append(order, name)
					next.ServeHTTP(w, r)
				})
			}
		}

		router := NewBasicRouter()
		router.Use(mw("first"), mw("second"))
		router.Handle(http.MethodGet, "/ping", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			order = append(order, "handler")
		}))

		get(t, router, "/ping")
		if strings.Join(order, ",") != "first,second,handler" {
			t.Errorf("order = %v", order)
		}
	})

	t.Run("logging middleware", func(t *testing.T) {
		var buf bytes.Buffer
		router := NewBasicRouter()
		router.Use(Logging(log.New(&buf)))
		router.Handle(http.MethodGet, "/teapot", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusTeapot)
		}))

		get(t, router, "/teapot")
		if !strings.Contains(buf.String(), "status=418") {
			t.Errorf("expected status in log, got %q", buf.String())
		}
	})

	t.Run("recover middleware", func(t *testing.T) {
		router := NewBasicRouter()
		router.Use(Recover(log.New(io.Discard)))
		router.Handle(http.MethodGet, "/boom", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			panic("boom")
		}))

		if rec := get(t, router, "/boom"); rec.Code != http.StatusInternalServerError {
			t.Errorf("status = %d, want 500", rec.Code)
		}
	})
}

func TestServe(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- Serve(ctx, "127.0.0.1:0", http.NotFoundHandler(), log.New(io.Discard))
	}()

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Serve() = %v, want nil after cancel", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Serve did not return after cancel")
	}
}

func TestServeInvalidAddress(t *testing.T) {
	err := Serve(context.Background(), "127.0.0.1:notaport", http.NotFoundHandler(), log.New(io.Discard))
	if err == nil {
		t.Fatal("expected an error for an invalid address")
	}
}
