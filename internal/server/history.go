package server

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/vocx/internal/models"
	"github.com/desertthunder/vocx/internal/shared"
)

// DefaultRunLimit is used when /runs has no limit parameter.
const DefaultRunLimit = 20

// RunStore is the read side of run history. [repositories.RunRepository] satisfies it.
type RunStore interface {
	List(limit int) ([]*models.SyncRun, error)
	Get(idOrPrefix string) (*models.SyncRun, error)
}

// HistoryHandler serves recorded sync runs as JSON.
type HistoryHandler struct {
	runs   RunStore
	logger *log.Logger
}

var _ Handler = (*HistoryHandler)(nil)

// NewHistoryHandler creates a HistoryHandler.
func NewHistoryHandler(runs RunStore, logger *log.Logger) *HistoryHandler {
	return &HistoryHandler{runs: runs, logger: logger}
}

// Routes returns the HTTP routes this handler serves.
func (h *HistoryHandler) Routes() []string {
	return []string{"GET /runs", "GET /runs/{id}", "GET /runs/{id}/failed"}
}

// ServeHTTP dispatches on the matched route pattern.
func (h *HistoryHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch r.Pattern {
	case "GET /runs":
		h.list(w, r)
	case "GET /runs/{id}":
		h.show(w, r)
	case "GET /runs/{id}/failed":
		h.failed(w, r)
	default:
		http.NotFound(w, r)
	}
}

func (h *HistoryHandler) list(w http.ResponseWriter, r *http.Request) {
	limit := DefaultRunLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			h.writeError(w, shared.ErrInvalidArgument)
			return
		}
		limit = n
	}

	runs, err := h.runs.List(limit)
	if err != nil {
		h.writeError(w, err)
		return
	}
	if runs == nil {
		runs = []*models.SyncRun{}
	}
	h.writeJSON(w, http.StatusOK, runs)
}

func (h *HistoryHandler) show(w http.ResponseWriter, r *http.Request) {
	run, err := h.runs.Get(r.PathValue("id"))
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, run)
}

func (h *HistoryHandler) failed(w http.ResponseWriter, r *http.Request) {
	run, err := h.runs.Get(r.PathValue("id"))
	if err != nil {
		h.writeError(w, err)
		return
	}

	var b strings.Builder
	for _, f := range run.Failures {
		b.WriteString(f.Word + "\n")
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Write([]byte(b.String()))
}

func (h *HistoryHandler) writeJSON(w http.ResponseWriter, status int, v any) {
	data, err := shared.MarshalJSON(v, false)
	if err != nil {
		h.logger.Error("failed to encode response", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(data)
}

func (h *HistoryHandler) writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, shared.ErrRunNotFound):
		status = http.StatusNotFound
	case errors.Is(err, shared.ErrInvalidArgument), errors.Is(err, shared.ErrMissingArgument):
		status = http.StatusBadRequest
	default:
		h.logger.Error("history request failed", "error", err)
	}
	h.writeJSON(w, status, map[string]string{"error": err.Error()})
}

// NewHistoryRouter wires the history API with logging and panic recovery.
func NewHistoryRouter(runs RunStore, logger *log.Logger) *BasicRouter {
	router := NewBasicRouter()
	router.Use(Recover(logger), Logging(logger))
	router.Handler(NewHistoryHandler(runs, logger))
	router.Handle(http.MethodGet, "/healthz", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok\n"))
	}))
	return router
}
