package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/baharkarakas/budgetbox/internal/api/httpx"
	"github.com/baharkarakas/budgetbox/internal/api/validate"
	"github.com/baharkarakas/budgetbox/internal/metrics"
	"github.com/baharkarakas/budgetbox/internal/middleware"
	"github.com/baharkarakas/budgetbox/internal/services"
)

const (
	ServiceName  = "BudgetBox backend"
	maxBodyBytes = 64 << 10
)

type BudgetHandler struct {
	Sync *services.SyncService
	Log  *slog.Logger
	Now  func() time.Time
}

func NewBudgetHandler(s *services.SyncService, log *slog.Logger) *BudgetHandler {
	if log == nil {
		log = slog.Default()
	}
	return &BudgetHandler{Sync: s, Log: log, Now: time.Now}
}

type healthResp struct {
	Status    string    `json:"status"`
	Service   string    `json:"service"`
	Timestamp time.Time `json:"timestamp"`
}

// Health answers GET /. Clients poll it as their connectivity probe.
func (h *BudgetHandler) Health(w http.ResponseWriter, r *http.Request) {
	httpx.WriteJSON(w, http.StatusOK, healthResp{
		Status:    "ok",
		Service:   ServiceName,
		Timestamp: h.Now().UTC(),
	})
}

type syncReq struct {
	Email  string          `json:"email"`
	Budget json.RawMessage `json:"budget"`
}

type syncResp struct {
	Success   bool      `json:"success"`
	Timestamp time.Time `json:"timestamp"`
}

func (h *BudgetHandler) Push(w http.ResponseWriter, r *http.Request) {
	var req syncReq
	if err := httpx.DecodeJSON(w, r, &req, maxBodyBytes); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid_body", "Invalid request body", nil)
		return
	}
	raw := bytes.TrimSpace(req.Budget)
	if req.Email == "" || len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		metrics.SyncTotal.WithLabelValues("missing_data").Inc()
		httpx.WriteError(w, http.StatusBadRequest, "missing_data", "Missing data", nil)
		return
	}
	budget, err := validate.Budget(raw)
	if err != nil {
		metrics.SyncTotal.WithLabelValues("invalid").Inc()
		var errs validate.Errs
		errors.As(err, &errs)
		httpx.WriteError(w, http.StatusBadRequest, "invalid_budget", "Invalid budget", errs)
		return
	}

	ts, err := h.Sync.Push(r.Context(), req.Email, &budget)
	if err != nil {
		h.fail(w, r, err, "sync_failed", "Sync failed")
		return
	}
	httpx.WriteJSON(w, http.StatusOK, syncResp{Success: true, Timestamp: ts})
}

// Latest writes {} when the user has no snapshots yet.
func (h *BudgetHandler) Latest(w http.ResponseWriter, r *http.Request) {
	email := r.URL.Query().Get("email")
	if ef := validate.Required("email", email); ef != nil {
		httpx.WriteError(w, http.StatusBadRequest, "missing_email", "Missing email", validate.Errs{*ef})
		return
	}
	snap, err := h.Sync.FetchLatest(r.Context(), email)
	if err != nil {
		h.fail(w, r, err, "fetch_failed", "Fetch failed")
		return
	}
	if snap == nil {
		httpx.WriteJSON(w, http.StatusOK, struct{}{})
		return
	}
	httpx.WriteJSON(w, http.StatusOK, snap)
}

func (h *BudgetHandler) History(w http.ResponseWriter, r *http.Request) {
	email := r.URL.Query().Get("email")
	if ef := validate.Required("email", email); ef != nil {
		httpx.WriteError(w, http.StatusBadRequest, "missing_email", "Missing email", validate.Errs{*ef})
		return
	}
	list, err := h.Sync.FetchHistory(r.Context(), email)
	if err != nil {
		h.fail(w, r, err, "history_fetch_failed", "History fetch failed")
		return
	}
	httpx.WriteJSON(w, http.StatusOK, list)
}

// fail maps service errors to responses. Storage details stay in the log.
func (h *BudgetHandler) fail(w http.ResponseWriter, r *http.Request, err error, code, msg string) {
	switch {
	case errors.Is(err, services.ErrMissingData):
		httpx.WriteError(w, http.StatusBadRequest, "missing_data", "Missing data", nil)
	case errors.Is(err, services.ErrUserNotFound):
		httpx.WriteError(w, http.StatusNotFound, "user_not_found", "User not found", nil)
	default:
		h.Log.Error(msg, "err", err, "path", r.URL.Path, "request_id", middleware.RequestIDFrom(r.Context()))
		httpx.WriteError(w, http.StatusInternalServerError, code, msg, nil)
	}
}
