package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"go.uber.org/zap"

	"gamelounge/internal/repository"
	"gamelounge/internal/service"
)

// SessionsHandlers serves session start and history endpoints.
type SessionsHandlers struct {
	svc    *service.SessionsService
	logger *zap.Logger
}

// NewSessionsHandlers builds handler set.
func NewSessionsHandlers(svc *service.SessionsService, logger *zap.Logger) *SessionsHandlers {
	return &SessionsHandlers{svc: svc, logger: logger}
}

type sessionStartRequest struct {
	UserID    int64     `json:"user_id"`
	GameID    int64     `json:"game_id"`
	StartTime time.Time `json:"start_time"`
}

// HandleStart handles POST /sessions.
func (h *SessionsHandlers) HandleStart(w http.ResponseWriter, r *http.Request) {
	var req sessionStartRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}
	if req.UserID <= 0 || req.GameID <= 0 {
		writeError(w, http.StatusBadRequest, "user_id and game_id are required")
		return
	}

	session, err := h.svc.Start(r.Context(), service.StartSessionInput{
		UserID:    req.UserID,
		GameID:    req.GameID,
		StartTime: req.StartTime,
	})
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrUserNotFound):
			writeError(w, http.StatusNotFound, "user not found")
		case errors.Is(err, repository.ErrGameNotFound):
			writeError(w, http.StatusNotFound, "game not found")
		case errors.Is(err, service.ErrGameInactive):
			writeError(w, http.StatusConflict, "game is not active")
		default:
			h.logger.Error("start session failed", zap.Error(err))
			writeError(w, http.StatusInternalServerError, "failed to start session")
		}
		return
	}
	writeJSON(w, http.StatusCreated, session)
}

// HandleList handles GET /sessions with optional filters:
// user_id, game_id, from, to (RFC 3339 or 2006-01-02), status, limit.
func (h *SessionsHandlers) HandleList(w http.ResponseWriter, r *http.Request) {
	filter, limit, err := parseSessionFilter(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	sessions, err := h.svc.List(r.Context(), filter, limit)
	if err != nil {
		h.logger.Error("list sessions failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to fetch sessions")
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"sessions": sessions})
}

// HandleActive handles GET /sessions/active.
func (h *SessionsHandlers) HandleActive(w http.ResponseWriter, r *http.Request) {
	sessions, err := h.svc.Active(r.Context(), 100)
	if err != nil {
		h.logger.Error("list active sessions failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to fetch active sessions")
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"sessions": sessions})
}

func parseSessionFilter(r *http.Request) (repository.SessionFilter, int, error) {
	var filter repository.SessionFilter
	q := r.URL.Query()

	if raw := q.Get("user_id"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return filter, 0, errors.New("invalid user_id")
		}
		filter.UserID = id
	}
	if raw := q.Get("game_id"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return filter, 0, errors.New("invalid game_id")
		}
		filter.GameID = id
	}
	if raw := q.Get("from"); raw != "" {
		t, err := parseTime(raw)
		if err != nil {
			return filter, 0, errors.New("invalid from")
		}
		filter.From = t
	}
	if raw := q.Get("to"); raw != "" {
		t, err := parseTime(raw)
		if err != nil {
			return filter, 0, errors.New("invalid to")
		}
		filter.To = t
	}
	if raw := q.Get("status"); raw != "" {
		filter.Status = raw
	}

	limit := 100
	if raw := q.Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			return filter, 0, errors.New("invalid limit")
		}
		limit = n
	}
	return filter, limit, nil
}

func parseTime(raw string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", raw)
}
