package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"go.uber.org/zap"

	"gamelounge/internal/models"
	"gamelounge/internal/repository"
	"gamelounge/internal/service"
)

// BillingHandlers serves close, preview and receipt endpoints.
type BillingHandlers struct {
	svc    *service.BillingService
	logger *zap.Logger
}

// NewBillingHandlers builds handler set.
func NewBillingHandlers(svc *service.BillingService, logger *zap.Logger) *BillingHandlers {
	return &BillingHandlers{svc: svc, logger: logger}
}

type closeSessionRequest struct {
	Extras  []models.ExtraLineItem `json:"extras"`
	EndTime *time.Time             `json:"end_time"`
}

// HandleClose handles POST /sessions/{id}/close.
func (h *BillingHandlers) HandleClose(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid session id")
		return
	}

	var req closeSessionRequest
	if r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid json")
			return
		}
	}

	snapshot, err := h.svc.CloseSession(r.Context(), id, req.Extras, req.EndTime)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrSessionNotFound):
			writeError(w, http.StatusNotFound, "session not found")
		case errors.Is(err, repository.ErrSessionNotActive):
			writeError(w, http.StatusConflict, "session is not active")
		default:
			h.logger.Error("close session failed", zap.Int64("session_id", id), zap.Error(err))
			writeError(w, http.StatusInternalServerError, "failed to close session")
		}
		return
	}
	writeJSON(w, http.StatusOK, snapshot)
}

// HandlePreview handles GET /sessions/{id}/preview.
func (h *BillingHandlers) HandlePreview(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid session id")
		return
	}

	amount, breakdown, err := h.svc.PreviewAmount(r.Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrSessionNotFound) {
			writeError(w, http.StatusNotFound, "session not found")
			return
		}
		h.logger.Error("preview failed", zap.Int64("session_id", id), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to compute preview")
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"session_id": id,
		"amount":     amount,
		"breakdown":  breakdown,
	})
}

// HandleReceipt handles GET /sessions/{id}/receipt.
func (h *BillingHandlers) HandleReceipt(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid session id")
		return
	}

	receipt, err := h.svc.Receipt(r.Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrSessionNotFound) {
			writeError(w, http.StatusNotFound, "session not found")
			return
		}
		h.logger.Error("receipt failed", zap.Int64("session_id", id), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to build receipt")
		return
	}
	writeJSON(w, http.StatusOK, receipt)
}
