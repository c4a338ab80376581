package handlers

import (
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"gamelounge/internal/service"
)

// ReportsHandlers serves export endpoints.
type ReportsHandlers struct {
	svc    *service.ReportsService
	logger *zap.Logger
}

// NewReportsHandlers builds handler set.
func NewReportsHandlers(svc *service.ReportsService, logger *zap.Logger) *ReportsHandlers {
	return &ReportsHandlers{svc: svc, logger: logger}
}

// HandleSessionsReport handles GET /reports/sessions.xlsx.
// Accepts the same filters as the session listing endpoint.
func (h *ReportsHandlers) HandleSessionsReport(w http.ResponseWriter, r *http.Request) {
	filter, _, err := parseSessionFilter(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	data, err := h.svc.SessionsXLSX(r.Context(), filter)
	if err != nil {
		h.logger.Error("sessions report failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "report generation failed")
		return
	}

	filename := fmt.Sprintf("sessions_%s.xlsx", time.Now().Format("2006-01-02"))
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}
