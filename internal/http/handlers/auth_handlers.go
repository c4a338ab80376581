package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"gamelounge/internal/service"
)

// AuthHandlers serves operator signup and login.
type AuthHandlers struct {
	svc    *service.AuthService
	logger *zap.Logger
}

// NewAuthHandlers builds handler set.
func NewAuthHandlers(svc *service.AuthService, logger *zap.Logger) *AuthHandlers {
	return &AuthHandlers{svc: svc, logger: logger}
}

type signupRequest struct {
	Login    string `json:"login"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

type loginRequest struct {
	Login    string `json:"login"`
	Password string `json:"password"`
}

// HandleSignup handles POST /auth/signup.
func (h *AuthHandlers) HandleSignup(w http.ResponseWriter, r *http.Request) {
	var req signupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}

	operator, err := h.svc.Signup(r.Context(), req.Login, req.Password, req.Role)
	if err != nil {
		if errors.Is(err, service.ErrLoginInUse) {
			writeError(w, http.StatusConflict, "login already registered")
			return
		}
		h.logger.Error("signup failed", zap.Error(err))
		writeError(w, http.StatusBadRequest, "signup failed")
		return
	}
	writeJSON(w, http.StatusCreated, operator)
}

// HandleLogin handles POST /auth/login.
func (h *AuthHandlers) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}

	token, operator, err := h.svc.Login(r.Context(), req.Login, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			writeError(w, http.StatusUnauthorized, "invalid credentials")
			return
		}
		h.logger.Error("login failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "login failed")
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"token":    token,
		"operator": operator,
	})
}
