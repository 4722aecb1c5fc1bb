package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/maicon-romano/arrivabene-advocacia-web/internal/auth"
	"github.com/maicon-romano/arrivabene-advocacia-web/internal/logging"
)

type AuthHandler struct {
	guard     *auth.Guard
	jwtSecret []byte
	log       logging.Logger
}

func NewAuthHandler(guard *auth.Guard, jwtSecret []byte, log logging.Logger) *AuthHandler {
	return &AuthHandler{guard: guard, jwtSecret: jwtSecret, log: log}
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token string `json:"token"`
}

type loginFailure struct {
	Error             string `json:"error"`
	AttemptsRemaining int    `json:"attempts_remaining,omitempty"`
	Locked            bool   `json:"locked,omitempty"`
	RetryInMinutes    int    `json:"retry_in_minutes,omitempty"`
}

// Login runs the attempt through the guard. While locked the credentials are
// never consulted and the caller gets the remaining lockout in minutes.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid body")
		return
	}
	if req.Username == "" || req.Password == "" {
		respondError(w, http.StatusBadRequest, "username and password required")
		return
	}

	result, err := h.guard.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		h.log.Error(r.Context(), "login failed", "error", err)
		respondError(w, http.StatusInternalServerError, "login unavailable")
		return
	}

	switch {
	case result.OK:
		token, err := auth.GenerateToken(req.Username, h.jwtSecret, auth.TokenValidity)
		if err != nil {
			h.log.Error(r.Context(), "token generation failed", "error", err)
			respondError(w, http.StatusInternalServerError, "login unavailable")
			return
		}
		respondJSON(w, http.StatusOK, loginResponse{Token: token})
	case result.Locked:
		respondJSON(w, http.StatusLocked, loginFailure{
			Error:          "conta bloqueada, tente novamente mais tarde",
			Locked:         true,
			RetryInMinutes: result.LockedForMinutes,
		})
	default:
		respondJSON(w, http.StatusUnauthorized, loginFailure{
			Error:             "credenciais inválidas",
			AttemptsRemaining: result.AttemptsRemaining,
		})
	}
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.guard.Logout(r.Context()); err != nil {
		h.log.Error(r.Context(), "logout failed", "error", err)
		respondError(w, http.StatusInternalServerError, "logout unavailable")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
