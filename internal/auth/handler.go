package auth

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/rmehta/blogr/internal/apperr"
	"github.com/rmehta/blogr/internal/models"
)

// Handler holds the auth HTTP handlers.
type Handler struct {
	svc        *Service
	sessionTTL time.Duration
}

func NewHandler(svc *Service, sessionTTL time.Duration) *Handler {
	return &Handler{svc: svc, sessionTTL: sessionTTL}
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func (h *Handler) writeError(w http.ResponseWriter, err error) {
	status := apperr.HTTPStatus(err)
	msg := err.Error()
	if status == http.StatusInternalServerError {
		zap.L().Error("auth request failed", zap.Error(err))
		msg = "internal error"
	}
	h.writeJSON(w, status, map[string]string{"error": msg})
}

// Register creates a new user. The user is not logged in by this call;
// an explicit login follows.
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req models.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, apperr.Validation("body", "invalid request body"))
		return
	}
	id, err := h.svc.Register(r.Context(), req.Username, req.Password)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusCreated, map[string]interface{}{
		"id":       id,
		"username": req.Username,
	})
}

// Login authenticates a user, replaces any existing session, and sets the
// session cookie. Unknown usernames and bad passwords both answer 401 but
// with distinct messages.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, apperr.Validation("body", "invalid request body"))
		return
	}

	userID, err := h.svc.Authenticate(r.Context(), req.Username, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, apperr.ErrNotFound):
			h.writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "incorrect username"})
		case errors.Is(err, apperr.ErrInvalidCredentials):
			h.writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "incorrect password"})
		default:
			h.writeError(w, err)
		}
		return
	}

	// Discard any session the client was already carrying.
	if cookie, err := r.Cookie(SessionCookie); err == nil {
		h.svc.Logout(r.Context(), cookie.Value)
	}

	token, err := h.svc.EstablishSession(r.Context(), userID)
	if err != nil {
		h.writeError(w, err)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(h.sessionTTL / time.Second),
	})

	user, err := h.svc.UserByID(r.Context(), userID)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, user)
}

// Logout destroys the current session. Without one it is a no-op.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(SessionCookie); err == nil {
		if err := h.svc.Logout(r.Context(), cookie.Value); err != nil {
			h.writeError(w, err)
			return
		}
	}

	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		MaxAge:   -1,
	})
	h.writeJSON(w, http.StatusOK, map[string]string{"message": "logged out"})
}

// Me returns the currently authenticated user.
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	id := IdentityFrom(r.Context())
	if id == nil {
		h.writeError(w, apperr.ErrAuthRequired)
		return
	}
	user, err := h.svc.UserByID(r.Context(), id.UserID)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, user)
}
