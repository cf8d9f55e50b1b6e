package handler

import (
	"errors"
	"net/http"

	"github.com/inkwellhq/inkwell/internal/domain"
	"github.com/inkwellhq/inkwell/internal/service"
)

// AuthHandler handles registration and login.
type AuthHandler struct {
	auth *service.AuthService
	dev  bool
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(auth *service.AuthService, dev bool) *AuthHandler {
	return &AuthHandler{auth: auth, dev: dev}
}

// HandleRegister processes a JSON registration request.
// POST /api/users/register
// Request:  {"username":"...","email":"...","password":"..."}
// Response: 201 {"id":..,"username":..,"email":..,"token":..}
func (h *AuthHandler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Username string `json:"username"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	user, token, err := h.auth.Register(r.Context(), req.Username, req.Email, req.Password)
	if err != nil {
		writeDomainError(w, err, h.dev)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{
		"id":       user.ID,
		"username": user.Username,
		"email":    user.Email,
		"token":    token,
	})
}

// HandleLogin processes a JSON login request. An unknown email and a
// wrong password produce the same response, so callers cannot probe
// for registered addresses.
// POST /api/users/login
// Request:  {"email":"...","password":"..."}
// Response: 200 {"id":..,"username":..,"email":..,"profilePicture":..,"token":..}
func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	user, token, err := h.auth.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, domain.ErrUnauthorized) {
			writeError(w, http.StatusUnauthorized, "Invalid email or password")
			return
		}
		writeDomainError(w, err, h.dev)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"id":             user.ID,
		"username":       user.Username,
		"email":          user.Email,
		"profilePicture": user.ProfilePicture,
		"token":          token,
	})
}
