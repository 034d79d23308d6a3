package handler

import (
	"log/slog"
	"net/http"

	"github.com/sakif/sightings/internal/apperror"
	"github.com/sakif/sightings/internal/auth"
	"github.com/sakif/sightings/internal/service"
	"github.com/sakif/sightings/internal/view"
)

// AuthHandler serves login, logout, and the session check.
//
// The session cookie is an HTTP concern and lives here. Whether a session
// is valid is a business rule and lives in service.AuthService.
type AuthHandler struct {
	auth    *service.AuthService
	cookies auth.Cookies
	decoder *decoder
	logger  *slog.Logger
}

func NewAuthHandler(svc *service.AuthService, cookies auth.Cookies, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{
		auth:    svc,
		cookies: cookies,
		decoder: newDecoder(),
		logger:  logger,
	}
}

type loginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// HandleLogin checks the credentials and sets the session cookie.
//
// HTTP: POST /login
func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := h.decoder.decode(w, r, &req); err != nil {
		h.logger.Warn("invalid login request", slog.String("error", err.Error()))
		writeError(w, err)
		return
	}

	res, err := h.auth.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		writeError(w, err)
		return
	}

	h.cookies.Set(w, res.Token, res.ExpiresAt)
	writeJSON(w, http.StatusOK, view.User(res.User))
}

// HandleCheckSession returns the logged-in user.
//
// HTTP: GET /check-session
func (h *AuthHandler) HandleCheckSession(w http.ResponseWriter, r *http.Request) {
	id, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		writeError(w, apperror.Unauthorized("No user logged in"))
		return
	}

	user, err := h.auth.CurrentUser(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, view.User(user))
}

// HandleLogout ends the session. The cookie is cleared on every path,
// including a failed delete. A cookie past its expiry still revokes its
// session row.
//
// HTTP: DELETE /logout
func (h *AuthHandler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	h.cookies.Clear(w)

	id, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		id, ok = auth.ExpiredIdentityFromContext(r.Context())
	}
	if ok {
		if err := h.auth.Logout(r.Context(), id); err != nil {
			writeError(w, err)
			return
		}
	}

	writeJSON(w, http.StatusOK, view.MessageDoc{Message: "Successfully logged out"})
}
