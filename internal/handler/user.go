package handler

import (
	"log/slog"
	"net/http"

	"github.com/sakif/sightings/internal/service"
	"github.com/sakif/sightings/internal/view"
)

// UserHandler serves /users and /users/{user_id}/sightings.
type UserHandler struct {
	auth      *service.AuthService
	users     *service.UserService
	sightings *service.SightingService
	decoder   *decoder
	logger    *slog.Logger
}

func NewUserHandler(
	authSvc *service.AuthService,
	users *service.UserService,
	sightings *service.SightingService,
	logger *slog.Logger,
) *UserHandler {
	return &UserHandler{
		auth:      authSvc,
		users:     users,
		sightings: sightings,
		decoder:   newDecoder(),
		logger:    logger,
	}
}

type createUserRequest struct {
	Email    string `json:"email" validate:"required,appemail"`
	Password string `json:"password" validate:"required,max=72"`
}

// HTTP: GET /users
func (h *UserHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	users, err := h.users.List(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view.Users(users))
}

// HandleCreate registers a user. It does not log them in.
//
// HTTP: POST /users
func (h *UserHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req createUserRequest
	if err := h.decoder.decode(w, r, &req); err != nil {
		h.logger.Warn("invalid user request", slog.String("error", err.Error()))
		writeError(w, err)
		return
	}

	user, err := h.auth.Register(r.Context(), req.Email, req.Password)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, view.User(user))
}

// HandleListSightings returns the sightings of one user, [] if none.
//
// HTTP: GET /users/{user_id}/sightings
func (h *UserHandler) HandleListSightings(w http.ResponseWriter, r *http.Request) {
	userID, err := idParam(r, "user_id", "user")
	if err != nil {
		writeError(w, err)
		return
	}

	graphs, err := h.sightings.ListByUser(r.Context(), userID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view.Sightings(graphs))
}
