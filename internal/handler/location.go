package handler

import (
	"log/slog"
	"net/http"

	"github.com/sakif/sightings/internal/service"
	"github.com/sakif/sightings/internal/view"
)

type LocationHandler struct {
	locations *service.LocationService
	decoder   *decoder
	logger    *slog.Logger
}

func NewLocationHandler(locations *service.LocationService, logger *slog.Logger) *LocationHandler {
	return &LocationHandler{locations: locations, decoder: newDecoder(), logger: logger}
}

type createLocationRequest struct {
	Name        string `json:"name" validate:"required,max=254"`
	State       string `json:"state" validate:"required,len=2,alpha"`
	Description string `json:"description" validate:"max=500"`
}

// HTTP: GET /locations
func (h *LocationHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	locations, err := h.locations.List(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view.Locations(locations))
}

// HTTP: POST /locations
func (h *LocationHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req createLocationRequest
	if err := h.decoder.decode(w, r, &req); err != nil {
		h.logger.Warn("invalid location request", slog.String("error", err.Error()))
		writeError(w, err)
		return
	}

	location, err := h.locations.Create(r.Context(), service.LocationInput{
		Name:        req.Name,
		State:       req.State,
		Description: req.Description,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, view.Location(location))
}
