package handler

import (
	"log/slog"
	"net/http"

	"github.com/sakif/sightings/internal/service"
	"github.com/sakif/sightings/internal/view"
)

// SightingHandler serves /sightings and /sightings/{id}.
type SightingHandler struct {
	sightings *service.SightingService
	decoder   *decoder
	logger    *slog.Logger
}

func NewSightingHandler(sightings *service.SightingService, logger *slog.Logger) *SightingHandler {
	return &SightingHandler{
		sightings: sightings,
		decoder:   newDecoder(),
		logger:    logger,
	}
}

// Date and time formats are checked by the service so the client gets the
// same message on create and on PATCH.
type createSightingRequest struct {
	UserID       int64  `json:"user_id" validate:"required"`
	LocationID   int64  `json:"location_id" validate:"required"`
	SightingDate string `json:"sighting_date" validate:"required"`
	SightingTime string `json:"sighting_time" validate:"required"`
	Description  string `json:"description" validate:"max=1500"`
}

type locationPatchRequest struct {
	Name        *string `json:"name" validate:"omitempty,max=254"`
	State       *string `json:"state" validate:"omitempty,len=2,alpha"`
	Description *string `json:"description" validate:"omitempty,max=500"`
}

type patchSightingRequest struct {
	Location     *locationPatchRequest `json:"location"`
	SightingDate string                `json:"sighting_date"`
	SightingTime string                `json:"sighting_time"`
	Description  string                `json:"description" validate:"max=1500"`
}

// HTTP: GET /sightings
func (h *SightingHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	graphs, err := h.sightings.List(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view.Sightings(graphs))
}

// HTTP: POST /sightings
func (h *SightingHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req createSightingRequest
	if err := h.decoder.decode(w, r, &req); err != nil {
		h.logger.Warn("invalid sighting request", slog.String("error", err.Error()))
		writeError(w, err)
		return
	}

	graph, err := h.sightings.Create(r.Context(), service.SightingInput{
		UserID:      req.UserID,
		LocationID:  req.LocationID,
		Date:        req.SightingDate,
		Time:        req.SightingTime,
		Description: req.Description,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, view.Sighting(*graph))
}

// HTTP: GET /sightings/{id}
func (h *SightingHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id", "sighting")
	if err != nil {
		writeError(w, err)
		return
	}

	graph, err := h.sightings.Get(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view.Sighting(*graph))
}

// HandlePatch applies a partial update. A "location" object edits the
// sighting's current location row, which other sightings may share.
//
// HTTP: PATCH /sightings/{id}
func (h *SightingHandler) HandlePatch(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id", "sighting")
	if err != nil {
		writeError(w, err)
		return
	}

	var req patchSightingRequest
	if err := h.decoder.decode(w, r, &req); err != nil {
		h.logger.Warn("invalid sighting patch", slog.String("error", err.Error()))
		writeError(w, err)
		return
	}

	patch := service.SightingPatch{
		Date:        req.SightingDate,
		Time:        req.SightingTime,
		Description: req.Description,
	}
	if req.Location != nil {
		patch.Location = &service.LocationPatch{
			Name:        req.Location.Name,
			State:       req.Location.State,
			Description: req.Location.Description,
		}
	}

	graph, err := h.sightings.Update(r.Context(), id, patch)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view.Sighting(*graph))
}

// HTTP: DELETE /sightings/{id}
func (h *SightingHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id", "sighting")
	if err != nil {
		writeError(w, err)
		return
	}

	if err := h.sightings.Delete(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view.MessageDoc{Message: "Sighting deleted successfully"})
}
