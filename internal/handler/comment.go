package handler

import (
	"log/slog"
	"net/http"

	"github.com/sakif/sightings/internal/service"
	"github.com/sakif/sightings/internal/view"
)

type CommentHandler struct {
	comments *service.CommentService
	decoder  *decoder
	logger   *slog.Logger
}

func NewCommentHandler(comments *service.CommentService, logger *slog.Logger) *CommentHandler {
	return &CommentHandler{comments: comments, decoder: newDecoder(), logger: logger}
}

type createCommentRequest struct {
	UserID      int64  `json:"user_id" validate:"required"`
	SightingID  int64  `json:"sighting_id" validate:"required"`
	CommentText string `json:"comment_text" validate:"required,max=1000"`
}

// HTTP: POST /comments
func (h *CommentHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req createCommentRequest
	if err := h.decoder.decode(w, r, &req); err != nil {
		h.logger.Warn("invalid comment request", slog.String("error", err.Error()))
		writeError(w, err)
		return
	}

	graph, err := h.comments.Create(r.Context(), service.CommentInput{
		UserID:      req.UserID,
		SightingID:  req.SightingID,
		CommentText: req.CommentText,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, view.Comment(*graph))
}
