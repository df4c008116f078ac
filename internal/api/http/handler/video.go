package handler

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"github.com/streamtube/streamtube-server/internal/logger"
	"github.com/streamtube/streamtube-server/internal/model"
	"github.com/streamtube/streamtube-server/internal/service"
)

// VideoService is what the video handler needs from the video service.
type VideoService interface {
	Publish(ctx context.Context, ownerID uuid.UUID, in service.PublishInput) (model.Video, error)
	WatchHistory(ctx context.Context, userID uuid.UUID) ([]model.WatchedVideo, error)
}

// Video serves video publishing and watch-history endpoints.
type Video struct {
	service VideoService
	ctx     model.ContextManager
	logger  *logger.Logger
}

func NewVideo(service VideoService, ctx model.ContextManager, l *logger.Logger) *Video {
	return &Video{
		service: service,
		ctx:     ctx,
		logger:  l,
	}
}

// Publish handles multipart video uploads: the video file, its thumbnail
// and the title/description metadata.
func (h *Video) Publish(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.ctx.GetUserIDFromContext(r.Context())
	if !ok {
		writeError(w, model.NewUnauthorizedError())
		return
	}

	if err := r.ParseMultipartForm(maxMultipartMemory); err != nil {
		writeError(w, model.NewBadRequestError("invalid multipart form"))
		return
	}

	in := service.PublishInput{
		Title:       r.FormValue("title"),
		Description: r.FormValue("description"),
		Duration:    r.FormValue("duration"),
	}

	videoPath, err := h.stageVideoPart(r, "videoFile")
	if err != nil {
		writeError(w, err)
		return
	}
	in.VideoPath = videoPath

	thumbnailPath, err := h.stageVideoPart(r, "thumbnail")
	if err != nil {
		writeError(w, err)
		return
	}
	in.ThumbnailPath = thumbnailPath

	video, err := h.service.Publish(r.Context(), userID, in)
	if err != nil {
		writeError(w, err)
		return
	}

	respond(w, http.StatusCreated, video, "video published successfully")
}

func (h *Video) WatchHistory(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.ctx.GetUserIDFromContext(r.Context())
	if !ok {
		writeError(w, model.NewUnauthorizedError())
		return
	}

	history, err := h.service.WatchHistory(r.Context(), userID)
	if err != nil {
		writeError(w, err)
		return
	}

	respond(w, http.StatusOK, history, "watch history fetched successfully")
}

func (h *Video) stageVideoPart(r *http.Request, field string) (string, error) {
	file, header, err := r.FormFile(field)
	if err != nil {
		if err == http.ErrMissingFile {
			return "", model.NewValidationError(field + " is required")
		}
		return "", model.NewBadRequestError("invalid " + field + " upload")
	}
	defer file.Close()

	path, err := stageTempFile(file, header)
	if err != nil {
		h.logger.Error("failed to stage uploaded file", "field", field, "error", err)
		return "", model.NewInternalError("failed to process uploaded file")
	}
	return path, nil
}
