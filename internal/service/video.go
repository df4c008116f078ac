package service

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/streamtube/streamtube-server/internal/logger"
	"github.com/streamtube/streamtube-server/internal/model"
)

// Video implements video publishing and the per-user watch history.
type Video struct {
	videos  model.VideoStore
	storage model.Storage
	logger  *logger.Logger
}

func NewVideo(videos model.VideoStore, storage model.Storage, l *logger.Logger) *Video {
	return &Video{
		videos:  videos,
		storage: storage,
		logger:  l,
	}
}

// PublishInput carries a video upload. VideoPath and ThumbnailPath are
// local paths to uploaded temp files.
type PublishInput struct {
	Title         string
	Description   string
	Duration      string
	VideoPath     string
	ThumbnailPath string
}

// Publish uploads the video and its thumbnail and records the video under
// the owner. Titles are unique across the platform.
func (s *Video) Publish(ctx context.Context, ownerID uuid.UUID, in PublishInput) (model.Video, error) {
	if err := requireAll(in.Title, in.Description); err != nil {
		return model.Video{}, err
	}
	if in.VideoPath == "" {
		return model.Video{}, model.NewValidationError("video file is required")
	}
	if in.ThumbnailPath == "" {
		return model.Video{}, model.NewValidationError("thumbnail is required")
	}

	videoURL, err := s.storage.UploadFile(ctx, in.VideoPath)
	if err != nil {
		s.logger.Error("failed to upload video file", "error", err)
		return model.Video{}, model.NewInternalError("failed to upload video file")
	}

	thumbnailURL, err := s.storage.UploadFile(ctx, in.ThumbnailPath)
	if err != nil {
		s.logger.Error("failed to upload thumbnail", "error", err)
		return model.Video{}, model.NewInternalError("failed to upload thumbnail")
	}

	video, err := s.videos.Create(ctx, model.Video{
		ID:           uuid.New(),
		OwnerID:      ownerID,
		Title:        in.Title,
		Description:  in.Description,
		VideoURL:     videoURL,
		ThumbnailURL: thumbnailURL,
		Duration:     in.Duration,
	})
	if err != nil {
		if errors.Is(err, model.ErrTitleTaken) {
			return model.Video{}, model.NewConflictError("video title already exists")
		}
		s.logger.Error("failed to create video", "error", err)
		return model.Video{}, model.NewInternalError("failed to publish video")
	}

	return video, nil
}

// WatchHistory returns the user's watched videos, newest first.
func (s *Video) WatchHistory(ctx context.Context, userID uuid.UUID) ([]model.WatchedVideo, error) {
	history, err := s.videos.WatchHistory(ctx, userID)
	if err != nil {
		s.logger.Error("failed to fetch watch history", "error", err)
		return nil, model.NewInternalError("failed to fetch watch history")
	}
	return history, nil
}
