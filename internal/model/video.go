package model

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// VideoStore defines persistence operations for published videos and the
// per-user watch history.
type VideoStore interface {
	Create(ctx context.Context, video Video) (Video, error)
	GetByID(ctx context.Context, id uuid.UUID) (Video, error)
	WatchHistory(ctx context.Context, userID uuid.UUID) ([]WatchedVideo, error)
}

// Video represents an uploaded video with its blob-store URLs.
type Video struct {
	ID           uuid.UUID `json:"id"`
	OwnerID      uuid.UUID `json:"owner"`
	Title        string    `json:"title"`
	Description  string    `json:"description"`
	VideoURL     string    `json:"videoFile"`
	ThumbnailURL string    `json:"thumbnail"`
	Duration     string    `json:"duration"`
	Views        int64     `json:"views"`
	IsPublished  bool      `json:"isPublished"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// VideoOwner is the owner summary attached to watch-history entries.
type VideoOwner struct {
	UHID       int64  `json:"uhid"`
	FirstName  string `json:"firstName"`
	MiddleName string `json:"middleName,omitempty"`
	LastName   string `json:"lastName"`
}

// WatchedVideo is a watch-history entry: the video joined with its owner.
type WatchedVideo struct {
	Video     Video      `json:"video"`
	Owner     VideoOwner `json:"owner"`
	WatchedAt time.Time  `json:"watchedAt"`
}
