package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/streamtube/streamtube-server/internal/model"
)

var _ model.VideoStore = (*VideoRepository)(nil)

type VideoRepository struct {
	db *Connection
}

func NewVideoRepository(db *Connection) *VideoRepository {
	return &VideoRepository{db: db}
}

const videoColumns = `id, owner_id, title, description, video_url, thumbnail_url,
	duration, views, is_published, created_at, updated_at`

func scanVideo(row pgx.Row) (model.Video, error) {
	var v model.Video
	err := row.Scan(
		&v.ID, &v.OwnerID, &v.Title, &v.Description, &v.VideoURL, &v.ThumbnailURL,
		&v.Duration, &v.Views, &v.IsPublished, &v.CreatedAt, &v.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Video{}, model.ErrNotFound
		}
		return model.Video{}, err
	}
	return v, nil
}

func (r *VideoRepository) Create(ctx context.Context, video model.Video) (model.Video, error) {
	query := `INSERT INTO videos (id, owner_id, title, description, video_url, thumbnail_url, duration)
			  VALUES ($1, $2, $3, $4, $5, $6, $7)
			  RETURNING ` + videoColumns

	saved, err := scanVideo(r.db.QueryRow(ctx, query,
		video.ID, video.OwnerID, video.Title, video.Description,
		video.VideoURL, video.ThumbnailURL, video.Duration,
	))
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return model.Video{}, model.ErrTitleTaken
		}
		return model.Video{}, fmt.Errorf("failed to create video: %w", err)
	}

	return saved, nil
}

func (r *VideoRepository) GetByID(ctx context.Context, id uuid.UUID) (model.Video, error) {
	query := `SELECT ` + videoColumns + ` FROM videos WHERE id = $1`

	video, err := scanVideo(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return model.Video{}, err
		}
		return model.Video{}, fmt.Errorf("failed to get video by id: %w", err)
	}

	return video, nil
}

// WatchHistory returns the user's watched videos, newest first, each joined
// with a summary of the video's owner.
func (r *VideoRepository) WatchHistory(ctx context.Context, userID uuid.UUID) ([]model.WatchedVideo, error) {
	query := `SELECT v.id, v.owner_id, v.title, v.description, v.video_url, v.thumbnail_url,
				v.duration, v.views, v.is_published, v.created_at, v.updated_at,
				u.uhid, u.first_name, u.middle_name, u.last_name, h.watched_at
			  FROM watch_history h
			  JOIN videos v ON v.id = h.video_id
			  JOIN users u ON u.id = v.owner_id
			  WHERE h.user_id = $1
			  ORDER BY h.watched_at DESC`

	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get watch history: %w", err)
	}
	defer rows.Close()

	history := []model.WatchedVideo{}
	for rows.Next() {
		var w model.WatchedVideo
		err := rows.Scan(
			&w.Video.ID, &w.Video.OwnerID, &w.Video.Title, &w.Video.Description,
			&w.Video.VideoURL, &w.Video.ThumbnailURL, &w.Video.Duration,
			&w.Video.Views, &w.Video.IsPublished, &w.Video.CreatedAt, &w.Video.UpdatedAt,
			&w.Owner.UHID, &w.Owner.FirstName, &w.Owner.MiddleName, &w.Owner.LastName,
			&w.WatchedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan watch history row: %w", err)
		}
		history = append(history, w)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read watch history: %w", err)
	}

	return history, nil
}
