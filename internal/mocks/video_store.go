package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/streamtube/streamtube-server/internal/model"
)

// VideoStore is a mock implementation of model.VideoStore.
type VideoStore struct {
	mock.Mock
}

func (m *VideoStore) Create(ctx context.Context, video model.Video) (model.Video, error) {
	args := m.Called(ctx, video)
	return args.Get(0).(model.Video), args.Error(1)
}

func (m *VideoStore) GetByID(ctx context.Context, id uuid.UUID) (model.Video, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(model.Video), args.Error(1)
}

func (m *VideoStore) WatchHistory(ctx context.Context, userID uuid.UUID) ([]model.WatchedVideo, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.WatchedVideo), args.Error(1)
}
