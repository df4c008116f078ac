package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/streamtube/streamtube-server/internal/model"
)

// SubscriptionStore is a mock implementation of model.SubscriptionStore.
type SubscriptionStore struct {
	mock.Mock
}

func (m *SubscriptionStore) Create(ctx context.Context, sub model.Subscription) error {
	args := m.Called(ctx, sub)
	return args.Error(0)
}

func (m *SubscriptionStore) Delete(ctx context.Context, subscriberID, channelID uuid.UUID) error {
	args := m.Called(ctx, subscriberID, channelID)
	return args.Error(0)
}

func (m *SubscriptionStore) Exists(ctx context.Context, subscriberID, channelID uuid.UUID) (bool, error) {
	args := m.Called(ctx, subscriberID, channelID)
	return args.Bool(0), args.Error(1)
}

func (m *SubscriptionStore) CountSubscribers(ctx context.Context, channelID uuid.UUID) (int64, error) {
	args := m.Called(ctx, channelID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *SubscriptionStore) CountSubscriptions(ctx context.Context, subscriberID uuid.UUID) (int64, error) {
	args := m.Called(ctx, subscriberID)
	return args.Get(0).(int64), args.Error(1)
}
