package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/streamtube/streamtube-server/internal/model"
)

var _ model.SubscriptionStore = (*SubscriptionRepository)(nil)

type SubscriptionRepository struct {
	db *Connection
}

func NewSubscriptionRepository(db *Connection) *SubscriptionRepository {
	return &SubscriptionRepository{db: db}
}

func (r *SubscriptionRepository) Create(ctx context.Context, sub model.Subscription) error {
	const query = `
		INSERT INTO subscriptions (id, subscriber_id, channel_id) VALUES ($1, $2, $3)
		ON CONFLICT (subscriber_id, channel_id) DO NOTHING
	`

	if sub.ID == uuid.Nil {
		sub.ID = uuid.New()
	}

	if _, err := r.db.Exec(ctx, query, sub.ID, sub.SubscriberID, sub.ChannelID); err != nil {
		return fmt.Errorf("failed to create subscription: %w", err)
	}
	return nil
}

func (r *SubscriptionRepository) Delete(ctx context.Context, subscriberID, channelID uuid.UUID) error {
	const query = `DELETE FROM subscriptions WHERE subscriber_id = $1 AND channel_id = $2`

	if _, err := r.db.Exec(ctx, query, subscriberID, channelID); err != nil {
		return fmt.Errorf("failed to delete subscription: %w", err)
	}
	return nil
}

func (r *SubscriptionRepository) Exists(ctx context.Context, subscriberID, channelID uuid.UUID) (bool, error) {
	const query = `SELECT EXISTS (
		SELECT 1 FROM subscriptions WHERE subscriber_id = $1 AND channel_id = $2
	)`

	var exists bool
	if err := r.db.QueryRow(ctx, query, subscriberID, channelID).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check subscription: %w", err)
	}
	return exists, nil
}

func (r *SubscriptionRepository) CountSubscribers(ctx context.Context, channelID uuid.UUID) (int64, error) {
	const query = `SELECT COUNT(*) FROM subscriptions WHERE channel_id = $1`

	var count int64
	if err := r.db.QueryRow(ctx, query, channelID).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count subscribers: %w", err)
	}
	return count, nil
}

func (r *SubscriptionRepository) CountSubscriptions(ctx context.Context, subscriberID uuid.UUID) (int64, error) {
	const query = `SELECT COUNT(*) FROM subscriptions WHERE subscriber_id = $1`

	var count int64
	if err := r.db.QueryRow(ctx, query, subscriberID).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count subscriptions: %w", err)
	}
	return count, nil
}
