package model

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// SubscriptionStore defines persistence operations for channel subscriptions.
type SubscriptionStore interface {
	Create(ctx context.Context, sub Subscription) error
	Delete(ctx context.Context, subscriberID, channelID uuid.UUID) error
	Exists(ctx context.Context, subscriberID, channelID uuid.UUID) (bool, error)
	CountSubscribers(ctx context.Context, channelID uuid.UUID) (int64, error)
	CountSubscriptions(ctx context.Context, subscriberID uuid.UUID) (int64, error)
}

// Subscription links a subscriber to a channel (both are users).
type Subscription struct {
	ID           uuid.UUID
	SubscriberID uuid.UUID
	ChannelID    uuid.UUID
	CreatedAt    time.Time
}

// ChannelProfile is a channel page: the owner's public profile plus
// subscription figures relative to the viewer.
type ChannelProfile struct {
	User              PublicUser `json:"user"`
	SubscriberCount   int64      `json:"subscriberCount"`
	SubscribedToCount int64      `json:"channelSubscribedToCount"`
	IsSubscribed      bool       `json:"isSubscribed"`
}
