package service

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"

	"github.com/streamtube/streamtube-server/internal/logger"
	"github.com/streamtube/streamtube-server/internal/model"
)

// User implements profile updates, media replacement and channel
// subscriptions.
type User struct {
	users         model.UserStore
	subscriptions model.SubscriptionStore
	storage       model.Storage
	logger        *logger.Logger
}

func NewUser(
	users model.UserStore,
	subscriptions model.SubscriptionStore,
	storage model.Storage,
	l *logger.Logger,
) *User {
	return &User{
		users:         users,
		subscriptions: subscriptions,
		storage:       storage,
		logger:        l,
	}
}

// UpdateProfile replaces the mutable profile fields.
func (s *User) UpdateProfile(ctx context.Context, userID uuid.UUID, update model.ProfileUpdate) (model.PublicUser, error) {
	if err := requireAll(update.Title, update.FirstName, update.LastName, update.Email); err != nil {
		return model.PublicUser{}, err
	}
	if err := validateEmail(update.Email); err != nil {
		return model.PublicUser{}, err
	}

	update.Email = strings.ToLower(update.Email)
	update.FirstName = strings.ToLower(update.FirstName)
	update.MiddleName = strings.ToLower(update.MiddleName)
	update.LastName = strings.ToLower(update.LastName)

	user, err := s.users.UpdateProfile(ctx, userID, update)
	if err != nil {
		switch {
		case errors.Is(err, model.ErrEmailTaken):
			return model.PublicUser{}, model.NewConflictError("Email already exists")
		case errors.Is(err, model.ErrNotFound):
			return model.PublicUser{}, model.NewNotFoundError("user does not exist")
		}
		s.logger.Error("failed to update profile", "error", err)
		return model.PublicUser{}, model.NewInternalError("failed to update profile")
	}

	return user.Public(), nil
}

// UpdateAvatar uploads the new avatar, persists its URL and then removes
// the previous object. A failed cleanup only leaves an orphaned blob, so it
// is logged rather than surfaced.
func (s *User) UpdateAvatar(ctx context.Context, userID uuid.UUID, localPath string) (model.PublicUser, error) {
	if localPath == "" {
		return model.PublicUser{}, model.NewValidationError("avatar image is required")
	}

	current, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return model.PublicUser{}, model.NewNotFoundError("user does not exist")
		}
		s.logger.Error("failed to look up user for avatar update", "error", err)
		return model.PublicUser{}, model.NewInternalError("failed to update avatar")
	}

	avatarURL, err := s.storage.UploadFile(ctx, localPath)
	if err != nil {
		s.logger.Error("failed to upload avatar", "error", err)
		return model.PublicUser{}, model.NewInternalError("failed to upload avatar image")
	}

	user, err := s.users.UpdateAvatar(ctx, userID, avatarURL)
	if err != nil {
		s.logger.Error("failed to persist avatar url", "error", err)
		return model.PublicUser{}, model.NewInternalError("failed to update avatar")
	}

	if current.AvatarURL != "" {
		if err := s.storage.DeleteByURL(ctx, current.AvatarURL); err != nil {
			s.logger.Warn("failed to delete previous avatar", "error", err)
		}
	}

	return user.Public(), nil
}

// UpdateCoverImage mirrors UpdateAvatar for the channel cover.
func (s *User) UpdateCoverImage(ctx context.Context, userID uuid.UUID, localPath string) (model.PublicUser, error) {
	if localPath == "" {
		return model.PublicUser{}, model.NewValidationError("cover image is required")
	}

	current, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return model.PublicUser{}, model.NewNotFoundError("user does not exist")
		}
		s.logger.Error("failed to look up user for cover update", "error", err)
		return model.PublicUser{}, model.NewInternalError("failed to update cover image")
	}

	coverURL, err := s.storage.UploadFile(ctx, localPath)
	if err != nil {
		s.logger.Error("failed to upload cover image", "error", err)
		return model.PublicUser{}, model.NewInternalError("failed to upload cover image")
	}

	user, err := s.users.UpdateCoverImage(ctx, userID, coverURL)
	if err != nil {
		s.logger.Error("failed to persist cover image url", "error", err)
		return model.PublicUser{}, model.NewInternalError("failed to update cover image")
	}

	if current.CoverImageURL != "" {
		if err := s.storage.DeleteByURL(ctx, current.CoverImageURL); err != nil {
			s.logger.Warn("failed to delete previous cover image", "error", err)
		}
	}

	return user.Public(), nil
}

// ChannelProfile assembles the channel page for a username as seen by the
// viewer: profile, subscriber figures and whether the viewer subscribes.
func (s *User) ChannelProfile(ctx context.Context, username string, viewerID uuid.UUID) (model.ChannelProfile, error) {
	if username == "" {
		return model.ChannelProfile{}, model.NewBadRequestError("username is required")
	}

	channel, err := s.users.GetByUsername(ctx, strings.ToLower(username))
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return model.ChannelProfile{}, model.NewNotFoundError("channel does not exist")
		}
		s.logger.Error("failed to look up channel", "error", err)
		return model.ChannelProfile{}, model.NewInternalError("failed to fetch channel profile")
	}

	subscribers, err := s.subscriptions.CountSubscribers(ctx, channel.ID)
	if err != nil {
		s.logger.Error("failed to count subscribers", "error", err)
		return model.ChannelProfile{}, model.NewInternalError("failed to fetch channel profile")
	}

	subscribedTo, err := s.subscriptions.CountSubscriptions(ctx, channel.ID)
	if err != nil {
		s.logger.Error("failed to count subscriptions", "error", err)
		return model.ChannelProfile{}, model.NewInternalError("failed to fetch channel profile")
	}

	isSubscribed, err := s.subscriptions.Exists(ctx, viewerID, channel.ID)
	if err != nil {
		s.logger.Error("failed to check subscription", "error", err)
		return model.ChannelProfile{}, model.NewInternalError("failed to fetch channel profile")
	}

	return model.ChannelProfile{
		User:              channel.Public(),
		SubscriberCount:   subscribers,
		SubscribedToCount: subscribedTo,
		IsSubscribed:      isSubscribed,
	}, nil
}

// Subscribe subscribes the viewer to the channel named by username.
func (s *User) Subscribe(ctx context.Context, subscriberID uuid.UUID, channelUsername string) error {
	channel, err := s.channelByUsername(ctx, channelUsername)
	if err != nil {
		return err
	}

	if channel.ID == subscriberID {
		return model.NewValidationError("cannot subscribe to own channel")
	}

	exists, err := s.subscriptions.Exists(ctx, subscriberID, channel.ID)
	if err != nil {
		s.logger.Error("failed to check subscription", "error", err)
		return model.NewInternalError("failed to subscribe")
	}
	if exists {
		return model.NewValidationError("channel already subscribed")
	}

	if err := s.subscriptions.Create(ctx, model.Subscription{
		SubscriberID: subscriberID,
		ChannelID:    channel.ID,
	}); err != nil {
		s.logger.Error("failed to create subscription", "error", err)
		return model.NewInternalError("failed to subscribe")
	}

	return nil
}

// Unsubscribe removes the viewer's subscription to the channel.
func (s *User) Unsubscribe(ctx context.Context, subscriberID uuid.UUID, channelUsername string) error {
	channel, err := s.channelByUsername(ctx, channelUsername)
	if err != nil {
		return err
	}

	exists, err := s.subscriptions.Exists(ctx, subscriberID, channel.ID)
	if err != nil {
		s.logger.Error("failed to check subscription", "error", err)
		return model.NewInternalError("failed to unsubscribe")
	}
	if !exists {
		return model.NewValidationError("channel subscription not found")
	}

	if err := s.subscriptions.Delete(ctx, subscriberID, channel.ID); err != nil {
		s.logger.Error("failed to delete subscription", "error", err)
		return model.NewInternalError("failed to unsubscribe")
	}

	return nil
}

func (s *User) channelByUsername(ctx context.Context, username string) (model.User, error) {
	if username == "" {
		return model.User{}, model.NewBadRequestError("username is required")
	}

	channel, err := s.users.GetByUsername(ctx, strings.ToLower(username))
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return model.User{}, model.NewNotFoundError("channel does not exist")
		}
		s.logger.Error("failed to look up channel", "error", err)
		return model.User{}, model.NewInternalError("failed to look up channel")
	}

	return channel, nil
}
