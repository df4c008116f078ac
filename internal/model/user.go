package model

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// UserStore defines persistence operations for users.
type UserStore interface {
	GetByID(ctx context.Context, id uuid.UUID) (User, error)
	GetByUsername(ctx context.Context, username string) (User, error)
	GetByEmail(ctx context.Context, email string) (User, error)
	GetByLogin(ctx context.Context, login string) (User, error)
	Create(ctx context.Context, user User) (User, error)
	UpdateProfile(ctx context.Context, id uuid.UUID, update ProfileUpdate) (User, error)
	UpdateAvatar(ctx context.Context, id uuid.UUID, avatarURL string) (User, error)
	UpdateCoverImage(ctx context.Context, id uuid.UUID, coverImageURL string) (User, error)
	UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error
	SetRefreshToken(ctx context.Context, id uuid.UUID, token string) error
	ClearRefreshToken(ctx context.Context, id uuid.UUID) error
}

// User represents a stored user with credential material. PasswordHash and
// RefreshToken never leave the credential layer; use Public for anything
// returned to callers.
type User struct {
	ID            uuid.UUID
	UHID          int64
	Username      string
	Email         string
	Title         string
	FirstName     string
	MiddleName    string
	LastName      string
	PhoneCode     string
	Phone         string
	AvatarURL     string
	CoverImageURL string
	PasswordHash  string
	RefreshToken  string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// ProfileUpdate carries the mutable profile fields.
type ProfileUpdate struct {
	Title      string
	FirstName  string
	MiddleName string
	LastName   string
	Email      string
	PhoneCode  string
	Phone      string
}

// PublicUser is the externally visible projection of a User.
type PublicUser struct {
	ID            uuid.UUID `json:"id"`
	UHID          int64     `json:"uhid"`
	Username      string    `json:"userName"`
	Email         string    `json:"email"`
	Title         string    `json:"title"`
	FirstName     string    `json:"firstName"`
	MiddleName    string    `json:"middleName,omitempty"`
	LastName      string    `json:"lastName"`
	PhoneCode     string    `json:"phoneCode,omitempty"`
	Phone         string    `json:"phone,omitempty"`
	AvatarURL     string    `json:"avatar"`
	CoverImageURL string    `json:"coverImage,omitempty"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// Public strips credential material from the user record.
func (u User) Public() PublicUser {
	return PublicUser{
		ID:            u.ID,
		UHID:          u.UHID,
		Username:      u.Username,
		Email:         u.Email,
		Title:         u.Title,
		FirstName:     u.FirstName,
		MiddleName:    u.MiddleName,
		LastName:      u.LastName,
		PhoneCode:     u.PhoneCode,
		Phone:         u.Phone,
		AvatarURL:     u.AvatarURL,
		CoverImageURL: u.CoverImageURL,
		CreatedAt:     u.CreatedAt,
		UpdatedAt:     u.UpdatedAt,
	}
}
