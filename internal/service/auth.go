package service

import (
	"context"
	"crypto/subtle"
	"errors"
	"strings"

	"github.com/google/uuid"

	"github.com/streamtube/streamtube-server/internal/logger"
	"github.com/streamtube/streamtube-server/internal/model"
)

// Auth implements registration, login and the refresh-token session
// lifecycle. A user has at most one live refresh token; issuing a new one
// replaces the stored value, which invalidates whatever was issued before.
type Auth struct {
	users     model.UserStore
	sequences model.SequenceStore
	hasher    model.PasswordHasher
	tokens    model.TokenManager
	storage   model.Storage
	logger    *logger.Logger
}

func NewAuth(
	users model.UserStore,
	sequences model.SequenceStore,
	hasher model.PasswordHasher,
	tokens model.TokenManager,
	storage model.Storage,
	l *logger.Logger,
) *Auth {
	return &Auth{
		users:     users,
		sequences: sequences,
		hasher:    hasher,
		tokens:    tokens,
		storage:   storage,
		logger:    l,
	}
}

// RegisterInput carries a registration request. AvatarPath and
// CoverImagePath are local paths to uploaded temp files; the blob store
// consumes and removes them.
type RegisterInput struct {
	Username       string
	Email          string
	Title          string
	FirstName      string
	MiddleName     string
	LastName       string
	PhoneCode      string
	Phone          string
	Password       string
	AvatarPath     string
	CoverImagePath string
}

// TokenPair is an access/refresh token pair issued on login and refresh.
type TokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// LoginResult is the login response payload.
type LoginResult struct {
	User model.PublicUser `json:"user"`
	TokenPair
}

// Register validates the input, allocates the user's human-readable id and
// creates the account. Usernames, emails and names are lowercased before
// storage so lookups are case-insensitive by construction.
func (s *Auth) Register(ctx context.Context, in RegisterInput) (model.PublicUser, error) {
	if err := requireAll(in.Username, in.Email, in.Title, in.FirstName, in.LastName, in.Password); err != nil {
		return model.PublicUser{}, err
	}
	if err := validateEmail(in.Email); err != nil {
		return model.PublicUser{}, err
	}
	if err := validatePassword(in.Password); err != nil {
		return model.PublicUser{}, err
	}

	in.Username = strings.ToLower(in.Username)
	in.Email = strings.ToLower(in.Email)
	in.FirstName = strings.ToLower(in.FirstName)
	in.MiddleName = strings.ToLower(in.MiddleName)
	in.LastName = strings.ToLower(in.LastName)

	if _, err := s.users.GetByEmail(ctx, in.Email); err == nil {
		return model.PublicUser{}, model.NewConflictError("Email already exists")
	} else if !errors.Is(err, model.ErrNotFound) {
		return model.PublicUser{}, model.NewInternalError("failed to check email")
	}

	if _, err := s.users.GetByUsername(ctx, in.Username); err == nil {
		return model.PublicUser{}, model.NewConflictError("Username already exists")
	} else if !errors.Is(err, model.ErrNotFound) {
		return model.PublicUser{}, model.NewInternalError("failed to check username")
	}

	if in.AvatarPath == "" {
		return model.PublicUser{}, model.NewValidationError("avatar image is required")
	}

	avatarURL, err := s.storage.UploadFile(ctx, in.AvatarPath)
	if err != nil {
		s.logger.Error("failed to upload avatar", "error", err)
		return model.PublicUser{}, model.NewInternalError("failed to upload avatar image")
	}

	var coverImageURL string
	if in.CoverImagePath != "" {
		coverImageURL, err = s.storage.UploadFile(ctx, in.CoverImagePath)
		if err != nil {
			s.logger.Error("failed to upload cover image", "error", err)
			return model.PublicUser{}, model.NewInternalError("failed to upload cover image")
		}
	}

	uhid, err := s.sequences.Next(ctx, model.UHIDSequence)
	if err != nil {
		s.logger.Error("failed to allocate uhid", "error", err)
		return model.PublicUser{}, model.NewInternalError("failed to allocate user id")
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return model.PublicUser{}, model.NewInternalError("failed to hash password")
	}

	user, err := s.users.Create(ctx, model.User{
		ID:            uuid.New(),
		UHID:          uhid,
		Username:      in.Username,
		Email:         in.Email,
		Title:         in.Title,
		FirstName:     in.FirstName,
		MiddleName:    in.MiddleName,
		LastName:      in.LastName,
		PhoneCode:     in.PhoneCode,
		Phone:         in.Phone,
		AvatarURL:     avatarURL,
		CoverImageURL: coverImageURL,
		PasswordHash:  hash,
	})
	if err != nil {
		switch {
		case errors.Is(err, model.ErrEmailTaken):
			return model.PublicUser{}, model.NewConflictError("Email already exists")
		case errors.Is(err, model.ErrUsernameTaken):
			return model.PublicUser{}, model.NewConflictError("Username already exists")
		}
		s.logger.Error("failed to create user", "error", err)
		return model.PublicUser{}, model.NewInternalError("failed to register user")
	}

	return user.Public(), nil
}

// Login verifies the credentials against the user matched by username or
// email and issues a fresh token pair, replacing any previous session.
func (s *Auth) Login(ctx context.Context, login, password string) (LoginResult, error) {
	if err := requireAll(login, password); err != nil {
		return LoginResult{}, err
	}

	user, err := s.users.GetByLogin(ctx, strings.ToLower(login))
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return LoginResult{}, model.NewNotFoundError("user does not exist")
		}
		s.logger.Error("failed to look up user for login", "error", err)
		return LoginResult{}, model.NewInternalError("failed to log in")
	}

	if err := s.hasher.Verify(user.PasswordHash, password); err != nil {
		return LoginResult{}, model.NewAuthenticationError("invalid user credentials")
	}

	pair, err := s.issuePair(ctx, user)
	if err != nil {
		return LoginResult{}, err
	}

	return LoginResult{User: user.Public(), TokenPair: pair}, nil
}

// Refresh rotates the token pair. The presented token must parse and match
// the single stored token exactly; any other token, including previously
// issued ones, is rejected.
func (s *Auth) Refresh(ctx context.Context, refreshToken string) (TokenPair, error) {
	if refreshToken == "" {
		return TokenPair{}, model.NewUnauthorizedError()
	}

	userID, err := s.tokens.ParseRefreshToken(refreshToken)
	if err != nil {
		return TokenPair{}, model.NewUnauthorizedError()
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return TokenPair{}, model.NewUnauthorizedError()
		}
		s.logger.Error("failed to look up user for refresh", "error", err)
		return TokenPair{}, model.NewInternalError("failed to refresh token")
	}

	if user.RefreshToken == "" ||
		subtle.ConstantTimeCompare([]byte(user.RefreshToken), []byte(refreshToken)) != 1 {
		return TokenPair{}, model.NewUnauthorizedError()
	}

	return s.issuePair(ctx, user)
}

// Logout revokes the stored refresh token. Logging out twice is harmless.
func (s *Auth) Logout(ctx context.Context, userID uuid.UUID) error {
	if err := s.users.ClearRefreshToken(ctx, userID); err != nil {
		s.logger.Error("failed to clear refresh token", "error", err)
		return model.NewInternalError("failed to log out")
	}
	return nil
}

// ChangePassword verifies the old password before storing a new hash. The
// stored refresh token is left intact, so the existing session survives.
func (s *Auth) ChangePassword(ctx context.Context, userID uuid.UUID, oldPassword, newPassword, confirmPassword string) error {
	if err := requireAll(oldPassword, newPassword, confirmPassword); err != nil {
		return err
	}
	if newPassword != confirmPassword {
		return model.NewBadRequestError("new and confirm password should be same")
	}
	if err := validatePassword(newPassword); err != nil {
		return err
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return model.NewNotFoundError("user does not exist")
		}
		s.logger.Error("failed to look up user for password change", "error", err)
		return model.NewInternalError("failed to change password")
	}

	if err := s.hasher.Verify(user.PasswordHash, oldPassword); err != nil {
		return model.NewAuthenticationError("invalid old password")
	}

	hash, err := s.hasher.Hash(newPassword)
	if err != nil {
		return model.NewInternalError("failed to hash password")
	}

	if err := s.users.UpdatePassword(ctx, userID, hash); err != nil {
		s.logger.Error("failed to update password", "error", err)
		return model.NewInternalError("failed to change password")
	}

	return nil
}

// CurrentUser returns the authenticated user's public profile.
func (s *Auth) CurrentUser(ctx context.Context, userID uuid.UUID) (model.PublicUser, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return model.PublicUser{}, model.NewNotFoundError("user does not exist")
		}
		s.logger.Error("failed to look up current user", "error", err)
		return model.PublicUser{}, model.NewInternalError("failed to fetch user")
	}
	return user.Public(), nil
}

func (s *Auth) issuePair(ctx context.Context, user model.User) (TokenPair, error) {
	accessToken, err := s.tokens.GenerateAccessToken(user)
	if err != nil {
		s.logger.Error("failed to generate access token", "error", err)
		return TokenPair{}, model.NewInternalError("failed to issue tokens")
	}

	refreshToken, err := s.tokens.GenerateRefreshToken(user.ID)
	if err != nil {
		s.logger.Error("failed to generate refresh token", "error", err)
		return TokenPair{}, model.NewInternalError("failed to issue tokens")
	}

	if err := s.users.SetRefreshToken(ctx, user.ID, refreshToken); err != nil {
		s.logger.Error("failed to persist refresh token", "error", err)
		return TokenPair{}, model.NewInternalError("failed to issue tokens")
	}

	return TokenPair{AccessToken: accessToken, RefreshToken: refreshToken}, nil
}
