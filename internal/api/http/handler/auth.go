package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/streamtube/streamtube-server/internal/logger"
	"github.com/streamtube/streamtube-server/internal/model"
	"github.com/streamtube/streamtube-server/internal/service"
)

const (
	accessTokenCookie  = "accessToken"
	refreshTokenCookie = "refreshToken"

	// Upper bound on multipart form memory; larger parts spill to disk.
	maxMultipartMemory = 32 << 20
)

// AuthService is what the auth handler needs from the auth service.
type AuthService interface {
	Register(ctx context.Context, in service.RegisterInput) (model.PublicUser, error)
	Login(ctx context.Context, login, password string) (service.LoginResult, error)
	Refresh(ctx context.Context, refreshToken string) (service.TokenPair, error)
	Logout(ctx context.Context, userID uuid.UUID) error
	ChangePassword(ctx context.Context, userID uuid.UUID, oldPassword, newPassword, confirmPassword string) error
	CurrentUser(ctx context.Context, userID uuid.UUID) (model.PublicUser, error)
}

// Auth serves registration, login and session endpoints.
type Auth struct {
	service AuthService
	ctx     model.ContextManager
	logger  *logger.Logger
}

func NewAuth(service AuthService, ctx model.ContextManager, l *logger.Logger) *Auth {
	return &Auth{
		service: service,
		ctx:     ctx,
		logger:  l,
	}
}

// Register handles multipart registration. Uploaded images are staged as
// temp files that the storage layer consumes and removes.
func (h *Auth) Register(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxMultipartMemory); err != nil {
		writeError(w, model.NewBadRequestError("invalid multipart form"))
		return
	}

	in := service.RegisterInput{
		Username:   r.FormValue("userName"),
		Email:      r.FormValue("email"),
		Title:      r.FormValue("title"),
		FirstName:  r.FormValue("firstName"),
		MiddleName: r.FormValue("middleName"),
		LastName:   r.FormValue("lastName"),
		PhoneCode:  r.FormValue("phoneCode"),
		Phone:      r.FormValue("phone"),
		Password:   r.FormValue("password"),
	}

	avatarPath, err := h.stageFormFile(r, "avatar")
	if err != nil {
		writeError(w, err)
		return
	}
	in.AvatarPath = avatarPath

	coverPath, err := h.stageOptionalFormFile(r, "coverImage")
	if err != nil {
		writeError(w, err)
		return
	}
	in.CoverImagePath = coverPath

	user, err := h.service.Register(r.Context(), in)
	if err != nil {
		writeError(w, err)
		return
	}

	respond(w, http.StatusCreated, user, "user registered successfully")
}

func (h *Auth) Login(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Username string `json:"userName"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, model.NewBadRequestError("invalid request body"))
		return
	}

	login := req.Username
	if login == "" {
		login = req.Email
	}

	result, err := h.service.Login(r.Context(), login, req.Password)
	if err != nil {
		writeError(w, err)
		return
	}

	setTokenCookies(w, result.AccessToken, result.RefreshToken)
	respond(w, http.StatusOK, result, "user logged in successfully")
}

// Refresh accepts the refresh token from the cookie or, failing that, the
// request body, and rotates the pair.
func (h *Auth) Refresh(w http.ResponseWriter, r *http.Request) {
	token := ""
	if c, err := r.Cookie(refreshTokenCookie); err == nil {
		token = c.Value
	}
	if token == "" {
		var req struct {
			RefreshToken string `json:"refreshToken"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err == nil {
			token = req.RefreshToken
		}
	}

	pair, err := h.service.Refresh(r.Context(), token)
	if err != nil {
		writeError(w, err)
		return
	}

	setTokenCookies(w, pair.AccessToken, pair.RefreshToken)
	respond(w, http.StatusOK, pair, "access token refreshed successfully")
}

func (h *Auth) Logout(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.ctx.GetUserIDFromContext(r.Context())
	if !ok {
		writeError(w, model.NewUnauthorizedError())
		return
	}

	if err := h.service.Logout(r.Context(), userID); err != nil {
		writeError(w, err)
		return
	}

	clearTokenCookies(w)
	respond(w, http.StatusOK, nil, "user logged out successfully")
}

func (h *Auth) ChangePassword(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.ctx.GetUserIDFromContext(r.Context())
	if !ok {
		writeError(w, model.NewUnauthorizedError())
		return
	}

	var req struct {
		OldPassword     string `json:"oldPassword"`
		NewPassword     string `json:"newPassword"`
		ConfirmPassword string `json:"confirmPassword"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, model.NewBadRequestError("invalid request body"))
		return
	}

	if err := h.service.ChangePassword(r.Context(), userID, req.OldPassword, req.NewPassword, req.ConfirmPassword); err != nil {
		writeError(w, err)
		return
	}

	respond(w, http.StatusOK, nil, "password changed successfully")
}

func (h *Auth) Me(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.ctx.GetUserIDFromContext(r.Context())
	if !ok {
		writeError(w, model.NewUnauthorizedError())
		return
	}

	user, err := h.service.CurrentUser(r.Context(), userID)
	if err != nil {
		writeError(w, err)
		return
	}

	respond(w, http.StatusOK, user, "user fetched successfully")
}

// stageFormFile copies a required multipart file to a temp file and returns
// its path.
func (h *Auth) stageFormFile(r *http.Request, field string) (string, error) {
	path, err := h.stageOptionalFormFile(r, field)
	if err != nil {
		return "", err
	}
	if path == "" {
		return "", model.NewValidationError(field + " image is required")
	}
	return path, nil
}

func (h *Auth) stageOptionalFormFile(r *http.Request, field string) (string, error) {
	file, header, err := r.FormFile(field)
	if err != nil {
		if err == http.ErrMissingFile {
			return "", nil
		}
		return "", model.NewBadRequestError("invalid " + field + " upload")
	}
	defer file.Close()

	path, err := stageTempFile(file, header)
	if err != nil {
		h.logger.Error("failed to stage uploaded file", "field", field, "error", err)
		return "", model.NewInternalError("failed to process uploaded file")
	}
	return path, nil
}

// stageTempFile writes an uploaded part to the OS temp dir, preserving the
// original extension so object keys stay recognizable.
func stageTempFile(file multipart.File, header *multipart.FileHeader) (string, error) {
	tmp, err := os.CreateTemp("", "upload-*"+filepath.Ext(header.Filename))
	if err != nil {
		return "", fmt.Errorf("failed to create temp file: %w", err)
	}

	if _, err := io.Copy(tmp, file); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return "", fmt.Errorf("failed to write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return "", fmt.Errorf("failed to close temp file: %w", err)
	}

	return tmp.Name(), nil
}

func setTokenCookies(w http.ResponseWriter, accessToken, refreshToken string) {
	http.SetCookie(w, &http.Cookie{
		Name:     accessTokenCookie,
		Value:    accessToken,
		Path:     "/",
		HttpOnly: true,
		Secure:   true,
	})
	http.SetCookie(w, &http.Cookie{
		Name:     refreshTokenCookie,
		Value:    refreshToken,
		Path:     "/",
		HttpOnly: true,
		Secure:   true,
	})
}

func clearTokenCookies(w http.ResponseWriter) {
	for _, name := range []string{accessTokenCookie, refreshTokenCookie} {
		http.SetCookie(w, &http.Cookie{
			Name:     name,
			Value:    "",
			Path:     "/",
			HttpOnly: true,
			Secure:   true,
			MaxAge:   -1,
		})
	}
}
