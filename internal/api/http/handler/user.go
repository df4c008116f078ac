package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/streamtube/streamtube-server/internal/logger"
	"github.com/streamtube/streamtube-server/internal/model"
)

// UserService is what the user handler needs from the user service.
type UserService interface {
	UpdateProfile(ctx context.Context, userID uuid.UUID, update model.ProfileUpdate) (model.PublicUser, error)
	UpdateAvatar(ctx context.Context, userID uuid.UUID, localPath string) (model.PublicUser, error)
	UpdateCoverImage(ctx context.Context, userID uuid.UUID, localPath string) (model.PublicUser, error)
	ChannelProfile(ctx context.Context, username string, viewerID uuid.UUID) (model.ChannelProfile, error)
	Subscribe(ctx context.Context, subscriberID uuid.UUID, channelUsername string) error
	Unsubscribe(ctx context.Context, subscriberID uuid.UUID, channelUsername string) error
}

// User serves profile, media and subscription endpoints.
type User struct {
	service UserService
	ctx     model.ContextManager
	logger  *logger.Logger
}

func NewUser(service UserService, ctx model.ContextManager, l *logger.Logger) *User {
	return &User{
		service: service,
		ctx:     ctx,
		logger:  l,
	}
}

func (h *User) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.ctx.GetUserIDFromContext(r.Context())
	if !ok {
		writeError(w, model.NewUnauthorizedError())
		return
	}

	var req struct {
		Title      string `json:"title"`
		FirstName  string `json:"firstName"`
		MiddleName string `json:"middleName"`
		LastName   string `json:"lastName"`
		Email      string `json:"email"`
		PhoneCode  string `json:"phoneCode"`
		Phone      string `json:"phone"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, model.NewBadRequestError("invalid request body"))
		return
	}

	user, err := h.service.UpdateProfile(r.Context(), userID, model.ProfileUpdate{
		Title:      req.Title,
		FirstName:  req.FirstName,
		MiddleName: req.MiddleName,
		LastName:   req.LastName,
		Email:      req.Email,
		PhoneCode:  req.PhoneCode,
		Phone:      req.Phone,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	respond(w, http.StatusOK, user, "profile updated successfully")
}

func (h *User) UpdateAvatar(w http.ResponseWriter, r *http.Request) {
	h.updateImage(w, r, "avatar", h.service.UpdateAvatar)
}

func (h *User) UpdateCoverImage(w http.ResponseWriter, r *http.Request) {
	h.updateImage(w, r, "coverImage", h.service.UpdateCoverImage)
}

func (h *User) updateImage(
	w http.ResponseWriter,
	r *http.Request,
	field string,
	update func(ctx context.Context, userID uuid.UUID, localPath string) (model.PublicUser, error),
) {
	userID, ok := h.ctx.GetUserIDFromContext(r.Context())
	if !ok {
		writeError(w, model.NewUnauthorizedError())
		return
	}

	if err := r.ParseMultipartForm(maxMultipartMemory); err != nil {
		writeError(w, model.NewBadRequestError("invalid multipart form"))
		return
	}

	file, header, err := r.FormFile(field)
	if err != nil {
		writeError(w, model.NewValidationError(field+" image is required"))
		return
	}
	defer file.Close()

	path, err := stageTempFile(file, header)
	if err != nil {
		h.logger.Error("failed to stage uploaded file", "field", field, "error", err)
		writeError(w, model.NewInternalError("failed to process uploaded file"))
		return
	}

	user, err := update(r.Context(), userID, path)
	if err != nil {
		writeError(w, err)
		return
	}

	respond(w, http.StatusOK, user, field+" updated successfully")
}

func (h *User) ChannelProfile(w http.ResponseWriter, r *http.Request) {
	viewerID, ok := h.ctx.GetUserIDFromContext(r.Context())
	if !ok {
		writeError(w, model.NewUnauthorizedError())
		return
	}

	profile, err := h.service.ChannelProfile(r.Context(), chi.URLParam(r, "username"), viewerID)
	if err != nil {
		writeError(w, err)
		return
	}

	respond(w, http.StatusOK, profile, "channel profile fetched successfully")
}

func (h *User) Subscribe(w http.ResponseWriter, r *http.Request) {
	h.subscription(w, r, h.service.Subscribe, "channel subscribed successfully")
}

func (h *User) Unsubscribe(w http.ResponseWriter, r *http.Request) {
	h.subscription(w, r, h.service.Unsubscribe, "channel unsubscribed successfully")
}

func (h *User) subscription(
	w http.ResponseWriter,
	r *http.Request,
	action func(ctx context.Context, subscriberID uuid.UUID, channelUsername string) error,
	message string,
) {
	userID, ok := h.ctx.GetUserIDFromContext(r.Context())
	if !ok {
		writeError(w, model.NewUnauthorizedError())
		return
	}

	if err := action(r.Context(), userID, chi.URLParam(r, "username")); err != nil {
		writeError(w, err)
		return
	}

	respond(w, http.StatusOK, nil, message)
}
