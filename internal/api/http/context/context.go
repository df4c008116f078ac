package context

import (
	"context"

	"github.com/google/uuid"

	"github.com/streamtube/streamtube-server/internal/model"
)

type contextKey string

const userIDKey contextKey = "userID"

var _ model.ContextManager = (*Manager)(nil)

// Manager stores the authenticated user ID in request contexts.
type Manager struct{}

func NewManager() *Manager {
	return &Manager{}
}

func (m *Manager) SetUserIDToContext(ctx context.Context, userID uuid.UUID) context.Context {
	return context.WithValue(ctx, userIDKey, userID)
}

func (m *Manager) GetUserIDFromContext(ctx context.Context) (uuid.UUID, bool) {
	userID, ok := ctx.Value(userIDKey).(uuid.UUID)
	return userID, ok
}
