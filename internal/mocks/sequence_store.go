package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
)

// SequenceStore is a mock implementation of model.SequenceStore.
type SequenceStore struct {
	mock.Mock
}

func (m *SequenceStore) Next(ctx context.Context, name string) (int64, error) {
	args := m.Called(ctx, name)
	return args.Get(0).(int64), args.Error(1)
}
