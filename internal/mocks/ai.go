package mocks

import (
	"context"
	"encoding/json"

	"github.com/stretchr/testify/mock"

	"github.com/gfgm/gfgm/backend/internal/service"
)

// MockAIService is a mock implementation of the prediction proxy
type MockAIService struct {
	mock.Mock
}

var _ service.IAIService = (*MockAIService)(nil)

// Predict mocks the Predict method
func (m *MockAIService) Predict(ctx context.Context, payload json.RawMessage) (json.RawMessage, error) {
	args := m.Called(ctx, payload)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(json.RawMessage), args.Error(1)
}
