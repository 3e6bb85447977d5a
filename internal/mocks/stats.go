package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/gfgm/gfgm/backend/internal/service"
	"github.com/gfgm/gfgm/backend/internal/types"
)

// MockStatsService is a mock implementation of the admin stats service
type MockStatsService struct {
	mock.Mock
}

var _ service.IStatsService = (*MockStatsService)(nil)

// GetStats mocks the GetStats method
func (m *MockStatsService) GetStats(ctx context.Context) (*types.StatsResponse, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.StatsResponse), args.Error(1)
}

// Invalidate mocks the Invalidate method
func (m *MockStatsService) Invalidate(ctx context.Context) {
	m.Called(ctx)
}
