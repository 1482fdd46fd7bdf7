package homeassistant

import (
	"context"

	"github.com/stretchr/testify/mock"
)

// MockClient is a testify mock of Client for use by this package's consumers.
type MockClient struct {
	mock.Mock
}

var _ Client = (*MockClient)(nil)

func (m *MockClient) States(ctx context.Context) (map[string]Entity, error) {
	args := m.Called(ctx)
	if s, ok := args.Get(0).(map[string]Entity); ok {
		return s, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockClient) State(ctx context.Context, entityID string) (Entity, error) {
	args := m.Called(ctx, entityID)
	if e, ok := args.Get(0).(Entity); ok {
		return e, args.Error(1)
	}
	return Entity{}, args.Error(1)
}

func (m *MockClient) CallService(ctx context.Context, domain, service string, data map[string]any) error {
	args := m.Called(ctx, domain, service, data)
	return args.Error(0)
}
