package storagemock

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/curvecard/curvecard/pkg/storage"
	"github.com/curvecard/curvecard/pkg/types"
)

type MockDatabase struct {
	mock.Mock
}

var _ storage.Database = (*MockDatabase)(nil)

func (m *MockDatabase) GetPreferences(ctx context.Context) (types.PreferenceRequest, int, error) {
	args := m.Called(ctx)
	if len(args) > 0 {
		return args.Get(0).(types.PreferenceRequest), args.Int(1), args.Error(2)
	}
	return types.PreferenceRequest{}, 0, nil
}

func (m *MockDatabase) SetPreferences(ctx context.Context, prefs types.PreferenceRequest, version int) error {
	args := m.Called(ctx, prefs, version)
	return args.Error(0)
}

func (m *MockDatabase) InsertSubmission(ctx context.Context, prefs types.PreferenceRequest) error {
	args := m.Called(ctx, prefs)
	return args.Error(0)
}

func (m *MockDatabase) GetSubmissionHistory(ctx context.Context, start, end time.Time) ([]storage.Submission, error) {
	args := m.Called(ctx, start, end)
	if len(args) > 0 {
		return args.Get(0).([]storage.Submission), args.Error(1)
	}
	return nil, nil
}

func (m *MockDatabase) Close() error {
	args := m.Called()
	return args.Error(0)
}
