package storage

import (
	"context"
	"sync"
	"time"

	"github.com/curvecard/curvecard/pkg/types"
)

// Memory is an in-process Database for single-instance deployments and
// tests. Everything is lost on restart.
type Memory struct {
	mu          sync.RWMutex
	prefs       types.PreferenceRequest
	version     int
	hasPrefs    bool
	submissions []Submission
}

// NewMemory returns an empty in-memory database.
func NewMemory() *Memory {
	return &Memory{}
}

func (m *Memory) GetPreferences(ctx context.Context) (types.PreferenceRequest, int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if !m.hasPrefs {
		return types.PreferenceRequest{}, 0, ErrPreferencesNotFound
	}
	return m.prefs, m.version, nil
}

func (m *Memory) SetPreferences(ctx context.Context, prefs types.PreferenceRequest, version int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.prefs = prefs
	m.version = version
	m.hasPrefs = true
	return nil
}

func (m *Memory) InsertSubmission(ctx context.Context, prefs types.PreferenceRequest) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.submissions = append(m.submissions, Submission{
		Timestamp:   time.Now().UTC(),
		Preferences: prefs,
	})
	return nil
}

func (m *Memory) GetSubmissionHistory(ctx context.Context, start, end time.Time) ([]Submission, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var subs []Submission
	for _, s := range m.submissions {
		if !s.Timestamp.Before(start) && s.Timestamp.Before(end) {
			subs = append(subs, s)
		}
	}
	return subs, nil
}

func (m *Memory) Close() error { return nil }
