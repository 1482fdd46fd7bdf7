package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/levenlabs/go-lflag"

	"github.com/curvecard/curvecard/pkg/types"
)

// ErrPreferencesNotFound is returned when no preferences have been stored yet.
var ErrPreferencesNotFound = errors.New("preferences not found")

// Submission is one preference submission that was accepted by the backend.
type Submission struct {
	Timestamp   time.Time              `json:"timestamp"`
	Preferences types.PreferenceRequest `json:"preferences"`
}

// Database defines the interface for persisting card preferences.
type Database interface {
	// Preferences
	// GetPreferences returns the stored preferences and their version, or
	// ErrPreferencesNotFound when nothing has been saved yet.
	GetPreferences(ctx context.Context) (types.PreferenceRequest, int, error)
	SetPreferences(ctx context.Context, prefs types.PreferenceRequest, version int) error

	// Submission history
	InsertSubmission(ctx context.Context, prefs types.PreferenceRequest) error
	GetSubmissionHistory(ctx context.Context, start, end time.Time) ([]Submission, error)

	// Lifecycle
	Close() error
}

// Configured sets up the storage provider based on flags.
func Configured() Database {
	provider := lflag.String("storage-provider", "memory", "Storage provider to use (available: firestore, memory)")

	var p struct{ Database }

	fs := configuredFirestore()

	lflag.Do(func() {
		switch *provider {
		case "firestore":
			if err := fs.Init(context.Background()); err != nil {
				panic(fmt.Sprintf("firestore init failed: %v", err))
			}
			p.Database = fs
		case "memory":
			p.Database = NewMemory()
		default:
			panic(fmt.Sprintf("unknown storage provider: %s", *provider))
		}
	})

	return &p
}
