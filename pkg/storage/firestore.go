package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/levenlabs/go-lflag"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/curvecard/curvecard/pkg/log"
	"github.com/curvecard/curvecard/pkg/types"
)

// FirestoreProvider implements Database using Google Cloud Firestore. It
// persists preferences and submission history under the "curvecard"
// collection.
type FirestoreProvider struct {
	client    *firestore.Client
	projectID string
	database  string
}

// configuredFirestore sets up the Firestore provider.
// It registers flags for configuration.
func configuredFirestore() *FirestoreProvider {
	projectID := lflag.String("firestore-project-id", "", "Google Cloud Project ID for Firestore")
	database := lflag.String("firestore-database", "", "Google Cloud Firestore Database")
	emulator := lflag.String("firestore-emulator", "", "Use Firestore emulator")

	f := &FirestoreProvider{}

	lflag.Do(func() {
		f.projectID = *projectID
		f.database = *database

		// set this because that's how firestore client expects it
		if *emulator != "" {
			os.Setenv("FIRESTORE_EMULATOR_HOST", *emulator)
		}
	})

	return f
}

// Init initializes the Firestore client.
// This must be called before using the provider methods.
func (f *FirestoreProvider) Init(ctx context.Context) error {
	projectID := f.projectID
	if projectID == "" {
		projectID = firestore.DetectProjectID
	}
	database := f.database
	if database == "" {
		database = firestore.DefaultDatabaseID
	}
	client, err := firestore.NewClientWithDatabase(ctx, projectID, database)
	if err != nil {
		return fmt.Errorf("failed to create firestore client (project=%s, database=%s): %w", projectID, database, err)
	}
	f.client = client
	return nil
}

// Close closes the Firestore client connection.
func (f *FirestoreProvider) Close() error {
	if f.client != nil {
		return f.client.Close()
	}
	return nil
}

func (f *FirestoreProvider) collection(name string) *firestore.CollectionRef {
	return f.client.Collection("curvecard").Doc("card").Collection(name)
}

// GetPreferences retrieves the stored preferences from the
// "config/preferences" document.
func (f *FirestoreProvider) GetPreferences(ctx context.Context) (types.PreferenceRequest, int, error) {
	doc, err := f.collection("config").Doc("preferences").Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return types.PreferenceRequest{}, 0, ErrPreferencesNotFound
		}
		return types.PreferenceRequest{}, 0, fmt.Errorf("failed to fetch preferences doc: %w", err)
	}

	// Read version if available (default 0)
	var version int
	if v, err := doc.DataAt("version"); err == nil {
		if vInt, ok := v.(int64); ok {
			version = int(vInt)
		}
	}

	val, err := doc.DataAt("json")
	if err != nil {
		log.Ctx(ctx).WarnContext(ctx, "preferences doc missing json")
		return types.PreferenceRequest{}, 0, fmt.Errorf("preferences document missing 'json' field: %w", err)
	}

	jsonStr, ok := val.(string)
	if !ok {
		log.Ctx(ctx).WarnContext(ctx, "preferences doc json not string")
		return types.PreferenceRequest{}, 0, fmt.Errorf("preferences 'json' field is not a string")
	}

	var p types.PreferenceRequest
	if err := json.Unmarshal([]byte(jsonStr), &p); err != nil {
		log.Ctx(ctx).WarnContext(ctx, "failed to unmarshal preferences json", slog.Any("err", err))
		return types.PreferenceRequest{}, 0, fmt.Errorf("failed to unmarshal preferences json: %w", err)
	}
	return p, version, nil
}

// SetPreferences saves the preferences to the "config/preferences" document.
// It stores the preferences as a JSON string for portability.
func (f *FirestoreProvider) SetPreferences(ctx context.Context, prefs types.PreferenceRequest, version int) error {
	jsonBytes, err := json.Marshal(prefs)
	if err != nil {
		return fmt.Errorf("failed to marshal preferences: %w", err)
	}

	_, err = f.collection("config").Doc("preferences").Set(ctx, map[string]interface{}{
		"json":    string(jsonBytes),
		"version": version,
	})
	if err != nil {
		return fmt.Errorf("failed to save preferences: %w", err)
	}
	return nil
}

// InsertSubmission adds a submission record to the "submissions" collection
// as a JSON blob. The document ID is the RFC3339 timestamp for efficient
// range queries.
func (f *FirestoreProvider) InsertSubmission(ctx context.Context, prefs types.PreferenceRequest) error {
	sub := Submission{Timestamp: time.Now().UTC(), Preferences: prefs}
	jsonBytes, err := json.Marshal(sub)
	if err != nil {
		return fmt.Errorf("failed to marshal submission: %w", err)
	}

	// Use RFC3339 as document ID for lexicographic ordering and efficient range queries
	docID := sub.Timestamp.Format(time.RFC3339)
	_, err = f.collection("submissions").Doc(docID).Set(ctx, map[string]interface{}{
		"json":      string(jsonBytes),
		"timestamp": sub.Timestamp,
	})
	if err != nil {
		return fmt.Errorf("failed to insert submission: %w", err)
	}
	return nil
}

// GetSubmissionHistory retrieves submission records within the specified
// time range. Uses document ID range queries for efficient filtering without
// reading all documents.
func (f *FirestoreProvider) GetSubmissionHistory(ctx context.Context, start, end time.Time) ([]Submission, error) {
	coll := f.collection("submissions")
	startDocID := start.UTC().Format(time.RFC3339)
	endDocID := end.UTC().Format(time.RFC3339)

	iter := coll.
		Where(firestore.DocumentID, ">=", coll.Doc(startDocID)).
		Where(firestore.DocumentID, "<", coll.Doc(endDocID)).
		OrderBy(firestore.DocumentID, firestore.Asc).
		Documents(ctx)
	defer iter.Stop()

	var subs []Submission
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("error iterating submissions: %w", err)
		}

		val, err := doc.DataAt("json")
		if err != nil {
			log.Ctx(ctx).WarnContext(ctx, "submission doc missing json", slog.String("docID", doc.Ref.ID), slog.Any("err", err))
			return nil, fmt.Errorf("submission document %s missing 'json' field: %w", doc.Ref.ID, err)
		}

		jsonStr, ok := val.(string)
		if !ok {
			log.Ctx(ctx).WarnContext(ctx, "submission doc json not string", slog.String("docID", doc.Ref.ID))
			return nil, fmt.Errorf("submission document %s 'json' field is not string", doc.Ref.ID)
		}

		var s Submission
		if err := json.Unmarshal([]byte(jsonStr), &s); err != nil {
			log.Ctx(ctx).WarnContext(ctx, "failed to unmarshal submission", slog.String("docID", doc.Ref.ID), slog.Any("err", err))
			return nil, fmt.Errorf("failed to unmarshal submission (id=%s): %w", doc.Ref.ID, err)
		}
		subs = append(subs, s)
	}
	return subs, nil
}
