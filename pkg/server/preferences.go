package server

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/curvecard/curvecard/pkg/log"
	"github.com/curvecard/curvecard/pkg/rateplan"
	"github.com/curvecard/curvecard/pkg/storage"
	"github.com/curvecard/curvecard/pkg/types"
)

// PreferencesRes is the response type for GET /api/preferences.
type PreferencesRes struct {
	Preferences types.PreferenceRequest `json:"preferences"`
	Version     int                     `json:"version"`
	Stored      bool                    `json:"stored"`
}

func (s *Server) handleGetPreferences(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	prefs, version, err := s.storage.GetPreferences(ctx)
	if errors.Is(err, storage.ErrPreferencesNotFound) {
		writeJSON(w, PreferencesRes{
			Preferences: types.DefaultPreferences(),
			Version:     types.CurrentPreferencesVersion,
		})
		return
	}
	if err != nil {
		log.Ctx(ctx).ErrorContext(ctx, "failed to fetch preferences", slog.Any("error", err))
		writeJSONError(w, "failed to fetch preferences", http.StatusInternalServerError)
		return
	}

	// Check for migration
	if version < types.CurrentPreferencesVersion {
		log.Ctx(ctx).InfoContext(ctx, "migrating preferences", slog.Int("oldVersion", version), slog.Int("newVersion", types.CurrentPreferencesVersion))
		newPrefs, changed, err := types.MigratePreferences(prefs, version)
		if err != nil {
			// Log error but return preferences as is (best effort)
			log.Ctx(ctx).ErrorContext(ctx, "failed to migrate preferences", slog.Int("currentVersion", version), slog.Any("error", err))
		} else if changed {
			prefs = newPrefs
			version = types.CurrentPreferencesVersion
			if err := s.storage.SetPreferences(ctx, newPrefs, types.CurrentPreferencesVersion); err != nil {
				log.Ctx(ctx).ErrorContext(ctx, "failed to save migrated preferences", slog.Any("error", err))
				// Return migrated preferences even if save failed, so this request works with new defaults
			}
		}
	}

	writeJSON(w, PreferencesRes{Preferences: prefs, Version: version, Stored: true})
}

func (s *Server) handleListRatePlans(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, struct {
		Plans []rateplan.Plan `json:"plans"`
	}{Plans: rateplan.List()})
}

func (s *Server) handleSubmissionHistory(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	end := time.Now().UTC()
	start := end.AddDate(0, 0, -7)
	if v := r.URL.Query().Get("start"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			writeJSONError(w, "invalid start time", http.StatusBadRequest)
			return
		}
		start = t
	}
	if v := r.URL.Query().Get("end"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			writeJSONError(w, "invalid end time", http.StatusBadRequest)
			return
		}
		end = t
	}

	subs, err := s.storage.GetSubmissionHistory(ctx, start, end)
	if err != nil {
		log.Ctx(ctx).ErrorContext(ctx, "failed to fetch submission history", slog.Any("error", err))
		writeJSONError(w, "failed to fetch submission history", http.StatusInternalServerError)
		return
	}
	writeJSON(w, struct {
		Submissions []storage.Submission `json:"submissions"`
	}{Submissions: subs})
}
