package server

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/curvecard/curvecard/pkg/card"
	"github.com/curvecard/curvecard/pkg/chart"
	"github.com/curvecard/curvecard/pkg/log"
	"github.com/curvecard/curvecard/pkg/types"
)

const (
	defaultChartWidth  = 500
	defaultChartHeight = 250
	maxChartDimension  = 4000
)

// CardRes is the response type for GET /api/card.
type CardRes struct {
	Title       string            `json:"title,omitempty"`
	State       types.CardState   `json:"state"`
	Mode        types.DisplayMode `json:"mode"`
	SizeHint    int               `json:"sizeHint"`
	Placeholder string            `json:"placeholder,omitempty"`
}

func (s *Server) handleGetCard(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	state, err := s.card.Refresh(ctx)
	if err != nil {
		// serve the stale snapshot; the card degrades instead of erroring
		log.Ctx(ctx).WarnContext(ctx, "refresh failed", slog.Any("error", err))
	}

	res := CardRes{
		Title:    s.card.Config().Title,
		State:    state,
		Mode:     s.card.Mode(),
		SizeHint: s.card.Mode().SizeHint(),
	}
	if state.Dataset == nil {
		res.Placeholder = s.card.Placeholder()
	}
	writeJSON(w, res)
}

func (s *Server) handleGetChart(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	width := chartDimension(r.URL.Query().Get("w"), defaultChartWidth)
	height := chartDimension(r.URL.Query().Get("h"), defaultChartHeight)

	state, err := s.card.Refresh(ctx)
	if err != nil {
		log.Ctx(ctx).WarnContext(ctx, "refresh failed", slog.Any("error", err))
	}

	surface := chart.NewSVG(width, height)
	renderer := s.renderer(ctx)
	if state.Dataset == nil {
		renderer.RenderPlaceholder(surface, s.card.Placeholder())
	} else {
		renderer.Render(surface, state.Dataset)
	}

	w.Header().Set("Content-Type", "image/svg+xml")
	w.Header().Set("Cache-Control", "no-store")
	if _, err := w.Write(surface.Bytes()); err != nil {
		panic(http.ErrAbortHandler)
	}
}

func chartDimension(raw string, def float64) float64 {
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || v <= 0 || v > maxChartDimension {
		return def
	}
	return v
}

func (s *Server) handleToggle(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	err := s.gateway.ToggleOptimization(ctx, s.card.State().Toggle)
	if errors.Is(err, card.ErrBusy) {
		writeJSONError(w, err.Error(), http.StatusConflict)
		return
	}
	if err != nil {
		log.Ctx(ctx).ErrorContext(ctx, "toggle failed", slog.Any("error", err))
		writeJSONError(w, "failed to toggle optimization", http.StatusBadGateway)
		return
	}

	// no optimistic update; read back the switch state
	state, err := s.card.Refresh(ctx)
	if err != nil {
		log.Ctx(ctx).WarnContext(ctx, "refresh after toggle failed", slog.Any("error", err))
	}
	writeJSON(w, CardRes{
		State:    state,
		Mode:     s.card.Mode(),
		SizeHint: s.card.Mode().SizeHint(),
	})
}

func (s *Server) handleSubmitSchedule(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	req, err := s.decodeScheduleRequest(r)
	if err != nil {
		writeJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}

	err = s.gateway.SubmitPreferences(ctx, req)
	if errors.Is(err, card.ErrBusy) {
		writeJSONError(w, err.Error(), http.StatusConflict)
		return
	}
	if err != nil {
		log.Ctx(ctx).ErrorContext(ctx, "schedule submission failed", slog.Any("error", err))
		writeJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}

	// a successful apply returns the card to the dashboard
	s.card.SetMode(types.ModeDashboard)
	state, err := s.card.Refresh(ctx)
	if err != nil {
		log.Ctx(ctx).WarnContext(ctx, "refresh after submit failed", slog.Any("error", err))
	}
	writeJSON(w, CardRes{
		State:    state,
		Mode:     s.card.Mode(),
		SizeHint: s.card.Mode().SizeHint(),
	})
}

// decodeScheduleRequest accepts either a JSON PreferenceRequest or a
// form-encoded submission whose mode field selects basic vs detailed.
func (s *Server) decodeScheduleRequest(r *http.Request) (types.PreferenceRequest, error) {
	contentType := r.Header.Get("Content-Type")
	if strings.HasPrefix(contentType, "application/json") {
		var req types.PreferenceRequest
		r.Body = http.MaxBytesReader(nil, r.Body, 1048576)
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			return types.PreferenceRequest{}, errors.New("invalid request body")
		}
		return req, nil
	}

	if err := r.ParseForm(); err != nil {
		return types.PreferenceRequest{}, errors.New("invalid form")
	}
	if types.ParseDisplayMode(r.PostForm.Get("mode")) == types.ModeDetailedSchedule {
		return card.ParseDetailed(r.PostForm), nil
	}
	return card.ParseBasic(r.PostForm), nil
}

// ModeReq is the request type for POST /api/card/mode.
type ModeReq struct {
	Mode types.DisplayMode `json:"mode"`
}

func (s *Server) handleSetMode(w http.ResponseWriter, r *http.Request) {
	var req ModeReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONError(w, "invalid request body", http.StatusBadRequest)
		return
	}
	s.card.SetMode(req.Mode)
	writeJSON(w, struct {
		Mode     types.DisplayMode `json:"mode"`
		SizeHint int               `json:"sizeHint"`
	}{Mode: req.Mode, SizeHint: req.Mode.SizeHint()})
}
