package card

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"

	"github.com/curvecard/curvecard/pkg/homeassistant"
	"github.com/curvecard/curvecard/pkg/log"
	"github.com/curvecard/curvecard/pkg/storage"
	"github.com/curvecard/curvecard/pkg/types"
)

// ErrBusy is returned when a write command arrives while another is still
// in flight. Callers should surface it and retry after the first completes.
var ErrBusy = errors.New("another command is in progress")

// Gateway issues write commands to the optimizer backend. A single busy flag
// covers all commands so the card never races two writes.
type Gateway struct {
	ha       homeassistant.Client
	db       storage.Database
	cfg      Config
	inFlight atomic.Bool
}

// NewGateway builds a command gateway. db may be nil when preference
// persistence is disabled.
func NewGateway(cfg Config, ha homeassistant.Client, db storage.Database) *Gateway {
	return &Gateway{ha: ha, db: db, cfg: cfg.withDefaults()}
}

// acquire claims the busy flag or fails with ErrBusy.
func (g *Gateway) acquire() error {
	if !g.inFlight.CompareAndSwap(false, true) {
		return ErrBusy
	}
	return nil
}

func (g *Gateway) release() { g.inFlight.Store(false) }

// ToggleOptimization flips the optimization switch by issuing the opposite
// switch service for the current state. There is no optimistic update; the
// new state arrives on the next refresh.
func (g *Gateway) ToggleOptimization(ctx context.Context, currentlyOn bool) error {
	if err := g.acquire(); err != nil {
		return err
	}
	defer g.release()

	service := homeassistant.ServiceTurnOn
	if currentlyOn {
		service = homeassistant.ServiceTurnOff
	}
	err := g.ha.CallService(ctx, homeassistant.SwitchDomain, service, map[string]any{
		"entity_id": g.cfg.SwitchEntity,
	})
	if err != nil {
		return fmt.Errorf("failed to toggle optimization: %w", err)
	}
	return nil
}

// SubmitPreferences validates the request, sends it to the optimizer's
// update service, and records the submission. Validation or service failure
// leaves stored preferences untouched.
func (g *Gateway) SubmitPreferences(ctx context.Context, req types.PreferenceRequest) error {
	if err := g.acquire(); err != nil {
		return err
	}
	defer g.release()

	if err := req.Validate(); err != nil {
		return fmt.Errorf("invalid preferences: %w", err)
	}

	payload, err := req.ServicePayload()
	if err != nil {
		return fmt.Errorf("invalid preferences: %w", err)
	}
	err = g.ha.CallService(ctx, homeassistant.Domain,
		homeassistant.ServiceUpdateSchedule, payload)
	if err != nil {
		return fmt.Errorf("failed to submit preferences: %w", err)
	}

	if g.db != nil {
		if err := g.db.SetPreferences(ctx, req, types.CurrentPreferencesVersion); err != nil {
			// submission already succeeded; losing the local copy is non-fatal
			log.Ctx(ctx).WarnContext(ctx, "failed to persist preferences", slog.Any("error", err))
		}
		if err := g.db.InsertSubmission(ctx, req); err != nil {
			log.Ctx(ctx).WarnContext(ctx, "failed to record submission", slog.Any("error", err))
		}
	}
	return nil
}
