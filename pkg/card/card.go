package card

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"sync"
	"time"

	"github.com/curvecard/curvecard/pkg/homeassistant"
	"github.com/curvecard/curvecard/pkg/log"
	"github.com/curvecard/curvecard/pkg/types"
)

// DefaultPollInterval is how often the card re-reads state while the backend
// reports a Pending optimization.
const DefaultPollInterval = 15 * time.Second

// Card is the embeddable schedule card. All state mutation happens through
// Refresh and the mode/command methods; reads return copies.
type Card struct {
	cfg          Config
	ha           homeassistant.Client
	gateway      *Gateway
	pollInterval time.Duration

	mu         sync.Mutex
	state      types.CardState
	mode       types.DisplayMode
	pollCancel context.CancelFunc
	pollDone   chan struct{}
}

// Option adjusts Card construction.
type Option func(*Card)

// WithPollInterval overrides the Pending poll interval. Used by tests.
func WithPollInterval(d time.Duration) Option {
	return func(c *Card) { c.pollInterval = d }
}

// New validates the config and builds a card bound to the given host-platform
// client. An invalid config fails here, at configuration time.
func New(cfg Config, ha homeassistant.Client, gateway *Gateway, opts ...Option) (*Card, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid card config: %w", err)
	}
	c := &Card{
		cfg:          cfg.withDefaults(),
		ha:           ha,
		gateway:      gateway,
		pollInterval: DefaultPollInterval,
		state:        types.CardState{Status: types.StatusUnknown, Savings: "$0.00"},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Config returns the resolved configuration.
func (c *Card) Config() Config { return c.cfg }

// State returns the last synchronized card state.
func (c *Card) State() types.CardState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Mode returns the active display mode.
func (c *Card) Mode() types.DisplayMode {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.mode
}

// SetMode switches the display mode. Switching never touches unsaved field
// edits; those live in the frontend until an apply or reset.
func (c *Card) SetMode(m types.DisplayMode) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.mode = m
}

// Refresh pulls a fresh snapshot from the host platform, rebuilds the card
// state wholesale, and starts or stops the Pending polling loop as needed.
func (c *Card) Refresh(ctx context.Context) (types.CardState, error) {
	states, err := c.ha.States(ctx)
	if err != nil {
		// the read path degrades silently; the stale state keeps rendering
		return c.State(), fmt.Errorf("failed to read platform state: %w", err)
	}

	next := c.buildState(states)

	c.mu.Lock()
	c.state = next
	c.mu.Unlock()

	c.syncPolling(ctx, next.Status)
	return next, nil
}

// buildState derives CardState from an entity snapshot. Missing entities and
// attributes yield the no-data defaults, never errors.
func (c *Card) buildState(states map[string]homeassistant.Entity) types.CardState {
	st := types.CardState{
		Status:  types.StatusUnknown,
		Savings: formatSavings(""),
	}
	if sw, ok := states[c.cfg.SwitchEntity]; ok {
		st.Toggle = sw.On()
	}
	if status, ok := states[c.cfg.StatusEntity]; ok {
		st.Status = types.ParseStatus(status.State)
	}
	if savings, ok := states[c.cfg.SavingsEntity]; ok {
		st.Savings = formatSavings(savings.State)
	}
	if co2, ok := states[c.cfg.CO2Entity]; ok {
		st.CO2Avoided = formatCO2(co2.State)
		if cars, ok := co2.Attributes[homeassistant.AttrCarsEquivalent].(string); ok {
			st.CarsEquivalent = cars
		}
	}
	if sp, ok := states[c.cfg.SetpointEntity]; ok {
		st.NextSetpoint = formatSetpoint(sp.State)
	}
	if iv, ok := states[c.cfg.IntervalEntity]; ok {
		st.CurrentInterval = iv.State
	}
	if sensor, ok := states[c.cfg.Entity]; ok {
		st.Dataset = types.DatasetFromGraphData(sensor.Attributes[homeassistant.AttrGraphData])
	}
	return st
}

// formatSavings renders the savings sensor state as currency, defaulting to
// zero when the sensor is absent or non-numeric.
func formatSavings(state string) string {
	v, err := strconv.ParseFloat(state, 64)
	if err != nil {
		v = 0
	}
	return fmt.Sprintf("$%.2f", v)
}

// formatCO2 renders the avoided-emissions sensor state, which reports in
// metric tons. Empty when the sensor is absent or non-numeric.
func formatCO2(state string) string {
	v, err := strconv.ParseFloat(state, 64)
	if err != nil {
		return ""
	}
	return fmt.Sprintf("%.3f t", v)
}

// formatSetpoint renders the next target temperature in °F. Empty when the
// sensor is absent or non-numeric, such as before the first optimization.
func formatSetpoint(state string) string {
	v, err := strconv.ParseFloat(state, 64)
	if err != nil {
		return ""
	}
	return fmt.Sprintf("%.1f°F", v)
}

// Placeholder returns the explanatory text for the no-data rendering path.
func (c *Card) Placeholder() string {
	if c.State().Status == types.StatusPending {
		return "Calculating your optimized schedule…"
	}
	return "No schedule yet"
}

// syncPolling starts the 15-second refresh loop while the status is Pending
// and cancels it once the status moves on. Only one loop ever runs.
func (c *Card) syncPolling(ctx context.Context, status types.OptimizationStatus) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if status == types.StatusPending {
		if c.pollCancel != nil {
			return
		}
		pollCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
		c.pollCancel = cancel
		c.pollDone = make(chan struct{})
		go c.poll(pollCtx, c.pollDone)
		return
	}
	c.cancelPollLocked()
}

func (c *Card) cancelPollLocked() {
	if c.pollCancel != nil {
		c.pollCancel()
		c.pollCancel = nil
	}
}

func (c *Card) poll(ctx context.Context, done chan struct{}) {
	defer close(done)
	ticker := time.NewTicker(c.pollInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			states, err := c.ha.States(ctx)
			if err != nil {
				log.Ctx(ctx).WarnContext(ctx, "poll refresh failed", slog.Any("error", err))
				continue
			}
			next := c.buildState(states)
			c.mu.Lock()
			c.state = next
			if next.Status != types.StatusPending {
				// self-terminating: release our own cancel func and stop
				c.cancelPollLocked()
				c.mu.Unlock()
				return
			}
			c.mu.Unlock()
		}
	}
}

// Close cancels the polling timer. It must be called when the card is
// detached so no timer outlives the component.
func (c *Card) Close() {
	c.mu.Lock()
	done := c.pollDone
	c.cancelPollLocked()
	c.mu.Unlock()
	if done != nil {
		<-done
	}
}
