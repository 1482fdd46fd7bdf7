// Package homeassistant is the boundary to the host platform. The rest of the
// card talks to Home Assistant exclusively through the Client interface so
// tests can substitute a fake provider.
package homeassistant

import (
	"context"
	"errors"
)

// Entity IDs and service names the card consumes, as registered by the
// backend integration.
const (
	Domain = "curve_control"

	EntityOptimizationSwitch = "switch.curve_control_use_optimized_temperatures"
	EntityStatusSensor       = "sensor.curve_control_status"
	EntitySavingsSensor      = "sensor.curve_control_savings"
	EntityChartSensor        = "sensor.curve_control_temperature_schedule_chart"
	EntityCO2Sensor          = "sensor.curve_control_co2_avoided"
	EntitySetpointSensor     = "sensor.curve_control_next_setpoint"
	EntityIntervalSensor     = "sensor.curve_control_current_interval"

	// AttrGraphData is the chart sensor attribute carrying the dataset.
	AttrGraphData = "graph_data"
	// AttrCarsEquivalent is the CO2 sensor attribute phrasing the avoided
	// emissions as cars taken off the road.
	AttrCarsEquivalent = "cars_equivalent"

	ServiceUpdateSchedule = "update_schedule"
	SwitchDomain          = "switch"
	ServiceTurnOn         = "turn_on"
	ServiceTurnOff        = "turn_off"
)

// ErrEntityNotFound is returned by State when the entity does not exist.
// Callers on the read path treat it as the "no data" rendering path.
var ErrEntityNotFound = errors.New("entity not found")

// Entity is a read-only snapshot of one host-platform entity.
type Entity struct {
	EntityID   string         `json:"entity_id"`
	State      string         `json:"state"`
	Attributes map[string]any `json:"attributes"`
}

// On reports whether a switch-like entity is on.
func (e Entity) On() bool {
	return e.State == "on"
}

// Client reads host-platform state and invokes services.
type Client interface {
	// States returns a snapshot of every entity keyed by entity ID.
	States(ctx context.Context) (map[string]Entity, error)

	// State returns a single entity, or ErrEntityNotFound.
	State(ctx context.Context, entityID string) (Entity, error)

	// CallService invokes domain.service with the given payload.
	CallService(ctx context.Context, domain, service string, data map[string]any) error
}
