// Package card ties the schedule card together: it synchronizes entity state
// from the host platform, owns the Pending polling loop, parses preference
// form input, and forwards toggle/update commands through the gateway.
package card

import (
	"fmt"
	"strings"

	"github.com/curvecard/curvecard/pkg/homeassistant"
)

// Config is the card's host-facing configuration. Entity is required and
// names the chart sensor the card is bound to; the sibling entities default
// to the IDs the backend integration registers but can be overridden.
type Config struct {
	Entity string `json:"entity"`
	Title  string `json:"title,omitempty"`

	SwitchEntity   string `json:"switchEntity,omitempty"`
	StatusEntity   string `json:"statusEntity,omitempty"`
	SavingsEntity  string `json:"savingsEntity,omitempty"`
	CO2Entity      string `json:"co2Entity,omitempty"`
	SetpointEntity string `json:"setpointEntity,omitempty"`
	IntervalEntity string `json:"intervalEntity,omitempty"`
}

// Validate fails fast on a broken configuration; this is a configuration-time
// error, never deferred to render time.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Entity) == "" {
		return fmt.Errorf("card config requires an entity")
	}
	if !strings.Contains(c.Entity, ".") {
		return fmt.Errorf("invalid entity id %q", c.Entity)
	}
	return nil
}

func (c *Config) withDefaults() Config {
	out := *c
	if out.SwitchEntity == "" {
		out.SwitchEntity = homeassistant.EntityOptimizationSwitch
	}
	if out.StatusEntity == "" {
		out.StatusEntity = homeassistant.EntityStatusSensor
	}
	if out.SavingsEntity == "" {
		out.SavingsEntity = homeassistant.EntitySavingsSensor
	}
	if out.CO2Entity == "" {
		out.CO2Entity = homeassistant.EntityCO2Sensor
	}
	if out.SetpointEntity == "" {
		out.SetpointEntity = homeassistant.EntitySetpointSensor
	}
	if out.IntervalEntity == "" {
		out.IntervalEntity = homeassistant.EntityIntervalSensor
	}
	return out
}
