// Package rateplan carries the static utility rate plans the Curve Control
// backend optimizes against. The card only needs them for the settings
// dropdown, price tier labels, and the chart's right-hand axis ceiling; the
// authoritative rate modeling lives in the backend.
package rateplan

import "fmt"

// ID identifies a utility rate plan. IDs 1 through NumSelectable are
// user-selectable; ID 8 (Texas free-nights) is assigned by the backend only.
type ID int

const (
	SDGETouDR1     ID = 1
	SDGETouDR2     ID = 2
	SDGETouDRP     ID = 3
	SDGETouElec    ID = 4
	SDGEStandardDR ID = 5
	NHTouDomestic  ID = 6
	TexasXcelTOU   ID = 7
	TexasFreeNight ID = 8

	// Default is used whenever a plan is absent or unknown.
	Default = SDGETouDR1

	// NumSelectable is the number of plans offered in the preferences form.
	NumSelectable = 7
)

// Plan describes a single rate plan, including the 24-hour price curve the
// settings form previews when the plan is selected.
type Plan struct {
	ID           ID        `json:"id"`
	Name         string    `json:"name"`
	Prices       []float64 `json:"prices"`
	TierLabels   []string  `json:"tierLabels"`
	PriceCeiling float64   `json:"priceCeiling"`
}

var names = map[ID]string{
	SDGETouDR1:     "San Diego Gas & Electric TOU-DR1",
	SDGETouDR2:     "San Diego Gas & Electric TOU-DR2",
	SDGETouDRP:     "San Diego Gas & Electric TOU-DR-P",
	SDGETouElec:    "San Diego Gas & Electric TOU-ELEC",
	SDGEStandardDR: "San Diego Gas & Electric Standard DR",
	NHTouDomestic:  "New Hampshire TOU Whole House Domestic",
	TexasXcelTOU:   "Texas XCEL Time-Of-Use",
	TexasFreeNight: "Texas Free Nights",
}

// Valid reports whether the ID is a user-selectable plan.
func (id ID) Valid() bool {
	return id >= 1 && id <= NumSelectable
}

func (id ID) String() string {
	if name, ok := names[id]; ok {
		return name
	}
	return fmt.Sprintf("Unknown plan %d", int(id))
}

// List returns the user-selectable plans in ID order, for the settings form.
func List() []Plan {
	plans := make([]Plan, 0, NumSelectable)
	for id := ID(1); id <= NumSelectable; id++ {
		plans = append(plans, Plan{
			ID:           id,
			Name:         names[id],
			Prices:       id.Prices(),
			TierLabels:   id.TierLabels(),
			PriceCeiling: id.PriceCeiling(),
		})
	}
	return plans
}

// PriceCeiling returns the fixed top of the chart's right-hand price axis in
// ¢/kWh. The free-nights plan spikes past 100¢ during super-peak hours and
// gets a taller axis; every other plan fits under 100.
func (id ID) PriceCeiling() float64 {
	if id == TexasFreeNight {
		return 160
	}
	return 100
}

// TierLabel buckets a ¢/kWh price into the display tier used by the card's
// pricing legend.
func TierLabel(centsPerKWH float64) string {
	switch {
	case centsPerKWH <= 15:
		return "Super Off-Peak"
	case centsPerKWH <= 30:
		return "Off-Peak"
	case centsPerKWH <= 45:
		return "Standard"
	case centsPerKWH <= 65:
		return "On-Peak"
	default:
		return "Super Peak"
	}
}
