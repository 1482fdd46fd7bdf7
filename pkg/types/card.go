package types

// DisplayMode is one of the card's three mutually-exclusive presentations.
type DisplayMode int

const (
	ModeDashboard DisplayMode = iota
	ModeBasicSettings
	ModeDetailedSchedule
)

// ParseDisplayMode maps a mode name from the frontend to a DisplayMode,
// defaulting to the dashboard.
func ParseDisplayMode(s string) DisplayMode {
	switch s {
	case "basic", "basicSettings":
		return ModeBasicSettings
	case "detailed", "detailedSchedule":
		return ModeDetailedSchedule
	default:
		return ModeDashboard
	}
}

func (m DisplayMode) String() string {
	switch m {
	case ModeBasicSettings:
		return "basicSettings"
	case ModeDetailedSchedule:
		return "detailedSchedule"
	default:
		return "dashboard"
	}
}

// SizeHint is the relative display-size hint reported to the host: the
// dashboard stays compact while the settings modes need a taller card.
func (m DisplayMode) SizeHint() int {
	switch m {
	case ModeBasicSettings:
		return 6
	case ModeDetailedSchedule:
		return 8
	default:
		return 4
	}
}

// MarshalText serializes the mode by name for API responses.
func (m DisplayMode) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (m *DisplayMode) UnmarshalText(b []byte) error {
	*m = ParseDisplayMode(string(b))
	return nil
}

// CardState is the read-path snapshot the card renders from. It is rebuilt
// wholesale on every refresh.
type CardState struct {
	// Toggle mirrors the optimization switch entity.
	Toggle bool `json:"toggle"`
	// Status comes from the status sensor, Unknown when absent.
	Status OptimizationStatus `json:"status"`
	// Savings is the currency-formatted savings sensor state.
	Savings string `json:"savings"`
	// CO2Avoided is the avoided-emissions sensor state in metric tons,
	// empty when the sensor is absent.
	CO2Avoided string `json:"co2Avoided"`
	// CarsEquivalent phrases CO2Avoided as cars taken off the road.
	CarsEquivalent string `json:"carsEquivalent"`
	// NextSetpoint is the upcoming target temperature sensor state.
	NextSetpoint string `json:"nextSetpoint"`
	// CurrentInterval is the active schedule time window, "HH:MM - HH:MM".
	CurrentInterval string `json:"currentInterval"`
	// Dataset is nil when the chart sensor has no graph data yet.
	Dataset *ScheduleDataset `json:"dataset,omitempty"`
}
