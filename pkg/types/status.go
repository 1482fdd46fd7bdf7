package types

import "strings"

// OptimizationStatus reflects the backend's reported optimization phase. It is
// parsed from the status sensor's state and drives both the status display and
// whether the card keeps polling for a fresh schedule.
type OptimizationStatus int

const (
	StatusUnknown OptimizationStatus = iota
	StatusPending
	StatusActive
	StatusOptimized
	StatusDisabled
)

// ParseStatus maps a status sensor state to an OptimizationStatus. Anything
// unrecognized (including an absent sensor) is StatusUnknown.
func ParseStatus(state string) OptimizationStatus {
	switch strings.ToLower(strings.TrimSpace(state)) {
	case "pending":
		return StatusPending
	case "active":
		return StatusActive
	case "optimized":
		return StatusOptimized
	case "disabled":
		return StatusDisabled
	default:
		return StatusUnknown
	}
}

func (s OptimizationStatus) String() string {
	switch s {
	case StatusPending:
		return "Pending"
	case StatusActive:
		return "Active"
	case StatusOptimized:
		return "Optimized"
	case StatusDisabled:
		return "Disabled"
	default:
		return "Unknown"
	}
}

// MarshalText implements encoding.TextMarshaler so the status serializes as
// its display name in API responses.
func (s OptimizationStatus) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *OptimizationStatus) UnmarshalText(b []byte) error {
	*s = ParseStatus(string(b))
	return nil
}
