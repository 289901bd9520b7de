// internal/config/validate.go
package config

import (
	"fmt"
)

// The upload protocol carries the item count in a 16-bit field, but
// the practical bound is what the navigation store can hold.
const maxWaypointCapacity = 255

// Validate checks configuration correctness.
// It performs declarative validation only.
// It MUST NOT mutate configuration.
func Validate(cfg *Config) error {
	t := cfg.Telemetry

	if t.Port == "" {
		return fmt.Errorf("telemetry: port is required")
	}
	if t.Baud < 0 {
		return fmt.Errorf("telemetry: baud must not be negative")
	}
	if t.SystemID == 0 {
		return fmt.Errorf("telemetry: system_id must be 1-255")
	}
	if t.MaxWaypoints < 0 || t.MaxWaypoints > maxWaypointCapacity {
		return fmt.Errorf(
			"telemetry: max_waypoints %d out of range 0-%d",
			t.MaxWaypoints, maxWaypointCapacity,
		)
	}

	return nil
}
