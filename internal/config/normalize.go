// internal/config/normalize.go
package config

import "github.com/fremebondo/mavbridge/internal/stream"

// Default stream rates in hertz. These match the rates a ground
// station typically requests from a small UAV over a low-bandwidth
// radio link.
const (
	defaultExtendedStatusRate = 2
	defaultRCChannelsRate     = 5
	defaultPositionRate       = 2
	defaultExtra1Rate         = 10
	defaultExtra2Rate         = 2
	defaultExtra3Rate         = 1
)

// Normalize applies defaults and derived values.
// It mutates configuration and is the ONLY place allowed to do so.
// Call it after Validate.
func Normalize(cfg *Config) {
	t := &cfg.Telemetry

	if t.Baud == 0 {
		// Default rate for MinimOSD-class telemetry hardware.
		t.Baud = 57600
	}
	if t.SystemID == 0 {
		t.SystemID = 1
	}
	if t.ComponentID == 0 {
		t.ComponentID = 250
	}
	if t.MaxWaypoints == 0 {
		t.MaxWaypoints = 60
	}

	// An omitted rates block means "use defaults". An explicit zero in a
	// present block disables that stream, so defaults only apply when the
	// whole block is empty.
	r := &t.Rates
	if (RatesConfig{}) == *r {
		*r = RatesConfig{
			ExtendedStatus: defaultExtendedStatusRate,
			RCChannels:     defaultRCChannelsRate,
			Position:       defaultPositionRate,
			Extra1:         defaultExtra1Rate,
			Extra2:         defaultExtra2Rate,
			Extra3:         defaultExtra3Rate,
		}
	}

	// A stream can never fire more often than the driving frequency.
	clamp := func(v *uint8) {
		if *v > stream.MaxRate {
			*v = stream.MaxRate
		}
	}
	clamp(&r.ExtendedStatus)
	clamp(&r.RCChannels)
	clamp(&r.Position)
	clamp(&r.Extra1)
	clamp(&r.Extra2)
	clamp(&r.Extra3)
}
