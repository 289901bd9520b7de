// internal/config/config.go
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/fremebondo/mavbridge/internal/stream"
)

type Config struct {
	Telemetry TelemetryConfig `yaml:"telemetry"`
}

// ---- TELEMETRY ----

type TelemetryConfig struct {
	Port string `yaml:"port"`
	Baud int    `yaml:"baud"`

	// Wire addressing for every outbound message.
	SystemID    uint8 `yaml:"system_id"`
	ComponentID uint8 `yaml:"component_id"`

	MaxWaypoints int `yaml:"max_waypoints"`

	Rates RatesConfig `yaml:"rates"`
}

// ---- STREAM RATES ----

// RatesConfig is the per-stream rate in Hz. 0 disables a stream.
type RatesConfig struct {
	ExtendedStatus uint8 `yaml:"extended_status"`
	RCChannels     uint8 `yaml:"rc_channels"`
	Position       uint8 `yaml:"position"`
	Extra1         uint8 `yaml:"extra1"`
	Extra2         uint8 `yaml:"extra2"`
	Extra3         uint8 `yaml:"extra3"`
}

// StreamRates maps the configured rates onto scheduler stream kinds.
func (t *TelemetryConfig) StreamRates() map[stream.Kind]uint8 {
	return map[stream.Kind]uint8{
		stream.ExtendedStatus: t.Rates.ExtendedStatus,
		stream.RCChannels:     t.Rates.RCChannels,
		stream.Position:       t.Rates.Position,
		stream.Extra1:         t.Rates.Extra1,
		stream.Extra2:         t.Rates.Extra2,
		stream.Extra3:         t.Rates.Extra3,
	}
}

// Load reads and parses the yaml configuration file.
func Load(path string) (*Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}
	return &cfg, nil
}
