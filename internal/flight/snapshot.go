// internal/flight/snapshot.go
package flight

// Snapshot is the vehicle state captured for one telemetry tick.
// It contains no logic and no memory of the past beyond current state.
type Snapshot struct {
	// Arming
	Armed              bool
	ArmingDisabled     bool
	ArmingBlocker      ArmingBlocker
	NavBlocker         NavArmingBlocker
	InvalidSettingName string
	Calibrating        bool

	// Failsafe
	FailsafeActive  bool
	FailsafePhase   FailsafePhase
	ReceivingRxData bool

	// Navigation and mode flags. Several can be active at once.
	NavState                   NavState
	RTHModeActive              bool
	WaypointModeActive         bool
	AltHoldModeActive          bool
	HeadfreeModeActive         bool
	EmergencyLandingInProgress bool
	LaunchActive               bool
	RequiresAngleMode          bool
	AutotrimActive             bool
	AutotuneActive             bool
	NavControllingThrottle     bool

	FixedWing bool
	Platform  Platform
	Mode      Mode

	Sensors  SensorStatus
	Battery  BatteryStatus
	GPS      GPSStatus
	Attitude Attitude
	RC       RCStatus

	// Position estimator outputs.
	EstimatedAltitudeCm int32
	ClimbRateCmS        int32

	AirspeedCmS      int32
	TemperatureDeciC int16

	// Commanded throttle, used instead of the raw RC channel while
	// navigation owns the throttle.
	CommandedThrottle int16
}

// SensorStatus is hardware presence and health, one flag per sensor.
type SensorStatus struct {
	HasMag   bool
	HasBaro  bool
	HasGPS   bool
	HasPitot bool

	GyroHealthy        bool
	AccHealthy         bool
	CompassHealthy     bool
	BaroHealthy        bool
	GPSHealthy         bool
	RangefinderHealthy bool
	PitotHealthy       bool
}

// BatteryStatus carries pack readings in the units the sensors report:
// centivolts, centiamps (10 mA), milliamp-hours, milliwatt-hours.
type BatteryStatus struct {
	VoltageConfigured  bool
	VoltageCv          uint16
	CellCount          uint8
	AvgCellVoltageCv   uint16
	AmperageConfigured bool
	AmperageCa         int16
	MahDrawn           int32
	MwhDrawn           int32
	Percentage         int8
}

// GPSStatus is the last solution plus the recorded home position.
// Latitude/longitude are 1e-7 degree fixed point, altitudes are cm.
type GPSStatus struct {
	Fix            GPSFix
	Lat            int32
	Lon            int32
	AltCm          int32
	Eph            uint16
	Epv            uint16
	GroundSpeedCmS uint16
	CourseDeciDeg  uint16
	NumSat         uint8

	HomeLat   int32
	HomeLon   int32
	HomeAltCm int32
}

// Attitude in decidegrees.
type Attitude struct {
	RollDeci  int16
	PitchDeci int16
	YawDeci   int16
}

// RCStatus is the receiver state: channel values in microseconds and
// RSSI scaled 0..1023.
type RCStatus struct {
	Channels []uint16
	RSSI     uint16
}

// Channel returns channel i or 0 when the receiver reports fewer
// channels.
func (rc RCStatus) Channel(i int) uint16 {
	if i < 0 || i >= len(rc.Channels) {
		return 0
	}
	return rc.Channels[i]
}
