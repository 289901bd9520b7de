// internal/flight/flight.go
package flight

// Mode is the single flight mode reported over telemetry.
type Mode uint8

const (
	ModeManual Mode = iota
	ModeAcro
	ModeAcroAir
	ModeAngle
	ModeHorizon
	ModeAltitudeHold
	ModePositionHold
	ModeRTH
	ModeMission
	ModeCruise
	ModeLaunch
	ModeFailsafe
)

// Platform is the airframe type.
type Platform uint8

const (
	PlatformMultirotor Platform = iota
	PlatformTricopter
	PlatformAirplane
	PlatformRover
	PlatformBoat
	PlatformHelicopter
)

// FailsafePhase mirrors the failsafe sub-state machine.
type FailsafePhase uint8

const (
	FailsafeIdle FailsafePhase = iota
	FailsafeRxLossDetected
	FailsafeRxLossIdle
	FailsafeReturnToHome
	FailsafeLanding
	FailsafeLanded
	FailsafeRxLossMonitoring
	FailsafeRxLossRecovered
)

// NavState is the navigation controller's announced state.
type NavState uint8

const (
	NavStateNone NavState = iota
	NavStateRTHStart
	NavStateRTHEnroute
	NavStateHoldInfinite
	NavStateHoldTimed
	NavStateWaypointEnroute
	NavStateProcessNext
	NavStateDoJump
	NavStateLandStart
	NavStateLandSettle
	NavStateLandStartDescent
	NavStateLandInProgress
	NavStateLanded
	NavStateEmergencyLanding
	NavStateHoverAboveHome
)

// ArmingBlocker is the reason arming is currently refused.
// BlockerNone means arming is allowed.
type ArmingBlocker uint8

const (
	BlockerNone ArmingBlocker = iota
	BlockerFailsafeSystem
	BlockerNotLevel
	BlockerSensorsCalibrating
	BlockerSystemOverloaded
	BlockerNavigationUnsafe
	BlockerCompassNotCalibrated
	BlockerAccNotCalibrated
	BlockerArmSwitch
	BlockerHardwareFailure
	BlockerBoxFailsafe
	BlockerBoxKillswitch
	BlockerRCLink
	BlockerThrottle
	BlockerRollPitchNotCentered
	BlockerServoAutotrim
	BlockerOutOfMemory
	BlockerInvalidSetting
	BlockerCLI
	BlockerPWMOutputError
)

// NavArmingBlocker is the detailed navigation-side arming blocker,
// only meaningful when ArmingBlocker is BlockerNavigationUnsafe.
type NavArmingBlocker uint8

const (
	NavBlockerNone NavArmingBlocker = iota
	NavBlockerMissingGPSFix
	NavBlockerNavActive
	NavBlockerFirstWaypointTooFar
	NavBlockerJumpWaypointError
)

// GPSFix is the solution quality reported by the receiver.
type GPSFix uint8

const (
	GPSNoFix GPSFix = iota
	GPSFix2D
	GPSFix3D
)
