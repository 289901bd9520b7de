// internal/status/statustext.go
package status

import (
	"strings"

	"github.com/fremebondo/mavbridge/internal/flight"
)

// Severity of a selected status line.
type Severity uint8

const (
	SeverityInfo Severity = iota
	SeverityWarning
	SeverityCritical
)

// TextLength bounds every returned line, excluding any terminator.
const TextLength = 50

// rotationMs is how long each candidate line is shown before the
// selection moves to the next one.
const rotationMs = 1000

// Used both as a failsafe info line and as an arming blocker line.
const rcLinkLostText = "!RC RX LINK LOST!"

// alternating picks the candidate shown at the given elapsed time:
// index floor(elapsedMs/periodMs) mod n.
func alternating(elapsedMs, periodMs uint64, n int) int {
	return int((elapsedMs / periodMs) % uint64(n))
}

// Evaluate selects at most one status line for the current vehicle
// state. It is a pure function of the snapshot and elapsed wall-clock
// milliseconds; an empty string means no line is shown.
func Evaluate(snap flight.Snapshot, elapsedMs uint64) (string, Severity) {
	text, severity := selectMessage(snap, elapsedMs)
	if len(text) > TextLength {
		text = text[:TextLength]
	}
	return text, severity
}

func selectMessage(snap flight.Snapshot, elapsedMs uint64) (string, Severity) {
	if snap.Armed {
		if snap.FailsafeActive {
			return failsafeMessage(snap, elapsedMs)
		}
		return armedMessage(snap, elapsedMs)
	}

	if snap.ArmingDisabled {
		return armingDisabledMessage(snap, elapsedMs)
	}

	return "", SeverityInfo
}

// failsafeMessage rotates among the failsafe phase, the recovery
// instructions and the navigation state. The recovery line is the
// critical one.
func failsafeMessage(snap flight.Snapshot, elapsedMs uint64) (string, Severity) {
	infoMsg := failsafeInfoMessage(snap.ReceivingRxData)

	var candidates []string
	if m := failsafePhaseMessage(snap.FailsafePhase); m != "" {
		candidates = append(candidates, m)
	}
	infoIndex := len(candidates)
	candidates = append(candidates, infoMsg)
	if m := navStateMessage(snap); m != "" {
		candidates = append(candidates, m)
	}

	idx := alternating(elapsedMs, rotationMs, len(candidates))
	severity := SeverityInfo
	if idx == infoIndex {
		severity = SeverityCritical
	}
	return candidates[idx], severity
}

func armedMessage(snap flight.Snapshot, elapsedMs uint64) (string, Severity) {
	var candidates []string

	if snap.RTHModeActive || snap.WaypointModeActive || snap.EmergencyLandingInProgress {
		if m := navStateMessage(snap); m != "" {
			candidates = append(candidates, m)
		}
	} else if snap.FixedWing && snap.LaunchActive {
		candidates = append(candidates, "AUTOLAUNCH")
	} else {
		// ALTHOLD may be active alongside ANGLE/HORIZON/ACRO. When it
		// requires ANGLE its display is covered by the flight mode.
		if snap.AltHoldModeActive && !snap.RequiresAngleMode {
			candidates = append(candidates, "(ALTITUDE HOLD)")
		}
		if snap.AutotrimActive {
			candidates = append(candidates, "(AUTOTRIM)")
		}
		if snap.AutotuneActive {
			candidates = append(candidates, "(AUTOTUNE)")
		}
		if snap.HeadfreeModeActive {
			candidates = append(candidates, "(HEADFREE)")
		}
	}

	if len(candidates) == 0 {
		return "", SeverityInfo
	}
	return candidates[alternating(elapsedMs, rotationMs, len(candidates))], SeverityInfo
}

// armingDisabledMessage alternates every second between a generic
// warning and the specific blocking reason.
func armingDisabledMessage(snap flight.Snapshot, elapsedMs uint64) (string, Severity) {
	if snap.ArmingBlocker == flight.BlockerInvalidSetting && snap.InvalidSettingName != "" {
		if alternating(elapsedMs, rotationMs, 2) == 0 {
			return strings.ToUpper(snap.InvalidSettingName), SeverityInfo
		}
		return "INVALID SETTING", SeverityWarning
	}

	if alternating(elapsedMs, rotationMs, 2) == 0 {
		return "UNABLE TO ARM", SeverityWarning
	}
	return armingBlockerMessage(snap), SeverityInfo
}

func failsafeInfoMessage(receivingRxData bool) string {
	if receivingRxData {
		// User must move sticks to exit FS mode
		return "!MOVE STICKS TO EXIT FS!"
	}
	return rcLinkLostText
}

func failsafePhaseMessage(phase flight.FailsafePhase) string {
	switch phase {
	case flight.FailsafeReturnToHome:
		return "(RTH)"
	case flight.FailsafeLanding:
		return "(EMERGENCY LANDING)"
	case flight.FailsafeIdle,
		flight.FailsafeRxLossDetected,
		flight.FailsafeRxLossIdle,
		flight.FailsafeLanded,
		flight.FailsafeRxLossMonitoring,
		flight.FailsafeRxLossRecovered:
		// Either not in failsafe, or already disarmed/recovering, in
		// which case the recovery messages are enough.
	}
	return ""
}

func navStateMessage(snap flight.Snapshot) string {
	switch snap.NavState {
	case flight.NavStateRTHStart:
		return "STARTING RTH"
	case flight.NavStateRTHEnroute:
		return "EN ROUTE TO HOME"
	case flight.NavStateHoldTimed:
		return "HOLDING WAYPOINT"
	case flight.NavStateWaypointEnroute:
		return "TO WP"
	case flight.NavStateProcessNext:
		return "PREPARING FOR NEXT WAYPOINT"
	case flight.NavStateEmergencyLanding:
		return "EMERGENCY LANDING"
	case flight.NavStateLandInProgress:
		return "LANDING"
	case flight.NavStateHoverAboveHome:
		if snap.FixedWing {
			return "LOITERING AROUND HOME"
		}
		return "HOVERING"
	case flight.NavStateLanded:
		return "LANDED"
	case flight.NavStateLandSettle:
		return "PREPARING TO LAND"
	case flight.NavStateNone,
		flight.NavStateHoldInfinite,
		flight.NavStateDoJump,
		flight.NavStateLandStart,
		flight.NavStateLandStartDescent:
	}
	return ""
}

// armingBlockerMessage explains why arming is refused. Hardware
// failures are reported per sensor, checked in a fixed order.
func armingBlockerMessage(snap flight.Snapshot) string {
	switch snap.ArmingBlocker {
	case flight.BlockerFailsafeSystem:
		if snap.FailsafePhase == flight.FailsafeRxLossMonitoring {
			if snap.ReceivingRxData {
				// The ARM switch has not been off since entering
				// rx-loss monitoring.
				return "TURN ARM SWITCH OFF"
			}
			return rcLinkLostText
		}
		return "DISABLED BY FAILSAFE"
	case flight.BlockerNotLevel:
		return "AIRCRAFT IS NOT LEVEL"
	case flight.BlockerSensorsCalibrating:
		return "SENSORS CALIBRATING"
	case flight.BlockerSystemOverloaded:
		return "SYSTEM OVERLOADED"
	case flight.BlockerNavigationUnsafe:
		switch snap.NavBlocker {
		case flight.NavBlockerMissingGPSFix:
			return "WAITING FOR GPS FIX"
		case flight.NavBlockerNavActive:
			return "DISABLE NAVIGATION FIRST"
		case flight.NavBlockerFirstWaypointTooFar:
			return "FIRST WAYPOINT IS TOO FAR"
		case flight.NavBlockerJumpWaypointError:
			return "JUMP WAYPOINT MISCONFIGURED"
		case flight.NavBlockerNone:
		}
	case flight.BlockerCompassNotCalibrated:
		return "COMPASS NOT CALIBRATED"
	case flight.BlockerAccNotCalibrated:
		return "ACCELEROMETER NOT CALIBRATED"
	case flight.BlockerArmSwitch:
		return "DISABLE ARM SWITCH FIRST"
	case flight.BlockerHardwareFailure:
		return hardwareFailureMessage(snap.Sensors)
	case flight.BlockerBoxFailsafe:
		return "FAILSAFE MODE ENABLED"
	case flight.BlockerBoxKillswitch:
		return "KILLSWITCH MODE ENABLED"
	case flight.BlockerRCLink:
		return "NO RC LINK"
	case flight.BlockerThrottle:
		return "THROTTLE IS NOT LOW"
	case flight.BlockerRollPitchNotCentered:
		return "ROLLPITCH NOT CENTERED"
	case flight.BlockerServoAutotrim:
		return "AUTOTRIM IS ACTIVE"
	case flight.BlockerOutOfMemory:
		return "NOT ENOUGH MEMORY"
	case flight.BlockerInvalidSetting:
		return "INVALID SETTING"
	case flight.BlockerCLI:
		return "CLI IS ACTIVE"
	case flight.BlockerPWMOutputError:
		return "PWM INIT ERROR"
	case flight.BlockerNone:
	}
	return ""
}

func hardwareFailureMessage(s flight.SensorStatus) string {
	if !s.GyroHealthy {
		return "GYRO FAILURE"
	}
	if !s.AccHealthy {
		return "ACCELEROMETER FAILURE"
	}
	if !s.CompassHealthy {
		return "COMPASS FAILURE"
	}
	if !s.BaroHealthy {
		return "BAROMETER FAILURE"
	}
	if !s.GPSHealthy {
		return "GPS FAILURE"
	}
	if !s.RangefinderHealthy {
		return "RANGE FINDER FAILURE"
	}
	if !s.PitotHealthy {
		return "PITOT METER FAILURE"
	}
	return "HARDWARE FAILURE"
}
