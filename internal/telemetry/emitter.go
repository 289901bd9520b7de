// internal/telemetry/emitter.go
package telemetry

import (
	"math"

	"github.com/sirupsen/logrus"

	"github.com/fremebondo/mavbridge/internal/flight"
	"github.com/fremebondo/mavbridge/internal/mavlink"
	"github.com/fremebondo/mavbridge/internal/status"
	"github.com/fremebondo/mavbridge/internal/stream"
)

// ArduPilot custom-mode numbers reported in the heartbeat, so that
// ground stations display a familiar mode name.
const (
	planeModeManual      = 0
	planeModeStabilize   = 2
	planeModeAcro        = 4
	planeModeFlyByWireA  = 5
	planeModeFlyByWireB  = 6
	planeModeCruise      = 7
	planeModeAuto        = 10
	planeModeRTL         = 11
	planeModeLoiter      = 12
	planeModeTakeoff     = 13
	planeModeEnumEnd     = 23
	copterModeStabilize  = 0
	copterModeAcro       = 1
	copterModeAltHold    = 2
	copterModeAuto       = 3
	copterModePoshold    = 16
	copterModeRTL        = 6
	copterModeThrow      = 18
	copterModeEnumEnd    = 22
)

// Emitter assembles the outbound stream groups and hands the encoded
// frames to the transport.
type Emitter struct {
	enc   *mavlink.Encoder
	tr    Transport
	sched *stream.Scheduler
	log   logrus.FieldLogger
}

func NewEmitter(enc *mavlink.Encoder, tr Transport, sched *stream.Scheduler, log logrus.FieldLogger) *Emitter {
	return &Emitter{enc: enc, tr: tr, sched: sched, log: log}
}

// EmitDue runs one driving tick of the stream scheduler and sends
// every group that fires, in the fixed stream order.
func (e *Emitter) EmitDue(snap flight.Snapshot, nowMs uint64) {
	if e.sched.Trigger(stream.ExtendedStatus) {
		e.sendSystemStatus(snap)
	}
	if e.sched.Trigger(stream.RCChannels) {
		e.sendRCChannelsAndRSSI(snap, nowMs)
	}
	if e.sched.Trigger(stream.Position) {
		e.sendPosition(snap, nowMs)
	}
	if e.sched.Trigger(stream.Extra1) {
		e.sendAttitude(snap, nowMs)
	}
	if e.sched.Trigger(stream.Extra2) {
		e.sendHUDAndHeartbeat(snap)
	}
	if e.sched.Trigger(stream.Extra3) {
		e.sendBatteryTemperatureStatusText(snap, nowMs)
	}
}

// Send encodes and writes a single message.
func (e *Emitter) Send(m mavlink.Message) {
	frame, err := e.enc.Encode(m)
	if err != nil {
		e.log.WithError(err).Warn("telemetry: encode failed")
		return
	}
	if _, err := e.tr.Write(frame); err != nil {
		e.log.WithError(err).Warn("telemetry: write failed")
	}
}

func (e *Emitter) sendSystemStatus(snap flight.Snapshot) {
	// Base bitmask covers gyro, acc and the builtin controllers.
	sensors := uint32(35843)
	if snap.Sensors.HasMag {
		sensors |= 4100
	}
	if snap.Sensors.HasBaro {
		sensors |= 8200
	}
	if snap.Sensors.HasGPS {
		sensors |= 16416
	}

	m := &mavlink.SysStatus{
		SensorsPresent: sensors,
		SensorsEnabled: sensors,
		SensorsHealth:  sensors & 1023,
	}
	if snap.Battery.VoltageConfigured {
		m.VoltageBattery = snap.Battery.VoltageCv * 10 // millivolts
		m.BatteryRemaining = int8(snap.Battery.Percentage)
	} else {
		m.BatteryRemaining = 100
	}
	if snap.Battery.AmperageConfigured {
		m.CurrentBattery = snap.Battery.AmperageCa
	} else {
		m.CurrentBattery = -1
	}

	e.Send(m)
}

func (e *Emitter) sendRCChannelsAndRSSI(snap flight.Snapshot, nowMs uint64) {
	m := &mavlink.RCChannelsRaw{
		TimeBootMs: uint32(nowMs),
		RSSI:       uint8(scaleRange(int(snap.RC.RSSI), 0, 1023, 0, 255)),
	}
	for i := range m.Channels {
		m.Channels[i] = snap.RC.Channel(i)
	}
	e.Send(m)
}

func (e *Emitter) sendPosition(snap flight.Snapshot, nowMs uint64) {
	if !snap.Sensors.HasGPS {
		return
	}

	fixType := uint8(1)
	switch snap.GPS.Fix {
	case flight.GPSFix2D:
		fixType = 2
	case flight.GPSFix3D:
		fixType = 3
	case flight.GPSNoFix:
	}

	e.Send(&mavlink.GPSRawInt{
		TimeUsec:          nowMs * 1000,
		FixType:           fixType,
		Lat:               snap.GPS.Lat,
		Lon:               snap.GPS.Lon,
		Alt:               snap.GPS.AltCm * 10, // millimeters
		Eph:               snap.GPS.Eph,
		Epv:               snap.GPS.Epv,
		Vel:               snap.GPS.GroundSpeedCmS,
		Cog:               snap.GPS.CourseDeciDeg * 10,
		SatellitesVisible: snap.GPS.NumSat,
	})

	e.Send(&mavlink.GlobalPositionInt{
		TimeBootMs:  uint32(nowMs),
		Lat:         snap.GPS.Lat,
		Lon:         snap.GPS.Lon,
		Alt:         snap.GPS.AltCm * 10,
		RelativeAlt: snap.EstimatedAltitudeCm * 10,
		Hdg:         uint16(snap.Attitude.YawDeci / 10),
	})

	e.Send(&mavlink.GPSGlobalOrigin{
		Latitude:  snap.GPS.HomeLat,
		Longitude: snap.GPS.HomeLon,
		Altitude:  snap.GPS.HomeAltCm * 10,
	})
}

func (e *Emitter) sendAttitude(snap flight.Snapshot, nowMs uint64) {
	e.Send(&mavlink.Attitude{
		TimeBootMs: uint32(nowMs),
		Roll:       deciDegToRad(snap.Attitude.RollDeci),
		Pitch:      deciDegToRad(-snap.Attitude.PitchDeci),
		Yaw:        deciDegToRad(snap.Attitude.YawDeci),
	})
}

func (e *Emitter) sendHUDAndHeartbeat(snap flight.Snapshot) {
	var airspeed, groundSpeed float32
	if snap.Sensors.HasPitot {
		airspeed = float32(snap.AirspeedCmS) / 100
	}
	if snap.Sensors.HasGPS {
		groundSpeed = float32(snap.GPS.GroundSpeedCmS) / 100
	}

	thr := int(snap.RC.Channel(3))
	if snap.NavControllingThrottle {
		thr = int(snap.CommandedThrottle)
	}
	if thr < 1000 {
		thr = 1000
	}
	if thr > 2000 {
		thr = 2000
	}

	e.Send(&mavlink.VFRHud{
		Airspeed:    airspeed,
		Groundspeed: groundSpeed,
		Alt:         float32(snap.EstimatedAltitudeCm) / 100,
		Climb:       float32(snap.ClimbRateCmS) / 100,
		Heading:     snap.Attitude.YawDeci / 10,
		Throttle:    uint16(scaleRange(thr, 1000, 2000, 0, 100)),
	})

	e.Send(e.heartbeat(snap))
}

func (e *Emitter) heartbeat(snap flight.Snapshot) *mavlink.Heartbeat {
	baseMode := mavlink.ModeFlagManualInputEnabled | mavlink.ModeFlagCustomModeEnabled
	if snap.Armed {
		baseMode |= mavlink.ModeFlagSafetyArmed
	}
	if snap.Mode != flight.ModeManual {
		baseMode |= mavlink.ModeFlagStabilizeEnabled
	}
	if snap.Mode == flight.ModePositionHold || snap.Mode == flight.ModeRTH || snap.Mode == flight.ModeMission {
		baseMode |= mavlink.ModeFlagGuidedEnabled
	}

	var customMode uint8
	if snap.FixedWing {
		customMode = planeMode(snap.Mode)
	} else {
		customMode = copterMode(snap.Mode)
	}

	systemState := mavlink.StateStandby
	switch {
	case snap.Armed && snap.FailsafeActive:
		systemState = mavlink.StateCritical
	case snap.Armed:
		systemState = mavlink.StateActive
	case snap.Calibrating:
		systemState = mavlink.StateCalibrating
	}

	return &mavlink.Heartbeat{
		Type:         systemType(snap.Platform),
		Autopilot:    mavlink.AutopilotGeneric,
		BaseMode:     baseMode,
		CustomMode:   uint32(customMode),
		SystemStatus: systemState,
	}
}

func (e *Emitter) sendBatteryTemperatureStatusText(snap flight.Snapshot, nowMs uint64) {
	bat := &mavlink.BatteryStatus{
		BatteryFunction: mavlink.BatteryFunctionUnknown,
		Type:            mavlink.BatteryTypeUnknown,
		Temperature:     math.MaxInt16,
	}
	for i := range bat.Voltages {
		bat.Voltages[i] = math.MaxUint16
	}
	if snap.Battery.VoltageConfigured {
		if n := int(snap.Battery.CellCount); n > 0 {
			for cell := 0; cell < n && cell < mavlink.BatteryMaxCells; cell++ {
				bat.Voltages[cell] = snap.Battery.AvgCellVoltageCv * 10
			}
		} else {
			bat.Voltages[0] = snap.Battery.VoltageCv * 10
		}
		bat.BatteryRemaining = int8(snap.Battery.Percentage)
	} else {
		bat.Voltages[0] = 0
		bat.BatteryRemaining = -1
	}
	if snap.Battery.AmperageConfigured {
		bat.CurrentBattery = snap.Battery.AmperageCa
		bat.CurrentConsumed = snap.Battery.MahDrawn
		bat.EnergyConsumed = snap.Battery.MwhDrawn * 36
	} else {
		bat.CurrentBattery = -1
		bat.CurrentConsumed = -1
		bat.EnergyConsumed = -1
	}
	e.Send(bat)

	e.Send(&mavlink.ScaledPressure{
		TimeBootMs:  uint32(nowMs),
		Temperature: snap.TemperatureDeciC * 10, // centi-degrees
	})

	text, sev := status.Evaluate(snap, nowMs)
	if text != "" {
		e.Send(mavlink.NewStatusText(wireSeverity(sev), text))
	}
}

func wireSeverity(s status.Severity) uint8 {
	switch s {
	case status.SeverityCritical:
		return mavlink.SeverityCritical
	case status.SeverityWarning:
		return mavlink.SeverityWarning
	}
	return mavlink.SeverityInfo
}

func systemType(p flight.Platform) uint8 {
	switch p {
	case flight.PlatformMultirotor:
		return mavlink.TypeQuadrotor
	case flight.PlatformTricopter:
		return mavlink.TypeTricopter
	case flight.PlatformAirplane:
		return mavlink.TypeFixedWing
	case flight.PlatformRover:
		return mavlink.TypeGroundRover
	case flight.PlatformBoat:
		return mavlink.TypeSurfaceBoat
	case flight.PlatformHelicopter:
		return mavlink.TypeHelicopter
	}
	return mavlink.TypeGeneric
}

func planeMode(m flight.Mode) uint8 {
	switch m {
	case flight.ModeManual:
		return planeModeManual
	case flight.ModeAcro, flight.ModeAcroAir:
		return planeModeAcro
	case flight.ModeAngle:
		return planeModeFlyByWireA
	case flight.ModeHorizon:
		return planeModeStabilize
	case flight.ModeAltitudeHold:
		return planeModeFlyByWireB
	case flight.ModePositionHold:
		return planeModeLoiter
	case flight.ModeRTH, flight.ModeFailsafe:
		return planeModeRTL
	case flight.ModeMission:
		return planeModeAuto
	case flight.ModeCruise:
		return planeModeCruise
	case flight.ModeLaunch:
		return planeModeTakeoff
	}
	return planeModeEnumEnd
}

func copterMode(m flight.Mode) uint8 {
	switch m {
	case flight.ModeAcro, flight.ModeAcroAir:
		return copterModeAcro
	case flight.ModeAngle, flight.ModeHorizon:
		return copterModeStabilize
	case flight.ModeAltitudeHold:
		return copterModeAltHold
	case flight.ModePositionHold:
		return copterModePoshold
	case flight.ModeRTH, flight.ModeFailsafe:
		return copterModeRTL
	case flight.ModeMission:
		return copterModeAuto
	case flight.ModeLaunch:
		return copterModeThrow
	}
	return copterModeEnumEnd
}

func deciDegToRad(deci int16) float32 {
	return float32(deci) * (math.Pi / 1800)
}

func scaleRange(x, srcMin, srcMax, destMin, destMax int) int {
	a := (destMax - destMin) * (x - srcMin)
	b := srcMax - srcMin
	return a/b + destMin
}
