// internal/mavlink/messages.go
package mavlink

// Message is one decoded (or to-be-encoded) MAVLink message.
// Struct fields are declared in wire order: MAVLink v1 sorts fields by
// size, largest first, keeping declaration order within equal sizes.
type Message interface {
	MsgID() uint8
}

// Catalog message IDs.
const (
	IDHeartbeat          uint8 = 0
	IDSysStatus          uint8 = 1
	IDGPSRawInt          uint8 = 24
	IDScaledPressure     uint8 = 29
	IDAttitude           uint8 = 30
	IDGlobalPositionInt  uint8 = 33
	IDRCChannelsRaw      uint8 = 35
	IDMissionItem        uint8 = 39
	IDMissionRequest     uint8 = 40
	IDMissionRequestList uint8 = 43
	IDMissionCount       uint8 = 44
	IDMissionClearAll    uint8 = 45
	IDMissionAck         uint8 = 47
	IDGPSGlobalOrigin    uint8 = 49
	IDVFRHud             uint8 = 74
	IDBatteryStatus      uint8 = 147
	IDStatusText         uint8 = 253
)

// MissionResult is the MISSION_ACK outcome code (MAV_MISSION_RESULT).
type MissionResult uint8

const (
	MissionAccepted         MissionResult = 0
	MissionError            MissionResult = 1
	MissionUnsupportedFrame MissionResult = 2
	MissionUnsupported      MissionResult = 3
	MissionNoSpace          MissionResult = 4
	MissionInvalid          MissionResult = 5
	MissionInvalidSequence  MissionResult = 13
)

// Severity levels for STATUSTEXT (MAV_SEVERITY).
const (
	SeverityEmergency uint8 = 0
	SeverityAlert     uint8 = 1
	SeverityCritical  uint8 = 2
	SeverityError     uint8 = 3
	SeverityWarning   uint8 = 4
	SeverityNotice    uint8 = 5
	SeverityInfo      uint8 = 6
	SeverityDebug     uint8 = 7
)

// Mission commands and coordinate frames used by the transfer protocol.
const (
	CmdNavWaypoint       uint16 = 16
	CmdNavReturnToLaunch uint16 = 20

	FrameMission           uint8 = 2
	FrameGlobalRelativeAlt uint8 = 3
)

// Heartbeat type, autopilot, mode-flag and state constants.
const (
	TypeGeneric     uint8 = 0
	TypeFixedWing   uint8 = 1
	TypeQuadrotor   uint8 = 2
	TypeHelicopter  uint8 = 4
	TypeGroundRover uint8 = 10
	TypeSurfaceBoat uint8 = 11
	TypeTricopter   uint8 = 15

	AutopilotGeneric uint8 = 0

	ModeFlagCustomModeEnabled  uint8 = 1
	ModeFlagGuidedEnabled      uint8 = 8
	ModeFlagStabilizeEnabled   uint8 = 16
	ModeFlagManualInputEnabled uint8 = 64
	ModeFlagSafetyArmed        uint8 = 128

	StateCalibrating uint8 = 2
	StateStandby     uint8 = 3
	StateActive      uint8 = 4
	StateCritical    uint8 = 5

	BatteryFunctionUnknown uint8 = 0
	BatteryTypeUnknown     uint8 = 0
)

// BatteryMaxCells is the cell count carried by BATTERY_STATUS.
const BatteryMaxCells = 10

// StatusTextLen is the fixed STATUSTEXT text field size.
const StatusTextLen = 50

type Heartbeat struct {
	CustomMode     uint32
	Type           uint8
	Autopilot      uint8
	BaseMode       uint8
	SystemStatus   uint8
	MavlinkVersion uint8
}

func (*Heartbeat) MsgID() uint8 { return IDHeartbeat }

type SysStatus struct {
	SensorsPresent   uint32
	SensorsEnabled   uint32
	SensorsHealth    uint32
	Load             uint16
	VoltageBattery   uint16
	CurrentBattery   int16
	DropRateComm     uint16
	ErrorsComm       uint16
	ErrorsCount1     uint16
	ErrorsCount2     uint16
	ErrorsCount3     uint16
	ErrorsCount4     uint16
	BatteryRemaining int8
}

func (*SysStatus) MsgID() uint8 { return IDSysStatus }

type GPSRawInt struct {
	TimeUsec          uint64
	Lat               int32
	Lon               int32
	Alt               int32
	Eph               uint16
	Epv               uint16
	Vel               uint16
	Cog               uint16
	FixType           uint8
	SatellitesVisible uint8
}

func (*GPSRawInt) MsgID() uint8 { return IDGPSRawInt }

type ScaledPressure struct {
	TimeBootMs  uint32
	PressAbs    float32
	PressDiff   float32
	Temperature int16
}

func (*ScaledPressure) MsgID() uint8 { return IDScaledPressure }

type Attitude struct {
	TimeBootMs uint32
	Roll       float32
	Pitch      float32
	Yaw        float32
	Rollspeed  float32
	Pitchspeed float32
	Yawspeed   float32
}

func (*Attitude) MsgID() uint8 { return IDAttitude }

type GlobalPositionInt struct {
	TimeBootMs  uint32
	Lat         int32
	Lon         int32
	Alt         int32
	RelativeAlt int32
	Vx          int16
	Vy          int16
	Vz          int16
	Hdg         uint16
}

func (*GlobalPositionInt) MsgID() uint8 { return IDGlobalPositionInt }

type RCChannelsRaw struct {
	TimeBootMs uint32
	Channels   [8]uint16
	Port       uint8
	RSSI       uint8
}

func (*RCChannelsRaw) MsgID() uint8 { return IDRCChannelsRaw }

type MissionItem struct {
	Param1          float32
	Param2          float32
	Param3          float32
	Param4          float32
	X               float32
	Y               float32
	Z               float32
	Seq             uint16
	Command         uint16
	TargetSystem    uint8
	TargetComponent uint8
	Frame           uint8
	Current         uint8
	Autocontinue    uint8
}

func (*MissionItem) MsgID() uint8 { return IDMissionItem }

type MissionRequest struct {
	Seq             uint16
	TargetSystem    uint8
	TargetComponent uint8
}

func (*MissionRequest) MsgID() uint8 { return IDMissionRequest }

type MissionRequestList struct {
	TargetSystem    uint8
	TargetComponent uint8
}

func (*MissionRequestList) MsgID() uint8 { return IDMissionRequestList }

type MissionCount struct {
	Count           uint16
	TargetSystem    uint8
	TargetComponent uint8
}

func (*MissionCount) MsgID() uint8 { return IDMissionCount }

type MissionClearAll struct {
	TargetSystem    uint8
	TargetComponent uint8
}

func (*MissionClearAll) MsgID() uint8 { return IDMissionClearAll }

type MissionAck struct {
	TargetSystem    uint8
	TargetComponent uint8
	Type            uint8
}

func (*MissionAck) MsgID() uint8 { return IDMissionAck }

type GPSGlobalOrigin struct {
	Latitude  int32
	Longitude int32
	Altitude  int32
}

func (*GPSGlobalOrigin) MsgID() uint8 { return IDGPSGlobalOrigin }

type VFRHud struct {
	Airspeed    float32
	Groundspeed float32
	Alt         float32
	Climb       float32
	Heading     int16
	Throttle    uint16
}

func (*VFRHud) MsgID() uint8 { return IDVFRHud }

type BatteryStatus struct {
	CurrentConsumed  int32
	EnergyConsumed   int32
	Temperature      int16
	Voltages         [BatteryMaxCells]uint16
	CurrentBattery   int16
	ID               uint8
	BatteryFunction  uint8
	Type             uint8
	BatteryRemaining int8
}

func (*BatteryStatus) MsgID() uint8 { return IDBatteryStatus }

type StatusText struct {
	Severity uint8
	Text     [StatusTextLen]byte
}

func (*StatusText) MsgID() uint8 { return IDStatusText }

// NewStatusText builds a STATUSTEXT, truncating to the wire field size.
func NewStatusText(severity uint8, text string) *StatusText {
	m := &StatusText{Severity: severity}
	copy(m.Text[:], text)
	return m
}

// Unknown is a frame that passed checksum validation but carries a
// message kind this module does not decode.
type Unknown struct {
	ID uint8
}

func (u *Unknown) MsgID() uint8 { return u.ID }
