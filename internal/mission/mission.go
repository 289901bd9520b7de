// internal/mission/mission.go
package mission

import (
	"github.com/sirupsen/logrus"

	"github.com/fremebondo/mavbridge/internal/mavlink"
)

// WaypointAction tags what the vehicle does at a mission entry.
type WaypointAction uint8

const (
	ActionWaypoint WaypointAction = iota
	ActionReturnToLaunch
)

// Waypoint is one stored mission entry. Latitude/longitude are 1e-7
// degree fixed point, altitude is centimeters.
type Waypoint struct {
	Action WaypointAction
	Lat    int32
	Lon    int32
	AltCm  int32
	Last   bool
}

// Store is the external waypoint list. Indexing is zero-based; the
// machine never holds more than the entry currently in transit.
type Store interface {
	Get(index int) (Waypoint, bool)
	Set(index int, wp Waypoint)
	Count() int
	Clear()
	Validate() bool
}

// Address identifies the peer a reply is sent to.
type Address struct {
	SystemID    uint8
	ComponentID uint8
}

type sessionState uint8

const (
	stateIdle sessionState = iota
	stateAwaitingItems
)

// session is the upload transaction state, owned exclusively by the
// machine.
type session struct {
	state         sessionState
	expectedCount int
	nextSeq       int
}

// Machine owns the mission upload/download protocol. It consumes one
// decoded inbound message at a time and emits the replies to send.
type Machine struct {
	systemID    uint8
	componentID uint8
	capacity    int
	store       Store
	log         logrus.FieldLogger

	session session
}

func New(systemID, componentID uint8, capacity int, store Store, log logrus.FieldLogger) *Machine {
	return &Machine{
		systemID:    systemID,
		componentID: componentID,
		capacity:    capacity,
		store:       store,
		log:         log,
	}
}

// Handle dispatches one inbound message. The returned flag reports
// whether the message was serviced: a mission message addressed to
// this vehicle. Messages for other systems and non-mission kinds are
// ignored without reply.
func (m *Machine) Handle(msg mavlink.Message, from Address, armed bool) ([]mavlink.Message, bool) {
	switch msg := msg.(type) {
	case *mavlink.MissionClearAll:
		if msg.TargetSystem != m.systemID {
			return nil, false
		}
		return m.handleClearAll(from), true
	case *mavlink.MissionCount:
		if msg.TargetSystem != m.systemID {
			return nil, false
		}
		return m.handleCount(msg, from, armed), true
	case *mavlink.MissionItem:
		if msg.TargetSystem != m.systemID {
			return nil, false
		}
		return m.handleItem(msg, from, armed), true
	case *mavlink.MissionRequestList:
		if msg.TargetSystem != m.systemID {
			return nil, false
		}
		return m.handleRequestList(from), true
	case *mavlink.MissionRequest:
		if msg.TargetSystem != m.systemID {
			return nil, false
		}
		return m.handleRequest(msg, from), true
	}
	return nil, false
}

func (m *Machine) handleClearAll(from Address) []mavlink.Message {
	m.store.Clear()
	m.session = session{}
	m.log.Debug("mission: list cleared")
	return []mavlink.Message{m.ack(from, mavlink.MissionAccepted)}
}

func (m *Machine) handleCount(msg *mavlink.MissionCount, from Address, armed bool) []mavlink.Message {
	n := int(msg.Count)
	if n > m.capacity {
		// Armed gets the less specific code: a retry mid-flight is
		// not something to encourage.
		if armed {
			return []mavlink.Message{m.ack(from, mavlink.MissionError)}
		}
		return []mavlink.Message{m.ack(from, mavlink.MissionNoSpace)}
	}

	m.session = session{state: stateAwaitingItems, expectedCount: n, nextSeq: 0}
	m.log.WithField("count", n).Debug("mission: upload started")
	return []mavlink.Message{m.requestNext(from)}
}

func (m *Machine) handleItem(msg *mavlink.MissionItem, from Address, armed bool) []mavlink.Message {
	if armed {
		return []mavlink.Message{m.ack(from, mavlink.MissionError)}
	}

	if msg.Autocontinue == 0 ||
		(msg.Command != mavlink.CmdNavWaypoint && msg.Command != mavlink.CmdNavReturnToLaunch) {
		return []mavlink.Message{m.ack(from, mavlink.MissionUnsupported)}
	}

	if msg.Frame != mavlink.FrameGlobalRelativeAlt &&
		!(msg.Frame == mavlink.FrameMission && msg.Command == mavlink.CmdNavReturnToLaunch) {
		return []mavlink.Message{m.ack(from, mavlink.MissionUnsupportedFrame)}
	}

	if int(msg.Seq) != m.session.nextSeq {
		// The session is intentionally left as-is so the peer can
		// resend the expected index.
		m.log.WithFields(logrus.Fields{
			"got":  msg.Seq,
			"want": m.session.nextSeq,
		}).Warn("mission: out-of-order item")
		return []mavlink.Message{m.ack(from, mavlink.MissionInvalidSequence)}
	}

	wp := Waypoint{
		Action: ActionWaypoint,
		Lat:    int32(msg.X * 1e7),
		Lon:    int32(msg.Y * 1e7),
		AltCm:  int32(msg.Z * 100),
		Last:   m.session.nextSeq+1 >= m.session.expectedCount,
	}
	if msg.Command == mavlink.CmdNavReturnToLaunch {
		wp.Action = ActionReturnToLaunch
	}

	m.store.Set(m.session.nextSeq, wp)
	m.session.nextSeq++

	if m.session.nextSeq >= m.session.expectedCount {
		result := mavlink.MissionInvalid
		if m.store.Validate() {
			result = mavlink.MissionAccepted
		}
		m.log.WithField("result", result).Debug("mission: upload finished")
		m.session = session{}
		return []mavlink.Message{m.ack(from, result)}
	}

	return []mavlink.Message{m.requestNext(from)}
}

func (m *Machine) handleRequestList(from Address) []mavlink.Message {
	return []mavlink.Message{&mavlink.MissionCount{
		Count:           uint16(m.store.Count()),
		TargetSystem:    from.SystemID,
		TargetComponent: from.ComponentID,
	}}
}

func (m *Machine) handleRequest(msg *mavlink.MissionRequest, from Address) []mavlink.Message {
	wp, ok := m.store.Get(int(msg.Seq))
	if int(msg.Seq) >= m.store.Count() || !ok {
		return []mavlink.Message{m.ack(from, mavlink.MissionInvalidSequence)}
	}

	item := &mavlink.MissionItem{
		Seq:             msg.Seq,
		Frame:           mavlink.FrameGlobalRelativeAlt,
		Command:         mavlink.CmdNavWaypoint,
		Current:         0,
		Autocontinue:    1,
		X:               float32(wp.Lat) / 1e7,
		Y:               float32(wp.Lon) / 1e7,
		Z:               float32(wp.AltCm) / 100,
		TargetSystem:    from.SystemID,
		TargetComponent: from.ComponentID,
	}
	if wp.Action == ActionReturnToLaunch {
		item.Frame = mavlink.FrameMission
		item.Command = mavlink.CmdNavReturnToLaunch
	}
	return []mavlink.Message{item}
}

func (m *Machine) ack(from Address, result mavlink.MissionResult) mavlink.Message {
	return &mavlink.MissionAck{
		TargetSystem:    from.SystemID,
		TargetComponent: from.ComponentID,
		Type:            uint8(result),
	}
}

func (m *Machine) requestNext(from Address) mavlink.Message {
	return &mavlink.MissionRequest{
		Seq:             uint16(m.session.nextSeq),
		TargetSystem:    from.SystemID,
		TargetComponent: from.ComponentID,
	}
}
