// internal/mavlink/codec.go
package mavlink

import (
	"bytes"
	"encoding/binary"
	"fmt"
)

// MAVLink v1 framing:
//
//	STX(0xFE) LEN SEQ SYSID COMPID MSGID PAYLOAD[LEN] CRC_LO CRC_HI
//
// The checksum is X25 over LEN..PAYLOAD plus a per-message CRC_EXTRA
// byte derived from the message definition.
const stx = 0xFE

// crcExtra values for every catalog message. A frame whose message ID
// is not listed here cannot be checksum-validated and is dropped.
var crcExtra = map[uint8]uint8{
	IDHeartbeat:          50,
	IDSysStatus:          124,
	IDGPSRawInt:          24,
	IDScaledPressure:     115,
	IDAttitude:           39,
	IDGlobalPositionInt:  104,
	IDRCChannelsRaw:      244,
	IDMissionItem:        254,
	IDMissionRequest:     230,
	IDMissionRequestList: 132,
	IDMissionCount:       221,
	IDMissionClearAll:    232,
	IDMissionAck:         153,
	IDGPSGlobalOrigin:    39,
	IDVFRHud:             20,
	IDBatteryStatus:      154,
	IDStatusText:         83,
}

// decoders for the inbound kinds this module consumes. Validated
// frames of any other catalog kind decode to Unknown.
var decoders = map[uint8]func() Message{
	IDHeartbeat:          func() Message { return new(Heartbeat) },
	IDMissionItem:        func() Message { return new(MissionItem) },
	IDMissionRequest:     func() Message { return new(MissionRequest) },
	IDMissionRequestList: func() Message { return new(MissionRequestList) },
	IDMissionCount:       func() Message { return new(MissionCount) },
	IDMissionClearAll:    func() Message { return new(MissionClearAll) },
}

func crcAccumulate(b byte, crc uint16) uint16 {
	tmp := b ^ byte(crc&0xFF)
	tmp ^= tmp << 4
	return (crc >> 8) ^ uint16(tmp)<<8 ^ uint16(tmp)<<3 ^ uint16(tmp)>>4
}

// Encoder frames outbound messages, numbering them with a rolling
// sequence counter.
type Encoder struct {
	systemID    uint8
	componentID uint8
	seq         uint8
}

func NewEncoder(systemID, componentID uint8) *Encoder {
	return &Encoder{systemID: systemID, componentID: componentID}
}

// Encode marshals m into a complete v1 frame.
func (e *Encoder) Encode(m Message) ([]byte, error) {
	var payload bytes.Buffer
	if err := binary.Write(&payload, binary.LittleEndian, m); err != nil {
		return nil, fmt.Errorf("mavlink: encode msg %d: %w", m.MsgID(), err)
	}
	if payload.Len() > 255 {
		return nil, fmt.Errorf("mavlink: msg %d payload too long (%d)", m.MsgID(), payload.Len())
	}

	extra, ok := crcExtra[m.MsgID()]
	if !ok {
		return nil, fmt.Errorf("mavlink: msg %d not in catalog", m.MsgID())
	}

	frame := make([]byte, 0, 8+payload.Len())
	frame = append(frame, stx, uint8(payload.Len()), e.seq, e.systemID, e.componentID, m.MsgID())
	frame = append(frame, payload.Bytes()...)
	e.seq++

	crc := uint16(0xFFFF)
	for _, b := range frame[1:] {
		crc = crcAccumulate(b, crc)
	}
	crc = crcAccumulate(extra, crc)
	frame = append(frame, byte(crc), byte(crc>>8))

	return frame, nil
}

type parseState uint8

const (
	parseIdle parseState = iota
	parseLen
	parseSeq
	parseSysID
	parseCompID
	parseMsgID
	parsePayload
	parseCRC1
	parseCRC2
)

// Parser is a stateful incremental frame parser. Feed it one byte at
// a time; corrupted or unknown frames are discarded silently and the
// parser resyncs on the next start byte.
type Parser struct {
	state   parseState
	length  uint8
	msgID   uint8
	payload []byte
	crc     uint16
	crcLow  byte

	// Decoded source address of the last complete frame, used to
	// address replies.
	SysID  uint8
	CompID uint8

	seq    uint8
	sysID  uint8
	compID uint8
}

func NewParser() *Parser {
	return &Parser{}
}

// ParseByte consumes one byte and returns a complete decoded message,
// or nil while a frame is still in progress or was dropped.
func (p *Parser) ParseByte(b byte) Message {
	switch p.state {
	case parseIdle:
		if b == stx {
			p.crc = 0xFFFF
			p.payload = p.payload[:0]
			p.state = parseLen
		}
	case parseLen:
		p.length = b
		p.crc = crcAccumulate(b, p.crc)
		p.state = parseSeq
	case parseSeq:
		p.seq = b
		p.crc = crcAccumulate(b, p.crc)
		p.state = parseSysID
	case parseSysID:
		p.sysID = b
		p.crc = crcAccumulate(b, p.crc)
		p.state = parseCompID
	case parseCompID:
		p.compID = b
		p.crc = crcAccumulate(b, p.crc)
		p.state = parseMsgID
	case parseMsgID:
		p.msgID = b
		p.crc = crcAccumulate(b, p.crc)
		if p.length == 0 {
			p.state = parseCRC1
		} else {
			p.state = parsePayload
		}
	case parsePayload:
		p.payload = append(p.payload, b)
		p.crc = crcAccumulate(b, p.crc)
		if len(p.payload) == int(p.length) {
			p.state = parseCRC1
		}
	case parseCRC1:
		p.crcLow = b
		p.state = parseCRC2
	case parseCRC2:
		p.state = parseIdle
		return p.finish(b)
	}
	return nil
}

func (p *Parser) finish(crcHigh byte) Message {
	extra, ok := crcExtra[p.msgID]
	if !ok {
		// Unknown message definition, checksum cannot be verified.
		return nil
	}
	want := crcAccumulate(extra, p.crc)
	got := uint16(p.crcLow) | uint16(crcHigh)<<8
	if got != want {
		return nil
	}

	p.SysID = p.sysID
	p.CompID = p.compID

	factory, ok := decoders[p.msgID]
	if !ok {
		return &Unknown{ID: p.msgID}
	}
	m := factory()
	if err := binary.Read(bytes.NewReader(p.payload), binary.LittleEndian, m); err != nil {
		return nil
	}
	return m
}
