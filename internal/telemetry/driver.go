// internal/telemetry/driver.go
package telemetry

import (
	"github.com/sirupsen/logrus"

	"github.com/fremebondo/mavbridge/internal/mavlink"
	"github.com/fremebondo/mavbridge/internal/mission"
	"github.com/fremebondo/mavbridge/internal/stream"
)

// intervalMs is the outbound gate: stream groups are only evaluated
// once this much time has passed since the last batch.
const intervalMs = 1000 / stream.MaxRate

// Driver is the top-level tick handler. The host scheduler invokes
// Service periodically; each invocation drains at most one inbound
// message and, only when none was serviced, lets the scheduled
// outbound streams run. Answering a ground-station request therefore
// takes priority over the telemetry cadence.
type Driver struct {
	tr      Transport
	parser  *mavlink.Parser
	mission *mission.Machine
	emitter *Emitter
	source  StateSource
	clock   Clock
	log     logrus.FieldLogger

	lastBatchMs uint64
	served      bool
	haveBatch   bool
}

func NewDriver(tr Transport, parser *mavlink.Parser, m *mission.Machine, e *Emitter, src StateSource, clock Clock, log logrus.FieldLogger) *Driver {
	return &Driver{
		tr:      tr,
		parser:  parser,
		mission: m,
		emitter: e,
		source:  src,
		clock:   clock,
		log:     log,
	}
}

// Service runs one driving tick.
func (d *Driver) Service() {
	now := d.clock.NowMillis()
	snap := d.source.Snapshot()

	if d.processInbound(snap.Armed) {
		d.served = true
	}

	if !d.haveBatch || now-d.lastBatchMs >= intervalMs {
		// Skip this batch if an inbound request was serviced since the
		// last one, so the reply is not buried under scheduled data.
		if !d.served {
			d.emitter.EmitDue(snap, now)
		}
		d.lastBatchMs = now
		d.haveBatch = true
		d.served = false
	}
}

// processInbound feeds pending bytes to the parser and dispatches at
// most one decoded message. Heartbeats are consumed without ending the
// drain; any other decoded message ends it, serviced or not.
func (d *Driver) processInbound(armed bool) bool {
	for d.tr.BytesAvailable() > 0 {
		b, err := d.tr.ReadByte()
		if err != nil {
			return false
		}
		msg := d.parser.ParseByte(b)
		if msg == nil {
			continue
		}

		if _, ok := msg.(*mavlink.Heartbeat); ok {
			continue
		}

		from := mission.Address{SystemID: d.parser.SysID, ComponentID: d.parser.CompID}
		replies, served := d.mission.Handle(msg, from, armed)
		for _, r := range replies {
			d.emitter.Send(r)
		}
		if !served {
			d.log.WithField("msgid", msg.MsgID()).Debug("telemetry: unhandled inbound message")
		}
		return served
	}
	return false
}
