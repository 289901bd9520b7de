package telemetry

import (
	"encoding/binary"
	"io"
	"testing"

	"github.com/sirupsen/logrus"

	"github.com/fremebondo/mavbridge/internal/flight"
	"github.com/fremebondo/mavbridge/internal/mavlink"
	"github.com/fremebondo/mavbridge/internal/mission"
	"github.com/fremebondo/mavbridge/internal/stream"
)

// ---- fakes ----

type fakeTransport struct {
	in  []byte
	out []byte
}

func (f *fakeTransport) BytesAvailable() int { return len(f.in) }

func (f *fakeTransport) ReadByte() (byte, error) {
	if len(f.in) == 0 {
		return 0, io.EOF
	}
	b := f.in[0]
	f.in = f.in[1:]
	return b, nil
}

func (f *fakeTransport) Write(p []byte) (int, error) {
	f.out = append(f.out, p...)
	return len(p), nil
}

func (f *fakeTransport) sent(t *testing.T) []mavlink.Message {
	t.Helper()
	p := mavlink.NewParser()
	var msgs []mavlink.Message
	for _, b := range f.out {
		if m := p.ParseByte(b); m != nil {
			msgs = append(msgs, m)
		}
	}
	f.out = nil
	return msgs
}

func sentIDs(t *testing.T, f *fakeTransport) []uint8 {
	t.Helper()
	var ids []uint8
	for _, m := range f.sent(t) {
		ids = append(ids, m.MsgID())
	}
	return ids
}

type fakeClock struct{ ms uint64 }

func (c *fakeClock) NowMillis() uint64 { return c.ms }

type fakeSource struct{ snap flight.Snapshot }

func (s *fakeSource) Snapshot() flight.Snapshot { return s.snap }

// ---- harness ----

type harness struct {
	tr     *fakeTransport
	clock  *fakeClock
	source *fakeSource
	driver *Driver
	gcsEnc *mavlink.Encoder
}

func newHarness(t *testing.T, rates map[stream.Kind]uint8) *harness {
	t.Helper()
	log := logrus.New()
	log.SetOutput(io.Discard)

	tr := &fakeTransport{}
	clock := &fakeClock{}
	source := &fakeSource{}

	enc := mavlink.NewEncoder(1, 250)
	sched := stream.NewScheduler(rates)
	emitter := NewEmitter(enc, tr, sched, log)
	machine := mission.New(1, 250, 60, mission.NewMemoryStore(60), log)
	driver := NewDriver(tr, mavlink.NewParser(), machine, emitter, source, clock, log)

	return &harness{
		tr:     tr,
		clock:  clock,
		source: source,
		driver: driver,
		gcsEnc: mavlink.NewEncoder(255, 190),
	}
}

func (h *harness) queue(t *testing.T, m mavlink.Message) {
	t.Helper()
	frame, err := h.gcsEnc.Encode(m)
	if err != nil {
		t.Fatalf("encode inbound: %v", err)
	}
	h.tr.in = append(h.tr.in, frame...)
}

func (h *harness) tick() {
	h.driver.Service()
	h.clock.ms += 20
}

// ---- tests ----

func TestDriver_ScheduledBatchEmitted(t *testing.T) {
	h := newHarness(t, map[stream.Kind]uint8{stream.Extra2: 50})

	h.tick()
	ids := sentIDs(t, h.tr)
	if len(ids) != 2 || ids[0] != mavlink.IDVFRHud || ids[1] != mavlink.IDHeartbeat {
		t.Fatalf("sent %v, want [VFR_HUD HEARTBEAT]", ids)
	}
}

func TestDriver_InboundSuppressesOutboundForOneBatch(t *testing.T) {
	h := newHarness(t, map[stream.Kind]uint8{stream.Extra2: 50})
	h.queue(t, &mavlink.MissionRequestList{TargetSystem: 1})

	h.tick()
	ids := sentIDs(t, h.tr)
	if len(ids) != 1 || ids[0] != mavlink.IDMissionCount {
		t.Fatalf("serviced tick sent %v, want only MISSION_COUNT", ids)
	}

	// Next batch is back on schedule.
	h.tick()
	ids = sentIDs(t, h.tr)
	if len(ids) != 2 || ids[0] != mavlink.IDVFRHud {
		t.Fatalf("follow-up tick sent %v", ids)
	}
}

func TestDriver_OneInboundMessagePerTick(t *testing.T) {
	h := newHarness(t, nil)
	h.queue(t, &mavlink.MissionRequestList{TargetSystem: 1})
	h.queue(t, &mavlink.MissionRequestList{TargetSystem: 1})

	h.tick()
	if ids := sentIDs(t, h.tr); len(ids) != 1 {
		t.Fatalf("first tick answered %d requests, want 1", len(ids))
	}
	h.tick()
	if ids := sentIDs(t, h.tr); len(ids) != 1 {
		t.Fatalf("second tick answered %d requests, want 1", len(ids))
	}
}

func TestDriver_UnhandledKindDoesNotSuppressOutbound(t *testing.T) {
	h := newHarness(t, map[stream.Kind]uint8{stream.Extra2: 50})
	// An outbound-catalog kind arriving inbound is validated but
	// unhandled; the scheduled batch must still run.
	h.queue(t, &mavlink.Attitude{Roll: 1})

	h.tick()
	ids := sentIDs(t, h.tr)
	if len(ids) != 2 || ids[0] != mavlink.IDVFRHud {
		t.Fatalf("sent %v, want scheduled batch", ids)
	}
}

func TestDriver_HeartbeatConsumedSilently(t *testing.T) {
	h := newHarness(t, nil)
	h.queue(t, &mavlink.Heartbeat{Type: mavlink.TypeGeneric})

	h.tick()
	if ids := sentIDs(t, h.tr); ids != nil {
		t.Fatalf("heartbeat provoked replies: %v", ids)
	}
	if len(h.tr.in) != 0 {
		t.Fatalf("heartbeat not fully drained")
	}
}

func TestDriver_MissionUploadEndToEnd(t *testing.T) {
	h := newHarness(t, nil)

	h.queue(t, &mavlink.MissionCount{Count: 1, TargetSystem: 1})
	h.tick()
	msgs := h.tr.sent(t)
	if len(msgs) != 1 || msgs[0].MsgID() != mavlink.IDMissionRequest {
		t.Fatalf("count answered with %v", msgs)
	}

	h.queue(t, &mavlink.MissionItem{
		Seq:          0,
		Command:      mavlink.CmdNavWaypoint,
		Frame:        mavlink.FrameGlobalRelativeAlt,
		Autocontinue: 1,
		X:            47.5, Y: 8.5, Z: 100,
		TargetSystem: 1,
	})
	h.tick()
	msgs = h.tr.sent(t)
	if len(msgs) != 1 || msgs[0].MsgID() != mavlink.IDMissionAck {
		t.Fatalf("item answered with %v", msgs)
	}
}

func TestEmitter_HeartbeatModes(t *testing.T) {
	h := newHarness(t, map[stream.Kind]uint8{stream.Extra2: 50})
	h.source.snap = flight.Snapshot{
		Armed:          true,
		FailsafeActive: true,
		Mode:           flight.ModeRTH,
		FixedWing:      true,
		Platform:       flight.PlatformAirplane,
	}

	h.tick()
	msgs := h.tr.sent(t)
	hb, ok := msgs[len(msgs)-1].(*mavlink.Heartbeat)
	if !ok {
		t.Fatalf("last message %T, want *mavlink.Heartbeat", msgs[len(msgs)-1])
	}
	if hb.BaseMode&mavlink.ModeFlagSafetyArmed == 0 {
		t.Fatalf("armed flag not set: base_mode=%#x", hb.BaseMode)
	}
	if hb.BaseMode&mavlink.ModeFlagGuidedEnabled == 0 {
		t.Fatalf("guided flag not set for RTH: base_mode=%#x", hb.BaseMode)
	}
	if hb.SystemStatus != mavlink.StateCritical {
		t.Fatalf("system_status=%d, want critical in failsafe", hb.SystemStatus)
	}
	if hb.Type != mavlink.TypeFixedWing || hb.CustomMode != 11 {
		t.Fatalf("type=%d custom=%d, want fixed wing RTL", hb.Type, hb.CustomMode)
	}
}

func TestEmitter_PositionGatedOnGPS(t *testing.T) {
	h := newHarness(t, map[stream.Kind]uint8{stream.Position: 50})

	h.tick()
	if ids := sentIDs(t, h.tr); ids != nil {
		t.Fatalf("position sent without GPS: %v", ids)
	}

	h.source.snap.Sensors.HasGPS = true
	h.tick()
	ids := sentIDs(t, h.tr)
	want := []uint8{mavlink.IDGPSRawInt, mavlink.IDGlobalPositionInt, mavlink.IDGPSGlobalOrigin}
	if len(ids) != len(want) {
		t.Fatalf("sent %v, want %v", ids, want)
	}
	for i := range want {
		if ids[i] != want[i] {
			t.Fatalf("sent %v, want %v", ids, want)
		}
	}
}

func TestEmitter_SystemStatusSensorMask(t *testing.T) {
	h := newHarness(t, map[stream.Kind]uint8{stream.ExtendedStatus: 50})
	h.source.snap.Sensors = flight.SensorStatus{HasMag: true, HasBaro: true, HasGPS: true}

	h.tick()
	frame := h.tr.out
	if len(frame) < 10 || frame[5] != mavlink.IDSysStatus {
		t.Fatalf("unexpected frame % x", frame)
	}
	got := binary.LittleEndian.Uint32(frame[6:10])
	want := uint32(35843) | 4100 | 8200 | 16416
	if got != want {
		t.Fatalf("sensors_present=%d, want %d", got, want)
	}
}
