// cmd/mavbridge/main.go
package main

import (
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/tarm/serial"

	"github.com/fremebondo/mavbridge/internal/config"
	"github.com/fremebondo/mavbridge/internal/flight"
	"github.com/fremebondo/mavbridge/internal/mavlink"
	"github.com/fremebondo/mavbridge/internal/mission"
	"github.com/fremebondo/mavbridge/internal/stream"
	"github.com/fremebondo/mavbridge/internal/telemetry"
)

// tickPeriod is the driving frequency of the telemetry loop. Every
// stream rate is expressed as a divisor of this rate.
const tickPeriod = time.Second / stream.MaxRate

func main() {
	log := logrus.New()
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	if len(os.Args) < 2 {
		log.Fatal("usage: mavbridge <config.yaml>")
	}

	cfgPath := os.Args[1]

	// --------------------
	// Load + validate config
	// --------------------

	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatalf("config load failed: %v", err)
	}
	if err := config.Validate(cfg); err != nil {
		log.Fatalf("config validation failed: %v", err)
	}
	config.Normalize(cfg)

	tc := cfg.Telemetry

	// --------------------
	// Serial transport
	// --------------------

	port, err := serial.OpenPort(&serial.Config{
		Name: tc.Port,
		Baud: tc.Baud,
	})
	if err != nil {
		log.Fatalf("serial open failed (port=%s): %v", tc.Port, err)
	}
	defer port.Close()

	tr := newSerialTransport(port, log)
	go tr.pump()

	log.WithFields(logrus.Fields{
		"port":      tc.Port,
		"baud":      tc.Baud,
		"system_id": tc.SystemID,
	}).Info("telemetry link up")

	// --------------------
	// Telemetry pipeline
	// --------------------

	enc := mavlink.NewEncoder(tc.SystemID, tc.ComponentID)
	sched := stream.NewScheduler(tc.StreamRates())
	emitter := telemetry.NewEmitter(enc, tr, sched, log)

	store := mission.NewMemoryStore(tc.MaxWaypoints)
	machine := mission.New(tc.SystemID, tc.ComponentID, tc.MaxWaypoints, store, log)

	driver := telemetry.NewDriver(
		tr,
		mavlink.NewParser(),
		machine,
		emitter,
		&groundState{},
		newWallClock(),
		log,
	)

	// --------------------
	// Tick loop
	// --------------------

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	ticker := time.NewTicker(tickPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			driver.Service()
		case sig := <-stop:
			log.WithField("signal", sig).Info("shutting down")
			return
		}
	}
}

// ---- SERIAL TRANSPORT ----

// serialTransport adapts a blocking serial port to the non-blocking
// byte interface the driver expects. A pump goroutine drains the port
// into a buffered channel so BytesAvailable and ReadByte never block
// the tick loop.
type serialTransport struct {
	port *serial.Port
	in   chan byte
	log  logrus.FieldLogger
}

func newSerialTransport(port *serial.Port, log logrus.FieldLogger) *serialTransport {
	return &serialTransport{
		port: port,
		in:   make(chan byte, 512),
		log:  log,
	}
}

func (t *serialTransport) pump() {
	buf := make([]byte, 256)
	for {
		n, err := t.port.Read(buf)
		if err != nil {
			t.log.WithError(err).Warn("serial read failed")
			return
		}
		for _, b := range buf[:n] {
			select {
			case t.in <- b:
			default:
				// Receive buffer full. The parser resynchronizes on
				// the next frame start, so dropping is safe.
			}
		}
	}
}

func (t *serialTransport) BytesAvailable() int {
	return len(t.in)
}

func (t *serialTransport) ReadByte() (byte, error) {
	select {
	case b := <-t.in:
		return b, nil
	default:
		return 0, io.EOF
	}
}

func (t *serialTransport) Write(p []byte) (int, error) {
	return t.port.Write(p)
}

// ---- CLOCK ----

type wallClock struct {
	start time.Time
}

func newWallClock() *wallClock {
	return &wallClock{start: time.Now()}
}

func (c *wallClock) NowMillis() uint64 {
	return uint64(time.Since(c.start) / time.Millisecond)
}

// ---- VEHICLE STATE ----

// groundState reports a stationary, disarmed vehicle with healthy
// sensors. It lets the bridge run against a ground station without a
// flight controller attached; an embedding host replaces it with a
// source fed from live vehicle state.
type groundState struct{}

func (groundState) Snapshot() flight.Snapshot {
	return flight.Snapshot{
		ReceivingRxData: true,
		FixedWing:       true,
		Platform:        flight.PlatformAirplane,
		Mode:            flight.ModeManual,
		Sensors: flight.SensorStatus{
			HasBaro:        true,
			GyroHealthy:    true,
			AccHealthy:     true,
			CompassHealthy: true,
			BaroHealthy:    true,
		},
		Battery: flight.BatteryStatus{
			VoltageConfigured: true,
			VoltageCv:         1180,
			CellCount:         3,
			AvgCellVoltageCv:  393,
			Percentage:        82,
		},
		RC: flight.RCStatus{
			Channels: []uint16{1500, 1500, 1000, 1500},
			RSSI:     1023,
		},
	}
}
