// internal/telemetry/types.go
package telemetry

import "github.com/fremebondo/mavbridge/internal/flight"

// Transport is the half-duplex serial link. Reads must not block:
// BytesAvailable reports how many bytes ReadByte can return right now.
type Transport interface {
	BytesAvailable() int
	ReadByte() (byte, error)
	Write(p []byte) (int, error)
}

// Clock provides monotonic milliseconds since boot.
type Clock interface {
	NowMillis() uint64
}

// StateSource supplies the vehicle state for one tick. Reads have no
// side effects visible to this module.
type StateSource interface {
	Snapshot() flight.Snapshot
}
