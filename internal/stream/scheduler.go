// internal/stream/scheduler.go
package stream

// Kind names one outbound telemetry stream group.
type Kind uint8

const (
	ExtendedStatus Kind = iota
	RCChannels
	Position
	Extra1
	Extra2
	Extra3

	numKinds
)

// Kinds lists every stream in its fixed evaluation order.
var Kinds = [...]Kind{ExtendedStatus, RCChannels, Position, Extra1, Extra2, Extra3}

// MaxRate is the driving tick frequency in Hz. Configured stream
// rates above it are clamped.
const MaxRate = 50

// Scheduler owns per-stream countdown counters. It is evaluated once
// per driving tick for each stream, in Kinds order.
type Scheduler struct {
	rates [numKinds]uint8
	ticks [numKinds]uint8
}

// NewScheduler creates a scheduler with the given per-stream rates in
// Hz. Rate 0 disables a stream.
func NewScheduler(rates map[Kind]uint8) *Scheduler {
	s := &Scheduler{}
	for k, r := range rates {
		s.SetRate(k, r)
	}
	return s
}

// SetRate reconfigures one stream. The pending counter is not reset,
// so the first firing after a change may be off by up to one old
// period.
func (s *Scheduler) SetRate(k Kind, rate uint8) {
	if k >= numKinds {
		return
	}
	s.rates[k] = rate
}

// Rate returns the configured rate for k in Hz.
func (s *Scheduler) Rate(k Kind) uint8 {
	if k >= numKinds {
		return 0
	}
	return s.rates[k]
}

// Trigger advances stream k by one driving tick and reports whether it
// fires this tick. A firing stream reloads its counter to the full
// period, giving a fixed period in ticks with jitter bounded by one
// tick.
func (s *Scheduler) Trigger(k Kind) bool {
	if k >= numKinds {
		return false
	}
	rate := s.rates[k]
	if rate == 0 {
		return false
	}

	if s.ticks[k] > 0 {
		s.ticks[k]--
	}
	if s.ticks[k] != 0 {
		return false
	}

	if rate > MaxRate {
		rate = MaxRate
	}
	s.ticks[k] = MaxRate / rate
	return true
}
