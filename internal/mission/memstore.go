// internal/mission/memstore.go
package mission

// MemoryStore is a capacity-bounded in-memory waypoint list. The
// flight firmware keeps this list in the navigation subsystem; the
// daemon uses this implementation.
type MemoryStore struct {
	capacity int
	wps      []Waypoint
}

func NewMemoryStore(capacity int) *MemoryStore {
	return &MemoryStore{capacity: capacity}
}

func (s *MemoryStore) Get(index int) (Waypoint, bool) {
	if index < 0 || index >= len(s.wps) {
		return Waypoint{}, false
	}
	return s.wps[index], true
}

func (s *MemoryStore) Set(index int, wp Waypoint) {
	if index < 0 || index >= s.capacity {
		return
	}
	for len(s.wps) <= index {
		s.wps = append(s.wps, Waypoint{})
	}
	s.wps[index] = wp
}

func (s *MemoryStore) Count() int {
	return len(s.wps)
}

func (s *MemoryStore) Clear() {
	s.wps = s.wps[:0]
}

// Validate checks list consistency: non-empty, the last-entry marker
// only on the final waypoint, and return-to-launch only as the final
// action.
func (s *MemoryStore) Validate() bool {
	if len(s.wps) == 0 {
		return false
	}
	for i, wp := range s.wps {
		final := i == len(s.wps)-1
		if wp.Last != final {
			return false
		}
		if wp.Action == ActionReturnToLaunch && !final {
			return false
		}
	}
	return true
}
