package swarm

import (
	"maps"
	"slices"
	"sync"
)

// MotionSignal is a settable MotionPreference. Hosts drive it from their
// own preference source (a UI toggle, an environment flag, a key binding).
type MotionSignal struct {
	mu      sync.Mutex
	reduced bool
	subs    map[int]func(bool)
	nextID  int
}

// NewMotionSignal creates a signal with the given initial value.
func NewMotionSignal(reduced bool) *MotionSignal {
	return &MotionSignal{reduced: reduced, subs: make(map[int]func(bool))}
}

// ReducedMotion returns the current value.
func (s *MotionSignal) ReducedMotion() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.reduced
}

// Set updates the value and notifies subscribers if it changed.
// Subscribers run in subscription order on the caller's goroutine,
// outside the signal's lock.
func (s *MotionSignal) Set(reduced bool) {
	s.mu.Lock()
	if s.reduced == reduced {
		s.mu.Unlock()
		return
	}
	s.reduced = reduced
	subs := make([]func(bool), 0, len(s.subs))
	for _, id := range slices.Sorted(maps.Keys(s.subs)) {
		subs = append(subs, s.subs[id])
	}
	s.mu.Unlock()

	for _, fn := range subs {
		fn(reduced)
	}
}

// Subscribe registers fn and returns its cancel function.
func (s *MotionSignal) Subscribe(fn func(bool)) func() {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.nextID
	s.nextID++
	s.subs[id] = fn

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.subs, id)
			s.mu.Unlock()
		})
	}
}

// Subscribers returns the number of live subscriptions.
func (s *MotionSignal) Subscribers() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.subs)
}
