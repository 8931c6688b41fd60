package trackers

import (
	"sync"

	"github.com/google/uuid"
)

// Set holds live trackers keyed by a locally assigned ID, so an API layer
// can hand a reference to the caller and answer status polls later.
// Trackers are never evicted automatically; terminal trackers stay readable
// until Reset.
type Set struct {
	mu        sync.Mutex
	bridging  map[string]*FinalizationTracker
	transfers map[string]*TransferTracker
}

func NewSet() *Set {
	return &Set{
		bridging:  map[string]*FinalizationTracker{},
		transfers: map[string]*TransferTracker{},
	}
}

func (s *Set) AddBridging(t *FinalizationTracker) string {
	id := uuid.New().String()
	s.mu.Lock()
	s.bridging[id] = t
	s.mu.Unlock()
	return id
}

func (s *Set) Bridging(id string) (*FinalizationTracker, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.bridging[id]
	return t, ok
}

func (s *Set) AddTransfer(t *TransferTracker) string {
	id := uuid.New().String()
	s.mu.Lock()
	s.transfers[id] = t
	s.mu.Unlock()
	return id
}

func (s *Set) Transfer(id string) (*TransferTracker, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.transfers[id]
	return t, ok
}

// Reset stops every tracker and forgets them all.
func (s *Set) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, t := range s.bridging {
		t.Stop()
	}
	for _, t := range s.transfers {
		t.Stop()
	}
	s.bridging = map[string]*FinalizationTracker{}
	s.transfers = map[string]*TransferTracker{}
}
