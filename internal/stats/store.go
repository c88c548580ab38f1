package stats

import (
	"sort"
	"sync"
	"time"
)

// Store is the activity log plus the running total-time counter. Append
// never rejects an event for capacity reasons; Trim enforces the retention
// cap separately so a failed trim cannot lose a fresh event.
type Store interface {
	Append(ev Event) error
	// ByUser returns the user's events (including ownerless legacy entries)
	// oldest first.
	ByUser(userID string) ([]Event, error)
	// ByUserSince returns the user's events with a timestamp at or after the
	// given instant, oldest first.
	ByUserSince(userID string, since time.Time) ([]Event, error)
	// Trim drops the oldest events visible to the user beyond max.
	Trim(userID string, max int) error
	TotalMinutes(userID string) (int, error)
	AddMinutes(userID string, delta int) error
	// Reset discards the user's events and time counter.
	Reset(userID string) error
}

// MemoryStore keeps everything in process. It backs tests and the
// single-installation mode the engine was originally designed around.
type MemoryStore struct {
	mu      sync.Mutex
	events  []Event
	minutes map[string]int
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{minutes: map[string]int{}}
}

func (m *MemoryStore) Append(ev Event) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, ev)
	return nil
}

func (m *MemoryStore) ByUser(userID string) ([]Event, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	items := make([]Event, 0, len(m.events))
	for _, ev := range m.events {
		if ev.belongsTo(userID) {
			items = append(items, ev)
		}
	}
	return items, nil
}

func (m *MemoryStore) ByUserSince(userID string, since time.Time) ([]Event, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	items := []Event{}
	for _, ev := range m.events {
		if ev.belongsTo(userID) && !ev.Timestamp.Before(since) {
			items = append(items, ev)
		}
	}
	return items, nil
}

func (m *MemoryStore) Trim(userID string, max int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if max < 0 {
		return nil
	}
	visible := 0
	for _, ev := range m.events {
		if ev.belongsTo(userID) {
			visible++
		}
	}
	surplus := visible - max
	if surplus <= 0 {
		return nil
	}
	kept := m.events[:0]
	for _, ev := range m.events {
		if surplus > 0 && ev.belongsTo(userID) {
			surplus--
			continue
		}
		kept = append(kept, ev)
	}
	m.events = kept
	return nil
}

func (m *MemoryStore) TotalMinutes(userID string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.minutes[userID], nil
}

func (m *MemoryStore) AddMinutes(userID string, delta int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.minutes[userID] += delta
	return nil
}

func (m *MemoryStore) Reset(userID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	kept := m.events[:0]
	for _, ev := range m.events {
		if !ev.belongsTo(userID) {
			kept = append(kept, ev)
		}
	}
	m.events = kept
	delete(m.minutes, userID)
	return nil
}

// Sorted copy for callers that need deterministic inspection in tests.
func (m *MemoryStore) All() []Event {
	m.mu.Lock()
	defer m.mu.Unlock()
	items := make([]Event, len(m.events))
	copy(items, m.events)
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].Timestamp.Before(items[j].Timestamp)
	})
	return items
}
