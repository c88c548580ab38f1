package stats

import (
	"log"
	"math/rand"
	"sync"
	"time"
)

// DefaultCap is the retention window of the activity log: the most recent
// 100 events, oldest evicted first.
const DefaultCap = 100

// Recorder appends activity events with a defaulted duration estimate,
// enforces the retention cap, bumps the total-time counter and notifies an
// observer that derived stats are stale. Recording is best-effort telemetry:
// a storage failure is logged and swallowed.
type Recorder struct {
	Store  Store
	Cap    int
	Now    func() time.Time
	Rand   *rand.Rand
	Notify func(userID string)

	mu     sync.Mutex
	lastID int64
}

func NewRecorder(store Store) *Recorder {
	return &Recorder{
		Store: store,
		Cap:   DefaultCap,
		Now:   time.Now,
		Rand:  rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (r *Recorder) Record(userID string, typ EventType, meta Meta) {
	now := r.Now()
	ev := Event{
		ID:        r.nextID(now),
		Type:      typ,
		Date:      now.Format(DateLayout),
		Timestamp: now,
		Minutes:   r.minutesFor(typ, meta),
		UserID:    userID,
		Meta:      meta,
	}
	if err := r.Store.Append(ev); err != nil {
		log.Printf("activity append: %v", err)
		return
	}
	if err := r.Store.Trim(userID, r.cap()); err != nil {
		log.Printf("activity trim: %v", err)
	}
	if err := r.Store.AddMinutes(userID, ev.Minutes); err != nil {
		log.Printf("time total: %v", err)
	}
	if r.Notify != nil {
		r.Notify(userID)
	}
}

func (r *Recorder) cap() int {
	if r.Cap > 0 {
		return r.Cap
	}
	return DefaultCap
}

// minutesFor returns the measured duration when one was supplied, otherwise an
// estimate per event type. The ranges mirror the product's legacy defaults;
// the measured path (step timers) is preferred wherever a timer exists.
func (r *Recorder) minutesFor(typ EventType, meta Meta) int {
	if meta.ActualMinutes > 0 {
		return meta.ActualMinutes
	}
	switch typ {
	case EventLessonCompleted:
		return 10 + r.randInt(20) // 10-29
	case EventRoadmapGenerated:
		return 5 + r.randInt(10) // 5-14
	case EventProfileUpdated:
		return 2 + r.randInt(5) // 2-6
	default:
		return 5
	}
}

// randInt serializes access to the shared Rand; Record runs on concurrent
// handler goroutines and rand.Rand is not goroutine-safe.
func (r *Recorder) randInt(n int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.Rand.Intn(n)
}

// nextID issues time-based identifiers that stay monotonic when events land
// within the same millisecond.
func (r *Recorder) nextID(now time.Time) int64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	id := now.UnixMilli()
	if id <= r.lastID {
		id = r.lastID + 1
	}
	r.lastID = id
	return id
}
