// Package stats is the progress and gamification engine: an append-only
// activity log with a bounded retention window, and the streak, XP, level
// and weekly-aggregate calculations derived from it. It is storage-agnostic;
// callers pick an in-memory or SQL-backed Store.
package stats

import "time"

const DateLayout = "2006-01-02"

type EventType string

const (
	EventLessonCompleted  EventType = "lesson_completed"
	EventRoadmapGenerated EventType = "roadmap_generated"
	EventProfileUpdated   EventType = "profile_updated"
	EventStreakMilestone  EventType = "streak_milestone"
	EventSettingsUpdated  EventType = "settings_updated"
	EventWelcome          EventType = "welcome"
)

// Meta carries the event-type-specific fields of an activity event.
// Unused fields stay zero and are omitted on the wire.
type Meta struct {
	LessonTitle string `json:"lessonTitle,omitempty"`
	Phase       string `json:"phase,omitempty"`
	Title       string `json:"title,omitempty"`
	Description string `json:"description,omitempty"`
	StreakDays  int    `json:"streakDays,omitempty"`

	// ActualMinutes is a measured duration. When set, Record uses it instead
	// of the per-type default estimate.
	ActualMinutes int `json:"actualMinutes,omitempty"`
}

type Event struct {
	ID        int64     `json:"id"`
	Type      EventType `json:"type"`
	Date      string    `json:"date"` // calendar day, DateLayout
	Timestamp time.Time `json:"timestamp"`
	Minutes   int       `json:"timeSpent"`
	UserID    string    `json:"userId,omitempty"` // empty for legacy entries
	Meta      Meta      `json:"meta"`
}

// belongsTo reports whether the event counts for the given user. Events
// without an owner are legacy entries and count for everyone.
func (e Event) belongsTo(userID string) bool {
	return e.UserID == "" || e.UserID == userID
}
