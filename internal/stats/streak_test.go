package stats

import (
	"testing"
	"time"
)

func newStreakFixture(t *testing.T, now time.Time, lessonDays ...int) *StreakCalculator {
	t.Helper()
	store := NewMemoryStore()
	for i, daysAgo := range lessonDays {
		at := now.AddDate(0, 0, -daysAgo)
		err := store.Append(Event{
			ID:        int64(i + 1),
			Type:      EventLessonCompleted,
			Date:      at.Format(DateLayout),
			Timestamp: at,
			UserID:    "u1",
		})
		if err != nil {
			t.Fatalf("append: %v", err)
		}
	}
	calc := NewStreakCalculator(store)
	calc.Now = func() time.Time { return now }
	return calc
}

func TestStreakCalculator(t *testing.T) {
	now := time.Date(2026, 3, 10, 15, 0, 0, 0, time.UTC)

	t.Run("no activity means zero", func(t *testing.T) {
		calc := newStreakFixture(t, now)
		if got := calc.Current("u1"); got != 0 {
			t.Errorf("expected 0, got %d", got)
		}
	})

	t.Run("counts consecutive days ending today", func(t *testing.T) {
		calc := newStreakFixture(t, now, 0, 1, 2)
		if got := calc.Current("u1"); got != 3 {
			t.Errorf("expected 3, got %d", got)
		}
	})

	t.Run("empty today falls through to yesterday", func(t *testing.T) {
		calc := newStreakFixture(t, now, 1, 2, 3)
		if got := calc.Current("u1"); got != 3 {
			t.Errorf("expected 3, got %d", got)
		}
	})

	t.Run("two day gap breaks the streak", func(t *testing.T) {
		calc := newStreakFixture(t, now, 2, 3, 4)
		if got := calc.Current("u1"); got != 0 {
			t.Errorf("expected 0, got %d", got)
		}
	})

	t.Run("gap in the middle stops the walk", func(t *testing.T) {
		calc := newStreakFixture(t, now, 0, 1, 3, 4)
		if got := calc.Current("u1"); got != 2 {
			t.Errorf("expected 2, got %d", got)
		}
	})

	t.Run("grace applies only once", func(t *testing.T) {
		// yesterday empty too: today's grace reaches back one day, finds
		// nothing, and stops
		calc := newStreakFixture(t, now, 0)
		store := calc.Store.(*MemoryStore)
		_ = store.Reset("u1")
		twoDaysAgo := now.AddDate(0, 0, -2)
		_ = store.Append(Event{
			ID: 9, Type: EventLessonCompleted,
			Date:      twoDaysAgo.Format(DateLayout),
			Timestamp: twoDaysAgo,
			UserID:    "u1",
		})
		if got := calc.Current("u1"); got != 0 {
			t.Errorf("expected 0, got %d", got)
		}
	})

	t.Run("only lessons count", func(t *testing.T) {
		store := NewMemoryStore()
		_ = store.Append(Event{
			ID: 1, Type: EventRoadmapGenerated,
			Date:      now.Format(DateLayout),
			Timestamp: now,
			UserID:    "u1",
		})
		calc := NewStreakCalculator(store)
		calc.Now = func() time.Time { return now }
		if got := calc.Current("u1"); got != 0 {
			t.Errorf("expected 0, got %d", got)
		}
	})

	t.Run("cache holds for the calendar day", func(t *testing.T) {
		calc := newStreakFixture(t, now, 0)
		if got := calc.Current("u1"); got != 1 {
			t.Fatalf("expected 1, got %d", got)
		}
		// new events without invalidation are not seen same-day
		store := calc.Store.(*MemoryStore)
		yesterday := now.AddDate(0, 0, -1)
		_ = store.Append(Event{
			ID: 2, Type: EventLessonCompleted,
			Date:      yesterday.Format(DateLayout),
			Timestamp: yesterday,
			UserID:    "u1",
		})
		if got := calc.Current("u1"); got != 1 {
			t.Errorf("expected cached 1, got %d", got)
		}
		calc.Invalidate("u1")
		if got := calc.Current("u1"); got != 2 {
			t.Errorf("expected 2 after invalidate, got %d", got)
		}
	})

	t.Run("cache expires on a new day", func(t *testing.T) {
		calc := newStreakFixture(t, now, 0)
		if got := calc.Current("u1"); got != 1 {
			t.Fatalf("expected 1, got %d", got)
		}
		nextDay := now.AddDate(0, 0, 1)
		calc.Now = func() time.Time { return nextDay }
		// yesterday (the old today) still counts via the grace step
		if got := calc.Current("u1"); got != 1 {
			t.Errorf("expected recomputed 1, got %d", got)
		}
	})
}
