package stats

import (
	"testing"
	"time"
)

type stubRoadmaps struct {
	summaries []RoadmapSummary
}

func (s stubRoadmaps) Summaries(string) ([]RoadmapSummary, error) {
	return s.summaries, nil
}

func TestComputeStats(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

	newAggregator := func(store Store, summaries []RoadmapSummary) *Aggregator {
		streaks := NewStreakCalculator(store)
		streaks.Now = func() time.Time { return now }
		agg := NewAggregator(store, stubRoadmaps{summaries: summaries}, streaks)
		agg.Now = func() time.Time { return now }
		return agg
	}

	t.Run("empty user has zero stats", func(t *testing.T) {
		agg := newAggregator(NewMemoryStore(), nil)
		got, err := agg.ComputeStats("u1")
		if err != nil {
			t.Fatalf("compute: %v", err)
		}
		if got != (Stats{}) {
			t.Errorf("expected zero stats, got %+v", got)
		}
	})

	t.Run("xp formula combines all sources", func(t *testing.T) {
		store := NewMemoryStore()
		// 3-day streak ending today
		for i := 0; i < 3; i++ {
			at := now.AddDate(0, 0, -i)
			_ = store.Append(Event{
				ID: int64(i + 1), Type: EventLessonCompleted,
				Date: at.Format(DateLayout), Timestamp: at, UserID: "u1",
			})
		}
		_ = store.AddMinutes("u1", 95)

		summaries := []RoadmapSummary{
			{ID: "r1", TotalSteps: 4, CompletedSteps: 4}, // fully completed
			{ID: "r2", TotalSteps: 6, CompletedSteps: 3},
		}
		agg := newAggregator(store, summaries)
		got, err := agg.ComputeStats("u1")
		if err != nil {
			t.Fatalf("compute: %v", err)
		}
		// 7 lessons * 10 + 3 streak * 5 + 1 roadmap * 50 + 95/10
		wantXP := 70 + 15 + 50 + 9
		if got.TotalXP != wantXP {
			t.Errorf("expected %d XP, got %d", wantXP, got.TotalXP)
		}
		if got.TotalRoadmaps != 2 {
			t.Errorf("expected 2 roadmaps, got %d", got.TotalRoadmaps)
		}
		if got.CompletedLessons != 7 {
			t.Errorf("expected 7 completed lessons, got %d", got.CompletedLessons)
		}
		if got.CurrentStreak != 3 {
			t.Errorf("expected streak 3, got %d", got.CurrentStreak)
		}
	})

	t.Run("empty roadmap never counts as completed", func(t *testing.T) {
		agg := newAggregator(NewMemoryStore(), []RoadmapSummary{
			{ID: "r1", TotalSteps: 0, CompletedSteps: 0},
		})
		got, err := agg.ComputeStats("u1")
		if err != nil {
			t.Fatalf("compute: %v", err)
		}
		if got.TotalXP != 0 {
			t.Errorf("expected 0 XP, got %d", got.TotalXP)
		}
	})

	t.Run("weekly window counts lessons and sums all minutes", func(t *testing.T) {
		store := NewMemoryStore()
		inWindow := now.AddDate(0, 0, -2)
		outOfWindow := now.AddDate(0, 0, -8)
		_ = store.Append(Event{ID: 1, Type: EventLessonCompleted, Date: inWindow.Format(DateLayout), Timestamp: inWindow, Minutes: 20, UserID: "u1"})
		_ = store.Append(Event{ID: 2, Type: EventRoadmapGenerated, Date: inWindow.Format(DateLayout), Timestamp: inWindow, Minutes: 10, UserID: "u1"})
		_ = store.Append(Event{ID: 3, Type: EventLessonCompleted, Date: outOfWindow.Format(DateLayout), Timestamp: outOfWindow, Minutes: 30, UserID: "u1"})

		agg := newAggregator(store, nil)
		got, err := agg.ComputeStats("u1")
		if err != nil {
			t.Fatalf("compute: %v", err)
		}
		if got.WeeklyLessons != 1 {
			t.Errorf("expected 1 weekly lesson, got %d", got.WeeklyLessons)
		}
		if got.TimeSpentThisWeek != 30 {
			t.Errorf("expected 30 weekly minutes, got %v", got.TimeSpentThisWeek)
		}
	})

	t.Run("weekly time switches to hours at sixty minutes", func(t *testing.T) {
		store := NewMemoryStore()
		at := now.AddDate(0, 0, -1)
		_ = store.Append(Event{ID: 1, Type: EventLessonCompleted, Date: at.Format(DateLayout), Timestamp: at, Minutes: 75, UserID: "u1"})

		agg := newAggregator(store, nil)
		got, err := agg.ComputeStats("u1")
		if err != nil {
			t.Fatalf("compute: %v", err)
		}
		if got.TimeSpentThisWeek != 1.3 {
			t.Errorf("expected 1.3 hours, got %v", got.TimeSpentThisWeek)
		}
	})
}
