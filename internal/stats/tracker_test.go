package stats

import (
	"math/rand"
	"testing"
	"time"
)

func newTrackerFixture() (*Tracker, *MemoryStore, *time.Time) {
	store := NewMemoryStore()
	rec := NewRecorder(store)
	rec.Rand = rand.New(rand.NewSource(1))
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	clock := &now
	rec.Now = func() time.Time { return *clock }
	tracker := NewTracker(NewMemoryCompletions(), rec)
	tracker.Now = func() time.Time { return *clock }
	return tracker, store, clock
}

func testPlan() Plan {
	return Plan{
		RoadmapID: "r1",
		Phases: []PlanPhase{
			{Title: "Foundations", Steps: []PlanStep{{Title: "Install the toolchain"}, {Title: "First program"}}},
			{Title: "Core Concepts", Steps: []PlanStep{{Title: "Data structures"}}},
		},
	}
}

func TestToggleStep(t *testing.T) {
	t.Run("first toggle starts the timer", func(t *testing.T) {
		tracker, store, _ := newTrackerFixture()
		result, err := tracker.ToggleStep("u1", testPlan(), 0, 0)
		if err != nil {
			t.Fatalf("toggle: %v", err)
		}
		if result.State != StepInProgress {
			t.Errorf("expected in_progress, got %s", result.State)
		}
		if result.StepID != "0-0" {
			t.Errorf("expected step id 0-0, got %s", result.StepID)
		}
		if result.CompletedSteps != 0 || result.TotalSteps != 3 {
			t.Errorf("unexpected counts: %+v", result)
		}
		if events, _ := store.ByUser("u1"); len(events) != 0 {
			t.Errorf("starting a timer must not log activity, got %d events", len(events))
		}
	})

	t.Run("second toggle completes with measured minutes", func(t *testing.T) {
		tracker, store, clock := newTrackerFixture()
		plan := testPlan()
		if _, err := tracker.ToggleStep("u1", plan, 0, 0); err != nil {
			t.Fatalf("start: %v", err)
		}
		*clock = clock.Add(25 * time.Minute)
		result, err := tracker.ToggleStep("u1", plan, 0, 0)
		if err != nil {
			t.Fatalf("complete: %v", err)
		}
		if result.State != StepCompleted {
			t.Errorf("expected completed, got %s", result.State)
		}
		if result.MinutesSpent != 25 {
			t.Errorf("expected 25 minutes, got %d", result.MinutesSpent)
		}
		if result.CompletedSteps != 1 || result.Percentage != 33 {
			t.Errorf("unexpected counts: %+v", result)
		}
		events, _ := store.ByUser("u1")
		if len(events) != 1 {
			t.Fatalf("expected 1 event, got %d", len(events))
		}
		ev := events[0]
		if ev.Type != EventLessonCompleted {
			t.Errorf("expected lesson_completed, got %s", ev.Type)
		}
		if ev.Meta.LessonTitle != "Install the toolchain" || ev.Meta.Phase != "Foundations" {
			t.Errorf("unexpected meta: %+v", ev.Meta)
		}
		if ev.Minutes != 25 {
			t.Errorf("expected 25 logged minutes, got %d", ev.Minutes)
		}
	})

	t.Run("instant completion still logs one minute", func(t *testing.T) {
		tracker, _, _ := newTrackerFixture()
		plan := testPlan()
		_, _ = tracker.ToggleStep("u1", plan, 1, 0)
		result, err := tracker.ToggleStep("u1", plan, 1, 0)
		if err != nil {
			t.Fatalf("complete: %v", err)
		}
		if result.MinutesSpent != 1 {
			t.Errorf("expected minimum 1 minute, got %d", result.MinutesSpent)
		}
	})

	t.Run("third toggle clears the step without new activity", func(t *testing.T) {
		tracker, store, clock := newTrackerFixture()
		plan := testPlan()
		_, _ = tracker.ToggleStep("u1", plan, 0, 0)
		*clock = clock.Add(5 * time.Minute)
		_, _ = tracker.ToggleStep("u1", plan, 0, 0)
		result, err := tracker.ToggleStep("u1", plan, 0, 0)
		if err != nil {
			t.Fatalf("uncomplete: %v", err)
		}
		if result.State != StepNotStarted {
			t.Errorf("expected not_started, got %s", result.State)
		}
		if result.CompletedSteps != 0 || result.Percentage != 0 {
			t.Errorf("unexpected counts: %+v", result)
		}
		if events, _ := store.ByUser("u1"); len(events) != 1 {
			t.Errorf("un-completing must not log, got %d events", len(events))
		}
		// cycle restarts cleanly
		again, _ := tracker.ToggleStep("u1", plan, 0, 0)
		if again.State != StepInProgress {
			t.Errorf("expected in_progress on restart, got %s", again.State)
		}
	})

	t.Run("steps are independent", func(t *testing.T) {
		tracker, _, _ := newTrackerFixture()
		plan := testPlan()
		_, _ = tracker.ToggleStep("u1", plan, 0, 0)
		_, _ = tracker.ToggleStep("u1", plan, 0, 0)
		if state := tracker.State("r1", "0-1"); state != StepNotStarted {
			t.Errorf("expected 0-1 untouched, got %s", state)
		}
		if state := tracker.State("r1", "0-0"); state != StepCompleted {
			t.Errorf("expected 0-0 completed, got %s", state)
		}
	})

	t.Run("out of range indexes are rejected", func(t *testing.T) {
		tracker, _, _ := newTrackerFixture()
		plan := testPlan()
		if _, err := tracker.ToggleStep("u1", plan, 5, 0); err == nil {
			t.Error("expected error for bad phase index")
		}
		if _, err := tracker.ToggleStep("u1", plan, 0, 9); err == nil {
			t.Error("expected error for bad step index")
		}
		if _, err := tracker.ToggleStep("u1", plan, -1, 0); err == nil {
			t.Error("expected error for negative phase index")
		}
	})
}
