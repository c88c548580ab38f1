package stats

import (
	"fmt"
	"math"
	"sort"
	"sync"
	"time"
)

type StepState string

const (
	StepNotStarted StepState = "not_started"
	StepInProgress StepState = "in_progress"
	StepCompleted  StepState = "completed"
)

// PlanStep and PlanPhase describe the roadmap structure the tracker walks.
type PlanStep struct {
	Title     string
	Resources []string
}

type PlanPhase struct {
	Title    string
	Duration string
	Steps    []PlanStep
}

type Plan struct {
	RoadmapID string
	Phases    []PlanPhase
}

func (p Plan) TotalSteps() int {
	total := 0
	for _, phase := range p.Phases {
		total += len(phase.Steps)
	}
	return total
}

// CompletionStore persists the set of completed step ids per roadmap.
type CompletionStore interface {
	Completed(roadmapID string) (map[string]bool, error)
	SaveCompleted(roadmapID string, stepIDs []string) error
}

// MemoryCompletions is the in-process CompletionStore.
type MemoryCompletions struct {
	mu   sync.Mutex
	sets map[string]map[string]bool
}

func NewMemoryCompletions() *MemoryCompletions {
	return &MemoryCompletions{sets: map[string]map[string]bool{}}
}

func (m *MemoryCompletions) Completed(roadmapID string) (map[string]bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := map[string]bool{}
	for id := range m.sets[roadmapID] {
		out[id] = true
	}
	return out, nil
}

func (m *MemoryCompletions) SaveCompleted(roadmapID string, stepIDs []string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	set := map[string]bool{}
	for _, id := range stepIDs {
		set[id] = true
	}
	m.sets[roadmapID] = set
	return nil
}

// ToggleResult reports the step's new state and the roadmap's recomputed
// completion figures.
type ToggleResult struct {
	StepID         string    `json:"stepId"`
	State          StepState `json:"state"`
	MinutesSpent   int       `json:"minutesSpent,omitempty"`
	CompletedSteps int       `json:"completedSteps"`
	TotalSteps     int       `json:"totalSteps"`
	Percentage     int       `json:"percentage"`
}

// Tracker drives per-step completion. Each step cycles through three states:
// the first toggle starts a timer, the second stops it, logs a completed
// lesson with the measured minutes (at least one) and marks the step done,
// and a toggle on a done step clears it again. Timer state is in-memory
// only; an abandoned timer simply yields the minimum duration later.
type Tracker struct {
	Completions CompletionStore
	Recorder    *Recorder
	Now         func() time.Time

	mu     sync.Mutex
	timers map[string]time.Time
}

func NewTracker(completions CompletionStore, recorder *Recorder) *Tracker {
	return &Tracker{
		Completions: completions,
		Recorder:    recorder,
		Now:         time.Now,
		timers:      map[string]time.Time{},
	}
}

func (t *Tracker) ToggleStep(userID string, plan Plan, phaseIndex, stepIndex int) (ToggleResult, error) {
	if phaseIndex < 0 || phaseIndex >= len(plan.Phases) {
		return ToggleResult{}, fmt.Errorf("phase index %d out of range", phaseIndex)
	}
	phase := plan.Phases[phaseIndex]
	if stepIndex < 0 || stepIndex >= len(phase.Steps) {
		return ToggleResult{}, fmt.Errorf("step index %d out of range", stepIndex)
	}
	step := phase.Steps[stepIndex]
	stepID := fmt.Sprintf("%d-%d", phaseIndex, stepIndex)
	timerKey := plan.RoadmapID + ":" + stepID

	completed, err := t.Completions.Completed(plan.RoadmapID)
	if err != nil {
		return ToggleResult{}, err
	}

	result := ToggleResult{StepID: stepID, TotalSteps: plan.TotalSteps()}

	switch {
	case completed[stepID]:
		// un-complete, discarding any stale timer
		delete(completed, stepID)
		t.clearTimer(timerKey)
		result.State = StepNotStarted

	case t.timerRunning(timerKey):
		minutes := t.stopTimer(timerKey)
		completed[stepID] = true
		result.State = StepCompleted
		result.MinutesSpent = minutes
		t.Recorder.Record(userID, EventLessonCompleted, Meta{
			LessonTitle:   step.Title,
			Phase:         phase.Title,
			ActualMinutes: minutes,
		})

	default:
		t.startTimer(timerKey)
		result.State = StepInProgress
		result.CompletedSteps = len(completed)
		result.Percentage = percentage(len(completed), result.TotalSteps)
		return result, nil
	}

	if err := t.Completions.SaveCompleted(plan.RoadmapID, keys(completed)); err != nil {
		return ToggleResult{}, err
	}
	result.CompletedSteps = len(completed)
	result.Percentage = percentage(len(completed), result.TotalSteps)
	return result, nil
}

// State reports a step's current observable state without changing it.
func (t *Tracker) State(roadmapID, stepID string) StepState {
	completed, err := t.Completions.Completed(roadmapID)
	if err == nil && completed[stepID] {
		return StepCompleted
	}
	if t.timerRunning(roadmapID + ":" + stepID) {
		return StepInProgress
	}
	return StepNotStarted
}

func (t *Tracker) startTimer(key string) {
	t.mu.Lock()
	t.timers[key] = t.Now()
	t.mu.Unlock()
}

func (t *Tracker) timerRunning(key string) bool {
	t.mu.Lock()
	_, ok := t.timers[key]
	t.mu.Unlock()
	return ok
}

// stopTimer returns the elapsed whole minutes, never less than one.
func (t *Tracker) stopTimer(key string) int {
	t.mu.Lock()
	started, ok := t.timers[key]
	delete(t.timers, key)
	t.mu.Unlock()
	if !ok {
		return 1
	}
	minutes := int(math.Round(t.Now().Sub(started).Minutes()))
	if minutes < 1 {
		return 1
	}
	return minutes
}

func (t *Tracker) clearTimer(key string) {
	t.mu.Lock()
	delete(t.timers, key)
	t.mu.Unlock()
}

func percentage(completed, total int) int {
	if total <= 0 {
		return 0
	}
	return int(math.Round(float64(completed) / float64(total) * 100))
}

func keys(set map[string]bool) []string {
	out := make([]string, 0, len(set))
	for id := range set {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}
