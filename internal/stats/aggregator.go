package stats

import (
	"math"
	"time"
)

// RoadmapSummary is the slice of a roadmap the aggregator needs: how many
// steps it has and how many are done.
type RoadmapSummary struct {
	ID             string
	TotalSteps     int
	CompletedSteps int
}

// RoadmapSource supplies the user's roadmaps, deduplicated by identifier.
type RoadmapSource interface {
	Summaries(userID string) ([]RoadmapSummary, error)
}

// Stats is the derived snapshot shown on the dashboard. It is recomputed on
// demand and never stored as ground truth.
type Stats struct {
	TotalRoadmaps     int     `json:"totalRoadmaps"`
	CompletedLessons  int     `json:"completedLessons"`
	CurrentStreak     int     `json:"currentStreak"`
	TotalXP           int     `json:"totalXP"`
	WeeklyLessons     int     `json:"weeklyLessons"`
	TimeSpentThisWeek float64 `json:"timeSpentThisWeek"`
}

// XP bonuses per the level economy: base per lesson, streak per day,
// completion per finished roadmap, time per 10 minutes studied.
const (
	xpPerLesson            = 10
	xpPerStreakDay         = 5
	xpPerCompletedRoadmap  = 50
	minutesPerTimeBonusXP  = 10
	weeklyWindow           = 7 * 24 * time.Hour
	minutesBeforeHourUnits = 60
)

// Aggregator combines the activity log, roadmap completion sets and the
// total-time counter into a Stats snapshot. ComputeStats is a pure read;
// only the streak calculator's own cache is touched.
type Aggregator struct {
	Store    Store
	Roadmaps RoadmapSource
	Streaks  *StreakCalculator
	Now      func() time.Time
}

func NewAggregator(store Store, roadmaps RoadmapSource, streaks *StreakCalculator) *Aggregator {
	return &Aggregator{Store: store, Roadmaps: roadmaps, Streaks: streaks, Now: time.Now}
}

func (a *Aggregator) ComputeStats(userID string) (Stats, error) {
	summaries, err := a.Roadmaps.Summaries(userID)
	if err != nil {
		return Stats{}, err
	}

	completedLessons := 0
	completedRoadmaps := 0
	for _, rm := range summaries {
		completedLessons += rm.CompletedSteps
		if rm.TotalSteps > 0 && rm.CompletedSteps >= rm.TotalSteps {
			completedRoadmaps++
		}
	}

	streak := a.Streaks.Current(userID)
	totalMinutes, err := a.Store.TotalMinutes(userID)
	if err != nil {
		return Stats{}, err
	}

	xp := completedLessons*xpPerLesson +
		streak*xpPerStreakDay +
		completedRoadmaps*xpPerCompletedRoadmap +
		totalMinutes/minutesPerTimeBonusXP

	weeklyLessons, weeklyTime, err := a.weekly(userID)
	if err != nil {
		return Stats{}, err
	}

	return Stats{
		TotalRoadmaps:     len(summaries),
		CompletedLessons:  completedLessons,
		CurrentStreak:     streak,
		TotalXP:           xp,
		WeeklyLessons:     weeklyLessons,
		TimeSpentThisWeek: weeklyTime,
	}, nil
}

// weekly counts completed lessons and sums minutes across all event types in
// the trailing 7 days. Time is reported in minutes below an hour, otherwise
// in hours rounded to one decimal.
func (a *Aggregator) weekly(userID string) (int, float64, error) {
	since := a.Now().Add(-weeklyWindow)
	events, err := a.Store.ByUserSince(userID, since)
	if err != nil {
		return 0, 0, err
	}
	lessons := 0
	minutes := 0
	for _, ev := range events {
		if ev.Type == EventLessonCompleted {
			lessons++
		}
		minutes += ev.Minutes
	}
	if minutes >= minutesBeforeHourUnits {
		return lessons, math.Round(float64(minutes)/60*10) / 10, nil
	}
	return lessons, float64(minutes), nil
}
