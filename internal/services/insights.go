package services

import (
	"database/sql"
	"encoding/json"
	"errors"
	"math"
	"time"

	"careercraft-backend-go/internal/models"

	"github.com/jmoiron/sqlx"
)

// DashboardUser is the trimmed user block on the dashboard payload.
type DashboardUser struct {
	Name      string     `json:"name"`
	Email     string     `json:"email"`
	LastLogin *time.Time `json:"lastLogin,omitempty"`
}

type DashboardStatistics struct {
	TotalRoadmaps     int `json:"totalRoadmaps"`
	ActiveRoadmaps    int `json:"activeRoadmaps"`
	CompletedRoadmaps int `json:"completedRoadmaps"`
	CompletionRate    int `json:"completionRate"`
	TotalTimeSpent    int `json:"totalTimeSpent"` // hours
	AverageCompletion int `json:"averageCompletion"`
	CurrentStreak     int `json:"currentStreak"`
}

type DashboardRoadmap struct {
	ID         string    `json:"id"`
	Title      string    `json:"title"`
	Status     string    `json:"status"`
	Category   string    `json:"category"`
	Percentage int       `json:"percentage"`
	CreatedAt  time.Time `json:"createdAt"`
}

type DashboardProgress struct {
	RoadmapID        string     `json:"roadmapId"`
	RoadmapTitle     string     `json:"roadmapTitle"`
	Category         string     `json:"category"`
	CompletedWeeks   int        `json:"completedWeeks"`
	TotalWeeks       int        `json:"totalWeeks"`
	TotalTimeSpent   int        `json:"totalTimeSpent"`
	CurrentStreak    int        `json:"currentStreak"`
	LastActivityDate *time.Time `json:"lastActivityDate,omitempty"`
}

type Dashboard struct {
	User           DashboardUser       `json:"user"`
	Statistics     DashboardStatistics `json:"statistics"`
	RecentRoadmaps []DashboardRoadmap  `json:"recentRoadmaps"`
	RecentProgress []DashboardProgress `json:"recentProgress"`
}

// GetDashboard assembles the landing-page summary for a user: roadmap counts,
// the three most recently touched roadmaps, and the latest progress records.
func GetDashboard(db *sqlx.DB, userID string) (Dashboard, error) {
	var out Dashboard

	var user struct {
		Name        string     `db:"name"`
		Email       string     `db:"email"`
		LastLoginAt *time.Time `db:"last_login_at"`
	}
	err := db.Get(&user, `SELECT name, email, last_login_at FROM users WHERE id = $1`, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return out, ErrNotFound("User not found")
	}
	if err != nil {
		return out, WrapError(err, "load user")
	}
	out.User = DashboardUser{Name: user.Name, Email: user.Email, LastLogin: user.LastLoginAt}

	var counts struct {
		Total     int `db:"total"`
		Active    int `db:"active"`
		Completed int `db:"completed"`
	}
	err = db.Get(&counts, `
SELECT COUNT(*) AS total,
       COUNT(*) FILTER (WHERE status = 'active') AS active,
       COUNT(*) FILTER (WHERE status = 'completed') AS completed
FROM roadmaps WHERE user_id = $1
`, userID)
	if err != nil {
		return out, WrapError(err, "count roadmaps")
	}
	out.Statistics.TotalRoadmaps = counts.Total
	out.Statistics.ActiveRoadmaps = counts.Active
	out.Statistics.CompletedRoadmaps = counts.Completed
	if counts.Total > 0 {
		out.Statistics.CompletionRate = int(math.Round(float64(counts.Completed) / float64(counts.Total) * 100))
	}

	var recent []models.Roadmap
	err = db.Select(&recent, `
SELECT * FROM roadmaps WHERE user_id = $1 ORDER BY updated_at DESC LIMIT 3
`, userID)
	if err != nil {
		return out, WrapError(err, "load recent roadmaps")
	}
	out.RecentRoadmaps = make([]DashboardRoadmap, 0, len(recent))
	for _, r := range recent {
		var progress models.RoadmapSummaryProgress
		_ = json.Unmarshal(r.Progress, &progress)
		out.RecentRoadmaps = append(out.RecentRoadmaps, DashboardRoadmap{
			ID:         r.ID,
			Title:      r.Title,
			Status:     r.Status,
			Category:   r.Category,
			Percentage: progress.Percentage,
			CreatedAt:  r.CreatedAt,
		})
	}

	type progressRow struct {
		models.ProgressRecord
		RoadmapTitle string `db:"roadmap_title"`
		Category     string `db:"category"`
	}
	var rows []progressRow
	err = db.Select(&rows, `
SELECT p.*, r.title AS roadmap_title, r.category
FROM progress_records p
JOIN roadmaps r ON r.id = p.roadmap_id
WHERE p.user_id = $1
ORDER BY p.last_activity_date DESC NULLS LAST
LIMIT 5
`, userID)
	if err != nil {
		return out, WrapError(err, "load recent progress")
	}

	totalMinutes := 0
	completionSum := 0.0
	maxStreak := 0
	out.RecentProgress = make([]DashboardProgress, 0, len(rows))
	for _, p := range rows {
		totalMinutes += p.TotalTimeSpent
		if p.TotalWeeks > 0 {
			completionSum += float64(p.CompletedWeeks) / float64(p.TotalWeeks) * 100
		}
		if p.CurrentStreak > maxStreak {
			maxStreak = p.CurrentStreak
		}
		out.RecentProgress = append(out.RecentProgress, DashboardProgress{
			RoadmapID:        p.RoadmapID,
			RoadmapTitle:     p.RoadmapTitle,
			Category:         p.Category,
			CompletedWeeks:   p.CompletedWeeks,
			TotalWeeks:       p.TotalWeeks,
			TotalTimeSpent:   p.TotalTimeSpent,
			CurrentStreak:    p.CurrentStreak,
			LastActivityDate: p.LastActivityDate,
		})
	}
	if len(out.RecentProgress) > 3 {
		out.RecentProgress = out.RecentProgress[:3]
	}
	out.Statistics.TotalTimeSpent = int(math.Round(float64(totalMinutes) / 60))
	if len(rows) > 0 {
		out.Statistics.AverageCompletion = int(math.Round(completionSum / float64(len(rows))))
	}
	out.Statistics.CurrentStreak = maxStreak

	return out, nil
}

type AnalyticsPoint struct {
	Date     time.Time `json:"date"`
	Category string    `json:"category"`
	Title    string    `json:"title"`
}

type Analytics struct {
	RoadmapsCreated       int              `json:"roadmapsCreated"`
	CategoriesExplored    int              `json:"categoriesExplored"`
	TotalTimeSpent        int              `json:"totalTimeSpent"` // minutes
	AverageCompletionRate int              `json:"averageCompletionRate"`
	RoadmapsByCategory    map[string]int   `json:"roadmapsByCategory"`
	ProgressOverTime      []AnalyticsPoint `json:"progressOverTime"`
}

// AnalyticsWindow resolves a timeframe token to its start time. Unknown tokens
// fall back to 30 days.
func AnalyticsWindow(timeframe string, now time.Time) (time.Time, string) {
	switch timeframe {
	case "7d":
		return now.AddDate(0, 0, -7), "7d"
	case "90d":
		return now.AddDate(0, 0, -90), "90d"
	default:
		return now.AddDate(0, 0, -30), "30d"
	}
}

// GetAnalytics summarises a user's roadmap creation and progress inside a
// trailing window of 7, 30 or 90 days.
func GetAnalytics(db *sqlx.DB, userID, timeframe string, now time.Time) (Analytics, string, error) {
	start, resolved := AnalyticsWindow(timeframe, now)

	out := Analytics{
		RoadmapsByCategory: map[string]int{},
		ProgressOverTime:   []AnalyticsPoint{},
	}

	type createdRow struct {
		Title     string    `db:"title"`
		Category  string    `db:"category"`
		CreatedAt time.Time `db:"created_at"`
	}
	var created []createdRow
	err := db.Select(&created, `
SELECT title, category, created_at
FROM roadmaps
WHERE user_id = $1 AND created_at >= $2
ORDER BY created_at ASC
`, userID, start)
	if err != nil {
		return out, resolved, WrapError(err, "load created roadmaps")
	}

	out.RoadmapsCreated = len(created)
	for _, r := range created {
		out.RoadmapsByCategory[r.Category]++
		out.ProgressOverTime = append(out.ProgressOverTime, AnalyticsPoint{
			Date:     r.CreatedAt,
			Category: r.Category,
			Title:    r.Title,
		})
	}
	out.CategoriesExplored = len(out.RoadmapsByCategory)

	type progressRow struct {
		TotalTimeSpent int `db:"total_time_spent"`
		CompletedWeeks int `db:"completed_weeks"`
		TotalWeeks     int `db:"total_weeks"`
	}
	var progress []progressRow
	err = db.Select(&progress, `
SELECT total_time_spent, completed_weeks, total_weeks
FROM progress_records WHERE user_id = $1
`, userID)
	if err != nil {
		return out, resolved, WrapError(err, "load progress records")
	}
	completionSum := 0.0
	for _, p := range progress {
		out.TotalTimeSpent += p.TotalTimeSpent
		if p.TotalWeeks > 0 {
			completionSum += float64(p.CompletedWeeks) / float64(p.TotalWeeks) * 100
		}
	}
	if len(progress) > 0 {
		out.AverageCompletionRate = int(math.Round(completionSum / float64(len(progress))))
	}

	return out, resolved, nil
}
