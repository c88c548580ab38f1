package services

import (
	"database/sql"
	"encoding/json"
	"strconv"
	"time"

	"careercraft-backend-go/internal/models"

	"github.com/jmoiron/sqlx"
)

func GetProgress(db *sqlx.DB, roadmapID string) (models.ProgressRecord, error) {
	var record models.ProgressRecord
	err := db.Get(&record, `
SELECT id, user_id, roadmap_id, weekly, total_time_spent, completed_weeks,
       total_weeks, current_streak, longest_streak, last_activity_date,
       skills, achievements, created_at, updated_at
FROM progress_records WHERE roadmap_id = $1
`, roadmapID)
	if err == sql.ErrNoRows {
		return models.ProgressRecord{}, ErrNotFound("Progress not found")
	}
	return record, err
}

// ApplyStreak advances the day streak in place. Consecutive calendar days
// extend the streak, a gap of more than one day resets it to 1, and a second
// update on the same day is a no-op. Dates are compared at day granularity.
func ApplyStreak(record *models.ProgressRecord, now time.Time) {
	today := now.UTC().Truncate(24 * time.Hour)
	if record.LastActivityDate == nil {
		record.CurrentStreak = 1
	} else {
		last := record.LastActivityDate.UTC().Truncate(24 * time.Hour)
		switch days := int(today.Sub(last).Hours() / 24); {
		case days == 1:
			record.CurrentStreak++
		case days > 1:
			record.CurrentStreak = 1
		}
	}
	if record.CurrentStreak > record.LongestStreak {
		record.LongestStreak = record.CurrentStreak
	}
	record.LastActivityDate = &now
}

// AddAchievement appends an achievement unless one of the same type was
// already earned.
func AddAchievement(record *models.ProgressRecord, achievement models.Achievement) (bool, error) {
	earned := []models.Achievement{}
	if len(record.Achievements) > 0 {
		if err := json.Unmarshal(record.Achievements, &earned); err != nil {
			return false, WrapError(err, "decode achievements")
		}
	}
	for _, existing := range earned {
		if existing.Type == achievement.Type {
			return false, nil
		}
	}
	earned = append(earned, achievement)
	raw, err := json.Marshal(earned)
	if err != nil {
		return false, err
	}
	record.Achievements = raw
	return true, nil
}

// TouchProgress records activity time against a roadmap's progress record:
// adds the minutes, advances the streak, and awards streak milestones.
func TouchProgress(db *sqlx.DB, roadmapID string, minutes int, now time.Time) (models.ProgressRecord, error) {
	record, err := GetProgress(db, roadmapID)
	if err != nil {
		return models.ProgressRecord{}, err
	}
	record.TotalTimeSpent += minutes
	ApplyStreak(&record, now)

	for _, milestone := range []int{7, 30, 100} {
		if record.CurrentStreak == milestone {
			_, err := AddAchievement(&record, streakAchievement(milestone, now))
			if err != nil {
				return models.ProgressRecord{}, err
			}
		}
	}

	_, err = db.Exec(`
UPDATE progress_records SET
  total_time_spent = $2, current_streak = $3, longest_streak = $4,
  last_activity_date = $5, achievements = $6, updated_at = $7
WHERE roadmap_id = $1
`, roadmapID, record.TotalTimeSpent, record.CurrentStreak, record.LongestStreak,
		record.LastActivityDate, record.Achievements, now)
	if err != nil {
		return models.ProgressRecord{}, err
	}
	return record, nil
}

func streakAchievement(days int, now time.Time) models.Achievement {
	titles := map[int]string{
		7:   "One Week Streak",
		30:  "One Month Streak",
		100: "Century Streak",
	}
	return models.Achievement{
		Type:        "streak_" + strconv.Itoa(days),
		Title:       titles[days],
		Description: "Learned " + strconv.Itoa(days) + " days in a row",
		EarnedDate:  now,
		Icon:        "🔥",
	}
}
