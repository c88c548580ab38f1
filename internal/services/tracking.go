package services

import (
	"encoding/json"
	"time"

	"careercraft-backend-go/internal/models"
	"careercraft-backend-go/internal/stats"

	"github.com/jmoiron/sqlx"
)

// SQLCompletions persists toggled step IDs per roadmap in the
// step_completions table.
type SQLCompletions struct {
	DB *sqlx.DB
}

func (c *SQLCompletions) Completed(roadmapID string) (map[string]bool, error) {
	ids := []string{}
	err := c.DB.Select(&ids, `SELECT step_id FROM step_completions WHERE roadmap_id = $1`, roadmapID)
	if err != nil {
		return nil, err
	}
	set := make(map[string]bool, len(ids))
	for _, id := range ids {
		set[id] = true
	}
	return set, nil
}

// SaveCompleted replaces the roadmap's completion set wholesale. The toggle
// path always writes the full set, so delete-then-insert keeps the table an
// exact mirror without tracking individual flips.
func (c *SQLCompletions) SaveCompleted(roadmapID string, stepIDs []string) error {
	tx, err := c.DB.Beginx()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.Exec(`DELETE FROM step_completions WHERE roadmap_id = $1`, roadmapID); err != nil {
		return err
	}
	now := time.Now().UTC()
	for _, stepID := range stepIDs {
		if _, err := tx.Exec(`
INSERT INTO step_completions (roadmap_id, step_id, completed_at) VALUES ($1, $2, $3)
`, roadmapID, stepID, now); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// SQLRoadmapSource feeds the stats aggregator per-roadmap step totals
// straight from the database.
type SQLRoadmapSource struct {
	DB *sqlx.DB
}

func (s *SQLRoadmapSource) Summaries(userID string) ([]stats.RoadmapSummary, error) {
	rows := []struct {
		ID        string `db:"id"`
		Phases    []byte `db:"phases"`
		Completed int    `db:"completed"`
	}{}
	err := s.DB.Select(&rows, `
SELECT r.id, r.phases,
       (SELECT count(*) FROM step_completions sc WHERE sc.roadmap_id = r.id) AS completed
FROM roadmaps r
WHERE r.user_id = $1
`, userID)
	if err != nil {
		return nil, err
	}
	summaries := make([]stats.RoadmapSummary, 0, len(rows))
	for _, row := range rows {
		phases := []models.RoadmapPhase{}
		if len(row.Phases) > 0 {
			if err := json.Unmarshal(row.Phases, &phases); err != nil {
				return nil, WrapError(err, "decode phases")
			}
		}
		total := 0
		for _, phase := range phases {
			total += len(phase.Steps)
		}
		summaries = append(summaries, stats.RoadmapSummary{
			ID:             row.ID,
			TotalSteps:     total,
			CompletedSteps: row.Completed,
		})
	}
	return summaries, nil
}
