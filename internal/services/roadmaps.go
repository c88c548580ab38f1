package services

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"time"

	"careercraft-backend-go/internal/ai"
	"careercraft-backend-go/internal/models"
	"careercraft-backend-go/internal/stats"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

const (
	// resumes are truncated before prompting so one oversized upload cannot
	// blow the token budget
	resumePromptLimit = 3000
	roadmapTotalWeeks = 12
)

const (
	GeneratedByAI       = "ai"
	GeneratedByTemplate = "template"
)

type GenerateRequest struct {
	UserID          string
	Interests       string
	ResumeText      string
	ExperienceLevel string
	TargetRole      string
}

type GenerateResult struct {
	RoadmapText string
	RoadmapID   string
	GeneratedBy string
	ModelName   string
	Roadmap     *models.Roadmap
}

// GenerateRoadmap runs the generation flow: validate, resolve the user, try
// the AI provider, fall back to the deterministic template, categorize, then
// persist the roadmap with its paired progress record. Once validation and
// user lookup pass, the caller always gets a roadmap: provider failures take
// the template path, persistence failures degrade to an unpersisted response,
// and a panic anywhere in the flow is converted to a template response.
func GenerateRoadmap(ctx context.Context, db *sqlx.DB, provider ai.Provider, recorder *stats.Recorder, req GenerateRequest) (result GenerateResult, err error) {
	if strings.TrimSpace(req.Interests) == "" || strings.TrimSpace(req.UserID) == "" {
		return GenerateResult{}, ErrBadRequest("interests and userId are required")
	}

	user, lookupErr := GetUser(db, req.UserID)
	if lookupErr != nil {
		if StatusOf(lookupErr) == 404 {
			return GenerateResult{}, lookupErr
		}
		return GenerateResult{}, WrapError(lookupErr, "resolve user")
	}

	defer func() {
		if r := recover(); r != nil {
			log.Printf("roadmap generation recovered: %v", r)
			text, _ := TemplateRoadmap(req.Interests, req.ResumeText != "", req.ExperienceLevel)
			result = GenerateResult{RoadmapText: text, GeneratedBy: GeneratedByTemplate}
			err = nil
		}
	}()

	text, phases, generatedBy, modelName := generateText(ctx, provider, req)

	roadmap, persistErr := persistRoadmap(db, user, req, text, generatedBy, modelName, phases)
	if persistErr != nil {
		// degrade rather than fail: the user still gets their roadmap text
		log.Printf("roadmap persist: %v", persistErr)
		return GenerateResult{RoadmapText: text, GeneratedBy: generatedBy, ModelName: modelName}, nil
	}

	if recorder != nil {
		recorder.Record(user.ID, stats.EventRoadmapGenerated, stats.Meta{Title: roadmap.Title})
	}

	return GenerateResult{
		RoadmapText: text,
		RoadmapID:   roadmap.ID,
		GeneratedBy: generatedBy,
		ModelName:   modelName,
		Roadmap:     roadmap,
	}, nil
}

// generateText tries the AI provider and falls back to the template. The
// fallback cannot fail, so this never returns an error. AI text that does not
// yield a usable phase structure keeps the text but borrows the template's
// phases so the step tracker always has something to walk.
func generateText(ctx context.Context, provider ai.Provider, req GenerateRequest) (string, []models.RoadmapPhase, string, string) {
	hasResume := req.ResumeText != ""
	if provider != nil {
		aiText, aiErr := provider.Generate(ctx, buildPrompt(req))
		if aiErr == nil {
			phases, ok := ParsePhases(aiText)
			if !ok {
				_, phases = TemplateRoadmap(req.Interests, hasResume, req.ExperienceLevel)
			}
			return aiText, phases, GeneratedByAI, provider.Model()
		}
		if aiErr != ai.ErrNotConfigured {
			log.Printf("ai generation failed, using template: %v", aiErr)
		}
	}
	templateText, phases := TemplateRoadmap(req.Interests, hasResume, req.ExperienceLevel)
	return templateText, phases, GeneratedByTemplate, ""
}

func buildPrompt(req GenerateRequest) string {
	resume := req.ResumeText
	if len(resume) > resumePromptLimit {
		resume = resume[:resumePromptLimit]
	}
	var b strings.Builder
	if resume != "" {
		fmt.Fprintf(&b, "Given this resume:\n%s\n\n", resume)
	}
	fmt.Fprintf(&b, "And these interests: %s\n\n", req.Interests)
	if req.ExperienceLevel != "" {
		fmt.Fprintf(&b, "Experience level: %s\n", req.ExperienceLevel)
	}
	if req.TargetRole != "" {
		fmt.Fprintf(&b, "Target role: %s\n", req.TargetRole)
	}
	b.WriteString("\nGenerate a 12-week personalized learning roadmap with weekly goals and YouTube/course suggestions. Structure it as week-by-week sections with bullet-point steps.")
	return b.String()
}

// persistRoadmap creates the roadmap and its 1:1 progress record in one
// transaction and stamps the user's login info.
func persistRoadmap(db *sqlx.DB, user models.User, req GenerateRequest, text, generatedBy, modelName string, phases []models.RoadmapPhase) (*models.Roadmap, error) {
	now := time.Now().UTC()
	interests, err := json.Marshal(splitInterests(req.Interests))
	if err != nil {
		return nil, err
	}
	phasesJSON, err := json.Marshal(phases)
	if err != nil {
		return nil, err
	}
	progressJSON, err := json.Marshal(models.RoadmapSummaryProgress{
		CurrentWeek:      1,
		TotalWeeks:       roadmapTotalWeeks,
		StartDate:        now,
		EstimatedEndDate: now.Add(roadmapTotalWeeks * 7 * 24 * time.Hour),
	})
	if err != nil {
		return nil, err
	}
	tags, err := json.Marshal(ExtractTags(req.Interests))
	if err != nil {
		return nil, err
	}

	roadmap := &models.Roadmap{
		ID:          uuid.NewString(),
		UserID:      user.ID,
		Title:       "Learning Roadmap: " + strings.TrimSpace(req.Interests),
		Description: fmt.Sprintf("A %d-week personalized learning roadmap for %s", roadmapTotalWeeks, strings.TrimSpace(req.Interests)),
		Interests:   interests,
		GeneratedBy: generatedBy,
		RoadmapText: text,
		Phases:      phasesJSON,
		Progress:    progressJSON,
		Status:      "active",
		Category:    Categorize(req.Interests),
		Tags:        tags,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if modelName != "" {
		roadmap.ModelName = &modelName
	}
	if req.ExperienceLevel != "" {
		level := req.ExperienceLevel
		roadmap.ExperienceLevel = &level
	}
	if req.TargetRole != "" {
		role := req.TargetRole
		roadmap.TargetRole = &role
	}

	tx, err := db.Beginx()
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.Exec(`
INSERT INTO roadmaps (
  id, user_id, title, description, interests, target_role, experience_level,
  generated_by, model_name, roadmap_text, phases, progress, status,
  views, likes, shares, category, tags, created_at, updated_at
) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,0,0,0,$14,$15,$16,$16)
`, roadmap.ID, roadmap.UserID, roadmap.Title, roadmap.Description, roadmap.Interests,
		roadmap.TargetRole, roadmap.ExperienceLevel, roadmap.GeneratedBy, roadmap.ModelName,
		roadmap.RoadmapText, roadmap.Phases, roadmap.Progress, roadmap.Status,
		roadmap.Category, roadmap.Tags, now)
	if err != nil {
		return nil, WrapError(err, "insert roadmap")
	}

	_, err = tx.Exec(`
INSERT INTO progress_records (
  id, user_id, roadmap_id, weekly, total_time_spent, completed_weeks,
  total_weeks, current_streak, longest_streak, last_activity_date,
  skills, achievements, created_at, updated_at
) VALUES ($1,$2,$3,'[]',0,0,$4,0,0,$5,'[]','[]',$5,$5)
`, uuid.NewString(), user.ID, roadmap.ID, roadmapTotalWeeks, now)
	if err != nil {
		return nil, WrapError(err, "insert progress")
	}

	_, err = tx.Exec(`
UPDATE users SET last_login_at = $1, login_count = login_count + 1, updated_at = $1 WHERE id = $2
`, now, user.ID)
	if err != nil {
		return nil, WrapError(err, "touch user login")
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return roadmap, nil
}

func splitInterests(raw string) []string {
	parts := strings.Split(raw, ",")
	items := make([]string, 0, len(parts))
	for _, part := range parts {
		if value := strings.TrimSpace(part); value != "" {
			items = append(items, value)
		}
	}
	return items
}

func ListRoadmaps(db *sqlx.DB, userID, status string, limit, page int) ([]models.Roadmap, int, error) {
	if limit < 1 {
		limit = 10
	}
	if page < 1 {
		page = 1
	}
	offset := (page - 1) * limit

	args := []interface{}{userID}
	where := "WHERE user_id = $1"
	if status != "" {
		where += " AND status = $2"
		args = append(args, status)
	}
	var total int
	if err := db.Get(&total, "SELECT count(*) FROM roadmaps "+where, args...); err != nil {
		return nil, 0, err
	}
	args = append(args, limit, offset)
	query := fmt.Sprintf(`
SELECT id, user_id, title, description, interests, target_role, experience_level,
       generated_by, model_name, roadmap_text, phases, progress, status,
       views, likes, shares, category, tags, created_at, updated_at
FROM roadmaps
%s
ORDER BY updated_at DESC
LIMIT $%d OFFSET $%d`, where, len(args)-1, len(args))
	items := []models.Roadmap{}
	if err := db.Select(&items, query, args...); err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

// GetRoadmap fetches a roadmap and counts the view as an observable side
// effect.
func GetRoadmap(db *sqlx.DB, roadmapID string) (models.Roadmap, error) {
	var roadmap models.Roadmap
	err := db.Get(&roadmap, `
UPDATE roadmaps SET views = views + 1 WHERE id = $1
RETURNING id, user_id, title, description, interests, target_role, experience_level,
          generated_by, model_name, roadmap_text, phases, progress, status,
          views, likes, shares, category, tags, created_at, updated_at
`, roadmapID)
	if err == sql.ErrNoRows {
		return models.Roadmap{}, ErrNotFound("Roadmap not found")
	}
	return roadmap, err
}

// FetchRoadmap fetches without touching the view counter.
func FetchRoadmap(db *sqlx.DB, roadmapID string) (models.Roadmap, error) {
	var roadmap models.Roadmap
	err := db.Get(&roadmap, `
SELECT id, user_id, title, description, interests, target_role, experience_level,
       generated_by, model_name, roadmap_text, phases, progress, status,
       views, likes, shares, category, tags, created_at, updated_at
FROM roadmaps WHERE id = $1
`, roadmapID)
	if err == sql.ErrNoRows {
		return models.Roadmap{}, ErrNotFound("Roadmap not found")
	}
	return roadmap, err
}

type RoadmapUpdate struct {
	Title       *string
	Description *string
	Status      *string
}

var roadmapStatuses = map[string]bool{
	"draft": true, "active": true, "completed": true, "paused": true, "archived": true,
}

func UpdateRoadmap(db *sqlx.DB, roadmapID string, update RoadmapUpdate) (models.Roadmap, error) {
	if update.Status != nil && !roadmapStatuses[*update.Status] {
		return models.Roadmap{}, ErrBadRequest("Invalid status")
	}
	result, err := db.Exec(`
UPDATE roadmaps SET
  title = COALESCE($2, title),
  description = COALESCE($3, description),
  status = COALESCE($4, status),
  updated_at = $5
WHERE id = $1
`, roadmapID, update.Title, update.Description, update.Status, time.Now().UTC())
	if err != nil {
		return models.Roadmap{}, err
	}
	if affected, _ := result.RowsAffected(); affected == 0 {
		return models.Roadmap{}, ErrNotFound("Roadmap not found")
	}
	return FetchRoadmap(db, roadmapID)
}

// DeleteRoadmap removes a roadmap, cascading to its progress record and
// step completions.
func DeleteRoadmap(db *sqlx.DB, roadmapID string) error {
	tx, err := db.Beginx()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.Exec(`DELETE FROM step_completions WHERE roadmap_id = $1`, roadmapID); err != nil {
		return err
	}
	if _, err := tx.Exec(`DELETE FROM progress_records WHERE roadmap_id = $1`, roadmapID); err != nil {
		return err
	}
	result, err := tx.Exec(`DELETE FROM roadmaps WHERE id = $1`, roadmapID)
	if err != nil {
		return err
	}
	if affected, _ := result.RowsAffected(); affected == 0 {
		return ErrNotFound("Roadmap not found")
	}
	return tx.Commit()
}

// RoadmapPlan converts a stored roadmap into the tracker's plan shape.
func RoadmapPlan(roadmap models.Roadmap) (stats.Plan, error) {
	phases := []models.RoadmapPhase{}
	if len(roadmap.Phases) > 0 {
		if err := json.Unmarshal(roadmap.Phases, &phases); err != nil {
			return stats.Plan{}, WrapError(err, "decode phases")
		}
	}
	plan := stats.Plan{RoadmapID: roadmap.ID}
	for _, phase := range phases {
		planPhase := stats.PlanPhase{Title: phase.Title, Duration: phase.Duration}
		for _, step := range phase.Steps {
			planPhase.Steps = append(planPhase.Steps, stats.PlanStep{Title: step.Title, Resources: step.Resources})
		}
		plan.Phases = append(plan.Phases, planPhase)
	}
	return plan, nil
}

// UpdateRoadmapPercentage rewrites the cached completion percentage after a
// step toggle. At 100% the roadmap flips to completed with an actual end
// date; dropping back below reopens it.
func UpdateRoadmapPercentage(db *sqlx.DB, roadmapID string, percentage int) error {
	roadmap, err := FetchRoadmap(db, roadmapID)
	if err != nil {
		return err
	}
	progress := models.RoadmapSummaryProgress{}
	if len(roadmap.Progress) > 0 {
		if err := json.Unmarshal(roadmap.Progress, &progress); err != nil {
			return WrapError(err, "decode progress")
		}
	}
	now := time.Now().UTC()
	progress.Percentage = percentage
	status := roadmap.Status
	if percentage >= 100 {
		status = "completed"
		progress.ActualEndDate = &now
		progress.CompletedWeeks = progress.TotalWeeks
	} else {
		if status == "completed" {
			status = "active"
		}
		progress.ActualEndDate = nil
		if progress.TotalWeeks > 0 {
			progress.CompletedWeeks = percentage * progress.TotalWeeks / 100
		}
	}
	raw, err := json.Marshal(progress)
	if err != nil {
		return err
	}
	_, err = db.Exec(`UPDATE roadmaps SET progress = $2, status = $3, updated_at = $4 WHERE id = $1`,
		roadmapID, raw, status, now)
	return err
}
