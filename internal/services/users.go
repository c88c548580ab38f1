package services

import (
	"database/sql"
	"encoding/json"
	"strings"
	"time"

	"careercraft-backend-go/internal/models"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

func GetUser(db *sqlx.DB, userID string) (models.User, error) {
	var user models.User
	err := db.Get(&user, `
SELECT id, name, email, password_hash, interests, career_goals, experience_level,
       resume_text, skills, preferences, is_active, last_login_at, login_count,
       created_at, updated_at
FROM users WHERE id = $1
`, userID)
	if err == sql.ErrNoRows {
		return models.User{}, ErrNotFound("User not found")
	}
	return user, err
}

// SetLastLogin stamps the login time and bumps the login counter.
func SetLastLogin(db *sqlx.DB, userID string) error {
	_, err := db.Exec(`
UPDATE users SET last_login_at = $1, login_count = login_count + 1, updated_at = $1
WHERE id = $2
`, time.Now().UTC(), userID)
	return err
}

func SetResumeText(db *sqlx.DB, userID, resumeText string) error {
	result, err := db.Exec(`
UPDATE users SET resume_text = $1, updated_at = $2 WHERE id = $3
`, resumeText, time.Now().UTC(), userID)
	if err != nil {
		return err
	}
	if affected, _ := result.RowsAffected(); affected == 0 {
		return ErrNotFound("User not found")
	}
	return nil
}

func UpdatePreferences(db *sqlx.DB, userID string, prefs models.Preferences) error {
	raw, err := json.Marshal(prefs)
	if err != nil {
		return err
	}
	result, err := db.Exec(`
UPDATE users SET preferences = $1, updated_at = $2 WHERE id = $3
`, raw, time.Now().UTC(), userID)
	if err != nil {
		return err
	}
	if affected, _ := result.RowsAffected(); affected == 0 {
		return ErrNotFound("User not found")
	}
	return nil
}

func userSkills(db *sqlx.DB, userID string) ([]models.Skill, error) {
	var raw []byte
	err := db.Get(&raw, `SELECT skills FROM users WHERE id = $1`, userID)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound("User not found")
	}
	if err != nil {
		return nil, err
	}
	skills := []models.Skill{}
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &skills); err != nil {
			return nil, WrapError(err, "decode skills")
		}
	}
	return skills, nil
}

func saveSkills(db *sqlx.DB, userID string, skills []models.Skill) error {
	raw, err := json.Marshal(skills)
	if err != nil {
		return err
	}
	_, err = db.Exec(`UPDATE users SET skills = $1, updated_at = $2 WHERE id = $3`, raw, time.Now().UTC(), userID)
	return err
}

func AddSkill(db *sqlx.DB, userID string, skill models.Skill) ([]models.Skill, error) {
	skills, err := userSkills(db, userID)
	if err != nil {
		return nil, err
	}
	for _, existing := range skills {
		if strings.EqualFold(existing.Name, skill.Name) {
			return nil, ErrBadRequest("Skill already exists")
		}
	}
	skill.ID = uuid.NewString()
	skills = append(skills, skill)
	if err := saveSkills(db, userID, skills); err != nil {
		return nil, err
	}
	return skills, nil
}

func UpdateSkill(db *sqlx.DB, userID, skillID string, update models.Skill) ([]models.Skill, error) {
	skills, err := userSkills(db, userID)
	if err != nil {
		return nil, err
	}
	found := false
	for i := range skills {
		if skills[i].ID != skillID {
			continue
		}
		found = true
		if update.Name != "" {
			skills[i].Name = update.Name
		}
		if update.Level != "" {
			skills[i].Level = update.Level
		}
		if update.Category != "" {
			skills[i].Category = update.Category
		}
	}
	if !found {
		return nil, ErrNotFound("Skill not found")
	}
	if err := saveSkills(db, userID, skills); err != nil {
		return nil, err
	}
	return skills, nil
}

func DeleteSkill(db *sqlx.DB, userID, skillID string) ([]models.Skill, error) {
	skills, err := userSkills(db, userID)
	if err != nil {
		return nil, err
	}
	kept := skills[:0]
	found := false
	for _, skill := range skills {
		if skill.ID == skillID {
			found = true
			continue
		}
		kept = append(kept, skill)
	}
	if !found {
		return nil, ErrNotFound("Skill not found")
	}
	if err := saveSkills(db, userID, kept); err != nil {
		return nil, err
	}
	return kept, nil
}
