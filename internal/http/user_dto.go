package httpapi

import (
	"encoding/json"
	"time"

	"careercraft-backend-go/internal/models"

	"github.com/jmoiron/sqlx"
)

type ProfileDTO struct {
	FirstName *string           `json:"firstName,omitempty"`
	LastName  *string           `json:"lastName,omitempty"`
	Phone     *string           `json:"phone,omitempty"`
	Location  *string           `json:"location,omitempty"`
	Bio       *string           `json:"bio,omitempty"`
	Links     map[string]string `json:"links,omitempty"`
}

type UserDTO struct {
	ID              string              `json:"id"`
	Name            string              `json:"name"`
	Email           string              `json:"email"`
	Interests       string              `json:"interests"`
	CareerGoals     *string             `json:"careerGoals,omitempty"`
	ExperienceLevel *string             `json:"experienceLevel,omitempty"`
	HasResume       bool                `json:"hasResume"`
	Skills          []models.Skill      `json:"skills"`
	Preferences     *models.Preferences `json:"preferences,omitempty"`
	Profile         *ProfileDTO         `json:"profile,omitempty"`
	LastLoginAt     *time.Time          `json:"lastLoginAt,omitempty"`
	LoginCount      int                 `json:"loginCount"`
	CreatedAt       time.Time           `json:"createdAt"`
}

func buildUserDTO(db *sqlx.DB, userID string) (*UserDTO, error) {
	var user models.User
	err := db.Get(&user, `
SELECT id, name, email, password_hash, interests, career_goals, experience_level,
       resume_text, skills, preferences, is_active, last_login_at, login_count,
       created_at, updated_at
FROM users WHERE id = $1
`, userID)
	if err != nil {
		return nil, err
	}

	dto := &UserDTO{
		ID:              user.ID,
		Name:            user.Name,
		Email:           user.Email,
		Interests:       user.Interests,
		CareerGoals:     user.CareerGoals,
		ExperienceLevel: user.ExperienceLevel,
		HasResume:       user.ResumeText != nil && *user.ResumeText != "",
		Skills:          []models.Skill{},
		LastLoginAt:     user.LastLoginAt,
		LoginCount:      user.LoginCount,
		CreatedAt:       user.CreatedAt,
	}
	if len(user.Skills) > 0 {
		_ = json.Unmarshal(user.Skills, &dto.Skills)
	}
	if len(user.Preferences) > 0 {
		prefs := models.Preferences{}
		if json.Unmarshal(user.Preferences, &prefs) == nil {
			dto.Preferences = &prefs
		}
	}

	var profile models.UserProfile
	err = db.Get(&profile, `
SELECT user_id, first_name, last_name, phone, location, bio, links
FROM user_profiles WHERE user_id = $1
`, userID)
	if err == nil {
		links := map[string]string{}
		if len(profile.Links) > 0 {
			_ = json.Unmarshal(profile.Links, &links)
		}
		dto.Profile = &ProfileDTO{
			FirstName: profile.FirstName,
			LastName:  profile.LastName,
			Phone:     profile.Phone,
			Location:  profile.Location,
			Bio:       profile.Bio,
			Links:     links,
		}
	}
	return dto, nil
}
