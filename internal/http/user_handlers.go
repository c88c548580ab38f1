package httpapi

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"careercraft-backend-go/internal/models"
	"careercraft-backend-go/internal/services"
	"careercraft-backend-go/internal/stats"

	"github.com/go-chi/chi/v5"
)

func (s *Server) Me(w http.ResponseWriter, r *http.Request) {
	dto, err := buildUserDTO(s.DB, CurrentUserID(r))
	if err != nil {
		WriteError(w, http.StatusNotFound, "User not found")
		return
	}
	WriteJSON(w, http.StatusOK, dto)
}

func (s *Server) Dashboard(w http.ResponseWriter, r *http.Request) {
	dash, err := services.GetDashboard(s.DB, CurrentUserID(r))
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, dash)
}

type AnalyticsResponse struct {
	Analytics services.Analytics `json:"analytics"`
	Timeframe string             `json:"timeframe"`
}

func (s *Server) Analytics(w http.ResponseWriter, r *http.Request) {
	analytics, timeframe, err := services.GetAnalytics(
		s.DB, CurrentUserID(r), r.URL.Query().Get("timeframe"), time.Now().UTC())
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, AnalyticsResponse{Analytics: analytics, Timeframe: timeframe})
}

type UpdateProfileRequest struct {
	Name            *string `json:"name"`
	Interests       *string `json:"interests"`
	CareerGoals     *string `json:"careerGoals"`
	ExperienceLevel *string `json:"experienceLevel"`
	FirstName       *string `json:"firstName"`
	LastName        *string `json:"lastName"`
	Phone           *string `json:"phone"`
	Location        *string `json:"location"`
	Bio             *string `json:"bio"`
}

func (s *Server) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	var req UpdateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid payload")
		return
	}
	userID := CurrentUserID(r)
	now := time.Now().UTC()
	_, err := s.DB.Exec(`
UPDATE users SET
  name = COALESCE($2, name),
  interests = COALESCE($3, interests),
  career_goals = COALESCE($4, career_goals),
  experience_level = COALESCE($5, experience_level),
  updated_at = $6
WHERE id = $1
`, userID, req.Name, req.Interests, req.CareerGoals, req.ExperienceLevel, now)
	if err != nil {
		WriteError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	_, _ = s.DB.Exec(`
INSERT INTO user_profiles (user_id, first_name, last_name, phone, location, bio, links)
VALUES ($1,$2,$3,$4,$5,$6,'{}')
ON CONFLICT (user_id) DO UPDATE SET
  first_name = COALESCE($2, user_profiles.first_name),
  last_name  = COALESCE($3, user_profiles.last_name),
  phone      = COALESCE($4, user_profiles.phone),
  location   = COALESCE($5, user_profiles.location),
  bio        = COALESCE($6, user_profiles.bio)
`, userID, req.FirstName, req.LastName, req.Phone, req.Location, req.Bio)

	s.Recorder.Record(userID, stats.EventProfileUpdated, stats.Meta{
		Title:       "Profile updated",
		Description: "Career profile changed",
	})

	dto, err := buildUserDTO(s.DB, userID)
	if err != nil {
		WriteError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	WriteJSON(w, http.StatusOK, dto)
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

func (s *Server) ChangePassword(w http.ResponseWriter, r *http.Request) {
	var req ChangePasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid payload")
		return
	}
	if strings.TrimSpace(req.NewPassword) == "" {
		WriteError(w, http.StatusBadRequest, "New password is required")
		return
	}
	userID := CurrentUserID(r)
	var currentHash string
	if err := s.DB.Get(&currentHash, `SELECT password_hash FROM users WHERE id = $1`, userID); err != nil {
		WriteError(w, http.StatusNotFound, "User not found")
		return
	}
	if !s.Tokens.VerifyPassword(req.CurrentPassword, currentHash) {
		WriteError(w, http.StatusUnauthorized, "Current password is incorrect")
		return
	}
	hash, err := s.Tokens.HashPassword(req.NewPassword)
	if err != nil {
		WriteError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	if _, err := s.DB.Exec(`UPDATE users SET password_hash = $2, updated_at = $3 WHERE id = $1`,
		userID, hash, time.Now().UTC()); err != nil {
		WriteError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) UpdatePreferences(w http.ResponseWriter, r *http.Request) {
	var prefs models.Preferences
	if err := json.NewDecoder(r.Body).Decode(&prefs); err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid payload")
		return
	}
	userID := CurrentUserID(r)
	if err := services.UpdatePreferences(s.DB, userID, prefs); err != nil {
		WriteServiceError(w, err)
		return
	}
	s.Recorder.Record(userID, stats.EventSettingsUpdated, stats.Meta{
		Title: "Settings updated",
	})
	WriteJSON(w, http.StatusOK, prefs)
}

func (s *Server) AddSkill(w http.ResponseWriter, r *http.Request) {
	var skill models.Skill
	if err := json.NewDecoder(r.Body).Decode(&skill); err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid payload")
		return
	}
	skills, err := services.AddSkill(s.DB, CurrentUserID(r), skill)
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, skills)
}

func (s *Server) UpdateSkill(w http.ResponseWriter, r *http.Request) {
	var skill models.Skill
	if err := json.NewDecoder(r.Body).Decode(&skill); err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid payload")
		return
	}
	skills, err := services.UpdateSkill(s.DB, CurrentUserID(r), chi.URLParam(r, "skillId"), skill)
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, skills)
}

func (s *Server) DeleteSkill(w http.ResponseWriter, r *http.Request) {
	skills, err := services.DeleteSkill(s.DB, CurrentUserID(r), chi.URLParam(r, "skillId"))
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, skills)
}

type ResumeTextRequest struct {
	ResumeText string `json:"resumeText"`
}

func (s *Server) GetResumeText(w http.ResponseWriter, r *http.Request) {
	user, err := services.GetUser(s.DB, CurrentUserID(r))
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	text := ""
	if user.ResumeText != nil {
		text = *user.ResumeText
	}
	WriteJSON(w, http.StatusOK, ResumeTextRequest{ResumeText: text})
}

func (s *Server) SetResumeText(w http.ResponseWriter, r *http.Request) {
	var req ResumeTextRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid payload")
		return
	}
	if err := services.SetResumeText(s.DB, CurrentUserID(r), req.ResumeText); err != nil {
		WriteServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
