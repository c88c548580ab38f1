package httpapi

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"careercraft-backend-go/internal/models"
	"careercraft-backend-go/internal/services"
	"careercraft-backend-go/internal/stats"

	"github.com/go-chi/chi/v5"
)

type GenerateRoadmapRequest struct {
	Interests       string `json:"interests"`
	ExperienceLevel string `json:"experienceLevel"`
	TargetRole      string `json:"targetRole"`
}

type GenerateRoadmapResponse struct {
	Roadmap     string      `json:"roadmap"`
	RoadmapID   string      `json:"roadmapId,omitempty"`
	GeneratedBy string      `json:"generatedBy"`
	ModelName   string      `json:"modelName,omitempty"`
	Detail      *RoadmapDTO `json:"detail,omitempty"`
}

func (s *Server) GenerateRoadmap(w http.ResponseWriter, r *http.Request) {
	var req GenerateRoadmapRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid payload")
		return
	}
	userID := CurrentUserID(r)

	resume := ""
	level := strings.TrimSpace(req.ExperienceLevel)
	if user, err := services.GetUser(s.DB, userID); err == nil {
		if user.ResumeText != nil {
			resume = *user.ResumeText
		}
		if level == "" && user.ExperienceLevel != nil {
			level = *user.ExperienceLevel
		}
	}

	result, err := services.GenerateRoadmap(r.Context(), s.DB, s.AI, s.Recorder, services.GenerateRequest{
		UserID:          userID,
		Interests:       req.Interests,
		ResumeText:      resume,
		ExperienceLevel: level,
		TargetRole:      strings.TrimSpace(req.TargetRole),
	})
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	resp := GenerateRoadmapResponse{
		Roadmap:     result.RoadmapText,
		RoadmapID:   result.RoadmapID,
		GeneratedBy: result.GeneratedBy,
		ModelName:   result.ModelName,
	}
	if result.Roadmap != nil {
		dto := roadmapDTO(*result.Roadmap)
		resp.Detail = &dto
	}
	WriteJSON(w, http.StatusOK, resp)
}

type RoadmapDTO struct {
	ID          string                         `json:"id"`
	Title       string                         `json:"title"`
	Description string                         `json:"description"`
	Interests   []string                       `json:"interests"`
	GeneratedBy string                         `json:"generatedBy"`
	ModelName   *string                        `json:"modelName,omitempty"`
	RoadmapText string                         `json:"roadmapText"`
	Phases      []models.RoadmapPhase          `json:"phases"`
	Progress    *models.RoadmapSummaryProgress `json:"progress,omitempty"`
	Status      string                         `json:"status"`
	Views       int                            `json:"views"`
	Category    string                         `json:"category"`
	Tags        []string                       `json:"tags"`
	CreatedAt   string                         `json:"createdAt"`
	UpdatedAt   string                         `json:"updatedAt"`
}

func roadmapDTO(roadmap models.Roadmap) RoadmapDTO {
	dto := RoadmapDTO{
		ID:          roadmap.ID,
		Title:       roadmap.Title,
		Description: roadmap.Description,
		Interests:   []string{},
		GeneratedBy: roadmap.GeneratedBy,
		ModelName:   roadmap.ModelName,
		RoadmapText: roadmap.RoadmapText,
		Phases:      []models.RoadmapPhase{},
		Status:      roadmap.Status,
		Views:       roadmap.Views,
		Category:    roadmap.Category,
		Tags:        []string{},
		CreatedAt:   roadmap.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
		UpdatedAt:   roadmap.UpdatedAt.Format("2006-01-02T15:04:05Z07:00"),
	}
	_ = json.Unmarshal(roadmap.Interests, &dto.Interests)
	_ = json.Unmarshal(roadmap.Phases, &dto.Phases)
	_ = json.Unmarshal(roadmap.Tags, &dto.Tags)
	if len(roadmap.Progress) > 0 {
		progress := models.RoadmapSummaryProgress{}
		if json.Unmarshal(roadmap.Progress, &progress) == nil {
			dto.Progress = &progress
		}
	}
	return dto
}

type RoadmapListResponse struct {
	Items []RoadmapDTO `json:"items"`
	Total int          `json:"total"`
	Page  int          `json:"page"`
	Limit int          `json:"limit"`
}

func (s *Server) ListRoadmaps(w http.ResponseWriter, r *http.Request) {
	limit := parseInt(r.URL.Query().Get("limit"), 10)
	if limit > 50 {
		limit = 50
	}
	page := parseInt(r.URL.Query().Get("page"), 1)
	status := r.URL.Query().Get("status")

	items, total, err := services.ListRoadmaps(s.DB, CurrentUserID(r), status, limit, page)
	if err != nil {
		WriteError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	dtos := make([]RoadmapDTO, 0, len(items))
	for _, item := range items {
		dtos = append(dtos, roadmapDTO(item))
	}
	WriteJSON(w, http.StatusOK, RoadmapListResponse{Items: dtos, Total: total, Page: page, Limit: limit})
}

// ownedRoadmap fetches the roadmap and enforces ownership. Other users' ids
// report not-found rather than forbidden.
func (s *Server) ownedRoadmap(r *http.Request, countView bool) (models.Roadmap, error) {
	roadmapID := chi.URLParam(r, "roadmapId")
	fetch := services.FetchRoadmap
	if countView {
		fetch = services.GetRoadmap
	}
	roadmap, err := fetch(s.DB, roadmapID)
	if err != nil {
		return models.Roadmap{}, err
	}
	if roadmap.UserID != CurrentUserID(r) {
		return models.Roadmap{}, services.ErrNotFound("Roadmap not found")
	}
	return roadmap, nil
}

func (s *Server) GetRoadmap(w http.ResponseWriter, r *http.Request) {
	roadmap, err := s.ownedRoadmap(r, true)
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, roadmapDTO(roadmap))
}

type UpdateRoadmapRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Status      *string `json:"status"`
}

func (s *Server) UpdateRoadmap(w http.ResponseWriter, r *http.Request) {
	if _, err := s.ownedRoadmap(r, false); err != nil {
		WriteServiceError(w, err)
		return
	}
	var req UpdateRoadmapRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid payload")
		return
	}
	roadmap, err := services.UpdateRoadmap(s.DB, chi.URLParam(r, "roadmapId"), services.RoadmapUpdate{
		Title:       req.Title,
		Description: req.Description,
		Status:      req.Status,
	})
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, roadmapDTO(roadmap))
}

func (s *Server) DeleteRoadmap(w http.ResponseWriter, r *http.Request) {
	if _, err := s.ownedRoadmap(r, false); err != nil {
		WriteServiceError(w, err)
		return
	}
	if err := services.DeleteRoadmap(s.DB, chi.URLParam(r, "roadmapId")); err != nil {
		WriteServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

func (s *Server) RoadmapProgress(w http.ResponseWriter, r *http.Request) {
	roadmap, err := s.ownedRoadmap(r, false)
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	record, err := services.GetProgress(s.DB, roadmap.ID)
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	plan, err := services.RoadmapPlan(roadmap)
	if err != nil {
		WriteError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	type stepStateDTO struct {
		StepID string `json:"stepId"`
		Title  string `json:"title"`
		State  string `json:"state"`
	}
	states := []stepStateDTO{}
	for phaseIndex, phase := range plan.Phases {
		for stepIndex, step := range phase.Steps {
			stepID := strconv.Itoa(phaseIndex) + "-" + strconv.Itoa(stepIndex)
			states = append(states, stepStateDTO{
				StepID: stepID,
				Title:  step.Title,
				State:  string(s.Tracker.State(roadmap.ID, stepID)),
			})
		}
	}
	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"roadmapId":      roadmap.ID,
		"totalTimeSpent": record.TotalTimeSpent,
		"currentStreak":  record.CurrentStreak,
		"longestStreak":  record.LongestStreak,
		"totalWeeks":     record.TotalWeeks,
		"completedWeeks": record.CompletedWeeks,
		"steps":          states,
	})
}

func (s *Server) ToggleStep(w http.ResponseWriter, r *http.Request) {
	roadmap, err := s.ownedRoadmap(r, false)
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	phaseIndex, err := strconv.Atoi(chi.URLParam(r, "phaseIndex"))
	if err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid phase index")
		return
	}
	stepIndex, err := strconv.Atoi(chi.URLParam(r, "stepIndex"))
	if err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid step index")
		return
	}
	plan, err := services.RoadmapPlan(roadmap)
	if err != nil {
		WriteError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	result, err := s.Tracker.ToggleStep(CurrentUserID(r), plan, phaseIndex, stepIndex)
	if err != nil {
		WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	if result.State == stats.StepCompleted || result.State == stats.StepNotStarted {
		if err := services.UpdateRoadmapPercentage(s.DB, roadmap.ID, result.Percentage); err != nil {
			WriteError(w, http.StatusInternalServerError, "Internal server error")
			return
		}
	}
	if result.MinutesSpent > 0 {
		if _, err := services.TouchProgress(s.DB, roadmap.ID, result.MinutesSpent, s.Tracker.Now()); err != nil {
			WriteError(w, http.StatusInternalServerError, "Internal server error")
			return
		}
	}
	WriteJSON(w, http.StatusOK, result)
}
