package httpapi

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"careercraft-backend-go/internal/services"
	"careercraft-backend-go/internal/stats"

	"github.com/gorilla/websocket"
)

type StatsResponse struct {
	stats.Stats
	Level         int    `json:"level"`
	LevelTitle    string `json:"levelTitle"`
	XPInLevel     int    `json:"xpInLevel"`
	XPForNext     int    `json:"xpForNextLevel"`
	LevelProgress int    `json:"levelProgress"`
}

func (s *Server) MyStats(w http.ResponseWriter, r *http.Request) {
	userID := CurrentUserID(r)
	computed, err := s.Aggregator.ComputeStats(userID)
	if err != nil {
		WriteError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	level := stats.LevelOf(computed.TotalXP)
	WriteJSON(w, http.StatusOK, StatsResponse{
		Stats:         computed,
		Level:         level.Level,
		LevelTitle:    stats.LevelTitle(level.Level),
		XPInLevel:     level.ProgressToNext,
		XPForNext:     level.XPNeededForNext,
		LevelProgress: level.ProgressPercentage,
	})
}

type ActivityItem struct {
	ID        int64  `json:"id"`
	Type      string `json:"type"`
	Title     string `json:"title"`
	Subtitle  string `json:"subtitle,omitempty"`
	TimeSpent int    `json:"timeSpent"`
	TimeAgo   string `json:"timeAgo"`
	Date      string `json:"date"`
}

func (s *Server) RecentActivity(w http.ResponseWriter, r *http.Request) {
	limit := parseInt(r.URL.Query().Get("limit"), 20)
	if limit > stats.DefaultCap {
		limit = stats.DefaultCap
	}
	events, err := s.Recorder.Store.ByUser(CurrentUserID(r))
	if err != nil {
		WriteError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	now := time.Now().UTC()
	items := []ActivityItem{}
	for i := len(events) - 1; i >= 0 && len(items) < limit; i-- {
		items = append(items, activityItem(events[i], now))
	}
	WriteJSON(w, http.StatusOK, map[string]interface{}{"items": items})
}

func activityItem(ev stats.Event, now time.Time) ActivityItem {
	item := ActivityItem{
		ID:        ev.ID,
		Type:      string(ev.Type),
		TimeSpent: ev.Minutes,
		TimeAgo:   timeAgo(ev.Timestamp, now),
		Date:      ev.Date,
	}
	switch ev.Type {
	case stats.EventLessonCompleted:
		item.Title = "Completed: " + orFallback(ev.Meta.LessonTitle, "a lesson")
		item.Subtitle = ev.Meta.Phase
	case stats.EventRoadmapGenerated:
		item.Title = "Generated roadmap"
		item.Subtitle = ev.Meta.Title
	case stats.EventProfileUpdated:
		item.Title = "Updated profile"
	case stats.EventStreakMilestone:
		item.Title = orFallback(ev.Meta.Title, "Streak milestone")
		item.Subtitle = strconv.Itoa(ev.Meta.StreakDays) + " day streak"
	case stats.EventSettingsUpdated:
		item.Title = "Updated settings"
	case stats.EventWelcome:
		item.Title = orFallback(ev.Meta.Title, "Welcome")
	default:
		item.Title = orFallback(ev.Meta.Title, string(ev.Type))
	}
	return item
}

func orFallback(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}

func timeAgo(at, now time.Time) string {
	diff := now.Sub(at)
	switch {
	case diff < time.Minute:
		return "Just now"
	case diff < time.Hour:
		return strconv.Itoa(int(diff.Minutes())) + "m ago"
	case diff < 24*time.Hour:
		return strconv.Itoa(int(diff.Hours())) + "h ago"
	default:
		return strconv.Itoa(int(diff.Hours()/24)) + "d ago"
	}
}

type RecordActivityRequest struct {
	Type string     `json:"type"`
	Meta stats.Meta `json:"meta"`
}

func (s *Server) RecordActivity(w http.ResponseWriter, r *http.Request) {
	var req RecordActivityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid payload")
		return
	}
	if req.Type == "" {
		WriteError(w, http.StatusBadRequest, "Activity type is required")
		return
	}
	s.Recorder.Record(CurrentUserID(r), stats.EventType(req.Type), req.Meta)
	WriteJSON(w, http.StatusOK, map[string]string{"status": "recorded"})
}

func (s *Server) Health(w http.ResponseWriter, r *http.Request) {
	snapshot := services.CaptureHealth(s.DB, s.Config.HealthDiskPath)
	status := http.StatusOK
	if snapshot.Status != "ok" {
		status = http.StatusServiceUnavailable
	}
	WriteJSON(w, status, snapshot)
}

func (s *Server) StatsSocket(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("token")
	if query == "" {
		WriteError(w, http.StatusUnauthorized, "Authentication failed")
		return
	}
	token, claims, err := s.Tokens.ParseToken(query)
	if err != nil || !token.Valid || claims["typ"] != "access" {
		WriteError(w, http.StatusUnauthorized, "Authentication failed")
		return
	}
	userID, _ := claims["sub"].(string)
	if userID == "" {
		WriteError(w, http.StatusUnauthorized, "Authentication failed")
		return
	}
	upgrader := websocket.Upgrader{
		CheckOrigin: func(r *http.Request) bool { return true },
	}
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	s.Hub.Add(userID, conn)
	defer func() {
		s.Hub.Remove(userID, conn)
		_ = conn.Close()
	}()
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}
}
