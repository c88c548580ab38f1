package httpapi

import (
	"encoding/json"
	"math/rand"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"careercraft-backend-go/internal/config"
	"careercraft-backend-go/internal/services"
	"careercraft-backend-go/internal/stats"
)

type stubRoadmaps struct {
	summaries []stats.RoadmapSummary
}

func (s stubRoadmaps) Summaries(string) ([]stats.RoadmapSummary, error) {
	return s.summaries, nil
}

func newTestServer(summaries []stats.RoadmapSummary) *Server {
	tokens := services.TokenService{
		Secret:     []byte("test-secret"),
		Issuer:     "test",
		AccessTTL:  time.Hour,
		RefreshTTL: 24 * time.Hour,
	}
	store := stats.NewMemoryStore()
	streaks := stats.NewStreakCalculator(store)
	recorder := stats.NewRecorder(store)
	recorder.Rand = rand.New(rand.NewSource(1))
	recorder.Notify = func(userID string) { streaks.Invalidate(userID) }
	return &Server{
		Config:     config.Config{},
		Tokens:     tokens,
		Hub:        services.NewStatsHub(),
		Recorder:   recorder,
		Streaks:    streaks,
		Aggregator: stats.NewAggregator(store, stubRoadmaps{summaries: summaries}, streaks),
		Tracker:    stats.NewTracker(stats.NewMemoryCompletions(), recorder),
	}
}

func authedRequest(t *testing.T, server *Server, method, target, body string) *http.Request {
	t.Helper()
	access, _, err := server.Tokens.CreateAccessToken("u1", "u1@example.com")
	if err != nil {
		t.Fatalf("token: %v", err)
	}
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set("Authorization", "Bearer "+access)
	return req
}

func TestWithAuth(t *testing.T) {
	server := newTestServer(nil)
	router := server.Router()

	t.Run("rejects missing token", func(t *testing.T) {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/stats/me", nil))
		if rec.Code != http.StatusUnauthorized {
			t.Errorf("expected 401, got %d", rec.Code)
		}
	})

	t.Run("rejects garbage token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/stats/me", nil)
		req.Header.Set("Authorization", "Bearer not-a-token")
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		if rec.Code != http.StatusUnauthorized {
			t.Errorf("expected 401, got %d", rec.Code)
		}
	})

	t.Run("rejects a refresh token on access routes", func(t *testing.T) {
		refresh, err := server.Tokens.CreateRefreshToken("u1")
		if err != nil {
			t.Fatalf("token: %v", err)
		}
		req := httptest.NewRequest(http.MethodGet, "/api/stats/me", nil)
		req.Header.Set("Authorization", "Bearer "+refresh)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		if rec.Code != http.StatusUnauthorized {
			t.Errorf("expected 401, got %d", rec.Code)
		}
	})

	t.Run("accepts a valid access token", func(t *testing.T) {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, authedRequest(t, server, http.MethodGet, "/api/stats/me", ""))
		if rec.Code != http.StatusOK {
			t.Errorf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
	})
}

func TestMyStats(t *testing.T) {
	server := newTestServer([]stats.RoadmapSummary{
		{ID: "r1", TotalSteps: 2, CompletedSteps: 2},
	})
	router := server.Router()

	server.Recorder.Record("u1", stats.EventLessonCompleted, stats.Meta{ActualMinutes: 40})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, authedRequest(t, server, http.MethodGet, "/api/stats/me", ""))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var resp StatsResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	// 2 lessons * 10 + 1 streak day * 5 + 1 roadmap * 50 + 40/10
	if resp.TotalXP != 79 {
		t.Errorf("expected 79 XP, got %d", resp.TotalXP)
	}
	if resp.Level != 1 || resp.LevelTitle != "Beginner" {
		t.Errorf("unexpected level: %d %s", resp.Level, resp.LevelTitle)
	}
	if resp.CurrentStreak != 1 {
		t.Errorf("expected streak 1, got %d", resp.CurrentStreak)
	}
	if resp.WeeklyLessons != 1 || resp.TimeSpentThisWeek != 40 {
		t.Errorf("unexpected weekly figures: %d lessons, %v time", resp.WeeklyLessons, resp.TimeSpentThisWeek)
	}
}

func TestActivityEndpoints(t *testing.T) {
	server := newTestServer(nil)
	router := server.Router()

	t.Run("record then list", func(t *testing.T) {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, authedRequest(t, server, http.MethodPost, "/api/activity/",
			`{"type":"lesson_completed","meta":{"lessonTitle":"Goroutines","actualMinutes":15}}`))
		if rec.Code != http.StatusOK {
			t.Fatalf("record: expected 200, got %d", rec.Code)
		}

		rec = httptest.NewRecorder()
		router.ServeHTTP(rec, authedRequest(t, server, http.MethodGet, "/api/activity/", ""))
		if rec.Code != http.StatusOK {
			t.Fatalf("list: expected 200, got %d", rec.Code)
		}
		var resp struct {
			Items []ActivityItem `json:"items"`
		}
		if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if len(resp.Items) != 1 {
			t.Fatalf("expected 1 item, got %d", len(resp.Items))
		}
		item := resp.Items[0]
		if item.Title != "Completed: Goroutines" {
			t.Errorf("unexpected title %q", item.Title)
		}
		if item.TimeSpent != 15 {
			t.Errorf("expected 15 minutes, got %d", item.TimeSpent)
		}
		if item.TimeAgo != "Just now" {
			t.Errorf("expected Just now, got %q", item.TimeAgo)
		}
	})

	t.Run("rejects an empty type", func(t *testing.T) {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, authedRequest(t, server, http.MethodPost, "/api/activity/", `{"meta":{}}`))
		if rec.Code != http.StatusBadRequest {
			t.Errorf("expected 400, got %d", rec.Code)
		}
	})

	t.Run("newest first", func(t *testing.T) {
		server := newTestServer(nil)
		router := server.Router()
		server.Recorder.Record("u1", stats.EventWelcome, stats.Meta{Title: "first"})
		server.Recorder.Record("u1", stats.EventWelcome, stats.Meta{Title: "second"})

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, authedRequest(t, server, http.MethodGet, "/api/activity/", ""))
		var resp struct {
			Items []ActivityItem `json:"items"`
		}
		_ = json.Unmarshal(rec.Body.Bytes(), &resp)
		if len(resp.Items) != 2 || resp.Items[0].Title != "second" {
			t.Errorf("unexpected order: %+v", resp.Items)
		}
	})
}

func TestTimeAgo(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	cases := []struct {
		at   time.Time
		want string
	}{
		{now.Add(-30 * time.Second), "Just now"},
		{now.Add(-5 * time.Minute), "5m ago"},
		{now.Add(-3 * time.Hour), "3h ago"},
		{now.Add(-49 * time.Hour), "2d ago"},
	}
	for _, tc := range cases {
		if got := timeAgo(tc.at, now); got != tc.want {
			t.Errorf("timeAgo(%v) = %q, want %q", tc.at, got, tc.want)
		}
	}
}
