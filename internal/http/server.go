package httpapi

import (
	"net/http"
	"time"

	"careercraft-backend-go/internal/ai"
	"careercraft-backend-go/internal/config"
	"careercraft-backend-go/internal/services"
	"careercraft-backend-go/internal/stats"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/jmoiron/sqlx"
)

type Server struct {
	DB         *sqlx.DB
	Config     config.Config
	Tokens     services.TokenService
	Hub        *services.StatsHub
	AI         ai.Provider
	Recorder   *stats.Recorder
	Streaks    *stats.StreakCalculator
	Aggregator *stats.Aggregator
	Tracker    *stats.Tracker
}

func NewServer(db *sqlx.DB, cfg config.Config, hub *services.StatsHub) *Server {
	tokens := services.TokenService{
		Secret:     []byte(cfg.JWTSecret),
		Issuer:     cfg.JWTIssuer,
		AccessTTL:  time.Duration(cfg.AccessTTLSeconds) * time.Second,
		RefreshTTL: time.Duration(cfg.RefreshTTLSeconds) * time.Second,
	}

	store := stats.NewSQLStore(db)
	streaks := stats.NewStreakCalculator(store)
	recorder := stats.NewRecorder(store)
	recorder.Cap = cfg.ActivityLogCap
	recorder.Notify = func(userID string) {
		streaks.Invalidate(userID)
		hub.Broadcast(services.StatsNotice{UserID: userID, Kind: "stats_changed"})
	}
	aggregator := stats.NewAggregator(store, &services.SQLRoadmapSource{DB: db}, streaks)
	tracker := stats.NewTracker(&services.SQLCompletions{DB: db}, recorder)

	// without a credential generation goes straight to the template path
	var provider ai.Provider
	if gemini := ai.NewGeminiProvider(cfg.GeminiAPIKey, cfg.GeminiModel, time.Duration(cfg.AITimeoutSeconds)*time.Second); gemini.Configured() {
		provider = gemini
	}

	return &Server{
		DB:         db,
		Config:     cfg,
		Tokens:     tokens,
		Hub:        hub,
		AI:         provider,
		Recorder:   recorder,
		Streaks:    streaks,
		Aggregator: aggregator,
		Tracker:    tracker,
	}
}

func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(RequestLogger)
	if len(s.Config.CorsOrigins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins:   s.Config.CorsOrigins,
			AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
			AllowCredentials: false,
			MaxAge:           300,
		}))
	}

	r.Route("/api", func(api chi.Router) {
		api.Post("/auth/register", s.Register)
		api.Post("/auth/login", s.Login)
		api.Post("/auth/refresh", s.Refresh)
		api.Post("/auth/logout", s.Logout)

		api.Get("/health", s.Health)

		api.Route("/roadmap", func(roadmap chi.Router) {
			roadmap.Use(WithAuth(s.Tokens))
			roadmap.Post("/", s.GenerateRoadmap)
			roadmap.Get("/", s.ListRoadmaps)
			roadmap.Get("/{roadmapId}", s.GetRoadmap)
			roadmap.Put("/{roadmapId}", s.UpdateRoadmap)
			roadmap.Delete("/{roadmapId}", s.DeleteRoadmap)
			roadmap.Get("/{roadmapId}/progress", s.RoadmapProgress)
			roadmap.Post("/{roadmapId}/steps/{phaseIndex}/{stepIndex}/toggle", s.ToggleStep)
		})

		api.Route("/users", func(users chi.Router) {
			users.Use(WithAuth(s.Tokens))
			users.Get("/me", s.Me)
			users.Get("/me/dashboard", s.Dashboard)
			users.Get("/me/analytics", s.Analytics)
			users.Put("/me", s.UpdateProfile)
			users.Put("/me/password", s.ChangePassword)
			users.Put("/me/preferences", s.UpdatePreferences)
			users.Post("/me/skills", s.AddSkill)
			users.Put("/me/skills/{skillId}", s.UpdateSkill)
			users.Delete("/me/skills/{skillId}", s.DeleteSkill)
		})

		api.Route("/resume", func(resume chi.Router) {
			resume.Use(WithAuth(s.Tokens))
			resume.Get("/text", s.GetResumeText)
			resume.Put("/text", s.SetResumeText)
		})

		api.Route("/stats", func(st chi.Router) {
			st.Use(WithAuth(s.Tokens))
			st.Get("/me", s.MyStats)
		})

		api.Route("/activity", func(activity chi.Router) {
			activity.Use(WithAuth(s.Tokens))
			activity.Get("/", s.RecentActivity)
			activity.Post("/", s.RecordActivity)
		})
	})

	r.Get("/ws/stats", s.StatsSocket)
	return r
}
