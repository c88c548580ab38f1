package models

import "time"

type User struct {
	ID              string     `db:"id"`
	Name            string     `db:"name"`
	Email           string     `db:"email"`
	PasswordHash    string     `db:"password_hash"`
	Interests       string     `db:"interests"`
	CareerGoals     *string    `db:"career_goals"`
	ExperienceLevel *string    `db:"experience_level"`
	ResumeText      *string    `db:"resume_text"`
	Skills          []byte     `db:"skills"`
	Preferences     []byte     `db:"preferences"`
	IsActive        bool       `db:"is_active"`
	LastLoginAt     *time.Time `db:"last_login_at"`
	LoginCount      int        `db:"login_count"`
	CreatedAt       time.Time  `db:"created_at"`
	UpdatedAt       time.Time  `db:"updated_at"`
}

type UserProfile struct {
	UserID    string  `db:"user_id"`
	FirstName *string `db:"first_name"`
	LastName  *string `db:"last_name"`
	Phone     *string `db:"phone"`
	Location  *string `db:"location"`
	Bio       *string `db:"bio"`
	Links     []byte  `db:"links"`
}

// Skill is one entry of a user's skills jsonb column.
type Skill struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Level    string `json:"level,omitempty"`
	Category string `json:"category,omitempty"`
}

// Preferences is the users.preferences jsonb column.
type Preferences struct {
	EmailNotifications bool   `json:"emailNotifications"`
	Theme              string `json:"theme,omitempty"`
	Language           string `json:"language,omitempty"`
	Timezone           string `json:"timezone,omitempty"`
}

type RoadmapStep struct {
	Title     string   `json:"title"`
	Resources []string `json:"resources,omitempty"`
	Completed bool     `json:"completed,omitempty"`
}

type RoadmapPhase struct {
	Title    string        `json:"title"`
	Duration string        `json:"duration,omitempty"`
	Steps    []RoadmapStep `json:"steps"`
}

// RoadmapSummaryProgress is the roadmaps.progress jsonb column. The percentage
// is a cached value recomputed from step completions, never edited directly.
type RoadmapSummaryProgress struct {
	CurrentWeek      int        `json:"currentWeek"`
	CompletedWeeks   int        `json:"completedWeeks"`
	TotalWeeks       int        `json:"totalWeeks"`
	Percentage       int        `json:"percentage"`
	StartDate        time.Time  `json:"startDate"`
	EstimatedEndDate time.Time  `json:"estimatedEndDate"`
	ActualEndDate    *time.Time `json:"actualEndDate,omitempty"`
}

type Roadmap struct {
	ID              string    `db:"id"`
	UserID          string    `db:"user_id"`
	Title           string    `db:"title"`
	Description     string    `db:"description"`
	Interests       []byte    `db:"interests"`
	TargetRole      *string   `db:"target_role"`
	ExperienceLevel *string   `db:"experience_level"`
	GeneratedBy     string    `db:"generated_by"`
	ModelName       *string   `db:"model_name"`
	RoadmapText     string    `db:"roadmap_text"`
	Phases          []byte    `db:"phases"`
	Progress        []byte    `db:"progress"`
	Status          string    `db:"status"`
	Views           int       `db:"views"`
	Likes           int       `db:"likes"`
	Shares          int       `db:"shares"`
	Category        string    `db:"category"`
	Tags            []byte    `db:"tags"`
	CreatedAt       time.Time `db:"created_at"`
	UpdatedAt       time.Time `db:"updated_at"`
}

type ResourceCompletion struct {
	ResourceID    string    `json:"resourceId,omitempty"`
	Title         string    `json:"title"`
	CompletedDate time.Time `json:"completedDate"`
	Rating        int       `json:"rating,omitempty"`
	Notes         string    `json:"notes,omitempty"`
}

type WeekProgress struct {
	Week               int                  `json:"week"`
	Status             string               `json:"status"`
	StartDate          *time.Time           `json:"startDate,omitempty"`
	CompletedDate      *time.Time           `json:"completedDate,omitempty"`
	TimeSpent          int                  `json:"timeSpent"`
	CompletedResources []ResourceCompletion `json:"completedResources,omitempty"`
	CompletedProjects  []ResourceCompletion `json:"completedProjects,omitempty"`
	Notes              string               `json:"notes,omitempty"`
}

type SkillProgress struct {
	SkillName          string    `json:"skillName"`
	InitialLevel       string    `json:"initialLevel,omitempty"`
	CurrentLevel       string    `json:"currentLevel,omitempty"`
	TargetLevel        string    `json:"targetLevel,omitempty"`
	ProgressPercentage int       `json:"progressPercentage"`
	LastUpdated        time.Time `json:"lastUpdated"`
}

type Achievement struct {
	Type        string    `json:"type"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	EarnedDate  time.Time `json:"earnedDate"`
	Icon        string    `json:"icon,omitempty"`
}

// ProgressRecord pairs 1:1 with a roadmap; created in the same transaction.
type ProgressRecord struct {
	ID               string     `db:"id"`
	UserID           string     `db:"user_id"`
	RoadmapID        string     `db:"roadmap_id"`
	Weekly           []byte     `db:"weekly"`
	TotalTimeSpent   int        `db:"total_time_spent"`
	CompletedWeeks   int        `db:"completed_weeks"`
	TotalWeeks       int        `db:"total_weeks"`
	CurrentStreak    int        `db:"current_streak"`
	LongestStreak    int        `db:"longest_streak"`
	LastActivityDate *time.Time `db:"last_activity_date"`
	Skills           []byte     `db:"skills"`
	Achievements     []byte     `db:"achievements"`
	CreatedAt        time.Time  `db:"created_at"`
	UpdatedAt        time.Time  `db:"updated_at"`
}

type ActivityEvent struct {
	ID         int64     `db:"id"`
	UserID     *string   `db:"user_id"`
	EventType  string    `db:"event_type"`
	EventDate  string    `db:"event_date"`
	OccurredAt time.Time `db:"occurred_at"`
	Minutes    int       `db:"minutes"`
	Payload    []byte    `db:"payload"`
}
