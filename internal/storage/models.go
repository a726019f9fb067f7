package storage

import (
	"time"

	"github.com/focusbuddy/focusd/internal/domain"
)

// FocusSessionRecord is one timed session. Break sessions are never
// persisted; only focus sessions reach this table.
type FocusSessionRecord struct {
	ID              string             `json:"id"`
	UserID          string             `json:"userId"`
	SessionType     domain.SessionType `json:"sessionType"`
	DurationMinutes int                `json:"durationMinutes"`
	StartedAt       time.Time          `json:"startedAt"`
	EndedAt         *time.Time         `json:"endedAt,omitempty"`
	Completed       bool               `json:"completed"`
	Notes           string             `json:"notes,omitempty"`
	CreatedAt       time.Time          `json:"createdAt"`
}

// DailyProgressRecord is the per-day aggregate. Date is a YYYY-MM-DD
// calendar day; one row per (user, date). StreakDays is derived at write
// time from a scan of recent history, never trusted incrementally.
type DailyProgressRecord struct {
	ID                string `json:"id"`
	UserID            string `json:"userId"`
	Date              string `json:"date"`
	TotalFocusMinutes int    `json:"totalFocusMinutes"`
	SessionsCompleted int    `json:"sessionsCompleted"`
	StreakDays        int    `json:"streakDays"`
}

type HabitRecord struct {
	ID          string    `json:"id"`
	UserID      string    `json:"userId"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	Icon        string    `json:"icon,omitempty"`
	Frequency   string    `json:"frequency"`
	IsActive    bool      `json:"isActive"`
	CreatedAt   time.Time `json:"createdAt"`
}

// HabitCompletionRecord marks one habit done on one calendar day. The
// store enforces uniqueness on (habit, date): a day is complete or not,
// and duplicate inserts collapse into the existing row.
type HabitCompletionRecord struct {
	ID            string `json:"id"`
	HabitID       string `json:"habitId"`
	UserID        string `json:"userId"`
	CompletedDate string `json:"completedDate"`
}

type GoalRecord struct {
	ID          string     `json:"id"`
	UserID      string     `json:"userId"`
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	Category    string     `json:"category"`
	Priority    string     `json:"priority"`
	Progress    int        `json:"progress"`
	Completed   bool       `json:"completed"`
	CompletedAt *time.Time `json:"completedAt,omitempty"`
	TargetDate  string     `json:"targetDate,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

type ProfileRecord struct {
	UserID              string    `json:"userId"`
	DisplayName         string    `json:"displayName,omitempty"`
	DailyFocusGoalMins  int       `json:"dailyFocusGoalMinutes"`
	DistractingApps     []string  `json:"distractingApps"`
	OnboardingCompleted bool      `json:"onboardingCompleted"`
	CreatedAt           time.Time `json:"createdAt"`
	UpdatedAt           time.Time `json:"updatedAt"`
}

// LifetimeStats are the all-time aggregates that drive achievements.
type LifetimeStats struct {
	TotalFocusMinutes int `json:"totalFocusMinutes"`
	TotalSessions     int `json:"totalSessions"`
	GoalsCompleted    int `json:"goalsCompleted"`
}
