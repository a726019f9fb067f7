package storage

import (
	"errors"
	"time"
)

// ErrNotFound is returned when a lookup by identifier matches no row.
var ErrNotFound = errors.New("record not found")

type Repository interface {
	// Focus sessions. CompleteSession marks the row finished; lookups for
	// unknown identifiers return ErrNotFound.
	InsertSession(record *FocusSessionRecord) error
	CompleteSession(id string, endedAt time.Time) error
	DeleteSession(id string) error
	RecentSessions(userID string, limit int) ([]FocusSessionRecord, error)

	// Daily progress. ProgressByDate returns (nil, nil) when the day has
	// no row yet; ProgressSince lists rows from the given YYYY-MM-DD day
	// onward in ascending date order.
	ProgressByDate(userID, date string) (*DailyProgressRecord, error)
	ProgressSince(userID, since string) ([]DailyProgressRecord, error)
	InsertProgress(record *DailyProgressRecord) error
	AccumulateProgress(id string, minutes int) error

	// Habits and their per-day completions. InsertHabitCompletion is
	// duplicate-tolerant: re-completing an already complete day is a no-op.
	InsertHabit(record *HabitRecord) error
	ListHabits(userID string) ([]HabitRecord, error)
	DeleteHabit(id, userID string) error
	InsertHabitCompletion(record *HabitCompletionRecord) error
	CompletionsSince(userID, since string) ([]HabitCompletionRecord, error)

	// Goals. GoalByID returns ErrNotFound for an unknown identifier.
	InsertGoal(record *GoalRecord) error
	GoalByID(id, userID string) (*GoalRecord, error)
	ListGoals(userID string) ([]GoalRecord, error)
	UpdateGoal(record *GoalRecord) error
	DeleteGoal(id, userID string) error

	// Profile returns (nil, nil) when the user has none yet.
	Profile(userID string) (*ProfileRecord, error)
	UpsertProfile(record *ProfileRecord) error

	LifetimeStats(userID string) (*LifetimeStats, error)

	Close() error
}
