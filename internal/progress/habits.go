package progress

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/focusbuddy/focusd/internal/domain"
	"github.com/focusbuddy/focusd/internal/storage"
)

// HabitStatus is a habit joined with its derived completion state.
type HabitStatus struct {
	storage.HabitRecord
	Streak         int  `json:"streak"`
	CompletedToday bool `json:"completedToday"`
}

func (s *Service) CreateHabit(userID, title, description, icon, frequency string) (*storage.HabitRecord, error) {
	if title == "" {
		return nil, fmt.Errorf("%w: habit title is required", domain.ErrInvalidInput)
	}
	if frequency == "" {
		frequency = "daily"
	}

	rec := &storage.HabitRecord{
		ID:          uuid.New().String(),
		UserID:      userID,
		Title:       title,
		Description: description,
		Icon:        icon,
		Frequency:   frequency,
		IsActive:    true,
		CreatedAt:   s.now(),
	}
	if err := s.repo.InsertHabit(rec); err != nil {
		return nil, fmt.Errorf("insert habit: %w", err)
	}
	return rec, nil
}

func (s *Service) DeleteHabit(userID, habitID string) error {
	if err := s.repo.DeleteHabit(habitID, userID); err != nil {
		if err == storage.ErrNotFound {
			return err
		}
		return fmt.Errorf("delete habit: %w", err)
	}
	return nil
}

// CompleteHabit marks the habit done for the given YYYY-MM-DD day, or for
// today when date is empty. Completing an already complete day is a no-op;
// the store collapses the duplicate.
func (s *Service) CompleteHabit(userID, habitID, date string) error {
	day := date
	if day == "" {
		day = domain.FormatDay(s.now())
	} else {
		parsed, err := domain.ParseDay(day)
		if err != nil {
			return err
		}
		day = domain.FormatDay(parsed)
	}

	rec := &storage.HabitCompletionRecord{
		ID:            uuid.New().String(),
		HabitID:       habitID,
		UserID:        userID,
		CompletedDate: day,
	}
	if err := s.repo.InsertHabitCompletion(rec); err != nil {
		return fmt.Errorf("insert habit completion: %w", err)
	}
	return nil
}

// Habits lists the user's active habits with per-habit streak and
// completed-today status, derived from the last thirty days of completions.
func (s *Service) Habits(userID string) ([]HabitStatus, error) {
	habits, err := s.repo.ListHabits(userID)
	if err != nil {
		return nil, fmt.Errorf("list habits: %w", err)
	}

	now := s.now()
	since := domain.FormatDay(now.AddDate(0, 0, -habitHistoryDays))
	completions, err := s.repo.CompletionsSince(userID, since)
	if err != nil {
		return nil, fmt.Errorf("list habit completions: %w", err)
	}

	today := domain.FormatDay(now)
	byHabit := make(map[string][]time.Time)
	doneToday := make(map[string]bool)
	for _, c := range completions {
		day, err := domain.ParseDay(c.CompletedDate)
		if err != nil {
			return nil, err
		}
		byHabit[c.HabitID] = append(byHabit[c.HabitID], day)
		if c.CompletedDate == today {
			doneToday[c.HabitID] = true
		}
	}

	statuses := make([]HabitStatus, len(habits))
	for i, h := range habits {
		statuses[i] = HabitStatus{
			HabitRecord:    h,
			Streak:         domain.ComputeStreak(byHabit[h.ID], now),
			CompletedToday: doneToday[h.ID],
		}
	}
	return statuses, nil
}
