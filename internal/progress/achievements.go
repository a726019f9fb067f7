package progress

import "fmt"

// Badge is one achievement with its unlock state and, while locked, how
// close the user is.
type Badge struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Unlocked    bool    `json:"unlocked"`
	Progress    float64 `json:"progress"`
	Requirement string  `json:"requirement,omitempty"`
}

// Achievements derives the badge set from lifetime totals and the current
// streak.
func (s *Service) Achievements(userID string) ([]Badge, error) {
	stats, err := s.repo.LifetimeStats(userID)
	if err != nil {
		return nil, fmt.Errorf("read lifetime stats: %w", err)
	}
	streak, err := s.CurrentStreak(userID)
	if err != nil {
		return nil, err
	}

	return []Badge{
		thresholdBadge("first-session", "First Step", "Complete your first focus session",
			stats.TotalSessions, 1, "%d/%d sessions"),
		thresholdBadge("focus-hour", "Hour Hero", "Reach 60 minutes of total focus time",
			stats.TotalFocusMinutes, 60, "%d/%d min"),
		thresholdBadge("streak-3", "On Fire", "Maintain a 3-day focus streak",
			streak, 3, "%d/%d days"),
		thresholdBadge("streak-7", "Week Warrior", "Maintain a 7-day focus streak",
			streak, 7, "%d/%d days"),
		thresholdBadge("sessions-10", "Dedicated", "Complete 10 focus sessions",
			stats.TotalSessions, 10, "%d/%d sessions"),
		thresholdBadge("focus-5-hours", "Focus Master", "Accumulate 5 hours of focus time",
			stats.TotalFocusMinutes, 300, "%d/%d min"),
		thresholdBadge("goal-crusher", "Goal Crusher", "Complete 5 goals",
			stats.GoalsCompleted, 5, "%d/%d goals"),
		thresholdBadge("streak-30", "Legend", "Maintain a 30-day focus streak",
			streak, 30, "%d/%d days"),
	}, nil
}

func thresholdBadge(id, name, description string, value, threshold int, format string) Badge {
	b := Badge{
		ID:          id,
		Name:        name,
		Description: description,
		Unlocked:    value >= threshold,
		Progress:    100,
	}
	if !b.Unlocked {
		b.Progress = float64(value) / float64(threshold) * 100
		b.Requirement = fmt.Sprintf(format, value, threshold)
	}
	return b
}
