package progress

import (
	"sort"
	"time"

	"github.com/focusbuddy/focusd/internal/storage"
)

// fakeRepo is an in-memory storage.Repository for service tests. Set
// failNext to make the next write fail.
type fakeRepo struct {
	sessions    map[string]*storage.FocusSessionRecord
	daily       map[string]*storage.DailyProgressRecord
	habits      map[string]*storage.HabitRecord
	completions map[string]*storage.HabitCompletionRecord
	goals       map[string]*storage.GoalRecord
	profiles    map[string]*storage.ProfileRecord

	failNext error
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		sessions:    make(map[string]*storage.FocusSessionRecord),
		daily:       make(map[string]*storage.DailyProgressRecord),
		habits:      make(map[string]*storage.HabitRecord),
		completions: make(map[string]*storage.HabitCompletionRecord),
		goals:       make(map[string]*storage.GoalRecord),
		profiles:    make(map[string]*storage.ProfileRecord),
	}
}

func (f *fakeRepo) fail() error {
	err := f.failNext
	f.failNext = nil
	return err
}

func (f *fakeRepo) InsertSession(rec *storage.FocusSessionRecord) error {
	if err := f.fail(); err != nil {
		return err
	}
	cp := *rec
	f.sessions[rec.ID] = &cp
	return nil
}

func (f *fakeRepo) CompleteSession(id string, endedAt time.Time) error {
	if err := f.fail(); err != nil {
		return err
	}
	rec, ok := f.sessions[id]
	if !ok {
		return storage.ErrNotFound
	}
	rec.Completed = true
	rec.EndedAt = &endedAt
	return nil
}

func (f *fakeRepo) DeleteSession(id string) error {
	if err := f.fail(); err != nil {
		return err
	}
	delete(f.sessions, id)
	return nil
}

func (f *fakeRepo) RecentSessions(userID string, limit int) ([]storage.FocusSessionRecord, error) {
	var out []storage.FocusSessionRecord
	for _, rec := range f.sessions {
		if rec.UserID == userID {
			out = append(out, *rec)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartedAt.After(out[j].StartedAt) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (f *fakeRepo) ProgressByDate(userID, date string) (*storage.DailyProgressRecord, error) {
	for _, rec := range f.daily {
		if rec.UserID == userID && rec.Date == date {
			cp := *rec
			return &cp, nil
		}
	}
	return nil, nil
}

func (f *fakeRepo) ProgressSince(userID, since string) ([]storage.DailyProgressRecord, error) {
	var out []storage.DailyProgressRecord
	for _, rec := range f.daily {
		if rec.UserID == userID && rec.Date >= since {
			out = append(out, *rec)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	return out, nil
}

func (f *fakeRepo) InsertProgress(rec *storage.DailyProgressRecord) error {
	if err := f.fail(); err != nil {
		return err
	}
	cp := *rec
	f.daily[rec.ID] = &cp
	return nil
}

func (f *fakeRepo) AccumulateProgress(id string, minutes int) error {
	rec, ok := f.daily[id]
	if !ok {
		return storage.ErrNotFound
	}
	rec.TotalFocusMinutes += minutes
	rec.SessionsCompleted++
	return nil
}

func (f *fakeRepo) InsertHabit(rec *storage.HabitRecord) error {
	cp := *rec
	f.habits[rec.ID] = &cp
	return nil
}

func (f *fakeRepo) ListHabits(userID string) ([]storage.HabitRecord, error) {
	var out []storage.HabitRecord
	for _, rec := range f.habits {
		if rec.UserID == userID && rec.IsActive {
			out = append(out, *rec)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeRepo) DeleteHabit(id, userID string) error {
	rec, ok := f.habits[id]
	if !ok || rec.UserID != userID {
		return storage.ErrNotFound
	}
	delete(f.habits, id)
	return nil
}

func (f *fakeRepo) InsertHabitCompletion(rec *storage.HabitCompletionRecord) error {
	for _, existing := range f.completions {
		if existing.HabitID == rec.HabitID && existing.CompletedDate == rec.CompletedDate {
			return nil
		}
	}
	cp := *rec
	f.completions[rec.ID] = &cp
	return nil
}

func (f *fakeRepo) CompletionsSince(userID, since string) ([]storage.HabitCompletionRecord, error) {
	var out []storage.HabitCompletionRecord
	for _, rec := range f.completions {
		if rec.UserID == userID && rec.CompletedDate >= since {
			out = append(out, *rec)
		}
	}
	return out, nil
}

func (f *fakeRepo) InsertGoal(rec *storage.GoalRecord) error {
	cp := *rec
	f.goals[rec.ID] = &cp
	return nil
}

func (f *fakeRepo) GoalByID(id, userID string) (*storage.GoalRecord, error) {
	rec, ok := f.goals[id]
	if !ok || rec.UserID != userID {
		return nil, storage.ErrNotFound
	}
	cp := *rec
	return &cp, nil
}

func (f *fakeRepo) ListGoals(userID string) ([]storage.GoalRecord, error) {
	var out []storage.GoalRecord
	for _, rec := range f.goals {
		if rec.UserID == userID {
			out = append(out, *rec)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeRepo) UpdateGoal(rec *storage.GoalRecord) error {
	if _, ok := f.goals[rec.ID]; !ok {
		return storage.ErrNotFound
	}
	cp := *rec
	f.goals[rec.ID] = &cp
	return nil
}

func (f *fakeRepo) DeleteGoal(id, userID string) error {
	rec, ok := f.goals[id]
	if !ok || rec.UserID != userID {
		return storage.ErrNotFound
	}
	delete(f.goals, id)
	return nil
}

func (f *fakeRepo) Profile(userID string) (*storage.ProfileRecord, error) {
	rec, ok := f.profiles[userID]
	if !ok {
		return nil, nil
	}
	cp := *rec
	return &cp, nil
}

func (f *fakeRepo) UpsertProfile(rec *storage.ProfileRecord) error {
	cp := *rec
	f.profiles[rec.UserID] = &cp
	return nil
}

func (f *fakeRepo) LifetimeStats(userID string) (*storage.LifetimeStats, error) {
	stats := &storage.LifetimeStats{}
	for _, rec := range f.daily {
		if rec.UserID == userID {
			stats.TotalFocusMinutes += rec.TotalFocusMinutes
			stats.TotalSessions += rec.SessionsCompleted
		}
	}
	for _, rec := range f.goals {
		if rec.UserID == userID && rec.Completed {
			stats.GoalsCompleted++
		}
	}
	return stats, nil
}

func (f *fakeRepo) Close() error { return nil }
