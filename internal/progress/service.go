// Package progress owns the write path for finished focus sessions and the
// read models derived from them: daily aggregates, streaks, achievements,
// and habit completion status.
package progress

import (
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/focusbuddy/focusd/internal/domain"
	"github.com/focusbuddy/focusd/internal/storage"
)

// streakScanDays bounds the history scanned when deriving a streak. The
// cached streak_days column is never trusted as an increment source, so a
// back-filled day cannot poison later values; a streak longer than this
// window is simply reported as the window length.
const streakScanDays = 365

const habitHistoryDays = 30

type Service struct {
	repo  storage.Repository
	cache *SessionCache
	now   func() time.Time
}

func NewService(repo storage.Repository) *Service {
	return &Service{
		repo:  repo,
		cache: NewSessionCache(),
		now:   time.Now,
	}
}

// BeginFocusSession records the start of a focus session and returns the
// new record's identifier. Break sessions are not persisted.
func (s *Service) BeginFocusSession(userID string, st domain.SessionType, minutes int) (string, error) {
	if st != domain.SessionFocus {
		return "", nil
	}

	now := s.now()
	rec := &storage.FocusSessionRecord{
		ID:              uuid.New().String(),
		UserID:          userID,
		SessionType:     st,
		DurationMinutes: minutes,
		StartedAt:       now,
		CreatedAt:       now,
	}

	opID := s.cache.StageInsert(userID, *rec)
	if err := s.repo.InsertSession(rec); err != nil {
		s.cache.Rollback(userID, opID)
		return "", fmt.Errorf("persist session start: %w", err)
	}
	s.cache.Commit(userID, opID)

	return rec.ID, nil
}

// CompleteFocusSession marks the session finished and folds its minutes
// into today's DailyProgress row, creating the row with a freshly scanned
// streak when this is the first completion of the day.
func (s *Service) CompleteFocusSession(userID, sessionID string, minutes int) error {
	now := s.now()

	if sessionID != "" {
		opID := s.cache.StageComplete(userID, sessionID, now)
		err := s.repo.CompleteSession(sessionID, now)
		if err != nil && err != storage.ErrNotFound {
			s.cache.Rollback(userID, opID)
			return fmt.Errorf("persist session completion: %w", err)
		}
		if err == storage.ErrNotFound {
			// The start write never landed. Progress still counts.
			s.cache.Rollback(userID, opID)
			log.Printf("progress: completing unknown session %s for %s", sessionID, userID)
		} else {
			s.cache.Commit(userID, opID)
		}
	}

	return s.recordDailyProgress(userID, minutes, now)
}

func (s *Service) recordDailyProgress(userID string, minutes int, now time.Time) error {
	today := domain.FormatDay(now)

	existing, err := s.repo.ProgressByDate(userID, today)
	if err != nil {
		return fmt.Errorf("read daily progress: %w", err)
	}

	if existing != nil {
		if err := s.repo.AccumulateProgress(existing.ID, minutes); err != nil {
			return fmt.Errorf("accumulate daily progress: %w", err)
		}
		return nil
	}

	streak, err := s.scanStreak(userID, now, true)
	if err != nil {
		return err
	}

	rec := &storage.DailyProgressRecord{
		ID:                uuid.New().String(),
		UserID:            userID,
		Date:              today,
		TotalFocusMinutes: minutes,
		SessionsCompleted: 1,
		StreakDays:        streak,
	}
	if err := s.repo.InsertProgress(rec); err != nil {
		return fmt.Errorf("insert daily progress: %w", err)
	}
	return nil
}

// scanStreak derives the current streak from the full recent DailyProgress
// history. includeToday adds today to the completion set, for the moment a
// new day's row is being created by its first finished session.
func (s *Service) scanStreak(userID string, now time.Time, includeToday bool) (int, error) {
	since := domain.FormatDay(now.AddDate(0, 0, -streakScanDays))
	history, err := s.repo.ProgressSince(userID, since)
	if err != nil {
		return 0, fmt.Errorf("read progress history: %w", err)
	}

	completions := make([]time.Time, 0, len(history)+1)
	for _, rec := range history {
		day, err := domain.ParseDay(rec.Date)
		if err != nil {
			return 0, err
		}
		completions = append(completions, day)
	}
	if includeToday {
		completions = append(completions, domain.DayOf(now))
	}

	return domain.ComputeStreak(completions, now), nil
}

// CancelFocusSession discards the record of a session that never finished.
func (s *Service) CancelFocusSession(userID, sessionID string) error {
	if sessionID == "" {
		return nil
	}

	opID := s.cache.StageDelete(userID, sessionID)
	if err := s.repo.DeleteSession(sessionID); err != nil && err != storage.ErrNotFound {
		s.cache.Rollback(userID, opID)
		return fmt.Errorf("discard cancelled session: %w", err)
	}
	s.cache.Commit(userID, opID)
	return nil
}

// RecentSessions serves from the per-user cache, falling back to the
// repository on a cold start.
func (s *Service) RecentSessions(userID string, limit int) ([]storage.FocusSessionRecord, error) {
	if recs, ok := s.cache.List(userID, limit); ok {
		return recs, nil
	}

	recs, err := s.repo.RecentSessions(userID, limit)
	if err != nil {
		return nil, fmt.Errorf("read recent sessions: %w", err)
	}
	s.cache.Prime(userID, recs)
	return recs, nil
}

// Today returns today's aggregate, zero-valued when no session has
// finished yet. The streak shown for an empty day is still live if
// yesterday completed, so it comes from a scan rather than the missing row.
func (s *Service) Today(userID string) (*storage.DailyProgressRecord, error) {
	now := s.now()
	today := domain.FormatDay(now)

	rec, err := s.repo.ProgressByDate(userID, today)
	if err != nil {
		return nil, fmt.Errorf("read daily progress: %w", err)
	}
	if rec != nil {
		return rec, nil
	}

	streak, err := s.scanStreak(userID, now, false)
	if err != nil {
		return nil, err
	}
	return &storage.DailyProgressRecord{
		UserID:     userID,
		Date:       today,
		StreakDays: streak,
	}, nil
}

// Weekly returns the last seven days of aggregates in ascending date order.
func (s *Service) Weekly(userID string) ([]storage.DailyProgressRecord, error) {
	since := domain.FormatDay(s.now().AddDate(0, 0, -7))
	recs, err := s.repo.ProgressSince(userID, since)
	if err != nil {
		return nil, fmt.Errorf("read weekly progress: %w", err)
	}
	return recs, nil
}

// CurrentStreak is the scan-derived streak as of now.
func (s *Service) CurrentStreak(userID string) (int, error) {
	return s.scanStreak(userID, s.now(), false)
}
