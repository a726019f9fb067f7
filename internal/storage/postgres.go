package storage

import (
	"database/sql"
	"encoding/json"
	"time"

	_ "github.com/lib/pq"
)

type PostgresRepository struct {
	db *sql.DB
}

func NewPostgresRepository(connStr string) (*PostgresRepository, error) {
	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, err
	}

	repo := &PostgresRepository{db: db}
	if err := repo.createTables(); err != nil {
		db.Close()
		return nil, err
	}

	return repo, nil
}

func (r *PostgresRepository) createTables() error {
	schema := `
	CREATE TABLE IF NOT EXISTS focus_sessions (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL,
		session_type TEXT NOT NULL,
		duration_minutes INTEGER NOT NULL,
		started_at TIMESTAMPTZ NOT NULL,
		ended_at TIMESTAMPTZ,
		completed BOOLEAN NOT NULL DEFAULT FALSE,
		notes TEXT NOT NULL DEFAULT '',
		created_at TIMESTAMPTZ NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_sessions_user ON focus_sessions(user_id, created_at);

	CREATE TABLE IF NOT EXISTS daily_progress (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL,
		date TEXT NOT NULL,
		total_focus_minutes INTEGER NOT NULL,
		sessions_completed INTEGER NOT NULL,
		streak_days INTEGER NOT NULL,
		UNIQUE(user_id, date)
	);

	CREATE TABLE IF NOT EXISTS habits (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL,
		title TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		icon TEXT NOT NULL DEFAULT '',
		frequency TEXT NOT NULL,
		is_active BOOLEAN NOT NULL DEFAULT TRUE,
		created_at TIMESTAMPTZ NOT NULL
	);

	CREATE TABLE IF NOT EXISTS habit_completions (
		id TEXT PRIMARY KEY,
		habit_id TEXT NOT NULL,
		user_id TEXT NOT NULL,
		completed_date TEXT NOT NULL,
		UNIQUE(habit_id, completed_date)
	);

	CREATE INDEX IF NOT EXISTS idx_completions_user ON habit_completions(user_id, completed_date);

	CREATE TABLE IF NOT EXISTS goals (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL,
		title TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		category TEXT NOT NULL,
		priority TEXT NOT NULL,
		progress INTEGER NOT NULL DEFAULT 0,
		completed BOOLEAN NOT NULL DEFAULT FALSE,
		completed_at TIMESTAMPTZ,
		target_date TEXT NOT NULL DEFAULT '',
		created_at TIMESTAMPTZ NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL
	);

	CREATE TABLE IF NOT EXISTS profiles (
		user_id TEXT PRIMARY KEY,
		display_name TEXT NOT NULL DEFAULT '',
		daily_focus_goal_minutes INTEGER NOT NULL DEFAULT 120,
		distracting_apps TEXT NOT NULL DEFAULT '[]',
		onboarding_completed BOOLEAN NOT NULL DEFAULT FALSE,
		created_at TIMESTAMPTZ NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL
	);
	`

	_, err := r.db.Exec(schema)
	return err
}

func (r *PostgresRepository) InsertSession(record *FocusSessionRecord) error {
	query := `
		INSERT INTO focus_sessions (id, user_id, session_type, duration_minutes, started_at, ended_at, completed, notes, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	_, err := r.db.Exec(
		query,
		record.ID,
		record.UserID,
		record.SessionType,
		record.DurationMinutes,
		record.StartedAt,
		record.EndedAt,
		record.Completed,
		record.Notes,
		record.CreatedAt,
	)

	return err
}

func (r *PostgresRepository) CompleteSession(id string, endedAt time.Time) error {
	res, err := r.db.Exec(
		`UPDATE focus_sessions SET completed = TRUE, ended_at = $1 WHERE id = $2`,
		endedAt, id,
	)
	if err != nil {
		return err
	}
	return requireRow(res)
}

func (r *PostgresRepository) DeleteSession(id string) error {
	res, err := r.db.Exec(`DELETE FROM focus_sessions WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return requireRow(res)
}

func (r *PostgresRepository) RecentSessions(userID string, limit int) ([]FocusSessionRecord, error) {
	query := `
		SELECT id, user_id, session_type, duration_minutes, started_at, ended_at, completed, notes, created_at
		FROM focus_sessions
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`

	rows, err := r.db.Query(query, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanSessions(rows)
}

func (r *PostgresRepository) ProgressByDate(userID, date string) (*DailyProgressRecord, error) {
	query := `
		SELECT id, user_id, date, total_focus_minutes, sessions_completed, streak_days
		FROM daily_progress
		WHERE user_id = $1 AND date = $2
	`

	var rec DailyProgressRecord
	err := r.db.QueryRow(query, userID, date).Scan(
		&rec.ID,
		&rec.UserID,
		&rec.Date,
		&rec.TotalFocusMinutes,
		&rec.SessionsCompleted,
		&rec.StreakDays,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

func (r *PostgresRepository) ProgressSince(userID, since string) ([]DailyProgressRecord, error) {
	query := `
		SELECT id, user_id, date, total_focus_minutes, sessions_completed, streak_days
		FROM daily_progress
		WHERE user_id = $1 AND date >= $2
		ORDER BY date ASC
	`

	rows, err := r.db.Query(query, userID, since)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []DailyProgressRecord
	for rows.Next() {
		var rec DailyProgressRecord
		if err := rows.Scan(
			&rec.ID,
			&rec.UserID,
			&rec.Date,
			&rec.TotalFocusMinutes,
			&rec.SessionsCompleted,
			&rec.StreakDays,
		); err != nil {
			return nil, err
		}
		records = append(records, rec)
	}

	return records, rows.Err()
}

func (r *PostgresRepository) InsertProgress(record *DailyProgressRecord) error {
	query := `
		INSERT INTO daily_progress (id, user_id, date, total_focus_minutes, sessions_completed, streak_days)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := r.db.Exec(
		query,
		record.ID,
		record.UserID,
		record.Date,
		record.TotalFocusMinutes,
		record.SessionsCompleted,
		record.StreakDays,
	)

	return err
}

func (r *PostgresRepository) AccumulateProgress(id string, minutes int) error {
	res, err := r.db.Exec(
		`UPDATE daily_progress
		 SET total_focus_minutes = total_focus_minutes + $1,
		     sessions_completed = sessions_completed + 1
		 WHERE id = $2`,
		minutes, id,
	)
	if err != nil {
		return err
	}
	return requireRow(res)
}

func (r *PostgresRepository) InsertHabit(record *HabitRecord) error {
	query := `
		INSERT INTO habits (id, user_id, title, description, icon, frequency, is_active, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := r.db.Exec(
		query,
		record.ID,
		record.UserID,
		record.Title,
		record.Description,
		record.Icon,
		record.Frequency,
		record.IsActive,
		record.CreatedAt,
	)

	return err
}

func (r *PostgresRepository) ListHabits(userID string) ([]HabitRecord, error) {
	query := `
		SELECT id, user_id, title, description, icon, frequency, is_active, created_at
		FROM habits
		WHERE user_id = $1 AND is_active = TRUE
		ORDER BY created_at ASC
	`

	rows, err := r.db.Query(query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []HabitRecord
	for rows.Next() {
		var rec HabitRecord
		if err := rows.Scan(
			&rec.ID,
			&rec.UserID,
			&rec.Title,
			&rec.Description,
			&rec.Icon,
			&rec.Frequency,
			&rec.IsActive,
			&rec.CreatedAt,
		); err != nil {
			return nil, err
		}
		records = append(records, rec)
	}

	return records, rows.Err()
}

func (r *PostgresRepository) DeleteHabit(id, userID string) error {
	res, err := r.db.Exec(`DELETE FROM habits WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return err
	}
	if err := requireRow(res); err != nil {
		return err
	}
	_, err = r.db.Exec(`DELETE FROM habit_completions WHERE habit_id = $1`, id)
	return err
}

func (r *PostgresRepository) InsertHabitCompletion(record *HabitCompletionRecord) error {
	query := `
		INSERT INTO habit_completions (id, habit_id, user_id, completed_date)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (habit_id, completed_date) DO NOTHING
	`

	_, err := r.db.Exec(query, record.ID, record.HabitID, record.UserID, record.CompletedDate)
	return err
}

func (r *PostgresRepository) CompletionsSince(userID, since string) ([]HabitCompletionRecord, error) {
	query := `
		SELECT id, habit_id, user_id, completed_date
		FROM habit_completions
		WHERE user_id = $1 AND completed_date >= $2
	`

	rows, err := r.db.Query(query, userID, since)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []HabitCompletionRecord
	for rows.Next() {
		var rec HabitCompletionRecord
		if err := rows.Scan(&rec.ID, &rec.HabitID, &rec.UserID, &rec.CompletedDate); err != nil {
			return nil, err
		}
		records = append(records, rec)
	}

	return records, rows.Err()
}

func (r *PostgresRepository) InsertGoal(record *GoalRecord) error {
	query := `
		INSERT INTO goals (id, user_id, title, description, category, priority, progress, completed, completed_at, target_date, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`

	_, err := r.db.Exec(
		query,
		record.ID,
		record.UserID,
		record.Title,
		record.Description,
		record.Category,
		record.Priority,
		record.Progress,
		record.Completed,
		record.CompletedAt,
		record.TargetDate,
		record.CreatedAt,
		record.UpdatedAt,
	)

	return err
}

func (r *PostgresRepository) GoalByID(id, userID string) (*GoalRecord, error) {
	query := `
		SELECT id, user_id, title, description, category, priority, progress, completed, completed_at, target_date, created_at, updated_at
		FROM goals
		WHERE id = $1 AND user_id = $2
	`

	rows, err := r.db.Query(query, id, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	records, err := scanGoals(rows)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, ErrNotFound
	}
	return &records[0], nil
}

func (r *PostgresRepository) ListGoals(userID string) ([]GoalRecord, error) {
	query := `
		SELECT id, user_id, title, description, category, priority, progress, completed, completed_at, target_date, created_at, updated_at
		FROM goals
		WHERE user_id = $1
		ORDER BY created_at DESC
	`

	rows, err := r.db.Query(query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanGoals(rows)
}

func (r *PostgresRepository) UpdateGoal(record *GoalRecord) error {
	query := `
		UPDATE goals
		SET title = $1, description = $2, category = $3, priority = $4, progress = $5, completed = $6, completed_at = $7, target_date = $8, updated_at = $9
		WHERE id = $10 AND user_id = $11
	`

	res, err := r.db.Exec(
		query,
		record.Title,
		record.Description,
		record.Category,
		record.Priority,
		record.Progress,
		record.Completed,
		record.CompletedAt,
		record.TargetDate,
		record.UpdatedAt,
		record.ID,
		record.UserID,
	)
	if err != nil {
		return err
	}
	return requireRow(res)
}

func (r *PostgresRepository) DeleteGoal(id, userID string) error {
	res, err := r.db.Exec(`DELETE FROM goals WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return err
	}
	return requireRow(res)
}

func (r *PostgresRepository) Profile(userID string) (*ProfileRecord, error) {
	query := `
		SELECT user_id, display_name, daily_focus_goal_minutes, distracting_apps, onboarding_completed, created_at, updated_at
		FROM profiles
		WHERE user_id = $1
	`

	var rec ProfileRecord
	var appsJSON string
	err := r.db.QueryRow(query, userID).Scan(
		&rec.UserID,
		&rec.DisplayName,
		&rec.DailyFocusGoalMins,
		&appsJSON,
		&rec.OnboardingCompleted,
		&rec.CreatedAt,
		&rec.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal([]byte(appsJSON), &rec.DistractingApps); err != nil {
		return nil, err
	}
	return &rec, nil
}

func (r *PostgresRepository) UpsertProfile(record *ProfileRecord) error {
	appsJSON, err := json.Marshal(record.DistractingApps)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO profiles (user_id, display_name, daily_focus_goal_minutes, distracting_apps, onboarding_completed, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (user_id) DO UPDATE SET
			display_name = EXCLUDED.display_name,
			daily_focus_goal_minutes = EXCLUDED.daily_focus_goal_minutes,
			distracting_apps = EXCLUDED.distracting_apps,
			onboarding_completed = EXCLUDED.onboarding_completed,
			updated_at = EXCLUDED.updated_at
	`

	_, err = r.db.Exec(
		query,
		record.UserID,
		record.DisplayName,
		record.DailyFocusGoalMins,
		string(appsJSON),
		record.OnboardingCompleted,
		record.CreatedAt,
		record.UpdatedAt,
	)

	return err
}

func (r *PostgresRepository) LifetimeStats(userID string) (*LifetimeStats, error) {
	query := `
		SELECT
			COUNT(*) as total,
			COALESCE(SUM(duration_minutes), 0) as minutes
		FROM focus_sessions
		WHERE user_id = $1 AND completed = TRUE
	`

	var stats LifetimeStats
	if err := r.db.QueryRow(query, userID).Scan(&stats.TotalSessions, &stats.TotalFocusMinutes); err != nil {
		return nil, err
	}

	err := r.db.QueryRow(
		`SELECT COUNT(*) FROM goals WHERE user_id = $1 AND completed = TRUE`,
		userID,
	).Scan(&stats.GoalsCompleted)
	if err != nil {
		return nil, err
	}

	return &stats, nil
}

func (r *PostgresRepository) Close() error {
	return r.db.Close()
}
