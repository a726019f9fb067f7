package storage

import "database/sql"

// requireRow maps a zero-row UPDATE or DELETE to ErrNotFound.
func requireRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func scanSessions(rows *sql.Rows) ([]FocusSessionRecord, error) {
	var records []FocusSessionRecord

	for rows.Next() {
		var record FocusSessionRecord
		var endedAt sql.NullTime

		err := rows.Scan(
			&record.ID,
			&record.UserID,
			&record.SessionType,
			&record.DurationMinutes,
			&record.StartedAt,
			&endedAt,
			&record.Completed,
			&record.Notes,
			&record.CreatedAt,
		)
		if err != nil {
			return nil, err
		}

		if endedAt.Valid {
			t := endedAt.Time
			record.EndedAt = &t
		}

		records = append(records, record)
	}

	return records, rows.Err()
}

func scanGoals(rows *sql.Rows) ([]GoalRecord, error) {
	var records []GoalRecord

	for rows.Next() {
		var record GoalRecord
		var completedAt sql.NullTime

		err := rows.Scan(
			&record.ID,
			&record.UserID,
			&record.Title,
			&record.Description,
			&record.Category,
			&record.Priority,
			&record.Progress,
			&record.Completed,
			&completedAt,
			&record.TargetDate,
			&record.CreatedAt,
			&record.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}

		if completedAt.Valid {
			t := completedAt.Time
			record.CompletedAt = &t
		}

		records = append(records, record)
	}

	return records, rows.Err()
}
