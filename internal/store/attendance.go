package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"classtrack/internal/attendance"
)

// Attendance is the Postgres-backed attendance repository.
type Attendance struct {
	db *sql.DB
}

func NewAttendance(db *sql.DB) *Attendance {
	return &Attendance{db: db}
}

// UpsertBatch writes every entry in one transaction. The unique
// (student_id, course_id, date) constraint turns repeat writes into updates of
// present and recorded_at.
func (r *Attendance) UpsertBatch(ctx context.Context, courseID int, date time.Time, entries []attendance.Entry) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, e := range entries {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO attendance (student_id, course_id, date, present, recorded_at)
			VALUES ($1, $2, $3, $4, NOW())
			ON CONFLICT (student_id, course_id, date) DO UPDATE SET
				present = EXCLUDED.present,
				recorded_at = NOW()
		`, e.StudentID, courseID, date, *e.Present); err != nil {
			return fmt.Errorf("record student %d: %w", e.StudentID, err)
		}
	}
	return tx.Commit()
}

const recordColumns = `
	SELECT a.id, a.student_id, s.name, a.course_id, a.date, a.present, a.recorded_at
	FROM attendance a
	JOIN students s ON s.id = a.student_id
`

func (r *Attendance) ListByCourse(ctx context.Context, courseID int, date *time.Time) ([]attendance.Record, error) {
	query := recordColumns + ` WHERE a.course_id = $1`
	args := []any{courseID}
	if date != nil {
		query += ` AND a.date = $2`
		args = append(args, *date)
	}
	query += ` ORDER BY a.date DESC, s.name`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanRecords(rows)
}

func (r *Attendance) ListByStudent(ctx context.Context, studentID int) ([]attendance.Record, error) {
	rows, err := r.db.QueryContext(ctx,
		recordColumns+` WHERE a.student_id = $1 ORDER BY a.date DESC`, studentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanRecords(rows)
}

func scanRecords(rows *sql.Rows) ([]attendance.Record, error) {
	var records []attendance.Record
	for rows.Next() {
		var rec attendance.Record
		var date time.Time
		if err := rows.Scan(&rec.ID, &rec.StudentID, &rec.StudentName, &rec.CourseID,
			&date, &rec.Present, &rec.RecordedAt); err != nil {
			return nil, err
		}
		rec.Date = date.Format(time.DateOnly)
		records = append(records, rec)
	}
	return records, rows.Err()
}
