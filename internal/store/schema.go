package store

import (
	"context"
	"database/sql"
	"fmt"

	"classtrack/internal/auth"
)

// Migrate idempotently ensures all tables and indexes exist.
func Migrate(ctx context.Context, db *sql.DB) error {
	schema := `
	CREATE TABLE IF NOT EXISTS items (
		id    SERIAL PRIMARY KEY,
		text  TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS students (
		id    SERIAL PRIMARY KEY,
		name  TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS courses (
		id    SERIAL PRIMARY KEY,
		name  TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS attendance (
		id           SERIAL PRIMARY KEY,
		student_id   INTEGER NOT NULL REFERENCES students(id) ON DELETE CASCADE,
		course_id    INTEGER NOT NULL REFERENCES courses(id) ON DELETE CASCADE,
		date         DATE NOT NULL,
		present      BOOLEAN NOT NULL,
		recorded_at  TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		UNIQUE (student_id, course_id, date)
	);

	CREATE TABLE IF NOT EXISTS users (
		id             SERIAL PRIMARY KEY,
		username       TEXT UNIQUE NOT NULL,
		password_hash  BYTEA NOT NULL,
		role           TEXT NOT NULL CHECK (role IN ('admin', 'teacher', 'student')),
		student_id     INTEGER REFERENCES students(id)
	);

	CREATE INDEX IF NOT EXISTS idx_attendance_course_date ON attendance(course_id, date);
	CREATE INDEX IF NOT EXISTS idx_attendance_student     ON attendance(student_id);
	`
	if _, err := db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	return nil
}

// Seed inserts demo rows into each table that is still empty: a welcome item,
// three students, two courses and three users (one per role, fixed demo
// passwords, the student account linked to the first demo student).
func Seed(ctx context.Context, db *sql.DB) error {
	if err := seedItems(ctx, db); err != nil {
		return fmt.Errorf("seed items: %w", err)
	}
	studentIDs, err := seedStudents(ctx, db)
	if err != nil {
		return fmt.Errorf("seed students: %w", err)
	}
	if err := seedCourses(ctx, db); err != nil {
		return fmt.Errorf("seed courses: %w", err)
	}
	if err := seedUsers(ctx, db, studentIDs); err != nil {
		return fmt.Errorf("seed users: %w", err)
	}
	return nil
}

func tableEmpty(ctx context.Context, db *sql.DB, table string) (bool, error) {
	var n int
	if err := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM `+table).Scan(&n); err != nil {
		return false, err
	}
	return n == 0, nil
}

func seedItems(ctx context.Context, db *sql.DB) error {
	empty, err := tableEmpty(ctx, db, "items")
	if err != nil || !empty {
		return err
	}
	_, err = db.ExecContext(ctx, `INSERT INTO items (text) VALUES ($1)`, "Welcome to classtrack!")
	return err
}

func seedStudents(ctx context.Context, db *sql.DB) ([]int, error) {
	empty, err := tableEmpty(ctx, db, "students")
	if err != nil {
		return nil, err
	}
	if !empty {
		return nil, nil
	}
	var ids []int
	for _, name := range []string{"Alice Johnson", "Bob Smith", "Carol Lee"} {
		var id int
		if err := db.QueryRowContext(ctx,
			`INSERT INTO students (name) VALUES ($1) RETURNING id`, name,
		).Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func seedCourses(ctx context.Context, db *sql.DB) error {
	empty, err := tableEmpty(ctx, db, "courses")
	if err != nil || !empty {
		return err
	}
	for _, name := range []string{"Mathematics", "History"} {
		if _, err := db.ExecContext(ctx, `INSERT INTO courses (name) VALUES ($1)`, name); err != nil {
			return err
		}
	}
	return nil
}

func seedUsers(ctx context.Context, db *sql.DB, studentIDs []int) error {
	empty, err := tableEmpty(ctx, db, "users")
	if err != nil || !empty {
		return err
	}

	// Demo credentials, usable right after first boot.
	demo := []struct {
		username string
		password string
		role     string
	}{
		{"admin", "admin123", auth.RoleAdmin},
		{"teacher", "teacher123", auth.RoleTeacher},
		{"student", "student123", auth.RoleStudent},
	}
	for _, u := range demo {
		hash, err := auth.HashPassword(u.password)
		if err != nil {
			return err
		}
		var studentID *int
		if u.role == auth.RoleStudent && len(studentIDs) > 0 {
			studentID = &studentIDs[0]
		}
		if _, err := db.ExecContext(ctx,
			`INSERT INTO users (username, password_hash, role, student_id) VALUES ($1, $2, $3, $4)`,
			u.username, hash, u.role, studentID,
		); err != nil {
			return err
		}
	}
	return nil
}
