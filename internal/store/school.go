package store

import (
	"context"
	"database/sql"
	"errors"

	"classtrack/internal/school"
)

// School is the Postgres-backed student and course repository.
type School struct {
	db *sql.DB
}

func NewSchool(db *sql.DB) *School {
	return &School{db: db}
}

func (r *School) ListStudents(ctx context.Context) ([]school.Student, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, name FROM students ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var students []school.Student
	for rows.Next() {
		var st school.Student
		if err := rows.Scan(&st.ID, &st.Name); err != nil {
			return nil, err
		}
		students = append(students, st)
	}
	return students, rows.Err()
}

func (r *School) GetStudent(ctx context.Context, id int) (school.Student, error) {
	var st school.Student
	err := r.db.QueryRowContext(ctx,
		`SELECT id, name FROM students WHERE id = $1`, id,
	).Scan(&st.ID, &st.Name)
	if errors.Is(err, sql.ErrNoRows) {
		return school.Student{}, school.ErrNotFound
	}
	return st, err
}

func (r *School) CreateStudent(ctx context.Context, name string) (school.Student, error) {
	st := school.Student{Name: name}
	err := r.db.QueryRowContext(ctx,
		`INSERT INTO students (name) VALUES ($1) RETURNING id`, name,
	).Scan(&st.ID)
	if err != nil {
		return school.Student{}, err
	}
	return st, nil
}

func (r *School) ListCourses(ctx context.Context) ([]school.Course, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, name FROM courses ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var courses []school.Course
	for rows.Next() {
		var co school.Course
		if err := rows.Scan(&co.ID, &co.Name); err != nil {
			return nil, err
		}
		courses = append(courses, co)
	}
	return courses, rows.Err()
}

func (r *School) CreateCourse(ctx context.Context, name string) (school.Course, error) {
	co := school.Course{Name: name}
	err := r.db.QueryRowContext(ctx,
		`INSERT INTO courses (name) VALUES ($1) RETURNING id`, name,
	).Scan(&co.ID)
	if err != nil {
		return school.Course{}, err
	}
	return co, nil
}
