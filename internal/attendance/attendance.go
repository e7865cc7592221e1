// Package attendance records per-day presence of students in courses.
package attendance

import (
	"context"
	"time"
)

// Record is one attendance row. StudentName is joined in on reads.
type Record struct {
	ID          int       `json:"id"`
	StudentID   int       `json:"student_id"`
	StudentName string    `json:"student_name,omitempty"`
	CourseID    int       `json:"course_id"`
	Date        string    `json:"date"`
	Present     bool      `json:"present"`
	RecordedAt  time.Time `json:"recorded_at"`
}

// Entry is one (student, present) pair in a batch.
type Entry struct {
	StudentID int   `json:"student_id"`
	Present   *bool `json:"present"`
}

// Repository persists attendance rows.
type Repository interface {
	// UpsertBatch writes all entries for a course and date in one transaction,
	// updating present and recorded_at when the (student, course, date) row
	// already exists. Either every row lands or none does.
	UpsertBatch(ctx context.Context, courseID int, date time.Time, entries []Entry) error
	ListByCourse(ctx context.Context, courseID int, date *time.Time) ([]Record, error)
	ListByStudent(ctx context.Context, studentID int) ([]Record, error)
}
