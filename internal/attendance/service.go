package attendance

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// ErrInvalid marks batch or query validation failures.
var ErrInvalid = errors.New("invalid attendance request")

// Service validates attendance batches before handing them to the repository.
type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// RecordBatch validates every entry up front, then upserts the whole batch in
// one transaction. A single bad entry fails the batch with no partial writes.
func (s *Service) RecordBatch(ctx context.Context, courseID int, dateStr string, entries []Entry) error {
	if courseID <= 0 {
		return fmt.Errorf("%w: course_id required", ErrInvalid)
	}
	date, err := time.Parse(time.DateOnly, dateStr)
	if err != nil {
		return fmt.Errorf("%w: date must be YYYY-MM-DD", ErrInvalid)
	}
	if len(entries) == 0 {
		return fmt.Errorf("%w: records required", ErrInvalid)
	}
	for i, e := range entries {
		if e.StudentID <= 0 {
			return fmt.Errorf("%w: records[%d]: student_id required", ErrInvalid, i)
		}
		if e.Present == nil {
			return fmt.Errorf("%w: records[%d]: present required", ErrInvalid, i)
		}
	}
	return s.repo.UpsertBatch(ctx, courseID, date, entries)
}

// ListByCourse returns a course's records, optionally for a single date.
func (s *Service) ListByCourse(ctx context.Context, courseID int, dateStr string) ([]Record, error) {
	if courseID <= 0 {
		return nil, fmt.Errorf("%w: course_id required", ErrInvalid)
	}
	var date *time.Time
	if dateStr != "" {
		d, err := time.Parse(time.DateOnly, dateStr)
		if err != nil {
			return nil, fmt.Errorf("%w: date must be YYYY-MM-DD", ErrInvalid)
		}
		date = &d
	}
	return s.repo.ListByCourse(ctx, courseID, date)
}

// ListByStudent returns all records for one student.
func (s *Service) ListByStudent(ctx context.Context, studentID int) ([]Record, error) {
	if studentID <= 0 {
		return nil, fmt.Errorf("%w: no student record linked to this account", ErrInvalid)
	}
	return s.repo.ListByStudent(ctx, studentID)
}
