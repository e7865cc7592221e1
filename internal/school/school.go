// Package school holds the student and course rosters.
package school

import (
	"context"
	"errors"
)

var ErrNotFound = errors.New("record not found")

// Student is a roster entry.
type Student struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// Course is a taught course.
type Course struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// Repository persists students and courses.
type Repository interface {
	ListStudents(ctx context.Context) ([]Student, error)
	GetStudent(ctx context.Context, id int) (Student, error)
	CreateStudent(ctx context.Context, name string) (Student, error)

	ListCourses(ctx context.Context) ([]Course, error)
	CreateCourse(ctx context.Context, name string) (Course, error)
}
