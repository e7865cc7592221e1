package attendance

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeRepo mirrors the unique (student, course, date) constraint in memory.
type fakeRepo struct {
	rows   map[[3]int]Record // key: student, course, day ordinal
	nextID int
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{rows: make(map[[3]int]Record), nextID: 1}
}

func key(studentID, courseID int, date time.Time) [3]int {
	return [3]int{studentID, courseID, int(date.Unix() / 86400)}
}

func (f *fakeRepo) UpsertBatch(_ context.Context, courseID int, date time.Time, entries []Entry) error {
	for _, e := range entries {
		k := key(e.StudentID, courseID, date)
		rec, ok := f.rows[k]
		if !ok {
			rec = Record{ID: f.nextID, StudentID: e.StudentID, CourseID: courseID, Date: date.Format(time.DateOnly)}
			f.nextID++
		}
		rec.Present = *e.Present
		rec.RecordedAt = time.Now()
		f.rows[k] = rec
	}
	return nil
}

func (f *fakeRepo) ListByCourse(_ context.Context, courseID int, date *time.Time) ([]Record, error) {
	var out []Record
	for _, rec := range f.rows {
		if rec.CourseID != courseID {
			continue
		}
		if date != nil && rec.Date != date.Format(time.DateOnly) {
			continue
		}
		out = append(out, rec)
	}
	return out, nil
}

func (f *fakeRepo) ListByStudent(_ context.Context, studentID int) ([]Record, error) {
	var out []Record
	for _, rec := range f.rows {
		if rec.StudentID == studentID {
			out = append(out, rec)
		}
	}
	return out, nil
}

func boolPtr(b bool) *bool { return &b }

func TestRecordBatch_Validation(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo)
	ctx := context.Background()

	tests := []struct {
		name     string
		courseID int
		date     string
		entries  []Entry
	}{
		{"missing course", 0, "2024-09-02", []Entry{{StudentID: 1, Present: boolPtr(true)}}},
		{"bad date", 1, "02/09/2024", []Entry{{StudentID: 1, Present: boolPtr(true)}}},
		{"no entries", 1, "2024-09-02", nil},
		{"bad student id", 1, "2024-09-02", []Entry{{StudentID: 0, Present: boolPtr(true)}}},
		{"missing present", 1, "2024-09-02", []Entry{{StudentID: 1}}},
		{
			"one bad entry fails the whole batch",
			1, "2024-09-02",
			[]Entry{{StudentID: 1, Present: boolPtr(true)}, {StudentID: -2, Present: boolPtr(false)}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := svc.RecordBatch(ctx, tt.courseID, tt.date, tt.entries)
			assert.ErrorIs(t, err, ErrInvalid)
			assert.Empty(t, repo.rows, "no partial writes")
		})
	}
}

func TestRecordBatch_UpsertOverwrites(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo)
	ctx := context.Background()

	require.NoError(t, svc.RecordBatch(ctx, 1, "2024-09-02", []Entry{
		{StudentID: 5, Present: boolPtr(true)},
	}))
	require.NoError(t, svc.RecordBatch(ctx, 1, "2024-09-02", []Entry{
		{StudentID: 5, Present: boolPtr(false)},
	}))

	records, err := svc.ListByCourse(ctx, 1, "2024-09-02")
	require.NoError(t, err)
	require.Len(t, records, 1, "same (student, course, date) must stay one row")
	assert.False(t, records[0].Present, "later write wins")
}

func TestRecordBatch_DistinctTriplesAccumulate(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo)
	ctx := context.Background()

	require.NoError(t, svc.RecordBatch(ctx, 1, "2024-09-02", []Entry{
		{StudentID: 5, Present: boolPtr(true)},
		{StudentID: 6, Present: boolPtr(false)},
	}))
	require.NoError(t, svc.RecordBatch(ctx, 1, "2024-09-03", []Entry{
		{StudentID: 5, Present: boolPtr(true)},
	}))

	all, err := svc.ListByCourse(ctx, 1, "")
	require.NoError(t, err)
	assert.Len(t, all, 3)

	day1, err := svc.ListByCourse(ctx, 1, "2024-09-02")
	require.NoError(t, err)
	assert.Len(t, day1, 2)
}

func TestListByStudent(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo)
	ctx := context.Background()

	require.NoError(t, svc.RecordBatch(ctx, 1, "2024-09-02", []Entry{
		{StudentID: 5, Present: boolPtr(true)},
		{StudentID: 6, Present: boolPtr(true)},
	}))

	mine, err := svc.ListByStudent(ctx, 5)
	require.NoError(t, err)
	assert.Len(t, mine, 1)

	_, err = svc.ListByStudent(ctx, 0)
	assert.ErrorIs(t, err, ErrInvalid)
}
