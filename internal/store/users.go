package store

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jackc/pgx/v5/pgconn"

	"classtrack/internal/auth"
)

// uniqueViolation is the SQLSTATE Postgres reports for duplicate keys.
const uniqueViolation = "23505"

// Users is the Postgres-backed account repository.
type Users struct {
	db *sql.DB
}

func NewUsers(db *sql.DB) *Users {
	return &Users{db: db}
}

func (r *Users) GetByUsername(ctx context.Context, username string) (auth.User, error) {
	var u auth.User
	err := r.db.QueryRowContext(ctx, `
		SELECT id, username, password_hash, role, student_id
		FROM users WHERE username = $1
	`, username).Scan(&u.ID, &u.Username, &u.PasswordHash, &u.Role, &u.StudentID)
	if errors.Is(err, sql.ErrNoRows) {
		return auth.User{}, auth.ErrUserNotFound
	}
	return u, err
}

// Create inserts the account, creating and linking a new student row in the
// same transaction when a student-role user arrives without one.
func (r *Users) Create(ctx context.Context, u auth.User, studentName string) (auth.User, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return auth.User{}, err
	}
	defer tx.Rollback()

	if u.Role == auth.RoleStudent && u.StudentID == nil && studentName != "" {
		var studentID int
		if err := tx.QueryRowContext(ctx,
			`INSERT INTO students (name) VALUES ($1) RETURNING id`, studentName,
		).Scan(&studentID); err != nil {
			return auth.User{}, err
		}
		u.StudentID = &studentID
	}

	err = tx.QueryRowContext(ctx, `
		INSERT INTO users (username, password_hash, role, student_id)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`, u.Username, u.PasswordHash, u.Role, u.StudentID).Scan(&u.ID)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return auth.User{}, auth.ErrUsernameTaken
		}
		return auth.User{}, err
	}
	return u, tx.Commit()
}
