package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
)

// Roles known to the system.
const (
	RoleAdmin   = "admin"
	RoleTeacher = "teacher"
	RoleStudent = "student"
)

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrUsernameTaken      = errors.New("username exists")
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrInvalidInput       = errors.New("invalid registration")
)

// User is an account row. StudentID links student-role accounts to their student record.
type User struct {
	ID           int    `json:"id"`
	Username     string `json:"username"`
	PasswordHash []byte `json:"-"`
	Role         string `json:"role"`
	StudentID    *int   `json:"student_id,omitempty"`
}

// NewUser carries the information needed to register an account. When Role is
// student and no StudentID is given, a student row named StudentName is created
// and linked in the same transaction.
type NewUser struct {
	Username    string `json:"username" binding:"required"`
	Password    string `json:"password" binding:"required"`
	Role        string `json:"role" binding:"required"`
	StudentID   *int   `json:"student_id,omitempty"`
	StudentName string `json:"student_name,omitempty"`
}

// UserStore persists accounts.
type UserStore interface {
	GetByUsername(ctx context.Context, username string) (User, error)
	// Create inserts the user, creating and linking a new student row named
	// studentName when the user is a student with no StudentID set. Both writes
	// happen in one transaction. Returns ErrUsernameTaken on a duplicate username.
	Create(ctx context.Context, u User, studentName string) (User, error)
}

// Service implements login and registration on top of a UserStore.
type Service struct {
	users  UserStore
	issuer string
	secret string
	ttl    time.Duration
}

func NewService(users UserStore, issuer, secret string, ttl time.Duration) *Service {
	if ttl <= 0 {
		ttl = 8 * time.Hour
	}
	return &Service{users: users, issuer: issuer, secret: secret, ttl: ttl}
}

// Login verifies credentials and issues a signed token. Unknown usernames and
// wrong passwords both map to ErrInvalidCredentials.
func (s *Service) Login(ctx context.Context, username, password string) (string, time.Time, error) {
	usr, err := s.users.GetByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return "", time.Time{}, ErrInvalidCredentials
		}
		return "", time.Time{}, err
	}
	if err := CheckPassword(usr.PasswordHash, password); err != nil {
		return "", time.Time{}, ErrInvalidCredentials
	}
	return IssueToken(usr, s.issuer, s.secret, s.ttl)
}

// Register creates an account. Only student-role accounts may carry a student link.
func (s *Service) Register(ctx context.Context, in NewUser) (User, error) {
	in.Username = strings.TrimSpace(in.Username)
	if in.Username == "" || in.Password == "" {
		return User{}, fmt.Errorf("%w: username and password required", ErrInvalidInput)
	}
	switch in.Role {
	case RoleAdmin, RoleTeacher, RoleStudent:
	default:
		return User{}, fmt.Errorf("%w: role must be one of admin, teacher, student", ErrInvalidInput)
	}
	if in.Role != RoleStudent && (in.StudentID != nil || in.StudentName != "") {
		return User{}, fmt.Errorf("%w: student link is only valid for student accounts", ErrInvalidInput)
	}

	hash, err := HashPassword(in.Password)
	if err != nil {
		return User{}, err
	}
	usr := User{
		Username:     in.Username,
		PasswordHash: hash,
		Role:         in.Role,
		StudentID:    in.StudentID,
	}
	return s.users.Create(ctx, usr, strings.TrimSpace(in.StudentName))
}
