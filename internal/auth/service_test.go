package auth

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeUserStore keeps accounts in memory, mirroring the unique username
// constraint and the create-and-link-student transaction.
type fakeUserStore struct {
	users      map[string]User
	nextID     int
	nextStudID int
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{users: make(map[string]User), nextID: 1, nextStudID: 100}
}

func (f *fakeUserStore) GetByUsername(_ context.Context, username string) (User, error) {
	u, ok := f.users[username]
	if !ok {
		return User{}, ErrUserNotFound
	}
	return u, nil
}

func (f *fakeUserStore) Create(_ context.Context, u User, studentName string) (User, error) {
	if _, ok := f.users[u.Username]; ok {
		return User{}, ErrUsernameTaken
	}
	if u.Role == RoleStudent && u.StudentID == nil && studentName != "" {
		id := f.nextStudID
		f.nextStudID++
		u.StudentID = &id
	}
	u.ID = f.nextID
	f.nextID++
	f.users[u.Username] = u
	return u, nil
}

func newTestService(t *testing.T) (*Service, *fakeUserStore) {
	t.Helper()
	store := newFakeUserStore()
	return NewService(store, testIssuer, testSecret, time.Hour), store
}

func seedUser(t *testing.T, svc *Service, username, password, role string) User {
	t.Helper()
	usr, err := svc.Register(context.Background(), NewUser{
		Username: username,
		Password: password,
		Role:     role,
	})
	require.NoError(t, err)
	return usr
}

func TestLogin(t *testing.T) {
	svc, _ := newTestService(t)
	usr := seedUser(t, svc, "teacher", "chalk123", RoleTeacher)

	t.Run("unknown user", func(t *testing.T) {
		_, _, err := svc.Login(context.Background(), "nobody", "chalk123")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("wrong password", func(t *testing.T) {
		_, _, err := svc.Login(context.Background(), "teacher", "wrong")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("ok", func(t *testing.T) {
		token, exp, err := svc.Login(context.Background(), "teacher", "chalk123")
		require.NoError(t, err)
		assert.True(t, exp.After(time.Now()))

		claims, err := ParseToken(token, testSecret, testIssuer)
		require.NoError(t, err)
		assert.Equal(t, usr.ID, claims.UserID)
		assert.Equal(t, RoleTeacher, claims.Role)
	})
}

func TestRegister(t *testing.T) {
	t.Run("duplicate username leaves no row", func(t *testing.T) {
		svc, store := newTestService(t)
		seedUser(t, svc, "alice", "pw123456", RoleAdmin)

		_, err := svc.Register(context.Background(), NewUser{
			Username: "alice", Password: "other123", Role: RoleTeacher,
		})
		assert.ErrorIs(t, err, ErrUsernameTaken)
		assert.Len(t, store.users, 1)
		assert.Equal(t, RoleAdmin, store.users["alice"].Role)
	})

	t.Run("bad role", func(t *testing.T) {
		svc, _ := newTestService(t)
		_, err := svc.Register(context.Background(), NewUser{
			Username: "x", Password: "y", Role: "principal",
		})
		assert.ErrorIs(t, err, ErrInvalidInput)
	})

	t.Run("student link forbidden for staff", func(t *testing.T) {
		svc, _ := newTestService(t)
		sid := 3
		_, err := svc.Register(context.Background(), NewUser{
			Username: "t", Password: "pw", Role: RoleTeacher, StudentID: &sid,
		})
		assert.ErrorIs(t, err, ErrInvalidInput)
	})

	t.Run("student account gets a linked student row", func(t *testing.T) {
		svc, _ := newTestService(t)
		usr, err := svc.Register(context.Background(), NewUser{
			Username: "dana", Password: "pw123456", Role: RoleStudent, StudentName: "Dana Doe",
		})
		require.NoError(t, err)
		require.NotNil(t, usr.StudentID)
		assert.Greater(t, *usr.StudentID, 0)
	})

	t.Run("password is hashed", func(t *testing.T) {
		svc, store := newTestService(t)
		seedUser(t, svc, "bob", "hunter22", RoleTeacher)

		stored := store.users["bob"]
		assert.NotEqual(t, []byte("hunter22"), stored.PasswordHash)
		assert.NoError(t, CheckPassword(stored.PasswordHash, "hunter22"))
	})
}
