package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testSecret = "test-secret"
	testIssuer = "classtrack-test"
)

func TestIssueAndParseToken(t *testing.T) {
	sid := 7
	usr := User{ID: 42, Username: "carol", Role: RoleStudent, StudentID: &sid}

	token, exp, err := IssueToken(usr, testIssuer, testSecret, time.Hour)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Hour), exp, 5*time.Second)

	claims, err := ParseToken(token, testSecret, testIssuer)
	require.NoError(t, err)
	assert.Equal(t, 42, claims.UserID)
	assert.Equal(t, RoleStudent, claims.Role)
	assert.Equal(t, 7, claims.StudentID)
	assert.Equal(t, "carol", claims.Subject)
}

func TestParseToken_WrongKey(t *testing.T) {
	token, _, err := IssueToken(User{ID: 1, Role: RoleAdmin}, testIssuer, testSecret, time.Hour)
	require.NoError(t, err)

	_, err = ParseToken(token, "other-secret", testIssuer)
	assert.Error(t, err)
}

func TestParseToken_Expired(t *testing.T) {
	token, _, err := IssueToken(User{ID: 1, Role: RoleAdmin}, testIssuer, testSecret, -time.Minute)
	require.NoError(t, err)

	_, err = ParseToken(token, testSecret, testIssuer)
	assert.Error(t, err)
}

func TestParseToken_IssuerMismatch(t *testing.T) {
	token, _, err := IssueToken(User{ID: 1, Role: RoleAdmin}, "someone-else", testSecret, time.Hour)
	require.NoError(t, err)

	_, err = ParseToken(token, testSecret, testIssuer)
	assert.Error(t, err)
}

func TestHashAndCheckPassword(t *testing.T) {
	hash, err := HashPassword("s3cret")
	require.NoError(t, err)

	assert.NoError(t, CheckPassword(hash, "s3cret"))
	assert.Error(t, CheckPassword(hash, "wrong"))
}
