package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func TestIssueAndParseAccess(t *testing.T) {
	m := NewTokenManager(testSecret, "planner-api", 15*time.Minute)

	token, err := m.IssueAccess(42)
	require.NoError(t, err)

	userID, err := m.ParseAccess(token)
	require.NoError(t, err)
	assert.Equal(t, int64(42), userID)
}

func TestParseAccessRejectsTampered(t *testing.T) {
	m := NewTokenManager(testSecret, "planner-api", 15*time.Minute)

	token, err := m.IssueAccess(42)
	require.NoError(t, err)

	_, err = m.ParseAccess(token + "x")
	assert.ErrorIs(t, err, ErrInvalidToken)
	_, err = m.ParseAccess("not.a.token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestParseAccessRejectsWrongSecret(t *testing.T) {
	issuer := NewTokenManager(testSecret, "planner-api", 15*time.Minute)
	verifier := NewTokenManager("ffffffffffffffffffffffffffffffff", "planner-api", 15*time.Minute)

	token, err := issuer.IssueAccess(42)
	require.NoError(t, err)

	_, err = verifier.ParseAccess(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestParseAccessRejectsWrongIssuer(t *testing.T) {
	issuer := NewTokenManager(testSecret, "other-service", 15*time.Minute)
	verifier := NewTokenManager(testSecret, "planner-api", 15*time.Minute)

	token, err := issuer.IssueAccess(42)
	require.NoError(t, err)

	_, err = verifier.ParseAccess(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestParseAccessRejectsExpired(t *testing.T) {
	m := NewTokenManager(testSecret, "planner-api", -time.Minute)

	token, err := m.IssueAccess(42)
	require.NoError(t, err)

	_, err = m.ParseAccess(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}
