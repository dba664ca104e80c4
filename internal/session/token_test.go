package session

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIssueAndValidate(t *testing.T) {
	svc := NewTokenService("test-secret", time.Hour)
	sessionID := uuid.NewString()
	userID := uuid.New()

	token, err := svc.Issue(sessionID, userID)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := svc.Validate(token)
	require.NoError(t, err)
	assert.Equal(t, sessionID, claims.SessionID)
	assert.Equal(t, userID, claims.UserID)
}

func TestValidateAnonymousToken(t *testing.T) {
	svc := NewTokenService("test-secret", time.Hour)

	token, err := svc.Issue(uuid.NewString(), uuid.Nil)
	require.NoError(t, err)

	claims, err := svc.Validate(token)
	require.NoError(t, err)
	assert.Equal(t, uuid.Nil, claims.UserID)
}

func TestValidateRejectsBadTokens(t *testing.T) {
	svc := NewTokenService("test-secret", time.Hour)

	_, err := svc.Validate("")
	assert.Error(t, err)

	_, err = svc.Validate("not.a.token")
	assert.Error(t, err)

	// Token signed with a different secret.
	other := NewTokenService("other-secret", time.Hour)
	token, err := other.Issue(uuid.NewString(), uuid.Nil)
	require.NoError(t, err)

	_, err = svc.Validate(token)
	assert.Error(t, err)
}

func TestValidateRejectsExpiredToken(t *testing.T) {
	svc := NewTokenService("test-secret", -time.Minute)

	token, err := svc.Issue(uuid.NewString(), uuid.Nil)
	require.NoError(t, err)

	_, err = svc.Validate(token)
	assert.Error(t, err)
}
