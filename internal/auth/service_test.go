package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenRoundTrip(t *testing.T) {
	svc := NewService(nil, "brace-api", []byte("test-secret"), time.Hour)

	token, err := svc.signToken("user-1")
	require.NoError(t, err)

	subject, err := svc.ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", subject)
}

func TestParseTokenRejectsForeignIssuer(t *testing.T) {
	other := NewService(nil, "someone-else", []byte("test-secret"), time.Hour)
	token, err := other.signToken("user-1")
	require.NoError(t, err)

	svc := NewService(nil, "brace-api", []byte("test-secret"), time.Hour)
	_, err = svc.ParseToken(token)
	assert.Error(t, err)
}

func TestParseTokenRejectsWrongSecret(t *testing.T) {
	svc := NewService(nil, "brace-api", []byte("test-secret"), time.Hour)
	token, err := svc.signToken("user-1")
	require.NoError(t, err)

	forged := NewService(nil, "brace-api", []byte("another-secret"), time.Hour)
	_, err = forged.ParseToken(token)
	assert.Error(t, err)
}

func TestParseTokenRejectsExpired(t *testing.T) {
	svc := NewService(nil, "brace-api", []byte("test-secret"), -time.Minute)
	token, err := svc.signToken("user-1")
	require.NoError(t, err)

	_, err = svc.ParseToken(token)
	assert.Error(t, err)
}
