package services

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func newTokenService(ttl time.Duration) TokenService {
	return TokenService{
		Secret: []byte("test-secret"),
		Issuer: "dashboard",
		TTL:    ttl,
	}
}

func TestHashPasswordRoundTrip(t *testing.T) {
	tokens := newTokenService(time.Hour)

	hash, err := tokens.HashPassword("secret1")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(hash, "$argon2id$"))
	assert.NotContains(t, hash, "secret1")

	assert.True(t, tokens.VerifyPassword("secret1", hash))
	assert.False(t, tokens.VerifyPassword("secret2", hash))
}

func TestHashPasswordUniqueSalts(t *testing.T) {
	tokens := newTokenService(time.Hour)

	first, err := tokens.HashPassword("secret1")
	require.NoError(t, err)
	second, err := tokens.HashPassword("secret1")
	require.NoError(t, err)
	assert.NotEqual(t, first, second)
}

func TestVerifyPasswordBcryptFallback(t *testing.T) {
	tokens := newTokenService(time.Hour)

	hash, err := bcrypt.GenerateFromPassword([]byte("legacy-pass"), bcrypt.DefaultCost)
	require.NoError(t, err)

	assert.True(t, tokens.VerifyPassword("legacy-pass", string(hash)))
	assert.False(t, tokens.VerifyPassword("wrong", string(hash)))
}

func TestVerifyPasswordGarbageHash(t *testing.T) {
	tokens := newTokenService(time.Hour)
	assert.False(t, tokens.VerifyPassword("anything", "not-a-hash"))
	assert.False(t, tokens.VerifyPassword("anything", "$argon2id$broken"))
}

func TestIssueAndParseToken(t *testing.T) {
	tokens := newTokenService(time.Hour)

	token, exp, err := tokens.IssueToken("user-123")
	require.NoError(t, err)
	require.NotEmpty(t, token)
	assert.Greater(t, exp, time.Now().Unix())

	userID, err := tokens.ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, "user-123", userID)
}

func TestParseTokenExpired(t *testing.T) {
	tokens := newTokenService(-time.Minute)

	token, _, err := tokens.IssueToken("user-123")
	require.NoError(t, err)

	_, err = tokens.ParseToken(token)
	require.Error(t, err)
	serr, ok := err.(ServiceError)
	require.True(t, ok)
	assert.Equal(t, 401, serr.Status)
}

func TestParseTokenTampered(t *testing.T) {
	tokens := newTokenService(time.Hour)

	token, _, err := tokens.IssueToken("user-123")
	require.NoError(t, err)

	tampered := token[:len(token)-2] + "xx"
	_, err = tokens.ParseToken(tampered)
	assert.Error(t, err)
}

func TestParseTokenWrongSecret(t *testing.T) {
	tokens := newTokenService(time.Hour)
	token, _, err := tokens.IssueToken("user-123")
	require.NoError(t, err)

	other := TokenService{Secret: []byte("other-secret"), Issuer: "dashboard", TTL: time.Hour}
	_, err = other.ParseToken(token)
	assert.Error(t, err)
}

func TestParseTokenWrongIssuer(t *testing.T) {
	foreign := TokenService{Secret: []byte("test-secret"), Issuer: "someone-else", TTL: time.Hour}
	token, _, err := foreign.IssueToken("user-123")
	require.NoError(t, err)

	tokens := newTokenService(time.Hour)
	_, err = tokens.ParseToken(token)
	assert.Error(t, err)
}

func TestParseTokenGarbage(t *testing.T) {
	tokens := newTokenService(time.Hour)
	for _, raw := range []string{"", "garbage", "a.b.c"} {
		_, err := tokens.ParseToken(raw)
		assert.Error(t, err, raw)
	}
}
