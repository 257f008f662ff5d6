package token

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fastygo/taskboard/domain"
)

func session(ttl time.Duration) *domain.Session {
	return &domain.Session{
		ID:          "sess-1",
		UserID:      "u1",
		DisplayName: "Ada",
		CreatedAt:   time.Now(),
		ExpiresAt:   time.Now().Add(ttl),
	}
}

func TestIssueAndParse(t *testing.T) {
	m := NewManager("secret", "taskboard")

	raw, err := m.Issue(session(time.Hour))
	require.NoError(t, err)

	claims, err := m.Parse(raw)
	require.NoError(t, err)
	assert.Equal(t, domain.Identity{ID: "u1", DisplayName: "Ada", SessionID: "sess-1"}, claims.Identity())
	assert.Equal(t, "taskboard", claims.Issuer)
}

func TestIssueRejectsAnonymousSession(t *testing.T) {
	m := NewManager("secret", "taskboard")
	_, err := m.Issue(nil)
	assert.ErrorIs(t, err, domain.ErrInvalidPayload)
	_, err = m.Issue(&domain.Session{ID: "x"})
	assert.ErrorIs(t, err, domain.ErrInvalidPayload)
}

func TestParseRejects(t *testing.T) {
	m := NewManager("secret", "taskboard")

	expired, err := m.Issue(session(-time.Minute))
	require.NoError(t, err)

	foreign, err := NewManager("other-secret", "taskboard").Issue(session(time.Hour))
	require.NoError(t, err)

	wrongIssuer, err := NewManager("secret", "someone-else").Issue(session(time.Hour))
	require.NoError(t, err)

	unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, Claims{UserID: "u1"}).
		SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	tests := map[string]string{
		"garbage":      "not-a-token",
		"expired":      expired,
		"wrong secret": foreign,
		"wrong issuer": wrongIssuer,
		"alg none":     unsigned,
	}
	for name, raw := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := m.Parse(raw)
			assert.Error(t, err)
		})
	}
}
