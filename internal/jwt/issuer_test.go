package jwt

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var secret = []byte("0123456789abcdef0123456789abcdef")

func TestIssueAndParse(t *testing.T) {
	iss := NewIssuer("syndik", secret, time.Hour)

	tok, exp, err := iss.IssueAccess("user-1", "syndic", "s@example.com")
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Hour), exp, 5*time.Second)

	claims, err := iss.Parse(tok)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.Subject)
	assert.Equal(t, "syndic", claims.Role)
	assert.Equal(t, "s@example.com", claims.Email)
}

func TestParse_Expired(t *testing.T) {
	iss := NewIssuer("syndik", secret, time.Minute)
	base := time.Now()
	iss.now = func() time.Time { return base.Add(-2 * time.Hour) }
	tok, _, err := iss.IssueAccess("user-1", "resident", "")
	require.NoError(t, err)

	iss.now = func() time.Time { return base }
	_, err = iss.Parse(tok)
	assert.ErrorIs(t, err, ErrExpired)
}

func TestParse_WrongSecretOrIssuer(t *testing.T) {
	a := NewIssuer("syndik", secret, time.Hour)
	tok, _, err := a.IssueAccess("user-1", "resident", "")
	require.NoError(t, err)

	b := NewIssuer("syndik", []byte("another-secret-another-secret-xx"), time.Hour)
	_, err = b.Parse(tok)
	assert.ErrorIs(t, err, ErrInvalidToken)

	c := NewIssuer("other", secret, time.Hour)
	_, err = c.Parse(tok)
	assert.ErrorIs(t, err, ErrInvalidIssuer)

	_, err = a.Parse("not-a-token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}
