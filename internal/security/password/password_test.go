package password

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestHasher(t *testing.T) {
	h := NewHasher(bcrypt.MinCost)
	hash, err := h.Hash("s3cret-pass")
	require.NoError(t, err)

	assert.NoError(t, h.Verify(hash, "s3cret-pass"))
	assert.ErrorIs(t, h.Verify(hash, "wrong"), ErrMismatch)
	assert.ErrorIs(t, h.Verify("", "anything"), ErrMismatch)
}

func TestNewHasher_InvalidCostFallsBack(t *testing.T) {
	assert.Equal(t, bcrypt.DefaultCost, NewHasher(99).Cost)
}

func TestPolicy(t *testing.T) {
	p := Policy{MinLength: 8, RequireLetter: true, RequireDigit: true}

	assert.Empty(t, p.Validate("casablanca2024"))
	assert.Equal(t, []string{"too_short"}, p.Validate("ab12"))
	assert.Equal(t, []string{"missing_digit"}, p.Validate("onlyletters"))
	assert.Equal(t, []string{"missing_letter", "too_common"}, p.Validate("12345678"))
}
