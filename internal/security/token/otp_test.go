package tokens

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNumericCode(t *testing.T) {
	code, err := NumericCode(6)
	require.NoError(t, err)
	assert.Len(t, code, 6)
	for _, r := range code {
		assert.True(t, r >= '0' && r <= '9')
	}
}

func TestHashCode(t *testing.T) {
	h := HashCode("a@b.ma:login", "123456")
	assert.True(t, EqualHash(h, HashCode("a@b.ma:login", "123456")))
	assert.False(t, EqualHash(h, HashCode("c@d.ma:login", "123456")))
	assert.False(t, EqualHash(h, HashCode("a@b.ma:login", "123457")))
}
