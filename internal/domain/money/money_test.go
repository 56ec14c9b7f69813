package money

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	cases := map[string]Amount{
		"1000":    100000,
		"1000.5":  100050,
		"1000.50": 100050,
		"0.01":    1,
		"-3.20":   -320,
	}
	for in, want := range cases {
		got, err := Parse(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	for _, bad := range []string{"", "1.234", "abc", ".5", "10.", "-", "--5", "-+5", "+5", "1.-5", "1.+5", "1 000", "1e3", "0x10"} {
		_, err := Parse(bad)
		assert.ErrorIs(t, err, ErrInvalidAmount, bad)
	}
}

func TestParse_Bounds(t *testing.T) {
	got, err := Parse("92233720368547757.99")
	require.NoError(t, err)
	assert.Equal(t, Amount(9223372036854775799), got)

	for _, big := range []string{"92233720368547758", "184467440737095517.00", "-184467440737095517", "99999999999999999999"} {
		_, err := Parse(big)
		assert.ErrorIs(t, err, ErrInvalidAmount, big)
	}
}

func TestAmountJSON_RejectsMalformed(t *testing.T) {
	var v struct {
		Amount Amount `json:"amount"`
	}
	assert.Error(t, json.Unmarshal([]byte(`{"amount":"--5"}`), &v))
	assert.Error(t, json.Unmarshal([]byte(`{"amount":184467440737095517.00}`), &v))
}

func TestAmountJSON(t *testing.T) {
	var v struct {
		Amount Amount `json:"amount"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"amount": 600.25}`), &v))
	assert.Equal(t, Amount(60025), v.Amount)

	require.NoError(t, json.Unmarshal([]byte(`{"amount": "300"}`), &v))
	assert.Equal(t, FromUnits(300), v.Amount)

	b, err := json.Marshal(v)
	require.NoError(t, err)
	assert.JSONEq(t, `{"amount": 300.00}`, string(b))
}

func TestString(t *testing.T) {
	assert.Equal(t, "0.05", Amount(5).String())
	assert.Equal(t, "-12.30", Amount(-1230).String())
	assert.Equal(t, Amount(5), Min(5, 9))
}
