package numeric

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFixed_MarshalJSON(t *testing.T) {
	tests := []struct {
		in   Fixed
		want string
	}{
		{MustParse("8"), "8.00"},
		{MustParse("7.5"), "7.50"},
		{MustParse("0.125"), "0.13"},
		{MustParse("-0.125"), "-0.13"},
		{Zero, "0.00"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			b, err := json.Marshal(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, string(b))
		})
	}
}

func TestFixed_UnmarshalJSON(t *testing.T) {
	var payload struct {
		Hours Fixed `json:"hours"`
		Rate  Fixed `json:"rate"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"hours": 7.25, "rate": "25.5"}`), &payload))

	assert.True(t, payload.Hours.Equal(MustParse("7.25").Decimal))
	assert.True(t, payload.Rate.Equal(MustParse("25.5").Decimal))
}

func TestSum_ExactDecimal(t *testing.T) {
	// 0.1 + 0.2 is not 0.3 in binary floating point
	got := Sum(MustParse("0.1"), MustParse("0.2"))
	assert.True(t, got.Equal(MustParse("0.3").Decimal))
}

func TestFixed_Scan(t *testing.T) {
	var f Fixed
	require.NoError(t, f.Scan([]byte("12.50")))
	assert.Equal(t, "12.50", f.String())

	v, err := f.Value()
	require.NoError(t, err)
	assert.Equal(t, "12.5", v)
}

func TestRate_Format(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"25", "25.00"},
		{"1.5", "1.50"},
		{"1.125", "1.125"},
		{"28.1250", "28.125"},
		{"0.000001", "0.000001"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			r := MustParse(tt.in).Exact()
			assert.Equal(t, tt.want, r.String())

			b, err := json.Marshal(r)
			require.NoError(t, err)
			assert.Equal(t, tt.want, string(b))
		})
	}
}
