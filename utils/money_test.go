package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseEuros(t *testing.T) {
	cases := []struct {
		in   string
		want int64
	}{
		{"7.50", 750},
		{"5", 500},
		{"0.01", 1},
		{"0", 0},
		{"-5.00", -500},
		{"1200", 120000},
	}
	for _, tc := range cases {
		got, err := ParseEuros(tc.in)
		require.NoError(t, err, tc.in)
		assert.Equal(t, tc.want, got, tc.in)
	}
}

func TestParseEurosRejectsGarbage(t *testing.T) {
	for _, in := range []string{"", "lots", "7,50", "1.005"} {
		_, err := ParseEuros(in)
		assert.Error(t, err, in)
	}
}

func TestFormatEuros(t *testing.T) {
	assert.Equal(t, "7.50", FormatEuros(750))
	assert.Equal(t, "0.00", FormatEuros(0))
	assert.Equal(t, "5.00", FormatEuros(500))
}

func TestEuroFloat(t *testing.T) {
	assert.Equal(t, 7.5, EuroFloat(750))
	assert.Equal(t, 0.0, EuroFloat(0))
}
