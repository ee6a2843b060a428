package format

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarketCap_Scaling(t *testing.T) {
	cases := []struct {
		name string
		in   any
		want string
	}{
		{"trillions", 2_750_000_000_000.0, "2.75T"},
		{"hundreds of millions", 980_000_000.0, "980.00M"},
		{"millions", 12_500_000.0, "12.50M"},
		{"thousands", 45_200.0, "45.20K"},
		{"below smallest scale", 500.0, "500.00"},
		{"exactly at threshold", 1_000_000_000.0, "1.00B"},
		{"negative magnitude", -2_500_000_000.0, "-2.50B"},
		{"integer input", 3_000_000, "3.00M"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := MarketCap(tc.in)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestMarketCap_StringPassThrough(t *testing.T) {
	got, err := MarketCap(" 2.75T ")
	require.NoError(t, err)
	assert.Equal(t, "2.75T", got)
}

func TestMarketCap_Unformattable(t *testing.T) {
	for _, in := range []any{nil, "", "   ", true, []any{1}} {
		_, err := MarketCap(in)
		assert.ErrorIs(t, err, ErrUnformattable, "input %#v", in)
	}
}
