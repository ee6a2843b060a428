package coerce

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToFinite(t *testing.T) {
	cases := []struct {
		name string
		in   any
		want float64
		ok   bool
	}{
		{"float", 123.45, 123.45, true},
		{"int", 42, 42, true},
		{"int64", int64(-7), -7, true},
		{"numeric string", "98.5", 98.5, true},
		{"padded string", "  250 ", 250, true},
		{"json number", json.Number("1e9"), 1e9, true},
		{"zero", 0.0, 0, true},
		{"nan", math.NaN(), 0, false},
		{"pos inf", math.Inf(1), 0, false},
		{"inf string", "Inf", 0, false},
		{"word", "n/a", 0, false},
		{"empty string", "", 0, false},
		{"nil", nil, 0, false},
		{"bool", true, 0, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ToFinite(tc.in)
			if !tc.ok {
				assert.ErrorIs(t, err, ErrNotFinite)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestFirstFinite_PriorityOrder(t *testing.T) {
	fields := map[string]any{
		"close":         "101.5",
		"previousClose": 99.0,
	}
	got, err := FirstFinite(fields, "close", "previousClose")
	require.NoError(t, err)
	assert.Equal(t, 101.5, got)
}

func TestFirstFinite_SkipsNonNumericCandidates(t *testing.T) {
	fields := map[string]any{
		"close":         "pending",
		"previousClose": 99.0,
	}
	got, err := FirstFinite(fields, "close", "previousClose")
	require.NoError(t, err)
	assert.Equal(t, 99.0, got)
}

func TestFirstFinite_NoCandidate(t *testing.T) {
	_, err := FirstFinite(map[string]any{"open": "x"}, "close", "c")
	assert.ErrorIs(t, err, ErrNotFinite)
}

func TestFirstString(t *testing.T) {
	fields := map[string]any{
		"name":     "   ",
		"longName": " Apple Inc. ",
		"sector":   42,
	}
	got, ok := FirstString(fields, "name", "longName")
	require.True(t, ok)
	assert.Equal(t, "Apple Inc.", got)

	_, ok = FirstString(fields, "sector", "industry")
	assert.False(t, ok)
}
