package reaxml

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBool(t *testing.T) {
	cases := []struct {
		in   string
		want bool
	}{
		{"yes", true},
		{"YES", true},
		{"Yes", true},
		{"1", true},
		{"true", true},
		{"TRUE", true},
		{" yes ", true},
		{"no", false},
		{"0", false},
		{"false", false},
		{"", false},
		{"maybe", false},
		{"2", false},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, Bool(tc.in), "Bool(%q)", tc.in)
	}
}

func TestNodeBoolPrefersValueAttribute(t *testing.T) {
	n := &Node{Name: "underOffer", Attrs: map[string]string{"value": "yes"}, Text: "no"}
	assert.True(t, nodeBool(n))

	n = &Node{Name: "underOffer", Attrs: map[string]string{"value": "no"}, Text: "yes"}
	assert.False(t, nodeBool(n))

	n = &Node{Name: "heating", Text: "yes"}
	assert.True(t, nodeBool(n))

	assert.False(t, nodeBool(nil))
}

func TestNormalizeArea(t *testing.T) {
	cases := []struct {
		value    float64
		unit     string
		want     float64
		wantUnit string
	}{
		{60, "square", 557.42, "sqm"},
		{60, "SQUARES", 557.42, "sqm"},
		{1, "square", 9.29, "sqm"},
		{450, "sqm", 450, "sqm"},
		{450, "squareMeter", 450, "sqm"},
		{2.5, "hectare", 2.5, "sqm"}, // unknown units relabel without conversion
		{100, "", 100, "sqm"},
	}
	for _, tc := range cases {
		got, unit := NormalizeArea(tc.value, tc.unit)
		assert.InDelta(t, tc.want, got, 0.001, "NormalizeArea(%v, %q)", tc.value, tc.unit)
		assert.Equal(t, tc.wantUnit, unit)
	}
}

func TestParseDate(t *testing.T) {
	got := ParseDate("2025-06-21-14:30:00")
	require.NotNil(t, got)
	assert.Equal(t, time.Date(2025, 6, 21, 14, 30, 0, 0, time.UTC), *got)

	got = ParseDate("2025-06-21 14:30:00")
	require.NotNil(t, got)
	assert.Equal(t, 14, got.Hour())

	got = ParseDate("2025-06-21")
	require.NotNil(t, got)
	assert.Equal(t, time.Date(2025, 6, 21, 0, 0, 0, 0, time.UTC), *got)

	assert.Nil(t, ParseDate(""))
	assert.Nil(t, ParseDate("not a date"))
}

func TestNodeFloatToleratesCurrencyPunctuation(t *testing.T) {
	f := nodeFloat(&Node{Text: "$1,250,000"})
	require.NotNil(t, f)
	assert.Equal(t, 1250000.0, *f)

	assert.Nil(t, nodeFloat(&Node{Text: ""}))
	assert.Nil(t, nodeFloat(&Node{Text: "POA"}))
	assert.Nil(t, nodeFloat(nil))
}
