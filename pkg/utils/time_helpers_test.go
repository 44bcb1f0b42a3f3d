package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseServerTime(t *testing.T) {
	want := time.Date(2024, 5, 6, 9, 30, 0, 0, time.UTC)

	for _, s := range []string{
		"Mon, 06 May 2024 09:30:00 GMT",
		"2024-05-06T09:30:00",
		"2024-05-06T09:30:00.000000",
		"2024-05-06 09:30:00",
		"2024-05-06T09:30:00Z",
	} {
		got, ok := ParseServerTime(s)
		require.True(t, ok, s)
		assert.True(t, want.Equal(got), s)
	}

	_, ok := ParseServerTime("")
	assert.False(t, ok)
	_, ok = ParseServerTime("вчера")
	assert.False(t, ok)
}

func TestFormatDisplay(t *testing.T) {
	assert.Equal(t, "06.05.2024, 09:30", FormatDisplay("Mon, 06 May 2024 09:30:00 GMT"))
	assert.Equal(t, "", FormatDisplay(""))
	assert.Equal(t, "", FormatDisplay("not a date"))
}

func TestNormalizeNaive(t *testing.T) {
	got, ok := NormalizeNaive("2024-05-06T09:30")
	require.True(t, ok)
	assert.Equal(t, "2024-05-06T09:30:00", got)

	got, ok = NormalizeNaive(" 2024-05-06T09:30:15 ")
	require.True(t, ok)
	assert.Equal(t, "2024-05-06T09:30:15", got)

	_, ok = NormalizeNaive("06.05.2024")
	assert.False(t, ok)
}

func TestSameDay(t *testing.T) {
	a := time.Date(2024, 5, 6, 0, 1, 0, 0, time.UTC)
	assert.True(t, SameDay(a, a.Add(23*time.Hour)))
	assert.False(t, SameDay(a, a.Add(24*time.Hour)))
}

func TestPtrHelpers(t *testing.T) {
	assert.Equal(t, 0, SafeDeref[int](nil))
	assert.Equal(t, "x", SafeDeref(ToPtr("x")))
}
