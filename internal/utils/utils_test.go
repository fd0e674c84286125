package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestParseDay(t *testing.T) {
	day, err := ParseDay("2026-08-30")
	require.NoError(t, err)
	require.Equal(t, 2026, day.Year())
	require.Equal(t, time.August, day.Month())
	require.Equal(t, 30, day.Day())

	_, err = ParseDay("30/08/2026")
	require.Error(t, err)

	_, err = ParseDay("")
	require.Error(t, err)
}

func TestFormatDay(t *testing.T) {
	day := time.Date(2026, 1, 5, 13, 45, 0, 0, time.UTC)
	require.Equal(t, "2026-01-05", FormatDay(day))
}

func TestCurrentMonthRef(t *testing.T) {
	ref := CurrentMonthRef()
	_, err := time.Parse("2006-01", ref)
	require.NoError(t, err)
}
