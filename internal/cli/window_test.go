package cli

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveWindowDefaultsToTrailingWeek(t *testing.T) {
	since, until, err := resolveWindow("", "", time.UTC)
	require.NoError(t, err)
	assert.Equal(t, 7*24*time.Hour, until.Sub(since))
	assert.WithinDuration(t, time.Now(), until, time.Minute)
}

func TestResolveWindowAcceptsDateOnly(t *testing.T) {
	loc, err := time.LoadLocation("Europe/Berlin")
	require.NoError(t, err)

	since, until, err := resolveWindow("2024-03-01", "2024-03-07", loc)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 3, 1, 0, 0, 0, 0, loc), since)
	assert.Equal(t, time.Date(2024, 3, 7, 0, 0, 0, 0, loc), until)
}

func TestResolveWindowAcceptsRFC3339(t *testing.T) {
	since, until, err := resolveWindow("2024-03-01T09:30:00Z", "2024-03-02T18:00:00Z", time.UTC)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 3, 1, 9, 30, 0, 0, time.UTC), since.UTC())
	assert.Equal(t, time.Date(2024, 3, 2, 18, 0, 0, 0, time.UTC), until.UTC())
}

func TestResolveWindowRejectsInvertedRange(t *testing.T) {
	_, _, err := resolveWindow("2024-03-07", "2024-03-01", time.UTC)
	assert.Error(t, err)
}

func TestResolveWindowRejectsGarbage(t *testing.T) {
	_, _, err := resolveWindow("last tuesday", "", time.UTC)
	assert.ErrorContains(t, err, "--since")
}
