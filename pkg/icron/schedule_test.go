package icron

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetTriggerInfo_Hourly(t *testing.T) {
	t.Parallel()

	ref := time.Date(2024, 5, 1, 10, 20, 0, 0, time.UTC)
	info, err := GetTriggerInfo("0 * * * *", ref)
	require.NoError(t, err)

	assert.Equal(t, time.Date(2024, 5, 1, 11, 0, 0, 0, time.UTC), info.Next)
	assert.Equal(t, 40*time.Minute, info.TimeUntilNext)
	assert.False(t, info.Last.IsZero())
	assert.False(t, info.Last.After(ref))
	assert.Equal(t, "0 * * * *", info.Expression)
}

func TestGetTriggerInfo_Descriptor(t *testing.T) {
	t.Parallel()

	ref := time.Date(2024, 5, 1, 10, 20, 0, 0, time.UTC)
	info, err := GetTriggerInfo("@daily", ref)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 5, 2, 0, 0, 0, 0, time.UTC), info.Next)
}

func TestGetTriggerInfo_Invalid(t *testing.T) {
	t.Parallel()

	_, err := GetTriggerInfo("not a cron", time.Now())
	require.Error(t, err)
}

func TestGetTriggerInfo_LastTrigger(t *testing.T) {
	t.Parallel()

	ref := time.Date(2024, 5, 1, 10, 20, 0, 0, time.UTC)

	info, err := GetTriggerInfo("0 * * * *", ref)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC), info.Last)
	assert.Equal(t, 20*time.Minute, info.TimeSinceLast)

	info, err = GetTriggerInfo("30 2 * * 1", ref) // Mondays 02:30; 2024-05-01 is a Wednesday
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 4, 29, 2, 30, 0, 0, time.UTC), info.Last)
}
