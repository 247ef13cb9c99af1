package timeentry

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDurationBetween(t *testing.T) {
	t0 := time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC)

	assert.Equal(t, int64(125), DurationBetween(t0, t0.Add(125*time.Second)))
	assert.Equal(t, int64(125), DurationBetween(t0, t0.Add(125*time.Second+999*time.Millisecond)))
	assert.Equal(t, int64(0), DurationBetween(t0, t0.Add(400*time.Millisecond)))
	assert.Equal(t, int64(0), DurationBetween(t0, t0))
	assert.Equal(t, int64(0), DurationBetween(t0, t0.Add(-time.Minute)))
}

func TestFormatDuration(t *testing.T) {
	assert.Equal(t, "00:00:00", FormatDuration(0))
	assert.Equal(t, "00:02:05", FormatDuration(125))
	assert.Equal(t, "01:01:01", FormatDuration(3661))
	assert.Equal(t, "27:46:40", FormatDuration(100000))
	assert.Equal(t, "00:00:00", FormatDuration(-5))
}

func TestTimeEntry_StopAndElapsed(t *testing.T) {
	t0 := time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC)
	e := &TimeEntry{StartTime: t0}

	require.True(t, e.Active())
	assert.Equal(t, int64(0), e.DurationSeconds)
	assert.Equal(t, int64(90), e.Elapsed(t0.Add(90*time.Second)))

	e.Stop(t0.Add(125 * time.Second))

	assert.False(t, e.Active())
	assert.Equal(t, int64(125), e.DurationSeconds)
	assert.Equal(t, int64(125), e.Elapsed(t0.Add(time.Hour)))
}

func TestTimeEntry_StopBeforeStartClampsToZero(t *testing.T) {
	t0 := time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC)
	e := &TimeEntry{StartTime: t0}

	e.Stop(t0.Add(-3 * time.Second))

	require.NotNil(t, e.EndTime)
	assert.Equal(t, int64(0), e.DurationSeconds)
}

func TestNewSummary(t *testing.T) {
	s := NewSummary("task-1", 125, 1)
	assert.Equal(t, Summary{TaskID: "task-1", TotalSeconds: 125, EntryCount: 1, FormattedTime: "00:02:05"}, s)
}
