package task

import (
	"strings"
	"testing"
	"time"

	"github.com/example/task-tracker/domain/failure"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApplyStatus_Transitions(t *testing.T) {
	earlier := time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)
	now := time.Date(2024, 1, 2, 10, 0, 0, 0, time.UTC)

	tests := []struct {
		from          Status
		to            Status
		wantChanged   bool
		wantCompleted *time.Time
	}{
		{StatusPlanned, StatusPlanned, false, nil},
		{StatusPlanned, StatusInProgress, true, nil},
		{StatusPlanned, StatusDone, true, &now},
		{StatusInProgress, StatusPlanned, true, nil},
		{StatusInProgress, StatusInProgress, false, nil},
		{StatusInProgress, StatusDone, true, &now},
		{StatusDone, StatusPlanned, true, nil},
		{StatusDone, StatusInProgress, true, nil},
		{StatusDone, StatusDone, false, &earlier},
	}

	for _, tt := range tests {
		t.Run(string(tt.from)+"->"+string(tt.to), func(t *testing.T) {
			tk := &Task{Status: tt.from}
			if tt.from == StatusDone {
				completed := earlier
				tk.CompletedAt = &completed
			}

			changed := ApplyStatus(tk, tt.to, now)

			assert.Equal(t, tt.wantChanged, changed)
			assert.Equal(t, tt.to, tk.Status)
			assert.Equal(t, tt.wantCompleted, tk.CompletedAt)
			assert.True(t, Consistent(tk))
		})
	}
}

func TestApplyStatus_DoneTwiceKeepsFirstCompletion(t *testing.T) {
	first := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	tk := &Task{Status: StatusPlanned}

	ApplyStatus(tk, StatusDone, first)
	ApplyStatus(tk, StatusDone, first.Add(time.Hour))

	require.NotNil(t, tk.CompletedAt)
	assert.Equal(t, first, *tk.CompletedAt)
}

func TestParseStatus(t *testing.T) {
	for _, raw := range []string{"planned", "in_progress", "done"} {
		s, err := ParseStatus(raw)
		require.NoError(t, err)
		assert.Equal(t, Status(raw), s)
	}

	for _, raw := range []string{"", "DONE", "completed", "todo"} {
		_, err := ParseStatus(raw)
		assert.ErrorIs(t, err, failure.ErrValidation, raw)
	}
}

func TestParsePriority(t *testing.T) {
	p, err := ParsePriority("")
	require.NoError(t, err)
	assert.Equal(t, PriorityMedium, p)

	p, err = ParsePriority("high")
	require.NoError(t, err)
	assert.Equal(t, PriorityHigh, p)

	_, err = ParsePriority("urgent")
	assert.ErrorIs(t, err, failure.ErrValidation)
}

func TestNormalizeTitle(t *testing.T) {
	title, err := NormalizeTitle("  Write report  ")
	require.NoError(t, err)
	assert.Equal(t, "Write report", title)

	_, err = NormalizeTitle("   ")
	assert.ErrorIs(t, err, failure.ErrValidation)

	_, err = NormalizeTitle(strings.Repeat("a", MaxTitleLength))
	assert.NoError(t, err)

	_, err = NormalizeTitle(strings.Repeat("a", MaxTitleLength+1))
	assert.ErrorIs(t, err, failure.ErrValidation)

	// Length counts characters, not bytes.
	_, err = NormalizeTitle(strings.Repeat("é", MaxTitleLength))
	assert.NoError(t, err)
}
