package task

import "time"

// ApplyStatus moves t to next and keeps CompletedAt consistent with it:
// entering done stamps now, leaving done clears it, and any other move
// leaves it untouched. Setting done on a task that is already done keeps
// the original completion time.
//
// Every path that changes a task's status must go through here.
func ApplyStatus(t *Task, next Status, now time.Time) (changed bool) {
	prev := t.Status
	t.Status = next

	switch {
	case next == StatusDone && prev != StatusDone:
		completed := now
		t.CompletedAt = &completed
	case next != StatusDone:
		t.CompletedAt = nil
	}

	return prev != next
}

// Consistent reports whether CompletedAt agrees with Status.
func Consistent(t *Task) bool {
	return (t.Status == StatusDone) == (t.CompletedAt != nil)
}
