package failure

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorsMatchSentinels(t *testing.T) {
	assert.ErrorIs(t, NotFound("task"), ErrNotFound)
	assert.ErrorIs(t, Validation("bad %s", "title"), ErrValidation)
	assert.ErrorIs(t, Protected("nope"), ErrProtectedEntity)
	assert.ErrorIs(t, TimerRunning(), ErrTimerAlreadyRunning)
	assert.ErrorIs(t, Conflict("dup"), ErrConflict)

	assert.EqualError(t, NotFound("time entry"), "time entry not found")
	assert.EqualError(t, Validation("bad %s", "title"), "bad title")
}

func TestFromError(t *testing.T) {
	assert.Nil(t, FromError(nil))
	assert.Nil(t, FromError(errors.New("boom")))

	info := FromError(fmt.Errorf("wrapped: %w", NotFound("list")))
	assert.Equal(t, &Info{Code: CodeNotFound, Message: "list not found"}, info)

	// A bare sentinel still maps.
	info = FromError(fmt.Errorf("saving: %w", ErrConflict))
	assert.Equal(t, CodeConflict, info.Code)
	assert.Equal(t, "saving: conflict", info.Message)
}

func TestInfoErr(t *testing.T) {
	var nilInfo *Info
	assert.NoError(t, nilInfo.Err())

	err := (&Info{Code: CodeProtectedEntity, Message: "default list cannot be deleted"}).Err()
	assert.ErrorIs(t, err, ErrProtectedEntity)
	assert.EqualError(t, err, "default list cannot be deleted")

	err = (&Info{Code: "mystery", Message: "?"}).Err()
	assert.ErrorIs(t, err, ErrConflict)
}
