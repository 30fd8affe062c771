package errs

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKind(t *testing.T) {
	assert.Nil(t, Kind(nil))
	assert.Equal(t, ErrNotFound, Kind(NotFound("order %d not found", 1)))
	assert.Equal(t, ErrConflict, Kind(fmt.Errorf("failed to save: %w", Conflict("taken"))))
	assert.Equal(t, ErrInternal, Kind(errors.New("boom")))
}

func TestWrap_RemoteCallKeepsCause(t *testing.T) {
	cause := NotFound("order 7 not found")
	err := Wrap(ErrRemoteCall, cause, "failed to mark order %d as paid", 7)

	assert.ErrorIs(t, err, ErrRemoteCall)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Equal(t, ErrRemoteCall, Kind(err))
	assert.Equal(t, "failed to mark order 7 as paid: order 7 not found", err.Error())
}

func TestKind_JoinedCompensationFailure(t *testing.T) {
	remote := Wrap(ErrRemoteCall, errors.New("timeout"), "remote failed")
	err := errors.Join(remote, errors.New("compensation failed"))

	assert.Equal(t, ErrRemoteCall, Kind(err))
}
