package errors

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestError_Formatting(t *testing.T) {
	plain := New(ErrModNotFound, "no such mod")
	assert.Equal(t, "[MOD_NOT_FOUND] no such mod", plain.Error())

	wrapped := Wrap(fmt.Errorf("disk on fire"), ErrLinkCreate, "creating link")
	assert.Equal(t, "[LINK_CREATE] creating link: disk on fire", wrapped.Error())
}

func TestWrap_NilReturnsNil(t *testing.T) {
	assert.Nil(t, Wrap(nil, ErrInternal, "ignored"))
	assert.Nil(t, Wrapf(nil, ErrInternal, "ignored %d", 1))
}

func TestUnwrap(t *testing.T) {
	cause := fmt.Errorf("cause")
	err := Wrap(cause, ErrPersistence, "saving")
	assert.True(t, stderrors.Is(err, cause))
}

func TestIsErrorCode(t *testing.T) {
	err := Newf(ErrNotActive, "mod %q is not active", "a")

	assert.True(t, IsErrorCode(err, ErrNotActive))
	assert.False(t, IsErrorCode(err, ErrAlreadyActive))
	assert.False(t, IsErrorCode(fmt.Errorf("plain"), ErrNotActive))

	// The code survives further wrapping with %w.
	outer := fmt.Errorf("refresh: %w", err)
	assert.True(t, IsErrorCode(outer, ErrNotActive))
}

func TestGetErrorCode(t *testing.T) {
	assert.Equal(t, ErrTrashMove, GetErrorCode(New(ErrTrashMove, "x")))
	assert.Equal(t, ErrUnknown, GetErrorCode(fmt.Errorf("plain")))
}

func TestWithDetail(t *testing.T) {
	err := New(ErrLinkCreate, "boom").WithDetail("link", "001_A").WithDetail("mod", "A")
	assert.Equal(t, "001_A", err.Details["link"])
	assert.Equal(t, "A", err.Details["mod"])
}
