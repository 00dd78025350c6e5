package apperror

import (
	"errors"
	"fmt"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorMatchesByKind(t *testing.T) {
	err := Wrap(StorageWriteFailed, "failed to persist log collection", os.ErrPermission)
	wrapped := fmt.Errorf("append: %w", err)

	assert.True(t, errors.Is(wrapped, ErrStorageWriteFailed))
	assert.False(t, errors.Is(wrapped, ErrStorageUnavailable))
	assert.True(t, errors.Is(wrapped, os.ErrPermission))
	assert.Equal(t, StorageWriteFailed, KindOf(wrapped))
}

func TestKindOfPlainError(t *testing.T) {
	assert.Equal(t, Kind(""), KindOf(errors.New("boom")))
	assert.Equal(t, Kind(""), KindOf(nil))
}

func TestErrorMessage(t *testing.T) {
	assert.Equal(t, "InvalidFilterValue: bad timestamp_start", New(InvalidFilterValue, "bad timestamp_start").Error())
}
