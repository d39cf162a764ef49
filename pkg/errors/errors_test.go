package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsMatchesByCode(t *testing.T) {
	clone := Clone(ErrTableNotFound, "timetable t-9 not found")
	assert.True(t, errors.Is(clone, ErrTableNotFound))
	assert.False(t, errors.Is(clone, ErrNotFound))

	wrapped := fmt.Errorf("remove table: %w", Wrap(errors.New("boom"), ErrLastTable.Code, ErrLastTable.Status, "keep one"))
	assert.True(t, errors.Is(wrapped, ErrLastTable))
}

func TestFromErrorDefaultsToInternal(t *testing.T) {
	err := FromError(errors.New("disk on fire"))
	assert.Equal(t, http.StatusInternalServerError, err.Status)
	assert.True(t, errors.Is(err, ErrInternal))
	assert.Nil(t, FromError(nil))
}

func TestErrorMessageIncludesCause(t *testing.T) {
	err := Wrap(errors.New("timeout"), ErrCatalogUnavailable.Code, ErrCatalogUnavailable.Status, "catalog source unavailable")
	assert.Equal(t, "catalog source unavailable: timeout", err.Error())
	assert.Equal(t, "timeout", errors.Unwrap(err).Error())
}
