package util

import (
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNotFoundCarriesDetails(t *testing.T) {
	err := NewNotFound("ticket", map[string]any{"ticket_id": "t1"})

	domainErr := ToDomainError(err)
	require.NotNil(t, domainErr)
	assert.Equal(t, CodeNotFound, domainErr.Code)
	assert.Equal(t, http.StatusNotFound, domainErr.HTTPStatus)
	assert.Equal(t, "ticket not found", domainErr.Error())
	assert.Equal(t, "t1", domainErr.Details["ticket_id"])
	assert.True(t, IsCode(err, CodeNotFound))
	assert.False(t, IsCode(err, CodeValidationFailed))
}

func TestToDomainErrorWrapsUnknownErrors(t *testing.T) {
	cause := errors.New("boom")

	domainErr := ToDomainError(cause)
	assert.Equal(t, CodeInternal, domainErr.Code)
	assert.ErrorIs(t, domainErr, cause)
	assert.Nil(t, ToDomainError(nil))
	assert.NoError(t, MapError(nil))
}

func TestStorageErrorUnwraps(t *testing.T) {
	cause := errors.New("disk full")
	err := NewStorageError("save", cause)

	assert.True(t, IsCode(err, CodeStorageFailed))
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "storage save failed")
}
