package util

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToDomainErrorKeepsDomainErrors(t *testing.T) {
	wrapped := fmt.Errorf("loading: %w", NewNotFound("site content", map[string]any{"siteId": "ana"}))

	de := ToDomainError(wrapped)
	require.NotNil(t, de)
	assert.Equal(t, "NOT_FOUND", de.Code)
	assert.Equal(t, http.StatusNotFound, de.HTTPStatus)
	assert.Equal(t, "ana", de.Details["siteId"])
}

func TestToDomainErrorMapsFiberErrors(t *testing.T) {
	de := ToDomainError(fiber.NewError(http.StatusMethodNotAllowed, "Method Not Allowed"))
	assert.Equal(t, "METHOD_NOT_ALLOWED", de.Code)
	assert.Equal(t, http.StatusMethodNotAllowed, de.HTTPStatus)
}

func TestToDomainErrorHidesUnknownErrors(t *testing.T) {
	de := ToDomainError(errors.New("pq: connection refused"))
	assert.Equal(t, "INTERNAL_ERROR", de.Code)
	assert.Equal(t, "internal server error", de.Message)
	assert.Equal(t, http.StatusInternalServerError, de.HTTPStatus)
}

func TestUpstreamErrorDoesNotLeakCause(t *testing.T) {
	cause := errors.New("status 529: overloaded")
	de := ToDomainError(NewUpstreamError("chat completion failed", cause))

	assert.Equal(t, "UPSTREAM_ERROR", de.Code)
	assert.Equal(t, "chat completion failed", de.Message)
	assert.ErrorIs(t, de, cause)
	assert.Nil(t, de.Details)
}

func TestInvalidCredentialsIsUniform(t *testing.T) {
	a := ToDomainError(NewInvalidCredentials())
	b := ToDomainError(NewInvalidCredentials())
	assert.Equal(t, a, b)
	assert.Equal(t, http.StatusUnauthorized, a.HTTPStatus)
}
