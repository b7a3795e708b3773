package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/require"
)

func TestFromPassesThroughAppErrors(t *testing.T) {
	original := NewConflict("already assigned")
	got := From(fmt.Errorf("wrap: %w", original))
	require.Equal(t, "CONFLICT", got.Code)
	require.Equal(t, http.StatusConflict, got.HTTPStatus)
}

func TestFromMapsNoRowsToNotFound(t *testing.T) {
	got := From(fmt.Errorf("query: %w", pgx.ErrNoRows))
	require.Equal(t, "NOT_FOUND", got.Code)
	require.Equal(t, http.StatusNotFound, got.HTTPStatus)
}

func TestFromWrapsUnknownErrors(t *testing.T) {
	cause := errors.New("connection refused")
	got := From(cause)
	require.Equal(t, "INTERNAL_ERROR", got.Code)
	require.ErrorIs(t, got, cause)
}

func TestCodeHelpers(t *testing.T) {
	require.True(t, IsNotFound(NewNotFound("request 5 not found")))
	require.True(t, IsConflict(NewConflict("taken")))
	require.True(t, IsForbidden(NewForbidden("nope")))
	require.True(t, IsValidation(NewValidation("bad email")))
	require.False(t, IsNotFound(NewConflict("taken")))
	require.False(t, IsCode(errors.New("plain"), "NOT_FOUND"))
}
