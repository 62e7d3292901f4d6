package errorutil

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToDomainError(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		code   string
		status int
	}{
		{"no rows", pgx.ErrNoRows, CodeNotFound, http.StatusNotFound},
		{"wrapped no rows", fmt.Errorf("get: %w", pgx.ErrNoRows), CodeNotFound, http.StatusNotFound},
		{"domain error", NewCapacityError("full", nil), CodeCapacity, http.StatusConflict},
		{"wrapped domain error", fmt.Errorf("ctx: %w", NewDuplicateError("dup", nil)), CodeDuplicate, http.StatusConflict},
		{"plain error", errors.New("boom"), CodeInternal, http.StatusInternalServerError},
		{"malformed uuid", fmt.Errorf("query: %w", &pgconn.PgError{Code: "22P02"}), CodeNotFound, http.StatusNotFound},
		{"other postgres error", &pgconn.PgError{Code: "23505"}, CodeInternal, http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			de := ToDomainError(tt.err)
			require.NotNil(t, de)
			assert.Equal(t, tt.code, de.Code)
			assert.Equal(t, tt.status, de.HTTPStatus)
		})
	}
	assert.Nil(t, ToDomainError(nil))
	assert.NoError(t, MapError(nil))
}

func TestNewValidationErrorCarriesAllFields(t *testing.T) {
	err := NewValidationError("validation failed", map[string]string{
		"contact_1":   "required",
		"login_email": "required",
	})
	assert.True(t, HasCode(err, CodeValidation))
	de := ToDomainError(err)
	assert.Len(t, de.Details, 2)
	assert.Equal(t, "required", de.Details["login_email"])
}

func TestInternalErrorHidesCause(t *testing.T) {
	cause := errors.New("connection refused")
	de := ToDomainError(NewInternalError(cause))
	assert.NotContains(t, de.Message, "connection refused")
	assert.ErrorIs(t, de, cause)
}
