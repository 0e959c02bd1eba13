package apperror_test

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"go-sirh/internal/shared/apperror"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
)

func TestToHTTP(t *testing.T) {
	t.Run("app error keeps status and code", func(t *testing.T) {
		got := apperror.ToHTTP(apperror.NotFound("Contrat"))
		assert.Equal(t, http.StatusNotFound, got.Status)
		assert.Equal(t, apperror.CodeNotFound, got.Code)
		assert.Equal(t, "Contrat introuvable", got.Message)
	})

	t.Run("wrapped app error is unwrapped", func(t *testing.T) {
		err := fmt.Errorf("context: %w", apperror.StateConflict("transition interdite"))
		got := apperror.ToHTTP(err)
		assert.Equal(t, http.StatusBadRequest, got.Status)
		assert.Equal(t, apperror.CodeInvalidState, got.Code)
	})

	t.Run("plain error becomes internal", func(t *testing.T) {
		got := apperror.ToHTTP(errors.New("disk full"))
		assert.Equal(t, http.StatusInternalServerError, got.Status)
		assert.Equal(t, apperror.CodeInternalError, got.Code)
		assert.NotContains(t, got.Message, "disk")
	})
}

func TestAppError_Is(t *testing.T) {
	sentinel := apperror.Conflict("période déjà existante")
	wrapped := apperror.Wrap(errors.New("dup"), sentinel.Code, sentinel.Message, sentinel.HTTPStatus)

	assert.True(t, errors.Is(wrapped, sentinel))
	assert.False(t, errors.Is(wrapped, apperror.ErrNotFound))
}

type sampleRequest struct {
	DateDebut string `json:"date_debut" validate:"required"`
}

func TestMapValidationError(t *testing.T) {
	v := validator.New()
	err := v.Struct(sampleRequest{})
	assert.Error(t, err)

	mapped := apperror.MapValidationError(err)
	got := apperror.ToHTTP(mapped)
	assert.Equal(t, http.StatusBadRequest, got.Status)
	assert.Equal(t, apperror.CodeInvalidInput, got.Code)
	assert.Contains(t, got.Message, "obligatoire")
}
