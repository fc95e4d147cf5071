package internal

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatusFor(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{fmt.Errorf("goal g1: %w", ErrNotFound), http.StatusNotFound},
		{fmt.Errorf("goal g1: %w", ErrForbidden), http.StatusForbidden},
		{ErrInvalidInput, http.StatusBadRequest},
		{ErrValidationFailed, http.StatusUnprocessableEntity},
		{ErrConflict, http.StatusConflict},
		{ErrUnauthorized, http.StatusUnauthorized},
		{NewAppError(http.StatusTeapot, "short and stout"), http.StatusTeapot},
		{errors.New("disk on fire"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, StatusFor(tt.err), tt.err.Error())
	}
}
