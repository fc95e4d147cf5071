package response

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/balasutharsan1247/student-fitness-app/internal"
)

func TestFromError(t *testing.T) {
	status, body := FromError(fmt.Errorf("goal g1: %w", internal.ErrForbidden))
	assert.Equal(t, http.StatusForbidden, status)
	assert.Equal(t, "goal g1: forbidden", body.Error.Message)

	status, body = FromError(errors.New("connection reset by peer"))
	assert.Equal(t, http.StatusInternalServerError, status)
	assert.Equal(t, "Internal Server Error", body.Error.Message)
	assert.Nil(t, body.Data)
}

func TestSuccessOmitsEmptyError(t *testing.T) {
	body := Success([]int{1, 2}, map[string]any{"count": 2})
	assert.Nil(t, body.Error)
	assert.Equal(t, 2, body.Meta["count"])
}
