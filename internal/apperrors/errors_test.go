package apperrors

import (
	"encoding/json"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConstructorsStatus(t *testing.T) {
	assert.Equal(t, http.StatusNotFound, NotFound("Posht").Status)
	assert.Equal(t, "Posht not found", NotFound("Posht").Message)
	assert.Equal(t, http.StatusUnauthorized, Unauthorized("Not authenticated").Status)
	assert.Equal(t, http.StatusForbidden, Forbidden("x").Status)
	assert.Equal(t, http.StatusBadRequest, BadRequest("x").Status)
	assert.Equal(t, http.StatusUnprocessableEntity, Validation("title", "required").Status)
	assert.Equal(t, http.StatusInternalServerError, Internal().Status)
	assert.Equal(t, http.StatusInternalServerError, ErrorCode("UNKNOWN").StatusCode())
}

func TestJSONShape(t *testing.T) {
	raw, err := json.Marshal(NotFound("Comment"))
	require.NoError(t, err)
	assert.JSONEq(t, `{"code":"NOT_FOUND","detail":"Comment not found"}`, string(raw))
}

func TestAs(t *testing.T) {
	wrapped := fmt.Errorf("lookup: %w", Forbidden("nope"))
	assert.Equal(t, ErrForbidden, As(wrapped).Code)
	assert.Equal(t, ErrInternalError, As(fmt.Errorf("boom")).Code)
}
