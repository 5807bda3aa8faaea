package handlers

import (
	"errors"
	"net/http"
	"testing"

	"poshts/internal/apperrors"
	"poshts/internal/models"

	"github.com/gin-gonic/gin/binding"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sampleRequest struct {
	Email string      `json:"email" binding:"required,email"`
	Role  models.Role `json:"role" binding:"omitempty,oneof=user admin"`
	Title string      `json:"title" binding:"required,min=1,max=15"`
	Delay *int        `json:"auto_comment_delay" binding:"omitempty,max=31536000"`
}

func TestBindErrorMessages(t *testing.T) {
	huge := models.MaxAutoCommentDelay + 1
	cases := []struct {
		name    string
		req     sampleRequest
		field   string
		message string
	}{
		{"required", sampleRequest{Title: "Hi"}, "email", "email is required"},
		{"email", sampleRequest{Email: "nope", Title: "Hi"}, "email", "email must be a valid email address"},
		{"oneof", sampleRequest{Email: "a@example.com", Role: "root", Title: "Hi"}, "role", "role must be one of: user admin"},
		{"max string", sampleRequest{Email: "a@example.com", Title: "a title that is too long"}, "title", "title must be at most 15 characters"},
		{"max number", sampleRequest{Email: "a@example.com", Title: "Hi", Delay: &huge}, "auto_comment_delay", "auto_comment_delay must be at most 31536000"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := binding.Validator.ValidateStruct(&tc.req)
			require.Error(t, err)

			apiErr := bindError(err)
			assert.Equal(t, http.StatusUnprocessableEntity, apiErr.Status)
			assert.Equal(t, apperrors.ErrValidation, apiErr.Code)
			assert.Equal(t, tc.field, apiErr.Field)
			assert.Equal(t, tc.message, apiErr.Message)
		})
	}
}

func TestBindErrorMalformedBody(t *testing.T) {
	apiErr := bindError(errors.New("unexpected EOF"))
	assert.Equal(t, http.StatusUnprocessableEntity, apiErr.Status)
	assert.Empty(t, apiErr.Field)
	assert.Equal(t, "Invalid request body: unexpected EOF", apiErr.Message)
}

func TestValidRequestPasses(t *testing.T) {
	limit := models.MaxAutoCommentDelay
	req := sampleRequest{Email: "a@example.com", Role: models.RoleAdmin, Title: "Hi", Delay: &limit}
	assert.NoError(t, binding.Validator.ValidateStruct(&req))
}

func TestCanEdit(t *testing.T) {
	author := &models.User{ID: 1, Role: models.RoleUser}
	other := &models.User{ID: 2, Role: models.RoleUser}
	admin := &models.User{ID: 3, Role: models.RoleAdmin}

	assert.True(t, canEdit(nil, 1, false))
	assert.False(t, canEdit(nil, 1, true))
	assert.True(t, canEdit(author, 1, true))
	assert.False(t, canEdit(other, 1, true))
	assert.True(t, canEdit(admin, 1, true))
}
