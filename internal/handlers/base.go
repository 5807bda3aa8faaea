package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strings"

	"poshts/internal/apperrors"
	"poshts/internal/db"
	"poshts/internal/logger"
	"poshts/internal/middleware"
	"poshts/internal/models"
	"poshts/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

// Moderator decides whether text must be blocked.
type Moderator interface {
	Moderate(ctx context.Context, text string) bool
}

// RespondError writes err as {"detail","code"}. Unknown errors become 500 and are logged.
func RespondError(c *gin.Context, err error) {
	var apiErr *apperrors.APIError
	if !errors.As(err, &apiErr) {
		logger.Log.Error("Request failed",
			logger.WithRequestID(middleware.RequestID(c)),
			zap.String("path", c.Request.URL.Path),
			zap.Error(err),
		)
		_ = c.Error(err)
		apiErr = apperrors.Internal()
	}
	if apiErr.Status == http.StatusUnauthorized {
		c.Header("WWW-Authenticate", "Bearer")
	}
	c.AbortWithStatusJSON(apiErr.Status, apiErr)
}

// bindError converts a gin binding failure into a 422.
func bindError(err error) *apperrors.APIError {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		field := fe.Field()
		return apperrors.Validation(field, validationMessage(field, fe))
	}
	return apperrors.Validation("", "Invalid request body: "+err.Error())
}

func init() {
	// report json/form names instead of Go field names in validation errors
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			for _, tag := range []string{"json", "form"} {
				name, _, _ := strings.Cut(fld.Tag.Get(tag), ",")
				if name != "" && name != "-" {
					return name
				}
			}
			return fld.Name
		})
	}
}

func validationMessage(field string, fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "min":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("%s must be at least %s characters", field, fe.Param())
		}
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	case "max":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("%s must be at most %s characters", field, fe.Param())
		}
		return fmt.Sprintf("%s must be at most %s", field, fe.Param())
	case "email":
		return fmt.Sprintf("%s must be a valid email address", field)
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, fe.Param())
	default:
		return fmt.Sprintf("%s is invalid", field)
	}
}

// pathID parses the :id route parameter; invalid ids are reported as not found.
func pathID(c *gin.Context, resource string) (uint, bool) {
	id, ok := utils.ParseID(c.Param("id"))
	if !ok {
		RespondError(c, apperrors.NotFound(resource))
		return 0, false
	}
	return id, true
}

// storeError maps db sentinels to API errors.
func storeError(err error, resource string) error {
	if errors.Is(err, db.ErrNotFound) {
		return apperrors.NotFound(resource)
	}
	return err
}

// canEdit reports whether user may modify content owned by ownerID.
func canEdit(user *models.User, ownerID uint, enforce bool) bool {
	if !enforce {
		return true
	}
	return user != nil && (user.ID == ownerID || user.Role.IsAdmin())
}

// Health 健康检查
func Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
