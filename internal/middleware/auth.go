package middleware

import (
	"context"
	"net/http"
	"strings"

	"poshts/internal/apperrors"
	"poshts/internal/logger"
	"poshts/internal/models"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const (
	CheckUserKey    = "user"
	invalidTokenKey = "invalid_token"
)

type TokenParser interface {
	Parse(token string) (uint, error)
}

type UserLookup interface {
	GetUser(ctx context.Context, id uint) (*models.User, error)
}

// LoadUser resolves an optional bearer token into the current user.
// An invalid token leaves the request anonymous; AuthRequired and
// RoleRequired report it as "Invalid token".
func LoadUser(tokens TokenParser, users UserLookup) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw, ok := bearerToken(c.GetHeader("Authorization"))
		if !ok {
			c.Next()
			return
		}

		userID, err := tokens.Parse(raw)
		if err != nil {
			c.Set(invalidTokenKey, true)
			c.Next()
			return
		}
		user, err := users.GetUser(c.Request.Context(), userID)
		if err != nil {
			logger.Log.Debug("Token user lookup failed", logger.WithUserID(userID), zap.Error(err))
			c.Set(invalidTokenKey, true)
			c.Next()
			return
		}

		c.Set(CheckUserKey, user)
		c.Next()
	}
}

// AuthRequired ensures a user is logged in
func AuthRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		if CurrentUser(c) == nil {
			abortWithError(c, unauthenticated(c))
			return
		}
		c.Next()
	}
}

// RoleRequired allows only users whose role is in roles.
func RoleRequired(roles ...models.Role) gin.HandlerFunc {
	message := "Access forbidden"
	if len(roles) == 1 && roles[0] == models.RoleAdmin {
		message = "Access forbidden: admins only"
	}

	return func(c *gin.Context) {
		user := CurrentUser(c)
		if user == nil {
			abortWithError(c, unauthenticated(c))
			return
		}
		for _, role := range roles {
			if user.Role == role {
				c.Next()
				return
			}
		}
		logger.Log.Warn("Role check failed",
			logger.WithUserID(user.ID),
			zap.String("role", string(user.Role)),
			zap.String("path", c.FullPath()),
		)
		abortWithError(c, apperrors.Forbidden(message))
	}
}

// CurrentUser returns the authenticated user or nil.
func CurrentUser(c *gin.Context) *models.User {
	v, ok := c.Get(CheckUserKey)
	if !ok {
		return nil
	}
	user, _ := v.(*models.User)
	return user
}

func bearerToken(header string) (string, bool) {
	scheme, token, found := strings.Cut(strings.TrimSpace(header), " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

func unauthenticated(c *gin.Context) *apperrors.APIError {
	if c.GetBool(invalidTokenKey) {
		return apperrors.Unauthorized("Invalid token")
	}
	return apperrors.Unauthorized("Not authenticated")
}

func abortWithError(c *gin.Context, err *apperrors.APIError) {
	if err.Status == http.StatusUnauthorized {
		c.Header("WWW-Authenticate", "Bearer")
	}
	c.AbortWithStatusJSON(err.Status, err)
}
