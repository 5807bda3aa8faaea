package handlers

import (
	"errors"
	"net/http"

	"poshts/internal/apperrors"
	"poshts/internal/db"
	"poshts/internal/logger"
	"poshts/internal/models"
	"poshts/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
)

type TokenIssuer interface {
	Issue(userID uint) (string, error)
}

type AuthHandler struct {
	store  *db.Store
	tokens TokenIssuer
}

func NewAuthHandler(store *db.Store, tokens TokenIssuer) *AuthHandler {
	return &AuthHandler{store: store, tokens: tokens}
}

type registerRequest struct {
	Email            string      `json:"email" binding:"required,email"`
	Password         string      `json:"password" binding:"required"`
	Role             models.Role `json:"role" binding:"omitempty,oneof=user admin"`
	AutoCommentDelay *int        `json:"auto_comment_delay" binding:"omitempty,max=31536000"`
}

type loginForm struct {
	Username string `form:"username" binding:"required"`
	Password string `form:"password" binding:"required"`
}

type resetPasswordForm struct {
	Email       string `form:"email" binding:"required"`
	NewPassword string `form:"new_password" binding:"required"`
}

// Register 注册新用户
func (h *AuthHandler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, bindError(err))
		return
	}

	role := req.Role
	if role == "" {
		role = models.RoleUser
	}
	delay := models.AutoReplyDisabled
	if req.AutoCommentDelay != nil {
		delay = *req.AutoCommentDelay
	}

	hash, err := utils.HashPassword(req.Password)
	if err != nil {
		RespondError(c, err)
		return
	}

	user := models.User{
		Email:            utils.NormalizeEmail(req.Email),
		Password:         hash,
		Role:             role,
		AutoCommentDelay: &delay,
	}
	if err := h.store.CreateUser(c.Request.Context(), &user); err != nil {
		if errors.Is(err, db.ErrEmailTaken) {
			RespondError(c, apperrors.BadRequest("Email already registered"))
			return
		}
		RespondError(c, err)
		return
	}

	logger.Log.Info("User registered", logger.WithUserID(user.ID))
	c.JSON(http.StatusOK, user)
}

// Login 表单登录，返回 bearer token
func (h *AuthHandler) Login(c *gin.Context) {
	var form loginForm
	if err := c.ShouldBindWith(&form, binding.Form); err != nil {
		RespondError(c, bindError(err))
		return
	}

	user, err := h.store.GetUserByEmail(c.Request.Context(), utils.NormalizeEmail(form.Username))
	if err != nil && !errors.Is(err, db.ErrNotFound) {
		RespondError(c, err)
		return
	}
	if user == nil || !utils.CheckPasswordHash(form.Password, user.Password) {
		RespondError(c, apperrors.Unauthorized("Invalid credentials"))
		return
	}

	token, err := h.tokens.Issue(user.ID)
	if err != nil {
		RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"access_token": token,
		"token_type":   "bearer",
	})
}

// ResetPassword 重置密码（email / new_password 来自 query 或表单）
func (h *AuthHandler) ResetPassword(c *gin.Context) {
	var form resetPasswordForm
	if err := c.ShouldBindWith(&form, binding.Form); err != nil {
		RespondError(c, bindError(err))
		return
	}

	hash, err := utils.HashPassword(form.NewPassword)
	if err != nil {
		RespondError(c, err)
		return
	}

	if err := h.store.UpdateUserPassword(c.Request.Context(), utils.NormalizeEmail(form.Email), hash); err != nil {
		RespondError(c, storeError(err, "User"))
		return
	}

	c.JSON(http.StatusOK, gin.H{"detail": "Password updated"})
}
