package handlers

import (
	"net/http"

	"poshts/internal/db"
	"poshts/internal/logger"
	"poshts/internal/middleware"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type UserHandler struct {
	store *db.Store
}

func NewUserHandler(store *db.Store) *UserHandler {
	return &UserHandler{store: store}
}

type updateMeRequest struct {
	AutoCommentDelay *int `json:"auto_comment_delay" binding:"required,max=31536000"`
}

// Me 当前登录用户
func (h *UserHandler) Me(c *gin.Context) {
	c.JSON(http.StatusOK, middleware.CurrentUser(c))
}

// UpdateMe 修改自动回复延迟（秒，负数表示关闭）
func (h *UserHandler) UpdateMe(c *gin.Context) {
	var req updateMeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, bindError(err))
		return
	}

	current := middleware.CurrentUser(c)
	user, err := h.store.SetAutoCommentDelay(c.Request.Context(), current.ID, *req.AutoCommentDelay)
	if err != nil {
		RespondError(c, storeError(err, "User"))
		return
	}

	logger.Log.Info("Auto-reply delay updated", logger.WithUserID(user.ID), zap.Int("delay", *req.AutoCommentDelay))
	c.JSON(http.StatusOK, user)
}

// List 所有用户
func (h *UserHandler) List(c *gin.Context) {
	users, err := h.store.ListUsers(c.Request.Context())
	if err != nil {
		RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, users)
}
