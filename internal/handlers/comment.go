package handlers

import (
	"net/http"

	"poshts/internal/apperrors"
	"poshts/internal/db"
	"poshts/internal/logger"
	"poshts/internal/middleware"
	"poshts/internal/models"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// AutoReplyTrigger starts the deferred auto-reply for a stored comment.
type AutoReplyTrigger interface {
	Trigger(comment models.Comment) bool
}

type CommentHandler struct {
	store            *db.Store
	moderator        Moderator
	autoReply        AutoReplyTrigger
	enforceOwnership bool
}

func NewCommentHandler(store *db.Store, moderator Moderator, autoReply AutoReplyTrigger, enforceOwnership bool) *CommentHandler {
	return &CommentHandler{
		store:            store,
		moderator:        moderator,
		autoReply:        autoReply,
		enforceOwnership: enforceOwnership,
	}
}

type commentCreateRequest struct {
	CommentText string `json:"comment_text" binding:"required,max=1024"`
	PoshtID     uint   `json:"posht_id" binding:"required"`
	UserID      uint   `json:"user_id"`
}

type commentUpdateRequest struct {
	CommentText string `json:"comment_text" binding:"required,max=1024"`
}

func (h *CommentHandler) List(c *gin.Context) {
	comments, err := h.store.ListComments(c.Request.Context())
	if err != nil {
		RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, comments)
}

func (h *CommentHandler) Detail(c *gin.Context) {
	id, ok := pathID(c, "Comment")
	if !ok {
		return
	}
	comment, err := h.store.GetComment(c.Request.Context(), id)
	if err != nil {
		RespondError(c, storeError(err, "Comment"))
		return
	}
	c.JSON(http.StatusOK, comment)
}

// Create 发表评论：审核 -> 写库 -> 异步触发自动回复（不等待）
func (h *CommentHandler) Create(c *gin.Context) {
	var req commentCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, bindError(err))
		return
	}

	// token 用户优先于 body 中的 user_id
	userID := req.UserID
	if user := middleware.CurrentUser(c); user != nil {
		userID = user.ID
	}
	if userID == 0 {
		RespondError(c, apperrors.Validation("user_id", "user_id is required"))
		return
	}

	ctx := c.Request.Context()
	if _, err := h.store.GetPosht(ctx, req.PoshtID); err != nil {
		RespondError(c, storeError(err, "Posht"))
		return
	}
	if _, err := h.store.GetUser(ctx, userID); err != nil {
		RespondError(c, storeError(err, "User"))
		return
	}

	comment := models.Comment{
		CommentText: req.CommentText,
		PoshtID:     req.PoshtID,
		UserID:      userID,
		IsBlocked:   h.moderator.Moderate(ctx, req.CommentText),
	}
	if err := h.store.CreateComment(ctx, &comment); err != nil {
		RespondError(c, err)
		return
	}

	scheduled := h.autoReply.Trigger(comment)
	logger.Log.Info("Comment created",
		logger.WithCommentID(comment.ID),
		logger.WithPoshtID(comment.PoshtID),
		logger.WithUserID(userID),
		zap.Bool("is_blocked", comment.IsBlocked),
		zap.Bool("auto_reply_triggered", scheduled),
	)
	c.JSON(http.StatusOK, comment)
}

// Update 修改评论并重新审核；不会触发自动回复
func (h *CommentHandler) Update(c *gin.Context) {
	id, ok := pathID(c, "Comment")
	if !ok {
		return
	}
	var req commentUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, bindError(err))
		return
	}

	ctx := c.Request.Context()
	comment, err := h.store.GetComment(ctx, id)
	if err != nil {
		RespondError(c, storeError(err, "Comment"))
		return
	}
	if !canEdit(middleware.CurrentUser(c), comment.UserID, h.enforceOwnership) {
		RespondError(c, apperrors.Forbidden("Access forbidden: not the author"))
		return
	}

	comment.CommentText = req.CommentText
	comment.IsBlocked = h.moderator.Moderate(ctx, req.CommentText)
	if err := h.store.UpdateComment(ctx, comment); err != nil {
		RespondError(c, storeError(err, "Comment"))
		return
	}

	logger.Log.Info("Comment updated", logger.WithCommentID(id), zap.Bool("is_blocked", comment.IsBlocked))
	c.JSON(http.StatusOK, comment)
}

func (h *CommentHandler) Delete(c *gin.Context) {
	id, ok := pathID(c, "Comment")
	if !ok {
		return
	}
	comment, err := h.store.DeleteComment(c.Request.Context(), id)
	if err != nil {
		RespondError(c, storeError(err, "Comment"))
		return
	}

	logger.Log.Info("Comment deleted", logger.WithCommentID(id), logger.WithUserID(middleware.CurrentUser(c).ID))
	c.JSON(http.StatusOK, comment)
}
