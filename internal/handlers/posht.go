package handlers

import (
	"fmt"
	"net/http"
	"time"

	"poshts/internal/apperrors"
	"poshts/internal/db"
	"poshts/internal/logger"
	"poshts/internal/metrics"
	"poshts/internal/middleware"
	"poshts/internal/models"
	"poshts/internal/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const poshtCacheTTL = 5 * time.Minute

type PoshtHandler struct {
	store            *db.Store
	moderator        Moderator
	cache            *utils.Cache
	enforceOwnership bool
	metrics          *metrics.Metrics
}

func NewPoshtHandler(store *db.Store, moderator Moderator, cache *utils.Cache, enforceOwnership bool) *PoshtHandler {
	return &PoshtHandler{
		store:            store,
		moderator:        moderator,
		cache:            cache,
		enforceOwnership: enforceOwnership,
		metrics:          metrics.Get(),
	}
}

type poshtRequest struct {
	Title     string `json:"title" binding:"required,min=1,max=15"`
	PoshtText string `json:"posht_text" binding:"max=1024"`
}

func poshtCacheKey(id uint) string {
	return fmt.Sprintf("posht:%d", id)
}

// List 所有帖子
func (h *PoshtHandler) List(c *gin.Context) {
	poshts, err := h.store.ListPoshts(c.Request.Context())
	if err != nil {
		RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, poshts)
}

// Detail 帖子详情，附带渲染后的 HTML
func (h *PoshtHandler) Detail(c *gin.Context) {
	id, ok := pathID(c, "Posht")
	if !ok {
		return
	}

	key := poshtCacheKey(id)
	if cached, ok := h.cache.Get(key).(models.PoshtDetail); ok {
		h.metrics.PoshtCacheRequests.WithLabelValues("hit").Inc()
		c.JSON(http.StatusOK, cached)
		return
	}
	h.metrics.PoshtCacheRequests.WithLabelValues("miss").Inc()

	posht, err := h.store.GetPosht(c.Request.Context(), id)
	if err != nil {
		RespondError(c, storeError(err, "Posht"))
		return
	}

	detail := models.PoshtDetail{Posht: *posht, PoshtHTML: utils.RenderMarkdown(posht.PoshtText)}
	h.cache.Set(key, detail, poshtCacheTTL)
	c.JSON(http.StatusOK, detail)
}

// Create 发布帖子，写入前先过审核
func (h *PoshtHandler) Create(c *gin.Context) {
	var req poshtRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, bindError(err))
		return
	}

	user := middleware.CurrentUser(c)
	posht := models.Posht{
		Title:     req.Title,
		PoshtText: req.PoshtText,
		UserID:    user.ID,
		IsBlocked: h.moderator.Moderate(c.Request.Context(), req.PoshtText),
	}
	if err := h.store.CreatePosht(c.Request.Context(), &posht); err != nil {
		RespondError(c, err)
		return
	}

	logger.Log.Info("Posht created",
		logger.WithPoshtID(posht.ID),
		logger.WithUserID(user.ID),
		zap.Bool("is_blocked", posht.IsBlocked),
	)
	c.JSON(http.StatusOK, posht)
}

// Update 修改帖子并重新审核
func (h *PoshtHandler) Update(c *gin.Context) {
	id, ok := pathID(c, "Posht")
	if !ok {
		return
	}
	var req poshtRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, bindError(err))
		return
	}

	ctx := c.Request.Context()
	posht, err := h.store.GetPosht(ctx, id)
	if err != nil {
		RespondError(c, storeError(err, "Posht"))
		return
	}
	if !canEdit(middleware.CurrentUser(c), posht.UserID, h.enforceOwnership) {
		RespondError(c, apperrors.Forbidden("Access forbidden: not the author"))
		return
	}

	posht.Title = req.Title
	posht.PoshtText = req.PoshtText
	posht.IsBlocked = h.moderator.Moderate(ctx, req.PoshtText)
	if err := h.store.UpdatePosht(ctx, posht); err != nil {
		RespondError(c, storeError(err, "Posht"))
		return
	}
	h.cache.Delete(poshtCacheKey(id))

	logger.Log.Info("Posht updated", logger.WithPoshtID(id), zap.Bool("is_blocked", posht.IsBlocked))
	c.JSON(http.StatusOK, posht)
}

// Delete 管理员删除帖子（级联删除评论）
func (h *PoshtHandler) Delete(c *gin.Context) {
	id, ok := pathID(c, "Posht")
	if !ok {
		return
	}

	posht, err := h.store.DeletePosht(c.Request.Context(), id)
	if err != nil {
		RespondError(c, storeError(err, "Posht"))
		return
	}
	h.cache.Delete(poshtCacheKey(id))

	logger.Log.Info("Posht deleted", logger.WithPoshtID(id), logger.WithUserID(middleware.CurrentUser(c).ID))
	c.JSON(http.StatusOK, posht)
}
