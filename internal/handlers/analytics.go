package handlers

import (
	"net/http"

	"poshts/internal/services"

	"github.com/gin-gonic/gin"
)

type AnalyticsHandler struct {
	analytics *services.AnalyticsService
}

func NewAnalyticsHandler(analytics *services.AnalyticsService) *AnalyticsHandler {
	return &AnalyticsHandler{analytics: analytics}
}

// DailyComments 每日评论数与被屏蔽数
func (h *AnalyticsHandler) DailyComments(c *gin.Context) {
	stats, err := h.analytics.DailyComments(c.Request.Context())
	if err != nil {
		RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}
