package router

import (
	"poshts/internal/db"
	"poshts/internal/handlers"
	"poshts/internal/middleware"
	"poshts/internal/models"
	"poshts/internal/services"
	"poshts/internal/utils"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Deps is everything the HTTP layer needs.
type Deps struct {
	Store            *db.Store
	Tokens           *services.TokenService
	Moderator        handlers.Moderator
	AutoReply        handlers.AutoReplyTrigger
	Analytics        *services.AnalyticsService
	Cache            *utils.Cache
	CORSOrigins      []string
	EnforceOwnership bool
}

// NewEngine builds a gin engine with the middleware stack and all routes.
func NewEngine(deps Deps) *gin.Engine {
	r := gin.New()
	r.Use(
		middleware.Recovery(),
		middleware.RequestIDMiddleware(),
		middleware.GinLoggerMiddleware(),
		middleware.MetricsMiddleware(),
		cors.New(corsConfig(deps.CORSOrigins)),
		gzip.Gzip(gzip.DefaultCompression, gzip.WithExcludedPaths([]string{"/metrics"})),
	)
	RegisterRoutes(r, deps)
	return r
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.DefaultConfig()
	cfg.AllowHeaders = append(cfg.AllowHeaders, "Authorization", "X-Request-ID")
	cfg.ExposeHeaders = []string{"X-Request-ID"}
	if len(origins) == 0 || (len(origins) == 1 && origins[0] == "*") {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = origins
	}
	return cfg
}

func RegisterRoutes(r *gin.Engine, deps Deps) {
	// Handlers
	authHandler := handlers.NewAuthHandler(deps.Store, deps.Tokens)
	userHandler := handlers.NewUserHandler(deps.Store)
	poshtHandler := handlers.NewPoshtHandler(deps.Store, deps.Moderator, deps.Cache, deps.EnforceOwnership)
	commentHandler := handlers.NewCommentHandler(deps.Store, deps.Moderator, deps.AutoReply, deps.EnforceOwnership)
	analyticsHandler := handlers.NewAnalyticsHandler(deps.Analytics)

	// 运维 (Ops)
	r.GET("/", handlers.Health)
	r.GET("/health", handlers.Health)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.Group("/")
	api.Use(middleware.LoadUser(deps.Tokens, deps.Store))

	// 账号 (Auth)
	api.POST("/register", authHandler.Register)
	api.POST("/login", authHandler.Login)
	api.POST("/reset_password", authHandler.ResetPassword)
	api.GET("/users", userHandler.List)

	me := api.Group("/me")
	me.Use(middleware.AuthRequired())
	{
		me.GET("", userHandler.Me)
		me.PATCH("", userHandler.UpdateMe)
	}

	// 编辑默认不要求登录；开启 EnforceOwnership 后需要 token
	editChain := func(h gin.HandlerFunc) []gin.HandlerFunc {
		if deps.EnforceOwnership {
			return []gin.HandlerFunc{middleware.AuthRequired(), h}
		}
		return []gin.HandlerFunc{h}
	}

	// 帖子 (Poshts)
	poshts := api.Group("/poshts")
	{
		poshts.GET("/", poshtHandler.List)
		poshts.GET("/:id", poshtHandler.Detail)
		poshts.POST("/", middleware.AuthRequired(), poshtHandler.Create)
		poshts.PUT("/:id", editChain(poshtHandler.Update)...)
		poshts.DELETE("/:id", middleware.RoleRequired(models.RoleAdmin), poshtHandler.Delete)
	}

	// 评论 (Comments)
	comments := api.Group("/comments")
	{
		comments.GET("/", commentHandler.List)
		comments.GET("/:id", commentHandler.Detail)
		comments.POST("/", commentHandler.Create) // token optional
		comments.PUT("/:id", editChain(commentHandler.Update)...)
		comments.DELETE("/:id", middleware.RoleRequired(models.RoleAdmin), commentHandler.Delete)
	}

	// 统计 (Analytics)
	api.GET("/analytics/comments/", analyticsHandler.DailyComments)
}
