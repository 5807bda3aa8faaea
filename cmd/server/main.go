package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"poshts/internal/config"
	"poshts/internal/db"
	"poshts/internal/logger"
	"poshts/internal/router"
	"poshts/internal/services"
	"poshts/internal/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {
	// Load .env file
	cfg, foundEnv := config.Load()

	if err := logger.Initialize(cfg.LogLevel, cfg.LogFile); err != nil {
		panic(err)
	}
	defer logger.Close()
	if !foundEnv {
		logger.Log.Info("No .env file found, using environment variables")
	}

	if cfg.GinMode != "" {
		gin.SetMode(cfg.GinMode)
	}

	// Initialize Database
	gormDB := db.Init(cfg)
	store := db.NewStore(gormDB)

	tokens, err := services.NewTokenService(cfg.SecretKey, cfg.JWTAlgorithm, cfg.AccessTokenTTL)
	if err != nil {
		logger.Log.Fatal("Invalid token configuration", zap.Error(err))
	}

	cache, err := utils.NewCache(cfg.CacheSize)
	if err != nil {
		logger.Log.Fatal("Failed to create cache", zap.Error(err))
	}

	// 外部模型：审核与自动回复共用一个客户端
	llm := services.NewLLMService(services.LLMConfig{
		BaseURL: cfg.LLMBaseURL,
		Token:   cfg.LLMToken,
		Model:   cfg.LLMModel,
		Timeout: cfg.LLMHTTPTimeout,
	})
	if cfg.LLMToken == "" {
		logger.Log.Warn("LLM_TOKEN not set: moderation will allow everything and auto-replies use the fallback text")
	}
	moderator := services.NewModerationService(llm, cfg.ProfanityPrompt, cfg.ModerationTimeout)
	generator := services.NewReplyGenerator(llm, cfg.AutoReplyPrompt, cfg.AutoReplyFallback, cfg.ReplyTimeout)

	scheduler := services.NewScheduler()
	var autoReplyOpts []services.AutoReplyOption
	if cfg.ModerateAutoReplies {
		autoReplyOpts = append(autoReplyOpts, services.WithReplyModeration(moderator))
	}
	autoReply := services.NewAutoReplyService(store, generator, scheduler, autoReplyOpts...)

	r := router.NewEngine(router.Deps{
		Store:            store,
		Tokens:           tokens,
		Moderator:        moderator,
		AutoReply:        autoReply,
		Analytics:        services.NewAnalyticsService(store),
		Cache:            cache,
		CORSOrigins:      cfg.CORSOrigins,
		EnforceOwnership: cfg.EnforceOwnership,
	})

	for _, route := range r.Routes() {
		logger.Log.Debug("Route registered", zap.String("method", route.Method), zap.String("path", route.Path))
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		logger.Log.Info("Poshts server starting", zap.String("port", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Log.Error("Server forced to shutdown", zap.Error(err))
	}
	// pending auto-replies are dropped; running ones get the rest of the deadline
	if err := scheduler.Shutdown(ctx); err != nil {
		logger.Log.Warn("Auto-reply tasks still running at exit", zap.Error(err))
	}
	if err := db.Close(gormDB); err != nil {
		logger.Log.Warn("Failed to close database", zap.Error(err))
	}

	logger.Log.Info("Server exited")
}
