package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"polylens/internal/ai"
	"polylens/internal/client/polymarket/clob"
	"polylens/internal/client/polymarket/gamma"
	"polylens/internal/config"
	cronrunner "polylens/internal/cron"
	"polylens/internal/handler"
	"polylens/internal/logger"
	"polylens/internal/market"
	"polylens/internal/news"
)

func main() {
	_ = godotenv.Load()

	cfgPath := os.Getenv("PL_CONFIG")
	if cfgPath == "" {
		cfgPath = "config/config.yaml"
	}

	envOnly := false
	if envOnlyRaw := os.Getenv("PL_ENV_ONLY"); envOnlyRaw != "" {
		envOnly = strings.EqualFold(envOnlyRaw, "true") || envOnlyRaw == "1"
	}

	cfg, err := config.Load(cfgPath, envOnly)
	if err != nil {
		panic(err)
	}

	logger, err := logger.New(cfg.Log)
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	gammaHTTP := &http.Client{Timeout: cfg.Gamma.Timeout}
	gammaClient := gamma.NewClient(gammaHTTP, cfg.Gamma.BaseURL)
	clobHTTP := &http.Client{Timeout: cfg.Clob.Timeout}
	clobClient := clob.NewClient(clobHTTP, cfg.Clob.BaseURL)

	marketService := &market.Service{
		Gamma:  gammaClient,
		Clob:   clobClient,
		Logger: logger,
	}
	feed := news.NewFeed(logger)

	// Missing credentials keep the server up; only the AI routes fail.
	var analyzer handler.Analyzer
	var streamer handler.ChatStreamer
	aiClient, err := ai.New(ai.Config{
		Provider:  cfg.LLM.Provider,
		APIKey:    cfg.LLM.APIKey,
		BaseURL:   cfg.LLM.BaseURL,
		Model:     cfg.LLM.Model,
		ChatModel: cfg.LLM.ChatModel,
		MaxTokens: cfg.LLM.MaxTokens,
	}, logger)
	if err != nil {
		logger.Warn("ai client unavailable", zap.Error(err))
	} else {
		analyzer = aiClient
		streamer = aiClient
	}

	if strings.EqualFold(cfg.App.Env, "dev") {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}
	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(corsMiddleware())

	healthHandler := &handler.HealthHandler{}
	healthHandler.Register(engine)
	marketHandler := &handler.MarketHandler{
		Service:      marketService,
		Logger:       logger,
		DefaultLimit: cfg.Markets.DefaultLimit,
		MaxLimit:     cfg.Markets.MaxLimit,
	}
	marketHandler.Register(engine)
	newsHandler := &handler.NewsHandler{Feed: feed}
	newsHandler.Register(engine)
	analyzeHandler := &handler.AnalyzeHandler{AI: analyzer, Logger: logger}
	analyzeHandler.Register(engine)
	chatHandler := &handler.ChatHandler{AI: streamer, Logger: logger}
	chatHandler.Register(engine)

	srv := &http.Server{
		Addr:    cfg.Server.HTTPAddr,
		Handler: engine,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cronRunner := cronrunner.New(logger, ctx)
	_, err = cronRunner.Add(cfg.News.Rotate, func(ctx context.Context) {
		feed.Rotate()
	})
	if err != nil {
		logger.Warn("cron register news rotation failed", zap.Error(err))
	}
	cronRunner.Start()
	defer cronRunner.Stop()

	errCh := make(chan error, 2)

	go func() {
		logger.Info("http server starting", zap.String("addr", cfg.Server.HTTPAddr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		logger.Info("shutdown requested")
	case err := <-errCh:
		logger.Error("server error", zap.Error(err))
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = srv.Shutdown(shutdownCtx)
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET,POST,PUT,DELETE,OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type,Authorization")
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(204)
			return
		}
		c.Next()
	}
}
