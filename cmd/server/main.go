package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"healthontrack/internal/handler"
	"healthontrack/internal/store"
	"healthontrack/pkg/cache"
	"healthontrack/pkg/config"
	"healthontrack/pkg/llm"
	"healthontrack/pkg/logger"
	"healthontrack/pkg/metrics"
	"healthontrack/pkg/middleware"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	log := logger.New(cfg.Log)
	defer log.Sync()

	st, err := store.Open(cfg, log)
	if err != nil {
		log.Fatal("open store failed", zap.Error(err))
	}
	defer st.Close()

	ai := llm.NewOpenAIClient(llm.OpenAIConfig{
		APIKey:  cfg.LLMApiKey,
		BaseURL: cfg.LLMBaseURL,
		Model:   cfg.LLMModel,
	})

	local := cache.NewLocal(cache.LocalConfig{
		DefaultExpiration: cfg.TrainCacheTTL,
		CleanupInterval:   10 * time.Minute,
	})
	defer local.Close()

	gin.SetMode(cfg.Mode)
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.RequestLog(log))

	m := metrics.New()
	r.Use(m.Middleware())
	r.GET("/metrics", gin.WrapH(m.Handler()))

	limiter := middleware.NewRateLimiter(middleware.RateLimiterConfig{
		Rate:      cfg.RateLimit,
		SkipPaths: []string{"/health", "/metrics"},
	})
	r.Use(limiter.Middleware())

	handler.New(st, ai, local, cfg, log).Register(r)

	srv := &http.Server{
		Addr:         cfg.Addr,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
	}

	go func() {
		log.Info("server listening",
			zap.String("addr", cfg.Addr),
			zap.String("backend", cfg.DBBackend))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error("forced shutdown", zap.Error(err))
	}
	log.Info("server stopped")
}
