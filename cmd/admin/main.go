package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "go.uber.org/automaxprocs"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"petlove-admin/internal/core/auth"
	"petlove-admin/internal/core/cache"
	"petlove-admin/internal/core/config"
	"petlove-admin/internal/core/logger"
	"petlove-admin/internal/core/server"
	"petlove-admin/internal/guard"
	"petlove-admin/internal/permission"
	"petlove-admin/internal/session"
	"petlove-admin/internal/transport/http/router"
	"petlove-admin/internal/upstream"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load(os.Getenv("CONFIG_PATH"))
	log, cleanup := logger.New(cfg.Log.Level, cfg.Log.JSON)
	defer cleanup()

	// The ops surface only needs the session and permission plumbing, not
	// the catalog or gallery.
	rdb := cache.New(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	api := upstream.New(cfg.Upstream.BaseURL, time.Duration(cfg.Upstream.TimeoutSec)*time.Second, log)
	resolver := permission.NewResolver(&permission.UpstreamSource{API: api}, rdb, 10*time.Minute, log)

	d := router.Deps{
		Log: log,
		JWT: &auth.JWTer{
			Secret: []byte(cfg.JWT.Secret),
			Issuer: cfg.JWT.Issuer,
			TTL:    time.Duration(cfg.JWT.AccessTokenTTLMin) * time.Minute,
		},
		Creds:    session.NewCredentials(rdb, 12*time.Hour),
		Resolver: resolver,
		Notices:  guard.NewNotices(30 * time.Minute),
	}

	r := router.NewAdminEngine(d)

	addr := server.Addr(cfg.App.Ops.Host, cfg.App.Ops.Port)
	srv := server.BuildServer(addr, r, 5*time.Second, 10*time.Second, 60*time.Second)

	host4human := cfg.App.Ops.Host
	if host4human == "" || host4human == "0.0.0.0" {
		host4human = "127.0.0.1"
	}
	baseURL := "http://" + host4human + ":" + fmt.Sprint(cfg.App.Ops.Port)
	log.Info("ops api starting",
		zap.String("addr", addr),
		zap.String("open", baseURL),
		zap.String("health", baseURL+"/health"),
		zap.String("metrics", baseURL+"/metrics"),
		zap.String("admin_v1", baseURL+"/admin/v1"),
	)

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("ops api start FAILED", zap.Error(err))
		}
	}()
	log.Info("ops api started SUCCESS")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = srv.Shutdown(ctx)
	log.Info("ops api stopped gracefully")
}
