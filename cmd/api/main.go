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

	"petlove-admin/internal/catalog"
	"petlove-admin/internal/core/auth"
	"petlove-admin/internal/core/cache"
	"petlove-admin/internal/core/config"
	"petlove-admin/internal/core/logger"
	"petlove-admin/internal/core/server"
	"petlove-admin/internal/gallery"
	"petlove-admin/internal/guard"
	"petlove-admin/internal/permission"
	"petlove-admin/internal/prefs"
	"petlove-admin/internal/session"
	"petlove-admin/internal/transport/http/router"
	"petlove-admin/internal/upstream"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load(os.Getenv("CONFIG_PATH"))
	log, cleanup := logger.New(cfg.Log.Level, cfg.Log.JSON)
	defer cleanup()

	d := buildDeps(cfg, log)
	log.Info("upstream wired", zap.String("baseURL", cfg.Upstream.BaseURL))

	r := router.NewAPIEngine(d)

	addr := server.Addr(cfg.App.HTTP.Host, cfg.App.HTTP.Port)
	srv := server.BuildServer(
		addr, r,
		time.Duration(cfg.App.HTTP.ReadTimeoutSec)*time.Second,
		time.Duration(cfg.App.HTTP.WriteTimeoutSec)*time.Second,
		time.Duration(cfg.App.HTTP.IdleTimeoutSec)*time.Second,
	)

	host4human := cfg.App.HTTP.Host
	if host4human == "" || host4human == "0.0.0.0" {
		host4human = "127.0.0.1"
	}
	baseURL := "http://" + host4human + ":" + fmt.Sprint(cfg.App.HTTP.Port)
	log.Info("gateway starting",
		zap.String("addr", addr),
		zap.String("open", baseURL),
		zap.String("health", baseURL+"/health"),
		zap.String("api_v1", baseURL+"/api/v1"),
	)

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("gateway start FAILED", zap.Error(err))
		}
	}()
	log.Info("gateway started SUCCESS")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = srv.Shutdown(ctx)
	log.Info("gateway stopped gracefully")
}

func buildDeps(cfg *config.Config, log *zap.Logger) router.Deps {
	rdb := cache.New(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	api := upstream.New(cfg.Upstream.BaseURL, time.Duration(cfg.Upstream.TimeoutSec)*time.Second, log)

	resolver := permission.NewResolver(&permission.UpstreamSource{API: api}, rdb, 10*time.Minute, log)
	sessions := session.NewService(api, resolver, log)
	creds := session.NewCredentials(rdb, 12*time.Hour)

	jwter := &auth.JWTer{
		Secret: []byte(cfg.JWT.Secret),
		Issuer: cfg.JWT.Issuer,
		TTL:    time.Duration(cfg.JWT.AccessTokenTTLMin) * time.Minute,
	}

	agg := gallery.NewAggregator(log, time.Now().UnixNano(),
		gallery.NewUnsplash(cfg.Gallery.Unsplash.BaseURL, cfg.Gallery.Unsplash.APIKey),
		gallery.NewPexels(cfg.Gallery.Pexels.BaseURL, cfg.Gallery.Pexels.APIKey),
		gallery.NewPixabay(cfg.Gallery.Pixabay.BaseURL, cfg.Gallery.Pixabay.APIKey),
	)
	agg.SetRate("unsplash", cfg.Gallery.Unsplash.RPS, cfg.Gallery.Unsplash.Burst)
	agg.SetRate("pexels", cfg.Gallery.Pexels.RPS, cfg.Gallery.Pexels.Burst)
	agg.SetRate("pixabay", cfg.Gallery.Pixabay.RPS, cfg.Gallery.Pixabay.Burst)

	return router.Deps{
		Log:      log,
		Cache:    rdb,
		JWT:      jwter,
		Catalog:  catalog.New(api, log),
		Creds:    creds,
		Sessions: sessions,
		Resolver: resolver,
		Notices:  guard.NewNotices(30 * time.Minute),
		Gallery:  agg,
		Prefs:    prefs.NewStore(rdb),
	}
}
