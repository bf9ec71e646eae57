package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/mohammed-shakir/meshcode/internal/cache"
	"github.com/mohammed-shakir/meshcode/internal/cache/lrustore"
	"github.com/mohammed-shakir/meshcode/internal/cache/redisstore"
	"github.com/mohammed-shakir/meshcode/internal/core/config"
	"github.com/mohammed-shakir/meshcode/internal/core/router"
	"github.com/mohammed-shakir/meshcode/internal/core/server"
	"github.com/mohammed-shakir/meshcode/internal/logger"
	h3mapper "github.com/mohammed-shakir/meshcode/internal/mapper/h3"
	meshmapper "github.com/mohammed-shakir/meshcode/internal/mapper/mesh"
	"github.com/mohammed-shakir/meshcode/internal/metrics"
)

var Version = "dev"

func main() {
	os.Exit(run())
}

func run() int {
	// a missing .env is fine; the environment wins either way
	_ = godotenv.Load()

	cfg := config.FromEnv()

	zl := logger.Build(logger.Config{
		Level:     cfg.LogLevel,
		Console:   cfg.LogConsole,
		SampleN:   cfg.LogSampleN,
		Component: "meshserver",
	}, os.Stdout)
	appLog := logger.NewSlog(&zl)

	appLog.Info("starting meshserver",
		"addr", cfg.Addr,
		"version", Version,
		"default_level", cfg.DefaultLevel,
		"h3_res", cfg.H3Res,
		"redis", cfg.Cache.RedisAddr != "")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var back cache.Store
	if cfg.Cache.RedisAddr != "" {
		rc, err := redisstore.New(ctx, cfg.Cache.RedisAddr,
			redisstore.WithReadTimeout(cfg.Cache.OpTimeout),
			redisstore.WithWriteTimeout(cfg.Cache.OpTimeout),
		)
		if err != nil {
			appLog.Error("redis connect failed", "addr", cfg.Cache.RedisAddr, "err", err)
			return 1
		}
		back = rc
	}
	tiered, err := cache.NewTiered(lrustore.New(cfg.Cache.LRUSize), back, cache.Options{
		TTL:       cfg.Cache.TTL,
		OpTimeout: cfg.Cache.OpTimeout,
	}, appLog)
	if err != nil {
		appLog.Error("cache setup failed", "err", err)
		return 1
	}
	defer func() { _ = tiered.Close() }()

	api, err := router.Routes(router.Deps{
		Config: cfg,
		Logger: appLog,
		Mesh:   meshmapper.New(cfg.MaxCells),
		H3:     h3mapper.New(cfg.MaxCells),
		Cache:  tiered,
	})
	if err != nil {
		appLog.Error("router setup failed", "err", err)
		return 1
	}

	if cfg.Metrics.Enabled {
		p := metrics.Init(metrics.Config{
			Enabled: true,
			Addr:    cfg.Metrics.Addr,
			Path:    cfg.Metrics.Path,
			Build: metrics.BuildInfo{
				Version:   os.Getenv("BUILD_VERSION"),
				Revision:  os.Getenv("BUILD_REVISION"),
				Branch:    os.Getenv("BUILD_BRANCH"),
				BuildDate: os.Getenv("BUILD_DATE"),
			},
		})

		mux := http.NewServeMux()
		mux.Handle(cfg.Metrics.Path, p.Handler())

		srv := &http.Server{
			Addr:              cfg.Metrics.Addr,
			Handler:           mux,
			ReadHeaderTimeout: 5 * time.Second,
			ReadTimeout:       10 * time.Second,
			WriteTimeout:      30 * time.Second,
			IdleTimeout:       120 * time.Second,
		}

		go func() {
			log.Printf("metrics: listening on %s%s", cfg.Metrics.Addr, cfg.Metrics.Path)
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Printf("metrics server exited: %v", err)
			}
		}()

		go func() {
			<-ctx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				log.Printf("metrics: shutdown error: %v", err)
			}
		}()
	}

	handler := server.NewHandler(appLog, api, tiered)
	if err := server.Run(ctx, cfg.Addr, appLog, handler); err != nil {
		appLog.Error("server exited with error", "err", err)
		return 1
	}
	appLog.Info("server stopped")
	return 0
}
