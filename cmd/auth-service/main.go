package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/handaeho/AssetAssistant/internal/config"
	"github.com/handaeho/AssetAssistant/internal/revocation"
	"github.com/handaeho/AssetAssistant/internal/service"
	"github.com/handaeho/AssetAssistant/internal/sessions"
	"github.com/handaeho/AssetAssistant/internal/storage/postgres"
	"github.com/handaeho/AssetAssistant/internal/token"
	authhttp "github.com/handaeho/AssetAssistant/internal/transport/http"
)

// Константы для определения окружения.
const (
	envLocal = "local"
	envDev   = "dev"
	envProd  = "prod"
)

func main() {
	var configPath string
	flag.StringVar(&configPath, "config", "", "path to config file")
	flag.Parse()

	cfg := config.MustLoad(configPath)

	log := setupLogger(cfg.Env)
	slog.SetDefault(log)
	log.Info("starting auth-service", "env", cfg.Env)

	// Корневой контекст по сигналам.
	rootCtx, rootCancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer rootCancel()

	// Подключение к БД c таймаутом.
	dbCtx, dbCancel := context.WithTimeout(rootCtx, 10*time.Second)
	str, err := postgres.New(dbCtx, cfg.DB.DatabaseURL)
	dbCancel()
	if err != nil {
		log.Error("postgres_connect_failed", slog.String("err", err.Error()))
		os.Exit(1)
	}
	defer str.Close()
	log.Info("postgres_connected")

	// Подключение к Redis (реестр сессий и блэклист).
	redisOpts, err := redis.ParseURL(cfg.Redis.RedisURL)
	if err != nil {
		log.Error("redis_url_invalid", slog.String("err", err.Error()))
		os.Exit(1)
	}

	rdb := redis.NewClient(redisOpts)
	defer func() { _ = rdb.Close() }()

	pingCtx, pingCancel := context.WithTimeout(rootCtx, 5*time.Second)
	err = rdb.Ping(pingCtx).Err()
	pingCancel()
	if err != nil {
		log.Error("redis_connect_failed", slog.String("err", err.Error()))
		os.Exit(1)
	}
	log.Info("redis_connected")

	// Менеджер токенов.
	tokens, err := token.NewManager(token.Config{
		Secret:     cfg.Auth.JWTSecret,
		AccessTTL:  cfg.Auth.AccessTokenTTL,
		RefreshTTL: cfg.Auth.RefreshTokenTTL,
		Issuer:     cfg.Auth.Issuer,
	})
	if err != nil {
		log.Error("token_manager_init_failed", slog.String("err", err.Error()))
		os.Exit(1)
	}

	registry := sessions.NewRedisRegistry(rdb, sessions.Config{
		Prefix:         cfg.Redis.SessionPrefix,
		SessionTTL:     cfg.Auth.RefreshTokenTTL,
		AccessIndexTTL: cfg.Auth.AccessTokenTTL,
		OpTimeout:      cfg.Redis.OpTimeout,
	})
	blacklist := revocation.NewRedisStore(rdb, cfg.Redis.BlacklistPrefix, cfg.Redis.OpTimeout)

	// Сервис.
	srvc := service.New(str, registry, blacklist, tokens, cfg.Auth)
	log.Info("service_initialized")

	apiHandler := authhttp.NewRouter(srvc, authhttp.Options{
		Logger:  log,
		Timeout: cfg.Timeouts.Service,
	})

	var ready int32 // 0 — not ready; 1 — ready

	mux := http.NewServeMux()
	mux.HandleFunc("/livez", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		if atomic.LoadInt32(&ready) == 1 {
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte("ok"))
			return
		}

		http.Error(w, "not ready", http.StatusServiceUnavailable)
	})

	mux.Handle("/metrics", promhttp.Handler())
	mux.Handle("/", apiHandler)

	httpAddr := cfg.HTTP.Addr()
	httpSrv := &http.Server{
		Addr:              httpAddr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	ln, err := net.Listen("tcp", httpAddr)
	if err != nil {
		log.Error("http_listen_failed", slog.String("addr", httpAddr), slog.String("err", err.Error()))
		os.Exit(1)
	}

	log.Info("http_listen_start", slog.String("addr", httpAddr))

	serveErrCh := make(chan error, 1)
	go func() {
		if err := httpSrv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErrCh <- err
		}
		close(serveErrCh)
	}()

	atomic.StoreInt32(&ready, 1)
	log.Info("auth_service_ready")

	// Ожидание сигнала завершения или фатальной ошибки сервера.
	select {
	case <-rootCtx.Done():
		log.Info("shutdown_requested")
	case err := <-serveErrCh:
		if err != nil {
			log.Error("http_serve_failed", slog.String("err", err.Error()))
		}
	}

	atomic.StoreInt32(&ready, 0)

	// Graceful stop с таймаутом.
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		log.Warn("http_shutdown_failed", slog.String("err", err.Error()))
	}

	log.Info("service_stopped")
}

// setupLogger настраивает slog по окружению.
func setupLogger(env string) *slog.Logger {
	var log *slog.Logger

	switch env {
	case envLocal:
		log = slog.New(
			slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}),
		)
	case envDev:
		log = slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}),
		)
	case envProd:
		log = slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}),
		)
	default:
		log = slog.New(
			slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}),
		)
	}

	return log
}
