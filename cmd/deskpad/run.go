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

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/frudas24/deskpad/internal/api"
	"github.com/frudas24/deskpad/internal/config"
	"github.com/frudas24/deskpad/internal/logging"
	"github.com/frudas24/deskpad/internal/metrics"
)

// env is what every subcommand needs: configuration, logging, metrics and a server client.
type env struct {
	cfg     config.Config
	logger  *zap.Logger
	metrics *metrics.Metrics
	api     *api.Client
}

// setup loads configuration and builds the shared dependencies.
func setup() (*env, error) {
	cfg, err := config.Load(v)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	logger, err := logging.New(cfg.LogLevel, cfg.Debug)
	if err != nil {
		return nil, err
	}
	client, err := api.NewClient(cfg.ServerURL, api.Options{Logger: logger})
	if err != nil {
		return nil, err
	}
	logger.Info("deskpad starting",
		zap.String("version", version),
		zap.String("server", cfg.ServerURL),
		zap.String("data_dir", cfg.DataDir),
		zap.String("prefs", cfg.PrefsDriver),
	)
	return &env{cfg: cfg, logger: logger, metrics: metrics.New(), api: client}, nil
}

// signalContext is canceled on interrupt or terminate.
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

// login authenticates with UI_PASSWORD or the password saved in the keyring.
func (e *env) login(ctx context.Context) error {
	password := e.cfg.UIPassword
	if password == "" {
		saved, ok, err := api.LookupPassword(e.api.Host())
		if err != nil {
			e.logger.Warn("keyring unavailable", zap.Error(err))
		}
		if !ok {
			return errors.New("UI_PASSWORD is not set and no password is saved; run 'deskpad login --save'")
		}
		password = saved
	}
	return e.api.Login(ctx, password)
}

// serveDiagnostics serves /metrics plus any extra routes until ctx is done. It does nothing when
// no metrics address is configured.
func (e *env) serveDiagnostics(ctx context.Context, mount func(chi.Router)) {
	if e.cfg.MetricsAddr == "" {
		return
	}
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Handle("/metrics", e.metrics.Handler())
	if mount != nil {
		mount(r)
	}
	server := &http.Server{Addr: e.cfg.MetricsAddr, Handler: r, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		e.logger.Info("diagnostics listening", zap.String("addr", e.cfg.MetricsAddr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			e.logger.Error("diagnostics server failed", zap.Error(err))
		}
	}()
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = server.Shutdown(shutdownCtx)
	}()
}
