package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/httplog"
	"github.com/marcelsud/webhook-vault/audit"
	"github.com/marcelsud/webhook-vault/auth"
	"github.com/marcelsud/webhook-vault/config"
	"github.com/marcelsud/webhook-vault/customer"
	"github.com/marcelsud/webhook-vault/internal/backend"
	"github.com/marcelsud/webhook-vault/internal/http/chi"
	"github.com/marcelsud/webhook-vault/metrics"
	"github.com/marcelsud/webhook-vault/payload"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

const TIMEOUT = 30 * time.Second

/*
 * main wires the packages together: configuration first, then the stores,
 * then the services and the HTTP surface. Imports only go downwards.
 */

func main() {
	cfg, err := config.GetConfig()
	if err != nil {
		fmt.Println(err)
		return
	}
	if err := cfg.Validate(); err != nil {
		fmt.Printf("invalid configuration: %v\n", err)
		return
	}

	logger := httplog.NewLogger("webhook-vault", httplog.Options{
		JSON: true,
	})
	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	ctx, stop := signal.NotifyContext(
		context.Background(),
		syscall.SIGHUP, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT,
	)
	defer stop()

	directory, err := customer.Load(cfg.CustomersFile)
	if err != nil {
		logger.Error().Err(err).Str("file", cfg.CustomersFile).Msg("loading customer directory")
		return
	}

	store, err := backend.OpenPayloads(ctx, cfg)
	if err != nil {
		logger.Error().Err(err).Msg("opening payload store")
		return
	}

	sink, err := backend.OpenAudit(cfg)
	if err != nil {
		logger.Error().Err(err).Msg("opening audit store")
		return
	}
	defer sink.Close(context.Background())

	metrics.Register(prometheus.DefaultRegisterer)
	exporter, err := metrics.NewOTelExporter(metrics.NewAuditCollector(sink, directory))
	if err != nil {
		logger.Error().Err(err).Msg("creating metrics exporter")
		return
	}
	defer exporter.Shutdown(context.Background())

	tokens, err := cfg.CustomerTokenMap()
	if err != nil {
		logger.Error().Err(err).Msg("parsing customer tokens")
		return
	}
	ips := auth.NewIPAllowList(cfg.AllowedIPList())
	customerTokens := auth.NewCustomerTokens(tokens)
	s2s := auth.NewServiceToken(auth.ParseSecret(cfg.S2SToken))
	logGuards(logger, ips, customerTokens, s2s)

	recorder := audit.NewRecorder(sink, logger)
	service := payload.NewService(store, directory, cfg.EnabledTypeList())

	r := chi.Handlers(ctx, chi.Dependencies{
		Payloads:  service,
		Customers: directory,
		Audit:     sink,
		Recorder:  recorder,
		IPs:       ips,
		Tokens:    customerTokens,
		S2S:       s2s,
		Metrics:   exporter.ServeHTTP(),
		Logger:    logger,
	})
	srv := &http.Server{
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		Addr:         ":" + cfg.Port,
		Handler:      r,
	}

	purgeEvery, keepWarmEvery := backend.Intervals(cfg)
	janitor := audit.NewJanitor(sink, logger, purgeEvery, keepWarmEvery)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return janitor.Run(gctx)
	})
	g.Go(func() error {
		return shutdown(gctx, srv)
	})
	g.Go(func() error {
		logger.Info().Str("port", cfg.Port).Int("customers", directory.Len()).Msg("listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("serving http: %w", err)
		}
		return nil
	})

	err = g.Wait()
	recorder.Wait()
	if err != nil {
		logger.Error().Err(err).Msg("server stopped")
		return
	}
	logger.Info().Msg("server stopped")
}

// shutdown stops the server once ctx is done, waiting for in-flight requests
func shutdown(ctx context.Context, server *http.Server) error {
	<-ctx.Done()

	ctxTimeout, stop := context.WithTimeout(context.Background(), TIMEOUT)
	defer stop()

	err := server.Shutdown(ctxTimeout)
	switch err {
	case nil:
		return nil
	case context.DeadlineExceeded:
		return fmt.Errorf("forcing closing the server")
	default:
		return fmt.Errorf("shutting down server: %w", err)
	}
}

// logGuards reports disabled guards at startup; fail-open is for development only
func logGuards(logger zerolog.Logger, ips *auth.IPAllowList, tokens *auth.CustomerTokens, s2s *auth.ServiceToken) {
	if !ips.IsEnforced() {
		logger.Warn().Msg("ALLOWED_IPS is empty, IP allow-list disabled")
	}
	if !tokens.IsEnforced() {
		logger.Warn().Msg("CUSTOMER_TOKENS is empty, per-customer authentication disabled")
	}
	if !s2s.IsEnforced() {
		logger.Warn().Msg("S2S_TOKEN is empty, management API is unauthenticated")
	}
}
