package main

import (
	"context"
	"log"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/yourorg/payment-router/internal/config"
	"github.com/yourorg/payment-router/internal/connector"
	"github.com/yourorg/payment-router/internal/connector/opayo"
	"github.com/yourorg/payment-router/internal/connector/stripe"
	"github.com/yourorg/payment-router/internal/domain"
	"github.com/yourorg/payment-router/internal/flows"
	"github.com/yourorg/payment-router/internal/metrics"
	"github.com/yourorg/payment-router/internal/policy"
	"github.com/yourorg/payment-router/internal/services"
	"github.com/yourorg/payment-router/internal/storage"
	"github.com/yourorg/payment-router/internal/telemetry"
)

func credentialStore(cfg *config.Config, logger *zap.Logger) (storage.CredentialStore, error) {
	if cfg.RedisAddr != "" {
		logger.Info("using redis credential store", zap.String("addr", cfg.RedisAddr))
		client := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		return storage.NewRedisStore(client, 0), nil
	}

	store := storage.NewInMemoryStore()
	if err := store.AddAccount(storage.MerchantConnectorAccount{
		MerchantID:    cfg.DefaultMerchantID,
		ConnectorName: domain.ConnectorOpayo,
		APIKey:        cfg.OpayoAPIKey,
		AuthKind:      storage.AuthKindHeaderKey,
	}); err != nil {
		return nil, err
	}
	if err := store.AddAccount(storage.MerchantConnectorAccount{
		MerchantID:    cfg.DefaultMerchantID,
		ConnectorName: domain.ConnectorStripe,
		APIKey:        cfg.StripeAPIKey,
		AuthKind:      storage.AuthKindHeaderKey,
	}); err != nil {
		return nil, err
	}
	return store, nil
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger, err := telemetry.NewLogger(cfg.LogLevel)
	if err != nil {
		log.Fatalf("Failed to build logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	shutdownTracer, err := telemetry.InitTracer("payment-router")
	if err != nil {
		logger.Fatal("failed to initialize tracer", zap.Error(err))
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTracer(ctx); err != nil {
			logger.Warn("tracer shutdown failed", zap.Error(err))
		}
	}()

	registry := prometheus.NewRegistry()
	connectorMetrics := metrics.NewConnectorMetrics(registry)

	client, err := services.NewClient(services.ClientConfig{
		Timeout:  cfg.ConnectorTimeout,
		ProxyURL: cfg.HTTPProxyURL,
	}, logger)
	if err != nil {
		logger.Fatal("failed to build http client", zap.Error(err))
	}
	state := services.NewAppState(client, logger, connectorMetrics)

	connectors := connector.NewRegistry(
		opayo.New(cfg.OpayoBaseURL),
		stripe.New(cfg.StripeBaseURL),
	)

	creds, err := credentialStore(cfg, logger)
	if err != nil {
		logger.Fatal("failed to build credential store", zap.Error(err))
	}

	retryPolicy, err := policy.NewRetryPolicy(policy.DefaultRules())
	if err != nil {
		logger.Fatal("failed to compile retry rules", zap.Error(err))
	}

	flowService := flows.NewService(connectors, state, creds, retryPolicy)

	server, err := newServer(flowService, logger, registry)
	if err != nil {
		logger.Fatal("failed to build server", zap.Error(err))
	}

	logger.Info("starting server", zap.String("addr", cfg.ServerAddr))
	if err := server.engine.Run(cfg.ServerAddr); err != nil {
		logger.Fatal("server exited", zap.Error(err))
	}
}
