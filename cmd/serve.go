package main

import (
	"context"
	"fmt"
	"os"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	httpctx "github.com/dtroode/landregistry-server/internal/api/http/context"
	"github.com/dtroode/landregistry-server/internal/api/http/router"
	httpserver "github.com/dtroode/landregistry-server/internal/api/http/server"
	"github.com/dtroode/landregistry-server/internal/config"
	"github.com/dtroode/landregistry-server/internal/events"
	"github.com/dtroode/landregistry-server/internal/ledger"
	"github.com/dtroode/landregistry-server/internal/logger"
	"github.com/dtroode/landregistry-server/internal/metrics"
	"github.com/dtroode/landregistry-server/internal/model"
	"github.com/dtroode/landregistry-server/internal/repository/memory"
	"github.com/dtroode/landregistry-server/internal/repository/postgres"
	"github.com/dtroode/landregistry-server/internal/repository/session"
	"github.com/dtroode/landregistry-server/internal/server"
	"github.com/dtroode/landregistry-server/internal/service"
	blobmemory "github.com/dtroode/landregistry-server/internal/storage/memory"
	storage "github.com/dtroode/landregistry-server/internal/storage/minio"
	"github.com/dtroode/landregistry-server/internal/token"
)

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.NewConfig()
			if err != nil {
				return err
			}
			return serve(cmd.Context(), cfg)
		},
	}
}

// stores bundles the persistence backends selected by configuration.
type stores struct {
	users     model.UserStore
	parcels   model.ParcelStore
	transfers model.TransferStore
	tx        model.TxManager
	close     func()
}

func serve(ctx context.Context, cfg *config.Config) error {
	logger := logger.NewWithFormat(os.Stdout, cfg.LogLevel, cfg.LogFormat)
	fmt.Print(versionInfo())

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(reg)

	db, err := openStores(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer db.close()

	blobs, err := openBlobStore(ctx, cfg, logger)
	if err != nil {
		return err
	}

	revoker, closeRevoker, err := openRevoker(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer closeRevoker()

	publisher, closePublisher, err := openPublisher(cfg, logger)
	if err != nil {
		return err
	}
	defer closePublisher()

	gateway := openLedger(cfg, logger)
	tokenManager := token.NewJWT(cfg.JWT.Secret, cfg.JWT.Issuer, cfg.JWT.TTL)

	identity := service.NewIdentity(db.users, gateway, tokenManager, revoker, blobs, m, logger, cfg.BcryptCost)
	registry := service.NewRegistry(db.parcels, db.users, db.tx, blobs, m, logger)
	coordinator := service.NewCoordinator(db.tx, db.parcels, db.users, db.transfers, gateway, registry, publisher, m, logger,
		service.CoordinatorConfig{
			VerifyTimeout: cfg.Ledger.VerifyTimeout,
			PollInterval:  cfg.Ledger.PollInterval,
		})

	handler := router.New(identity, registry, coordinator, blobs, httpctx.NewManager(), reg, m, logger, cfg.HTTP.RequestTimeout).Register()
	httpServer := httpserver.NewHTTPServer(handler, fmt.Sprintf(":%s", cfg.HTTP.Port))
	sl := server.NewSecurityLayer(cfg.HTTP.EnableHTTPS, cfg.HTTP.CertFileName, cfg.HTTP.PrivateKeyFileName)

	serveErr := make(chan error, 1)
	var wg sync.WaitGroup
	wg.Add(1)
	go func(s model.Server) {
		defer wg.Done()
		logger.Info("Starting server on", "address", s.Address(), "https", cfg.HTTP.EnableHTTPS)
		if err := s.Start(sl); err != nil {
			logger.Error("failed to start server", "error", err)
			serveErr <- err
		}
	}(httpServer)

	select {
	case <-ctx.Done():
		logger.Info("received interruption signal, shutting down")
	case err := <-serveErr:
		wg.Wait()
		return err
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer shutdownCancel()

	if err := httpServer.Stop(shutdownCtx); err != nil {
		logger.Error("error during server shutdown", "error", err, "address", httpServer.Address())
	}

	wg.Wait()
	logger.Info("shutdown complete")
	return nil
}

func openStores(ctx context.Context, cfg *config.Config, logger *logger.Logger) (*stores, error) {
	if cfg.Database.DSN == "" {
		logger.Warn("DATABASE_DSN is empty, using in-memory store")
		store := memory.New()
		return &stores{
			users:     store.Users(),
			parcels:   store.Parcels(),
			transfers: store.Transfers(),
			tx:        store,
			close:     func() {},
		}, nil
	}

	db, err := postgres.NewConnection(ctx, cfg.Database.DSN, cfg.Database.MaxConns)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}
	return &stores{
		users:     postgres.NewUserRepository(db),
		parcels:   postgres.NewParcelRepository(db),
		transfers: postgres.NewTransferRepository(db),
		tx:        postgres.NewTxManager(db),
		close:     func() { _ = db.Close() },
	}, nil
}

func openBlobStore(ctx context.Context, cfg *config.Config, logger *logger.Logger) (model.BlobStore, error) {
	if cfg.Storage.Endpoint == "" {
		logger.Warn("MINIO_ENDPOINT is empty, keeping images in memory")
		return blobmemory.NewBlobStore(), nil
	}

	client, err := storage.Connect(ctx, cfg.Storage.Endpoint, cfg.Storage.AccessKey, cfg.Storage.SecretKey, cfg.Storage.Bucket, cfg.Storage.UseSSL)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage client: %w", err)
	}
	return client, nil
}

func openRevoker(ctx context.Context, cfg *config.Config, logger *logger.Logger) (model.SessionRevoker, func(), error) {
	if cfg.Redis.Addr == "" {
		logger.Warn("REDIS_ADDR is empty, session revocations are kept in memory")
		return session.NewMemoryRevoker(), func() {}, nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, nil, fmt.Errorf("failed to connect to redis: %w", err)
	}
	return session.NewRedisRevoker(client), func() { _ = client.Close() }, nil
}

func openPublisher(cfg *config.Config, logger *logger.Logger) (model.EventPublisher, func(), error) {
	if len(cfg.Kafka.Brokers) == 0 {
		logger.Info("KAFKA_BROKERS is empty, transfer events are not published")
		return events.Noop{}, func() {}, nil
	}

	publisher, err := events.NewKafkaPublisher(cfg.Kafka.Brokers, cfg.Kafka.Topic, cfg.Kafka.ClientID)
	if err != nil {
		return nil, nil, err
	}
	return publisher, publisher.Close, nil
}

func openLedger(cfg *config.Config, logger *logger.Logger) model.LedgerGateway {
	if model.LedgerMode(cfg.Ledger.Mode) == model.LedgerModeLive {
		logger.Info("using live ledger", "endpoint", cfg.Ledger.Endpoint)
		return ledger.NewLive(cfg.Ledger.Endpoint,
			ledger.WithPassphrase(cfg.Ledger.Passphrase),
			ledger.WithCallTimeout(cfg.Ledger.CallTimeout))
	}
	logger.Warn("using simulated ledger, transfers are not checked against a real chain")
	return ledger.NewSimulated()
}
