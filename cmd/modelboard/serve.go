package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/mini-maxit/modelboard/internal/api"
	"github.com/mini-maxit/modelboard/internal/auth"
	"github.com/mini-maxit/modelboard/internal/cache"
	"github.com/mini-maxit/modelboard/internal/config"
	"github.com/mini-maxit/modelboard/internal/database"
	"github.com/mini-maxit/modelboard/internal/docker"
	"github.com/mini-maxit/modelboard/internal/evaluator"
	"github.com/mini-maxit/modelboard/internal/logger"
	"github.com/mini-maxit/modelboard/internal/rabbitmq"
	"github.com/mini-maxit/modelboard/internal/rabbitmq/channel"
	"github.com/mini-maxit/modelboard/internal/repository"
	"github.com/mini-maxit/modelboard/internal/services"
	"github.com/mini-maxit/modelboard/internal/storage"
	"github.com/mini-maxit/modelboard/pkg/constants"
	pkgerrors "github.com/mini-maxit/modelboard/pkg/errors"
	"github.com/spf13/cobra"
)

const shutdownTimeout = 10 * time.Second

func newServeCmd() *cobra.Command {
	var port string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := config.NewConfig()
			if port != "" {
				cfg.HTTPPort = port
			}
			ctx, stop := signalContext(cmd.Context())
			defer stop()
			return serve(ctx, cfg)
		},
	}
	cmd.Flags().StringVarP(&port, "port", "p", "", "HTTP port, overrides HTTP_PORT")
	return cmd
}

func serve(ctx context.Context, cfg *config.Config) error {
	logger := logger.NewNamedLogger("serve")

	db, err := openDatabase(cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := database.Close(db); err != nil {
			logger.Errorf("Failed to close database: %s", err)
		}
	}()

	blobStorage, err := newBlobStorage(ctx, cfg)
	if err != nil {
		return err
	}
	rankingCache, err := newRankingCache(ctx, cfg)
	if err != nil {
		return err
	}
	eval, closeEvaluator, err := newEvaluator(cfg)
	if err != nil {
		return err
	}
	defer closeEvaluator()

	modelRepository := repository.NewModelRepository(db)
	userRepository := repository.NewUserRepository(db)
	authService := auth.NewService(userRepository, repository.NewSessionRepository(db), auth.Config{
		Secret:     []byte(cfg.JWTSecret),
		SessionTTL: cfg.SessionTTL,
	})
	unsubscribe := authService.Subscribe(func(event auth.Event) {
		logger.Infow("Session changed", "type", event.Type, "user_id", event.UserID)
	})
	defer unsubscribe()

	router := api.NewRouter(api.Dependencies{
		Auth: authService,
		Submissions: services.NewSubmissionService(eval, blobStorage, modelRepository, rankingCache,
			services.SubmissionConfig{CompensateOrphanedArtifacts: cfg.CompensateOrphanedArtifacts}),
		Leaderboard:          services.NewLeaderboardService(modelRepository, blobStorage, rankingCache),
		Profiles:             services.NewProfileService(modelRepository, userRepository, rankingCache),
		MaxArtifactSizeBytes: cfg.MaxArtifactSizeBytes,
	})

	server := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		logger.Infof("Listening on %s", server.Addr)
		serveErr <- server.ListenAndServe()
	}()

	select {
	case err := <-serveErr:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	logger.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

func newBlobStorage(ctx context.Context, cfg *config.Config) (storage.BlobStorage, error) {
	var (
		blobStorage storage.BlobStorage
		err         error
	)
	switch cfg.StorageBackend {
	case constants.StorageBackendMinio:
		blobStorage, err = storage.NewMinioStorage(ctx, storage.MinioConfig{
			Endpoint:  cfg.MinioEndpoint,
			AccessKey: cfg.MinioAccessKey,
			SecretKey: cfg.MinioSecretKey,
			UseSSL:    cfg.MinioUseSSL,
			Bucket:    cfg.StorageBucket,
		})
	case constants.StorageBackendLocal:
		blobStorage, err = storage.NewLocalStorage(cfg.LocalStorageDir, cfg.StorageBucket)
	default:
		return nil, fmt.Errorf("storage %q: %w", cfg.StorageBackend, pkgerrors.ErrUnknownBackend)
	}
	if err != nil {
		return nil, err
	}

	artifactCache := storage.NewFileCache(cfg.ArtifactCacheDir)
	if err := artifactCache.InitCache(); err != nil {
		return nil, fmt.Errorf("failed to initialize artifact cache: %w", err)
	}
	return storage.NewCachedStorage(blobStorage, artifactCache), nil
}

func newRankingCache(ctx context.Context, cfg *config.Config) (cache.RankingCache, error) {
	if cfg.RedisAddr == "" {
		return cache.NewNoopRankingCache(), nil
	}
	return cache.NewRedisRankingCache(ctx, cache.RedisConfig{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
		TTL:      cfg.LeaderboardCacheTTL,
	})
}

// newEvaluator builds the configured backend. The returned func releases its connections.
func newEvaluator(cfg *config.Config) (evaluator.Evaluator, func(), error) {
	switch cfg.EvaluatorBackend {
	case constants.EvaluatorBackendStatic:
		return evaluator.NewStaticEvaluator(), func() {}, nil
	case constants.EvaluatorBackendSandbox:
		eval, err := newSandboxEvaluator(cfg)
		return eval, func() {}, err
	case constants.EvaluatorBackendRemote:
		conn := rabbitmq.NewRabbitMqConnection(cfg)
		ch := channel.NewAmqpChannel(rabbitmq.NewRabbitMQChannel(conn))
		eval, err := evaluator.NewRemoteEvaluator(ch, cfg.EvaluatorQueueName)
		if err != nil {
			_ = conn.Close()
			return nil, nil, err
		}
		return eval, func() { _ = conn.Close() }, nil
	default:
		return nil, nil, fmt.Errorf("evaluator %q: %w", cfg.EvaluatorBackend, pkgerrors.ErrUnknownBackend)
	}
}

func newSandboxEvaluator(cfg *config.Config) (evaluator.Evaluator, error) {
	dCli, err := docker.NewDockerClient()
	if err != nil {
		return nil, err
	}
	return evaluator.NewSandboxEvaluator(dCli, evaluator.SandboxConfig{
		Image:       cfg.SandboxImage,
		DatasetPath: cfg.EvalDatasetPath,
		Timeout:     cfg.EvaluationTimeout,
	}), nil
}
