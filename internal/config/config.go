package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/mini-maxit/modelboard/internal/logger"
	"github.com/mini-maxit/modelboard/pkg/constants"
	"go.uber.org/zap"
)

type Config struct {
	HTTPPort string

	DBDriver string
	DBDSN    string

	StorageBackend   string
	MinioEndpoint    string
	MinioAccessKey   string
	MinioSecretKey   string
	MinioUseSSL      bool
	StorageBucket    string
	LocalStorageDir  string
	ArtifactCacheDir string

	RedisAddr           string
	RedisPassword       string
	RedisDB             int
	LeaderboardCacheTTL time.Duration

	JWTSecret  string
	SessionTTL time.Duration

	EvaluatorBackend   string
	RabbitMQURL        string
	EvaluatorQueueName string
	MaxWorkers         int
	SandboxImage       string
	EvalDatasetPath    string
	EvaluationTimeout  time.Duration

	CompensateOrphanedArtifacts bool
	MaxArtifactSizeBytes        int64
}

func NewConfig() *Config {
	logger := logger.NewNamedLogger("config")

	_, err := os.Stat(".env")
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			logger.Fatalf("failed to stat .env file with error: %v", err)
		}
	} else {
		if os.Getenv("ENV") == "PROD" {
			logger.Warn(".env file detected in production environment. This is not recommended.")
		}
		err = godotenv.Load(".env")
		if err != nil {
			logger.Fatalf("failed to load .env file with error: %v", err)
		}
	}

	cfg := &Config{
		HTTPPort: envString(logger, "HTTP_PORT", constants.DefaultHTTPPort),
	}

	cfg.DBDriver, cfg.DBDSN = databaseConfig(logger)
	storageConfig(logger, cfg)
	cacheConfig(logger, cfg)
	authConfig(logger, cfg)
	evaluatorConfig(logger, cfg)

	cfg.CompensateOrphanedArtifacts = envBool(logger, "COMPENSATE_ORPHANED_ARTIFACTS", false)
	cfg.MaxArtifactSizeBytes = int64(envInt(logger, "MAX_ARTIFACT_SIZE_BYTES", constants.DefaultMaxArtifactSizeBytes))

	return cfg
}

func databaseConfig(logger *zap.SugaredLogger) (string, string) {
	driver := envString(logger, "DB_DRIVER", constants.DefaultDBDriver)

	switch driver {
	case constants.DBDriverSqlite:
		return driver, envString(logger, "SQLITE_PATH", constants.DefaultSqlitePath)
	case constants.DBDriverPostgres:
		host := envString(logger, "DB_HOST", constants.DefaultDBHost)
		portStr := envString(logger, "DB_PORT", constants.DefaultDBPort)
		port, err := strconv.ParseUint(portStr, 10, 16)
		if err != nil {
			logger.Fatalf("failed to parse DB_PORT with error: %v", err)
		}
		user := envString(logger, "DB_USER", constants.DefaultDBUser)
		password := envString(logger, "DB_PASSWORD", constants.DefaultDBPassword)
		name := envString(logger, "DB_NAME", constants.DefaultDBName)
		sslMode := envString(logger, "DB_SSLMODE", constants.DefaultDBSslMode)

		dsn := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
			host, port, user, password, name, sslMode)
		return driver, dsn
	default:
		logger.Fatalf("unsupported DB_DRIVER %q, expected %q or %q",
			driver, constants.DBDriverPostgres, constants.DBDriverSqlite)
	}

	return "", ""
}

func storageConfig(logger *zap.SugaredLogger, cfg *Config) {
	cfg.StorageBackend = envString(logger, "STORAGE_BACKEND", constants.DefaultStorageBackend)
	cfg.StorageBucket = envString(logger, "STORAGE_BUCKET", constants.DefaultStorageBucket)
	cfg.ArtifactCacheDir = envString(logger, "ARTIFACT_CACHE_DIR", constants.DefaultArtifactCacheDir)

	switch cfg.StorageBackend {
	case constants.StorageBackendMinio:
		cfg.MinioEndpoint = envString(logger, "MINIO_ENDPOINT", constants.DefaultMinioEndpoint)
		cfg.MinioAccessKey = envString(logger, "MINIO_ACCESS_KEY", constants.DefaultMinioAccessKey)
		cfg.MinioSecretKey = envString(logger, "MINIO_SECRET_KEY", constants.DefaultMinioSecretKey)
		cfg.MinioUseSSL = envBool(logger, "MINIO_USE_SSL", false)
	case constants.StorageBackendLocal:
		cfg.LocalStorageDir = envString(logger, "LOCAL_STORAGE_DIR", constants.DefaultLocalStorageDir)
	default:
		logger.Fatalf("unsupported STORAGE_BACKEND %q, expected %q or %q",
			cfg.StorageBackend, constants.StorageBackendMinio, constants.StorageBackendLocal)
	}
}

func cacheConfig(logger *zap.SugaredLogger, cfg *Config) {
	// An empty address disables the leaderboard cache.
	cfg.RedisAddr = os.Getenv("REDIS_ADDR")
	if cfg.RedisAddr == "" {
		logger.Warn("REDIS_ADDR is not set, leaderboard cache disabled")
		return
	}
	cfg.RedisPassword = os.Getenv("REDIS_PASSWORD")
	cfg.RedisDB = envInt(logger, "REDIS_DB", 0)
	ttl := envInt(logger, "LEADERBOARD_CACHE_TTL_SECONDS", constants.DefaultLeaderboardCacheTTLSeconds)
	cfg.LeaderboardCacheTTL = time.Duration(ttl) * time.Second
}

func authConfig(logger *zap.SugaredLogger, cfg *Config) {
	cfg.JWTSecret = envString(logger, "JWT_SECRET", constants.DefaultJWTSecret)
	if cfg.JWTSecret == constants.DefaultJWTSecret && os.Getenv("ENV") == "PROD" {
		logger.Fatal("JWT_SECRET must be set in production environment")
	}
	hours := envInt(logger, "SESSION_TTL_HOURS", constants.DefaultSessionTTLHours)
	cfg.SessionTTL = time.Duration(hours) * time.Hour
}

func evaluatorConfig(logger *zap.SugaredLogger, cfg *Config) {
	cfg.EvaluatorBackend = envString(logger, "EVALUATOR_BACKEND", constants.DefaultEvaluatorBackend)
	switch cfg.EvaluatorBackend {
	case constants.EvaluatorBackendStatic, constants.EvaluatorBackendRemote, constants.EvaluatorBackendSandbox:
	default:
		logger.Fatalf("unsupported EVALUATOR_BACKEND %q", cfg.EvaluatorBackend)
	}

	cfg.RabbitMQURL = rabbitmqConfig(logger)
	cfg.EvaluatorQueueName = envString(logger, "EVALUATOR_QUEUE_NAME", constants.DefaultEvaluatorQueueName)
	cfg.MaxWorkers = envInt(logger, "MAX_WORKERS", constants.DefaultMaxWorkers)
	if cfg.MaxWorkers < 1 {
		logger.Fatalf("MAX_WORKERS must be at least 1, got %d", cfg.MaxWorkers)
	}
	cfg.SandboxImage = envString(logger, "SANDBOX_IMAGE", constants.DefaultSandboxImage)
	cfg.EvalDatasetPath = envString(logger, "EVAL_DATASET_PATH", constants.DefaultEvalDatasetPath)
	timeout := envInt(logger, "EVALUATION_TIMEOUT_SECONDS", constants.DefaultEvaluationTimeoutSeconds)
	if timeout < 1 {
		logger.Fatalf("EVALUATION_TIMEOUT_SECONDS must be at least 1, got %d", timeout)
	}
	cfg.EvaluationTimeout = time.Duration(timeout) * time.Second
}

func rabbitmqConfig(logger *zap.SugaredLogger) string {
	rabbitmqHost := envString(logger, "RABBITMQ_HOST", constants.DefaultRabbitmqHost)
	rabbitmqPortStr := envString(logger, "RABBITMQ_PORT", constants.DefaultRabbitmqPort)
	rabbitmqPort, err := strconv.ParseUint(rabbitmqPortStr, 10, 16)
	if err != nil {
		logger.Fatalf("failed to parse RABBITMQ_PORT with error: %v", err)
	}
	rabbitmqUser := envString(logger, "RABBITMQ_USER", constants.DefaultRabbitmqUser)
	rabbitmqPassword := envString(logger, "RABBITMQ_PASSWORD", constants.DefaultRabbitmqPassword)

	return fmt.Sprintf("amqp://%s:%s@%s:%d/", rabbitmqUser, rabbitmqPassword, rabbitmqHost, rabbitmqPort)
}

func envString(logger *zap.SugaredLogger, key, def string) string {
	value := os.Getenv(key)
	if value == "" {
		logger.Warnf("%s is not set, using default value %s", key, def)
		return def
	}
	return value
}

func envInt(logger *zap.SugaredLogger, key string, def int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		logger.Warnf("%s is not set, using default value %d", key, def)
		return def
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		logger.Fatalf("failed to parse %s with error: %v", key, err)
	}
	return value
}

func envBool(logger *zap.SugaredLogger, key string, def bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return def
	}
	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		logger.Fatalf("failed to parse %s with error: %v", key, err)
	}
	return value
}
