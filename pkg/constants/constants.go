package constants

// Queue message types.
const (
	QueueMessageTypeEvaluate = "evaluate"
	QueueMessageTypeStatus   = "status"
)

// Evaluation failure kinds carried over the queue.
const (
	EvaluationErrorSyntax           = "syntax_error"
	EvaluationErrorMissingEntry     = "missing_entry_point"
	EvaluationErrorEntryPointFailed = "entry_point_failed"
	EvaluationErrorTimeout          = "timeout"
	EvaluationErrorNotAClassifier   = "not_a_classifier"
	EvaluationErrorDatasetMismatch  = "dataset_mismatch"
	EvaluationErrorInternal         = "internal"
)

// Static evaluator metrics.
const (
	StaticF1Score   = 0.95
	StaticAccuracy  = 0.94
	StaticPrecision = 0.93
	StaticRecall    = 0.92
)

// Submission rules.
const (
	MinModelNameLength   = 3
	ModelFileExtension   = ".py"
	EntryPointName       = "train_model"
	MinPasswordLength    = 6
	SampleModelFileName  = "sample_model.py"
	ModelsTableName      = "models"
	InlineSourceFileName = "inline.py"
)

// Worker specific constants.
type WorkerStatus int

const (
	WorkerStatusIdle WorkerStatus = iota
	WorkerStatusBusy
)

func (s WorkerStatus) String() string {
	switch s {
	case WorkerStatusIdle:
		return "idle"
	case WorkerStatusBusy:
		return "busy"
	default:
		return "unknown"
	}
}

func (s WorkerStatus) MarshalJSON() ([]byte, error) {
	return []byte(`"` + s.String() + `"`), nil
}

// Sandbox harness exit codes.
const (
	ExitCodeSuccess          = 0
	ExitCodeSyntaxError      = 2
	ExitCodeMissingEntry     = 3
	ExitCodeEntryPointFailed = 4
	ExitCodeNotAClassifier   = 5
	ExitCodeDatasetMismatch  = 6
	ExitCodeKilled           = 137
	ExitCodeTerminated       = 143
)

// Configuration constants.
const (
	DefaultHTTPPort                   = "8080"
	DefaultDBDriver                   = "postgres"
	DefaultDBHost                     = "localhost"
	DefaultDBPort                     = "5432"
	DefaultDBUser                     = "modelboard"
	DefaultDBPassword                 = "modelboard"
	DefaultDBName                     = "modelboard"
	DefaultDBSslMode                  = "disable"
	DefaultSqlitePath                 = "modelboard.db"
	DefaultStorageBackend             = "minio"
	DefaultMinioEndpoint              = "localhost:9000"
	DefaultMinioAccessKey             = "minioadmin"
	DefaultMinioSecretKey             = "minioadmin"
	DefaultStorageBucket              = "models"
	DefaultLocalStorageDir            = "./data/artifacts"
	DefaultArtifactCacheDir           = "/tmp/modelboard-cache"
	DefaultLeaderboardCacheTTLSeconds = 60
	DefaultJWTSecret                  = "change-me"
	DefaultSessionTTLHours            = 24 * 7
	DefaultEvaluatorBackend           = "static"
	DefaultRabbitmqHost               = "localhost"
	DefaultRabbitmqUser               = "guest"
	DefaultRabbitmqPassword           = "guest"
	DefaultRabbitmqPort               = "5672"
	DefaultEvaluatorQueueName         = "evaluator_queue"
	DefaultMaxWorkers                 = 4
	DefaultSandboxImage               = "ghcr.io/mini-maxit/runtime-python-sklearn:latest"
	DefaultEvalDatasetPath            = "/srv/modelboard/eval.csv"
	DefaultEvaluationTimeoutSeconds   = 120
	DefaultMaxArtifactSizeBytes       = 10 * 1024 * 1024 // 10 MB
)

// Evaluator backends.
const (
	EvaluatorBackendStatic  = "static"
	EvaluatorBackendRemote  = "remote"
	EvaluatorBackendSandbox = "sandbox"
)

// Storage backends.
const (
	StorageBackendMinio = "minio"
	StorageBackendLocal = "local"
)

// Database drivers.
const (
	DBDriverPostgres = "postgres"
	DBDriverSqlite   = "sqlite"
)

// Cache configuration.
const (
	CacheTTLHours            = 24
	CacheMetadataFile        = ".cache_meta.json"
	CacheMaxEntries          = 1000
	LeaderboardCacheKey      = "leaderboard:ranked"
	LeaderboardGenerationKey = "leaderboard:generation"
)

// Sandbox execution constants.
const (
	SandboxWorkDir          = "/workspace"
	SandboxHarnessFileName  = "harness.py"
	SandboxSourceFileName   = "submission.py"
	SandboxFeaturesFileName = "features.csv"
	SandboxRunTokenEnv      = "MODELBOARD_RUN_TOKEN"
	SandboxResultPrefix     = "MODELBOARD_RESULT"
	SandboxMemoryLimitBytes = 1024 * 1024 * 1024 // 1 GB
	SandboxPidsLimit        = 64
	SandboxMaxOutputBytes   = 16 * 1024 * 1024
	RunnerName              = "runner"
)

// RabbitMQ specific constants.
const (
	RabbitMQReconnectTries  = 10
	RabbitMQMaxPriority     = 3
	RabbitMQRequeuePriority = 2
)
