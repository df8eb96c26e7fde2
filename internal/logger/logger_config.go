package logger

import (
	"os"
	"path/filepath"
	"strings"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

const (
	timeKey   = "time"
	levelKey  = "level"
	sourceKey = "source"
	msgKey    = "msg"
)

var (
	sugarLogger *zap.SugaredLogger
	initOnce    sync.Once
)

// getLogPath returns the path of the rotated log file.
func getLogPath() string {
	logDir := os.Getenv("LOG_DIR")
	if logDir == "" {
		logDir = "logs"
	}

	return filepath.Join(logDir, "app.log")
}

func getLogLevel() zapcore.Level {
	switch strings.ToLower(os.Getenv("LOG_LEVEL")) {
	case "debug":
		return zap.DebugLevel
	case "warn":
		return zap.WarnLevel
	case "error":
		return zap.ErrorLevel
	default:
		return zap.InfoLevel
	}
}

func initializeLogger() {
	logPath := getLogPath()
	level := getLogLevel()

	if err := os.MkdirAll(filepath.Dir(logPath), 0755); err != nil {
		logPath = "app.log"
	}

	w := zapcore.AddSync(&lumberjack.Logger{
		Filename:   logPath,
		MaxSize:    50,
		MaxBackups: 10,
		MaxAge:     28,
		Compress:   true,
		LocalTime:  true,
	})

	encoderConfig := zapcore.EncoderConfig{
		TimeKey:        timeKey,
		LevelKey:       levelKey,
		NameKey:        sourceKey,
		MessageKey:     msgKey,
		EncodeTime:     zapcore.ISO8601TimeEncoder,
		EncodeLevel:    zapcore.CapitalLevelEncoder,
		EncodeDuration: zapcore.StringDurationEncoder,
	}

	fileCore := zapcore.NewCore(zapcore.NewConsoleEncoder(encoderConfig), w, level)
	stdCore := zapcore.NewCore(zapcore.NewConsoleEncoder(encoderConfig), zapcore.AddSync(os.Stdout), level)

	log := zap.New(zapcore.NewTee(fileCore, stdCore), zap.AddCaller(), zap.AddStacktrace(zapcore.ErrorLevel))
	sugarLogger = log.Sugar()
}

// InitializeLogger builds the process-wide logger. Calling it more than once is a no-op.
func InitializeLogger() {
	initOnce.Do(initializeLogger)
}

// NewNamedLogger creates a new named SugaredLogger for a given component.
func NewNamedLogger(name string) *zap.SugaredLogger {
	InitializeLogger()
	return sugarLogger.Named(name)
}

// Sync flushes buffered log entries.
func Sync() {
	if sugarLogger != nil {
		_ = sugarLogger.Sync()
	}
}
