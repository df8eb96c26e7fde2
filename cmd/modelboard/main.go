package main

import (
	"os"

	"github.com/mini-maxit/modelboard/internal/logger"
)

func main() {
	logger.InitializeLogger()
	defer logger.Sync()

	if err := newRootCmd().Execute(); err != nil {
		logger.NewNamedLogger("main").Errorf("modelboard exited with error: %s", err)
		logger.Sync()
		os.Exit(1)
	}
}
