package logger

import (
	"log"

	"go.uber.org/zap"
)

// Log is the process-wide zap logger, set once by Init at startup.
var Log *zap.Logger

// Init builds the logger for the given environment. Production gets JSON
// output with sampling, everything else gets the human-readable console encoder.
func Init(env string) {
	var (
		l   *zap.Logger
		err error
	)

	if env == "prod" {
		l, err = zap.NewProduction()
	} else {
		l, err = zap.NewDevelopment()
	}
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}

	Log = l
}

// L returns the global logger, or a no-op logger before Init runs (tests).
func L() *zap.Logger {
	if Log == nil {
		return zap.NewNop()
	}
	return Log
}

// Sync flushes buffered log entries. Call via defer in main.
func Sync() {
	if Log != nil {
		_ = Log.Sync()
	}
}
