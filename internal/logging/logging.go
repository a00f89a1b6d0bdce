// Package logging builds the zap logger used for diagnostic output.
//
// User-facing progress is still written directly to stderr by the CLI; the
// logger carries structured detail (frame counts, per-chunk decisions, sink
// failures) that is hidden unless the level asks for it.
package logging

import (
	"fmt"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// EnvLevel is the environment variable consulted when no level flag is given.
const EnvLevel = "LOG_LEVEL"

// DefaultLevel keeps the logger quiet unless something goes wrong.
const DefaultLevel = "warn"

// ResolveLevel picks the effective level: the flag value if set, then
// LOG_LEVEL, then DefaultLevel.
func ResolveLevel(flag string, getenv func(string) string) string {
	if flag != "" {
		return flag
	}
	if getenv != nil {
		if v := getenv(EnvLevel); v != "" {
			return v
		}
	}
	return DefaultLevel
}

// New returns a logger writing console-encoded entries to stderr.
// "debug" selects zap's development configuration (caller info, stack traces
// on warnings); every other level uses the production configuration.
func New(level string) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", level, err)
	}

	var cfg zap.Config
	if lvl == zapcore.DebugLevel {
		cfg = zap.NewDevelopmentConfig()
	} else {
		cfg = zap.NewProductionConfig()
		cfg.Encoding = "console"
		cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
		cfg.Sampling = nil
	}
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	cfg.OutputPaths = []string{"stderr"}
	cfg.ErrorOutputPaths = []string{"stderr"}

	return cfg.Build()
}
