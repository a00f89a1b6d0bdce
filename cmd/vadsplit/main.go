package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/alnah/go-vadsplit/internal/audio"
	"github.com/alnah/go-vadsplit/internal/cli"
	"github.com/alnah/go-vadsplit/internal/config"
	"github.com/alnah/go-vadsplit/internal/ffmpeg"
	"github.com/alnah/go-vadsplit/internal/pipeline"
	"github.com/alnah/go-vadsplit/internal/transcribe"
	"github.com/alnah/go-vadsplit/internal/vad"
)

// Injected at build time via ldflags.
var (
	version = "dev"
	commit  = "unknown"
)

// Exit codes.
const (
	ExitOK         = 0
	ExitGeneral    = 1
	ExitUsage      = 2
	ExitSetup      = 3
	ExitValidation = 4
	ExitProcessing = 5
	ExitSink       = 6
	ExitInterrupt  = 130
)

func main() {
	// Load .env file if present (ignore error if missing).
	_ = godotenv.Load()

	// Context with signal cancellation.
	ctx, cancel := signal.NotifyContext(context.Background(),
		syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	env := cli.DefaultEnv()

	rootCmd := &cobra.Command{
		Use:     "vadsplit",
		Short:   "Split audio into voiced chunks with WebRTC voice activity detection",
		Version: fmt.Sprintf("%s (commit: %s)", version, commit),
		// Silence Cobra's default error/usage printing; we handle it ourselves.
		SilenceErrors: true,
		SilenceUsage:  true,
	}

	rootCmd.AddCommand(cli.SplitCmd(env))
	rootCmd.AddCommand(cli.ConfigCmd(env))

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(exitCode(err))
	}
}

// exitCode maps errors to process exit codes.
func exitCode(err error) int {
	if err == nil {
		return ExitOK
	}

	// Check for context cancellation (interrupt).
	if errors.Is(err, context.Canceled) {
		return ExitInterrupt
	}

	// Usage errors (ExitUsage = 2): Cobra flag/arg parsing errors.
	if isCobraUsageError(err) {
		return ExitUsage
	}

	// Sink errors (ExitSink = 6). Checked before the others because the
	// aggregated per-chunk causes (encoder, transcription) are also in the chain.
	if errors.Is(err, pipeline.ErrSinkFailed) {
		return ExitSink
	}

	// Setup errors (ExitSetup = 3).
	if errors.Is(err, ffmpeg.ErrNotFound) || errors.Is(err, transcribe.ErrAPIKeyMissing) ||
		errors.Is(err, vad.ErrClassifierUnavailable) {
		return ExitSetup
	}

	// Validation errors (ExitValidation = 4).
	if errors.Is(err, vad.ErrInvalidConfig) || errors.Is(err, audio.ErrFileNotFound) ||
		errors.Is(err, audio.ErrUnsupportedFormat) || errors.Is(err, cli.ErrInvalidDuration) ||
		errors.Is(err, cli.ErrInvalidValue) || errors.Is(err, cli.ErrLanguageWithoutTranscribe) ||
		errors.Is(err, transcribe.ErrInvalidLanguage) || errors.Is(err, config.ErrUnknownKey) {
		return ExitValidation
	}

	// Processing errors (ExitProcessing = 5).
	if errors.Is(err, vad.ErrClassifierFailed) || errors.Is(err, audio.ErrDecodeFailed) ||
		errors.Is(err, ffmpeg.ErrExecFailed) {
		return ExitProcessing
	}

	return ExitGeneral
}

// cobraUsageErrorPatterns contains error message substrings that indicate Cobra usage errors.
// Cobra doesn't expose typed errors, so string matching is the only reliable approach.
var cobraUsageErrorPatterns = []string{
	"required flag",          // Missing required flag
	"unknown flag",           // Flag doesn't exist
	"unknown shorthand",      // Short flag doesn't exist
	"unknown command",        // Subcommand doesn't exist
	"flag needs an argument", // Flag provided without value
	"invalid argument",       // Invalid flag value type
	"accepts ",               // Wrong number of arguments (e.g., "accepts 1 arg(s)")
	"requires at least",      // Too few arguments
	"requires at most",       // Too many arguments
}

// isCobraUsageError checks if an error is a Cobra usage/parsing error.
func isCobraUsageError(err error) bool {
	if err == nil {
		return false
	}
	errMsg := err.Error()
	for _, pattern := range cobraUsageErrorPatterns {
		if strings.Contains(errMsg, pattern) {
			return true
		}
	}
	return false
}
