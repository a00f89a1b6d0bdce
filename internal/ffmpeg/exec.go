package ffmpeg

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
	"sync"
)

// ---------------------------------------------------------------------------
// Executor - testable FFmpeg execution with dependency injection
// ---------------------------------------------------------------------------

// runOutputFn runs a command and returns its stderr.
type runOutputFn func(ctx context.Context, path string, args []string) (string, error)

// pipeFn runs a command feeding stdin and returns its stdout.
type pipeFn func(ctx context.Context, path string, args []string, stdin []byte) ([]byte, error)

// Executor runs FFmpeg commands with injectable dependencies.
type Executor struct {
	runOutput runOutputFn
	pipe      pipeFn
}

// ExecutorOption configures an Executor.
type ExecutorOption func(*Executor)

// WithRunOutput sets a custom runOutput function (for testing).
func WithRunOutput(fn runOutputFn) ExecutorOption {
	return func(e *Executor) { e.runOutput = fn }
}

// WithPipe sets a custom pipe function (for testing).
func WithPipe(fn pipeFn) ExecutorOption {
	return func(e *Executor) { e.pipe = fn }
}

// NewExecutor creates an Executor with the given options.
func NewExecutor(opts ...ExecutorOption) *Executor {
	e := &Executor{
		runOutput: defaultRunOutput,
		pipe:      defaultPipe,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// RunOutput executes FFmpeg and captures its stderr output.
// FFmpeg writes diagnostic output (version banner, probe info) to stderr.
func (e *Executor) RunOutput(ctx context.Context, ffmpegPath string, args []string) (string, error) {
	return e.runOutput(ctx, ffmpegPath, args)
}

// Pipe executes FFmpeg with stdin as its standard input and returns everything
// it wrote to standard output. Pass nil stdin when ffmpeg reads from a file.
// Failures wrap ErrExecFailed and carry ffmpeg's stderr.
func (e *Executor) Pipe(ctx context.Context, ffmpegPath string, args []string, stdin []byte) ([]byte, error) {
	return e.pipe(ctx, ffmpegPath, args, stdin)
}

// defaultRunOutput returns stderr even when the command fails, since ffmpeg
// exits non-zero for some purely informational invocations.
func defaultRunOutput(ctx context.Context, ffmpegPath string, args []string) (string, error) {
	cmd := exec.CommandContext(ctx, ffmpegPath, args...)

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	err := cmd.Run()
	return stderr.String(), err
}

func defaultPipe(ctx context.Context, ffmpegPath string, args []string, stdin []byte) ([]byte, error) {
	cmd := exec.CommandContext(ctx, ffmpegPath, args...)
	if stdin != nil {
		cmd.Stdin = bytes.NewReader(stdin)
	}

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		msg := strings.TrimSpace(stderr.String())
		if msg == "" {
			return nil, fmt.Errorf("%w: %v", ErrExecFailed, err)
		}
		return nil, fmt.Errorf("%w: %v\nOutput: %s", ErrExecFailed, err, msg)
	}
	return stdout.Bytes(), nil
}

// ---------------------------------------------------------------------------
// Package-level functions - default executor facade
// ---------------------------------------------------------------------------

var (
	defaultExecutor     *Executor
	defaultExecutorOnce sync.Once
)

// getDefaultExecutor returns the lazily-initialized default executor.
func getDefaultExecutor() *Executor {
	defaultExecutorOnce.Do(func() {
		defaultExecutor = NewExecutor()
	})
	return defaultExecutor
}

// RunOutput executes FFmpeg with the default executor and captures stderr.
func RunOutput(ctx context.Context, ffmpegPath string, args []string) (string, error) {
	return getDefaultExecutor().RunOutput(ctx, ffmpegPath, args)
}

// Pipe executes FFmpeg with the default executor, feeding stdin and
// capturing stdout.
func Pipe(ctx context.Context, ffmpegPath string, args []string, stdin []byte) ([]byte, error) {
	return getDefaultExecutor().Pipe(ctx, ffmpegPath, args, stdin)
}
