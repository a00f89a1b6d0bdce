package ffmpeg

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
)

// minMajorVersion is the oldest ffmpeg known to handle the s16le pipe
// round-trip and the libmp3lame/libvorbis encoders we invoke.
const minMajorVersion = 4

// VersionChecker verifies FFmpeg version requirements.
type VersionChecker struct {
	executor *Executor
	stderr   io.Writer
}

// VersionCheckerOption configures a VersionChecker.
type VersionCheckerOption func(*VersionChecker)

// WithVersionExecutor sets the executor for running FFmpeg.
func WithVersionExecutor(e *Executor) VersionCheckerOption {
	return func(vc *VersionChecker) { vc.executor = e }
}

// WithVersionStderr sets the writer for warning messages.
func WithVersionStderr(w io.Writer) VersionCheckerOption {
	return func(vc *VersionChecker) { vc.stderr = w }
}

// NewVersionChecker creates a VersionChecker with the given options.
func NewVersionChecker(opts ...VersionCheckerOption) *VersionChecker {
	vc := &VersionChecker{
		executor: getDefaultExecutor(),
		stderr:   os.Stderr,
	}
	for _, opt := range opts {
		opt(vc)
	}
	return vc
}

// Check prints a warning when ffmpeg is older than the minimum supported
// major version. It never fails; the returned major is 0 and ok is false when
// the version could not be determined.
func (vc *VersionChecker) Check(ctx context.Context, ffmpegPath string) (major int, ok bool) {
	output, err := vc.executor.RunOutput(ctx, ffmpegPath, []string{"-version"})
	if err != nil && output == "" {
		return 0, false
	}

	major, ok = parseMajor(output)
	if !ok {
		return 0, false
	}
	if major < minMajorVersion {
		fmt.Fprintf(vc.stderr, "Warning: ffmpeg version %d detected, version %d+ recommended\n",
			major, minMajorVersion)
	}
	return major, true
}

// parseMajor reads the major version from the first line of `ffmpeg -version`,
// e.g. "ffmpeg version 6.1.1 ..." or "ffmpeg version n6.1.1 ...".
func parseMajor(output string) (int, bool) {
	line, _, _ := strings.Cut(output, "\n")
	if line == "" {
		return 0, false
	}
	var major int
	if _, err := fmt.Sscanf(line, "ffmpeg version %d", &major); err == nil {
		return major, true
	}
	if _, err := fmt.Sscanf(line, "ffmpeg version n%d", &major); err == nil {
		return major, true
	}
	return 0, false
}
