package audio

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/alnah/go-vadsplit/internal/ffmpeg"
)

// Hook runs after a chunk file has been written. A hook error marks the chunk
// as failed.
type Hook func(ctx context.Context, index int, path string) error

// FileSink encodes each chunk it receives into its own file named
// <base>.<index>.<ext> inside a directory. It implements pipeline.Sink and is
// safe for concurrent use as long as its hooks are.
type FileSink struct {
	ffmpegPath string
	dir        string
	base       string
	format     Format
	sampleRate int
	hooks      []Hook

	runner pipeRunner
}

// FileSinkOption configures a FileSink.
type FileSinkOption func(*FileSink)

// WithFormat sets the output format. Default: mp3.
func WithFormat(f Format) FileSinkOption {
	return func(s *FileSink) { s.format = f }
}

// WithInputRate sets the sample rate of the PCM handed to WriteChunk.
func WithInputRate(rate int) FileSinkOption {
	return func(s *FileSink) { s.sampleRate = rate }
}

// WithHook adds a hook run after each successful write, in the order added.
func WithHook(h Hook) FileSinkOption {
	return func(s *FileSink) {
		if h != nil {
			s.hooks = append(s.hooks, h)
		}
	}
}

// WithSinkRunner sets the ffmpeg runner.
func WithSinkRunner(r pipeRunner) FileSinkOption {
	return func(s *FileSink) { s.runner = r }
}

// NewFileSink creates a FileSink writing into dir, naming files after base.
func NewFileSink(ffmpegPath, dir, base string, opts ...FileSinkOption) (*FileSink, error) {
	if ffmpegPath == "" {
		return nil, fmt.Errorf("ffmpegPath cannot be empty: %w", ffmpeg.ErrNotFound)
	}
	s := &FileSink{
		ffmpegPath: ffmpegPath,
		dir:        dir,
		base:       base,
		format:     DefaultFormat,
		sampleRate: DefaultSampleRate,
		runner:     ffmpeg.NewExecutor(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if _, ok := codecArgs[s.format]; !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, s.format)
	}
	return s, nil
}

// Path returns the file a chunk with the given index is written to.
func (s *FileSink) Path(index int) string {
	return filepath.Join(s.dir, ChunkName(s.base, index, s.format.Ext()))
}

// WriteChunk encodes pcm into the chunk's file, then runs the hooks.
func (s *FileSink) WriteChunk(ctx context.Context, index int, pcm []byte) error {
	path := s.Path(index)
	if _, err := s.runner.Pipe(ctx, s.ffmpegPath, encodeArgs(s.sampleRate, s.format, path), pcm); err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return err
		}
		return fmt.Errorf("%w: %s: %v", ErrEncodeFailed, filepath.Base(path), err)
	}
	for _, h := range s.hooks {
		if err := h(ctx, index, path); err != nil {
			return err
		}
	}
	return nil
}

// encodeArgs builds the ffmpeg arguments reading s16le mono PCM from stdin and
// writing path in the given format.
func encodeArgs(sampleRate int, f Format, path string) []string {
	args := []string{
		"-loglevel", "fatal", "-hide_banner", "-nostats", "-nostdin", "-y",
		"-f", "s16le",
		"-ar", strconv.Itoa(sampleRate),
		"-ac", "1",
		"-i", "-",
	}
	args = append(args, codecArgs[f]...)
	return append(args, "-vn", path)
}

// ChunkName returns "<base>.<index as 4 digits>.<ext>".
func ChunkName(base string, index int, ext string) string {
	return fmt.Sprintf("%s.%04d.%s", base, index, ext)
}

// BaseName returns the input file name up to its first dot, so
// "talk.2024.wav" becomes "talk". Names that start with a dot fall back to
// "audio".
func BaseName(inputPath string) string {
	name, _, _ := strings.Cut(filepath.Base(inputPath), ".")
	if name == "" {
		return "audio"
	}
	return name
}
