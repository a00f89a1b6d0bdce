package transcribe

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// fileWriter abstracts writing transcript files.
type fileWriter interface {
	WriteFile(name string, data []byte, perm os.FileMode) error
}

type osFileWriter struct{}

func (osFileWriter) WriteFile(name string, data []byte, perm os.FileMode) error {
	return os.WriteFile(name, data, perm)
}

// TranscriptWriter transcribes each saved chunk and writes the text next to
// it as <chunk without extension>.txt. Its Hook method matches audio.Hook.
type TranscriptWriter struct {
	t      Transcriber
	opts   Options
	writer fileWriter
}

// TranscriptWriterOption configures a TranscriptWriter.
type TranscriptWriterOption func(*TranscriptWriter)

// WithFileWriter sets the file writer (for testing).
func WithFileWriter(w fileWriter) TranscriptWriterOption {
	return func(tw *TranscriptWriter) { tw.writer = w }
}

// NewTranscriptWriter creates a TranscriptWriter using t with opts for every
// chunk.
func NewTranscriptWriter(t Transcriber, opts Options, wopts ...TranscriptWriterOption) *TranscriptWriter {
	tw := &TranscriptWriter{t: t, opts: opts, writer: osFileWriter{}}
	for _, o := range wopts {
		o(tw)
	}
	return tw
}

// TranscriptPath returns the transcript file for a chunk file.
func TranscriptPath(chunkPath string) string {
	return strings.TrimSuffix(chunkPath, filepath.Ext(chunkPath)) + ".txt"
}

// Hook transcribes the chunk at path and writes its transcript.
func (tw *TranscriptWriter) Hook(ctx context.Context, _ int, path string) error {
	text, err := tw.t.Transcribe(ctx, path, tw.opts)
	if err != nil {
		return fmt.Errorf("transcribe %s: %w", filepath.Base(path), err)
	}
	out := TranscriptPath(path)
	if err := tw.writer.WriteFile(out, []byte(strings.TrimSpace(text)+"\n"), 0o644); err != nil {
		return fmt.Errorf("write transcript %s: %w", filepath.Base(out), err)
	}
	return nil
}
