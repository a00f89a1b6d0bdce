package cli

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/alnah/go-vadsplit/internal/config"
	"github.com/alnah/go-vadsplit/internal/vad"
)

// ---------------------------------------------------------------------------
// syncBuffer - thread-safe bytes.Buffer for concurrent test output
// ---------------------------------------------------------------------------

type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (n int, err error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

// Compile-time check that syncBuffer implements io.Writer.
var _ io.Writer = (*syncBuffer)(nil)

// ---------------------------------------------------------------------------
// testMocks - convenience struct for grouping all mocks
// ---------------------------------------------------------------------------

type testMocks struct {
	ffmpegResolver *mockFFmpegResolver
	configStore    ConfigStore
	logger         *mockLoggerFactory
	decoder        *mockDecoderFactory
	classifier     *mockClassifierFactory
	sink           *mockSinkFactory
	transcriber    *mockTranscriberFactory
}

func newTestMocks() *testMocks {
	return &testMocks{
		ffmpegResolver: &mockFFmpegResolver{},
		configStore:    &mockConfigStore{},
		logger:         &mockLoggerFactory{},
		decoder:        &mockDecoderFactory{mockDecoder: &mockDecoder{PCM: speechPCM()}},
		classifier:     &mockClassifierFactory{},
		sink:           &mockSinkFactory{runner: &mockPipeRunner{}},
		transcriber:    &mockTranscriberFactory{mockTranscriber: &mockTranscriber{}},
	}
}

// ---------------------------------------------------------------------------
// testEnv - creates a fully mocked Env for testing
// ---------------------------------------------------------------------------

// testEnvOptions configures a test environment.
type testEnvOptions struct {
	stdout io.Writer
	stderr io.Writer
	getenv func(string) string
	mocks  *testMocks
}

// testEnvOption configures testEnv.
type testEnvOption func(*testEnvOptions)

func withStderr(w io.Writer) testEnvOption {
	return func(o *testEnvOptions) { o.stderr = w }
}

func withStdout(w io.Writer) testEnvOption {
	return func(o *testEnvOptions) { o.stdout = w }
}

func withGetenv(fn func(string) string) testEnvOption {
	return func(o *testEnvOptions) { o.getenv = fn }
}

func withMocks(m *testMocks) testEnvOption {
	return func(o *testEnvOptions) { o.mocks = m }
}

// testEnv creates a test Env with all dependencies mocked.
// Returns the Env and the mocks for assertions.
func testEnv(opts ...testEnvOption) (*Env, *testMocks) {
	options := &testEnvOptions{
		stdout: &syncBuffer{},
		stderr: &syncBuffer{},
		getenv: defaultTestEnv,
		mocks:  newTestMocks(),
	}

	for _, opt := range opts {
		opt(options)
	}

	env := &Env{
		Stdout:             options.stdout,
		Stderr:             options.stderr,
		Getenv:             options.getenv,
		Now:                fixedTime(time.Date(2026, 1, 26, 14, 30, 52, 0, time.UTC)),
		FFmpegResolver:     options.mocks.ffmpegResolver,
		ConfigStore:        options.mocks.configStore,
		LoggerFactory:      options.mocks.logger,
		DecoderFactory:     options.mocks.decoder,
		ClassifierFactory:  options.mocks.classifier,
		SinkFactory:        options.mocks.sink,
		TranscriberFactory: options.mocks.transcriber,
	}

	return env, options.mocks
}

// ---------------------------------------------------------------------------
// Test helpers
// ---------------------------------------------------------------------------

// fixedTime returns a function that always returns the given time.
func fixedTime(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

// staticEnv returns a getenv function that returns values from the given map.
func staticEnv(env map[string]string) func(string) string {
	return func(key string) string {
		return env[key]
	}
}

// defaultTestEnv provides an OpenAI key and nothing else.
func defaultTestEnv(key string) string {
	if key == EnvOpenAIAPIKey {
		return "test-openai-key"
	}
	return ""
}

// createTestAudioFile creates a temporary audio file for testing.
// Returns the file path. The file is automatically cleaned up after the test.
func createTestAudioFile(t *testing.T, name string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, name)

	// Write minimal content to make the file non-empty
	if err := os.WriteFile(path, []byte("fake audio content"), 0644); err != nil {
		t.Fatalf("failed to create test audio file: %v", err)
	}
	return path
}

// tempConfigStore returns a file-backed store inside a temp directory.
func tempConfigStore(t *testing.T) *config.Store {
	t.Helper()
	return config.NewStore(filepath.Join(t.TempDir(), "go-vadsplit", "config"))
}

// executeSplit runs the split command with args through cobra, so flag
// parsing and Changed tracking behave as on the command line.
func executeSplit(env *Env, args ...string) error {
	cmd := SplitCmd(env)
	cmd.SetArgs(args)
	cmd.SetOut(io.Discard)
	cmd.SetErr(io.Discard)
	return cmd.ExecuteContext(context.Background())
}

// ---------------------------------------------------------------------------
// Synthetic PCM
// ---------------------------------------------------------------------------

// testFrameSize is one 30 ms frame of 16 kHz mono 16-bit PCM.
var testFrameSize = vad.FrameSize(16000, 30)

type frameRun struct {
	voiced bool
	frames int
}

// markerPCM concatenates runs of frames whose first byte marks speech for
// markerClassifier.
func markerPCM(runs ...frameRun) []byte {
	var pcm []byte
	for _, r := range runs {
		for range r.frames {
			frame := make([]byte, testFrameSize)
			if r.voiced {
				frame[0] = 1
			}
			pcm = append(pcm, frame...)
		}
	}
	return pcm
}

// speechPCM yields three utterances: 3.3 s, 1.2 s and 3.0 s long once the
// window padding is included. With the default 2 s minimum, chunk 1 is
// rejected and chunks 0 and 2 are saved.
func speechPCM() []byte {
	return markerPCM(
		frameRun{false, 20},
		frameRun{true, 100},
		frameRun{false, 20},
		frameRun{true, 30},
		frameRun{false, 20},
		frameRun{true, 100},
	)
}
