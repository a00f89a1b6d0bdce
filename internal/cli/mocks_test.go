package cli

import (
	"context"
	"path/filepath"
	"sync"

	"go.uber.org/zap"

	"github.com/alnah/go-vadsplit/internal/audio"
	"github.com/alnah/go-vadsplit/internal/config"
	"github.com/alnah/go-vadsplit/internal/logging"
	"github.com/alnah/go-vadsplit/internal/pipeline"
	"github.com/alnah/go-vadsplit/internal/transcribe"
	"github.com/alnah/go-vadsplit/internal/vad"
)

// ---------------------------------------------------------------------------
// Mock FFmpegResolver
// ---------------------------------------------------------------------------

type mockFFmpegResolver struct {
	ResolveFunc      func(ctx context.Context, configured string) (string, error)
	CheckVersionFunc func(ctx context.Context, ffmpegPath string)

	mu           sync.Mutex
	resolveCalls []string // configured paths passed
}

func (m *mockFFmpegResolver) Resolve(ctx context.Context, configured string) (string, error) {
	m.mu.Lock()
	m.resolveCalls = append(m.resolveCalls, configured)
	m.mu.Unlock()

	if m.ResolveFunc != nil {
		return m.ResolveFunc(ctx, configured)
	}
	return "/usr/bin/ffmpeg", nil
}

func (m *mockFFmpegResolver) CheckVersion(ctx context.Context, ffmpegPath string) {
	if m.CheckVersionFunc != nil {
		m.CheckVersionFunc(ctx, ffmpegPath)
	}
}

func (m *mockFFmpegResolver) ResolveCalls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.resolveCalls...)
}

// ---------------------------------------------------------------------------
// Mock ConfigStore
// ---------------------------------------------------------------------------

type mockConfigStore struct {
	LoadFunc func(getenv func(string) string) (config.Config, error)

	mu        sync.Mutex
	loadCalls int
}

func (m *mockConfigStore) Load(getenv func(string) string) (config.Config, error) {
	m.mu.Lock()
	m.loadCalls++
	m.mu.Unlock()

	if m.LoadFunc != nil {
		return m.LoadFunc(getenv)
	}
	return config.Config{}, nil
}

func (m *mockConfigStore) Get(string) (string, error) { return "", nil }

func (m *mockConfigStore) Set(string, string) error { return nil }

func (m *mockConfigStore) List() (map[string]string, error) { return map[string]string{}, nil }

func (m *mockConfigStore) Path() string { return "/dev/null" }

func (m *mockConfigStore) LoadCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.loadCalls
}

// ---------------------------------------------------------------------------
// Mock LoggerFactory
// ---------------------------------------------------------------------------

type mockLoggerFactory struct {
	mu     sync.Mutex
	levels []string
}

// NewLogger validates the level like the real factory but always returns a
// no-op logger.
func (m *mockLoggerFactory) NewLogger(level string) (*zap.Logger, error) {
	m.mu.Lock()
	m.levels = append(m.levels, level)
	m.mu.Unlock()

	if _, err := logging.New(level); err != nil {
		return nil, err
	}
	return zap.NewNop(), nil
}

func (m *mockLoggerFactory) Levels() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.levels...)
}

// ---------------------------------------------------------------------------
// Mock DecoderFactory + Decoder
// ---------------------------------------------------------------------------

type mockDecoderFactory struct {
	NewDecoderFunc func(ffmpegPath string) (Decoder, error)

	mu              sync.Mutex
	newDecoderCalls []string
	mockDecoder     *mockDecoder
}

func (m *mockDecoderFactory) NewDecoder(ffmpegPath string) (Decoder, error) {
	m.mu.Lock()
	m.newDecoderCalls = append(m.newDecoderCalls, ffmpegPath)
	m.mu.Unlock()

	if m.NewDecoderFunc != nil {
		return m.NewDecoderFunc(ffmpegPath)
	}
	if m.mockDecoder != nil {
		return m.mockDecoder, nil
	}
	return &mockDecoder{}, nil
}

func (m *mockDecoderFactory) NewDecoderCalls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.newDecoderCalls...)
}

type mockDecoder struct {
	DecodeFunc func(ctx context.Context, inputPath string) ([]byte, error)
	PCM        []byte

	mu          sync.Mutex
	decodeCalls []string
}

func (m *mockDecoder) Decode(ctx context.Context, inputPath string) ([]byte, error) {
	m.mu.Lock()
	m.decodeCalls = append(m.decodeCalls, inputPath)
	m.mu.Unlock()

	if m.DecodeFunc != nil {
		return m.DecodeFunc(ctx, inputPath)
	}
	return m.PCM, nil
}

func (m *mockDecoder) SampleRate() int { return audio.DefaultSampleRate }

func (m *mockDecoder) DecodeCalls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.decodeCalls...)
}

// ---------------------------------------------------------------------------
// Mock ClassifierFactory
// ---------------------------------------------------------------------------

// markerClassifier reports speech when the first byte of the frame is 1.
var markerClassifier = vad.ClassifierFunc(func(frame []byte, _ int) (bool, error) {
	return frame[0] == 1, nil
})

type mockClassifierFactory struct {
	NewClassifierFunc func(aggressiveness int) (vad.Classifier, error)

	mu                 sync.Mutex
	newClassifierCalls []int
}

func (m *mockClassifierFactory) NewClassifier(aggressiveness int) (vad.Classifier, error) {
	m.mu.Lock()
	m.newClassifierCalls = append(m.newClassifierCalls, aggressiveness)
	m.mu.Unlock()

	if m.NewClassifierFunc != nil {
		return m.NewClassifierFunc(aggressiveness)
	}
	return markerClassifier, nil
}

func (m *mockClassifierFactory) NewClassifierCalls() []int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]int(nil), m.newClassifierCalls...)
}

// ---------------------------------------------------------------------------
// Mock SinkFactory + ffmpeg pipe
// ---------------------------------------------------------------------------

// mockSinkFactory builds real FileSinks whose ffmpeg invocations go to
// runner, so hooks and naming behave exactly as in production.
type mockSinkFactory struct {
	NewSinkErr error

	mu           sync.Mutex
	newSinkCalls []sinkCall
	runner       *mockPipeRunner
}

type sinkCall struct {
	FFmpegPath string
	Dir        string
	Base       string
}

func (m *mockSinkFactory) NewSink(ffmpegPath, dir, base string, opts ...audio.FileSinkOption) (pipeline.Sink, error) {
	m.mu.Lock()
	m.newSinkCalls = append(m.newSinkCalls, sinkCall{FFmpegPath: ffmpegPath, Dir: dir, Base: base})
	if m.runner == nil {
		m.runner = &mockPipeRunner{}
	}
	runner := m.runner
	m.mu.Unlock()

	if m.NewSinkErr != nil {
		return nil, m.NewSinkErr
	}
	s, err := audio.NewFileSink(ffmpegPath, dir, base, append(opts, audio.WithSinkRunner(runner))...)
	if err != nil {
		return nil, err
	}
	return s, nil
}

func (m *mockSinkFactory) NewSinkCalls() []sinkCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]sinkCall(nil), m.newSinkCalls...)
}

type mockPipeRunner struct {
	PipeFunc func(ctx context.Context, ffmpegPath string, args []string, stdin []byte) ([]byte, error)

	mu      sync.Mutex
	outputs []string // output file of each call
}

func (m *mockPipeRunner) Pipe(ctx context.Context, ffmpegPath string, args []string, stdin []byte) ([]byte, error) {
	m.mu.Lock()
	if len(args) > 0 {
		m.outputs = append(m.outputs, args[len(args)-1])
	}
	m.mu.Unlock()

	if m.PipeFunc != nil {
		return m.PipeFunc(ctx, ffmpegPath, args, stdin)
	}
	return nil, nil
}

// Outputs returns the base names of the files written, in call order.
func (m *mockPipeRunner) Outputs() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	names := make([]string, len(m.outputs))
	for i, p := range m.outputs {
		names[i] = filepath.Base(p)
	}
	return names
}

// ---------------------------------------------------------------------------
// Mock TranscriberFactory + Transcriber
// ---------------------------------------------------------------------------

type mockTranscriberFactory struct {
	NewTranscriberFunc func(apiKey string) transcribe.Transcriber

	mu                  sync.Mutex
	newTranscriberCalls []string // API keys passed
	mockTranscriber     *mockTranscriber
}

func (m *mockTranscriberFactory) NewTranscriber(apiKey string, _ *zap.Logger) transcribe.Transcriber {
	m.mu.Lock()
	m.newTranscriberCalls = append(m.newTranscriberCalls, apiKey)
	m.mu.Unlock()

	if m.NewTranscriberFunc != nil {
		return m.NewTranscriberFunc(apiKey)
	}
	if m.mockTranscriber != nil {
		return m.mockTranscriber
	}
	return &mockTranscriber{}
}

func (m *mockTranscriberFactory) NewTranscriberCalls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.newTranscriberCalls...)
}

type mockTranscriber struct {
	TranscribeFunc func(ctx context.Context, audioPath string, opts transcribe.Options) (string, error)

	mu              sync.Mutex
	transcribeCalls []transcribeCall
}

type transcribeCall struct {
	AudioPath string
	Opts      transcribe.Options
}

func (m *mockTranscriber) Transcribe(ctx context.Context, audioPath string, opts transcribe.Options) (string, error) {
	m.mu.Lock()
	m.transcribeCalls = append(m.transcribeCalls, transcribeCall{AudioPath: audioPath, Opts: opts})
	m.mu.Unlock()

	if m.TranscribeFunc != nil {
		return m.TranscribeFunc(ctx, audioPath, opts)
	}
	return "transcribed text", nil
}

func (m *mockTranscriber) TranscribeCalls() []transcribeCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	result := make([]transcribeCall, len(m.transcribeCalls))
	copy(result, m.transcribeCalls)
	return result
}

// Compile-time interface verification.
var (
	_ FFmpegResolver         = (*mockFFmpegResolver)(nil)
	_ ConfigStore            = (*mockConfigStore)(nil)
	_ LoggerFactory          = (*mockLoggerFactory)(nil)
	_ DecoderFactory         = (*mockDecoderFactory)(nil)
	_ Decoder                = (*mockDecoder)(nil)
	_ ClassifierFactory      = (*mockClassifierFactory)(nil)
	_ SinkFactory            = (*mockSinkFactory)(nil)
	_ TranscriberFactory     = (*mockTranscriberFactory)(nil)
	_ transcribe.Transcriber = (*mockTranscriber)(nil)
)
