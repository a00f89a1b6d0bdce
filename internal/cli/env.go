package cli

import (
	"context"
	"io"
	"os"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/alnah/go-vadsplit/internal/audio"
	"github.com/alnah/go-vadsplit/internal/config"
	"github.com/alnah/go-vadsplit/internal/ffmpeg"
	"github.com/alnah/go-vadsplit/internal/logging"
	"github.com/alnah/go-vadsplit/internal/pipeline"
	"github.com/alnah/go-vadsplit/internal/transcribe"
	"github.com/alnah/go-vadsplit/internal/vad"
)

// Env holds injectable dependencies for CLI commands.
// This is the central injection point for testing CLI commands in isolation.
//
// All fields have sensible defaults via DefaultEnv(). Tests can override
// specific fields using the With* options or by creating a custom Env.
//
// Env must not be nil when passed to command functions.
type Env struct {
	// I/O and environment
	Stdout io.Writer
	Stderr io.Writer
	Getenv func(string) string
	Now    func() time.Time

	// Factories for domain objects
	FFmpegResolver     FFmpegResolver
	ConfigStore        ConfigStore
	LoggerFactory      LoggerFactory
	DecoderFactory     DecoderFactory
	ClassifierFactory  ClassifierFactory
	SinkFactory        SinkFactory
	TranscriberFactory TranscriberFactory
}

// FFmpegResolver resolves the path to the FFmpeg binary.
// configured is the path from flags or config; empty means search.
type FFmpegResolver interface {
	Resolve(ctx context.Context, configured string) (string, error)
	CheckVersion(ctx context.Context, ffmpegPath string)
}

// ConfigStore reads and writes persistent settings.
type ConfigStore interface {
	Load(getenv func(string) string) (config.Config, error)
	Get(key string) (string, error)
	Set(key, value string) error
	List() (map[string]string, error)
	Path() string
}

// LoggerFactory builds the diagnostic logger for a level name.
type LoggerFactory interface {
	NewLogger(level string) (*zap.Logger, error)
}

// Decoder turns an input file into mono 16-bit PCM.
type Decoder interface {
	Decode(ctx context.Context, inputPath string) ([]byte, error)
	SampleRate() int
}

// DecoderFactory creates audio decoders.
type DecoderFactory interface {
	NewDecoder(ffmpegPath string) (Decoder, error)
}

// ClassifierFactory creates frame classifiers.
type ClassifierFactory interface {
	NewClassifier(aggressiveness int) (vad.Classifier, error)
}

// SinkFactory creates the sink chunks are saved to.
type SinkFactory interface {
	NewSink(ffmpegPath, dir, base string, opts ...audio.FileSinkOption) (pipeline.Sink, error)
}

// TranscriberFactory creates transcribers for audio-to-text conversion.
type TranscriberFactory interface {
	NewTranscriber(apiKey string, logger *zap.Logger) transcribe.Transcriber
}

// EnvOption configures an Env.
type EnvOption func(*Env)

// WithStdout sets the stdout writer.
func WithStdout(w io.Writer) EnvOption {
	return func(e *Env) {
		e.Stdout = w
	}
}

// WithStderr sets the stderr writer.
func WithStderr(w io.Writer) EnvOption {
	return func(e *Env) {
		e.Stderr = w
	}
}

// WithGetenv sets the environment variable getter.
func WithGetenv(fn func(string) string) EnvOption {
	return func(e *Env) {
		e.Getenv = fn
	}
}

// WithNow sets the time provider.
func WithNow(fn func() time.Time) EnvOption {
	return func(e *Env) {
		e.Now = fn
	}
}

// WithFFmpegResolver sets the FFmpeg resolver.
func WithFFmpegResolver(r FFmpegResolver) EnvOption {
	return func(e *Env) {
		e.FFmpegResolver = r
	}
}

// WithConfigStore sets the config store.
func WithConfigStore(s ConfigStore) EnvOption {
	return func(e *Env) {
		e.ConfigStore = s
	}
}

// WithLoggerFactory sets the logger factory.
func WithLoggerFactory(f LoggerFactory) EnvOption {
	return func(e *Env) {
		e.LoggerFactory = f
	}
}

// WithDecoderFactory sets the decoder factory.
func WithDecoderFactory(f DecoderFactory) EnvOption {
	return func(e *Env) {
		e.DecoderFactory = f
	}
}

// WithClassifierFactory sets the classifier factory.
func WithClassifierFactory(f ClassifierFactory) EnvOption {
	return func(e *Env) {
		e.ClassifierFactory = f
	}
}

// WithSinkFactory sets the sink factory.
func WithSinkFactory(f SinkFactory) EnvOption {
	return func(e *Env) {
		e.SinkFactory = f
	}
}

// WithTranscriberFactory sets the transcriber factory.
func WithTranscriberFactory(f TranscriberFactory) EnvOption {
	return func(e *Env) {
		e.TranscriberFactory = f
	}
}

// DefaultEnv returns an Env with production defaults.
func DefaultEnv() *Env {
	return &Env{
		Stdout:             os.Stdout,
		Stderr:             os.Stderr,
		Getenv:             os.Getenv,
		Now:                time.Now,
		FFmpegResolver:     &defaultFFmpegResolver{stderr: os.Stderr},
		ConfigStore:        &defaultConfigStore{},
		LoggerFactory:      &defaultLoggerFactory{},
		DecoderFactory:     &defaultDecoderFactory{},
		ClassifierFactory:  &defaultClassifierFactory{},
		SinkFactory:        &defaultSinkFactory{},
		TranscriberFactory: &defaultTranscriberFactory{},
	}
}

// NewEnv creates an Env with the given options applied to defaults.
func NewEnv(opts ...EnvOption) *Env {
	env := DefaultEnv()
	for _, opt := range opts {
		opt(env)
	}
	return env
}

// ---------------------------------------------------------------------------
// Default implementations - delegate to real packages
// ---------------------------------------------------------------------------

// defaultFFmpegResolver implements FFmpegResolver using the ffmpeg package.
type defaultFFmpegResolver struct {
	stderr io.Writer
}

func (defaultFFmpegResolver) Resolve(ctx context.Context, configured string) (string, error) {
	if configured == "" {
		return ffmpeg.Resolve(ctx)
	}
	return ffmpeg.NewResolver(ffmpeg.WithConfiguredPath(configured)).Resolve(ctx)
}

func (r defaultFFmpegResolver) CheckVersion(ctx context.Context, ffmpegPath string) {
	ffmpeg.NewVersionChecker(ffmpeg.WithVersionStderr(r.stderr)).Check(ctx, ffmpegPath)
}

// defaultConfigStore implements ConfigStore on the file at config.DefaultPath.
// The path is resolved on every call so a missing home directory only fails
// the commands that touch the config.
type defaultConfigStore struct{}

func (defaultConfigStore) store() (*config.Store, error) {
	return config.DefaultStore()
}

func (d defaultConfigStore) Load(getenv func(string) string) (config.Config, error) {
	s, err := d.store()
	if err != nil {
		return config.Config{}, err
	}
	return s.Load(getenv)
}

func (d defaultConfigStore) Get(key string) (string, error) {
	s, err := d.store()
	if err != nil {
		return "", err
	}
	return s.Get(key)
}

func (d defaultConfigStore) Set(key, value string) error {
	s, err := d.store()
	if err != nil {
		return err
	}
	return s.Set(key, value)
}

func (d defaultConfigStore) List() (map[string]string, error) {
	s, err := d.store()
	if err != nil {
		return nil, err
	}
	return s.List()
}

func (d defaultConfigStore) Path() string {
	p, err := config.DefaultPath()
	if err != nil {
		return ""
	}
	return p
}

// defaultLoggerFactory implements LoggerFactory using the logging package.
type defaultLoggerFactory struct{}

func (defaultLoggerFactory) NewLogger(level string) (*zap.Logger, error) {
	return logging.New(level)
}

// defaultDecoderFactory implements DecoderFactory using the audio package.
type defaultDecoderFactory struct{}

func (defaultDecoderFactory) NewDecoder(ffmpegPath string) (Decoder, error) {
	d, err := audio.NewDecoder(ffmpegPath)
	if err != nil {
		return nil, err
	}
	return d, nil
}

// defaultClassifierFactory implements ClassifierFactory with WebRTC VAD.
type defaultClassifierFactory struct{}

func (defaultClassifierFactory) NewClassifier(aggressiveness int) (vad.Classifier, error) {
	c, err := vad.NewWebRTCClassifier(aggressiveness)
	if err != nil {
		return nil, err
	}
	return c, nil
}

// defaultSinkFactory implements SinkFactory with ffmpeg-encoded files.
type defaultSinkFactory struct{}

func (defaultSinkFactory) NewSink(ffmpegPath, dir, base string, opts ...audio.FileSinkOption) (pipeline.Sink, error) {
	s, err := audio.NewFileSink(ffmpegPath, dir, base, opts...)
	if err != nil {
		return nil, err
	}
	return s, nil
}

// defaultTranscriberFactory implements TranscriberFactory using OpenAI.
type defaultTranscriberFactory struct{}

func (defaultTranscriberFactory) NewTranscriber(apiKey string, logger *zap.Logger) transcribe.Transcriber {
	client := openai.NewClient(apiKey)
	return transcribe.NewOpenAITranscriber(client, transcribe.WithLogger(logger))
}

// Compile-time interface verification.
var (
	_ FFmpegResolver     = (*defaultFFmpegResolver)(nil)
	_ ConfigStore        = (*defaultConfigStore)(nil)
	_ ConfigStore        = (*config.Store)(nil)
	_ LoggerFactory      = (*defaultLoggerFactory)(nil)
	_ DecoderFactory     = (*defaultDecoderFactory)(nil)
	_ ClassifierFactory  = (*defaultClassifierFactory)(nil)
	_ SinkFactory        = (*defaultSinkFactory)(nil)
	_ TranscriberFactory = (*defaultTranscriberFactory)(nil)
	_ Decoder            = (*audio.Decoder)(nil)
)
