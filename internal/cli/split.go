package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/alnah/go-vadsplit/internal/audio"
	"github.com/alnah/go-vadsplit/internal/config"
	"github.com/alnah/go-vadsplit/internal/format"
	"github.com/alnah/go-vadsplit/internal/logging"
	"github.com/alnah/go-vadsplit/internal/pipeline"
	"github.com/alnah/go-vadsplit/internal/transcribe"
	"github.com/alnah/go-vadsplit/internal/vad"
)

// EnvOpenAIAPIKey is the environment variable holding the OpenAI API key.
const EnvOpenAIAPIKey = "OPENAI_API_KEY"

const (
	defaultOutputDir   = "voice_chunks"
	defaultMinDuration = "2"

	// maxParallel bounds concurrent classification workers and encoders.
	maxParallel = 16
)

// splitOptions holds the raw flag values of the split command.
type splitOptions struct {
	outputDir      string
	ffmpegPath     string
	aggressiveness int
	frameDuration  int
	minDuration    string
	format         string
	parallel       int
	partialWindow  bool
	transcribe     bool
	language       string
	logLevel       string
}

// SplitCmd creates the split command.
// The env parameter provides injectable dependencies for testing.
func SplitCmd(env *Env) *cobra.Command {
	var opts splitOptions

	cmd := &cobra.Command{
		Use:   "split <audio-file>",
		Short: "Split an audio file into voiced chunks",
		Long: `Split an audio file into chunks of continuous speech.

The input is decoded to 16 kHz mono PCM, every frame is classified as speech
or non-speech with WebRTC VAD, and a sliding window decides where utterances
start and end. Each utterance longer than --min-duration is saved as
<input>.<NNNN>.<format> in the output directory. NNNN counts every detected
utterance, so indices of dropped short chunks leave gaps.

With --transcribe, every saved chunk is also sent to OpenAI and its text is
written next to it as <input>.<NNNN>.txt.

Flags override the config file, which overrides VADSPLIT_* environment
variables.`,
		Example: `  vadsplit split interview.mp3
  vadsplit split lecture.ogg -o chunks --aggressiveness 3 --min-duration 1.5
  vadsplit split podcast.wav --format wav --frame-duration 20
  vadsplit split call.m4a --transcribe -l fr`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSplit(cmd, env, args[0], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.outputDir, config.KeyOutputDir, "o", defaultOutputDir, "Directory for the saved chunks")
	cmd.Flags().StringVar(&opts.ffmpegPath, config.KeyFFmpegPath, "", "Path to the ffmpeg binary (default: $FFMPEG_PATH or PATH)")
	cmd.Flags().IntVarP(&opts.aggressiveness, config.KeyAggressiveness, "a", pipeline.DefaultAggressiveness, "VAD aggressiveness, 0 (least) to 3 (most)")
	cmd.Flags().IntVarP(&opts.frameDuration, config.KeyFrameDuration, "f", pipeline.DefaultFrameDuration, "Frame duration in ms: 10, 20 or 30")
	cmd.Flags().StringVarP(&opts.minDuration, config.KeyMinDuration, "m", defaultMinDuration, "Minimum chunk length, in seconds (2, 1.5) or as a duration (1500ms)")
	cmd.Flags().StringVar(&opts.format, config.KeyFormat, string(audio.DefaultFormat), "Output format: mp3, ogg, wav, flac")
	cmd.Flags().IntVarP(&opts.parallel, "parallel", "p", pipeline.DefaultSinkParallel, "Max concurrent encoders (1-16)")
	cmd.Flags().BoolVar(&opts.partialWindow, "partial-window", false, "Compare against the frames in the window rather than its capacity")
	cmd.Flags().BoolVar(&opts.transcribe, "transcribe", false, "Transcribe each saved chunk with OpenAI")
	cmd.Flags().StringVarP(&opts.language, "language", "l", "", "Audio language for --transcribe (ISO 639-1 code, e.g., en, fr, pt-BR)")
	cmd.Flags().StringVar(&opts.logLevel, "log-level", "", "Diagnostic log level: debug, info, warn, error (default: $LOG_LEVEL or warn)")

	return cmd
}

// runSplit executes the split pipeline.
// Validation order: file exists -> frame duration/aggressiveness -> format -> min duration -> language -> log level -> API key
func runSplit(cmd *cobra.Command, env *Env, inputPath string, opts splitOptions) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	flags := cmd.Flags()
	start := env.Now()

	// === VALIDATION (fail-fast) ===

	// 1. File exists
	info, err := os.Stat(inputPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("%w: %s", audio.ErrFileNotFound, inputPath)
		}
		return fmt.Errorf("cannot access input file: %w", err)
	}
	if info.IsDir() {
		return fmt.Errorf("%w: %s is a directory", audio.ErrFileNotFound, inputPath)
	}

	// 2. Config file and VADSPLIT_* fallbacks
	cfg, err := env.ConfigStore.Load(env.Getenv)
	if err != nil {
		fmt.Fprintf(env.Stderr, "Warning: failed to load config: %v\n", err)
	}

	// 3. Frame duration and aggressiveness
	frameMs, err := intSetting(flags, config.KeyFrameDuration, opts.frameDuration, cfg.FrameDuration)
	if err != nil {
		return err
	}
	aggressiveness, err := intSetting(flags, config.KeyAggressiveness, opts.aggressiveness, cfg.Aggressiveness)
	if err != nil {
		return err
	}
	if err := vad.ValidateConfig(audio.DefaultSampleRate, frameMs, aggressiveness); err != nil {
		return err
	}

	// 4. Output format
	outFormat, err := audio.ParseFormat(stringSetting(flags, config.KeyFormat, opts.format, cfg.Format))
	if err != nil {
		return err
	}

	// 5. Minimum duration
	minDuration, err := parseMinDuration(stringSetting(flags, config.KeyMinDuration, opts.minDuration, cfg.MinDuration))
	if err != nil {
		return err
	}

	// 6. Language
	if opts.language != "" && !opts.transcribe {
		return ErrLanguageWithoutTranscribe
	}
	language, err := transcribe.NormalizeLanguage(opts.language)
	if err != nil {
		return err
	}

	// 7. Log level
	logger, err := env.LoggerFactory.NewLogger(logging.ResolveLevel(opts.logLevel, env.Getenv))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidValue, err)
	}
	defer func() { _ = logger.Sync() }()

	// 8. Parallel bounds (clamp to 1-16)
	parallel := clampParallel(opts.parallel)

	// 9. API key present (only when transcribing)
	var apiKey string
	if opts.transcribe {
		apiKey = env.Getenv(EnvOpenAIAPIKey)
		if apiKey == "" {
			return fmt.Errorf("%w (set it with: export %s=sk-...)", transcribe.ErrAPIKeyMissing, EnvOpenAIAPIKey)
		}
	}

	// === SETUP ===

	outputDir := config.ExpandPath(stringSetting(flags, config.KeyOutputDir, opts.outputDir, cfg.OutputDir))
	existed, err := config.EnsureOutputDir(outputDir)
	if err != nil {
		return fmt.Errorf("invalid output directory: %w", err)
	}
	if existed {
		fmt.Fprintf(env.Stderr, "Output directory already exists: %s\n", outputDir)
	} else {
		fmt.Fprintf(env.Stderr, "Created output directory: %s\n", outputDir)
	}

	configuredFFmpeg := config.ExpandPath(stringSetting(flags, config.KeyFFmpegPath, opts.ffmpegPath, cfg.FFmpegPath))
	ffmpegPath, err := env.FFmpegResolver.Resolve(ctx, configuredFFmpeg)
	if err != nil {
		return err
	}
	env.FFmpegResolver.CheckVersion(ctx, ffmpegPath)

	// === DECODE ===

	fmt.Fprintln(env.Stderr, "Decoding audio...")

	decoder, err := env.DecoderFactory.NewDecoder(ffmpegPath)
	if err != nil {
		return err
	}
	pcm, err := decoder.Decode(ctx, inputPath)
	if err != nil {
		return err
	}
	rate := decoder.SampleRate()

	fmt.Fprintf(env.Stderr, "Decoded %s of audio (%s PCM)\n",
		format.Duration(pipeline.ChunkDuration(len(pcm), rate)), format.Size(int64(len(pcm))))

	// === SEGMENT AND SAVE ===

	classifier, err := env.ClassifierFactory.NewClassifier(aggressiveness)
	if err != nil {
		return err
	}

	driver, err := pipeline.NewDriver(pipeline.Config{
		SampleRate:       rate,
		FrameDuration:    frameMs,
		Aggressiveness:   aggressiveness,
		MinChunkDuration: minDuration,
		TriggerRatio:     vad.DefaultTriggerRatio,
		PartialWindow:    opts.partialWindow,
		ClassifyParallel: parallel,
		SinkParallel:     parallel,
	}, classifier, pipeline.WithLogger(logger))
	if err != nil {
		return err
	}

	sinkOpts := []audio.FileSinkOption{
		audio.WithFormat(outFormat),
		audio.WithInputRate(rate),
		audio.WithHook(progressHook(env.Stderr, "Saved")),
	}
	if opts.transcribe {
		transcriber := env.TranscriberFactory.NewTranscriber(apiKey, logger)
		writer := transcribe.NewTranscriptWriter(transcriber, transcribe.Options{Language: language})
		sinkOpts = append(sinkOpts,
			audio.WithHook(writer.Hook),
			audio.WithHook(progressHook(env.Stderr, "Transcribed")))
	}

	sink, err := env.SinkFactory.NewSink(ffmpegPath, outputDir, audio.BaseName(inputPath), sinkOpts...)
	if err != nil {
		return err
	}

	fmt.Fprintln(env.Stderr, "Detecting voice activity...")

	res, err := driver.Run(ctx, pcm, sink)
	if err != nil {
		return err
	}

	printSummary(env.Stderr, res, outputDir, env.Now().Sub(start))

	if res.SinkErr != nil {
		return fmt.Errorf("%d of %d chunks could not be saved: %w", len(res.Failed), len(res.Accepted), res.SinkErr)
	}
	return nil
}

// progressHook reports each chunk that reached this point of the sink.
func progressHook(w io.Writer, verb string) audio.Hook {
	return func(_ context.Context, index int, path string) error {
		fmt.Fprintf(w, "%s chunk %d: %s\n", verb, index, filepath.Base(path))
		return nil
	}
}

// printSummary writes the final counts of a run.
func printSummary(w io.Writer, res pipeline.Result, outputDir string, elapsed time.Duration) {
	saved := len(res.Accepted) - len(res.Failed)
	fmt.Fprintf(w, "Done: %d chunks detected, %d saved, %d rejected (too short), %d failed\n",
		res.Emitted, saved, len(res.Rejected), len(res.Failed))
	fmt.Fprintf(w, "Output: %s (%s)\n", outputDir, format.Seconds(elapsed))
}

// clampParallel constrains the worker count to [1, maxParallel].
func clampParallel(n int) int {
	return min(max(n, 1), maxParallel)
}

// parseMinDuration accepts plain seconds ("2", "0.5") or a Go duration
// ("1500ms", "2s"). The result must be positive.
func parseMinDuration(s string) (time.Duration, error) {
	s = strings.TrimSpace(s)

	var d time.Duration
	if secs, err := strconv.ParseFloat(s, 64); err == nil {
		if math.IsNaN(secs) || math.IsInf(secs, 0) || secs > math.MaxInt64/float64(time.Second) {
			return 0, fmt.Errorf("%w: %q", ErrInvalidDuration, s)
		}
		d = time.Duration(secs * float64(time.Second))
	} else {
		parsed, err := time.ParseDuration(s)
		if err != nil {
			return 0, fmt.Errorf("%w: %q (use seconds like 2 or 1.5, or a duration like 1500ms)", ErrInvalidDuration, s)
		}
		d = parsed
	}

	if d <= 0 {
		return 0, fmt.Errorf("%w: %q must be positive", ErrInvalidDuration, s)
	}
	return d, nil
}

// stringSetting returns the flag value when it was given on the command line,
// else the config value when set, else the flag default.
func stringSetting(flags *pflag.FlagSet, name, flagValue, configValue string) string {
	if flags.Changed(name) || configValue == "" {
		return flagValue
	}
	return configValue
}

// intSetting is stringSetting for integer flags.
func intSetting(flags *pflag.FlagSet, name string, flagValue int, configValue string) (int, error) {
	if flags.Changed(name) || configValue == "" {
		return flagValue, nil
	}
	n, err := strconv.Atoi(strings.TrimSpace(configValue))
	if err != nil {
		return 0, fmt.Errorf("%w: %s=%q is not an integer", ErrInvalidValue, name, configValue)
	}
	return n, nil
}
