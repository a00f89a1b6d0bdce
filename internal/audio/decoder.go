package audio

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/alnah/go-vadsplit/internal/ffmpeg"
)

// DefaultSampleRate is the rate every input is resampled to before
// classification.
const DefaultSampleRate = 16000

// Decoder converts any audio or video file ffmpeg understands into mono
// 16-bit little-endian PCM held in memory.
type Decoder struct {
	ffmpegPath string
	sampleRate int

	// Injectable dependencies (defaults to OS implementations).
	runner  pipeRunner
	statter fileStatter
}

// DecoderOption configures a Decoder.
type DecoderOption func(*Decoder)

// WithDecoderRunner sets the ffmpeg runner.
func WithDecoderRunner(r pipeRunner) DecoderOption {
	return func(d *Decoder) { d.runner = r }
}

// WithDecoderStatter sets the file statter used to check the input.
func WithDecoderStatter(s fileStatter) DecoderOption {
	return func(d *Decoder) { d.statter = s }
}

// WithSampleRate sets the output sample rate. Default: 16000.
func WithSampleRate(rate int) DecoderOption {
	return func(d *Decoder) {
		if rate > 0 {
			d.sampleRate = rate
		}
	}
}

// NewDecoder creates a Decoder using the ffmpeg binary at ffmpegPath.
func NewDecoder(ffmpegPath string, opts ...DecoderOption) (*Decoder, error) {
	if ffmpegPath == "" {
		return nil, fmt.Errorf("ffmpegPath cannot be empty: %w", ffmpeg.ErrNotFound)
	}
	d := &Decoder{
		ffmpegPath: ffmpegPath,
		sampleRate: DefaultSampleRate,
		runner:     ffmpeg.NewExecutor(),
		statter:    osFileStatter{},
	}
	for _, opt := range opts {
		opt(d)
	}
	return d, nil
}

// SampleRate returns the rate of the PCM produced by Decode.
func (d *Decoder) SampleRate() int {
	return d.sampleRate
}

// Decode reads inputPath and returns its audio as raw PCM.
func (d *Decoder) Decode(ctx context.Context, inputPath string) ([]byte, error) {
	info, err := d.statter.Stat(inputPath)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrFileNotFound, inputPath)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%w: %s is a directory", ErrFileNotFound, inputPath)
	}

	pcm, err := d.runner.Pipe(ctx, d.ffmpegPath, decodeArgs(inputPath, d.sampleRate), nil)
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %s: %v", ErrDecodeFailed, inputPath, err)
	}
	if len(pcm)%2 != 0 {
		pcm = pcm[:len(pcm)-1]
	}
	return pcm, nil
}

// decodeArgs builds the ffmpeg arguments that write s16le mono PCM to stdout.
func decodeArgs(inputPath string, sampleRate int) []string {
	return []string{
		"-hide_banner", "-nostats", "-nostdin",
		"-i", inputPath,
		"-ar", strconv.Itoa(sampleRate),
		"-ac", "1",
		"-f", "s16le",
		"-acodec", "pcm_s16le",
		"-loglevel", "fatal",
		"-vn", "-",
	}
}
