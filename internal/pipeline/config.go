package pipeline

import (
	"fmt"
	"time"

	"github.com/alnah/go-vadsplit/internal/vad"
)

// Reference configuration.
const (
	// DefaultSampleRate is the rate the decoder resamples to.
	DefaultSampleRate = 16000

	// DefaultFrameDuration is the classification frame length in milliseconds.
	DefaultFrameDuration = 30

	// DefaultAggressiveness is passed through to the classifier untouched.
	DefaultAggressiveness = 1

	// DefaultMinChunkDuration drops chunks too short to be useful utterances.
	DefaultMinChunkDuration = 2 * time.Second

	// DefaultSinkParallel bounds concurrent sink writes (ffmpeg encoders).
	DefaultSinkParallel = 4
)

// Config holds the segmentation parameters for one run.
type Config struct {
	SampleRate       int           // Hz, mono 16-bit PCM
	FrameDuration    int           // ms; 10, 20 or 30
	Aggressiveness   int           // 0-3, opaque to the segmenter
	MinChunkDuration time.Duration // chunks must be strictly longer to be kept

	// TriggerRatio is the window agreement needed to change state.
	// Zero means vad.DefaultTriggerRatio.
	TriggerRatio float64

	// PartialWindow compares against the frames currently buffered rather
	// than the full window capacity (see vad.WithPartialWindow).
	PartialWindow bool

	// ClassifyParallel is the number of classification workers. Values above 1
	// only take effect for classifiers implementing Stateless.
	ClassifyParallel int

	// SinkParallel bounds concurrent sink writes. Values below 1 mean 1.
	SinkParallel int
}

// DefaultConfig returns the reference configuration.
func DefaultConfig() Config {
	return Config{
		SampleRate:       DefaultSampleRate,
		FrameDuration:    DefaultFrameDuration,
		Aggressiveness:   DefaultAggressiveness,
		MinChunkDuration: DefaultMinChunkDuration,
		TriggerRatio:     vad.DefaultTriggerRatio,
		ClassifyParallel: 1,
		SinkParallel:     DefaultSinkParallel,
	}
}

// Validate reports configuration errors wrapped in vad.ErrInvalidConfig.
func (c Config) Validate() error {
	if err := vad.ValidateConfig(c.SampleRate, c.FrameDuration, c.Aggressiveness); err != nil {
		return err
	}
	if c.MinChunkDuration <= 0 {
		return fmt.Errorf("%w: minimum chunk duration %v (must be positive)", vad.ErrInvalidConfig, c.MinChunkDuration)
	}
	if c.TriggerRatio < 0 || c.TriggerRatio > 1 {
		return fmt.Errorf("%w: trigger ratio %v (must be in (0, 1])", vad.ErrInvalidConfig, c.TriggerRatio)
	}
	return nil
}

// FrameSize returns the frame length in bytes.
func (c Config) FrameSize() int {
	return vad.FrameSize(c.SampleRate, c.FrameDuration)
}

func (c Config) ratio() float64 {
	if c.TriggerRatio == 0 {
		return vad.DefaultTriggerRatio
	}
	return c.TriggerRatio
}

// ChunkDuration returns the playback length of n bytes of mono 16-bit PCM.
func ChunkDuration(n, sampleRate int) time.Duration {
	if sampleRate <= 0 {
		return 0
	}
	return time.Duration(n) * time.Second / time.Duration(2*sampleRate)
}

// Accept reports whether a chunk of n bytes is strictly longer than minDuration.
func Accept(n, sampleRate int, minDuration time.Duration) bool {
	return chunkSeconds(n, sampleRate) > minDuration.Seconds()
}

func chunkSeconds(n, sampleRate int) float64 {
	return float64(n) / float64(2*sampleRate)
}
