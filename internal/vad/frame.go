package vad

import (
	"fmt"
	"iter"
	"slices"
)

// bytesPerSample is the width of one mono 16-bit PCM sample.
const bytesPerSample = 2

// paddingFactor sets the ring window length as a multiple of the frame duration.
const paddingFactor = 10

// Supported classifier parameters (WebRTC VAD limits).
var (
	supportedSampleRates    = []int{8000, 16000, 32000, 48000}
	supportedFrameDurations = []int{10, 20, 30}
)

const (
	minAggressiveness = 0
	maxAggressiveness = 3
)

// FrameSize returns the byte length of one frame of mono 16-bit PCM.
func FrameSize(sampleRate, frameMs int) int {
	return bytesPerSample * sampleRate * frameMs / 1000
}

// PaddingFrames returns the ring window capacity for the given frame duration.
// The padding window is ten frames long, so the result is 10 for any valid
// duration; it is computed the long way to keep the relationship explicit.
func PaddingFrames(frameMs int) int {
	if frameMs <= 0 {
		return 0
	}
	paddingMs := frameMs * paddingFactor
	return paddingMs / frameMs
}

// FrameCount returns how many whole frames of size bytes fit in n bytes.
func FrameCount(n, size int) int {
	if size <= 0 {
		return 0
	}
	return n / size
}

// Frames yields consecutive non-overlapping frames of size bytes from pcm.
// A trailing partial frame is dropped. Yielded slices alias pcm.
func Frames(pcm []byte, size int) iter.Seq[[]byte] {
	return func(yield func([]byte) bool) {
		if size <= 0 {
			return
		}
		for off := 0; off+size <= len(pcm); off += size {
			if !yield(pcm[off : off+size : off+size]) {
				return
			}
		}
	}
}

// ValidateConfig checks the classifier parameters. Aggressiveness is only range
// checked; its meaning belongs to the classifier.
func ValidateConfig(sampleRate, frameMs, aggressiveness int) error {
	if !slices.Contains(supportedSampleRates, sampleRate) {
		return fmt.Errorf("%w: sample rate %d Hz (supported: %v)", ErrInvalidConfig, sampleRate, supportedSampleRates)
	}
	if !slices.Contains(supportedFrameDurations, frameMs) {
		return fmt.Errorf("%w: frame duration %d ms (supported: %v)", ErrInvalidConfig, frameMs, supportedFrameDurations)
	}
	if aggressiveness < minAggressiveness || aggressiveness > maxAggressiveness {
		return fmt.Errorf("%w: aggressiveness %d (must be %d-%d)", ErrInvalidConfig, aggressiveness, minAggressiveness, maxAggressiveness)
	}
	return nil
}

// SupportedFrameDurations returns the accepted frame durations in milliseconds.
func SupportedFrameDurations() []int {
	return slices.Clone(supportedFrameDurations)
}
