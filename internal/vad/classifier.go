package vad

import (
	"errors"
	"fmt"
	"iter"
)

// Classifier labels a single frame of mono 16-bit little-endian PCM as voiced
// or unvoiced. Implementations may keep internal state and are not required to
// be safe for concurrent use.
type Classifier interface {
	IsSpeech(frame []byte, sampleRate int) (bool, error)
}

// ClassifierFunc adapts a function to the Classifier interface.
type ClassifierFunc func(frame []byte, sampleRate int) (bool, error)

// IsSpeech calls f(frame, sampleRate).
func (f ClassifierFunc) IsSpeech(frame []byte, sampleRate int) (bool, error) {
	return f(frame, sampleRate)
}

// Classify lazily classifies each frame of pcm in stream order. The first
// classifier error stops the sequence. It is yielded wrapped in
// ErrClassifierFailed unless the classifier rejected the configuration itself,
// in which case the ErrInvalidConfig error is passed through.
func Classify(c Classifier, pcm []byte, sampleRate, frameMs int) iter.Seq2[Classification, error] {
	size := FrameSize(sampleRate, frameMs)
	return func(yield func(Classification, error) bool) {
		i := 0
		for frame := range Frames(pcm, size) {
			speech, err := c.IsSpeech(frame, sampleRate)
			if err != nil {
				if !errors.Is(err, ErrInvalidConfig) {
					err = fmt.Errorf("%w: frame %d: %v", ErrClassifierFailed, i, err)
				}
				yield(Classification{}, err)
				return
			}
			if !yield(Classification{Frame: frame, Speech: speech}, nil) {
				return
			}
			i++
		}
	}
}
