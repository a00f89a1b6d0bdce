//go:build cgo

package vad

import (
	"fmt"

	webrtcvad "github.com/maxhawkins/go-webrtcvad"
)

// Compile-time interface verification.
var _ Classifier = (*WebRTCClassifier)(nil)

// WebRTCClassifier classifies frames with the WebRTC voice activity detector.
type WebRTCClassifier struct {
	vad *webrtcvad.VAD
}

// NewWebRTCClassifier creates a classifier at the given aggressiveness (0-3).
// Higher levels filter out more non-speech.
func NewWebRTCClassifier(aggressiveness int) (*WebRTCClassifier, error) {
	if aggressiveness < minAggressiveness || aggressiveness > maxAggressiveness {
		return nil, fmt.Errorf("%w: aggressiveness %d (must be %d-%d)", ErrInvalidConfig, aggressiveness, minAggressiveness, maxAggressiveness)
	}
	v, err := webrtcvad.New()
	if err != nil {
		return nil, fmt.Errorf("create webrtc vad: %w", err)
	}
	if err := v.SetMode(aggressiveness); err != nil {
		return nil, fmt.Errorf("%w: set mode %d: %v", ErrInvalidConfig, aggressiveness, err)
	}
	return &WebRTCClassifier{vad: v}, nil
}

// IsSpeech reports whether frame contains speech.
func (c *WebRTCClassifier) IsSpeech(frame []byte, sampleRate int) (bool, error) {
	if !c.vad.ValidRateAndFrameLength(sampleRate, len(frame)/bytesPerSample) {
		return false, fmt.Errorf("%w: %d Hz with %d-byte frame", ErrInvalidConfig, sampleRate, len(frame))
	}
	return c.vad.Process(sampleRate, frame)
}
