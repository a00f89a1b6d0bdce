//go:build !cgo

package vad

// WebRTCClassifier is unavailable without cgo.
type WebRTCClassifier struct{}

// NewWebRTCClassifier always fails when built without cgo.
func NewWebRTCClassifier(aggressiveness int) (*WebRTCClassifier, error) {
	return nil, ErrClassifierUnavailable
}

// IsSpeech always fails when built without cgo.
func (c *WebRTCClassifier) IsSpeech(frame []byte, sampleRate int) (bool, error) {
	return false, ErrClassifierUnavailable
}
