package vad

import "errors"

// ErrInvalidConfig indicates an unsupported sample rate, frame duration,
// aggressiveness level, or segmenter parameter. It is always returned before
// any frame is processed.
var ErrInvalidConfig = errors.New("invalid vad configuration")

// ErrClassifierFailed indicates the frame classifier returned an error.
// The stream is aborted; segmenter state is not resumable afterwards.
var ErrClassifierFailed = errors.New("frame classification failed")

// ErrClassifierUnavailable indicates the WebRTC classifier was not compiled in
// (the binary was built without cgo).
var ErrClassifierUnavailable = errors.New("webrtc classifier unavailable (built without cgo)")
