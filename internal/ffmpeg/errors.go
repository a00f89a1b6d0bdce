package ffmpeg

import "errors"

// ErrNotFound indicates no usable FFmpeg binary could be located.
var ErrNotFound = errors.New("ffmpeg not found")

// ErrExecFailed indicates FFmpeg ran but exited with an error.
var ErrExecFailed = errors.New("ffmpeg failed")
