package audio

import "errors"

// ErrFileNotFound indicates the specified input file does not exist.
var ErrFileNotFound = errors.New("file not found")

// ErrDecodeFailed indicates FFmpeg could not convert the input to raw PCM.
var ErrDecodeFailed = errors.New("audio decoding failed")

// ErrEncodeFailed indicates FFmpeg could not write a chunk file.
var ErrEncodeFailed = errors.New("chunk encoding failed")

// ErrUnsupportedFormat indicates an output format with no known encoder.
var ErrUnsupportedFormat = errors.New("unsupported output format")
