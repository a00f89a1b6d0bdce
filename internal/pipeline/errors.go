package pipeline

import (
	"errors"
	"fmt"
)

// ErrSinkFailed indicates the sink rejected one or more accepted chunks.
// Sink failures do not stop the stream; they are reported in Result.
var ErrSinkFailed = errors.New("chunk sink failed")

// SinkError records the failure to hand one chunk to the sink.
type SinkError struct {
	Index int
	Err   error
}

// Error implements the error interface.
func (e *SinkError) Error() string {
	return fmt.Sprintf("chunk %d: %v", e.Index, e.Err)
}

// Unwrap exposes both ErrSinkFailed and the sink's own error to errors.Is/As.
func (e *SinkError) Unwrap() []error {
	return []error{ErrSinkFailed, e.Err}
}
