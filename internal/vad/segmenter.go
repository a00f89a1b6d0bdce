// Package vad splits a stream of classified PCM frames into voiced chunks.
//
// Frames are labelled by a Classifier and fed, in stream order, to a
// Segmenter. The Segmenter keeps a sliding ring window of recent labels and
// only changes state when more than a trigger ratio of the window agrees, so
// brief misclassifications at speech boundaries do not fragment an utterance.
package vad

import (
	"fmt"
	"iter"
)

// DefaultTriggerRatio is the fraction of the ring window that must agree
// before the segmenter changes state, in either direction.
const DefaultTriggerRatio = 0.9

// State is the segmenter's position in the voice onset/offset cycle.
type State int

const (
	// NotTriggered means frames are being inspected for voice onset.
	NotTriggered State = iota
	// Triggered means frames are being accumulated into a voiced chunk.
	Triggered
)

// String returns the string representation of the State.
func (s State) String() string {
	switch s {
	case NotTriggered:
		return "NotTriggered"
	case Triggered:
		return "Triggered"
	default:
		return fmt.Sprintf("State(%d)", s)
	}
}

// Classification is one frame paired with its voiced/unvoiced label.
type Classification struct {
	Frame  []byte
	Speech bool
}

// Segmenter groups classified frames into voiced chunks using hysteresis over
// a sliding ring window. A Segmenter owns its state for a single stream and is
// not safe for concurrent use; create one per stream.
type Segmenter struct {
	ring          *ringWindow
	ratio         float64
	partialWindow bool

	state       State
	voiced      [][]byte
	voicedBytes int
}

// SegmenterOption configures a Segmenter.
type SegmenterOption func(*Segmenter)

// WithPartialWindow compares counts against the number of frames currently
// buffered instead of the window capacity. The default compares against the
// capacity, which means a window that is not yet full can only change state
// once it holds more than ratio*capacity agreeing frames.
func WithPartialWindow() SegmenterOption {
	return func(s *Segmenter) {
		s.partialWindow = true
	}
}

// NewSegmenter creates a Segmenter with a ring window of capacity frames and
// the given trigger ratio in (0, 1].
func NewSegmenter(capacity int, ratio float64, opts ...SegmenterOption) (*Segmenter, error) {
	if capacity < 1 {
		return nil, fmt.Errorf("%w: ring capacity %d (must be >= 1)", ErrInvalidConfig, capacity)
	}
	if !(ratio > 0 && ratio <= 1) {
		return nil, fmt.Errorf("%w: trigger ratio %v (must be in (0, 1])", ErrInvalidConfig, ratio)
	}

	s := &Segmenter{
		ring:  newRingWindow(capacity),
		ratio: ratio,
		state: NotTriggered,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// State returns the current segment state.
func (s *Segmenter) State() State {
	return s.state
}

// Push feeds one classification. When it closes a voiced region the chunk is
// returned with emitted set to true.
func (s *Segmenter) Push(c Classification) (chunk []byte, emitted bool) {
	switch s.state {
	case NotTriggered:
		s.ring.push(c)
		if float64(s.ring.voicedCount()) > s.threshold() {
			for _, f := range s.ring.frames() {
				s.appendVoiced(f)
			}
			s.ring.clear()
			s.state = Triggered
		}
	case Triggered:
		s.appendVoiced(c.Frame)
		s.ring.push(c)
		if float64(s.ring.unvoicedCount()) > s.threshold() {
			chunk = s.takeChunk()
			s.ring.clear()
			s.state = NotTriggered
			return chunk, true
		}
	}
	return nil, false
}

// Flush emits whatever voiced audio is still accumulated, whatever the state,
// and resets the segmenter for a new stream.
func (s *Segmenter) Flush() (chunk []byte, emitted bool) {
	if len(s.voiced) > 0 {
		chunk, emitted = s.takeChunk(), true
	}
	s.ring.clear()
	s.state = NotTriggered
	return chunk, emitted
}

// Segments consumes seq and lazily yields voiced chunks in stream order,
// followed by a final flush at end of input. An error from seq is yielded once
// and ends the sequence without a flush. The returned sequence is single-use.
func (s *Segmenter) Segments(seq iter.Seq2[Classification, error]) iter.Seq2[[]byte, error] {
	used := false
	return func(yield func([]byte, error) bool) {
		if used {
			return
		}
		used = true

		for c, err := range seq {
			if err != nil {
				yield(nil, err)
				return
			}
			if chunk, ok := s.Push(c); ok {
				if !yield(chunk, nil) {
					return
				}
			}
		}
		if chunk, ok := s.Flush(); ok {
			yield(chunk, nil)
		}
	}
}

// threshold returns ratio times the comparison denominator.
func (s *Segmenter) threshold() float64 {
	denom := s.ring.capacity()
	if s.partialWindow {
		denom = s.ring.len()
	}
	return s.ratio * float64(denom)
}

func (s *Segmenter) appendVoiced(frame []byte) {
	s.voiced = append(s.voiced, frame)
	s.voicedBytes += len(frame)
}

// takeChunk concatenates the accumulator into a fresh buffer and empties it.
func (s *Segmenter) takeChunk() []byte {
	chunk := make([]byte, 0, s.voicedBytes)
	for _, f := range s.voiced {
		chunk = append(chunk, f...)
	}
	clear(s.voiced)
	s.voiced = s.voiced[:0]
	s.voicedBytes = 0
	return chunk
}
