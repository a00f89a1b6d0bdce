package vad

// Export internal functions for testing.
// This file is only compiled during tests (suffix _test.go).

// RingWindowTest is a test-visible wrapper around ringWindow.
type RingWindowTest struct {
	r *ringWindow
}

// NewRingWindow exports newRingWindow for testing.
func NewRingWindow(capacity int) *RingWindowTest {
	return &RingWindowTest{r: newRingWindow(capacity)}
}

func (w *RingWindowTest) Push(c Classification) { w.r.push(c) }
func (w *RingWindowTest) Frames() [][]byte      { return w.r.frames() }
func (w *RingWindowTest) Clear()                { w.r.clear() }
func (w *RingWindowTest) Len() int              { return w.r.len() }
func (w *RingWindowTest) Capacity() int         { return w.r.capacity() }
func (w *RingWindowTest) Voiced() int           { return w.r.voicedCount() }
func (w *RingWindowTest) Unvoiced() int         { return w.r.unvoicedCount() }

// RingLen returns the number of frames buffered in the segmenter's window.
func RingLen(s *Segmenter) int {
	return s.ring.len()
}

// AccumulatedFrames returns the number of frames in the voiced accumulator.
func AccumulatedFrames(s *Segmenter) int {
	return len(s.voiced)
}
