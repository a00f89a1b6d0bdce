package vad

// ringWindow is a fixed-capacity FIFO of classified frames.
// Pushing into a full window evicts the oldest entry. The number of voiced
// entries is maintained on every push so ratio checks are O(1).
type ringWindow struct {
	entries []Classification
	head    int // index of the oldest entry
	size    int
	voiced  int
}

func newRingWindow(capacity int) *ringWindow {
	return &ringWindow{entries: make([]Classification, capacity)}
}

// push appends c, evicting the oldest entry when the window is full.
func (r *ringWindow) push(c Classification) {
	capacity := len(r.entries)
	if r.size == capacity {
		if r.entries[r.head].Speech {
			r.voiced--
		}
		r.entries[r.head] = c
		r.head = (r.head + 1) % capacity
	} else {
		r.entries[(r.head+r.size)%capacity] = c
		r.size++
	}
	if c.Speech {
		r.voiced++
	}
}

// frames returns the buffered frames oldest first.
func (r *ringWindow) frames() [][]byte {
	out := make([][]byte, 0, r.size)
	for i := range r.size {
		out = append(out, r.entries[(r.head+i)%len(r.entries)].Frame)
	}
	return out
}

func (r *ringWindow) clear() {
	clear(r.entries)
	r.head = 0
	r.size = 0
	r.voiced = 0
}

func (r *ringWindow) len() int      { return r.size }
func (r *ringWindow) capacity() int { return len(r.entries) }
func (r *ringWindow) voicedCount() int {
	return r.voiced
}
func (r *ringWindow) unvoicedCount() int {
	return r.size - r.voiced
}
