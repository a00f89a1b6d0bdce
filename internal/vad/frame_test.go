package vad_test

import (
	"errors"
	"testing"

	"github.com/alnah/go-vadsplit/internal/vad"
)

// ---------------------------------------------------------------------------
// FrameSize / PaddingFrames - sizing arithmetic
// ---------------------------------------------------------------------------

func TestFrameSize(t *testing.T) {
	t.Parallel()

	tests := []struct {
		rate, ms int
		want     int
	}{
		{16000, 30, 960},
		{16000, 20, 640},
		{16000, 10, 320},
		{8000, 10, 160},
		{48000, 20, 1920},
		{32000, 30, 1920},
	}
	for _, tt := range tests {
		if got := vad.FrameSize(tt.rate, tt.ms); got != tt.want {
			t.Errorf("FrameSize(%d, %d) = %d, want %d", tt.rate, tt.ms, got, tt.want)
		}
	}
}

func TestPaddingFrames(t *testing.T) {
	t.Parallel()

	for _, ms := range vad.SupportedFrameDurations() {
		if got := vad.PaddingFrames(ms); got != 10 {
			t.Errorf("PaddingFrames(%d) = %d, want 10", ms, got)
		}
	}
	if got := vad.PaddingFrames(0); got != 0 {
		t.Errorf("PaddingFrames(0) = %d, want 0", got)
	}
}

// ---------------------------------------------------------------------------
// Frames - partitioning
// ---------------------------------------------------------------------------

func TestFrames_PartitionExactness(t *testing.T) {
	t.Parallel()

	const size = 960
	for _, length := range []int{0, 1, 959, 960, 961, 1919, 1920, 5000, 96000, 96959} {
		pcm := make([]byte, length)
		for i := range pcm {
			pcm[i] = byte(i % 251)
		}

		var n, covered int
		for f := range vad.Frames(pcm, size) {
			if len(f) != size {
				t.Fatalf("len %d: frame length %d, want %d", length, len(f), size)
			}
			if f[0] != pcm[n*size] {
				t.Fatalf("len %d: frame %d out of order", length, n)
			}
			n++
			covered += len(f)
		}

		if want := length / size; n != want {
			t.Errorf("len %d: %d frames, want %d", length, n, want)
		}
		if n != vad.FrameCount(length, size) {
			t.Errorf("len %d: FrameCount = %d, want %d", length, vad.FrameCount(length, size), n)
		}
		if dropped := length - covered; dropped != length%size {
			t.Errorf("len %d: dropped %d bytes, want %d", length, dropped, length%size)
		}
	}
}

func TestFrames_EarlyStop(t *testing.T) {
	t.Parallel()

	n := 0
	for range vad.Frames(make([]byte, 100), 10) {
		n++
		if n == 3 {
			break
		}
	}
	if n != 3 {
		t.Errorf("iterations = %d, want 3", n)
	}
}

func TestFrames_InvalidSize(t *testing.T) {
	t.Parallel()

	for range vad.Frames(make([]byte, 100), 0) {
		t.Fatal("Frames with size 0 yielded a frame")
	}
	if got := vad.FrameCount(100, 0); got != 0 {
		t.Errorf("FrameCount(100, 0) = %d, want 0", got)
	}
}

func TestFrames_CapacityIsBounded(t *testing.T) {
	t.Parallel()

	pcm := make([]byte, 40)
	for f := range vad.Frames(pcm, 10) {
		if cap(f) != 10 {
			t.Fatalf("cap(frame) = %d, want 10", cap(f))
		}
	}
}

// ---------------------------------------------------------------------------
// ValidateConfig
// ---------------------------------------------------------------------------

func TestValidateConfig(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name           string
		rate, ms, aggr int
		wantErr        bool
	}{
		{"reference configuration", 16000, 30, 1, false},
		{"8 kHz 10 ms", 8000, 10, 0, false},
		{"48 kHz 20 ms max aggressiveness", 48000, 20, 3, false},
		{"unsupported rate", 44100, 30, 1, true},
		{"unsupported frame duration", 16000, 25, 1, true},
		{"zero frame duration", 16000, 0, 1, true},
		{"aggressiveness too high", 16000, 30, 4, true},
		{"negative aggressiveness", 16000, 30, -1, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			err := vad.ValidateConfig(tt.rate, tt.ms, tt.aggr)
			if tt.wantErr {
				if !errors.Is(err, vad.ErrInvalidConfig) {
					t.Errorf("ValidateConfig(%d, %d, %d) = %v, want ErrInvalidConfig", tt.rate, tt.ms, tt.aggr, err)
				}
				return
			}
			if err != nil {
				t.Errorf("ValidateConfig(%d, %d, %d) unexpected error: %v", tt.rate, tt.ms, tt.aggr, err)
			}
		})
	}
}
