// Package pipeline drives voice segmentation over an in-memory PCM buffer:
// it slices frames, classifies them, runs the segmenter, filters chunks by
// duration and hands survivors to a Sink.
package pipeline

import (
	"context"
	"fmt"
	"iter"
	"slices"
	"sync"
	"time"

	"go.uber.org/multierr"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/alnah/go-vadsplit/internal/vad"
)

// Sink receives accepted chunks. WriteChunk may be called concurrently for
// different indices; index is the chunk's position in emission order.
type Sink interface {
	WriteChunk(ctx context.Context, index int, pcm []byte) error
}

// SinkFunc adapts a function to the Sink interface.
type SinkFunc func(ctx context.Context, index int, pcm []byte) error

// WriteChunk calls f(ctx, index, pcm).
func (f SinkFunc) WriteChunk(ctx context.Context, index int, pcm []byte) error {
	return f(ctx, index, pcm)
}

// Stateless is implemented by classifiers whose answer depends only on the
// frame and which are safe for concurrent use. Only these are run in parallel.
type Stateless interface {
	Stateless() bool
}

// AcceptedChunk describes a chunk that passed the duration filter.
type AcceptedChunk struct {
	Index    int
	Bytes    int
	Duration time.Duration
}

// Result summarizes one run.
type Result struct {
	Frames   int             // whole frames classified
	Emitted  int             // chunks produced by the segmenter
	Accepted []AcceptedChunk // in emission order
	Rejected []int           // indices dropped by the duration filter
	Failed   []int           // accepted indices the sink could not write, ascending

	// SinkErr combines one *SinkError per failed chunk, or is nil.
	SinkErr error
}

// Driver runs the segmentation pipeline. A Driver may be reused for several
// streams but not concurrently; each Run gets a fresh Segmenter.
type Driver struct {
	cfg        Config
	classifier vad.Classifier
	logger     *zap.Logger
}

// DriverOption configures a Driver.
type DriverOption func(*Driver)

// WithLogger sets the structured logger. Default: no-op.
func WithLogger(l *zap.Logger) DriverOption {
	return func(d *Driver) {
		if l != nil {
			d.logger = l
		}
	}
}

// NewDriver validates cfg and returns a Driver using classifier.
func NewDriver(cfg Config, classifier vad.Classifier, opts ...DriverOption) (*Driver, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if classifier == nil {
		return nil, fmt.Errorf("%w: classifier is nil", vad.ErrInvalidConfig)
	}

	d := &Driver{
		cfg:        cfg,
		classifier: classifier,
		logger:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d, nil
}

// Run segments pcm and writes every accepted chunk to sink.
//
// A classifier failure aborts the run and is returned wrapped in
// vad.ErrClassifierFailed after in-flight sink writes finish. Sink failures
// never abort the run; they are collected in Result.Failed and Result.SinkErr.
func (d *Driver) Run(ctx context.Context, pcm []byte, sink Sink) (Result, error) {
	var opts []vad.SegmenterOption
	if d.cfg.PartialWindow {
		opts = append(opts, vad.WithPartialWindow())
	}
	seg, err := vad.NewSegmenter(vad.PaddingFrames(d.cfg.FrameDuration), d.cfg.ratio(), opts...)
	if err != nil {
		return Result{}, err
	}

	res := Result{Frames: vad.FrameCount(len(pcm), d.cfg.FrameSize())}
	d.logger.Debug("segmenting",
		zap.Int("bytes", len(pcm)),
		zap.Int("frames", res.Frames),
		zap.Int("frame_ms", d.cfg.FrameDuration),
		zap.Int("sample_rate", d.cfg.SampleRate))

	var (
		mu      sync.Mutex
		sinkErr error
		failed  []int
	)
	var g errgroup.Group
	g.SetLimit(max(d.cfg.SinkParallel, 1))

	index := 0
	for chunk, err := range seg.Segments(d.classify(pcm)) {
		if err != nil {
			_ = g.Wait() // sink goroutines always return nil
			d.logger.Error("classification aborted", zap.Error(err), zap.Int("chunks_emitted", res.Emitted))
			return res, err
		}

		idx := index
		index++
		res.Emitted++
		dur := ChunkDuration(len(chunk), d.cfg.SampleRate)

		if !Accept(len(chunk), d.cfg.SampleRate, d.cfg.MinChunkDuration) {
			res.Rejected = append(res.Rejected, idx)
			d.logger.Info("chunk rejected",
				zap.Int("index", idx),
				zap.Duration("duration", dur),
				zap.Duration("min", d.cfg.MinChunkDuration))
			continue
		}

		res.Accepted = append(res.Accepted, AcceptedChunk{Index: idx, Bytes: len(chunk), Duration: dur})
		d.logger.Debug("chunk accepted", zap.Int("index", idx), zap.Duration("duration", dur))

		g.Go(func() error {
			if err := sink.WriteChunk(ctx, idx, chunk); err != nil {
				d.logger.Warn("sink failed", zap.Int("index", idx), zap.Error(err))
				mu.Lock()
				sinkErr = multierr.Append(sinkErr, &SinkError{Index: idx, Err: err})
				failed = append(failed, idx)
				mu.Unlock()
			}
			return nil
		})
	}
	_ = g.Wait()

	slices.Sort(failed)
	res.Failed = failed
	res.SinkErr = sinkErr

	d.logger.Info("segmentation complete",
		zap.Int("frames", res.Frames),
		zap.Int("emitted", res.Emitted),
		zap.Int("accepted", len(res.Accepted)),
		zap.Int("rejected", len(res.Rejected)),
		zap.Int("failed", len(res.Failed)))

	return res, nil
}

// classify returns the classification sequence, fanning out across workers
// when the classifier allows it.
func (d *Driver) classify(pcm []byte) iter.Seq2[vad.Classification, error] {
	workers := d.cfg.ClassifyParallel
	if s, ok := d.classifier.(Stateless); !ok || !s.Stateless() || workers <= 1 {
		return vad.Classify(d.classifier, pcm, d.cfg.SampleRate, d.cfg.FrameDuration)
	}
	return d.classifyParallel(pcm, workers)
}

// classifyParallel labels every frame using workers goroutines over
// contiguous blocks, then replays the labels in stream order. Each block stops
// at its own first failure, so every frame before the earliest failure is
// labelled and the replay matches the sequential result.
func (d *Driver) classifyParallel(pcm []byte, workers int) iter.Seq2[vad.Classification, error] {
	size := d.cfg.FrameSize()
	n := vad.FrameCount(len(pcm), size)
	labels := make([]bool, n)
	errs := make([]error, n)

	block := max((n+workers-1)/workers, 1)
	var g errgroup.Group
	for start := 0; start < n; start += block {
		end := min(start+block, n)
		g.Go(func() error {
			for i := start; i < end; i++ {
				frame := pcm[i*size : (i+1)*size : (i+1)*size]
				speech, err := d.classifier.IsSpeech(frame, d.cfg.SampleRate)
				if err != nil {
					errs[i] = err
					return nil
				}
				labels[i] = speech
			}
			return nil
		})
	}
	_ = g.Wait()

	// Replay through vad.Classify so error wrapping matches the sequential path.
	i := 0
	replay := vad.ClassifierFunc(func(frame []byte, _ int) (bool, error) {
		defer func() { i++ }()
		return labels[i], errs[i]
	})
	return vad.Classify(replay, pcm, d.cfg.SampleRate, d.cfg.FrameDuration)
}
