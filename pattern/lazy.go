package pattern

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"
)

// FrameLoader produces frame i on demand. Implementations must be safe
// for concurrent use.
type FrameLoader func(ctx context.Context, i int) (Frame, error)

// Transform is a per-frame operation queued on a lazy stack.
type Transform func(Frame) Frame

// LazyStack defers loading and transforming frames until Compute. Frames
// are materialized chunk by chunk with bounded parallelism, so stacks
// larger than memory-comfortable can still be streamed through
// per-chunk work.
type LazyStack struct {
	loader     FrameLoader
	transforms []Transform
	n          int
	rows       int
	cols       int
	chunkSize  int
	workers    int
}

// LazyOption configures a LazyStack.
type LazyOption func(*LazyStack)

// WithChunkSize sets how many frames form one unit of work.
func WithChunkSize(size int) LazyOption {
	return func(l *LazyStack) {
		if size > 0 {
			l.chunkSize = size
		}
	}
}

// WithWorkers bounds the number of chunks materialized concurrently.
func WithWorkers(n int) LazyOption {
	return func(l *LazyStack) {
		if n > 0 {
			l.workers = n
		}
	}
}

// NewLazyStack creates a deferred stack of n frames of rows x cols,
// loaded through loader.
func NewLazyStack(loader FrameLoader, n, rows, cols int, opts ...LazyOption) (*LazyStack, error) {
	if loader == nil {
		return nil, fmt.Errorf("frame loader cannot be nil")
	}
	if n <= 0 || rows <= 0 || cols <= 0 {
		return nil, fmt.Errorf("invalid lazy stack shape: %d frames of %dx%d", n, rows, cols)
	}

	l := &LazyStack{
		loader:    loader,
		n:         n,
		rows:      rows,
		cols:      cols,
		chunkSize: 64,
		workers:   4,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l, nil
}

// Len returns the number of frames.
func (l *LazyStack) Len() int { return l.n }

// Rows returns the detector row count.
func (l *LazyStack) Rows() int { return l.rows }

// Cols returns the detector column count.
func (l *LazyStack) Cols() int { return l.cols }

// ZeroMean queues per-frame mean subtraction. The returned stack shares
// the loader; no data is touched until Compute.
func (l *LazyStack) ZeroMean() *LazyStack {
	return l.withTransform(Frame.ZeroMean)
}

// Normalize queues per-frame L2 normalization.
func (l *LazyStack) Normalize() *LazyStack {
	return l.withTransform(Frame.Normalize)
}

// Map queues an arbitrary per-frame transform.
func (l *LazyStack) Map(fn Transform) *LazyStack {
	return l.withTransform(fn)
}

func (l *LazyStack) withTransform(fn Transform) *LazyStack {
	out := *l
	out.transforms = make([]Transform, 0, len(l.transforms)+1)
	out.transforms = append(out.transforms, l.transforms...)
	out.transforms = append(out.transforms, fn)
	return &out
}

// Compute materializes the stack, applying queued transforms in order.
// Chunks are processed in parallel; the first error cancels the rest.
func (l *LazyStack) Compute(ctx context.Context) (*Stack, error) {
	out, err := NewEmptyStack(l.n, l.rows, l.cols)
	if err != nil {
		return nil, err
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(l.workers)

	for start := 0; start < l.n; start += l.chunkSize {
		end := start + l.chunkSize
		if end > l.n {
			end = l.n
		}
		g.Go(func() error {
			return l.computeChunk(gctx, out, start, end)
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

func (l *LazyStack) computeChunk(ctx context.Context, out *Stack, start, end int) error {
	for i := start; i < end; i++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		frame, err := l.loader(ctx, i)
		if err != nil {
			return fmt.Errorf("loading frame %d: %w", i, err)
		}
		if frame.rows != l.rows || frame.cols != l.cols {
			return fmt.Errorf("frame %d has shape %dx%d, want %dx%d",
				i, frame.rows, frame.cols, l.rows, l.cols)
		}

		for _, fn := range l.transforms {
			frame = fn(frame)
		}
		if err := out.SetFrame(i, frame); err != nil {
			return err
		}
	}
	return nil
}
