// Package pattern holds dense diffraction pattern data: single frames,
// navigation stacks, and a deferred stack variant for data too large to
// materialize eagerly.
package pattern

import (
	"fmt"
	"math"
)

// Frame is a single 2D diffraction pattern with sy rows and sx columns,
// stored row-major.
type Frame struct {
	data []float32
	rows int
	cols int
}

// NewFrame wraps existing data as a frame. The slice is retained, not
// copied; its length must be rows*cols.
func NewFrame(data []float32, rows, cols int) (Frame, error) {
	if rows <= 0 || cols <= 0 {
		return Frame{}, fmt.Errorf("frame dimensions must be positive: %dx%d", rows, cols)
	}
	if len(data) != rows*cols {
		return Frame{}, fmt.Errorf("frame data length %d does not match %dx%d", len(data), rows, cols)
	}
	return Frame{data: data, rows: rows, cols: cols}, nil
}

// Rows returns the detector row count.
func (f Frame) Rows() int { return f.rows }

// Cols returns the detector column count.
func (f Frame) Cols() int { return f.cols }

// At returns the intensity at (row, col).
func (f Frame) At(row, col int) float32 {
	return f.data[row*f.cols+col]
}

// Data returns the underlying row-major slice.
func (f Frame) Data() []float32 { return f.data }

// Clone returns a deep copy.
func (f Frame) Clone() Frame {
	out := make([]float32, len(f.data))
	copy(out, f.data)
	return Frame{data: out, rows: f.rows, cols: f.cols}
}

// Mean returns the mean intensity.
func (f Frame) Mean() float64 {
	var sum float64
	for _, v := range f.data {
		sum += float64(v)
	}
	return sum / float64(len(f.data))
}

// ZeroMean returns a copy with the mean intensity subtracted from every
// pixel.
func (f Frame) ZeroMean() Frame {
	out := f.Clone()
	mean := float32(f.Mean())
	for i := range out.data {
		out.data[i] -= mean
	}
	return out
}

// Norm returns the L2 norm of the frame.
func (f Frame) Norm() float64 {
	var sum float64
	for _, v := range f.data {
		sum += float64(v) * float64(v)
	}
	return math.Sqrt(sum)
}

// Normalize returns a copy scaled to unit L2 norm. A zero frame is
// returned unchanged.
func (f Frame) Normalize() Frame {
	out := f.Clone()
	norm := f.Norm()
	if norm == 0 {
		return out
	}
	inv := float32(1 / norm)
	for i := range out.data {
		out.data[i] *= inv
	}
	return out
}

// Dot returns the dot product of two equally shaped frames.
func (f Frame) Dot(other Frame) (float64, error) {
	if f.rows != other.rows || f.cols != other.cols {
		return 0, fmt.Errorf("frame shapes differ: %dx%d vs %dx%d",
			f.rows, f.cols, other.rows, other.cols)
	}
	var sum float64
	for i, v := range f.data {
		sum += float64(v) * float64(other.data[i])
	}
	return sum, nil
}
