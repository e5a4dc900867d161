package pattern

import "fmt"

// Stack is a navigation stack of n equally shaped frames stored in one
// contiguous row-major buffer.
type Stack struct {
	data []float32
	n    int
	rows int
	cols int
}

// NewStack wraps existing data as a stack of n frames of rows x cols.
func NewStack(data []float32, n, rows, cols int) (*Stack, error) {
	if n <= 0 {
		return nil, fmt.Errorf("stack must contain at least one frame, got %d", n)
	}
	if rows <= 0 || cols <= 0 {
		return nil, fmt.Errorf("frame dimensions must be positive: %dx%d", rows, cols)
	}
	if len(data) != n*rows*cols {
		return nil, fmt.Errorf("stack data length %d does not match %d frames of %dx%d",
			len(data), n, rows, cols)
	}
	return &Stack{data: data, n: n, rows: rows, cols: cols}, nil
}

// NewEmptyStack allocates a zeroed stack.
func NewEmptyStack(n, rows, cols int) (*Stack, error) {
	if n <= 0 || rows <= 0 || cols <= 0 {
		return nil, fmt.Errorf("invalid stack shape: %d frames of %dx%d", n, rows, cols)
	}
	return &Stack{
		data: make([]float32, n*rows*cols),
		n:    n,
		rows: rows,
		cols: cols,
	}, nil
}

// Len returns the number of frames.
func (s *Stack) Len() int { return s.n }

// Rows returns the detector row count.
func (s *Stack) Rows() int { return s.rows }

// Cols returns the detector column count.
func (s *Stack) Cols() int { return s.cols }

// Frame returns frame i as a view into the stack's buffer.
func (s *Stack) Frame(i int) (Frame, error) {
	if i < 0 || i >= s.n {
		return Frame{}, fmt.Errorf("frame index %d out of range [0, %d)", i, s.n)
	}
	size := s.rows * s.cols
	return Frame{data: s.data[i*size : (i+1)*size], rows: s.rows, cols: s.cols}, nil
}

// SetFrame copies a frame into slot i.
func (s *Stack) SetFrame(i int, f Frame) error {
	if i < 0 || i >= s.n {
		return fmt.Errorf("frame index %d out of range [0, %d)", i, s.n)
	}
	if f.rows != s.rows || f.cols != s.cols {
		return fmt.Errorf("frame shape %dx%d does not match stack %dx%d",
			f.rows, f.cols, s.rows, s.cols)
	}
	size := s.rows * s.cols
	copy(s.data[i*size:(i+1)*size], f.data)
	return nil
}

// Flatten returns the stack's contiguous row-major buffer.
func (s *Stack) Flatten() []float32 { return s.data }

// ZeroMean returns a new stack where each frame has its own mean
// subtracted.
func (s *Stack) ZeroMean() *Stack {
	return s.mapFrames(Frame.ZeroMean)
}

// Normalize returns a new stack where each frame is scaled to unit L2
// norm.
func (s *Stack) Normalize() *Stack {
	return s.mapFrames(Frame.Normalize)
}

func (s *Stack) mapFrames(fn func(Frame) Frame) *Stack {
	out := &Stack{
		data: make([]float32, len(s.data)),
		n:    s.n,
		rows: s.rows,
		cols: s.cols,
	}
	size := s.rows * s.cols
	for i := 0; i < s.n; i++ {
		src := Frame{data: s.data[i*size : (i+1)*size], rows: s.rows, cols: s.cols}
		copy(out.data[i*size:(i+1)*size], fn(src).data)
	}
	return out
}
