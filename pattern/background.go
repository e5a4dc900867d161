package pattern

import "fmt"

// SubtractBackground returns a copy with a fixed detector background
// subtracted pixel by pixel. The background is typically the mean frame
// of an acquisition, removing the static detector response.
func (f Frame) SubtractBackground(bg Frame) (Frame, error) {
	if f.rows != bg.rows || f.cols != bg.cols {
		return Frame{}, fmt.Errorf("background shape %dx%d does not match frame %dx%d",
			bg.rows, bg.cols, f.rows, f.cols)
	}
	out := f.Clone()
	for i := range out.data {
		out.data[i] -= bg.data[i]
	}
	return out, nil
}

// DynamicBackground returns the frame's local mean computed over a
// square window clamped at the detector edges. This estimates the
// slowly varying intensity gradient of a single pattern.
func (f Frame) DynamicBackground(window int) Frame {
	if window < 1 {
		window = 1
	}
	half := window / 2

	out := make([]float32, len(f.data))
	for r := 0; r < f.rows; r++ {
		r0 := max(0, r-half)
		r1 := min(f.rows-1, r+half)
		for c := 0; c < f.cols; c++ {
			c0 := max(0, c-half)
			c1 := min(f.cols-1, c+half)

			var sum float64
			for i := r0; i <= r1; i++ {
				row := f.data[i*f.cols:]
				for j := c0; j <= c1; j++ {
					sum += float64(row[j])
				}
			}
			count := (r1 - r0 + 1) * (c1 - c0 + 1)
			out[r*f.cols+c] = float32(sum / float64(count))
		}
	}
	return Frame{data: out, rows: f.rows, cols: f.cols}
}

// SubtractDynamicBackground returns a copy with the local mean removed,
// flattening intensity gradients so only the diffraction features
// remain.
func (f Frame) SubtractDynamicBackground(window int) Frame {
	bg := f.DynamicBackground(window)
	out := f.Clone()
	for i := range out.data {
		out.data[i] -= bg.data[i]
	}
	return out
}

// RemoveStaticBackground returns a new stack with bg subtracted from
// every frame.
func (s *Stack) RemoveStaticBackground(bg Frame) (*Stack, error) {
	if bg.rows != s.rows || bg.cols != s.cols {
		return nil, fmt.Errorf("background shape %dx%d does not match stack %dx%d",
			bg.rows, bg.cols, s.rows, s.cols)
	}
	return s.mapFrames(func(f Frame) Frame {
		out, _ := f.SubtractBackground(bg)
		return out
	}), nil
}

// RemoveDynamicBackground returns a new stack with each frame's local
// mean removed.
func (s *Stack) RemoveDynamicBackground(window int) *Stack {
	return s.mapFrames(func(f Frame) Frame {
		return f.SubtractDynamicBackground(window)
	})
}

// RemoveStaticBackground queues static background subtraction. The
// background shape is checked now; the data is only touched at Compute.
func (l *LazyStack) RemoveStaticBackground(bg Frame) (*LazyStack, error) {
	if bg.rows != l.rows || bg.cols != l.cols {
		return nil, fmt.Errorf("background shape %dx%d does not match stack %dx%d",
			bg.rows, bg.cols, l.rows, l.cols)
	}
	return l.withTransform(func(f Frame) Frame {
		out, _ := f.SubtractBackground(bg)
		return out
	}), nil
}

// RemoveDynamicBackground queues per-frame local mean removal.
func (l *LazyStack) RemoveDynamicBackground(window int) *LazyStack {
	return l.withTransform(func(f Frame) Frame {
		return f.SubtractDynamicBackground(window)
	})
}
