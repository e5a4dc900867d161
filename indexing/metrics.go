package indexing

import (
	"fmt"

	"github.com/diffrakt-dev/diffrakt-host-sdk/pattern"
)

// zncc computes the zero-mean normalized cross-correlation coefficient
// between every experimental and simulated pattern pair. Scores fall in
// [-1, 1].
func zncc(experimental, simulated *pattern.Stack) (*ScoreMatrix, error) {
	return correlate(experimental.ZeroMean().Normalize(), simulated.ZeroMean().Normalize())
}

// ndp computes the normalized dot product between every pattern pair.
// Scores fall in [0, 1] for non-negative intensities.
func ndp(experimental, simulated *pattern.Stack) (*ScoreMatrix, error) {
	return correlate(experimental.Normalize(), simulated.Normalize())
}

func correlate(experimental, simulated *pattern.Stack) (*ScoreMatrix, error) {
	out, err := NewScoreMatrix(experimental.Len(), simulated.Len())
	if err != nil {
		return nil, err
	}
	for i := 0; i < experimental.Len(); i++ {
		e, err := experimental.Frame(i)
		if err != nil {
			return nil, err
		}
		for j := 0; j < simulated.Len(); j++ {
			s, err := simulated.Frame(j)
			if err != nil {
				return nil, err
			}
			dot, err := e.Dot(s)
			if err != nil {
				return nil, err
			}
			out.Set(i, j, float32(dot))
		}
	}
	return out, nil
}

// defaultMetrics holds the metrics shipped with the host, keyed by name.
var defaultMetrics = map[string]*Metric{}

func init() {
	for _, m := range []struct {
		name string
		fn   MetricFunc
	}{
		{"zncc", zncc},
		{"ndp", ndp},
	} {
		metric, err := NewMetric(m.name, m.fn,
			WithScope(ManyToMany),
			WithLowerScopeCompat(true),
		)
		if err != nil {
			panic(err)
		}
		defaultMetrics[m.name] = metric
	}
}

// GetMetric returns a built-in metric by name ("zncc", "ndp").
func GetMetric(name string) (*Metric, error) {
	m, ok := defaultMetrics[name]
	if !ok {
		return nil, fmt.Errorf("unknown similarity metric %q", name)
	}
	return m, nil
}

// MetricNames lists the built-in metric names.
func MetricNames() []string {
	names := make([]string, 0, len(defaultMetrics))
	for name := range defaultMetrics {
		names = append(names, name)
	}
	return names
}
