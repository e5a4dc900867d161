package indexing

import (
	"fmt"

	"github.com/diffrakt-dev/diffrakt-host-sdk/pattern"
)

// ScoreMatrix holds the similarities of every experimental pattern
// against every simulated one, row-major with one row per experimental
// pattern.
type ScoreMatrix struct {
	scores []float32
	nExpt  int
	nSim   int
}

// NewScoreMatrix allocates a zeroed nExpt x nSim matrix.
func NewScoreMatrix(nExpt, nSim int) (*ScoreMatrix, error) {
	if nExpt <= 0 || nSim <= 0 {
		return nil, fmt.Errorf("score matrix dimensions must be positive: %dx%d", nExpt, nSim)
	}
	return &ScoreMatrix{
		scores: make([]float32, nExpt*nSim),
		nExpt:  nExpt,
		nSim:   nSim,
	}, nil
}

// At returns the similarity of experimental pattern i against simulated
// pattern j.
func (m *ScoreMatrix) At(i, j int) float32 { return m.scores[i*m.nSim+j] }

// Set stores a similarity.
func (m *ScoreMatrix) Set(i, j int, v float32) { m.scores[i*m.nSim+j] = v }

// Row returns the scores of experimental pattern i against all simulated
// patterns, as a view.
func (m *ScoreMatrix) Row(i int) []float32 { return m.scores[i*m.nSim : (i+1)*m.nSim] }

// NExperimental returns the row count.
func (m *ScoreMatrix) NExperimental() int { return m.nExpt }

// NSimulated returns the column count.
func (m *ScoreMatrix) NSimulated() int { return m.nSim }

// MetricFunc computes the similarity matrix between experimental and
// simulated pattern stacks of equal signal shape.
type MetricFunc func(experimental, simulated *pattern.Stack) (*ScoreMatrix, error)

// FlatMetricFunc is a MetricFunc variant operating on pre-flattened
// pattern vectors, one per pattern.
type FlatMetricFunc func(experimental, simulated [][]float32) (*ScoreMatrix, error)

// Metric is a named, sign-aware similarity metric with a declared scope.
type Metric struct {
	name        string
	fn          MetricFunc
	sign        int
	scope       MetricScope
	flat        bool
	compatLower bool
}

// MetricOption configures a Metric.
type MetricOption func(*Metric)

// WithGreaterIsBetter declares whether larger values mean more similar
// patterns. Defaults to true.
func WithGreaterIsBetter(greater bool) MetricOption {
	return func(m *Metric) {
		m.sign = 1
		if !greater {
			m.sign = -1
		}
	}
}

// WithScope declares the metric's input cardinality. Defaults to
// ManyToMany.
func WithScope(scope MetricScope) MetricOption {
	return func(m *Metric) { m.scope = scope }
}

// WithLowerScopeCompat allows inputs of any scope the declared scope
// subsumes.
func WithLowerScopeCompat(enabled bool) MetricOption {
	return func(m *Metric) { m.compatLower = enabled }
}

// NewMetric wraps a metric function for use in dictionary matching.
func NewMetric(name string, fn MetricFunc, opts ...MetricOption) (*Metric, error) {
	if name == "" {
		return nil, fmt.Errorf("metric name cannot be empty")
	}
	if fn == nil {
		return nil, fmt.Errorf("metric %q: function cannot be nil", name)
	}

	m := &Metric{
		name:  name,
		fn:    fn,
		sign:  1,
		scope: ManyToMany,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m, nil
}

// NewFlatMetric wraps a metric function that expects each pattern as a
// flat vector.
func NewFlatMetric(name string, fn FlatMetricFunc, opts ...MetricOption) (*Metric, error) {
	if fn == nil {
		return nil, fmt.Errorf("metric %q: function cannot be nil", name)
	}
	wrapped := func(expt, sim *pattern.Stack) (*ScoreMatrix, error) {
		return fn(flatten(expt), flatten(sim))
	}
	m, err := NewMetric(name, wrapped, opts...)
	if err != nil {
		return nil, err
	}
	m.flat = true
	return m, nil
}

func flatten(s *pattern.Stack) [][]float32 {
	size := s.Rows() * s.Cols()
	buf := s.Flatten()
	out := make([][]float32, s.Len())
	for i := range out {
		out[i] = buf[i*size : (i+1)*size]
	}
	return out
}

// Name returns the metric's registry name.
func (m *Metric) Name() string { return m.name }

// Sign is +1 when greater scores mean more similar patterns, -1 for
// distance-like metrics.
func (m *Metric) Sign() int { return m.sign }

// Scope returns the declared input cardinality.
func (m *Metric) Scope() MetricScope { return m.scope }

// Flat reports whether the underlying function takes flattened vectors.
func (m *Metric) Flat() bool { return m.flat }

// Compatible reports whether the given input sizes fit the metric's
// scope, honoring lower-scope compatibility.
func (m *Metric) Compatible(nExperimental, nSimulated int) bool {
	inferred, err := InferScope(nExperimental, nSimulated)
	if err != nil {
		return false
	}
	if inferred == m.scope {
		return true
	}
	return m.compatLower && m.scope.Subsumes(inferred)
}

// Apply computes the similarity matrix, enforcing shape and scope
// compatibility first.
func (m *Metric) Apply(experimental, simulated *pattern.Stack) (*ScoreMatrix, error) {
	if experimental.Rows() != simulated.Rows() || experimental.Cols() != simulated.Cols() {
		return nil, fmt.Errorf("metric %q: signal shapes differ: %dx%d vs %dx%d",
			m.name, experimental.Rows(), experimental.Cols(), simulated.Rows(), simulated.Cols())
	}
	if !m.Compatible(experimental.Len(), simulated.Len()) {
		return nil, fmt.Errorf("metric %q (scope %s) is incompatible with %d experimental and %d simulated patterns",
			m.name, m.scope, experimental.Len(), simulated.Len())
	}
	return m.fn(experimental, simulated)
}
