package indexing

import (
	"context"
	"fmt"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/diffrakt-dev/diffrakt-host-sdk/pattern"
)

// MatchResult holds, per experimental pattern, the indices of the best
// matching simulated patterns and their scores, best first.
type MatchResult struct {
	MetricName string
	Indices    [][]int
	Scores     [][]float32
}

type matchConfig struct {
	metric    *Metric
	keepN     int
	chunkSize int
	workers   int
}

// MatchOption configures dictionary matching.
type MatchOption func(*matchConfig)

// WithMetric selects the similarity metric. Defaults to "zncc".
func WithMetric(m *Metric) MatchOption {
	return func(c *matchConfig) { c.metric = m }
}

// WithKeepN keeps the N best matches per experimental pattern. Defaults
// to 50; capped to the dictionary size.
func WithKeepN(n int) MatchOption {
	return func(c *matchConfig) {
		if n > 0 {
			c.keepN = n
		}
	}
}

// WithMatchChunkSize sets how many experimental patterns form one unit
// of work.
func WithMatchChunkSize(size int) MatchOption {
	return func(c *matchConfig) {
		if size > 0 {
			c.chunkSize = size
		}
	}
}

// WithMatchWorkers bounds the number of chunks scored concurrently.
func WithMatchWorkers(n int) MatchOption {
	return func(c *matchConfig) {
		if n > 0 {
			c.workers = n
		}
	}
}

// Match scores every experimental pattern against the simulated
// dictionary and keeps the best matches. Navigation chunks are scored in
// parallel; the first error cancels the rest.
func Match(ctx context.Context, experimental, dictionary *pattern.Stack, opts ...MatchOption) (*MatchResult, error) {
	cfg := &matchConfig{
		keepN:     50,
		chunkSize: 32,
		workers:   4,
	}
	for _, opt := range opts {
		opt(cfg)
	}
	if cfg.metric == nil {
		m, err := GetMetric("zncc")
		if err != nil {
			return nil, err
		}
		cfg.metric = m
	}
	if cfg.keepN > dictionary.Len() {
		cfg.keepN = dictionary.Len()
	}

	n := experimental.Len()
	result := &MatchResult{
		MetricName: cfg.metric.Name(),
		Indices:    make([][]int, n),
		Scores:     make([][]float32, n),
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(cfg.workers)

	for start := 0; start < n; start += cfg.chunkSize {
		end := start + cfg.chunkSize
		if end > n {
			end = n
		}
		g.Go(func() error {
			return matchChunk(gctx, cfg, experimental, dictionary, result, start, end)
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return result, nil
}

func matchChunk(ctx context.Context, cfg *matchConfig, experimental, dictionary *pattern.Stack, result *MatchResult, start, end int) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	chunk, err := sliceStack(experimental, start, end)
	if err != nil {
		return err
	}

	scores, err := cfg.metric.Apply(chunk, dictionary)
	if err != nil {
		return fmt.Errorf("scoring patterns %d..%d: %w", start, end-1, err)
	}

	sign := float32(cfg.metric.Sign())
	for i := 0; i < scores.NExperimental(); i++ {
		row := scores.Row(i)
		order := make([]int, len(row))
		for j := range order {
			order[j] = j
		}
		// Sort by signed score so distance metrics rank ascending.
		sort.SliceStable(order, func(a, b int) bool {
			return sign*row[order[a]] > sign*row[order[b]]
		})

		kept := order[:cfg.keepN]
		indices := make([]int, cfg.keepN)
		best := make([]float32, cfg.keepN)
		for k, j := range kept {
			indices[k] = j
			best[k] = row[j]
		}
		result.Indices[start+i] = indices
		result.Scores[start+i] = best
	}
	return nil
}

// sliceStack views frames [start, end) of s as their own stack.
func sliceStack(s *pattern.Stack, start, end int) (*pattern.Stack, error) {
	size := s.Rows() * s.Cols()
	return pattern.NewStack(s.Flatten()[start*size:end*size], end-start, s.Rows(), s.Cols())
}
