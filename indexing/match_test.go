package indexing_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/diffrakt-dev/diffrakt-host-sdk/indexing"
	"github.com/diffrakt-dev/diffrakt-host-sdk/pattern"
)

// dictionary of four distinguishable 2x2 patterns.
func testDictionary(t *testing.T) *pattern.Stack {
	t.Helper()
	return mustStack(t, []float32{
		1, 2, 3, 4,
		4, 3, 2, 1,
		1, 4, 2, 3,
		3, 1, 4, 2,
	}, 4, 2, 2)
}

func Test_Match(t *testing.T) {
	dict := testDictionary(t)

	t.Run("BestMatchIsExactPattern", func(t *testing.T) {
		// Experimental patterns are dictionary entries 2 and 0 under a
		// linear intensity change.
		expt := mustStack(t, []float32{
			12, 18, 14, 16,
			10, 12, 14, 16,
		}, 2, 2, 2)

		res, err := indexing.Match(context.Background(), expt, dict, indexing.WithKeepN(2))
		require.NoError(t, err)
		require.Len(t, res.Indices, 2)

		assert.Equal(t, "zncc", res.MetricName)
		assert.Equal(t, 2, res.Indices[0][0])
		assert.Equal(t, 0, res.Indices[1][0])
		assert.InDelta(t, 1, float64(res.Scores[0][0]), 1e-5)
		assert.InDelta(t, 1, float64(res.Scores[1][0]), 1e-5)
	})

	t.Run("ScoresOrderedBestFirst", func(t *testing.T) {
		expt := mustStack(t, []float32{1, 2, 3, 4}, 1, 2, 2)

		res, err := indexing.Match(context.Background(), expt, dict, indexing.WithKeepN(4))
		require.NoError(t, err)
		require.Len(t, res.Scores[0], 4)

		for i := 1; i < len(res.Scores[0]); i++ {
			assert.GreaterOrEqual(t, res.Scores[0][i-1], res.Scores[0][i])
		}
		assert.Equal(t, 0, res.Indices[0][0])
		// Its reverse is the worst match.
		assert.Equal(t, 1, res.Indices[0][3])
	})

	t.Run("KeepN_CappedToDictionary", func(t *testing.T) {
		expt := mustStack(t, []float32{1, 2, 3, 4}, 1, 2, 2)

		res, err := indexing.Match(context.Background(), expt, dict, indexing.WithKeepN(100))
		require.NoError(t, err)
		assert.Len(t, res.Indices[0], dict.Len())
	})

	t.Run("DistanceMetricRanksAscending", func(t *testing.T) {
		// Sum of squared differences: smaller is better.
		ssd := func(expt, sim *pattern.Stack) (*indexing.ScoreMatrix, error) {
			out, err := indexing.NewScoreMatrix(expt.Len(), sim.Len())
			if err != nil {
				return nil, err
			}
			for i := 0; i < expt.Len(); i++ {
				e, _ := expt.Frame(i)
				for j := 0; j < sim.Len(); j++ {
					s, _ := sim.Frame(j)
					var sum float32
					for k, v := range e.Data() {
						d := v - s.Data()[k]
						sum += d * d
					}
					out.Set(i, j, sum)
				}
			}
			return out, nil
		}
		metric, err := indexing.NewMetric("ssd", ssd,
			indexing.WithGreaterIsBetter(false),
			indexing.WithLowerScopeCompat(true),
		)
		require.NoError(t, err)

		expt := mustStack(t, []float32{1, 2, 3, 4}, 1, 2, 2)

		res, err := indexing.Match(context.Background(), expt, dict,
			indexing.WithMetric(metric), indexing.WithKeepN(2))
		require.NoError(t, err)

		assert.Equal(t, "ssd", res.MetricName)
		assert.Equal(t, 0, res.Indices[0][0])
		assert.InDelta(t, 0, float64(res.Scores[0][0]), 1e-6)
	})

	t.Run("ParallelChunksCoverAllPatterns", func(t *testing.T) {
		n := 37
		data := make([]float32, n*4)
		for i := 0; i < n; i++ {
			copy(data[i*4:], []float32{1, 2, 3, 4})
		}
		expt := mustStack(t, data, n, 2, 2)

		res, err := indexing.Match(context.Background(), expt, dict,
			indexing.WithKeepN(1), indexing.WithMatchChunkSize(5), indexing.WithMatchWorkers(3))
		require.NoError(t, err)

		for i := 0; i < n; i++ {
			require.Len(t, res.Indices[i], 1, "pattern %d", i)
			assert.Equal(t, 0, res.Indices[i][0], "pattern %d", i)
		}
	})

	t.Run("CancelledContext", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		expt := mustStack(t, []float32{1, 2, 3, 4}, 1, 2, 2)
		_, err := indexing.Match(ctx, expt, dict)
		assert.ErrorIs(t, err, context.Canceled)
	})
}
