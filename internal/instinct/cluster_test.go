package instinct

import (
	"context"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// seedConfidences adds one instinct per requested confidence to category,
// reinforcing each up from the initial 0.50 in 0.05 steps.
func seedConfidences(t *testing.T, s *Store, ctx context.Context, category string, confidences []float64) {
	t.Helper()
	for n, want := range confidences {
		rec, err := s.Add(ctx, category+"-"+string(rune('a'+n)), category, "pattern")
		require.NoError(t, err)
		steps := int(math.Round((want - InitialConfidence) / ReinforceStep))
		for k := 0; k < steps; k++ {
			_, err := s.Reinforce(ctx, rec.ID)
			require.NoError(t, err)
		}
	}
}

func TestStore_Evolve_ReadyThresholds(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	fixClock(s, time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC))

	// testing: [0.80, 0.75, 0.65] -> avg 0.7333, size 3 -> READY
	seedConfidences(t, s, ctx, "testing", []float64{0.80, 0.75, 0.65})
	// debugging: [0.95, 0.95] -> high confidence but size 2 -> not ready
	seedConfidences(t, s, ctx, "debugging", []float64{0.95, 0.95})
	// style: [0.50, 0.50, 0.50] -> size 3 but avg below 0.70 -> not ready
	seedConfidences(t, s, ctx, "style", []float64{0.50, 0.50, 0.50})

	report := s.Evolve(ctx)
	require.Len(t, report.Clusters, 3)
	assert.Equal(t, 1, report.ReadyCount)

	byCategory := map[string]Cluster{}
	for _, c := range report.Clusters {
		byCategory[c.Category] = c
	}

	testing_ := byCategory["testing"]
	assert.True(t, testing_.Ready)
	assert.Len(t, testing_.Members, 3)
	assert.InDelta(t, (0.80+0.75+0.65)/3, testing_.AvgConfidence, 1e-9)

	assert.False(t, byCategory["debugging"].Ready)
	assert.False(t, byCategory["style"].Ready)

	// Ready clusters sort first
	assert.Equal(t, "testing", report.Clusters[0].Category)
}

func TestStore_Evolve_ExactBoundary(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	fixClock(s, time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC))

	// Exactly 3 members averaging exactly 0.70 is ready
	seedConfidences(t, s, ctx, "testing", []float64{0.70, 0.70, 0.70})

	report := s.Evolve(ctx)
	require.Len(t, report.Clusters, 1)
	assert.True(t, report.Clusters[0].Ready)
	assert.Equal(t, 1, report.ReadyCount)
}

func TestStore_Evolve_UsesDecayProjection(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	start := fixClock(s, time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC))

	// Three records at 0.70: ready today
	seedConfidences(t, s, ctx, "testing", []float64{0.70, 0.70, 0.70})
	require.Equal(t, 1, s.Evolve(ctx).ReadyCount)

	// Seven weeks of disuse projects 0.70 -> 0.63: no longer ready
	fixClock(s, start.Add(7*7*24*time.Hour))
	report := s.Evolve(ctx)
	assert.Equal(t, 0, report.ReadyCount)
	assert.InDelta(t, 0.63, report.Clusters[0].AvgConfidence, 1e-9)

	// The stored records are untouched: rewinding the clock shows the
	// cluster ready again
	fixClock(s, start)
	assert.Equal(t, 1, s.Evolve(ctx).ReadyCount)
}

func TestStore_Evolve_UncategorizedBucket(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	// Imported records may carry no category; they cluster together
	path := writeImportFile(t, `[
	  {"name": "a", "pattern": "p"},
	  {"name": "b", "pattern": "p"}
	]`)
	_, err := s.Import(ctx, path, false)
	require.NoError(t, err)

	report := s.Evolve(ctx)
	require.Len(t, report.Clusters, 1)
	assert.Equal(t, UncategorizedBucket, report.Clusters[0].Category)
	assert.Len(t, report.Clusters[0].Members, 2)
}

func TestStore_Status(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	fixClock(s, time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC))

	seedConfidences(t, s, ctx, "testing", []float64{0.80, 0.50})
	seedConfidences(t, s, ctx, "debugging", []float64{0.70})

	report := s.Status(ctx)
	assert.Equal(t, 3, report.Total)
	assert.InDelta(t, (0.80+0.50+0.70)/3, report.MeanConfidence, 1e-9)
	assert.Equal(t, 2, report.HighConfidence)
	assert.Equal(t, 0, report.LowConfidence)
	assert.Equal(t, map[string]int{"testing": 2, "debugging": 1}, report.ByCategory)
}

func TestStore_Status_Empty(t *testing.T) {
	s := newTestStore(t)
	report := s.Status(context.Background())
	assert.Equal(t, 0, report.Total)
	assert.Zero(t, report.MeanConfidence)
	assert.Empty(t, report.ByCategory)
}
