package instinct

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProjectedConfidence_NoDecayWithinFirstWeek(t *testing.T) {
	now := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	rec, err := New("retry-backoff", "code-pattern", "wrap flaky calls in exponential backoff", now)
	require.NoError(t, err)

	// Six days is less than a whole week: no decay
	assert.InDelta(t, InitialConfidence, ProjectedConfidence(rec, now.Add(6*24*time.Hour)), 1e-9)

	// Time running backwards must not increase confidence either
	assert.InDelta(t, InitialConfidence, ProjectedConfidence(rec, now.Add(-48*time.Hour)), 1e-9)
}

func TestProjectedConfidence_WholeWeeks(t *testing.T) {
	now := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	rec, err := New("retry-backoff", "code-pattern", "wrap flaky calls in exponential backoff", now)
	require.NoError(t, err)

	tests := []struct {
		name    string
		elapsed time.Duration
		want    float64
	}{
		{"one week", 7 * 24 * time.Hour, 0.49},
		{"just under two weeks", 13 * 24 * time.Hour, 0.49},
		{"two weeks", 14 * 24 * time.Hour, 0.48},
		{"ten weeks", 70 * 24 * time.Hour, 0.40},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, ProjectedConfidence(rec, now.Add(tt.elapsed)), 1e-9)
		})
	}
}

func TestProjectedConfidence_IdempotentForFixedNow(t *testing.T) {
	now := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	rec, err := New("retry-backoff", "code-pattern", "wrap flaky calls in exponential backoff", now)
	require.NoError(t, err)

	later := now.Add(21 * 24 * time.Hour)
	first := ProjectedConfidence(rec, later)
	second := ProjectedConfidence(rec, later)

	assert.Equal(t, first, second)
	// The stored record is untouched by projection
	assert.InDelta(t, InitialConfidence, rec.Confidence, 1e-9)
}

func TestProjectedConfidence_NeverCompounds(t *testing.T) {
	// Decay is always computed from LastUsed, so projecting repeatedly
	// with growing now values depends only on elapsed time, not on how
	// many projections happened in between.
	now := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	rec, err := New("retry-backoff", "code-pattern", "wrap flaky calls in exponential backoff", now)
	require.NoError(t, err)

	for week := 1; week <= 5; week++ {
		_ = ProjectedConfidence(rec, now.Add(time.Duration(week)*7*24*time.Hour))
	}
	final := ProjectedConfidence(rec, now.Add(5*7*24*time.Hour))
	assert.InDelta(t, InitialConfidence-5*WeeklyDecay, final, 1e-9)
}

func TestProjectedConfidence_Floor(t *testing.T) {
	now := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	rec, err := New("retry-backoff", "code-pattern", "wrap flaky calls in exponential backoff", now)
	require.NoError(t, err)

	// 200 weeks of disuse would project 0.50 - 2.00; floor holds
	got := ProjectedConfidence(rec, now.Add(200*7*24*time.Hour))
	assert.InDelta(t, MinConfidence, got, 1e-9)
}

func TestReinforce_StepAndClock(t *testing.T) {
	created := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	rec, err := New("retry-backoff", "code-pattern", "wrap flaky calls in exponential backoff", created)
	require.NoError(t, err)

	used := created.Add(48 * time.Hour)
	Reinforce(rec, used)

	assert.InDelta(t, 0.55, rec.Confidence, 1e-9)
	assert.Equal(t, used, rec.LastUsed)
	assert.Equal(t, created, rec.Created)
	assert.Equal(t, 1, rec.UseCount)
}

func TestReinforce_Ceiling(t *testing.T) {
	now := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	rec, err := New("retry-backoff", "code-pattern", "wrap flaky calls in exponential backoff", now)
	require.NoError(t, err)

	for n := 0; n < 20; n++ {
		Reinforce(rec, now.Add(time.Duration(n)*time.Hour))
	}

	assert.InDelta(t, MaxConfidence, rec.Confidence, 1e-9)
	assert.Equal(t, 20, rec.UseCount)
}

func TestConfidenceBounds_MixedSequences(t *testing.T) {
	// For any interleaving of reinforcement and projection the score
	// stays inside [MinConfidence, MaxConfidence].
	now := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	rec, err := New("retry-backoff", "code-pattern", "wrap flaky calls in exponential backoff", now)
	require.NoError(t, err)

	cursor := now
	for n := 0; n < 50; n++ {
		if n%3 == 0 {
			Reinforce(rec, cursor)
		}
		cursor = cursor.Add(time.Duration(n%10) * 24 * time.Hour)
		projected := ProjectedConfidence(rec, cursor)
		assert.GreaterOrEqual(t, projected, MinConfidence)
		assert.LessOrEqual(t, projected, MaxConfidence)
		assert.GreaterOrEqual(t, rec.Confidence, MinConfidence)
		assert.LessOrEqual(t, rec.Confidence, MaxConfidence)
	}
}

func TestDecayScenario_TwoReinforcementsThenThreeWeeks(t *testing.T) {
	// Add -> 0.50/0 uses. Reinforce twice -> 0.60/2 uses.
	// 21 days idle -> 3 whole weeks -> max(0.10, 0.60-0.03) = 0.57.
	start := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	rec, err := New("retry-backoff", "code-pattern", "wrap flaky calls in exponential backoff", start)
	require.NoError(t, err)
	assert.InDelta(t, 0.50, rec.Confidence, 1e-9)
	assert.Equal(t, 0, rec.UseCount)

	Reinforce(rec, start)
	Reinforce(rec, start)
	assert.InDelta(t, 0.60, rec.Confidence, 1e-9)
	assert.Equal(t, 2, rec.UseCount)

	got := ProjectedConfidence(rec, rec.LastUsed.Add(21*24*time.Hour))
	assert.InDelta(t, 0.57, got, 1e-9)
}
