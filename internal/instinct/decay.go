package instinct

import (
	"time"
)

// weekUnused is the decay granularity: confidence drops WeeklyDecay per
// whole week elapsed since LastUsed.
const weekUnused = 7 * 24 * time.Hour

// ProjectedConfidence returns the decay-adjusted confidence of i at the
// given instant.
//
// This is a projection, not a state transition: it is always computed
// from LastUsed, never from a previously decayed value, so repeated calls
// with the same now are idempotent and decay never compounds. Only
// Reinforce advances LastUsed and resets the decay clock.
func ProjectedConfidence(i *Instinct, now time.Time) float64 {
	weeks := now.Sub(i.LastUsed) / weekUnused
	if weeks <= 0 {
		return i.Confidence
	}
	decayed := i.Confidence - float64(weeks)*WeeklyDecay
	if decayed < MinConfidence {
		return MinConfidence
	}
	return decayed
}

// Project returns a clone of i with Confidence replaced by its decay
// projection at now. The original record is untouched.
func Project(i *Instinct, now time.Time) *Instinct {
	c := i.Clone()
	c.Confidence = ProjectedConfidence(i, now)
	return c
}

// Reinforce records a successful use of i at now: confidence rises by
// ReinforceStep (capped at MaxConfidence), LastUsed moves to now, and
// UseCount increments. This is the only operation that resets the decay
// clock.
func Reinforce(i *Instinct, now time.Time) {
	i.Confidence = clampConfidence(i.Confidence + ReinforceStep)
	i.LastUsed = now
	i.UseCount++
}
