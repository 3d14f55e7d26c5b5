package instinct

import (
	"context"
	"sort"

	"go.uber.org/zap"
)

// Promotion thresholds: a category cluster is a skill candidate once it
// has at least ClusterMinSize members averaging ClusterMinConfidence.
const (
	ClusterMinSize       = 3
	ClusterMinConfidence = 0.70
)

// Status report thresholds.
const (
	highConfidenceFloor = 0.70
	lowConfidenceCeil   = 0.30
)

// Cluster is a group of instincts sharing a category, evaluated as a
// candidate for promotion into a formal skill.
type Cluster struct {
	// Category is the shared grouping key (UncategorizedBucket for
	// records without a category).
	Category string `json:"category"`

	// Members are decay-projected clones of the group's records.
	Members []*Instinct `json:"members"`

	// AvgConfidence is the mean projected confidence over the group.
	AvgConfidence float64 `json:"avgConfidence"`

	// Ready reports whether the group meets the promotion thresholds.
	Ready bool `json:"ready"`
}

// EvolveReport enumerates every cluster and counts those ready for
// promotion. Producing it never mutates the store and never creates a
// skill; skill-file generation is an external action.
type EvolveReport struct {
	Clusters   []Cluster `json:"clusters"`
	ReadyCount int       `json:"readyCount"`
}

// Evolve groups the decay-projected collection by category and evaluates
// each group against the promotion thresholds. Read-only.
func (s *Store) Evolve(ctx context.Context) *EvolveReport {
	s.mu.RLock()
	defer s.mu.RUnlock()

	now := s.now()
	groups := map[string][]*Instinct{}
	for _, r := range s.records {
		key := r.ClusterKey()
		groups[key] = append(groups[key], Project(r, now))
	}

	report := &EvolveReport{Clusters: make([]Cluster, 0, len(groups))}
	for category, members := range groups {
		sum := 0.0
		for _, m := range members {
			sum += m.Confidence
		}
		avg := sum / float64(len(members))

		c := Cluster{
			Category:      category,
			Members:       members,
			AvgConfidence: avg,
			Ready:         len(members) >= ClusterMinSize && avg >= ClusterMinConfidence,
		}
		if c.Ready {
			report.ReadyCount++
		}
		report.Clusters = append(report.Clusters, c)
	}

	// Deterministic report order: ready clusters first, then by category.
	sort.Slice(report.Clusters, func(a, b int) bool {
		ca, cb := report.Clusters[a], report.Clusters[b]
		if ca.Ready != cb.Ready {
			return ca.Ready
		}
		return ca.Category < cb.Category
	})

	s.logger.Debug(ctx, "clusters evaluated",
		zap.Int("clusters", len(report.Clusters)),
		zap.Int("ready", report.ReadyCount))
	return report
}

// StatusReport summarizes the decay-projected collection.
type StatusReport struct {
	Total          int            `json:"total"`
	MeanConfidence float64        `json:"meanConfidence"`
	HighConfidence int            `json:"highConfidence"`
	LowConfidence  int            `json:"lowConfidence"`
	ByCategory     map[string]int `json:"byCategory"`
}

// Status reports totals, mean projected confidence, counts at the high
// (>= 0.70) and low (< 0.30) bands, and a per-category breakdown.
// Read-only.
func (s *Store) Status(ctx context.Context) *StatusReport {
	s.mu.RLock()
	defer s.mu.RUnlock()

	now := s.now()
	report := &StatusReport{ByCategory: map[string]int{}}

	sum := 0.0
	for _, r := range s.records {
		c := ProjectedConfidence(r, now)
		sum += c
		if c >= highConfidenceFloor {
			report.HighConfidence++
		}
		if c < lowConfidenceCeil {
			report.LowConfidence++
		}
		report.ByCategory[r.ClusterKey()]++
	}

	report.Total = len(s.records)
	if report.Total > 0 {
		report.MeanConfidence = sum / float64(report.Total)
	}
	return report
}
