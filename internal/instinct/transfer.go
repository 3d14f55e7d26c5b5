package instinct

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Export writes the raw collection (no decay projection, no filtering) to
// path as pretty-printed JSON with a trailing newline.
func (s *Store) Export(ctx context.Context, path string) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	data, err := json.MarshalIndent(s.records, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal export: %w", err)
	}
	data = append(data, '\n')

	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write export: %w", err)
	}

	s.logger.Info(ctx, "store exported",
		zap.String("path", path),
		zap.Int("records", len(s.records)))
	return nil
}

// importRecord is the strict import schema. Pointer fields distinguish
// absent values from zero values so defaulting can be surfaced instead of
// silently coerced.
type importRecord struct {
	Name       string     `json:"name"`
	Category   string     `json:"category"`
	Pattern    string     `json:"pattern"`
	Confidence *float64   `json:"confidence"`
	Created    *time.Time `json:"created"`
	LastUsed   *time.Time `json:"lastUsed"`
	UseCount   *int       `json:"useCount"`
	Tags       []string   `json:"tags"`
}

// ImportReport summarizes an import run.
type ImportReport struct {
	// Added is the number of records appended with a fresh local id.
	Added int

	// Skipped is the number of records dropped due to a name collision
	// (when merging is disabled).
	Skipped int

	// Merged is the number of colliding records folded into the local
	// record (when merging is enabled).
	Merged int

	// Defaulted maps record names to the fields that were absent in the
	// import file and filled with defaults.
	Defaulted map[string][]string
}

// Import merges records from the JSON array at path into the store.
//
// Incoming confidence is discounted by ImportDiscount and clamped into
// bounds (InitialConfidence*ImportDiscount when absent). Name collisions
// are skipped by default; with merge enabled the local record's confidence
// becomes a weighted average leaning toward the higher value
// (0.7*max + 0.3*min) and tags are unioned, while id, LastUsed and
// UseCount stay local.
//
// Malformed JSON, a non-array top level, or a record missing name or
// pattern reports an error with no store mutation. The whole import
// persists in a single save.
func (s *Store) Import(ctx context.Context, path string, merge bool) (*ImportReport, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read import file: %w", err)
	}

	var incoming []importRecord
	if err := json.Unmarshal(data, &incoming); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedImport, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	report := &ImportReport{Defaulted: map[string][]string{}}

	next := make([]*Instinct, len(s.records))
	copy(next, s.records)
	byName := make(map[string]int, len(next))
	for n, r := range next {
		byName[r.Name] = n
	}

	for n, in := range incoming {
		if in.Name == "" {
			return nil, fmt.Errorf("%w: record %d missing name", ErrMalformedImport, n)
		}
		if in.Pattern == "" {
			return nil, fmt.Errorf("%w: record %q missing pattern", ErrMalformedImport, in.Name)
		}

		rec, defaulted := materializeImport(in, now)

		if idx, ok := byName[in.Name]; ok {
			if !merge {
				report.Skipped++
				continue
			}
			local := next[idx].Clone()
			local.Confidence = mergeConfidence(local.Confidence, rec.Confidence)
			local.Tags = unionTags(local.Tags, rec.Tags)
			next[idx] = local
			report.Merged++
			continue
		}

		next = append(next, rec)
		byName[rec.Name] = len(next) - 1
		report.Added++
		if len(defaulted) > 0 {
			report.Defaulted[rec.Name] = defaulted
		}
	}

	if err := s.backend.Save(ctx, next); err != nil {
		return nil, err
	}
	s.records = next

	s.logger.Info(ctx, "records imported",
		zap.String("path", path),
		zap.Int("added", report.Added),
		zap.Int("skipped", report.Skipped),
		zap.Int("merged", report.Merged))
	return report, nil
}

// materializeImport builds a local record from an import record, assigning
// a fresh id, discounting confidence, and filling defaults. The returned
// list names the fields that were defaulted.
func materializeImport(in importRecord, now time.Time) (*Instinct, []string) {
	var defaulted []string

	confidence := InitialConfidence
	if in.Confidence != nil {
		confidence = *in.Confidence
	} else {
		defaulted = append(defaulted, "confidence")
	}
	confidence = clampConfidence(confidence * ImportDiscount)

	created := now
	if in.Created != nil {
		created = *in.Created
	} else {
		defaulted = append(defaulted, "created")
	}

	lastUsed := now
	if in.LastUsed != nil {
		lastUsed = *in.LastUsed
	} else {
		defaulted = append(defaulted, "lastUsed")
	}

	useCount := 0
	if in.UseCount != nil && *in.UseCount > 0 {
		useCount = *in.UseCount
	} else if in.UseCount == nil {
		defaulted = append(defaulted, "useCount")
	}

	tags := in.Tags
	if tags == nil {
		tags = []string{}
		defaulted = append(defaulted, "tags")
	}

	// Built directly rather than through New: category may legitimately
	// be empty on import (it clusters into the uncategorized bucket).
	rec := &Instinct{
		ID:         "inst-" + uuid.New().String(),
		Name:       in.Name,
		Category:   in.Category,
		Pattern:    in.Pattern,
		Confidence: confidence,
		Created:    created,
		LastUsed:   lastUsed,
		UseCount:   useCount,
		Tags:       tags,
	}

	return rec, defaulted
}

// mergeConfidence averages two confidences weighted toward the higher one.
func mergeConfidence(a, b float64) float64 {
	hi, lo := a, b
	if b > a {
		hi, lo = b, a
	}
	return clampConfidence(0.7*hi + 0.3*lo)
}

// unionTags appends tags from b that are not already in a, keeping order.
func unionTags(a, b []string) []string {
	seen := make(map[string]bool, len(a))
	out := append([]string(nil), a...)
	for _, t := range a {
		seen[t] = true
	}
	for _, t := range b {
		if !seen[t] {
			seen[t] = true
			out = append(out, t)
		}
	}
	sort.Strings(out[len(a):])
	return out
}
