package instinct

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/fyrsmithlabs/instinctd/internal/logging"
)

// Store owns the read/modify/write lifecycle of the instinct collection.
//
// The collection is loaded once at construction and every mutating
// operation persists the full collection through the backend. Mutations
// are prepared on a working copy and committed to memory only after a
// successful save, so a failed operation leaves the store untouched.
type Store struct {
	mu      sync.RWMutex
	backend Backend
	logger  *logging.Logger
	records []*Instinct
	now     func() time.Time
}

// NewStore creates a store over the given backend and loads the current
// collection. A nil logger is replaced with a nop logger.
func NewStore(ctx context.Context, backend Backend, logger *logging.Logger) (*Store, error) {
	if logger == nil {
		logger = logging.FromContext(context.Background())
	}

	records, err := backend.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load store: %w", err)
	}

	return &Store{
		backend: backend,
		logger:  logger.Named("instinct"),
		records: records,
		now:     time.Now,
	}, nil
}

// Len returns the number of stored instincts.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}

// Get returns a clone of the instinct with the given id.
func (s *Store) Get(id string) (*Instinct, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, r := range s.records {
		if r.ID == id {
			return r.Clone(), nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
}

// Add creates a new instinct and persists the collection.
//
// All three string arguments must be non-empty and name must not collide
// with an existing record. Tags are optional and informational. On any
// failure nothing is written.
func (s *Store) Add(ctx context.Context, name, category, pattern string, tags ...string) (*Instinct, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, r := range s.records {
		if r.Name == name {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateName, name)
		}
	}

	rec, err := New(name, category, pattern, s.now())
	if err != nil {
		return nil, err
	}
	rec.Tags = append(rec.Tags, tags...)

	next := append(append([]*Instinct{}, s.records...), rec)
	if err := s.backend.Save(ctx, next); err != nil {
		return nil, err
	}
	s.records = next

	s.logger.Info(ctx, "instinct added",
		zap.String("id", rec.ID),
		zap.String("name", rec.Name),
		zap.String("category", rec.Category))
	return rec.Clone(), nil
}

// Remove deletes the instinct with the given id and persists the reduced
// collection. Unknown ids report ErrNotFound with no change.
func (s *Store) Remove(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := -1
	for n, r := range s.records {
		if r.ID == id {
			idx = n
			break
		}
	}
	if idx < 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}

	next := append(append([]*Instinct{}, s.records[:idx]...), s.records[idx+1:]...)
	if err := s.backend.Save(ctx, next); err != nil {
		return err
	}
	s.records = next

	s.logger.Info(ctx, "instinct removed", zap.String("id", id))
	return nil
}

// Reinforce records a successful use of the instinct with the given id:
// confidence rises by ReinforceStep, LastUsed resets, UseCount increments.
// The updated record is persisted and returned.
func (s *Store) Reinforce(ctx context.Context, id string) (*Instinct, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := -1
	for n, r := range s.records {
		if r.ID == id {
			idx = n
			break
		}
	}
	if idx < 0 {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}

	next := make([]*Instinct, len(s.records))
	copy(next, s.records)
	rec := next[idx].Clone()
	Reinforce(rec, s.now())
	next[idx] = rec

	if err := s.backend.Save(ctx, next); err != nil {
		return nil, err
	}
	s.records = next

	s.logger.Debug(ctx, "instinct reinforced",
		zap.String("id", rec.ID),
		zap.Float64("confidence", rec.Confidence),
		zap.Int("use_count", rec.UseCount))
	return rec.Clone(), nil
}

// Filter narrows List results. Zero values disable each criterion.
type Filter struct {
	// Category requires an exact category match.
	Category string

	// Search is a case-insensitive substring matched against name or
	// pattern.
	Search string

	// MinConfidence keeps records whose projected confidence is at least
	// this value. Stored confidence is always >= MinConfidence, so the
	// zero value filters nothing.
	MinConfidence float64
}

// List returns decay-projected clones of the collection, filtered and
// sorted descending by projected confidence. The projection is never
// persisted.
func (s *Store) List(ctx context.Context, f Filter) []*Instinct {
	s.mu.RLock()
	defer s.mu.RUnlock()

	now := s.now()
	search := strings.ToLower(f.Search)

	out := make([]*Instinct, 0, len(s.records))
	for _, r := range s.records {
		p := Project(r, now)
		if f.Category != "" && p.Category != f.Category {
			continue
		}
		if search != "" &&
			!strings.Contains(strings.ToLower(p.Name), search) &&
			!strings.Contains(strings.ToLower(p.Pattern), search) {
			continue
		}
		if p.Confidence < f.MinConfidence {
			continue
		}
		out = append(out, p)
	}

	sort.SliceStable(out, func(a, b int) bool {
		if out[a].Confidence != out[b].Confidence {
			return out[a].Confidence > out[b].Confidence
		}
		return out[a].Name < out[b].Name
	})
	return out
}
