package instinct

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := NewStore(context.Background(), NewMemoryBackend(), nil)
	require.NoError(t, err)
	return s
}

// fixClock pins the store clock to a fixed instant and returns it.
func fixClock(s *Store, at time.Time) time.Time {
	s.now = func() time.Time { return at }
	return at
}

func TestStore_AddAndGet(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	now := fixClock(s, time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC))

	rec, err := s.Add(ctx, "retry-backoff", "code-pattern", "wrap flaky calls in exponential backoff")
	require.NoError(t, err)
	assert.InDelta(t, InitialConfidence, rec.Confidence, 1e-9)
	assert.Equal(t, now, rec.Created)

	got, err := s.Get(rec.ID)
	require.NoError(t, err)
	assert.Equal(t, rec.Name, got.Name)

	_, err = s.Get("inst-missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestStore_AddDuplicateNameLeavesStoreUnchanged(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	_, err := s.Add(ctx, "retry-backoff", "code-pattern", "first")
	require.NoError(t, err)

	_, err = s.Add(ctx, "retry-backoff", "debugging", "second")
	assert.ErrorIs(t, err, ErrDuplicateName)
	assert.Equal(t, 1, s.Len())

	// The surviving record is the original
	all := s.List(ctx, Filter{})
	require.Len(t, all, 1)
	assert.Equal(t, "first", all[0].Pattern)
}

func TestStore_AddValidation(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	_, err := s.Add(ctx, "", "c", "p")
	assert.ErrorIs(t, err, ErrEmptyName)
	_, err = s.Add(ctx, "n", "", "p")
	assert.ErrorIs(t, err, ErrEmptyCategory)
	_, err = s.Add(ctx, "n", "c", "")
	assert.ErrorIs(t, err, ErrEmptyPattern)
	assert.Equal(t, 0, s.Len())
}

func TestStore_NameUniquenessAcrossSequences(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	names := []string{"a", "b", "c", "a", "b", "d"}
	for _, n := range names {
		_, _ = s.Add(ctx, n, "testing", "p")
	}

	seen := map[string]bool{}
	for _, r := range s.List(ctx, Filter{}) {
		assert.False(t, seen[r.Name], "duplicate name %q", r.Name)
		seen[r.Name] = true
	}
	assert.Equal(t, 4, s.Len())
}

func TestStore_Remove(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	rec, err := s.Add(ctx, "a", "testing", "p")
	require.NoError(t, err)

	require.NoError(t, s.Remove(ctx, rec.ID))
	assert.Equal(t, 0, s.Len())

	err = s.Remove(ctx, rec.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestStore_ReinforcePersists(t *testing.T) {
	backend := NewMemoryBackend()
	ctx := context.Background()

	s, err := NewStore(ctx, backend, nil)
	require.NoError(t, err)
	start := fixClock(s, time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC))

	rec, err := s.Add(ctx, "a", "testing", "p")
	require.NoError(t, err)

	used := start.Add(time.Hour)
	fixClock(s, used)
	updated, err := s.Reinforce(ctx, rec.ID)
	require.NoError(t, err)
	assert.InDelta(t, 0.55, updated.Confidence, 1e-9)
	assert.Equal(t, used, updated.LastUsed)
	assert.Equal(t, 1, updated.UseCount)

	// A fresh store over the same backend sees the persisted update
	reopened, err := NewStore(ctx, backend, nil)
	require.NoError(t, err)
	got, err := reopened.Get(rec.ID)
	require.NoError(t, err)
	assert.InDelta(t, 0.55, got.Confidence, 1e-9)
	assert.Equal(t, 1, got.UseCount)

	_, err = s.Reinforce(ctx, "inst-missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestStore_ListFilters(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	fixClock(s, time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC))

	mustAdd := func(name, category, pattern string) *Instinct {
		rec, err := s.Add(ctx, name, category, pattern)
		require.NoError(t, err)
		return rec
	}

	a := mustAdd("retry-backoff", "code-pattern", "wrap flaky calls in exponential backoff")
	mustAdd("table-tests", "testing", "express variants as table tests")
	mustAdd("log-first", "debugging", "read the logs before guessing")

	// Raise a's confidence so sorting is observable
	for n := 0; n < 4; n++ {
		_, err := s.Reinforce(ctx, a.ID)
		require.NoError(t, err)
	}

	t.Run("category exact match", func(t *testing.T) {
		got := s.List(ctx, Filter{Category: "testing"})
		require.Len(t, got, 1)
		assert.Equal(t, "table-tests", got[0].Name)
	})

	t.Run("search is case-insensitive over name and pattern", func(t *testing.T) {
		byName := s.List(ctx, Filter{Search: "RETRY"})
		require.Len(t, byName, 1)
		assert.Equal(t, "retry-backoff", byName[0].Name)

		byPattern := s.List(ctx, Filter{Search: "logs before"})
		require.Len(t, byPattern, 1)
		assert.Equal(t, "log-first", byPattern[0].Name)
	})

	t.Run("min confidence", func(t *testing.T) {
		got := s.List(ctx, Filter{MinConfidence: 0.60})
		require.Len(t, got, 1)
		assert.Equal(t, "retry-backoff", got[0].Name)
	})

	t.Run("sorted descending by confidence", func(t *testing.T) {
		got := s.List(ctx, Filter{})
		require.Len(t, got, 3)
		assert.Equal(t, "retry-backoff", got[0].Name)
		for n := 1; n < len(got); n++ {
			assert.GreaterOrEqual(t, got[n-1].Confidence, got[n].Confidence)
		}
	})
}

func TestStore_ListProjectsDecayWithoutPersisting(t *testing.T) {
	backend := NewMemoryBackend()
	ctx := context.Background()

	s, err := NewStore(ctx, backend, nil)
	require.NoError(t, err)
	start := fixClock(s, time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC))

	rec, err := s.Add(ctx, "a", "testing", "p")
	require.NoError(t, err)

	// Three weeks later the listing shows the projection...
	fixClock(s, start.Add(21*24*time.Hour))
	got := s.List(ctx, Filter{})
	require.Len(t, got, 1)
	assert.InDelta(t, 0.47, got[0].Confidence, 1e-9)

	// ...but the stored confidence is untouched
	stored, err := s.Get(rec.ID)
	require.NoError(t, err)
	assert.InDelta(t, InitialConfidence, stored.Confidence, 1e-9)

	persisted, err := backend.Load(ctx)
	require.NoError(t, err)
	assert.InDelta(t, InitialConfidence, persisted[0].Confidence, 1e-9)
}
