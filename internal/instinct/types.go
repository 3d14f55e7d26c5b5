package instinct

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Common errors for instinct store operations.
var (
	ErrNotFound        = errors.New("instinct not found")
	ErrDuplicateName   = errors.New("instinct name already exists")
	ErrInvalidInstinct = errors.New("invalid instinct")
	ErrEmptyName       = errors.New("instinct name cannot be empty")
	ErrEmptyCategory   = errors.New("instinct category cannot be empty")
	ErrEmptyPattern    = errors.New("instinct pattern cannot be empty")
	ErrCorruptStore    = errors.New("store file corrupted")
	ErrMalformedImport = errors.New("malformed import file")
)

// Confidence model constants.
const (
	// InitialConfidence is assigned to newly added instincts.
	InitialConfidence = 0.50

	// MinConfidence is the floor; decay and import discounts never go below it.
	MinConfidence = 0.10

	// MaxConfidence is the ceiling; reinforcement never goes above it.
	MaxConfidence = 0.95

	// ReinforceStep is added to confidence on each successful use.
	ReinforceStep = 0.05

	// WeeklyDecay is subtracted per whole week of disuse.
	WeeklyDecay = 0.01

	// ImportDiscount is applied to confidence of imported records.
	ImportDiscount = 0.8
)

// UncategorizedBucket is the cluster key for instincts without a category.
// Add requires a category, but imported records may lack one.
const UncategorizedBucket = "uncategorized"

// Instinct is a single learned pattern record.
//
// The JSON field names are the on-disk store layout and are shared with
// the export/import format, so they are part of the external contract.
type Instinct struct {
	// ID is the unique identifier ("inst-" + UUID), immutable.
	ID string `json:"id"`

	// Name is a unique human-readable label. Uniqueness is enforced at
	// add time; import skips (or merges) colliding names.
	Name string `json:"name"`

	// Category is a free-text grouping key (e.g. "code-pattern",
	// "debugging"). Used only for clustering; no closed set is enforced.
	Category string `json:"category"`

	// Pattern is the free-text rule or insight.
	Pattern string `json:"pattern"`

	// Confidence is the reliability score in [MinConfidence, MaxConfidence].
	Confidence float64 `json:"confidence"`

	// Created is the creation timestamp, immutable.
	Created time.Time `json:"created"`

	// LastUsed is the timestamp of the most recent reinforcement and the
	// basis for decay projection.
	LastUsed time.Time `json:"lastUsed"`

	// UseCount is incremented once per reinforcement.
	UseCount int `json:"useCount"`

	// Tags are informational labels.
	Tags []string `json:"tags"`
}

// New creates an instinct with a fresh ID and default confidence.
func New(name, category, pattern string, now time.Time) (*Instinct, error) {
	if name == "" {
		return nil, ErrEmptyName
	}
	if category == "" {
		return nil, ErrEmptyCategory
	}
	if pattern == "" {
		return nil, ErrEmptyPattern
	}

	return &Instinct{
		ID:         "inst-" + uuid.New().String(),
		Name:       name,
		Category:   category,
		Pattern:    pattern,
		Confidence: InitialConfidence,
		Created:    now,
		LastUsed:   now,
		UseCount:   0,
		Tags:       []string{},
	}, nil
}

// Validate checks if the instinct has valid fields.
func (i *Instinct) Validate() error {
	if i.ID == "" {
		return errors.New("instinct ID cannot be empty")
	}
	if i.Name == "" {
		return ErrEmptyName
	}
	if i.Pattern == "" {
		return ErrEmptyPattern
	}
	if i.Confidence < MinConfidence || i.Confidence > MaxConfidence {
		return errors.New("confidence out of bounds")
	}
	if i.UseCount < 0 {
		return errors.New("use count cannot be negative")
	}
	return nil
}

// Clone returns a deep copy. Projections operate on clones so the stored
// records are never mutated by read paths.
func (i *Instinct) Clone() *Instinct {
	c := *i
	if i.Tags != nil {
		c.Tags = append([]string(nil), i.Tags...)
	}
	return &c
}

// ClusterKey returns the category, or UncategorizedBucket when empty.
func (i *Instinct) ClusterKey() string {
	if i.Category == "" {
		return UncategorizedBucket
	}
	return i.Category
}

// clampConfidence bounds a confidence value into the valid range.
func clampConfidence(c float64) float64 {
	if c < MinConfidence {
		return MinConfidence
	}
	if c > MaxConfidence {
		return MaxConfidence
	}
	return c
}
