package instinct

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/fyrsmithlabs/instinctd/internal/config"
	"github.com/fyrsmithlabs/instinctd/internal/logging"
)

// Backend is the persistence interface for the instinct collection.
//
// Implementations load and save the full collection; there is no partial
// update. FileBackend is the production implementation, MemoryBackend
// serves tests and embedding.
type Backend interface {
	// Load returns the full collection. A missing store is not an error:
	// it yields an empty collection.
	Load(ctx context.Context) ([]*Instinct, error)

	// Save overwrites the store with the full collection.
	Save(ctx context.Context, records []*Instinct) error
}

// FileBackend persists instincts as a pretty-printed JSON array.
type FileBackend struct {
	path     string
	recovery string
	logger   *logging.Logger
}

// NewFileBackend creates a file backend at path with the given corrupt-file
// recovery policy (config.RecoveryBackup, RecoveryDiscard, or RecoveryFail).
// A nil logger is replaced with a nop logger.
func NewFileBackend(path, recovery string, logger *logging.Logger) (*FileBackend, error) {
	if path == "" {
		return nil, fmt.Errorf("store path cannot be empty")
	}
	switch recovery {
	case config.RecoveryBackup, config.RecoveryDiscard, config.RecoveryFail:
	default:
		return nil, fmt.Errorf("unknown recovery policy %q", recovery)
	}
	if logger == nil {
		logger = logging.FromContext(context.Background())
	}
	return &FileBackend{
		path:     path,
		recovery: recovery,
		logger:   logger.Named("store"),
	}, nil
}

// Path returns the backing file path.
func (b *FileBackend) Path() string {
	return b.path
}

// Load reads the store file. A missing file yields an empty collection.
// A file that fails to parse is handled per the recovery policy.
func (b *FileBackend) Load(ctx context.Context) ([]*Instinct, error) {
	data, err := os.ReadFile(b.path)
	if err != nil {
		if os.IsNotExist(err) {
			return []*Instinct{}, nil
		}
		return nil, fmt.Errorf("failed to read store: %w", err)
	}

	var records []*Instinct
	if err := json.Unmarshal(data, &records); err != nil {
		return b.recover(ctx, err)
	}
	if records == nil {
		records = []*Instinct{}
	}
	return records, nil
}

// recover applies the corrupt-store policy after a parse failure.
func (b *FileBackend) recover(ctx context.Context, cause error) ([]*Instinct, error) {
	switch b.recovery {
	case config.RecoveryFail:
		return nil, fmt.Errorf("%w: %v", ErrCorruptStore, cause)

	case config.RecoveryBackup:
		backup := fmt.Sprintf("%s.corrupt.%d", b.path, time.Now().Unix())
		if err := os.Rename(b.path, backup); err != nil {
			return nil, fmt.Errorf("failed to back up corrupt store: %w", err)
		}
		b.logger.Warn(ctx, "store file corrupt, backed up and starting empty",
			zap.String("path", b.path),
			zap.String("backup", backup),
			zap.NamedError("cause", cause))
		return []*Instinct{}, nil

	default: // config.RecoveryDiscard
		b.logger.Warn(ctx, "store file corrupt, starting empty",
			zap.String("path", b.path),
			zap.NamedError("cause", cause))
		return []*Instinct{}, nil
	}
}

// Save writes the collection atomically (temp file + rename) as pretty
// JSON with a trailing newline. The parent directory is created if needed.
func (b *FileBackend) Save(ctx context.Context, records []*Instinct) error {
	if records == nil {
		records = []*Instinct{}
	}

	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal store: %w", err)
	}
	data = append(data, '\n')

	if err := os.MkdirAll(filepath.Dir(b.path), 0700); err != nil {
		return fmt.Errorf("failed to create store directory: %w", err)
	}

	tmpPath := b.path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0600); err != nil {
		return fmt.Errorf("failed to write store: %w", err)
	}

	if err := os.Rename(tmpPath, b.path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to rename store: %w", err)
	}

	b.logger.Debug(ctx, "store saved",
		zap.String("path", b.path),
		zap.Int("records", len(records)))
	return nil
}

// MemoryBackend is an in-memory Backend for tests and embedding.
type MemoryBackend struct {
	mu      sync.RWMutex
	records []*Instinct
}

// NewMemoryBackend creates an empty in-memory backend.
func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{records: []*Instinct{}}
}

// Load returns a deep copy of the stored collection.
func (b *MemoryBackend) Load(ctx context.Context) ([]*Instinct, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	out := make([]*Instinct, len(b.records))
	for n, r := range b.records {
		out[n] = r.Clone()
	}
	return out, nil
}

// Save replaces the stored collection with a deep copy of records.
func (b *MemoryBackend) Save(ctx context.Context, records []*Instinct) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.records = make([]*Instinct, len(records))
	for n, r := range records {
		b.records[n] = r.Clone()
	}
	return nil
}
