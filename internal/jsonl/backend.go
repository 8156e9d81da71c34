// Package jsonl implements the document horse store: one JSON document per
// horse in a single JSONL file, loaded into an ID-keyed index on Attach.
// Each mutation rewrites the whole file atomically, and the in-memory index
// only changes once the new file is in place.
package jsonl

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/mesh-intelligence/haras/pkg/types"
)

// FileName is the document file created inside Config.DataDir.
const FileName = "horses.jsonl"

// Compile-time interface check.
var _ types.Store = (*Backend)(nil)

// Backend implements types.Store over a JSONL file.
type Backend struct {
	mu       sync.RWMutex
	logger   *slog.Logger
	attached bool
	config   types.Config
	path     string
	order    []string               // IDs in insertion order
	index    map[string]types.Horse // ID -> document
}

// Option configures a Backend.
type Option func(b *Backend)

// WithLogger sets the logger that reports skipped lines on Attach.
func WithLogger(logger *slog.Logger) Option {
	return func(b *Backend) {
		b.logger = logger
	}
}

// NewBackend creates a new JSONL backend instance.
// The backend is not attached; call Attach with a Config to initialize.
func NewBackend(opts ...Option) *Backend {
	b := &Backend{logger: slog.Default()}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Attach loads horses.jsonl from DataDir, creating it empty when missing.
// Lines that are not valid horse documents are skipped with a warning, and
// the next write drops them from the file. When an ID appears twice the
// later line wins.
func (b *Backend) Attach(config types.Config) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.attached {
		return types.ErrAlreadyAttached
	}

	if err := config.Validate(); err != nil {
		return err
	}

	dataDir := config.DataDir
	if dataDir == "" {
		dataDir = "."
	}
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return fmt.Errorf("%w: creating %s: %w", types.ErrStorageUnavailable, dataDir, err)
	}

	path := filepath.Join(dataDir, FileName)
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		if err := writeLines(path, nil); err != nil {
			return fmt.Errorf("%w: initializing %s: %w", types.ErrStorageUnavailable, path, err)
		}
	}

	lines, err := readLines(path)
	if err != nil {
		return fmt.Errorf("%w: %w", types.ErrStorageUnavailable, err)
	}

	order := []string{}
	index := make(map[string]types.Horse, len(lines))
	for _, l := range lines {
		var h types.Horse
		if err := json.Unmarshal(l.data, &h); err != nil {
			b.logger.Warn("skipping horse document", "path", path, "line", l.num, "error", err)
			continue
		}
		if h.ID == "" {
			b.logger.Warn("skipping horse document", "path", path, "line", l.num, "error", types.ErrInvalidID)
			continue
		}
		if _, seen := index[h.ID]; !seen {
			order = append(order, h.ID)
		}
		index[h.ID] = h
	}

	b.config = config
	b.path = path
	b.order = order
	b.index = index
	b.attached = true
	return nil
}

// Detach drops the in-memory index. After Detach, all operations return
// ErrStoreDetached. Detach is idempotent.
func (b *Backend) Detach() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.attached = false
	b.order = nil
	b.index = nil
	return nil
}

// ListAll returns every horse in insertion order.
func (b *Backend) ListAll() ([]types.Horse, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if !b.attached {
		return nil, types.ErrStoreDetached
	}

	horses := make([]types.Horse, 0, len(b.order))
	for _, id := range b.order {
		horses = append(horses, b.index[id].Clone())
	}
	return horses, nil
}

// Insert appends a new document. Returns ErrDuplicateKey if the ID is taken.
func (b *Backend) Insert(horse types.Horse) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.attached {
		return types.ErrStoreDetached
	}
	if horse.ID == "" {
		return types.ErrInvalidID
	}
	if _, ok := b.index[horse.ID]; ok {
		return fmt.Errorf("%w: horse %s", types.ErrDuplicateKey, horse.ID)
	}

	order := append(append([]string{}, b.order...), horse.ID)
	if err := b.persist(order, map[string]types.Horse{horse.ID: horse}); err != nil {
		return err
	}
	b.order = order
	b.index[horse.ID] = horse.Clone()
	return nil
}

// Update replaces the document with the horse's ID.
// Returns ErrNotFound if there is none.
func (b *Backend) Update(horse types.Horse) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.attached {
		return types.ErrStoreDetached
	}
	if horse.ID == "" {
		return types.ErrInvalidID
	}
	if _, ok := b.index[horse.ID]; !ok {
		return fmt.Errorf("%w: %s", types.ErrNotFound, horse.ID)
	}

	if err := b.persist(b.order, map[string]types.Horse{horse.ID: horse}); err != nil {
		return err
	}
	b.index[horse.ID] = horse.Clone()
	return nil
}

// Delete removes the document with the given ID. A missing document is not
// an error and does not touch the file.
func (b *Backend) Delete(id string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.attached {
		return types.ErrStoreDetached
	}
	if id == "" {
		return types.ErrInvalidID
	}
	if _, ok := b.index[id]; !ok {
		return nil
	}

	order := make([]string, 0, len(b.order))
	for _, existing := range b.order {
		if existing != id {
			order = append(order, existing)
		}
	}
	if err := b.persist(order, nil); err != nil {
		return err
	}
	b.order = order
	delete(b.index, id)
	return nil
}

// ReplaceAll writes horses as the complete new file. The sequence is checked
// before anything is written, and the rename makes the swap all-or-nothing.
func (b *Backend) ReplaceAll(horses []types.Horse) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.attached {
		return types.ErrStoreDetached
	}

	order := make([]string, 0, len(horses))
	index := make(map[string]types.Horse, len(horses))
	for i, h := range horses {
		if h.ID == "" {
			return fmt.Errorf("record %d: %w", i, types.ErrInvalidID)
		}
		if _, dup := index[h.ID]; dup {
			return fmt.Errorf("%w: record %d: horse %s", types.ErrDuplicateKey, i, h.ID)
		}
		order = append(order, h.ID)
		index[h.ID] = h.Clone()
	}

	if err := b.persistDocuments(order, index); err != nil {
		return err
	}
	b.order = order
	b.index = index
	return nil
}

// persist writes the file for the given order, taking documents from
// overrides first and from the current index otherwise.
func (b *Backend) persist(order []string, overrides map[string]types.Horse) error {
	docs := make(map[string]types.Horse, len(order))
	for _, id := range order {
		if h, ok := overrides[id]; ok {
			docs[id] = h
			continue
		}
		docs[id] = b.index[id]
	}
	return b.persistDocuments(order, docs)
}

func (b *Backend) persistDocuments(order []string, docs map[string]types.Horse) error {
	lines := make([][]byte, 0, len(order))
	for _, id := range order {
		data, err := json.Marshal(docs[id])
		if err != nil {
			return fmt.Errorf("%w: encoding horse %s: %w", types.ErrStorageWrite, id, err)
		}
		lines = append(lines, data)
	}
	if err := writeLines(b.path, lines); err != nil {
		return fmt.Errorf("%w: %w", types.ErrStorageWrite, err)
	}
	return nil
}
