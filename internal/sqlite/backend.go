// Package sqlite implements the relational horse store on an embedded
// SQLite database. Every horse is one row of the horses table; the mating
// history is kept as JSON text in its own column.
package sqlite

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	_ "modernc.org/sqlite"

	"github.com/mesh-intelligence/haras/pkg/types"
)

// DBFileName is the database file created inside Config.DataDir.
const DBFileName = "haras.db"

// Compile-time interface check.
var _ types.Store = (*Backend)(nil)

// Backend implements types.Store with SQLite.
type Backend struct {
	mu       sync.RWMutex
	attached bool
	config   types.Config
	db       *sql.DB
}

// NewBackend creates a new SQLite backend instance.
// The backend is not attached; call Attach with a Config to initialize.
func NewBackend() *Backend {
	return &Backend{}
}

// Attach opens the database in DataDir, creating the directory, the file
// and the horses table when they do not exist yet. Existing rows are kept.
// Returns ErrAlreadyAttached if already attached and ErrStorageUnavailable
// if the database cannot be opened.
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

	dbPath := filepath.Join(dataDir, DBFileName)
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return fmt.Errorf("%w: opening %s: %w", types.ErrStorageUnavailable, dbPath, err)
	}
	// A single connection keeps writes in issue order.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return fmt.Errorf("%w: opening %s: %w", types.ErrStorageUnavailable, dbPath, err)
	}

	if _, err := db.Exec(createHorses); err != nil {
		db.Close()
		return fmt.Errorf("%w: creating schema: %w", types.ErrStorageUnavailable, err)
	}

	b.db = db
	b.config = config
	b.attached = true
	return nil
}

// Detach closes the database. After Detach, all operations return
// ErrStoreDetached. Detach is idempotent.
func (b *Backend) Detach() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.attached {
		return nil
	}

	if b.db != nil {
		if err := b.db.Close(); err != nil {
			return err
		}
		b.db = nil
	}

	b.attached = false
	return nil
}
