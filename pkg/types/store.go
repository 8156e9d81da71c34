package types

// Store is the local persistence contract shared by every backend. A Store
// is single-user: calls are expected one at a time, and none of them can be
// cancelled once started.
type Store interface {
	// Attach opens (creating if needed) the store described by config.
	// Returns ErrStorageUnavailable if the store cannot be opened and
	// ErrAlreadyAttached if called twice.
	Attach(config Config) error

	// Detach releases the store. Idempotent. Afterwards every operation
	// returns ErrStoreDetached.
	Detach() error

	// ListAll returns every stored horse with its mating history decoded.
	ListAll() ([]Horse, error)

	// Insert persists a new horse. Returns ErrDuplicateKey if the ID is
	// already stored and ErrStorageWrite if the write fails.
	Insert(horse Horse) error

	// Update overwrites every field of the horse with the same ID.
	// Returns ErrNotFound if no such horse is stored.
	Update(horse Horse) error

	// Delete removes the horse with the given ID. Deleting an unknown ID
	// is not an error.
	Delete(id string) error

	// ReplaceAll clears the store and repopulates it from horses as one
	// all-or-nothing operation: on failure the prior contents are kept.
	ReplaceAll(horses []Horse) error
}
