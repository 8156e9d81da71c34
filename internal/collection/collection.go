// Package collection keeps the in-memory mirror of the horse store that
// every consumer reads from. Mutations go to the store first; the mirror
// changes only after the store accepted them, so the two never diverge.
package collection

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/mesh-intelligence/haras/pkg/types"
)

// Listener receives a snapshot of the collection after every change.
// Listeners run synchronously and must not mutate the collection.
type Listener func(horses []types.Horse)

// Collection is the reactive horse cache.
type Collection struct {
	store  types.Store
	logger *slog.Logger

	// writeMu serializes store write + mirror update pairs.
	writeMu sync.Mutex

	mu     sync.RWMutex
	horses []types.Horse

	ready     chan struct{}
	readyOnce sync.Once

	listenersMu sync.Mutex
	listeners   map[int]Listener
	nextID      int
}

// Option configures a Collection.
type Option func(c *Collection)

// WithLogger sets the logger used to report failed mutations.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Collection) {
		c.logger = logger
	}
}

// New creates an empty, not yet ready collection over an attached store.
func New(store types.Store, opts ...Option) *Collection {
	c := &Collection{
		store:     store,
		logger:    slog.Default(),
		horses:    []types.Horse{},
		ready:     make(chan struct{}),
		listeners: make(map[int]Listener),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Load replaces the mirror with the store's contents and marks the
// collection ready. Ready never reverts, even if a later Load fails.
func (c *Collection) Load() error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()

	horses, err := c.store.ListAll()
	if err != nil {
		c.logger.Error("loading horses", "error", err)
		return fmt.Errorf("loading horses: %w", err)
	}

	c.set(horses)
	c.readyOnce.Do(func() { close(c.ready) })
	c.logger.Debug("collection loaded", "horses", len(horses))
	c.notify()
	return nil
}

// Ready reports whether the first Load has completed.
func (c *Collection) Ready() bool {
	select {
	case <-c.ready:
		return true
	default:
		return false
	}
}

// WaitReady blocks until the collection is ready or ctx is done.
func (c *Collection) WaitReady(ctx context.Context) error {
	select {
	case <-c.ready:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Horses returns a snapshot of the collection in store order.
func (c *Collection) Horses() []types.Horse {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return types.CloneAll(c.horses)
}

// Horse returns the horse with the given ID.
func (c *Collection) Horse(id string) (types.Horse, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, h := range c.horses {
		if h.ID == id {
			return h.Clone(), true
		}
	}
	return types.Horse{}, false
}

// AddHorse inserts horse into the store and appends it to the mirror.
func (c *Collection) AddHorse(horse types.Horse) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()

	if !c.Ready() {
		return types.ErrNotReady
	}
	horse = horse.Clone()
	if err := c.store.Insert(horse); err != nil {
		c.logger.Error("adding horse", "id", horse.ID, "error", err)
		return fmt.Errorf("adding horse: %w", err)
	}

	c.mu.Lock()
	c.horses = append(c.horses, horse)
	c.mu.Unlock()

	c.notify()
	return nil
}

// UpdateHorse overwrites the stored horse and its mirror entry.
func (c *Collection) UpdateHorse(horse types.Horse) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()

	if !c.Ready() {
		return types.ErrNotReady
	}
	horse = horse.Clone()
	if err := c.store.Update(horse); err != nil {
		c.logger.Error("updating horse", "id", horse.ID, "error", err)
		return fmt.Errorf("updating horse: %w", err)
	}

	c.mu.Lock()
	replaced := false
	for i := range c.horses {
		if c.horses[i].ID == horse.ID {
			c.horses[i] = horse
			replaced = true
			break
		}
	}
	if !replaced {
		// The store has it, so the mirror must too.
		c.horses = append(c.horses, horse)
	}
	c.mu.Unlock()

	c.notify()
	return nil
}

// DeleteHorse removes the horse from the store and the mirror.
func (c *Collection) DeleteHorse(id string) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()

	if !c.Ready() {
		return types.ErrNotReady
	}
	if err := c.store.Delete(id); err != nil {
		c.logger.Error("deleting horse", "id", id, "error", err)
		return fmt.Errorf("deleting horse: %w", err)
	}

	c.mu.Lock()
	kept := c.horses[:0:0]
	for _, h := range c.horses {
		if h.ID != id {
			kept = append(kept, h)
		}
	}
	c.horses = kept
	c.mu.Unlock()

	c.notify()
	return nil
}

// ImportData replaces the whole collection. Either the store and the
// mirror both hold exactly horses, or neither changed.
func (c *Collection) ImportData(horses []types.Horse) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()

	if !c.Ready() {
		return types.ErrNotReady
	}
	incoming := types.CloneAll(horses)
	if err := c.store.ReplaceAll(incoming); err != nil {
		c.logger.Error("importing horses", "count", len(horses), "error", err)
		return fmt.Errorf("importing horses: %w", err)
	}

	c.set(incoming)
	c.logger.Info("horses imported", "count", len(incoming))
	c.notify()
	return nil
}

// Subscribe registers fn and returns a function that removes it.
func (c *Collection) Subscribe(fn Listener) (cancel func()) {
	c.listenersMu.Lock()
	defer c.listenersMu.Unlock()

	id := c.nextID
	c.nextID++
	c.listeners[id] = fn
	return func() {
		c.listenersMu.Lock()
		defer c.listenersMu.Unlock()
		delete(c.listeners, id)
	}
}

func (c *Collection) set(horses []types.Horse) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.horses = types.CloneAll(horses)
}

// notify sends each listener its own snapshot. Callers hold writeMu so
// listeners observe changes in order.
func (c *Collection) notify() {
	c.listenersMu.Lock()
	fns := make([]Listener, 0, len(c.listeners))
	for _, fn := range c.listeners {
		fns = append(fns, fn)
	}
	c.listenersMu.Unlock()

	for _, fn := range fns {
		fn(c.Horses())
	}
}
