// Package store provides the public constructors for the horse stores.
// Implementations live under internal/; callers only see types.Store.
package store

import (
	"fmt"
	"log/slog"

	"github.com/mesh-intelligence/haras/internal/jsonl"
	"github.com/mesh-intelligence/haras/internal/sqlite"
	"github.com/mesh-intelligence/haras/pkg/types"
)

// NewSQLite creates an unattached SQLite store.
func NewSQLite() types.Store {
	return sqlite.NewBackend()
}

// NewJSONL creates an unattached JSONL document store.
func NewJSONL(opts ...Option) types.Store {
	o := newOptions(opts)
	return jsonl.NewBackend(jsonl.WithLogger(o.logger))
}

// Option configures the stores built by New.
type Option func(o *options)

type options struct {
	logger *slog.Logger
}

// WithLogger sets the logger a store reports recoverable load problems to.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

func newOptions(opts []Option) options {
	o := options{logger: slog.Default()}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// New returns an unattached store for the named backend.
func New(backend string, opts ...Option) (types.Store, error) {
	switch backend {
	case types.BackendSQLite:
		return NewSQLite(), nil
	case types.BackendJSONL:
		return NewJSONL(opts...), nil
	case "":
		return nil, types.ErrBackendEmpty
	default:
		return nil, fmt.Errorf("%w: %q", types.ErrBackendUnknown, backend)
	}
}

// Open creates the store named by config.Backend and attaches it.
//
// Example:
//
//	s, err := store.Open(types.Config{
//	    Backend: types.BackendSQLite,
//	    DataDir: ".haras-db",
//	})
//	if err != nil { ... }
//	defer s.Detach()
func Open(config types.Config) (types.Store, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid store config: %w", err)
	}

	s, err := New(config.Backend)
	if err != nil {
		return nil, err
	}
	if err := s.Attach(config); err != nil {
		return nil, err
	}
	return s, nil
}
