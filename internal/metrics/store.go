package metrics

import (
	"time"

	"github.com/mesh-intelligence/haras/pkg/types"
)

// Operation label values.
const (
	OpAttach     = "attach"
	OpListAll    = "list_all"
	OpInsert     = "insert"
	OpUpdate     = "update"
	OpDelete     = "delete"
	OpReplaceAll = "replace_all"
)

// Compile-time interface check.
var _ types.Store = (*Store)(nil)

// Store wraps a types.Store and records every call.
type Store struct {
	next    types.Store
	metrics *Metrics
}

// InstrumentStore returns next wrapped with m.
func InstrumentStore(next types.Store, m *Metrics) *Store {
	return &Store{next: next, metrics: m}
}

func (s *Store) Attach(config types.Config) error {
	start := time.Now()
	err := s.next.Attach(config)
	s.metrics.Observe(OpAttach, start, err)
	return err
}

func (s *Store) Detach() error {
	return s.next.Detach()
}

func (s *Store) ListAll() ([]types.Horse, error) {
	start := time.Now()
	horses, err := s.next.ListAll()
	s.metrics.Observe(OpListAll, start, err)
	if err == nil {
		s.metrics.Horses.Set(float64(len(horses)))
	}
	return horses, err
}

func (s *Store) Insert(horse types.Horse) error {
	start := time.Now()
	err := s.next.Insert(horse)
	s.metrics.Observe(OpInsert, start, err)
	if err == nil {
		s.metrics.Horses.Inc()
	}
	return err
}

func (s *Store) Update(horse types.Horse) error {
	start := time.Now()
	err := s.next.Update(horse)
	s.metrics.Observe(OpUpdate, start, err)
	return err
}

// Delete does not touch the horses gauge: deleting an unknown ID succeeds
// without removing anything.
func (s *Store) Delete(id string) error {
	start := time.Now()
	err := s.next.Delete(id)
	s.metrics.Observe(OpDelete, start, err)
	return err
}

func (s *Store) ReplaceAll(horses []types.Horse) error {
	start := time.Now()
	err := s.next.ReplaceAll(horses)
	s.metrics.Observe(OpReplaceAll, start, err)
	if err == nil {
		s.metrics.Horses.Set(float64(len(horses)))
	}
	return err
}
