// Package breeding implements the user-facing flows on top of the horse
// collection: registering and editing horses, recording matings and
// listing the herd.
package breeding

import (
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/google/uuid"

	"github.com/mesh-intelligence/haras/pkg/types"
)

// Collection is the part of the reactive cache the flows need.
type Collection interface {
	Horses() []types.Horse
	Horse(id string) (types.Horse, bool)
	AddHorse(horse types.Horse) error
	UpdateHorse(horse types.Horse) error
	DeleteHorse(id string) error
}

// Service runs the breeding flows.
type Service struct {
	horses Collection
	logger *slog.Logger
	newID  func() (uuid.UUID, error)
}

// Option configures a Service.
type Option func(s *Service)

// WithLogger sets the service logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

// WithIDGenerator replaces UUID v7 generation, e.g. for deterministic tests.
func WithIDGenerator(gen func() (uuid.UUID, error)) Option {
	return func(s *Service) {
		s.newID = gen
	}
}

// New constructs a Service.
func New(horses Collection, opts ...Option) *Service {
	s := &Service{horses: horses, logger: slog.Default(), newID: uuid.NewV7}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Add registers a new horse with a fresh ID and an empty mating history.
func (s *Service) Add(in types.HorseInput) (types.Horse, error) {
	in = in.Normalize()
	if err := in.Validate(); err != nil {
		return types.Horse{}, err
	}

	id, err := s.newID()
	if err != nil {
		return types.Horse{}, fmt.Errorf("generating horse ID: %w", err)
	}
	horse := in.Apply(types.Horse{ID: id.String(), MatingHistory: []types.MatingRecord{}})

	if err := s.horses.AddHorse(horse); err != nil {
		return types.Horse{}, err
	}
	s.logger.Info("horse added", "id", horse.ID, "name", horse.Name)
	return horse, nil
}

// Edit replaces every editable field of the horse. The ID and mating
// history are kept.
func (s *Service) Edit(id string, in types.HorseInput) (types.Horse, error) {
	existing, err := s.Get(id)
	if err != nil {
		return types.Horse{}, err
	}

	in = in.Normalize()
	if err := in.Validate(); err != nil {
		return types.Horse{}, err
	}

	updated := in.Apply(existing)
	if err := s.horses.UpdateHorse(updated); err != nil {
		return types.Horse{}, err
	}
	s.logger.Info("horse updated", "id", id)
	return updated, nil
}

// AddMating appends a mating record to the female's history. The male's
// current name is copied into the record and never refreshed afterwards.
func (s *Service) AddMating(femaleID, maleID string, date types.Date) (types.MatingRecord, error) {
	female, ok := s.horses.Horse(femaleID)
	if !ok {
		return types.MatingRecord{}, fmt.Errorf("%w: %s", types.ErrNotFound, femaleID)
	}
	if !female.IsFemale() {
		return types.MatingRecord{}, fmt.Errorf("%w: %s", types.ErrNotFemale, female.Name)
	}

	male, ok := s.horses.Horse(maleID)
	if !ok || male.Gender != types.GenderMale {
		return types.MatingRecord{}, fmt.Errorf("%w: %s", types.ErrInvalidMale, maleID)
	}
	if date.IsZero() {
		return types.MatingRecord{}, types.ErrInvalidDate
	}

	id, err := s.newID()
	if err != nil {
		return types.MatingRecord{}, fmt.Errorf("generating mating ID: %w", err)
	}
	rec := types.MatingRecord{
		ID:       id.String(),
		MaleID:   male.ID,
		MaleName: male.Name,
		Date:     date,
	}

	if err := s.horses.UpdateHorse(female.WithMating(rec)); err != nil {
		return types.MatingRecord{}, err
	}
	s.logger.Info("mating recorded", "female", female.ID, "male", male.ID, "date", date.String())
	return rec, nil
}

// Delete removes a horse. References to it in other horses' lineage or
// mating histories are left as they are.
func (s *Service) Delete(id string) error {
	if err := s.horses.DeleteHorse(id); err != nil {
		return err
	}
	s.logger.Info("horse deleted", "id", id)
	return nil
}

// Get returns one horse or ErrNotFound.
func (s *Service) Get(id string) (types.Horse, error) {
	h, ok := s.horses.Horse(id)
	if !ok {
		return types.Horse{}, fmt.Errorf("%w: %s", types.ErrNotFound, id)
	}
	return h, nil
}

// List returns the herd sorted by name, ignoring case.
func (s *Service) List() []types.Horse {
	horses := s.horses.Horses()
	sort.SliceStable(horses, func(i, j int) bool {
		return strings.ToLower(horses[i].Name) < strings.ToLower(horses[j].Name)
	})
	return horses
}

// Males returns the male horses in list order, the candidates for a mating.
func (s *Service) Males() []types.Horse {
	var males []types.Horse
	for _, h := range s.List() {
		if h.Gender == types.GenderMale {
			males = append(males, h)
		}
	}
	return males
}
