package backup

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/mesh-intelligence/haras/pkg/types"
)

// Collection is the part of the reactive cache backups read and replace.
type Collection interface {
	Horses() []types.Horse
	ImportData(horses []types.Horse) error
}

// Target stores and fetches backup documents by name.
type Target interface {
	Put(ctx context.Context, name string, data []byte) (location string, err error)
	Get(ctx context.Context, name string) ([]byte, error)
}

// Service runs export and import against a share target.
type Service struct {
	horses Collection
	target Target
	logger *slog.Logger
	now    func() time.Time
}

// Option configures a Service.
type Option func(s *Service)

// WithLogger sets the service logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

// WithClock overrides the clock used to date backup file names.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

// NewService constructs a Service. target may be nil when only
// ImportDocument is used.
func NewService(horses Collection, target Target, opts ...Option) *Service {
	s := &Service{horses: horses, target: target, logger: slog.Default(), now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Export writes the current collection to the target under today's backup
// name and returns where it landed.
func (s *Service) Export(ctx context.Context) (string, error) {
	horses := s.horses.Horses()
	data, err := Export(horses)
	if err != nil {
		return "", err
	}

	name := FileName(s.now())
	location, err := s.target.Put(ctx, name, data)
	if err != nil {
		s.logger.Error("exporting backup", "name", name, "error", err)
		return "", fmt.Errorf("writing backup %s: %w", name, err)
	}
	s.logger.Info("backup exported", "location", location, "horses", len(horses), "bytes", len(data))
	return location, nil
}

// Import fetches the named document from the target and replaces the whole
// collection with it.
func (s *Service) Import(ctx context.Context, name string) (int, error) {
	data, err := s.target.Get(ctx, name)
	if err != nil {
		s.logger.Error("fetching backup", "name", name, "error", err)
		return 0, fmt.Errorf("reading backup %s: %w", name, err)
	}
	return s.ImportDocument(data)
}

// ImportDocument validates data and replaces the collection with it. A
// rejected document leaves the collection and store untouched.
func (s *Service) ImportDocument(data []byte) (int, error) {
	horses, err := ValidateImportDocument(data)
	if err != nil {
		s.logger.Warn("import document rejected", "error", err)
		return 0, err
	}
	if err := s.horses.ImportData(horses); err != nil {
		// Repeated or empty ids past the first element are a fault of the
		// document, even though only the store detects them.
		if errors.Is(err, types.ErrDuplicateKey) || errors.Is(err, types.ErrInvalidID) {
			return 0, fmt.Errorf("%w: %w", types.ErrInvalidSchema, err)
		}
		return 0, err
	}
	return len(horses), nil
}
