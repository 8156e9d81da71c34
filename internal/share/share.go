// Package share provides the destinations backup documents are written to
// and read from: a local directory or an S3-compatible bucket.
package share

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

// Driver names a Target implementation.
type Driver string

// Supported drivers.
const (
	DriverFilesystem Driver = "fs"
	DriverS3         Driver = "s3"
)

// Errors returned by targets.
var (
	ErrNotFound      = errors.New("document not found")
	ErrInvalidName   = errors.New("invalid document name")
	ErrUnknownDriver = errors.New("unknown share driver")
)

// Target stores and fetches whole documents by name.
type Target interface {
	Driver() Driver
	// Put writes data under name, replacing any previous document, and
	// returns a human-readable location.
	Put(ctx context.Context, name string, data []byte) (location string, err error)
	// Get returns the document stored under name, or ErrNotFound.
	Get(ctx context.Context, name string) ([]byte, error)
}

// Config selects and parameterizes a Target.
type Config struct {
	Driver Driver
	Dir    string // fs: destination directory
	S3     S3Config
}

// Open constructs the Target named by cfg.Driver. An empty driver means fs.
func Open(ctx context.Context, cfg Config) (Target, error) {
	switch cfg.Driver {
	case "", DriverFilesystem:
		return NewFilesystem(cfg.Dir)
	case DriverS3:
		return NewS3(ctx, cfg.S3)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownDriver, cfg.Driver)
	}
}

// sanitizeName rejects names that would escape the target root.
func sanitizeName(name string) (string, error) {
	if strings.TrimSpace(name) == "" {
		return "", fmt.Errorf("%w: empty name", ErrInvalidName)
	}
	if strings.HasPrefix(name, "/") || filepath.IsAbs(name) {
		return "", fmt.Errorf("%w: %q is absolute", ErrInvalidName, name)
	}
	clean := filepath.ToSlash(filepath.Clean(name))
	if clean == ".." || strings.HasPrefix(clean, "../") {
		return "", fmt.Errorf("%w: %q leaves the target", ErrInvalidName, name)
	}
	return clean, nil
}
