package types

import "errors"

// Store lifecycle errors.
var (
	ErrStoreDetached   = errors.New("store is detached")
	ErrAlreadyAttached = errors.New("store is already attached")
	ErrNotReady        = errors.New("collection has not been loaded")
)

// Storage errors. ErrStorageUnavailable is fatal for the session;
// ErrStorageWrite means a mutation did not reach durable storage.
var (
	ErrStorageUnavailable = errors.New("storage unavailable")
	ErrStorageWrite       = errors.New("storage write failed")
	ErrDuplicateKey       = errors.New("duplicate key")
	ErrNotFound           = errors.New("horse not found")
	ErrInvalidID          = errors.New("invalid horse ID")
)

// Import document errors.
var (
	ErrInvalidJSON   = errors.New("import document is not valid JSON")
	ErrInvalidSchema = errors.New("import document has an invalid structure")
)

// Input errors raised by the add, edit and mating flows.
var (
	ErrInvalidName   = errors.New("name must not be empty")
	ErrInvalidDate   = errors.New("invalid date")
	ErrInvalidGender = errors.New("invalid gender")
	ErrNotFemale     = errors.New("only female horses have a mating history")
	ErrInvalidMale   = errors.New("selected male is invalid")
)

// ErrorCategory groups errors by what a user can do about them.
type ErrorCategory string

// Error categories.
const (
	CategoryUnknown ErrorCategory = ""
	CategoryStorage ErrorCategory = "storage" // the device storage failed
	CategoryFormat  ErrorCategory = "format"  // an import document was rejected
	CategoryInput   ErrorCategory = "input"   // the request itself was wrong
)

// Category classifies err. Unrecognized errors return CategoryUnknown.
func Category(err error) ErrorCategory {
	switch {
	case err == nil:
		return CategoryUnknown
	case errors.Is(err, ErrInvalidJSON), errors.Is(err, ErrInvalidSchema):
		return CategoryFormat
	case errors.Is(err, ErrStorageUnavailable), errors.Is(err, ErrStorageWrite),
		errors.Is(err, ErrStoreDetached), errors.Is(err, ErrDuplicateKey),
		errors.Is(err, ErrNotReady):
		return CategoryStorage
	case errors.Is(err, ErrNotFound), errors.Is(err, ErrInvalidID),
		errors.Is(err, ErrInvalidName), errors.Is(err, ErrInvalidDate),
		errors.Is(err, ErrInvalidGender), errors.Is(err, ErrNotFemale),
		errors.Is(err, ErrInvalidMale):
		return CategoryInput
	default:
		return CategoryUnknown
	}
}
