// Package types defines the horse and mating record entities, the Store
// contract every persistence backend satisfies, the backend Config and the
// standard error values for the haras record keeper.
package types
