package core

import (
	"errors"
	"fmt"
)

var (
	// ErrConfigNotFound is returned when no autopost configuration has been
	// saved yet. The trigger endpoint maps this to 404.
	ErrConfigNotFound = errors.New("autopost configuration not found")

	// ErrNoAdminUser is returned when no user with the elevated role exists
	// to act as the article author.
	ErrNoAdminUser = errors.New("no admin user available to author the article")

	// ErrUnauthorized is returned for a bad or missing trigger secret.
	ErrUnauthorized = errors.New("invalid or missing trigger secret")

	// ErrBackendUnready is returned when the generation backend handle was
	// created without an API key and a call was attempted anyway.
	ErrBackendUnready = errors.New("generation backend is not configured")
)

// ConfigError reports a missing or invalid configuration value. Runs abort
// on it before any external call is made.
type ConfigError struct {
	Field  string
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("invalid configuration (%s): %s", e.Field, e.Reason)
}

// GenerationError wraps a failed or schema-invalid model invocation.
type GenerationError struct {
	Stage string
	Err   error
}

func (e *GenerationError) Error() string {
	return fmt.Sprintf("generation failed in %s stage: %v", e.Stage, e.Err)
}

func (e *GenerationError) Unwrap() error { return e.Err }

// UploadError wraps a failed image hosting call.
type UploadError struct {
	Role string
	Err  error
}

func (e *UploadError) Error() string {
	return fmt.Sprintf("image upload failed for %s image: %v", e.Role, e.Err)
}

func (e *UploadError) Unwrap() error { return e.Err }

// PersistError wraps a failed final write. Nothing durable exists before this
// point, so there is no compensating action.
type PersistError struct {
	Err error
}

func (e *PersistError) Error() string { return fmt.Sprintf("failed to persist article: %v", e.Err) }

func (e *PersistError) Unwrap() error { return e.Err }
