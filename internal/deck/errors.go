package deck

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidDefinition marks every deck definition problem: a missing
	// file or directory, a missing or empty key, or an invalid id.
	ErrInvalidDefinition = errors.New("invalid deck definition")
	// ErrBuildInProgress is returned when another process holds the deck's lock.
	ErrBuildInProgress = errors.New("deck build already in progress")
	// ErrMediaCollision is returned when two different assets would become
	// the same media file in one package.
	ErrMediaCollision = errors.New("media file name collision")
)

// ConfigError reports a fatal definition problem. It matches
// ErrInvalidDefinition and the underlying cause with errors.Is.
type ConfigError struct {
	Path  string
	Field string
	Err   error
}

func (e *ConfigError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("deck definition %s: %s: %v", e.Path, e.Field, e.Err)
	}
	return fmt.Sprintf("deck definition %s: %v", e.Path, e.Err)
}

func (e *ConfigError) Unwrap() []error {
	return []error{ErrInvalidDefinition, e.Err}
}

func configErr(path, field string, format string, args ...any) *ConfigError {
	return &ConfigError{Path: path, Field: field, Err: fmt.Errorf(format, args...)}
}
