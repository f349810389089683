package config

import (
	"errors"
	"fmt"

	"github.com/dshills/quicklog/internal/config/loader"
)

// Errors returned by configuration operations.
var (
	// ErrSettingNotFound indicates the key is not a QuickLog setting.
	ErrSettingNotFound = errors.New("setting not found")

	// ErrValidationFailed indicates a value is not acceptable for its key.
	ErrValidationFailed = errors.New("validation failed")

	// ErrInvalidFileValues indicates the settings file holds values that
	// were skipped while another key was stored.
	ErrInvalidFileValues = errors.New("settings file holds invalid values")

	// ErrUnsupportedFormat indicates a settings file with an unknown extension.
	ErrUnsupportedFormat = loader.ErrUnsupportedFormat
)

// ParseError is returned when a settings file cannot be parsed.
type ParseError = loader.ParseError

// ValidationError describes a rejected setting value.
type ValidationError struct {
	Key     string
	Value   string
	Message string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s %q: %s", e.Key, e.Value, e.Message)
}

// Unwrap lets errors.Is match ErrValidationFailed.
func (e *ValidationError) Unwrap() error {
	return ErrValidationFailed
}
