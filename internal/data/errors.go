package data

import (
	"errors"
	"fmt"
)

// ErrInvalidContent wraps every structural problem found while loading the catalog.
var ErrInvalidContent = errors.New("invalid game content")

// ValidationError describes one broken content entry.
type ValidationError struct {
	File   string // e.g. "skills.yaml"
	Path   string // e.g. "skills.fireball.scale.attack"
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("%s: %s", e.File, e.Reason)
	}
	return fmt.Sprintf("%s: %s: %s", e.File, e.Path, e.Reason)
}

// Unwrap lets errors.Is(err, ErrInvalidContent) match.
func (e *ValidationError) Unwrap() error {
	return ErrInvalidContent
}

func invalid(file, path, format string, args ...any) error {
	return &ValidationError{File: file, Path: path, Reason: fmt.Sprintf(format, args...)}
}
