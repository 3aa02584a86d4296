package module

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNotFound matches every *NotFoundError.
	ErrNotFound = errors.New("module: not found")
	// ErrLoad matches every *LoadError.
	ErrLoad = errors.New("module: load failed")
)

// NotFoundError reports that neither the registry nor the anchor provided a unit.
type NotFoundError struct {
	Name       string
	Candidates []string
}

func (e *NotFoundError) Error() string {
	if len(e.Candidates) == 0 {
		return fmt.Sprintf("module: %s not found", e.Name)
	}
	return fmt.Sprintf("module: %s not found (searched %s)", e.Name, strings.Join(e.Candidates, ", "))
}

func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// LoadError reports that a unit was located but failed while executing.
type LoadError struct {
	Name string
	Path string
	Err  error
}

func (e *LoadError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("module: load %s: %v", e.Name, e.Err)
	}
	return fmt.Sprintf("module: load %s from %s: %v", e.Name, e.Path, e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

func (e *LoadError) Is(target error) bool {
	return target == ErrLoad
}
