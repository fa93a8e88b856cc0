package splitter

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrPrecondition aborts the whole run before any group is processed
	ErrPrecondition = errors.New("precondition failed")

	// ErrColumnNotFound is returned by ResolveColumn
	ErrColumnNotFound = errors.New("column not found")

	// ErrWriteFailed marks a group whose artifact could not be persisted
	ErrWriteFailed = errors.New("write failed")

	// ErrOutputValidation marks a group whose artifact failed the post-write check
	ErrOutputValidation = errors.New("output validation failed")

	// ErrNameCollision marks a group whose folder name is taken by an earlier group
	ErrNameCollision = errors.New("folder name collision")
)

// PreconditionError reports why a run could not start
type PreconditionError struct {
	Path string
	Err  error
}

func (e *PreconditionError) Error() string {
	return fmt.Sprintf("cannot split %s: %v", e.Path, e.Err)
}

func (e *PreconditionError) Unwrap() []error {
	return []error{ErrPrecondition, e.Err}
}

// ColumnNotFoundError names the requested column and the header that was searched
type ColumnNotFoundError struct {
	Name      string
	Available []string
}

func (e *ColumnNotFoundError) Error() string {
	quoted := make([]string, len(e.Available))
	for i, a := range e.Available {
		quoted[i] = fmt.Sprintf("%q", a)
	}
	return fmt.Sprintf("column %q not found; available columns: %s", e.Name, strings.Join(quoted, ", "))
}

func (e *ColumnNotFoundError) Unwrap() error {
	return ErrColumnNotFound
}

// WriteError carries the destination and the underlying I/O cause
type WriteError struct {
	Key  string
	Path string
	Err  error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("write %s for %q: %v", e.Path, e.Key, e.Err)
}

func (e *WriteError) Unwrap() []error {
	return []error{ErrWriteFailed, e.Err}
}

// ValidationError describes what the reopened artifact got wrong
type ValidationError struct {
	Path   string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validate %s: %s", e.Path, e.Reason)
}

func (e *ValidationError) Unwrap() error {
	return ErrOutputValidation
}

// CollisionError names the earlier key that already owns the folder
type CollisionError struct {
	Key    string
	Folder string
	Owner  string
}

func (e *CollisionError) Error() string {
	return fmt.Sprintf("key %q maps to folder %q already used by %q", e.Key, e.Folder, e.Owner)
}

func (e *CollisionError) Unwrap() error {
	return ErrNameCollision
}
