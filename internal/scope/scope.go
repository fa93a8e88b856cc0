// Package scope releases acquired resources in reverse order of acquisition.
//
// Workbook handles, companion document readers and temporary files are all
// registered on a Scope right after they are opened, and the owner defers
// Close. Every exit path (success, per-group failure, fatal failure) therefore
// runs the same release sequence.
package scope

import (
	"errors"
	"fmt"
	"io"
)

type release struct {
	name string
	fn   func() error
}

// Scope is a LIFO stack of release actions. The zero value is ready to use.
type Scope struct {
	releases []release
	closed   bool
}

// New returns an empty Scope
func New() *Scope {
	return &Scope{}
}

// Defer registers fn to run when the scope closes
func (s *Scope) Defer(name string, fn func() error) {
	s.releases = append(s.releases, release{name: name, fn: fn})
}

// Track registers c.Close and returns c, so acquisition and registration stay on one line
func Track[T io.Closer](s *Scope, name string, c T) T {
	s.Defer(name, c.Close)
	return c
}

// Close runs every pending release action, newest first, and joins their errors.
// A second Close is a no-op.
func (s *Scope) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true

	var errs []error
	for i := len(s.releases) - 1; i >= 0; i-- {
		r := s.releases[i]
		if err := r.fn(); err != nil {
			errs = append(errs, fmt.Errorf("release %s: %w", r.name, err))
		}
	}
	s.releases = nil
	return errors.Join(errs...)
}
