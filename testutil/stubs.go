// Package testutil provides controllable async handlers and recorders for
// exercising forms in tests.
package testutil

import (
	"context"
	"sync"

	"github.com/comalice/formx/internal/core"
)

// gate optionally holds calls until released.
type gate struct {
	mu   sync.Mutex
	held chan struct{}
}

func (g *gate) hold() {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.held == nil {
		g.held = make(chan struct{})
	}
}

func (g *gate) release() {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.held != nil {
		close(g.held)
		g.held = nil
	}
}

func (g *gate) wait(ctx context.Context) error {
	g.mu.Lock()
	ch := g.held
	g.mu.Unlock()
	if ch == nil {
		return nil
	}
	select {
	case <-ch:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// StubValidator is a Validator with a programmable outcome. By default it
// accepts every value unchanged.
type StubValidator struct {
	gate
	mu    sync.Mutex
	calls []any
	value any
	err   error
}

var _ core.Validator = (*StubValidator)(nil)

// NewStubValidator returns a validator that accepts everything.
func NewStubValidator() *StubValidator { return &StubValidator{} }

// Normalize makes later calls resolve with v instead of the input.
func (s *StubValidator) Normalize(v any) *StubValidator {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.value, s.err = v, nil
	return s
}

// Fail makes later calls reject with err.
func (s *StubValidator) Fail(err error) *StubValidator {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.value, s.err = nil, err
	return s
}

// Pass makes later calls resolve with their input.
func (s *StubValidator) Pass() *StubValidator {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.value, s.err = nil, nil
	return s
}

// Hold blocks later calls until Release.
func (s *StubValidator) Hold() *StubValidator { s.hold(); return s }

// Release unblocks held calls.
func (s *StubValidator) Release() { s.release() }

// Calls returns the values the validator was called with.
func (s *StubValidator) Calls() []any {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]any(nil), s.calls...)
}

func (s *StubValidator) Validate(ctx context.Context, value any) (any, error) {
	s.mu.Lock()
	s.calls = append(s.calls, value)
	s.mu.Unlock()
	if err := s.wait(ctx); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return nil, s.err
	}
	if s.value != nil {
		return s.value, nil
	}
	return value, nil
}

// StubSubmitter is a Submitter with a programmable outcome.
type StubSubmitter struct {
	gate
	mu    sync.Mutex
	calls []any
	err   error
}

var _ core.Submitter = (*StubSubmitter)(nil)

// NewStubSubmitter returns a submitter that always succeeds.
func NewStubSubmitter() *StubSubmitter { return &StubSubmitter{} }

// Fail makes later calls reject with err; nil restores success.
func (s *StubSubmitter) Fail(err error) *StubSubmitter {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.err = err
	return s
}

// Hold blocks later calls until Release.
func (s *StubSubmitter) Hold() *StubSubmitter { s.hold(); return s }

// Release unblocks held calls.
func (s *StubSubmitter) Release() { s.release() }

// Calls returns the submitted values.
func (s *StubSubmitter) Calls() []any {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]any(nil), s.calls...)
}

func (s *StubSubmitter) Submit(ctx context.Context, value any) error {
	s.mu.Lock()
	s.calls = append(s.calls, value)
	s.mu.Unlock()
	if err := s.wait(ctx); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}
