package extensibility

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/comalice/formx/internal/core"
	"github.com/comalice/formx/internal/logger"
)

// LoggingValidator wraps a Validator and logs each run.
type LoggingValidator struct {
	inner core.Validator
	log   *zap.SugaredLogger
}

// NewLoggingValidator creates a LoggingValidator wrapping inner.
func NewLoggingValidator(inner core.Validator, log *zap.SugaredLogger) *LoggingValidator {
	return &LoggingValidator{inner: inner, log: log.Named(logger.ComponentValidator)}
}

func (v *LoggingValidator) Validate(ctx context.Context, value any) (any, error) {
	start := time.Now()
	out, err := v.inner.Validate(ctx, value)
	if err != nil {
		v.log.Infow("Validation failed", "duration", time.Since(start), "error", err)
		return out, err
	}
	v.log.Debugw("Validation passed", "duration", time.Since(start), "normalized", out != nil)
	return out, nil
}

// LoggingSubmitter wraps a Submitter and logs each run.
type LoggingSubmitter struct {
	inner core.Submitter
	log   *zap.SugaredLogger
}

// NewLoggingSubmitter creates a LoggingSubmitter wrapping inner.
func NewLoggingSubmitter(inner core.Submitter, log *zap.SugaredLogger) *LoggingSubmitter {
	return &LoggingSubmitter{inner: inner, log: log.Named(logger.ComponentSubmitter)}
}

func (s *LoggingSubmitter) Submit(ctx context.Context, value any) error {
	start := time.Now()
	err := s.inner.Submit(ctx, value)
	if err != nil {
		s.log.Warnw("Submit failed", "duration", time.Since(start), "error", err)
		return err
	}
	s.log.Infow("Submitted", "duration", time.Since(start))
	return nil
}

// LoggingPersister wraps a Persister and logs saves and loads.
type LoggingPersister struct {
	inner core.Persister
	log   *zap.SugaredLogger
}

// NewLoggingPersister creates a LoggingPersister wrapping inner.
func NewLoggingPersister(inner core.Persister, log *zap.SugaredLogger) *LoggingPersister {
	return &LoggingPersister{inner: inner, log: log.Named(logger.ComponentPersister)}
}

func (p *LoggingPersister) Save(ctx context.Context, snapshot core.Snapshot) error {
	if err := p.inner.Save(ctx, snapshot); err != nil {
		p.log.Errorw("Save failed", "formID", snapshot.FormID, "error", err)
		return err
	}
	p.log.Debugw("Saved snapshot", "formID", snapshot.FormID, "status", snapshot.Status)
	return nil
}

func (p *LoggingPersister) Load(ctx context.Context, formID string) (core.Snapshot, error) {
	s, err := p.inner.Load(ctx, formID)
	switch {
	case errors.Is(err, core.ErrNotFound):
		p.log.Debugw("No snapshot", "formID", formID)
	case err != nil:
		p.log.Errorw("Load failed", "formID", formID, "error", err)
	default:
		p.log.Infow("Loaded snapshot", "formID", formID)
	}
	return s, err
}
