package formx

import (
	"time"

	"go.uber.org/zap"

	"github.com/comalice/formx/internal/core"
	"github.com/comalice/formx/internal/logger"
	"github.com/comalice/formx/schedule"
)

// Option configures a Form.
type Option func(*Form)

// WithLogger sets the logger. The default discards everything.
func WithLogger(l *zap.SugaredLogger) Option {
	return func(f *Form) {
		if l != nil {
			f.baseLog = l
		}
	}
}

// WithClock sets the clock driving debounce timers.
func WithClock(c schedule.Clock) Option {
	return func(f *Form) {
		if c != nil {
			f.clock = c
		}
	}
}

// WithValidator sets the external validator. Without one, validation
// always succeeds.
func WithValidator(v core.Validator) Option {
	return func(f *Form) {
		f.validator = v
	}
}

// WithSubmitter sets the external submit handler.
func WithSubmitter(s core.Submitter) Option {
	return func(f *Form) {
		f.submitter = s
	}
}

// WithOnChange registers a callback for every settled value change.
func WithOnChange(fn func(value any)) Option {
	return func(f *Form) {
		f.onChange = fn
	}
}

// WithValidateOnChange runs the validator whenever a change settles.
func WithValidateOnChange(enabled bool) Option {
	return func(f *Form) {
		f.validateOnChange = enabled
	}
}

// WithDebounceDelay sets the default commit window for fields.
// Zero or negative commits immediately.
func WithDebounceDelay(d time.Duration) Option {
	return func(f *Form) {
		if d < 0 {
			d = 0
		}
		f.delay = d
	}
}

// WithReinitialize sets whether fields adopt new initial values.
func WithReinitialize(enabled bool) Option {
	return func(f *Form) {
		f.reinit = enabled
	}
}

// WithObserver sets the metrics observer.
func WithObserver(o core.Observer) Option {
	return func(f *Form) {
		if o != nil {
			f.observer = o
		}
	}
}

// WithPublisher sets the change publisher. It is closed by Form.Close.
func WithPublisher(p core.Publisher) Option {
	return func(f *Form) {
		f.publisher = p
	}
}

// WithPersister sets the snapshot store. Snapshots are saved whenever the
// form settles to IDLE.
func WithPersister(p core.Persister) Option {
	return func(f *Form) {
		f.persister = p
	}
}

// WithID overrides the generated form ID.
func WithID(id string) Option {
	return func(f *Form) {
		if id != "" {
			f.id = id
		}
	}
}

// WithConfig applies a loaded Config. Options after it take precedence.
func WithConfig(cfg Config) Option {
	return func(f *Form) {
		if cfg.DebounceDelay != nil {
			WithDebounceDelay(*cfg.DebounceDelay)(f)
		}
		f.validateOnChange = cfg.ValidateOnChange
		if cfg.EnableReinitialize != nil {
			f.reinit = *cfg.EnableReinitialize
		}
		if cfg.Log.Level != "" || cfg.Log.Format != "" {
			format, _ := logger.ParseFormat(cfg.Log.Format)
			f.baseLog = logger.New(cfg.Log.Level, format).Sugar()
		}
	}
}
