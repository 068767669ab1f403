package formx

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/comalice/formx/internal/logger"
)

// Config is the YAML form configuration.
//
//	debounceDelay: 300ms
//	validateOnChange: true
//	enableReinitialize: false
//	log:
//	  level: DEBUG
//	  format: JSON
type Config struct {
	DebounceDelay      *time.Duration `yaml:"debounceDelay,omitempty"`
	ValidateOnChange   bool           `yaml:"validateOnChange"`
	EnableReinitialize *bool          `yaml:"enableReinitialize,omitempty"`
	Log                LogConfig      `yaml:"log"`
}

// LogConfig selects the zap level and encoder.
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// LoadConfig reads and validates a YAML config file.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	return ParseConfig(data)
}

// ParseConfig decodes and validates a YAML config.
func ParseConfig(data []byte) (Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate rejects negative delays and unknown log settings.
func (c Config) Validate() error {
	if c.DebounceDelay != nil && *c.DebounceDelay < 0 {
		return fmt.Errorf("debounceDelay %s is negative: %w", *c.DebounceDelay, ErrInvalidConfig)
	}
	if _, ok := logger.ParseFormat(c.Log.Format); !ok {
		return fmt.Errorf("unknown log format %q: %w", c.Log.Format, ErrInvalidConfig)
	}
	if !logger.ValidLevel(c.Log.Level) {
		return fmt.Errorf("unknown log level %q: %w", c.Log.Level, ErrInvalidConfig)
	}
	return nil
}
