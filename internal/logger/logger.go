// Package logger builds the zap loggers used by the form runtime and its adapters.
package logger

import (
	"os"
	"strings"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Format is the log output format.
type Format string

const (
	FormatConsole Format = "CONSOLE"
	FormatJSON    Format = "JSON"
	FormatPretty  Format = "PRETTY"
)

// Component names passed to zap's Named.
const (
	ComponentForm      = "Form"
	ComponentField     = "Field"
	ComponentValidator = "Validator"
	ComponentSubmitter = "Submitter"
	ComponentPersister = "Persister"
	ComponentPublisher = "Publisher"
)

// ParseFormat normalises a format name. The second result is false for unknown names.
func ParseFormat(s string) (Format, bool) {
	f := Format(strings.ToUpper(s))
	switch f {
	case FormatConsole, FormatJSON, FormatPretty:
		return f, true
	case "":
		return FormatConsole, true
	}
	return FormatConsole, false
}

// ParseLevel maps a level name to zap. Unknown names are INFO.
func ParseLevel(s string) zapcore.Level {
	switch strings.ToUpper(s) {
	case "DEBUG":
		return zapcore.DebugLevel
	case "WARN":
		return zapcore.WarnLevel
	case "ERROR":
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}

// ValidLevel reports whether s names a supported level. Empty is valid.
func ValidLevel(s string) bool {
	switch strings.ToUpper(s) {
	case "", "DEBUG", "INFO", "WARN", "ERROR":
		return true
	}
	return false
}

func timeEncoder(t time.Time, enc zapcore.PrimitiveArrayEncoder) {
	enc.AppendString(t.Format("2006-01-02 15:04:05 MST"))
}

// New creates a logger writing to stderr. LOGGING_FORMAT overrides format.
func New(level string, format Format) *zap.Logger {
	if env, ok := ParseFormat(os.Getenv("LOGGING_FORMAT")); ok && os.Getenv("LOGGING_FORMAT") != "" {
		format = env
	}

	encoderConfig := zapcore.EncoderConfig{
		TimeKey:        "time",
		LevelKey:       "level",
		NameKey:        "component",
		CallerKey:      "caller",
		FunctionKey:    zapcore.OmitKey,
		MessageKey:     "msg",
		StacktraceKey:  "stacktrace",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeDuration: zapcore.StringDurationEncoder,
		EncodeCaller:   zapcore.ShortCallerEncoder,
	}

	var encoder zapcore.Encoder
	switch format {
	case FormatJSON:
		encoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
		encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
		encoder = zapcore.NewJSONEncoder(encoderConfig)
	case FormatPretty:
		encoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		encoderConfig.EncodeTime = timeEncoder
		encoderConfig.ConsoleSeparator = " | "
		encoder = zapcore.NewConsoleEncoder(encoderConfig)
	default:
		encoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
		encoderConfig.EncodeTime = timeEncoder
		encoder = zapcore.NewConsoleEncoder(encoderConfig)
	}

	core := zapcore.NewCore(encoder, zapcore.AddSync(os.Stderr), zap.NewAtomicLevelAt(ParseLevel(level)))
	return zap.New(core, zap.AddCaller())
}

// Nop returns a sugared logger that discards everything.
func Nop() *zap.SugaredLogger {
	return zap.NewNop().Sugar()
}
