// Package wclog wraps zerolog for structured logging across the working-copy
// metadata core. Every component gets its own child logger via Component,
// carrying a "component" field, plus WithWCRoot/WithPath helpers for the
// fields callers care about most when grepping logs.
package wclog

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Base is the process-wide base logger. Components derive child loggers
// from it rather than constructing their own zerolog.Logger.
var Base zerolog.Logger

// Level is a logging verbosity level.
type Level string

const (
	DebugLevel Level = "debug"
	InfoLevel  Level = "info"
	WarnLevel  Level = "warn"
	ErrorLevel Level = "error"
)

// zerologLevel maps l onto zerolog's own level type. An unrecognized,
// non-empty level is reported to the caller rather than silently falling
// back, since a typo'd --log-level flag should surface as a config error,
// not a quietly wrong verbosity; zerolog.InfoLevel is still returned
// alongside the error so a caller that chooses to ignore it keeps running.
func (l Level) zerologLevel() (zerolog.Level, error) {
	switch l {
	case DebugLevel:
		return zerolog.DebugLevel, nil
	case InfoLevel, "":
		return zerolog.InfoLevel, nil
	case WarnLevel:
		return zerolog.WarnLevel, nil
	case ErrorLevel:
		return zerolog.ErrorLevel, nil
	default:
		return zerolog.InfoLevel, fmt.Errorf("wclog: unrecognized level %q", string(l))
	}
}

// Config configures the base logger.
type Config struct {
	Level      Level
	JSONOutput bool
	Output     io.Writer
}

// Init (re)configures the base logger and clears the per-component logger
// cache, so loggers vended after Init pick up the new configuration. Safe
// to call more than once; later calls replace the previous configuration.
// Returns an error if cfg.Level isn't recognized, after still applying an
// Info-level fallback so a misconfigured caller doesn't lose logging
// entirely.
func Init(cfg Config) error {
	level, err := cfg.Level.zerologLevel()
	zerolog.SetGlobalLevel(level)

	output := cfg.Output
	if output == nil {
		output = os.Stdout
	}

	if cfg.JSONOutput {
		Base = zerolog.New(output).With().Timestamp().Logger()
	} else {
		Base = zerolog.New(zerolog.ConsoleWriter{
			Out:        output,
			TimeFormat: time.RFC3339,
		}).With().Timestamp().Logger()
	}
	resetComponents()
	return err
}

func init() {
	_ = Init(Config{Level: InfoLevel, JSONOutput: true})
}

var (
	componentsMu sync.Mutex
	components   = map[string]zerolog.Logger{}
)

// Component returns a child logger tagged with the given component name,
// e.g. wclog.Component("wcdb") inside the store wrapper. Loggers are
// cached per name, the same way pkg/wcpath's Resolver caches one Handle
// per WCROOT, since the store and pristine-object wrappers call Component
// on every operation rather than holding their own field. Init clears the
// cache so a later reconfiguration isn't masked by a stale entry.
func Component(name string) zerolog.Logger {
	componentsMu.Lock()
	defer componentsMu.Unlock()
	if l, ok := components[name]; ok {
		return l
	}
	l := Base.With().Str("component", name).Logger()
	components[name] = l
	return l
}

func resetComponents() {
	componentsMu.Lock()
	defer componentsMu.Unlock()
	components = make(map[string]zerolog.Logger)
}

// WithWCRoot tags a logger with the owning WCROOT id.
func WithWCRoot(l zerolog.Logger, wcrootID int64) zerolog.Logger {
	return l.With().Int64("wcroot_id", wcrootID).Logger()
}

// WithPath tags a logger with a relative path under a WCROOT.
func WithPath(l zerolog.Logger, relpath string) zerolog.Logger {
	return l.With().Str("relpath", relpath).Logger()
}
