// Package logging provides zerolog-based structured logging for a yuzu
// Server or Client instance.
//
// A single global zerolog.Logger configured once at process startup is
// unsuitable for a library meant to be embedded, possibly more than once,
// inside a host application, which cannot assume it owns the process's
// logging configuration. Logger here is therefore a value carried by each
// Server/Client rather than a package-level variable.
package logging

import (
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
)

// Config holds the logging configuration for one Server or Client
// instance.
type Config struct {
	// Level is the minimum log level: trace, debug, info, warn, error,
	// fatal, panic. Default: info.
	Level string

	// Format is the output format: json or console. Default: json.
	Format string

	// Caller includes caller file and line number in logs. Default: false.
	Caller bool

	// Output is the writer log records are written to. Default: os.Stderr.
	Output io.Writer
}

// DefaultConfig returns the default logging configuration.
func DefaultConfig() Config {
	return Config{
		Level:  "info",
		Format: "json",
		Caller: false,
		Output: os.Stderr,
	}
}

// Logger wraps a configured zerolog.Logger bound to one yuzu instance.
type Logger struct {
	zl  zerolog.Logger
	set bool
}

// IsZero reports whether l is the Logger zero value, i.e. was never built
// by New/Default/Nop. Callers use this to apply their own default when a
// Logger field was left unset in an options struct.
func (l Logger) IsZero() bool {
	return !l.set
}

// New builds a Logger from cfg.
func New(cfg Config) Logger {
	if cfg.Output == nil {
		cfg.Output = os.Stderr
	}

	var w io.Writer = cfg.Output
	if strings.EqualFold(cfg.Format, "console") {
		w = zerolog.ConsoleWriter{Out: cfg.Output, TimeFormat: "15:04:05"}
	}

	level, err := zerolog.ParseLevel(strings.ToLower(cfg.Level))
	if err != nil {
		level = zerolog.InfoLevel
	}

	zl := zerolog.New(w).Level(level).With().Timestamp().Logger()
	if cfg.Caller {
		zl = zl.With().Caller().Logger()
	}
	return Logger{zl: zl, set: true}
}

// Default builds a Logger with DefaultConfig. yuzu.NewServer and
// yuzu.NewClient use it when their Logger option is left unset.
func Default() Logger {
	return New(DefaultConfig())
}

// Nop returns a Logger that discards everything, e.g. for tests.
func Nop() Logger {
	return Logger{zl: zerolog.Nop(), set: true}
}

// With returns a child Logger carrying an additional string field on every
// subsequent record, e.g. a per-connection ID.
func (l Logger) With(key, value string) Logger {
	return Logger{zl: l.zl.With().Str(key, value).Logger(), set: true}
}

func (l Logger) Debug() *zerolog.Event { return l.zl.Debug() }
func (l Logger) Info() *zerolog.Event  { return l.zl.Info() }
func (l Logger) Warn() *zerolog.Event  { return l.zl.Warn() }
func (l Logger) Error() *zerolog.Event { return l.zl.Error() }
