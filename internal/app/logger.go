package app

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"

	"github.com/adanyl0v/tasks-api/internal/config"
)

const (
	serviceName = "tasks-api"

	logFormatJSON    = "json"
	logFormatConsole = "console"
)

var globalLogger zerolog.Logger

// InitDefaultLogger sets up a JSON logger usable before the config is read.
func InitDefaultLogger() {
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	zerolog.TimestampFieldName = "timestamp"
	zerolog.DurationFieldUnit = time.Millisecond

	globalLogger = newServiceLogger(os.Stdout)
	globalLogger.Info().Msg("initialized default logger")
}

func newServiceLogger(w io.Writer) zerolog.Logger {
	return zerolog.New(w).
		With().
		Timestamp().
		Caller().
		Str("service", serviceName).
		Int("pid", os.Getpid()).
		Logger()
}

// MustInitApplicationLogger applies LOG_LEVEL and LOG_FORMAT, falling back to
// the env defaults: trace and console output locally, debug on dev, info on
// prod, JSON outside local.
func MustInitApplicationLogger() {
	cfg := config.Global()

	level, err := logLevel(cfg.Env, cfg.Log.Level)
	if err != nil {
		globalLogger.Error().
			Err(err).
			Str("env", cfg.Env).
			Str("level", cfg.Log.Level).
			Msg("invalid log level")
		panic(err)
	}

	w, err := logWriter(cfg.Env, cfg.Log.Format, os.Stdout)
	if err != nil {
		globalLogger.Error().
			Err(err).
			Str("format", cfg.Log.Format).
			Msg("invalid log format")
		panic(err)
	}

	zerolog.SetGlobalLevel(level)
	globalLogger = globalLogger.Output(w)
	globalLogger.Info().
		Str("level", level.String()).
		Msg("initialized application logger")
}

func logLevel(env, override string) (zerolog.Level, error) {
	if override != "" {
		return zerolog.ParseLevel(override)
	}

	switch env {
	case config.EnvLocal:
		return zerolog.TraceLevel, nil
	case config.EnvDev:
		return zerolog.DebugLevel, nil
	case config.EnvProd:
		return zerolog.InfoLevel, nil
	}
	return zerolog.NoLevel, fmt.Errorf("unknown env: %s", env)
}

func logWriter(env, format string, out io.Writer) (io.Writer, error) {
	if format == "" {
		format = logFormatJSON
		if env == config.EnvLocal {
			format = logFormatConsole
		}
	}

	switch format {
	case logFormatJSON:
		return out, nil
	case logFormatConsole:
		return zerolog.ConsoleWriter{Out: out, TimeFormat: time.DateTime}, nil
	}
	return nil, fmt.Errorf("unknown log format: %s", format)
}
