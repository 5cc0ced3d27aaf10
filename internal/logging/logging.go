// Package logging builds the zap loggers used by the CLI and the MCP server.
//
// The detection core never logs. Everything around it (the stdio server, the
// batch runner, the CLI commands) receives a *zap.SugaredLogger built here.
package logging

import (
	"fmt"
	"io"
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// EnvLogLevel is the environment variable consulted when no level flag is
// given.
const EnvLogLevel = "SHAPE_MCP_LOG_LEVEL"

// DefaultLevel is used when neither a flag nor the environment sets a level.
const DefaultLevel = "info"

// New returns a console logger writing to w at the given level
// ("debug", "info", "warn", "error"). Timestamps use ISO8601.
func New(level string, w io.Writer) (*zap.SugaredLogger, error) {
	lvl, err := ParseLevel(level)
	if err != nil {
		return nil, err
	}

	pe := zap.NewProductionEncoderConfig()
	pe.EncodeTime = zapcore.ISO8601TimeEncoder
	core := zapcore.NewCore(zapcore.NewConsoleEncoder(pe), zapcore.AddSync(w), lvl)

	return zap.New(core).Sugar(), nil
}

// NewStderr returns a logger writing to stderr. The MCP server uses stderr
// because stdout carries the protocol.
func NewStderr(level string) (*zap.SugaredLogger, error) {
	return New(level, os.Stderr)
}

// ParseLevel converts a level name to a zap level. An empty name selects
// DefaultLevel.
func ParseLevel(level string) (zapcore.Level, error) {
	if strings.TrimSpace(level) == "" {
		level = DefaultLevel
	}
	var lvl zapcore.Level
	if err := lvl.UnmarshalText([]byte(strings.ToLower(strings.TrimSpace(level)))); err != nil {
		return lvl, fmt.Errorf("invalid log level %q: %w", level, err)
	}
	return lvl, nil
}

// ResolveLevel returns flagValue when set, else the EnvLogLevel environment
// variable, else DefaultLevel.
func ResolveLevel(flagValue string) string {
	if flagValue != "" {
		return flagValue
	}
	if env := os.Getenv(EnvLogLevel); env != "" {
		return env
	}
	return DefaultLevel
}

// Nop returns a logger that discards everything.
func Nop() *zap.SugaredLogger {
	return zap.NewNop().Sugar()
}
