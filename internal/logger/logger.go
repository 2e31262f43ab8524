// Package logger provides the zerolog-based logging setup for the
// mutant CLI.
//
// Console output goes to stderr through zerolog's ConsoleWriter so that
// stdout stays reserved for command output (text tables or --json).
// When file logging is enabled, entries are additionally written as
// structured JSON to a rotating log file under the workspace's
// .mutant/logs directory.
package logger

import (
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Log is the global logger instance. It defaults to a disabled logger
// until Init is called, so packages can log unconditionally.
var Log = zerolog.New(io.Discard)

// fileWriter is the rotating file output, kept for Close.
var fileWriter *lumberjack.Logger

// Rotation limits for the file log. Mutation runs can produce a lot of
// per-mutant entries, so the file is capped and rotated rather than
// growing unbounded.
const (
	maxSizeMB  = 20
	maxBackups = 3
	maxAgeDays = 14
)

// Init configures the global logger.
//
// verbose selects the console level: info when false, debug when true.
// logDir, when non-empty, enables JSON file logging with rotation in
// that directory (created if needed).
func Init(verbose bool, logDir string) error {
	level := zerolog.InfoLevel
	if verbose {
		level = zerolog.DebugLevel
	}

	console := zerolog.ConsoleWriter{
		Out:        os.Stderr,
		TimeFormat: time.Kitchen,
	}

	writers := []io.Writer{console}

	if logDir != "" {
		if err := os.MkdirAll(logDir, 0o755); err != nil {
			return err
		}
		fileWriter = &lumberjack.Logger{
			Filename:   filepath.Join(logDir, "mutant.log"),
			MaxSize:    maxSizeMB,
			MaxBackups: maxBackups,
			MaxAge:     maxAgeDays,
		}
		writers = append(writers, fileWriter)
	}

	Log = zerolog.New(zerolog.MultiLevelWriter(writers...)).
		Level(level).
		With().
		Timestamp().
		Logger()

	return nil
}

// Close flushes and closes the file writer, if one was configured.
// Safe to call when file logging is disabled.
func Close() error {
	if fileWriter != nil {
		return fileWriter.Close()
	}
	return nil
}
