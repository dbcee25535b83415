// Package logger provides standardized logging utilities for the ELFE/XL
// evaluation pipeline.
package logger

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"
)

// Global logger instance
var defaultLogger *slog.Logger

// LogLevel represents the logging level
type LogLevel int

const (
	LevelDebug LogLevel = iota
	LevelInfo
	LevelWarn
	LevelError
)

// Config holds logger configuration
type Config struct {
	Level     LogLevel
	Format    string // "text" or "json"
	Output    io.Writer
	AddSource bool
	LogFile   string
}

// Init initializes the global logger with the given configuration
func Init(cfg Config) error {
	var handler slog.Handler

	output := cfg.Output
	if cfg.LogFile != "" {
		file, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return err
		}
		output = file
	}

	opts := &slog.HandlerOptions{
		Level:     toSlogLevel(cfg.Level),
		AddSource: cfg.AddSource,
	}

	if cfg.Format == "json" {
		handler = slog.NewJSONHandler(output, opts)
	} else {
		handler = slog.NewTextHandler(output, opts)
	}

	defaultLogger = slog.New(handler)
	slog.SetDefault(defaultLogger)

	return nil
}

// InitDev initializes logging for development (debug level, text format)
func InitDev() {
	_ = Init(Config{
		Level:     LevelDebug,
		Format:    "text",
		Output:    os.Stderr,
		AddSource: true,
	})
}

// InitProd initializes logging for production (info level, json format)
func InitProd(logDir string) error {
	logPath := filepath.Join(logDir, "elfe.log")
	return Init(Config{
		Level:     LevelInfo,
		Format:    "json",
		LogFile:   logPath,
		AddSource: false,
	})
}

func toSlogLevel(level LogLevel) slog.Level {
	switch level {
	case LevelDebug:
		return slog.LevelDebug
	case LevelInfo:
		return slog.LevelInfo
	case LevelWarn:
		return slog.LevelWarn
	case LevelError:
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Debug logs a debug message
func Debug(msg string, args ...any) {
	if defaultLogger != nil {
		defaultLogger.Debug(msg, args...)
	}
}

// Info logs an info message
func Info(msg string, args ...any) {
	if defaultLogger != nil {
		defaultLogger.Info(msg, args...)
	}
}

// Warn logs a warning message
func Warn(msg string, args ...any) {
	if defaultLogger != nil {
		defaultLogger.Warn(msg, args...)
	}
}

// Error logs an error message
func Error(msg string, args ...any) {
	if defaultLogger != nil {
		defaultLogger.Error(msg, args...)
	}
}

// Evaluation-pipeline logging helpers

// StartPhase logs the start of a pipeline phase (scan, parse, bind, eval)
// and returns the time it started, to be passed to EndPhase once the phase
// finishes.
func StartPhase(phase string) time.Time {
	Info("starting phase", "phase", phase)
	return time.Now()
}

// EndPhase logs the completion of a pipeline phase begun by StartPhase,
// including its elapsed duration — the evaluation-pipeline analogue of the
// original compiler's per-phase instruction/block counts.
func EndPhase(phase string, started time.Time) {
	Info("completed phase", "phase", phase, "elapsed", time.Since(started))
}

// LogScan logs scanner activity for one file.
func LogScan(file string, sourceBytes int) {
	Debug("scan starting", "file", file, "bytes", sourceBytes)
}

// LogParse logs parser activity for one file.
func LogParse(file string, nodeCount int) {
	Debug("parse complete", "file", file, "nodes", nodeCount)
}

// LogBind logs a rewrite-call binder decision for one candidate.
func LogBind(pattern string, strength string) {
	Debug("bind attempt", "pattern", pattern, "strength", strength)
}

// LogEval logs one evaluator step reducing expr to result.
func LogEval(expr string, result string) {
	Debug("eval step", "expr", expr, "result", result)
}

// LogFileProcessing logs the start of processing one input file.
func LogFileProcessing(file string) {
	Info("processing file", "file", file)
}
