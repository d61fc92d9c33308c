// Package common provides the logger and build information shared by
// every tool-directory binary and package.
package common

import (
	"encoding/json"
	"io"
	"os"

	"github.com/phuslu/log"
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/arbor/models"
	"github.com/ternarybob/arbor/writers"
)

// LoggingConfig selects the level and console format of a Logger.
type LoggingConfig struct {
	Level string `toml:"level"`
	// Format is "text" for arbor's console output or "json" for one event per line.
	Format string `toml:"format"`
}

// Logger wraps arbor.ILogger so packages depend on one concrete type.
type Logger struct {
	arbor.ILogger
}

// discardWriter drops every event.
type discardWriter struct{}

func (w *discardWriter) Write(p []byte) (int, error)           { return len(p), nil }
func (w *discardWriter) WithLevel(_ log.Level) writers.IWriter { return w }
func (w *discardWriter) GetFilePath() string                   { return "" }
func (w *discardWriter) Close() error                          { return nil }

// jsonWriter writes arbor's JSON events to out, one per line.
type jsonWriter struct {
	out   io.Writer
	level log.Level
}

func (w *jsonWriter) Write(p []byte) (int, error) {
	var evt models.LogEvent
	if err := json.Unmarshal(p, &evt); err == nil && evt.Level < w.level {
		return len(p), nil
	}
	return w.out.Write(p)
}

func (w *jsonWriter) WithLevel(level log.Level) writers.IWriter {
	w.level = level
	return w
}

func (w *jsonWriter) GetFilePath() string { return "" }
func (w *jsonWriter) Close() error        { return nil }

// NewLoggerFromConfig creates a logger from cfg. Output always goes to
// stderr: in stdio mode stdout carries the MCP JSON-RPC stream.
func NewLoggerFromConfig(cfg LoggingConfig) *Logger {
	level := cfg.Level
	if level == "" {
		level = "info"
	}

	l := arbor.NewLogger()
	if cfg.Format == "json" {
		l = l.WithWriters([]writers.IWriter{&jsonWriter{out: os.Stderr, level: log.TraceLevel}})
	} else {
		l = l.WithConsoleWriter(models.WriterConfiguration{
			Type:       models.LogWriterTypeConsole,
			Writer:     os.Stderr,
			TimeFormat: "2006-01-02T15:04:05Z07:00",
		})
	}

	l = l.WithMemoryWriter(models.WriterConfiguration{
		Type: models.LogWriterTypeMemory,
	}).WithLevelFromString(level)

	return &Logger{ILogger: l}
}

// NewSilentLogger creates a logger that discards all output.
func NewSilentLogger() *Logger {
	l := arbor.NewLogger().WithWriters([]writers.IWriter{&discardWriter{}})
	return &Logger{ILogger: l}
}

// WithCorrelationId returns a Logger that tags every event with id.
func (l *Logger) WithCorrelationId(id string) *Logger {
	return &Logger{ILogger: l.ILogger.WithCorrelationId(id)}
}
