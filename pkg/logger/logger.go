// Package logger builds the zap loggers used across gruha.
package logger

import (
	"io"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Option configures a logger created with New.
type Option func(*config)

type config struct {
	debug   bool
	json    bool
	writers []io.Writer
}

// WithDebug enables debug level output.
func WithDebug(debug bool) Option {
	return func(c *config) { c.debug = debug }
}

// WithJSON switches the console encoder for a JSON encoder, for log shippers.
func WithJSON(json bool) Option {
	return func(c *config) { c.json = json }
}

// WithWriters sets the log destinations. Defaults to stdout.
func WithWriters(writers ...io.Writer) Option {
	return func(c *config) { c.writers = append(c.writers, writers...) }
}

// NewLogger returns a console logger on stdout.
func NewLogger(debug bool) *zap.Logger {
	return New(WithDebug(debug))
}

// New builds a logger from options.
func New(opts ...Option) *zap.Logger {
	c := &config{}
	for _, opt := range opts {
		opt(c)
	}

	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.TimeKey = "time"
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	var encoder zapcore.Encoder
	if c.json {
		encoder = zapcore.NewJSONEncoder(encoderConfig)
	} else {
		encoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		encoder = zapcore.NewConsoleEncoder(encoderConfig)
	}

	// Set log level
	level := zap.InfoLevel
	if c.debug {
		level = zap.DebugLevel
	}

	writers := c.writers
	if len(writers) == 0 {
		writers = []io.Writer{os.Stdout}
	}

	syncers := make([]zapcore.WriteSyncer, 0, len(writers))
	for _, writer := range writers {
		syncers = append(syncers, zapcore.AddSync(writer))
	}

	core := zapcore.NewCore(encoder, zapcore.NewMultiWriteSyncer(syncers...), level)

	return zap.New(core, zap.AddCaller())
}

// Nop returns a logger that discards everything.
func Nop() *zap.Logger {
	return zap.NewNop()
}
