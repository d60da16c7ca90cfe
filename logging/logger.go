// Package logging wires structured logging for the pipeline: a
// zap-based production logger for startup/shutdown/rejection/error
// events, and the Simple interface (in simple.go) used as
// a dependency-injection seam in tests that assert on log content.
package logging

import (
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger wraps a zap.Logger with the pipeline's structured event
// helpers.
type Logger struct {
	*zap.Logger
	config Config
}

// Config controls where and how the logger writes.
type Config struct {
	Level      string   // debug, info, warn, error
	Outputs    []string // stdout, file
	OutputFile string
	Format     string // json or console
}

// DefaultConfig logs info-and-above JSON to stdout.
func DefaultConfig() Config {
	return Config{Level: "info", Outputs: []string{"stdout"}, Format: "json"}
}

// New builds a Logger from cfg.
func New(cfg Config) (*Logger, error) {
	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %s: %w", cfg.Level, err)
	}

	var encoderConfig zapcore.EncoderConfig
	if cfg.Format == "console" {
		encoderConfig = zap.NewDevelopmentEncoderConfig()
		encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
		encoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	} else {
		encoderConfig = zap.NewProductionEncoderConfig()
		encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	}

	var cores []zapcore.Core
	if contains(cfg.Outputs, "stdout") {
		var encoder zapcore.Encoder
		if cfg.Format == "console" {
			encoder = zapcore.NewConsoleEncoder(encoderConfig)
		} else {
			encoder = zapcore.NewJSONEncoder(encoderConfig)
		}
		cores = append(cores, zapcore.NewCore(encoder, zapcore.AddSync(os.Stdout), level))
	}

	if contains(cfg.Outputs, "file") && cfg.OutputFile != "" {
		fileWriter, err := os.OpenFile(cfg.OutputFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return nil, fmt.Errorf("open log file: %w", err)
		}
		cores = append(cores, zapcore.NewCore(zapcore.NewJSONEncoder(encoderConfig), zapcore.AddSync(fileWriter), level))
	}

	core := zapcore.NewTee(cores...)
	zapLogger := zap.New(core, zap.AddCaller())

	return &Logger{Logger: zapLogger, config: cfg}, nil
}

// WithFields returns a child logger carrying the given fields.
func (l *Logger) WithFields(fields map[string]interface{}) *Logger {
	zapFields := make([]zap.Field, 0, len(fields))
	for k, v := range fields {
		zapFields = append(zapFields, zap.Any(k, v))
	}
	return &Logger{Logger: l.Logger.With(zapFields...), config: l.config}
}

// LogOrderRejected records a risk-filter rejection.
func (l *Logger) LogOrderRejected(orderID uint64, reason string) {
	l.Warn("order_rejected", zap.Uint64("order_id", orderID), zap.String("reason", reason), zap.String("ts", nowRFC3339()))
}

// LogTrade records a matched trade.
func (l *Logger) LogTrade(buyID, sellID uint64, price, quantity uint64) {
	l.Info("trade_matched",
		zap.Uint64("buy_order_id", buyID), zap.Uint64("sell_order_id", sellID),
		zap.Uint64("price", price), zap.Uint64("quantity", quantity),
		zap.String("ts", nowRFC3339()))
}

// LogSignal records a strategy signal, admitted or not.
func (l *Logger) LogSignal(lane int, kind string, reason string, confidence float64) {
	l.Info("signal_generated",
		zap.Int("lane", lane), zap.String("kind", kind), zap.String("reason", reason),
		zap.Float64("confidence", confidence), zap.String("ts", nowRFC3339()))
}

// LogError records an error with context.
func (l *Logger) LogError(err error, context map[string]interface{}) {
	fields := make([]zap.Field, 0, len(context)+1)
	for k, v := range context {
		fields = append(fields, zap.Any(k, v))
	}
	fields = append(fields, zap.Error(err), zap.String("ts", nowRFC3339()))
	l.Error("error_event", fields...)
}

// Close flushes buffered log entries.
func (l *Logger) Close() error { return l.Sync() }

func nowRFC3339() string { return time.Now().UTC().Format(time.RFC3339Nano) }

func contains(slice []string, item string) bool {
	for _, s := range slice {
		if s == item {
			return true
		}
	}
	return false
}
