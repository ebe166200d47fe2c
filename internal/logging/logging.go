// Package logging wraps zap.Logger with the session's own structured
// helpers, in the shape of the teacher's iaros-core/logging package:
// a typed wrapper carrying ambient fields, with domain-specific helper
// methods layered on top of the bare Info/Warn/Error calls.
package logging

import (
	"os"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger wraps *zap.Logger with kit-logistics specific fields and helpers.
type Logger struct {
	*zap.Logger
}

// Config controls how the root logger is constructed.
type Config struct {
	Level       string // debug|info|warn|error
	Format      string // json|console
	ServiceName string
	Environment string
}

// New builds the root logger for the process.
func New(cfg Config) (*Logger, error) {
	if cfg.Level == "" {
		cfg.Level = "info"
	}
	if cfg.Format == "" {
		cfg.Format = "json"
	}
	if cfg.ServiceName == "" {
		cfg.ServiceName = "kitagent"
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		level = zapcore.InfoLevel
	}

	encoderCfg := zapcore.EncoderConfig{
		TimeKey:        "timestamp",
		LevelKey:       "level",
		NameKey:        "logger",
		CallerKey:      "caller",
		MessageKey:     "message",
		StacktraceKey:  "stacktrace",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeLevel:    zapcore.LowercaseLevelEncoder,
		EncodeTime:     zapcore.ISO8601TimeEncoder,
		EncodeDuration: zapcore.SecondsDurationEncoder,
		EncodeCaller:   zapcore.ShortCallerEncoder,
	}

	var encoder zapcore.Encoder
	if cfg.Format == "console" {
		encoder = zapcore.NewConsoleEncoder(encoderCfg)
	} else {
		encoder = zapcore.NewJSONEncoder(encoderCfg)
	}

	core := zapcore.NewCore(encoder, zapcore.AddSync(os.Stdout), level)
	base := zap.New(core, zap.AddCaller()).With(
		zap.String("service", cfg.ServiceName),
		zap.String("environment", cfg.Environment),
	)

	return &Logger{Logger: base}, nil
}

// With returns a child logger with additional fields attached.
func (l *Logger) With(fields ...zap.Field) *Logger {
	return &Logger{Logger: l.Logger.With(fields...)}
}

// WithSession tags every subsequent log line with the session id.
func (l *Logger) WithSession(sessionID string) *Logger {
	return l.With(zap.String("session_id", sessionID))
}

// WithRound tags every subsequent log line with the current round/hour.
func (l *Logger) WithRound(round int) *Logger {
	return l.With(zap.Int("round", round))
}

// RoundSummary logs the outcome of one completed round.
func (l *Logger) RoundSummary(round int, totalCost float64, penaltyCount int, duration time.Duration) {
	l.Info("round complete",
		zap.Int("round", round),
		zap.Float64("total_cost", totalCost),
		zap.Int("penalty_count", penaltyCount),
		zap.Duration("duration", duration),
	)
}

// AnomalyLogger logs a mirror anomaly with a consistent shape.
func (l *Logger) AnomalyLogger(kind, detail string) {
	l.Warn("mirror anomaly",
		zap.String("anomaly_kind", kind),
		zap.String("detail", detail),
	)
}

// ExternalCallLogger logs an outbound call to the evaluation server.
func (l *Logger) ExternalCallLogger(method, path string, duration time.Duration, statusCode int, err error) {
	fields := []zap.Field{
		zap.String("method", method),
		zap.String("path", path),
		zap.Duration("duration", duration),
		zap.Int("status_code", statusCode),
	}
	if err != nil {
		l.Warn("external call failed", append(fields, zap.Error(err))...)
		return
	}
	l.Debug("external call", fields...)
}

// Sync flushes buffered log entries.
func (l *Logger) Sync() error { return l.Logger.Sync() }

// Nop returns a Logger that discards everything, for tests.
func Nop() *Logger {
	return &Logger{Logger: zap.NewNop()}
}
