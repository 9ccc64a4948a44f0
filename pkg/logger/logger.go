// Package logger builds the application's zap logger.
package logger

import (
	"os"

	"codeshift/pkg/types"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// New returns a JSON logger writing to stderr and, when cfg.Log.File is set, to a rotating file.
func New(cfg *types.Config) (*zap.Logger, error) {
	level := ParseLevel(cfg.Server.LogLevel)

	// Initialize logger with human-readable timestamps
	logConfig := zap.NewProductionConfig()
	logConfig.EncoderConfig.TimeKey = "time"
	logConfig.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	logConfig.Level = zap.NewAtomicLevelAt(level)

	logger, err := logConfig.Build()
	if err != nil {
		return nil, err
	}
	if cfg.Log.File == "" {
		return logger, nil
	}

	rotating := zapcore.AddSync(&lumberjack.Logger{
		Filename:   cfg.Log.File,
		MaxSize:    cfg.Log.MaxSizeMB,
		MaxBackups: cfg.Log.MaxBackups,
		MaxAge:     cfg.Log.MaxAgeDays,
		Compress:   true,
	})
	fileCore := zapcore.NewCore(zapcore.NewJSONEncoder(logConfig.EncoderConfig), rotating, logConfig.Level)

	return logger.WithOptions(zap.WrapCore(func(core zapcore.Core) zapcore.Core {
		return zapcore.NewTee(core, fileCore)
	})), nil
}

// ParseLevel falls back to info for empty or unknown levels.
func ParseLevel(raw string) zapcore.Level {
	level := zap.InfoLevel
	if raw != "" {
		if err := level.UnmarshalText([]byte(raw)); err != nil {
			return zap.InfoLevel
		}
	}
	return level
}

// Must is used by main, where a logger failure leaves nothing to report with.
func Must(logger *zap.Logger, err error) *zap.Logger {
	if err != nil {
		_, _ = os.Stderr.WriteString("failed to create logger: " + err.Error() + "\n")
		os.Exit(1)
	}
	return logger
}
