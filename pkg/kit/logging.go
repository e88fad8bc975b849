package kit

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

type LogFileOptions struct {
	Filename   string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
}

func NewLogger(service string) *zap.Logger {
	cfg := zap.NewProductionConfig()
	cfg.InitialFields = map[string]any{"service": service}
	l, _ := cfg.Build()
	return l
}

// NewFileLogger tees JSON output to a rotated log file alongside the console.
func NewFileLogger(service string, opts LogFileOptions) *zap.Logger {
	if opts.MaxSizeMB <= 0 {
		opts.MaxSizeMB = 64
	}
	if opts.MaxBackups <= 0 {
		opts.MaxBackups = 7
	}
	if opts.MaxAgeDays <= 0 {
		opts.MaxAgeDays = 7
	}

	rotated := &lumberjack.Logger{
		Filename:   opts.Filename,
		MaxSize:    opts.MaxSizeMB,
		MaxBackups: opts.MaxBackups,
		MaxAge:     opts.MaxAgeDays,
	}

	level := zap.NewAtomicLevelAt(zapcore.InfoLevel)
	core := zapcore.NewTee(
		zapcore.NewCore(
			zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig()),
			zapcore.AddSync(rotated),
			level,
		),
		zapcore.NewCore(
			zapcore.NewConsoleEncoder(zap.NewDevelopmentEncoderConfig()),
			zapcore.AddSync(os.Stdout),
			level,
		),
	)

	return zap.New(core, zap.AddCaller()).With(zap.String("service", service))
}
