// Package logging initializes the shared zap logger with file rotation.
package logging

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"

	"padbridge/internal/config"
)

// Init builds a SugaredLogger that writes to the configured rotating file
// and to stderr.
func Init(cfg config.LogConfig) *zap.SugaredLogger {
	lj := &lumberjack.Logger{
		Filename:   cfg.File,
		MaxSize:    cfg.MaxSizeMB,
		MaxBackups: cfg.MaxBackups,
		MaxAge:     cfg.MaxAgeDays,
	}

	encCfg := zapcore.EncoderConfig{
		TimeKey:       "ts",
		LevelKey:      "level",
		NameKey:       "logger",
		CallerKey:     "caller",
		MessageKey:    "msg",
		StacktraceKey: "stack",
		LineEnding:    zapcore.DefaultLineEnding,
		EncodeLevel:   zapcore.CapitalLevelEncoder,
		EncodeTime:    zapcore.ISO8601TimeEncoder,
		EncodeCaller:  zapcore.ShortCallerEncoder,
	}
	encoder := zapcore.NewConsoleEncoder(encCfg)

	core := zapcore.NewTee(
		zapcore.NewCore(encoder, zapcore.AddSync(lj), zapcore.DebugLevel),
		zapcore.NewCore(encoder, zapcore.Lock(zapcore.AddSync(os.Stderr)), zapcore.InfoLevel),
	)

	return zap.New(core, zap.AddCaller()).Sugar()
}
