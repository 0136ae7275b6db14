// Package logger builds the zap logger shared by the server and the CLI.
package logger

import (
	"io"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/axellelanca/coursecatalog/internal/config"
)

// New returns a JSON logger writing to stdout and, when cfg.Log.File is set,
// to a size-rotated file as well.
func New(cfg *config.Config) *zap.Logger {
	return NewTo(cfg, os.Stdout)
}

// NewTo is New with the console output sent to w. CLI commands log to
// stderr so their stdout stays plain.
func NewTo(cfg *config.Config, w io.Writer) *zap.Logger {
	level := zapcore.InfoLevel
	if err := level.UnmarshalText([]byte(cfg.Log.Level)); err != nil {
		level = zapcore.InfoLevel
	}

	syncers := []zapcore.WriteSyncer{zapcore.AddSync(w)}
	if cfg.Log.File != "" {
		syncers = append(syncers, zapcore.AddSync(&lumberjack.Logger{
			Filename:   cfg.Log.File,
			MaxSize:    cfg.Log.MaxSizeMB, // megabytes
			MaxBackups: 7,
			MaxAge:     cfg.Log.MaxAgeDays, // days
		}))
	}

	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	core := zapcore.NewCore(
		zapcore.NewJSONEncoder(encoderConfig),
		zapcore.NewMultiWriteSyncer(syncers...),
		level,
	)
	return zap.New(core).With(zap.String("service", "coursecatalog"))
}
