package logging

import (
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm/logger"
)

// gormWriter adapts zap.Logger to gorm's logger.Writer interface
type gormWriter struct {
	logger *zap.Logger
}

func (w *gormWriter) Printf(format string, args ...interface{}) {
	w.logger.Sugar().Infof(format, args...)
}

// GormLogger routes gorm's SQL logging through zap.
func GormLogger(level string) logger.Interface {
	var gormLevel logger.LogLevel
	switch level {
	case "DEBUG", "debug":
		gormLevel = logger.Info
	case "ERROR", "error":
		gormLevel = logger.Error
	default:
		gormLevel = logger.Warn
	}

	return logger.New(
		&gormWriter{logger: WithComponent("gorm")},
		logger.Config{
			SlowThreshold:             time.Second,
			LogLevel:                  gormLevel,
			IgnoreRecordNotFoundError: true,
		},
	)
}
