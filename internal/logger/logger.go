// Package logger собирает zap-логгер в едином формате (JSON, ts в ISO8601).
package logger

import (
	"io"
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New возвращает логгер уровня level, пишущий в stderr.
func New(level zapcore.Level) *zap.SugaredLogger {
	return NewWithWriter(os.Stderr, level)
}

// NewWithWriter делает то же, но с произвольным приёмником (для тестов и файлов).
func NewWithWriter(w io.Writer, level zapcore.Level) *zap.SugaredLogger {
	encoderCfg := zap.NewProductionEncoderConfig()
	encoderCfg.TimeKey = "ts"
	encoderCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	encoderCfg.LevelKey = "level"
	encoderCfg.EncodeLevel = zapcore.CapitalLevelEncoder

	core := zapcore.NewCore(
		zapcore.NewJSONEncoder(encoderCfg),
		zapcore.AddSync(w),
		level,
	)
	return zap.New(core).Sugar()
}

// Nop возвращает логгер, который ничего не пишет (значение по умолчанию у решателей).
func Nop() *zap.SugaredLogger {
	return zap.NewNop().Sugar()
}

// LevelFromEnv читает уровень из LOG_LEVEL; по умолчанию info.
func LevelFromEnv() zapcore.Level {
	return ParseLevel(os.Getenv("LOG_LEVEL"))
}

// ParseLevel разбирает debug|info|warn|error; остальное даёт info.
func ParseLevel(s string) zapcore.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return zapcore.DebugLevel
	case "info":
		return zapcore.InfoLevel
	case "warn":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}
