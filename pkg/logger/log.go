package logger

import (
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const defaultLogDir = "./logs"

// NewLogger пишет одновременно в stdout и в <LOG_DIR>/<name>.log.
// Уровень берётся из LOG_LEVEL, по умолчанию debug.
func NewLogger(name string) *zap.Logger {
	dir := os.Getenv("LOG_DIR")
	if dir == "" {
		dir = defaultLogDir
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		panic(err)
	}

	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	cfg := zap.Config{
		Encoding:         encoding(os.Getenv("LOG_FORMAT")),
		Level:            zap.NewAtomicLevelAt(parseLevel(os.Getenv("LOG_LEVEL"))),
		OutputPaths:      []string{"stdout", filepath.Join(dir, name+".log")},
		ErrorOutputPaths: []string{"stderr"},
		EncoderConfig:    encoderConfig,
	}

	l, err := cfg.Build()
	if err != nil {
		panic(err)
	}
	return l.Named(name)
}

func parseLevel(raw string) zapcore.Level {
	level, err := zapcore.ParseLevel(strings.TrimSpace(raw))
	if err != nil || raw == "" {
		return zapcore.DebugLevel
	}
	return level
}

func encoding(raw string) string {
	if strings.EqualFold(raw, "json") {
		return "json"
	}
	return "console"
}
