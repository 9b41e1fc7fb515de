package logger

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, zapcore.DebugLevel, parseLevel(""))
	assert.Equal(t, zapcore.WarnLevel, parseLevel(" warn "))
	assert.Equal(t, zapcore.DebugLevel, parseLevel("громко"))
}

func TestNewLogger_WritesFile(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("LOG_DIR", dir)
	t.Setenv("LOG_LEVEL", "info")
	t.Setenv("LOG_FORMAT", "json")

	l := NewLogger("inspection")
	l.Debug("не попадёт в файл")
	l.Info("осмотр принят")
	_ = l.Sync()

	data, err := os.ReadFile(filepath.Join(dir, "inspection.log"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "осмотр принят")
	assert.NotContains(t, string(data), "не попадёт")
	assert.Contains(t, string(data), `"logger":"inspection"`)
}
