package logging

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"

	"github.com/sanspareilsmyn/txlens/internal/config"
)

func TestParseLevel(t *testing.T) {
	level, err := parseLevel("DEBUG")
	require.NoError(t, err)
	assert.Equal(t, zapcore.DebugLevel, level)

	level, err = parseLevel("loud")
	require.Error(t, err)
	assert.Equal(t, zapcore.InfoLevel, level)
}

func TestNewLoggerWithoutOutputs(t *testing.T) {
	_, err := NewLogger(config.LogConfig{Level: "info", Format: "json"})
	require.ErrorIs(t, err, ErrNoOutputs)
}

func TestNewLoggerWritesRotatingFile(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "logs")
	logger, err := NewLogger(config.LogConfig{
		Level:              "info",
		Format:             "json",
		FileLoggingEnabled: true,
		Directory:          dir,
		Filename:           "txlens.log",
		MaxSize:            1,
	})
	require.NoError(t, err)

	logger.Info("window report published")
	_ = logger.Sync()

	raw, err := os.ReadFile(filepath.Join(dir, "txlens.log"))
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"msg":"window report published"`)
	assert.Contains(t, string(raw), `"level":"INFO"`)
}
