package logging

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/VoxDroid/stovbot/internal/config"
)

func TestLevelsAndFile(t *testing.T) {
	file := filepath.Join(t.TempDir(), "stovbot.log")
	var console bytes.Buffer
	logger, closeFn, err := build(config.LogConfig{Level: "warn", File: file, MaxSizeMB: 1}, false, &console)
	require.NoError(t, err)

	logger.Info("hidden")
	logger.Warn("shown")
	require.NoError(t, closeFn())

	assert.NotContains(t, console.String(), "hidden")
	assert.Contains(t, console.String(), "shown")

	data, err := os.ReadFile(file)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"msg":"shown"`)
}

func TestVerboseOverridesLevel(t *testing.T) {
	var console bytes.Buffer
	logger, closeFn, err := build(config.LogConfig{Level: "error"}, true, &console)
	require.NoError(t, err)
	logger.Debug("details")
	require.NoError(t, closeFn())
	assert.Contains(t, console.String(), "details")
}

func TestBadLevel(t *testing.T) {
	_, _, err := build(config.LogConfig{Level: "loud"}, false, &bytes.Buffer{})
	assert.Error(t, err)
}
