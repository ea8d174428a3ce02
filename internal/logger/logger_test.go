package logger

import (
	"os"
	"path/filepath"
	"testing"

	log "github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInit_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "server.log")

	require.NoError(t, Init(Options{Level: "debug", File: path}))
	defer func() {
		Close()
		log.SetOutput(os.Stderr)
	}()

	assert.Equal(t, log.DebugLevel, log.GetLevel())
	assert.Equal(t, path, GetLogPath())

	log.Info("hello from test")
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "hello from test")
}

func TestInit_BadLevelFallsBackToInfo(t *testing.T) {
	require.NoError(t, Init(Options{Level: "loud"}))
	assert.Equal(t, log.InfoLevel, log.GetLevel())
}

func TestLogPanic(t *testing.T) {
	assert.NotPanics(t, func() {
		LogPanic("boom")
	})
}
