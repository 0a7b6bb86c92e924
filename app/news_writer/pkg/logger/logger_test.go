package logger

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCustomFormatter_Format(t *testing.T) {
	entry := &logrus.Entry{
		Logger:  logrus.New(),
		Time:    time.Date(2026, 3, 1, 8, 30, 0, 0, time.UTC),
		Level:   logrus.WarnLevel,
		Message: "抓取失败",
		Data:    logrus.Fields{"status": 429, "provider": "newsapi"},
	}

	out, err := (&CustomFormatter{}).Format(entry)
	require.NoError(t, err)
	assert.Equal(t, "[2026-03-01 08:30:00] [WARN] [] 抓取失败 provider=newsapi status=429\n", string(out))
}

func TestInitLogger_WritesFile(t *testing.T) {
	old := Log
	t.Cleanup(func() { Log = old })

	path := filepath.Join(t.TempDir(), "logs", "news_writer.log")
	require.NoError(t, InitLogger("debug", path))
	assert.Equal(t, logrus.DebugLevel, Log.GetLevel())

	Log.Debug("hello")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(data), "[DEBU]"))
	assert.True(t, strings.Contains(string(data), "logger_test.go"))
}

func TestInitLogger_BadLevelFallsBackToInfo(t *testing.T) {
	old := Log
	t.Cleanup(func() { Log = old })

	require.NoError(t, InitLogger("verbose", ""))
	assert.Equal(t, logrus.InfoLevel, Log.GetLevel())
}
