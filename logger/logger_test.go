package logger

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewWritesStructuredEvents(t *testing.T) {
	var buf bytes.Buffer
	log := New(&buf).WithComponent("walker").WithField("page", 2)

	log.Warn().Msg("page failed")

	out := buf.String()
	assert.Contains(t, out, `"component":"walker"`)
	assert.Contains(t, out, `"page":2`)
	assert.Contains(t, out, `"level":"warn"`)
	assert.Contains(t, out, "page failed")
}

func TestNopAndOrNop(t *testing.T) {
	assert.NotPanics(t, func() {
		Nop().Info().Msg("discarded")
		OrNop(nil).Error().Msg("discarded")
	})

	l := New(&bytes.Buffer{})
	assert.Same(t, l, OrNop(l))
}

func TestInitWithLogFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.log")

	require.NoError(t, Init(Options{Level: "info", LogFile: path}))
	defer Close()

	Info("hello %s", "file")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "hello file")
}

func TestGetLogLevel(t *testing.T) {
	os.Unsetenv("LOG_LEVEL")

	assert.Equal(t, "info", getLogLevel(Options{Environment: "production"}).String())
	assert.Equal(t, "debug", getLogLevel(Options{Environment: "development"}).String())
	assert.Equal(t, "warn", getLogLevel(Options{Level: "warn"}).String())
	assert.Equal(t, "info", getLogLevel(Options{Level: "nonsense"}).String())
}

func TestRunLogFileName(t *testing.T) {
	ts := time.Date(2024, 3, 9, 14, 5, 7, 0, time.UTC)
	assert.Equal(t, "etl_pipeline_20240309_140507.log", RunLogFileName(ts))
}
