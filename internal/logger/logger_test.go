package logger

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDevelopmentIsTextWithDebug(t *testing.T) {
	var buf bytes.Buffer
	log := New(&buf, true, "")

	log.Debug("resolving period", "horizon", "WEEK")

	out := buf.String()
	assert.Contains(t, out, "level=DEBUG")
	assert.Contains(t, out, `msg="resolving period"`)
	assert.Contains(t, out, "horizon=WEEK")
}

func TestNewProductionIsJSONWithoutDebug(t *testing.T) {
	var buf bytes.Buffer
	log := New(&buf, false, "")

	log.Debug("hidden")
	log.Info("task saved", "task_id", "abc")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 1)

	var entry map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &entry))
	assert.Equal(t, "INFO", entry["level"])
	assert.Equal(t, "task saved", entry["msg"])
	assert.Equal(t, "abc", entry["task_id"])
}

func TestNewWithInvalidSentryDSNStillLogs(t *testing.T) {
	var buf bytes.Buffer
	log := New(&buf, false, "not a dsn")

	log.Error("boom")
	assert.Contains(t, buf.String(), "sentry disabled")
	assert.Contains(t, buf.String(), "boom")
}
