package logger

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeLines(t *testing.T, buf *bytes.Buffer) []map[string]interface{} {
	t.Helper()
	var entries []map[string]interface{}
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if line == "" {
			continue
		}
		entry := map[string]interface{}{}
		require.NoError(t, json.Unmarshal([]byte(line), &entry))
		entries = append(entries, entry)
	}
	return entries
}

func TestNewLogger(t *testing.T) {
	l := NewLogger()
	assert.NotNil(t, l)
	assert.IsType(t, &zerologLogger{}, l)
}

func TestNewLoggerWithLevel_FiltersBelowLevel(t *testing.T) {
	var buf bytes.Buffer
	l := newLogger(&buf, "warn")

	l.Debug("debug message")
	l.Info("info message")
	l.Warn("warn message")
	l.Error("error message")

	entries := decodeLines(t, &buf)
	require.Len(t, entries, 2)
	assert.Equal(t, "warn", entries[0]["level"])
	assert.Equal(t, "warn message", entries[0]["message"])
	assert.Equal(t, "error", entries[1]["level"])
}

func TestNewLoggerWithLevel_UnknownLevelDefaultsToInfo(t *testing.T) {
	var buf bytes.Buffer
	l := newLogger(&buf, "verbose")

	l.Debug("hidden")
	l.Info("shown")

	entries := decodeLines(t, &buf)
	require.Len(t, entries, 1)
	assert.Equal(t, "shown", entries[0]["message"])
	assert.Contains(t, entries[0], "time")
}

func TestWithField(t *testing.T) {
	var buf bytes.Buffer
	base := newLogger(&buf, "debug")

	base.WithField("workflow_id", "wf-1").Info("running")
	base.Info("plain")

	entries := decodeLines(t, &buf)
	require.Len(t, entries, 2)
	assert.Equal(t, "wf-1", entries[0]["workflow_id"])
	assert.NotContains(t, entries[1], "workflow_id")
}

func TestWithFields_DoesNotMutateParent(t *testing.T) {
	var buf bytes.Buffer
	base := newLogger(&buf, "debug")

	child := base.WithFields(map[string]interface{}{
		"execution_id": "ex-1",
		"attempt":      2,
	})
	child.Error("failed")
	base.Info("parent")

	entries := decodeLines(t, &buf)
	require.Len(t, entries, 2)
	assert.Equal(t, "ex-1", entries[0]["execution_id"])
	assert.EqualValues(t, 2, entries[0]["attempt"])
	assert.NotContains(t, entries[1], "execution_id")
}
