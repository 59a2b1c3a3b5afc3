package logging

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeEntries(t *testing.T, buf *bytes.Buffer) []LogEntry {
	t.Helper()
	var entries []LogEntry
	dec := json.NewDecoder(buf)
	for dec.More() {
		var e LogEntry
		require.NoError(t, dec.Decode(&e))
		entries = append(entries, e)
	}
	return entries
}

func TestLevelString(t *testing.T) {
	assert.Equal(t, "DEBUG", DebugLevel.String())
	assert.Equal(t, "INFO", InfoLevel.String())
	assert.Equal(t, "WARN", WarnLevel.String())
	assert.Equal(t, "ERROR", ErrorLevel.String())
	assert.Equal(t, "UNKNOWN", Level(42).String())
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, DebugLevel, ParseLevel("debug"))
	assert.Equal(t, WarnLevel, ParseLevel("WARNING"))
	assert.Equal(t, ErrorLevel, ParseLevel("error"))
	// unknown strings default to info
	assert.Equal(t, InfoLevel, ParseLevel("loud"))
}

func TestJSONLoggerWritesEntries(t *testing.T) {
	var buf bytes.Buffer
	log := NewJSONLogger(&buf, InfoLevel)

	log.Info("placement finished", F("rescales", 2), F("box_edge", 4.5))

	entries := decodeEntries(t, &buf)
	require.Len(t, entries, 1)
	assert.Equal(t, "INFO", entries[0].Level)
	assert.Equal(t, "placement finished", entries[0].Message)
	assert.Equal(t, float64(2), entries[0].Fields["rescales"])
	assert.Equal(t, 4.5, entries[0].Fields["box_edge"])
	assert.NotEmpty(t, entries[0].Time)
}

func TestJSONLoggerFiltersBelowLevel(t *testing.T) {
	var buf bytes.Buffer
	log := NewJSONLogger(&buf, WarnLevel)

	log.Debug("dropped")
	log.Info("dropped")
	log.Warn("kept")
	log.Error("kept")

	assert.Len(t, decodeEntries(t, &buf), 2)
}

func TestWithPresetsFields(t *testing.T) {
	var buf bytes.Buffer
	log := NewJSONLogger(&buf, InfoLevel).With(F("run_id", "abc"))

	log.Info("expanded molecule", F("atoms", 12))

	entries := decodeEntries(t, &buf)
	require.Len(t, entries, 1)
	assert.Equal(t, "abc", entries[0].Fields["run_id"])
	assert.Equal(t, float64(12), entries[0].Fields["atoms"])
}

func TestErrorField(t *testing.T) {
	f := Error(errors.New("boom"))
	assert.Equal(t, "error", f.Key)
	assert.Equal(t, "boom", f.Value)

	assert.Nil(t, Error(nil).Value)
}

func TestNopLogger(t *testing.T) {
	log := NopLogger{}
	// must not panic and With must return a usable logger
	log.With(F("k", "v")).Info("ignored")
}
