package logging

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
)

func TestHandlerWritesAttrs(t *testing.T) {
	color.NoColor = true
	var buf bytes.Buffer
	logger := New(&buf, "debug").With("component", "quiz")

	logger.Info("question served", "index", 2)

	out := buf.String()
	assert.Contains(t, out, "INFO:")
	assert.Contains(t, out, "question served")
	assert.Contains(t, out, "component=quiz")
	assert.Contains(t, out, "index=2")
}

func TestHandlerFiltersLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&buf, "warn")

	logger.Info("hidden")
	assert.Empty(t, buf.String())

	logger.Warn("shown")
	assert.Contains(t, buf.String(), "shown")
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, ParseLevel("debug"))
	assert.Equal(t, slog.LevelError, ParseLevel("ERROR"))
	assert.Equal(t, slog.LevelInfo, ParseLevel("loud"))
}

func TestHandlerGroupsOnlyLaterAttrs(t *testing.T) {
	color.NoColor = true
	var buf bytes.Buffer
	logger := New(&buf, "info").With("room", "ABC123").WithGroup("battle").With("user", "u1")

	logger.Info("answer", "correct", true)

	out := buf.String()
	assert.Contains(t, out, "room=ABC123")
	assert.NotContains(t, out, "battle.room")
	assert.Contains(t, out, "battle.user=u1")
	assert.Contains(t, out, "battle.correct=true")
}
