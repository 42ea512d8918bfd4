package logger

import (
	"bytes"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
)

func reset() {
	SetVerbose(false)
	SetOutput(os.Stderr)
}

func TestDebugSilentByDefault(t *testing.T) {
	defer reset()
	var buf bytes.Buffer
	SetOutput(&buf)

	Debug("hidden %d", 1)

	assert.Empty(t, buf.String())
}

func TestVerboseLevels(t *testing.T) {
	defer reset()
	var buf bytes.Buffer
	SetOutput(&buf)
	SetVerbose(true)

	Debug("d")
	Info("i")
	Warn("w")
	Section("s")

	out := buf.String()
	assert.Contains(t, out, "[DEBUG] d")
	assert.Contains(t, out, "[INFO] i")
	assert.Contains(t, out, "[WARN] w")
	assert.Contains(t, out, "=== s ===")
}

func TestErrorAlwaysPrints(t *testing.T) {
	defer reset()
	var buf bytes.Buffer
	SetOutput(&buf)

	Error("boom: %v", "cause")

	assert.Contains(t, buf.String(), "[ERROR] boom: cause")
}

func TestIsVerbose(t *testing.T) {
	defer reset()

	SetVerbose(true)
	assert.True(t, IsVerbose())
	SetVerbose(false)
	assert.False(t, IsVerbose())
}
