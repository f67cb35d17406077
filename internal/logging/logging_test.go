package logging

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestNew_DisabledIsNop(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Options{Output: &buf})

	logger.Debug("hidden")
	logger.Error("also hidden")

	assert.Zero(t, buf.Len())
}

func TestNew_ConsoleDebug(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Options{Debug: true, Output: &buf})

	logger.Debug("chunk parsed", zap.Int("offset", 42))

	out := buf.String()
	assert.Contains(t, out, "chunk parsed")
	assert.Contains(t, out, `"offset": 42`)
	assert.True(t, strings.HasSuffix(out, "\n"))
}

func TestNew_JSON(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Options{Debug: true, JSON: true, Output: &buf})

	logger.Debug("build exited", zap.Int("exit_code", 2))

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "build exited", entry["msg"])
	assert.Equal(t, "debug", entry["level"])
	assert.Equal(t, float64(2), entry["exit_code"])
}
