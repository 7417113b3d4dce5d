package logger

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func lines(t *testing.T, buf *bytes.Buffer) []map[string]any {
	t.Helper()
	var out []map[string]any
	for _, ln := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if ln == "" {
			continue
		}
		m := map[string]any{}
		require.NoError(t, json.Unmarshal([]byte(ln), &m))
		out = append(out, m)
	}
	return out
}

func TestNewWithOptions_LevelAndJSON(t *testing.T) {
	var buf bytes.Buffer
	l, sync := NewWithOptions(Options{Level: "warn", Output: &buf})
	defer sync()

	l.Info("dropped")
	l.Warn("kept", zap.String("rid", "abc"))

	got := lines(t, &buf)
	require.Len(t, got, 1)
	assert.Equal(t, "kept", got[0]["msg"])
	assert.Equal(t, "warn", got[0]["level"])
	assert.Equal(t, "abc", got[0]["rid"])
	assert.Contains(t, got[0], "ts")
}

func TestNewWithOptions_BadLevelFallsBackToInfo(t *testing.T) {
	var buf bytes.Buffer
	l, _ := NewWithOptions(Options{Level: "loud", Output: &buf})

	l.Debug("hidden")
	l.Info("shown")

	got := lines(t, &buf)
	require.Len(t, got, 1)
	assert.Equal(t, "shown", got[0]["msg"])
}

func TestNewWithOptions_RotateWritesJSONFile(t *testing.T) {
	var buf bytes.Buffer
	file := filepath.Join(t.TempDir(), "app.log")
	l, closeLog := NewWithOptions(Options{
		Level:  "info",
		Output: &buf,
		Rotate: FileRotate{Enable: true, Filename: file, MaxSizeMB: 1},
	})
	l.Info("both sinks")
	closeLog()

	assert.Contains(t, buf.String(), "both sinks")
	raw, err := os.ReadFile(file)
	require.NoError(t, err)
	got := lines(t, bytes.NewBuffer(raw))
	require.Len(t, got, 1)
	assert.Equal(t, "both sinks", got[0]["msg"])
}

func TestNewWithOptions_ServiceField(t *testing.T) {
	var buf bytes.Buffer
	l, _ := NewWithOptions(Options{Level: "info", Service: "user-admin-api", Output: &buf})

	l.Info("ready")

	got := lines(t, &buf)
	require.Len(t, got, 1)
	assert.Equal(t, "user-admin-api", got[0]["service"])
}

func TestNewWithOptions_Sampling(t *testing.T) {
	var buf bytes.Buffer
	l, _ := NewWithOptions(Options{Level: "info", SampleInitial: 2, Output: &buf})

	for i := 0; i < 5; i++ {
		l.Info("same message")
	}

	// 前 2 条全记，之后每 2 条记 1 条：第 1、2、4 条
	assert.Len(t, lines(t, &buf), 3)
}

func TestToWriter_OneEntryPerLine(t *testing.T) {
	var buf bytes.Buffer
	l, _ := NewWithOptions(Options{Level: "debug", Output: &buf})

	w := ToWriter(l, zapcore.ErrorLevel)
	in := "[GIN-debug] GET /health\n\n[GIN-debug] GET /ready\n"
	n, err := w.Write([]byte(in))
	require.NoError(t, err)
	assert.Equal(t, len(in), n)

	got := lines(t, &buf)
	require.Len(t, got, 2)
	assert.Equal(t, "[GIN-debug] GET /health", got[0]["msg"])
	assert.Equal(t, "[GIN-debug] GET /ready", got[1]["msg"])
	assert.Equal(t, "error", got[0]["level"])
}

func TestToStdLogger(t *testing.T) {
	var buf bytes.Buffer
	l, _ := NewWithOptions(Options{Level: "debug", Output: &buf})

	std, err := ToStdLogger(l, zapcore.WarnLevel)
	require.NoError(t, err)
	std.Print("slow sql")

	got := lines(t, &buf)
	require.Len(t, got, 1)
	assert.Equal(t, "slow sql", got[0]["msg"])
	assert.Equal(t, "warn", got[0]["level"])
}
