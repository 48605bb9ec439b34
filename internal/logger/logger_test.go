package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func captureLog(t *testing.T, level zapcore.Level) *bytes.Buffer {
	t.Helper()
	buf := &bytes.Buffer{}
	enc := zap.NewProductionEncoderConfig()
	enc.MessageKey = "msg"
	prev := Log
	Log = zap.New(zapcore.NewCore(zapcore.NewJSONEncoder(enc), zapcore.AddSync(buf), level))
	t.Cleanup(func() { Log = prev })
	return buf
}

func TestInfo_WithRequestID(t *testing.T) {
	buf := captureLog(t, zap.InfoLevel)

	ctx := WithRequestID(context.Background(), "req-123")
	Info(ctx, "analytics computed", zap.Int("trades", 42), zap.String("format", "new"))

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "info", entry["level"])
	assert.Equal(t, "analytics computed", entry["msg"])
	assert.Equal(t, float64(42), entry["trades"])
	assert.Equal(t, "req-123", entry["request_id"])
}

func TestWarn_NoRequestID(t *testing.T) {
	buf := captureLog(t, zap.InfoLevel)

	Warn(context.Background(), "numeric field coerced to zero", zap.String("column", "Fee"))

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	_, exists := entry["request_id"]
	assert.False(t, exists)
	assert.Equal(t, "warn", entry["level"])
}

func TestDebugFilteredByLevel(t *testing.T) {
	buf := captureLog(t, zap.InfoLevel)
	Debug(context.Background(), "row parsed")
	assert.Zero(t, buf.Len())
}

func TestRequestID_NilContext(t *testing.T) {
	//nolint:staticcheck // nil context is what the helper must tolerate
	assert.Equal(t, "", RequestID(nil))
}
