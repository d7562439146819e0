package logger_test

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"procurement/internal/logger"
)

func TestNewWritesJSON(t *testing.T) {
	var buf bytes.Buffer
	log, err := logger.New(&buf, "info")
	require.NoError(t, err)

	log.Debug("hidden")
	log.Info("tender created", zap.String("tender_id", "t-1"))

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	require.Equal(t, "tender created", entry["msg"])
	require.Equal(t, "t-1", entry["tender_id"])
	require.Equal(t, "info", entry["level"])
}

func TestNewRejectsBadLevel(t *testing.T) {
	_, err := logger.New(&bytes.Buffer{}, "verbose")
	require.Error(t, err)
}
