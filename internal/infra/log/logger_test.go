package logs

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"

	"ministry/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    slog.Level
		wantErr bool
	}{
		{in: "debug", want: slog.LevelDebug},
		{in: "", want: slog.LevelInfo},
		{in: "INFO", want: slog.LevelInfo},
		{in: "warning", want: slog.LevelWarn},
		{in: "error", want: slog.LevelError},
		{in: "verbose", want: slog.LevelInfo, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := parseLogLevel(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestBuildJSONLoggerCarriesServiceAttrs(t *testing.T) {
	cfg := &config.Config{}
	cfg.Env.Env = "develop"
	cfg.Env.ServiceName = "ministry"
	cfg.Env.Log.Level = "info"

	var buf bytes.Buffer
	logger, err := build(&buf, cfg)
	require.NoError(t, err)

	logger.Debug("hidden")
	logger.Info("hello")

	var record map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
	assert.Equal(t, "hello", record["msg"])
	assert.Equal(t, "ministry", record["service"])
	assert.Equal(t, "develop", record["env"])
}
