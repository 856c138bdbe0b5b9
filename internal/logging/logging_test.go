package logging

import (
	"bytes"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func TestLogFilePath(t *testing.T) {
	sessionStart := time.Date(2026, 2, 12, 21, 38, 36, 0, time.UTC)

	tests := []struct {
		name    string
		logsDir string
		base    string
		want    string
	}{
		{
			name:    "basic path",
			logsDir: "logs",
			base:    "engine",
			want:    filepath.Join("logs", "engine.20260212_213836.log"),
		},
		{
			name:    "relative path with dot",
			logsDir: "./logs",
			base:    "engine",
			want:    filepath.Join(".", "logs", "engine.20260212_213836.log"),
		},
		{
			name:    "absolute path",
			logsDir: filepath.Join("/var", "log", "missionctl"),
			base:    "engine",
			want:    filepath.Join("/var", "log", "missionctl", "engine.20260212_213836.log"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := LogFilePath(tt.logsDir, tt.base, sessionStart)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestConsoleLogger_Level(t *testing.T) {
	var buf bytes.Buffer
	log := consoleLoggerTo(&buf, "warn")
	assert.Equal(t, zerolog.WarnLevel, log.GetLevel())

	log.Info().Msg("filtered")
	log.Warn().Msg("kept")
	assert.NotContains(t, buf.String(), "filtered")
	assert.Contains(t, buf.String(), "kept")
}

func TestConsoleLogger_BadLevelDefaultsToInfo(t *testing.T) {
	log := consoleLoggerTo(&bytes.Buffer{}, "chatty")
	assert.Equal(t, zerolog.InfoLevel, log.GetLevel())
}
