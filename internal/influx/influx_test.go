package influx

import (
	"compress/gzip"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConnect_DisabledByConfig(t *testing.T) {
	t.Cleanup(viper.Reset)
	viper.Set("influx.enabled", false)

	r := NewReporter(zerolog.Nop(), filepath.Join(t.TempDir(), "backup.gz"))
	err := r.Connect()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "influx.enabled is false")
}

func TestWritePoint_FallsBackToBackupFile(t *testing.T) {
	backupPath := filepath.Join(t.TempDir(), "backup.gz")
	file, err := os.OpenFile(backupPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	require.NoError(t, err)

	r := NewReporter(zerolog.Nop(), backupPath)
	r.BackupWriter = gzip.NewWriter(file)

	require.NoError(t, r.ReportMissionCompleted("Mun Flyby", "V1", 50000, 125000))
	require.NoError(t, r.ReportGoalCredited("Mun Flyby", "Mun Flyby__PART1", "V1", 5000))
	require.NoError(t, r.ReportBalance("career", 125000))
	require.NoError(t, r.Close())
	require.NoError(t, file.Close())

	raw, err := os.Open(backupPath)
	require.NoError(t, err)
	defer raw.Close()
	zr, err := gzip.NewReader(raw)
	require.NoError(t, err)
	data, err := io.ReadAll(zr)
	require.NoError(t, err)

	text := string(data)
	assert.Contains(t, text, "mission_completed")
	assert.Contains(t, text, "goal_credited")
	assert.Contains(t, text, "balance")
	assert.Contains(t, text, `mission=Mun\ Flyby`)
}

func TestWritePoint_NoClientNoBackup(t *testing.T) {
	r := NewReporter(zerolog.Nop(), "")
	err := r.ReportBalance("career", 100)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "backup writer not available")
}
