package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveMissionPath_BareNameUsesMissionsDir(t *testing.T) {
	t.Cleanup(viper.Reset)
	missionsDir := t.TempDir()
	viper.Set("missionsDir", missionsDir)

	path := filepath.Join(missionsDir, "munflyby.m")
	require.NoError(t, os.WriteFile(path, []byte("Mission { name = Mun Flyby }"), 0644))

	assert.Equal(t, path, resolveMissionPath("munflyby.m"))
}

func TestResolveMissionPath_ExistingPathWins(t *testing.T) {
	t.Cleanup(viper.Reset)
	viper.Set("missionsDir", t.TempDir())

	dir := t.TempDir()
	path := filepath.Join(dir, "local.m")
	require.NoError(t, os.WriteFile(path, []byte("Mission { name = Local }"), 0644))

	assert.Equal(t, path, resolveMissionPath(path))
}

func TestResolveMissionPath_MissingEverywherePassesThrough(t *testing.T) {
	t.Cleanup(viper.Reset)
	viper.Set("missionsDir", t.TempDir())

	assert.Equal(t, "nowhere.m", resolveMissionPath("nowhere.m"))
}
