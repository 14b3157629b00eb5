package storage

import (
	"os"
	"path/filepath"
	"testing"

	"popuptimer/internal/ui/preferences"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadSettingsFileMissingReturnsDefaults(t *testing.T) {
	settings, err := LoadSettingsFile(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, preferences.DefaultSettings(), settings)
}

func TestSaveThenLoadSettingsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", settingsFileName)
	want := preferences.DefaultSettings()
	want.Title = "Focus"
	want.WindowWidth = 320
	want.WindowHeight = 240
	want.Opacity = 0.5

	require.NoError(t, SaveSettingsFile(path, want))
	got, err := LoadSettingsFile(path)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestLoadSettingsFileIgnoresOutOfRangeFields(t *testing.T) {
	path := filepath.Join(t.TempDir(), settingsFileName)
	content := "title: \"\"\nwindow_width: 5\nwindow_height: 300\nopacity: 7\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	got, err := LoadSettingsFile(path)
	require.NoError(t, err)

	defaults := preferences.DefaultSettings()
	assert.Equal(t, defaults.Title, got.Title)
	assert.Equal(t, defaults.WindowWidth, got.WindowWidth)
	assert.Equal(t, float64(300), got.WindowHeight)
	assert.Equal(t, defaults.Opacity, got.Opacity)
}

func TestLoadSettingsFileRejectsMalformedYaml(t *testing.T) {
	path := filepath.Join(t.TempDir(), settingsFileName)
	require.NoError(t, os.WriteFile(path, []byte("window_width: [oops"), 0o644))

	got, err := LoadSettingsFile(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse settings yaml")
	assert.Equal(t, preferences.DefaultSettings(), got)
}

func TestSaveSettingsUsesUserConfigDir(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	t.Setenv("HOME", dir)
	t.Setenv("AppData", dir)

	settings := preferences.DefaultSettings()
	settings.Title = "Popup"
	require.NoError(t, SaveSettings("popuptimer-test", settings))

	path, err := SettingsPath("popuptimer-test")
	require.NoError(t, err)
	assert.FileExists(t, path)

	loaded, err := LoadSettings("popuptimer-test")
	require.NoError(t, err)
	assert.Equal(t, "Popup", loaded.Title)
}
