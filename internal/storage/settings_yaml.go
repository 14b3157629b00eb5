package storage

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"popuptimer/internal/ui/preferences"

	"gopkg.in/yaml.v3"
)

const settingsFileName = "settings.yaml"

type yamlSettings struct {
	Title        string  `yaml:"title"`
	WindowWidth  float64 `yaml:"window_width"`
	WindowHeight float64 `yaml:"window_height"`
	Opacity      float64 `yaml:"opacity"`
}

// LoadSettings reads user preferences from the per-user config directory.
// If the config file does not exist, default settings are returned.
func LoadSettings(appName string) (preferences.Settings, error) {
	configPath, err := SettingsPath(appName)
	if err != nil {
		return preferences.DefaultSettings(), err
	}
	return LoadSettingsFile(configPath)
}

// SaveSettings writes user preferences to the per-user config directory.
func SaveSettings(appName string, settings preferences.Settings) error {
	configPath, err := SettingsPath(appName)
	if err != nil {
		return err
	}
	return SaveSettingsFile(configPath, settings)
}

// LoadSettingsFile reads preferences from an explicit path.
func LoadSettingsFile(configPath string) (preferences.Settings, error) {
	settings := preferences.DefaultSettings()

	rawData, err := os.ReadFile(configPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return settings, nil
		}
		return settings, fmt.Errorf("read settings file: %w", err)
	}

	var fileData yamlSettings
	if err := yaml.Unmarshal(rawData, &fileData); err != nil {
		return settings, fmt.Errorf("parse settings yaml: %w", err)
	}

	applyYamlSettings(&settings, fileData)
	return settings, nil
}

// SaveSettingsFile writes preferences to an explicit path.
func SaveSettingsFile(configPath string, settings preferences.Settings) error {
	if err := os.MkdirAll(filepath.Dir(configPath), 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}

	fileData := yamlSettings{
		Title:        settings.Title,
		WindowWidth:  settings.WindowWidth,
		WindowHeight: settings.WindowHeight,
		Opacity:      settings.Opacity,
	}

	serialized, err := yaml.Marshal(fileData)
	if err != nil {
		return fmt.Errorf("marshal settings yaml: %w", err)
	}

	if err := os.WriteFile(configPath, serialized, 0o644); err != nil {
		return fmt.Errorf("write settings file: %w", err)
	}

	return nil
}

// SettingsPath returns where settings for appName live.
func SettingsPath(appName string) (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("resolve user config dir: %w", err)
	}
	return filepath.Join(configDir, appName, settingsFileName), nil
}

func applyYamlSettings(settings *preferences.Settings, fileData yamlSettings) {
	if fileData.Title != "" {
		settings.Title = fileData.Title
	}
	if preferences.ValidWindowSide(fileData.WindowWidth) {
		settings.WindowWidth = fileData.WindowWidth
	}
	if preferences.ValidWindowSide(fileData.WindowHeight) {
		settings.WindowHeight = fileData.WindowHeight
	}
	if preferences.ValidOpacity(fileData.Opacity) {
		settings.Opacity = fileData.Opacity
	}
}
