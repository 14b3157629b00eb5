package preferences

import (
	"time"

	"popuptimer/internal/core/model"
)

const (
	// MinOpacity and MaxOpacity bound the popup background opacity.
	MinOpacity = 0.3
	MaxOpacity = 1.0

	minWindowSide = 120
	maxWindowSide = 1200
)

// Settings defines editable user preferences.
type Settings struct {
	Title        string
	WindowWidth  float64
	WindowHeight float64
	Opacity      float64
	TickInterval time.Duration
}

// DefaultSettings returns the settings of a fresh install.
func DefaultSettings() Settings {
	return Settings{
		Title:        "Timer",
		WindowWidth:  250,
		WindowHeight: 200,
		Opacity:      0.80,
		TickInterval: time.Second,
	}
}

// ValidWindowSide reports whether a window dimension is acceptable.
func ValidWindowSide(value float64) bool {
	return value >= minWindowSide && value <= maxWindowSide
}

// ValidOpacity reports whether opacity is in range.
func ValidOpacity(value float64) bool {
	return value >= MinOpacity && value <= MaxOpacity
}

// StopwatchConfig converts settings for the tick loop.
func (settings Settings) StopwatchConfig() model.StopwatchConfig {
	interval := settings.TickInterval
	if interval <= 0 {
		interval = time.Second
	}
	return model.StopwatchConfig{TickInterval: interval}
}

// WindowConfig converts settings for the popup window.
func (settings Settings) WindowConfig() model.WindowConfig {
	return model.WindowConfig{
		Title:   settings.Title,
		Width:   float32(settings.WindowWidth),
		Height:  float32(settings.WindowHeight),
		Opacity: opacityToAlpha(settings.Opacity),
	}
}

func opacityToAlpha(opacity float64) uint8 {
	if opacity < 0 {
		opacity = 0
	}
	if opacity > 1 {
		opacity = 1
	}
	return uint8(opacity * 255)
}
