package model

import "time"

// StopwatchConfig contains runtime settings for the tick loop.
type StopwatchConfig struct {
	TickInterval time.Duration
}

// WindowConfig describes the popup window.
type WindowConfig struct {
	Title   string
	Width   float32
	Height  float32
	Opacity uint8
}
