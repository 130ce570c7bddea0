// Package config handles viewer configuration loading and management.
package config

import (
	"errors"
	"fmt"

	"github.com/taigrr/facet/pkg/input"
	"github.com/taigrr/facet/pkg/math3d"
)

// Config holds all viewer settings.
type Config struct {
	View    ViewConfig    `yaml:"view"`
	Input   InputConfig   `yaml:"input"`
	Window  WindowConfig  `yaml:"window"`
	Logging LoggingConfig `yaml:"logging"`
}

// ViewConfig holds rendering settings shared by every frontend.
type ViewConfig struct {
	FPS        int        `yaml:"fps"`
	Background [3]float64 `yaml:"background"` // RGB in [0,1]
	Light      [3]float64 `yaml:"light"`      // direction toward the light, normalized on use
	ShowHUD    bool       `yaml:"show_hud"`
}

// InputConfig holds gesture thresholds and sensitivities.
type InputConfig struct {
	ClickThreshold    float64 `yaml:"click_threshold"`
	TapThreshold      float64 `yaml:"tap_threshold"`
	RotateSensitivity float64 `yaml:"rotate_sensitivity"`
	ZoomSpeed         float64 `yaml:"zoom_speed"`
	KeyZoomFactor     float64 `yaml:"key_zoom_factor"`
}

// WindowConfig holds desktop window settings.
type WindowConfig struct {
	Width  int    `yaml:"width"`
	Height int    `yaml:"height"`
	Title  string `yaml:"title"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level      string `yaml:"level"`
	File       string `yaml:"file"`
	MaxSizeMB  int    `yaml:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups"`
	MaxAgeDays int    `yaml:"max_age_days"`
	Compress   bool   `yaml:"compress"`
}

// Default returns a Config with the stock viewer settings.
func Default() *Config {
	in := input.DefaultConfig()
	return &Config{
		View: ViewConfig{
			FPS:        in.FPS,
			Background: [3]float64{0.1, 0.1, 0.15},
			Light:      [3]float64{1, 1, 1},
			ShowHUD:    true,
		},
		Input: InputConfig{
			ClickThreshold:    in.ClickThreshold,
			TapThreshold:      in.TapThreshold,
			RotateSensitivity: in.RotateSensitivity,
			ZoomSpeed:         in.ZoomSpeed,
			KeyZoomFactor:     in.KeyZoomFactor,
		},
		Window: WindowConfig{
			Width:  960,
			Height: 720,
			Title:  "facet",
		},
		Logging: LoggingConfig{
			Level:      "info",
			MaxSizeMB:  50,
			MaxBackups: 3,
			MaxAgeDays: 7,
			Compress:   true,
		},
	}
}

var (
	ErrFPS       = errors.New("fps must be positive")
	ErrSize      = errors.New("window size must be positive")
	ErrThreshold = errors.New("thresholds must not be negative")
	ErrRate      = errors.New("sensitivities must be positive")
	ErrLight     = errors.New("light direction must be non-zero")
)

// Validate reports the first setting that cannot drive the viewer.
func (c *Config) Validate() error {
	switch {
	case c.View.FPS <= 0:
		return fmt.Errorf("view.fps %d: %w", c.View.FPS, ErrFPS)
	case c.Window.Width <= 0 || c.Window.Height <= 0:
		return fmt.Errorf("window %dx%d: %w", c.Window.Width, c.Window.Height, ErrSize)
	case c.Input.ClickThreshold < 0 || c.Input.TapThreshold < 0:
		return fmt.Errorf("input thresholds %v/%v: %w", c.Input.ClickThreshold, c.Input.TapThreshold, ErrThreshold)
	case c.Input.RotateSensitivity <= 0 || c.Input.ZoomSpeed <= 0 || c.Input.KeyZoomFactor <= 0:
		return fmt.Errorf("input.rotate_sensitivity %v, zoom_speed %v, key_zoom_factor %v: %w",
			c.Input.RotateSensitivity, c.Input.ZoomSpeed, c.Input.KeyZoomFactor, ErrRate)
	case c.LightDir() == math3d.Zero3():
		return fmt.Errorf("view.light %v: %w", c.View.Light, ErrLight)
	}
	return nil
}

// InputTuning converts the input section for the dispatcher.
func (c *Config) InputTuning() input.Config {
	return input.Config{
		ClickThreshold:    c.Input.ClickThreshold,
		TapThreshold:      c.Input.TapThreshold,
		RotateSensitivity: c.Input.RotateSensitivity,
		ZoomSpeed:         c.Input.ZoomSpeed,
		KeyZoomFactor:     c.Input.KeyZoomFactor,
		FPS:               c.View.FPS,
	}
}

// LightDir returns the normalized light direction.
func (c *Config) LightDir() math3d.Vec3 {
	l := c.View.Light
	return math3d.V3(l[0], l[1], l[2]).Normalize()
}

// BackgroundColor returns the clear color.
func (c *Config) BackgroundColor() math3d.Vec3 {
	b := c.View.Background
	return math3d.V3(b[0], b[1], b[2])
}
