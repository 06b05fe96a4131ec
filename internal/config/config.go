// Package config loads termtile's YAML configuration: the Hub's geometry
// defaults, the initial monitor, and the hotkey/IPC settings the daemon
// and CLI need around it.
package config

import (
	"fmt"
	"os"
	"path/filepath"
)

// Rect mirrors hub/geom.Rect in YAML form so config has no import on
// internal/hub; daemon.New converts it at the daemon's wiring boundary.
type Rect struct {
	X      int `yaml:"x"`
	Y      int `yaml:"y"`
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
}

// Config holds the application configuration.
type Config struct {
	Hotkey         string `yaml:"hotkey"`
	MoveModeHotkey string `yaml:"move_mode_hotkey"`
	PaletteHotkey  string `yaml:"palette_hotkey"`

	Display    string `yaml:"display,omitempty"`
	XAuthority string `yaml:"xauthority,omitempty"`

	// BorderThickness is subtracted from every tiling window's final
	// rectangle on all four sides before it reaches the shim.
	BorderThickness int `yaml:"border_thickness"`
	// TabStripHeight is the space a tabbed container reserves above
	// its active child's content rectangle.
	TabStripHeight int `yaml:"tab_strip_height"`
	// DefaultMinWidth/DefaultMinHeight are the fallback minimum size a
	// window uses when it has no explicit constraint set.
	DefaultMinWidth  int `yaml:"default_min_width"`
	DefaultMinHeight int `yaml:"default_min_height"`

	// InitialMonitorRect seeds monitor 0 before the X11 shim reports
	// real RandR output geometry.
	InitialMonitorRect Rect `yaml:"initial_monitor_rect"`
	// FallbackMonitorName names the monitor the daemon's monitor sync
	// hands a vanished output's workspaces to, when that monitor is alive.
	FallbackMonitorName string `yaml:"fallback_monitor_name"`

	LogLevel string `yaml:"log_level"`

	SocketPath string `yaml:"socket_path,omitempty"`
}

func DefaultConfig() *Config {
	return &Config{
		Hotkey:           "Mod4-Mod1-t",
		MoveModeHotkey:   "Mod4-Mod1-r",
		PaletteHotkey:    "Mod4-Mod1-g",
		BorderThickness:  2,
		TabStripHeight:   20,
		DefaultMinWidth:  100,
		DefaultMinHeight: 60,
		InitialMonitorRect: Rect{
			X: 0, Y: 0, Width: 1920, Height: 1080,
		},
		FallbackMonitorName: "primary",
		LogLevel:            "info",
	}
}

// DefaultConfigPath returns the standard config file location.
func DefaultConfigPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(homeDir, ".config", "termtile", "config.yaml"), nil
}

// Save writes the configuration to the standard location.
func (c *Config) Save() error {
	if err := c.Validate(); err != nil {
		return err
	}
	path, err := DefaultConfigPath()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	data, err := marshalYAML(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// ValidationError reports the YAML path and source location (when known)
// of an invalid configuration value.
type ValidationError struct {
	Path   string
	Source Source
	Err    error
}

func (e *ValidationError) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Source.Kind == SourceFile && e.Source.File != "" && e.Source.Line > 0 {
		return fmt.Sprintf("%s:%d:%d: %s: %v", e.Source.File, e.Source.Line, e.Source.Column, e.Path, e.Err)
	}
	if e.Path != "" {
		return fmt.Sprintf("%s: %v", e.Path, e.Err)
	}
	return e.Err.Error()
}

// Validate performs strict validation of the effective configuration.
func (c *Config) Validate() error {
	if c.Hotkey == "" {
		return &ValidationError{Path: "hotkey", Err: fmt.Errorf("hotkey is required")}
	}
	if c.BorderThickness < 0 {
		return &ValidationError{Path: "border_thickness", Err: fmt.Errorf("border_thickness must be >= 0")}
	}
	if c.TabStripHeight < 0 {
		return &ValidationError{Path: "tab_strip_height", Err: fmt.Errorf("tab_strip_height must be >= 0")}
	}
	if c.DefaultMinWidth < 0 || c.DefaultMinHeight < 0 {
		return &ValidationError{Path: "default_min_width", Err: fmt.Errorf("default_min_width/default_min_height must be >= 0")}
	}
	if c.InitialMonitorRect.Width <= 0 || c.InitialMonitorRect.Height <= 0 {
		return &ValidationError{Path: "initial_monitor_rect", Err: fmt.Errorf("initial_monitor_rect width/height must be > 0")}
	}
	if c.FallbackMonitorName == "" {
		return &ValidationError{Path: "fallback_monitor_name", Err: fmt.Errorf("fallback_monitor_name is required")}
	}
	switch c.LogLevel {
	case "debug", "info", "warning", "error":
	default:
		return &ValidationError{Path: "log_level", Err: fmt.Errorf("log_level must be one of: debug, info, warning, error")}
	}
	return nil
}
