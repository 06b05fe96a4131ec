package config

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// IncludeList supports either:
//
//	include: "/path/to/file.yaml"
//
// or:
//
//	include:
//	  - "/path/to/file.yaml"
//	  - "/path/to/dir"
type IncludeList []string

func (l *IncludeList) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case 0:
		*l = nil
		return nil
	case yaml.ScalarNode:
		if value.Tag != "!!str" {
			return fmt.Errorf("include must be a string or list of strings")
		}
		*l = []string{value.Value}
		return nil
	case yaml.SequenceNode:
		out := make([]string, 0, len(value.Content))
		for _, item := range value.Content {
			if item.Kind != yaml.ScalarNode || item.Tag != "!!str" {
				return fmt.Errorf("include entries must be strings")
			}
			out = append(out, item.Value)
		}
		*l = out
		return nil
	default:
		return fmt.Errorf("include must be a string or list of strings")
	}
}

type RawRect struct {
	X      *int `yaml:"x"`
	Y      *int `yaml:"y"`
	Width  *int `yaml:"width"`
	Height *int `yaml:"height"`
}

type RawConfig struct {
	Include IncludeList `yaml:"include"`

	Hotkey         *string `yaml:"hotkey"`
	MoveModeHotkey *string `yaml:"move_mode_hotkey"`
	PaletteHotkey  *string `yaml:"palette_hotkey"`

	Display    *string `yaml:"display"`
	XAuthority *string `yaml:"xauthority"`

	BorderThickness  *int `yaml:"border_thickness"`
	TabStripHeight   *int `yaml:"tab_strip_height"`
	DefaultMinWidth  *int `yaml:"default_min_width"`
	DefaultMinHeight *int `yaml:"default_min_height"`

	InitialMonitorRect  *RawRect `yaml:"initial_monitor_rect"`
	FallbackMonitorName *string  `yaml:"fallback_monitor_name"`

	LogLevel   *string `yaml:"log_level"`
	SocketPath *string `yaml:"socket_path"`
}

func (c RawConfig) merge(overlay RawConfig) RawConfig {
	out := c

	if overlay.Hotkey != nil {
		out.Hotkey = overlay.Hotkey
	}
	if overlay.MoveModeHotkey != nil {
		out.MoveModeHotkey = overlay.MoveModeHotkey
	}
	if overlay.PaletteHotkey != nil {
		out.PaletteHotkey = overlay.PaletteHotkey
	}
	if overlay.Display != nil {
		out.Display = overlay.Display
	}
	if overlay.XAuthority != nil {
		out.XAuthority = overlay.XAuthority
	}
	if overlay.BorderThickness != nil {
		out.BorderThickness = overlay.BorderThickness
	}
	if overlay.TabStripHeight != nil {
		out.TabStripHeight = overlay.TabStripHeight
	}
	if overlay.DefaultMinWidth != nil {
		out.DefaultMinWidth = overlay.DefaultMinWidth
	}
	if overlay.DefaultMinHeight != nil {
		out.DefaultMinHeight = overlay.DefaultMinHeight
	}
	if overlay.InitialMonitorRect != nil {
		if out.InitialMonitorRect == nil {
			out.InitialMonitorRect = &RawRect{}
		}
		merged := mergeRawRect(*out.InitialMonitorRect, *overlay.InitialMonitorRect)
		out.InitialMonitorRect = &merged
	}
	if overlay.FallbackMonitorName != nil {
		out.FallbackMonitorName = overlay.FallbackMonitorName
	}
	if overlay.LogLevel != nil {
		out.LogLevel = overlay.LogLevel
	}
	if overlay.SocketPath != nil {
		out.SocketPath = overlay.SocketPath
	}

	return out
}

func mergeRawRect(base RawRect, overlay RawRect) RawRect {
	out := base
	if overlay.X != nil {
		out.X = overlay.X
	}
	if overlay.Y != nil {
		out.Y = overlay.Y
	}
	if overlay.Width != nil {
		out.Width = overlay.Width
	}
	if overlay.Height != nil {
		out.Height = overlay.Height
	}
	return out
}
