package config

import (
	"fmt"
)

// Explain returns the effective value at the given YAML-like path and its source.
//
// Supported paths include:
//
//	hotkey
//	move_mode_hotkey
//	palette_hotkey
//	display
//	xauthority
//	border_thickness
//	tab_strip_height
//	default_min_width
//	default_min_height
//	initial_monitor_rect.<x|y|width|height>
//	fallback_monitor_name
//	log_level
//	socket_path
func Explain(res *LoadResult, path string) (any, Source, error) {
	if res == nil || res.Config == nil {
		return nil, Source{}, fmt.Errorf("no config loaded")
	}
	if path == "" {
		return nil, Source{}, fmt.Errorf("path is empty")
	}

	value, err := lookupValue(res.Config, path)
	if err != nil {
		return nil, Source{}, err
	}

	if src, ok := res.Sources[path]; ok {
		return value, src, nil
	}
	return value, Source{Kind: SourceDefault}, nil
}

func lookupValue(cfg *Config, path string) (any, error) {
	switch path {
	case "hotkey":
		return cfg.Hotkey, nil
	case "move_mode_hotkey":
		return cfg.MoveModeHotkey, nil
	case "palette_hotkey":
		return cfg.PaletteHotkey, nil
	case "display":
		return cfg.Display, nil
	case "xauthority":
		return cfg.XAuthority, nil
	case "border_thickness":
		return cfg.BorderThickness, nil
	case "tab_strip_height":
		return cfg.TabStripHeight, nil
	case "default_min_width":
		return cfg.DefaultMinWidth, nil
	case "default_min_height":
		return cfg.DefaultMinHeight, nil
	case "initial_monitor_rect":
		return cfg.InitialMonitorRect, nil
	case "initial_monitor_rect.x":
		return cfg.InitialMonitorRect.X, nil
	case "initial_monitor_rect.y":
		return cfg.InitialMonitorRect.Y, nil
	case "initial_monitor_rect.width":
		return cfg.InitialMonitorRect.Width, nil
	case "initial_monitor_rect.height":
		return cfg.InitialMonitorRect.Height, nil
	case "fallback_monitor_name":
		return cfg.FallbackMonitorName, nil
	case "log_level":
		return cfg.LogLevel, nil
	case "socket_path":
		return cfg.SocketPath, nil
	default:
		return nil, fmt.Errorf("unknown path: %s", path)
	}
}
