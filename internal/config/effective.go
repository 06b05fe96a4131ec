package config

// BuildEffectiveConfig overlays a RawConfig (only the keys actually present
// in a YAML file) onto DefaultConfig(), returning the merged Config.
func BuildEffectiveConfig(raw RawConfig) (*Config, error) {
	cfg := DefaultConfig()

	if raw.Hotkey != nil {
		cfg.Hotkey = *raw.Hotkey
	}
	if raw.MoveModeHotkey != nil {
		cfg.MoveModeHotkey = *raw.MoveModeHotkey
	}
	if raw.PaletteHotkey != nil {
		cfg.PaletteHotkey = *raw.PaletteHotkey
	}
	if raw.Display != nil {
		cfg.Display = *raw.Display
	}
	if raw.XAuthority != nil {
		cfg.XAuthority = *raw.XAuthority
	}
	if raw.BorderThickness != nil {
		cfg.BorderThickness = *raw.BorderThickness
	}
	if raw.TabStripHeight != nil {
		cfg.TabStripHeight = *raw.TabStripHeight
	}
	if raw.DefaultMinWidth != nil {
		cfg.DefaultMinWidth = *raw.DefaultMinWidth
	}
	if raw.DefaultMinHeight != nil {
		cfg.DefaultMinHeight = *raw.DefaultMinHeight
	}
	if raw.InitialMonitorRect != nil {
		r := raw.InitialMonitorRect
		if r.X != nil {
			cfg.InitialMonitorRect.X = *r.X
		}
		if r.Y != nil {
			cfg.InitialMonitorRect.Y = *r.Y
		}
		if r.Width != nil {
			cfg.InitialMonitorRect.Width = *r.Width
		}
		if r.Height != nil {
			cfg.InitialMonitorRect.Height = *r.Height
		}
	}
	if raw.FallbackMonitorName != nil {
		cfg.FallbackMonitorName = *raw.FallbackMonitorName
	}
	if raw.LogLevel != nil {
		cfg.LogLevel = *raw.LogLevel
	}
	if raw.SocketPath != nil {
		cfg.SocketPath = *raw.SocketPath
	}

	return cfg, nil
}
