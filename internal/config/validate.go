package config

import (
	"errors"
	"fmt"
	"strings"
)

// Validate 校验配置
func (c *AppConfig) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be between 1 and 65535, got %d", c.Server.Port)
	}
	if c.Quorum.Threshold <= 0 {
		return fmt.Errorf("quorum.threshold must be positive, got %d", c.Quorum.Threshold)
	}
	if c.Roster.ManualEntryMinLength < 1 {
		return errors.New("roster.manual_entry_min_length must be at least 1")
	}
	if c.Roster.MaxUploadBytes <= 0 {
		return errors.New("roster.max_upload_bytes must be positive")
	}
	if strings.TrimSpace(c.Export.TimeLayout) == "" {
		return errors.New("export.time_layout must be set")
	}
	switch c.Export.DefaultFormat {
	case "csv", "xlsx":
	default:
		return fmt.Errorf("export.default_format must be csv or xlsx, got %q", c.Export.DefaultFormat)
	}
	switch c.Log.Format {
	case "auto", "json", "console":
	default:
		return fmt.Errorf("log.format must be auto, json or console, got %q", c.Log.Format)
	}
	return nil
}
