package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/caarlos0/env/v11"
	"github.com/pelletier/go-toml/v2"
)

// FileName 配置文件名
const FileName = "config.toml"

// AppConfig 应用配置
type AppConfig struct {
	Server ServerConfig `toml:"server"`
	Quorum QuorumConfig `toml:"quorum"`
	Roster RosterConfig `toml:"roster"`
	Export ExportConfig `toml:"export"`
	Log    LogConfig    `toml:"log"`
}

// ServerConfig 服务器配置
type ServerConfig struct {
	Port        int  `toml:"port" env:"ROLLCALL_PORT"`
	DevMode     bool `toml:"dev_mode" env:"ROLLCALL_DEV"`
	OpenBrowser bool `toml:"open_browser" env:"ROLLCALL_OPEN_BROWSER"`
}

// QuorumConfig 法定人数配置
type QuorumConfig struct {
	Threshold int `toml:"threshold" env:"ROLLCALL_QUORUM_THRESHOLD"`
}

// RosterConfig 花名册相关配置
type RosterConfig struct {
	ManualEntryMinLength int   `toml:"manual_entry_min_length"` // 手动输入学号的最小触发长度
	MaxUploadBytes       int64 `toml:"max_upload_bytes"`
}

// ExportConfig 导出配置
type ExportConfig struct {
	TimeLayout    string `toml:"time_layout" env:"ROLLCALL_TIME_LAYOUT"`
	DefaultFormat string `toml:"default_format"`
}

// LogConfig 日志配置
type LogConfig struct {
	Level  string `toml:"level" env:"ROLLCALL_LOG_LEVEL"`
	Format string `toml:"format" env:"ROLLCALL_LOG_FORMAT"` // auto/json/console
}

// LoadConfigInfo 配置加载元信息
type LoadConfigInfo struct {
	Path     string
	FromFile bool
}

// DefaultConfig 默认配置
func DefaultConfig() *AppConfig {
	return &AppConfig{
		Server: ServerConfig{
			Port:        20262,
			DevMode:     false,
			OpenBrowser: true,
		},
		Quorum: QuorumConfig{
			Threshold: 50,
		},
		Roster: RosterConfig{
			ManualEntryMinLength: 7,
			MaxUploadBytes:       8 << 20,
		},
		Export: ExportConfig{
			TimeLayout:    "2006-01-02 15:04:05",
			DefaultFormat: "csv",
		},
		Log: LogConfig{
			Level:  "info",
			Format: "auto",
		},
	}
}

// GetExeDir 获取可执行文件所在目录
func GetExeDir() (string, error) {
	exe, err := os.Executable()
	if err != nil {
		return "", err
	}
	return filepath.Dir(exe), nil
}

// DefaultPath 默认配置文件路径（可执行文件同目录）
func DefaultPath() string {
	exeDir, err := GetExeDir()
	if err != nil {
		// 无法获取可执行文件目录，使用当前目录
		exeDir = "."
	}
	return filepath.Join(exeDir, FileName)
}

// LoadConfigWithInfo 加载配置：默认值 -> config.toml -> 环境变量
// path 为空时使用可执行文件同目录下的 config.toml
func LoadConfigWithInfo(path string) (*AppConfig, LoadConfigInfo, error) {
	if path == "" {
		path = DefaultPath()
	}
	info := LoadConfigInfo{Path: path}
	config := DefaultConfig()

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := toml.Unmarshal(data, config); err != nil {
			return nil, info, fmt.Errorf("parse %s: %w", path, err)
		}
		info.FromFile = true
	case errors.Is(err, os.ErrNotExist):
		// 配置文件不存在，使用默认配置
	default:
		return nil, info, err
	}

	// 环境变量覆盖
	if err := env.Parse(config); err != nil {
		return nil, info, fmt.Errorf("parse env: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, info, err
	}

	return config, info, nil
}

// LoadConfig 加载配置
func LoadConfig(path string) (*AppConfig, error) {
	config, _, err := LoadConfigWithInfo(path)
	return config, err
}

// SaveConfig 保存配置到 path
func SaveConfig(path string, config *AppConfig) error {
	if path == "" {
		path = DefaultPath()
	}

	data, err := toml.Marshal(config)
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}
