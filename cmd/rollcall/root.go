package main

import (
	"github.com/spf13/cobra"

	"rollcall/internal/config"
)

// version 发布时通过 -ldflags "-X main.version=..." 注入
var version = "dev"

type serveFlags struct {
	port      int
	devMode   bool
	threshold int
	noBrowser bool
	findPort  bool
}

func newRootCommand() *cobra.Command {
	var configFlag string
	var flags serveFlags

	rootCmd := &cobra.Command{
		Use:           "rollcall",
		Short:         "Local attendance and quorum verification",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, configFlag, flags)
			if err != nil {
				return err
			}
			return runServe(cmd.Context(), cmd, cfg, flags.findPort)
		},
	}

	rootCmd.PersistentFlags().StringVarP(&configFlag, "config", "c", "", "Configuration file path (default: config.toml next to the executable)")
	rootCmd.Flags().IntVar(&flags.port, "port", 0, "HTTP port (overrides config)")
	rootCmd.Flags().BoolVar(&flags.devMode, "dev", false, "Development mode: redirect UI to the frontend dev server")
	rootCmd.Flags().IntVar(&flags.threshold, "threshold", 0, "Quorum threshold (overrides config)")
	rootCmd.Flags().BoolVar(&flags.noBrowser, "no-browser", false, "Do not open the browser on startup")
	rootCmd.Flags().BoolVar(&flags.findPort, "find-port", true, "Use the next free port when the configured one is busy")

	rootCmd.AddCommand(newConfigCommand(&configFlag))
	rootCmd.AddCommand(newRosterCommand())
	rootCmd.AddCommand(newVersionCommand())

	return rootCmd
}

// loadConfig 加载配置并应用显式设置的命令行参数
func loadConfig(cmd *cobra.Command, path string, flags serveFlags) (*config.AppConfig, error) {
	cfg, err := config.LoadConfig(path)
	if err != nil {
		return nil, err
	}

	fs := cmd.Flags()
	if fs.Changed("port") {
		cfg.Server.Port = flags.port
	}
	if fs.Changed("dev") {
		cfg.Server.DevMode = flags.devMode
	}
	if fs.Changed("threshold") {
		cfg.Quorum.Threshold = flags.threshold
	}
	if fs.Changed("no-browser") {
		cfg.Server.OpenBrowser = !flags.noBrowser
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
