package main

import (
	"context"
	"errors"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"rollcall/internal/config"
	"rollcall/internal/logging"
	"rollcall/internal/server"
	"rollcall/internal/service/attendance"
	"rollcall/internal/service/store"
	"rollcall/internal/util"
)

const shutdownTimeout = 5 * time.Second

// runServe 启动本地服务并阻塞到收到退出信号
func runServe(ctx context.Context, cmd *cobra.Command, cfg *config.AppConfig, findPort bool) error {
	if ctx == nil {
		ctx = context.Background()
	}

	logger, err := logging.New(logging.Options{
		Level:   cfg.Log.Level,
		Format:  cfg.Log.Format,
		DevMode: cfg.Server.DevMode,
	})
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	svc, err := attendance.NewService(store.NewMemoryStore(), attendance.Options{
		Threshold:            cfg.Quorum.Threshold,
		ManualEntryMinLength: cfg.Roster.ManualEntryMinLength,
		TimeLayout:           cfg.Export.TimeLayout,
		Logger:               logger,
	})
	if err != nil {
		return err
	}

	port := cfg.Server.Port
	if findPort {
		if port, err = util.FindAvailablePort(cfg.Server.Port, 20); err != nil {
			return err
		}
		if port != cfg.Server.Port {
			logger.Warn("configured port busy, using next free port", zap.Int("configured", cfg.Server.Port), zap.Int("port", port))
		}
	}

	srv := server.NewServer(cfg, svc, logger)
	url := util.LocalURL(port)

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Run(util.ListenAddr(port))
	}()

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Rollcall %s\n", version)
	if cfg.Server.OpenBrowser && !cfg.Server.DevMode {
		fmt.Fprintf(out, "Opening browser: %s\n", url)
		if err := util.OpenBrowserWithFallback(url); err != nil {
			logger.Warn("open browser failed", zap.Error(err))
			fmt.Fprintf(out, "Could not open the browser, please visit: %s\n", url)
		}
	} else {
		fmt.Fprintf(out, "Visit: %s\n", url)
	}
	fmt.Fprintln(out, "Press Ctrl+C to stop")

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil && !errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("shutdown: %w", err)
	}
	return <-errCh
}
