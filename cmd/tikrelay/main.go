package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"tikrelay/internal/bus"
	"tikrelay/internal/channel"
	"tikrelay/internal/config"
	"tikrelay/internal/fetcher"
	"tikrelay/internal/health"
	"tikrelay/internal/relay"
	"tikrelay/internal/workspace"

	"github.com/spf13/cobra"
)

var (
	version    = "0.1.0"
	logger     *slog.Logger
	configPath string // overridable via --config flag
)

func main() {
	logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))

	root := &cobra.Command{
		Use:   "tikrelay",
		Short: "tikrelay: Telegram bot that fetches TikTok media",
		Long:  "tikrelay listens for TikTok links in Telegram chats, downloads the referenced media with yt-dlp, and sends it back as inline video, document, or photo album.",
	}

	root.PersistentFlags().StringVarP(&configPath, "config", "c", "", "path to config.yaml (default: ~/.tikrelay/config.yaml)")

	root.AddCommand(initCmd())
	root.AddCommand(runCmd())
	root.AddCommand(doctorCmd())
	root.AddCommand(versionCmd())

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

// resolveConfigPath returns the config path from --config flag, or the
// default path if a file exists there, or "" (defaults + environment).
func resolveConfigPath() string {
	if configPath != "" {
		return configPath
	}
	if _, err := os.Stat(config.DefaultConfigPath()); err == nil {
		return config.DefaultConfigPath()
	}
	return ""
}

func initCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Write a default config file",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfgDir := config.DefaultConfigDir()
			cfgPath := config.DefaultConfigPath()
			if err := os.MkdirAll(cfgDir, 0o755); err != nil {
				return err
			}
			if _, err := os.Stat(cfgPath); err == nil {
				return fmt.Errorf("config already exists at %s", cfgPath)
			}
			if err := config.Save(cfgPath, config.Defaults()); err != nil {
				return err
			}
			logger.Info("initialized", "config", cfgPath)
			fmt.Printf("Config written to %s\nSet TIKRELAY_TELEGRAM_TOKEN and run 'tikrelay run'.\n", cfgPath)
			return nil
		},
	}
}

func runCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Start the relay bot",
		RunE:  runRelay,
	}
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("tikrelay %s\n", version)
		},
	}
}

func runRelay(cmd *cobra.Command, args []string) error {
	cfgPath := resolveConfigPath()
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return err
	}

	logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: logLevel(cfg.Log.Level),
	}))

	if cfg.Telegram.Token == "" {
		return fmt.Errorf("no bot token: set TIKRELAY_TELEGRAM_TOKEN or telegram.token in %s", config.DefaultConfigPath())
	}

	if err := os.MkdirAll(cfg.Relay.WorkRoot, 0o755); err != nil {
		return fmt.Errorf("create work root: %w", err)
	}

	// Graceful shutdown on signals.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	messageBus := bus.New(cfg.Relay.BusBuffer, logger)
	defer messageBus.Close()

	runner := fetcher.NewRunner(fetcher.Options{
		Binary:        cfg.Download.Binary,
		Retries:       cfg.Download.Retries,
		SocketTimeout: time.Duration(cfg.Download.SocketTimeoutSeconds) * time.Second,
		UserAgent:     cfg.Download.UserAgent,
		Referer:       cfg.Download.Referer,
	}, logger)

	sendTimeout := time.Duration(cfg.Relay.SendTimeoutSeconds) * time.Second

	telegram := channel.NewTelegram(channel.TelegramConfig{
		Token:       cfg.Telegram.Token,
		AllowFrom:   cfg.Telegram.AllowFrom,
		SendTimeout: sendTimeout,
		Logger:      logger,
	})

	handler := relay.NewHandler(relay.HandlerConfig{
		Transport:   telegram,
		Fetcher:     runner,
		Workspaces:  workspace.NewManager(cfg.Relay.WorkRoot),
		SendTimeout: sendTimeout,
		Logger:      logger,
	})
	go handler.Run(ctx, messageBus)

	if cfg.Health.Enabled {
		srv := health.NewServer(health.Config{
			Host:   cfg.Health.Host,
			Port:   cfg.Health.Port,
			Logger: logger,
		})
		go func() {
			if err := srv.Start(ctx); err != nil {
				logger.Error("health server stopped", "err", err)
			}
		}()
	}

	logger.Info("tikrelay starting", "version", version)
	return telegram.Start(ctx, messageBus)
}

func logLevel(s string) slog.Level {
	switch s {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
