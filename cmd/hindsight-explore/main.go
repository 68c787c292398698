package main

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/csheth/hindsight-explore/internal/config"
	"github.com/csheth/hindsight-explore/internal/hindsight"
	"github.com/csheth/hindsight-explore/internal/logging"
	"github.com/csheth/hindsight-explore/internal/tui"
)

// version is overridden at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, color.RedString("error: %v", err))
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "hindsight-explore",
		Short:         "Browse hindsight memory banks from the terminal",
		Long:          "A keyboard driven explorer for the banks, memories, entities and documents of a hindsight service, with recall and reflect queries.",
		Version:       version,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(cmd.Flags(), config.DefaultSources())
			if err != nil {
				return err
			}
			return run(cfg)
		},
	}
	config.RegisterFlags(cmd.Flags())
	return cmd
}

func run(cfg config.Config) error {
	logger, err := logging.New(cfg.LogFile, cfg.LogLevel)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	client, err := hindsight.New(hindsight.Config{
		BaseURL: cfg.APIURL,
		APIKey:  cfg.APIKey,
		Timeout: cfg.RequestTimeout,
		Logger:  logger,
	})
	if err != nil {
		return err
	}
	logger.Info("starting explorer",
		zap.String("version", version),
		zap.String("api_url", client.BaseURL()),
		zap.String("config_file", cfg.File),
		zap.Duration("refresh_interval", cfg.RefreshInterval),
		zap.Bool("auto_refresh", cfg.AutoRefresh))

	opts := []tea.ProgramOption{}
	if cfg.AltScreen {
		opts = append(opts, tea.WithAltScreen())
	}
	program := tea.NewProgram(
		tui.New(tui.Config{
			Client:             client,
			Logger:             logger,
			RefreshInterval:    cfg.RefreshInterval,
			DisableAutoRefresh: !cfg.AutoRefresh,
			PollInterval:       cfg.PollInterval,
			RequestTimeout:     cfg.RequestTimeout,
		}),
		opts...,
	)

	if _, err := program.Run(); err != nil {
		logger.Error("program error", zap.Error(err))
		return fmt.Errorf("program error: %w", err)
	}
	return nil
}
