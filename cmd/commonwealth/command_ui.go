package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"commonwealth/internal/app"
	"commonwealth/internal/config"
	"commonwealth/internal/logging"
	"commonwealth/internal/store"
	"commonwealth/internal/txsign"
)

func newUICommand(wiring commandWiring) *cobra.Command {
	var (
		community string
		chain     string
		outcome   string
		fixture   string
		ephemeral bool
	)
	cmd := &cobra.Command{
		Use:   "ui",
		Short: "Run the community sidebar in the terminal",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := wiring.loadConfig()
			if err != nil {
				return err
			}
			if strings.TrimSpace(fixture) != "" {
				cfg.Community.Fixture = fixture
			}
			if ephemeral {
				cfg.Storage.Backend = store.RepositoryBackendMemory
			}
			if strings.TrimSpace(community) == "" {
				community = cfg.CommunityID()
			}
			result, err := txsign.ParseOutcome(outcome)
			if err != nil {
				return err
			}

			logger, closeLog, err := openUILog(cfg)
			if err != nil {
				return err
			}
			defer closeLog()
			logger = logger.With(logging.F("session_id", logging.NewRequestID()))

			trees, closeStore, err := openTreeStore(wiring, cfg, logger)
			if err != nil {
				return err
			}
			defer closeStore()
			source, err := wiring.newSource(cfg)
			if err != nil {
				return err
			}

			if strings.TrimSpace(chain) == "" {
				chain = community
			}
			demo := txsign.NewDemoChain(result, 2*time.Second)
			tx := txsign.Transaction{
				ChainID:     chain,
				Description: fmt.Sprintf("Demo transaction on %s", chain),
				Payload:     []byte("commonwealth:" + community),
			}
			base := loadFlags(cfg)
			model := app.NewModel(community, source, trees, config.NewFlags(base),
				app.WithLogger(logger),
				app.WithHoverPreview(cfg.HoverPreviewEnabled()),
				app.WithMarkdownStyle(cfg.MarkdownStyle()),
				app.WithSigner(tx, demo.Transact, txsign.WithLegacyTimeout(cfg.LegacyTimeoutChain(), cfg.LegacyTimeout())),
			)

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			flagsPath, err := config.FlagsPath()
			if err != nil {
				flagsPath = ""
			}
			logger.Info("ui_started", logging.F("community", community), logging.F("backend", cfg.StorageBackend()))
			err = app.Run(ctx, model, flagsPath, cfg.Flags)
			if err != nil && ctx.Err() == context.Canceled {
				return nil
			}
			return err
		},
	}
	cmd.Flags().StringVar(&community, "community", "", "community id (defaults to config)")
	cmd.Flags().StringVar(&chain, "chain", "", "chain id for the signing demo (defaults to the community)")
	cmd.Flags().StringVar(&fixture, "fixture", "", "YAML community fixture to load instead of the API")
	cmd.Flags().BoolVar(&ephemeral, "ephemeral", false, "keep toggle state in memory only")
	cmd.Flags().StringVar(&outcome, "outcome", string(txsign.OutcomeSuccess), "signing demo outcome: success|failed|error|silent")
	return cmd
}

func openUILog(cfg config.Config) (logging.Logger, func(), error) {
	path, err := config.UILogPath()
	if err != nil {
		return nil, nil, err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, nil, err
	}
	file, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600)
	if err != nil {
		return nil, nil, err
	}
	return logging.New(file, logging.ParseLevel(cfg.LogLevel())), func() { _ = file.Close() }, nil
}
