package main

import (
	"encoding/hex"
	"fmt"
	"io"
	"strings"
	"time"

	"charm.land/huh/v2"
	"github.com/spf13/cobra"

	"commonwealth/internal/txsign"
)

type signOptions struct {
	chain       string
	mode        string
	outcome     string
	delay       time.Duration
	description string
	payload     string
}

func newSignCommand(wiring commandWiring) *cobra.Command {
	opts := &signOptions{}
	cmd := &cobra.Command{
		Use:   "sign",
		Short: "Run the transaction-signing wizard against the demo chain",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := wiring.loadConfig()
			if err != nil {
				return err
			}
			outcome, err := txsign.ParseOutcome(opts.outcome)
			if err != nil {
				return err
			}
			rawMode := opts.mode
			if strings.TrimSpace(rawMode) == "" && wiring.interactive != nil && wiring.interactive() {
				rawMode, err = promptMode()
				if err != nil {
					return err
				}
			}
			mode, err := txsign.ParseMode(rawMode)
			if err != nil {
				return err
			}
			payload, err := decodePayload(opts.payload)
			if err != nil {
				return err
			}

			tx := txsign.Transaction{ChainID: strings.TrimSpace(opts.chain), Description: opts.description, Payload: payload}
			wizard := txsign.NewWizard(tx,
				txsign.WithLogger(commandLogger(cfg, cmd.ErrOrStderr())),
				txsign.WithLegacyTimeout(cfg.LegacyTimeoutChain(), cfg.LegacyTimeout()),
			)
			out := cmd.OutOrStdout()
			if mode == txsign.ModeCLI {
				fmt.Fprintf(out, "sign with:\n  %s\n", tx.SigningCommand())
			}
			chain := txsign.NewDemoChain(outcome, opts.delay)
			res, err := wizard.Run(cmd.Context(), mode, chain.Transact)
			if err != nil {
				return err
			}
			printResult(out, res)
			if res.Stage == txsign.StageRejected {
				return fmt.Errorf("transaction rejected: %w", res.Err)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&opts.chain, "chain", "ethereum", "chain id")
	cmd.Flags().StringVar(&opts.mode, "mode", "", "signing mode: web|cli (prompted when interactive)")
	cmd.Flags().StringVar(&opts.outcome, "outcome", string(txsign.OutcomeSuccess), "demo outcome: success|failed|error|silent")
	cmd.Flags().DurationVar(&opts.delay, "delay", 500*time.Millisecond, "demo chain latency")
	cmd.Flags().StringVar(&opts.description, "description", "", "description shown to the signer")
	cmd.Flags().StringVar(&opts.payload, "payload", "", "hex payload to sign")
	return cmd
}

func promptMode() (string, error) {
	var mode string
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("How would you like to sign?").
				Options(
					huh.NewOption("Web wallet", string(txsign.ModeWebWallet)),
					huh.NewOption("Command line", string(txsign.ModeCLI)),
				).
				Value(&mode),
		),
	)
	if err := form.Run(); err != nil {
		return "", err
	}
	return mode, nil
}

func decodePayload(raw string) ([]byte, error) {
	raw = strings.TrimPrefix(strings.TrimSpace(raw), "0x")
	if raw == "" {
		return nil, nil
	}
	payload, err := hex.DecodeString(raw)
	if err != nil {
		return nil, fmt.Errorf("payload: %w", err)
	}
	return payload, nil
}

func printResult(w io.Writer, res txsign.Result) {
	fmt.Fprintf(w, "stage: %s\n", res.Stage)
	fmt.Fprintf(w, "attempt: %s\n", res.AttemptID)
	if res.TimedOut {
		fmt.Fprintln(w, "confirmation: timed out, assumed included")
	}
	if res.BlockHash != "" {
		fmt.Fprintf(w, "block: %d %s\n", res.BlockNumber, res.BlockHash)
	}
	if !res.Timestamp.IsZero() {
		fmt.Fprintf(w, "time: %s\n", res.Timestamp.Format(time.RFC3339))
	}
	if res.Err != nil {
		fmt.Fprintf(w, "error: %v\n", res.Err)
	}
}
