package main

import (
	"io"
	"os"

	"github.com/spf13/cobra"

	"commonwealth/internal/config"
	"commonwealth/internal/datasource"
	"commonwealth/internal/store"
)

type commandWiring struct {
	stdout      io.Writer
	stderr      io.Writer
	loadConfig  func() (config.Config, error)
	openRepo    func(cfg config.Config) (store.Repository, error)
	newSource   func(cfg config.Config) (datasource.Source, error)
	interactive func() bool
	version     string
}

func defaultCommandWiring(stdout, stderr io.Writer) commandWiring {
	if stdout == nil {
		stdout = os.Stdout
	}
	if stderr == nil {
		stderr = os.Stderr
	}
	return commandWiring{
		stdout:      stdout,
		stderr:      stderr,
		loadConfig:  config.LoadConfig,
		openRepo:    openRepository,
		newSource:   datasource.FromConfig,
		interactive: stdinIsTerminal,
		version:     buildVersion(),
	}
}

func newRootCommand(wiring commandWiring) *cobra.Command {
	root := &cobra.Command{
		Use:           "commonwealth",
		Short:         "Community sidebar and transaction signing in the terminal",
		Version:       wiring.version,
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	root.SetOut(wiring.stdout)
	root.SetErr(wiring.stderr)
	root.AddCommand(
		newUICommand(wiring),
		newTreeCommand(wiring),
		newConfigCommand(wiring),
		newSignCommand(wiring),
	)
	return root
}
