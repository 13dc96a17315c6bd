package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
	"github.com/spf13/cobra"

	"commonwealth/internal/config"
)

const (
	configFormatJSON = "json"
	configFormatTOML = "toml"
)

type configOutput struct {
	ConfigPath string                 `json:"config_path,omitempty" toml:"config_path,omitempty"`
	FlagsPath  string                 `json:"flags_path,omitempty" toml:"flags_path,omitempty"`
	Storage    effectiveStorageConfig `json:"storage" toml:"storage"`
	Logging    effectiveLogging       `json:"logging" toml:"logging"`
	Community  effectiveCommunity     `json:"community" toml:"community"`
	UI         effectiveUIConfig      `json:"ui" toml:"ui"`
	Signing    effectiveSigning       `json:"signing" toml:"signing"`
	Flags      []string               `json:"flags" toml:"flags"`
}

type effectiveStorageConfig struct {
	Backend string `json:"backend" toml:"backend"`
	Path    string `json:"path" toml:"path"`
}

type effectiveLogging struct {
	Level string `json:"level" toml:"level"`
}

type effectiveCommunity struct {
	ID                string `json:"id" toml:"id"`
	Fixture           string `json:"fixture,omitempty" toml:"fixture,omitempty"`
	APIBaseURL        string `json:"api_base_url,omitempty" toml:"api_base_url,omitempty"`
	APITimeoutSeconds int    `json:"api_timeout_seconds" toml:"api_timeout_seconds"`
}

type effectiveUIConfig struct {
	HoverPreview  bool   `json:"hover_preview" toml:"hover_preview"`
	MarkdownStyle string `json:"markdown_style" toml:"markdown_style"`
}

type effectiveSigning struct {
	LegacyTimeoutChain   string `json:"legacy_timeout_chain" toml:"legacy_timeout_chain"`
	LegacyTimeoutSeconds int    `json:"legacy_timeout_seconds" toml:"legacy_timeout_seconds"`
}

func newConfigCommand(wiring commandWiring) *cobra.Command {
	var (
		defaults bool
		format   string
	)
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			resolved, err := resolveConfigFormat(format)
			if err != nil {
				return err
			}
			cfg := config.DefaultConfig()
			if !defaults {
				cfg, err = wiring.loadConfig()
				if err != nil {
					return err
				}
			}
			out, err := buildConfigOutput(cfg)
			if err != nil {
				return err
			}
			return writeConfig(cmd.OutOrStdout(), resolved, out)
		},
	}
	cmd.Flags().BoolVar(&defaults, "default", false, "print default config values")
	cmd.Flags().StringVar(&format, "format", configFormatJSON, "output format: json|toml")
	return cmd
}

func resolveConfigFormat(raw string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "", configFormatJSON:
		return configFormatJSON, nil
	case configFormatTOML:
		return configFormatTOML, nil
	}
	return "", fmt.Errorf("unsupported format %q (expected json or toml)", raw)
}

func buildConfigOutput(cfg config.Config) (configOutput, error) {
	out := configOutput{}
	if path, err := config.ConfigPath(); err == nil {
		out.ConfigPath = path
	}
	if path, err := config.FlagsPath(); err == nil {
		out.FlagsPath = path
	}
	storagePath, err := cfg.StoragePath()
	if err != nil {
		return configOutput{}, err
	}
	fixture, err := cfg.FixturePath()
	if err != nil {
		return configOutput{}, err
	}
	out.Storage = effectiveStorageConfig{Backend: cfg.StorageBackend(), Path: storagePath}
	out.Logging = effectiveLogging{Level: cfg.LogLevel()}
	out.Community = effectiveCommunity{
		ID:                cfg.CommunityID(),
		Fixture:           fixture,
		APIBaseURL:        cfg.APIBaseURL(),
		APITimeoutSeconds: int(cfg.APITimeout().Seconds()),
	}
	out.UI = effectiveUIConfig{HoverPreview: cfg.HoverPreviewEnabled(), MarkdownStyle: cfg.MarkdownStyle()}
	out.Signing = effectiveSigning{
		LegacyTimeoutChain:   cfg.LegacyTimeoutChain(),
		LegacyTimeoutSeconds: int(cfg.LegacyTimeout().Seconds()),
	}
	out.Flags = cfg.EnabledFlags()
	if out.Flags == nil {
		out.Flags = []string{}
	}
	return out, nil
}

func writeConfig(w io.Writer, format string, out configOutput) error {
	if format == configFormatTOML {
		data, err := toml.Marshal(out)
		if err != nil {
			return err
		}
		_, err = w.Write(data)
		return err
	}
	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}
