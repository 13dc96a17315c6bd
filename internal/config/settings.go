package config

import (
	"errors"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	toml "github.com/pelletier/go-toml/v2"
)

const (
	defaultStorageBackend       = "bbolt"
	defaultCommunityID          = "common"
	defaultAPITimeout           = 10 * time.Second
	defaultLegacyTimeoutChainID = "edgeware"
	defaultLegacyTimeout        = 10 * time.Second
	defaultMarkdownStyle        = "dark"
)

type Config struct {
	Storage   StorageConfig   `toml:"storage"`
	Logging   LoggingConfig   `toml:"logging"`
	Community CommunityConfig `toml:"community"`
	UI        UIConfig        `toml:"ui"`
	Signing   SigningConfig   `toml:"signing"`
	Flags     map[string]bool `toml:"flags"`
}

type StorageConfig struct {
	Backend string `toml:"backend"`
	Path    string `toml:"path"`
}

type LoggingConfig struct {
	Level string `toml:"level"`
}

type CommunityConfig struct {
	ID                string `toml:"id"`
	Fixture           string `toml:"fixture"`
	APIBaseURL        string `toml:"api_base_url"`
	APITimeoutSeconds int    `toml:"api_timeout_seconds"`
}

type UIConfig struct {
	HoverPreview  *bool  `toml:"hover_preview"`
	MarkdownStyle string `toml:"markdown_style"`
}

type SigningConfig struct {
	LegacyTimeoutChain   string `toml:"legacy_timeout_chain"`
	LegacyTimeoutSeconds int    `toml:"legacy_timeout_seconds"`
}

func DefaultConfig() Config {
	return Config{
		Storage: StorageConfig{
			Backend: defaultStorageBackend,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
		Community: CommunityConfig{
			ID: defaultCommunityID,
		},
		UI: UIConfig{
			MarkdownStyle: defaultMarkdownStyle,
		},
		Signing: SigningConfig{
			LegacyTimeoutChain: defaultLegacyTimeoutChainID,
		},
		Flags: map[string]bool{},
	}
}

func LoadConfig() (Config, error) {
	path, err := ConfigPath()
	if err != nil {
		return Config{}, err
	}
	return LoadConfigFromPath(path)
}

func LoadConfigFromPath(path string) (Config, error) {
	cfg := DefaultConfig()
	if err := readTOML(path, &cfg); err != nil {
		return Config{}, err
	}
	if cfg.Flags == nil {
		cfg.Flags = map[string]bool{}
	}
	return cfg, nil
}

func (c Config) StorageBackend() string {
	backend := strings.ToLower(strings.TrimSpace(c.Storage.Backend))
	if backend == "" {
		return defaultStorageBackend
	}
	return backend
}

// StoragePath resolves the configured storage path, falling back to the
// default file for the selected backend.
func (c Config) StoragePath() (string, error) {
	if path := strings.TrimSpace(c.Storage.Path); path != "" {
		return resolveConfigPath(path)
	}
	switch c.StorageBackend() {
	case "file":
		return StatePath()
	case "sqlite":
		return SQLitePath()
	default:
		return BboltPath()
	}
}

func (c Config) LogLevel() string {
	level := strings.TrimSpace(c.Logging.Level)
	if level == "" {
		return "info"
	}
	return level
}

func (c Config) CommunityID() string {
	id := strings.TrimSpace(c.Community.ID)
	if id == "" {
		return defaultCommunityID
	}
	return id
}

func (c Config) FixturePath() (string, error) {
	path := strings.TrimSpace(c.Community.Fixture)
	if path == "" {
		return "", nil
	}
	return resolveConfigPath(path)
}

func (c Config) APIBaseURL() string {
	return strings.TrimRight(strings.TrimSpace(c.Community.APIBaseURL), "/")
}

func (c Config) APITimeout() time.Duration {
	if c.Community.APITimeoutSeconds <= 0 {
		return defaultAPITimeout
	}
	return time.Duration(c.Community.APITimeoutSeconds) * time.Second
}

func (c Config) HoverPreviewEnabled() bool {
	if c.UI.HoverPreview == nil {
		return true
	}
	return *c.UI.HoverPreview
}

func (c Config) MarkdownStyle() string {
	style := strings.TrimSpace(c.UI.MarkdownStyle)
	if style == "" {
		return defaultMarkdownStyle
	}
	return style
}

func (c Config) LegacyTimeoutChain() string {
	chain := strings.TrimSpace(c.Signing.LegacyTimeoutChain)
	if chain == "" {
		return defaultLegacyTimeoutChainID
	}
	return chain
}

func (c Config) LegacyTimeout() time.Duration {
	if c.Signing.LegacyTimeoutSeconds <= 0 {
		return defaultLegacyTimeout
	}
	return time.Duration(c.Signing.LegacyTimeoutSeconds) * time.Second
}

func (c Config) EnabledFlags() []string {
	out := make([]string, 0, len(c.Flags))
	for name, on := range c.Flags {
		if on {
			out = append(out, normalizeFlagName(name))
		}
	}
	sort.Strings(out)
	return normalizedList(out)
}

func readTOML(path string, out any) error {
	path = strings.TrimSpace(path)
	if path == "" {
		return errors.New("path is required")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return err
	}
	if len(strings.TrimSpace(string(data))) == 0 {
		return nil
	}
	return toml.Unmarshal(data, out)
}

func resolveConfigPath(path string) (string, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return "", errors.New("path is required")
	}
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(home, path[2:]), nil
	}
	if filepath.IsAbs(path) {
		return path, nil
	}
	dataDir, err := DataDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dataDir, path), nil
}

func normalizedList(values []string) []string {
	if len(values) == 0 {
		return nil
	}
	out := make([]string, 0, len(values))
	seen := map[string]struct{}{}
	for _, raw := range values {
		value := strings.TrimSpace(raw)
		if value == "" {
			continue
		}
		if _, ok := seen[value]; ok {
			continue
		}
		seen[value] = struct{}{}
		out = append(out, value)
	}
	return out
}
