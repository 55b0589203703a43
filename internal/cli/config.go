package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

type ProviderConfig struct {
	BaseURL           string  `yaml:"base_url"`
	ClientID          string  `yaml:"client_id"`
	ClientSecret      string  `yaml:"client_secret"`
	RequestsPerSecond float64 `yaml:"requests_per_second"`
}

// Config is the client's settings file, ~/.wayfare/config.yaml by default.
type Config struct {
	ServerURL string         `yaml:"server_url"`
	Token     string         `yaml:"token"`
	AIKey     string         `yaml:"ai_key"`
	QueueDir  string         `yaml:"queue_dir"`
	Provider  ProviderConfig `yaml:"provider"`
}

func DefaultConfig(home string) Config {
	return Config{
		ServerURL: "http://localhost:8080",
		QueueDir:  filepath.Join(home, ".wayfare", "queue"),
		Provider: ProviderConfig{
			BaseURL:           "https://test.api.amadeus.com",
			RequestsPerSecond: 5,
		},
	}
}

func DefaultConfigPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("could not find the user's home directory: %w", err)
	}
	return filepath.Join(home, ".wayfare", "config.yaml"), nil
}

// LoadConfig reads path, falling back to defaults when it does not exist,
// then applies WAYFARE_* environment overrides.
func LoadConfig(path string) (Config, error) {
	home, _ := os.UserHomeDir()
	cfg := DefaultConfig(home)

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parse config %s: %w", path, err)
		}
	case !os.IsNotExist(err):
		return cfg, fmt.Errorf("read config %s: %w", path, err)
	}

	override(&cfg.ServerURL, "WAYFARE_SERVER_URL")
	override(&cfg.Token, "WAYFARE_TOKEN")
	override(&cfg.AIKey, "WAYFARE_AI_KEY")
	override(&cfg.QueueDir, "WAYFARE_QUEUE_DIR")
	override(&cfg.Provider.BaseURL, "WAYFARE_PROVIDER_URL")
	override(&cfg.Provider.ClientID, "WAYFARE_PROVIDER_CLIENT_ID")
	override(&cfg.Provider.ClientSecret, "WAYFARE_PROVIDER_CLIENT_SECRET")
	if v := os.Getenv("WAYFARE_PROVIDER_RPS"); v != "" {
		if rps, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.Provider.RequestsPerSecond = rps
		}
	}

	if strings.HasPrefix(cfg.QueueDir, "~/") {
		cfg.QueueDir = filepath.Join(home, cfg.QueueDir[2:])
	}
	return cfg, nil
}

// WriteDefault creates a config file with defaults if none exists.
func WriteDefault(path string) error {
	if _, err := os.Stat(path); err == nil {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}
	home, _ := os.UserHomeDir()
	data, err := yaml.Marshal(DefaultConfig(home))
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o600)
}

func override(dst *string, env string) {
	if v, ok := os.LookupEnv(env); ok {
		*dst = v
	}
}
