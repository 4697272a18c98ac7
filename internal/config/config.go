// Package config loads the application's YAML settings file, following the
// same "zero value if absent, env vars override secrets" convention the rest
// of this stack uses for every binary (collector, trainer, bot, API).
package config

import (
	"os"

	"gopkg.in/yaml.v3"
)

// Config holds every setting shared by the collector, trainer, generator,
// bot, and API binaries. Each binary only reads the sub-section it needs.
type Config struct {
	Order       int            `yaml:"order"`
	ModelPath   string         `yaml:"model_path"`
	LogDir      string         `yaml:"log_dir"`
	RetrainCron string         `yaml:"retrain_cron"`
	LogLevel    string         `yaml:"log_level"`
	Twitch      TwitchConfig   `yaml:"twitch"`
	Discord     DiscordConfig  `yaml:"discord"`
	Postgres    PostgresConfig `yaml:"postgres"`
	HTTP        HTTPConfig     `yaml:"http"`
}

// TwitchConfig configures the IRC log collector.
type TwitchConfig struct {
	Channels   []string `yaml:"channels"`
	Username   string   `yaml:"username"`
	OAuthToken string   `yaml:"oauth_token"` // overridden by TWITCH_OAUTH_TOKEN
}

// DiscordConfig configures the chat bot frontend.
type DiscordConfig struct {
	Token     string `yaml:"token"` // overridden by DISCORD_TOKEN
	ChannelID string `yaml:"channel_id"`
	SampleK   int    `yaml:"sample_k"`
}

// PostgresConfig configures the database-ingest tool and the log API's store.
type PostgresConfig struct {
	DSN string `yaml:"dsn"` // overridden by CSS_POSTGRES_DSN
}

// HTTPConfig configures the HTTP/GraphQL log API.
type HTTPConfig struct {
	Addr string `yaml:"addr"`
}

// Default returns the configuration used when no settings file is present.
func Default() *Config {
	return &Config{
		Order:       3,
		ModelPath:   "chain.bin",
		LogDir:      "logs",
		RetrainCron: "0 4 * * *",
		LogLevel:    "info",
		Discord:     DiscordConfig{SampleK: 4},
		HTTP:        HTTPConfig{Addr: ":8080"},
	}
}

// Load reads path. If it doesn't exist, Load returns Default() with no
// error: a missing config file just means "run with defaults".
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			applyEnvOverrides(cfg)
			return cfg, nil
		}
		return nil, err
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	applyEnvOverrides(cfg)
	return cfg, nil
}

// Save writes cfg to path as YAML.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// applyEnvOverrides lets secrets be supplied out-of-band instead of checked
// into the settings file.
func applyEnvOverrides(cfg *Config) {
	cfg.Twitch.OAuthToken = envOr("TWITCH_OAUTH_TOKEN", cfg.Twitch.OAuthToken)
	cfg.Discord.Token = envOr("DISCORD_TOKEN", cfg.Discord.Token)
	cfg.Postgres.DSN = envOr("CSS_POSTGRES_DSN", cfg.Postgres.DSN)
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
