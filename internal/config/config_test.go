package config

import (
	"path/filepath"
	"testing"
)

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "does-not-exist.yaml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Order != Default().Order {
		t.Errorf("Order = %d, want default %d", cfg.Order, Default().Order)
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.yaml")
	cfg := Default()
	cfg.Order = 4
	cfg.Twitch.Channels = []string{"xqc", "forsen"}
	cfg.HTTP.Addr = ":9090"

	if err := Save(path, cfg); err != nil {
		t.Fatalf("Save: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if loaded.Order != 4 {
		t.Errorf("Order = %d, want 4", loaded.Order)
	}
	if len(loaded.Twitch.Channels) != 2 || loaded.Twitch.Channels[0] != "xqc" {
		t.Errorf("Twitch.Channels = %v, want [xqc forsen]", loaded.Twitch.Channels)
	}
	if loaded.HTTP.Addr != ":9090" {
		t.Errorf("HTTP.Addr = %q, want :9090", loaded.HTTP.Addr)
	}
}

func TestEnvOverridesSecrets(t *testing.T) {
	t.Setenv("TWITCH_OAUTH_TOKEN", "oauth:fromenv")
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Twitch.OAuthToken != "oauth:fromenv" {
		t.Errorf("Twitch.OAuthToken = %q, want oauth:fromenv", cfg.Twitch.OAuthToken)
	}
}
