package shared

import (
	"os"
	"path/filepath"
	"testing"
)

func TestConfig(t *testing.T) {
	t.Run("DefaultConfig", func(t *testing.T) {
		config := DefaultConfig()

		if config.Database.Path != "./sndx.db" {
			t.Errorf("expected database path ./sndx.db, got %s", config.Database.Path)
		}

		if config.Server.Port != 3000 {
			t.Errorf("expected server port 3000, got %d", config.Server.Port)
		}

		if config.API.BaseURL != "https://api.soundcloud.com" {
			t.Errorf("expected api base URL https://api.soundcloud.com, got %s", config.API.BaseURL)
		}

		if config.API.AuthBaseURL != "https://secure.soundcloud.com" {
			t.Errorf("expected auth base URL https://secure.soundcloud.com, got %s", config.API.AuthBaseURL)
		}

		if config.API.PageSize != 50 {
			t.Errorf("expected page size 50, got %d", config.API.PageSize)
		}

		if config.Credentials.SoundCloud.ClientID != "your_soundcloud_client_id" {
			t.Errorf("expected placeholder client_id, got %s", config.Credentials.SoundCloud.ClientID)
		}
	})

	t.Run("CreateConfigFile", func(t *testing.T) {
		tmpDir := t.TempDir()
		configPath := filepath.Join(tmpDir, "config.toml")

		if err := CreateConfigFile(configPath); err != nil {
			t.Fatalf("failed to create config file: %v", err)
		}

		if _, err := os.Stat(configPath); err != nil {
			t.Fatalf("config file should exist: %v", err)
		}

		config, err := LoadConfig(configPath)
		if err != nil {
			t.Fatalf("failed to load created config: %v", err)
		}

		defaultConfig := DefaultConfig()
		if config.Database.Path != defaultConfig.Database.Path {
			t.Errorf("created config database path doesn't match default")
		}

		if err := CreateConfigFile(configPath); err == nil {
			t.Error("creating config file again should fail")
		}
	})

	t.Run("LoadConfig", func(t *testing.T) {
		tmpDir := t.TempDir()
		configPath := filepath.Join(tmpDir, "config.toml")

		content := `
[credentials.soundcloud]
client_id = "real_id"
client_secret = "real_secret"
redirect_uri = "http://localhost:9999/callback"

[api]
base_url = "https://api.example.com"
page_size = 25
rate_limit = 2.5
`
		if err := os.WriteFile(configPath, []byte(content), 0644); err != nil {
			t.Fatalf("failed to write config: %v", err)
		}

		config, err := LoadConfig(configPath)
		if err != nil {
			t.Fatalf("failed to load config: %v", err)
		}

		if config.Credentials.SoundCloud.ClientID != "real_id" {
			t.Errorf("expected client_id real_id, got %s", config.Credentials.SoundCloud.ClientID)
		}
		if config.API.PageSize != 25 {
			t.Errorf("expected page size 25, got %d", config.API.PageSize)
		}
		if config.API.RateLimit != 2.5 {
			t.Errorf("expected rate limit 2.5, got %f", config.API.RateLimit)
		}
	})

	t.Run("LoadConfig Missing File", func(t *testing.T) {
		if _, err := LoadConfig("/nonexistent/config.toml"); err == nil {
			t.Error("expected error for missing config file")
		}
	})

	t.Run("SaveConfig Round Trip", func(t *testing.T) {
		tmpDir := t.TempDir()
		configPath := filepath.Join(tmpDir, "config.toml")

		config := DefaultConfig()
		config.Credentials.SoundCloud.APIKey = "imported_key"

		if err := SaveConfig(configPath, config); err != nil {
			t.Fatalf("failed to save config: %v", err)
		}

		loaded, err := LoadConfig(configPath)
		if err != nil {
			t.Fatalf("failed to reload config: %v", err)
		}
		if loaded.Credentials.SoundCloud.APIKey != "imported_key" {
			t.Errorf("expected saved api key to round trip, got %q", loaded.Credentials.SoundCloud.APIKey)
		}
	})
}
