package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"resumelens/internal/errors"
)

func watchLogger(t *testing.T) *errors.Logger {
	t.Helper()
	logger, err := errors.New("error")
	if err != nil {
		t.Fatalf("creating logger: %v", err)
	}
	return logger
}

func TestWatchDeliversReloadWithoutMutatingReceiver(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	dir := t.TempDir()
	t.Chdir(dir)

	configPath := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(configPath, []byte("api:\n  baseURL: http://localhost:8000\n"), 0o644); err != nil {
		t.Fatalf("writing config file: %v", err)
	}

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}

	reloads := make(chan *Config, 4)
	cfg.Watch(watchLogger(t), func(next *Config) {
		reloads <- next
	})

	if err := os.WriteFile(configPath, []byte("api:\n  baseURL: https://analysis.example.com\n"), 0o644); err != nil {
		t.Fatalf("rewriting config file: %v", err)
	}

	select {
	case next := <-reloads:
		if next.API.BaseURL != "https://analysis.example.com" {
			t.Errorf("reloaded base URL = %s", next.API.BaseURL)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for config reload")
	}

	// Watch hands out a fresh Config; the one in use keeps its values so
	// concurrent readers never see a half-applied edit.
	if cfg.API.BaseURL != "http://localhost:8000" {
		t.Errorf("watched config mutated to %s", cfg.API.BaseURL)
	}
}

func TestWatchIgnoresInvalidReload(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	dir := t.TempDir()
	t.Chdir(dir)

	configPath := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(configPath, []byte("app:\n  defaultFormat: text\n"), 0o644); err != nil {
		t.Fatalf("writing config file: %v", err)
	}

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}

	reloads := make(chan *Config, 4)
	cfg.Watch(watchLogger(t), func(next *Config) {
		reloads <- next
	})

	// An edit that fails validation must never reach the callback.
	if err := os.WriteFile(configPath, []byte("app:\n  defaultFormat: yaml\n"), 0o644); err != nil {
		t.Fatalf("rewriting config file: %v", err)
	}

	select {
	case next := <-reloads:
		t.Errorf("invalid reload delivered: default format %s", next.App.DefaultFormat)
	case <-time.After(2 * time.Second):
	}
}
