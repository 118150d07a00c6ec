package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoadRelayConfigDefaultsAndOverrides(t *testing.T) {
	dir := t.TempDir()

	path := filepath.Join(dir, "config.toml")
	content := `
name = "relay.alpha"
listen_addr = "127.0.0.1:3340"
upstream_addr = "pool.example.com:3336"
security_mode = "production"
noise_key_hex = "` + strings.Repeat("ab", 32) + `"
max_payload_bytes = 1048576
	`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := loadRelayConfig(path)
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.Name != "relay.alpha" {
		t.Fatalf("unexpected name: %q", cfg.Name)
	}
	if cfg.ListenAddr != "127.0.0.1:3340" {
		t.Fatalf("unexpected listen addr: %q", cfg.ListenAddr)
	}
	if cfg.AdminAddr != ":9200" {
		t.Fatalf("admin addr default not applied: %q", cfg.AdminAddr)
	}
	if cfg.SecurityMode != "production" {
		t.Fatalf("unexpected security mode: %q", cfg.SecurityMode)
	}
	if cfg.MaxPayloadBytes != 1048576 {
		t.Fatalf("unexpected max payload: %d", cfg.MaxPayloadBytes)
	}
}

func TestLoadRelayConfigRejectsInvalid(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	content := `
upstream_addr = "pool.example.com:3336"
security_mode = "production"
noise_key_hex = "not-hex"
	`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, err := loadRelayConfig(path); err == nil {
		t.Fatalf("expected validation failure")
	}
}
