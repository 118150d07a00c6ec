package main

import (
	"fmt"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/stratumforge/sv2wire/internal/config"
)

// sv2relay config.toml key mapping to relay runtime settings.
type fileConfig struct {
	Name            string   `toml:"name"`
	ListenAddr      string   `toml:"listen_addr"`
	UpstreamAddr    string   `toml:"upstream_addr"`
	AdminAddr       string   `toml:"admin_addr"`
	CorsOrigins     []string `toml:"cors_origins"`
	SecurityMode    string   `toml:"security_mode"`
	NoiseKeyHex     string   `toml:"noise_key_hex"`
	MaxPayloadBytes uint32   `toml:"max_payload_bytes"`
}

// sv2relay loader for TOML config with default overlay.
func loadRelayConfig(path string) (config.RelayConfig, error) {
	cfg := config.RelayConfig{
		Name:         "sv2relay",
		ListenAddr:   ":3336",
		AdminAddr:    ":9200",
		SecurityMode: "development",
	}

	var raw fileConfig
	meta, err := toml.DecodeFile(path, &raw)
	if err != nil {
		return config.RelayConfig{}, fmt.Errorf("load relay config: %w", err)
	}

	if meta.IsDefined("name") {
		cfg.Name = strings.TrimSpace(raw.Name)
	}
	if meta.IsDefined("listen_addr") {
		cfg.ListenAddr = strings.TrimSpace(raw.ListenAddr)
	}
	if meta.IsDefined("upstream_addr") {
		cfg.UpstreamAddr = strings.TrimSpace(raw.UpstreamAddr)
	}
	if meta.IsDefined("admin_addr") {
		cfg.AdminAddr = strings.TrimSpace(raw.AdminAddr)
	}
	if meta.IsDefined("cors_origins") {
		cfg.CorsOrigins = raw.CorsOrigins
	}
	if meta.IsDefined("security_mode") {
		cfg.SecurityMode = strings.TrimSpace(raw.SecurityMode)
	}
	if meta.IsDefined("noise_key_hex") {
		cfg.NoiseKeyHex = strings.TrimSpace(raw.NoiseKeyHex)
	}
	if meta.IsDefined("max_payload_bytes") {
		cfg.MaxPayloadBytes = raw.MaxPayloadBytes
	}

	if err := config.ValidateRelayConfig(cfg); err != nil {
		return config.RelayConfig{}, err
	}
	return cfg, nil
}
