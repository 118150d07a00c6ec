package config

import (
	"encoding/hex"
	"fmt"
	"os"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"github.com/stratumforge/sv2wire/internal/protocol/framing"
)

// RelayConfig is the on-disk configuration for one sv2relay instance.
type RelayConfig struct {
	Name         string   `toml:"name"`
	ListenAddr   string   `toml:"listen_addr"`
	UpstreamAddr string   `toml:"upstream_addr"`
	AdminAddr    string   `toml:"admin_addr"`
	CorsOrigins  []string `toml:"cors_origins"`

	SecurityMode    string `toml:"security_mode"`
	NoiseKeyHex     string `toml:"noise_key_hex"`
	MaxPayloadBytes uint32 `toml:"max_payload_bytes"`
}

func LoadRelayConfig(path string) (RelayConfig, error) {
	var cfg RelayConfig
	if err := loadToml(path, &cfg); err != nil {
		return RelayConfig{}, err
	}
	if cfg.Name == "" {
		cfg.Name = "sv2relay"
	}
	if cfg.ListenAddr == "" {
		cfg.ListenAddr = ":3336"
	}
	if cfg.AdminAddr == "" {
		cfg.AdminAddr = ":9200"
	}
	if cfg.SecurityMode == "" {
		cfg.SecurityMode = "development"
	}
	if err := ValidateRelayConfig(cfg); err != nil {
		return RelayConfig{}, err
	}
	return cfg, nil
}

func loadToml(path string, out any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("config load failed (%s): %w", path, err)
	}
	if err := toml.Unmarshal(data, out); err != nil {
		return fmt.Errorf("config parse failed (%s): %w", path, err)
	}
	return nil
}

func ValidateRelayConfig(cfg RelayConfig) error {
	if strings.TrimSpace(cfg.Name) == "" {
		return fmt.Errorf("relay config missing name")
	}
	if strings.TrimSpace(cfg.ListenAddr) == "" {
		return fmt.Errorf("relay config missing listen_addr")
	}
	if strings.TrimSpace(cfg.UpstreamAddr) == "" {
		return fmt.Errorf("relay config missing upstream_addr")
	}
	switch cfg.SecurityMode {
	case "development":
	case "production":
		if _, err := NoiseKey(cfg); err != nil {
			return err
		}
	default:
		return fmt.Errorf("relay config security_mode must be development or production, got %q", cfg.SecurityMode)
	}
	if cfg.MaxPayloadBytes > framing.MaxPayloadLen {
		return fmt.Errorf("relay config max_payload_bytes %d exceeds frame bound %d",
			cfg.MaxPayloadBytes, framing.MaxPayloadLen)
	}
	return nil
}

// NoiseKey decodes the configured pre-shared transport key.
func NoiseKey(cfg RelayConfig) ([]byte, error) {
	key, err := hex.DecodeString(strings.TrimSpace(cfg.NoiseKeyHex))
	if err != nil {
		return nil, fmt.Errorf("relay config noise_key_hex is not valid hex: %w", err)
	}
	if len(key) != framing.NoisePSKSize {
		return nil, fmt.Errorf("relay config noise_key_hex must decode to %d bytes, got %d",
			framing.NoisePSKSize, len(key))
	}
	return key, nil
}
