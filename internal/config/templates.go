package config

import (
	"fmt"
	"os"
	"strings"
)

func Template(kind string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(kind)) {
	case "relay":
		return relayTemplate, nil
	default:
		return "", fmt.Errorf("unknown config kind: %s", kind)
	}
}

func WriteTemplate(path, kind string, overwrite bool) error {
	template, err := Template(kind)
	if err != nil {
		return err
	}
	if !overwrite {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("config already exists: %s", path)
		}
	}
	return os.WriteFile(path, []byte(template), 0o600)
}

const relayTemplate = `name = "sv2relay"
listen_addr = ":3336"
upstream_addr = "pool.example.com:3336"
admin_addr = ":9200"
cors_origins = ["http://localhost:3000"]

# development allows plaintext framing; production requires noise_key_hex.
security_mode = "development"
noise_key_hex = ""

# 0 keeps the protocol maximum of 16 MiB - 1.
max_payload_bytes = 0
`
