package main

import (
	"bytes"
	"encoding/hex"
	"strings"
	"testing"

	"github.com/stratumforge/sv2wire/internal/protocol/codec"
	"github.com/stratumforge/sv2wire/internal/protocol/sv2"
)

func encodeFrames(t *testing.T, msgs ...sv2.Message) []byte {
	t.Helper()
	enc := codec.NewEncoder()
	var stream []byte
	for _, m := range msgs {
		frame, err := enc.Encode(m)
		if err != nil {
			t.Fatalf("encode: %v", err)
		}
		stream = append(stream, frame...)
		enc.Flush()
	}
	return stream
}

func TestDecodeStream(t *testing.T) {
	stream := encodeFrames(t,
		&sv2.SetupConnectionSuccess{UsedVersion: 2, Flags: 1},
		&sv2.ChannelEndpointChanged{ChannelID: 42},
	)

	var out bytes.Buffer
	if err := decodeStream(bytes.NewReader(stream), &out, false); err != nil {
		t.Fatalf("decodeStream: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("printed %d lines, want 2", len(lines))
	}
	if !strings.Contains(lines[0], `"name":"SetupConnection.Success"`) {
		t.Fatalf("line 0 = %s", lines[0])
	}
	if !strings.Contains(lines[1], `"channel_bit":true`) {
		t.Fatalf("line 1 = %s", lines[1])
	}
}

func TestDecodeStreamHexInput(t *testing.T) {
	stream := encodeFrames(t, &sv2.RequestTransactionData{TemplateID: 7})
	text := hex.EncodeToString(stream[:4]) + "\n" + hex.EncodeToString(stream[4:])

	var out bytes.Buffer
	if err := decodeStream(strings.NewReader(text), &out, true); err != nil {
		t.Fatalf("decodeStream: %v", err)
	}
	if !strings.Contains(out.String(), `"name":"RequestTransactionData"`) {
		t.Fatalf("output = %s", out.String())
	}
}

func TestDecodeStreamTruncated(t *testing.T) {
	stream := encodeFrames(t, &sv2.ChannelEndpointChanged{ChannelID: 1})
	var out bytes.Buffer
	err := decodeStream(bytes.NewReader(stream[:len(stream)-1]), &out, false)
	if err == nil || !strings.Contains(err.Error(), "truncated") {
		t.Fatalf("expected truncated stream error, got %v", err)
	}
}

func TestDecodeStreamEmpty(t *testing.T) {
	var out bytes.Buffer
	if err := decodeStream(strings.NewReader(""), &out, false); err != nil {
		t.Fatalf("empty input: %v", err)
	}
	if out.Len() != 0 {
		t.Fatalf("empty input produced output: %s", out.String())
	}
}

func TestPrintCatalog(t *testing.T) {
	var out bytes.Buffer
	if err := printCatalog(&out); err != nil {
		t.Fatalf("printCatalog: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	if len(lines) != 42 {
		t.Fatalf("catalog printed %d rows", len(lines))
	}
	if !strings.Contains(out.String(), "SubmitSharesStandard") {
		t.Fatalf("catalog missing SubmitSharesStandard")
	}
}

func TestConfigInitAndValidate(t *testing.T) {
	dir := t.TempDir()
	path := dir + "/relay.toml"

	app := newApp()
	app.Writer = &bytes.Buffer{}
	if err := app.Run([]string{"sv2dump", "config", "init", "--output", path}); err != nil {
		t.Fatalf("config init: %v", err)
	}
	if err := app.Run([]string{"sv2dump", "config", "validate", path}); err != nil {
		t.Fatalf("config validate: %v", err)
	}
}
