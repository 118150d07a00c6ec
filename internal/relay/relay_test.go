package relay

import (
	"encoding/json"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/stratumforge/sv2wire/internal/config"
	"github.com/stratumforge/sv2wire/internal/protocol/codec"
	"github.com/stratumforge/sv2wire/internal/protocol/session"
	"github.com/stratumforge/sv2wire/internal/protocol/sv2"
)

// echoUpstream accepts one SV2 connection and sends every message back.
func echoUpstream(t *testing.T) string {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("upstream listen: %v", err)
	}
	t.Cleanup(func() { ln.Close() })

	go func() {
		for {
			raw, err := ln.Accept()
			if err != nil {
				return
			}
			go func(raw net.Conn) {
				conn, err := session.NewConn(raw, session.DefaultConfig())
				if err != nil {
					raw.Close()
					return
				}
				for msg := range conn.Messages() {
					if err := conn.Send(msg); err != nil {
						break
					}
				}
				conn.Close()
			}(raw)
		}
	}()
	return ln.Addr().String()
}

func testRelay(t *testing.T) *Relay {
	t.Helper()
	cfg := config.RelayConfig{
		Name:         "relay-test",
		ListenAddr:   "127.0.0.1:0",
		UpstreamAddr: echoUpstream(t),
		AdminAddr:    "127.0.0.1:0",
		SecurityMode: "development",
	}
	r, err := New(cfg, zerolog.Nop())
	if err != nil {
		t.Fatalf("new relay: %v", err)
	}
	if err := r.Listen(); err != nil {
		t.Fatalf("relay listen: %v", err)
	}
	go r.Serve()
	t.Cleanup(r.Stop)
	return r
}

func TestRelayEchoesThroughUpstream(t *testing.T) {
	r := testRelay(t)

	client, err := session.Dial(r.Addr(), session.DefaultConfig(), 3)
	if err != nil {
		t.Fatalf("dial relay: %v", err)
	}
	defer client.Close()

	sent := &sv2.SubmitSharesStandard{
		ChannelID:      1,
		SequenceNumber: 9,
		JobID:          4,
		Nonce:          0xcafebabe,
	}
	if err := client.Send(sent); err != nil {
		t.Fatalf("send: %v", err)
	}

	select {
	case msg, ok := <-client.Messages():
		if !ok {
			t.Fatalf("connection died: %v", client.Err())
		}
		got, isShare := msg.(*sv2.SubmitSharesStandard)
		if !isShare {
			t.Fatalf("received %T", msg)
		}
		if got.SequenceNumber != 9 || got.Nonce != 0xcafebabe {
			t.Fatalf("received %+v", got)
		}
	case <-time.After(5 * time.Second):
		t.Fatalf("timed out waiting for echoed message")
	}

	snap := r.Snapshot()
	if snap.RelayedUpstream == 0 || snap.RelayedDownstream == 0 {
		t.Fatalf("counters not advancing: %+v", snap)
	}
}

func TestAdminEndpoints(t *testing.T) {
	r := testRelay(t)
	router := r.AdminRouter()

	for _, path := range []string{"/health", "/ready", "/stats", "/catalog", "/metrics"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("GET %s -> %d", path, rec.Code)
		}
	}

	req := httptest.NewRequest(http.MethodGet, "/stats", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	var snap Stats
	if err := json.Unmarshal(rec.Body.Bytes(), &snap); err != nil {
		t.Fatalf("stats body: %v", err)
	}
	if snap.Name != "relay-test" {
		t.Fatalf("stats name = %q", snap.Name)
	}
}

func TestSessionConfigCarriesPayloadLimit(t *testing.T) {
	sc := sessionConfig(config.RelayConfig{MaxPayloadBytes: 512})
	if sc.Limits.MaxPayloadBytes != 512 {
		t.Fatalf("session limit = %d, want 512", sc.Limits.MaxPayloadBytes)
	}

	sc = sessionConfig(config.RelayConfig{})
	if want := codec.DefaultLimits().MaxPayloadBytes; sc.Limits.MaxPayloadBytes != want {
		t.Fatalf("unset limit = %d, want protocol maximum %d", sc.Limits.MaxPayloadBytes, want)
	}
}

func TestCatalogEntriesComplete(t *testing.T) {
	entries := CatalogEntries()
	if len(entries) != 42 {
		t.Fatalf("catalog lists %d messages", len(entries))
	}
	byName := make(map[string]CatalogEntry, len(entries))
	for _, e := range entries {
		byName[e.Name] = e
	}
	if e := byName["SetupConnection"]; e.Code != "0x00" || e.ChannelBit {
		t.Fatalf("SetupConnection entry %+v", e)
	}
	if e := byName["ChannelEndpointChanged"]; e.Code != "0x03" || !e.ChannelBit {
		t.Fatalf("ChannelEndpointChanged entry %+v", e)
	}
	if e := byName["SubmitSolution"]; e.Protocol != "template-distribution" {
		t.Fatalf("SubmitSolution entry %+v", e)
	}
}
