// Package relay bridges downstream SV2 connections to one upstream pool
// endpoint, re-framing every message through its own codec pair.
package relay

import (
	"errors"
	"fmt"
	"net"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"github.com/stratumforge/sv2wire/internal/config"
	"github.com/stratumforge/sv2wire/internal/protocol/session"
	"github.com/stratumforge/sv2wire/internal/protocol/sv2"
)

const dialAttempts = 5

type Relay struct {
	cfg        config.RelayConfig
	sessionCfg session.Config
	log        zerolog.Logger
	noiseKey   []byte

	ln       net.Listener
	done     chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup

	active      atomic.Int64
	relayedUp   atomic.Uint64
	relayedDown atomic.Uint64
	started     time.Time
}

func New(cfg config.RelayConfig, log zerolog.Logger) (*Relay, error) {
	r := &Relay{
		cfg:        cfg,
		sessionCfg: sessionConfig(cfg),
		log:        log,
		done:       make(chan struct{}),
		started:    time.Now(),
	}
	if cfg.SecurityMode == "production" {
		key, err := config.NoiseKey(cfg)
		if err != nil {
			return nil, err
		}
		r.noiseKey = key
	}
	return r, nil
}

func sessionConfig(cfg config.RelayConfig) session.Config {
	sc := session.DefaultConfig()
	if cfg.SecurityMode == "production" {
		sc.SecurityMode = session.SecurityModeProduction
	}
	if cfg.MaxPayloadBytes > 0 {
		sc.Limits.MaxPayloadBytes = cfg.MaxPayloadBytes
	}
	return sc
}

// Listen binds the downstream listener without accepting yet.
func (r *Relay) Listen() error {
	ln, err := net.Listen("tcp", r.cfg.ListenAddr)
	if err != nil {
		return fmt.Errorf("relay listen on %s: %w", r.cfg.ListenAddr, err)
	}
	r.ln = ln
	return nil
}

// Addr returns the bound downstream address, empty before Listen.
func (r *Relay) Addr() string {
	if r.ln == nil {
		return ""
	}
	return r.ln.Addr().String()
}

// Serve accepts downstream connections until Stop. Each accepted
// connection gets its own upstream dial and message pumps.
func (r *Relay) Serve() error {
	if r.ln == nil {
		if err := r.Listen(); err != nil {
			return err
		}
	}
	r.log.Info().Str("listen", r.Addr()).Str("upstream", r.cfg.UpstreamAddr).Msg("relay serving")

	for {
		raw, err := r.ln.Accept()
		if err != nil {
			select {
			case <-r.done:
				return nil
			default:
			}
			return fmt.Errorf("relay accept: %w", err)
		}
		r.wg.Add(1)
		go r.handle(raw)
	}
}

// Stop closes the listener and waits for in-flight sessions to finish.
func (r *Relay) Stop() {
	r.stopOnce.Do(func() {
		close(r.done)
		if r.ln != nil {
			r.ln.Close()
		}
	})
	r.wg.Wait()
}

func (r *Relay) sessionOptions() ([]session.Option, error) {
	opts := []session.Option{session.WithLogger(r.log)}
	if r.noiseKey == nil {
		return opts, nil
	}
	sealer, err := session.NewChaChaCipher(r.noiseKey)
	if err != nil {
		return nil, err
	}
	opener, err := session.NewChaChaCipher(r.noiseKey)
	if err != nil {
		return nil, err
	}
	return append(opts, session.WithCiphers(sealer, opener)), nil
}

func (r *Relay) handle(raw net.Conn) {
	defer r.wg.Done()

	peer := raw.RemoteAddr().String()
	opts, err := r.sessionOptions()
	if err != nil {
		r.log.Error().Err(err).Str("peer", peer).Msg("session options")
		raw.Close()
		return
	}

	down, err := session.NewConn(raw, r.sessionCfg, opts...)
	if err != nil {
		r.log.Error().Err(err).Str("peer", peer).Msg("wrap downstream")
		raw.Close()
		return
	}

	upOpts, err := r.sessionOptions()
	if err != nil {
		r.log.Error().Err(err).Msg("session options")
		down.Close()
		return
	}
	up, err := session.Dial(r.cfg.UpstreamAddr, r.sessionCfg, dialAttempts, upOpts...)
	if err != nil {
		r.log.Error().Err(err).Str("upstream", r.cfg.UpstreamAddr).Msg("dial upstream")
		down.Close()
		return
	}

	r.active.Add(1)
	defer r.active.Add(-1)
	r.log.Info().Str("peer", peer).Msg("session open")

	var pumps sync.WaitGroup
	pumps.Add(2)
	go func() {
		defer pumps.Done()
		r.pump(down, up, &r.relayedUp)
	}()
	go func() {
		defer pumps.Done()
		r.pump(up, down, &r.relayedDown)
	}()
	pumps.Wait()

	down.Close()
	up.Close()
	r.log.Info().Str("peer", peer).Msg("session closed")
}

// pump forwards every decoded message from src to dst until either side
// dies. Ordering is preserved: one goroutine owns each direction.
func (r *Relay) pump(src, dst *session.Conn, counter *atomic.Uint64) {
	for msg := range src.Messages() {
		if err := dst.Send(msg); err != nil {
			if !errors.Is(err, session.ErrConnClosed) {
				r.log.Error().Err(err).Msg("forward message")
			}
			return
		}
		counter.Add(1)
	}
}

// Stats is the snapshot served by the admin endpoint.
type Stats struct {
	Name              string `json:"name"`
	Uptime            string `json:"uptime"`
	ActiveSessions    int64  `json:"active_sessions"`
	RelayedUpstream   uint64 `json:"relayed_upstream"`
	RelayedDownstream uint64 `json:"relayed_downstream"`
}

func (r *Relay) Snapshot() Stats {
	return Stats{
		Name:              r.cfg.Name,
		Uptime:            time.Since(r.started).String(),
		ActiveSessions:    r.active.Load(),
		RelayedUpstream:   r.relayedUp.Load(),
		RelayedDownstream: r.relayedDown.Load(),
	}
}

// CatalogEntry is one row of the message table served for diagnostics.
type CatalogEntry struct {
	Code       string `json:"code"`
	Name       string `json:"name"`
	Protocol   string `json:"protocol"`
	ChannelBit bool   `json:"channel_bit"`
}

func CatalogEntries() []CatalogEntry {
	entries := make([]CatalogEntry, 0, 64)
	for code := 0; code < 256; code++ {
		msgType := uint8(code)
		if !sv2.Known(msgType) {
			continue
		}
		cb, _ := sv2.ChannelBit(msgType)
		proto, _ := sv2.ProtocolOf(msgType)
		entries = append(entries, CatalogEntry{
			Code:       fmt.Sprintf("0x%02x", msgType),
			Name:       sv2.Name(msgType),
			Protocol:   proto.String(),
			ChannelBit: cb,
		})
	}
	return entries
}
