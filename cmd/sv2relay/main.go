package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/stratumforge/sv2wire/internal/observability"
	"github.com/stratumforge/sv2wire/internal/relay"
)

func main() {
	configPath := flag.String("config", "cmd/sv2relay/config.toml", "path to relay config")
	flag.Parse()

	log := observability.InitLogger("sv2relay")

	cfg, err := loadRelayConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "sv2relay: %v\n", err)
		os.Exit(1)
	}

	r, err := relay.New(cfg, log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "sv2relay: %v\n", err)
		os.Exit(1)
	}

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sig
		log.Info().Msg("shutting down")
		r.Stop()
	}()

	go func() {
		if err := r.ServeAdmin(); err != nil {
			log.Error().Err(err).Msg("admin server")
		}
	}()

	if err := r.Serve(); err != nil {
		fmt.Fprintf(os.Stderr, "sv2relay: %v\n", err)
		os.Exit(1)
	}
}
