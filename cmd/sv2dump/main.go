package main

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/stratumforge/sv2wire/internal/config"
	"github.com/stratumforge/sv2wire/internal/protocol/codec"
	"github.com/stratumforge/sv2wire/internal/protocol/sv2"
	"github.com/stratumforge/sv2wire/internal/relay"
)

func main() {
	app := newApp()
	if err := app.Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "sv2dump: %v\n", err)
		os.Exit(1)
	}
}

func newApp() *cli.App {
	var (
		inputPath string
		hexInput  bool
		outPath   string
		force     bool
	)
	return &cli.App{
		Name:  "sv2dump",
		Usage: "Inspect SV2 frame streams and relay configuration",
		Commands: []*cli.Command{
			{
				Name:  "decode",
				Usage: "Decode a captured stream of SV2 frames and print one JSON line per message",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:        "input",
						Aliases:     []string{"i"},
						Value:       "-",
						Usage:       "capture file, - for stdin",
						Destination: &inputPath,
					},
					&cli.BoolFlag{
						Name:        "hex",
						Usage:       "treat input as hex text instead of raw bytes",
						Destination: &hexInput,
					},
				},
				Action: func(ctx *cli.Context) error {
					in, err := openInput(inputPath)
					if err != nil {
						return err
					}
					defer in.Close()
					return decodeStream(in, os.Stdout, hexInput)
				},
			},
			{
				Name:  "catalog",
				Usage: "Print the message catalog with codes, sub-protocols and channel bits",
				Action: func(ctx *cli.Context) error {
					return printCatalog(os.Stdout)
				},
			},
			{
				Name:  "config",
				Usage: "Manage relay configuration files",
				Subcommands: []*cli.Command{
					{
						Name:  "init",
						Usage: "Write a relay config template",
						Flags: []cli.Flag{
							&cli.StringFlag{
								Name:        "output",
								Aliases:     []string{"o"},
								Value:       "config.toml",
								Destination: &outPath,
							},
							&cli.BoolFlag{
								Name:        "force",
								Usage:       "overwrite an existing file",
								Destination: &force,
							},
						},
						Action: func(ctx *cli.Context) error {
							if err := config.WriteTemplate(outPath, "relay", force); err != nil {
								return err
							}
							fmt.Fprintf(ctx.App.Writer, "wrote %s\n", outPath)
							return nil
						},
					},
					{
						Name:      "validate",
						Usage:     "Validate an existing relay config",
						ArgsUsage: "<path>",
						Action: func(ctx *cli.Context) error {
							path := ctx.Args().First()
							if path == "" {
								return fmt.Errorf("config path required")
							}
							if _, err := config.LoadRelayConfig(path); err != nil {
								return err
							}
							fmt.Fprintf(ctx.App.Writer, "ok: %s\n", path)
							return nil
						},
					},
				},
			},
		},
	}
}

func openInput(path string) (io.ReadCloser, error) {
	if path == "-" {
		return io.NopCloser(os.Stdin), nil
	}
	return os.Open(path)
}

// frameRecord is the JSON shape printed per decoded frame.
type frameRecord struct {
	Type       string      `json:"type"`
	Name       string      `json:"name"`
	Protocol   string      `json:"protocol"`
	ChannelBit bool        `json:"channel_bit"`
	Payload    sv2.Message `json:"payload"`
}

// decodeStream runs the captured bytes through a streaming decoder and
// writes one JSON line per frame. A truncated trailing frame is an error.
func decodeStream(in io.Reader, out io.Writer, hexInput bool) error {
	data, err := io.ReadAll(in)
	if err != nil {
		return err
	}
	if hexInput {
		cleaned := strings.Map(func(r rune) rune {
			switch r {
			case ' ', '\n', '\r', '\t':
				return -1
			}
			return r
		}, string(data))
		data, err = hex.DecodeString(cleaned)
		if err != nil {
			return fmt.Errorf("decode hex input: %w", err)
		}
	}

	dec := codec.NewDecoder()
	dec.Append(data)

	enc := json.NewEncoder(out)
	for {
		msg, err := dec.NextFrame()
		if err != nil {
			if codec.IsMissingBytes(err) {
				if dec.Buffered() == 0 {
					return nil
				}
				return fmt.Errorf("truncated stream: %w", err)
			}
			return err
		}

		cb, _ := sv2.ChannelBit(msg.MessageType())
		proto, _ := sv2.ProtocolOf(msg.MessageType())
		rec := frameRecord{
			Type:       fmt.Sprintf("0x%02x", msg.MessageType()),
			Name:       sv2.Name(msg.MessageType()),
			Protocol:   proto.String(),
			ChannelBit: cb,
			Payload:    msg,
		}
		if err := enc.Encode(rec); err != nil {
			return err
		}
	}
}

func printCatalog(out io.Writer) error {
	for _, e := range relay.CatalogEntries() {
		bit := " "
		if e.ChannelBit {
			bit = "*"
		}
		if _, err := fmt.Fprintf(out, "%s %s %-22s %s\n", e.Code, bit, e.Protocol, e.Name); err != nil {
			return err
		}
	}
	return nil
}
