package session

import (
	"errors"
	"io"
	"math/rand"
	"net"
	"sync"
	"time"

	"github.com/ZhangGuangxu/netbuffer"
	"github.com/rs/zerolog"

	"github.com/stratumforge/sv2wire/internal/observability"
	"github.com/stratumforge/sv2wire/internal/protocol/codec"
	"github.com/stratumforge/sv2wire/internal/protocol/framing"
	"github.com/stratumforge/sv2wire/internal/protocol/sv2"
)

var ErrConnClosed = errors.New("session: connection closed")

// Option configures a Conn before its loops start.
type Option func(*Conn)

// WithCiphers switches the connection to noise-framed transport using an
// established cipher pair, one per direction.
func WithCiphers(sealer, opener Cipher) Option {
	return func(c *Conn) {
		c.sealer = sealer
		c.opener = opener
	}
}

func WithLogger(log zerolog.Logger) Option {
	return func(c *Conn) {
		c.log = log
	}
}

// Conn drives one Decoder/Encoder pair over a net.Conn: a single read loop
// feeds decoded messages to Messages, a single write loop drains Send.
// Closing mid-frame discards all partially assembled state; no partial
// message ever reaches the application.
type Conn struct {
	raw net.Conn
	cfg Config
	log zerolog.Logger

	sealer Cipher
	opener Cipher

	dec *codec.Decoder
	enc *codec.Encoder

	inbound  chan sv2.Message
	out      *outbox
	outgoing *netbuffer.Buffer

	wg        sync.WaitGroup
	done      chan struct{}
	closeOnce sync.Once

	errMu sync.Mutex
	err   error
}

// NewConn wraps raw and starts the read and write loops.
func NewConn(raw net.Conn, cfg Config, opts ...Option) (*Conn, error) {
	c := &Conn{
		raw:      raw,
		cfg:      cfg,
		log:      zerolog.Nop(),
		dec:      codec.NewDecoderWithLimits(cfg.Limits),
		enc:      codec.NewEncoder(),
		inbound:  make(chan sv2.Message, 16),
		out:      newOutbox(),
		outgoing: netbuffer.NewBuffer(),
		done:     make(chan struct{}),
	}
	for _, opt := range opts {
		opt(c)
	}
	if err := ValidateTransport(cfg, c.sealer, c.opener); err != nil {
		return nil, err
	}

	observability.RecordConnOpen()
	c.wg.Add(2)
	go c.readLoop()
	go c.writeLoop()
	return c, nil
}

// Dial connects to addr with backoff and wraps the connection.
func Dial(addr string, cfg Config, attempts int, opts ...Option) (*Conn, error) {
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		raw, err := net.DialTimeout("tcp", addr, cfg.ConnectTimeout)
		if err == nil {
			return NewConn(raw, cfg, opts...)
		}
		lastErr = err
		time.Sleep(NextBackoffDelay(cfg.Backoff, attempt, rng))
	}
	return nil, lastErr
}

// Messages returns the inbound message stream, strictly in arrival order.
// The channel closes when the connection dies.
func (c *Conn) Messages() <-chan sv2.Message {
	return c.inbound
}

// Send queues one message for the write loop.
func (c *Conn) Send(m sv2.Message) error {
	select {
	case <-c.done:
		return ErrConnClosed
	default:
	}
	c.out.push(m)
	return nil
}

// Err returns the error that terminated the connection, if any.
func (c *Conn) Err() error {
	c.errMu.Lock()
	defer c.errMu.Unlock()
	return c.err
}

func (c *Conn) Close() error {
	c.fail(nil)
	c.wg.Wait()
	return c.Err()
}

// fail records the first terminal error and tears the connection down.
func (c *Conn) fail(err error) {
	c.closeOnce.Do(func() {
		if err != nil {
			c.errMu.Lock()
			c.err = err
			c.errMu.Unlock()
		}
		close(c.done)
		c.raw.Close()
		observability.RecordConnClose()
	})
}

func (c *Conn) readLoop() {
	defer c.wg.Done()
	defer close(c.inbound)

	var err error
	if c.opener != nil {
		err = c.readNoise()
	} else {
		err = c.readPlain()
	}
	if err != nil && !errors.Is(err, net.ErrClosed) && !errors.Is(err, io.EOF) {
		c.log.Error().Err(err).Msg("read loop terminated")
	}
	c.fail(err)
}

// readPlain fills the decoder's writable window straight from the socket,
// then drains every complete frame before reading again.
func (c *Conn) readPlain() error {
	for {
		select {
		case <-c.done:
			return nil
		default:
		}

		win := c.dec.Writable()
		if c.cfg.ReadTimeout > 0 {
			c.raw.SetReadDeadline(time.Now().Add(c.cfg.ReadTimeout))
		}
		n, err := c.raw.Read(win)
		if n > 0 {
			c.dec.Advance(n)
		}
		if err != nil {
			return err
		}
		if err := c.drainFrames(); err != nil {
			return err
		}
	}
}

// readNoise deframes one opaque run per noise header, opens it, and feeds
// the plaintext to the decoder. A single run may hold several SV2 frames.
func (c *Conn) readNoise() error {
	header := make([]byte, framing.NoiseHeaderSize)
	for {
		select {
		case <-c.done:
			return nil
		default:
		}

		if c.cfg.ReadTimeout > 0 {
			c.raw.SetReadDeadline(time.Now().Add(c.cfg.ReadTimeout))
		}
		if _, err := io.ReadFull(c.raw, header); err != nil {
			return err
		}
		runLen, err := framing.DecodeNoiseHeader(header)
		if err != nil {
			return err
		}
		ciphertext := make([]byte, runLen)
		if _, err := io.ReadFull(c.raw, ciphertext); err != nil {
			return err
		}
		plaintext, err := c.opener.Open(ciphertext)
		if err != nil {
			return err
		}
		c.dec.Append(plaintext)
		if err := c.drainFrames(); err != nil {
			return err
		}
	}
}

func (c *Conn) drainFrames() error {
	for {
		msg, err := c.dec.NextFrame()
		if err != nil {
			if codec.IsMissingBytes(err) {
				return nil
			}
			observability.RecordDecodeError(decodeErrorKind(err))
			return err
		}
		observability.RecordFrameDecoded(sv2.Name(msg.MessageType()))
		c.log.Debug().Str("message", sv2.Name(msg.MessageType())).Msg("frame decoded")
		select {
		case c.inbound <- msg:
		case <-c.done:
			return nil
		}
	}
}

func decodeErrorKind(err error) string {
	switch {
	case errors.Is(err, sv2.ErrUnknownMessageType):
		return "unknown_type"
	case errors.Is(err, codec.ErrInvalidFrame):
		return "invalid_frame"
	default:
		return "other"
	}
}

func (c *Conn) writeLoop() {
	defer c.wg.Done()

	timer := time.NewTimer(c.cfg.SendQueueWait)
	defer timer.Stop()

	for {
		select {
		case <-c.done:
			return
		default:
		}

		if !timer.Stop() {
			select {
			case <-timer.C:
			default:
			}
		}
		timer.Reset(c.cfg.SendQueueWait)

		msg := c.out.take(timer)
		if msg == nil {
			continue
		}
		if err := c.writeMessage(msg); err != nil {
			if !errors.Is(err, net.ErrClosed) {
				c.log.Error().Err(err).Msg("write loop terminated")
			}
			c.fail(err)
			return
		}
	}
}

func (c *Conn) writeMessage(msg sv2.Message) error {
	frame, err := c.enc.Encode(msg)
	if err != nil {
		return err
	}
	defer c.enc.Flush()

	if c.sealer != nil {
		if err := c.queueNoiseRuns(frame); err != nil {
			return err
		}
	} else {
		c.outgoing.Append(frame)
	}
	observability.RecordFrameEncoded(sv2.Name(msg.MessageType()), len(frame))

	return c.flushOutgoing()
}

// queueNoiseRuns splits one plaintext frame into noise-sized runs, seals
// each and queues header plus ciphertext. Frames larger than one noise
// payload span several runs.
func (c *Conn) queueNoiseRuns(frame []byte) error {
	const maxRun = framing.MaxNoisePayloadLen - framing.NoiseTagSize
	for len(frame) > 0 {
		run := frame
		if len(run) > maxRun {
			run = run[:maxRun]
		}
		frame = frame[len(run):]

		ciphertext, err := c.sealer.Seal(run)
		if err != nil {
			return err
		}
		header, err := framing.EncodeNoiseHeader(len(ciphertext))
		if err != nil {
			return err
		}
		c.outgoing.Append(header)
		c.outgoing.Append(ciphertext)
	}
	return nil
}

func (c *Conn) flushOutgoing() error {
	for c.outgoing.ReadableBytes() > 0 {
		if c.cfg.WriteTimeout > 0 {
			c.raw.SetWriteDeadline(time.Now().Add(c.cfg.WriteTimeout))
		}
		n, err := c.raw.Write(c.outgoing.PeekAllAsByteSlice())
		if n > 0 {
			c.outgoing.Retrieve(n)
		}
		if err != nil {
			return err
		}
	}
	return nil
}
