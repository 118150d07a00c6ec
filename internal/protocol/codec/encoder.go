package codec

import (
	"github.com/stratumforge/sv2wire/internal/protocol/framing"
	"github.com/stratumforge/sv2wire/internal/protocol/sv2"
)

// Encoder serializes one message at a time into a reusable output buffer.
// The returned bytes stay valid until Flush; encoding again before then
// fails with ErrEncoderBusy. Not safe for concurrent use; a connection's
// write path owns exactly one Encoder.
type Encoder struct {
	out  []byte
	busy bool
}

func NewEncoder() *Encoder {
	return &Encoder{out: make([]byte, 0, framing.HeaderSize+256)}
}

// Encode serializes header plus payload for m and returns the ready-to-send
// frame. The channel bit is stamped from the catalog, never taken from the
// caller.
func (e *Encoder) Encode(m sv2.Message) ([]byte, error) {
	if e.busy {
		return nil, ErrEncoderBusy
	}

	payload, err := sv2.EncodePayload(m)
	if err != nil {
		return nil, err
	}
	header, err := framing.HeaderFor(m.MessageType(), len(payload))
	if err != nil {
		return nil, err
	}
	hb, err := framing.EncodeHeader(header)
	if err != nil {
		return nil, err
	}

	e.out = append(e.out[:0], hb...)
	e.out = append(e.out, payload...)
	e.busy = true
	return e.out, nil
}

// Flush releases the output buffer for the next Encode. Call once the
// previous frame has been handed to the transport.
func (e *Encoder) Flush() {
	e.busy = false
}
