// Package codec owns the streaming SV2 decoder and the frame encoder.
//
// Ownership boundary:
// - one Decoder + one Encoder per connection, each driven by one flow
// - frame completeness over arbitrary read boundaries
// - catalog-directed payload dispatch
package codec

import (
	"fmt"

	"github.com/stratumforge/sv2wire/internal/protocol/framing"
	"github.com/stratumforge/sv2wire/internal/protocol/sv2"
)

// Limits constrains decoder memory use. The 3-byte length field already
// bounds payloads at 16 MiB; deployments facing untrusted peers usually
// configure less.
type Limits struct {
	MaxPayloadBytes uint32
}

func DefaultLimits() Limits {
	return Limits{MaxPayloadBytes: framing.MaxPayloadLen}
}

// Decoder assembles SV2 frames from a byte stream and yields one typed
// message per complete frame, strictly in arrival order. Not safe for
// concurrent use; a connection's read path owns exactly one Decoder.
type Decoder struct {
	limits Limits

	// in holds buffered input; the unread region starts at off. The
	// buffer may hold bytes of several frames after a bulk Append, but
	// NextFrame consumes exactly one frame per call.
	in  []byte
	off int
}

func NewDecoder() *Decoder {
	return NewDecoderWithLimits(DefaultLimits())
}

func NewDecoderWithLimits(limits Limits) *Decoder {
	if limits.MaxPayloadBytes == 0 || limits.MaxPayloadBytes > framing.MaxPayloadLen {
		limits.MaxPayloadBytes = framing.MaxPayloadLen
	}
	return &Decoder{
		limits: limits,
		in:     make([]byte, 0, framing.HeaderSize),
	}
}

// buffered returns the number of unread bytes.
func (d *Decoder) buffered() int {
	return len(d.in) - d.off
}

// Buffered reports how many unread bytes the decoder currently holds.
// Zero after a MissingBytesError means the input ended on a frame boundary.
func (d *Decoder) Buffered() int {
	return d.buffered()
}

// missing returns how many more bytes the current frame requires: the
// remainder of the header until 6 bytes are buffered, then the remainder
// of the declared payload. Zero means a complete frame is buffered.
func (d *Decoder) missing() int {
	have := d.buffered()
	if have < framing.HeaderSize {
		return framing.HeaderSize - have
	}
	total := framing.HeaderSize + d.rawPayloadLen()
	if have < total {
		return total - have
	}
	return 0
}

// rawPayloadLen reads the 3-byte length field of the buffered header
// without any catalog validation.
func (d *Decoder) rawPayloadLen() int {
	b := d.in[d.off+framing.LengthOffset:]
	return int(b[0]) | int(b[1])<<8 | int(b[2])<<16
}

// Writable returns a window sized exactly to the bytes still required to
// complete the current frame. The transport fills it directly from a
// socket read and commits with Advance; the codec adds no copy. When a
// complete frame is already buffered the window is empty and NextFrame
// must be drained first.
func (d *Decoder) Writable() []byte {
	missing := d.missing()
	need := len(d.in) + missing
	if cap(d.in) < need {
		d.compact()
		need = len(d.in) + missing
		if cap(d.in) < need {
			grown := make([]byte, len(d.in), need)
			copy(grown, d.in)
			d.in = grown
		}
	}
	return d.in[len(d.in):need]
}

// Advance commits n bytes written into the last Writable window. n may be
// smaller than the window for a short socket read.
func (d *Decoder) Advance(n int) {
	d.in = d.in[: len(d.in)+n : cap(d.in)]
}

// Append bulk-feeds bytes that were buffered elsewhere, e.g. one decrypted
// noise payload that may hold several SV2 frames back to back.
func (d *Decoder) Append(p []byte) {
	if len(p) == 0 {
		return
	}
	d.compact()
	d.in = append(d.in, p...)
}

// compact moves the unread region to the front of the buffer.
func (d *Decoder) compact() {
	if d.off == 0 {
		return
	}
	n := copy(d.in, d.in[d.off:])
	d.in = d.in[:n]
	d.off = 0
}

// NextFrame returns the next complete frame as a typed message, or
// MissingBytesError with the exact shortfall. It consumes exactly the
// declared payload length; bytes beyond the frame stay buffered for the
// next call. Any error other than MissingBytesError is terminal for the
// connection.
func (d *Decoder) NextFrame() (sv2.Message, error) {
	have := d.buffered()
	if have < framing.HeaderSize {
		return nil, MissingBytesError{Needed: framing.HeaderSize - have}
	}

	// The header is judged as soon as it is complete: an unknown type or
	// oversized length never waits for payload bytes.
	header, err := framing.DecodeHeader(d.in[d.off : d.off+framing.HeaderSize])
	if err != nil {
		return nil, err
	}
	if header.PayloadLen > d.limits.MaxPayloadBytes {
		return nil, fmt.Errorf("%w: declared payload %d exceeds limit %d",
			ErrInvalidFrame, header.PayloadLen, d.limits.MaxPayloadBytes)
	}
	if total := framing.HeaderSize + int(header.PayloadLen); have < total {
		return nil, MissingBytesError{Needed: total - have}
	}

	wantBit, err := sv2.ChannelBit(header.MessageType)
	if err != nil {
		return nil, err
	}
	if header.ChannelBit != wantBit {
		return nil, fmt.Errorf("%w: channel bit %t for %s, catalog says %t",
			ErrInvalidFrame, header.ChannelBit, sv2.Name(header.MessageType), wantBit)
	}

	start := d.off + framing.HeaderSize
	payload := d.in[start : start+int(header.PayloadLen)]
	msg, err := sv2.DecodePayload(header.MessageType, payload)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrInvalidFrame, sv2.Name(header.MessageType), err)
	}

	d.off = start + int(header.PayloadLen)
	if d.off == len(d.in) {
		d.in = d.in[:0]
		d.off = 0
	}
	return msg, nil
}
