package sv2

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"
)

// Wire-level size bounds for the variable-length base types.
const (
	maxB255 = 1<<8 - 1
	maxB64K = 1<<16 - 1
	maxB16M = 1<<24 - 1
)

var (
	ErrMalformedPayload = errors.New("sv2: malformed payload")
	ErrValueTooLarge    = errors.New("sv2: value exceeds wire bound")
)

// U256 is a fixed 32-byte value (hashes, targets). Stored as raw wire bytes.
type U256 [32]byte

// ShortTxID is the 6-byte transaction short id used by job negotiation.
type ShortTxID [6]byte

// reader is a little-endian cursor over one payload. Errors stick: once a
// read fails every later read is a no-op and done() reports the failure.
type reader struct {
	buf []byte
	off int
	err error
}

func newReader(payload []byte) *reader {
	return &reader{buf: payload}
}

func (r *reader) fail(what string) {
	if r.err == nil {
		r.err = fmt.Errorf("%w: truncated %s at offset %d", ErrMalformedPayload, what, r.off)
	}
}

func (r *reader) take(n int, what string) []byte {
	if r.err != nil {
		return nil
	}
	if len(r.buf)-r.off < n {
		r.fail(what)
		return nil
	}
	b := r.buf[r.off : r.off+n]
	r.off += n
	return b
}

func (r *reader) u8() uint8 {
	b := r.take(1, "u8")
	if b == nil {
		return 0
	}
	return b[0]
}

func (r *reader) u16() uint16 {
	b := r.take(2, "u16")
	if b == nil {
		return 0
	}
	return binary.LittleEndian.Uint16(b)
}

func (r *reader) u24() uint32 {
	b := r.take(3, "u24")
	if b == nil {
		return 0
	}
	return uint32(b[0]) | uint32(b[1])<<8 | uint32(b[2])<<16
}

func (r *reader) u32() uint32 {
	b := r.take(4, "u32")
	if b == nil {
		return 0
	}
	return binary.LittleEndian.Uint32(b)
}

func (r *reader) u64() uint64 {
	b := r.take(8, "u64")
	if b == nil {
		return 0
	}
	return binary.LittleEndian.Uint64(b)
}

func (r *reader) f32() float32 {
	return math.Float32frombits(r.u32())
}

func (r *reader) boolean() bool {
	switch r.u8() {
	case 0:
		return false
	case 1:
		return true
	default:
		if r.err == nil {
			r.err = fmt.Errorf("%w: invalid bool encoding", ErrMalformedPayload)
		}
		return false
	}
}

func (r *reader) u256() U256 {
	var v U256
	b := r.take(len(v), "u256")
	if b != nil {
		copy(v[:], b)
	}
	return v
}

func (r *reader) shortTxID() ShortTxID {
	var v ShortTxID
	b := r.take(len(v), "short tx id")
	if b != nil {
		copy(v[:], b)
	}
	return v
}

// bytes reads a length-prefixed byte run. The returned slice is an owned
// copy, never an alias into the frame buffer.
func (r *reader) bytes(lenBytes int, what string) []byte {
	var n int
	switch lenBytes {
	case 1:
		n = int(r.u8())
	case 2:
		n = int(r.u16())
	case 3:
		n = int(r.u24())
	}
	b := r.take(n, what)
	if b == nil {
		return nil
	}
	out := make([]byte, n)
	copy(out, b)
	return out
}

func (r *reader) b255() []byte { return r.bytes(1, "B0_255") }
func (r *reader) b64k() []byte { return r.bytes(2, "B0_64K") }
func (r *reader) b16m() []byte { return r.bytes(3, "B0_16M") }

func (r *reader) str255() string {
	return string(r.bytes(1, "STR0_255"))
}

func (r *reader) u256Seq255() []U256 {
	n := int(r.u8())
	if r.err != nil {
		return nil
	}
	out := make([]U256, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, r.u256())
	}
	return out
}

func (r *reader) u256Seq64k() []U256 {
	n := int(r.u16())
	if r.err != nil {
		return nil
	}
	out := make([]U256, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, r.u256())
	}
	return out
}

func (r *reader) u32Seq64k() []uint32 {
	n := int(r.u16())
	if r.err != nil {
		return nil
	}
	out := make([]uint32, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, r.u32())
	}
	return out
}

func (r *reader) shortTxIDSeq64k() []ShortTxID {
	n := int(r.u16())
	if r.err != nil {
		return nil
	}
	out := make([]ShortTxID, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, r.shortTxID())
	}
	return out
}

func (r *reader) b16mSeq64k() [][]byte {
	n := int(r.u16())
	if r.err != nil {
		return nil
	}
	out := make([][]byte, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, r.b16m())
	}
	return out
}

// done reports the first read failure, or rejects trailing bytes the schema
// did not account for.
func (r *reader) done() error {
	if r.err != nil {
		return r.err
	}
	if r.off != len(r.buf) {
		return fmt.Errorf("%w: %d trailing bytes after payload", ErrMalformedPayload, len(r.buf)-r.off)
	}
	return nil
}

// writer is the encoding counterpart of reader, same sticky error scheme.
type writer struct {
	buf []byte
	err error
}

func (w *writer) u8(v uint8) { w.buf = append(w.buf, v) }

func (w *writer) u16(v uint16) {
	w.buf = binary.LittleEndian.AppendUint16(w.buf, v)
}

func (w *writer) u24(v uint32) {
	if v > maxB16M {
		if w.err == nil {
			w.err = fmt.Errorf("%w: u24 value %d", ErrValueTooLarge, v)
		}
		return
	}
	w.buf = append(w.buf, byte(v), byte(v>>8), byte(v>>16))
}

func (w *writer) u32(v uint32) {
	w.buf = binary.LittleEndian.AppendUint32(w.buf, v)
}

func (w *writer) u64(v uint64) {
	w.buf = binary.LittleEndian.AppendUint64(w.buf, v)
}

func (w *writer) f32(v float32) {
	w.u32(math.Float32bits(v))
}

func (w *writer) boolean(v bool) {
	if v {
		w.u8(1)
		return
	}
	w.u8(0)
}

func (w *writer) u256(v U256)           { w.buf = append(w.buf, v[:]...) }
func (w *writer) shortTxID(v ShortTxID) { w.buf = append(w.buf, v[:]...) }

func (w *writer) bytesN(v []byte, lenBytes int, bound int, what string) {
	if len(v) > bound {
		if w.err == nil {
			w.err = fmt.Errorf("%w: %s length %d", ErrValueTooLarge, what, len(v))
		}
		return
	}
	switch lenBytes {
	case 1:
		w.u8(uint8(len(v)))
	case 2:
		w.u16(uint16(len(v)))
	case 3:
		w.u24(uint32(len(v)))
	}
	w.buf = append(w.buf, v...)
}

func (w *writer) b255(v []byte)   { w.bytesN(v, 1, maxB255, "B0_255") }
func (w *writer) b64k(v []byte)   { w.bytesN(v, 2, maxB64K, "B0_64K") }
func (w *writer) b16m(v []byte)   { w.bytesN(v, 3, maxB16M, "B0_16M") }
func (w *writer) str255(v string) { w.bytesN([]byte(v), 1, maxB255, "STR0_255") }

func (w *writer) u256Seq255(v []U256) {
	if len(v) > maxB255 {
		if w.err == nil {
			w.err = fmt.Errorf("%w: SEQ0_255 length %d", ErrValueTooLarge, len(v))
		}
		return
	}
	w.u8(uint8(len(v)))
	for _, e := range v {
		w.u256(e)
	}
}

func (w *writer) u256Seq64k(v []U256) {
	if w.seqLen64k(len(v)) {
		for _, e := range v {
			w.u256(e)
		}
	}
}

func (w *writer) u32Seq64k(v []uint32) {
	if w.seqLen64k(len(v)) {
		for _, e := range v {
			w.u32(e)
		}
	}
}

func (w *writer) shortTxIDSeq64k(v []ShortTxID) {
	if w.seqLen64k(len(v)) {
		for _, e := range v {
			w.shortTxID(e)
		}
	}
}

func (w *writer) b16mSeq64k(v [][]byte) {
	if w.seqLen64k(len(v)) {
		for _, e := range v {
			w.b16m(e)
		}
	}
}

func (w *writer) seqLen64k(n int) bool {
	if n > maxB64K {
		if w.err == nil {
			w.err = fmt.Errorf("%w: SEQ0_64K length %d", ErrValueTooLarge, n)
		}
		return false
	}
	w.u16(uint16(n))
	return true
}
