package codec

import (
	"bytes"
	"errors"
	"reflect"
	"testing"

	"github.com/stratumforge/sv2wire/internal/protocol/framing"
	"github.com/stratumforge/sv2wire/internal/protocol/sv2"
)

// encodeFrame builds one complete wire frame through a throwaway encoder.
func encodeFrame(t *testing.T, m sv2.Message) []byte {
	t.Helper()
	enc := NewEncoder()
	frame, err := enc.Encode(m)
	if err != nil {
		t.Fatalf("encode %s: %v", sv2.Name(m.MessageType()), err)
	}
	out := make([]byte, len(frame))
	copy(out, frame)
	enc.Flush()
	return out
}

// feed pushes b into the decoder through the writable window in chunks of
// at most chunk bytes, the way a transport read loop would.
func feed(d *Decoder, b []byte, chunk int) {
	for len(b) > 0 {
		win := d.Writable()
		n := copy(win, b[:min(len(b), min(chunk, len(win)))])
		d.Advance(n)
		b = b[n:]
	}
}

func TestEncodeFrameLayout(t *testing.T) {
	frame := encodeFrame(t, &sv2.ChannelEndpointChanged{ChannelID: 42})
	want := []byte{
		0x00, 0x80, // extension field with channel bit set
		0x03,             // message type
		0x04, 0x00, 0x00, // payload length 4
		0x2a, 0x00, 0x00, 0x00, // channel id 42
	}
	if !bytes.Equal(frame, want) {
		t.Fatalf("frame = %x, want %x", frame, want)
	}
}

func TestEncoderBusyUntilFlush(t *testing.T) {
	enc := NewEncoder()
	first, err := enc.Encode(&sv2.CoinbaseOutputDataSize{CoinbaseOutputMaxAdditionalSize: 1})
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if _, err := enc.Encode(&sv2.RequestTransactionData{TemplateID: 2}); !errors.Is(err, ErrEncoderBusy) {
		t.Fatalf("expected ErrEncoderBusy, got %v", err)
	}
	firstCopy := make([]byte, len(first))
	copy(firstCopy, first)

	enc.Flush()
	second, err := enc.Encode(&sv2.RequestTransactionData{TemplateID: 2})
	if err != nil {
		t.Fatalf("encode after flush: %v", err)
	}
	if bytes.Equal(firstCopy, second) {
		t.Fatalf("distinct messages produced identical frames")
	}
}

func TestEncoderReusesBuffer(t *testing.T) {
	enc := NewEncoder()
	for i := 0; i < 3; i++ {
		frame, err := enc.Encode(&sv2.RequestTransactionData{TemplateID: uint64(i)})
		if err != nil {
			t.Fatalf("encode %d: %v", i, err)
		}
		if len(frame) != framing.HeaderSize+8 {
			t.Fatalf("frame length %d, want %d", len(frame), framing.HeaderSize+8)
		}
		enc.Flush()
	}
}

func TestDecodeSingleFrame(t *testing.T) {
	frame := encodeFrame(t, &sv2.SetTarget{ChannelID: 5, MaximumTarget: sv2.U256{0: 0xab}})
	dec := NewDecoder()
	feed(dec, frame, len(frame))

	msg, err := dec.NextFrame()
	if err != nil {
		t.Fatalf("NextFrame: %v", err)
	}
	got, ok := msg.(*sv2.SetTarget)
	if !ok {
		t.Fatalf("decoded %T, want *sv2.SetTarget", msg)
	}
	if got.ChannelID != 5 || got.MaximumTarget[0] != 0xab {
		t.Fatalf("decoded %+v", got)
	}

	if _, err := dec.NextFrame(); !IsMissingBytes(err) {
		t.Fatalf("expected MissingBytesError on drained buffer, got %v", err)
	}
}

func TestMissingBytesExactAndIdempotent(t *testing.T) {
	frame := encodeFrame(t, &sv2.CoinbaseOutputDataSize{CoinbaseOutputMaxAdditionalSize: 4096})

	dec := NewDecoder()

	// Empty buffer asks for a full header.
	_, err := dec.NextFrame()
	mb := MissingBytesError{}
	if !errors.As(err, &mb) || mb.Needed != framing.HeaderSize {
		t.Fatalf("empty buffer: got %v, want missing %d", err, framing.HeaderSize)
	}

	// Header only: asks for the whole 4-byte payload, and asking again
	// changes nothing.
	feed(dec, frame[:framing.HeaderSize], framing.HeaderSize)
	for i := 0; i < 3; i++ {
		_, err = dec.NextFrame()
		mb = MissingBytesError{}
		if !errors.As(err, &mb) || mb.Needed != 4 {
			t.Fatalf("call %d: got %v, want missing 4", i, err)
		}
	}

	// One payload byte short.
	feed(dec, frame[framing.HeaderSize:len(frame)-1], len(frame))
	_, err = dec.NextFrame()
	mb = MissingBytesError{}
	if !errors.As(err, &mb) || mb.Needed != 1 {
		t.Fatalf("got %v, want missing 1", err)
	}

	feed(dec, frame[len(frame)-1:], 1)
	msg, err := dec.NextFrame()
	if err != nil {
		t.Fatalf("NextFrame: %v", err)
	}
	got := msg.(*sv2.CoinbaseOutputDataSize)
	if got.CoinbaseOutputMaxAdditionalSize != 4096 {
		t.Fatalf("decoded %+v", got)
	}
}

func TestByteAtATimeStreaming(t *testing.T) {
	sent := &sv2.SetupConnection{
		Protocol:     sv2.ProtocolMining,
		MinVersion:   2,
		MaxVersion:   2,
		EndpointHost: "pool.example.com",
		EndpointPort: 3336,
		Vendor:       "stratumforge",
		Firmware:     "fw-1.9.2",
		DeviceID:     "unit-0017",
	}
	frame := encodeFrame(t, sent)

	dec := NewDecoder()
	for i, b := range frame {
		feed(dec, []byte{b}, 1)
		msg, err := dec.NextFrame()
		if i < len(frame)-1 {
			if !IsMissingBytes(err) {
				t.Fatalf("byte %d: expected MissingBytesError, got %v", i, err)
			}
			continue
		}
		if err != nil {
			t.Fatalf("final byte: %v", err)
		}
		if !reflect.DeepEqual(msg, sent) {
			t.Fatalf("decoded %+v, want %+v", msg, sent)
		}
	}
}

func TestWritableWindowIsExact(t *testing.T) {
	dec := NewDecoder()
	if got := len(dec.Writable()); got != framing.HeaderSize {
		t.Fatalf("empty decoder window = %d, want %d", got, framing.HeaderSize)
	}

	frame := encodeFrame(t, &sv2.RequestTransactionData{TemplateID: 9})
	feed(dec, frame[:framing.HeaderSize], framing.HeaderSize)
	if got := len(dec.Writable()); got != 8 {
		t.Fatalf("window after header = %d, want payload size 8", got)
	}

	feed(dec, frame[framing.HeaderSize:], len(frame))
	if got := len(dec.Writable()); got != 0 {
		t.Fatalf("window with complete frame buffered = %d, want 0", got)
	}
}

func TestUnknownTypeFailsBeforePayloadArrives(t *testing.T) {
	// A full header with an unrecognized code must fail immediately even
	// though the declared payload has not arrived.
	header := []byte{0x00, 0x00, 0x7f, 0x10, 0x00, 0x00}
	dec := NewDecoder()
	feed(dec, header, len(header))
	_, err := dec.NextFrame()
	if !errors.Is(err, sv2.ErrUnknownMessageType) {
		t.Fatalf("expected ErrUnknownMessageType, got %v", err)
	}
	if IsMissingBytes(err) {
		t.Fatalf("unknown type must not be retryable")
	}
}

func TestChannelBitMismatchRejected(t *testing.T) {
	frame := encodeFrame(t, &sv2.ChannelEndpointChanged{ChannelID: 1})
	frame[1] &^= 0x80 // strip the channel bit the catalog requires

	dec := NewDecoder()
	feed(dec, frame, len(frame))
	_, err := dec.NextFrame()
	if !errors.Is(err, ErrInvalidFrame) {
		t.Fatalf("expected ErrInvalidFrame, got %v", err)
	}
}

func TestMalformedPayloadRejected(t *testing.T) {
	// Declared length one byte longer than the schema consumes.
	payload := []byte{0x2a, 0x00, 0x00, 0x00, 0xff}
	header, err := framing.EncodeHeader(framing.Header{
		ChannelBit:  true,
		MessageType: sv2.TypeChannelEndpointChanged,
		PayloadLen:  uint32(len(payload)),
	})
	if err != nil {
		t.Fatalf("encode header: %v", err)
	}

	dec := NewDecoder()
	dec.Append(header)
	dec.Append(payload)
	_, err = dec.NextFrame()
	if !errors.Is(err, ErrInvalidFrame) {
		t.Fatalf("expected ErrInvalidFrame, got %v", err)
	}
}

func TestPayloadLimitEnforced(t *testing.T) {
	dec := NewDecoderWithLimits(Limits{MaxPayloadBytes: 8})
	header, err := framing.EncodeHeader(framing.Header{
		MessageType: sv2.TypeNewTemplate,
		PayloadLen:  9,
	})
	if err != nil {
		t.Fatalf("encode header: %v", err)
	}
	dec.Append(header)
	_, err = dec.NextFrame()
	if !errors.Is(err, ErrInvalidFrame) {
		t.Fatalf("expected ErrInvalidFrame, got %v", err)
	}
}

func TestAppendMultipleFramesBackToBack(t *testing.T) {
	first := encodeFrame(t, &sv2.CoinbaseOutputDataSize{CoinbaseOutputMaxAdditionalSize: 1})
	second := encodeFrame(t, &sv2.RequestTransactionData{TemplateID: 2})
	third := encodeFrame(t, &sv2.SubmitSolution{
		TemplateID:  2,
		HeaderNonce: 7,
		CoinbaseTx:  []byte{0x01},
	})

	run := append(append(append([]byte{}, first...), second...), third...)

	// Split the run at an arbitrary point: frame boundaries and append
	// boundaries are unrelated.
	dec := NewDecoder()
	dec.Append(run[:len(first)+3])
	dec.Append(run[len(first)+3:])

	types := []uint8{
		sv2.TypeCoinbaseOutputDataSize,
		sv2.TypeRequestTransactionData,
		sv2.TypeSubmitSolution,
	}
	for i, want := range types {
		msg, err := dec.NextFrame()
		if err != nil {
			t.Fatalf("frame %d: %v", i, err)
		}
		if msg.MessageType() != want {
			t.Fatalf("frame %d: type 0x%02x, want 0x%02x", i, msg.MessageType(), want)
		}
	}
	if _, err := dec.NextFrame(); !IsMissingBytes(err) {
		t.Fatalf("expected MissingBytesError after draining, got %v", err)
	}
}

func TestInterleavedFeedAndDrain(t *testing.T) {
	frames := [][]byte{
		encodeFrame(t, &sv2.SetTarget{ChannelID: 1}),
		encodeFrame(t, &sv2.CloseChannel{ChannelID: 1, ReasonCode: "done"}),
	}
	stream := append(append([]byte{}, frames[0]...), frames[1]...)

	dec := NewDecoder()
	var decoded []sv2.Message
	for {
		msg, err := dec.NextFrame()
		if err == nil {
			decoded = append(decoded, msg)
			continue
		}
		if !IsMissingBytes(err) {
			t.Fatalf("NextFrame: %v", err)
		}
		if len(stream) == 0 {
			break
		}
		n := min(5, len(stream))
		dec.Append(stream[:n])
		stream = stream[n:]
	}

	if len(decoded) != 2 {
		t.Fatalf("decoded %d frames, want 2", len(decoded))
	}
	if decoded[0].MessageType() != sv2.TypeSetTarget ||
		decoded[1].MessageType() != sv2.TypeCloseChannel {
		t.Fatalf("decoded wrong types: %T %T", decoded[0], decoded[1])
	}
}

func TestLargeFrameLengthField(t *testing.T) {
	sent := &sv2.RequestTransactionDataSuccess{
		TemplateID:      5,
		ExcessData:      []byte{0x01},
		TransactionList: [][]byte{bytes.Repeat([]byte{0x33}, 1 << 20)},
	}
	frame := encodeFrame(t, sent)

	declared := int(frame[framing.LengthOffset]) |
		int(frame[framing.LengthOffset+1])<<8 |
		int(frame[framing.LengthOffset+2])<<16
	if declared != len(frame)-framing.HeaderSize {
		t.Fatalf("length field %d, frame carries %d payload bytes", declared, len(frame)-framing.HeaderSize)
	}
	if declared <= 0xffff {
		t.Fatalf("payload of %d bytes does not exercise the third length byte", declared)
	}

	dec := NewDecoder()
	dec.Append(frame)
	got, err := dec.NextFrame()
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !reflect.DeepEqual(got, sent) {
		t.Fatalf("large frame round trip mismatch")
	}
}

func TestEncodeDecodeLoop(t *testing.T) {
	msgs := []sv2.Message{
		&sv2.SetupConnectionSuccess{UsedVersion: 2, Flags: 1},
		&sv2.NewMiningJob{ChannelID: 1, JobID: 2, FutureJob: true, Version: 0x20000000},
		&sv2.SubmitSharesError{ChannelID: 1, SequenceNumber: 3, ErrorCode: "stale-share"},
	}

	enc := NewEncoder()
	dec := NewDecoder()
	for _, sent := range msgs {
		frame, err := enc.Encode(sent)
		if err != nil {
			t.Fatalf("encode: %v", err)
		}
		dec.Append(frame)
		enc.Flush()

		got, err := dec.NextFrame()
		if err != nil {
			t.Fatalf("decode: %v", err)
		}
		if !reflect.DeepEqual(got, sent) {
			t.Fatalf("round trip mismatch:\n  sent %+v\n  got  %+v", sent, got)
		}
	}
}
