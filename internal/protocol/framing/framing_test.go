package framing

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stratumforge/sv2wire/internal/protocol/sv2"
)

func TestHeaderRoundTrip(t *testing.T) {
	cases := []Header{
		{ExtensionType: 0, ChannelBit: false, MessageType: sv2.TypeSetupConnection, PayloadLen: 0},
		{ExtensionType: 0, ChannelBit: true, MessageType: sv2.TypeChannelEndpointChanged, PayloadLen: 4},
		{ExtensionType: 0x7fff, ChannelBit: true, MessageType: sv2.TypeSubmitSharesStandard, PayloadLen: 24},
		{ExtensionType: 0, ChannelBit: false, MessageType: sv2.TypeNewTemplate, PayloadLen: MaxPayloadLen},
	}
	for _, h := range cases {
		b, err := EncodeHeader(h)
		if err != nil {
			t.Fatalf("encode %+v: %v", h, err)
		}
		if len(b) != HeaderSize {
			t.Fatalf("header length %d, want %d", len(b), HeaderSize)
		}
		got, err := DecodeHeader(b)
		if err != nil {
			t.Fatalf("decode %+v: %v", h, err)
		}
		if got != h {
			t.Fatalf("round trip mismatch: sent %+v got %+v", h, got)
		}
	}
}

func TestHeaderWireLayout(t *testing.T) {
	b, err := EncodeHeader(Header{
		ChannelBit:  true,
		MessageType: sv2.TypeChannelEndpointChanged,
		PayloadLen:  4,
	})
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	// Channel bit is the top bit of the little-endian u16 extension field,
	// so it lands in the second byte on the wire.
	want := []byte{0x00, 0x80, 0x03, 0x04, 0x00, 0x00}
	if !bytes.Equal(b, want) {
		t.Fatalf("header = %x, want %x", b, want)
	}
}

func TestHeaderLengthLayout(t *testing.T) {
	b, err := EncodeHeader(Header{
		MessageType: sv2.TypeNewTemplate,
		PayloadLen:  0x030201,
	})
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if b[LengthOffset] != 0x01 || b[LengthOffset+1] != 0x02 || b[LengthOffset+2] != 0x03 {
		t.Fatalf("length bytes = %x, want 01 02 03", b[LengthOffset:])
	}
}

func TestEncodeHeaderBounds(t *testing.T) {
	_, err := EncodeHeader(Header{ExtensionType: 0x8000, MessageType: sv2.TypeSetupConnection})
	if !errors.Is(err, ErrExtensionTooLarge) {
		t.Fatalf("expected ErrExtensionTooLarge, got %v", err)
	}
	_, err = EncodeHeader(Header{MessageType: sv2.TypeSetupConnection, PayloadLen: MaxPayloadLen + 1})
	if !errors.Is(err, ErrPayloadTooLarge) {
		t.Fatalf("expected ErrPayloadTooLarge, got %v", err)
	}
}

func TestDecodeHeaderShort(t *testing.T) {
	_, err := DecodeHeader([]byte{0x00, 0x00, 0x00})
	if !errors.Is(err, ErrShortHeader) {
		t.Fatalf("expected ErrShortHeader, got %v", err)
	}
}

func TestDecodeHeaderUnknownType(t *testing.T) {
	b, err := EncodeHeader(Header{MessageType: sv2.TypeSetupConnection})
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	b[2] = 0x7f
	_, err = DecodeHeader(b)
	if !errors.Is(err, sv2.ErrUnknownMessageType) {
		t.Fatalf("expected ErrUnknownMessageType, got %v", err)
	}
}

func TestHeaderForStampsCatalogBit(t *testing.T) {
	h, err := HeaderFor(sv2.TypeSubmitSharesStandard, 24)
	if err != nil {
		t.Fatalf("HeaderFor: %v", err)
	}
	if !h.ChannelBit {
		t.Fatalf("SubmitSharesStandard must carry the channel bit")
	}
	if h.ExtensionType != ExtensionTypeNoExtension {
		t.Fatalf("unexpected extension type %d", h.ExtensionType)
	}

	h, err = HeaderFor(sv2.TypeSetupConnection, 0)
	if err != nil {
		t.Fatalf("HeaderFor: %v", err)
	}
	if h.ChannelBit {
		t.Fatalf("SetupConnection must not carry the channel bit")
	}

	if _, err := HeaderFor(0x7f, 0); !errors.Is(err, sv2.ErrUnknownMessageType) {
		t.Fatalf("expected ErrUnknownMessageType, got %v", err)
	}
}

func TestNoiseHeaderRoundTrip(t *testing.T) {
	for _, n := range []int{0, 1, 170, MaxNoisePayloadLen} {
		b, err := EncodeNoiseHeader(n)
		if err != nil {
			t.Fatalf("encode %d: %v", n, err)
		}
		if len(b) != NoiseHeaderSize {
			t.Fatalf("noise header length %d, want %d", len(b), NoiseHeaderSize)
		}
		got, err := DecodeNoiseHeader(b)
		if err != nil {
			t.Fatalf("decode %d: %v", n, err)
		}
		if got != n {
			t.Fatalf("round trip %d -> %d", n, got)
		}
	}

	if _, err := EncodeNoiseHeader(MaxNoisePayloadLen + 1); !errors.Is(err, ErrPayloadTooLarge) {
		t.Fatalf("expected ErrPayloadTooLarge, got %v", err)
	}
	if _, err := DecodeNoiseHeader([]byte{0x01}); !errors.Is(err, ErrShortHeader) {
		t.Fatalf("expected ErrShortHeader, got %v", err)
	}
}
