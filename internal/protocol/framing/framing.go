// Package framing owns the fixed SV2 frame headers.
//
// Ownership boundary:
// - 6-byte plaintext frame header (extension type, channel bit, message
//   type, 3-byte payload length, all little-endian)
// - 2-byte length-only noise transport header
package framing

import (
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/stratumforge/sv2wire/internal/protocol/sv2"
)

const (
	// HeaderSize is the plaintext frame header length in bytes.
	HeaderSize = 6
	// LengthOffset is the byte offset of the 3-byte payload length.
	LengthOffset = 3

	// NoiseHeaderSize is the noise transport header length in bytes.
	NoiseHeaderSize = 2
	// NoisePSKSize and NoiseTagSize are parameters of the external
	// handshake layer whose ciphertext this package frames.
	NoisePSKSize = 32
	NoiseTagSize = 16

	// ExtensionTypeNoExtension is the extension field value for frames
	// that carry no protocol extension.
	ExtensionTypeNoExtension uint16 = 0

	// MaxPayloadLen is the largest value the 3-byte length field encodes.
	MaxPayloadLen = 1<<24 - 1
	// MaxNoisePayloadLen is the largest value the noise header encodes.
	MaxNoisePayloadLen = 1<<16 - 1

	// channelBit occupies the top bit of the 16-bit extension field.
	channelBit uint16 = 0x8000
	// extensionMask selects the remaining 15 bits.
	extensionMask uint16 = 0x7fff
)

var (
	ErrShortHeader        = errors.New("framing: short frame header")
	ErrExtensionTooLarge  = errors.New("framing: extension type exceeds 15 bits")
	ErrPayloadTooLarge    = errors.New("framing: payload too large")
	ErrChannelBitMismatch = errors.New("framing: channel bit does not match catalog")
)

// Header is the decoded plaintext frame header. ExtensionType carries the
// 15-bit value with the channel bit already stripped.
type Header struct {
	ExtensionType uint16
	ChannelBit    bool
	MessageType   uint8
	PayloadLen    uint32
}

// EncodeHeader packs h into its 6-byte wire form.
func EncodeHeader(h Header) ([]byte, error) {
	if h.ExtensionType > extensionMask {
		return nil, fmt.Errorf("%w: 0x%04x", ErrExtensionTooLarge, h.ExtensionType)
	}
	if h.PayloadLen > MaxPayloadLen {
		return nil, fmt.Errorf("%w: %d bytes", ErrPayloadTooLarge, h.PayloadLen)
	}
	ext := h.ExtensionType
	if h.ChannelBit {
		ext |= channelBit
	}
	buf := make([]byte, HeaderSize)
	binary.LittleEndian.PutUint16(buf[0:2], ext)
	buf[2] = h.MessageType
	buf[LengthOffset] = byte(h.PayloadLen)
	buf[LengthOffset+1] = byte(h.PayloadLen >> 8)
	buf[LengthOffset+2] = byte(h.PayloadLen >> 16)
	return buf, nil
}

// DecodeHeader unpacks a 6-byte header. A message type absent from the
// catalog is a hard error, never a wait-for-more-data condition.
func DecodeHeader(b []byte) (Header, error) {
	if len(b) < HeaderSize {
		return Header{}, fmt.Errorf("%w: %d bytes", ErrShortHeader, len(b))
	}
	ext := binary.LittleEndian.Uint16(b[0:2])
	h := Header{
		ExtensionType: ext & extensionMask,
		ChannelBit:    ext&channelBit != 0,
		MessageType:   b[2],
		PayloadLen:    uint32(b[LengthOffset]) | uint32(b[LengthOffset+1])<<8 | uint32(b[LengthOffset+2])<<16,
	}
	if !sv2.Known(h.MessageType) {
		return Header{}, fmt.Errorf("%w: 0x%02x", sv2.ErrUnknownMessageType, h.MessageType)
	}
	return h, nil
}

// HeaderFor builds the header for one outbound message, stamping the
// catalog channel bit for its type.
func HeaderFor(msgType uint8, payloadLen int) (Header, error) {
	cb, err := sv2.ChannelBit(msgType)
	if err != nil {
		return Header{}, err
	}
	if payloadLen > MaxPayloadLen {
		return Header{}, fmt.Errorf("%w: %d bytes", ErrPayloadTooLarge, payloadLen)
	}
	return Header{
		ExtensionType: ExtensionTypeNoExtension,
		ChannelBit:    cb,
		MessageType:   msgType,
		PayloadLen:    uint32(payloadLen),
	}, nil
}

// EncodeNoiseHeader packs the 2-byte length-only header delimiting one
// opaque (encrypted or to-be-encrypted) byte run.
func EncodeNoiseHeader(payloadLen int) ([]byte, error) {
	if payloadLen > MaxNoisePayloadLen {
		return nil, fmt.Errorf("%w: %d bytes", ErrPayloadTooLarge, payloadLen)
	}
	buf := make([]byte, NoiseHeaderSize)
	binary.LittleEndian.PutUint16(buf, uint16(payloadLen))
	return buf, nil
}

// DecodeNoiseHeader unpacks a noise transport header.
func DecodeNoiseHeader(b []byte) (int, error) {
	if len(b) < NoiseHeaderSize {
		return 0, fmt.Errorf("%w: %d bytes", ErrShortHeader, len(b))
	}
	return int(binary.LittleEndian.Uint16(b[:NoiseHeaderSize])), nil
}
