// Package session owns the transport shell around one SV2 codec pair.
//
// Ownership boundary:
// - connection read/write loops driving Decoder and Encoder
// - outbound message buffering
// - reliability defaults (timeouts, backoff)
// - the cipher boundary with the external noise handshake layer
//
// The codec itself never blocks; all waiting for socket data happens here.
package session
