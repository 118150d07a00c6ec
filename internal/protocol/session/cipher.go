package session

import (
	"encoding/binary"
	"errors"
	"fmt"

	"golang.org/x/crypto/chacha20poly1305"

	"github.com/stratumforge/sv2wire/internal/protocol/framing"
)

var (
	ErrBadKeySize     = errors.New("session: cipher key must be 32 bytes")
	ErrCipherRequired = errors.New("session: production mode requires a transport cipher")
	ErrNonceExhausted = errors.New("session: cipher nonce counter exhausted")
)

// Cipher seals and opens the opaque byte runs the noise transport header
// delimits. The handshake that derives the keys lives outside this module;
// a finished handshake yields one Cipher per direction.
type Cipher interface {
	// Seal encrypts one plaintext run, appending the authentication tag.
	Seal(plaintext []byte) ([]byte, error)
	// Open decrypts one ciphertext run, verifying the tag.
	Open(ciphertext []byte) ([]byte, error)
}

// chachaCipher is the ChaCha20-Poly1305 transport state a noise handshake
// leaves behind: a 32-byte key and a little-endian message counter filling
// the final 8 bytes of the nonce.
type chachaCipher struct {
	key   [chacha20poly1305.KeySize]byte
	nonce uint64
}

// NewChaChaCipher returns a transport Cipher over an established 32-byte
// key. Each direction of a connection needs its own instance; the nonce
// counter advances per sealed or opened run.
func NewChaChaCipher(key []byte) (Cipher, error) {
	if len(key) != chacha20poly1305.KeySize {
		return nil, fmt.Errorf("%w: got %d", ErrBadKeySize, len(key))
	}
	c := &chachaCipher{}
	copy(c.key[:], key)
	return c, nil
}

func (c *chachaCipher) nextNonce() ([]byte, error) {
	if c.nonce == ^uint64(0) {
		return nil, ErrNonceExhausted
	}
	nonce := make([]byte, chacha20poly1305.NonceSize)
	binary.LittleEndian.PutUint64(nonce[4:], c.nonce)
	c.nonce++
	return nonce, nil
}

func (c *chachaCipher) Seal(plaintext []byte) ([]byte, error) {
	if len(plaintext)+framing.NoiseTagSize > framing.MaxNoisePayloadLen {
		return nil, fmt.Errorf("session: plaintext run of %d bytes exceeds noise frame bound", len(plaintext))
	}
	aead, err := chacha20poly1305.New(c.key[:])
	if err != nil {
		return nil, err
	}
	nonce, err := c.nextNonce()
	if err != nil {
		return nil, err
	}
	return aead.Seal(nil, nonce, plaintext, nil), nil
}

func (c *chachaCipher) Open(ciphertext []byte) ([]byte, error) {
	if len(ciphertext) < framing.NoiseTagSize {
		return nil, fmt.Errorf("session: ciphertext run of %d bytes shorter than tag", len(ciphertext))
	}
	aead, err := chacha20poly1305.New(c.key[:])
	if err != nil {
		return nil, err
	}
	nonce, err := c.nextNonce()
	if err != nil {
		return nil, err
	}
	plaintext, err := aead.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return nil, fmt.Errorf("session: open noise run: %w", err)
	}
	return plaintext, nil
}

// ValidateTransport checks cfg against the configured cipher pair before a
// connection starts.
func ValidateTransport(cfg Config, sealer, opener Cipher) error {
	if cfg.SecurityMode == SecurityModeProduction && (sealer == nil || opener == nil) {
		return ErrCipherRequired
	}
	return nil
}
