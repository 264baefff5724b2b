package secret

import (
	"context"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"fmt"

	"golang.org/x/crypto/chacha20poly1305"

	"github.com/majordome-app/majordome/internal/logger"
)

// Box encrypts short secrets with XChaCha20-Poly1305. The wire form is
// base64(nonce || ciphertext). A Box built from an empty key operates in
// plaintext mode: values pass through unchanged. That mode exists for
// local development only and is announced at WARN on construction so it
// can never be mistaken for the encrypted mode.
type Box struct {
	aead      cipher.AEAD
	nonceSize int
}

// NewBox builds a Box from a base64-encoded 32-byte key. An empty key
// yields a plaintext Box.
func NewBox(ctx context.Context, encodedKey string) (*Box, error) {
	if encodedKey == "" {
		logger.Warnf(ctx, "no encryption key configured, secrets will be stored in clear (development mode)")
		return &Box{}, nil
	}

	key, err := base64.StdEncoding.DecodeString(encodedKey)
	if err != nil {
		return nil, fmt.Errorf("failed to decode encryption key: %w", err)
	}
	if len(key) != chacha20poly1305.KeySize {
		return nil, fmt.Errorf("encryption key must be %d bytes, got %d", chacha20poly1305.KeySize, len(key))
	}

	aead, err := chacha20poly1305.NewX(key)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize cipher: %w", err)
	}
	return &Box{aead: aead, nonceSize: chacha20poly1305.NonceSizeX}, nil
}

// Enabled reports whether the Box actually encrypts
func (b *Box) Enabled() bool {
	return b.aead != nil
}

// Encrypt seals the plaintext. In plaintext mode the input is returned
// unchanged.
func (b *Box) Encrypt(plaintext string) (string, error) {
	if !b.Enabled() {
		return plaintext, nil
	}
	nonce := make([]byte, b.nonceSize)
	if _, err := rand.Read(nonce); err != nil {
		return "", fmt.Errorf("failed to generate nonce: %w", err)
	}
	sealed := b.aead.Seal(nonce, nonce, []byte(plaintext), nil)
	return base64.StdEncoding.EncodeToString(sealed), nil
}

// Decrypt opens a sealed value. On failure (rotated key, or a value
// written in plaintext mode) the input is returned unchanged along with
// the error, so callers can trade availability for a visible downstream
// authentication failure.
func (b *Box) Decrypt(sealed string) (string, error) {
	if !b.Enabled() {
		return sealed, nil
	}
	raw, err := base64.StdEncoding.DecodeString(sealed)
	if err != nil {
		return sealed, fmt.Errorf("failed to decode sealed value: %w", err)
	}
	if len(raw) < b.nonceSize {
		return sealed, fmt.Errorf("sealed value too short")
	}
	plaintext, err := b.aead.Open(nil, raw[:b.nonceSize], raw[b.nonceSize:], nil)
	if err != nil {
		return sealed, fmt.Errorf("failed to decrypt value: %w", err)
	}
	return string(plaintext), nil
}
