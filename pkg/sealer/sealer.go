package sealer

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"strings"
)

const separator = ":"

var ErrInvalidToken = errors.New("invalid token")

// Sealer turns a pair of identifiers into an opaque URL-safe token and back.
type Sealer struct {
	aead cipher.AEAD
}

// New builds a Sealer from a base64 AES key (16, 24 or 32 bytes). An empty
// key generates a random one, so tokens only survive for the process lifetime.
func New(encodedKey string) (*Sealer, error) {
	var key []byte
	if encodedKey == "" {
		key = make([]byte, 32)
		if _, err := io.ReadFull(rand.Reader, key); err != nil {
			return nil, fmt.Errorf("failed to generate key: %w", err)
		}
	} else {
		var err error
		key, err = base64.StdEncoding.DecodeString(encodedKey)
		if err != nil {
			return nil, fmt.Errorf("failed to decode key: %w", err)
		}
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}

	aesgcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}

	return &Sealer{aead: aesgcm}, nil
}

func (s *Sealer) CreateOpaqueToken(first, second string) (string, error) {
	if strings.Contains(first, separator) {
		return "", fmt.Errorf("%w: identifier contains %q", ErrInvalidToken, separator)
	}
	plaintext := []byte(first + separator + second)

	nonce := make([]byte, s.aead.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", err
	}

	ct := s.aead.Seal(nonce, nonce, plaintext, nil)
	return base64.RawURLEncoding.EncodeToString(ct), nil
}

func (s *Sealer) ParseOpaqueToken(token string) (string, string, error) {
	data, err := base64.RawURLEncoding.DecodeString(token)
	if err != nil {
		return "", "", fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	nonceSize := s.aead.NonceSize()
	if len(data) <= nonceSize {
		return "", "", ErrInvalidToken
	}
	nonce := data[:nonceSize]
	ciphertext := data[nonceSize:]

	pt, err := s.aead.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return "", "", fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	parts := strings.SplitN(string(pt), separator, 2)
	if len(parts) != 2 {
		return "", "", ErrInvalidToken
	}

	return parts[0], parts[1], nil
}
