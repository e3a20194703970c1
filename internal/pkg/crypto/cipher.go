package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"io"
	"strings"

	"golang.org/x/crypto/scrypt"
)

var (
	ErrSecretTooShort    = errors.New("encryption secret must be at least 32 characters")
	ErrMalformedCipher   = errors.New("malformed ciphertext")
	ErrDecryptionFailure = errors.New("decryption failed")
)

const (
	saltSize  = 16
	keySize   = 32
	minSecret = 32

	// scrypt cost parameters
	scryptN = 1 << 14
	scryptR = 8
	scryptP = 1

	encodedParts = 3
)

// Cipher encrypts contact PII at rest with AES-256-GCM. Each message gets a
// random salt, so the key is derived per message from the shared secret.
// Encoded form: base64(salt) "." base64(nonce) "." base64(ciphertext+tag).
type Cipher struct {
	secret []byte
	rand   io.Reader
}

func NewCipher(secret string) (*Cipher, error) {
	if len(secret) < minSecret {
		return nil, ErrSecretTooShort
	}
	return &Cipher{secret: []byte(secret), rand: rand.Reader}, nil
}

func (c *Cipher) Encrypt(plaintext string) (string, error) {
	salt := make([]byte, saltSize)
	if _, err := io.ReadFull(c.rand, salt); err != nil {
		return "", err
	}

	aead, err := c.aead(salt)
	if err != nil {
		return "", err
	}

	nonce := make([]byte, aead.NonceSize())
	if _, err := io.ReadFull(c.rand, nonce); err != nil {
		return "", err
	}

	sealed := aead.Seal(nil, nonce, []byte(plaintext), nil)
	enc := base64.RawStdEncoding
	return enc.EncodeToString(salt) + "." + enc.EncodeToString(nonce) + "." + enc.EncodeToString(sealed), nil
}

func (c *Cipher) Decrypt(encoded string) (string, error) {
	parts := strings.Split(encoded, ".")
	if len(parts) != encodedParts {
		return "", ErrMalformedCipher
	}

	enc := base64.RawStdEncoding
	salt, err := enc.DecodeString(parts[0])
	if err != nil || len(salt) != saltSize {
		return "", ErrMalformedCipher
	}
	nonce, err := enc.DecodeString(parts[1])
	if err != nil {
		return "", ErrMalformedCipher
	}
	sealed, err := enc.DecodeString(parts[2])
	if err != nil {
		return "", ErrMalformedCipher
	}

	aead, err := c.aead(salt)
	if err != nil {
		return "", err
	}
	if len(nonce) != aead.NonceSize() {
		return "", ErrMalformedCipher
	}

	plain, err := aead.Open(nil, nonce, sealed, nil)
	if err != nil {
		return "", ErrDecryptionFailure
	}
	return string(plain), nil
}

func (c *Cipher) aead(salt []byte) (cipher.AEAD, error) {
	key, err := scrypt.Key(c.secret, salt, scryptN, scryptR, scryptP, keySize)
	if err != nil {
		return nil, err
	}
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	return cipher.NewGCM(block)
}
