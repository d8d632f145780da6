package store

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"io"

	"golang.org/x/crypto/pbkdf2"
)

// Wire format for encrypted_key: base64(salt || nonce || ciphertext), with
// the key derived via PBKDF2-SHA256 and the ciphertext sealed with
// AES-256-GCM. The AAD tag makes the blob self-describing so a future
// scheme change can be detected on decrypt.
const (
	kdfRounds = 1000
	kdfKeyLen = 32
	saltLen   = 16
	cryptoTag = "AES256GCM"
)

// ErrWrongPassphrase is returned when a blob fails to authenticate, which
// almost always means the passphrase was wrong.
var ErrWrongPassphrase = errors.New("could not decrypt key, wrong passphrase")

// EncryptAPIKey encrypts apiKey under passphrase for storage in the
// encrypted_key entry.
func EncryptAPIKey(apiKey, passphrase string) (string, error) {
	salt := make([]byte, saltLen)
	if _, err := io.ReadFull(rand.Reader, salt); err != nil {
		return "", fmt.Errorf("generating salt: %w", err)
	}

	aead, err := newAEAD(passphrase, salt)
	if err != nil {
		return "", err
	}

	nonce := make([]byte, aead.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", fmt.Errorf("generating nonce: %w", err)
	}

	blob := append(salt, nonce...)
	blob = aead.Seal(blob, nonce, []byte(apiKey), []byte(cryptoTag))
	return base64.StdEncoding.EncodeToString(blob), nil
}

// DecryptAPIKey reverses EncryptAPIKey. A blob that fails to authenticate
// yields ErrWrongPassphrase.
func DecryptAPIKey(encoded, passphrase string) (string, error) {
	blob, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return "", fmt.Errorf("decoding encrypted key: %w", err)
	}
	if len(blob) < saltLen {
		return "", errors.New("encrypted key is truncated")
	}

	salt := blob[:saltLen]
	aead, err := newAEAD(passphrase, salt)
	if err != nil {
		return "", err
	}
	if len(blob) < saltLen+aead.NonceSize() {
		return "", errors.New("encrypted key is truncated")
	}

	nonce := blob[saltLen : saltLen+aead.NonceSize()]
	ciphertext := blob[saltLen+aead.NonceSize():]

	plain, err := aead.Open(nil, nonce, ciphertext, []byte(cryptoTag))
	if err != nil {
		return "", ErrWrongPassphrase
	}
	return string(plain), nil
}

func newAEAD(passphrase string, salt []byte) (cipher.AEAD, error) {
	key := pbkdf2.Key([]byte(passphrase), salt, kdfRounds, kdfKeyLen, sha256.New)
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("initializing cipher: %w", err)
	}
	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("initializing GCM: %w", err)
	}
	return aead, nil
}
