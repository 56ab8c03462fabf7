package crypto

import (
	"bytes"
	"compress/gzip"
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"golang.org/x/crypto/argon2"
)

const (
	payloadVersionV2 byte = 2
	payloadVersionV3 byte = 3

	compressionNone byte = 0
	compressionGzip byte = 1

	nonceSize   = 12
	kdfSaltSize = 16
	keySize     = 32

	argonTime    = 1
	argonMemory  = 64 * 1024
	argonThreads = 4
)

// KeyFromPassphrase derives a key with a bare SHA-256. Objects written
// before salted derivation existed still need it.
func KeyFromPassphrase(passphrase string) []byte {
	sum := sha256.Sum256([]byte(passphrase))
	return sum[:]
}

// KeyFromPassphraseWithSalt derives a key with Argon2id.
func KeyFromPassphraseWithSalt(passphrase string, salt []byte) []byte {
	return argon2.IDKey([]byte(passphrase), salt, argonTime, argonMemory, argonThreads, keySize)
}

func NewKDFSalt() ([]byte, error) {
	salt := make([]byte, kdfSaltSize)
	if _, err := io.ReadFull(rand.Reader, salt); err != nil {
		return nil, err
	}
	return salt, nil
}

func ValidateKDFSalt(salt []byte) error {
	if len(salt) != kdfSaltSize {
		return errors.New("kdf salt must be 16 bytes")
	}
	return nil
}

// DeriveKeys returns the salted Argon2id key first, which makes it the
// write key. The legacy unsalted key follows so objects written before
// salted derivation existed still decrypt.
func DeriveKeys(passphrase string, salt []byte) [][]byte {
	primary := KeyFromPassphraseWithSalt(passphrase, salt)
	legacy := KeyFromPassphrase(passphrase)
	keys := [][]byte{primary}
	if !bytes.Equal(primary, legacy) {
		keys = append(keys, legacy)
	}
	return keys
}

// LoadOrCreateKDFSalt reads the salt at path, generating and persisting
// a fresh one on first use. The write goes through a temp file so a
// crash cannot leave a truncated salt behind.
func LoadOrCreateKDFSalt(path string) ([]byte, error) {
	if salt, err := os.ReadFile(path); err == nil {
		if err := ValidateKDFSalt(salt); err != nil {
			return nil, fmt.Errorf("invalid KDF salt at %s: %w", path, err)
		}
		return salt, nil
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("read KDF salt: %w", err)
	}

	salt, err := NewKDFSalt()
	if err != nil {
		return nil, fmt.Errorf("generate KDF salt: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create salt dir: %w", err)
	}
	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, salt, 0o600); err != nil {
		return nil, fmt.Errorf("write KDF salt: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return nil, fmt.Errorf("persist KDF salt: %w", err)
	}
	return salt, nil
}

// EncryptBytes seals plaintext with AES-GCM. The payload carries a
// version byte and a compression byte; gzip is applied only when it
// actually shrinks the plaintext.
func EncryptBytes(key []byte, plaintext []byte) ([]byte, error) {
	compression := compressionNone
	body := plaintext
	if compressed, err := gzipCompress(plaintext); err == nil && len(compressed) < len(plaintext) {
		compression = compressionGzip
		body = compressed
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}

	nonce := make([]byte, nonceSize)
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, err
	}

	ciphertext := gcm.Seal(nil, nonce, body, nil)
	payload := make([]byte, 2+nonceSize+len(ciphertext))
	payload[0] = payloadVersionV3
	payload[1] = compression
	copy(payload[2:2+nonceSize], nonce)
	copy(payload[2+nonceSize:], ciphertext)
	return payload, nil
}

// DecryptBytes opens a payload produced by EncryptBytes. V2 payloads,
// which predate the compression byte, are still readable.
func DecryptBytes(key []byte, payload []byte) ([]byte, error) {
	if len(payload) == 0 {
		return nil, errors.New("payload too short")
	}

	switch payload[0] {
	case payloadVersionV3:
		if len(payload) < 2+nonceSize {
			return nil, errors.New("payload too short")
		}
		compression := payload[1]
		plain, err := openPayload(key, payload[2:2+nonceSize], payload[2+nonceSize:])
		if err != nil {
			return nil, err
		}
		switch compression {
		case compressionNone:
			return plain, nil
		case compressionGzip:
			return gzipDecompress(plain)
		default:
			return nil, errors.New("unsupported compression algorithm")
		}
	case payloadVersionV2:
		if len(payload) < 1+nonceSize {
			return nil, errors.New("payload too short")
		}
		return openPayload(key, payload[1:1+nonceSize], payload[1+nonceSize:])
	default:
		return nil, errors.New("unsupported payload version")
	}
}

// DecryptBytesWithAnyKey tries each key in order and returns the first
// successful plaintext. Objects written under the legacy derivation
// stay readable after a salt is introduced.
func DecryptBytesWithAnyKey(keys [][]byte, payload []byte) ([]byte, error) {
	if len(keys) == 0 {
		return nil, errors.New("no decryption keys configured")
	}

	var lastErr error
	for _, key := range keys {
		plain, err := DecryptBytes(key, payload)
		if err == nil {
			return plain, nil
		}
		lastErr = err
	}
	return nil, lastErr
}

func openPayload(key, nonce, ciphertext []byte) ([]byte, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}
	return gcm.Open(nil, nonce, ciphertext, nil)
}

func gzipCompress(data []byte) ([]byte, error) {
	var buf bytes.Buffer
	w := gzip.NewWriter(&buf)
	if _, err := w.Write(data); err != nil {
		return nil, err
	}
	if err := w.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func gzipDecompress(data []byte) ([]byte, error) {
	r, err := gzip.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	defer r.Close()
	return io.ReadAll(r)
}
