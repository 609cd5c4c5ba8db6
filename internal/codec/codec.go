package codec

import (
	"bytes"
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"io"

	kerrors "github.com/PolarWolf314/lockfiles/internal/errors"
)

// IVSize is the CBC initialization vector length.
const IVSize = aes.BlockSize

// Codec encrypts payloads into blobs and back. The zero value is ready to use
// and reads IVs from crypto/rand.
type Codec struct {
	// Rand overrides the IV source. Tests only.
	Rand io.Reader
}

var defaultCodec Codec

// Encrypt locks plaintext with the default codec.
func Encrypt(key Key, plaintext []byte) ([]byte, error) {
	return defaultCodec.Encrypt(key, plaintext)
}

// Decrypt unlocks blob with the default codec.
func Decrypt(key Key, blob []byte) ([]byte, error) {
	return defaultCodec.Decrypt(key, blob)
}

// Encrypt returns base64(iv || AES-256-CBC(key, iv, Pad(plaintext))).
func (c Codec) Encrypt(key Key, plaintext []byte) ([]byte, error) {
	block, err := aes.NewCipher(key[:])
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create cipher: %v", kerrors.ErrEncryption, err)
	}

	padded := Pad(plaintext)
	raw := make([]byte, IVSize+len(padded))
	iv := raw[:IVSize]
	if _, err := io.ReadFull(c.random(), iv); err != nil {
		return nil, fmt.Errorf("%w: failed to generate IV: %v", kerrors.ErrEncryption, err)
	}

	cipher.NewCBCEncrypter(block, iv).CryptBlocks(raw[IVSize:], padded)

	blob := make([]byte, base64.StdEncoding.EncodedLen(len(raw)))
	base64.StdEncoding.Encode(blob, raw)
	return blob, nil
}

// Decrypt reverses Encrypt. Malformed blobs and wrong keys both surface as
// ErrDecryption; a wrong key is caught by the padding check.
func (c Codec) Decrypt(key Key, blob []byte) ([]byte, error) {
	blob = bytes.TrimSpace(blob)
	raw := make([]byte, base64.StdEncoding.DecodedLen(len(blob)))
	n, err := base64.StdEncoding.Decode(raw, blob)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid base64: %v", kerrors.ErrDecryption, err)
	}
	raw = raw[:n]

	if len(raw) < IVSize+aes.BlockSize || (len(raw)-IVSize)%aes.BlockSize != 0 {
		return nil, fmt.Errorf("%w: malformed blob of %d bytes", kerrors.ErrDecryption, len(raw))
	}

	block, err := aes.NewCipher(key[:])
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create cipher: %v", kerrors.ErrDecryption, err)
	}

	iv, ciphertext := raw[:IVSize], raw[IVSize:]
	plaintext := make([]byte, len(ciphertext))
	cipher.NewCBCDecrypter(block, iv).CryptBlocks(plaintext, ciphertext)

	return Unpad(plaintext)
}

func (c Codec) random() io.Reader {
	if c.Rand != nil {
		return c.Rand
	}
	return rand.Reader
}
