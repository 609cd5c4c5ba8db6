package codec

import (
	"bytes"
	"fmt"

	kerrors "github.com/PolarWolf314/lockfiles/internal/errors"
)

// PadBlockSize is the padding boundary, twice the AES block size. Existing
// locked files depend on it.
const PadBlockSize = 32

// Pad appends p bytes of value p, where p = 32 - len(data)%32. A length that
// is already a multiple of 32 gets a full block of 32s.
func Pad(data []byte) []byte {
	p := PadBlockSize - len(data)%PadBlockSize
	out := make([]byte, len(data), len(data)+p)
	copy(out, data)
	return append(out, bytes.Repeat([]byte{byte(p)}, p)...)
}

// Unpad removes the padding added by Pad. The pad length is untrusted: it must
// be in [1, 32], fit in data, and every padding byte must carry the same value.
func Unpad(data []byte) ([]byte, error) {
	n := len(data)
	if n == 0 {
		return nil, fmt.Errorf("%w: empty plaintext", kerrors.ErrDecryption)
	}

	u := int(data[n-1])
	if u == 0 || u > PadBlockSize || u > n {
		return nil, fmt.Errorf("%w: invalid padding size %d", kerrors.ErrDecryption, u)
	}

	for _, b := range data[n-u:] {
		if int(b) != u {
			return nil, fmt.Errorf("%w: invalid padding", kerrors.ErrDecryption)
		}
	}

	return data[:n-u], nil
}
