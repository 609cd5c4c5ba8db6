// Package codec turns plaintext into locked blobs and back.
//
// # Blob Format
//
//	blob = base64_std( iv[16] || AES-256-CBC(key, iv, Pad(plaintext)) )
//
// Padding works on a 32-byte boundary: p = 32 - len%32 bytes, each of value
// p, so an empty or 32-aligned payload gets a full 32-byte pad. Unpad treats
// the pad byte as untrusted and rejects anything that is not a run of 1..32
// identical bytes, which is how a wrong password is detected. There is no
// authentication tag: a tampered blob that still unpads cleanly decrypts to
// garbage.
//
// # Keys
//
// Keys are derived once per run with DeriveKey:
//
//   - SchemeDigest (default): HKDF-SHA256 over the password.
//   - SchemeLegacy: the password truncated or padded to 32 bytes, matching
//     files locked by lock_files.py.
//
// The package is stateless; a Key can be reused for any number of files.
package codec
