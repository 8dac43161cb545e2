package domain

// Algorithm represents the AEAD cipher used to protect a transit key version
// or a secret's plaintext fields.
//
// Both algorithms offer equivalent 256-bit security; the choice is a
// performance trade-off between hardware-accelerated AES and
// software-optimized ChaCha20.
type Algorithm string

const (
	// AESGCM is AES-256-GCM: 32-byte key, 12-byte nonce, 16-byte tag.
	// Fast on CPUs with AES-NI.
	AESGCM Algorithm = "aes-gcm"

	// ChaCha20 is ChaCha20-Poly1305: 32-byte key, 12-byte nonce, 16-byte tag.
	// Fast in pure software, preferred where AES-NI is unavailable.
	ChaCha20 Algorithm = "chacha20-poly1305"
)

// KeySize is the byte length required of every AEAD key and the master key.
const KeySize = 32

// NonceSize is the byte length of the AEAD nonce prepended to every ciphertext.
const NonceSize = 12

// TagSize is the byte length of the AEAD authentication tag appended to every ciphertext.
const TagSize = 16
