package keys

import (
	"context"
	"crypto"
	"time"
)

// RSAEngine is the façade over the multi-precision RSA core: key
// loading/saving in PKCS#1/PKCS#8 shapes, FIPS 186-4 key generation,
// PKCS#1 v1.5 signatures and encryption with CRT-accelerated private
// operations.
type RSAEngine interface {
	// --- Key material ---

	// GenerateKeys produces a fresh key pair of the given modulus size.
	// Supported sizes: 512, 1024, 2048, 3072, 4096 and 7680 bits. The
	// search for primes gives up when timeout elapses.
	GenerateKeys(bits int, timeout time.Duration) error

	// HasPublicKey reports whether modulus and public exponent are loaded.
	HasPublicKey() bool
	// HasPrivateKey reports whether the private key components are loaded.
	HasPrivateKey() bool
	// ModulusBits returns the size of the loaded modulus in bits.
	ModulusBits() int
	// ModulusLen returns the size of the loaded modulus in bytes.
	ModulusLen() int

	// LoadPublicKeyRecord installs a public key; the engine must be empty.
	LoadPublicKeyRecord(rec *PublicKeyRecord) error
	// LoadPublicKeyDER parses a SubjectPublicKeyInfo or bare PKCS#1 blob.
	LoadPublicKeyDER(der []byte) error
	// LoadPublicKeyPEM parses a PEM-framed public key.
	LoadPublicKeyPEM(pem string) error
	// LoadPublicKeyBinary installs a raw big-endian modulus with e=65537.
	LoadPublicKeyBinary(modulus []byte) error
	// LoadPublicKeyHex installs a display-order hexadecimal modulus with
	// e=65537.
	LoadPublicKeyHex(modulus string) error
	// LoadPrivateKeyRecord installs a private key; the engine must be
	// empty. Structural bounds are enforced here, CheckPrivateKey runs
	// the arithmetic consistency check. The record is wiped on success.
	LoadPrivateKeyRecord(rec *PrivateKeyRecord) error
	// LoadPrivateKeyDER parses a PKCS#8 or bare PKCS#1 private key blob.
	LoadPrivateKeyDER(der []byte) error
	// LoadPrivateKeyPEM parses a PEM-framed private key.
	LoadPrivateKeyPEM(pem string) error

	// SavePublicKeyRecord exports the loaded public key components.
	SavePublicKeyRecord() (*PublicKeyRecord, error)
	// SavePublicKeyDER emits a SubjectPublicKeyInfo blob.
	SavePublicKeyDER() ([]byte, error)
	// SavePublicKeyPEM emits an "RSA PUBLIC KEY" PEM block.
	SavePublicKeyPEM() (string, error)
	// SavePrivateKeyRecord exports the loaded private key components.
	SavePrivateKeyRecord() (*PrivateKeyRecord, error)
	// SavePrivateKeyDER emits a PKCS#8 blob.
	SavePrivateKeyDER() ([]byte, error)
	// SavePrivateKeyPEM emits an "RSA PRIVATE KEY" PEM block.
	SavePrivateKeyPEM() (string, error)

	// CheckPrivateKey verifies the arithmetic consistency of the loaded
	// private key components.
	CheckPrivateKey() bool

	// --- Cryptographic operations ---

	// Sign wraps digest in a DigestInfo and produces a PKCS#1 v1.5
	// block-type-1 signature of ModulusLen bytes.
	Sign(digest []byte, algo crypto.Hash) ([]byte, error)
	// Verify opens a signature and returns the recovered digest and the
	// dotted-text OID of the hash algorithm it names.
	Verify(signature []byte) (digest []byte, algoOID string, err error)
	// Encrypt applies block-type-2 padding and the public operation.
	Encrypt(plain []byte) ([]byte, error)
	// Decrypt applies the CRT private operation and strips the padding.
	Decrypt(cipher []byte) ([]byte, error)
	// BufferEncryptSign runs pad-then-exponentiate in the requested mode.
	BufferEncryptSign(input []byte, sign bool) ([]byte, error)
	// BufferDecryptVerify runs exponentiate-then-unpad in the requested
	// mode; input must be exactly ModulusLen bytes.
	BufferDecryptVerify(input []byte, verify bool) ([]byte, error)

	// Close releases the engine's arena, reporting leaked values.
	Close() error
}

// KeyGenerationService generates key pairs and persists their PEM blobs
// plus metadata.
type KeyGenerationService interface {
	// Generate creates a key pair of the given size and stores both
	// halves, returning the metadata of the stored keys.
	Generate(ctx context.Context, keySize uint32) ([]*KeyMeta, error)
}

// KeyMetadataService manages stored key metadata.
type KeyMetadataService interface {
	// List retrieves key metadata honoring the query filter.
	List(ctx context.Context, query *KeyQuery) ([]*KeyMeta, error)
	// GetByID retrieves the metadata of one stored key.
	GetByID(ctx context.Context, keyID string) (*KeyMeta, error)
	// DeleteByID removes a stored key and its metadata.
	DeleteByID(ctx context.Context, keyID string) error
}

// KeyDownloadService retrieves stored key material.
type KeyDownloadService interface {
	// DownloadByID returns the PEM bytes of a stored key.
	DownloadByID(ctx context.Context, keyID string) ([]byte, error)
}

// KeyRepository defines the persistence operations for key metadata and
// PEM blobs.
type KeyRepository interface {
	Create(ctx context.Context, meta *KeyMeta, pem []byte) error
	List(ctx context.Context, query *KeyQuery) ([]*KeyMeta, error)
	GetByID(ctx context.Context, keyID string) (*KeyMeta, error)
	GetPEMByID(ctx context.Context, keyID string) ([]byte, error)
	DeleteByID(ctx context.Context, keyID string) error
}
