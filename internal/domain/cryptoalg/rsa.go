package cryptoalg

import "crypto"

// Registered RSA signature algorithm names.
const (
	RS256         = "RS256"
	RS384         = "RS384"
	RS512         = "RS512"
	RSA2048SHA256 = "RSA2048SHA256"
)

// SignatureAlgorithm adapts an asymmetric engine for catalog consumers:
// key pairs travel as DER blobs, sign/verify take PEM-framed keys and
// hash the message themselves.
type SignatureAlgorithm interface {
	// Name returns the registered algorithm name.
	Name() string

	// GenerateDER produces a fresh key pair as DER blobs.
	GenerateDER() (publicDER, privateDER []byte, err error)

	// Sign hashes message with hasher (the algorithm's own hash when
	// zero) and signs the digest with the PEM-framed private key.
	Sign(hasher crypto.Hash, message []byte, privateKeyPEM string) ([]byte, error)

	// Verify hashes message and checks signature against the PEM-framed
	// public key.
	Verify(hasher crypto.Hash, message, signature []byte, publicKeyPEM string) (bool, error)
}
