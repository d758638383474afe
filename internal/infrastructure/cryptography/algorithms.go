package cryptography

import (
	"bytes"
	"crypto"
	"fmt"

	// register the hash constructors the catalog names rely on
	_ "crypto/sha256"
	_ "crypto/sha512"

	"rsa_engine_service/internal/domain/cryptoalg"
	"rsa_engine_service/internal/pkg/logger"
)

// rsaSignatureAlgorithm implements cryptoalg.SignatureAlgorithm over the
// engine, with a fixed hash and key size per registered name.
type rsaSignatureAlgorithm struct {
	name   string
	hash   crypto.Hash
	bits   int
	logger logger.Logger
}

func (a *rsaSignatureAlgorithm) Name() string {
	return a.name
}

// GenerateDER produces a fresh key pair as DER blobs.
func (a *rsaSignatureAlgorithm) GenerateDER() ([]byte, []byte, error) {
	engine, err := NewRSAEngine(a.logger)
	if err != nil {
		return nil, nil, err
	}
	defer func() {
		if err := engine.Close(); err != nil {
			a.logger.Error("engine teardown: ", err)
		}
	}()
	if err := engine.GenerateKeys(a.bits, 0); err != nil {
		return nil, nil, err
	}
	pub, err := engine.SavePublicKeyDER()
	if err != nil {
		return nil, nil, err
	}
	priv, err := engine.SavePrivateKeyDER()
	if err != nil {
		return nil, nil, err
	}
	return pub, priv, nil
}

// Sign hashes message and signs the digest with the PEM-framed private
// key.
func (a *rsaSignatureAlgorithm) Sign(hasher crypto.Hash, message []byte, privateKeyPEM string) ([]byte, error) {
	if hasher == 0 {
		hasher = a.hash
	}
	h := hasher.New()
	h.Write(message)
	digest := h.Sum(nil)

	engine, err := NewRSAEngine(a.logger)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := engine.Close(); err != nil {
			a.logger.Error("engine teardown: ", err)
		}
	}()
	if err := engine.LoadPrivateKeyPEM(privateKeyPEM); err != nil {
		return nil, err
	}
	return engine.Sign(digest, hasher)
}

// Verify hashes message and checks signature against the PEM-framed
// public key.
func (a *rsaSignatureAlgorithm) Verify(hasher crypto.Hash, message, signature []byte, publicKeyPEM string) (bool, error) {
	if hasher == 0 {
		hasher = a.hash
	}
	h := hasher.New()
	h.Write(message)
	digest := h.Sum(nil)

	engine, err := NewRSAEngine(a.logger)
	if err != nil {
		return false, err
	}
	defer func() {
		if err := engine.Close(); err != nil {
			a.logger.Error("engine teardown: ", err)
		}
	}()
	if err := engine.LoadPublicKeyPEM(publicKeyPEM); err != nil {
		return false, err
	}
	recovered, oid, err := engine.Verify(signature)
	if err != nil {
		return false, nil
	}
	wantOID, ok := hashOIDs[hasher]
	if !ok {
		return false, fmt.Errorf("unsupported digest algorithm %v: %w", hasher, ErrMisuse)
	}
	return oid == wantOID.String() && bytes.Equal(recovered, digest), nil
}

// signatureAlgorithms is the catalog of registered adapters.
var signatureAlgorithms = map[string]struct {
	hash crypto.Hash
	bits int
}{
	cryptoalg.RS256:         {crypto.SHA256, 2048},
	cryptoalg.RS384:         {crypto.SHA384, 2048},
	cryptoalg.RS512:         {crypto.SHA512, 2048},
	cryptoalg.RSA2048SHA256: {crypto.SHA256, 2048},
}

// SignatureAlgorithmByName resolves one of the registered names (RS256,
// RS384, RS512, RSA2048SHA256).
func SignatureAlgorithmByName(name string, logger logger.Logger) (cryptoalg.SignatureAlgorithm, error) {
	entry, ok := signatureAlgorithms[name]
	if !ok {
		return nil, fmt.Errorf("unknown signature algorithm %q: %w", name, ErrMisuse)
	}
	return &rsaSignatureAlgorithm{
		name:   name,
		hash:   entry.hash,
		bits:   entry.bits,
		logger: logger.WithComponent(name),
	}, nil
}
