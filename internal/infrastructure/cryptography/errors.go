package cryptography

import (
	"errors"

	"rsa_engine_service/internal/infrastructure/bigint"
)

// Error kinds surfaced by the RSA engine. Arithmetic-core failures keep
// their own sentinels; errors.Is resolves both layers.
var (
	// ErrMisuse flags programmer errors: double-loading a key, generating
	// with an unsupported size, padding a message that cannot fit.
	ErrMisuse = errors.New("rsa: misuse")
	// ErrFormat flags malformed ASN.1, PEM or key-record input.
	ErrFormat = errors.New("rsa: invalid format")
	// ErrPadding flags malformed PKCS#1 v1.5 padding on decrypt/verify.
	ErrPadding = errors.New("rsa: invalid padding")
	// ErrTimeout mirrors the arithmetic core's prime-search deadline.
	ErrTimeout = bigint.ErrTimeout
	// ErrWeakRandomness mirrors the arithmetic core's PRNG health check.
	ErrWeakRandomness = bigint.ErrWeakRandomness
)
