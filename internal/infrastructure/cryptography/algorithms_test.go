//go:build unit
// +build unit

package cryptography

import (
	"crypto"
	"testing"

	"rsa_engine_service/internal/domain/cryptoalg"
	pkgTesting "rsa_engine_service/internal/pkg/testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSignatureAlgorithmByName(t *testing.T) {
	logger := pkgTesting.SetupTestLogger(t)

	for _, name := range []string{
		cryptoalg.RS256, cryptoalg.RS384, cryptoalg.RS512, cryptoalg.RSA2048SHA256,
	} {
		algo, err := SignatureAlgorithmByName(name, logger)
		require.NoError(t, err)
		assert.Equal(t, name, algo.Name())
	}

	_, err := SignatureAlgorithmByName("ES256", logger)
	assert.ErrorIs(t, err, ErrMisuse)
}

func TestSignatureAlgorithmRoundTrip(t *testing.T) {
	logger := pkgTesting.SetupTestLogger(t)

	algo, err := SignatureAlgorithmByName(cryptoalg.RS256, logger)
	require.NoError(t, err)

	pubDER, privDER, err := algo.GenerateDER()
	require.NoError(t, err)
	require.NotEmpty(t, pubDER)
	require.NotEmpty(t, privDER)

	pubPEM := DERToPEM(pubDER, PublicKeyPEMType)
	privPEM := DERToPEM(privDER, PrivateKeyPEMType)
	message := []byte("catalog adapter message")

	signature, err := algo.Sign(crypto.Hash(0), message, privPEM)
	require.NoError(t, err)
	assert.Len(t, signature, 256)

	valid, err := algo.Verify(crypto.Hash(0), message, signature, pubPEM)
	require.NoError(t, err)
	assert.True(t, valid)

	t.Run("tampered message", func(t *testing.T) {
		valid, err := algo.Verify(crypto.Hash(0), []byte("another message"), signature, pubPEM)
		require.NoError(t, err)
		assert.False(t, valid)
	})

	t.Run("tampered signature", func(t *testing.T) {
		bad := append([]byte(nil), signature...)
		bad[0] ^= 0x01
		valid, err := algo.Verify(crypto.Hash(0), message, bad, pubPEM)
		require.NoError(t, err)
		assert.False(t, valid)
	})

	t.Run("explicit hash override", func(t *testing.T) {
		signature, err := algo.Sign(crypto.SHA384, message, privPEM)
		require.NoError(t, err)
		valid, err := algo.Verify(crypto.SHA384, message, signature, pubPEM)
		require.NoError(t, err)
		assert.True(t, valid)
	})
}
