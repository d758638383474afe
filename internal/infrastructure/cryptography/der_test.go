//go:build unit
// +build unit

package cryptography

import (
	"crypto"
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"testing"

	"rsa_engine_service/internal/domain/keys"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPublicKeyDERRoundTrip(t *testing.T) {
	rec := &keys.PublicKeyRecord{
		Modulus:  []byte{0xC0, 0x95, 0x08, 0xE1, 0x57, 0x41, 0xF2, 0x71, 0x6D, 0xB7, 0xD2, 0x45},
		Exponent: []byte{0x01, 0x00, 0x01},
	}

	der, err := EncodePublicKeyDER(rec)
	require.NoError(t, err)

	back, err := ParsePublicKeyDER(der)
	require.NoError(t, err)
	assert.Equal(t, rec.Modulus, back.Modulus)
	assert.Equal(t, rec.Exponent, back.Exponent)
}

func TestPublicKeyDERInterop(t *testing.T) {
	key, err := rsa.GenerateKey(rand.Reader, 1024)
	require.NoError(t, err)

	t.Run("parse PKIX emitted by the standard library", func(t *testing.T) {
		der, err := x509.MarshalPKIXPublicKey(&key.PublicKey)
		require.NoError(t, err)

		rec, err := ParsePublicKeyDER(der)
		require.NoError(t, err)
		assert.Equal(t, key.PublicKey.N.Bytes(), rec.Modulus)
		assert.Equal(t, []byte{0x01, 0x00, 0x01}, rec.Exponent)
	})

	t.Run("parse bare PKCS#1 fallback", func(t *testing.T) {
		der := x509.MarshalPKCS1PublicKey(&key.PublicKey)

		rec, err := ParsePublicKeyDER(der)
		require.NoError(t, err)
		assert.Equal(t, key.PublicKey.N.Bytes(), rec.Modulus)
	})

	t.Run("standard library accepts our encoding", func(t *testing.T) {
		rec := &keys.PublicKeyRecord{
			Modulus:  key.PublicKey.N.Bytes(),
			Exponent: []byte{0x01, 0x00, 0x01},
		}
		der, err := EncodePublicKeyDER(rec)
		require.NoError(t, err)

		parsed, err := x509.ParsePKIXPublicKey(der)
		require.NoError(t, err)
		pub, ok := parsed.(*rsa.PublicKey)
		require.True(t, ok)
		assert.Zero(t, key.PublicKey.N.Cmp(pub.N))
		assert.Equal(t, 65537, pub.E)
	})
}

func TestPrivateKeyDERInterop(t *testing.T) {
	key, err := rsa.GenerateKey(rand.Reader, 1024)
	require.NoError(t, err)
	key.Precompute()

	t.Run("parse PKCS#8 emitted by the standard library", func(t *testing.T) {
		der, err := x509.MarshalPKCS8PrivateKey(key)
		require.NoError(t, err)

		rec, err := ParsePrivateKeyDER(der)
		require.NoError(t, err)
		assert.Equal(t, key.N.Bytes(), rec.Modulus)
		assert.Equal(t, key.D.Bytes(), rec.PrivateExponent)
		assert.Equal(t, key.Primes[0].Bytes(), rec.Prime1)
		assert.Equal(t, key.Primes[1].Bytes(), rec.Prime2)
	})

	t.Run("parse bare PKCS#1 fallback", func(t *testing.T) {
		der := x509.MarshalPKCS1PrivateKey(key)

		rec, err := ParsePrivateKeyDER(der)
		require.NoError(t, err)
		assert.Equal(t, key.N.Bytes(), rec.Modulus)
		assert.Equal(t, key.Precomputed.Qinv.Bytes(), rec.Coefficient)
	})

	t.Run("standard library accepts our encoding", func(t *testing.T) {
		rec := &keys.PrivateKeyRecord{
			Modulus:         key.N.Bytes(),
			PublicExponent:  []byte{0x01, 0x00, 0x01},
			PrivateExponent: key.D.Bytes(),
			Prime1:          key.Primes[0].Bytes(),
			Prime2:          key.Primes[1].Bytes(),
			Exponent1:       key.Precomputed.Dp.Bytes(),
			Exponent2:       key.Precomputed.Dq.Bytes(),
			Coefficient:     key.Precomputed.Qinv.Bytes(),
		}
		der, err := EncodePrivateKeyDER(rec)
		require.NoError(t, err)

		parsed, err := x509.ParsePKCS8PrivateKey(der)
		require.NoError(t, err)
		priv, ok := parsed.(*rsa.PrivateKey)
		require.True(t, ok)
		assert.Zero(t, key.N.Cmp(priv.N))
		assert.Zero(t, key.D.Cmp(priv.D))
	})
}

func TestParsePublicKeyDERRejections(t *testing.T) {
	_, err := ParsePublicKeyDER([]byte{0x30, 0x00})
	assert.ErrorIs(t, err, ErrFormat)

	_, err = ParsePublicKeyDER([]byte("not-der-at-all"))
	assert.ErrorIs(t, err, ErrFormat)

	_, err = ParsePrivateKeyDER([]byte{0x02, 0x01, 0x00})
	assert.ErrorIs(t, err, ErrFormat)
}

func TestDigestInfo(t *testing.T) {
	digest := make([]byte, 32)
	for i := range digest {
		digest[i] = byte(i)
	}

	der, err := EncodeDigestInfo(digest, crypto.SHA256)
	require.NoError(t, err)

	back, oid, err := ParseDigestInfo(der)
	require.NoError(t, err)
	assert.Equal(t, digest, back)
	assert.Equal(t, "2.16.840.1.101.3.4.2.1", oid)

	t.Run("all supported algorithms", func(t *testing.T) {
		for algo, want := range map[crypto.Hash]string{
			crypto.MD5:        "1.2.840.113549.2.5",
			crypto.SHA1:       "1.3.14.3.2.26",
			crypto.SHA384:     "2.16.840.1.101.3.4.2.2",
			crypto.SHA512:     "2.16.840.1.101.3.4.2.3",
			crypto.SHA512_256: "2.16.840.1.101.3.4.2.6",
			crypto.SHA3_256:   "2.16.840.1.101.3.4.2.8",
			crypto.SHA3_512:   "2.16.840.1.101.3.4.2.10",
		} {
			der, err := EncodeDigestInfo(digest, algo)
			require.NoError(t, err)
			_, oid, err := ParseDigestInfo(der)
			require.NoError(t, err)
			assert.Equal(t, want, oid)
		}
	})

	t.Run("unsupported algorithm", func(t *testing.T) {
		_, err := EncodeDigestInfo(digest, crypto.MD4)
		assert.ErrorIs(t, err, ErrMisuse)
	})

	t.Run("garbage input", func(t *testing.T) {
		_, _, err := ParseDigestInfo([]byte{0xFF, 0x01})
		assert.ErrorIs(t, err, ErrFormat)
	})
}

func TestPEMFraming(t *testing.T) {
	der := []byte{0x30, 0x03, 0x02, 0x01, 0x2A}

	pemText := DERToPEM(der, PublicKeyPEMType)
	assert.Contains(t, pemText, "-----BEGIN RSA PUBLIC KEY-----")

	back, err := PEMToDER(pemText)
	require.NoError(t, err)
	assert.Equal(t, der, back)

	_, err = PEMToDER("no pem here")
	assert.ErrorIs(t, err, ErrFormat)
}
