package cryptography

import (
	"bytes"
	"crypto"
	"encoding/asn1"
	"encoding/pem"
	"fmt"

	"rsa_engine_service/internal/domain/keys"
)

// ASN.1 DER shapes for RSA key material and signature payloads. The
// multi-precision INTEGER fields stay asn1.RawValue so the records keep
// working on plain big-endian byte strings.

// PEM block labels used for key export.
const (
	PublicKeyPEMType  = "RSA PUBLIC KEY"
	PrivateKeyPEMType = "RSA PRIVATE KEY"
)

var oidRSAEncryption = asn1.ObjectIdentifier{1, 2, 840, 113549, 1, 1, 1}

// hashOIDs maps the supported DigestInfo hash algorithms; see RFC 8017
// appendix B.1 and the NIST arc for the SHA-2/SHA-3 family.
var hashOIDs = map[crypto.Hash]asn1.ObjectIdentifier{
	crypto.MD5:        {1, 2, 840, 113549, 2, 5},
	crypto.SHA1:       {1, 3, 14, 3, 2, 26},
	crypto.SHA256:     {2, 16, 840, 1, 101, 3, 4, 2, 1},
	crypto.SHA384:     {2, 16, 840, 1, 101, 3, 4, 2, 2},
	crypto.SHA512:     {2, 16, 840, 1, 101, 3, 4, 2, 3},
	crypto.SHA512_256: {2, 16, 840, 1, 101, 3, 4, 2, 6},
	crypto.SHA3_256:   {2, 16, 840, 1, 101, 3, 4, 2, 8},
	crypto.SHA3_512:   {2, 16, 840, 1, 101, 3, 4, 2, 10},
}

type algorithmIdentifier struct {
	Algorithm  asn1.ObjectIdentifier
	Parameters asn1.RawValue `asn1:"optional"`
}

type subjectPublicKeyInfo struct {
	Algorithm algorithmIdentifier
	PublicKey asn1.BitString
}

type rsaPublicKeyASN struct {
	Modulus  asn1.RawValue
	Exponent asn1.RawValue
}

type rsaPrivateKeyASN struct {
	Version         int
	Modulus         asn1.RawValue
	PublicExponent  asn1.RawValue
	PrivateExponent asn1.RawValue
	Prime1          asn1.RawValue
	Prime2          asn1.RawValue
	Exponent1       asn1.RawValue
	Exponent2       asn1.RawValue
	Coefficient     asn1.RawValue
}

type pkcs8PrivateKeyASN struct {
	Version    int
	Algo       algorithmIdentifier
	PrivateKey []byte
}

type digestInfoASN struct {
	Algorithm algorithmIdentifier
	Digest    []byte
}

// derInteger wraps a big-endian unsigned byte string as a DER INTEGER,
// trimming redundant leading zeros and prefixing 0x00 when the top bit
// would otherwise read as a sign.
func derInteger(value []byte) asn1.RawValue {
	i := 0
	for i < len(value)-1 && value[i] == 0 {
		i++
	}
	v := value[i:]
	if len(v) == 0 {
		v = []byte{0}
	}
	if v[0]&0x80 != 0 {
		padded := make([]byte, len(v)+1)
		copy(padded[1:], v)
		v = padded
	}
	return asn1.RawValue{Class: asn1.ClassUniversal, Tag: asn1.TagInteger, Bytes: v}
}

// derIntegerBytes unwraps a parsed INTEGER back into an unsigned
// big-endian byte string.
func derIntegerBytes(rv asn1.RawValue) ([]byte, error) {
	if rv.Class != asn1.ClassUniversal || rv.Tag != asn1.TagInteger || rv.IsCompound {
		return nil, fmt.Errorf("expected ASN.1 INTEGER, got class %d tag %d", rv.Class, rv.Tag)
	}
	b := rv.Bytes
	if len(b) == 0 {
		return nil, fmt.Errorf("empty ASN.1 INTEGER")
	}
	if b[0]&0x80 != 0 {
		return nil, fmt.Errorf("negative ASN.1 INTEGER in key material")
	}
	for len(b) > 1 && b[0] == 0 {
		b = b[1:]
	}
	return b, nil
}

// EncodePublicKeyDER emits the record as a SubjectPublicKeyInfo wrapping
// a PKCS#1 RSAPublicKey.
func EncodePublicKeyDER(rec *keys.PublicKeyRecord) ([]byte, error) {
	pkcs1, err := asn1.Marshal(rsaPublicKeyASN{
		Modulus:  derInteger(rec.Modulus),
		Exponent: derInteger(rec.Exponent),
	})
	if err != nil {
		return nil, fmt.Errorf("encode PKCS#1 public key: %w", err)
	}
	der, err := asn1.Marshal(subjectPublicKeyInfo{
		Algorithm: algorithmIdentifier{Algorithm: oidRSAEncryption, Parameters: asn1.NullRawValue},
		PublicKey: asn1.BitString{Bytes: pkcs1, BitLength: len(pkcs1) * 8},
	})
	if err != nil {
		return nil, fmt.Errorf("encode SubjectPublicKeyInfo: %w", err)
	}
	return der, nil
}

// ParsePublicKeyDER reads a SubjectPublicKeyInfo blob, falling back to a
// bare PKCS#1 RSAPublicKey SEQUENCE when the envelope is absent.
func ParsePublicKeyDER(der []byte) (*keys.PublicKeyRecord, error) {
	body := der
	var spki subjectPublicKeyInfo
	if rest, err := asn1.Unmarshal(der, &spki); err == nil && len(rest) == 0 {
		if !spki.Algorithm.Algorithm.Equal(oidRSAEncryption) {
			return nil, fmt.Errorf("unexpected public key algorithm %v: %w",
				spki.Algorithm.Algorithm, ErrFormat)
		}
		body = spki.PublicKey.RightAlign()
	}
	var pk rsaPublicKeyASN
	if rest, err := asn1.Unmarshal(body, &pk); err != nil || len(rest) != 0 {
		return nil, fmt.Errorf("parse RSA public key structure: %w", ErrFormat)
	}
	modulus, err := derIntegerBytes(pk.Modulus)
	if err != nil {
		return nil, fmt.Errorf("public key modulus: %v: %w", err, ErrFormat)
	}
	exponent, err := derIntegerBytes(pk.Exponent)
	if err != nil {
		return nil, fmt.Errorf("public key exponent: %v: %w", err, ErrFormat)
	}
	return &keys.PublicKeyRecord{Modulus: modulus, Exponent: exponent}, nil
}

// EncodePrivateKeyDER emits the record as a PKCS#8 envelope around the
// PKCS#1 RSAPrivateKey structure.
func EncodePrivateKeyDER(rec *keys.PrivateKeyRecord) ([]byte, error) {
	pkcs1, err := asn1.Marshal(rsaPrivateKeyASN{
		Version:         rec.Version,
		Modulus:         derInteger(rec.Modulus),
		PublicExponent:  derInteger(rec.PublicExponent),
		PrivateExponent: derInteger(rec.PrivateExponent),
		Prime1:          derInteger(rec.Prime1),
		Prime2:          derInteger(rec.Prime2),
		Exponent1:       derInteger(rec.Exponent1),
		Exponent2:       derInteger(rec.Exponent2),
		Coefficient:     derInteger(rec.Coefficient),
	})
	if err != nil {
		return nil, fmt.Errorf("encode PKCS#1 private key: %w", err)
	}
	der, err := asn1.Marshal(pkcs8PrivateKeyASN{
		Version:    0,
		Algo:       algorithmIdentifier{Algorithm: oidRSAEncryption, Parameters: asn1.NullRawValue},
		PrivateKey: pkcs1,
	})
	if err != nil {
		return nil, fmt.Errorf("encode PKCS#8 envelope: %w", err)
	}
	return der, nil
}

// ParsePrivateKeyDER reads a PKCS#8 blob, falling back to a bare PKCS#1
// RSAPrivateKey when the envelope is absent.
func ParsePrivateKeyDER(der []byte) (*keys.PrivateKeyRecord, error) {
	body := der
	var p8 pkcs8PrivateKeyASN
	if rest, err := asn1.Unmarshal(der, &p8); err == nil && len(rest) == 0 {
		if !p8.Algo.Algorithm.Equal(oidRSAEncryption) {
			return nil, fmt.Errorf("unexpected private key algorithm %v: %w",
				p8.Algo.Algorithm, ErrFormat)
		}
		body = p8.PrivateKey
	}
	var pk rsaPrivateKeyASN
	if rest, err := asn1.Unmarshal(body, &pk); err != nil || len(rest) != 0 {
		return nil, fmt.Errorf("parse RSA private key structure: %w", ErrFormat)
	}
	rec := &keys.PrivateKeyRecord{Version: pk.Version}
	for _, f := range []struct {
		raw asn1.RawValue
		dst *[]byte
	}{
		{pk.Modulus, &rec.Modulus},
		{pk.PublicExponent, &rec.PublicExponent},
		{pk.PrivateExponent, &rec.PrivateExponent},
		{pk.Prime1, &rec.Prime1},
		{pk.Prime2, &rec.Prime2},
		{pk.Exponent1, &rec.Exponent1},
		{pk.Exponent2, &rec.Exponent2},
		{pk.Coefficient, &rec.Coefficient},
	} {
		v, err := derIntegerBytes(f.raw)
		if err != nil {
			rec.Wipe()
			return nil, fmt.Errorf("private key component: %v: %w", err, ErrFormat)
		}
		*f.dst = bytes.Clone(v)
	}
	return rec, nil
}

// EncodeDigestInfo wraps a message digest in the DigestInfo structure
// signed by PKCS#1 v1.5 block type 1.
func EncodeDigestInfo(digest []byte, algo crypto.Hash) ([]byte, error) {
	oid, ok := hashOIDs[algo]
	if !ok {
		return nil, fmt.Errorf("unsupported digest algorithm %v: %w", algo, ErrMisuse)
	}
	der, err := asn1.Marshal(digestInfoASN{
		Algorithm: algorithmIdentifier{Algorithm: oid, Parameters: asn1.NullRawValue},
		Digest:    digest,
	})
	if err != nil {
		return nil, fmt.Errorf("encode DigestInfo: %w", err)
	}
	return der, nil
}

// ParseDigestInfo unwraps a DigestInfo, returning the digest bytes and
// the dotted-text OID of the hash algorithm.
func ParseDigestInfo(der []byte) (digest []byte, algoOID string, err error) {
	var di digestInfoASN
	if rest, err := asn1.Unmarshal(der, &di); err != nil || len(rest) != 0 {
		return nil, "", fmt.Errorf("parse DigestInfo: %w", ErrFormat)
	}
	return di.Digest, di.Algorithm.Algorithm.String(), nil
}

// PEMToDER extracts the DER payload of the first PEM block.
func PEMToDER(data string) ([]byte, error) {
	block, _ := pem.Decode([]byte(data))
	if block == nil {
		return nil, fmt.Errorf("no PEM block found: %w", ErrFormat)
	}
	return block.Bytes, nil
}

// DERToPEM frames a DER blob under the given PEM label.
func DERToPEM(der []byte, label string) string {
	return string(pem.EncodeToMemory(&pem.Block{Type: label, Bytes: der}))
}
