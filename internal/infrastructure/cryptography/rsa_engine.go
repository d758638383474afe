// Package cryptography implements the RSA engine over the arena-pooled
// multi-precision core: PKCS#1/PKCS#8 key handling, FIPS 186-4 key
// generation, PKCS#1 v1.5 signatures and encryption, and CRT-accelerated
// private-key operations.
package cryptography

import (
	"bytes"
	"crypto"
	"fmt"
	"sync"

	"rsa_engine_service/internal/domain/keys"
	"rsa_engine_service/internal/infrastructure/bigint"
	"rsa_engine_service/internal/infrastructure/entropy"
	"rsa_engine_service/internal/pkg/logger"
)

// defaultExponent is F4 = 65537, the only public exponent this engine
// generates.
const defaultExponent = 65537

// rsaEngine implements keys.RSAEngine. The mutex serializes the
// cryptographic operations; key loading, saving and generation are not
// guarded and must not be interleaved with them from other goroutines.
type rsaEngine struct {
	mu     sync.Mutex
	logger logger.Logger
	rng    *entropy.Source
	arena  *bigint.Arena

	m, e, d, p, q *bigint.BigInt
	dp, dq, qinv  *bigint.BigInt
	modulusLen    int
	modulusBits   int
}

// NewRSAEngine creates an empty engine with its own arena and entropy
// source.
func NewRSAEngine(logger logger.Logger) (keys.RSAEngine, error) {
	rng, err := entropy.NewSource()
	if err != nil {
		return nil, fmt.Errorf("failed to seed entropy source: %w", err)
	}
	return &rsaEngine{
		logger: logger.WithComponent("rsa-engine"),
		rng:    rng,
		arena:  bigint.NewArena(),
	}, nil
}

func (r *rsaEngine) HasPublicKey() bool {
	return r.m != nil && r.e != nil
}

func (r *rsaEngine) HasPrivateKey() bool {
	return r.HasPublicKey() && r.d != nil && r.p != nil && r.q != nil
}

func (r *rsaEngine) ModulusBits() int {
	return r.modulusBits
}

func (r *rsaEngine) ModulusLen() int {
	return r.modulusLen
}

// installPublic wires modulus and exponent as the engine's permanent
// public key state. Takes ownership of both values.
func (r *rsaEngine) installPublic(m, e *bigint.BigInt) error {
	m.Trim()
	r.modulusBits = m.BitCount()
	r.modulusLen = (r.modulusBits + 7) / 8
	if err := r.arena.SetModulo(m, bigint.ModuloMain); err != nil {
		return err
	}
	if err := e.SetPermanent(); err != nil {
		return err
	}
	r.m = m
	r.e = e
	return nil
}

// LoadPublicKeyRecord installs a public key; the engine must be empty.
func (r *rsaEngine) LoadPublicKeyRecord(rec *keys.PublicKeyRecord) error {
	if r.HasPublicKey() {
		return fmt.Errorf("key already loaded: %w", ErrMisuse)
	}
	if !rec.IsValid() {
		return fmt.Errorf("public key record out of bounds: %w", ErrFormat)
	}
	m := r.arena.Load(rec.Modulus)
	e := r.arena.Load(rec.Exponent)
	if err := r.installPublic(m, e); err != nil {
		return err
	}
	r.logger.Info("Loaded RSA public key with ", r.modulusBits, " bit modulus")
	return nil
}

// LoadPublicKeyDER parses a SubjectPublicKeyInfo or bare PKCS#1 blob.
func (r *rsaEngine) LoadPublicKeyDER(der []byte) error {
	rec, err := ParsePublicKeyDER(der)
	if err != nil {
		return err
	}
	return r.LoadPublicKeyRecord(rec)
}

// LoadPublicKeyPEM parses a PEM-framed public key.
func (r *rsaEngine) LoadPublicKeyPEM(pemData string) error {
	der, err := PEMToDER(pemData)
	if err != nil {
		return err
	}
	return r.LoadPublicKeyDER(der)
}

// LoadPublicKeyBinary installs a raw big-endian modulus with e=65537.
func (r *rsaEngine) LoadPublicKeyBinary(modulus []byte) error {
	return r.LoadPublicKeyRecord(&keys.PublicKeyRecord{
		Modulus:  modulus,
		Exponent: []byte{0x01, 0x00, 0x01},
	})
}

// LoadPublicKeyHex installs a display-order hexadecimal modulus with
// e=65537.
func (r *rsaEngine) LoadPublicKeyHex(modulus string) error {
	if r.HasPublicKey() {
		return fmt.Errorf("key already loaded: %w", ErrMisuse)
	}
	m := r.arena.AllocateFromHex(modulus)
	if m == nil {
		return fmt.Errorf("malformed hexadecimal modulus: %w", ErrFormat)
	}
	if m.BitCount() < 80 {
		m.Release()
		return fmt.Errorf("modulus too short: %w", ErrFormat)
	}
	e := r.arena.AllocateFrom(defaultExponent)
	if err := r.installPublic(m, e); err != nil {
		return err
	}
	r.logger.Info("Loaded RSA public key with ", r.modulusBits, " bit modulus")
	return nil
}

// LoadPrivateKeyRecord installs a private key; the engine must be empty.
// Exponent1/Exponent2/Coefficient are derived when the record omits
// them. The record is wiped on success; call CheckPrivateKey for the
// full arithmetic consistency check.
func (r *rsaEngine) LoadPrivateKeyRecord(rec *keys.PrivateKeyRecord) error {
	if r.HasPublicKey() || r.HasPrivateKey() {
		return fmt.Errorf("key already loaded: %w", ErrMisuse)
	}
	if !rec.IsValid() {
		return fmt.Errorf("private key record out of bounds: %w", ErrFormat)
	}
	a := r.arena
	m := a.Load(rec.Modulus)
	e := a.Load(rec.PublicExponent)
	d := a.Load(rec.PrivateExponent)
	p := a.Load(rec.Prime1).Trim()
	q := a.Load(rec.Prime2).Trim()
	if p.CompareUint(1) <= 0 || q.CompareUint(1) <= 0 {
		for _, v := range []*bigint.BigInt{m, e, d, p, q} {
			v.Release()
		}
		return fmt.Errorf("private key with degenerate prime: %w", ErrFormat)
	}

	// the CRT recombination needs p > q; records with the primes the
	// other way around get their exponents and coefficient re-derived
	swapped := p.Compare(q) < 0
	if swapped {
		p, q = q, p
	}

	var dp, dq, qinv *bigint.BigInt
	if !swapped && len(rec.Exponent1) > 0 {
		dp = a.Load(rec.Exponent1)
	} else {
		dp = d.Copy().Mod(p.Clone().IntSub(1))
	}
	if !swapped && len(rec.Exponent2) > 0 {
		dq = a.Load(rec.Exponent2)
	} else {
		dq = d.Copy().Mod(q.Clone().IntSub(1))
	}
	if !swapped && len(rec.Coefficient) > 0 {
		qinv = a.Load(rec.Coefficient)
	} else {
		qinv = q.Clone().ModInverse(p.Copy())
	}

	if err := r.installPublic(m, e); err != nil {
		return err
	}
	for _, v := range []*bigint.BigInt{d, dp, dq, qinv} {
		if err := v.SetPermanent(); err != nil {
			return err
		}
	}
	if err := a.SetModulo(p, bigint.ModuloPrime1); err != nil {
		return err
	}
	if err := a.SetModulo(q, bigint.ModuloPrime2); err != nil {
		return err
	}
	r.d, r.p, r.q = d, p, q
	r.dp, r.dq, r.qinv = dp, dq, qinv
	rec.Wipe()
	a.WipeReleased()
	r.logger.Info("Loaded RSA private key with ", r.modulusBits, " bit modulus")
	return nil
}

// LoadPrivateKeyDER parses a PKCS#8 or bare PKCS#1 private key blob.
func (r *rsaEngine) LoadPrivateKeyDER(der []byte) error {
	rec, err := ParsePrivateKeyDER(der)
	if err != nil {
		return err
	}
	return r.LoadPrivateKeyRecord(rec)
}

// LoadPrivateKeyPEM parses a PEM-framed private key.
func (r *rsaEngine) LoadPrivateKeyPEM(pemData string) error {
	der, err := PEMToDER(pemData)
	if err != nil {
		return err
	}
	return r.LoadPrivateKeyDER(der)
}

// SavePublicKeyRecord exports the loaded public key components.
func (r *rsaEngine) SavePublicKeyRecord() (*keys.PublicKeyRecord, error) {
	if !r.HasPublicKey() {
		return nil, fmt.Errorf("no public key loaded: %w", ErrMisuse)
	}
	return &keys.PublicKeyRecord{
		Modulus:  r.m.Save(0),
		Exponent: r.e.Save(0),
	}, nil
}

// SavePublicKeyDER emits a SubjectPublicKeyInfo blob.
func (r *rsaEngine) SavePublicKeyDER() ([]byte, error) {
	rec, err := r.SavePublicKeyRecord()
	if err != nil {
		return nil, err
	}
	return EncodePublicKeyDER(rec)
}

// SavePublicKeyPEM emits an "RSA PUBLIC KEY" PEM block.
func (r *rsaEngine) SavePublicKeyPEM() (string, error) {
	der, err := r.SavePublicKeyDER()
	if err != nil {
		return "", err
	}
	return DERToPEM(der, PublicKeyPEMType), nil
}

// SavePrivateKeyRecord exports the loaded private key components.
func (r *rsaEngine) SavePrivateKeyRecord() (*keys.PrivateKeyRecord, error) {
	if !r.HasPrivateKey() {
		return nil, fmt.Errorf("no private key loaded: %w", ErrMisuse)
	}
	return &keys.PrivateKeyRecord{
		Version:         0,
		Modulus:         r.m.Save(0),
		PublicExponent:  r.e.Save(0),
		PrivateExponent: r.d.Save(0),
		Prime1:          r.p.Save(0),
		Prime2:          r.q.Save(0),
		Exponent1:       r.dp.Save(0),
		Exponent2:       r.dq.Save(0),
		Coefficient:     r.qinv.Save(0),
	}, nil
}

// SavePrivateKeyDER emits a PKCS#8 blob.
func (r *rsaEngine) SavePrivateKeyDER() ([]byte, error) {
	rec, err := r.SavePrivateKeyRecord()
	if err != nil {
		return nil, err
	}
	defer rec.Wipe()
	return EncodePrivateKeyDER(rec)
}

// SavePrivateKeyPEM emits an "RSA PRIVATE KEY" PEM block.
func (r *rsaEngine) SavePrivateKeyPEM() (string, error) {
	der, err := r.SavePrivateKeyDER()
	if err != nil {
		return "", err
	}
	return DERToPEM(der, PrivateKeyPEMType), nil
}

// chineseRemainderTheorem computes c^d mod m from the two prime residues:
//
//	m1 = c^dP mod p, m2 = c^dQ mod q
//	h = qInv * (m1 + p - m2) mod p
//	plain = m2 + q*h
//
// Adding p before subtracting m2 keeps the difference non-negative.
// Consumes c; pooled intermediates are wiped before returning.
func (r *rsaEngine) chineseRemainderTheorem(c *bigint.BigInt) *bigint.BigInt {
	a := r.arena
	a.SetCurrentModulo(bigint.ModuloPrime1)
	m1 := a.ModPower(c.Copy(), r.dp.Copy(), nil)
	a.SetCurrentModulo(bigint.ModuloPrime2)
	m2 := a.ModPower(c.Copy(), r.dq.Copy(), nil)
	c.Release()
	a.SetCurrentModulo(bigint.ModuloPrime1)
	diff, _ := m1.Add(r.p.Copy()).Sub(m2.Copy())
	h := a.Reduce(r.qinv.Copy().Mul(diff), nil)
	plain := m2.Add(r.q.Copy().Mul(h))
	a.SetCurrentModulo(bigint.ModuloMain)
	a.WipeReleased()
	return plain
}

// bufferEncryptSign pads input and runs the exponentiation: the CRT
// private operation when signing, the public operation when encrypting.
// Callers hold the lock.
func (r *rsaEngine) bufferEncryptSign(input []byte, sign bool) ([]byte, error) {
	if sign && !r.HasPrivateKey() {
		return nil, fmt.Errorf("no private key loaded: %w", ErrMisuse)
	}
	if !r.HasPublicKey() {
		return nil, fmt.Errorf("no public key loaded: %w", ErrMisuse)
	}
	padded, err := pkcs1Pad(input, r.modulusLen, sign, r.rng)
	if err != nil {
		return nil, err
	}
	v := r.arena.Load(padded)
	bigint.WipeBytes(padded)
	var out *bigint.BigInt
	if sign {
		out = r.chineseRemainderTheorem(v)
	} else {
		out = r.arena.ModPower(v, r.e.Copy(), nil)
	}
	return out.SaveAndRelease(r.modulusLen), nil
}

// bufferDecryptVerify loads an exactly modulus-sized input, runs the
// exponentiation and strips the padding. Callers hold the lock.
func (r *rsaEngine) bufferDecryptVerify(input []byte, verify bool) ([]byte, error) {
	if !verify && !r.HasPrivateKey() {
		return nil, fmt.Errorf("no private key loaded: %w", ErrMisuse)
	}
	if !r.HasPublicKey() {
		return nil, fmt.Errorf("no public key loaded: %w", ErrMisuse)
	}
	if len(input) != r.modulusLen {
		return nil, fmt.Errorf("input is %d bytes, modulus is %d: %w",
			len(input), r.modulusLen, ErrFormat)
	}
	c := r.arena.Load(input)
	if c.Compare(r.m) >= 0 {
		c.Release()
		return nil, fmt.Errorf("input not below the modulus: %w", ErrFormat)
	}
	var plain *bigint.BigInt
	if verify {
		plain = r.arena.ModPower(c, r.e.Copy(), nil)
	} else {
		plain = r.chineseRemainderTheorem(c)
	}
	buf := plain.SaveAndRelease(r.modulusLen)
	msg := pkcs1Unpad(buf, verify)
	if msg == nil {
		bigint.WipeBytes(buf)
		return nil, fmt.Errorf("block type or terminator mismatch: %w", ErrPadding)
	}
	out := bytes.Clone(msg)
	bigint.WipeBytes(buf)
	if !verify {
		r.arena.WipeReleased()
	}
	return out, nil
}

// BufferEncryptSign runs pad-then-exponentiate in the requested mode.
func (r *rsaEngine) BufferEncryptSign(input []byte, sign bool) ([]byte, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.bufferEncryptSign(input, sign)
}

// BufferDecryptVerify runs exponentiate-then-unpad in the requested mode.
func (r *rsaEngine) BufferDecryptVerify(input []byte, verify bool) ([]byte, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.bufferDecryptVerify(input, verify)
}

// Sign wraps digest in a DigestInfo and produces a PKCS#1 v1.5
// block-type-1 signature.
func (r *rsaEngine) Sign(digest []byte, algo crypto.Hash) ([]byte, error) {
	di, err := EncodeDigestInfo(digest, algo)
	if err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	sig, err := r.bufferEncryptSign(di, true)
	if err != nil {
		return nil, err
	}
	r.logger.Info("RSA signing succeeded")
	return sig, nil
}

// Verify opens a signature with the public key and returns the recovered
// digest and hash algorithm OID.
func (r *rsaEngine) Verify(signature []byte) ([]byte, string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	di, err := r.bufferDecryptVerify(signature, true)
	if err != nil {
		return nil, "", err
	}
	digest, oid, err := ParseDigestInfo(di)
	if err != nil {
		return nil, "", err
	}
	r.logger.Info("RSA signature opened")
	return digest, oid, nil
}

// Encrypt applies block-type-2 padding and the public operation.
func (r *rsaEngine) Encrypt(plain []byte) ([]byte, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out, err := r.bufferEncryptSign(plain, false)
	if err != nil {
		return nil, err
	}
	r.logger.Info("RSA encryption succeeded")
	return out, nil
}

// Decrypt applies the CRT private operation and strips the padding.
func (r *rsaEngine) Decrypt(cipher []byte) ([]byte, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out, err := r.bufferDecryptVerify(cipher, false)
	if err != nil {
		return nil, err
	}
	r.logger.Info("RSA decryption succeeded")
	return out, nil
}

// Close tears down the key material and the arena, reporting leaks.
func (r *rsaEngine) Close() error {
	for _, v := range []**bigint.BigInt{&r.e, &r.d, &r.dp, &r.dq, &r.qinv} {
		if *v == nil {
			continue
		}
		if err := (*v).ResetPermanent(); err != nil {
			return err
		}
		(*v).Release()
		*v = nil
	}
	// m, p and q are owned by the arena's modulo slots
	r.m, r.p, r.q = nil, nil, nil
	r.modulusLen, r.modulusBits = 0, 0
	return r.arena.Close()
}
