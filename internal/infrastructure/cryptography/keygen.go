package cryptography

import (
	"fmt"
	"time"

	"rsa_engine_service/internal/infrastructure/bigint"
)

// supportedKeyBits are the modulus sizes GenerateKeys accepts.
var supportedKeyBits = map[int]bool{
	512: true, 1024: true, 2048: true, 3072: true, 4096: true, 7680: true,
}

// defaultGenerateTimeout bounds the prime search when the caller passes
// no timeout.
const defaultGenerateTimeout = 60 * time.Second

// generateSieve is the sieve depth used while searching for key primes.
const generateSieve = bigint.SieveMost

// GenerateKeys produces (p, q, e, d, dP, dQ, qInv) honoring the FIPS
// 186-4 criteria on prime density, minimum prime distance and private
// exponent size, then installs the three modulos. The engine must be
// empty. Transient copies of the primes are wiped before returning.
func (r *rsaEngine) GenerateKeys(bits int, timeout time.Duration) error {
	if r.HasPublicKey() {
		return fmt.Errorf("key already loaded: %w", ErrMisuse)
	}
	if !supportedKeyBits[bits] {
		return fmt.Errorf("unsupported key size %d: %w", bits, ErrMisuse)
	}
	if timeout <= 0 {
		timeout = defaultGenerateTimeout
	}
	deadline := time.Now().Add(timeout)
	a := r.arena
	e := a.AllocateFrom(defaultExponent)
	halfLimbs := bits / 2 / 32

	for {
		p := a.Allocate(halfLimbs)
		q := a.Allocate(halfLimbs)
		if err := r.fillKeyPrime(p, deadline); err != nil {
			p.Release()
			q.Release()
			e.Release()
			a.WipeReleased()
			return err
		}
		if err := r.fillKeyPrime(q, deadline); err != nil {
			p.Release()
			q.Release()
			e.Release()
			a.WipeReleased()
			return err
		}
		cmp := p.Compare(q)
		if cmp == 0 {
			p.Release()
			q.Release()
			e.Release()
			a.WipeReleased()
			return fmt.Errorf("prime generator returned identical primes: %w", ErrWeakRandomness)
		}
		if cmp < 0 {
			// the CRT coefficient convention needs p > q
			p, q = q, p
		}
		if r.acceptKeyPair(p, q, e, bits) {
			a.WipeReleased()
			r.logger.Info("Generated RSA key pair with ", r.modulusBits, " bit modulus")
			return nil
		}
		p.Release()
		q.Release()
		a.WipeReleased()
	}
}

// fillKeyPrime searches for a prime whose residue mod e is not 1, the
// precondition of FIPS 186-4 B.3.1 criterion 2.
func (r *rsaEngine) fillKeyPrime(p *bigint.BigInt, deadline time.Time) error {
	for {
		if err := p.FillPrime(generateSieve, 0, deadline, r.rng); err != nil {
			return err
		}
		if p.IntMod(defaultExponent) != 1 {
			return nil
		}
	}
}

// acceptKeyPair runs the B.3.3 acceptance checks on a candidate pair and,
// when they pass, derives the private key and installs the engine state.
// Returns false when the pair must be retried; p and q stay owned by the
// caller in that case.
func (r *rsaEngine) acceptKeyPair(p, q, e *bigint.BigInt, bits int) bool {
	// |p-q| must keep more than bits/2-100 significant bits
	diff, _ := p.Clone().Sub(q.Copy())
	distance := diff.BitCount()
	diff.Release()
	if distance <= bits/2-100 {
		return false
	}

	pm1 := p.Clone().IntSub(1)
	qm1 := q.Clone().IntSub(1)
	h := pm1.Copy().Mul(qm1.Copy())
	eh := e.Gcd(h)
	coprime := eh.CompareUint(1) == 0
	eh.Release()
	if !coprime {
		pm1.Release()
		qm1.Release()
		h.Release()
		return false
	}

	// d is the inverse of e modulo lambda = (p-1)(q-1)/gcd(p-1, q-1),
	// the smallest valid exponent rather than the inverse mod h
	g := pm1.Gcd(qm1)
	lambda := h.Div(g)
	d := e.Copy().ModInverse(lambda)
	if d.BitCount() <= (bits+1)/2 {
		d.Release()
		pm1.Release()
		qm1.Release()
		return false
	}

	dp := d.Copy().Mod(pm1)
	dq := d.Copy().Mod(qm1)
	qinv := q.Clone().ModInverse(p.Copy())
	m := p.Copy().Mul(q.Copy())

	if err := r.installPublic(m, e); err == nil {
		for _, v := range []*bigint.BigInt{d, dp, dq, qinv} {
			if err = v.SetPermanent(); err != nil {
				break
			}
		}
		if err == nil {
			err = r.arena.SetModulo(p, bigint.ModuloPrime1)
		}
		if err == nil {
			err = r.arena.SetModulo(q, bigint.ModuloPrime2)
		}
		if err != nil {
			panic(fmt.Sprintf("rsa: key installation failed: %v", err))
		}
	} else {
		panic(fmt.Sprintf("rsa: key installation failed: %v", err))
	}
	r.d, r.p, r.q = d, p, q
	r.dp, r.dq, r.qinv = dp, dq, qinv
	return true
}

// CheckPrivateKey verifies the arithmetic consistency of the loaded
// private key: p*q = m, e prime, qInv = q^-1 mod p, dP = d mod (p-1),
// dQ = d mod (q-1), gcd(e, (p-1)(q-1)) = 1 and e*d = 1 mod lambda.
func (r *rsaEngine) CheckPrivateKey() bool {
	if !r.HasPrivateKey() {
		return false
	}
	a := r.arena
	defer a.WipeReleased()

	pq := r.p.Copy().Mul(r.q.Copy())
	ok := pq.Compare(r.m) == 0
	pq.Release()
	if !ok {
		return false
	}
	if !r.e.IsPrime(bigint.SieveFast, 0, r.rng) {
		return false
	}

	qinv := r.q.Clone().ModInverse(r.p.Copy())
	ok = qinv.Compare(r.qinv) == 0
	qinv.Release()
	if !ok {
		return false
	}

	pm1 := r.p.Clone().IntSub(1)
	qm1 := r.q.Clone().IntSub(1)
	dp := r.d.Copy().Mod(pm1.Copy())
	dq := r.d.Copy().Mod(qm1.Copy())
	ok = dp.Compare(r.dp) == 0 && dq.Compare(r.dq) == 0
	dp.Release()
	dq.Release()
	if !ok {
		pm1.Release()
		qm1.Release()
		return false
	}

	h := pm1.Copy().Mul(qm1.Copy())
	eh := r.e.Gcd(h)
	ok = eh.CompareUint(1) == 0
	eh.Release()
	if !ok {
		pm1.Release()
		qm1.Release()
		h.Release()
		return false
	}

	g := pm1.Gcd(qm1)
	pm1.Release()
	qm1.Release()
	lambda := h.Div(g)
	ed := a.Reduce(r.e.Copy().Mul(r.d.Copy()), lambda)
	ok = ed.CompareUint(1) == 0
	ed.Release()
	lambda.Release()
	return ok
}
