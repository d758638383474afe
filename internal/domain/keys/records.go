package keys

import "runtime"

// PublicKeyRecord carries the two components of a PKCS#1 RSA public key
// as big-endian byte strings.
type PublicKeyRecord struct {
	Modulus  []byte
	Exponent []byte
}

// IsValid checks the sanity bounds enforced on load: a modulus of at
// least 10 bytes and an exponent of at least 2 bytes.
func (r *PublicKeyRecord) IsValid() bool {
	return len(r.Modulus) >= 10 && len(r.Exponent) >= 2
}

// Wipe zeroes both byte fields.
func (r *PublicKeyRecord) Wipe() {
	wipe(r.Modulus)
	wipe(r.Exponent)
	r.Modulus = nil
	r.Exponent = nil
}

// PrivateKeyRecord carries the nine components of a PKCS#1 RSA private
// key as big-endian byte strings, with Exponent1 = d mod (p-1),
// Exponent2 = d mod (q-1) and Coefficient = q^-1 mod p.
type PrivateKeyRecord struct {
	Version         int
	Modulus         []byte
	PublicExponent  []byte
	PrivateExponent []byte
	Prime1          []byte
	Prime2          []byte
	Exponent1       []byte
	Exponent2       []byte
	Coefficient     []byte
}

// IsValid checks the load-time sanity bounds on the mandatory fields.
func (r *PrivateKeyRecord) IsValid() bool {
	return len(r.Modulus) >= 10 && len(r.PublicExponent) >= 2 &&
		len(r.PrivateExponent) > 0 && len(r.Prime1) > 0 && len(r.Prime2) > 0
}

// Wipe zeroes every byte field. Callers do this as soon as the key
// material has been turned into engine state.
func (r *PrivateKeyRecord) Wipe() {
	for _, f := range [][]byte{
		r.Modulus, r.PublicExponent, r.PrivateExponent,
		r.Prime1, r.Prime2, r.Exponent1, r.Exponent2, r.Coefficient,
	} {
		wipe(f)
	}
	*r = PrivateKeyRecord{}
}

// wipe zero-fills data in a way the compiler must not elide.
func wipe(data []byte) {
	for i := range data {
		data[i] = 0
	}
	runtime.KeepAlive(&data)
}
