package bigint

// Reduce returns b mod m as a fresh value. A nil m selects the arena's
// current cached modulo and reuses its pre-normalized companion, skipping
// the v*d multiplication of Algorithm D. Consumes b; m is not consumed.
func (a *Arena) Reduce(b, m *BigInt) *BigInt {
	if m == nil {
		slot := a.currentModulo
		if a.mod[slot] == nil {
			panic("bigint: reduce with no cached modulo")
		}
		return b.modNorm(a.mod[slot], a.normMod[slot])
	}
	return b.Mod(m.Copy())
}

// ModPower returns base^exp mod m by square-and-multiply, scanning the
// exponent bits least significant first. Consumes base and exp; m is not
// consumed and nil selects the cached current modulo.
//
// The scan time depends on the exponent's bit pattern: this is not a
// constant-time exponentiation and no blinding is applied.
func (a *Arena) ModPower(base, exp, m *BigInt) *BigInt {
	exp = exp.unshare()
	result := a.AllocateFrom(1)
	base = a.Reduce(base, m)
	for !exp.IsZero() {
		if exp.IsOdd() {
			result = a.Reduce(result.Mul(base.Copy()), m)
		}
		exp.ShrBits(1)
		base = a.Reduce(base.Square(), m)
	}
	exp.Release()
	base.Release()
	return result.Trim()
}

// ModInverse returns b^-1 mod m following Knuth's extended Euclidean
// iteration, or zero when b is not invertible. The parity of the
// iteration count decides whether the answer is normalized by
// subtracting from m. m must be greater than one. Consumes b and m.
func (b *BigInt) ModInverse(m *BigInt) *BigInt {
	if m.CompareUint(1) <= 0 {
		panic("bigint: ModInverse modulus must exceed 1")
	}
	a := b.owner
	u1 := a.AllocateFrom(1)
	u3 := b
	v1 := a.AllocateFrom(0)
	v3 := m.Copy()
	iter := 0
	for !v3.IsZero() {
		q, t3 := u3.DivMod(v3.Copy())
		t1 := u1.Add(q.Mul(v1.Copy()))
		u1, v1 = v1, t1
		u3, v3 = v3, t3
		iter++
	}
	invertible := u3.CompareUint(1) == 0
	u3.Release()
	v3.Release()
	v1.Release()
	var r *BigInt
	switch {
	case !invertible:
		u1.Release()
		r = a.AllocateFrom(0)
	case iter&1 != 0:
		r, _ = m.Clone().Sub(u1)
	default:
		r = u1
	}
	m.Release()
	return r
}
