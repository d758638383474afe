package bigint

// Long division, Knuth TAOCP vol. 2 Algorithm D, with the classic
// pre-normalization factor d = R/(top limb of divisor + 1) so the
// divisor's top limb is at least R/2 and the two-limb quotient estimate
// is off by at most two.

// Div returns b/v. Consumes both operands.
func (b *BigInt) Div(v *BigInt) *BigInt {
	q, r := b.divide(v, true, nil)
	r.Release()
	return q
}

// Mod returns b mod v, strictly smaller than v. Consumes both operands.
func (b *BigInt) Mod(v *BigInt) *BigInt {
	_, r := b.divide(v, false, nil)
	return r
}

// DivMod returns quotient and remainder, with quotient*v+remainder == b
// and 0 <= remainder < v. Consumes both operands.
func (b *BigInt) DivMod(v *BigInt) (quotient, remainder *BigInt) {
	return b.divide(v, true, nil)
}

// modNorm reduces b modulo m reusing norm, the cached pre-normalized
// product m*d. Consumes b only.
func (b *BigInt) modNorm(m, norm *BigInt) *BigInt {
	_, r := b.divide(m.Copy(), false, norm)
	return r
}

// divide implements Algorithm D. It consumes b and v, always produces the
// remainder, and produces the quotient only when asked. When norm is
// non-nil it is used as the pre-normalized divisor instead of computing
// v*d again.
func (b *BigInt) divide(v *BigInt, wantQuotient bool, norm *BigInt) (quotient, remainder *BigInt) {
	b = b.unshare()
	b.Trim()
	v.Trim()
	a := b.owner

	// single-limb divisor: one pass of limbDivOne does everything
	if v.size == 1 {
		d := v.limbs[0]
		if d == 0 {
			panic("bigint: division by zero")
		}
		rem := limbDivOne(b.limbs, b.size, d, 0)
		b.Trim()
		remainder = a.AllocateFrom(rem)
		if wantQuotient {
			quotient = b
		} else {
			b.Release()
		}
		v.Release()
		return quotient, remainder
	}

	// dividend smaller than divisor: quotient 0, remainder is the dividend
	if b.Compare(v) < 0 {
		if wantQuotient {
			quotient = a.AllocateFrom(0)
		}
		remainder = b
		v.Release()
		return quotient, remainder
	}

	d := normFactor(v)
	n := v.size
	m := b.size - n

	// u = b*d with one extra top limb for the shifted-out carry
	u := a.Allocate(b.size + 1)
	u.limbs[b.size] = limbMulAdd(u.limbs, b.limbs, b.size, d, 0)

	nv := norm
	if nv == nil {
		nv = a.Allocate(n + 1)
		nv.limbs[n] = limbMulAdd(nv.limbs, v.limbs, n, d, 0)
		nv.Trim() // d is chosen so v*d still fits n limbs
	}
	vl := nv.limbs
	vn1 := uint64(vl[n-1])
	vn2 := uint64(vl[n-2])

	if wantQuotient {
		quotient = a.Allocate(m + 1)
	}
	ul := u.limbs
	for j := m; j >= 0; j-- {
		// two-limb window estimate, refined against the third limb
		top := uint64(ul[j+n])<<limbBits | uint64(ul[j+n-1])
		qhat := top / vn1
		rhat := top % vn1
		for qhat >= limbRadix || qhat*vn2 > rhat<<limbBits|uint64(ul[j+n-2]) {
			qhat--
			rhat += vn1
			if rhat >= limbRadix {
				break
			}
		}
		// multiply-subtract qhat*nv from the window, signed carry k
		var k int64
		for i := 0; i < n; i++ {
			p := qhat * uint64(vl[i])
			t := int64(ul[i+j]) - k - int64(p&0xFFFFFFFF)
			ul[i+j] = uint32(t)
			k = int64(p>>limbBits) - (t >> limbBits)
		}
		t := int64(ul[j+n]) - k
		ul[j+n] = uint32(t)
		if t < 0 {
			// estimate was one too large: add the divisor back
			qhat--
			carry := limbAdd(ul[j:], ul[j:], vl, n, 0)
			ul[j+n] += carry
		}
		if wantQuotient {
			quotient.limbs[j] = uint32(qhat)
		}
	}

	// denormalize: the true remainder is (u mod v*d)/d
	u.size = n
	limbDivOne(u.limbs, n, d, 0)
	remainder = u.Trim()

	if wantQuotient {
		quotient.Trim()
	}
	if norm == nil {
		nv.Release()
	}
	b.Release()
	v.Release()
	return quotient, remainder
}
