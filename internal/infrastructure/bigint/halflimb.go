package bigint

import "math/bits"

// Limb arithmetic primitives. All of them walk little-endian uint32 limb
// buffers with the running carry or borrow held in a 64-bit accumulator,
// so overflow always ends up in the returned carry. None of them allocate.

const (
	limbBits  = 32
	limbBytes = limbBits / 8
	// limbRadix is R, the value of one unit of the next-higher limb.
	limbRadix = uint64(1) << limbBits
)

// limbAdd stores a+b into dst over n limbs and returns the outgoing carry.
// dst may alias a or b.
func limbAdd(dst, a, b []uint32, n int, carry uint32) uint32 {
	for i := 0; i < n; i++ {
		dst[i], carry = bits.Add32(a[i], b[i], carry)
	}
	return carry
}

// limbSub stores a-b into dst over n limbs and returns the outgoing borrow.
// dst may alias a or b.
func limbSub(dst, a, b []uint32, n int, borrow uint32) uint32 {
	for i := 0; i < n; i++ {
		dst[i], borrow = bits.Sub32(a[i], b[i], borrow)
	}
	return borrow
}

// limbMulAdd accumulates src*factor into dst over n limbs and returns the
// outgoing carry. This is the inner step of schoolbook multiplication.
func limbMulAdd(dst, src []uint32, n int, factor, carry uint32) uint32 {
	c := uint64(carry)
	for i := 0; i < n; i++ {
		// worst case (R-1) + (R-1)*(R-1) + (R-1) = R*R-1 still fits 64 bits
		c += uint64(dst[i]) + uint64(src[i])*uint64(factor)
		dst[i] = uint32(c)
		c >>= limbBits
	}
	return uint32(c)
}

// limbDivOne divides the n-limb buffer a by a single limb in place, from the
// most significant limb down, and returns the remainder. rem must be smaller
// than divisor on entry (0 for a plain division).
func limbDivOne(a []uint32, n int, divisor, rem uint32) uint32 {
	for i := n - 1; i >= 0; i-- {
		cur := uint64(rem)<<limbBits | uint64(a[i])
		a[i] = uint32(cur / uint64(divisor))
		rem = uint32(cur % uint64(divisor))
	}
	return rem
}

// limbModOne runs the same top-down iteration as limbDivOne without writing
// the quotient back, and returns the remainder.
func limbModOne(a []uint32, n int, divisor, rem uint32) uint32 {
	for i := n - 1; i >= 0; i-- {
		cur := uint64(rem)<<limbBits | uint64(a[i])
		rem = uint32(cur % uint64(divisor))
	}
	return rem
}
