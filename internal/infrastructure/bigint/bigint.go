// Package bigint implements arena-pooled multi-precision unsigned integer
// arithmetic sized for RSA work: schoolbook multiplication over 32-bit
// half-limbs, Knuth Algorithm D division, modular exponentiation with
// cached normalized modulos, and FIPS 186-4 prime generation.
//
// Values are reference counted with copy-on-write semantics and owned by
// exactly one Arena. The arithmetic methods follow a consume-on-use
// discipline: an operation that documents itself as consuming an operand
// releases it back to the arena before returning.
package bigint

import (
	"fmt"
	"math/bits"
	"runtime"
	"strings"
)

// BigInt is an arbitrary-size unsigned integer backed by an arena buffer.
// limbs[0] is the least significant limb; size is the number of meaningful
// limbs and is never zero for a live value (logical zero is size=1,
// limbs[0]=0). refCnt is -1 for permanent values, 0 while pooled on the
// free list, and the share count otherwise.
type BigInt struct {
	owner    *Arena
	limbs    []uint32
	size     int
	refCnt   int32
	nextFree *BigInt
}

// Owner returns the arena this value belongs to.
func (b *BigInt) Owner() *Arena {
	return b.owner
}

// Size returns the number of meaningful limbs.
func (b *BigInt) Size() int {
	return b.size
}

// Copy returns a copy-on-write handle: permanents are returned as
// themselves with the reference count unchanged, everything else gets its
// share count bumped. The pointer identity is preserved either way.
func (b *BigInt) Copy() *BigInt {
	if b.refCnt >= 0 {
		b.refCnt++
	}
	return b
}

// Clone returns a deep copy with its own buffer.
func (b *BigInt) Clone() *BigInt {
	c := b.owner.allocate(b.size, false)
	copy(c.limbs[:b.size], b.limbs[:b.size])
	return c
}

// Release hands the value back to its arena. No-op for permanents.
func (b *BigInt) Release() {
	b.owner.Release(b)
}

// SetPermanent marks a uniquely-owned value as long-lived key material
// that ordinary Release calls must not reclaim.
func (b *BigInt) SetPermanent() error {
	if b.refCnt != 1 {
		return fmt.Errorf("set permanent on value with refcount %d: %w", b.refCnt, ErrMisuse)
	}
	b.refCnt = -1
	return nil
}

// ResetPermanent demotes a permanent value back to an ordinary uniquely
// owned one so it can be released.
func (b *BigInt) ResetPermanent() error {
	if b.refCnt != -1 {
		return fmt.Errorf("reset permanent on value with refcount %d: %w", b.refCnt, ErrMisuse)
	}
	b.refCnt = 1
	return nil
}

// IsPermanent reports whether the value is marked permanent.
func (b *BigInt) IsPermanent() bool {
	return b.refCnt == -1
}

// unshare returns a uniquely owned value equal to b, cloning first when b
// is shared or permanent. In-place mutators call it so copy-on-write
// handles never observe a changed value.
func (b *BigInt) unshare() *BigInt {
	if b.refCnt == 1 {
		return b
	}
	c := b.Clone()
	b.Release()
	return c
}

// grow extends the value to n limbs, zero-filling the extension and
// reallocating the buffer when the capacity is exhausted.
func (b *BigInt) grow(n int) {
	if n <= b.size {
		return
	}
	if len(b.limbs) < n {
		nl := make([]uint32, nextGrow(n))
		copy(nl, b.limbs[:b.size])
		b.limbs = nl
	}
	clear(b.limbs[b.size:n])
	b.size = n
}

// Trim strips leading zero limbs, clamping size to at least one limb.
// Idempotent; the numeric value never changes.
func (b *BigInt) Trim() *BigInt {
	for b.size > 1 && b.limbs[b.size-1] == 0 {
		b.size--
	}
	return b
}

// IsZero reports whether the value is zero.
func (b *BigInt) IsZero() bool {
	for i := 0; i < b.size; i++ {
		if b.limbs[i] != 0 {
			return false
		}
	}
	return true
}

// IsEven reports whether the low bit is clear.
func (b *BigInt) IsEven() bool {
	return b.limbs[0]&1 == 0
}

// IsOdd reports whether the low bit is set.
func (b *BigInt) IsOdd() bool {
	return b.limbs[0]&1 != 0
}

// BitIsSet reports whether bit k is set.
func (b *BigInt) BitIsSet(k int) bool {
	limb := k / limbBits
	if limb >= b.size {
		return false
	}
	return b.limbs[limb]&(1<<uint(k%limbBits)) != 0
}

// BitCount returns the position of the highest set bit plus one, i.e. the
// bit length. Zero for a zero value.
func (b *BigInt) BitCount() int {
	b.Trim()
	top := b.limbs[b.size-1]
	if top == 0 {
		return 0
	}
	return (b.size-1)*limbBits + bits.Len32(top)
}

// FindMaxBit returns the index of the highest set bit, -1 for zero.
func (b *BigInt) FindMaxBit() int {
	return b.BitCount() - 1
}

// FindMinBit returns the index of the lowest set bit, -1 for zero.
func (b *BigInt) FindMinBit() int {
	for i := 0; i < b.size; i++ {
		if b.limbs[i] != 0 {
			return i*limbBits + bits.TrailingZeros32(b.limbs[i])
		}
	}
	return -1
}

// BitSetCount returns the number of set bits.
func (b *BigInt) BitSetCount() int {
	n := 0
	for i := 0; i < b.size; i++ {
		n += bits.OnesCount32(b.limbs[i])
	}
	return n
}

// Compare returns -1, 0 or +1 ordering b against other. Both values are
// trimmed first; neither is consumed.
func (b *BigInt) Compare(other *BigInt) int {
	b.Trim()
	other.Trim()
	if b.size != other.size {
		if b.size > other.size {
			return 1
		}
		return -1
	}
	for i := b.size - 1; i >= 0; i-- {
		if b.limbs[i] != other.limbs[i] {
			if b.limbs[i] > other.limbs[i] {
				return 1
			}
			return -1
		}
	}
	return 0
}

// CompareAndRelease compares b against other, then releases both.
func (b *BigInt) CompareAndRelease(other *BigInt) int {
	r := b.Compare(other)
	b.Release()
	other.Release()
	return r
}

// CompareUint orders b against a single limb value.
func (b *BigInt) CompareUint(u uint32) int {
	b.Trim()
	if b.size > 1 {
		return 1
	}
	if b.limbs[0] != u {
		if b.limbs[0] > u {
			return 1
		}
		return -1
	}
	return 0
}

// Add sets b to b+other in place, growing by one limb for a final carry.
// Consumes other; returns the (possibly relocated) sum.
func (b *BigInt) Add(other *BigInt) *BigInt {
	b = b.unshare()
	if b.size < other.size {
		b.grow(other.size)
	}
	carry := limbAdd(b.limbs, b.limbs, other.limbs, other.size, 0)
	for i := other.size; carry != 0 && i < b.size; i++ {
		b.limbs[i], carry = bits.Add32(b.limbs[i], 0, carry)
	}
	if carry != 0 {
		b.grow(b.size + 1)
		b.limbs[b.size-1] = carry
	}
	other.Release()
	return b.Trim()
}

// Sub sets b to |b-other| in place and reports whether the true result was
// negative (other was larger). Consumes other.
func (b *BigInt) Sub(other *BigInt) (res *BigInt, negative bool) {
	b = b.unshare()
	if b.size < other.size {
		b.grow(other.size)
	}
	borrow := limbSub(b.limbs, b.limbs, other.limbs, other.size, 0)
	for i := other.size; borrow != 0 && i < b.size; i++ {
		b.limbs[i], borrow = bits.Sub32(b.limbs[i], 0, borrow)
	}
	if borrow != 0 {
		// two's complement fixup turns the wrapped result into |b-other|
		negative = true
		for i := 0; i < b.size; i++ {
			b.limbs[i] = ^b.limbs[i]
		}
		carry := uint32(1)
		for i := 0; carry != 0 && i < b.size; i++ {
			b.limbs[i], carry = bits.Add32(b.limbs[i], 0, carry)
		}
	}
	other.Release()
	return b.Trim(), negative
}

// Mul returns b*other as a fresh value of size b.size+other.size, using
// schoolbook multiplication. Consumes both operands.
func (b *BigInt) Mul(other *BigInt) *BigInt {
	b.Trim()
	other.Trim()
	r := b.owner.Allocate(b.size + other.size)
	for i := 0; i < other.size; i++ {
		f := other.limbs[i]
		if f == 0 {
			continue
		}
		r.limbs[i+b.size] = limbMulAdd(r.limbs[i:], b.limbs, b.size, f, 0)
	}
	b.Release()
	other.Release()
	return r.Trim()
}

// Square returns b*b, consuming b.
func (b *BigInt) Square() *BigInt {
	return b.Mul(b.Copy())
}

// IntMul returns b*u as a fresh value, consuming b.
func (b *BigInt) IntMul(u uint32) *BigInt {
	b.Trim()
	r := b.owner.allocate(b.size+1, true)
	r.limbs[b.size] = limbMulAdd(r.limbs, b.limbs, b.size, u, 0)
	b.Release()
	return r.Trim()
}

// IntAdd adds a single limb in place, growing on a final carry.
func (b *BigInt) IntAdd(u uint32) *BigInt {
	b = b.unshare()
	carry := u
	for i := 0; carry != 0 && i < b.size; i++ {
		b.limbs[i], carry = bits.Add32(b.limbs[i], 0, carry)
	}
	if carry != 0 {
		b.grow(b.size + 1)
		b.limbs[b.size-1] = carry
	}
	return b
}

// IntSub subtracts a single limb in place. The value must be at least u.
func (b *BigInt) IntSub(u uint32) *BigInt {
	b = b.unshare()
	borrow := u
	for i := 0; borrow != 0 && i < b.size; i++ {
		b.limbs[i], borrow = bits.Sub32(b.limbs[i], 0, borrow)
	}
	if borrow != 0 {
		panic("bigint: IntSub underflow")
	}
	return b.Trim()
}

// IntDiv divides in place by a single limb, discarding the remainder.
func (b *BigInt) IntDiv(u uint32) *BigInt {
	b = b.unshare()
	limbDivOne(b.limbs, b.size, u, 0)
	return b.Trim()
}

// IntMod returns the remainder of b by a single limb without mutating b.
func (b *BigInt) IntMod(u uint32) uint32 {
	return limbModOne(b.limbs, b.size, u, 0)
}

// IntDivMod10 divides in place by ten and returns the remainder digit.
// This is the workhorse of decimal rendering.
func (b *BigInt) IntDivMod10() uint32 {
	r := limbDivOne(b.limbs, b.size, 10, 0)
	b.Trim()
	return r
}

// ShlBits shifts left by k bits in place, splitting the work into a
// whole-limb move and a sub-limb carry pass.
func (b *BigInt) ShlBits(k int) *BigInt {
	if k <= 0 || b.IsZero() {
		return b
	}
	b = b.unshare()
	limbShift, bitShift := k/limbBits, uint(k%limbBits)
	n := b.size
	b.grow(n + limbShift + 1)
	if bitShift == 0 {
		for i := n - 1; i >= 0; i-- {
			b.limbs[i+limbShift] = b.limbs[i]
		}
	} else {
		b.limbs[n+limbShift] = b.limbs[n-1] >> (limbBits - bitShift)
		for i := n - 1; i > 0; i-- {
			b.limbs[i+limbShift] = b.limbs[i]<<bitShift | b.limbs[i-1]>>(limbBits-bitShift)
		}
		b.limbs[limbShift] = b.limbs[0] << bitShift
	}
	clear(b.limbs[:limbShift])
	return b.Trim()
}

// ShrBits shifts right by k bits in place.
func (b *BigInt) ShrBits(k int) *BigInt {
	if k <= 0 {
		return b
	}
	b = b.unshare()
	limbShift, bitShift := k/limbBits, uint(k%limbBits)
	if limbShift >= b.size {
		b.size = 1
		b.limbs[0] = 0
		return b
	}
	n := b.size - limbShift
	if bitShift == 0 {
		copy(b.limbs[:n], b.limbs[limbShift:limbShift+n])
	} else {
		for i := 0; i < n-1; i++ {
			b.limbs[i] = b.limbs[i+limbShift]>>bitShift | b.limbs[i+limbShift+1]<<(limbBits-bitShift)
		}
		b.limbs[n-1] = b.limbs[b.size-1] >> bitShift
	}
	b.size = n
	return b.Trim()
}

// Gcd returns the greatest common divisor of b and other as a fresh value,
// computed with the binary (Stein) algorithm. Both operands must be
// nonzero and are left untouched.
func (b *BigInt) Gcd(other *BigInt) *BigInt {
	if b.IsZero() || other.IsZero() {
		panic("bigint: gcd of a zero value")
	}
	u, v := b.Clone(), other.Clone()
	shift := 0
	for u.IsEven() && v.IsEven() {
		u.ShrBits(1)
		v.ShrBits(1)
		shift++
	}
	for u.IsEven() {
		u.ShrBits(1)
	}
	for {
		for v.IsEven() {
			v.ShrBits(1)
		}
		if u.Compare(v) > 0 {
			u, v = v, u
		}
		v, _ = v.Sub(u.Copy())
		if v.IsZero() {
			v.Release()
			break
		}
	}
	return u.ShlBits(shift)
}

// setBytes overwrites the value with a big-endian byte buffer, keeping the
// current limb count. The buffer must be exactly size*4 bytes.
func (b *BigInt) setBytes(data []byte) {
	if len(data) != b.size*limbBytes {
		panic("bigint: setBytes length mismatch")
	}
	li := 0
	for i := len(data); i > 0; i -= limbBytes {
		b.limbs[li] = uint32(data[i-1]) | uint32(data[i-2])<<8 |
			uint32(data[i-3])<<16 | uint32(data[i-4])<<24
		li++
	}
}

// Save serializes to big-endian bytes, left-padded with zeros up to padLen
// when that exceeds the natural length. padLen 0 means natural length.
func (b *BigInt) Save(padLen int) []byte {
	b.Trim()
	n := (b.BitCount() + 7) / 8
	if n == 0 {
		n = 1
	}
	if padLen < n {
		padLen = n
	}
	out := make([]byte, padLen)
	for i := 0; i < n; i++ {
		out[padLen-1-i] = byte(b.limbs[i/limbBytes] >> (8 * uint(i%limbBytes)))
	}
	return out
}

// SaveAndRelease serializes like Save, then releases the value.
func (b *BigInt) SaveAndRelease(padLen int) []byte {
	out := b.Save(padLen)
	b.Release()
	return out
}

// ToHexString renders the value in display order (most significant first).
func (b *BigInt) ToHexString() string {
	b.Trim()
	var sb strings.Builder
	fmt.Fprintf(&sb, "%x", b.limbs[b.size-1])
	for i := b.size - 2; i >= 0; i-- {
		fmt.Fprintf(&sb, "%08x", b.limbs[i])
	}
	return sb.String()
}

// ToText renders the value in decimal.
func (b *BigInt) ToText() string {
	t := b.Clone()
	var digits []byte
	for {
		r := t.IntDivMod10()
		digits = append(digits, '0'+byte(r))
		if t.IsZero() {
			break
		}
	}
	t.Release()
	for i, j := 0, len(digits)-1; i < j; i, j = i+1, j-1 {
		digits[i], digits[j] = digits[j], digits[i]
	}
	return string(digits)
}

// wipeLimbs zero-fills a limb buffer. The write must survive optimization:
// pooled buffers hold key material and the whole point is that it is gone.
func wipeLimbs(limbs []uint32) {
	for i := range limbs {
		limbs[i] = 0
	}
	runtime.KeepAlive(&limbs)
}

// WipeBytes zero-fills a byte buffer the same way; key records use it.
func WipeBytes(data []byte) {
	for i := range data {
		data[i] = 0
	}
	runtime.KeepAlive(&data)
}
