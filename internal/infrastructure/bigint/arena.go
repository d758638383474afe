package bigint

import (
	"errors"
	"fmt"
)

// Sentinel errors of the arithmetic core. Callers discriminate with
// errors.Is; higher layers wrap them with fmt.Errorf("...: %w", err).
var (
	// ErrMisuse flags a programmer error such as promoting a shared value
	// to permanent or releasing a value into a foreign arena.
	ErrMisuse = errors.New("bigint: misuse")
	// ErrWeakRandomness is returned when the random source fails the
	// bit-density check of prime generation 16 times in a row. A witness
	// draw in IsPrime that keeps failing does not return it: IsPrime then
	// reports the candidate as not prime.
	ErrWeakRandomness = errors.New("bigint: weak randomness")
	// ErrTimeout is returned when a prime search exceeds its deadline.
	ErrTimeout = errors.New("bigint: timeout")
)

// ModuloSlot selects one of the three long-lived modulos an arena caches
// for its owner: the RSA modulus and the two secret primes.
type ModuloSlot int

const (
	ModuloMain ModuloSlot = iota
	ModuloPrime1
	ModuloPrime2
	moduloSlots
)

// Arena owns a pool of BigInt values. Released values are kept on a LIFO
// free list for reuse; WipeReleased zero-fills them after sensitive work.
// An arena and every value it owns must only ever be used by one goroutine
// at a time.
type Arena struct {
	freeList    *BigInt
	activeCount int
	freeCount   int
	// currentModulo selects which cached modulo Reduce and ModPower use
	// when the caller passes nil.
	currentModulo ModuloSlot
	mod           [moduloSlots]*BigInt
	normMod       [moduloSlots]*BigInt
}

// NewArena returns an empty arena.
func NewArena() *Arena {
	return &Arena{}
}

// nextGrow is the capacity policy used when a pooled buffer has to be
// reallocated for n limbs.
func nextGrow(n int) int {
	return n + n>>2 + 4
}

func (a *Arena) allocate(n int, zero bool) *BigInt {
	if n <= 0 {
		panic("bigint: allocate with non-positive limb count")
	}
	b := a.freeList
	if b != nil {
		a.freeList = b.nextFree
		a.freeCount--
		b.nextFree = nil
		if len(b.limbs) < n {
			b.limbs = make([]uint32, nextGrow(n))
		}
	} else {
		b = &BigInt{owner: a, limbs: make([]uint32, nextGrow(n))}
	}
	b.size = n
	b.refCnt = 1
	if zero {
		clear(b.limbs[:n])
	}
	a.activeCount++
	return b
}

// Allocate returns a zeroed value of n limbs, reusing the free list head
// when one is available.
func (a *Arena) Allocate(n int) *BigInt {
	return a.allocate(n, true)
}

// AllocateFrom returns a one-limb value equal to u.
func (a *Arena) AllocateFrom(u uint32) *BigInt {
	b := a.allocate(1, false)
	b.limbs[0] = u
	return b
}

// AllocateFromHex parses display-order (most significant digit first)
// hexadecimal text into a value. Returns nil on malformed input.
func (a *Arena) AllocateFromHex(s string) *BigInt {
	if s == "" {
		return nil
	}
	n := (len(s) + 2*limbBytes - 1) / (2 * limbBytes)
	b := a.Allocate(n)
	limb, shift, li := uint32(0), uint(0), 0
	for i := len(s) - 1; i >= 0; i-- {
		var d uint32
		switch c := s[i]; {
		case c >= '0' && c <= '9':
			d = uint32(c - '0')
		case c >= 'a' && c <= 'f':
			d = uint32(c-'a') + 10
		case c >= 'A' && c <= 'F':
			d = uint32(c-'A') + 10
		default:
			b.Release()
			return nil
		}
		limb |= d << shift
		shift += 4
		if shift == limbBits {
			b.limbs[li] = limb
			li++
			limb, shift = 0, 0
		}
	}
	if shift != 0 {
		b.limbs[li] = limb
	}
	return b.Trim()
}

// Load converts a big-endian byte buffer into a value, swapping into
// little-endian limb order.
func (a *Arena) Load(data []byte) *BigInt {
	if len(data) == 0 {
		return a.AllocateFrom(0)
	}
	n := (len(data) + limbBytes - 1) / limbBytes
	b := a.Allocate(n)
	limb, shift, li := uint32(0), uint(0), 0
	for i := len(data) - 1; i >= 0; i-- {
		limb |= uint32(data[i]) << shift
		shift += 8
		if shift == limbBits {
			b.limbs[li] = limb
			li++
			limb, shift = 0, 0
		}
	}
	if shift != 0 {
		b.limbs[li] = limb
	}
	return b.Trim()
}

// Release returns v to the arena free list once its reference count drops
// to zero. Releasing a permanent value is a silent no-op: permanents are
// demoted explicitly through ResetPermanent.
func (a *Arena) Release(v *BigInt) {
	if v == nil || v.refCnt < 0 {
		return
	}
	if v.owner != a {
		panic("bigint: release across arenas")
	}
	if v.refCnt == 0 {
		panic("bigint: release of an already released value")
	}
	v.refCnt--
	if v.refCnt > 0 {
		return
	}
	v.nextFree = a.freeList
	a.freeList = v
	a.freeCount++
	a.activeCount--
}

// WipeReleased zero-fills every buffer on the free list, so transient
// copies of key material do not linger after private-key operations.
func (a *Arena) WipeReleased() {
	for b := a.freeList; b != nil; b = b.nextFree {
		wipeLimbs(b.limbs)
	}
}

// SetModulo installs v as the permanent modulo for slot and precomputes
// its Knuth-normalized companion v*d with d = R/(top limb + 1). v must be
// uniquely owned by the caller.
func (a *Arena) SetModulo(v *BigInt, slot ModuloSlot) error {
	if a.mod[slot] != nil {
		return fmt.Errorf("modulo slot %d already set: %w", slot, ErrMisuse)
	}
	v.Trim()
	if err := v.SetPermanent(); err != nil {
		return err
	}
	norm := v.Copy().IntMul(normFactor(v))
	if err := norm.SetPermanent(); err != nil {
		return err
	}
	a.mod[slot] = v
	a.normMod[slot] = norm
	return nil
}

// ResetModulo demotes and releases the cached modulo pair for slot.
func (a *Arena) ResetModulo(slot ModuloSlot) error {
	if a.mod[slot] == nil {
		return fmt.Errorf("modulo slot %d not set: %w", slot, ErrMisuse)
	}
	if err := a.normMod[slot].ResetPermanent(); err != nil {
		return err
	}
	a.normMod[slot].Release()
	a.normMod[slot] = nil
	if err := a.mod[slot].ResetPermanent(); err != nil {
		return err
	}
	a.mod[slot].Release()
	a.mod[slot] = nil
	return nil
}

// SetCurrentModulo selects which cached modulo Reduce and ModPower use for
// a nil modulus argument.
func (a *Arena) SetCurrentModulo(slot ModuloSlot) {
	a.currentModulo = slot
}

// ActiveCount reports how many values are currently checked out.
func (a *Arena) ActiveCount() int {
	return a.activeCount
}

// Close wipes every pooled buffer and the cached modulos. It reports a
// leak instead of succeeding silently when values are still checked out.
func (a *Arena) Close() error {
	for slot := ModuloSlot(0); slot < moduloSlots; slot++ {
		if a.mod[slot] != nil {
			if err := a.ResetModulo(slot); err != nil {
				return err
			}
		}
	}
	a.WipeReleased()
	a.freeList = nil
	a.freeCount = 0
	if a.activeCount != 0 {
		return fmt.Errorf("arena closed with %d live values: %w", a.activeCount, ErrMisuse)
	}
	return nil
}

// normFactor returns d = R / (top limb + 1), the pre-normalization factor
// that makes a divisor's top limb at least R/2 for Knuth's Algorithm D.
func normFactor(v *BigInt) uint32 {
	top := uint64(v.limbs[v.size-1])
	return uint32(limbRadix / (top + 1))
}
