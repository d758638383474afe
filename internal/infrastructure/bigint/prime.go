package bigint

import (
	"fmt"
	"math/bits"
	"time"
)

// SievePrime selects how far the small-prime sieve reaches before
// Miller-Rabin takes over.
type SievePrime int

const (
	// SieveFast stops at 53: enough to reject most random candidates.
	SieveFast SievePrime = iota
	// SieveMost stops at 1999.
	SieveMost
	// SieveAll walks the whole table up to 17989.
	SieveAll
)

// Number of primes covered per mode, as indices into smallPrimesDelta
// (the table starts at 2; 53, 1999 and 17989 are the mode bounds).
func (s SievePrime) primeCount() int {
	switch s {
	case SieveFast:
		return 16
	case SieveMost:
		return 303
	default:
		return len(smallPrimesDelta) + 1
	}
}

// fipsMinTopLimb is ceil(2^31.5): keeping the top 32 bits of a candidate
// at or above it guarantees value >= 2^(bits-0.5), the FIPS 186-4 prime
// density floor.
const fipsMinTopLimb = 0xB504F334

// fipsTopPatch is ORed into a candidate's top limb when it falls below
// the density floor.
const fipsTopPatch = 0xB5050000

// EntropySource supplies random bytes for prime candidate construction
// and Miller-Rabin bases.
type EntropySource interface {
	// FillRandom overwrites buf from the audited system source.
	FillRandom(buf []byte) error
	// XorRandom XORs an independent CSPRNG stream over buf.
	XorRandom(buf []byte)
}

// millerRabinIterations returns the FIPS 186-4 minimum Miller-Rabin
// round count for a candidate of the given bit length.
func millerRabinIterations(bitCount int) int {
	switch {
	case bitCount >= 1450:
		return 4
	case bitCount >= 1150:
		return 5
	case bitCount >= 1000:
		return 6
	case bitCount >= 850:
		return 7
	case bitCount >= 750:
		return 8
	case bitCount >= 500:
		return 13
	case bitCount >= 250:
		return 28
	case bitCount >= 150:
		return 40
	default:
		return 51
	}
}

// MatchKnownPrime reports whether the value is divisible by 2 or by any
// sieved prime within the mode's bound.
func (b *BigInt) MatchKnownPrime(ext SievePrime) bool {
	if b.IsZero() {
		return false
	}
	if b.IsEven() {
		return true
	}
	count := ext.primeCount()
	p := uint32(2)
	for i := 0; i < count-1; i++ {
		p += uint32(smallPrimesDelta[i])
		if limbModOne(b.limbs, b.size, p, 0) == 0 {
			return true
		}
	}
	return false
}

// IsPrime runs the sieve and then the requested number of Miller-Rabin
// rounds (the FIPS minimum for the value's size when iterations is zero).
// Returns false when the random source cannot produce a usable witness
// after 30 attempts, treating the PRNG as broken.
func (b *BigInt) IsPrime(ext SievePrime, iterations int, src EntropySource) bool {
	b.Trim()
	if b.size == 1 {
		switch b.limbs[0] {
		case 0, 1:
			return false
		case 2:
			return true
		}
	}
	if b.MatchKnownPrime(ext) {
		return false
	}
	if iterations <= 0 {
		iterations = millerRabinIterations(b.BitCount())
	}
	a := b.owner

	// b-1 = r * 2^s with r odd
	bm1, _ := b.Clone().Sub(a.AllocateFrom(1))
	s := bm1.FindMinBit()
	r := bm1.Clone().ShrBits(s)
	defer func() {
		bm1.Release()
		r.Release()
	}()

	topMask := uint32(1)<<uint(bits.Len32(b.limbs[b.size-1])) - 1
	buf := make([]byte, b.size*limbBytes)
	defer WipeBytes(buf)

	for i := 0; i < iterations; i++ {
		w := b.pickWitness(bm1, topMask, buf, src)
		if w == nil {
			return false
		}
		y := a.ModPower(w, r.Clone(), b)
		if y.CompareUint(1) != 0 && y.Compare(bm1) != 0 {
			composite := true
			for j := 1; j < s; j++ {
				y = a.Reduce(y.Square(), b)
				if y.Compare(bm1) == 0 {
					composite = false
					break
				}
				if y.CompareUint(1) == 0 {
					break
				}
			}
			if composite {
				y.Release()
				return false
			}
		}
		y.Release()
	}
	return true
}

// pickWitness draws a random 1 < w < b-1 with the candidate's limb count,
// masking the top limb down to the candidate's bit range. Gives up after
// 30 draws, which only happens when the PRNG is too weak to trust.
func (b *BigInt) pickWitness(bm1 *BigInt, topMask uint32, buf []byte, src EntropySource) *BigInt {
	a := b.owner
	for attempt := 0; attempt < 30; attempt++ {
		if err := src.FillRandom(buf); err != nil {
			return nil
		}
		src.XorRandom(buf)
		w := a.allocate(b.size, false)
		w.setBytes(buf)
		w.limbs[b.size-1] &= topMask
		w.limbs[0] |= 1
		w.Trim()
		if w.BitCount() <= 1 || w.Compare(bm1) >= 0 {
			w.Release()
			continue
		}
		return w
	}
	return nil
}

// FillPrime overwrites the value with a random prime of its current limb
// count, following the FIPS 186-4 generation protocol: seed from the
// audited system source, decorrelate with the CSPRNG stream, enforce
// one-third bit density and the 2^(bits-0.5) floor, then search upward in
// steps of two until the deadline.
func (b *BigInt) FillPrime(ext SievePrime, iterations int, deadline time.Time, src EntropySource) error {
	if b.refCnt != 1 {
		panic("bigint: FillPrime needs a uniquely owned value")
	}
	n := b.size
	bitCount := n * limbBits
	minIter := millerRabinIterations(bitCount)
	if iterations < minIter {
		iterations = minIter
	}
	buf := make([]byte, n*limbBytes)
	defer WipeBytes(buf)
	if err := src.FillRandom(buf); err != nil {
		return fmt.Errorf("prime seed: %w", err)
	}
	for {
		// reroll through the CSPRNG stream until the density is plausible
		density := 0
		for {
			src.XorRandom(buf)
			b.size = n
			b.setBytes(buf)
			if b.BitSetCount() >= bitCount/3 {
				break
			}
			density++
			if density >= 16 {
				return fmt.Errorf("bit density below one third after %d rerolls: %w",
					density, ErrWeakRandomness)
			}
		}
		b.limbs[0] |= 1
		if b.limbs[n-1] < fipsMinTopLimb {
			b.limbs[n-1] |= fipsTopPatch
		}
		for {
			if time.Now().After(deadline) {
				return fmt.Errorf("prime search deadline exceeded: %w", ErrTimeout)
			}
			if b.IsPrime(ext, iterations, src) {
				return nil
			}
			b.IntAdd(2)
			if b.size != n || b.limbs[n-1] < fipsMinTopLimb {
				// walked past the top of the range: draw a fresh candidate
				break
			}
		}
	}
}
