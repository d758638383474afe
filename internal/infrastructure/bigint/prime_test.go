//go:build unit
// +build unit

package bigint

import (
	"crypto/rand"
	"errors"
	"math/big"
	mrand "math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testEntropy is a deterministic EntropySource for reproducible prime
// tests.
type testEntropy struct {
	r *mrand.Rand
}

func newTestEntropy(seed int64) *testEntropy {
	return &testEntropy{r: mrand.New(mrand.NewSource(seed))}
}

func (e *testEntropy) FillRandom(buf []byte) error {
	e.r.Read(buf)
	return nil
}

func (e *testEntropy) XorRandom(buf []byte) {
	tmp := make([]byte, len(buf))
	e.r.Read(tmp)
	for i := range buf {
		buf[i] ^= tmp[i]
	}
}

// brokenEntropy always produces all-zero bytes.
type brokenEntropy struct{}

func (brokenEntropy) FillRandom(buf []byte) error {
	for i := range buf {
		buf[i] = 0
	}
	return nil
}

func (brokenEntropy) XorRandom(buf []byte) {}

func TestMatchKnownPrime(t *testing.T) {
	a := NewArena()

	for _, tt := range []struct {
		name    string
		decimal string
		ext     SievePrime
		want    bool
	}{
		{"even", "123456", SieveFast, true},
		{"multiple of three", "10000000000000002", SieveFast, true},
		{"carmichael 561", "561", SieveFast, true},
		{"1729", "1729", SieveFast, true},
		{"73*137 passes the fast sieve", "10001", SieveFast, false},
		{"73*137 caught by the wide sieve", "10001", SieveMost, true},
		{"large prime", "18446744073709551557", SieveAll, false},
	} {
		t.Run(tt.name, func(t *testing.T) {
			x, ok := new(big.Int).SetString(tt.decimal, 10)
			require.True(t, ok)
			v := fromBig(a, x)
			assert.Equal(t, tt.want, v.MatchKnownPrime(tt.ext))
			v.Release()
		})
	}

	require.NoError(t, a.Close())
}

func TestIsPrime(t *testing.T) {
	a := NewArena()
	src := newTestEntropy(30)

	carmichael := []string{"561", "1729", "2821", "6601"}
	for _, s := range carmichael {
		x, _ := new(big.Int).SetString(s, 10)
		v := fromBig(a, x)
		assert.False(t, v.IsPrime(SieveFast, 5, src), "%s with the fast sieve", s)
		assert.False(t, v.IsPrime(SieveMost, 20, src), "%s with the wide sieve", s)
		v.Release()
	}

	t.Run("known primes", func(t *testing.T) {
		for _, s := range []string{
			"65537",
			"2305843009213693951",  // 2^61-1
			"18446744073709551557", // largest 64-bit prime
		} {
			x, _ := new(big.Int).SetString(s, 10)
			v := fromBig(a, x)
			assert.True(t, v.IsPrime(SieveFast, 10, src), s)
			v.Release()
		}
	})

	t.Run("agrees with crypto rand primes", func(t *testing.T) {
		for i := 0; i < 3; i++ {
			p, err := rand.Prime(rand.Reader, 256)
			require.NoError(t, err)
			v := fromBig(a, p)
			assert.True(t, v.IsPrime(SieveMost, 0, src))
			v.Release()

			// the product of two primes is always rejected
			q, err := rand.Prime(rand.Reader, 256)
			require.NoError(t, err)
			c := fromBig(a, new(big.Int).Mul(p, q))
			assert.False(t, c.IsPrime(SieveMost, 0, src))
			c.Release()
		}
	})

	t.Run("small cases", func(t *testing.T) {
		for u, want := range map[uint32]bool{0: false, 1: false, 2: true} {
			v := a.AllocateFrom(u)
			assert.Equal(t, want, v.IsPrime(SieveFast, 5, src))
			v.Release()
		}
	})

	require.NoError(t, a.Close())
}

func TestMillerRabinIterations(t *testing.T) {
	assert.Equal(t, 4, millerRabinIterations(2048))
	assert.Equal(t, 4, millerRabinIterations(1450))
	assert.Equal(t, 5, millerRabinIterations(1200))
	assert.Equal(t, 6, millerRabinIterations(1024))
	assert.Equal(t, 7, millerRabinIterations(900))
	assert.Equal(t, 8, millerRabinIterations(768))
	assert.Equal(t, 13, millerRabinIterations(512))
	assert.Equal(t, 28, millerRabinIterations(256))
	assert.Equal(t, 40, millerRabinIterations(150))
	assert.Equal(t, 51, millerRabinIterations(128))
}

func TestFillPrime(t *testing.T) {
	a := NewArena()
	src := newTestEntropy(31)

	v := a.Allocate(8) // 256-bit candidate
	require.NoError(t, v.FillPrime(SieveMost, 0, time.Now().Add(30*time.Second), src))

	assert.Equal(t, 256, v.BitCount())
	assert.True(t, v.IsOdd())
	assert.True(t, v.IsPrime(SieveMost, 0, src))
	// FIPS density floor on the top 32 bits
	assert.GreaterOrEqual(t, v.limbs[7], uint32(fipsMinTopLimb))

	// and math/big agrees it is prime
	assert.True(t, toBig(v).ProbablyPrime(32))

	v.Release()
	require.NoError(t, a.Close())
}

func TestFillPrimeDeadline(t *testing.T) {
	a := NewArena()
	src := newTestEntropy(32)

	v := a.Allocate(8)
	err := v.FillPrime(SieveMost, 0, time.Now().Add(-time.Second), src)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrTimeout))

	v.Release()
	require.NoError(t, a.Close())
}

func TestFillPrimeWeakRandomness(t *testing.T) {
	a := NewArena()

	v := a.Allocate(8)
	err := v.FillPrime(SieveMost, 0, time.Now().Add(time.Second), brokenEntropy{})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrWeakRandomness))

	v.Release()
	require.NoError(t, a.Close())
}
