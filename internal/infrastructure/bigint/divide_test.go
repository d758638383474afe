//go:build unit
// +build unit

package bigint

import (
	"math/big"
	mrand "math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDivMod(t *testing.T) {
	a := NewArena()
	r := mrand.New(mrand.NewSource(10))

	for i := 0; i < 200; i++ {
		x := randomBig(r, 16)
		y := randomBig(r, 1+r.Intn(8))
		if y.Sign() == 0 {
			continue
		}

		q, rem := fromBig(a, x).DivMod(fromBig(a, y))
		wantQ, wantR := new(big.Int).QuoRem(x, y, new(big.Int))
		assert.Zero(t, wantQ.Cmp(toBig(q)), "quotient for %v / %v", x, y)
		assert.Zero(t, wantR.Cmp(toBig(rem)), "remainder for %v / %v", x, y)

		// remainder is strictly below the divisor and q*y+r restores x
		yv := fromBig(a, y)
		assert.Negative(t, rem.Compare(yv))
		yv.Release()
		restored := q.Mul(fromBig(a, y)).Add(rem)
		assert.Zero(t, x.Cmp(toBig(restored)))
		restored.Release()
	}

	require.NoError(t, a.Close())
}

func TestDivModFastPaths(t *testing.T) {
	a := NewArena()

	t.Run("dividend smaller than divisor", func(t *testing.T) {
		q, rem := a.AllocateFrom(5).DivMod(a.AllocateFromHex("ffffffffffffffff"))
		assert.True(t, q.IsZero())
		assert.Equal(t, 0, rem.CompareUint(5))
		q.Release()
		rem.Release()
	})

	t.Run("single limb divisor", func(t *testing.T) {
		q, rem := a.AllocateFromHex("123456789abcdef0").DivMod(a.AllocateFrom(0x10))
		assert.Equal(t, "123456789abcdef", q.ToHexString())
		assert.Equal(t, 0, rem.CompareUint(0))
		q.Release()
		rem.Release()
	})

	t.Run("division by zero", func(t *testing.T) {
		x := a.AllocateFrom(5)
		y := a.AllocateFrom(0)
		assert.Panics(t, func() { x.DivMod(y) })
		x.Release()
		y.Release()
	})

	require.NoError(t, a.Close())
}

func TestModWithCachedModulo(t *testing.T) {
	a := NewArena()
	r := mrand.New(mrand.NewSource(11))

	mBig := randomBig(r, 8)
	mBig.SetBit(mBig, 255, 1) // force a full 8-limb modulus
	m := fromBig(a, mBig)
	require.NoError(t, a.SetModulo(m, ModuloMain))
	a.SetCurrentModulo(ModuloMain)

	for i := 0; i < 100; i++ {
		x := randomBig(r, 16)
		got := a.Reduce(fromBig(a, x), nil)
		want := new(big.Int).Mod(x, mBig)
		assert.Zero(t, want.Cmp(toBig(got)))
		got.Release()
	}

	require.NoError(t, a.Close())
}
