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

// toBig converts a BigInt into a math/big value for cross-checking.
func toBig(b *BigInt) *big.Int {
	return new(big.Int).SetBytes(b.Save(0))
}

// fromBig loads a math/big value into the arena.
func fromBig(a *Arena, x *big.Int) *BigInt {
	return a.Load(x.Bytes())
}

// randomBig returns a random value of up to maxLimbs limbs.
func randomBig(r *mrand.Rand, maxLimbs int) *big.Int {
	n := 1 + r.Intn(maxLimbs)
	buf := make([]byte, n*4)
	r.Read(buf)
	return new(big.Int).SetBytes(buf)
}

func TestLoadSaveRoundTrip(t *testing.T) {
	a := NewArena()
	r := mrand.New(mrand.NewSource(1))

	for i := 0; i < 100; i++ {
		want := randomBig(r, 20)
		v := fromBig(a, want)
		got := new(big.Int).SetBytes(v.Save(0))
		assert.Zero(t, want.Cmp(got))
		v.Release()
	}

	t.Run("zero", func(t *testing.T) {
		v := a.AllocateFrom(0)
		assert.Equal(t, []byte{0}, v.Save(0))
		v.Release()
	})

	t.Run("padding", func(t *testing.T) {
		v := a.AllocateFrom(0x1234)
		assert.Equal(t, []byte{0, 0, 0x12, 0x34}, v.Save(4))
		v.Release()
	})

	require.NoError(t, a.Close())
}

func TestCompare(t *testing.T) {
	a := NewArena()
	r := mrand.New(mrand.NewSource(2))

	for i := 0; i < 100; i++ {
		x, y := randomBig(r, 8), randomBig(r, 8)
		bx, by := fromBig(a, x), fromBig(a, y)
		assert.Equal(t, x.Cmp(y), bx.Compare(by))
		assert.Zero(t, bx.Compare(bx))
		bx.Release()
		by.Release()
	}

	t.Run("single limb", func(t *testing.T) {
		v := a.AllocateFrom(7)
		assert.Equal(t, 0, v.CompareUint(7))
		assert.Equal(t, 1, v.CompareUint(6))
		assert.Equal(t, -1, v.CompareUint(8))
		v.Release()
	})

	require.NoError(t, a.Close())
}

func TestAddSub(t *testing.T) {
	a := NewArena()
	r := mrand.New(mrand.NewSource(3))

	for i := 0; i < 200; i++ {
		x, y := randomBig(r, 12), randomBig(r, 12)

		sum := fromBig(a, x).Add(fromBig(a, y))
		assert.Zero(t, new(big.Int).Add(x, y).Cmp(toBig(sum)))
		sum.Release()

		diff, negative := fromBig(a, x).Sub(fromBig(a, y))
		wantDiff := new(big.Int).Sub(x, y)
		assert.Equal(t, wantDiff.Sign() < 0, negative)
		assert.Zero(t, wantDiff.Abs(wantDiff).Cmp(toBig(diff)))
		diff.Release()
	}

	t.Run("carry growth", func(t *testing.T) {
		v := a.AllocateFromHex("ffffffffffffffff")
		v = v.Add(a.AllocateFrom(1))
		assert.Equal(t, "10000000000000000", v.ToHexString())
		v.Release()
	})

	require.NoError(t, a.Close())
}

func TestMulSquare(t *testing.T) {
	a := NewArena()
	r := mrand.New(mrand.NewSource(4))

	for i := 0; i < 100; i++ {
		x, y := randomBig(r, 10), randomBig(r, 10)

		prod := fromBig(a, x).Mul(fromBig(a, y))
		assert.Zero(t, new(big.Int).Mul(x, y).Cmp(toBig(prod)))
		prod.Release()

		sq := fromBig(a, x).Square()
		assert.Zero(t, new(big.Int).Mul(x, x).Cmp(toBig(sq)))
		sq.Release()
	}

	require.NoError(t, a.Close())
}

func TestIntOps(t *testing.T) {
	a := NewArena()
	r := mrand.New(mrand.NewSource(5))

	for i := 0; i < 100; i++ {
		x := randomBig(r, 8)
		u := uint32(r.Int63n(1<<32-2)) + 1

		prod := fromBig(a, x).IntMul(u)
		assert.Zero(t, new(big.Int).Mul(x, big.NewInt(int64(u))).Cmp(toBig(prod)))
		prod.Release()

		quo := fromBig(a, x).IntDiv(u)
		assert.Zero(t, new(big.Int).Div(x, big.NewInt(int64(u))).Cmp(toBig(quo)))
		quo.Release()

		v := fromBig(a, x)
		rem := v.IntMod(u)
		assert.Equal(t, new(big.Int).Mod(x, big.NewInt(int64(u))).Uint64(), uint64(rem))
		v.Release()

		sum := fromBig(a, x).IntAdd(u)
		assert.Zero(t, new(big.Int).Add(x, big.NewInt(int64(u))).Cmp(toBig(sum)))
		if sum.CompareUint(u) >= 0 {
			back := sum.IntSub(u)
			assert.Zero(t, x.Cmp(toBig(back)))
			back.Release()
		} else {
			sum.Release()
		}
	}

	t.Run("div mod 10", func(t *testing.T) {
		v := a.AllocateFrom(1234567)
		assert.Equal(t, uint32(7), v.IntDivMod10())
		assert.Equal(t, 0, v.CompareUint(123456))
		v.Release()
	})

	require.NoError(t, a.Close())
}

func TestShifts(t *testing.T) {
	a := NewArena()
	r := mrand.New(mrand.NewSource(6))

	for i := 0; i < 100; i++ {
		x := randomBig(r, 8)
		k := r.Intn(130)

		shl := fromBig(a, x).ShlBits(k)
		assert.Zero(t, new(big.Int).Lsh(x, uint(k)).Cmp(toBig(shl)))
		shl.Release()

		shr := fromBig(a, x).ShrBits(k)
		assert.Zero(t, new(big.Int).Rsh(x, uint(k)).Cmp(toBig(shr)))
		shr.Release()
	}

	require.NoError(t, a.Close())
}

func TestBitQueries(t *testing.T) {
	a := NewArena()
	r := mrand.New(mrand.NewSource(7))

	for i := 0; i < 100; i++ {
		x := randomBig(r, 8)
		v := fromBig(a, x)

		assert.Equal(t, x.BitLen(), v.BitCount())
		assert.Equal(t, x.BitLen()-1, v.FindMaxBit())
		if x.Sign() != 0 {
			assert.Equal(t, int(x.TrailingZeroBits()), v.FindMinBit())
		}
		setBits := 0
		for _, w := range x.Bits() {
			for ; w != 0; w &= w - 1 {
				setBits++
			}
		}
		assert.Equal(t, setBits, v.BitSetCount())
		assert.Equal(t, x.Bit(0) == 0, v.IsEven())
		assert.Equal(t, x.Bit(7) != 0, v.BitIsSet(7))
		v.Release()
	}

	t.Run("zero", func(t *testing.T) {
		v := a.AllocateFrom(0)
		assert.True(t, v.IsZero())
		assert.Zero(t, v.BitCount())
		assert.Equal(t, -1, v.FindMaxBit())
		assert.Equal(t, -1, v.FindMinBit())
		v.Release()
	})

	require.NoError(t, a.Close())
}

func TestTextRendering(t *testing.T) {
	a := NewArena()
	r := mrand.New(mrand.NewSource(8))

	for i := 0; i < 50; i++ {
		x := randomBig(r, 6)
		v := fromBig(a, x)
		assert.Equal(t, x.Text(16), v.ToHexString())
		assert.Equal(t, x.String(), v.ToText())

		back := a.AllocateFromHex(v.ToHexString())
		assert.Zero(t, v.Compare(back))
		back.Release()
		v.Release()
	}

	t.Run("malformed hex", func(t *testing.T) {
		assert.Nil(t, a.AllocateFromHex("12g4"))
		assert.Nil(t, a.AllocateFromHex(""))
	})

	require.NoError(t, a.Close())
}

func TestGcd(t *testing.T) {
	a := NewArena()
	r := mrand.New(mrand.NewSource(9))

	for i := 0; i < 50; i++ {
		x := randomBig(r, 6)
		y := randomBig(r, 6)
		if x.Sign() == 0 || y.Sign() == 0 {
			continue
		}
		bx, by := fromBig(a, x), fromBig(a, y)
		g := bx.Gcd(by)
		assert.Zero(t, new(big.Int).GCD(nil, nil, x, y).Cmp(toBig(g)))
		g.Release()
		bx.Release()
		by.Release()
	}

	t.Run("zero operand", func(t *testing.T) {
		bx := a.AllocateFrom(0)
		by := a.AllocateFrom(5)
		assert.Panics(t, func() { bx.Gcd(by) })
		bx.Release()
		by.Release()
	})

	require.NoError(t, a.Close())
}
