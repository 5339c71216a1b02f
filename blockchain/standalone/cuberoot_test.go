// Copyright (c) 2025 The PoCX developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package standalone

import (
	"math/big"
	"testing"

	"github.com/decred/dcrd/math/uint256"
)

// uint256ToBig converts a uint256 to a big.Int through its big-endian byte
// representation.
func uint256ToBig(n *uint256.Uint256) *big.Int {
	b := n.Bytes()
	return new(big.Int).SetBytes(b[:])
}

// bigCubeRoot returns the floor cube root of the provided big integer using
// an independent arbitrary-precision bisection, for cross-checking.
func bigCubeRoot(x *big.Int) *big.Int {
	if x.Sign() == 0 {
		return new(big.Int)
	}
	lo := new(big.Int)
	hi := new(big.Int).SetInt64(1)
	three := big.NewInt(3)
	for new(big.Int).Exp(hi, three, nil).Cmp(x) < 0 {
		hi.Lsh(hi, 1)
	}
	lo.Rsh(hi, 1)
	one := big.NewInt(1)
	for lo.Cmp(hi) < 0 {
		mid := new(big.Int).Add(lo, hi)
		mid.Add(mid, one).Rsh(mid, 1)
		if new(big.Int).Exp(mid, three, nil).Cmp(x) <= 0 {
			lo.Set(mid)
		} else {
			hi.Sub(mid, one)
		}
	}
	return lo
}

// TestCubeRoot ensures the integer cube root returns the exact floor for a
// spread of interesting values.
func TestCubeRoot(t *testing.T) {
	tests := []struct {
		name string
		n    string // value in base 10
		want string // expected cube root in base 10
	}{{
		name: "zero",
		n:    "0",
		want: "0",
	}, {
		name: "one",
		n:    "1",
		want: "1",
	}, {
		name: "seven is below the first nontrivial cube",
		n:    "7",
		want: "1",
	}, {
		name: "eight is a perfect cube",
		n:    "8",
		want: "2",
	}, {
		name: "just below a large perfect cube",
		n:    "999999999999999999999999999999",
		want: "99999",
	}, {
		name: "2^192",
		n:    "6277101735386680763835789423207666416102355444464034512896",
		want: "18446744073709551616",
	}}

	for _, test := range tests {
		bigN, ok := new(big.Int).SetString(test.n, 10)
		if !ok {
			t.Fatalf("%s: malformed test value", test.name)
		}
		want, ok := new(big.Int).SetString(test.want, 10)
		if !ok {
			t.Fatalf("%s: malformed expected value", test.name)
		}

		n := new(uint256.Uint256).SetBig(bigN)
		result := CubeRoot(n)
		if got := uint256ToBig(&result); got.Cmp(want) != 0 {
			t.Errorf("%s: mismatch -- got %v, want %v", test.name, got,
				want)
		}
	}
}

// TestCubeRootFloorInvariant cross-checks the uint256 implementation
// against an independent big.Int implementation and verifies the floor
// property r^3 <= x < (r+1)^3 on pseudo-random values.
func TestCubeRootFloorInvariant(t *testing.T) {
	three := big.NewInt(3)
	one := big.NewInt(1)

	// Simple deterministic xorshift so the test does not depend on the
	// random source.
	state := uint64(0x2545f4914f6cdd1d)
	next := func() uint64 {
		state ^= state << 13
		state ^= state >> 7
		state ^= state << 17
		return state
	}

	for i := 0; i < 200; i++ {
		bigX := new(big.Int)
		words := int(next()%3) + 1
		for w := 0; w < words; w++ {
			bigX.Lsh(bigX, 64)
			bigX.Or(bigX, new(big.Int).SetUint64(next()))
		}

		x := new(uint256.Uint256).SetBig(new(big.Int).Set(bigX))
		result := CubeRoot(x)
		got := uint256ToBig(&result)
		if want := bigCubeRoot(bigX); got.Cmp(want) != 0 {
			t.Fatalf("cube root mismatch for %v -- got %v, want %v", bigX,
				got, want)
		}

		if new(big.Int).Exp(got, three, nil).Cmp(bigX) > 0 {
			t.Fatalf("cube root %v of %v exceeds the floor", got, bigX)
		}
		rPlus := new(big.Int).Add(got, one)
		if new(big.Int).Exp(rPlus, three, nil).Cmp(bigX) <= 0 {
			t.Fatalf("cube root %v of %v is below the floor", got, bigX)
		}
	}
}
