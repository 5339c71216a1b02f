// Copyright (c) 2025 The PoCX developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package standalone

import (
	"github.com/decred/dcrd/math/uint256"
)

// cubeVal returns n^3 as a new uint256.  Like all uint256 arithmetic the
// result is mod 2^256, which callers must account for when choosing search
// bounds.
func cubeVal(n *uint256.Uint256) *uint256.Uint256 {
	r := new(uint256.Uint256).Set(n)
	r.Mul(n)
	r.Mul(n)
	return r
}

// CubeRoot returns the integer cube root of the provided unsigned 256-bit
// integer, which is to say the largest r such that r^3 <= x.
//
// The implementation is a bisection: the upper bound is doubled until its
// cube exceeds x and a standard midpoint loop narrows the bracket to the
// exact floor.
func CubeRoot(x *uint256.Uint256) uint256.Uint256 {
	if x.IsZero() {
		return uint256.Uint256{}
	}

	hi := new(uint256.Uint256).SetUint64(1)
	for cubeVal(hi).Lt(x) {
		hi.Lsh(1)
	}
	lo := new(uint256.Uint256).RshVal(hi, 1)

	for lo.Lt(hi) {
		mid := new(uint256.Uint256).Set(lo)
		mid.Add(hi).AddUint64(1).Rsh(1)
		if cubeVal(mid).Gt(x) {
			hi.Set(mid).SubUint64(1)
		} else {
			lo.Set(mid)
		}
	}
	return *lo
}
