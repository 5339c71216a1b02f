// Copyright (c) 2025 The PoCX developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package standalone

import (
	"encoding/binary"
	"math"

	"github.com/decred/dcrd/math/uint256"
)

const (
	// timeBendP and timeBendQ are the fixed-point precisions of the
	// deadline transform: P fractional bits for the quality scaling and Q
	// fractional bits for the scale factor.
	timeBendP = 21
	timeBendQ = 42

	// gammaFourThirdsQ42 is the Gamma function at 4/3 in Q42 fixed point:
	// 0.892979511 * 2^42 = 3927365422840.906, rounded.
	gammaFourThirdsQ42 = 3927365422841
)

// divRoundHalfUp returns numer/denom rounded half up, in place in numer.
func divRoundHalfUp(numer, denom *uint256.Uint256) *uint256.Uint256 {
	half := new(uint256.Uint256).RshVal(denom, 1)
	return numer.Add(half).Div(denom)
}

// calcQualityScale derives the Q42 fixed-point scale factor that maps cube
// roots of difficulty-adjusted qualities onto seconds with a mean equal to
// the target block spacing:
//
//	SCALE_Q = (T << 2Q) / ((cbrt(T << 3Q) * Gamma(4/3)) >> Q)
func calcQualityScale(targetSpacing int64) uint256.Uint256 {
	t := new(uint256.Uint256).SetUint64(uint64(targetSpacing))

	scaled := new(uint256.Uint256).Set(t)
	scaled.Lsh(3 * timeBendQ)
	tCbrt := CubeRoot(scaled)

	numer := new(uint256.Uint256).Set(t)
	numer.Lsh(2 * timeBendQ)

	gamma := new(uint256.Uint256).SetUint64(gammaFourThirdsQ42)
	denom := new(uint256.Uint256).Set(&tCbrt)
	denom.Mul(gamma).Rsh(timeBendQ)

	return *divRoundHalfUp(numer, denom)
}

// CalcTimeBentDeadline transforms a raw 64-bit quality into the number of
// seconds a miner must wait after the previous block before it may publish.
//
// The raw quality over the base target is an exponentially distributed
// waiting time; the cube root reshapes it into a chi-squared-like
// distribution which thins out the pathologically short inter-block gaps
// while keeping the mean at the target spacing.  All arithmetic is
// fixed-point over 256-bit integers so the result is bit-for-bit
// reproducible across implementations.  The final division rounds half up
// and the result is truncated to its low 64 bits.
//
// A zero quality always maps to a zero deadline.
func CalcTimeBentDeadline(quality, baseTarget uint64, targetSpacing int64) uint64 {
	if quality == 0 {
		return 0
	}
	if baseTarget == 0 {
		return math.MaxUint64
	}

	scaleQ := calcQualityScale(targetSpacing)

	v := new(uint256.Uint256).SetUint64(quality)
	v.Lsh(3 * timeBendP)
	v.Div(new(uint256.Uint256).SetUint64(baseTarget))
	r := CubeRoot(v)

	numer := new(uint256.Uint256).Set(&scaleQ)
	numer.Mul(&r)
	denom := new(uint256.Uint256).SetUint64(1)
	denom.Lsh(timeBendP + timeBendQ)

	// Truncate to the low 64 bits.
	rounded := divRoundHalfUp(numer, denom).Bytes()
	return binary.BigEndian.Uint64(rounded[24:])
}
