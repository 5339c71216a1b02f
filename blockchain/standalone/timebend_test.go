// Copyright (c) 2025 The PoCX developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package standalone

import (
	"math/big"
	"testing"
)

// bigTimeBentDeadline mirrors the fixed-point deadline transform with
// arbitrary-precision arithmetic.  The consensus implementation must agree
// with it bit for bit, which is how the suite regenerates its golden
// values.
func bigTimeBentDeadline(quality, baseTarget uint64, targetSpacing int64) uint64 {
	if quality == 0 {
		return 0
	}
	const p = 21
	const q = 42
	gamma := big.NewInt(3927365422841)

	divRoundHalfUp := func(numer, denom *big.Int) *big.Int {
		half := new(big.Int).Rsh(denom, 1)
		return new(big.Int).Div(new(big.Int).Add(numer, half), denom)
	}

	t := new(big.Int).SetInt64(targetSpacing)
	tCbrt := bigCubeRoot(new(big.Int).Lsh(t, 3*q))
	scaleNumer := new(big.Int).Lsh(t, 2*q)
	scaleDenom := new(big.Int).Rsh(new(big.Int).Mul(tCbrt, gamma), q)
	scaleQ := divRoundHalfUp(scaleNumer, scaleDenom)

	v := new(big.Int).Lsh(new(big.Int).SetUint64(quality), 3*p)
	v.Div(v, new(big.Int).SetUint64(baseTarget))
	r := bigCubeRoot(v)

	numer := new(big.Int).Mul(scaleQ, r)
	denom := new(big.Int).Lsh(big.NewInt(1), p+q)
	rounded := divRoundHalfUp(numer, denom)

	// Truncate to the low 64 bits.
	mask := new(big.Int).SetUint64(^uint64(0))
	return new(big.Int).And(rounded, mask).Uint64()
}

// TestTimeBentDeadlineZero ensures the zero quality always maps to a zero
// deadline.
func TestTimeBentDeadlineZero(t *testing.T) {
	if got := CalcTimeBentDeadline(0, 12345, 600); got != 0 {
		t.Fatalf("zero quality produced deadline %d", got)
	}
}

// TestTimeBentDeadlineCrossCheck regenerates deadlines with an independent
// big integer implementation across a spread of qualities, base targets
// and spacings and requires exact agreement.
func TestTimeBentDeadlineCrossCheck(t *testing.T) {
	const mainnetBaseTarget = (1 << 42) / 600
	const regnetBaseTarget = (1 << 60) / 10

	tests := []struct {
		name       string
		quality    uint64
		baseTarget uint64
		spacing    int64
	}{
		{"mid-range quality at mainnet calibration", 1 << 63, mainnetBaseTarget, 600},
		{"small quality", 1, mainnetBaseTarget, 600},
		{"max quality", ^uint64(0), mainnetBaseTarget, 600},
		{"regnet calibration", 1 << 50, regnetBaseTarget, 10},
		{"base target one", 123456789, 1, 600},
		{"spacing one", 1 << 40, mainnetBaseTarget, 1},
		{"two minute spacing", 1 << 45, (1 << 42) / 120, 120},
	}
	for _, test := range tests {
		got := CalcTimeBentDeadline(test.quality, test.baseTarget,
			test.spacing)
		want := bigTimeBentDeadline(test.quality, test.baseTarget,
			test.spacing)
		if got != want {
			t.Errorf("%s: deadline mismatch -- got %d, want %d", test.name,
				got, want)
		}
	}

	// Sweep a deterministic pseudo-random sample.
	state := uint64(0x9e3779b97f4a7c15)
	next := func() uint64 {
		state ^= state << 13
		state ^= state >> 7
		state ^= state << 17
		return state
	}
	for i := 0; i < 200; i++ {
		quality := next()
		baseTarget := next()%mainnetBaseTarget + 1
		got := CalcTimeBentDeadline(quality, baseTarget, 600)
		want := bigTimeBentDeadline(quality, baseTarget, 600)
		if got != want {
			t.Fatalf("deadline mismatch for quality %d base target %d -- "+
				"got %d, want %d", quality, baseTarget, got, want)
		}
	}
}

// TestTimeBentDeadlineMonotone ensures a strictly larger quality never
// produces a smaller deadline at a fixed base target.
func TestTimeBentDeadlineMonotone(t *testing.T) {
	const baseTarget = (1 << 42) / 600
	var prev uint64
	for shift := uint(0); shift < 64; shift++ {
		got := CalcTimeBentDeadline(1<<shift, baseTarget, 600)
		if got < prev {
			t.Fatalf("deadline decreased from %d to %d at quality 2^%d",
				prev, got, shift)
		}
		prev = got
	}
}
