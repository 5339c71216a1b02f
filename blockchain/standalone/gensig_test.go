// Copyright (c) 2025 The PoCX developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package standalone

import (
	"testing"

	"github.com/decred/dcrd/chaincfg/chainhash"
)

// TestCalcNextGenSig ensures the generation signature schedule is
// deterministic, sensitive to both inputs, and chains without collisions
// over a short walk.
func TestCalcNextGenSig(t *testing.T) {
	var prev chainhash.Hash
	var account [20]byte
	copy(account[:], "some-plot-account-id")

	first := CalcNextGenSig(&prev, &account)
	second := CalcNextGenSig(&prev, &account)
	if first != second {
		t.Fatal("generation signature schedule is not deterministic")
	}

	var otherAccount [20]byte
	copy(otherAccount[:], "another-plot-account")
	if CalcNextGenSig(&prev, &otherAccount) == first {
		t.Fatal("schedule ignores the account identifier")
	}

	otherPrev := first
	if CalcNextGenSig(&otherPrev, &account) == first {
		t.Fatal("schedule ignores the previous signature")
	}

	// Walk the schedule forward and ensure no short cycles appear.
	seen := map[chainhash.Hash]struct{}{prev: {}}
	cur := prev
	for i := 0; i < 1000; i++ {
		cur = CalcNextGenSig(&cur, &account)
		if _, ok := seen[cur]; ok {
			t.Fatalf("schedule cycled after %d steps", i+1)
		}
		seen[cur] = struct{}{}
	}
}

// TestCompressionBounds ensures the stepwise schedule matches the
// year-anchored thresholds and the target always tracks the minimum.
func TestCompressionBounds(t *testing.T) {
	const interval = 210000
	yearBlocks := int64(interval / 4)

	tests := []struct {
		height int64
		min    uint32
	}{
		{0, 1},
		{4*yearBlocks - 1, 1},
		{4 * yearBlocks, 2},
		{12*yearBlocks - 1, 2},
		{12 * yearBlocks, 3},
		{28 * yearBlocks, 4},
		{60 * yearBlocks, 5},
		{124 * yearBlocks, 6},
		{1000 * yearBlocks, 6},
	}

	for _, test := range tests {
		bounds := CalcCompressionBounds(test.height, interval)
		if bounds.Min != test.min {
			t.Errorf("height %d: min mismatch -- got %d, want %d",
				test.height, bounds.Min, test.min)
		}
		if bounds.Target != bounds.Min+1 {
			t.Errorf("height %d: target %d is not min+1", test.height,
				bounds.Target)
		}

		if err := CheckCompressionBounds(bounds.Min, test.height, interval); err != nil {
			t.Errorf("height %d: min rejected: %v", test.height, err)
		}
		if err := CheckCompressionBounds(bounds.Target, test.height, interval); err != nil {
			t.Errorf("height %d: target rejected: %v", test.height, err)
		}
		err := CheckCompressionBounds(bounds.Target+1, test.height, interval)
		if err == nil {
			t.Errorf("height %d: out of bounds level accepted", test.height)
		}
		if bounds.Min > 1 {
			err := CheckCompressionBounds(bounds.Min-1, test.height, interval)
			if err == nil {
				t.Errorf("height %d: stale level accepted", test.height)
			}
		}
	}
}
