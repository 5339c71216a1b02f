// Copyright (c) 2025 The PoCX developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package plot

import (
	"encoding/hex"
	"errors"
	"testing"
)

// TestCalculateScoop ensures the scoop selection matches the pinned
// reference vector and always stays in range.
func TestCalculateScoop(t *testing.T) {
	var gensig [32]byte
	b, err := hex.DecodeString("9821beb3b34d9a3b30127c05f8d1e9006f8a02f5" +
		"65a3572145134bbe34d37a76")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	copy(gensig[:], b)

	if got := CalculateScoop(0, &gensig); got != 667 {
		t.Fatalf("scoop mismatch -- got %d, want 667", got)
	}

	// Range property over a spread of heights.
	for height := uint64(0); height < 1000; height += 37 {
		if got := CalculateScoop(height, &gensig); got >= NumScoops {
			t.Fatalf("scoop %d for height %d out of range", got, height)
		}
	}
}

// TestGenerateScoopMatchesPlot ensures the compression level 1 synthesized
// scoop is the XOR of the corresponding scoops of its two source nonces in
// a generated plot.
func TestGenerateScoopMatchesPlot(t *testing.T) {
	const scoop = 667
	const nonce = 5

	scoopData, err := GenerateScoop(&testAccountID, &testSeed, scoop, nonce, 1)
	if err != nil {
		t.Fatalf("GenerateScoop: unexpected error: %v", err)
	}

	// Compression 1 folds nonces 2*warp*NumScoops+nonceInWarp (at the
	// scoop index) and (2*warp+1)*NumScoops+scoop (at the nonce-in-warp
	// index).
	cache := make([]byte, NonceSize)
	var want [ScoopSize]byte
	if err := GenerateNonces(cache, 0, &testAccountID, &testSeed, nonce, 1); err != nil {
		t.Fatalf("GenerateNonces: unexpected error: %v", err)
	}
	copy(want[:], cache[scoop*ScoopSize:])
	if err := GenerateNonces(cache, 0, &testAccountID, &testSeed,
		NumScoops+scoop, 1); err != nil {
		t.Fatalf("GenerateNonces: unexpected error: %v", err)
	}
	for i := 0; i < ScoopSize; i++ {
		want[i] ^= cache[nonce*ScoopSize+i]
	}

	if scoopData != want {
		t.Fatal("synthesized scoop does not match plot-derived scoop")
	}
}

// TestCalculateQualityDeterminism ensures quality evaluation is pure.
func TestCalculateQualityDeterminism(t *testing.T) {
	var gensig [32]byte
	for i := range gensig {
		gensig[i] = byte(i)
	}

	first, err := CalculateQuality(&testAccountID, &testSeed, 9001, 1, 12,
		&gensig)
	if err != nil {
		t.Fatalf("CalculateQuality: unexpected error: %v", err)
	}
	second, err := CalculateQuality(&testAccountID, &testSeed, 9001, 1, 12,
		&gensig)
	if err != nil {
		t.Fatalf("CalculateQuality: unexpected error: %v", err)
	}
	if first != second {
		t.Fatalf("quality evaluation is not deterministic -- %d vs %d",
			first, second)
	}
}

// TestGenerateScoopErrors ensures scoop synthesis rejects out of range
// arguments.
func TestGenerateScoopErrors(t *testing.T) {
	_, err := GenerateScoop(&testAccountID, &testSeed, NumScoops, 0, 1)
	if !errors.Is(err, ErrScoopOutOfRange) {
		t.Errorf("unexpected error for bad scoop -- got %v, want %v", err,
			ErrScoopOutOfRange)
	}

	_, err = GenerateScoop(&testAccountID, &testSeed, 0, 0, MaxCompression+1)
	if !errors.Is(err, ErrCompressionOutOfRange) {
		t.Errorf("unexpected error for bad compression -- got %v, want %v",
			err, ErrCompressionOutOfRange)
	}
}
