// Copyright (c) 2019-2021 The Decred developers
// Copyright (c) 2025 The PoCX developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package standalone

import (
	"github.com/decred/dcrd/chaincfg/chainhash"
)

// CalcMerkleRootInPlace is an in-place version of CalcMerkleRoot that
// reuses the backing array of the provided slice to perform the calculation
// thereby preventing extra allocations.  It is the caller's responsibility
// to ensure it is acceptable to mutate the entries in the provided slice.
func CalcMerkleRootInPlace(leaves []chainhash.Hash) chainhash.Hash {
	if len(leaves) == 0 {
		return chainhash.Hash{}
	}

	// Create a buffer to reuse for hashing the branches and some long lived
	// slices into it to avoid reslicing.
	var buf [2 * chainhash.HashSize]byte
	left := buf[0:chainhash.HashSize]
	right := buf[chainhash.HashSize:]

	// The following algorithm works by replacing the leftmost entries in the
	// slice with the concatenations of each subsequent set of 2 hashes and
	// shrinking the slice by half to account for the fact that each level of
	// the tree is half the size of the previous one.  In the case a level is
	// unbalanced (there is no final right child), the final node is paired
	// with itself.
	for len(leaves) > 1 {
		// When there is no right child, the parent is generated by hashing
		// the concatenation of the left child with itself.
		paired := len(leaves) &^ 1
		for i := 0; i < paired; i += 2 {
			copy(left, leaves[i][:])
			copy(right, leaves[i+1][:])
			leaves[i/2] = chainhash.HashH(buf[:])
		}
		if paired != len(leaves) {
			copy(left, leaves[paired][:])
			copy(right, leaves[paired][:])
			leaves[paired/2] = chainhash.HashH(buf[:])
		}
		leaves = leaves[:(len(leaves)+1)/2]
	}

	return leaves[0]
}

// CalcMerkleRoot calculates and returns a merkle root from a slice of leaf
// hashes.
func CalcMerkleRoot(leaves []chainhash.Hash) chainhash.Hash {
	shallowCopy := make([]chainhash.Hash, len(leaves))
	copy(shallowCopy, leaves)
	return CalcMerkleRootInPlace(shallowCopy)
}
