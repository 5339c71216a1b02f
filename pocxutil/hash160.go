// Copyright (c) 2025 The PoCX developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package pocxutil

import (
	"crypto/sha256"

	"github.com/decred/dcrd/crypto/ripemd160"
)

// Hash160 calculates the hash ripemd160(sha256(b)).
func Hash160(b []byte) []byte {
	h := sha256.Sum256(b)
	hasher := ripemd160.New()
	hasher.Write(h[:])
	return hasher.Sum(nil)
}

// AccountID returns the 20-byte account identifier for a serialized
// compressed public key.
func AccountID(serializedPubKey []byte) [20]byte {
	var id [20]byte
	copy(id[:], Hash160(serializedPubKey))
	return id
}
