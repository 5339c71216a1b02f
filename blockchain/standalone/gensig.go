// Copyright (c) 2025 The PoCX developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package standalone

import (
	"github.com/decred/dcrd/chaincfg/chainhash"
)

// CalcNextGenSig returns the generation signature of the block following the
// one identified by the provided generation signature and forger account.
// It is the canonical chain hash of the previous signature concatenated with
// the previous winner's 20-byte account identifier, which makes the schedule
// deterministic while remaining unpredictable until each block is forged.
func CalcNextGenSig(prevGenSig *chainhash.Hash, prevAccountID *[20]byte) chainhash.Hash {
	buf := make([]byte, 0, chainhash.HashSize+20)
	buf = append(buf, prevGenSig[:]...)
	buf = append(buf, prevAccountID[:]...)
	return chainhash.HashH(buf)
}
